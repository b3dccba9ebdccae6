package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"ingredient-analyzer/internal/pkg/common"
)

const modelFormatVersion = 1

// LinearModel TF-IDF 特徵加上多類別邏輯迴歸
type LinearModel struct {
	Version    int            `json:"version"`
	TrainedAt  time.Time      `json:"trained_at"`
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
	Classes    []string       `json:"classes"`
	Weights    [][]float64    `json:"weights"`
	Intercepts []float64      `json:"intercepts"`
}

// LoadLinearModel 從 JSON 檔案載入模型
func LoadLinearModel(path string) (*LinearModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	defer f.Close()

	var m LinearModel
	if err := common.DecodeJSONStrict(f, &m); err != nil {
		return nil, fmt.Errorf("parse model: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("invalid model %s: %w", path, err)
	}
	return &m, nil
}

// Save 寫入 JSON 檔案
func (m *LinearModel) Save(path string) error {
	if err := m.validate(); err != nil {
		return err
	}
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create model dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	return nil
}

func (m *LinearModel) validate() error {
	if m.Version != modelFormatVersion {
		return fmt.Errorf("unsupported model version %d", m.Version)
	}
	if len(m.Classes) == 0 {
		return errors.New("model has no classes")
	}
	if len(m.Weights) != len(m.Classes) || len(m.Intercepts) != len(m.Classes) {
		return errors.New("weights do not match classes")
	}
	for _, row := range m.Weights {
		if len(row) != len(m.IDF) {
			return errors.New("weights do not match vocabulary")
		}
	}
	for term, idx := range m.Vocabulary {
		if idx < 0 || idx >= len(m.IDF) {
			return fmt.Errorf("vocabulary index out of range for %q", term)
		}
	}
	return nil
}

// Predict 回傳分數最高的類別
func (m *LinearModel) Predict(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	probs := m.PredictProba(text)
	best := 0
	for k := 1; k < len(probs); k++ {
		if probs[k] > probs[best] {
			best = k
		}
	}
	return m.Classes[best], nil
}

// PredictProba 各類別的機率，順序同 Classes
func (m *LinearModel) PredictProba(text string) []float64 {
	return softmax(m.scores(m.vectorize(text)))
}

func (m *LinearModel) scores(x sparseVector) []float64 {
	out := make([]float64, len(m.Classes))
	for k := range m.Classes {
		s := m.Intercepts[k]
		w := m.Weights[k]
		for _, f := range x {
			s += w[f.index] * f.value
		}
		out[k] = s
	}
	return out
}

type feature struct {
	index int
	value float64
}

type sparseVector []feature

// vectorize 詞頻乘上 IDF 後做 L2 正規化
func (m *LinearModel) vectorize(text string) sparseVector {
	counts := make(map[int]float64)
	var order []int
	for _, term := range analyze(text) {
		idx, ok := m.Vocabulary[term]
		if !ok {
			continue
		}
		if _, seen := counts[idx]; !seen {
			order = append(order, idx)
		}
		counts[idx]++
	}

	vec := make(sparseVector, 0, len(order))
	norm := 0.0
	for _, idx := range order {
		v := counts[idx] * m.IDF[idx]
		vec = append(vec, feature{index: idx, value: v})
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i].value /= norm
		}
	}
	return vec
}

// analyze 轉小寫後取出長度至少 2 的字詞
func analyze(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return r != '_' && !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	terms := words[:0]
	for _, w := range words {
		if len([]rune(w)) >= 2 {
			terms = append(terms, w)
		}
	}
	return terms
}

func softmax(scores []float64) []float64 {
	out := make([]float64, len(scores))
	if len(scores) == 0 {
		return out
	}
	maxScore := scores[0]
	for _, s := range scores[1:] {
		maxScore = math.Max(maxScore, s)
	}
	sum := 0.0
	for i, s := range scores {
		out[i] = math.Exp(s - maxScore)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
