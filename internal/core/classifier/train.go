package classifier

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"time"
)

// Sample 一筆訓練資料
type Sample struct {
	Text  string
	Label string
}

// TrainOptions 訓練參數
type TrainOptions struct {
	TestSize     float64 // 驗證集比例，0 表示不做驗證
	Seed         int64
	Iterations   int
	LearningRate float64
	C            float64 // L2 正則化強度的倒數
}

// DefaultTrainOptions 預設訓練參數
func DefaultTrainOptions() TrainOptions {
	return TrainOptions{
		TestSize:     0.3,
		Seed:         42,
		Iterations:   1500,
		LearningRate: 0.5,
		C:            1.0,
	}
}

// Train 先以分層抽樣的驗證集評估，再用全部資料重新訓練
// 驗證集為空時 Evaluation 為 nil
func Train(samples []Sample, opts TrainOptions) (*LinearModel, *Evaluation, error) {
	var eval *Evaluation
	if opts.TestSize > 0 {
		train, test := StratifiedSplit(samples, opts.TestSize, opts.Seed)
		if len(test) > 0 {
			model, err := Fit(train, opts)
			if err != nil {
				return nil, nil, fmt.Errorf("fit validation model: %w", err)
			}
			eval = Evaluate(model, test)
		}
	}

	model, err := Fit(samples, opts)
	if err != nil {
		return nil, nil, err
	}
	return model, eval, nil
}

// Fit 以批次梯度下降訓練模型
func Fit(samples []Sample, opts TrainOptions) (*LinearModel, error) {
	if len(samples) == 0 {
		return nil, errors.New("no training samples")
	}
	if opts.Iterations <= 0 || opts.LearningRate <= 0 || opts.C <= 0 {
		return nil, errors.New("iterations, learning rate and C must be positive")
	}

	classes := uniqueLabels(samples)
	if len(classes) < 2 {
		return nil, fmt.Errorf("need at least two classes, got %d", len(classes))
	}
	classIndex := make(map[string]int, len(classes))
	for i, c := range classes {
		classIndex[c] = i
	}

	m := &LinearModel{
		Version:   modelFormatVersion,
		TrainedAt: time.Now().UTC(),
		Classes:   classes,
	}
	m.Vocabulary, m.IDF = buildVocabulary(samples)

	n := len(samples)
	xs := make([]sparseVector, n)
	ys := make([]int, n)
	for i, s := range samples {
		xs[i] = m.vectorize(s.Text)
		ys[i] = classIndex[s.Label]
	}

	k, v := len(classes), len(m.IDF)
	m.Weights = make([][]float64, k)
	grads := make([][]float64, k)
	for c := 0; c < k; c++ {
		m.Weights[c] = make([]float64, v)
		grads[c] = make([]float64, v)
	}
	m.Intercepts = make([]float64, k)
	gradB := make([]float64, k)
	lambda := 1.0 / (opts.C * float64(n))

	for iter := 0; iter < opts.Iterations; iter++ {
		for c := 0; c < k; c++ {
			clear(grads[c])
		}
		clear(gradB)

		for i, x := range xs {
			probs := softmax(m.scores(x))
			for c := 0; c < k; c++ {
				d := probs[c]
				if c == ys[i] {
					d--
				}
				gradB[c] += d
				for _, f := range x {
					grads[c][f.index] += d * f.value
				}
			}
		}

		for c := 0; c < k; c++ {
			w := m.Weights[c]
			for j := range w {
				w[j] -= opts.LearningRate * (grads[c][j]/float64(n) + lambda*w[j])
			}
			m.Intercepts[c] -= opts.LearningRate * gradB[c] / float64(n)
		}
	}

	return m, nil
}

// buildVocabulary 依字母順序編號，IDF 使用平滑公式 ln((1+n)/(1+df))+1
func buildVocabulary(samples []Sample) (map[string]int, []float64) {
	df := make(map[string]int)
	for _, s := range samples {
		seen := make(map[string]bool)
		for _, term := range analyze(s.Text) {
			if !seen[term] {
				seen[term] = true
				df[term]++
			}
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	vocab := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	n := float64(len(samples))
	for i, term := range terms {
		vocab[term] = i
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	return vocab, idf
}

func uniqueLabels(samples []Sample) []string {
	set := make(map[string]bool)
	for _, s := range samples {
		set[s.Label] = true
	}
	labels := make([]string, 0, len(set))
	for l := range set {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// StratifiedSplit 依類別比例切出驗證集，只有一筆的類別全部留在訓練集
// 兩個集合都維持原本的順序
func StratifiedSplit(samples []Sample, testSize float64, seed int64) (train, test []Sample) {
	byLabel := make(map[string][]int)
	for i, s := range samples {
		byLabel[s.Label] = append(byLabel[s.Label], i)
	}

	rng := rand.New(rand.NewSource(seed))
	isTest := make([]bool, len(samples))
	for _, label := range uniqueLabels(samples) {
		idx := byLabel[label]
		if len(idx) < 2 {
			continue
		}
		nTest := int(math.Round(float64(len(idx)) * testSize))
		nTest = min(max(nTest, 1), len(idx)-1)

		shuffled := append([]int(nil), idx...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		for _, i := range shuffled[:nTest] {
			isTest[i] = true
		}
	}

	for i, s := range samples {
		if isTest[i] {
			test = append(test, s)
		} else {
			train = append(train, s)
		}
	}
	return train, test
}

// ClassReport 單一類別的評估指標
type ClassReport struct {
	Label     string  `json:"label"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// Evaluation 驗證集評估結果
type Evaluation struct {
	Classes  []ClassReport `json:"classes"`
	Accuracy float64       `json:"accuracy"`
	Total    int           `json:"total"`
}

// Evaluate 計算各類別 precision / recall / F1
func Evaluate(model *LinearModel, samples []Sample) *Evaluation {
	truePos := make(map[string]int)
	predicted := make(map[string]int)
	support := make(map[string]int)
	correct := 0

	for _, s := range samples {
		pred, _ := model.Predict(context.Background(), s.Text)
		support[s.Label]++
		predicted[pred]++
		if pred == s.Label {
			truePos[pred]++
			correct++
		}
	}

	labelSet := make(map[string]bool)
	for _, c := range model.Classes {
		labelSet[c] = true
	}
	for l := range support {
		labelSet[l] = true
	}
	labels := make([]string, 0, len(labelSet))
	for l := range labelSet {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	eval := &Evaluation{Total: len(samples)}
	for _, l := range labels {
		r := ClassReport{Label: l, Support: support[l]}
		if predicted[l] > 0 {
			r.Precision = float64(truePos[l]) / float64(predicted[l])
		}
		if support[l] > 0 {
			r.Recall = float64(truePos[l]) / float64(support[l])
		}
		if r.Precision+r.Recall > 0 {
			r.F1 = 2 * r.Precision * r.Recall / (r.Precision + r.Recall)
		}
		eval.Classes = append(eval.Classes, r)
	}
	if len(samples) > 0 {
		eval.Accuracy = float64(correct) / float64(len(samples))
	}
	return eval
}

// String 文字報表
func (e *Evaluation) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%12s %10s %10s %10s %10s\n\n", "", "precision", "recall", "f1-score", "support")
	for _, c := range e.Classes {
		fmt.Fprintf(&b, "%12s %10.2f %10.2f %10.2f %10d\n", c.Label, c.Precision, c.Recall, c.F1, c.Support)
	}
	fmt.Fprintf(&b, "\n%12s %10s %10s %10.2f %10d\n", "accuracy", "", "", e.Accuracy, e.Total)
	return b.String()
}
