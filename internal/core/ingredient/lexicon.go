package ingredient

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var defaultLexiconYAML []byte

// Lexicon 正規化折疊表與風險詞彙
type Lexicon struct {
	Fold        map[string]string      `yaml:"fold"`
	DefaultRisk string                 `yaml:"default_risk"`
	RiskLevels  map[RiskLevel][]string `yaml:"risk_levels"`
}

// DefaultLexicon 回傳內建詞彙表
func DefaultLexicon() *Lexicon {
	lex, err := ParseLexicon(defaultLexiconYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded lexicon is invalid: %v", err))
	}
	return lex
}

// LoadLexicon 從 YAML 檔案載入詞彙表，path 為空時回傳內建版本
func LoadLexicon(path string) (*Lexicon, error) {
	if path == "" {
		return DefaultLexicon(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	return ParseLexicon(data)
}

// ParseLexicon 解析並驗證 YAML 詞彙表
func ParseLexicon(data []byte) (*Lexicon, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("parse lexicon: %w", err)
	}
	if err := lex.validate(); err != nil {
		return nil, err
	}
	return &lex, nil
}

func (l *Lexicon) validate() error {
	for _, level := range []RiskLevel{RiskLow, RiskMedium, RiskHigh} {
		if len(l.RiskLevels[level]) == 0 {
			return fmt.Errorf("lexicon: no spellings for risk level %s", level)
		}
	}
	for level := range l.RiskLevels {
		if _, ok := level.Score(); !ok {
			return fmt.Errorf("lexicon: unknown risk level %q", level)
		}
	}

	for from, to := range l.Fold {
		if from == "" {
			return fmt.Errorf("lexicon: empty fold key")
		}
		// 折疊結果不可再被折疊，否則正規化不具冪等性
		for key := range l.Fold {
			if strings.Contains(to, key) {
				return fmt.Errorf("lexicon: fold %q -> %q produces foldable %q", from, to, key)
			}
		}
	}

	if l.DefaultRisk == "" {
		return fmt.Errorf("lexicon: default_risk is required")
	}
	if _, ok := l.Vocabulary().Level(l.DefaultRisk); !ok {
		return fmt.Errorf("lexicon: default_risk %q is not a known spelling", l.DefaultRisk)
	}
	return nil
}

// Normalizer 由折疊表建立正規化器
func (l *Lexicon) Normalizer() *Normalizer {
	return NewNormalizer(l.Fold)
}

// Vocabulary 由風險詞彙建立查詢表
func (l *Lexicon) Vocabulary() *Vocabulary {
	return NewVocabulary(l.RiskLevels)
}

// Labels 每個風險等級的第一個拼寫，依 LOW、MEDIUM、HIGH 排列
func (l *Lexicon) Labels() []string {
	return []string{
		l.RiskLevels[RiskLow][0],
		l.RiskLevels[RiskMedium][0],
		l.RiskLevels[RiskHigh][0],
	}
}
