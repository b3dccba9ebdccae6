package ingredient

import "strings"

// RiskLevel 風險等級
type RiskLevel string

const (
	RiskLow     RiskLevel = "LOW"
	RiskMedium  RiskLevel = "MEDIUM"
	RiskHigh    RiskLevel = "HIGH"
	RiskUnknown RiskLevel = "UNKNOWN" // 僅用於整體等級，無分數
)

// Score 風險等級對應的分數 1/2/3，UNKNOWN 沒有分數
func (l RiskLevel) Score() (int, bool) {
	switch l {
	case RiskLow:
		return 1, true
	case RiskMedium:
		return 2, true
	case RiskHigh:
		return 3, true
	}
	return 0, false
}

// LevelForMean 依平均分數分級
func LevelForMean(mean float64) RiskLevel {
	switch {
	case mean < 1.5:
		return RiskLow
	case mean < 2.5:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// Vocabulary 將字典或模型的風險字串對應到風險等級
type Vocabulary struct {
	spellings map[string]RiskLevel
}

// NewVocabulary 建立不分大小寫的詞彙查詢表
func NewVocabulary(levels map[RiskLevel][]string) *Vocabulary {
	v := &Vocabulary{spellings: make(map[string]RiskLevel)}
	for level, words := range levels {
		for _, w := range words {
			v.spellings[strings.ToLower(w)] = level
		}
	}
	return v
}

// Level 查詢風險字串的等級，無法辨識時回傳 false
func (v *Vocabulary) Level(label string) (RiskLevel, bool) {
	level, ok := v.spellings[strings.ToLower(label)]
	return level, ok
}

// Score 查詢風險字串的分數
func (v *Vocabulary) Score(label string) (int, bool) {
	level, ok := v.Level(label)
	if !ok {
		return 0, false
	}
	return level.Score()
}

// Overall 計算整體風險等級，沒有任何可計分項目時為 UNKNOWN
func (v *Vocabulary) Overall(results []MatchResult) RiskLevel {
	total, n := 0, 0
	for _, r := range results {
		label, ok := r.Label()
		if !ok {
			continue
		}
		if score, ok := v.Score(label); ok {
			total += score
			n++
		}
	}
	if n == 0 {
		return RiskUnknown
	}
	return LevelForMean(float64(total) / float64(n))
}
