package ingredient

import (
	"strings"

	"ingredient-analyzer/internal/core/classifier"
)

// TrainingSamples 由字典紀錄產生分類器訓練資料
// 特徵文字為 common_name、code、category 以空白相接，標籤為 risk
func TrainingSamples(records []Record, lex *Lexicon) []classifier.Sample {
	samples := make([]classifier.Sample, 0, len(records))
	for _, r := range records {
		r = r.WithDefaults(lex.DefaultRisk)
		text := strings.TrimSpace(strings.Join([]string{r.CommonName, r.Code, r.Category}, " "))
		if text == "" {
			continue
		}
		samples = append(samples, classifier.Sample{Text: text, Label: r.Risk})
	}
	return samples
}
