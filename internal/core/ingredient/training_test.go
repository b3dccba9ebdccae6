package ingredient

import (
	"testing"

	"ingredient-analyzer/internal/core/classifier"

	"github.com/stretchr/testify/assert"
)

func TestLexiconLabels(t *testing.T) {
	assert.Equal(t, []string{"dusuk", "orta", "yuksek"}, DefaultLexicon().Labels())
}

func TestTrainingSamples(t *testing.T) {
	records := []Record{
		{Code: "E202", CommonName: "potassium sorbate", Category: "preservative", Risk: "dusuk"},
		{Code: "E330", CommonName: "citric acid", Category: "acidity regulator"},
		{},
	}

	got := TrainingSamples(records, DefaultLexicon())
	assert.Equal(t, []classifier.Sample{
		{Text: "potassium sorbate E202 preservative", Label: "dusuk"},
		{Text: "citric acid E330 acidity regulator", Label: "orta"},
	}, got)
}
