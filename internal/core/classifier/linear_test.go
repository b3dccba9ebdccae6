package classifier

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toySamples() []Sample {
	return []Sample{
		{Text: "ascorbic acid E300 vitamin", Label: "dusuk"},
		{Text: "tocopherol E306 vitamin", Label: "dusuk"},
		{Text: "riboflavin E101 vitamin", Label: "dusuk"},
		{Text: "niacin vitamin", Label: "dusuk"},
		{Text: "caramel E150a colour", Label: "orta"},
		{Text: "annatto E160b colour", Label: "orta"},
		{Text: "paprika extract E160c colour", Label: "orta"},
		{Text: "beetroot red E162 colour", Label: "orta"},
		{Text: "sodium nitrite E250 preservative", Label: "yuksek"},
		{Text: "potassium nitrite E249 preservative", Label: "yuksek"},
		{Text: "sodium nitrate E251 preservative", Label: "yuksek"},
		{Text: "potassium nitrate E252 preservative", Label: "yuksek"},
	}
}

func TestAnalyze(t *testing.T) {
	assert.Equal(t, []string{"sodium", "nitrite", "e250"}, analyze("Sodium-Nitrite (E250) a"))
	assert.Equal(t, []string{"şeker", "mısır"}, analyze("Şeker, mısır"))
	assert.Empty(t, analyze(""))
}

func TestFitAndPredict(t *testing.T) {
	model, err := Fit(toySamples(), DefaultTrainOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"dusuk", "orta", "yuksek"}, model.Classes)

	tests := []struct {
		text string
		want string
	}{
		{"folic vitamin", "dusuk"},
		{"carmine colour", "orta"},
		{"nitrite", "yuksek"},
		{"POTASSIUM NITRATE", "yuksek"},
	}
	for _, tt := range tests {
		got, err := model.Predict(context.Background(), tt.text)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.text)
	}

	probs := model.PredictProba("vitamin")
	require.Len(t, probs, 3)
	sum := 0.0
	for _, p := range probs {
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestPredictHonorsContext(t *testing.T) {
	model, err := Fit(toySamples(), DefaultTrainOptions())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = model.Predict(ctx, "vitamin")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFitRejects(t *testing.T) {
	_, err := Fit(nil, DefaultTrainOptions())
	assert.Error(t, err)

	_, err = Fit([]Sample{{Text: "a b", Label: "orta"}, {Text: "c d", Label: "orta"}}, DefaultTrainOptions())
	assert.Error(t, err)

	opts := DefaultTrainOptions()
	opts.Iterations = 0
	_, err = Fit(toySamples(), opts)
	assert.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	model, err := Fit(toySamples(), DefaultTrainOptions())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested", "risk_model.json")
	require.NoError(t, model.Save(path))

	loaded, err := LoadLinearModel(path)
	require.NoError(t, err)
	assert.Equal(t, model.Classes, loaded.Classes)

	for _, s := range toySamples() {
		want, _ := model.Predict(context.Background(), s.Text)
		got, err := loaded.Predict(context.Background(), s.Text)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestLoadLinearModelRejects(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadLinearModel(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	tests := map[string]string{
		"not json":         "{",
		"wrong version":    `{"version":9,"classes":["a"],"weights":[[]],"intercepts":[0],"idf":[]}`,
		"no classes":       `{"version":1,"classes":[],"weights":[],"intercepts":[],"idf":[]}`,
		"weights mismatch": `{"version":1,"classes":["a","b"],"weights":[[0]],"intercepts":[0,0],"idf":[1]}`,
		"bad vocabulary":   `{"version":1,"classes":["a"],"weights":[[0]],"intercepts":[0],"idf":[1],"vocabulary":{"x":5}}`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".json")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
			_, err := LoadLinearModel(path)
			assert.Error(t, err)
		})
	}
}

func TestStratifiedSplit(t *testing.T) {
	samples := append(toySamples(), Sample{Text: "lonely", Label: "bilinmiyor"})

	train, test := StratifiedSplit(samples, 0.3, 42)
	assert.Len(t, test, 3)
	assert.Len(t, train, len(samples)-3)

	perLabel := map[string]int{}
	for _, s := range test {
		perLabel[s.Label]++
	}
	assert.Equal(t, map[string]int{"dusuk": 1, "orta": 1, "yuksek": 1}, perLabel)
	assert.Contains(t, train, Sample{Text: "lonely", Label: "bilinmiyor"})

	train2, test2 := StratifiedSplit(samples, 0.3, 42)
	assert.Equal(t, train, train2)
	assert.Equal(t, test, test2)
}

func TestTrainReportsEvaluation(t *testing.T) {
	samples := append(toySamples(), toySamples()...)

	model, eval, err := Train(samples, DefaultTrainOptions())
	require.NoError(t, err)
	require.NotNil(t, model)
	require.NotNil(t, eval)

	assert.Equal(t, 6, eval.Total)
	require.Len(t, eval.Classes, 3)
	for _, c := range eval.Classes {
		assert.Equal(t, 2, c.Support)
	}
	assert.Contains(t, eval.String(), "accuracy")

	opts := DefaultTrainOptions()
	opts.TestSize = 0
	_, eval, err = Train(samples, opts)
	require.NoError(t, err)
	assert.Nil(t, eval)
}

func TestEvaluate(t *testing.T) {
	model, err := Fit(toySamples(), DefaultTrainOptions())
	require.NoError(t, err)

	eval := Evaluate(model, toySamples())
	assert.InDelta(t, 1.0, eval.Accuracy, 1e-9)
	for _, c := range eval.Classes {
		assert.InDelta(t, 1.0, c.F1, 1e-9, c.Label)
	}
}
