package classifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type predictorFunc func(ctx context.Context, text string) (string, error)

func (f predictorFunc) Predict(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}

func TestAdapterPredictRisk(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	tests := []struct {
		name      string
		predictor Predictor
		token     string
		want      Prediction
	}{
		{
			name:  "no model",
			token: "guar",
			want:  NoPrediction,
		},
		{
			name: "empty token",
			predictor: predictorFunc(func(context.Context, string) (string, error) {
				return "orta", nil
			}),
			token: "",
			want:  NoPrediction,
		},
		{
			name: "label returned",
			predictor: predictorFunc(func(_ context.Context, text string) (string, error) {
				return " yuksek ", nil
			}),
			token: "guar",
			want:  Prediction{Label: "yuksek", OK: true},
		},
		{
			name: "label not in vocabulary is kept",
			predictor: predictorFunc(func(context.Context, string) (string, error) {
				return "dangerous", nil
			}),
			token: "guar",
			want:  Prediction{Label: "dangerous", OK: true},
		},
		{
			name: "blank label",
			predictor: predictorFunc(func(context.Context, string) (string, error) {
				return "  ", nil
			}),
			token: "guar",
			want:  NoPrediction,
		},
		{
			name: "error swallowed",
			predictor: predictorFunc(func(context.Context, string) (string, error) {
				return "", errors.New("boom")
			}),
			token: "guar",
			want:  NoPrediction,
		},
		{
			name: "panic swallowed",
			predictor: predictorFunc(func(context.Context, string) (string, error) {
				panic("model exploded")
			}),
			token: "guar",
			want:  NoPrediction,
		},
		{
			name: "timeout",
			predictor: predictorFunc(func(context.Context, string) (string, error) {
				<-release
				return "orta", nil
			}),
			token: "guar",
			want:  NoPrediction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAdapter(tt.predictor, 50*time.Millisecond, "test")
			assert.Equal(t, tt.want, a.PredictRisk(context.Background(), tt.token))
		})
	}
}

func TestAdapterPassesOriginalToken(t *testing.T) {
	var got string
	a := NewAdapter(predictorFunc(func(_ context.Context, text string) (string, error) {
		got = text
		return "orta", nil
	}), time.Second, "test")

	a.PredictRisk(context.Background(), "  Guar GUM ")
	assert.Equal(t, "  Guar GUM ", got)
}

func TestAdapterBackend(t *testing.T) {
	assert.False(t, NewAdapter(nil, time.Second, BackendLocal).Available())
	assert.Equal(t, BackendNone, NewAdapter(nil, time.Second, BackendLocal).Backend())

	var nilAdapter *Adapter
	assert.False(t, nilAdapter.Available())
	assert.Equal(t, NoPrediction, nilAdapter.PredictRisk(context.Background(), "x"))
}
