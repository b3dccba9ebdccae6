package classifier

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"ingredient-analyzer/internal/core/ai/cache"
	"ingredient-analyzer/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type completerFunc func(ctx context.Context, prompt string) (string, error)

func (f completerFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

func TestRemotePredictor(t *testing.T) {
	labels := []string{"dusuk", "orta", "yuksek"}

	tests := []struct {
		name    string
		reply   string
		want    string
		wantErr bool
	}{
		{name: "json reply", reply: `{"risk": "yuksek"}`, want: "yuksek"},
		{name: "json in prose", reply: "Sure! ```json\n{\"risk\":\"ORTA\"}\n```", want: "orta"},
		{name: "bare label", reply: "  Dusuk.\nBecause it is a vitamin.", want: "dusuk"},
		{name: "unknown label kept", reply: `{"risk":"severe"}`, want: "severe"},
		{name: "empty", reply: `{"risk":""}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var prompt string
			p := NewRemotePredictor(completerFunc(func(_ context.Context, got string) (string, error) {
				prompt = got
				return tt.reply, nil
			}), labels)

			label, err := p.Predict(context.Background(), " sodium nitrite ")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, label)
			assert.Contains(t, prompt, "Ingredient: sodium nitrite")
			assert.Contains(t, prompt, "dusuk, orta, yuksek")
		})
	}
}

func TestRemotePredictorError(t *testing.T) {
	p := NewRemotePredictor(completerFunc(func(context.Context, string) (string, error) {
		return "", errors.New("unavailable")
	}), nil)
	_, err := p.Predict(context.Background(), "x")
	assert.Error(t, err)
}

func TestCachedPredictor(t *testing.T) {
	store := cache.NewManager(config.CacheConfig{MaxSize: 10, TTL: time.Hour})
	t.Cleanup(func() { _ = store.Close() })

	calls := 0
	inner := predictorFunc(func(_ context.Context, text string) (string, error) {
		calls++
		if text == "bad" {
			return "", errors.New("boom")
		}
		return "orta", nil
	})
	p := NewCachedPredictor(inner, store, "test")
	ctx := context.Background()

	label, err := p.Predict(ctx, "Guar Gum")
	require.NoError(t, err)
	assert.Equal(t, "orta", label)

	label, err = p.Predict(ctx, "  guar gum ")
	require.NoError(t, err)
	assert.Equal(t, "orta", label)
	assert.Equal(t, 1, calls)

	_, err = p.Predict(ctx, "bad")
	assert.Error(t, err)
	_, err = p.Predict(ctx, "bad")
	assert.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestNewFromConfig(t *testing.T) {
	base := func() *config.Config {
		return &config.Config{Classifier: config.ClassifierConfig{Timeout: time.Second}}
	}

	t.Run("none", func(t *testing.T) {
		cfg := base()
		cfg.Classifier.Backend = BackendNone
		a := NewFromConfig(cfg, nil, nil)
		assert.False(t, a.Available())
	})

	t.Run("local model missing", func(t *testing.T) {
		cfg := base()
		cfg.Classifier.Backend = BackendLocal
		cfg.Classifier.ModelPath = filepath.Join(t.TempDir(), "missing.json")
		a := NewFromConfig(cfg, nil, nil)
		assert.False(t, a.Available())
		assert.Equal(t, BackendNone, a.Backend())
	})

	t.Run("local model loaded", func(t *testing.T) {
		model, err := Fit(toySamples(), DefaultTrainOptions())
		require.NoError(t, err)
		path := filepath.Join(t.TempDir(), "risk_model.json")
		require.NoError(t, model.Save(path))

		cfg := base()
		cfg.Classifier.Backend = BackendLocal
		cfg.Classifier.ModelPath = path
		a := NewFromConfig(cfg, nil, nil)
		require.True(t, a.Available())
		assert.Equal(t, BackendLocal, a.Backend())
		assert.Equal(t, Prediction{Label: "yuksek", OK: true}, a.PredictRisk(context.Background(), "sodium nitrite"))
	})

	t.Run("openrouter without key", func(t *testing.T) {
		cfg := base()
		cfg.Classifier.Backend = BackendOpenRouter
		a := NewFromConfig(cfg, nil, nil)
		assert.False(t, a.Available())
	})

	t.Run("openrouter configured", func(t *testing.T) {
		cfg := base()
		cfg.Classifier.Backend = BackendOpenRouter
		cfg.OpenRouter = config.OpenRouterConfig{Enabled: true, APIKey: "sk-test-123456"}
		a := NewFromConfig(cfg, []string{"orta"}, nil)
		assert.True(t, a.Available())
		assert.Equal(t, BackendOpenRouter, a.Backend())
	})
}
