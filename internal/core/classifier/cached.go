package classifier

import (
	"context"
	"strings"

	"ingredient-analyzer/internal/core/ai/cache"
	"ingredient-analyzer/internal/pkg/common"

	"go.uber.org/zap"
)

// CachedPredictor 以緩存包裝預測器，緩存失敗時直接呼叫內層
type CachedPredictor struct {
	inner  Predictor
	store  cache.Store
	prefix string
}

// NewCachedPredictor 建立帶緩存的預測器
func NewCachedPredictor(inner Predictor, store cache.Store, prefix string) *CachedPredictor {
	return &CachedPredictor{inner: inner, store: store, prefix: "risk:" + prefix}
}

// Predict 先查緩存，未命中時呼叫內層並寫回
func (p *CachedPredictor) Predict(ctx context.Context, text string) (string, error) {
	key := common.HashKey(p.prefix, strings.ToLower(strings.TrimSpace(text)))

	if label, ok := p.store.Get(ctx, key); ok {
		common.LogCacheHit(p.prefix)
		return label, nil
	}
	common.LogCacheMiss(p.prefix)

	label, err := p.inner.Predict(ctx, text)
	if err != nil {
		return "", err
	}

	if err := p.store.Set(ctx, key, label); err != nil {
		common.LogWarn("Failed to cache prediction", zap.Error(err))
	}
	return label, nil
}
