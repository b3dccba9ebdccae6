package classifier

import (
	"ingredient-analyzer/internal/core/ai/cache"
	"ingredient-analyzer/internal/core/ai/openrouter"
	"ingredient-analyzer/internal/infrastructure/config"
	"ingredient-analyzer/internal/pkg/common"

	"go.uber.org/zap"
)

// 分類器後端
const (
	BackendNone       = "none"
	BackendLocal      = "local"
	BackendOpenRouter = "openrouter"
)

// NewFromConfig 依設定建立備援分類器
// 模型無法載入時退回沒有模型的 adapter，不會讓啟動失敗
// labels 為遠端模型可回答的風險字串，store 可為 nil
func NewFromConfig(cfg *config.Config, labels []string, store cache.Store) *Adapter {
	timeout := cfg.Classifier.Timeout

	switch cfg.Classifier.Backend {
	case BackendLocal:
		model, err := LoadLinearModel(cfg.Classifier.ModelPath)
		if err != nil {
			common.LogWarn("Risk model unavailable, predictions disabled",
				zap.String("path", cfg.Classifier.ModelPath),
				zap.Error(err),
			)
			return NewAdapter(nil, timeout, BackendNone)
		}
		common.LogInfo("Risk model loaded",
			zap.String("path", cfg.Classifier.ModelPath),
			zap.Strings("classes", model.Classes),
			zap.Int("vocabulary", len(model.Vocabulary)),
		)
		return NewAdapter(model, timeout, BackendLocal)

	case BackendOpenRouter:
		if !cfg.OpenRouter.Enabled || cfg.OpenRouter.APIKey == "" {
			common.LogWarn("OpenRouter classifier selected but OpenRouter is not configured, predictions disabled")
			return NewAdapter(nil, timeout, BackendNone)
		}
		var predictor Predictor = NewRemotePredictor(openrouter.NewClient(cfg.OpenRouter), labels)
		if store != nil {
			predictor = NewCachedPredictor(predictor, store, BackendOpenRouter)
		}
		common.LogInfo("OpenRouter risk classifier enabled",
			zap.String("model", cfg.OpenRouter.Model),
			zap.String("api_key", config.MaskAPIKey(cfg.OpenRouter.APIKey)),
			zap.Bool("cached", store != nil),
		)
		return NewAdapter(predictor, timeout, BackendOpenRouter)

	default:
		return NewAdapter(nil, timeout, BackendNone)
	}
}
