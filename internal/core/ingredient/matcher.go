package ingredient

import (
	"context"

	"ingredient-analyzer/internal/core/classifier"
)

// Fallback 字典未命中時的備援分類器
type Fallback interface {
	PredictRisk(ctx context.Context, token string) classifier.Prediction
}

// Matcher 單一成分比對
type Matcher struct {
	store      *Store
	normalizer *Normalizer
	fallback   Fallback
}

// NewMatcher 建立比對器，fallback 可為 nil
func NewMatcher(store *Store, normalizer *Normalizer, fallback Fallback) *Matcher {
	return &Matcher{
		store:      store,
		normalizer: normalizer,
		fallback:   fallback,
	}
}

// MatchSingleIngredient 先查字典，未命中才以原始 token 詢問備援分類器
func (m *Matcher) MatchSingleIngredient(ctx context.Context, token string) MatchResult {
	if record, ok := m.store.FindFirstMatch(m.normalizer.Normalize(token)); ok {
		return MatchResult{
			Ingredient:  token,
			Matched:     true,
			CommonName:  record.CommonName,
			Category:    record.Category,
			Risk:        record.Risk,
			Description: record.Description,
		}
	}

	if m.fallback != nil {
		if p := m.fallback.PredictRisk(ctx, token); p.OK && p.Label != "" {
			return MatchResult{
				Ingredient:    token,
				PredictedRisk: p.Label,
				Info:          InfoPredicted,
			}
		}
	}

	return MatchResult{
		Ingredient: token,
		Info:       InfoNotFound,
	}
}
