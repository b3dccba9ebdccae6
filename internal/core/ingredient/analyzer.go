package ingredient

import (
	"context"
	"fmt"
	"strings"
)

// Analyzer 成分表分析器
// 字典與模型在啟動時建立，之後唯讀，可同時服務多個請求
type Analyzer struct {
	store      *Store
	matcher    *Matcher
	vocabulary *Vocabulary
}

// NewAnalyzer 建立分析器，fallback 可為 nil
func NewAnalyzer(store *Store, fallback Fallback, lex *Lexicon) *Analyzer {
	return &Analyzer{
		store:      store,
		matcher:    NewMatcher(store, lex.Normalizer(), fallback),
		vocabulary: lex.Vocabulary(),
	}
}

// Store 使用中的字典
func (a *Analyzer) Store() *Store {
	return a.store
}

// AnalyzeIngredients 切分、逐一比對並彙整整體風險
func (a *Analyzer) AnalyzeIngredients(ctx context.Context, rawText string) Report {
	tokens := SplitIngredientsList(rawText)

	items := make([]MatchResult, 0, len(tokens))
	for _, token := range tokens {
		items = append(items, a.matcher.MatchSingleIngredient(ctx, token))
	}

	sentences := make([]string, 0, len(items))
	for _, item := range items {
		sentences = append(sentences, summarize(item))
	}

	return Report{
		RawText:          rawText,
		SummaryText:      strings.Join(sentences, "\n"),
		Items:            items,
		OverallRiskLevel: a.vocabulary.Overall(items),
	}
}

// Analyze 對外入口
func (a *Analyzer) Analyze(ctx context.Context, rawText string) Report {
	return a.AnalyzeIngredients(ctx, rawText)
}

func summarize(item MatchResult) string {
	switch {
	case item.Matched:
		return fmt.Sprintf("%s (%s): is a %s-risk %s. %s",
			item.Ingredient, item.CommonName, item.Risk, item.Category, item.Description)
	case item.HasPrediction():
		return fmt.Sprintf("%s: not in dictionary, model-predicted risk %s.", item.Ingredient, item.PredictedRisk)
	default:
		return fmt.Sprintf("%s: item not found in database.", item.Ingredient)
	}
}
