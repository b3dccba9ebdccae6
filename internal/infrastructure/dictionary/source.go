package dictionary

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"ingredient-analyzer/internal/core/ingredient"
	"ingredient-analyzer/internal/infrastructure/config"
	"ingredient-analyzer/internal/pkg/common"

	"go.uber.org/zap"
)

// Source 成分字典來源，回傳的紀錄須保持來源順序
type Source interface {
	Load(ctx context.Context) ([]ingredient.Record, error)
	Close() error
}

// 字典欄位，順序即查詢與匯入的欄位順序
var columns = []string{"code", "common_name", "category", "risk", "description"}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func validateTable(table string) error {
	if !identPattern.MatchString(table) {
		return fmt.Errorf("invalid table name %q", table)
	}
	return nil
}

// NewSource 依設定建立字典來源
func NewSource(ctx context.Context, cfg config.DictionaryConfig) (Source, error) {
	switch strings.ToLower(cfg.Source) {
	case "csv":
		return NewCSVSource(cfg.Path), nil
	case "sqlite":
		return NewSQLiteSource(cfg.Path, cfg.Table)
	case "postgres":
		return NewPostgresSource(ctx, cfg.DSN, cfg.Table)
	default:
		return nil, fmt.Errorf("unknown dictionary source %q", cfg.Source)
	}
}

// Load 建立來源、讀取全部紀錄後關閉
func Load(ctx context.Context, cfg config.DictionaryConfig) ([]ingredient.Record, error) {
	src, err := NewSource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	records, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dictionary from %s: %w", cfg.Source, err)
	}

	common.LogInfo("Ingredient dictionary loaded",
		zap.String("source", cfg.Source),
		zap.Int("records", len(records)),
	)
	return records, nil
}
