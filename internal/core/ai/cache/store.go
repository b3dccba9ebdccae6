package cache

import (
	"context"
	"fmt"

	"ingredient-analyzer/internal/infrastructure/config"
)

// Store 字串鍵值緩存
type Store interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// New 依設定建立緩存，停用時回傳 nil
func New(ctx context.Context, cfg config.CacheConfig) (Store, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	switch cfg.Backend {
	case "", "memory":
		return NewManager(cfg), nil
	case "redis":
		store, err := NewRedisStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
