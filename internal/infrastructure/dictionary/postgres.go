package dictionary

import (
	"context"
	"fmt"

	"ingredient-analyzer/internal/core/ingredient"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// PostgresSource 從 PostgreSQL 資料表讀取字典，依 id 排序
type PostgresSource struct {
	pool  *pgxpool.Pool
	table string
}

// NewPool 建立連線池並 ping 確認可用
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// NewPostgresSource 連線資料庫
func NewPostgresSource(ctx context.Context, dsn, table string) (*PostgresSource, error) {
	if err := validateTable(table); err != nil {
		return nil, err
	}
	pool, err := NewPool(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &PostgresSource{pool: pool, table: table}, nil
}

// NewPostgresSourceWithPool 使用既有連線池
func NewPostgresSourceWithPool(pool *pgxpool.Pool, table string) (*PostgresSource, error) {
	if err := validateTable(table); err != nil {
		return nil, err
	}
	return &PostgresSource{pool: pool, table: table}, nil
}

func selectRecordsQuery(table string) (string, []interface{}, error) {
	return psql.Select(columns...).
		From(table).
		OrderBy("id ASC").
		ToSql()
}

// Load 讀取整個資料表，NULL 視為空字串
func (s *PostgresSource) Load(ctx context.Context) ([]ingredient.Record, error) {
	query, args, err := selectRecordsQuery(s.table)
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.table, err)
	}
	defer rows.Close()

	records := []ingredient.Record{}
	for rows.Next() {
		var code, name, category, risk, description *string
		if err := rows.Scan(&code, &name, &category, &risk, &description); err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.table, err)
		}
		records = append(records, ingredient.Record{
			Code:        deref(code),
			CommonName:  deref(name),
			Category:    deref(category),
			Risk:        deref(risk),
			Description: deref(description),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", s.table, err)
	}
	return records, nil
}

// Close 關閉連線池
func (s *PostgresSource) Close() error {
	s.pool.Close()
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
