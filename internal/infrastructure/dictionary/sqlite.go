package dictionary

import (
	"context"
	"database/sql"
	"fmt"

	"ingredient-analyzer/internal/core/ingredient"

	"github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"
)

// SQLiteSource 從 SQLite 資料表讀取字典，依 rowid 排序
type SQLiteSource struct {
	db    *sql.DB
	table string
}

// NewSQLiteSource 開啟 SQLite 資料庫
func NewSQLiteSource(path, table string) (*SQLiteSource, error) {
	if err := validateTable(table); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return &SQLiteSource{db: db, table: table}, nil
}

// Load 讀取整個資料表，NULL 視為空字串
func (s *SQLiteSource) Load(ctx context.Context) ([]ingredient.Record, error) {
	rows, err := squirrel.Select(columns...).
		From(s.table).
		OrderBy("rowid").
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.table, err)
	}
	defer rows.Close()

	records := []ingredient.Record{}
	for rows.Next() {
		var code, name, category, risk, description sql.NullString
		if err := rows.Scan(&code, &name, &category, &risk, &description); err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.table, err)
		}
		records = append(records, ingredient.Record{
			Code:        code.String,
			CommonName:  name.String,
			Category:    category.String,
			Risk:        risk.String,
			Description: description.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", s.table, err)
	}
	return records, nil
}

// Close 關閉資料庫
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

// ImportCSVToSQLite 以紀錄取代資料表內容，回傳寫入筆數
func ImportCSVToSQLite(ctx context.Context, path, table string, records []ingredient.Record) (int, error) {
	if err := validateTable(table); err != nil {
		return 0, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return 0, fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	schema := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	code TEXT,
	common_name TEXT,
	category TEXT,
	risk TEXT,
	description TEXT
)`, table)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return 0, fmt.Errorf("create table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	if _, err := squirrel.Delete(table).RunWith(tx).ExecContext(ctx); err != nil {
		return 0, fmt.Errorf("clear table: %w", err)
	}

	for _, r := range records {
		_, err := squirrel.Insert(table).
			Columns(columns...).
			Values(r.Code, r.CommonName, r.Category, r.Risk, r.Description).
			RunWith(tx).
			ExecContext(ctx)
		if err != nil {
			return 0, fmt.Errorf("insert %q: %w", r.Code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return len(records), nil
}
