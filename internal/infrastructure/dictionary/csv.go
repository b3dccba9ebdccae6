package dictionary

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"ingredient-analyzer/internal/core/ingredient"
)

// CSVSource 以標題列對應欄位的 CSV 檔案，欄位順序不限
type CSVSource struct {
	path string
}

// NewCSVSource 建立 CSV 來源
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Load 讀取整個檔案
func (s *CSVSource) Load(_ context.Context) ([]ingredient.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// Close 無資源需要釋放
func (s *CSVSource) Close() error { return nil }

// ReadCSV 解析字典 CSV，缺少的欄位與過短的列都補空字串
func ReadCSV(r io.Reader) ([]ingredient.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []ingredient.Record{}, nil
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		name = strings.ToLower(strings.TrimSpace(name))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	field := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	records := []ingredient.Record{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", len(records)+2, err)
		}
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		records = append(records, ingredient.Record{
			Code:        field(row, "code"),
			CommonName:  field(row, "common_name"),
			Category:    field(row, "category"),
			Risk:        field(row, "risk"),
			Description: field(row, "description"),
		})
	}
	return records, nil
}

// WriteCSV 以固定欄位順序輸出字典
func WriteCSV(w io.Writer, records []ingredient.Record) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(columns); err != nil {
		return err
	}
	for _, r := range records {
		if err := writer.Write([]string{r.Code, r.CommonName, r.Category, r.Risk, r.Description}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
