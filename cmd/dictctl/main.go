package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"ingredient-analyzer/internal/core/classifier"
	"ingredient-analyzer/internal/core/ingredient"
	"ingredient-analyzer/internal/infrastructure/config"
	"ingredient-analyzer/internal/infrastructure/dictionary"
)

const usage = `Usage: %s <command> [args]

Commands:
  import <csv> <sqlite>   copy a CSV dictionary into a SQLite table
  lookup <token>          show the dictionary record a token matches
  analyze <text>          analyze an ingredients list and print the report
`

func main() {
	table := flag.String("table", "ingredients", "SQLite table for import")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), usage, filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	var err error
	switch args[0] {
	case "import":
		err = runImport(args[1:], *table)
	case "lookup":
		err = runLookup(os.Stdout, args[1:])
	case "analyze":
		err = runAnalyze(os.Stdout, args[1:])
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("dictctl %s: %v", args[0], err)
	}
}

func runImport(args []string, table string) error {
	if len(args) != 2 {
		return errors.New("expected <csv> <sqlite>")
	}
	ctx := context.Background()

	records, err := dictionary.NewCSVSource(args[0]).Load(ctx)
	if err != nil {
		return err
	}
	n, err := dictionary.ImportCSVToSQLite(ctx, args[1], table, records)
	if err != nil {
		return err
	}
	fmt.Printf("imported %d records into %s (%s)\n", n, args[1], table)
	return nil
}

// loadAnalyzer 依設定載入字典與分類器
func loadAnalyzer(ctx context.Context) (*ingredient.Analyzer, *ingredient.Lexicon, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	lex, err := ingredient.LoadLexicon(cfg.Lexicon.Path)
	if err != nil {
		return nil, nil, err
	}
	records, err := dictionary.Load(ctx, cfg.Dictionary)
	if err != nil {
		return nil, nil, err
	}
	adapter := classifier.NewFromConfig(cfg, lex.Labels(), nil)
	return ingredient.NewAnalyzer(ingredient.NewStore(records, lex), adapter, lex), lex, nil
}

func runLookup(w io.Writer, args []string) error {
	if len(args) == 0 {
		return errors.New("expected <token>")
	}
	analyzer, lex, err := loadAnalyzer(context.Background())
	if err != nil {
		return err
	}

	token := strings.Join(args, " ")
	normalized := lex.Normalizer().Normalize(token)
	record, ok := analyzer.Store().FindFirstMatch(normalized)
	if !ok {
		fmt.Fprintf(w, "%q (normalized %q): no match\n", token, normalized)
		return nil
	}
	return writeJSON(w, record)
}

func runAnalyze(w io.Writer, args []string) error {
	if len(args) == 0 {
		return errors.New("expected <text>")
	}
	ctx := context.Background()
	analyzer, _, err := loadAnalyzer(ctx)
	if err != nil {
		return err
	}
	return writeJSON(w, analyzer.AnalyzeIngredients(ctx, strings.Join(args, " ")))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
