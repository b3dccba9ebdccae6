package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ingredient-analyzer/internal/core/classifier"
	"ingredient-analyzer/internal/core/ingredient"
	"ingredient-analyzer/internal/infrastructure/config"
	"ingredient-analyzer/internal/infrastructure/dictionary"
	"ingredient-analyzer/internal/pkg/common"

	"go.uber.org/zap"
)

type cliOptions struct {
	output string
	train  classifier.TrainOptions
}

func main() {
	opts := parseFlags()
	if err := run(opts); err != nil {
		log.Fatalf("train: %v", err)
	}
}

func parseFlags() cliOptions {
	opts := cliOptions{train: classifier.DefaultTrainOptions()}
	flag.StringVar(&opts.output, "output", "", "Model file to write (default: classifier.model_path)")
	flag.Float64Var(&opts.train.TestSize, "test-size", opts.train.TestSize, "Hold-out fraction for the validation report, 0 disables it")
	flag.Int64Var(&opts.train.Seed, "seed", opts.train.Seed, "Random seed for the stratified split")
	flag.IntVar(&opts.train.Iterations, "iterations", opts.train.Iterations, "Gradient descent iterations")
	flag.Float64Var(&opts.train.LearningRate, "lr", opts.train.LearningRate, "Learning rate")
	flag.Float64Var(&opts.train.C, "c", opts.train.C, "Inverse L2 regularization strength")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [options]\n\nTrains the local risk classifier from the configured dictionary.\n\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()
	opts.output = strings.TrimSpace(opts.output)
	return opts
}

func run(opts cliOptions) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if err := common.InitLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		return err
	}
	defer common.Sync()

	output := opts.output
	if output == "" {
		output = cfg.Classifier.ModelPath
	}
	if output == "" {
		return errors.New("no output path: set --output or classifier.model_path")
	}

	lex, err := ingredient.LoadLexicon(cfg.Lexicon.Path)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	records, err := dictionary.Load(ctx, cfg.Dictionary)
	if err != nil {
		return err
	}

	samples := ingredient.TrainingSamples(records, lex)
	common.LogInfo("Training risk classifier",
		zap.Int("samples", len(samples)),
		zap.Float64("test_size", opts.train.TestSize),
		zap.Int("iterations", opts.train.Iterations),
	)

	start := time.Now()
	model, eval, err := classifier.Train(samples, opts.train)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}

	if eval != nil {
		fmt.Println(eval.String())
	} else {
		fmt.Println("validation skipped")
	}

	if err := model.Save(output); err != nil {
		return err
	}

	common.LogInfo("Model saved",
		zap.String("path", output),
		zap.Strings("classes", model.Classes),
		zap.Int("vocabulary", len(model.Vocabulary)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}
