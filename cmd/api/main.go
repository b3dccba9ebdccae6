package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ingredient-analyzer/internal/api"
	"ingredient-analyzer/internal/core/ai/cache"
	"ingredient-analyzer/internal/core/ai/openrouter"
	"ingredient-analyzer/internal/core/ai/queue"
	"ingredient-analyzer/internal/core/classifier"
	"ingredient-analyzer/internal/core/image"
	"ingredient-analyzer/internal/core/ingredient"
	"ingredient-analyzer/internal/core/ocr"
	"ingredient-analyzer/internal/infrastructure/config"
	"ingredient-analyzer/internal/infrastructure/dictionary"
	"ingredient-analyzer/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定（含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("dictionary_source", cfg.Dictionary.Source),
		zap.String("classifier_backend", cfg.Classifier.Backend),
		zap.Bool("openrouter_enabled", cfg.OpenRouter.Enabled),
		zap.String("openrouter_api_key", config.MaskAPIKey(cfg.OpenRouter.APIKey)),
	)

	ctx := context.Background()

	// 詞彙表與字典在啟動時載入一次，之後唯讀共享
	lex, err := ingredient.LoadLexicon(cfg.Lexicon.Path)
	if err != nil {
		common.LogFatal("Failed to load lexicon", zap.Error(err))
	}
	records, err := dictionary.Load(ctx, cfg.Dictionary)
	if err != nil {
		common.LogFatal("Failed to load ingredient dictionary", zap.Error(err))
	}
	store := ingredient.NewStore(records, lex)

	// 初始化快取（僅用於分類器預測）
	predictionCache, err := cache.New(ctx, cfg.Cache)
	if err != nil {
		common.LogWarn("Cache unavailable, continuing without cache", zap.Error(err))
	}
	if predictionCache != nil {
		defer predictionCache.Close()
	}

	adapter := classifier.NewFromConfig(cfg, lex.Labels(), predictionCache)
	analyzer := ingredient.NewAnalyzer(store, adapter, lex)

	images := image.NewService(cfg.Image.MaxSizeBytes, cfg.Image.Threshold)
	var extractor ocr.Extractor = ocr.Noop{}
	if cfg.OpenRouter.Enabled {
		extractor = ocr.NewVisionExtractor(images, openrouter.NewClient(cfg.OpenRouter))
	} else {
		common.LogWarn("OpenRouter disabled, image analysis will return empty text")
	}

	router := api.SetupRouter(cfg, api.Dependencies{
		Analyzer:   analyzer,
		Classifier: adapter,
		Extractor:  extractor,
		Images:     images,
		Cache:      predictionCache,
		Queue:      queue.NewPool(cfg.Queue),
	})

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
			zap.Int("dictionary_records", store.Len()),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
		return
	}

	common.LogInfo("Server exited")
}
