package api

import (
	"net/http"
	"time"

	"ingredient-analyzer/internal/api/handlers/analysis"
	"ingredient-analyzer/internal/api/handlers/health"
	"ingredient-analyzer/internal/api/middleware"
	"ingredient-analyzer/internal/core/ai/cache"
	"ingredient-analyzer/internal/core/ai/queue"
	"ingredient-analyzer/internal/core/classifier"
	"ingredient-analyzer/internal/core/image"
	"ingredient-analyzer/internal/core/ingredient"
	"ingredient-analyzer/internal/core/ocr"
	"ingredient-analyzer/internal/infrastructure/config"
	"ingredient-analyzer/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies 啟動時建立、請求間唯讀共享的元件
type Dependencies struct {
	Analyzer   *ingredient.Analyzer
	Classifier *classifier.Adapter
	Extractor  ocr.Extractor
	Images     *image.Service
	Cache      cache.Store
	Queue      *queue.Pool
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(common.GenerateUUID)))
	router.Use(middleware.Logger())

	// CORS 設置，允許所有來源
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	router.Use(middleware.RateLimit(cfg.RateLimit))
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	healthHandler := health.NewHandler(health.Dependencies{
		Version:           cfg.App.Version,
		DictionarySize:    deps.Analyzer.Store().Len,
		ClassifierBackend: deps.Classifier.Backend,
		Cache:             deps.Cache,
		Queue:             deps.Queue,
	})

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Food Ingredients Analysis API is running!"})
	})
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	analysisHandler := analysis.NewHandler(deps.Analyzer, deps.Extractor, deps.Images, deps.Queue, cfg.App.Debug)
	dedup := middleware.Deduplication(cfg.DedupWindow)

	// API 路由組
	v1 := router.Group("/api/v1", dedup)
	{
		v1.POST("/analyze", analysisHandler.Analyze)
		v1.POST("/analyze/image", analysisHandler.AnalyzeImage)
		v1.POST("/analyze/batch", analysisHandler.AnalyzeBatch)
	}

	// 舊版路由
	legacy := router.Group("", dedup)
	{
		legacy.POST("/analyze", analysisHandler.AnalyzeLegacy)
		legacy.POST("/analyze_image", analysisHandler.AnalyzeImageLegacy)
	}

	common.LogInfo("Router setup completed",
		zap.Int("dictionary_records", deps.Analyzer.Store().Len()),
		zap.String("classifier_backend", deps.Classifier.Backend()),
		zap.Bool("cache_enabled", deps.Cache != nil),
		zap.Duration("request_timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router
}
