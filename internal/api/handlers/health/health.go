package health

import (
	"net/http"
	"runtime"
	"time"

	"ingredient-analyzer/internal/core/ai/cache"
	"ingredient-analyzer/internal/core/ai/queue"
	"ingredient-analyzer/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StatsProvider 可回報統計的快取
type StatsProvider interface {
	GetStats() cache.Stats
}

// Dependencies 健康檢查需要讀取的元件，皆可為 nil
type Dependencies struct {
	Version           string
	DictionarySize    func() int
	ClassifierBackend func() string
	Cache             cache.Store
	Queue             *queue.Pool
}

// Handler 健康檢查處理器
type Handler struct {
	deps    Dependencies
	started time.Time
}

// NewHandler 創建健康檢查處理器
func NewHandler(deps Dependencies) *Handler {
	return &Handler{deps: deps, started: time.Now()}
}

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status     string                 `json:"status"`
	Timestamp  time.Time              `json:"timestamp"`
	Version    string                 `json:"version"`
	Uptime     string                 `json:"uptime"`
	Dictionary DictionaryStatus       `json:"dictionary"`
	Classifier string                 `json:"classifier"`
	Cache      *cache.Stats           `json:"cache,omitempty"`
	Queue      *queue.Status          `json:"queue,omitempty"`
	Runtime    map[string]interface{} `json:"runtime"`
}

// DictionaryStatus 字典狀態
type DictionaryStatus struct {
	Records int `json:"records"`
}

// HealthCheck 健康檢查
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:     "ok",
		Timestamp:  time.Now(),
		Version:    h.deps.Version,
		Uptime:     time.Since(h.started).Round(time.Second).String(),
		Dictionary: DictionaryStatus{Records: h.dictionarySize()},
		Classifier: h.classifierBackend(),
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}
	if sp, ok := h.deps.Cache.(StatsProvider); ok {
		stats := sp.GetStats()
		response.Cache = &stats
	}
	if h.deps.Queue != nil {
		response.Queue = h.deps.Queue.GetQueueStatus()
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 字典為空時視為未就緒
func (h *Handler) ReadinessCheck(c *gin.Context) {
	if h.dictionarySize() == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"reason": "dictionary is empty",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

func (h *Handler) dictionarySize() int {
	if h.deps.DictionarySize == nil {
		return 0
	}
	return h.deps.DictionarySize()
}

func (h *Handler) classifierBackend() string {
	if h.deps.ClassifierBackend == nil {
		return "none"
	}
	return h.deps.ClassifierBackend()
}
