package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ingredient-analyzer/internal/core/ai/cache"
	"ingredient-analyzer/internal/core/ai/queue"
	"ingredient-analyzer/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(h *Handler, path string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", h.HealthCheck)
	r.GET("/ready", h.ReadinessCheck)
	r.GET("/live", h.LivenessCheck)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealthCheck(t *testing.T) {
	mgr := cache.NewManager(config.CacheConfig{Enabled: true, MaxSize: 10})
	t.Cleanup(func() { _ = mgr.Close() })

	h := NewHandler(Dependencies{
		Version:           "1.2.3",
		DictionarySize:    func() int { return 42 },
		ClassifierBackend: func() string { return "local" },
		Cache:             mgr,
		Queue:             queue.NewPool(config.QueueConfig{Workers: 4, MaxSize: 100}),
	})

	w := serve(h, "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
	assert.Equal(t, 42, resp.Dictionary.Records)
	assert.Equal(t, "local", resp.Classifier)
	require.NotNil(t, resp.Cache)
	assert.Equal(t, 10, resp.Cache.MaxSize)
	require.NotNil(t, resp.Queue)
	assert.Equal(t, 4, resp.Queue.Workers)
}

func TestHealthCheckMinimal(t *testing.T) {
	w := serve(NewHandler(Dependencies{}), "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "none", resp.Classifier)
	assert.Nil(t, resp.Cache)
	assert.Nil(t, resp.Queue)
}

func TestReadiness(t *testing.T) {
	assert.Equal(t, http.StatusServiceUnavailable, serve(NewHandler(Dependencies{}), "/ready").Code)

	ready := NewHandler(Dependencies{DictionarySize: func() int { return 1 }})
	assert.Equal(t, http.StatusOK, serve(ready, "/ready").Code)
	assert.Equal(t, http.StatusOK, serve(ready, "/live").Code)
}
