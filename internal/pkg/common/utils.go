package common

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// GenerateAnalysisID 生成可排序的分析 ID
func GenerateAnalysisID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Now(), entropy).String()
}

// HashKey 以前綴加上 SHA-256 產生快取鍵
func HashKey(prefix, s string) string {
	sum := sha256.Sum256([]byte(s))
	return prefix + ":" + hex.EncodeToString(sum[:])
}

// WriteError 寫入統一格式的錯誤響應
func WriteError(c *gin.Context, err error, debug bool) {
	ce := AsCustomError(err)
	status := ce.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.AbortWithStatusJSON(status, ce.Response(debug))
}
