package common

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsCustomError(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", ErrEmptyBatch)
	assert.Equal(t, ErrEmptyBatch, AsCustomError(wrapped))

	plain := errors.New("boom")
	ce := AsCustomError(plain)
	assert.Equal(t, ErrCodeInternalError, ce.Code)
	assert.ErrorIs(t, ce, plain)
}

func TestErrorResponse(t *testing.T) {
	ce := ErrInvalidRequest.Wrap(errors.New("unexpected EOF"))
	assert.Equal(t, ErrorResponse{Code: ErrCodeInvalidRequest, Message: "invalid request"}, ce.Response(false))
	assert.Equal(t, "unexpected EOF", ce.Response(true).Details)
	assert.Equal(t, "unexpected EOF", ce.Error())
	assert.Equal(t, "invalid request", ErrInvalidRequest.Error())
}

func TestWriteError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	WriteError(c, ErrPayloadTooLarge, false)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.JSONEq(t, `{"code":"PAYLOAD_TOO_LARGE","message":"request body too large"}`, w.Body.String())
	assert.True(t, c.IsAborted())
}

func TestDecodeJSONStrict(t *testing.T) {
	var v struct {
		Risk string `json:"risk"`
	}
	require.NoError(t, DecodeJSONStrict(strings.NewReader(`{"risk":"orta"}`), &v))
	assert.Equal(t, "orta", v.Risk)

	assert.Error(t, DecodeJSONStrict(strings.NewReader(`{"risk":"orta","extra":1}`), &v))
	assert.Error(t, DecodeJSONStrict(strings.NewReader(`{"risk":"orta"} {}`), &v))
	assert.NoError(t, ParseJSON(`{"risk":"yuksek","extra":1}`, &v))
}

func TestExtractJSONObject(t *testing.T) {
	assert.Equal(t, `{"risk":"low"}`, ExtractJSONObject("Sure! ```json\n{\"risk\":\"low\"}\n```"))
	assert.Equal(t, "low", ExtractJSONObject("  low "))
}

func TestIDsAndKeys(t *testing.T) {
	a, b := GenerateAnalysisID(), GenerateAnalysisID()
	assert.Len(t, a, 26)
	assert.Less(t, a, b)
	assert.Len(t, GenerateUUID(), 36)

	key := HashKey("risk", "salt")
	assert.True(t, strings.HasPrefix(key, "risk:"))
	assert.Len(t, key, len("risk:")+64)
	assert.Equal(t, key, HashKey("risk", "salt"))
}
