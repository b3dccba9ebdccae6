package ocr

import (
	"context"
	"strings"
	"time"

	"ingredient-analyzer/internal/core/image"
	"ingredient-analyzer/internal/pkg/common"

	"go.uber.org/zap"
)

// Extractor 圖片轉文字，失敗時回傳空字串
type Extractor interface {
	ExtractText(ctx context.Context, imageBytes []byte) string
}

// Transcriber 視覺模型
type Transcriber interface {
	Transcribe(ctx context.Context, prompt, imageDataURI string) (string, error)
}

const transcribePrompt = `Transcribe the ingredients list printed in this image exactly as written.
Return only the ingredients text, keep the original language, punctuation and separators.
If no readable text is present, return an empty answer.`

// VisionExtractor 前處理後交由視覺模型讀取文字
type VisionExtractor struct {
	images      *image.Service
	transcriber Transcriber
}

// NewVisionExtractor 建立視覺模型 OCR
func NewVisionExtractor(images *image.Service, transcriber Transcriber) *VisionExtractor {
	return &VisionExtractor{images: images, transcriber: transcriber}
}

// ExtractText 無法解碼或模型失敗都回傳空字串
func (e *VisionExtractor) ExtractText(ctx context.Context, imageBytes []byte) string {
	processed, err := e.images.Preprocess(imageBytes)
	if err != nil {
		common.LogWarn("Image preprocessing failed", zap.Error(err))
		return ""
	}

	start := time.Now()
	text, err := e.transcriber.Transcribe(ctx, transcribePrompt, processed.DataURI)
	common.LogModelCall("ocr", time.Since(start), err)
	if err != nil {
		return ""
	}

	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```text")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// Noop 未設定視覺模型時使用
type Noop struct{}

// ExtractText 永遠回傳空字串
func (Noop) ExtractText(context.Context, []byte) string {
	return ""
}
