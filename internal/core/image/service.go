package image

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"

	_ "image/gif"  // 支援 GIF
	_ "image/jpeg" // 支援 JPEG

	"ingredient-analyzer/internal/pkg/common"

	_ "golang.org/x/image/webp" // 支援 WebP
)

// Service 圖片前處理服務：灰階、二值化後輸出 PNG data URI
type Service struct {
	maxSizeBytes int64
	threshold    uint8
	processor    *Processor
}

// Processed 前處理結果
type Processed struct {
	DataURI string
	Format  string
	Width   int
	Height  int
}

// NewService 創建新的圖片處理服務
func NewService(maxSizeBytes int64, threshold uint8) *Service {
	return &Service{
		maxSizeBytes: maxSizeBytes,
		threshold:    threshold,
		processor:    NewProcessor(defaultMaxDimension),
	}
}

// Preprocess 解碼圖片並做 OCR 前處理
func (s *Service) Preprocess(data []byte) (*Processed, error) {
	if err := s.CheckSize(data); err != nil {
		return nil, err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, common.ErrInvalidImageFormat.Wrap(fmt.Errorf("failed to decode image: %w", err))
	}
	if !isSupportedFormat(format) {
		return nil, common.ErrInvalidImageFormat.Wrap(fmt.Errorf("unsupported image format: %s", format))
	}

	binary := Threshold(Grayscale(s.processor.Resize(img)), s.threshold)

	var buf bytes.Buffer
	if err := png.Encode(&buf, binary); err != nil {
		return nil, fmt.Errorf("failed to encode image as PNG: %w", err)
	}

	bounds := binary.Bounds()
	return &Processed{
		DataURI: "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
		Format:  format,
		Width:   bounds.Dx(),
		Height:  bounds.Dy(),
	}, nil
}

// CheckSize 檢查圖片是否為空或超過大小限制
func (s *Service) CheckSize(data []byte) error {
	if len(data) == 0 {
		return common.ErrMissingImage
	}
	if s.maxSizeBytes > 0 && int64(len(data)) > s.maxSizeBytes {
		return common.ErrInvalidImageSize
	}
	return nil
}

// DecodeDataURI 解析 data:image/...;base64, 格式或純 base64 字串
func (s *Service) DecodeDataURI(imageData string) ([]byte, error) {
	imageData = strings.TrimSpace(imageData)
	if imageData == "" {
		return nil, common.ErrMissingImage
	}

	payload := imageData
	if strings.HasPrefix(imageData, "data:") {
		parts := strings.SplitN(imageData, ",", 2)
		if len(parts) != 2 || !strings.HasPrefix(parts[0], "data:image/") {
			return nil, common.ErrInvalidImageFormat.Wrap(fmt.Errorf("invalid data URI"))
		}
		payload = parts[1]
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, common.ErrInvalidImageFormat.Wrap(fmt.Errorf("failed to decode base64 data: %w", err))
	}
	if s.maxSizeBytes > 0 && int64(len(decoded)) > s.maxSizeBytes {
		return nil, common.ErrInvalidImageSize
	}
	return decoded, nil
}

// Grayscale 轉為灰階
func Grayscale(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	bounds := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(gray, gray.Bounds(), img, bounds.Min, draw.Src)
	return gray
}

// Threshold 二值化，大於門檻為白色，其餘為黑色
func Threshold(gray *image.Gray, threshold uint8) *image.Gray {
	bounds := gray.Bounds()
	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if gray.GrayAt(x, y).Y > threshold {
				out.SetGray(x, y, color.Gray{Y: 255})
			} else {
				out.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}
	return out
}

// isSupportedFormat 檢查圖片格式是否支援
func isSupportedFormat(format string) bool {
	supportedFormats := map[string]bool{
		"jpeg": true,
		"png":  true,
		"gif":  true,
		"webp": true,
	}
	return supportedFormats[format]
}
