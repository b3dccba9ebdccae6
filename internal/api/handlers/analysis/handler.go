package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"ingredient-analyzer/internal/core/ai/queue"
	"ingredient-analyzer/internal/core/image"
	"ingredient-analyzer/internal/core/ingredient"
	"ingredient-analyzer/internal/core/ocr"
	"ingredient-analyzer/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Analyzer 成分分析核心
type Analyzer interface {
	AnalyzeIngredients(ctx context.Context, rawText string) ingredient.Report
}

// Handler 成分分析 API 處理器
type Handler struct {
	analyzer  Analyzer
	extractor ocr.Extractor
	images    *image.Service
	pool      *queue.Pool
	debug     bool
}

// NewHandler 創建處理器
func NewHandler(analyzer Analyzer, extractor ocr.Extractor, images *image.Service, pool *queue.Pool, debug bool) *Handler {
	if extractor == nil {
		extractor = ocr.Noop{}
	}
	return &Handler{
		analyzer:  analyzer,
		extractor: extractor,
		images:    images,
		pool:      pool,
		debug:     debug,
	}
}

// AnalyzeRequest 文字分析請求，ingredients 必須存在但可為空字串
type AnalyzeRequest struct {
	Ingredients *string `json:"ingredients"`
}

// AnalyzeResponse 文字分析響應
type AnalyzeResponse struct {
	AnalysisID string `json:"analysis_id"`
	ingredient.Report
}

// ImageRequest JSON 形式的圖片分析請求
type ImageRequest struct {
	Image string `json:"image"`
}

// ImageResponse 圖片分析響應
type ImageResponse struct {
	AnalysisID    string            `json:"analysis_id,omitempty"`
	ExtractedText string            `json:"extracted_text"`
	Analysis      ingredient.Report `json:"analysis"`
}

// BatchRequest 批次分析請求
type BatchRequest struct {
	Lists []string `json:"lists"`
}

// BatchResponse 批次分析響應，順序與請求相同
type BatchResponse struct {
	AnalysisID string              `json:"analysis_id"`
	Reports    []ingredient.Report `json:"reports"`
}

// Analyze 分析文字成分表
func (h *Handler) Analyze(c *gin.Context) {
	report, ok := h.analyzeText(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, AnalyzeResponse{
		AnalysisID: common.GenerateAnalysisID(),
		Report:     report,
	})
}

// AnalyzeLegacy 舊版 /analyze，直接回傳報告
func (h *Handler) AnalyzeLegacy(c *gin.Context) {
	report, ok := h.analyzeText(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) analyzeText(c *gin.Context) (ingredient.Report, bool) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestid.Get(c)),
		)
		h.fail(c, common.ErrInvalidRequest.Wrap(err))
		return ingredient.Report{}, false
	}
	if req.Ingredients == nil {
		h.fail(c, common.ErrMissingIngredients)
		return ingredient.Report{}, false
	}

	report := h.analyzer.AnalyzeIngredients(c.Request.Context(), *req.Ingredients)
	common.LogInfo("成分分析完成",
		zap.String("request_id", requestid.Get(c)),
		zap.Int("items", len(report.Items)),
		zap.String("overall_risk_level", string(report.OverallRiskLevel)),
	)
	return report, true
}

// AnalyzeImage 讀取上傳圖片、OCR 後分析
func (h *Handler) AnalyzeImage(c *gin.Context) {
	h.analyzeImage(c, true)
}

// AnalyzeImageLegacy 舊版 /analyze_image
func (h *Handler) AnalyzeImageLegacy(c *gin.Context) {
	h.analyzeImage(c, false)
}

func (h *Handler) analyzeImage(c *gin.Context, withID bool) {
	data, err := h.readImage(c)
	if err != nil {
		common.LogWarn("圖片讀取失敗",
			zap.Error(err),
			zap.String("request_id", requestid.Get(c)),
		)
		h.fail(c, err)
		return
	}

	ctx := c.Request.Context()
	text := h.extractor.ExtractText(ctx, data)
	resp := ImageResponse{
		ExtractedText: text,
		Analysis:      h.analyzer.AnalyzeIngredients(ctx, text),
	}
	if withID {
		resp.AnalysisID = common.GenerateAnalysisID()
	}

	common.LogInfo("圖片分析完成",
		zap.String("request_id", requestid.Get(c)),
		zap.Int("image_bytes", len(data)),
		zap.Int("extracted_chars", len([]rune(text))),
		zap.String("overall_risk_level", string(resp.Analysis.OverallRiskLevel)),
	)
	c.JSON(http.StatusOK, resp)
}

// readImage 支援 multipart 欄位 file 或 JSON {"image": data URI}
func (h *Handler) readImage(c *gin.Context) ([]byte, error) {
	if c.ContentType() == gin.MIMEJSON {
		var req ImageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, common.ErrInvalidRequest.Wrap(err)
		}
		return h.images.DecodeDataURI(req.Image)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, common.ErrPayloadTooLarge.Wrap(err)
		}
		return nil, common.ErrMissingImage.Wrap(err)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, common.ErrInvalidRequest.Wrap(fmt.Errorf("failed to open upload: %w", err))
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, common.ErrInvalidRequest.Wrap(fmt.Errorf("failed to read upload: %w", err))
	}
	if err := h.images.CheckSize(data); err != nil {
		return nil, err
	}
	return data, nil
}

// AnalyzeBatch 以工作池分析多份成分表
func (h *Handler) AnalyzeBatch(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, common.ErrInvalidRequest.Wrap(err))
		return
	}
	if len(req.Lists) == 0 {
		h.fail(c, common.ErrEmptyBatch)
		return
	}

	reports := make([]ingredient.Report, len(req.Lists))
	err := h.pool.Run(c.Request.Context(), len(req.Lists), func(ctx context.Context, i int) {
		reports[i] = h.analyzer.AnalyzeIngredients(ctx, req.Lists[i])
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = common.ErrGatewayTimeout.Wrap(err)
		}
		common.LogWarn("批次分析失敗",
			zap.Error(err),
			zap.String("request_id", requestid.Get(c)),
			zap.Int("lists", len(req.Lists)),
		)
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, BatchResponse{
		AnalysisID: common.GenerateAnalysisID(),
		Reports:    reports,
	})
}

func (h *Handler) fail(c *gin.Context, err error) {
	common.WriteError(c, err, h.debug)
}
