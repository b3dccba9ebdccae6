package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ingredient-analyzer/internal/infrastructure/config"
	"ingredient-analyzer/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const defaultBaseURL = "https://openrouter.ai/api/v1"

// Client OpenRouter chat completions 客戶端
type Client struct {
	client *resty.Client
	config config.OpenRouterConfig
}

// ImageURL 圖片位址或 data URI
type ImageURL struct {
	URL string `json:"url"`
}

// ContentPart 多模態內容片段
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// Message 請求消息
type Message struct {
	Role    string        `json:"role"`
	Content []ContentPart `json:"content"`
}

// Request 表示 API 請求
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature"`
}

// Response OpenRouter 響應結構
type Response struct {
	ID      string    `json:"id"`
	Choices []Choice  `json:"choices"`
	Usage   UsageInfo `json:"usage"`
}

// Choice 選擇結構
type Choice struct {
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
}

// UsageInfo 使用量信息
type UsageInfo struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Error 表示 API 錯誤
type Error struct {
	Error struct {
		Message string      `json:"message"`
		Type    string      `json:"type"`
		Code    interface{} `json:"code"`
	} `json:"error"`
}

// NewClient 創建新的 OpenRouter 客戶端
func NewClient(cfg config.OpenRouterConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("HTTP-Referer", "https://github.com/ingredient-analyzer").
		SetHeader("X-Title", "Ingredient Analyzer")

	return &Client{
		client: client,
		config: cfg,
	}
}

// Complete 以文字模型回答 prompt
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	return c.Chat(ctx, c.config.Model, prompt, "")
}

// Transcribe 以視覺模型讀取圖片，imageDataURI 為 data:image/...;base64,...
func (c *Client) Transcribe(ctx context.Context, prompt, imageDataURI string) (string, error) {
	return c.Chat(ctx, c.config.VisionModel, prompt, imageDataURI)
}

// Chat 發送單輪對話，imageData 可為空
func (c *Client) Chat(ctx context.Context, model, prompt, imageData string) (string, error) {
	parts := []ContentPart{{Type: "text", Text: strings.TrimSpace(prompt)}}
	if imageData != "" {
		url := imageData
		if !strings.HasPrefix(imageData, "data:image/") {
			url = "data:image/png;base64," + imageData
		}
		parts = append(parts, ContentPart{Type: "image_url", ImageURL: &ImageURL{URL: url}})
	}

	req := &Request{
		Model:     model,
		Messages:  []Message{{Role: "user", Content: parts}},
		MaxTokens: c.config.MaxTokens,
	}

	common.LogDebug("Sending request to OpenRouter",
		zap.String("model", model),
		zap.Bool("has_image", imageData != ""),
	)

	var result Response
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("failed to send request to OpenRouter: %w", err)
	}

	if resp.IsError() {
		return "", fmt.Errorf("OpenRouter API error (status %d): %s", resp.StatusCode(), sanitizeResponse(resp.Body()))
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenRouter response")
	}

	content := strings.TrimSpace(result.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("empty content in OpenRouter response")
	}

	common.LogDebug("OpenRouter response received",
		zap.String("model", model),
		zap.Int("content_length", len(content)),
		zap.Int("total_tokens", result.Usage.TotalTokens),
	)
	return content, nil
}

// sanitizeResponse 取出錯誤訊息，並避免把圖片資料寫進日誌
func sanitizeResponse(body []byte) string {
	var apiErr Error
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return apiErr.Error.Message
	}

	text := string(body)
	if strings.Contains(text, "data:image/") || strings.Contains(text, "base64") {
		return "[IMAGE_DATA_REMOVED]"
	}
	if len(text) > 512 {
		return text[:512] + "..."
	}
	return text
}
