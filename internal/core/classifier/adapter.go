package classifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ingredient-analyzer/internal/pkg/common"

	"go.uber.org/zap"
)

// Predictor 外部訓練的文字分類器：text -> 風險字串
type Predictor interface {
	Predict(ctx context.Context, text string) (string, error)
}

// Prediction 備援分類結果，OK 為 false 表示沒有預測
type Prediction struct {
	Label string
	OK    bool
}

// NoPrediction 沒有預測
var NoPrediction = Prediction{}

// Adapter 包裝備援分類器，任何失敗都視為沒有預測
type Adapter struct {
	predictor Predictor
	timeout   time.Duration
	backend   string
}

// NewAdapter 建立 adapter，predictor 為 nil 時永遠回傳 NoPrediction
func NewAdapter(predictor Predictor, timeout time.Duration, backend string) *Adapter {
	if predictor == nil {
		backend = "none"
	}
	return &Adapter{
		predictor: predictor,
		timeout:   timeout,
		backend:   backend,
	}
}

// Available 是否有可用的模型
func (a *Adapter) Available() bool {
	return a != nil && a.predictor != nil
}

// Backend 模型後端名稱
func (a *Adapter) Backend() string {
	if a == nil {
		return "none"
	}
	return a.backend
}

type outcome struct {
	label string
	err   error
}

// PredictRisk 以原始 token 查詢模型
func (a *Adapter) PredictRisk(ctx context.Context, token string) Prediction {
	if !a.Available() || token == "" {
		return NoPrediction
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("predictor panic: %v", r)}
			}
		}()
		label, err := a.predictor.Predict(ctx, token)
		done <- outcome{label: label, err: err}
	}()

	var res outcome
	select {
	case res = <-done:
	case <-ctx.Done():
		res = outcome{err: ctx.Err()}
	}
	common.LogModelCall("risk:"+a.backend, time.Since(start), res.err)

	if res.err != nil {
		common.LogDebug("Risk prediction unavailable",
			zap.String("backend", a.backend),
			zap.Error(res.err),
		)
		return NoPrediction
	}

	label := strings.TrimSpace(res.label)
	if label == "" {
		return NoPrediction
	}
	return Prediction{Label: label, OK: true}
}
