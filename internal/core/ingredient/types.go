package ingredient

import (
	"encoding/json"
	"strings"
)

// Record 字典中的一筆成分資料
type Record struct {
	Code        string `json:"code"`
	CommonName  string `json:"common_name"`
	Category    string `json:"category"`
	Risk        string `json:"risk"`
	Description string `json:"description"`
}

// WithDefaults 缺少風險等級時補上預設值
func (r Record) WithDefaults(defaultRisk string) Record {
	if strings.TrimSpace(r.Risk) == "" {
		r.Risk = defaultRisk
	}
	return r
}

// 未命中時的說明文字
const (
	InfoPredicted = "item not in dictionary, predicted via model."
	InfoNotFound  = "item not found in data store."
)

// MatchResult 單一成分的比對結果
// Matched 為 true 時帶字典欄位，否則帶可選的 PredictedRisk 與 Info
type MatchResult struct {
	Ingredient    string
	Matched       bool
	CommonName    string
	Category      string
	Risk          string
	Description   string
	PredictedRisk string
	Info          string
}

// HasPrediction 是否有模型預測
func (m MatchResult) HasPrediction() bool {
	return !m.Matched && m.PredictedRisk != ""
}

// Label 用於計分的風險字串
func (m MatchResult) Label() (string, bool) {
	if m.Matched {
		return m.Risk, true
	}
	if m.PredictedRisk != "" {
		return m.PredictedRisk, true
	}
	return "", false
}

type matchedJSON struct {
	Ingredient  string `json:"ingredient"`
	Matched     bool   `json:"matched"`
	CommonName  string `json:"common_name"`
	Category    string `json:"category"`
	Risk        string `json:"risk"`
	Description string `json:"description"`
}

type unmatchedJSON struct {
	Ingredient    string `json:"ingredient"`
	Matched       bool   `json:"matched"`
	PredictedRisk string `json:"predicted_risk,omitempty"`
	Info          string `json:"info"`
}

// MarshalJSON 只輸出與比對結果相符的欄位
func (m MatchResult) MarshalJSON() ([]byte, error) {
	if m.Matched {
		return json.Marshal(matchedJSON{
			Ingredient:  m.Ingredient,
			Matched:     true,
			CommonName:  m.CommonName,
			Category:    m.Category,
			Risk:        m.Risk,
			Description: m.Description,
		})
	}
	return json.Marshal(unmatchedJSON{
		Ingredient:    m.Ingredient,
		PredictedRisk: m.PredictedRisk,
		Info:          m.Info,
	})
}

// Report 整份成分表的分析結果
type Report struct {
	RawText          string        `json:"raw_text"`
	SummaryText      string        `json:"summary_text"`
	Items            []MatchResult `json:"items"`
	OverallRiskLevel RiskLevel     `json:"overall_risk_level"`
}
