package ingredient

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Normalizer 將文字轉為比對用的標準形式
//   - 去除前後空白，NFC 組合
//   - 土耳其語規則轉小寫（I -> ı, İ -> i）
//   - 依折疊表去除重音
//   - 非字母數字轉為空白，連續空白合併
type Normalizer struct {
	fold *strings.Replacer
}

// NewNormalizer 以折疊表建立正規化器
func NewNormalizer(fold map[string]string) *Normalizer {
	keys := make([]string, 0, len(fold))
	for k := range fold {
		keys = append(keys, k)
	}
	// 較長的鍵優先
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, k, fold[k])
	}
	return &Normalizer{fold: strings.NewReplacer(pairs...)}
}

// Normalize 正規化文字，空字串回傳空字串
func (n *Normalizer) Normalize(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	// Caser 有狀態，不可跨 goroutine 共用
	text = cases.Lower(language.Turkish).String(norm.NFC.String(text))
	text = n.fold.Replace(text)

	var b strings.Builder
	b.Grow(len(text))
	pendingSpace := false
	for _, r := range text {
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) {
			pendingSpace = true
			continue
		}
		if pendingSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pendingSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
