package ingredient

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// 連接詞候選，邊界另外以 Unicode 規則判斷
var conjunctionPattern = regexp.MustCompile(`(?i)ve|and`)

// SplitIngredientsList 將成分表文字切成成分片段
//
//	"Sugar, glucose syrup; E322 (lecithin) ve E202"
//	-> ["Sugar", "glucose syrup", "E322 (lecithin)", "E202"]
func SplitIngredientsList(rawText string) []string {
	tokens := []string{}
	if rawText == "" {
		return tokens
	}

	for _, part := range strings.Split(strings.ReplaceAll(rawText, ";", ","), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		for _, sub := range splitConjunctions(part) {
			if sub = strings.TrimSpace(sub); sub != "" {
				tokens = append(tokens, sub)
			}
		}
	}
	return tokens
}

// splitConjunctions 以獨立的 "ve" / "and" 切分片段
func splitConjunctions(segment string) []string {
	var parts []string
	last := 0
	for _, loc := range conjunctionPattern.FindAllStringIndex(segment, -1) {
		if !standalone(segment, loc[0], loc[1]) {
			continue
		}
		parts = append(parts, segment[last:loc[0]])
		last = loc[1]
	}
	return append(parts, segment[last:])
}

// standalone 判斷 s[start:end] 前後都不是文字字元
func standalone(s string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(s) {
		r, _ := utf8.DecodeRuneInString(s[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.Is(unicode.Mn, r)
}
