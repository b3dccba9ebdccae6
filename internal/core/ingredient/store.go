package ingredient

import "strings"

// Store 依載入順序保存的唯讀成分字典
//
// 比對規則：依載入順序掃描，第一筆符合下列任一條件的紀錄勝出
//  1. token 等於正規化後的 code
//  2. token 等於正規化後的 common_name
//  3. token 與正規化後的 common_name 互為子字串
//
// 空字串是任何字串的子字串：空 token 命中第一筆紀錄，
// common_name 正規化後為空的紀錄會命中所有掃描到它的 token。
// code 完全相符的索引只用來縮短掃描範圍，不改變勝出的紀錄。
type Store struct {
	records []Record
	codes   []string
	names   []string
	byCode  map[string]int
}

// NewStore 建立字典，缺少風險等級的紀錄會補上 lexicon 的預設值
func NewStore(records []Record, lex *Lexicon) *Store {
	normalizer := lex.Normalizer()
	s := &Store{
		records: make([]Record, len(records)),
		codes:   make([]string, len(records)),
		names:   make([]string, len(records)),
		byCode:  make(map[string]int, len(records)),
	}
	for i, r := range records {
		s.records[i] = r.WithDefaults(lex.DefaultRisk)
		s.codes[i] = normalizer.Normalize(r.Code)
		s.names[i] = normalizer.Normalize(r.CommonName)
		if s.codes[i] == "" {
			continue
		}
		if _, seen := s.byCode[s.codes[i]]; !seen {
			s.byCode[s.codes[i]] = i
		}
	}
	return s
}

// Len 字典筆數
func (s *Store) Len() int {
	return len(s.records)
}

// Records 回傳紀錄副本
func (s *Store) Records() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// FindFirstMatch 以正規化後的 token 查詢字典
func (s *Store) FindFirstMatch(normalizedToken string) (Record, bool) {
	limit := len(s.records)
	if i, ok := s.byCode[normalizedToken]; ok {
		limit = i
	}

	for i := 0; i < limit; i++ {
		name := s.names[i]
		if normalizedToken == name ||
			strings.Contains(name, normalizedToken) ||
			strings.Contains(normalizedToken, name) {
			return s.records[i], true
		}
	}

	if limit < len(s.records) {
		return s.records[limit], true
	}
	return Record{}, false
}
