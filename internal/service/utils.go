package service

import (
	"strings"
	"unicode/utf8"
)

// sanitizeUTF8 drops invalid UTF-8 bytes so extracted text can be stored and
// serialized as JSON.
func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}

	var result strings.Builder
	result.Grow(len(s))
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError && size == 1 {
			s = s[1:]
			continue
		}
		result.WriteRune(r)
		s = s[size:]
	}
	return result.String()
}

func sanitizeRows(rows [][]string) [][]string {
	for _, row := range rows {
		for i, cell := range row {
			row[i] = sanitizeUTF8(strings.TrimSpace(cell))
		}
	}
	return rows
}
