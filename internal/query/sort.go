package query

import (
	"strings"
	"unicode"
)

type Sort struct {
	Field string
	Desc  bool
}

// ParseSort builds a single-field sort order. Ascending is recognized as
// "asc" or "1"; anything else sorts descending. An empty field falls
// back to created_at.
func ParseSort(field, order string) Sort {
	if field == "" {
		field = "created_at"
	}

	asc := false
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "asc", "1":
		asc = true
	}

	return Sort{Field: SnakeCase(field), Desc: !asc}
}

func (s Sort) Clause() string {
	if s.Desc {
		return s.Field + " DESC"
	}
	return s.Field + " ASC"
}

// SnakeCase maps JSON-style field names (dueDate) onto column names
// (due_date). Already-snake names pass through unchanged.
func SnakeCase(field string) string {
	var b strings.Builder
	for i, r := range field {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
