package query

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Apply translates a parameter map into conjunctive where clauses.
// Nil and empty-string values are skipped, never treated as "match
// nothing". Unless includeDeleted is set, the soft-delete exclusion is
// appended after every caller-supplied clause so it cannot be defeated.
func Apply(db *gorm.DB, params map[string]interface{}, includeDeleted bool) *gorm.DB {
	for key, raw := range params {
		if isEmpty(raw) {
			continue
		}

		switch key {
		case "completed":
			db = db.Where("completed = ?", toBool(raw))
		case "priority":
			db = anyOf(db, "priority", raw)
		case "tags":
			db = tagsAnyOf(db, raw)
		case "dueDateFrom":
			if t, ok := toTime(raw); ok {
				db = db.Where("due_date >= ?", t)
			}
		case "dueDateTo":
			if t, ok := toTime(raw); ok {
				db = db.Where("due_date <= ?", t)
			}
		case "createdFrom":
			if t, ok := toTime(raw); ok {
				db = db.Where("created_at >= ?", t)
			}
		case "createdTo":
			if t, ok := toTime(raw); ok {
				db = db.Where("created_at <= ?", t)
			}
		case "overdue":
			if toBool(raw) {
				db = db.Where("due_date IS NOT NULL AND due_date < ? AND completed = ?", time.Now().UTC(), false)
			}
		case "search":
			db = applySearch(db, fmt.Sprint(raw))
		default:
			// escape hatch: exact match on whatever column the key names
			db = db.Where(fmt.Sprintf("%s = ?", SnakeCase(key)), raw)
		}
	}

	if !includeDeleted {
		db = db.Where("is_deleted <> ?", true)
	}
	return db
}

// applySearch matches title, description and tags and ranks by a
// weighted relevance score: title 10, description 5, tags 1.
func applySearch(db *gorm.DB, q string) *gorm.DB {
	pat := "%" + strings.ToLower(strings.TrimSpace(q)) + "%"

	db = db.Where(
		"(lower(title) LIKE ? OR lower(description) LIKE ? OR lower(tags) LIKE ?)",
		pat, pat, pat,
	)

	return db.Select(
		"*, (CASE WHEN lower(title) LIKE ? THEN 10 ELSE 0 END)"+
			" + (CASE WHEN lower(description) LIKE ? THEN 5 ELSE 0 END)"+
			" + (CASE WHEN lower(tags) LIKE ? THEN 1 ELSE 0 END) AS relevance",
		pat, pat, pat,
	).Order("relevance DESC")
}

func anyOf(db *gorm.DB, column string, raw interface{}) *gorm.DB {
	if vals := toStrings(raw); len(vals) > 0 {
		return db.Where(column+" IN ?", vals)
	}
	return db.Where(column+" = ?", raw)
}

// tagsAnyOf matches any of the given tags against the JSON-encoded tags
// column.
func tagsAnyOf(db *gorm.DB, raw interface{}) *gorm.DB {
	vals := toStrings(raw)
	if len(vals) == 0 {
		vals = []string{fmt.Sprint(raw)}
	}

	conds := make([]string, 0, len(vals))
	vars := make([]interface{}, 0, len(vals))
	for _, v := range vals {
		conds = append(conds, "tags LIKE ?")
		vars = append(vars, `%"`+strings.ToLower(strings.TrimSpace(v))+`"%`)
	}
	return db.Where(strings.Join(conds, " OR "), vars...)
}

func isEmpty(v interface{}) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

func toBool(v interface{}) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return strings.EqualFold(strings.TrimSpace(b), "true")
	default:
		return false
	}
}

func toTime(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	case string:
		parsed, err := time.Parse(time.RFC3339, t)
		return parsed, err == nil
	default:
		return time.Time{}, false
	}
}

func toStrings(v interface{}) []string {
	switch s := v.(type) {
	case []string:
		return s
	case []interface{}:
		out := make([]string, 0, len(s))
		for _, e := range s {
			out = append(out, fmt.Sprint(e))
		}
		return out
	default:
		return nil
	}
}
