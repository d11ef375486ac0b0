package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	dto "todo-api.com/todo-api/internal/data_models"
	apperrors "todo-api.com/todo-api/internal/errors"
	model "todo-api.com/todo-api/internal/models"
	"todo-api.com/todo-api/internal/query"
	repository "todo-api.com/todo-api/internal/repositories"
)

// BulkWrite maps one REST bulk request onto repository operations. The
// batch is unordered: a task that fails validation or insertion is
// recorded in the result and the rest still run.
func (s *TaskService) BulkWrite(ctx context.Context, req *dto.BulkTaskRequest) (*dto.BulkResult, error) {
	now := time.Now().UTC()

	var (
		ops       []repository.BulkOperation
		preErrors []string
	)

	switch req.Operation {
	case dto.BulkOperationCreate:
		if len(req.Tasks) == 0 {
			return nil, apperrors.Validation(map[string]string{"tasks": "at least one task is required"})
		}
		for i := range req.Tasks {
			task, fields := buildTask(&req.Tasks[i], now)
			if len(fields) > 0 {
				preErrors = append(preErrors, fmt.Sprintf("task %d: %s", i, joinFieldErrors(fields)))
				continue
			}
			ops = append(ops, repository.BulkOperation{Kind: repository.BulkInsert, Task: task})
		}

	case dto.BulkOperationUpdate:
		update, fields := sanitizeBulkUpdate(req.Update, now)
		if len(fields) > 0 {
			return nil, apperrors.Validation(fields)
		}
		if len(update) == 0 {
			return nil, apperrors.Validation(map[string]string{"update": "at least one updatable field is required"})
		}
		ops = append(ops, repository.BulkOperation{
			Kind:   repository.BulkUpdate,
			Filter: req.Filters,
			Update: update,
		})

	case dto.BulkOperationDelete:
		ops = append(ops, repository.BulkOperation{
			Kind:   repository.BulkDelete,
			Filter: req.Filters,
			Update: map[string]interface{}{
				"is_deleted": true,
				"deleted_at": now,
			},
		})

	default:
		return nil, apperrors.Validation(map[string]string{
			"operation": "operation must be one of create, update, delete",
		})
	}

	out, err := s.repo.BulkWrite(ctx, ops)
	if err != nil {
		return nil, apperrors.Normalize(err)
	}

	return &dto.BulkResult{
		InsertedCount: out.InsertedCount,
		MatchedCount:  out.MatchedCount,
		ModifiedCount: out.ModifiedCount,
		DeletedCount:  out.DeletedCount,
		UpsertedCount: out.UpsertedCount,
		Errors:        append(preErrors, out.Errors...),
	}, nil
}

// sanitizeBulkUpdate filters a raw update document down to writable
// columns, applying the same schema rules as the single-document path.
// A completed change derives completed_at through the shared rule.
func sanitizeBulkUpdate(raw map[string]interface{}, now time.Time) (map[string]interface{}, map[string]string) {
	update := map[string]interface{}{}
	fields := map[string]string{}

	for key, value := range raw {
		switch column := query.SnakeCase(key); column {
		case "title":
			if title, err := model.NormalizeTitle(fmt.Sprint(value)); err != nil {
				fields["title"] = err.Error()
			} else {
				update["title"] = title
			}
		case "description":
			if desc, err := model.NormalizeDescription(fmt.Sprint(value)); err != nil {
				fields["description"] = err.Error()
			} else {
				update["description"] = desc
			}
		case "priority":
			if priority, err := model.ParsePriority(fmt.Sprint(value)); err != nil {
				fields["priority"] = err.Error()
			} else {
				update["priority"] = priority
			}
		case "completed":
			completed := toBool(value)
			update["completed"] = completed
			update["completed_at"] = model.CompletionTimestamp(completed, now)
		case "due_date":
			due, ok := toTime(value)
			if !ok {
				fields["dueDate"] = "due date must be an RFC3339 timestamp"
				continue
			}
			if err := model.ValidateDueDate(due, now); err != nil {
				fields["dueDate"] = err.Error()
			} else {
				update["due_date"] = due.UTC()
			}
		case "tags":
			tags, err := model.NormalizeTags(toStrings(value))
			if err != nil {
				fields["tags"] = err.Error()
			} else {
				update["tags"] = tags
			}
		default:
			// protected and unknown columns are dropped, not written
		}
	}

	return update, fields
}

func joinFieldErrors(fields map[string]string) string {
	parts := make([]string, 0, len(fields))
	for field, msg := range fields {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
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
	case string:
		return []string{s}
	default:
		return nil
	}
}
