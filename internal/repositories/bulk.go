package repository

import (
	"context"

	"gorm.io/gorm"

	model "todo-api.com/todo-api/internal/models"
	"todo-api.com/todo-api/internal/query"
)

type BulkKind string

const (
	BulkInsert BulkKind = "insert"
	BulkUpdate BulkKind = "update"
	BulkDelete BulkKind = "delete"
)

type BulkOperation struct {
	Kind   BulkKind
	Task   *model.Task
	Filter map[string]interface{}
	Update map[string]interface{}
}

type BulkOutcome struct {
	InsertedCount int64
	MatchedCount  int64
	ModifiedCount int64
	DeletedCount  int64
	UpsertedCount int64
	Errors        []string
}

// BulkWrite executes the operations as an unordered batch. A failing
// operation is recorded and the rest still run; counts report what
// actually happened. Deletes are soft deletes and therefore never touch
// rows that are already flagged.
func (r *TaskRepository) BulkWrite(ctx context.Context, ops []BulkOperation) (BulkOutcome, error) {
	var out BulkOutcome

	for _, op := range ops {
		switch op.Kind {
		case BulkInsert:
			if err := r.Create(ctx, op.Task); err != nil {
				out.Errors = append(out.Errors, err.Error())
				continue
			}
			out.InsertedCount++

		case BulkUpdate:
			q := query.Apply(r.db.WithContext(ctx).Model(&model.Task{}), op.Filter, false)
			res := q.Updates(withVersionBump(op.Update))
			if res.Error != nil {
				out.Errors = append(out.Errors, res.Error.Error())
				continue
			}
			out.MatchedCount += res.RowsAffected
			out.ModifiedCount += res.RowsAffected

		case BulkDelete:
			q := query.Apply(r.db.WithContext(ctx).Model(&model.Task{}), op.Filter, false)
			res := q.Updates(withVersionBump(op.Update))
			if res.Error != nil {
				out.Errors = append(out.Errors, res.Error.Error())
				continue
			}
			out.DeletedCount += res.RowsAffected
		}
	}

	return out, nil
}

func withVersionBump(fields map[string]interface{}) map[string]interface{} {
	bumped := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		bumped[k] = v
	}
	bumped["version"] = gorm.Expr("version + 1")
	return bumped
}
