package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	model "todo-api.com/todo-api/internal/models"
	"todo-api.com/todo-api/internal/query"
)

type TaskRepository struct {
	db *gorm.DB
}

var ErrOptimisticLock = errors.New("optimistic locking conflict")

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	task.Version = 1

	return r.db.WithContext(ctx).Create(task).Error
}

// FindByID looks a task up by identifier. Soft-deleted tasks stay
// addressable when includeDeleted is set, which restore and permanent
// delete rely on.
func (r *TaskRepository) FindByID(ctx context.Context, id string, includeDeleted bool) (*model.Task, error) {
	q := r.db.WithContext(ctx)
	if !includeDeleted {
		q = q.Where("is_deleted <> ?", true)
	}

	var task model.Task
	if err := q.First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) List(
	ctx context.Context,
	params map[string]interface{},
	includeDeleted bool,
	p query.Pagination,
	s query.Sort,
) ([]model.Task, query.Meta, error) {
	base := query.Apply(r.db.Model(&model.Task{}), params, includeDeleted)

	var tasks []model.Task
	meta, err := query.Paginate(ctx, base, p, s, &tasks)
	if err != nil {
		return nil, query.Meta{}, err
	}
	return tasks, meta, nil
}

// Update applies a field-level partial update guarded by the version
// counter. The caller routes derived fields (completed_at) through the
// schema rules before calling.
func (r *TaskRepository) Update(ctx context.Context, task *model.Task, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	fields["version"] = gorm.Expr("version + 1")

	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ? AND version = ?", task.ID, task.Version).
		Updates(fields)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOptimisticLock
	}

	task.Version++
	return nil
}

func (r *TaskRepository) SoftDelete(ctx context.Context, task *model.Task, now time.Time) error {
	return r.Update(ctx, task, map[string]interface{}{
		"is_deleted": true,
		"deleted_at": now.UTC(),
	})
}

func (r *TaskRepository) Restore(ctx context.Context, task *model.Task) error {
	return r.Update(ctx, task, map[string]interface{}{
		"is_deleted": false,
		"deleted_at": nil,
	})
}

func (r *TaskRepository) PermanentDelete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Cleanup permanently removes soft-deleted tasks whose deletion is older
// than the cutoff. Safe to re-run: nothing past the cutoff means zero
// rows removed.
func (r *TaskRepository) Cleanup(ctx context.Context, olderThanDays int) (int64, time.Time, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -olderThanDays)

	res := r.db.WithContext(ctx).
		Where("is_deleted = ? AND deleted_at IS NOT NULL AND deleted_at < ?", true, cutoff).
		Delete(&model.Task{})

	return res.RowsAffected, cutoff, res.Error
}
