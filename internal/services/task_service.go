package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	dto "todo-api.com/todo-api/internal/data_models"
	apperrors "todo-api.com/todo-api/internal/errors"
	model "todo-api.com/todo-api/internal/models"
	"todo-api.com/todo-api/internal/query"
	repository "todo-api.com/todo-api/internal/repositories"
)

type TaskService struct {
	repo       *repository.TaskRepository
	production bool
}

func NewTaskService(repo *repository.TaskRepository, production bool) *TaskService {
	return &TaskService{
		repo:       repo,
		production: production,
	}
}

func (s *TaskService) CreateTask(ctx context.Context, req *dto.CreateTaskRequest) (*model.Task, error) {
	task, fields := buildTask(req, time.Now().UTC())
	if len(fields) > 0 {
		return nil, apperrors.Validation(fields)
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, apperrors.Normalize(err)
	}
	return task, nil
}

func (s *TaskService) GetTask(ctx context.Context, id string, includeDeleted bool) (*model.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.Cast("malformed task id")
	}

	task, err := s.repo.FindByID(ctx, id, includeDeleted)
	if err != nil {
		return nil, apperrors.Normalize(err)
	}
	return task, nil
}

func (s *TaskService) ListTasks(
	ctx context.Context,
	params map[string]interface{},
	includeDeleted bool,
	p query.Pagination,
	sort query.Sort,
) ([]model.Task, query.Meta, error) {
	tasks, meta, err := s.repo.List(ctx, params, includeDeleted, p, sort)
	if err != nil {
		return nil, query.Meta{}, apperrors.Normalize(err)
	}
	return tasks, meta, nil
}

// UpdateTask applies a partial update. A change to completed derives
// completed_at through the same rule the bulk path uses.
func (s *TaskService) UpdateTask(ctx context.Context, id string, req *dto.UpdateTaskRequest) (*model.Task, error) {
	task, err := s.GetTask(ctx, id, false)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	fields := map[string]string{}
	updates := map[string]interface{}{}

	if req.Title != nil {
		if title, verr := model.NormalizeTitle(*req.Title); verr != nil {
			fields["title"] = verr.Error()
		} else {
			updates["title"] = title
		}
	}
	if req.Description != nil {
		if desc, verr := model.NormalizeDescription(*req.Description); verr != nil {
			fields["description"] = verr.Error()
		} else {
			updates["description"] = desc
		}
	}
	if req.Priority != nil {
		if priority, verr := model.ParsePriority(*req.Priority); verr != nil {
			fields["priority"] = verr.Error()
		} else {
			updates["priority"] = priority
		}
	}
	if req.DueDate != nil {
		if verr := model.ValidateDueDate(*req.DueDate, now); verr != nil {
			fields["dueDate"] = verr.Error()
		} else {
			updates["due_date"] = req.DueDate.UTC()
		}
	}
	if req.Tags != nil {
		if tags, verr := model.NormalizeTags(*req.Tags); verr != nil {
			fields["tags"] = verr.Error()
		} else {
			updates["tags"] = tags
		}
	}
	if req.Completed != nil && *req.Completed != task.Completed {
		updates["completed"] = *req.Completed
		updates["completed_at"] = model.CompletionTimestamp(*req.Completed, now)
	}

	if len(fields) > 0 {
		return nil, apperrors.Validation(fields)
	}

	if err := s.applyUpdate(ctx, task, updates); err != nil {
		return nil, err
	}
	return s.reload(ctx, task.ID)
}

// ToggleCompletion flips the completed flag and recomputes completed_at.
func (s *TaskService) ToggleCompletion(ctx context.Context, id string) (*model.Task, error) {
	task, err := s.GetTask(ctx, id, false)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	completed := !task.Completed
	updates := map[string]interface{}{
		"completed":    completed,
		"completed_at": model.CompletionTimestamp(completed, now),
	}

	if err := s.applyUpdate(ctx, task, updates); err != nil {
		return nil, err
	}
	return s.reload(ctx, task.ID)
}

// DeleteTask soft-deletes by default. Permanent deletes are refused in
// production deployments.
func (s *TaskService) DeleteTask(ctx context.Context, id string, permanent bool) (*model.Task, error) {
	if permanent && s.production {
		return nil, apperrors.ErrMaintenanceForbidden
	}

	task, err := s.GetTask(ctx, id, permanent)
	if err != nil {
		return nil, err
	}

	if permanent {
		if err := s.repo.PermanentDelete(ctx, id); err != nil {
			return nil, apperrors.Normalize(err)
		}
		return task, nil
	}

	if err := s.repo.SoftDelete(ctx, task, time.Now()); err != nil {
		return nil, s.normalizeWrite(err)
	}
	return s.reload(ctx, task.ID)
}

func (s *TaskService) RestoreTask(ctx context.Context, id string) (*model.Task, error) {
	task, err := s.GetTask(ctx, id, true)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Restore(ctx, task); err != nil {
		return nil, s.normalizeWrite(err)
	}
	return s.reload(ctx, task.ID)
}

func (s *TaskService) applyUpdate(ctx context.Context, task *model.Task, updates map[string]interface{}) error {
	if err := s.repo.Update(ctx, task, updates); err != nil {
		return s.normalizeWrite(err)
	}
	return nil
}

func (s *TaskService) normalizeWrite(err error) error {
	if errors.Is(err, repository.ErrOptimisticLock) {
		return apperrors.ErrVersionConflict
	}
	return apperrors.Normalize(err)
}

func (s *TaskService) reload(ctx context.Context, id string) (*model.Task, error) {
	task, err := s.repo.FindByID(ctx, id, true)
	if err != nil {
		return nil, apperrors.Normalize(err)
	}
	return task, nil
}

// buildTask assembles a new task from a create request, applying every
// schema rule and collecting field errors.
func buildTask(req *dto.CreateTaskRequest, now time.Time) (*model.Task, map[string]string) {
	fields := map[string]string{}

	title, err := model.NormalizeTitle(req.Title)
	if err != nil {
		fields["title"] = err.Error()
	}
	desc, err := model.NormalizeDescription(req.Description)
	if err != nil {
		fields["description"] = err.Error()
	}
	priority, err := model.ParsePriority(req.Priority)
	if err != nil {
		fields["priority"] = err.Error()
	}
	tags, err := model.NormalizeTags(req.Tags)
	if err != nil {
		fields["tags"] = err.Error()
	}

	var dueDate *time.Time
	if req.DueDate != nil {
		if err := model.ValidateDueDate(*req.DueDate, now); err != nil {
			fields["dueDate"] = err.Error()
		} else {
			due := req.DueDate.UTC()
			dueDate = &due
		}
	}

	if len(fields) > 0 {
		return nil, fields
	}

	return &model.Task{
		Title:       title,
		Description: desc,
		Priority:    priority,
		DueDate:     dueDate,
		Tags:        tags,
	}, nil
}
