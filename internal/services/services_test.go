package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	dto "todo-api.com/todo-api/internal/data_models"
	apperrors "todo-api.com/todo-api/internal/errors"
	model "todo-api.com/todo-api/internal/models"
	"todo-api.com/todo-api/internal/query"
	repository "todo-api.com/todo-api/internal/repositories"
)

func setupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	if err := db.AutoMigrate(&model.Task{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	return db
}

func newService(t *testing.T) (*TaskService, *gorm.DB) {
	db := setupTestDB(t)
	return NewTaskService(repository.NewTaskRepository(db), false), db
}

func mustCreate(t *testing.T, s *TaskService, req dto.CreateTaskRequest) *model.Task {
	t.Helper()
	task, err := s.CreateTask(context.Background(), &req)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	return task
}

func strptr(s string) *string { return &s }
func boolptr(b bool) *bool    { return &b }

func TestCreateTaskTrimsAndDefaults(t *testing.T) {
	s, _ := newService(t)

	task := mustCreate(t, s, dto.CreateTaskRequest{Title: "  Buy milk  "})

	if task.Title != "Buy milk" {
		t.Errorf("expected trimmed title, got %q", task.Title)
	}
	if task.Completed {
		t.Error("new tasks start incomplete")
	}
	if task.Priority != model.PriorityMedium {
		t.Errorf("expected default priority medium, got %q", task.Priority)
	}
	if task.ID == "" {
		t.Error("expected generated id")
	}

	fetched, err := s.GetTask(context.Background(), task.ID, false)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if fetched.Title != "Buy milk" {
		t.Errorf("round-trip changed the title: %q", fetched.Title)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		req   dto.CreateTaskRequest
		field string
	}{
		{"blank title", dto.CreateTaskRequest{Title: "   "}, "title"},
		{"oversized title", dto.CreateTaskRequest{Title: strings.Repeat("x", 501)}, "title"},
		{"bad priority", dto.CreateTaskRequest{Title: "ok", Priority: "critical"}, "priority"},
	}
	for _, c := range cases {
		_, err := s.CreateTask(ctx, &c.req)
		var ex *apperrors.Exception
		if !errors.As(err, &ex) || ex.Type != apperrors.TypeValidation {
			t.Errorf("%s: expected validation error, got %v", c.name, err)
			continue
		}
		if _, ok := ex.Fields[c.field]; !ok {
			t.Errorf("%s: expected field %q in %v", c.name, c.field, ex.Fields)
		}
	}

	past := time.Now().Add(-time.Hour)
	_, err := s.CreateTask(ctx, &dto.CreateTaskRequest{Title: "ok", DueDate: &past})
	var ex *apperrors.Exception
	if !errors.As(err, &ex) || ex.Type != apperrors.TypeValidation {
		t.Errorf("past due date: expected validation error, got %v", err)
	}
}

func TestUpdateCompletionTimestamps(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	task := mustCreate(t, s, dto.CreateTaskRequest{Title: "pending"})

	updated, err := s.UpdateTask(ctx, task.ID, &dto.UpdateTaskRequest{Completed: boolptr(true)})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !updated.Completed || updated.CompletedAt == nil {
		t.Error("completing a task must set completed_at")
	}

	reverted, err := s.UpdateTask(ctx, task.ID, &dto.UpdateTaskRequest{Completed: boolptr(false)})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if reverted.Completed || reverted.CompletedAt != nil {
		t.Error("un-completing a task must clear completed_at")
	}
}

func TestToggleCompletion(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	task := mustCreate(t, s, dto.CreateTaskRequest{Title: "toggle me"})

	toggled, err := s.ToggleCompletion(ctx, task.ID)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if !toggled.Completed || toggled.CompletedAt == nil {
		t.Error("first toggle should complete the task and set completed_at")
	}

	back, err := s.ToggleCompletion(ctx, task.ID)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if back.Completed || back.CompletedAt != nil {
		t.Error("second toggle should clear completion")
	}
}

func TestUpdatePartialFields(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	task := mustCreate(t, s, dto.CreateTaskRequest{
		Title:       "original",
		Description: "desc",
		Tags:        []string{"One", " two "},
	})
	if len(task.Tags) != 2 || task.Tags[0] != "one" || task.Tags[1] != "two" {
		t.Fatalf("tags not normalized: %v", task.Tags)
	}

	updated, err := s.UpdateTask(ctx, task.ID, &dto.UpdateTaskRequest{Title: strptr("  renamed  ")})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Title != "renamed" {
		t.Errorf("expected renamed, got %q", updated.Title)
	}
	if updated.Description != "desc" {
		t.Errorf("untouched field changed: %q", updated.Description)
	}

	_, err = s.UpdateTask(ctx, task.ID, &dto.UpdateTaskRequest{Title: strptr("   ")})
	var ex *apperrors.Exception
	if !errors.As(err, &ex) || ex.Type != apperrors.TypeValidation {
		t.Errorf("blank title update should fail validation, got %v", err)
	}
}

func TestSoftDeleteLifecycle(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	task := mustCreate(t, s, dto.CreateTaskRequest{Title: "doomed"})

	deleted, err := s.DeleteTask(ctx, task.ID, false)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if !deleted.IsDeleted || deleted.DeletedAt == nil {
		t.Error("soft delete must set flag and timestamp")
	}

	if _, err := s.GetTask(ctx, task.ID, false); !errors.Is(err, apperrors.ErrTaskNotFound) {
		t.Errorf("default read should miss soft-deleted tasks, got %v", err)
	}
	if _, err := s.GetTask(ctx, task.ID, true); err != nil {
		t.Errorf("soft-deleted task should stay addressable: %v", err)
	}

	tasks, _, err := s.ListTasks(ctx, nil, false, query.ParsePagination(1, 10), query.ParseSort("", ""))
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("soft-deleted tasks must not appear in lists, got %d", len(tasks))
	}

	restored, err := s.RestoreTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if restored.IsDeleted || restored.DeletedAt != nil {
		t.Error("restore must clear both markers")
	}
}

func TestPermanentDelete(t *testing.T) {
	s, db := newService(t)
	ctx := context.Background()

	task := mustCreate(t, s, dto.CreateTaskRequest{Title: "gone for good"})

	if _, err := s.DeleteTask(ctx, task.ID, true); err != nil {
		t.Fatalf("permanent delete failed: %v", err)
	}

	var count int64
	db.Model(&model.Task{}).Where("id = ?", task.ID).Count(&count)
	if count != 0 {
		t.Error("permanent delete must remove the row")
	}

	prod := NewTaskService(repository.NewTaskRepository(db), true)
	other := mustCreate(t, s, dto.CreateTaskRequest{Title: "protected"})
	_, err := prod.DeleteTask(ctx, other.ID, true)
	if !errors.Is(err, apperrors.ErrMaintenanceForbidden) {
		t.Errorf("production permanent delete should be forbidden, got %v", err)
	}
}

func TestListPaginationAndFilters(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		priority := "low"
		if i%5 == 0 {
			priority = "high"
		}
		mustCreate(t, s, dto.CreateTaskRequest{
			Title:    fmt.Sprintf("task %02d", i),
			Priority: priority,
		})
	}

	_, meta, err := s.ListTasks(ctx, nil, false, query.ParsePagination(3, 10), query.ParseSort("title", "asc"))
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if meta.TotalCount != 25 || meta.TotalPages != 3 {
		t.Errorf("unexpected meta: %+v", meta)
	}

	_, clamped, err := s.ListTasks(ctx, nil, false, query.ParsePagination(1, 1000), query.ParseSort("", ""))
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if clamped.Limit != 100 {
		t.Errorf("limit must clamp at 100, got %d", clamped.Limit)
	}

	high, _, err := s.ListTasks(ctx, map[string]interface{}{"priority": "high"}, false,
		query.ParsePagination(1, 100), query.ParseSort("", ""))
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(high) != 5 {
		t.Errorf("expected 5 high-priority tasks, got %d", len(high))
	}
}

func TestGetTaskMalformedID(t *testing.T) {
	s, _ := newService(t)

	_, err := s.GetTask(context.Background(), "not-a-uuid", false)
	var ex *apperrors.Exception
	if !errors.As(err, &ex) || ex.Type != apperrors.TypeCast {
		t.Errorf("expected cast error for malformed id, got %v", err)
	}
}

func TestBulkUpdateDerivesCompletedAt(t *testing.T) {
	s, db := newService(t)
	ctx := context.Background()

	mustCreate(t, s, dto.CreateTaskRequest{Title: "a", Priority: "high"})
	mustCreate(t, s, dto.CreateTaskRequest{Title: "b", Priority: "high"})
	mustCreate(t, s, dto.CreateTaskRequest{Title: "c", Priority: "low"})

	result, err := s.BulkWrite(ctx, &dto.BulkTaskRequest{
		Operation: dto.BulkOperationUpdate,
		Filters:   map[string]interface{}{"priority": "high"},
		Update:    map[string]interface{}{"completed": true},
	})
	if err != nil {
		t.Fatalf("bulk update failed: %v", err)
	}
	if result.ModifiedCount != 2 {
		t.Errorf("expected 2 modified, got %d", result.ModifiedCount)
	}

	var completed []model.Task
	db.Where("completed = ?", true).Find(&completed)
	if len(completed) != 2 {
		t.Fatalf("expected 2 completed rows, got %d", len(completed))
	}
	for _, task := range completed {
		if task.CompletedAt == nil {
			t.Errorf("bulk completion must set completed_at for %q", task.Title)
		}
	}

	if _, err := s.BulkWrite(ctx, &dto.BulkTaskRequest{
		Operation: dto.BulkOperationUpdate,
		Filters:   map[string]interface{}{"priority": "high"},
		Update:    map[string]interface{}{"completed": false},
	}); err != nil {
		t.Fatalf("bulk revert failed: %v", err)
	}

	var stillSet int64
	db.Model(&model.Task{}).Where("completed_at IS NOT NULL").Count(&stillSet)
	if stillSet != 0 {
		t.Errorf("bulk un-completion must clear completed_at, %d rows still set", stillSet)
	}
}

func TestBulkCreateAndDelete(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	created, err := s.BulkWrite(ctx, &dto.BulkTaskRequest{
		Operation: dto.BulkOperationCreate,
		Tasks: []dto.CreateTaskRequest{
			{Title: "one", Priority: "low"},
			{Title: "two", Priority: "low"},
			{Title: "   "},
		},
	})
	if err != nil {
		t.Fatalf("bulk create failed: %v", err)
	}
	if created.InsertedCount != 2 {
		t.Errorf("expected 2 inserts, got %d", created.InsertedCount)
	}
	if len(created.Errors) != 1 {
		t.Errorf("invalid task should be reported, got %v", created.Errors)
	}

	deleted, err := s.BulkWrite(ctx, &dto.BulkTaskRequest{
		Operation: dto.BulkOperationDelete,
		Filters:   map[string]interface{}{"priority": "low"},
	})
	if err != nil {
		t.Fatalf("bulk delete failed: %v", err)
	}
	if deleted.DeletedCount != 2 {
		t.Errorf("expected 2 soft deletes, got %d", deleted.DeletedCount)
	}

	remaining, _, err := s.ListTasks(ctx, map[string]interface{}{"priority": "low"}, false,
		query.ParsePagination(1, 10), query.ParseSort("", ""))
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("bulk-deleted tasks must disappear from default lists, got %d", len(remaining))
	}
}

func TestHealthStats(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewTaskRepository(db)
	s := NewTaskService(repo, false)
	health := NewHealthService(db, nil, repo, false)
	ctx := context.Background()

	mustCreate(t, s, dto.CreateTaskRequest{Title: "a", Priority: "high"})
	mustCreate(t, s, dto.CreateTaskRequest{Title: "b"})
	done := mustCreate(t, s, dto.CreateTaskRequest{Title: "c"})
	if _, err := s.ToggleCompletion(ctx, done.ID); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	stats, err := health.Stats(ctx)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.Total != 3 || stats.Completed != 1 || stats.Pending != 2 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.CompletionRate != 33 {
		t.Errorf("expected 33%% completion, got %d", stats.CompletionRate)
	}
	if stats.ByPriority["high"] != 1 || stats.ByPriority["medium"] != 2 {
		t.Errorf("unexpected priority groups: %v", stats.ByPriority)
	}
	if stats.CreatedLast7Days != 3 {
		t.Errorf("expected 3 recent tasks, got %d", stats.CreatedLast7Days)
	}

	report := health.Detailed(ctx)
	if report["status"] != "ok" {
		t.Errorf("expected ok status, got %v", report["status"])
	}
}

func TestHealthCleanup(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewTaskRepository(db)
	s := NewTaskService(repo, false)
	health := NewHealthService(db, nil, repo, false)
	ctx := context.Background()

	task := mustCreate(t, s, dto.CreateTaskRequest{Title: "old junk"})
	if _, err := s.DeleteTask(ctx, task.ID, false); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	stale := time.Now().UTC().AddDate(0, 0, -40)
	if err := db.Model(&model.Task{}).Where("id = ?", task.ID).
		Update("deleted_at", stale).Error; err != nil {
		t.Fatalf("backdate failed: %v", err)
	}

	result, err := health.Cleanup(ctx, 30)
	if err != nil {
		t.Fatalf("cleanup failed: %v", err)
	}
	if result.RemovedCount != 1 {
		t.Errorf("expected 1 removal, got %d", result.RemovedCount)
	}

	again, err := health.Cleanup(ctx, 30)
	if err != nil {
		t.Fatalf("cleanup rerun failed: %v", err)
	}
	if again.RemovedCount != 0 {
		t.Errorf("rerun should remove nothing, got %d", again.RemovedCount)
	}

	prodHealth := NewHealthService(db, nil, repo, true)
	if _, err := prodHealth.Cleanup(ctx, 30); !errors.Is(err, apperrors.ErrMaintenanceForbidden) {
		t.Errorf("production cleanup should be forbidden, got %v", err)
	}
}

func TestOverdueDerivedAfterStore(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	due := time.Now().Add(150 * time.Millisecond)
	task := mustCreate(t, s, dto.CreateTaskRequest{Title: "deadline", DueDate: &due})

	time.Sleep(250 * time.Millisecond)

	fetched, err := s.GetTask(ctx, task.ID, false)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !fetched.IsOverdue(time.Now()) {
		t.Error("stored due date in the past should report overdue")
	}
}
