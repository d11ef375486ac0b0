package dto

import (
	"time"

	model "todo-api.com/todo-api/internal/models"
	"todo-api.com/todo-api/internal/query"
)

// TaskResponse is the external representation of a task. Soft-delete
// markers and the version counter never leave the service; derived
// fields are computed at render time.
type TaskResponse struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Completed        bool     `json:"completed"`
	Priority         string   `json:"priority"`
	DueDate          *string  `json:"dueDate"`
	Tags             []string `json:"tags"`
	CompletedAt      *string  `json:"completedAt"`
	CreatedAt        string   `json:"createdAt"`
	UpdatedAt        string   `json:"updatedAt"`
	IsOverdue        bool     `json:"isOverdue"`
	TimeUntilDue     *int64   `json:"timeUntilDue"`
	DaysSinceCreated int      `json:"daysSinceCreated"`
}

func NewTaskResponse(t *model.Task, now time.Time) TaskResponse {
	resp := TaskResponse{
		ID:               t.ID,
		Title:            t.Title,
		Description:      t.Description,
		Completed:        t.Completed,
		Priority:         string(t.Priority),
		Tags:             []string(t.Tags),
		CreatedAt:        t.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        t.UpdatedAt.UTC().Format(time.RFC3339),
		IsOverdue:        t.IsOverdue(now),
		DaysSinceCreated: t.DaysSinceCreated(now),
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if t.DueDate != nil {
		due := t.DueDate.UTC().Format(time.RFC3339)
		resp.DueDate = &due
	}
	if t.CompletedAt != nil {
		done := t.CompletedAt.UTC().Format(time.RFC3339)
		resp.CompletedAt = &done
	}
	if remaining := t.TimeUntilDue(now); remaining != nil {
		secs := int64(remaining.Seconds())
		resp.TimeUntilDue = &secs
	}
	return resp
}

func NewTaskResponses(tasks []model.Task, now time.Time) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, NewTaskResponse(&tasks[i], now))
	}
	return out
}

type ListTasksResponse struct {
	Data       []TaskResponse `json:"data"`
	Pagination query.Meta     `json:"pagination"`
}

type BulkResult struct {
	InsertedCount int64    `json:"insertedCount"`
	MatchedCount  int64    `json:"matchedCount"`
	ModifiedCount int64    `json:"modifiedCount"`
	DeletedCount  int64    `json:"deletedCount"`
	UpsertedCount int64    `json:"upsertedCount"`
	Errors        []string `json:"errors,omitempty"`
}

type TaskStats struct {
	Total            int64            `json:"total"`
	Completed        int64            `json:"completed"`
	Pending          int64            `json:"pending"`
	Overdue          int64            `json:"overdue"`
	CompletionRate   int              `json:"completionRate"`
	ByPriority       map[string]int64 `json:"byPriority"`
	CreatedLast7Days int64            `json:"createdLast7Days"`
}

type CleanupResult struct {
	RemovedCount  int64  `json:"removedCount"`
	OlderThanDays int    `json:"olderThanDays"`
	Cutoff        string `json:"cutoff"`
}
