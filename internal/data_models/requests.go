package dto

import "time"

type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
	Tags        []string   `json:"tags"`
}

// UpdateTaskRequest carries a partial field set; nil means "leave
// unchanged".
type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Completed   *bool      `json:"completed"`
	Priority    *string    `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
	Tags        *[]string  `json:"tags"`
}

const (
	BulkOperationCreate = "create"
	BulkOperationUpdate = "update"
	BulkOperationDelete = "delete"
)

type BulkTaskRequest struct {
	Operation string                 `json:"operation" validate:"required,oneof=create update delete"`
	Tasks     []CreateTaskRequest    `json:"tasks" validate:"omitempty,dive"`
	Filters   map[string]interface{} `json:"filters"`
	Update    map[string]interface{} `json:"update"`
}

type CleanupRequest struct {
	OlderThan int `json:"olderThan" validate:"omitempty,min=1"`
}
