package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Tags is stored as a JSON array in a single text column.
type Tags []string

func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		t = Tags{}
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (t *Tags) Scan(src interface{}) error {
	if src == nil {
		*t = Tags{}
		return nil
	}

	switch v := src.(type) {
	case string:
		return json.Unmarshal([]byte(v), t)
	case []byte:
		return json.Unmarshal(v, t)
	default:
		return fmt.Errorf("unsupported tags column type %T", src)
	}
}

type Task struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	Title       string     `gorm:"size:500;not null" json:"title"`
	Description string     `gorm:"size:2000" json:"description"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	Priority    Priority   `gorm:"type:varchar(10);not null;default:medium" json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Tags        Tags       `gorm:"type:text" json:"tags"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	IsDeleted   bool       `gorm:"not null;default:false;index" json:"-"`
	DeletedAt   *time.Time `json:"-"`
	Version     uint       `gorm:"not null;default:1" json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsOverdue reports whether the task has a due date in the past and is
// still open. Deliberately false for completed tasks.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && !t.Completed
}

// TimeUntilDue returns the remaining time before the due date, floored
// at zero, or nil when the task has no due date.
func (t *Task) TimeUntilDue(now time.Time) *time.Duration {
	if t.DueDate == nil {
		return nil
	}
	d := t.DueDate.Sub(now)
	if d < 0 {
		d = 0
	}
	return &d
}

func (t *Task) DaysSinceCreated(now time.Time) int {
	days := int(now.Sub(t.CreatedAt).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
