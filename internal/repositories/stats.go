package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	model "todo-api.com/todo-api/internal/models"
)

// TaskCounts aggregates the numbers the health surface reports. All
// counts exclude soft-deleted tasks.
type TaskCounts struct {
	Total            int64
	Completed        int64
	Overdue          int64
	CreatedLast7Days int64
	ByPriority       map[string]int64
}

func (r *TaskRepository) Counts(ctx context.Context, now time.Time) (TaskCounts, error) {
	counts := TaskCounts{ByPriority: make(map[string]int64)}

	active := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&model.Task{}).Where("is_deleted <> ?", true)
	}

	if err := active().Count(&counts.Total).Error; err != nil {
		return counts, err
	}
	if err := active().Where("completed = ?", true).Count(&counts.Completed).Error; err != nil {
		return counts, err
	}
	if err := active().
		Where("due_date IS NOT NULL AND due_date < ? AND completed = ?", now, false).
		Count(&counts.Overdue).Error; err != nil {
		return counts, err
	}
	if err := active().
		Where("created_at >= ?", now.AddDate(0, 0, -7)).
		Count(&counts.CreatedLast7Days).Error; err != nil {
		return counts, err
	}

	var rows []struct {
		Priority string
		Count    int64
	}
	if err := active().
		Select("priority, count(*) as count").
		Group("priority").
		Scan(&rows).Error; err != nil {
		return counts, err
	}
	for _, row := range rows {
		counts.ByPriority[row.Priority] = row.Count
	}

	return counts, nil
}
