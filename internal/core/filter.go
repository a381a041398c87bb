package core

import (
	"fmt"
	"time"

	"taskmgr-go/internal/models"
)

// TaskFilter 列表过滤条件，nil 表示不限制
type TaskFilter struct {
	Category           *int
	Status             *int
	Completed          *bool
	Overdue            *bool
	UpcomingWithinDays *int
}

// Validate 校验过滤条件
func (f TaskFilter) Validate() error {
	if f.UpcomingWithinDays != nil && *f.UpcomingWithinDays < 0 {
		return fmt.Errorf("%w: upcoming window must not be negative", ErrValidationFailed)
	}
	return nil
}

// VisibleTasks 返回 actor 可见的任务，保持输入顺序
func VisibleTasks(actor Actor, tasks []models.Task) []models.Task {
	visible := make([]models.Task, 0, len(tasks))
	for i := range tasks {
		if CanView(actor, &tasks[i]) {
			visible = append(visible, tasks[i])
		}
	}
	return visible
}

// IsOverdue 未完成且截止时刻早于 now
func IsOverdue(task *models.Task, now time.Time) bool {
	return !task.IsCompleted() && task.Deadline().Before(now)
}

// FilterTasks 先做可见性过滤，再按条件依次收窄
func FilterTasks(actor Actor, tasks []models.Task, f TaskFilter, now time.Time) ([]models.Task, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	visible := VisibleTasks(actor, tasks)
	result := make([]models.Task, 0, len(visible))
	for i := range visible {
		if f.matches(&visible[i], now) {
			result = append(result, visible[i])
		}
	}
	return result, nil
}

func (f TaskFilter) matches(task *models.Task, now time.Time) bool {
	if f.Category != nil && task.Category != *f.Category {
		return false
	}
	if f.Status != nil && task.Status != *f.Status {
		return false
	}
	if f.Completed != nil && *f.Completed && !task.IsCompleted() {
		return false
	}
	if f.Overdue != nil && *f.Overdue && !IsOverdue(task, now) {
		return false
	}
	if f.UpcomingWithinDays != nil {
		deadline := task.Deadline()
		until := now.AddDate(0, 0, *f.UpcomingWithinDays)
		if deadline.Before(now) || deadline.After(until) {
			return false
		}
	}
	return true
}
