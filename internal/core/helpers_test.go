package core

import (
	"time"

	"taskmgr-go/internal/models"
)

var testNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

// taskDueIn 构造一个截止时刻为 testNow+d 的任务
func taskDueIn(id, owner uint, d time.Duration, status int) models.Task {
	deadline := testNow.Add(d)
	midnight := time.Date(deadline.Year(), deadline.Month(), deadline.Day(), 0, 0, 0, 0, time.UTC)
	return models.Task{
		ID:              id,
		Title:           "task",
		Category:        1,
		Status:          status,
		DueDate:         midnight,
		DueTime:         deadline.Sub(midnight),
		OwnerUserID:     owner,
		CreatedByUserID: owner,
	}
}

func uintPtr(v uint) *uint { return &v }
func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }
