package models

import (
	"time"
)

// 任务状态
const (
	TaskStatusNotStarted = 0
	TaskStatusInProgress = 1
	TaskStatusCompleted  = 2
)

// Task 任务模型
type Task struct {
	ID          uint          `gorm:"primarykey" json:"id"`
	Title       string        `gorm:"size:200;not null" json:"title"`
	Description string        `gorm:"type:text" json:"description"`
	Category    int           `gorm:"not null;default:1;index" json:"category"`
	Status      int           `gorm:"not null;default:0;index" json:"status"`
	DueDate     time.Time     `gorm:"not null" json:"due_date"`
	DueTime     time.Duration `gorm:"not null;default:0" json:"due_time"` // 当天零点起的偏移
	// OwnerUserID 任务当前归属人，可被管理员重新指派
	OwnerUserID uint `gorm:"column:user_id;not null;index" json:"owner_user_id"`
	// CreatedByUserID 创建人，创建后不再变化
	CreatedByUserID uint      `gorm:"not null;index" json:"created_by_user_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// 关联
	Owner       User         `gorm:"foreignKey:OwnerUserID" json:"-"`
	Attachments []Attachment `gorm:"foreignKey:TaskID" json:"-"`
}

// TableName 指定表名
func (Task) TableName() string {
	return "tasks"
}

// Deadline 截止时刻 = 截止日期(所在时区零点) + 当日时间
func (t *Task) Deadline() time.Time {
	return t.DueDate.Add(t.DueTime)
}

// IsCompleted 是否已完成
func (t *Task) IsCompleted() bool {
	return t.Status == TaskStatusCompleted
}
