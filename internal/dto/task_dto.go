package dto

import "time"

// TaskRequest 创建/编辑任务请求
type TaskRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=10000"`
	Category    int    `json:"category" validate:"omitempty,min=1"`
	Status      *int   `json:"status" validate:"omitempty,oneof=0 1 2"`
	DueDate     string `json:"due_date" validate:"required,datestr"`
	DueTime     string `json:"due_time" validate:"clock"`
	// AssignedUserID 仅管理员指定时生效
	AssignedUserID *uint `json:"assigned_user_id"`
}

// TaskQuery 任务列表查询参数
type TaskQuery struct {
	Category  *int  `form:"category"`
	Status    *int  `form:"status"`
	Completed *bool `form:"completed"`
	Overdue   *bool `form:"overdue"`
	Upcoming  *int  `form:"upcoming"`
}

// TaskResponse 任务响应
type TaskResponse struct {
	ID              uint      `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Category        int       `json:"category"`
	CategoryName    string    `json:"category_name"`
	Status          int       `json:"status"`
	DueDate         string    `json:"due_date"`
	DueTime         string    `json:"due_time"`
	Deadline        time.Time `json:"deadline"`
	AlertLevel      string    `json:"alert_level"`
	OwnerUserID     uint      `json:"owner_user_id"`
	CreatedByUserID uint      `json:"created_by_user_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
