package models

import (
	"time"
)

// Attachment 任务附件，随任务一起删除
type Attachment struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	TaskID           uint      `gorm:"not null;index" json:"task_id"`
	UploadedByUserID uint      `gorm:"not null" json:"uploaded_by_user_id"`
	OriginalFileName string    `gorm:"size:255;not null" json:"original_file_name"`
	StoragePath      string    `gorm:"uniqueIndex;size:255;not null" json:"-"`
	ContentType      string    `gorm:"size:100;not null" json:"content_type"`
	FileSize         int64     `gorm:"not null" json:"file_size"`
	UploadDate       time.Time `gorm:"not null" json:"upload_date"`
}

// TableName 指定表名
func (Attachment) TableName() string {
	return "task_attachments"
}
