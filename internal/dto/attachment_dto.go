package dto

import "time"

// AttachmentResponse 附件响应
type AttachmentResponse struct {
	ID               uint      `json:"id"`
	TaskID           uint      `json:"task_id"`
	UploadedByUserID uint      `json:"uploaded_by_user_id"`
	FileName         string    `json:"file_name"`
	ContentType      string    `json:"content_type"`
	FileSize         int64     `json:"file_size"`
	UploadDate       time.Time `json:"upload_date"`
}

// PreviewResponse 附件预览信息
type PreviewResponse struct {
	FileName    string `json:"file_name"`
	FileType    string `json:"file_type"`
	FileSize    int64  `json:"file_size"`
	Message     string `json:"message"`
	DownloadURL string `json:"download_url"`
}
