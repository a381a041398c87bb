package repository

import (
	"errors"

	"taskmgr-go/internal/models"

	"gorm.io/gorm"
)

// AttachmentRepository 附件数据访问层
type AttachmentRepository struct {
	db *gorm.DB
}

// NewAttachmentRepository 创建附件Repository
func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

// Create 创建附件记录
func (r *AttachmentRepository) Create(attachment *models.Attachment) error {
	return r.db.Create(attachment).Error
}

// GetByID 根据ID获取附件，不存在时返回 nil, nil
func (r *AttachmentRepository) GetByID(id uint) (*models.Attachment, error) {
	var attachment models.Attachment
	err := r.db.First(&attachment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &attachment, nil
}

// ListByTaskID 获取任务的附件列表，按上传时间升序
func (r *AttachmentRepository) ListByTaskID(taskID uint) ([]models.Attachment, error) {
	var attachments []models.Attachment
	err := r.db.Where("task_id = ?", taskID).Order("upload_date ASC, id ASC").Find(&attachments).Error
	return attachments, err
}

// Delete 删除附件记录
func (r *AttachmentRepository) Delete(id uint) error {
	return r.db.Delete(&models.Attachment{}, id).Error
}

// ListStoragePaths 获取全部已登记的存储名
func (r *AttachmentRepository) ListStoragePaths() ([]string, error) {
	var paths []string
	err := r.db.Model(&models.Attachment{}).Pluck("storage_path", &paths).Error
	return paths, err
}
