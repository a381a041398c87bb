package repository

import (
	"errors"

	"taskmgr-go/internal/models"

	"gorm.io/gorm"
)

// TaskRepository 任务数据访问层
type TaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository 创建任务Repository
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create 创建任务
func (r *TaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// GetByID 根据ID获取任务，不存在时返回 nil, nil
func (r *TaskRepository) GetByID(id uint) (*models.Task, error) {
	var task models.Task
	err := r.db.First(&task, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Update 更新任务
func (r *TaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// List 获取全部任务，按ID升序
func (r *TaskRepository) List() ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.Order("id ASC").Find(&tasks).Error
	return tasks, err
}

// ListByOwner 获取指定负责人的任务，按ID升序
func (r *TaskRepository) ListByOwner(ownerID uint) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.Where("user_id = ?", ownerID).Order("id ASC").Find(&tasks).Error
	return tasks, err
}

// DeleteWithAttachments 在同一事务中删除任务及其全部附件记录，返回被删除的附件
func (r *TaskRepository) DeleteWithAttachments(id uint) ([]models.Attachment, error) {
	var removed []models.Attachment

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Order("id ASC").Find(&removed).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.Attachment{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Task{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}
