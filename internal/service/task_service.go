package service

import (
	"fmt"
	"strings"
	"time"

	"taskmgr-go/internal/core"
	"taskmgr-go/internal/dto"
	"taskmgr-go/internal/models"
	"taskmgr-go/internal/repository"
	"taskmgr-go/internal/storage"
	"taskmgr-go/internal/utils"

	"github.com/sirupsen/logrus"
)

// TaskService 任务服务，所有读写都先经过 core 的访问控制
type TaskService struct {
	taskRepo   *repository.TaskRepository
	userRepo   *repository.UserRepository
	store      storage.BlobStore
	classifier core.AlertClassifier
	labels     core.CategoryLabels
	logger     *logrus.Logger
	now        func() time.Time
	loc        *time.Location
}

// NewTaskService 创建任务服务
func NewTaskService(
	taskRepo *repository.TaskRepository,
	userRepo *repository.UserRepository,
	store storage.BlobStore,
	classifier core.AlertClassifier,
	labels core.CategoryLabels,
	logger *logrus.Logger,
) *TaskService {
	return &TaskService{
		taskRepo:   taskRepo,
		userRepo:   userRepo,
		store:      store,
		classifier: classifier,
		labels:     labels,
		logger:     logger,
		now:        time.Now,
		loc:        time.Local,
	}
}

// WithClock 替换时间来源
func (s *TaskService) WithClock(now func() time.Time) *TaskService {
	s.now = now
	return s
}

// WithLocation 设置截止日期所在时区
func (s *TaskService) WithLocation(loc *time.Location) *TaskService {
	s.loc = loc
	return s
}

// loadCandidates 普通用户只从库中取自己的任务，可见性仍由 core 判定
func (s *TaskService) loadCandidates(actor core.Actor) ([]models.Task, error) {
	if actor.IsAdmin() {
		return s.taskRepo.List()
	}
	return s.taskRepo.ListByOwner(actor.ID)
}

// List 按条件查询可见任务
func (s *TaskService) List(actor core.Actor, filter core.TaskFilter) ([]dto.TaskResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	tasks, err := s.loadCandidates(actor)
	if err != nil {
		return nil, fmt.Errorf("获取任务列表失败: %w", err)
	}

	now := s.now()
	matched, err := core.FilterTasks(actor, tasks, filter, now)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TaskResponse, len(matched))
	for i := range matched {
		responses[i] = s.toResponse(&matched[i], now)
	}
	return responses, nil
}

// Stats 统计可见任务
func (s *TaskService) Stats(actor core.Actor) (core.Stats, error) {
	tasks, err := s.loadCandidates(actor)
	if err != nil {
		return core.Stats{}, fmt.Errorf("获取任务列表失败: %w", err)
	}
	return core.Aggregate(core.VisibleTasks(actor, tasks), s.now(), s.labels), nil
}

// Get 获取单个任务
func (s *TaskService) Get(actor core.Actor, id uint) (*dto.TaskResponse, error) {
	task, err := s.taskRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("获取任务失败: %w", err)
	}
	if err := core.Authorize(actor, task, core.CanView); err != nil {
		return nil, err
	}

	resp := s.toResponse(task, s.now())
	return &resp, nil
}

// Create 创建任务，负责人由 core 决定，创建人固定为当前用户
func (s *TaskService) Create(actor core.Actor, req *dto.TaskRequest) (*dto.TaskResponse, error) {
	task := &models.Task{
		Category:        1,
		Status:          models.TaskStatusNotStarted,
		CreatedByUserID: actor.ID,
	}
	if err := s.applyRequest(task, req); err != nil {
		return nil, err
	}

	ownerID := core.ResolveOwnerOnCreate(actor, req.AssignedUserID)
	if err := s.ensureAssignee(actor, ownerID); err != nil {
		return nil, err
	}
	task.OwnerUserID = ownerID

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("创建任务失败: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"task_id":  task.ID,
		"owner_id": task.OwnerUserID,
		"actor_id": actor.ID,
	}).Info("任务已创建")

	resp := s.toResponse(task, s.now())
	return &resp, nil
}

// Update 编辑任务，存在性先于权限检查
func (s *TaskService) Update(actor core.Actor, id uint, req *dto.TaskRequest) (*dto.TaskResponse, error) {
	task, err := s.taskRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("获取任务失败: %w", err)
	}
	if err := core.Authorize(actor, task, core.CanMutate); err != nil {
		return nil, err
	}

	if err := s.applyRequest(task, req); err != nil {
		return nil, err
	}

	ownerID := core.ResolveOwnerOnEdit(actor, task, req.AssignedUserID)
	if ownerID != task.OwnerUserID {
		if err := s.ensureAssignee(actor, ownerID); err != nil {
			return nil, err
		}
		task.OwnerUserID = ownerID
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("更新任务失败: %w", err)
	}

	resp := s.toResponse(task, s.now())
	return &resp, nil
}

// Delete 删除任务及其附件；附件文件删除失败只记录日志
func (s *TaskService) Delete(actor core.Actor, id uint) error {
	task, err := s.taskRepo.GetByID(id)
	if err != nil {
		return fmt.Errorf("获取任务失败: %w", err)
	}
	if err := core.Authorize(actor, task, core.CanMutate); err != nil {
		return err
	}

	removed, err := s.taskRepo.DeleteWithAttachments(task.ID)
	if err != nil {
		return fmt.Errorf("删除任务失败: %w", err)
	}

	for _, attachment := range removed {
		if err := s.store.Remove(attachment.StoragePath); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"task_id":       task.ID,
				"attachment_id": attachment.ID,
			}).Warn("删除附件文件失败，等待清理任务回收")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"task_id":     task.ID,
		"actor_id":    actor.ID,
		"attachments": len(removed),
	}).Info("任务已删除")
	return nil
}

// ensureAssignee 管理员指派给他人时目标用户必须存在
func (s *TaskService) ensureAssignee(actor core.Actor, ownerID uint) error {
	if ownerID == actor.ID {
		return nil
	}
	exists, err := s.userRepo.Exists(ownerID)
	if err != nil {
		return fmt.Errorf("检查用户失败: %w", err)
	}
	if !exists {
		return ErrUnknownAssignee
	}
	return nil
}

// applyRequest 校验请求并写入可编辑字段，不涉及负责人与创建人
func (s *TaskService) applyRequest(task *models.Task, req *dto.TaskRequest) error {
	req.Title = strings.TrimSpace(req.Title)
	if err := utils.ValidateStruct(req); err != nil {
		return invalid(err)
	}

	dueDate, err := utils.ParseDate(req.DueDate, s.loc)
	if err != nil {
		return invalid(err)
	}
	dueTime, err := utils.ParseClock(req.DueTime)
	if err != nil {
		return invalid(err)
	}

	task.Title = req.Title
	task.Description = req.Description
	task.DueDate = dueDate
	task.DueTime = dueTime
	if req.Category != 0 {
		task.Category = req.Category
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	return nil
}

func (s *TaskService) toResponse(task *models.Task, now time.Time) dto.TaskResponse {
	return dto.TaskResponse{
		ID:              task.ID,
		Title:           task.Title,
		Description:     task.Description,
		Category:        task.Category,
		CategoryName:    s.labels.Label(task.Category),
		Status:          task.Status,
		DueDate:         task.DueDate.In(s.loc).Format(utils.DateLayout),
		DueTime:         utils.FormatClock(task.DueTime),
		Deadline:        task.Deadline(),
		AlertLevel:      string(s.classifier.Classify(task, now)),
		OwnerUserID:     task.OwnerUserID,
		CreatedByUserID: task.CreatedByUserID,
		CreatedAt:       task.CreatedAt,
		UpdatedAt:       task.UpdatedAt,
	}
}
