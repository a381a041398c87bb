package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"taskmgr-go/internal/core"
	"taskmgr-go/internal/dto"
	"taskmgr-go/internal/models"
	"taskmgr-go/internal/repository"
	"taskmgr-go/internal/storage"
	"taskmgr-go/internal/utils"
	"taskmgr-go/pkg/redis_limiter"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// UploadLimiter 按用户限制并发上传
type UploadLimiter interface {
	Acquire(ctx context.Context, userID uint) error
	Release(ctx context.Context, userID uint)
}

// AttachmentService 附件服务，权限以所属任务为准
type AttachmentService struct {
	taskRepo   *repository.TaskRepository
	attachRepo *repository.AttachmentRepository
	store      storage.BlobStore
	policy     core.AttachmentPolicy
	limiter    UploadLimiter
	logger     *logrus.Logger
	now        func() time.Time
}

// NewAttachmentService 创建附件服务，limiter 可为 nil
func NewAttachmentService(
	taskRepo *repository.TaskRepository,
	attachRepo *repository.AttachmentRepository,
	store storage.BlobStore,
	policy core.AttachmentPolicy,
	limiter UploadLimiter,
	logger *logrus.Logger,
) *AttachmentService {
	return &AttachmentService{
		taskRepo:   taskRepo,
		attachRepo: attachRepo,
		store:      store,
		policy:     policy,
		limiter:    limiter,
		logger:     logger,
		now:        time.Now,
	}
}

// Upload 校验并保存附件；记录写入失败时回收已保存的文件
func (s *AttachmentService) Upload(ctx context.Context, actor core.Actor, taskID uint, fileName string, size int64, contentType string, content io.Reader) (*dto.AttachmentResponse, error) {
	task, err := s.taskRepo.GetByID(taskID)
	if err != nil {
		return nil, fmt.Errorf("获取任务失败: %w", err)
	}
	if err := core.Authorize(actor, task, core.CanMutate); err != nil {
		return nil, err
	}

	name := utils.SanitizeFileName(fileName)
	if err := s.policy.Validate(name, size); err != nil {
		return nil, err
	}

	if s.limiter != nil {
		if err := s.limiter.Acquire(ctx, actor.ID); err != nil {
			if errors.Is(err, redis_limiter.ErrLimitReached) {
				return nil, ErrTooManyUploads
			}
			// 限流器不可用时不阻断上传
			s.logger.WithError(err).WithField("user_id", actor.ID).Warn("上传限流不可用")
		} else {
			defer s.limiter.Release(context.Background(), actor.ID)
		}
	}

	storageName := uuid.NewString() + core.Extension(name)
	// 多读一个字节，用于发现声明大小与实际内容不符
	written, err := s.store.Save(storageName, io.LimitReader(content, s.policy.MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("保存附件失败: %w", err)
	}
	if err := s.policy.Validate(name, written); err != nil {
		s.discard(storageName)
		return nil, err
	}

	attachment := &models.Attachment{
		TaskID:           task.ID,
		UploadedByUserID: actor.ID,
		OriginalFileName: name,
		StoragePath:      storageName,
		ContentType:      utils.DetectContentType(name, contentType),
		FileSize:         written,
		UploadDate:       s.now(),
	}
	if err := s.attachRepo.Create(attachment); err != nil {
		s.discard(storageName)
		return nil, fmt.Errorf("保存附件记录失败: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"task_id":       task.ID,
		"attachment_id": attachment.ID,
		"size":          written,
	}).Info("附件已上传")

	resp := toAttachmentResponse(attachment)
	return &resp, nil
}

// List 获取任务的附件
func (s *AttachmentService) List(actor core.Actor, taskID uint) ([]dto.AttachmentResponse, error) {
	task, err := s.taskRepo.GetByID(taskID)
	if err != nil {
		return nil, fmt.Errorf("获取任务失败: %w", err)
	}
	if err := core.Authorize(actor, task, core.CanView); err != nil {
		return nil, err
	}

	attachments, err := s.attachRepo.ListByTaskID(task.ID)
	if err != nil {
		return nil, fmt.Errorf("获取附件列表失败: %w", err)
	}

	responses := make([]dto.AttachmentResponse, len(attachments))
	for i := range attachments {
		responses[i] = toAttachmentResponse(&attachments[i])
	}
	return responses, nil
}

// Open 打开附件内容，调用方负责关闭
func (s *AttachmentService) Open(actor core.Actor, attachmentID uint) (*models.Attachment, io.ReadCloser, error) {
	attachment, err := s.authorized(actor, attachmentID, core.CanView)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.store.Open(attachment.StoragePath)
	if errors.Is(err, storage.ErrBlobNotFound) {
		s.logger.WithField("attachment_id", attachment.ID).Error("附件记录存在但文件缺失")
		return nil, nil, core.ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("读取附件失败: %w", err)
	}
	return attachment, rc, nil
}

// Preview 返回附件的预览信息
func (s *AttachmentService) Preview(actor core.Actor, attachmentID uint) (*dto.PreviewResponse, error) {
	attachment, err := s.authorized(actor, attachmentID, core.CanView)
	if err != nil {
		return nil, err
	}

	message := "该文件类型不支持在线预览，请下载后查看"
	if inlinePreviewable(attachment.ContentType) {
		message = "可直接在浏览器中预览"
	}

	return &dto.PreviewResponse{
		FileName:    attachment.OriginalFileName,
		FileType:    utils.DescribeFileType(attachment.OriginalFileName),
		FileSize:    attachment.FileSize,
		Message:     message,
		DownloadURL: fmt.Sprintf("/api/attachments/%d/download", attachment.ID),
	}, nil
}

// Delete 删除附件记录，再尽力删除文件
func (s *AttachmentService) Delete(actor core.Actor, attachmentID uint) error {
	attachment, err := s.authorized(actor, attachmentID, core.CanMutate)
	if err != nil {
		return err
	}

	if err := s.attachRepo.Delete(attachment.ID); err != nil {
		return fmt.Errorf("删除附件失败: %w", err)
	}
	s.discard(attachment.StoragePath)
	return nil
}

// authorized 按所属任务判定附件权限
func (s *AttachmentService) authorized(actor core.Actor, attachmentID uint, allowed func(core.Actor, *models.Task) bool) (*models.Attachment, error) {
	attachment, err := s.attachRepo.GetByID(attachmentID)
	if err != nil {
		return nil, fmt.Errorf("获取附件失败: %w", err)
	}
	if attachment == nil {
		return nil, core.ErrNotFound
	}

	task, err := s.taskRepo.GetByID(attachment.TaskID)
	if err != nil {
		return nil, fmt.Errorf("获取任务失败: %w", err)
	}
	if err := core.Authorize(actor, task, allowed); err != nil {
		return nil, err
	}
	return attachment, nil
}

func (s *AttachmentService) discard(storageName string) {
	if err := s.store.Remove(storageName); err != nil {
		s.logger.WithError(err).WithField("storage_path", storageName).Warn("删除附件文件失败")
	}
}

func inlinePreviewable(contentType string) bool {
	return strings.HasPrefix(contentType, "image/") ||
		strings.HasPrefix(contentType, "text/") ||
		contentType == "application/pdf"
}

func toAttachmentResponse(a *models.Attachment) dto.AttachmentResponse {
	return dto.AttachmentResponse{
		ID:               a.ID,
		TaskID:           a.TaskID,
		UploadedByUserID: a.UploadedByUserID,
		FileName:         a.OriginalFileName,
		ContentType:      a.ContentType,
		FileSize:         a.FileSize,
		UploadDate:       a.UploadDate,
	}
}
