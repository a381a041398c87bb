package service

import (
	"context"
	"fmt"
	"time"

	"taskmgr-go/internal/repository"
	"taskmgr-go/internal/storage"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// BlobSweeper 回收没有附件记录引用的存储文件
type BlobSweeper struct {
	attachRepo *repository.AttachmentRepository
	store      storage.BlobStore
	grace      time.Duration
	logger     *logrus.Logger
	cron       *cron.Cron
	now        func() time.Time
}

// NewBlobSweeper 创建清理器；grace 内的新文件不会被删除，避免误删上传中的附件
func NewBlobSweeper(attachRepo *repository.AttachmentRepository, store storage.BlobStore, grace time.Duration, logger *logrus.Logger) *BlobSweeper {
	return &BlobSweeper{
		attachRepo: attachRepo,
		store:      store,
		grace:      grace,
		logger:     logger,
		now:        time.Now,
	}
}

// Sweep 执行一次清理，返回删除的文件数
func (b *BlobSweeper) Sweep(ctx context.Context) (int, error) {
	paths, err := b.attachRepo.ListStoragePaths()
	if err != nil {
		return 0, fmt.Errorf("获取附件记录失败: %w", err)
	}
	referenced := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		referenced[p] = struct{}{}
	}

	blobs, err := b.store.List()
	if err != nil {
		return 0, fmt.Errorf("列出存储文件失败: %w", err)
	}

	cutoff := b.now().Add(-b.grace)
	removed := 0
	for _, blob := range blobs {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if _, ok := referenced[blob.Name]; ok {
			continue
		}
		if blob.ModTime.After(cutoff) {
			continue
		}
		if err := b.store.Remove(blob.Name); err != nil {
			b.logger.WithError(err).WithField("blob", blob.Name).Warn("删除孤儿文件失败")
			continue
		}
		removed++
	}

	b.logger.WithFields(logrus.Fields{
		"scanned": len(blobs),
		"removed": removed,
	}).Info("孤儿文件清理完成")
	return removed, nil
}

// Schedule 按 cron 表达式定时清理，需调用 Start 启动
func (b *BlobSweeper) Schedule(spec string) error {
	b.cron = cron.New()
	_, err := b.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := b.Sweep(ctx); err != nil {
			b.logger.WithError(err).Error("孤儿文件清理失败")
		}
	})
	if err != nil {
		return fmt.Errorf("无效的清理计划 %q: %w", spec, err)
	}
	return nil
}

// Start 启动定时清理
func (b *BlobSweeper) Start() {
	if b == nil || b.cron == nil {
		return
	}
	b.cron.Start()
	b.logger.Info("孤儿文件清理任务已启动")
}

// Stop 停止定时清理并等待进行中的任务结束
func (b *BlobSweeper) Stop(ctx context.Context) {
	if b == nil || b.cron == nil {
		return
	}
	select {
	case <-b.cron.Stop().Done():
	case <-ctx.Done():
	}
	b.logger.Info("孤儿文件清理任务已停止")
}
