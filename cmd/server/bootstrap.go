package main

import (
	"fmt"
	"os"

	"taskmgr-go/internal/config"
	"taskmgr-go/internal/models"
	"taskmgr-go/internal/storage"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// app 各子命令共用的基础组件
type app struct {
	cfg    *config.Config
	logger *logrus.Logger
	db     *gorm.DB
	store  storage.BlobStore
}

func newLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
		logger.Warnf("无效的日志级别 %q，使用 info", level)
	}
	logger.SetLevel(lvl)
	return logger
}

func openStore(cfg config.AttachmentsConfig) (storage.BlobStore, error) {
	switch cfg.StorageDriver {
	case "bolt":
		return storage.OpenBoltStore(cfg.BoltPath)
	default:
		return storage.NewLocalStore(cfg.StorageDir)
	}
}

// bootstrap 加载配置、打开数据库并迁移表结构、打开附件存储
func bootstrap() (*app, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("加载配置失败: %w", err)
	}
	logger := newLogger(cfg.Log.Level)

	db, err := models.OpenDB(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("打开数据库失败: %w", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	store, err := openStore(cfg.Attachments)
	if err != nil {
		return nil, fmt.Errorf("打开附件存储失败: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"database": cfg.Database.Path,
		"storage":  cfg.Attachments.StorageDriver,
	}).Info("基础组件初始化完成")

	return &app{cfg: cfg, logger: logger, db: db, store: store}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.logger.WithError(err).Warn("关闭附件存储失败")
	}
	if sqlDB, err := a.db.DB(); err == nil {
		sqlDB.Close()
	}
}

// newRedisClient 未配置 Redis 时返回 nil
func newRedisClient(cfg config.RedisConfig) *redis.Client {
	if !cfg.Enabled() {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.GetAddress(),
		DB:       cfg.DB,
		Password: cfg.Password,
	})
}
