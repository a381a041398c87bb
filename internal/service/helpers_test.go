package service

import (
	"context"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"taskmgr-go/internal/config"
	"taskmgr-go/internal/core"
	"taskmgr-go/internal/dto"
	"taskmgr-go/internal/models"
	"taskmgr-go/internal/repository"
	"taskmgr-go/internal/storage"
	"taskmgr-go/internal/utils"
	"taskmgr-go/pkg/redis_limiter"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var testNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	db          *gorm.DB
	store       *storage.LocalStore
	users       *repository.UserRepository
	tasks       *repository.TaskRepository
	attachments *repository.AttachmentRepository
	auth        *AuthService
	taskSvc     *TaskService
	attachSvc   *AttachmentService
	logger      *logrus.Logger
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := models.OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	store, err := storage.NewLocalStore(filepath.Join(t.TempDir(), "uploads"))
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	cfg := &config.Config{
		JWT:   config.JWTConfig{SecretKey: "test-secret", ExpireMinutes: 60},
		Admin: config.AdminConfig{Password: "Admin123!"},
	}
	config.ApplyDefaults(cfg)

	logger := quietLogger()
	env := &testEnv{
		db:          db,
		store:       store,
		users:       repository.NewUserRepository(db),
		tasks:       repository.NewTaskRepository(db),
		attachments: repository.NewAttachmentRepository(db),
		logger:      logger,
	}
	jwtManager := utils.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Algorithm, cfg.JWT.GetExpireDuration())
	env.auth = NewAuthService(env.users, jwtManager, cfg, logger)
	env.taskSvc = NewTaskService(env.tasks, env.users, store, core.DefaultAlertClassifier(),
		core.CategoryLabels(cfg.GetCategoryLabels()), logger).WithClock(func() time.Time { return testNow }).WithLocation(time.UTC)
	env.attachSvc = NewAttachmentService(env.tasks, env.attachments, store, core.DefaultAttachmentPolicy(), nil, logger)
	return env
}

// addUser 直接写库创建用户，返回对应的 Actor
func (e *testEnv) addUser(t *testing.T, email, role string) core.Actor {
	t.Helper()
	u := &models.User{Name: email, Email: email, PasswordHash: "x", Role: role}
	if err := e.users.Create(u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return core.Actor{ID: u.ID, Role: core.ParseRole(role)}
}

func (e *testEnv) createTask(t *testing.T, actor core.Actor, req dto.TaskRequest) *dto.TaskResponse {
	t.Helper()
	resp, err := e.taskSvc.Create(actor, &req)
	if err != nil {
		t.Fatalf("Create task: %v", err)
	}
	return resp
}

func taskReq(title, date, clock string) dto.TaskRequest {
	return dto.TaskRequest{Title: title, DueDate: date, DueTime: clock}
}

func intPtr(v int) *int    { return &v }
func uintPtr(v uint) *uint { return &v }
func boolPtr(v bool) *bool { return &v }

// fakeLimiter 内存版上传限流器
type fakeLimiter struct {
	mu    sync.Mutex
	max   int
	inUse map[uint]int
}

func newFakeLimiter(max int) *fakeLimiter {
	return &fakeLimiter{max: max, inUse: map[uint]int{}}
}

func (f *fakeLimiter) Acquire(_ context.Context, userID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inUse[userID] >= f.max {
		return redis_limiter.ErrLimitReached
	}
	f.inUse[userID]++
	return nil
}

func (f *fakeLimiter) Release(_ context.Context, userID uint) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inUse[userID] > 0 {
		f.inUse[userID]--
	}
}
