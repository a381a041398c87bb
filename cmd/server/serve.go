package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskmgr-go/internal/repository"
	"taskmgr-go/internal/router"
	"taskmgr-go/internal/service"
	"taskmgr-go/internal/utils"
	"taskmgr-go/pkg/redis_limiter"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动HTTP服务",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()

	cfg, logger := a.cfg, a.logger

	jwtManager := utils.NewJWTManager(
		cfg.JWT.SecretKey,
		cfg.JWT.Algorithm,
		cfg.JWT.GetExpireDuration(),
	)

	// 初始化管理员账户
	userRepo := repository.NewUserRepository(a.db)
	authService := service.NewAuthService(userRepo, jwtManager, cfg, logger)
	if err := authService.InitAdmin(); err != nil {
		logger.WithError(err).Warn("初始化管理员失败")
	}

	var limiter service.UploadLimiter
	if client := newRedisClient(cfg.Redis); client != nil {
		defer client.Close()
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := client.Ping(pingCtx).Err(); err != nil {
			logger.WithError(err).Warn("Redis不可用，上传限流将在恢复后生效")
		}
		cancel()
		limiter = redis_limiter.NewRedisLimiter(client, cfg.Redis.MaxUploadsPerUser, "taskmgr:uploads:", cfg.Redis.GetSlotTTL(), logger)
	}

	var sweeper *service.BlobSweeper
	if cfg.Attachments.SweepSchedule != "" {
		sweeper = service.NewBlobSweeper(repository.NewAttachmentRepository(a.db), a.store, cfg.Attachments.GetSweepGrace(), logger)
		if err := sweeper.Schedule(cfg.Attachments.SweepSchedule); err != nil {
			return err
		}
		sweeper.Start()
	}

	r := router.SetupRouter(cfg, jwtManager, logger, a.db, a.store, limiter)
	srv := &http.Server{
		Addr:              cfg.Server.GetAddress(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("服务器启动在 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case sig := <-quit:
		logger.WithField("signal", sig.String()).Info("正在关闭服务器")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	sweeper.Stop(ctx)
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("服务器关闭超时")
		return err
	}
	logger.Info("服务器已关闭")
	return nil
}
