package router

import (
	"net/http"

	"taskmgr-go/internal/config"
	"taskmgr-go/internal/core"
	"taskmgr-go/internal/handler"
	"taskmgr-go/internal/middleware"
	"taskmgr-go/internal/repository"
	"taskmgr-go/internal/service"
	"taskmgr-go/internal/storage"
	"taskmgr-go/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SetupRouter 设置路由，limiter 为 nil 时不限制并发上传
func SetupRouter(
	cfg *config.Config,
	jwtManager *utils.JWTManager,
	logger *logrus.Logger,
	db *gorm.DB,
	store storage.BlobStore,
	limiter service.UploadLimiter,
) *gin.Engine {
	// 设置Gin模式
	if cfg.Server.ProductionMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// multipart 超出部分写入临时文件
	r.MaxMultipartMemory = cfg.Attachments.GetMaxSizeBytes() + 1<<20

	// 全局中间件
	r.Use(middleware.LoggerMiddleware(logger))
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.CORS))

	// 健康检查
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "任务管理系统 API",
			"version": "1.0.0",
		})
	})

	// 初始化Repository
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)

	classifier := core.AlertClassifier{
		Urgent:      cfg.Alerts.GetUrgent(),
		Approaching: cfg.Alerts.GetApproaching(),
	}
	policy := core.AttachmentPolicy{
		AllowedExtensions: cfg.Attachments.NormalizedExtensions(),
		MaxSize:           cfg.Attachments.GetMaxSizeBytes(),
	}

	// 初始化Service
	authService := service.NewAuthService(userRepo, jwtManager, cfg, logger)
	userService := service.NewUserService(userRepo)
	taskService := service.NewTaskService(taskRepo, userRepo, store, classifier, core.CategoryLabels(cfg.GetCategoryLabels()), logger)
	if loc, err := cfg.Server.Location(); err == nil {
		taskService.WithLocation(loc)
	}
	attachmentService := service.NewAttachmentService(taskRepo, attachmentRepo, store, policy, limiter, logger)

	// 初始化Handler
	authHandler := handler.NewAuthHandler(authService)
	taskHandler := handler.NewTaskHandler(taskService)
	attachmentHandler := handler.NewAttachmentHandler(attachmentService)
	adminHandler := handler.NewAdminHandler(userService)

	// API路由组
	api := r.Group("/api")
	{
		// 公开路由
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)

		// 认证路由
		authorized := api.Group("")
		authorized.Use(middleware.AuthMiddleware(jwtManager))
		{
			authorized.GET("/me", authHandler.GetMe)
			authorized.POST("/logout", authHandler.Logout)

			// 任务
			authorized.GET("/tasks", taskHandler.ListTasks)
			authorized.GET("/tasks/stats", taskHandler.GetStats)
			authorized.POST("/tasks", taskHandler.CreateTask)
			authorized.GET("/tasks/:id", taskHandler.GetTask)
			authorized.PUT("/tasks/:id", taskHandler.UpdateTask)
			authorized.DELETE("/tasks/:id", taskHandler.DeleteTask)

			// 附件
			authorized.POST("/tasks/:id/attachments", attachmentHandler.Upload)
			authorized.GET("/tasks/:id/attachments", attachmentHandler.List)
			authorized.GET("/attachments/:id/download", attachmentHandler.Download)
			authorized.GET("/attachments/:id/preview", attachmentHandler.Preview)
			authorized.DELETE("/attachments/:id", attachmentHandler.Delete)

			// 管理员接口
			adminGroup := authorized.Group("/admin")
			adminGroup.Use(middleware.AdminMiddleware())
			{
				adminGroup.GET("/users", adminHandler.ListUsers)
			}
		}
	}

	return r
}
