package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

var (
	globalConfig *Config
	once         sync.Once
)

// LoadConfig 加载配置文件，进程内只加载一次
func LoadConfig(configFile string) (*Config, error) {
	var err error

	once.Do(func() {
		var cfg *Config
		cfg, err = loadConfigFromFile(configFile)
		if err == nil {
			globalConfig = cfg
		}
	})

	return globalConfig, err
}

// loadConfigFromFile 从文件加载配置
func loadConfigFromFile(configFile string) (*Config, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// 环境变量覆盖，如 JWT_SECRET_KEY 覆盖 jwt.secret_key
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("配置验证失败: %w", err)
	}

	return &cfg, nil
}

// ApplyDefaults 设置默认值
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 18080
	}
	if cfg.Server.TimeZone == "" {
		cfg.Server.TimeZone = "Local"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "./database/tasks.db"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Redis.MaxUploadsPerUser == 0 {
		cfg.Redis.MaxUploadsPerUser = 3
	}
	if cfg.Redis.SlotTTLSeconds == 0 {
		cfg.Redis.SlotTTLSeconds = 300
	}
	if cfg.JWT.Algorithm == "" {
		cfg.JWT.Algorithm = "HS256"
	}
	if cfg.JWT.ExpireMinutes == 0 {
		cfg.JWT.ExpireMinutes = 1440
	}
	if cfg.Admin.Name == "" {
		cfg.Admin.Name = "Administrator"
	}
	if cfg.Admin.Email == "" {
		cfg.Admin.Email = "admin@taskmgr.local"
	}
	if cfg.CORS.AllowMethods == nil {
		cfg.CORS.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if cfg.CORS.AllowHeaders == nil {
		cfg.CORS.AllowHeaders = []string{"Authorization", "Content-Type"}
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Attachments.StorageDriver == "" {
		cfg.Attachments.StorageDriver = "local"
	}
	if cfg.Attachments.StorageDir == "" {
		cfg.Attachments.StorageDir = "./uploads"
	}
	if cfg.Attachments.BoltPath == "" {
		cfg.Attachments.BoltPath = "./database/attachments.bolt"
	}
	if cfg.Attachments.MaxSizeMB == 0 {
		cfg.Attachments.MaxSizeMB = 10
	}
	if len(cfg.Attachments.AllowedExtensions) == 0 {
		cfg.Attachments.AllowedExtensions = []string{
			".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
			".txt", ".csv", ".jpg", ".jpeg", ".png", ".gif",
		}
	}
	if cfg.Attachments.SweepGraceMinutes == 0 {
		cfg.Attachments.SweepGraceMinutes = 30
	}
	if cfg.Alerts.UrgentHours == 0 {
		cfg.Alerts.UrgentHours = 24
	}
	if cfg.Alerts.ApproachingHours == 0 {
		cfg.Alerts.ApproachingHours = 72
	}
	if len(cfg.Categories) == 0 {
		cfg.Categories = map[string]string{
			"1": "Work",
			"2": "Personal",
			"3": "Other",
		}
	}
}

// validateConfig 验证配置
func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("无效的服务器端口: %d", cfg.Server.Port)
	}

	if _, err := cfg.Server.Location(); err != nil {
		return fmt.Errorf("无效的时区 %q: %w", cfg.Server.TimeZone, err)
	}

	if cfg.JWT.SecretKey == "" {
		return fmt.Errorf("JWT密钥不能为空")
	}

	if cfg.Admin.Password == "" {
		return fmt.Errorf("管理员密码不能为空")
	}

	switch cfg.Attachments.StorageDriver {
	case "local", "bolt":
	default:
		return fmt.Errorf("不支持的附件存储驱动: %s", cfg.Attachments.StorageDriver)
	}

	if cfg.Attachments.MaxSizeMB < 0 {
		return fmt.Errorf("附件大小上限不能为负数: %d", cfg.Attachments.MaxSizeMB)
	}

	if cfg.Alerts.UrgentHours < 0 || cfg.Alerts.ApproachingHours < cfg.Alerts.UrgentHours {
		return fmt.Errorf("无效的提醒阈值: urgent=%d approaching=%d", cfg.Alerts.UrgentHours, cfg.Alerts.ApproachingHours)
	}

	for key := range cfg.Categories {
		if _, err := strconv.Atoi(strings.TrimSpace(key)); err != nil {
			return fmt.Errorf("无效的分类编号: %q", key)
		}
	}

	// 检查数据库目录是否存在
	dbDir := filepath.Dir(cfg.Database.Path)
	if _, err := os.Stat(dbDir); os.IsNotExist(err) {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return fmt.Errorf("创建数据库目录失败: %w", err)
		}
	}

	return nil
}

// GetConfig 获取全局配置
func GetConfig() *Config {
	return globalConfig
}
