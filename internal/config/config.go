package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Config 应用配置结构
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis_service"`
	JWT         JWTConfig         `mapstructure:"jwt"`
	Admin       AdminConfig       `mapstructure:"admin"`
	CORS        CORSConfig        `mapstructure:"cors"`
	Log         LogConfig         `mapstructure:"log"`
	Attachments AttachmentsConfig `mapstructure:"attachments"`
	Alerts      AlertsConfig      `mapstructure:"alerts"`
	Categories  map[string]string `mapstructure:"categories"`
}

// GetCategoryLabels 将分类配置转换为 编号->名称 映射，非数字编号被忽略
func (c *Config) GetCategoryLabels() map[int]string {
	labels := make(map[int]string, len(c.Categories))
	for key, label := range c.Categories {
		code, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			continue
		}
		labels[code] = label
	}
	return labels
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	ProductionMode bool   `mapstructure:"production_mode"`
	TimeZone       string `mapstructure:"time_zone"` // 截止时间按此时区解释，如 Asia/Shanghai
}

// GetAddress 获取服务器地址
func (s *ServerConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Location 截止日期所在时区，"Local" 为主机时区
func (s *ServerConfig) Location() (*time.Location, error) {
	return time.LoadLocation(s.TimeZone)
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// RedisConfig Redis配置，Host为空时不启用上传并发限制
type RedisConfig struct {
	Host              string `mapstructure:"host"`
	Port              int    `mapstructure:"port"`
	DB                int    `mapstructure:"db"`
	Password          string `mapstructure:"password"`
	MaxUploadsPerUser int    `mapstructure:"max_uploads_per_user"`
	SlotTTLSeconds    int    `mapstructure:"slot_ttl_seconds"`
}

// Enabled 是否配置了Redis
func (r *RedisConfig) Enabled() bool {
	return r.Host != ""
}

// GetAddress 获取Redis地址
func (r *RedisConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// GetSlotTTL 获取上传槽位过期时间
func (r *RedisConfig) GetSlotTTL() time.Duration {
	return time.Duration(r.SlotTTLSeconds) * time.Second
}

// JWTConfig JWT配置
type JWTConfig struct {
	SecretKey     string `mapstructure:"secret_key"`
	Algorithm     string `mapstructure:"algorithm"`
	ExpireMinutes int    `mapstructure:"expire_minutes"`
}

// GetExpireDuration 获取过期时间
func (j *JWTConfig) GetExpireDuration() time.Duration {
	return time.Duration(j.ExpireMinutes) * time.Minute
}

// AdminConfig 初始管理员配置
type AdminConfig struct {
	Name     string `mapstructure:"name"`
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

// CORSConfig CORS配置
type CORSConfig struct {
	Origins          []string `mapstructure:"origins"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	AllowMethods     []string `mapstructure:"allow_methods"`
	AllowHeaders     []string `mapstructure:"allow_headers"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// AttachmentsConfig 附件配置
type AttachmentsConfig struct {
	StorageDriver     string   `mapstructure:"storage_driver"` // local, bolt
	StorageDir        string   `mapstructure:"storage_dir"`
	BoltPath          string   `mapstructure:"bolt_path"`
	MaxSizeMB         int64    `mapstructure:"max_size_mb"`
	AllowedExtensions []string `mapstructure:"allowed_extensions"`
	SweepSchedule     string   `mapstructure:"sweep_schedule"`
	SweepGraceMinutes int      `mapstructure:"sweep_grace_minutes"`
}

// GetMaxSizeBytes 获取附件大小上限(字节)
func (a *AttachmentsConfig) GetMaxSizeBytes() int64 {
	return a.MaxSizeMB << 20
}

// GetSweepGrace 获取孤儿文件清理的宽限期
func (a *AttachmentsConfig) GetSweepGrace() time.Duration {
	return time.Duration(a.SweepGraceMinutes) * time.Minute
}

// NormalizedExtensions 返回小写且带点的扩展名列表
func (a *AttachmentsConfig) NormalizedExtensions() []string {
	exts := make([]string, 0, len(a.AllowedExtensions))
	for _, ext := range a.AllowedExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	return exts
}

// AlertsConfig 截止时间提醒阈值(小时)
type AlertsConfig struct {
	UrgentHours      int `mapstructure:"urgent_hours"`
	ApproachingHours int `mapstructure:"approaching_hours"`
}

// GetUrgent 获取紧急阈值
func (a *AlertsConfig) GetUrgent() time.Duration {
	return time.Duration(a.UrgentHours) * time.Hour
}

// GetApproaching 获取临近阈值
func (a *AlertsConfig) GetApproaching() time.Duration {
	return time.Duration(a.ApproachingHours) * time.Hour
}
