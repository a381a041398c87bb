package models

import (
	"strconv"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// busyTimeoutMS 清理任务与请求并发写库时的等待时间
const busyTimeoutMS = 5000

// OpenDB 打开SQLite数据库
func OpenDB(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(sqliteDSN(path)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		// 附件的级联删除由服务层显式完成
		DisableForeignKeyConstraintWhenMigrating: true,
	})
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "_busy_timeout") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_busy_timeout=" + strconv.Itoa(busyTimeoutMS)
}

// AutoMigrate 自动迁移数据库表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Task{},
		&Attachment{},
	)
}
