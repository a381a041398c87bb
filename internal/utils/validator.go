package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	// DateLayout 截止日期格式
	DateLayout = "2006-01-02"
	// ClockLayout 截止时刻格式
	ClockLayout = "15:04"
)

var validate *validator.Validate

// InitValidator 初始化验证器
func InitValidator() {
	validate = validator.New()

	// 注册自定义验证函数
	validate.RegisterValidation("datestr", validateDateString)
	validate.RegisterValidation("clock", validateClock)
}

// GetValidator 获取验证器实例
func GetValidator() *validator.Validate {
	if validate == nil {
		InitValidator()
	}
	return validate
}

func validateDateString(fl validator.FieldLevel) bool {
	_, err := time.Parse(DateLayout, fl.Field().String())
	return err == nil
}

func validateClock(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, err := ParseClock(value)
	return err == nil
}

// ParseDate 解析 YYYY-MM-DD 为 loc 时区的当日零点
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, loc)
}

// ParseClock 解析 HH:MM 为距零点的时长，空串为零
func ParseClock(value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	t, err := time.Parse(ClockLayout, value)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// FormatClock 将距零点的时长格式化为 HH:MM
func FormatClock(d time.Duration) string {
	d = d.Truncate(time.Minute)
	return fmt.Sprintf("%02d:%02d", int(d/time.Hour), int(d%time.Hour/time.Minute))
}

// ValidateStruct 验证结构体
func ValidateStruct(s interface{}) error {
	v := GetValidator()
	if err := v.Struct(s); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError 格式化验证错误
func formatValidationError(err error) error {
	var messages []string

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			field := e.Field()
			param := e.Param()

			var message string
			switch e.Tag() {
			case "required":
				message = fmt.Sprintf("%s是必填字段", field)
			case "min":
				message = fmt.Sprintf("%s长度不能小于%s", field, param)
			case "max":
				message = fmt.Sprintf("%s长度不能大于%s", field, param)
			case "email":
				message = fmt.Sprintf("%s必须是有效的邮箱地址", field)
			case "eqfield":
				message = fmt.Sprintf("%s与%s不一致", field, param)
			case "oneof":
				message = fmt.Sprintf("%s必须是以下值之一: %s", field, param)
			case "datestr":
				message = fmt.Sprintf("%s必须是YYYY-MM-DD格式的日期", field)
			case "clock":
				message = fmt.Sprintf("%s必须是HH:MM格式的时间", field)
			default:
				message = fmt.Sprintf("%s验证失败: %s", field, e.Tag())
			}

			messages = append(messages, message)
		}
	}

	if len(messages) > 0 {
		return errors.New(strings.Join(messages, "; "))
	}

	return err
}
