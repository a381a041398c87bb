package service

import (
	"errors"
	"fmt"

	"taskmgr-go/internal/core"
)

var (
	// ErrEmailTaken 注册邮箱已存在
	ErrEmailTaken = fmt.Errorf("%w: 该邮箱已被注册", core.ErrValidationFailed)
	// ErrInvalidCredentials 登录失败，不区分邮箱不存在与密码错误
	ErrInvalidCredentials = fmt.Errorf("%w: 邮箱或密码错误", core.ErrUnauthenticated)
	// ErrUnknownAssignee 指派目标用户不存在
	ErrUnknownAssignee = fmt.Errorf("%w: 指派的用户不存在", core.ErrValidationFailed)
	// ErrTooManyUploads 用户并发上传数超过上限
	ErrTooManyUploads = errors.New("too many concurrent uploads")
)

// invalid 将请求校验错误包装为 ErrValidationFailed
func invalid(err error) error {
	return fmt.Errorf("%w: %v", core.ErrValidationFailed, err)
}
