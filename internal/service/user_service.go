package service

import (
	"fmt"

	"taskmgr-go/internal/core"
	"taskmgr-go/internal/dto"
	"taskmgr-go/internal/repository"
)

// UserService 用户管理服务
type UserService struct {
	userRepo *repository.UserRepository
}

// NewUserService 创建用户管理服务
func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListUsers 列出全部用户，仅管理员可用
func (s *UserService) ListUsers(actor core.Actor) ([]dto.UserInfo, error) {
	if !actor.IsAdmin() {
		return nil, core.ErrUnauthorized
	}

	users, err := s.userRepo.List()
	if err != nil {
		return nil, fmt.Errorf("获取用户列表失败: %w", err)
	}

	infos := make([]dto.UserInfo, len(users))
	for i := range users {
		infos[i] = toUserInfo(&users[i])
	}
	return infos, nil
}
