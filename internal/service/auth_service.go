package service

import (
	"fmt"
	"strings"

	"taskmgr-go/internal/config"
	"taskmgr-go/internal/core"
	"taskmgr-go/internal/dto"
	"taskmgr-go/internal/models"
	"taskmgr-go/internal/repository"
	"taskmgr-go/internal/utils"

	"github.com/sirupsen/logrus"
)

// AuthService 认证服务
type AuthService struct {
	userRepo   *repository.UserRepository
	jwtManager *utils.JWTManager
	cfg        *config.Config
	logger     *logrus.Logger
}

// NewAuthService 创建认证服务
func NewAuthService(userRepo *repository.UserRepository, jwtManager *utils.JWTManager, cfg *config.Config, logger *logrus.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		cfg:        cfg,
		logger:     logger,
	}
}

// Register 用户注册，注册用户的角色固定为 User
func (s *AuthService) Register(req *dto.RegisterRequest) (*models.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, invalid(err)
	}

	exists, err := s.userRepo.ExistsByEmail(req.Email)
	if err != nil {
		return nil, fmt.Errorf("检查邮箱失败: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("密码哈希失败: %w", err)
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Role:         models.RoleUser,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}

	s.logger.WithField("user_id", user.ID).Info("新用户注册")
	return user, nil
}

// Login 用户登录
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, invalid(err)
	}

	user, err := s.userRepo.GetByEmail(strings.TrimSpace(req.Email))
	if err != nil {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := utils.CheckPassword(req.Password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("生成Token失败: %w", err)
	}

	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.cfg.JWT.GetExpireDuration().Seconds()),
		User:        toUserInfo(user),
	}, nil
}

// GetMe 获取当前用户信息
func (s *AuthService) GetMe(actor core.Actor) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(actor.ID)
	if err != nil {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	if user == nil {
		return nil, core.ErrUnauthenticated
	}
	info := toUserInfo(user)
	return &info, nil
}

// InitAdmin 初始化管理员账户，已有管理员时不做任何事
func (s *AuthService) InitAdmin() error {
	count, err := s.userRepo.CountAdmins()
	if err != nil {
		return fmt.Errorf("检查管理员失败: %w", err)
	}
	if count > 0 {
		return nil
	}

	// 配置中的密码可以是明文或bcrypt哈希
	passwordHash := s.cfg.Admin.Password
	if !utils.IsBcryptHash(passwordHash) {
		hashed, err := utils.HashPassword(s.cfg.Admin.Password)
		if err != nil {
			return fmt.Errorf("密码哈希失败: %w", err)
		}
		passwordHash = hashed
	}

	existing, err := s.userRepo.GetByEmail(s.cfg.Admin.Email)
	if err != nil {
		return fmt.Errorf("查询用户失败: %w", err)
	}
	if existing != nil {
		existing.Role = models.RoleAdmin
		if err := s.userRepo.Update(existing); err != nil {
			return fmt.Errorf("提升管理员失败: %w", err)
		}
		s.logger.WithField("user_id", existing.ID).Warn("已有同邮箱用户，提升为管理员")
		return nil
	}

	admin := &models.User{
		Name:         s.cfg.Admin.Name,
		Email:        s.cfg.Admin.Email,
		PasswordHash: passwordHash,
		Role:         models.RoleAdmin,
	}
	if err := s.userRepo.Create(admin); err != nil {
		return fmt.Errorf("创建管理员失败: %w", err)
	}

	s.logger.WithField("email", admin.Email).Info("已创建初始管理员")
	return nil
}

func toUserInfo(user *models.User) dto.UserInfo {
	return dto.UserInfo{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
}
