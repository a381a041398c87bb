package handler

import (
	"taskmgr-go/internal/dto"
	"taskmgr-go/internal/service"
	"taskmgr-go/internal/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler 账户相关接口
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register 注册普通用户，成功返回201和用户信息
// @Summary 用户注册
// @Tags 账户
// @Param request body dto.RegisterRequest true "注册信息"
// @Success 201 {object} utils.Response{data=dto.UserInfo}
// @Router /api/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	user, err := h.authService.Register(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Location", "/api/me")
	utils.CreatedResponse(c, dto.UserInfo{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	})
}

// Login 邮箱密码登录，失败时不区分邮箱不存在和密码错误
// @Summary 用户登录
// @Tags 账户
// @Param request body dto.LoginRequest true "登录信息"
// @Success 200 {object} utils.Response{data=dto.LoginResponse}
// @Router /api/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	session, err := h.authService.Login(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Cache-Control", "no-store")
	utils.SuccessWithMessage(c, "登录成功", session)
}

// GetMe 当前登录用户
func (h *AuthHandler) GetMe(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	info, err := h.authService.GetMe(actor)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, info)
}

// Logout Token 无状态，由客户端丢弃
func (h *AuthHandler) Logout(c *gin.Context) {
	utils.SuccessWithMessage(c, "已登出", nil)
}
