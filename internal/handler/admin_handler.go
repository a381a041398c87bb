package handler

import (
	"net/http"

	"taskmgr-go/internal/dto"
	"taskmgr-go/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler 管理员处理器
type AdminHandler struct {
	userService *service.UserService
}

// NewAdminHandler 创建管理员处理器
func NewAdminHandler(userService *service.UserService) *AdminHandler {
	return &AdminHandler{userService: userService}
}

// ListUsers 获取所有用户，用于任务指派
func (h *AdminHandler) ListUsers(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	users, err := h.userService.ListUsers(actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UserListResponse{
		Success: true,
		Users:   users,
		Total:   len(users),
	})
}
