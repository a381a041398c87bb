package handler

import (
	"errors"
	"strconv"

	"taskmgr-go/internal/core"
	"taskmgr-go/internal/middleware"
	"taskmgr-go/internal/service"
	"taskmgr-go/internal/utils"

	"github.com/gin-gonic/gin"
)

// respondError 将服务层错误映射为HTTP状态与稳定的 reason
func respondError(c *gin.Context, err error) {
	var rejected *core.RejectError
	switch {
	case errors.As(err, &rejected):
		utils.BadRequest(c, rejected.Reason, rejected.Error())
	case errors.Is(err, service.ErrTooManyUploads):
		utils.TooManyRequests(c, "too_many_uploads", "同时上传的文件过多，请稍后再试")
	case errors.Is(err, core.ErrUnauthenticated):
		utils.Unauthorized(c, "unauthenticated", err.Error())
	case errors.Is(err, core.ErrUnauthorized):
		// 不透露任务的实际归属
		utils.Unauthorized(c, "not_owner", "无权访问该资源")
	case errors.Is(err, core.ErrNotFound):
		utils.NotFound(c, "资源不存在")
	case errors.Is(err, core.ErrValidationFailed):
		utils.BadRequest(c, "validation_failed", err.Error())
	default:
		c.Error(err)
		utils.InternalError(c, "服务器内部错误")
	}
}

// currentActor 取出认证中间件放入的 Actor，缺失时直接返回401
func currentActor(c *gin.Context) (core.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		respondError(c, core.ErrUnauthenticated)
	}
	return actor, ok
}

// parseID 解析路径中的数字ID，非法ID按不存在处理
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		respondError(c, core.ErrNotFound)
		return 0, false
	}
	return uint(id), true
}

func badJSON(c *gin.Context, err error) {
	utils.BadRequest(c, "validation_failed", "请求格式错误: "+err.Error())
}
