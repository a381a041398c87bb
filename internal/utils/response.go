package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应格式，Reason 为稳定的机器可读错误码
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Reason  string      `json:"reason,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ListResponse 任务列表响应
type ListResponse struct {
	Success bool        `json:"success"`
	Count   int         `json:"count"`
	Data    interface{} `json:"data"`
}

// SuccessResponse 成功响应
func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    200,
		Message: "成功",
		Data:    data,
	})
}

// SuccessWithMessage 成功响应(带消息)
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    200,
		Message: message,
		Data:    data,
	})
}

// CreatedResponse 201响应
func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    201,
		Message: "创建成功",
		Data:    data,
	})
}

// ListSuccess 列表响应
func ListSuccess(c *gin.Context, count int, data interface{}) {
	c.JSON(http.StatusOK, ListResponse{
		Success: true,
		Count:   count,
		Data:    data,
	})
}

// ErrorWithReason 错误响应
func ErrorWithReason(c *gin.Context, code int, reason, message string) {
	c.AbortWithStatusJSON(code, Response{
		Code:    code,
		Message: message,
		Reason:  reason,
	})
}

// BadRequest 400错误
func BadRequest(c *gin.Context, reason, message string) {
	ErrorWithReason(c, http.StatusBadRequest, reason, message)
}

// Unauthorized 401错误
func Unauthorized(c *gin.Context, reason, message string) {
	ErrorWithReason(c, http.StatusUnauthorized, reason, message)
}

// Forbidden 403错误
func Forbidden(c *gin.Context, reason, message string) {
	ErrorWithReason(c, http.StatusForbidden, reason, message)
}

// NotFound 404错误
func NotFound(c *gin.Context, message string) {
	ErrorWithReason(c, http.StatusNotFound, "not_found", message)
}

// TooManyRequests 429错误
func TooManyRequests(c *gin.Context, reason, message string) {
	ErrorWithReason(c, http.StatusTooManyRequests, reason, message)
}

// InternalError 500错误
func InternalError(c *gin.Context, message string) {
	ErrorWithReason(c, http.StatusInternalServerError, "internal", message)
}
