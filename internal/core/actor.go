package core

import "taskmgr-go/internal/models"

// Role 请求方角色
type Role string

const (
	RoleUser  Role = models.RoleUser
	RoleAdmin Role = models.RoleAdmin
)

// Actor 已认证的请求方，由会话(JWT)解析后显式传入
type Actor struct {
	ID   uint
	Role Role
}

// IsAdmin 是否为管理员
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// ParseRole 未知角色一律视为普通用户
func ParseRole(s string) Role {
	if Role(s) == RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}
