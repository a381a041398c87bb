package middleware

import (
	"strings"

	"taskmgr-go/internal/core"
	"taskmgr-go/internal/utils"

	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// AuthMiddleware JWT认证中间件，校验通过后把 Actor 放入上下文
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Unauthorized(c, "unauthenticated", "未认证")
			return
		}

		// 解析Bearer Token
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.Unauthorized(c, "unauthenticated", "无效的认证格式")
			return
		}

		claims, err := jwtManager.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			utils.Unauthorized(c, "unauthenticated", "Token无效或已过期")
			return
		}

		c.Set(actorKey, core.Actor{ID: claims.UserID, Role: core.ParseRole(claims.Role)})
		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)

		c.Next()
	}
}

// GetActor 从上下文获取当前用户
func GetActor(c *gin.Context) (core.Actor, bool) {
	v, exists := c.Get(actorKey)
	if !exists {
		return core.Actor{}, false
	}
	actor, ok := v.(core.Actor)
	return actor, ok
}

// GetUserID 从上下文获取用户ID
func GetUserID(c *gin.Context) (uint, bool) {
	actor, ok := GetActor(c)
	return actor.ID, ok
}

// IsAdmin 从上下文判断是否为管理员
func IsAdmin(c *gin.Context) bool {
	actor, ok := GetActor(c)
	return ok && actor.IsAdmin()
}
