package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fypcollabor8/backend/internal/api/middleware"
	"fypcollabor8/backend/internal/dto"
	"fypcollabor8/backend/pkg/response"
)

// MustGetIdentity 从 Gin 上下文中提取调用者身份。
// JWT 中间件未注入时写入 401 响应并返回 false，调用方应直接 return。
func MustGetIdentity(c *gin.Context) (dto.Identity, bool) {
	userID := c.GetUint(middleware.ContextUserID)
	role := c.GetString(middleware.ContextRole)
	if userID == 0 || role == "" {
		response.Unauthorized(c, 10002, "未认证")
		return dto.Identity{}, false
	}
	return dto.Identity{UserID: userID, Role: role}, true
}

// MustGetToken 提取当前 Token 的 jti 与过期时间（登出用）
func MustGetToken(c *gin.Context) (string, time.Time, bool) {
	jti := c.GetString(middleware.ContextTokenJTI)
	if jti == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", time.Time{}, false
	}
	return jti, c.GetTime(middleware.ContextTokenExp), true
}

// ParseIDParam 解析路径中的正整数 ID，非法时写入 400
func ParseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, 10001, name+" 参数无效")
		return 0, false
	}
	return uint(id), true
}
