package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fypcollabor8/backend/internal/service"
	"fypcollabor8/backend/pkg/response"
)

// handleCommonError 处理跨模块共用的业务错误，已写入响应时返回 true
func handleCommonError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(c, 10003, err.Error())
	case errors.Is(err, service.ErrNotGroupSupervisor):
		response.Forbidden(c, 21011, err.Error())
	case errors.Is(err, service.ErrNotGroupMember):
		response.Forbidden(c, 21013, err.Error())
	case errors.Is(err, service.ErrNoActiveSemester):
		response.BadRequest(c, 21001, err.Error())
	case errors.Is(err, service.ErrGroupNotFound):
		response.NotFound(c, 21002, err.Error())
	case errors.Is(err, service.ErrNoGroup):
		response.NotFound(c, 21012, err.Error())
	default:
		return false
	}
	return true
}

// abortInternal 未识别的错误统一按 500 返回，错误本身记入请求日志
func abortInternal(c *gin.Context, err error) {
	_ = c.Error(err)
	response.Error(c, http.StatusInternalServerError, 50000, "服务器内部错误")
}
