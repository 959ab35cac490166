package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fypcollabor8/backend/internal/service"
	"fypcollabor8/backend/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportGroups 导出小组名单
// GET /api/v1/groups/export
func (h *ExportHandler) ExportGroups(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportGroups(c.Request.Context())
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	response.File(c, xlsxContentType, filename, buf.Bytes())
}

// ExportSubmissions 导出某交付物的提交记录
// GET /api/v1/submissions/export?deliverable_id=xxx
func (h *ExportHandler) ExportSubmissions(c *gin.Context) {
	var req struct {
		DeliverableID uint `form:"deliverable_id" binding:"required,min=1"`
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "deliverable_id 不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportSubmissions(c.Request.Context(), req.DeliverableID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	response.File(c, xlsxContentType, filename, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrExportGenerateFail) {
		response.Error(c, http.StatusInternalServerError, 26001, err.Error())
		return
	}
	abortInternal(c, err)
}
