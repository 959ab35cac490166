package handler

import (
	"github.com/gin-gonic/gin"

	"fypcollabor8/backend/internal/dto"
	"fypcollabor8/backend/internal/service"
	"fypcollabor8/backend/pkg/response"
)

// SubmissionHandler 提交物查看模块 HTTP 处理器
type SubmissionHandler struct {
	submissionSvc service.SubmissionService
}

// NewSubmissionHandler 创建 SubmissionHandler
func NewSubmissionHandler(submissionSvc service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionSvc: submissionSvc}
}

// ListDeliverables 交付物列表
// GET /api/v1/deliverables
func (h *SubmissionHandler) ListDeliverables(c *gin.Context) {
	var req dto.DeliverableListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	deliverables, err := h.submissionSvc.ListDeliverables(c.Request.Context(), req.SemesterID)
	if err != nil {
		h.handleSubmissionError(c, err)
		return
	}

	response.OK(c, gin.H{"list": deliverables})
}

// GroupOverview 小组各交付物提交情况
// GET /api/v1/groups/:id/submissions
func (h *SubmissionHandler) GroupOverview(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	groupID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	overview, err := h.submissionSvc.GroupOverview(c.Request.Context(), identity, groupID)
	if err != nil {
		h.handleSubmissionError(c, err)
		return
	}

	response.OK(c, gin.H{"list": overview})
}

// ListSubmissions 提交记录列表
// GET /api/v1/submissions
func (h *SubmissionHandler) ListSubmissions(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.SubmissionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.submissionSvc.List(c.Request.Context(), identity, &req)
	if err != nil {
		h.handleSubmissionError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// LecturerDashboard 讲师仪表盘
// GET /api/v1/dashboard/lecturer
func (h *SubmissionHandler) LecturerDashboard(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	items, err := h.submissionSvc.LecturerDashboard(c.Request.Context(), identity)
	if err != nil {
		h.handleSubmissionError(c, err)
		return
	}

	response.OK(c, gin.H{"list": items})
}

func (h *SubmissionHandler) handleSubmissionError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	abortInternal(c, err)
}
