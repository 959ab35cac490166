package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"fypcollabor8/backend/internal/dto"
	"fypcollabor8/backend/internal/service"
	"fypcollabor8/backend/pkg/response"
)

// AnnouncementHandler 公告模块 HTTP 处理器
type AnnouncementHandler struct {
	announcementSvc service.AnnouncementService
}

// NewAnnouncementHandler 创建 AnnouncementHandler
func NewAnnouncementHandler(announcementSvc service.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{announcementSvc: announcementSvc}
}

// CreateAnnouncement 发布公告
// POST /api/v1/announcements
func (h *AnnouncementHandler) CreateAnnouncement(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	announcement, err := h.announcementSvc.Create(c.Request.Context(), identity, &req)
	if err != nil {
		h.handleAnnouncementError(c, err)
		return
	}

	response.Created(c, announcement)
}

// ListAnnouncements 公告列表
// GET /api/v1/announcements
func (h *AnnouncementHandler) ListAnnouncements(c *gin.Context) {
	var req dto.PaginationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.announcementSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleAnnouncementError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// DeleteAnnouncement 删除公告
// DELETE /api/v1/announcements/:id
func (h *AnnouncementHandler) DeleteAnnouncement(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.announcementSvc.Delete(c.Request.Context(), identity, id); err != nil {
		h.handleAnnouncementError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *AnnouncementHandler) handleAnnouncementError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	if errors.Is(err, service.ErrAnnouncementNotFound) {
		response.NotFound(c, 25001, err.Error())
		return
	}
	abortInternal(c, err)
}
