package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"fypcollabor8/backend/internal/dto"
	"fypcollabor8/backend/internal/service"
	"fypcollabor8/backend/pkg/response"
)

// MeetingHandler 会议预约模块 HTTP 处理器
type MeetingHandler struct {
	meetingSvc service.MeetingService
}

// NewMeetingHandler 创建 MeetingHandler
func NewMeetingHandler(meetingSvc service.MeetingService) *MeetingHandler {
	return &MeetingHandler{meetingSvc: meetingSvc}
}

// CreateMeeting 学生向导师发起会议预约
// POST /api/v1/meetings
func (h *MeetingHandler) CreateMeeting(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.CreateMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	meeting, err := h.meetingSvc.Create(c.Request.Context(), identity, &req)
	if err != nil {
		h.handleMeetingError(c, err)
		return
	}

	response.Created(c, meeting)
}

// ListMeetings 会议列表（学生看本组，讲师看自己名下）
// GET /api/v1/meetings
func (h *MeetingHandler) ListMeetings(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.MeetingListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	meetings, err := h.meetingSvc.List(c.Request.Context(), identity, req.Status)
	if err != nil {
		h.handleMeetingError(c, err)
		return
	}

	response.OK(c, gin.H{"list": meetings})
}

// ConfirmMeeting 导师确认会议
// PUT /api/v1/meetings/:id/confirm
func (h *MeetingHandler) ConfirmMeeting(c *gin.Context) {
	h.transition(c, h.meetingSvc.Confirm)
}

// RejectMeeting 导师拒绝会议
// PUT /api/v1/meetings/:id/reject
func (h *MeetingHandler) RejectMeeting(c *gin.Context) {
	h.transition(c, h.meetingSvc.Reject)
}

// CancelMeeting 学生取消会议
// PUT /api/v1/meetings/:id/cancel
func (h *MeetingHandler) CancelMeeting(c *gin.Context) {
	h.transition(c, h.meetingSvc.Cancel)
}

// DeleteMeeting 导师删除会议
// DELETE /api/v1/meetings/:id
func (h *MeetingHandler) DeleteMeeting(c *gin.Context) {
	h.transition(c, h.meetingSvc.Delete)
}

func (h *MeetingHandler) transition(c *gin.Context, apply func(context.Context, dto.Identity, uint) error) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	meetingID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := apply(c.Request.Context(), identity, meetingID); err != nil {
		h.handleMeetingError(c, err)
		return
	}

	response.OK(c, nil)
}

// Calendar 导出会议日历（iCalendar）
// GET /api/v1/meetings/calendar.ics
func (h *MeetingHandler) Calendar(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	body, err := h.meetingSvc.Calendar(c.Request.Context(), identity)
	if err != nil {
		h.handleMeetingError(c, err)
		return
	}

	response.File(c, "text/calendar; charset=utf-8", "meetings.ics", body)
}

func (h *MeetingHandler) handleMeetingError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrMeetingNotFound):
		response.NotFound(c, 23001, err.Error())
	case errors.Is(err, service.ErrNoSupervisor):
		response.Conflict(c, 23002, err.Error())
	case errors.Is(err, service.ErrMeetingDateFormat):
		response.BadRequest(c, 23003, err.Error())
	default:
		abortInternal(c, err)
	}
}
