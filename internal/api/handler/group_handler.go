package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fypcollabor8/backend/internal/dto"
	"fypcollabor8/backend/internal/model"
	"fypcollabor8/backend/internal/service"
	"fypcollabor8/backend/pkg/response"
)

// GroupHandler 分组模块 HTTP 处理器（小组生命周期 + 讲师指派）
type GroupHandler struct {
	groupSvc service.GroupService
}

// NewGroupHandler 创建 GroupHandler
func NewGroupHandler(groupSvc service.GroupService) *GroupHandler {
	return &GroupHandler{groupSvc: groupSvc}
}

// CreateGroup 创建小组
// POST /api/v1/groups
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.CreateGroupRequest
	// 请求体可以为空
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, 10001, "参数校验失败")
			return
		}
	}

	group, err := h.groupSvc.Create(c.Request.Context(), identity, &req)
	if err != nil {
		h.handleGroupError(c, err)
		return
	}

	response.Created(c, group)
}

// ListGroups 小组列表（分页 + 状态/名称筛选）
// GET /api/v1/groups
func (h *GroupHandler) ListGroups(c *gin.Context) {
	var req dto.GroupListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	groups, total, err := h.groupSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleGroupError(c, err)
		return
	}

	response.OKPage(c, groups, total, req.GetPage(), req.GetPageSize())
}

// GetGroup 小组详情
// GET /api/v1/groups/:id
func (h *GroupHandler) GetGroup(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	groupID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	group, err := h.groupSvc.GetByID(c.Request.Context(), identity, groupID)
	if err != nil {
		h.handleGroupError(c, err)
		return
	}

	response.OK(c, group)
}

// MyGroups 学生：所在小组；讲师：指导与评审的小组
// GET /api/v1/groups/mine
func (h *GroupHandler) MyGroups(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	if identity.Is(model.RoleStudent) {
		group, err := h.groupSvc.StudentGroup(c.Request.Context(), identity)
		if err != nil {
			h.handleGroupError(c, err)
			return
		}
		response.OK(c, group)
		return
	}

	groups, err := h.groupSvc.LecturerGroups(c.Request.Context(), identity)
	if err != nil {
		h.handleGroupError(c, err)
		return
	}
	response.OK(c, groups)
}

// AssignStudent 分配学生入组
// POST /api/v1/groups/:id/members
func (h *GroupHandler) AssignStudent(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	groupID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.AssignStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	group, err := h.groupSvc.AssignStudent(c.Request.Context(), identity, groupID, req.StudentID)
	if err != nil {
		h.handleGroupError(c, err)
		return
	}

	response.OK(c, group)
}

// RemoveStudent 移出组员
// DELETE /api/v1/groups/:id/members/:student_id
func (h *GroupHandler) RemoveStudent(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	groupID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}
	studentID, ok := ParseIDParam(c, "student_id")
	if !ok {
		return
	}

	if err := h.groupSvc.RemoveStudent(c.Request.Context(), identity, groupID, studentID); err != nil {
		h.handleGroupError(c, err)
		return
	}

	response.OK(c, nil)
}

// SetLeader 更换组长
// PUT /api/v1/groups/:id/leader
func (h *GroupHandler) SetLeader(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	groupID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.SetLeaderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.groupSvc.SetLeader(c.Request.Context(), identity, groupID, req.StudentID); err != nil {
		h.handleGroupError(c, err)
		return
	}

	response.OK(c, nil)
}

// DeleteGroup 级联删除小组
// DELETE /api/v1/groups/:id
func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	groupID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.groupSvc.Delete(c.Request.Context(), identity, groupID); err != nil {
		h.handleGroupError(c, err)
		return
	}

	response.OK(c, nil)
}

// ReviewGroup 导师审核小组
// POST /api/v1/groups/:id/review
func (h *GroupHandler) ReviewGroup(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	groupID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.ReviewGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.groupSvc.Review(c.Request.Context(), identity, groupID, req.Action); err != nil {
		h.handleGroupError(c, err)
		return
	}

	response.OK(c, nil)
}

// AssignSupervisor 指派导师
// PUT /api/v1/groups/:id/supervisor
func (h *GroupHandler) AssignSupervisor(c *gin.Context) {
	h.assignRole(c, service.RoleSupervisor)
}

// AssignAssessor 指派评审
// PUT /api/v1/groups/:id/assessor
func (h *GroupHandler) AssignAssessor(c *gin.Context) {
	h.assignRole(c, service.RoleAssessor)
}

func (h *GroupHandler) assignRole(c *gin.Context, role string) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	groupID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.AssignLecturerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.groupSvc.AssignRole(c.Request.Context(), identity, groupID, req.LecturerID, role); err != nil {
		h.handleGroupError(c, err)
		return
	}

	response.OK(c, nil)
}

// ListUnassignedStudents 未分组学生
// GET /api/v1/students/unassigned
func (h *GroupHandler) ListUnassignedStudents(c *gin.Context) {
	students, err := h.groupSvc.ListUnassignedStudents(c.Request.Context())
	if err != nil {
		abortInternal(c, err)
		return
	}

	response.OK(c, gin.H{"list": students})
}

// ListLecturers 讲师列表（可按 supervisor / assessor 资格筛选）
// GET /api/v1/lecturers
func (h *GroupHandler) ListLecturers(c *gin.Context) {
	var req dto.LecturerListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	lecturers, err := h.groupSvc.ListLecturers(c.Request.Context(), req.Role)
	if err != nil {
		abortInternal(c, err)
		return
	}

	response.OK(c, gin.H{"list": lecturers})
}

func (h *GroupHandler) handleGroupError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrStudentAlreadyAssigned):
		response.Conflict(c, 21003, err.Error())
	case errors.Is(err, service.ErrGroupFull):
		response.Conflict(c, 21004, err.Error())
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 21005, err.Error())
	case errors.Is(err, service.ErrGroupDeleteFailed):
		response.Error(c, http.StatusInternalServerError, 21006, err.Error())
	case errors.Is(err, service.ErrLecturerNotFound):
		response.NotFound(c, 21007, err.Error())
	case errors.Is(err, service.ErrRoleUpdateFailed):
		response.Error(c, http.StatusInternalServerError, 21008, err.Error())
	case errors.Is(err, service.ErrLecturerRoleMismatch):
		response.BadRequest(c, 21009, err.Error())
	case errors.Is(err, service.ErrStudentNotInGroup):
		response.BadRequest(c, 21010, err.Error())
	case errors.Is(err, service.ErrInvalidReviewAction):
		response.BadRequest(c, 21014, err.Error())
	case errors.Is(err, service.ErrInvalidRole):
		response.BadRequest(c, 21015, err.Error())
	default:
		abortInternal(c, err)
	}
}
