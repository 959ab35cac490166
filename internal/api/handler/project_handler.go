package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"fypcollabor8/backend/internal/dto"
	"fypcollabor8/backend/internal/service"
	"fypcollabor8/backend/pkg/response"
)

// ProjectHandler 题目审核模块 HTTP 处理器
type ProjectHandler struct {
	projectSvc service.ProjectService
}

// NewProjectHandler 创建 ProjectHandler
func NewProjectHandler(projectSvc service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectSvc: projectSvc}
}

// ProposeTitle 学生提交题目
// POST /api/v1/projects/mine/proposal
func (h *ProjectHandler) ProposeTitle(c *gin.Context) {
	h.submitTitle(c, h.projectSvc.Propose)
}

// RequestChange 学生申请变更已通过的题目
// POST /api/v1/projects/mine/change-request
func (h *ProjectHandler) RequestChange(c *gin.Context) {
	h.submitTitle(c, h.projectSvc.RequestChange)
}

type titleSubmitter func(ctx context.Context, identity dto.Identity, req *dto.ProposeTitleRequest) (*dto.ProjectResponse, error)

func (h *ProjectHandler) submitTitle(c *gin.Context, submit titleSubmitter) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.ProposeTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	project, err := submit(c.Request.Context(), identity, &req)
	if err != nil {
		h.handleProjectError(c, err)
		return
	}

	response.OK(c, project)
}

// ReviewTitle 导师审核题目
// POST /api/v1/projects/:id/review
func (h *ProjectHandler) ReviewTitle(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	projectID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.ReviewTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	project, err := h.projectSvc.Review(c.Request.Context(), identity, projectID, req.Action)
	if err != nil {
		h.handleProjectError(c, err)
		return
	}

	response.OK(c, project)
}

// GetProject 项目详情
// GET /api/v1/projects/:id
func (h *ProjectHandler) GetProject(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	projectID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	project, err := h.projectSvc.GetByID(c.Request.Context(), identity, projectID)
	if err != nil {
		h.handleProjectError(c, err)
		return
	}

	response.OK(c, project)
}

// ListPending 导师待审核的题目
// GET /api/v1/projects/pending
func (h *ProjectHandler) ListPending(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	projects, err := h.projectSvc.ListPending(c.Request.Context(), identity)
	if err != nil {
		h.handleProjectError(c, err)
		return
	}

	response.OK(c, gin.H{"list": projects})
}

func (h *ProjectHandler) handleProjectError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		response.NotFound(c, 22001, err.Error())
	case errors.Is(err, service.ErrInvalidTitleTransition):
		response.Conflict(c, 22002, err.Error())
	case errors.Is(err, service.ErrUnknownTitleAction):
		response.BadRequest(c, 22003, err.Error())
	default:
		abortInternal(c, err)
	}
}
