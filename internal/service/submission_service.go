package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"fypcollabor8/backend/internal/dto"
	"fypcollabor8/backend/internal/model"
	"fypcollabor8/backend/internal/repository"
)

// SubmissionService 交付物与提交记录查看业务接口（只读）
type SubmissionService interface {
	ListDeliverables(ctx context.Context, semesterID uint) ([]dto.DeliverableResponse, error)
	GroupOverview(ctx context.Context, identity dto.Identity, groupID uint) ([]dto.GroupDeliverableStatus, error)
	List(ctx context.Context, identity dto.Identity, req *dto.SubmissionListRequest) ([]dto.SubmissionResponse, int64, error)
	LecturerDashboard(ctx context.Context, identity dto.Identity) ([]dto.LecturerDashboardItem, error)
}

type submissionService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSubmissionService 创建 SubmissionService 实例
func NewSubmissionService(repo *repository.Repository, logger *zap.Logger) SubmissionService {
	return &submissionService{repo: repo, logger: logger}
}

// ListDeliverables semesterID 为 0 时取当前学期
func (s *submissionService) ListDeliverables(ctx context.Context, semesterID uint) ([]dto.DeliverableResponse, error) {
	deliverables, err := s.deliverablesOf(ctx, semesterID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.DeliverableResponse, 0, len(deliverables))
	for i := range deliverables {
		result = append(result, toDeliverableResponse(&deliverables[i]))
	}
	return result, nil
}

// GroupOverview 当前学期每个交付物在该组的最新提交
func (s *submissionService) GroupOverview(ctx context.Context, identity dto.Identity, groupID uint) ([]dto.GroupDeliverableStatus, error) {
	group, err := s.repo.Group.GetDetail(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		s.logger.Error("查询小组失败", zap.Uint("group_id", groupID), zap.Error(err))
		return nil, err
	}
	if !canViewGroup(identity, group) {
		return nil, ErrForbidden
	}

	deliverables, err := s.deliverablesOf(ctx, 0)
	if err != nil {
		return nil, err
	}

	submissions, err := s.repo.Submission.ListByGroup(ctx, groupID)
	if err != nil {
		s.logger.Error("查询小组提交记录失败", zap.Uint("group_id", groupID), zap.Error(err))
		return nil, err
	}

	// 已按提交时间倒序，首次出现即最新
	latest := make(map[uint]*model.DeliverableSubmission, len(submissions))
	for i := range submissions {
		sub := &submissions[i]
		if _, ok := latest[sub.DeliverableID]; !ok {
			sub.Group = group
			latest[sub.DeliverableID] = sub
		}
	}

	result := make([]dto.GroupDeliverableStatus, 0, len(deliverables))
	for i := range deliverables {
		d := &deliverables[i]
		status := dto.GroupDeliverableStatus{Deliverable: toDeliverableResponse(d)}
		if sub, ok := latest[d.ID]; ok {
			if sub.Deliverable == nil {
				sub.Deliverable = d
			}
			resp := toSubmissionResponse(sub)
			status.Submitted = true
			status.Submission = &resp
		}
		result = append(result, status)
	}
	return result, nil
}

// List 协调员/管理员可看全部；讲师限于自己指导或评审的小组
func (s *submissionService) List(ctx context.Context, identity dto.Identity, req *dto.SubmissionListRequest) ([]dto.SubmissionResponse, int64, error) {
	filter := repository.SubmissionListFilter{
		DeliverableID: req.DeliverableID,
		GroupID:       req.GroupID,
	}

	switch identity.Role {
	case model.RoleCoordinator, model.RoleAdmin:
	case model.RoleLecturer:
		groups, err := s.lecturerGroups(ctx, identity.UserID)
		if err != nil {
			return nil, 0, err
		}
		filter.GroupIDs = make([]uint, 0, len(groups))
		for _, g := range groups {
			filter.GroupIDs = append(filter.GroupIDs, g.group.ID)
		}
	default:
		return nil, 0, ErrForbidden
	}

	submissions, total, err := s.repo.Submission.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询提交记录失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.SubmissionResponse, 0, len(submissions))
	for i := range submissions {
		result = append(result, toSubmissionResponse(&submissions[i]))
	}
	return result, total, nil
}

// LecturerDashboard 讲师名下每个小组的提交进度与待处理会议
func (s *submissionService) LecturerDashboard(ctx context.Context, identity dto.Identity) ([]dto.LecturerDashboardItem, error) {
	groups, err := s.lecturerGroups(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}

	deliverables, err := s.deliverablesOf(ctx, 0)
	if err != nil && !errors.Is(err, ErrNoActiveSemester) {
		return nil, err
	}

	ids := make([]uint, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.group.ID)
	}
	submitted, err := s.repo.Submission.CountDeliverablesByGroups(ctx, ids)
	if err != nil {
		s.logger.Error("统计小组提交数失败", zap.Error(err))
		return nil, err
	}
	pending, err := s.repo.Meeting.CountPendingByLecturer(ctx, identity.UserID)
	if err != nil {
		s.logger.Error("统计待处理会议失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.LecturerDashboardItem, 0, len(groups))
	for _, g := range groups {
		item := dto.LecturerDashboardItem{
			GroupID:       g.group.ID,
			GroupName:     g.group.Name,
			Relation:      g.relation,
			Submitted:     int(submitted[g.group.ID]),
			Total:         len(deliverables),
			ProjectStatus: string(model.ProjectNoTitle),
		}
		if g.relation == RoleSupervisor {
			item.PendingMeetings = pending[g.group.ID]
		}
		if g.group.Project != nil {
			item.ProjectStatus = string(g.group.Project.Status)
		}
		result = append(result, item)
	}
	return result, nil
}

// ── 内部辅助方法 ──

type relatedGroup struct {
	group    model.Group
	relation string
}

// lecturerGroups 讲师指导的小组在前，评审的小组在后；同时指导与评审时按指导计
func (s *submissionService) lecturerGroups(ctx context.Context, lecturerID uint) ([]relatedGroup, error) {
	supervised, err := s.repo.Group.ListBySupervisor(ctx, lecturerID)
	if err != nil {
		s.logger.Error("查询指导小组失败", zap.Uint("lecturer_id", lecturerID), zap.Error(err))
		return nil, err
	}
	assessed, err := s.repo.Group.ListByAssessor(ctx, lecturerID)
	if err != nil {
		s.logger.Error("查询评审小组失败", zap.Uint("lecturer_id", lecturerID), zap.Error(err))
		return nil, err
	}

	seen := make(map[uint]bool, len(supervised))
	result := make([]relatedGroup, 0, len(supervised)+len(assessed))
	for _, g := range supervised {
		seen[g.ID] = true
		result = append(result, relatedGroup{group: g, relation: RoleSupervisor})
	}
	for _, g := range assessed {
		if !seen[g.ID] {
			result = append(result, relatedGroup{group: g, relation: RoleAssessor})
		}
	}
	return result, nil
}

func (s *submissionService) deliverablesOf(ctx context.Context, semesterID uint) ([]model.Deliverable, error) {
	if semesterID == 0 {
		semester, err := s.repo.Semester.GetCurrent(ctx)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNoActiveSemester
			}
			s.logger.Error("查询当前学期失败", zap.Error(err))
			return nil, err
		}
		semesterID = semester.ID
	}

	deliverables, err := s.repo.Submission.ListDeliverables(ctx, semesterID)
	if err != nil {
		s.logger.Error("查询交付物失败", zap.Uint("semester_id", semesterID), zap.Error(err))
		return nil, err
	}
	return deliverables, nil
}
