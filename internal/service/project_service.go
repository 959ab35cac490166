package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"fypcollabor8/backend/internal/dto"
	"fypcollabor8/backend/internal/model"
	"fypcollabor8/backend/internal/repository"
	"fypcollabor8/backend/pkg/events"
)

// ── 题目审核模块业务错误 ──

var (
	ErrProjectNotFound        = errors.New("项目不存在")
	ErrInvalidTitleTransition = errors.New("当前题目状态不允许该操作")
	ErrUnknownTitleAction     = errors.New("未知的题目审核操作")
)

// ProjectService 题目提交与审核业务接口
type ProjectService interface {
	Propose(ctx context.Context, identity dto.Identity, req *dto.ProposeTitleRequest) (*dto.ProjectResponse, error)
	RequestChange(ctx context.Context, identity dto.Identity, req *dto.ProposeTitleRequest) (*dto.ProjectResponse, error)
	Review(ctx context.Context, identity dto.Identity, projectID uint, action string) (*dto.ProjectResponse, error)
	GetByID(ctx context.Context, identity dto.Identity, projectID uint) (*dto.ProjectResponse, error)
	ListPending(ctx context.Context, identity dto.Identity) ([]dto.ProjectResponse, error)
}

type projectService struct {
	repo      *repository.Repository
	publisher events.Publisher
	logger    *zap.Logger
}

// NewProjectService 创建 ProjectService 实例
func NewProjectService(repo *repository.Repository, publisher events.Publisher, logger *zap.Logger) ProjectService {
	return &projectService{repo: repo, publisher: publisher, logger: logger}
}

// ════════════════════════════════════════════
// 状态迁移
// ════════════════════════════════════════════
//
//	no_title ──propose──► awaiting_review ──approve_initial──► approved
//	rejected ──propose──┘                  └─reject_initial──► rejected
//	approved ──request change──► approved + pending_* ──approve_change / reject_change──► approved

// applyProposal 首次提交（或被驳回后重新提交）题目
func applyProposal(p *model.Project, title, description string) error {
	if p.Status != model.ProjectNoTitle && p.Status != model.ProjectRejected {
		return ErrInvalidTitleTransition
	}
	p.Title = strings.TrimSpace(title)
	p.Description = normalizeDescription(description)
	p.Status = model.ProjectAwaitingReview
	p.PendingTitle, p.PendingDescription = nil, nil
	return nil
}

// applyChangeRequest 已通过的题目申请变更，覆盖尚未审核的旧申请
func applyChangeRequest(p *model.Project, title, description string) error {
	if p.Status != model.ProjectApproved {
		return ErrInvalidTitleTransition
	}
	t := strings.TrimSpace(title)
	d := normalizeDescription(description)
	p.PendingTitle, p.PendingDescription = &t, &d
	return nil
}

// applyTitleReview 导师审核
func applyTitleReview(p *model.Project, action string) error {
	switch action {
	case dto.ActionApproveInitial, dto.ActionRejectInitial:
		if p.Status != model.ProjectAwaitingReview {
			return ErrInvalidTitleTransition
		}
		if action == dto.ActionApproveInitial {
			p.Status = model.ProjectApproved
		} else {
			p.Status = model.ProjectRejected
		}
	case dto.ActionApproveChange:
		if !p.HasPendingChange() {
			return ErrInvalidTitleTransition
		}
		p.Title = *p.PendingTitle
		if p.PendingDescription != nil {
			p.Description = *p.PendingDescription
		}
		p.PendingTitle, p.PendingDescription = nil, nil
	case dto.ActionRejectChange:
		if !p.HasPendingChange() {
			return ErrInvalidTitleTransition
		}
		p.PendingTitle, p.PendingDescription = nil, nil
	default:
		return ErrUnknownTitleAction
	}
	return nil
}

func normalizeDescription(description string) string {
	if d := strings.TrimSpace(description); d != "" {
		return d
	}
	return model.DefaultProjectDescription
}

// ════════════════════════════════════════════
// 学生侧
// ════════════════════════════════════════════

func (s *projectService) Propose(ctx context.Context, identity dto.Identity, req *dto.ProposeTitleRequest) (*dto.ProjectResponse, error) {
	return s.mutateOwnProject(ctx, identity, func(p *model.Project) error {
		return applyProposal(p, req.Title, req.Description)
	})
}

func (s *projectService) RequestChange(ctx context.Context, identity dto.Identity, req *dto.ProposeTitleRequest) (*dto.ProjectResponse, error) {
	return s.mutateOwnProject(ctx, identity, func(p *model.Project) error {
		return applyChangeRequest(p, req.Title, req.Description)
	})
}

// mutateOwnProject 在事务内锁定学生所在小组的项目并应用变更
func (s *projectService) mutateOwnProject(ctx context.Context, identity dto.Identity, mutate func(*model.Project) error) (*dto.ProjectResponse, error) {
	member, err := s.repo.Group.GetMembershipByStudent(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoGroup
		}
		s.logger.Error("查询学生所在小组失败", zap.Uint("student_id", identity.UserID), zap.Error(err))
		return nil, err
	}

	var project *model.Project
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		current, err := txRepo.Project.EnsureForGroup(ctx, member.GroupID)
		if err != nil {
			return err
		}
		if project, err = txRepo.Project.LockByID(ctx, current.ID); err != nil {
			return err
		}
		if err := mutate(project); err != nil {
			return err
		}
		project.UpdatedAt = time.Now().UTC()
		return txRepo.Project.Save(ctx, project)
	})
	if err != nil {
		if isBusinessErr(err) {
			return nil, err
		}
		s.logger.Error("更新项目题目失败", zap.Uint("group_id", member.GroupID), zap.Error(err))
		return nil, err
	}

	return toProjectResponse(project, ""), nil
}

// ════════════════════════════════════════════
// 导师侧
// ════════════════════════════════════════════

// Review 四种审核动作都要求调用者是该组导师
func (s *projectService) Review(ctx context.Context, identity dto.Identity, projectID uint, action string) (*dto.ProjectResponse, error) {
	var project *model.Project
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		var err error
		project, err = txRepo.Project.LockByID(ctx, projectID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProjectNotFound
			}
			return err
		}

		group, err := txRepo.Group.GetByID(ctx, project.GroupID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProjectNotFound
			}
			return err
		}
		if group.LecturerID == nil || *group.LecturerID != identity.UserID {
			return ErrNotGroupSupervisor
		}

		if err := applyTitleReview(project, action); err != nil {
			return err
		}
		project.UpdatedAt = time.Now().UTC()
		return txRepo.Project.Save(ctx, project)
	})
	if err != nil {
		if isBusinessErr(err) {
			return nil, err
		}
		s.logger.Error("审核题目失败", zap.Uint("project_id", projectID), zap.String("action", action), zap.Error(err))
		return nil, err
	}

	publish(ctx, s.publisher, s.logger, events.New(events.TypeTitleReviewed, project.ID, identity.UserID, identity.Role,
		map[string]interface{}{"action": action, "status": string(project.Status), "group_id": project.GroupID}))

	return toProjectResponse(project, ""), nil
}

func (s *projectService) GetByID(ctx context.Context, identity dto.Identity, projectID uint) (*dto.ProjectResponse, error) {
	project, err := s.repo.Project.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		s.logger.Error("查询项目失败", zap.Uint("project_id", projectID), zap.Error(err))
		return nil, err
	}

	group, err := s.repo.Group.GetDetail(ctx, project.GroupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		s.logger.Error("查询项目所属小组失败", zap.Uint("group_id", project.GroupID), zap.Error(err))
		return nil, err
	}
	if !canViewGroup(identity, group) {
		return nil, ErrForbidden
	}

	return toProjectResponse(project, group.Name), nil
}

// ListPending 导师名下待审核的题目（首次提交或变更申请）
func (s *projectService) ListPending(ctx context.Context, identity dto.Identity) ([]dto.ProjectResponse, error) {
	projects, err := s.repo.Project.ListPendingBySupervisor(ctx, identity.UserID)
	if err != nil {
		s.logger.Error("查询待审核题目失败", zap.Uint("lecturer_id", identity.UserID), zap.Error(err))
		return nil, err
	}

	names := make(map[uint]string)
	result := make([]dto.ProjectResponse, 0, len(projects))
	for i := range projects {
		p := &projects[i]
		name, ok := names[p.GroupID]
		if !ok {
			g, err := s.repo.Group.GetByID(ctx, p.GroupID)
			if err != nil {
				s.logger.Warn("查询题目所属小组失败",
					zap.Uint("project_id", p.ID),
					zap.Uint("group_id", p.GroupID),
					zap.Error(err),
				)
			} else {
				name = g.Name
			}
			names[p.GroupID] = name
		}
		result = append(result, *toProjectResponse(p, name))
	}
	return result, nil
}
