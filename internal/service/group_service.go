package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"fypcollabor8/backend/config"
	"fypcollabor8/backend/internal/dto"
	"fypcollabor8/backend/internal/model"
	"fypcollabor8/backend/internal/repository"
	pkgerrors "fypcollabor8/backend/pkg/errors"
	"fypcollabor8/backend/pkg/events"
)

// ── 分组模块业务错误 ──

var (
	ErrGroupNotFound          = errors.New("小组不存在")
	ErrStudentNotFound        = errors.New("学生不存在")
	ErrLecturerNotFound       = errors.New("讲师不存在")
	ErrStudentAlreadyAssigned = errors.New("该学生已加入其他小组")
	ErrGroupFull              = errors.New("小组人数已满")
	ErrStudentNotInGroup      = errors.New("该学生不是本组成员")
	ErrGroupDeleteFailed      = errors.New("删除小组失败，已回滚")
	ErrNotGroupSupervisor     = errors.New("只有该组导师可以执行此操作")
	ErrNotGroupMember         = errors.New("你不是该小组成员")
	ErrNoGroup                = errors.New("你尚未加入任何小组")
	ErrLecturerRoleMismatch   = errors.New("该讲师不具备对应的指导/评审资格")
	ErrRoleUpdateFailed       = errors.New("指派讲师失败")
	ErrInvalidReviewAction    = errors.New("无效的审核操作")
	ErrInvalidRole            = errors.New("无效的讲师角色")
)

// 讲师在小组中的身份
const (
	RoleSupervisor = "supervisor"
	RoleAssessor   = "assessor"
)

// 小组审核动作
const (
	ActionApproveGroup = "approve_group"
	ActionRejectGroup  = "reject_group"
)

// GroupService 小组生命周期与讲师指派业务接口
type GroupService interface {
	Create(ctx context.Context, identity dto.Identity, req *dto.CreateGroupRequest) (*dto.GroupResponse, error)
	AssignStudent(ctx context.Context, identity dto.Identity, groupID, studentID uint) (*dto.GroupResponse, error)
	SetLeader(ctx context.Context, identity dto.Identity, groupID, studentID uint) error
	RemoveStudent(ctx context.Context, identity dto.Identity, groupID, studentID uint) error
	Delete(ctx context.Context, identity dto.Identity, groupID uint) error
	Review(ctx context.Context, identity dto.Identity, groupID uint, action string) error
	AssignRole(ctx context.Context, identity dto.Identity, groupID, lecturerID uint, role string) error

	GetByID(ctx context.Context, identity dto.Identity, groupID uint) (*dto.GroupResponse, error)
	List(ctx context.Context, req *dto.GroupListRequest) ([]dto.GroupResponse, int64, error)
	StudentGroup(ctx context.Context, identity dto.Identity) (*dto.GroupResponse, error)
	LecturerGroups(ctx context.Context, identity dto.Identity) (*dto.MyGroupsResponse, error)
	ListUnassignedStudents(ctx context.Context) ([]dto.StudentResponse, error)
	ListLecturers(ctx context.Context, role string) ([]dto.LecturerResponse, error)
}

type groupService struct {
	maxMembers int
	repo       *repository.Repository
	publisher  events.Publisher
	logger     *zap.Logger
}

// NewGroupService 创建 GroupService 实例
func NewGroupService(cfg *config.Config, repo *repository.Repository, publisher events.Publisher, logger *zap.Logger) GroupService {
	maxMembers := cfg.Group.MaxMembers
	if maxMembers <= 0 {
		maxMembers = 4
	}
	return &groupService{
		maxMembers: maxMembers,
		repo:       repo,
		publisher:  publisher,
		logger:     logger,
	}
}

// ════════════════════════════════════════════
// Create — 协调员创建小组
// ════════════════════════════════════════════
//
// 组名 = 当前学期开始年月 + 三位序号；同一前缀的命名在咨询锁内串行执行。
// 小组与空项目在同一事务内创建。

func (s *groupService) Create(ctx context.Context, identity dto.Identity, req *dto.CreateGroupRequest) (*dto.GroupResponse, error) {
	semester, err := s.repo.Semester.GetCurrent(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveSemester
		}
		s.logger.Error("查询当前学期失败", zap.Error(err))
		return nil, err
	}

	if req.LecturerID != nil {
		if err := s.checkLecturerRole(ctx, *req.LecturerID, RoleSupervisor); err != nil {
			return nil, err
		}
	}

	prefix := GroupNamePrefix(semester.StartDate)
	group := &model.Group{
		Status:        model.GroupStatusPending,
		CoordinatorID: identity.UserID,
		LecturerID:    req.LecturerID,
	}

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Group.LockNamePrefix(ctx, prefix); err != nil {
			return fmt.Errorf("锁定组名前缀失败: %w", err)
		}
		names, err := txRepo.Group.ListNamesWithPrefix(ctx, prefix)
		if err != nil {
			return fmt.Errorf("查询同前缀组名失败: %w", err)
		}
		group.Name = NextGroupName(prefix, names)

		if err := txRepo.Group.Create(ctx, group); err != nil {
			return fmt.Errorf("创建小组失败: %w", err)
		}
		if _, err := txRepo.Project.EnsureForGroup(ctx, group.ID); err != nil {
			return fmt.Errorf("创建项目失败: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("创建小组失败", zap.String("prefix", prefix), zap.Error(err))
		return nil, err
	}

	s.logger.Info("小组已创建",
		zap.Uint("group_id", group.ID),
		zap.String("name", group.Name),
		zap.Uint("coordinator_id", identity.UserID),
	)
	publish(ctx, s.publisher, s.logger, events.New(events.TypeGroupCreated, group.ID, identity.UserID, identity.Role,
		map[string]interface{}{"name": group.Name}))

	return s.loadResponse(ctx, group.ID)
}

// ════════════════════════════════════════════
// AssignStudent — 分配学生入组
// ════════════════════════════════════════════
//
// 锁定小组行后执行条件插入（组未满 + 学生未入组），未插入时再区分原因。
// 无组长时新成员成为组长，并补齐项目记录。

func (s *groupService) AssignStudent(ctx context.Context, identity dto.Identity, groupID, studentID uint) (*dto.GroupResponse, error) {
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		group, err := txRepo.Group.LockByID(ctx, groupID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGroupNotFound
			}
			return err
		}

		if _, err := txRepo.Student.GetByID(ctx, studentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStudentNotFound
			}
			return err
		}

		inserted, err := txRepo.Group.AddMember(ctx, groupID, studentID, s.maxMembers)
		if err != nil {
			return err
		}
		if !inserted {
			_, err := txRepo.Group.GetMembershipByStudent(ctx, studentID)
			switch {
			case err == nil:
				return ErrStudentAlreadyAssigned
			case errors.Is(err, gorm.ErrRecordNotFound):
				return ErrGroupFull
			default:
				return err
			}
		}

		if group.LeaderID == nil {
			if err := txRepo.Group.UpdateLeader(ctx, groupID, &studentID); err != nil {
				return err
			}
		}

		_, err = txRepo.Project.EnsureForGroup(ctx, groupID)
		return err
	})
	if err != nil {
		if isBusinessErr(err) {
			return nil, err
		}
		s.logger.Error("分配学生失败",
			zap.Uint("group_id", groupID),
			zap.Uint("student_id", studentID),
			zap.Error(err),
		)
		return nil, err
	}

	publish(ctx, s.publisher, s.logger, events.New(events.TypeGroupMemberAssigned, groupID, identity.UserID, identity.Role,
		map[string]interface{}{"student_id": studentID}))

	return s.loadResponse(ctx, groupID)
}

// ════════════════════════════════════════════
// SetLeader — 更换组长（协调员或现任组长）
// ════════════════════════════════════════════

func (s *groupService) SetLeader(ctx context.Context, identity dto.Identity, groupID, studentID uint) error {
	// 锁定小组行后再校验成员关系，避免与并发移出组员交错
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		group, err := txRepo.Group.LockByID(ctx, groupID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGroupNotFound
			}
			return err
		}

		if identity.Is(model.RoleStudent) && (group.LeaderID == nil || *group.LeaderID != identity.UserID) {
			return ErrForbidden
		}

		member, err := txRepo.Group.GetMembershipByStudent(ctx, studentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStudentNotInGroup
			}
			return err
		}
		if member.GroupID != groupID {
			return ErrStudentNotInGroup
		}

		if err := txRepo.Group.UpdateLeader(ctx, groupID, &studentID); err != nil {
			if errors.Is(err, pkgerrors.ErrNoRowsAffected) {
				return ErrGroupNotFound
			}
			return err
		}
		return nil
	})
	if err != nil && !isBusinessErr(err) {
		s.logger.Error("更新组长失败",
			zap.Uint("group_id", groupID),
			zap.Uint("student_id", studentID),
			zap.Uint("operator_id", identity.UserID),
			zap.Error(err),
		)
	}
	return err
}

// ════════════════════════════════════════════
// RemoveStudent — 移出组员，组长顺延给最早入组的成员
// ════════════════════════════════════════════

func (s *groupService) RemoveStudent(ctx context.Context, identity dto.Identity, groupID, studentID uint) error {
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		group, err := txRepo.Group.LockByID(ctx, groupID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGroupNotFound
			}
			return err
		}

		if err := txRepo.Group.RemoveMember(ctx, groupID, studentID); err != nil {
			if errors.Is(err, pkgerrors.ErrNoRowsAffected) {
				return ErrStudentNotInGroup
			}
			return err
		}

		if group.LeaderID == nil || *group.LeaderID != studentID {
			return nil
		}

		members, err := txRepo.Group.ListMembers(ctx, groupID)
		if err != nil {
			return err
		}
		var next *uint
		if len(members) > 0 {
			next = &members[0].StudentID
		}
		return txRepo.Group.UpdateLeader(ctx, groupID, next)
	})
	if err != nil && !isBusinessErr(err) {
		s.logger.Error("移出组员失败",
			zap.Uint("group_id", groupID),
			zap.Uint("student_id", studentID),
			zap.Uint("operator_id", identity.UserID),
			zap.Error(err),
		)
	}
	return err
}

// ════════════════════════════════════════════
// Delete — 级联删除小组
// ════════════════════════════════════════════

func (s *groupService) Delete(ctx context.Context, identity dto.Identity, groupID uint) error {
	if err := s.cascadeDelete(ctx, groupID); err != nil {
		return err
	}

	s.logger.Info("小组已删除", zap.Uint("group_id", groupID), zap.Uint("operator_id", identity.UserID))
	publish(ctx, s.publisher, s.logger, events.New(events.TypeGroupDeleted, groupID, identity.UserID, identity.Role, nil))
	return nil
}

// cascadeDelete 按依赖顺序删除小组的全部关联数据，任一步失败整体回滚
func (s *groupService) cascadeDelete(ctx context.Context, groupID uint) error {
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		steps := []struct {
			name string
			fn   func(context.Context, uint) error
		}{
			{"meetings", txRepo.Meeting.DeleteByGroup},
			{"deliverable_submissions", txRepo.Submission.DeleteByGroup},
			{"group_evaluation_rubric_scores", txRepo.Evaluation.DeleteRubricScoresByGroup},
			{"group_evaluations", txRepo.Evaluation.DeleteByGroup},
			{"projects", txRepo.Project.DeleteByGroup},
			{"group_members", txRepo.Group.DeleteMembers},
			{"groups", txRepo.Group.Delete},
		}
		for _, step := range steps {
			if err := step.fn(ctx, groupID); err != nil {
				return fmt.Errorf("删除 %s 失败: %w", step.name, err)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("级联删除小组失败", zap.Uint("group_id", groupID), zap.Error(err))
		return ErrGroupDeleteFailed
	}
	return nil
}

// ════════════════════════════════════════════
// Review — 导师审核小组（通过 / 驳回即删除）
// ════════════════════════════════════════════

func (s *groupService) Review(ctx context.Context, identity dto.Identity, groupID uint, action string) error {
	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if group.LecturerID == nil || *group.LecturerID != identity.UserID {
		return ErrNotGroupSupervisor
	}

	switch action {
	case ActionApproveGroup:
		if err := s.repo.Group.UpdateStatus(ctx, groupID, model.GroupStatusApproved); err != nil {
			if errors.Is(err, pkgerrors.ErrNoRowsAffected) {
				return ErrGroupNotFound
			}
			s.logger.Error("通过小组失败", zap.Uint("group_id", groupID), zap.Error(err))
			return err
		}
		publish(ctx, s.publisher, s.logger, events.New(events.TypeGroupApproved, groupID, identity.UserID, identity.Role, nil))
		return nil
	case ActionRejectGroup:
		return s.Delete(ctx, identity, groupID)
	}
	return ErrInvalidReviewAction
}

// ════════════════════════════════════════════
// AssignRole — 指派导师 / 评审（后写覆盖）
// ════════════════════════════════════════════

func (s *groupService) AssignRole(ctx context.Context, identity dto.Identity, groupID, lecturerID uint, role string) error {
	var column string
	switch role {
	case RoleSupervisor:
		column = repository.ColumnSupervisor
	case RoleAssessor:
		column = repository.ColumnAssessor
	default:
		return ErrInvalidRole
	}

	if _, err := s.getGroup(ctx, groupID); err != nil {
		return err
	}
	if err := s.checkLecturerRole(ctx, lecturerID, role); err != nil {
		return err
	}

	if err := s.repo.Group.UpdateLecturer(ctx, groupID, column, lecturerID); err != nil {
		if errors.Is(err, pkgerrors.ErrNoRowsAffected) {
			return ErrGroupNotFound
		}
		s.logger.Error("指派讲师失败",
			zap.Uint("group_id", groupID),
			zap.Uint("lecturer_id", lecturerID),
			zap.String("role", role),
			zap.Error(err),
		)
		return ErrRoleUpdateFailed
	}

	publish(ctx, s.publisher, s.logger, events.New(events.TypeGroupRoleAssigned, groupID, identity.UserID, identity.Role,
		map[string]interface{}{"lecturer_id": lecturerID, "role": role}))
	return nil
}

// ════════════════════════════════════════════
// 查询
// ════════════════════════════════════════════

func (s *groupService) GetByID(ctx context.Context, identity dto.Identity, groupID uint) (*dto.GroupResponse, error) {
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
	return toGroupResponse(group), nil
}

func (s *groupService) List(ctx context.Context, req *dto.GroupListRequest) ([]dto.GroupResponse, int64, error) {
	filter := repository.GroupListFilter{Status: req.Status, Name: req.Name}
	groups, total, err := s.repo.Group.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询小组列表失败", zap.Error(err))
		return nil, 0, err
	}
	return toGroupResponses(groups), total, nil
}

// StudentGroup 学生所在小组
func (s *groupService) StudentGroup(ctx context.Context, identity dto.Identity) (*dto.GroupResponse, error) {
	member, err := s.repo.Group.GetMembershipByStudent(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoGroup
		}
		s.logger.Error("查询学生所在小组失败", zap.Uint("student_id", identity.UserID), zap.Error(err))
		return nil, err
	}
	return s.loadResponse(ctx, member.GroupID)
}

// LecturerGroups 讲师指导与评审的小组
func (s *groupService) LecturerGroups(ctx context.Context, identity dto.Identity) (*dto.MyGroupsResponse, error) {
	supervised, err := s.repo.Group.ListBySupervisor(ctx, identity.UserID)
	if err != nil {
		s.logger.Error("查询指导小组失败", zap.Uint("lecturer_id", identity.UserID), zap.Error(err))
		return nil, err
	}
	assessed, err := s.repo.Group.ListByAssessor(ctx, identity.UserID)
	if err != nil {
		s.logger.Error("查询评审小组失败", zap.Uint("lecturer_id", identity.UserID), zap.Error(err))
		return nil, err
	}
	return &dto.MyGroupsResponse{
		Supervised: toGroupResponses(supervised),
		Assessed:   toGroupResponses(assessed),
	}, nil
}

func (s *groupService) ListUnassignedStudents(ctx context.Context) ([]dto.StudentResponse, error) {
	students, err := s.repo.Student.ListUnassigned(ctx)
	if err != nil {
		s.logger.Error("查询未分组学生失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.StudentResponse, 0, len(students))
	for _, st := range students {
		result = append(result, dto.StudentResponse{
			ID:       st.ID,
			Name:     st.Name,
			Email:    st.Email,
			MatricNo: st.MatricNo,
		})
	}
	return result, nil
}

// ListLecturers role 为空返回全部；supervisor / assessor 按资格筛选
func (s *groupService) ListLecturers(ctx context.Context, role string) ([]dto.LecturerResponse, error) {
	var roleIDs []int
	switch role {
	case RoleSupervisor:
		roleIDs = []int{model.LecturerRoleSupervisorAssessor, model.LecturerRoleSupervisor}
	case RoleAssessor:
		roleIDs = []int{model.LecturerRoleAssessor, model.LecturerRoleSupervisorAssessor}
	}

	lecturers, err := s.repo.Lecturer.List(ctx, roleIDs)
	if err != nil {
		s.logger.Error("查询讲师列表失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.LecturerResponse, 0, len(lecturers))
	for i := range lecturers {
		l := &lecturers[i]
		result = append(result, dto.LecturerResponse{
			ID:           l.ID,
			Name:         l.Name,
			Email:        l.Email,
			RoleID:       l.RoleID,
			IsSupervisor: l.IsSupervisor(),
			IsAssessor:   l.IsAssessor(),
		})
	}
	return result, nil
}

// ── 内部辅助方法 ──

func (s *groupService) getGroup(ctx context.Context, groupID uint) (*model.Group, error) {
	group, err := s.repo.Group.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		s.logger.Error("查询小组失败", zap.Uint("group_id", groupID), zap.Error(err))
		return nil, err
	}
	return group, nil
}

func (s *groupService) checkLecturerRole(ctx context.Context, lecturerID uint, role string) error {
	lecturer, err := s.repo.Lecturer.GetByID(ctx, lecturerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLecturerNotFound
		}
		s.logger.Error("查询讲师失败", zap.Uint("lecturer_id", lecturerID), zap.Error(err))
		return err
	}
	if role == RoleSupervisor && !lecturer.IsSupervisor() {
		return ErrLecturerRoleMismatch
	}
	if role == RoleAssessor && !lecturer.IsAssessor() {
		return ErrLecturerRoleMismatch
	}
	return nil
}

func (s *groupService) loadResponse(ctx context.Context, groupID uint) (*dto.GroupResponse, error) {
	group, err := s.repo.Group.GetDetail(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		s.logger.Error("查询小组详情失败", zap.Uint("group_id", groupID), zap.Error(err))
		return nil, err
	}
	return toGroupResponse(group), nil
}

// isBusinessErr 业务规则拒绝不记录错误日志
func isBusinessErr(err error) bool {
	for _, target := range []error{
		ErrGroupNotFound, ErrStudentNotFound, ErrStudentAlreadyAssigned, ErrGroupFull,
		ErrStudentNotInGroup, ErrProjectNotFound, ErrNotGroupSupervisor, ErrInvalidTitleTransition,
		ErrUnknownTitleAction, ErrForbidden,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
