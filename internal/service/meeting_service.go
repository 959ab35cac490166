package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fypcollabor8/backend/internal/dto"
	"fypcollabor8/backend/internal/model"
	"fypcollabor8/backend/internal/repository"
	pkgerrors "fypcollabor8/backend/pkg/errors"
	"fypcollabor8/backend/pkg/events"
	"fypcollabor8/backend/pkg/validate"
)

// ── 会议模块业务错误 ──

var (
	ErrMeetingNotFound   = errors.New("会议不存在或无权操作")
	ErrNoSupervisor      = errors.New("小组尚未分配导师，无法预约会议")
	ErrMeetingDateFormat = errors.New("会议日期或时间格式错误")
)

// 会议日历中每个事件的时长
const meetingDuration = 60 * time.Minute

// 各动作允许的起始状态
var (
	confirmableStatuses = []string{model.MeetingPending, model.MeetingConfirmed}
	rejectableStatuses  = []string{model.MeetingPending, model.MeetingConfirmed}
	cancellableStatuses = []string{model.MeetingPending, model.MeetingConfirmed}
)

// MeetingService 会议预约与处理业务接口
type MeetingService interface {
	Create(ctx context.Context, identity dto.Identity, req *dto.CreateMeetingRequest) (*dto.MeetingResponse, error)
	Confirm(ctx context.Context, identity dto.Identity, meetingID uint) error
	Reject(ctx context.Context, identity dto.Identity, meetingID uint) error
	Delete(ctx context.Context, identity dto.Identity, meetingID uint) error
	Cancel(ctx context.Context, identity dto.Identity, meetingID uint) error
	List(ctx context.Context, identity dto.Identity, status string) ([]dto.MeetingResponse, error)
	Calendar(ctx context.Context, identity dto.Identity) ([]byte, error)
}

type meetingService struct {
	repo      *repository.Repository
	publisher events.Publisher
	logger    *zap.Logger
	loc       *time.Location
}

// NewMeetingService 创建 MeetingService 实例
func NewMeetingService(repo *repository.Repository, publisher events.Publisher, logger *zap.Logger) MeetingService {
	return &meetingService{repo: repo, publisher: publisher, logger: logger, loc: time.UTC}
}

// ────────────────────── Create ──────────────────────

func (s *meetingService) Create(ctx context.Context, identity dto.Identity, req *dto.CreateMeetingRequest) (*dto.MeetingResponse, error) {
	date, err := time.ParseInLocation(validate.DateLayout, req.Date, s.loc)
	if err != nil {
		return nil, ErrMeetingDateFormat
	}
	if _, err := time.Parse(validate.TimeLayout, req.Time); err != nil {
		return nil, ErrMeetingDateFormat
	}

	member, err := s.repo.Group.GetMembershipByStudent(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoGroup
		}
		s.logger.Error("查询学生所在小组失败", zap.Uint("student_id", identity.UserID), zap.Error(err))
		return nil, err
	}

	group, err := s.repo.Group.GetByID(ctx, member.GroupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		s.logger.Error("查询小组失败", zap.Uint("group_id", member.GroupID), zap.Error(err))
		return nil, err
	}
	if group.LecturerID == nil {
		return nil, ErrNoSupervisor
	}

	meeting := &model.Meeting{
		StudentID:   identity.UserID,
		LecturerID:  *group.LecturerID,
		GroupID:     group.ID,
		MeetingDate: date,
		MeetingTime: req.Time,
		Topic:       req.Topic,
		Status:      model.MeetingPending,
	}
	if err := s.repo.Meeting.Create(ctx, meeting); err != nil {
		s.logger.Error("创建会议失败", zap.Uint("group_id", group.ID), zap.Error(err))
		return nil, err
	}

	meeting.Group = group
	resp := toMeetingResponse(meeting)
	return &resp, nil
}

// ────────────────────── 导师处理 ──────────────────────

func (s *meetingService) Confirm(ctx context.Context, identity dto.Identity, meetingID uint) error {
	return s.transitionAsLecturer(ctx, identity, meetingID, confirmableStatuses, model.MeetingConfirmed)
}

// Reject 软拒绝：保留记录，状态置为 Rejected
func (s *meetingService) Reject(ctx context.Context, identity dto.Identity, meetingID uint) error {
	return s.transitionAsLecturer(ctx, identity, meetingID, rejectableStatuses, model.MeetingRejected)
}

// Delete 硬删除，仅限会议所属导师
func (s *meetingService) Delete(ctx context.Context, identity dto.Identity, meetingID uint) error {
	if err := s.repo.Meeting.DeleteForLecturer(ctx, meetingID, identity.UserID); err != nil {
		if errors.Is(err, pkgerrors.ErrNoRowsAffected) {
			return ErrMeetingNotFound
		}
		s.logger.Error("删除会议失败", zap.Uint("meeting_id", meetingID), zap.Error(err))
		return err
	}
	return nil
}

func (s *meetingService) transitionAsLecturer(ctx context.Context, identity dto.Identity, meetingID uint, from []string, to string) error {
	if err := s.repo.Meeting.UpdateStatusForLecturer(ctx, meetingID, identity.UserID, from, to); err != nil {
		if errors.Is(err, pkgerrors.ErrNoRowsAffected) {
			return ErrMeetingNotFound
		}
		s.logger.Error("更新会议状态失败",
			zap.Uint("meeting_id", meetingID),
			zap.String("to", to),
			zap.Error(err),
		)
		return err
	}

	s.publishStatus(ctx, identity, meetingID, to)
	return nil
}

// ────────────────────── Cancel（学生） ──────────────────────

func (s *meetingService) Cancel(ctx context.Context, identity dto.Identity, meetingID uint) error {
	member, err := s.repo.Group.GetMembershipByStudent(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMeetingNotFound
		}
		s.logger.Error("查询学生所在小组失败", zap.Uint("student_id", identity.UserID), zap.Error(err))
		return err
	}

	err = s.repo.Meeting.UpdateStatusForGroup(ctx, meetingID, member.GroupID, cancellableStatuses, model.MeetingCancelled)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNoRowsAffected) {
			return ErrMeetingNotFound
		}
		s.logger.Error("取消会议失败", zap.Uint("meeting_id", meetingID), zap.Error(err))
		return err
	}

	s.publishStatus(ctx, identity, meetingID, model.MeetingCancelled)
	return nil
}

// ────────────────────── 查询 ──────────────────────

// List 讲师看自己的会议，学生看本组的会议
func (s *meetingService) List(ctx context.Context, identity dto.Identity, status string) ([]dto.MeetingResponse, error) {
	var (
		meetings []model.Meeting
		err      error
	)
	switch identity.Role {
	case model.RoleLecturer:
		meetings, err = s.repo.Meeting.ListByLecturer(ctx, identity.UserID, status)
	case model.RoleStudent:
		member, mErr := s.repo.Group.GetMembershipByStudent(ctx, identity.UserID)
		if mErr != nil {
			if errors.Is(mErr, gorm.ErrRecordNotFound) {
				return []dto.MeetingResponse{}, nil
			}
			err = mErr
			break
		}
		meetings, err = s.repo.Meeting.ListByGroup(ctx, member.GroupID, status)
	default:
		return nil, ErrForbidden
	}
	if err != nil {
		s.logger.Error("查询会议列表失败", zap.Uint("user_id", identity.UserID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.MeetingResponse, 0, len(meetings))
	for i := range meetings {
		result = append(result, toMeetingResponse(&meetings[i]))
	}
	return result, nil
}

// Calendar 导师已确认会议导出为 iCalendar
func (s *meetingService) Calendar(ctx context.Context, identity dto.Identity) ([]byte, error) {
	meetings, err := s.repo.Meeting.ListByLecturer(ctx, identity.UserID, model.MeetingConfirmed)
	if err != nil {
		s.logger.Error("查询已确认会议失败", zap.Uint("lecturer_id", identity.UserID), zap.Error(err))
		return nil, err
	}
	return buildMeetingCalendar(meetings, s.loc, time.Now().UTC()), nil
}

func buildMeetingCalendar(meetings []model.Meeting, loc *time.Location, stamp time.Time) []byte {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//fypcollabor8//meetings//EN")
	cal.SetXWRCalName("FYP Meetings")

	for i := range meetings {
		m := &meetings[i]
		start := m.StartAt(loc)

		event := cal.AddEvent(fmt.Sprintf("meeting-%d@fypcollabor8", m.ID))
		event.SetDtStampTime(stamp)
		event.SetStartAt(start)
		event.SetEndAt(start.Add(meetingDuration))
		event.SetStatus(ics.ObjectStatusConfirmed)

		summary := m.Topic
		if m.Group != nil {
			summary = m.Group.Name + ": " + m.Topic
		}
		event.SetSummary(summary)
		if m.Student != nil {
			event.SetDescription("Requested by " + m.Student.Name)
		}
	}

	return []byte(cal.Serialize())
}

func (s *meetingService) publishStatus(ctx context.Context, identity dto.Identity, meetingID uint, status string) {
	publish(ctx, s.publisher, s.logger, events.New(events.TypeMeetingStatus, meetingID, identity.UserID, identity.Role,
		map[string]interface{}{"status": status}))
}
