package repository

import (
	"context"

	"gorm.io/gorm"

	"fypcollabor8/backend/internal/model"
)

// MeetingRepository 会议数据访问接口
type MeetingRepository interface {
	Create(ctx context.Context, meeting *model.Meeting) error
	GetByID(ctx context.Context, id uint) (*model.Meeting, error)
	UpdateStatusForLecturer(ctx context.Context, id, lecturerID uint, from []string, to string) error
	UpdateStatusForGroup(ctx context.Context, id, groupID uint, from []string, to string) error
	DeleteForLecturer(ctx context.Context, id, lecturerID uint) error
	ListByLecturer(ctx context.Context, lecturerID uint, status string) ([]model.Meeting, error)
	ListByGroup(ctx context.Context, groupID uint, status string) ([]model.Meeting, error)
	CountPendingByLecturer(ctx context.Context, lecturerID uint) (map[uint]int64, error)
	DeleteByGroup(ctx context.Context, groupID uint) error
}

type meetingRepo struct {
	db *gorm.DB
}

// NewMeetingRepo 创建 MeetingRepository 实例
func NewMeetingRepo(db *gorm.DB) MeetingRepository {
	return &meetingRepo{db: db}
}

func (r *meetingRepo) Create(ctx context.Context, meeting *model.Meeting) error {
	return r.db.WithContext(ctx).Create(meeting).Error
}

func (r *meetingRepo) GetByID(ctx context.Context, id uint) (*model.Meeting, error) {
	var meeting model.Meeting
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Group").
		Where("id = ?", id).
		First(&meeting).Error
	if err != nil {
		return nil, err
	}
	return &meeting, nil
}

// UpdateStatusForLecturer 仅当会议属于该导师且当前状态在 from 中时更新
// 未命中返回 ErrNoRowsAffected
func (r *meetingRepo) UpdateStatusForLecturer(ctx context.Context, id, lecturerID uint, from []string, to string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Meeting{}).
		Where("id = ? AND lecturer_id = ? AND status IN ?", id, lecturerID, from).
		Updates(map[string]interface{}{"status": to, "updated_at": gorm.Expr("NOW()")})
	return rowsAffectedOrErr(result)
}

// UpdateStatusForGroup 仅当会议属于该小组且当前状态在 from 中时更新
func (r *meetingRepo) UpdateStatusForGroup(ctx context.Context, id, groupID uint, from []string, to string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Meeting{}).
		Where("id = ? AND group_id = ? AND status IN ?", id, groupID, from).
		Updates(map[string]interface{}{"status": to, "updated_at": gorm.Expr("NOW()")})
	return rowsAffectedOrErr(result)
}

func (r *meetingRepo) DeleteForLecturer(ctx context.Context, id, lecturerID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND lecturer_id = ?", id, lecturerID).
		Delete(&model.Meeting{})
	return rowsAffectedOrErr(result)
}

func (r *meetingRepo) ListByLecturer(ctx context.Context, lecturerID uint, status string) ([]model.Meeting, error) {
	var meetings []model.Meeting
	db := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Group").
		Where("lecturer_id = ?", lecturerID)
	if status != "" {
		db = db.Where("status = ?", status)
	}
	err := db.Order("meeting_date ASC, meeting_time ASC").Find(&meetings).Error
	return meetings, err
}

func (r *meetingRepo) ListByGroup(ctx context.Context, groupID uint, status string) ([]model.Meeting, error) {
	var meetings []model.Meeting
	db := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Group").
		Where("group_id = ?", groupID)
	if status != "" {
		db = db.Where("status = ?", status)
	}
	err := db.Order("meeting_date ASC, meeting_time ASC").Find(&meetings).Error
	return meetings, err
}

// CountPendingByLecturer 按小组统计导师待处理会议数
func (r *meetingRepo) CountPendingByLecturer(ctx context.Context, lecturerID uint) (map[uint]int64, error) {
	type row struct {
		GroupID uint
		Total   int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&model.Meeting{}).
		Select("group_id, COUNT(*) AS total").
		Where("lecturer_id = ? AND status = ?", lecturerID, model.MeetingPending).
		Group("group_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.GroupID] = r.Total
	}
	return counts, nil
}

func (r *meetingRepo) DeleteByGroup(ctx context.Context, groupID uint) error {
	return r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Delete(&model.Meeting{}).Error
}
