package repository

import (
	"context"

	"gorm.io/gorm"

	"fypcollabor8/backend/internal/model"
)

// SubmissionListFilter 提交记录筛选条件
type SubmissionListFilter struct {
	DeliverableID uint
	GroupID       uint
	GroupIDs      []uint // 非 nil 时限定在这些小组内（讲师视角）
}

// SubmissionRepository 交付物与提交记录数据访问接口（只读 + 级联删除）
type SubmissionRepository interface {
	ListDeliverables(ctx context.Context, semesterID uint) ([]model.Deliverable, error)
	ListByGroup(ctx context.Context, groupID uint) ([]model.DeliverableSubmission, error)
	List(ctx context.Context, filter SubmissionListFilter, offset, limit int) ([]model.DeliverableSubmission, int64, error)
	CountDeliverablesByGroups(ctx context.Context, groupIDs []uint) (map[uint]int64, error)
	DeleteByGroup(ctx context.Context, groupID uint) error
}

type submissionRepo struct {
	db *gorm.DB
}

// NewSubmissionRepo 创建 SubmissionRepository 实例
func NewSubmissionRepo(db *gorm.DB) SubmissionRepository {
	return &submissionRepo{db: db}
}

// ListDeliverables semesterID 为 0 时返回全部
func (r *submissionRepo) ListDeliverables(ctx context.Context, semesterID uint) ([]model.Deliverable, error) {
	var deliverables []model.Deliverable
	db := r.db.WithContext(ctx)
	if semesterID > 0 {
		db = db.Where("semester_id = ?", semesterID)
	}
	err := db.Order("due_date ASC NULLS LAST, id ASC").Find(&deliverables).Error
	return deliverables, err
}

// ListByGroup 小组全部提交，最新在前
func (r *submissionRepo) ListByGroup(ctx context.Context, groupID uint) ([]model.DeliverableSubmission, error) {
	var submissions []model.DeliverableSubmission
	err := r.db.WithContext(ctx).
		Preload("Deliverable").
		Preload("Student").
		Where("group_id = ?", groupID).
		Order("submitted_at DESC, id DESC").
		Find(&submissions).Error
	return submissions, err
}

func (r *submissionRepo) List(ctx context.Context, filter SubmissionListFilter, offset, limit int) ([]model.DeliverableSubmission, int64, error) {
	var submissions []model.DeliverableSubmission
	var total int64

	db := r.db.WithContext(ctx).Model(&model.DeliverableSubmission{})
	if filter.DeliverableID > 0 {
		db = db.Where("deliverable_id = ?", filter.DeliverableID)
	}
	if filter.GroupID > 0 {
		db = db.Where("group_id = ?", filter.GroupID)
	}
	if filter.GroupIDs != nil {
		if len(filter.GroupIDs) == 0 {
			return []model.DeliverableSubmission{}, 0, nil
		}
		db = db.Where("group_id IN ?", filter.GroupIDs)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := db.
		Preload("Deliverable").
		Preload("Group").
		Preload("Student").
		Order("submitted_at DESC, id DESC")
	if limit > 0 {
		query = query.Offset(offset).Limit(limit)
	}
	err := query.Find(&submissions).Error
	return submissions, total, err
}

// CountDeliverablesByGroups 每个小组已提交的不同交付物数量
func (r *submissionRepo) CountDeliverablesByGroups(ctx context.Context, groupIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(groupIDs))
	if len(groupIDs) == 0 {
		return counts, nil
	}
	type row struct {
		GroupID uint
		Total   int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&model.DeliverableSubmission{}).
		Select("group_id, COUNT(DISTINCT deliverable_id) AS total").
		Where("group_id IN ?", groupIDs).
		Group("group_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		counts[r.GroupID] = r.Total
	}
	return counts, nil
}

func (r *submissionRepo) DeleteByGroup(ctx context.Context, groupID uint) error {
	return r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Delete(&model.DeliverableSubmission{}).Error
}

// ── 评分 ──

// EvaluationRepository 小组评分数据访问接口（仅用于删除小组时的级联清理）
type EvaluationRepository interface {
	DeleteRubricScoresByGroup(ctx context.Context, groupID uint) error
	DeleteByGroup(ctx context.Context, groupID uint) error
}

type evaluationRepo struct {
	db *gorm.DB
}

// NewEvaluationRepo 创建 EvaluationRepository 实例
func NewEvaluationRepo(db *gorm.DB) EvaluationRepository {
	return &evaluationRepo{db: db}
}

// DeleteRubricScoresByGroup 经由 group_evaluations 关联删除评分细项
func (r *evaluationRepo) DeleteRubricScoresByGroup(ctx context.Context, groupID uint) error {
	return r.db.WithContext(ctx).
		Where("evaluation_id IN (?)",
			r.db.Model(&model.GroupEvaluation{}).Select("id").Where("group_id = ?", groupID)).
		Delete(&model.GroupEvaluationRubricScore{}).Error
}

func (r *evaluationRepo) DeleteByGroup(ctx context.Context, groupID uint) error {
	return r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Delete(&model.GroupEvaluation{}).Error
}
