package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fypcollabor8/backend/internal/model"
)

// ProjectRepository 项目题目数据访问接口
type ProjectRepository interface {
	EnsureForGroup(ctx context.Context, groupID uint) (*model.Project, error)
	GetByID(ctx context.Context, id uint) (*model.Project, error)
	GetByGroupID(ctx context.Context, groupID uint) (*model.Project, error)
	LockByID(ctx context.Context, id uint) (*model.Project, error)
	Save(ctx context.Context, project *model.Project) error
	ListPendingBySupervisor(ctx context.Context, lecturerID uint) ([]model.Project, error)
	DeleteByGroup(ctx context.Context, groupID uint) error
}

type projectRepo struct {
	db *gorm.DB
}

// NewProjectRepo 创建 ProjectRepository 实例
func NewProjectRepo(db *gorm.DB) ProjectRepository {
	return &projectRepo{db: db}
}

// EnsureForGroup 小组没有项目行时插入一条 no_title 记录，并返回当前行
func (r *projectRepo) EnsureForGroup(ctx context.Context, groupID uint) (*model.Project, error) {
	project := model.Project{
		GroupID:     groupID,
		Description: model.DefaultProjectDescription,
		Status:      model.ProjectNoTitle,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "group_id"}}, DoNothing: true}).
		Create(&project).Error
	if err != nil {
		return nil, err
	}
	return r.GetByGroupID(ctx, groupID)
}

func (r *projectRepo) GetByID(ctx context.Context, id uint) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepo) GetByGroupID(ctx context.Context, groupID uint) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// LockByID 行级锁读取项目，审核时防止并发覆盖
func (r *projectRepo) LockByID(ctx context.Context, id uint) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepo) Save(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).
		Model(project).
		Select("title", "description", "status", "pending_title", "pending_description", "updated_at").
		Updates(project).Error
}

// ListPendingBySupervisor 导师名下等待审核（首次提交或变更申请）的项目
func (r *projectRepo) ListPendingBySupervisor(ctx context.Context, lecturerID uint) ([]model.Project, error) {
	var projects []model.Project
	err := r.db.WithContext(ctx).
		Joins("JOIN groups g ON g.id = projects.group_id").
		Where("g.lecturer_id = ?", lecturerID).
		Where("projects.status = ? OR projects.pending_title IS NOT NULL", model.ProjectAwaitingReview).
		Order("projects.updated_at ASC").
		Find(&projects).Error
	return projects, err
}

func (r *projectRepo) DeleteByGroup(ctx context.Context, groupID uint) error {
	return r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Delete(&model.Project{}).Error
}
