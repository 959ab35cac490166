package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fypcollabor8/backend/internal/model"
	pkgerrors "fypcollabor8/backend/pkg/errors"
)

// GroupListFilter 小组列表筛选条件
type GroupListFilter struct {
	Status string
	Name   string // 名称模糊匹配
}

// GroupRepository 小组与组员数据访问接口
type GroupRepository interface {
	Create(ctx context.Context, group *model.Group) error
	GetByID(ctx context.Context, id uint) (*model.Group, error)
	GetDetail(ctx context.Context, id uint) (*model.Group, error)
	LockByID(ctx context.Context, id uint) (*model.Group, error)
	List(ctx context.Context, filter GroupListFilter, offset, limit int) ([]model.Group, int64, error)
	ListAll(ctx context.Context) ([]model.Group, error)
	ListBySupervisor(ctx context.Context, lecturerID uint) ([]model.Group, error)
	ListByAssessor(ctx context.Context, lecturerID uint) ([]model.Group, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	UpdateLecturer(ctx context.Context, id uint, column string, lecturerID uint) error
	UpdateLeader(ctx context.Context, id uint, leaderID *uint) error
	Delete(ctx context.Context, id uint) error

	// 命名
	LockNamePrefix(ctx context.Context, prefix string) error
	ListNamesWithPrefix(ctx context.Context, prefix string) ([]string, error)

	// 组员
	AddMember(ctx context.Context, groupID, studentID uint, maxMembers int) (bool, error)
	GetMembershipByStudent(ctx context.Context, studentID uint) (*model.GroupMember, error)
	ListMembers(ctx context.Context, groupID uint) ([]model.GroupMember, error)
	RemoveMember(ctx context.Context, groupID, studentID uint) error
	DeleteMembers(ctx context.Context, groupID uint) error
}

// 分配督导/评审时允许更新的列
const (
	ColumnSupervisor = "lecturer_id"
	ColumnAssessor   = "assessor_id"
)

type groupRepo struct {
	db *gorm.DB
}

// NewGroupRepo 创建 GroupRepository 实例
func NewGroupRepo(db *gorm.DB) GroupRepository {
	return &groupRepo{db: db}
}

func (r *groupRepo) Create(ctx context.Context, group *model.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *groupRepo) GetByID(ctx context.Context, id uint) (*model.Group, error) {
	var group model.Group
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// GetDetail 预加载导师、评审、组员与项目
func (r *groupRepo) GetDetail(ctx context.Context, id uint) (*model.Group, error) {
	var group model.Group
	err := r.detailQuery(ctx).
		Where("id = ?", id).
		First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// LockByID 行级锁读取小组（SELECT ... FOR UPDATE），需在事务内调用
func (r *groupRepo) LockByID(ctx context.Context, id uint) (*model.Group, error) {
	var group model.Group
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepo) List(ctx context.Context, filter GroupListFilter, offset, limit int) ([]model.Group, int64, error) {
	var groups []model.Group
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Group{})
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.Name != "" {
		db = db.Where("name ILIKE ?", "%"+filter.Name+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.
		Preload("Supervisor").
		Preload("Assessor").
		Preload("Members", orderMembers).
		Preload("Members.Student").
		Preload("Project").
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&groups).Error
	return groups, total, err
}

// ListAll 导出用，按名称排序返回全部小组
func (r *groupRepo) ListAll(ctx context.Context) ([]model.Group, error) {
	var groups []model.Group
	err := r.detailQuery(ctx).
		Order("name ASC").
		Find(&groups).Error
	return groups, err
}

func (r *groupRepo) ListBySupervisor(ctx context.Context, lecturerID uint) ([]model.Group, error) {
	var groups []model.Group
	err := r.detailQuery(ctx).
		Where("lecturer_id = ?", lecturerID).
		Order("name ASC").
		Find(&groups).Error
	return groups, err
}

func (r *groupRepo) ListByAssessor(ctx context.Context, lecturerID uint) ([]model.Group, error) {
	var groups []model.Group
	err := r.detailQuery(ctx).
		Where("assessor_id = ?", lecturerID).
		Order("name ASC").
		Find(&groups).Error
	return groups, err
}

func (r *groupRepo) UpdateStatus(ctx context.Context, id uint, status string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Group{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": gorm.Expr("NOW()")})
	return rowsAffectedOrErr(result)
}

// UpdateLecturer column 仅允许 ColumnSupervisor / ColumnAssessor
func (r *groupRepo) UpdateLecturer(ctx context.Context, id uint, column string, lecturerID uint) error {
	if column != ColumnSupervisor && column != ColumnAssessor {
		return gorm.ErrInvalidField
	}
	result := r.db.WithContext(ctx).
		Model(&model.Group{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{column: lecturerID, "updated_at": gorm.Expr("NOW()")})
	return rowsAffectedOrErr(result)
}

// UpdateLeader leaderID 为 nil 时清空组长
func (r *groupRepo) UpdateLeader(ctx context.Context, id uint, leaderID *uint) error {
	result := r.db.WithContext(ctx).
		Model(&model.Group{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"leader_id": leaderID, "updated_at": gorm.Expr("NOW()")})
	return rowsAffectedOrErr(result)
}

func (r *groupRepo) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Group{})
	return rowsAffectedOrErr(result)
}

// LockNamePrefix 对同一命名前缀加事务级咨询锁，串行化并发建组
func (r *groupRepo) LockNamePrefix(ctx context.Context, prefix string) error {
	return r.db.WithContext(ctx).
		Exec("SELECT pg_advisory_xact_lock(hashtext(?))", prefix).Error
}

func (r *groupRepo) ListNamesWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&model.Group{}).
		Where("name LIKE ?", prefix+"%").
		Pluck("name", &names).Error
	return names, err
}

// AddMember 条件插入组员：组内人数未满且学生未加入任何小组时插入
// 返回 false 表示未插入，由调用方区分"已分组"与"组已满"
func (r *groupRepo) AddMember(ctx context.Context, groupID, studentID uint, maxMembers int) (bool, error) {
	result := r.db.WithContext(ctx).Exec(`
		INSERT INTO group_members (group_id, student_id, created_at)
		SELECT ?, ?, NOW()
		WHERE (SELECT COUNT(*) FROM group_members WHERE group_id = ?) < ?
		ON CONFLICT (student_id) DO NOTHING`,
		groupID, studentID, groupID, maxMembers)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *groupRepo) GetMembershipByStudent(ctx context.Context, studentID uint) (*model.GroupMember, error) {
	var member model.GroupMember
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembers 按加入时间升序
func (r *groupRepo) ListMembers(ctx context.Context, groupID uint) ([]model.GroupMember, error) {
	var members []model.GroupMember
	err := orderMembers(r.db.WithContext(ctx)).
		Preload("Student").
		Where("group_id = ?", groupID).
		Find(&members).Error
	return members, err
}

func (r *groupRepo) RemoveMember(ctx context.Context, groupID, studentID uint) error {
	result := r.db.WithContext(ctx).
		Where("group_id = ? AND student_id = ?", groupID, studentID).
		Delete(&model.GroupMember{})
	return rowsAffectedOrErr(result)
}

func (r *groupRepo) DeleteMembers(ctx context.Context, groupID uint) error {
	return r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Delete(&model.GroupMember{}).Error
}

func (r *groupRepo) detailQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Supervisor").
		Preload("Assessor").
		Preload("Members", orderMembers).
		Preload("Members.Student").
		Preload("Project")
}

func orderMembers(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC, id ASC")
}

func rowsAffectedOrErr(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrNoRowsAffected
	}
	return nil
}
