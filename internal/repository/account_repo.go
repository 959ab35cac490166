package repository

import (
	"context"

	"gorm.io/gorm"

	"fypcollabor8/backend/internal/model"
)

// ── 学生 ──

// StudentRepository 学生数据访问接口
type StudentRepository interface {
	GetByID(ctx context.Context, id uint) (*model.Student, error)
	GetByEmail(ctx context.Context, email string) (*model.Student, error)
	ListUnassigned(ctx context.Context) ([]model.Student, error)
}

type studentRepo struct {
	db *gorm.DB
}

// NewStudentRepo 创建 StudentRepository 实例
func NewStudentRepo(db *gorm.DB) StudentRepository {
	return &studentRepo{db: db}
}

func (r *studentRepo) GetByID(ctx context.Context, id uint) (*model.Student, error) {
	var s model.Student
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *studentRepo) GetByEmail(ctx context.Context, email string) (*model.Student, error) {
	var s model.Student
	if err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// ListUnassigned 尚未加入任何小组的学生
func (r *studentRepo) ListUnassigned(ctx context.Context) ([]model.Student, error) {
	var students []model.Student
	err := r.db.WithContext(ctx).
		Where("NOT EXISTS (SELECT 1 FROM group_members gm WHERE gm.student_id = students.id)").
		Order("name ASC").
		Find(&students).Error
	return students, err
}

// ── 讲师 ──

// LecturerRepository 讲师数据访问接口
type LecturerRepository interface {
	GetByID(ctx context.Context, id uint) (*model.Lecturer, error)
	GetByEmail(ctx context.Context, email string) (*model.Lecturer, error)
	List(ctx context.Context, roleIDs []int) ([]model.Lecturer, error)
}

type lecturerRepo struct {
	db *gorm.DB
}

// NewLecturerRepo 创建 LecturerRepository 实例
func NewLecturerRepo(db *gorm.DB) LecturerRepository {
	return &lecturerRepo{db: db}
}

func (r *lecturerRepo) GetByID(ctx context.Context, id uint) (*model.Lecturer, error) {
	var l model.Lecturer
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *lecturerRepo) GetByEmail(ctx context.Context, email string) (*model.Lecturer, error) {
	var l model.Lecturer
	if err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

// List roleIDs 为空时返回全部讲师
func (r *lecturerRepo) List(ctx context.Context, roleIDs []int) ([]model.Lecturer, error) {
	var lecturers []model.Lecturer
	db := r.db.WithContext(ctx).Order("name ASC")
	if len(roleIDs) > 0 {
		db = db.Where("role_id IN ?", roleIDs)
	}
	err := db.Find(&lecturers).Error
	return lecturers, err
}

// ── 协调员 ──

// CoordinatorRepository 协调员数据访问接口
type CoordinatorRepository interface {
	GetByID(ctx context.Context, id uint) (*model.Coordinator, error)
	GetByEmail(ctx context.Context, email string) (*model.Coordinator, error)
}

type coordinatorRepo struct {
	db *gorm.DB
}

// NewCoordinatorRepo 创建 CoordinatorRepository 实例
func NewCoordinatorRepo(db *gorm.DB) CoordinatorRepository {
	return &coordinatorRepo{db: db}
}

func (r *coordinatorRepo) GetByID(ctx context.Context, id uint) (*model.Coordinator, error) {
	var c model.Coordinator
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *coordinatorRepo) GetByEmail(ctx context.Context, email string) (*model.Coordinator, error) {
	var c model.Coordinator
	if err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ── 管理员 ──

// AdminRepository 管理员数据访问接口
type AdminRepository interface {
	GetByID(ctx context.Context, id uint) (*model.Admin, error)
	GetByEmail(ctx context.Context, email string) (*model.Admin, error)
}

type adminRepo struct {
	db *gorm.DB
}

// NewAdminRepo 创建 AdminRepository 实例
func NewAdminRepo(db *gorm.DB) AdminRepository {
	return &adminRepo{db: db}
}

func (r *adminRepo) GetByID(ctx context.Context, id uint) (*model.Admin, error) {
	var a model.Admin
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *adminRepo) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	var a model.Admin
	if err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}
