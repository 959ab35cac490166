package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNoDatabase Repository 未绑定数据库连接且未注入事务执行器
var ErrNoDatabase = errors.New("repository 未绑定数据库连接")

// TxRunner 事务执行器，fn 收到事务内的 Repository
type TxRunner func(ctx context.Context, fn func(txRepo *Repository) error) error

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	// RunTx 非空时替代数据库事务，供不连接数据库的 Repository 使用
	RunTx TxRunner

	Semester     SemesterRepository
	Student      StudentRepository
	Lecturer     LecturerRepository
	Coordinator  CoordinatorRepository
	Admin        AdminRepository
	Group        GroupRepository
	Project      ProjectRepository
	Meeting      MeetingRepository
	Submission   SubmissionRepository
	Evaluation   EvaluationRepository
	Announcement AnnouncementRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:           db,
		Semester:     NewSemesterRepo(db),
		Student:      NewStudentRepo(db),
		Lecturer:     NewLecturerRepo(db),
		Coordinator:  NewCoordinatorRepo(db),
		Admin:        NewAdminRepo(db),
		Group:        NewGroupRepo(db),
		Project:      NewProjectRepo(db),
		Meeting:      NewMeetingRepo(db),
		Submission:   NewSubmissionRepo(db),
		Evaluation:   NewEvaluationRepo(db),
		Announcement: NewAnnouncementRepo(db),
	}
}

// Transaction 在单个事务中执行 fn，fn 返回错误或 panic 时整体回滚
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.RunTx != nil {
		return r.RunTx(ctx, fn)
	}
	if r.db == nil {
		return ErrNoDatabase
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// Ping 数据库健康检查
func (r *Repository) Ping(ctx context.Context) error {
	if r.db == nil {
		return ErrNoDatabase
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
