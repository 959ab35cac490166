package repository

import (
	"context"

	"gorm.io/gorm"

	"fypcollabor8/backend/internal/model"
)

// AnnouncementRepository 公告数据访问接口
type AnnouncementRepository interface {
	Create(ctx context.Context, announcement *model.Announcement) error
	GetByID(ctx context.Context, id uint) (*model.Announcement, error)
	List(ctx context.Context, offset, limit int) ([]model.Announcement, int64, error)
	Delete(ctx context.Context, id uint) error
}

type announcementRepo struct {
	db *gorm.DB
}

// NewAnnouncementRepo 创建 AnnouncementRepository 实例
func NewAnnouncementRepo(db *gorm.DB) AnnouncementRepository {
	return &announcementRepo{db: db}
}

func (r *announcementRepo) Create(ctx context.Context, announcement *model.Announcement) error {
	return r.db.WithContext(ctx).Create(announcement).Error
}

func (r *announcementRepo) GetByID(ctx context.Context, id uint) (*model.Announcement, error) {
	var a model.Announcement
	err := r.db.WithContext(ctx).
		Preload("Coordinator").
		Where("id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *announcementRepo) List(ctx context.Context, offset, limit int) ([]model.Announcement, int64, error) {
	var list []model.Announcement
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Announcement{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.
		Preload("Coordinator").
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&list).Error
	return list, total, err
}

func (r *announcementRepo) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Announcement{})
	return rowsAffectedOrErr(result)
}
