package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"fypcollabor8/backend/internal/dto"
	"fypcollabor8/backend/internal/model"
	"fypcollabor8/backend/internal/repository"
	pkgerrors "fypcollabor8/backend/pkg/errors"
)

var (
	ErrAnnouncementNotFound = errors.New("公告不存在")
)

// AnnouncementService 公告业务接口
type AnnouncementService interface {
	Create(ctx context.Context, identity dto.Identity, req *dto.CreateAnnouncementRequest) (*dto.AnnouncementResponse, error)
	List(ctx context.Context, req *dto.PaginationRequest) ([]dto.AnnouncementResponse, int64, error)
	Delete(ctx context.Context, identity dto.Identity, id uint) error
}

type announcementService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAnnouncementService 创建 AnnouncementService 实例
func NewAnnouncementService(repo *repository.Repository, logger *zap.Logger) AnnouncementService {
	return &announcementService{repo: repo, logger: logger}
}

func (s *announcementService) Create(ctx context.Context, identity dto.Identity, req *dto.CreateAnnouncementRequest) (*dto.AnnouncementResponse, error) {
	a := &model.Announcement{
		CoordinatorID: identity.UserID,
		Title:         req.Title,
		Content:       req.Content,
	}
	if err := s.repo.Announcement.Create(ctx, a); err != nil {
		s.logger.Error("发布公告失败", zap.Uint("coordinator_id", identity.UserID), zap.Error(err))
		return nil, err
	}
	return toAnnouncementResponse(a), nil
}

func (s *announcementService) List(ctx context.Context, req *dto.PaginationRequest) ([]dto.AnnouncementResponse, int64, error) {
	list, total, err := s.repo.Announcement.List(ctx, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询公告列表失败", zap.Error(err))
		return nil, 0, err
	}
	result := make([]dto.AnnouncementResponse, 0, len(list))
	for i := range list {
		result = append(result, *toAnnouncementResponse(&list[i]))
	}
	return result, total, nil
}

// Delete 仅发布者本人可删除
func (s *announcementService) Delete(ctx context.Context, identity dto.Identity, id uint) error {
	a, err := s.repo.Announcement.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAnnouncementNotFound
		}
		s.logger.Error("查询公告失败", zap.Uint("id", id), zap.Error(err))
		return err
	}
	if a.CoordinatorID != identity.UserID {
		return ErrForbidden
	}

	if err := s.repo.Announcement.Delete(ctx, id); err != nil {
		if errors.Is(err, pkgerrors.ErrNoRowsAffected) {
			return ErrAnnouncementNotFound
		}
		s.logger.Error("删除公告失败", zap.Uint("id", id), zap.Error(err))
		return err
	}
	return nil
}

func toAnnouncementResponse(a *model.Announcement) *dto.AnnouncementResponse {
	resp := &dto.AnnouncementResponse{
		ID:        a.ID,
		Title:     a.Title,
		Content:   a.Content,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
	if a.Coordinator != nil {
		resp.Coordinator = a.Coordinator.Name
	}
	return resp
}
