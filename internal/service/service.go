package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"fypcollabor8/backend/config"
	"fypcollabor8/backend/internal/repository"
	"fypcollabor8/backend/pkg/events"
	"fypcollabor8/backend/pkg/jwt"
)

// ── 通用业务错误 ──

var (
	ErrForbidden = errors.New("无权执行该操作")
)

// TokenBlacklist Token 黑名单存储（Redis 实现），为 nil 时登出仅依赖 Token 自然过期
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// Service 所有 Service 的聚合入口
type Service struct {
	Auth         AuthService
	Semester     SemesterService
	Group        GroupService
	Project      ProjectService
	Meeting      MeetingService
	Submission   SubmissionService
	Announcement AnnouncementService
	Export       ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	publisher events.Publisher,
	logger *zap.Logger,
) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		Auth:         NewAuthService(cfg, repo, jwtMgr, blacklist, logger),
		Semester:     NewSemesterService(repo, logger),
		Group:        NewGroupService(cfg, repo, publisher, logger),
		Project:      NewProjectService(repo, publisher, logger),
		Meeting:      NewMeetingService(repo, publisher, logger),
		Submission:   NewSubmissionService(repo, logger),
		Announcement: NewAnnouncementService(repo, logger),
		Export:       NewExportService(repo, logger),
	}
}

// publish 发布领域事件，失败只记录日志
func publish(ctx context.Context, publisher events.Publisher, logger *zap.Logger, evt events.Event) {
	if err := publisher.Publish(ctx, evt); err != nil {
		logger.Warn("发布领域事件失败",
			zap.String("type", evt.Type),
			zap.Uint("aggregate_id", evt.AggregateID),
			zap.Error(err),
		)
	}
}
