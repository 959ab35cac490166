package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fypcollabor8/backend/config"
	"fypcollabor8/backend/internal/dto"
	"fypcollabor8/backend/internal/model"
	"fypcollabor8/backend/internal/repository"
	"fypcollabor8/backend/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrUserNotFound       = errors.New("用户不存在")
)

// AuthService 认证业务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
	Me(ctx context.Context, identity dto.Identity) (*dto.MeResponse, error)
}

type authService struct {
	cfg       *config.Config
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:       cfg,
		repo:      repo,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		logger:    logger,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. 按角色查询账号表
	account, err := s.findAccount(ctx, req.Role, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询账号失败", zap.String("role", req.Role), zap.Error(err))
		return nil, err
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 3. 生成 Token
	accessToken, err := s.jwtMgr.GenerateAccessToken(account.ID, req.Role)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}

	// 4. 构造响应
	me, err := s.Me(ctx, dto.Identity{UserID: account.ID, Role: req.Role})
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken: accessToken,
		ExpiresIn:   int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:        *me,
	}, nil
}

// Logout 将 Token 加入黑名单直至其自然过期
func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.blacklist == nil {
		s.logger.Warn("Token 黑名单不可用，登出仅依赖 Token 过期", zap.String("jti", jti))
		return nil
	}
	if err := s.blacklist.BlacklistToken(ctx, jti, time.Until(expiresAt)); err != nil {
		s.logger.Error("加入 Token 黑名单失败", zap.String("jti", jti), zap.Error(err))
		return err
	}
	return nil
}

func (s *authService) Me(ctx context.Context, identity dto.Identity) (*dto.MeResponse, error) {
	resp := &dto.MeResponse{ID: identity.UserID, Role: identity.Role}

	switch identity.Role {
	case model.RoleStudent:
		st, err := s.repo.Student.GetByID(ctx, identity.UserID)
		if err != nil {
			return nil, s.wrapLookupErr(err, identity)
		}
		resp.Name, resp.Email, resp.MatricNo = st.Name, st.Email, st.MatricNo

		member, err := s.repo.Group.GetMembershipByStudent(ctx, st.ID)
		if err == nil {
			resp.GroupID = &member.GroupID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("查询学生所在小组失败", zap.Uint("student_id", st.ID), zap.Error(err))
			return nil, err
		}
	case model.RoleLecturer:
		l, err := s.repo.Lecturer.GetByID(ctx, identity.UserID)
		if err != nil {
			return nil, s.wrapLookupErr(err, identity)
		}
		resp.Name, resp.Email = l.Name, l.Email
		resp.IsSupervisor, resp.IsAssessor = l.IsSupervisor(), l.IsAssessor()
	case model.RoleCoordinator:
		c, err := s.repo.Coordinator.GetByID(ctx, identity.UserID)
		if err != nil {
			return nil, s.wrapLookupErr(err, identity)
		}
		resp.Name, resp.Email = c.Name, c.Email
	case model.RoleAdmin:
		a, err := s.repo.Admin.GetByID(ctx, identity.UserID)
		if err != nil {
			return nil, s.wrapLookupErr(err, identity)
		}
		resp.Name, resp.Email = a.Name, a.Email
	default:
		return nil, ErrUserNotFound
	}

	return resp, nil
}

// ── 内部辅助方法 ──

func (s *authService) findAccount(ctx context.Context, role, email string) (*model.Account, error) {
	switch role {
	case model.RoleStudent:
		st, err := s.repo.Student.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		return &st.Account, nil
	case model.RoleLecturer:
		l, err := s.repo.Lecturer.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		return &l.Account, nil
	case model.RoleCoordinator:
		c, err := s.repo.Coordinator.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		return &c.Account, nil
	case model.RoleAdmin:
		a, err := s.repo.Admin.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		return &a.Account, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *authService) wrapLookupErr(err error, identity dto.Identity) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	s.logger.Error("查询用户失败",
		zap.Uint("user_id", identity.UserID),
		zap.String("role", identity.Role),
		zap.Error(err),
	)
	return err
}
