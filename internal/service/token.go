package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"realestate-api/internal/core/auth"
	"realestate-api/internal/domain"
	"realestate-api/internal/repo"
)

const (
	ReasonReplaced        = "Replaced by new token"
	ReasonLogout          = "User logout"
	ReasonPasswordChanged = "Password changed"
	ReasonUserDeleted     = "User deleted"
	ReasonRevokedByAdmin  = "Revoked by admin"
)

type TokenService struct {
	base
	jwt        *auth.JWTer
	refreshTTL time.Duration
}

func NewTokenService(f *repo.Factory, j *auth.JWTer, refreshTTL time.Duration, l *zap.Logger) *TokenService {
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &TokenService{base: newBase(f, nil, l), jwt: j, refreshTTL: refreshTTL}
}

func (s *TokenService) IssueAccess(u *domain.User) (string, time.Time, error) {
	return s.jwt.Issue(auth.Identity{
		ID: u.ID, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName, Role: u.Role, IsAgent: u.IsAgent,
	})
}

// stageRefresh 生成刷新令牌并暂存到 u，由调用方 Save
func (s *TokenService) stageRefresh(u *repo.UnitOfWork, userID uint) (*domain.RefreshToken, error) {
	tok, err := auth.NewRefreshToken()
	if err != nil {
		return nil, err
	}
	rt := &domain.RefreshToken{Token: tok, ExpiryDate: s.now().Add(s.refreshTTL), UserID: userID}
	repo.For[domain.RefreshToken](u).Add(rt)
	return rt, nil
}

// find 返回令牌（含已吊销）；不存在时 nil
func (s *TokenService) find(u *repo.UnitOfWork, token string) (*domain.RefreshToken, error) {
	return repo.For[domain.RefreshToken](u).Get(repo.Eq("token", token))
}

// Validate 只返回有效（未吊销、未过期）的令牌
func (s *TokenService) Validate(ctx context.Context, token string) (*domain.RefreshToken, error) {
	u := s.uows.New(ctx)
	defer u.Close()
	rt, err := s.find(u, token)
	if err != nil {
		return nil, s.storeErr("failed to load refresh token", err)
	}
	if rt == nil || !rt.IsActive(s.now()) {
		return nil, nil
	}
	return rt, nil
}

// Revoke 令牌不存在时返回 false；replacedBy 可为空
func (s *TokenService) Revoke(ctx context.Context, token, reason, replacedBy string) (bool, error) {
	u := s.uows.New(ctx)
	defer u.Close()
	rt, err := s.find(u, token)
	if err != nil {
		return false, s.storeErr("failed to load refresh token", err)
	}
	if rt == nil {
		return false, nil
	}
	if !rt.IsRevoked {
		rt.Revoke(reason, replacedBy)
		repo.For[domain.RefreshToken](u).Update(rt)
		if _, err := u.Save(); err != nil {
			return false, s.storeErr("failed to revoke refresh token", err)
		}
	}
	return true, nil
}

// RevokeAll 吊销用户全部未吊销令牌，一次保存，要么全部成功要么全部不变
func (s *TokenService) RevokeAll(ctx context.Context, userID uint, reason string) (int, error) {
	u := s.uows.New(ctx)
	defer u.Close()
	n, err := s.stageRevokeAll(u, userID, reason)
	if err != nil {
		return 0, s.storeErr("failed to load refresh tokens", err)
	}
	if _, err := u.Save(); err != nil {
		return 0, s.storeErr("failed to revoke refresh tokens", err)
	}
	return n, nil
}

func (s *TokenService) stageRevokeAll(u *repo.UnitOfWork, userID uint, reason string) (int, error) {
	tokens := repo.For[domain.RefreshToken](u)
	rows, err := tokens.GetAll(repo.And(repo.Eq("user_id", userID), repo.Eq("is_revoked", false)))
	if err != nil {
		return 0, err
	}
	for i := range rows {
		rows[i].Revoke(reason, "")
	}
	tokens.BatchUpdate(ptrs(rows))
	return len(rows), nil
}

// PurgeExpired 物理删除已吊销或已过期的令牌
func (s *TokenService) PurgeExpired(ctx context.Context) (int, error) {
	u := s.uows.New(ctx)
	defer u.Close()
	tokens := repo.For[domain.RefreshToken](u)
	rows, err := tokens.GetAll(repo.Predicate{}, repo.WithDeleted())
	if err != nil {
		return 0, s.storeErr("failed to list refresh tokens", err)
	}
	now := s.now()
	purged := 0
	for i := range rows {
		if !rows[i].IsActive(now) || rows[i].IsDeleted {
			tokens.Remove(&rows[i])
			purged++
		}
	}
	if _, err := u.Save(); err != nil {
		return 0, s.storeErr("failed to purge refresh tokens", err)
	}
	return purged, nil
}
