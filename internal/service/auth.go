package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"realestate-api/internal/core/errs"
	"realestate-api/internal/domain"
	"realestate-api/internal/repo"
	"realestate-api/pkg/utils"
)

type AuthService struct {
	base
	tokens *TokenService
}

func NewAuthService(f *repo.Factory, tokens *TokenService, l *zap.Logger) *AuthService {
	return &AuthService{base: newBase(f, nil, l), tokens: tokens}
}

func normalizeEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }

// issue 签发访问令牌，并把刷新令牌暂存到 u；调用方负责 Save/Commit
func (s *AuthService) issue(u *repo.UnitOfWork, user *domain.User) (AuthResult, error) {
	access, exp, err := s.tokens.IssueAccess(user)
	if err != nil {
		return AuthResult{}, errs.Internal("failed to issue token", err)
	}
	rt, err := s.tokens.stageRefresh(u, user.ID)
	if err != nil {
		return AuthResult{}, errs.Internal("failed to issue token", err)
	}
	return AuthResult{
		AccessToken: access, AccessExpiresAt: exp,
		RefreshToken: rt.Token, RefreshExpiresAt: rt.ExpiryDate,
		User: toUserDTO(user),
	}, nil
}

// Register 邮箱重复 400；角色默认 User，只允许 User / Agent
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	u := s.uows.New(ctx)
	defer u.Close()
	users := repo.For[domain.User](u)

	email := normalizeEmail(in.Email)
	taken, err := users.Exists(repo.Eq("email", email), repo.WithDeleted())
	if err != nil {
		return AuthResult{}, s.storeErr("failed to check email", err)
	}
	if taken {
		return AuthResult{}, errs.BadRequest("email is already registered")
	}
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if role != domain.RoleUser && role != domain.RoleAgent {
		return AuthResult{}, errs.BadRequest("invalid role")
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return AuthResult{}, errs.BadRequest("invalid password")
	}

	user := &domain.User{
		FirstName: strings.TrimSpace(in.FirstName), LastName: strings.TrimSpace(in.LastName),
		Email: email, PasswordHash: hash, Phone: in.Phone, Role: role, IsAgent: role == domain.RoleAgent,
	}
	// 用户与刷新令牌同一事务：先 Save 拿到 ID，再暂存令牌，Commit 一起提交
	if err := u.Begin(); err != nil {
		return AuthResult{}, s.storeErr("failed to register", err)
	}
	users.Add(user)
	if _, err := u.Save(); err != nil {
		return AuthResult{}, s.storeErr("failed to register", err)
	}
	res, err := s.issue(u, user)
	if err != nil {
		return AuthResult{}, err
	}
	if err := u.Commit(); err != nil {
		return AuthResult{}, s.storeErr("failed to register", err)
	}
	return res, nil
}

// Login 邮箱或密码错误、账号已删除都返回 401
func (s *AuthService) Login(ctx context.Context, in LoginInput) (AuthResult, error) {
	u := s.uows.New(ctx)
	defer u.Close()
	user, err := repo.For[domain.User](u).Get(repo.Eq("email", normalizeEmail(in.Email)))
	if err != nil {
		return AuthResult{}, s.storeErr("failed to login", err)
	}
	if user == nil || !utils.CheckPassword(in.Password, user.PasswordHash) {
		return AuthResult{}, errs.Unauthorized("invalid email or password")
	}
	res, err := s.issue(u, user)
	if err != nil {
		return AuthResult{}, err
	}
	if _, err := u.Save(); err != nil {
		return AuthResult{}, s.storeErr("failed to login", err)
	}
	return res, nil
}

// Refresh 轮换：签发新令牌，旧令牌标记为被替换，同一次保存
func (s *AuthService) Refresh(ctx context.Context, token string) (AuthResult, error) {
	u := s.uows.New(ctx)
	defer u.Close()
	old, err := s.tokens.find(u, token)
	if err != nil {
		return AuthResult{}, s.storeErr("failed to refresh token", err)
	}
	if old == nil || !old.IsActive(s.now()) {
		return AuthResult{}, errs.Unauthorized("invalid refresh token")
	}
	user, err := repo.For[domain.User](u).GetByID(old.UserID)
	if err != nil {
		return AuthResult{}, s.storeErr("failed to refresh token", err)
	}
	if user == nil {
		return AuthResult{}, errs.Unauthorized("invalid refresh token")
	}
	res, err := s.issue(u, user)
	if err != nil {
		return AuthResult{}, err
	}
	old.Revoke(ReasonReplaced, res.RefreshToken)
	repo.For[domain.RefreshToken](u).Update(old)
	if _, err := u.Save(); err != nil {
		return AuthResult{}, s.storeErr("failed to refresh token", err)
	}
	return res, nil
}

func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	_, err := s.tokens.RevokeAll(ctx, userID, ReasonLogout)
	return err
}

// ChangePassword 成功后吊销全部刷新令牌（与改密同一次保存）
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, in ChangePasswordInput) error {
	u := s.uows.New(ctx)
	defer u.Close()
	users := repo.For[domain.User](u)
	user, err := users.GetByID(userID)
	if err != nil {
		return s.storeErr("failed to change password", err)
	}
	if user == nil {
		return errs.NotFound("user not found")
	}
	if !utils.CheckPassword(in.CurrentPassword, user.PasswordHash) {
		return errs.BadRequest("current password is incorrect")
	}
	hash, err := utils.HashPassword(in.NewPassword)
	if err != nil {
		return errs.BadRequest("invalid password")
	}
	user.PasswordHash = hash
	users.Update(user)
	if _, err := s.tokens.stageRevokeAll(u, userID, ReasonPasswordChanged); err != nil {
		return s.storeErr("failed to change password", err)
	}
	if _, err := u.Save(); err != nil {
		return s.storeErr("failed to change password", err)
	}
	return nil
}
