package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"realestate-api/internal/core/cache"
	"realestate-api/internal/core/errs"
	"realestate-api/internal/domain"
	"realestate-api/internal/repo"
)

type UserService struct {
	base
	tokens *TokenService
}

// NewUserService c 用于在经纪人姓名变化时失效房源详情缓存，可为 nil
func NewUserService(f *repo.Factory, c *cache.Cache, tokens *TokenService, l *zap.Logger) *UserService {
	return &UserService{base: newBase(f, c, l), tokens: tokens}
}

// 房源详情里带经纪人姓名，按 namespace 整体失效
func (s *UserService) evictListings(ctx context.Context) {
	s.cache.RemoveNamespace(ctx, nsProperties)
}

func (s *UserService) load(u *repo.UnitOfWork, id uint) (*domain.User, error) {
	user, err := repo.For[domain.User](u).GetByID(id)
	if err != nil {
		return nil, s.storeErr("failed to load user", err)
	}
	if user == nil {
		return nil, errs.NotFound("user not found")
	}
	return user, nil
}

func (s *UserService) Profile(ctx context.Context, id uint) (UserDTO, error) {
	u := s.uows.New(ctx)
	defer u.Close()
	user, err := s.load(u, id)
	if err != nil {
		return UserDTO{}, err
	}
	return toUserDTO(user), nil
}

// Detail 用户信息 + 名下房源数、咨询数（只计未删除）
func (s *UserService) Detail(ctx context.Context, id uint) (UserDetailDTO, error) {
	u := s.uows.New(ctx)
	defer u.Close()
	user, err := repo.For[domain.User](u).GetByID(id, repo.WithDeleted())
	if err != nil {
		return UserDetailDTO{}, s.storeErr("failed to load user", err)
	}
	if user == nil {
		return UserDetailDTO{}, errs.NotFound("user not found")
	}
	props, err := repo.For[domain.Property](u).Count(repo.Eq("agent_id", id))
	if err != nil {
		return UserDetailDTO{}, s.storeErr("failed to count properties", err)
	}
	inqs, err := repo.For[domain.Inquiry](u).Count(repo.Eq("user_id", id))
	if err != nil {
		return UserDetailDTO{}, s.storeErr("failed to count inquiries", err)
	}
	return UserDetailDTO{UserDTO: toUserDTO(user), PropertyCount: props, InquiryCount: inqs}, nil
}

func (f UserFilter) Filter() repo.Predicate {
	p, _ := visibility(f.IsDeleted)
	if f.Role != "" {
		p = p.And(repo.Eq("role", f.Role))
	}
	p = p.And(optional("is_agent", f.IsAgent, repo.Eq))
	if term := strings.TrimSpace(f.SearchTerm); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		p = p.And(repo.Or(
			repo.Where("LOWER(first_name) LIKE ?", like),
			repo.Where("LOWER(last_name) LIKE ?", like),
			repo.Where("LOWER(email) LIKE ?", like),
		))
	}
	return p
}

func (f UserFilter) order() repo.Option {
	column := map[string]string{"email": "email", "lastName": "last_name"}[f.SortBy]
	if column == "" {
		column = domain.ColCreatedAt
	}
	if f.SortOrder == "asc" {
		return repo.OrderBy(repo.Asc(column), repo.Asc(domain.ColID))
	}
	return repo.OrderBy(repo.Desc(column), repo.Desc(domain.ColID))
}

func (s *UserService) List(ctx context.Context, f UserFilter) (Page[UserDTO], error) {
	q := f.PageQuery.Normalize()
	u := s.uows.New(ctx)
	defer u.Close()
	rows, total, err := repo.For[domain.User](u).GetPaged(f.Filter(), q.Skip(), q.PageSize, repo.WithDeleted(), f.order())
	if err != nil {
		return Page[UserDTO]{}, s.storeErr("failed to list users", err)
	}
	return NewPage(mapSlice(rows, toUserDTO), total, q), nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id uint, in UpdateProfileInput) (UserDTO, error) {
	u := s.uows.New(ctx)
	defer u.Close()
	user, err := s.load(u, id)
	if err != nil {
		return UserDTO{}, err
	}
	setIf(&user.FirstName, in.FirstName)
	setIf(&user.LastName, in.LastName)
	setPtrIf(&user.Phone, in.Phone)
	setPtrIf(&user.ProfilePicture, in.ProfilePicture)
	repo.For[domain.User](u).Update(user)
	if _, err := u.Save(); err != nil {
		return UserDTO{}, s.storeErr("failed to update profile", err)
	}
	if in.FirstName != nil || in.LastName != nil {
		s.evictListings(ctx)
	}
	return toUserDTO(user), nil
}

// UpdateRole 只由管理员调用；IsAgent 随角色同步
func (s *UserService) UpdateRole(ctx context.Context, id uint, role string) (UserDTO, error) {
	if !domain.ValidRole(role) {
		return UserDTO{}, errs.BadRequest("invalid role")
	}
	u := s.uows.New(ctx)
	defer u.Close()
	user, err := s.load(u, id)
	if err != nil {
		return UserDTO{}, err
	}
	user.Role = role
	user.IsAgent = role == domain.RoleAgent
	repo.For[domain.User](u).Update(user)
	if _, err := u.Save(); err != nil {
		return UserDTO{}, s.storeErr("failed to update role", err)
	}
	return toUserDTO(user), nil
}

func (s *UserService) UpdateAgentInfo(ctx context.Context, id uint, in UpdateAgentInfoInput) (UserDTO, error) {
	u := s.uows.New(ctx)
	defer u.Close()
	user, err := s.load(u, id)
	if err != nil {
		return UserDTO{}, err
	}
	if !user.IsAgent {
		return UserDTO{}, errs.BadRequest("user is not an agent")
	}
	setPtrIf(&user.AgencyName, in.AgencyName)
	setPtrIf(&user.LicenseNumber, in.LicenseNumber)
	repo.For[domain.User](u).Update(user)
	if _, err := u.Save(); err != nil {
		return UserDTO{}, s.storeErr("failed to update agent info", err)
	}
	return toUserDTO(user), nil
}

func (s *UserService) Count(ctx context.Context, isDeleted *bool) (int64, error) {
	p, opt := visibility(isDeleted)
	u := s.uows.New(ctx)
	defer u.Close()
	n, err := repo.For[domain.User](u).Count(p, opt)
	return n, s.storeErr("failed to count users", err)
}

func (s *UserService) CountAgents(ctx context.Context) (int64, error) {
	u := s.uows.New(ctx)
	defer u.Close()
	n, err := repo.For[domain.User](u).Count(repo.Eq("is_agent", true))
	return n, s.storeErr("failed to count agents", err)
}

// SoftDelete 同一次保存里吊销其全部刷新令牌；重复删除无副作用
func (s *UserService) SoftDelete(ctx context.Context, id uint) error {
	u := s.uows.New(ctx)
	defer u.Close()
	user, err := repo.For[domain.User](u).GetByID(id, repo.WithDeleted())
	if err != nil {
		return s.storeErr("failed to load user", err)
	}
	if user == nil {
		return errs.NotFound("user not found")
	}
	if !repo.SoftDelete(repo.For[domain.User](u), user) {
		return nil
	}
	if _, err := s.tokens.stageRevokeAll(u, id, ReasonUserDeleted); err != nil {
		return s.storeErr("failed to delete user", err)
	}
	if _, err := u.Save(); err != nil {
		return s.storeErr("failed to delete user", err)
	}
	s.evictListings(ctx)
	return nil
}
