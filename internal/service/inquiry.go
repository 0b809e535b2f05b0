package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"realestate-api/internal/core/cache"
	"realestate-api/internal/core/errs"
	"realestate-api/internal/domain"
	"realestate-api/internal/repo"
)

type InquiryService struct{ base }

func NewInquiryService(f *repo.Factory, c *cache.Cache, l *zap.Logger) *InquiryService {
	return &InquiryService{newBase(f, c, l)}
}

func (s *InquiryService) Get(ctx context.Context, id uint) (InquiryDTO, error) {
	u := s.uows.New(ctx)
	defer u.Close()
	i, err := repo.For[domain.Inquiry](u).GetByID(id, repo.Preload(domain.RelProperty))
	if err != nil {
		return InquiryDTO{}, s.storeErr("failed to load inquiry", err)
	}
	if i == nil {
		return InquiryDTO{}, errs.NotFound("inquiry not found")
	}
	return toInquiryDTO(i), nil
}

// List 可按房源过滤；isDeleted=true 只看已删除
func (s *InquiryService) List(ctx context.Context, propertyID *uint, isDeleted *bool) ([]InquiryDTO, error) {
	u := s.uows.New(ctx)
	defer u.Close()
	where, vis := visibility(isDeleted)
	where = where.And(optional("property_id", propertyID, repo.Eq))
	rows, err := repo.For[domain.Inquiry](u).GetAll(where, vis, repo.Preload(domain.RelProperty), repo.OrderBy(repo.Desc(domain.ColCreatedAt)))
	if err != nil {
		return nil, s.storeErr("failed to list inquiries", err)
	}
	return mapSlice(rows, toInquiryDTO), nil
}

func (f InquiryFilter) Filter() repo.Predicate {
	p := repo.And(
		optional("property_id", f.PropertyID, repo.Eq),
		optional("status", f.Status, repo.Eq),
	)
	if email := strings.TrimSpace(f.Email); email != "" {
		p = p.And(repo.Eq("email", email))
	}
	if f.StartDate != nil {
		p = p.And(repo.Gte(domain.ColCreatedAt, *f.StartDate))
	}
	if f.EndDate != nil {
		// 结束日期包含当天
		p = p.And(repo.Where("created_at < ?", f.EndDate.Add(24*time.Hour)))
	}
	return p
}

func (s *InquiryService) Search(ctx context.Context, f InquiryFilter) (Page[InquiryDTO], error) {
	return s.page(ctx, f.IsDeleted, f.Filter(), f.PageQuery)
}

// ListForAgent 经纪人名下房源收到的咨询
func (s *InquiryService) ListForAgent(ctx context.Context, agentID uint, page PageQuery) (Page[InquiryDTO], error) {
	scope := repo.Where("property_id IN (SELECT id FROM properties WHERE agent_id = ? AND is_deleted = ?)", agentID, false)
	return s.page(ctx, nil, scope, page)
}

func (s *InquiryService) page(ctx context.Context, isDeleted *bool, scope repo.Predicate, page PageQuery) (Page[InquiryDTO], error) {
	u := s.uows.New(ctx)
	defer u.Close()
	page = page.Normalize()
	where, vis := visibility(isDeleted)
	rows, total, err := repo.For[domain.Inquiry](u).GetPaged(where.And(scope), page.Skip(), page.PageSize,
		vis, repo.Preload(domain.RelProperty), repo.OrderBy(repo.Desc(domain.ColCreatedAt), repo.Desc(domain.ColID)))
	if err != nil {
		return Page[InquiryDTO]{}, s.storeErr("failed to list inquiries", err)
	}
	return NewPage(mapSlice(rows, toInquiryDTO), total, page), nil
}

func (s *InquiryService) Count(ctx context.Context, isDeleted *bool) (int64, error) {
	u := s.uows.New(ctx)
	defer u.Close()
	where, vis := visibility(isDeleted)
	n, err := repo.For[domain.Inquiry](u).Count(where, vis)
	if err != nil {
		return 0, s.storeErr("failed to count inquiries", err)
	}
	return n, nil
}

// Create 房源必须存在且未删除；状态总是 New。userID 为匿名时传 nil
func (s *InquiryService) Create(ctx context.Context, userID *uint, in CreateInquiryInput) (InquiryDTO, error) {
	u := s.uows.New(ctx)
	defer u.Close()
	p, err := repo.For[domain.Property](u).GetByID(in.PropertyID)
	if err != nil {
		return InquiryDTO{}, s.storeErr("failed to load property", err)
	}
	if p == nil {
		return InquiryDTO{}, errs.BadRequest("invalid property")
	}
	i := &domain.Inquiry{
		Name: strings.TrimSpace(in.Name), Email: strings.TrimSpace(in.Email), Phone: in.Phone,
		Message: in.Message, Status: domain.InquiryNew, PropertyID: p.ID, UserID: userID,
	}
	repo.For[domain.Inquiry](u).Add(i)
	if _, err := u.Save(); err != nil {
		return InquiryDTO{}, s.storeErr("failed to create inquiry", err)
	}
	i.Property = p
	return toInquiryDTO(i), nil
}

// UpdateStatus 不限制状态流转顺序
func (s *InquiryService) UpdateStatus(ctx context.Context, id uint, status domain.InquiryStatus) (InquiryDTO, error) {
	if !status.Valid() {
		return InquiryDTO{}, errs.BadRequest("invalid inquiry status")
	}
	u := s.uows.New(ctx)
	defer u.Close()
	inquiries := repo.For[domain.Inquiry](u)
	i, err := inquiries.GetByID(id)
	if err != nil {
		return InquiryDTO{}, s.storeErr("failed to load inquiry", err)
	}
	if i == nil {
		return InquiryDTO{}, errs.NotFound("inquiry not found")
	}
	i.Status = status
	inquiries.Update(i)
	if _, err := u.Save(); err != nil {
		return InquiryDTO{}, s.storeErr("failed to update inquiry", err)
	}
	return toInquiryDTO(i), nil
}

func (s *InquiryService) SoftDelete(ctx context.Context, id uint) error {
	u := s.uows.New(ctx)
	defer u.Close()
	inquiries := repo.For[domain.Inquiry](u)
	i, err := inquiries.GetByID(id, repo.WithDeleted())
	if err != nil {
		return s.storeErr("failed to load inquiry", err)
	}
	if i == nil {
		return errs.NotFound("inquiry not found")
	}
	if !repo.SoftDelete(inquiries, i) {
		return nil
	}
	if _, err := u.Save(); err != nil {
		return s.storeErr("failed to delete inquiry", err)
	}
	return nil
}

func (s *InquiryService) HardDelete(ctx context.Context, id uint) error {
	u := s.uows.New(ctx)
	defer u.Close()
	inquiries := repo.For[domain.Inquiry](u)
	i, err := inquiries.GetByID(id, repo.WithDeleted())
	if err != nil {
		return s.storeErr("failed to load inquiry", err)
	}
	if i == nil {
		return errs.NotFound("inquiry not found")
	}
	inquiries.Remove(i)
	if _, err := u.Save(); err != nil {
		return s.storeErr("failed to delete inquiry", err)
	}
	return nil
}
