package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"realestate-api/internal/core/cache"
	"realestate-api/internal/core/errs"
	"realestate-api/internal/domain"
	"realestate-api/internal/repo"
)

const nsProperties = "properties"

type PropertyService struct{ base }

func NewPropertyService(f *repo.Factory, c *cache.Cache, l *zap.Logger) *PropertyService {
	return &PropertyService{newBase(f, c, l)}
}

// 详情里的图片：未删除、按展示顺序
func activeImages(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false).Order("display_order ASC, created_at ASC, id ASC")
}

// 列表只需要封面
func primaryImage(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ? AND is_primary = ?", false, true)
}

func detailKey(id uint, includeType bool) string { return fmt.Sprintf("%d:%t", id, includeType) }

// evictProperty 房源详情缓存失效（图片、咨询等子资源变化时也要调用）
func (b *base) evictProperty(ctx context.Context, id uint) {
	b.cache.Remove(ctx, nsProperties, detailKey(id, true))
	b.cache.Remove(ctx, nsProperties, detailKey(id, false))
}

// activeType 类型存在且未软删
func activeType(u *repo.UnitOfWork, id uint) (bool, error) {
	return repo.For[domain.PropertyType](u).Exists(repo.And(repo.ByID(id), repo.NotDeleted()), repo.WithDeleted())
}

func (s *PropertyService) Get(ctx context.Context, id uint, includeType bool) (PropertyDTO, error) {
	out, err := cache.GetOrLoadJSON(s.cache, ctx, nsProperties, detailKey(id, includeType), 0, func(ctx context.Context) (*PropertyDTO, error) {
		u := s.uows.New(ctx)
		defer u.Close()
		opts := []repo.Option{repo.Preload(domain.RelAgent), repo.Preload(domain.RelImages, activeImages)}
		if includeType {
			opts = append(opts, repo.Preload(domain.RelPropertyType))
		}
		p, err := repo.For[domain.Property](u).GetByID(id, opts...)
		if err != nil {
			return nil, s.storeErr("failed to load property", err)
		}
		if p == nil {
			return nil, nil
		}
		dto := toPropertyDTO(p)
		return &dto, nil
	})
	if err != nil {
		return PropertyDTO{}, err
	}
	if out == nil {
		return PropertyDTO{}, errs.NotFound("property not found")
	}
	return *out, nil
}

// ListQuery 对应不分页的列表：可见性 + 类型过滤 + 是否带类型
type ListQuery struct {
	IsDeleted      *bool `form:"isDeleted"`
	PropertyTypeID *uint `form:"propertyTypeId"`
	IncludeType    bool  `form:"includeType"`
}

func (q ListQuery) build(extra repo.Predicate) (repo.Predicate, []repo.Option) {
	where, vis := visibility(q.IsDeleted)
	where = repo.And(where, extra, optional("property_type_id", q.PropertyTypeID, repo.Eq))
	opts := []repo.Option{vis, repo.Preload(domain.RelImages, primaryImage)}
	if q.IncludeType {
		opts = append(opts, repo.Preload(domain.RelPropertyType))
	}
	return where, opts
}

func (s *PropertyService) List(ctx context.Context, q ListQuery, extra repo.Predicate) ([]PropertyDTO, error) {
	u := s.uows.New(ctx)
	defer u.Close()
	where, opts := q.build(extra)
	opts = append(opts, repo.OrderBy(repo.Desc(domain.ColCreatedAt)))
	rows, err := repo.For[domain.Property](u).GetAll(where, opts...)
	if err != nil {
		return nil, s.storeErr("failed to list properties", err)
	}
	return mapSlice(rows, toPropertyDTO), nil
}

func (s *PropertyService) ListPaged(ctx context.Context, q ListQuery, extra repo.Predicate, page PageQuery) (Page[PropertyDTO], error) {
	u := s.uows.New(ctx)
	defer u.Close()
	page = page.Normalize()
	where, opts := q.build(extra)
	opts = append(opts, repo.OrderBy(repo.Desc(domain.ColCreatedAt)))
	rows, total, err := repo.For[domain.Property](u).GetPaged(where, page.Skip(), page.PageSize, opts...)
	if err != nil {
		return Page[PropertyDTO]{}, s.storeErr("failed to list properties", err)
	}
	return NewPage(mapSlice(rows, toPropertyDTO), total, page), nil
}

var propertySortColumns = map[string]string{
	"price":     "price",
	"area":      "area",
	"rooms":     "rooms",
	"createdat": domain.ColCreatedAt,
}

// Filter 把搜索条件翻译成谓词
func (f PropertyFilter) Filter() repo.Predicate {
	p := repo.And(
		optional("price", f.MinPrice, repo.Gte),
		optional("price", f.MaxPrice, repo.Lte),
		optional("rooms", f.MinRooms, repo.Gte),
		optional("rooms", f.MaxRooms, repo.Lte),
		optional("area", f.MinArea, repo.Gte),
		optional("area", f.MaxArea, repo.Lte),
		optional("year_built", f.MinYear, repo.Gte),
		optional("year_built", f.MaxYear, repo.Lte),
		optional("property_type_id", f.PropertyTypeID, repo.Eq),
		optional("status", f.Status, repo.Eq),
		optional("agent_id", f.AgentID, repo.Eq),
	)
	if city := strings.TrimSpace(f.City); city != "" {
		p = p.And(repo.Eq("city", city))
	}
	if district := strings.TrimSpace(f.District); district != "" {
		p = p.And(repo.Eq("district", district))
	}
	if term := strings.TrimSpace(f.SearchTerm); term != "" {
		like := "%" + term + "%"
		p = p.And(repo.Or(repo.Like("title", like), repo.Like("description", like), repo.Like("address", like)))
	}
	return p
}

func (f PropertyFilter) order() repo.Option {
	column, ok := propertySortColumns[strings.ToLower(f.SortBy)]
	if !ok {
		column = domain.ColCreatedAt
	}
	desc := strings.EqualFold(f.SortOrder, "desc") || (f.SortOrder == "" && column == domain.ColCreatedAt)
	if desc {
		return repo.OrderBy(repo.Desc(column), repo.Desc(domain.ColID))
	}
	return repo.OrderBy(repo.Asc(column), repo.Asc(domain.ColID))
}

// Search 分页搜索
func (s *PropertyService) Search(ctx context.Context, f PropertyFilter) (Page[PropertyDTO], error) {
	u := s.uows.New(ctx)
	defer u.Close()
	page := f.PageQuery.Normalize()
	where, opts := ListQuery{IsDeleted: f.IsDeleted, IncludeType: f.IncludeType}.build(f.Filter())
	opts = append(opts, f.order())
	rows, total, err := repo.For[domain.Property](u).GetPaged(where, page.Skip(), page.PageSize, opts...)
	if err != nil {
		return Page[PropertyDTO]{}, s.storeErr("failed to search properties", err)
	}
	return NewPage(mapSlice(rows, toPropertyDTO), total, page), nil
}

func (s *PropertyService) Count(ctx context.Context, isDeleted *bool) (int64, error) {
	u := s.uows.New(ctx)
	defer u.Close()
	where, vis := visibility(isDeleted)
	n, err := repo.For[domain.Property](u).Count(where, vis)
	if err != nil {
		return 0, s.storeErr("failed to count properties", err)
	}
	return n, nil
}

// Create 类型必须存在且未删除，否则 400；创建人即经纪人
func (s *PropertyService) Create(ctx context.Context, actor Actor, in CreatePropertyInput) (PropertyDTO, error) {
	u := s.uows.New(ctx)
	defer u.Close()

	ok, err := activeType(u, in.PropertyTypeID)
	if err != nil {
		return PropertyDTO{}, s.storeErr("failed to check property type", err)
	}
	if !ok {
		return PropertyDTO{}, errs.BadRequest("invalid property type")
	}
	agent, err := repo.For[domain.User](u).GetByID(actor.ID)
	if err != nil {
		return PropertyDTO{}, s.storeErr("failed to load agent", err)
	}
	if agent == nil {
		return PropertyDTO{}, errs.Unauthorized("user not found")
	}

	status := in.Status
	if status == 0 {
		status = domain.PropertyAvailable
	}
	p := &domain.Property{
		Title: strings.TrimSpace(in.Title), Description: in.Description, Price: in.Price,
		Address: in.Address, City: strings.TrimSpace(in.City), District: in.District,
		Rooms: in.Rooms, Bathrooms: in.Bathrooms, Area: in.Area, Floor: in.Floor,
		TotalFloors: in.TotalFloors, YearBuilt: in.YearBuilt, Status: status,
		PropertyTypeID: in.PropertyTypeID, AgentID: agent.ID,
	}
	props := repo.For[domain.Property](u)
	props.Add(p)
	if _, err := u.Save(); err != nil {
		return PropertyDTO{}, s.storeErr("failed to create property", err)
	}

	created, err := props.GetByID(p.ID, repo.Preload(domain.RelPropertyType), repo.Preload(domain.RelAgent))
	if err != nil {
		return PropertyDTO{}, s.storeErr("failed to load property", err)
	}
	if created == nil {
		return PropertyDTO{}, errs.Internal("failed to load property", nil)
	}
	return toPropertyDTO(created), nil
}

func (s *PropertyService) loadActive(u *repo.UnitOfWork, id uint) (*domain.Property, error) {
	p, err := repo.For[domain.Property](u).GetByID(id)
	if err != nil {
		return nil, s.storeErr("failed to load property", err)
	}
	if p == nil {
		return nil, errs.NotFound("property not found")
	}
	return p, nil
}

// AdminUpdate 任意字段的部分更新；改类型时重新校验
func (s *PropertyService) AdminUpdate(ctx context.Context, id uint, in AdminUpdatePropertyInput) (PropertyDTO, error) {
	u := s.uows.New(ctx)
	defer u.Close()
	p, err := s.loadActive(u, id)
	if err != nil {
		return PropertyDTO{}, err
	}
	if in.PropertyTypeID != nil && *in.PropertyTypeID != p.PropertyTypeID {
		ok, err := activeType(u, *in.PropertyTypeID)
		if err != nil {
			return PropertyDTO{}, s.storeErr("failed to check property type", err)
		}
		if !ok {
			return PropertyDTO{}, errs.BadRequest("invalid property type")
		}
	}
	if in.AgentID != nil && *in.AgentID != p.AgentID {
		agent, err := repo.For[domain.User](u).GetByID(*in.AgentID)
		if err != nil {
			return PropertyDTO{}, s.storeErr("failed to load agent", err)
		}
		if agent == nil || !agent.IsAgent {
			return PropertyDTO{}, errs.BadRequest("invalid agent")
		}
	}

	setIf(&p.Title, in.Title)
	setIf(&p.Description, in.Description)
	setIf(&p.Price, in.Price)
	setIf(&p.Address, in.Address)
	setIf(&p.City, in.City)
	setPtrIf(&p.District, in.District)
	setIf(&p.Rooms, in.Rooms)
	setPtrIf(&p.Bathrooms, in.Bathrooms)
	setIf(&p.Area, in.Area)
	setIf(&p.Floor, in.Floor)
	setPtrIf(&p.TotalFloors, in.TotalFloors)
	setIf(&p.YearBuilt, in.YearBuilt)
	setIf(&p.Status, in.Status)
	setIf(&p.PropertyTypeID, in.PropertyTypeID)
	setIf(&p.AgentID, in.AgentID)

	return s.saveAndReload(ctx, u, p)
}

// AgentUpdate 只允许改标题、描述、价格、状态；经纪人只能改自己的房源
func (s *PropertyService) AgentUpdate(ctx context.Context, actor Actor, id uint, in AgentUpdatePropertyInput) (PropertyDTO, error) {
	u := s.uows.New(ctx)
	defer u.Close()
	p, err := s.loadActive(u, id)
	if err != nil {
		return PropertyDTO{}, err
	}
	if !actor.canManage(p) {
		return PropertyDTO{}, errs.Forbidden("property belongs to another agent")
	}
	setIf(&p.Title, in.Title)
	setIf(&p.Description, in.Description)
	setIf(&p.Price, in.Price)
	setIf(&p.Status, in.Status)
	return s.saveAndReload(ctx, u, p)
}

func (s *PropertyService) saveAndReload(ctx context.Context, u *repo.UnitOfWork, p *domain.Property) (PropertyDTO, error) {
	props := repo.For[domain.Property](u)
	props.Update(p)
	if _, err := u.Save(); err != nil {
		return PropertyDTO{}, s.storeErr("failed to update property", err)
	}
	s.evictProperty(ctx, p.ID)
	fresh, err := props.GetByID(p.ID, repo.Preload(domain.RelPropertyType), repo.Preload(domain.RelAgent))
	if err != nil {
		// 已提交，重新加载失败只记录，返回内存中的实体
		s.log.Warn("reload property after update", zap.Uint("id", p.ID), zap.Error(err))
	}
	if fresh == nil {
		return toPropertyDTO(p), nil
	}
	return toPropertyDTO(fresh), nil
}

// SoftDelete 幂等
func (s *PropertyService) SoftDelete(ctx context.Context, actor Actor, id uint) error {
	u := s.uows.New(ctx)
	defer u.Close()
	props := repo.For[domain.Property](u)
	p, err := props.GetByID(id, repo.WithDeleted())
	if err != nil {
		return s.storeErr("failed to load property", err)
	}
	if p == nil {
		return errs.NotFound("property not found")
	}
	if !actor.canManage(p) {
		return errs.Forbidden("property belongs to another agent")
	}
	if !repo.SoftDelete(props, p) {
		return nil
	}
	if _, err := u.Save(); err != nil {
		return s.storeErr("failed to delete property", err)
	}
	s.evictProperty(ctx, id)
	return nil
}

// HardDelete 物理删除，图片与咨询按外键级联
func (s *PropertyService) HardDelete(ctx context.Context, id uint) error {
	u := s.uows.New(ctx)
	defer u.Close()
	props := repo.For[domain.Property](u)
	p, err := props.GetByID(id, repo.WithDeleted())
	if err != nil {
		return s.storeErr("failed to load property", err)
	}
	if p == nil {
		return errs.NotFound("property not found")
	}
	props.Remove(p)
	if _, err := u.Save(); err != nil {
		return s.storeErr("failed to delete property", err)
	}
	s.evictProperty(ctx, id)
	return nil
}
