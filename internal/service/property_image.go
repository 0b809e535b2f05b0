package service

import (
	"context"

	"go.uber.org/zap"

	"realestate-api/internal/core/cache"
	"realestate-api/internal/core/errs"
	"realestate-api/internal/domain"
	"realestate-api/internal/repo"
)

type PropertyImageService struct{ base }

func NewPropertyImageService(f *repo.Factory, c *cache.Cache, l *zap.Logger) *PropertyImageService {
	return &PropertyImageService{newBase(f, c, l)}
}

func imageOrder() repo.Option {
	return repo.OrderBy(repo.Asc("display_order"), repo.Asc(domain.ColCreatedAt), repo.Asc(domain.ColID))
}

func (s *PropertyImageService) Get(ctx context.Context, id uint) (PropertyImageDTO, error) {
	u := s.uows.New(ctx)
	defer u.Close()
	img, err := s.load(u, id)
	if err != nil {
		return PropertyImageDTO{}, err
	}
	return toImageDTO(img), nil
}

func (s *PropertyImageService) load(u *repo.UnitOfWork, id uint) (*domain.PropertyImage, error) {
	img, err := repo.For[domain.PropertyImage](u).GetByID(id)
	if err != nil {
		return nil, s.storeErr("failed to load image", err)
	}
	if img == nil {
		return nil, errs.NotFound("image not found")
	}
	return img, nil
}

func (s *PropertyImageService) List(ctx context.Context, isDeleted *bool) ([]PropertyImageDTO, error) {
	u := s.uows.New(ctx)
	defer u.Close()
	where, vis := visibility(isDeleted)
	rows, err := repo.For[domain.PropertyImage](u).GetAll(where, vis, imageOrder())
	if err != nil {
		return nil, s.storeErr("failed to list images", err)
	}
	return mapSlice(rows, toImageDTO), nil
}

// ListByProperty 房源不存在 404；没有图片返回空列表
func (s *PropertyImageService) ListByProperty(ctx context.Context, propertyID uint) ([]PropertyImageDTO, error) {
	u := s.uows.New(ctx)
	defer u.Close()
	ok, err := repo.For[domain.Property](u).Exists(repo.ByID(propertyID))
	if err != nil {
		return nil, s.storeErr("failed to check property", err)
	}
	if !ok {
		return nil, errs.NotFound("property not found")
	}
	where, vis := visibility(nil)
	rows, err := repo.For[domain.PropertyImage](u).GetAll(where.And(repo.Eq("property_id", propertyID)), vis, imageOrder())
	if err != nil {
		return nil, s.storeErr("failed to list images", err)
	}
	return mapSlice(rows, toImageDTO), nil
}

func (s *PropertyImageService) Count(ctx context.Context, isDeleted *bool) (int64, error) {
	return s.count(ctx, isDeleted, repo.Predicate{})
}

func (s *PropertyImageService) CountByProperty(ctx context.Context, propertyID uint) (int64, error) {
	return s.count(ctx, nil, repo.Eq("property_id", propertyID))
}

func (s *PropertyImageService) count(ctx context.Context, isDeleted *bool, scope repo.Predicate) (int64, error) {
	u := s.uows.New(ctx)
	defer u.Close()
	where, vis := visibility(isDeleted)
	n, err := repo.For[domain.PropertyImage](u).Count(where.And(scope), vis)
	if err != nil {
		return 0, s.storeErr("failed to count images", err)
	}
	return n, nil
}

// ownedProperty 房源存在且调用方可管理
func (s *PropertyImageService) ownedProperty(u *repo.UnitOfWork, actor Actor, propertyID uint, missing error) (*domain.Property, error) {
	p, err := repo.For[domain.Property](u).GetByID(propertyID)
	if err != nil {
		return nil, s.storeErr("failed to load property", err)
	}
	if p == nil {
		return nil, missing
	}
	if !actor.canManage(p) {
		return nil, errs.Forbidden("property belongs to another agent")
	}
	return p, nil
}

// unsetOtherPrimaries 在同一个会话里把其它主图置为非主图；exceptID 为 0 表示不排除
func unsetOtherPrimaries(u *repo.UnitOfWork, propertyID, exceptID uint) error {
	images := repo.For[domain.PropertyImage](u)
	where := repo.And(repo.NotDeleted(), repo.Eq("property_id", propertyID), repo.Eq("is_primary", true))
	if exceptID != 0 {
		where = where.And(repo.Neq(domain.ColID, exceptID))
	}
	others, err := images.GetAll(where, repo.WithDeleted())
	if err != nil {
		return err
	}
	for i := range others {
		others[i].IsPrimary = false
	}
	images.BatchUpdate(ptrs(others))
	return nil
}

// Create 设为主图时同一次保存里清掉其它主图
func (s *PropertyImageService) Create(ctx context.Context, actor Actor, in CreateImageInput) (PropertyImageDTO, error) {
	u := s.uows.New(ctx)
	defer u.Close()
	if _, err := s.ownedProperty(u, actor, in.PropertyID, errs.BadRequest("invalid property")); err != nil {
		return PropertyImageDTO{}, err
	}
	if in.IsPrimary {
		if err := unsetOtherPrimaries(u, in.PropertyID, 0); err != nil {
			return PropertyImageDTO{}, s.storeErr("failed to update images", err)
		}
	}
	img := &domain.PropertyImage{
		ImageURL: in.ImageURL, DisplayOrder: in.DisplayOrder, IsPrimary: in.IsPrimary, PropertyID: in.PropertyID,
	}
	repo.For[domain.PropertyImage](u).Add(img)
	if _, err := u.Save(); err != nil {
		return PropertyImageDTO{}, s.storeErr("failed to create image", err)
	}
	s.evictProperty(ctx, in.PropertyID)
	return toImageDTO(img), nil
}

func (s *PropertyImageService) Update(ctx context.Context, actor Actor, id uint, in UpdateImageInput) (PropertyImageDTO, error) {
	u := s.uows.New(ctx)
	defer u.Close()
	img, err := s.load(u, id)
	if err != nil {
		return PropertyImageDTO{}, err
	}
	if _, err := s.ownedProperty(u, actor, img.PropertyID, errs.NotFound("property not found")); err != nil {
		return PropertyImageDTO{}, err
	}
	setIf(&img.ImageURL, in.ImageURL)
	setIf(&img.DisplayOrder, in.DisplayOrder)
	setIf(&img.IsPrimary, in.IsPrimary)
	if img.IsPrimary {
		if err := unsetOtherPrimaries(u, img.PropertyID, img.ID); err != nil {
			return PropertyImageDTO{}, s.storeErr("failed to update images", err)
		}
	}
	repo.For[domain.PropertyImage](u).Update(img)
	if _, err := u.Save(); err != nil {
		return PropertyImageDTO{}, s.storeErr("failed to update image", err)
	}
	s.evictProperty(ctx, img.PropertyID)
	return toImageDTO(img), nil
}

// SetPrimary 图片必须属于该房源
func (s *PropertyImageService) SetPrimary(ctx context.Context, actor Actor, id, propertyID uint) (PropertyImageDTO, error) {
	u := s.uows.New(ctx)
	defer u.Close()
	images := repo.For[domain.PropertyImage](u)
	img, err := images.Get(repo.And(repo.ByID(id), repo.Eq("property_id", propertyID)))
	if err != nil {
		return PropertyImageDTO{}, s.storeErr("failed to load image", err)
	}
	if img == nil {
		return PropertyImageDTO{}, errs.NotFound("image not found for this property")
	}
	if _, err := s.ownedProperty(u, actor, propertyID, errs.NotFound("property not found")); err != nil {
		return PropertyImageDTO{}, err
	}
	if err := unsetOtherPrimaries(u, propertyID, img.ID); err != nil {
		return PropertyImageDTO{}, s.storeErr("failed to update images", err)
	}
	img.IsPrimary = true
	images.Update(img)
	if _, err := u.Save(); err != nil {
		return PropertyImageDTO{}, s.storeErr("failed to set primary image", err)
	}
	s.evictProperty(ctx, propertyID)
	return toImageDTO(img), nil
}

func (s *PropertyImageService) UpdateDisplayOrder(ctx context.Context, actor Actor, id uint, order int) (PropertyImageDTO, error) {
	if order < 0 {
		return PropertyImageDTO{}, errs.BadRequest("display order must not be negative")
	}
	return s.Update(ctx, actor, id, UpdateImageInput{DisplayOrder: &order})
}

// SoftDelete 幂等
func (s *PropertyImageService) SoftDelete(ctx context.Context, actor Actor, id uint) error {
	u := s.uows.New(ctx)
	defer u.Close()
	images := repo.For[domain.PropertyImage](u)
	img, err := images.GetByID(id, repo.WithDeleted())
	if err != nil {
		return s.storeErr("failed to load image", err)
	}
	if img == nil {
		return errs.NotFound("image not found")
	}
	if img.IsDeleted {
		return nil
	}
	if _, err := s.ownedProperty(u, actor, img.PropertyID, errs.NotFound("property not found")); err != nil {
		return err
	}
	repo.SoftDelete(images, img)
	if _, err := u.Save(); err != nil {
		return s.storeErr("failed to delete image", err)
	}
	s.evictProperty(ctx, img.PropertyID)
	return nil
}

func (s *PropertyImageService) HardDelete(ctx context.Context, id uint) error {
	u := s.uows.New(ctx)
	defer u.Close()
	images := repo.For[domain.PropertyImage](u)
	img, err := images.GetByID(id, repo.WithDeleted())
	if err != nil {
		return s.storeErr("failed to load image", err)
	}
	if img == nil {
		return errs.NotFound("image not found")
	}
	images.Remove(img)
	if _, err := u.Save(); err != nil {
		return s.storeErr("failed to delete image", err)
	}
	s.evictProperty(ctx, img.PropertyID)
	return nil
}

// DeleteAllByProperty 软删除房源下全部图片，一次保存；返回删除数量
func (s *PropertyImageService) DeleteAllByProperty(ctx context.Context, propertyID uint) (int, error) {
	u := s.uows.New(ctx)
	defer u.Close()
	images := repo.For[domain.PropertyImage](u)
	rows, err := images.GetAll(repo.And(repo.NotDeleted(), repo.Eq("property_id", propertyID)), repo.WithDeleted())
	if err != nil {
		return 0, s.storeErr("failed to list images", err)
	}
	for i := range rows {
		rows[i].MarkDeleted()
	}
	images.BatchUpdate(ptrs(rows))
	if _, err := u.Save(); err != nil {
		return 0, s.storeErr("failed to delete images", err)
	}
	s.evictProperty(ctx, propertyID)
	return len(rows), nil
}
