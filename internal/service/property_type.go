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

const nsPropertyTypes = "property-types"

type PropertyTypeService struct{ base }

func NewPropertyTypeService(f *repo.Factory, c *cache.Cache, l *zap.Logger) *PropertyTypeService {
	return &PropertyTypeService{newBase(f, c, l)}
}

// load 不存在 404，已软删 410
func (s *PropertyTypeService) load(u *repo.UnitOfWork, id uint) (*domain.PropertyType, error) {
	t, err := repo.For[domain.PropertyType](u).GetByID(id, repo.WithDeleted())
	if err != nil {
		return nil, s.storeErr("failed to load property type", err)
	}
	if t == nil {
		return nil, errs.NotFound("property type not found")
	}
	if t.IsDeleted {
		return nil, errs.Gone("property type has been deleted")
	}
	return t, nil
}

func (s *PropertyTypeService) Get(ctx context.Context, id uint) (PropertyTypeDTO, error) {
	u := s.uows.New(ctx)
	defer u.Close()
	t, err := s.load(u, id)
	if err != nil {
		return PropertyTypeDTO{}, err
	}
	return toPropertyTypeDTO(t), nil
}

// List 未删除的列表走缓存
func (s *PropertyTypeService) List(ctx context.Context, isDeleted *bool) ([]PropertyTypeDTO, error) {
	if isDeleted != nil && *isDeleted {
		return s.list(ctx, isDeleted)
	}
	out, err := cache.GetOrLoadJSON(s.cache, ctx, nsPropertyTypes, "active", 0, func(ctx context.Context) (*[]PropertyTypeDTO, error) {
		list, err := s.list(ctx, nil)
		if err != nil {
			return nil, err
		}
		return &list, nil
	})
	if err != nil {
		return nil, err
	}
	return *out, nil
}

func (s *PropertyTypeService) list(ctx context.Context, isDeleted *bool) ([]PropertyTypeDTO, error) {
	u := s.uows.New(ctx)
	defer u.Close()
	where, vis := visibility(isDeleted)
	rows, err := repo.For[domain.PropertyType](u).GetAll(where, vis, repo.OrderBy(repo.Asc("name")))
	if err != nil {
		return nil, s.storeErr("failed to list property types", err)
	}
	return mapSlice(rows, toPropertyTypeDTO), nil
}

func (s *PropertyTypeService) Count(ctx context.Context, isDeleted *bool) (int64, error) {
	u := s.uows.New(ctx)
	defer u.Close()
	where, vis := visibility(isDeleted)
	n, err := repo.For[domain.PropertyType](u).Count(where, vis)
	if err != nil {
		return 0, s.storeErr("failed to count property types", err)
	}
	return n, nil
}

func (s *PropertyTypeService) Create(ctx context.Context, in CreatePropertyTypeInput) (PropertyTypeDTO, error) {
	u := s.uows.New(ctx)
	defer u.Close()
	t := &domain.PropertyType{Name: strings.TrimSpace(in.Name), Description: in.Description}
	repo.For[domain.PropertyType](u).Add(t)
	if _, err := u.Save(); err != nil {
		return PropertyTypeDTO{}, s.storeErr("failed to create property type", err)
	}
	s.cache.RemoveNamespace(ctx, nsPropertyTypes)
	return toPropertyTypeDTO(t), nil
}

func (s *PropertyTypeService) Update(ctx context.Context, id uint, in UpdatePropertyTypeInput) (PropertyTypeDTO, error) {
	u := s.uows.New(ctx)
	defer u.Close()
	t, err := s.load(u, id)
	if err != nil {
		return PropertyTypeDTO{}, err
	}
	if in.Name != nil {
		t.Name = strings.TrimSpace(*in.Name)
	}
	setPtrIf(&t.Description, in.Description)
	repo.For[domain.PropertyType](u).Update(t)
	if _, err := u.Save(); err != nil {
		return PropertyTypeDTO{}, s.storeErr("failed to update property type", err)
	}
	s.invalidate(ctx)
	return toPropertyTypeDTO(t), nil
}

// SoftDelete 幂等：已删除的直接返回成功
func (s *PropertyTypeService) SoftDelete(ctx context.Context, id uint) error {
	u := s.uows.New(ctx)
	defer u.Close()
	types := repo.For[domain.PropertyType](u)
	t, err := types.GetByID(id, repo.WithDeleted())
	if err != nil {
		return s.storeErr("failed to load property type", err)
	}
	if t == nil {
		return errs.NotFound("property type not found")
	}
	if !repo.SoftDelete(types, t) {
		return nil
	}
	if _, err := u.Save(); err != nil {
		return s.storeErr("failed to delete property type", err)
	}
	s.invalidate(ctx)
	return nil
}

// HardDelete 仍被房源引用时 409（外键 RESTRICT）
func (s *PropertyTypeService) HardDelete(ctx context.Context, id uint) error {
	u := s.uows.New(ctx)
	defer u.Close()
	types := repo.For[domain.PropertyType](u)
	t, err := types.GetByID(id, repo.WithDeleted())
	if err != nil {
		return s.storeErr("failed to load property type", err)
	}
	if t == nil {
		return errs.NotFound("property type not found")
	}
	inUse, err := repo.For[domain.Property](u).Exists(repo.Eq("property_type_id", id), repo.WithDeleted())
	if err != nil {
		return s.storeErr("failed to check property type usage", err)
	}
	if inUse {
		return errs.Conflict("property type is still referenced by properties")
	}
	types.Remove(t)
	if _, err := u.Save(); err != nil {
		return s.storeErr("failed to delete property type", err)
	}
	s.invalidate(ctx)
	return nil
}

// 房源详情里带类型名，类型变化时一起失效
func (s *PropertyTypeService) invalidate(ctx context.Context) {
	s.cache.RemoveNamespace(ctx, nsPropertyTypes)
	s.cache.RemoveNamespace(ctx, nsProperties)
}
