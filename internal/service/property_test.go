package service

import (
	"errors"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"

	"realestate-api/internal/core/errs"
	"realestate-api/internal/domain"
	"realestate-api/internal/repo"
)

func createInput(typeID uint) CreatePropertyInput {
	return CreatePropertyInput{
		Title: "Sea view flat", Description: "two bedrooms close to the coast", Price: 250000,
		Address: "42 Coast Road", City: "Izmir", Rooms: 2, Area: 85, YearBuilt: 2015,
		PropertyTypeID: typeID,
	}
}

func TestCreatePropertyRejectsDeletedType(t *testing.T) {
	fx := newFixture(t, nil)
	agent := fx.user(t, "agent@test.com", domain.RoleAgent)
	villa := fx.propertyType(t, "Villa", true)

	_, err := fx.svc.Properties.Create(fx.ctx, Actor{ID: agent.ID, Role: domain.RoleAgent}, createInput(villa.ID))
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, errs.CodeOf(err))

	_, err = fx.svc.Properties.Create(fx.ctx, Actor{ID: agent.ID, Role: domain.RoleAgent}, createInput(9999))
	assert.Equal(t, http.StatusBadRequest, errs.CodeOf(err))

	n, err := fx.svc.Properties.Count(fx.ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCreateThenGetWithType(t *testing.T) {
	fx := newFixture(t, nil)
	agent := fx.user(t, "agent@test.com", domain.RoleAgent)
	apt := fx.propertyType(t, "Apartment", false)

	created, err := fx.svc.Properties.Create(fx.ctx, Actor{ID: agent.ID, Role: domain.RoleAgent}, createInput(apt.ID))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, domain.PropertyAvailable, created.Status)
	assert.Equal(t, agent.ID, created.AgentID)

	got, err := fx.svc.Properties.Get(fx.ctx, created.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "Sea view flat", got.Title)
	assert.Equal(t, "Apartment", got.PropertyTypeName)
	assert.Equal(t, "Test User", got.AgentName)

	plain, err := fx.svc.Properties.Get(fx.ctx, created.ID, false)
	require.NoError(t, err)
	assert.Empty(t, plain.PropertyTypeName)

	_, err = fx.svc.Properties.Get(fx.ctx, 12345, false)
	assert.Equal(t, http.StatusNotFound, errs.CodeOf(err))
}

func TestSearchPaging(t *testing.T) {
	fx := newFixture(t, nil)
	agent := fx.user(t, "agent@test.com", domain.RoleAgent)
	apt := fx.propertyType(t, "Apartment", false)
	fx.property(t, "A", 100, apt.ID, agent.ID)
	fx.property(t, "B", 200, apt.ID, agent.ID)
	fx.property(t, "C", 300, apt.ID, agent.ID)

	page, err := fx.svc.Properties.Search(fx.ctx, PropertyFilter{
		PageQuery: PageQuery{PageNumber: 2, PageSize: 2},
		SortBy:    "price", SortOrder: "asc",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.TotalCount)
	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.HasPrevious)
	assert.False(t, page.HasNext)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "C", page.Data[0].Title)
}

func TestSearchFilters(t *testing.T) {
	fx := newFixture(t, nil)
	agent := fx.user(t, "agent@test.com", domain.RoleAgent)
	apt := fx.propertyType(t, "Apartment", false)
	house := fx.propertyType(t, "House", false)
	fx.property(t, "Cheap flat", 100, apt.ID, agent.ID)
	fx.property(t, "Big house", 900, house.ID, agent.ID)
	gone := fx.property(t, "Old flat", 150, apt.ID, agent.ID)
	require.NoError(t, fx.svc.Properties.SoftDelete(fx.ctx, Actor{ID: agent.ID, Role: domain.RoleAgent}, gone.ID))

	page, err := fx.svc.Properties.Search(fx.ctx, PropertyFilter{MaxPrice: ptr(500.0), IncludeType: true})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Cheap flat", page.Data[0].Title)
	assert.Equal(t, "Apartment", page.Data[0].PropertyTypeName)

	page, err = fx.svc.Properties.Search(fx.ctx, PropertyFilter{SearchTerm: "house"})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Big house", page.Data[0].Title)

	page, err = fx.svc.Properties.Search(fx.ctx, PropertyFilter{IsDeleted: ptr(true)})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Old flat", page.Data[0].Title)

	list, err := fx.svc.Properties.List(fx.ctx, ListQuery{PropertyTypeID: &house.ID}, repo.Predicate{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Big house", list[0].Title)
}

func TestPropertySoftDeleteIsIdempotent(t *testing.T) {
	fx := newFixture(t, nil)
	agent := fx.user(t, "agent@test.com", domain.RoleAgent)
	apt := fx.propertyType(t, "Apartment", false)
	p := fx.property(t, "A", 100, apt.ID, agent.ID)
	actor := Actor{ID: agent.ID, Role: domain.RoleAgent}

	require.NoError(t, fx.svc.Properties.SoftDelete(fx.ctx, actor, p.ID))
	require.NoError(t, fx.svc.Properties.SoftDelete(fx.ctx, actor, p.ID))

	_, err := fx.svc.Properties.Get(fx.ctx, p.ID, false)
	assert.Equal(t, http.StatusNotFound, errs.CodeOf(err))
	n, err := fx.svc.Properties.Count(fx.ctx, ptr(true))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestAgentUpdateOwnership(t *testing.T) {
	fx := newFixture(t, nil)
	owner := fx.user(t, "owner@test.com", domain.RoleAgent)
	other := fx.user(t, "other@test.com", domain.RoleAgent)
	apt := fx.propertyType(t, "Apartment", false)
	p := fx.property(t, "A", 100, apt.ID, owner.ID)

	_, err := fx.svc.Properties.AgentUpdate(fx.ctx, Actor{ID: other.ID, Role: domain.RoleAgent}, p.ID, AgentUpdatePropertyInput{Price: ptr(1.0)})
	assert.Equal(t, http.StatusForbidden, errs.CodeOf(err))

	sold := domain.PropertySold
	got, err := fx.svc.Properties.AgentUpdate(fx.ctx, Actor{ID: owner.ID, Role: domain.RoleAgent}, p.ID, AgentUpdatePropertyInput{Price: ptr(120.0), Status: &sold})
	require.NoError(t, err)
	assert.Equal(t, 120.0, got.Price)
	assert.Equal(t, domain.PropertySold, got.Status)

	got, err = fx.svc.Properties.AgentUpdate(fx.ctx, Actor{ID: other.ID, Role: domain.RoleAdmin}, p.ID, AgentUpdatePropertyInput{Title: ptr("Renamed")})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
}

func TestAdminUpdateRevalidatesType(t *testing.T) {
	fx := newFixture(t, nil)
	agent := fx.user(t, "agent@test.com", domain.RoleAgent)
	apt := fx.propertyType(t, "Apartment", false)
	villa := fx.propertyType(t, "Villa", true)
	house := fx.propertyType(t, "House", false)
	p := fx.property(t, "A", 100, apt.ID, agent.ID)

	_, err := fx.svc.Properties.AdminUpdate(fx.ctx, p.ID, AdminUpdatePropertyInput{PropertyTypeID: &villa.ID})
	assert.Equal(t, http.StatusBadRequest, errs.CodeOf(err))

	got, err := fx.svc.Properties.AdminUpdate(fx.ctx, p.ID, AdminUpdatePropertyInput{PropertyTypeID: &house.ID, City: ptr("Ankara")})
	require.NoError(t, err)
	assert.Equal(t, house.ID, got.PropertyTypeID)
	assert.Equal(t, "House", got.PropertyTypeName)
	assert.Equal(t, "Ankara", got.City)
}

func TestHardDeleteCascadesChildren(t *testing.T) {
	fx := newFixture(t, nil)
	agent := fx.user(t, "agent@test.com", domain.RoleAgent)
	apt := fx.propertyType(t, "Apartment", false)
	p := fx.property(t, "A", 100, apt.ID, agent.ID)
	fx.image(t, p.ID, 0, true)
	fx.add(t, &domain.Inquiry{Name: "Jo", Email: "jo@test.com", Message: "is this still available?", Status: domain.InquiryNew, PropertyID: p.ID})

	require.NoError(t, fx.svc.Properties.HardDelete(fx.ctx, p.ID))

	var images, inquiries int64
	require.NoError(t, fx.db.Model(&domain.PropertyImage{}).Count(&images).Error)
	require.NoError(t, fx.db.Model(&domain.Inquiry{}).Count(&inquiries).Error)
	assert.Zero(t, images)
	assert.Zero(t, inquiries)

	assert.Equal(t, http.StatusNotFound, errs.CodeOf(fx.svc.Properties.HardDelete(fx.ctx, p.ID)))
}

func TestPropertyDetailIsCached(t *testing.T) {
	c, mr := newTestRedis(t)
	fx := newFixture(t, c)
	agent := fx.user(t, "agent@test.com", domain.RoleAgent)
	apt := fx.propertyType(t, "Apartment", false)
	p := fx.property(t, "A", 100, apt.ID, agent.ID)

	_, err := fx.svc.Properties.Get(fx.ctx, p.ID, true)
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:properties:"+detailKey(p.ID, true)))

	// 绕过服务直接改库，缓存仍返回旧值
	require.NoError(t, fx.db.Model(&domain.Property{}).Where("id = ?", p.ID).Update("title", "Stale").Error)
	got, err := fx.svc.Properties.Get(fx.ctx, p.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Title)

	_, err = fx.svc.Properties.AgentUpdate(fx.ctx, Actor{ID: agent.ID, Role: domain.RoleAgent}, p.ID, AgentUpdatePropertyInput{Price: ptr(150.0)})
	require.NoError(t, err)
	assert.False(t, mr.Exists("test:properties:"+detailKey(p.ID, true)))
	got, err = fx.svc.Properties.Get(fx.ctx, p.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "Stale", got.Title)
	assert.Equal(t, 150.0, got.Price)
}

func TestSoftDeleteDuringDetailLoadIsNotCached(t *testing.T) {
	c, mr := newTestRedis(t)
	fx := newFixture(t, c)
	agent := fx.user(t, "agent@test.com", domain.RoleAgent)
	apt := fx.propertyType(t, "Apartment", false)
	p := fx.property(t, "A", 100, apt.ID, agent.ID)
	key := detailKey(p.ID, false)

	_, err := fx.svc.Properties.Get(fx.ctx, p.ID, false)
	require.NoError(t, err)
	active, ok := c.Get(fx.ctx, nsProperties, key)
	require.True(t, ok)
	c.Remove(fx.ctx, nsProperties, key)

	// 一个读请求在软删之前读到了在架的房源，软删之后才回写
	gen := c.Generation(fx.ctx, nsProperties)
	require.NoError(t, fx.svc.Properties.SoftDelete(fx.ctx, Actor{ID: agent.ID, Role: domain.RoleAgent}, p.ID))
	assert.False(t, c.SetIfGeneration(fx.ctx, nsProperties, key, active, 0, gen))
	assert.False(t, mr.Exists("test:properties:"+key))

	_, err = fx.svc.Properties.Get(fx.ctx, p.ID, false)
	assert.Equal(t, http.StatusNotFound, errs.CodeOf(err))
}

func TestUpdateReloadFailureIsLogged(t *testing.T) {
	fx := newFixture(t, nil)
	agent := fx.user(t, "agent@test.com", domain.RoleAgent)
	apt := fx.propertyType(t, "Apartment", false)
	p := fx.property(t, "A", 100, apt.ID, agent.ID)

	// 更新成功之后的第一次查询失败
	var armed atomic.Bool
	require.NoError(t, fx.db.Callback().Update().After("gorm:update").Register("test:arm", func(*gorm.DB) { armed.Store(true) }))
	require.NoError(t, fx.db.Callback().Query().Before("gorm:query").Register("test:fail", func(tx *gorm.DB) {
		if armed.CompareAndSwap(true, false) {
			_ = tx.AddError(errors.New("connection reset"))
		}
	}))

	core, logs := observer.New(zapcore.WarnLevel)
	svc := NewPropertyService(fx.f, nil, zap.New(core))
	got, err := svc.AgentUpdate(fx.ctx, Actor{ID: agent.ID, Role: domain.RoleAgent}, p.ID, AgentUpdatePropertyInput{Price: ptr(150.0)})
	require.NoError(t, err)
	assert.Equal(t, 150.0, got.Price)

	entries := logs.FilterMessage("reload property after update").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap()["error"], "connection reset")
}
