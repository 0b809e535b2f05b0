package service

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realestate-api/internal/core/errs"
	"realestate-api/internal/domain"
)

func TestPropertyTypeLifecycle(t *testing.T) {
	fx := newFixture(t, nil)

	created, err := fx.svc.Types.Create(fx.ctx, CreatePropertyTypeInput{Name: " Loft "})
	require.NoError(t, err)
	assert.Equal(t, "Loft", created.Name)

	updated, err := fx.svc.Types.Update(fx.ctx, created.ID, UpdatePropertyTypeInput{Description: ptr("open plan")})
	require.NoError(t, err)
	assert.Equal(t, "Loft", updated.Name)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "open plan", *updated.Description)

	require.NoError(t, fx.svc.Types.SoftDelete(fx.ctx, created.ID))
	require.NoError(t, fx.svc.Types.SoftDelete(fx.ctx, created.ID))

	_, err = fx.svc.Types.Get(fx.ctx, created.ID)
	assert.Equal(t, http.StatusGone, errs.CodeOf(err))
	_, err = fx.svc.Types.Update(fx.ctx, created.ID, UpdatePropertyTypeInput{Name: ptr("Studio")})
	assert.Equal(t, http.StatusGone, errs.CodeOf(err))
	_, err = fx.svc.Types.Get(fx.ctx, 999)
	assert.Equal(t, http.StatusNotFound, errs.CodeOf(err))

	deleted, err := fx.svc.Types.List(fx.ctx, ptr(true))
	require.NoError(t, err)
	require.Len(t, deleted, 1)
	assert.True(t, deleted[0].IsDeleted)
}

func TestHardDeleteReferencedType(t *testing.T) {
	fx := newFixture(t, nil)
	agent := fx.user(t, "agent@test.com", domain.RoleAgent)
	apt := fx.propertyType(t, "Apartment", false)
	spare := fx.propertyType(t, "Spare", false)
	fx.property(t, "A", 100, apt.ID, agent.ID)

	assert.Equal(t, http.StatusConflict, errs.CodeOf(fx.svc.Types.HardDelete(fx.ctx, apt.ID)))
	require.NoError(t, fx.svc.Types.HardDelete(fx.ctx, spare.ID))

	n, err := fx.svc.Types.Count(fx.ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestActiveTypeListIsCached(t *testing.T) {
	c, mr := newTestRedis(t)
	fx := newFixture(t, c)
	fx.propertyType(t, "House", false)
	fx.propertyType(t, "Apartment", false)

	list, err := fx.svc.Types.List(fx.ctx, nil)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Apartment", list[0].Name)
	assert.True(t, mr.Exists("test:property-types:active"))

	// 直接写库不会反映到缓存
	fx.propertyType(t, "Land", false)
	list, err = fx.svc.Types.List(fx.ctx, nil)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = fx.svc.Types.Create(fx.ctx, CreatePropertyTypeInput{Name: "Office"})
	require.NoError(t, err)
	assert.False(t, mr.Exists("test:property-types:active"))
	list, err = fx.svc.Types.List(fx.ctx, nil)
	require.NoError(t, err)
	assert.Len(t, list, 4)
}
