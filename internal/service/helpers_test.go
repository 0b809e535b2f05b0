package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"realestate-api/internal/core/auth"
	"realestate-api/internal/core/cache"
	"realestate-api/internal/core/database"
	"realestate-api/internal/domain"
	"realestate-api/internal/repo"
)

type fixture struct {
	db  *gorm.DB
	f   *repo.Factory
	svc *Services
	ctx context.Context
}

func newFixture(t *testing.T, c *cache.Cache) *fixture {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=1",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	f := &repo.Factory{DB: db}
	j := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "realestate-api", Audience: "realestate-clients", TTL: 15 * time.Minute}
	return &fixture{db: db, f: f, svc: New(f, c, j, time.Hour, nil), ctx: context.Background()}
}

func newTestRedis(t *testing.T) (*cache.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := cache.New(mr.Addr(), "", 0)
	c.Prefix = "test:"
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func (fx *fixture) add(t *testing.T, entities ...any) {
	t.Helper()
	for _, e := range entities {
		require.NoError(t, fx.db.Create(e).Error)
	}
}

func (fx *fixture) user(t *testing.T, email, role string) *domain.User {
	t.Helper()
	u := &domain.User{FirstName: "Test", LastName: "User", Email: email, PasswordHash: "x", Role: role, IsAgent: role == domain.RoleAgent}
	fx.add(t, u)
	return u
}

func (fx *fixture) propertyType(t *testing.T, name string, deleted bool) *domain.PropertyType {
	t.Helper()
	pt := &domain.PropertyType{Name: name}
	fx.add(t, pt)
	if deleted {
		require.NoError(t, fx.db.Model(pt).Update("is_deleted", true).Error)
		pt.IsDeleted = true
	}
	return pt
}

func (fx *fixture) property(t *testing.T, title string, price float64, typeID, agentID uint) *domain.Property {
	t.Helper()
	p := &domain.Property{
		Title: title, Description: "a bright place to live", Price: price, Address: "1 Main Street",
		City: "Istanbul", Rooms: 3, Area: 120, YearBuilt: 2010, Status: domain.PropertyAvailable,
		PropertyTypeID: typeID, AgentID: agentID,
	}
	fx.add(t, p)
	return p
}

func (fx *fixture) image(t *testing.T, propertyID uint, order int, primary bool) *domain.PropertyImage {
	t.Helper()
	img := &domain.PropertyImage{ImageURL: fmt.Sprintf("https://img.test/%d-%d.jpg", propertyID, order), DisplayOrder: order, IsPrimary: primary, PropertyID: propertyID}
	fx.add(t, img)
	return img
}

func ptr[V any](v V) *V { return &v }
