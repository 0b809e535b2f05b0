package repo

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"realestate-api/internal/core/database"
	"realestate-api/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func newUOW(db *gorm.DB) *UnitOfWork { return NewUnitOfWork(context.Background(), db, nil) }

func seedUsers(t *testing.T, db *gorm.DB, n int) []domain.User {
	t.Helper()
	u := newUOW(db)
	defer u.Close()
	users := make([]domain.User, n)
	for i := range users {
		users[i] = domain.User{FirstName: fmt.Sprintf("U%d", i), LastName: "Test", Email: fmt.Sprintf("u%d@test.com", i), PasswordHash: "x", Role: domain.RoleUser}
		For[domain.User](u).Add(&users[i])
	}
	_, err := u.Save()
	require.NoError(t, err)
	return users
}
