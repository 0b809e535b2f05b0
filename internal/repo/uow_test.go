package repo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"realestate-api/internal/domain"
)

func TestSaveIsAllOrNothing(t *testing.T) {
	db := newTestDB(t)
	seedUsers(t, db, 1)

	u := newUOW(db)
	defer u.Close()
	users := For[domain.User](u)
	users.Add(&domain.User{FirstName: "N", LastName: "N", Email: "new@test.com", PasswordHash: "x"})
	users.Add(&domain.User{FirstName: "D", LastName: "D", Email: "u0@test.com", PasswordHash: "x"})

	_, err := u.Save()
	require.Error(t, err)
	assert.Zero(t, u.Pending())

	ok, err := users.Exists(Eq("email", "new@test.com"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRepositoriesShareSession(t *testing.T) {
	db := newTestDB(t)
	u := newUOW(db)
	defer u.Close()

	agent := &domain.User{FirstName: "A", LastName: "A", Email: "a@test.com", PasswordHash: "x", Role: domain.RoleAgent}
	For[domain.User](u).Add(agent)
	typ := &domain.PropertyType{Name: "Flat"}
	For[domain.PropertyType](u).Add(typ)
	assert.Equal(t, 2, u.Pending())

	n, err := u.Save()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NotZero(t, agent.ID)
	assert.NotZero(t, typ.ID)
}

func TestExplicitTransactionCommit(t *testing.T) {
	db := newTestDB(t)
	u := newUOW(db)
	defer u.Close()

	require.NoError(t, u.Begin())
	assert.ErrorIs(t, u.Begin(), ErrTxActive)

	types := For[domain.PropertyType](u)
	types.Add(&domain.PropertyType{Name: "Flat"})
	_, err := u.Save()
	require.NoError(t, err)
	types.Add(&domain.PropertyType{Name: "Villa"})
	require.NoError(t, u.Commit())
	assert.False(t, u.InTransaction())

	n, err := types.Count(Predicate{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestExplicitTransactionRollback(t *testing.T) {
	db := newTestDB(t)
	u := newUOW(db)
	defer u.Close()

	require.NoError(t, u.Begin())
	types := For[domain.PropertyType](u)
	types.Add(&domain.PropertyType{Name: "Flat"})
	_, err := u.Save()
	require.NoError(t, err)
	types.Add(&domain.PropertyType{Name: "Villa"})
	require.NoError(t, u.Rollback())
	assert.Zero(t, u.Pending())

	n, err := types.CountAll()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCommitFailureRollsBack(t *testing.T) {
	db := newTestDB(t)
	seedUsers(t, db, 1)

	u := newUOW(db)
	defer u.Close()
	require.NoError(t, u.Begin())
	users := For[domain.User](u)
	users.Add(&domain.User{FirstName: "N", LastName: "N", Email: "first@test.com", PasswordHash: "x"})
	_, err := u.Save()
	require.NoError(t, err)

	users.Add(&domain.User{FirstName: "D", LastName: "D", Email: "u0@test.com", PasswordHash: "x"})
	err = u.Commit()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataAccess)
	assert.False(t, u.InTransaction())

	ok, err := users.Exists(Eq("email", "first@test.com"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCommitWithoutBegin(t *testing.T) {
	u := newUOW(newTestDB(t))
	defer u.Close()
	assert.ErrorIs(t, u.Commit(), ErrNoTransaction)
	assert.NoError(t, u.Rollback())
}

func TestCloseReleasesOpenTransaction(t *testing.T) {
	db := newTestDB(t)
	u := newUOW(db)
	require.NoError(t, u.Begin())
	For[domain.PropertyType](u).Add(&domain.PropertyType{Name: "Flat"})
	_, err := u.Save()
	require.NoError(t, err)
	u.Close()
	u.Close()

	_, err = u.Save()
	assert.ErrorIs(t, err, ErrClosed)

	var n int64
	require.NoError(t, db.Model(&domain.PropertyType{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestBatchUpdateFailsAsAWhole(t *testing.T) {
	db := newTestDB(t)
	seeded := seedUsers(t, db, 3)

	// 第二次 update 时注入失败
	calls := 0
	boom := errors.New("boom")
	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("test:fail_second", func(tx *gorm.DB) {
		if tx.Statement.Table == "users" {
			calls++
			if calls == 2 {
				_ = tx.AddError(boom)
			}
		}
	}))

	u := newUOW(db)
	defer u.Close()
	users := For[domain.User](u)
	batch := make([]*domain.User, 0, len(seeded))
	for i := range seeded {
		seeded[i].FirstName = "changed"
		batch = append(batch, &seeded[i])
	}
	users.BatchUpdate(batch)
	_, err := u.Save()
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	n, err := users.Count(Eq("first_name", "changed"))
	require.NoError(t, err)
	assert.Zero(t, n)
}
