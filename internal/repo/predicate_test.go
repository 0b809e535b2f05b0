package repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realestate-api/internal/domain"
)

func emails(users []domain.User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.Email)
	}
	return out
}

func TestPredicateComposition(t *testing.T) {
	db := newTestDB(t)
	seedUsers(t, db, 4)

	u := newUOW(db)
	defer u.Close()
	users := For[domain.User](u)

	first := Eq("email", "u0@test.com")
	second := Eq("email", "u1@test.com")
	third := Eq("email", "u2@test.com")

	got, err := users.GetAll(first.Or(second).Or(third), OrderBy(Asc("email")))
	require.NoError(t, err)
	assert.Equal(t, []string{"u0@test.com", "u1@test.com", "u2@test.com"}, emails(got))

	// (a OR b) AND NOT a
	got, err = users.GetAll(Or(first, second).And(Not(first)))
	require.NoError(t, err)
	assert.Equal(t, []string{"u1@test.com"}, emails(got))

	// 左结合与右结合结果一致
	left, err := users.GetAll(first.Or(second).And(Like("email", "u%")).And(Neq("email", "u1@test.com")))
	require.NoError(t, err)
	right, err := users.GetAll(And(first.Or(second), And(Like("email", "u%"), Neq("email", "u1@test.com"))))
	require.NoError(t, err)
	assert.Equal(t, emails(left), emails(right))
	assert.Equal(t, []string{"u0@test.com"}, emails(left))

	got, err = users.GetAll(Where("first_name = ? OR first_name = ?", "U2", "U3").And(Neq("email", "u3@test.com")))
	require.NoError(t, err)
	assert.Equal(t, []string{"u2@test.com"}, emails(got))
}

func TestPredicateZeroIsIdentity(t *testing.T) {
	p := Eq("id", 1)
	assert.True(t, And().IsZero())
	assert.True(t, Or(Predicate{}, Predicate{}).IsZero())
	assert.Equal(t, p, And(Predicate{}, p))
	assert.Equal(t, p, Predicate{}.Or(p))
	assert.True(t, Not(Predicate{}).IsZero())
	assert.NotNil(t, NotDeleted().Expr())
}

func TestRangePredicates(t *testing.T) {
	db := newTestDB(t)
	seeded := seedUsers(t, db, 5)

	u := newUOW(db)
	defer u.Close()
	n, err := For[domain.User](u).Count(And(Gte("id", seeded[1].ID), Lte("id", seeded[3].ID)))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
