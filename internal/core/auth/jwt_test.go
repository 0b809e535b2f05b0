package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJWTer() *JWTer {
	return &JWTer{Secret: []byte("test-secret"), Issuer: "realestate", Audience: "realestate-clients", TTL: 30 * time.Minute}
}

func TestIssueAndParse(t *testing.T) {
	j := newJWTer()
	tok, exp, err := j.Issue(Identity{ID: 42, Email: "agent@test.com", FirstName: "Ada", LastName: "Agent", Role: "Agent", IsAgent: true})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), exp, 5*time.Second)

	c, err := j.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, uint(42), c.UserID())
	assert.Equal(t, "Agent", c.Role)
	assert.Equal(t, "Ada Agent", c.Name)
	assert.True(t, c.IsAgent)
}

func TestParseRejects(t *testing.T) {
	j := newJWTer()
	tok, _, err := j.Issue(Identity{ID: 1, Role: "User"})
	require.NoError(t, err)

	other := newJWTer()
	other.Secret = []byte("another")
	_, err = other.Parse(tok)
	assert.Error(t, err)

	wrongAud := newJWTer()
	wrongAud.Audience = "someone-else"
	_, err = wrongAud.Parse(tok)
	assert.Error(t, err)

	expired := newJWTer()
	expired.Now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = expired.Parse(tok)
	assert.Error(t, err)

	_, err = j.Parse("not-a-token")
	assert.Error(t, err)
}

func TestRefreshTokenIsRandom(t *testing.T) {
	a, err := NewRefreshToken()
	require.NoError(t, err)
	b, err := NewRefreshToken()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 86)
}

func TestClaimsUserIDInvalid(t *testing.T) {
	assert.Zero(t, (&Claims{UID: "abc"}).UserID())
}
