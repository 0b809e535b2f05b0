package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRefreshTokenActive(t *testing.T) {
	now := time.Now()

	tok := &RefreshToken{ExpiryDate: now.Add(time.Hour)}
	assert.False(t, tok.IsExpired(now))
	assert.True(t, tok.IsActive(now))

	tok.Revoke("User logout", "")
	assert.False(t, tok.IsActive(now))
	assert.Equal(t, "User logout", *tok.ReasonRevoked)
	assert.Nil(t, tok.ReplacedByToken)

	// 到期时刻即视为过期
	exp := &RefreshToken{ExpiryDate: now}
	assert.True(t, exp.IsExpired(now))
	assert.False(t, exp.IsActive(now))
}

func TestStatusValid(t *testing.T) {
	assert.True(t, PropertySold.Valid())
	assert.False(t, PropertyStatus(0).Valid())
	assert.False(t, PropertyStatus(5).Valid())
	assert.Equal(t, "Rented", PropertyRented.String())

	assert.True(t, InquiryClosed.Valid())
	assert.False(t, InquiryStatus(9).Valid())
	assert.Equal(t, "Contacted", InquiryContacted.String())
}

func TestBaseAccessors(t *testing.T) {
	var e Entity = &Property{Base: Base{ID: 7}}
	assert.False(t, e.Deleted())
	e.MarkDeleted()
	assert.True(t, e.Deleted())
	assert.True(t, ValidRole(RoleAgent))
	assert.False(t, ValidRole("agent"))
}
