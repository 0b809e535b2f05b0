package service

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realestate-api/internal/core/errs"
	"realestate-api/internal/domain"
)

func inquiryInput(propertyID uint, email string) CreateInquiryInput {
	return CreateInquiryInput{Name: "Jo Buyer", Email: email, Message: "Is the flat still available?", PropertyID: propertyID}
}

func TestCreateInquiry(t *testing.T) {
	fx := newFixture(t, nil)
	agent := fx.user(t, "agent@test.com", domain.RoleAgent)
	buyer := fx.user(t, "buyer@test.com", domain.RoleUser)
	apt := fx.propertyType(t, "Apartment", false)
	p := fx.property(t, "Sunny flat", 100, apt.ID, agent.ID)
	gone := fx.property(t, "Gone", 100, apt.ID, agent.ID)
	require.NoError(t, fx.db.Model(gone).Update("is_deleted", true).Error)

	got, err := fx.svc.Inquiries.Create(fx.ctx, &buyer.ID, inquiryInput(p.ID, "jo@test.com"))
	require.NoError(t, err)
	assert.Equal(t, domain.InquiryNew, got.Status)
	assert.Equal(t, "Sunny flat", got.PropertyTitle)
	require.NotNil(t, got.UserID)
	assert.Equal(t, buyer.ID, *got.UserID)

	anon, err := fx.svc.Inquiries.Create(fx.ctx, nil, inquiryInput(p.ID, "anon@test.com"))
	require.NoError(t, err)
	assert.Nil(t, anon.UserID)

	_, err = fx.svc.Inquiries.Create(fx.ctx, nil, inquiryInput(gone.ID, "jo@test.com"))
	assert.Equal(t, http.StatusBadRequest, errs.CodeOf(err))
	_, err = fx.svc.Inquiries.Create(fx.ctx, nil, inquiryInput(999, "jo@test.com"))
	assert.Equal(t, http.StatusBadRequest, errs.CodeOf(err))

	fetched, err := fx.svc.Inquiries.Get(fx.ctx, got.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sunny flat", fetched.PropertyTitle)
}

func TestInquirySearchAndStatus(t *testing.T) {
	fx := newFixture(t, nil)
	agent := fx.user(t, "agent@test.com", domain.RoleAgent)
	other := fx.user(t, "other@test.com", domain.RoleAgent)
	apt := fx.propertyType(t, "Apartment", false)
	mine := fx.property(t, "Mine", 100, apt.ID, agent.ID)
	theirs := fx.property(t, "Theirs", 100, apt.ID, other.ID)

	first, err := fx.svc.Inquiries.Create(fx.ctx, nil, inquiryInput(mine.ID, "a@test.com"))
	require.NoError(t, err)
	_, err = fx.svc.Inquiries.Create(fx.ctx, nil, inquiryInput(mine.ID, "b@test.com"))
	require.NoError(t, err)
	_, err = fx.svc.Inquiries.Create(fx.ctx, nil, inquiryInput(theirs.ID, "a@test.com"))
	require.NoError(t, err)

	_, err = fx.svc.Inquiries.UpdateStatus(fx.ctx, first.ID, domain.InquiryStatus(9))
	assert.Equal(t, http.StatusBadRequest, errs.CodeOf(err))
	updated, err := fx.svc.Inquiries.UpdateStatus(fx.ctx, first.ID, domain.InquiryContacted)
	require.NoError(t, err)
	assert.Equal(t, domain.InquiryContacted, updated.Status)

	contacted := domain.InquiryContacted
	page, err := fx.svc.Inquiries.Search(fx.ctx, InquiryFilter{Status: &contacted})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, first.ID, page.Data[0].ID)

	page, err = fx.svc.Inquiries.Search(fx.ctx, InquiryFilter{Email: "a@test.com"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.TotalCount)

	page, err = fx.svc.Inquiries.ListForAgent(fx.ctx, agent.ID, PageQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.TotalCount)

	list, err := fx.svc.Inquiries.List(fx.ctx, &theirs.ID, nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Theirs", list[0].PropertyTitle)
}

func TestInquiryDeletes(t *testing.T) {
	fx := newFixture(t, nil)
	agent := fx.user(t, "agent@test.com", domain.RoleAgent)
	apt := fx.propertyType(t, "Apartment", false)
	p := fx.property(t, "A", 100, apt.ID, agent.ID)
	i, err := fx.svc.Inquiries.Create(fx.ctx, nil, inquiryInput(p.ID, "a@test.com"))
	require.NoError(t, err)

	require.NoError(t, fx.svc.Inquiries.SoftDelete(fx.ctx, i.ID))
	require.NoError(t, fx.svc.Inquiries.SoftDelete(fx.ctx, i.ID))
	_, err = fx.svc.Inquiries.Get(fx.ctx, i.ID)
	assert.Equal(t, http.StatusNotFound, errs.CodeOf(err))

	active, err := fx.svc.Inquiries.Count(fx.ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, active)
	deleted, err := fx.svc.Inquiries.Count(fx.ctx, ptr(true))
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	require.NoError(t, fx.svc.Inquiries.HardDelete(fx.ctx, i.ID))
	assert.Equal(t, http.StatusNotFound, errs.CodeOf(fx.svc.Inquiries.HardDelete(fx.ctx, i.ID)))
}
