package customer_test

import (
	"testing"
	"time"

	"kyc-onboarding/internal/domain/customer"
	"kyc-onboarding/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomer(t *testing.T) {
	timeBefore := time.Now()
	cust := customer.NewCustomer("user-1", "  Alice@Example.COM ", " Alice Wonderland ")
	timeAfter := time.Now()

	assert.Equal(t, "user-1", cust.UserID)
	assert.Equal(t, "alice@example.com", cust.Email)
	assert.Equal(t, "Alice Wonderland", cust.FullName)
	assert.Equal(t, customer.StatusDraft, cust.Status, "New customer should start as DRAFT")
	assert.Equal(t, cust.CreatedAt, cust.UpdatedAt)
	assert.True(t, !cust.CreatedAt.Before(timeBefore) && !cust.CreatedAt.After(timeAfter), "CreatedAt should be around the time of creation")
	assert.Nil(t, cust.DecisionDate)
	assert.Equal(t, int64(0), cust.ID)
}

func TestCustomer_Lifecycle(t *testing.T) {
	now := time.Date(2024, time.May, 2, 9, 0, 0, 0, time.UTC)

	t.Run("Submit moves to PENDING", func(t *testing.T) {
		cust := customer.NewCustomer("u", "a@b.c", "A")
		cust.Submit(now)
		assert.Equal(t, customer.StatusPending, cust.Status)
		require.NotNil(t, cust.SubmittedAt)
		assert.Equal(t, now, *cust.SubmittedAt)
	})

	t.Run("Approve stamps decision and approver", func(t *testing.T) {
		cust := customer.NewCustomer("u", "a@b.c", "A")
		cust.Submit(now)
		cust.Approve("emp-1", now)
		assert.Equal(t, customer.StatusApproved, cust.Status)
		assert.Equal(t, now, *cust.DecisionDate)
		assert.Equal(t, "emp-1", *cust.ApprovedBy)
		assert.Nil(t, cust.RejectionReason)
	})

	t.Run("Reject requires a reason of ten characters", func(t *testing.T) {
		cust := customer.NewCustomer("u", "a@b.c", "A")
		err := cust.Reject("emp-1", " too short", now)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		assert.Equal(t, customer.StatusDraft, cust.Status)
	})

	t.Run("Reject stores the trimmed reason", func(t *testing.T) {
		cust := customer.NewCustomer("u", "a@b.c", "A")
		cust.Approve("emp-1", now)
		require.NoError(t, cust.Reject("emp-2", "  Document mismatch  ", now))
		assert.Equal(t, customer.StatusRejected, cust.Status)
		assert.Equal(t, "Document mismatch", *cust.RejectionReason)
		assert.Equal(t, "emp-2", *cust.RejectedBy)
		assert.Nil(t, cust.ApprovedBy)
	})
}

func TestCustomer_ApplyProfile(t *testing.T) {
	now := time.Now()
	cust := customer.NewCustomer("u", "a@b.c", "A")
	created := cust.UpdatedAt

	income := decimal.NewFromInt(42000)
	employment := " full_time "
	name := "A"
	changed := cust.ApplyProfile(customer.Profile{
		FullName:         &name,
		AnnualIncome:     &income,
		EmploymentStatus: &employment,
	}, now.Add(time.Minute))

	assert.True(t, changed)
	assert.True(t, cust.AnnualIncome.Valid)
	assert.True(t, cust.AnnualIncome.Decimal.Equal(income))
	assert.Equal(t, "FULL_TIME", cust.EmploymentStatus)
	assert.True(t, cust.UpdatedAt.After(created))

	assert.False(t, cust.ApplyProfile(customer.Profile{FullName: &name, AnnualIncome: &income}, now.Add(2*time.Minute)),
		"identical values should not count as a change")
}

func TestCustomer_RiskInputTreatsMissingAmountsAsZero(t *testing.T) {
	cust := customer.NewCustomer("u", "a@b.c", "A")
	in := cust.RiskInput()
	assert.True(t, in.AnnualIncome.IsZero())
	assert.True(t, in.InitialDeposit.IsZero())
}

func TestListFilter_Normalize(t *testing.T) {
	f := customer.ListFilter{Page: 0, Limit: 500, SortBy: "email"}
	f.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, customer.MaxLimit, f.Limit)
	assert.Equal(t, customer.SortByCreatedAt, f.SortBy)

	f = customer.ListFilter{Page: 3, Limit: 0, SortBy: customer.SortByName}
	f.Normalize()
	assert.Equal(t, customer.DefaultLimit, f.Limit)
	assert.Equal(t, 40, f.Offset())
	assert.Equal(t, customer.SortByName, f.SortBy)
}

func TestParseStatus(t *testing.T) {
	st, ok := customer.ParseStatus("approved")
	assert.True(t, ok)
	assert.Equal(t, customer.StatusApproved, st)

	_, ok = customer.ParseStatus("ARCHIVED")
	assert.False(t, ok)
}
