package customer_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"kyc-onboarding/internal/domain/audit"
	"kyc-onboarding/internal/domain/customer"
	"kyc-onboarding/internal/domain/identity"
	"kyc-onboarding/internal/domain/review"
	"kyc-onboarding/internal/domain/risk"
	"kyc-onboarding/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	employee = identity.Identity{UserID: "emp-1", Role: identity.RoleEmployee}
	owner    = identity.Identity{UserID: "user-1", Role: identity.RoleCustomer}
	stranger = identity.Identity{UserID: "user-2", Role: identity.RoleCustomer}
)

type fixture struct {
	repo      *customer.MockCustomerRepository
	riskRepo  *customer.MockRiskRepository
	scheduler *customer.MockScheduler
	passwords *customer.MockPasswordChanger
	auditor   *customer.RecordingAuditor
	service   customer.CustomerService
}

func setupTest() *fixture {
	f := &fixture{
		repo:      new(customer.MockCustomerRepository),
		riskRepo:  new(customer.MockRiskRepository),
		scheduler: new(customer.MockScheduler),
		passwords: new(customer.MockPasswordChanger),
		auditor:   &customer.RecordingAuditor{},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.service = customer.NewCustomerService(customer.Dependencies{
		Repo:      f.repo,
		RiskRepo:  f.riskRepo,
		Scheduler: f.scheduler,
		Passwords: f.passwords,
		Audit:     f.auditor,
	}, logger)
	return f
}

func draftCustomer() *customer.Customer {
	return &customer.Customer{
		ID:        7,
		UserID:    owner.UserID,
		Email:     "owner@example.com",
		FullName:  "Owner Person",
		Status:    customer.StatusDraft,
		CreatedAt: time.Now().Add(-time.Hour),
	}
}

func TestCustomerService_CreateForUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := setupTest()
		f.repo.On("Create", ctx, mock.MatchedBy(func(c *customer.Customer) bool {
			if c.UserID == "user-1" && c.Status == customer.StatusDraft && c.Email == "new@example.com" {
				c.ID = 11
				return true
			}
			return false
		})).Return(nil).Once()

		cust, err := f.service.CreateForUser(ctx, "user-1", "New@Example.com", "New Person")

		require.NoError(t, err)
		assert.Equal(t, int64(11), cust.ID)
		assert.Equal(t, []string{audit.ActionCustomerRegistered}, f.auditor.Actions())
		f.repo.AssertExpectations(t)
	})

	t.Run("Duplicate is a conflict", func(t *testing.T) {
		f := setupTest()
		f.repo.On("Create", ctx, mock.Anything).Return(apperrors.ErrAlreadyExists).Once()

		_, err := f.service.CreateForUser(ctx, "user-1", "dup@example.com", "Dup")

		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("Missing email", func(t *testing.T) {
		f := setupTest()
		_, err := f.service.CreateForUser(ctx, "user-1", " ", "Someone")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestCustomerService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("Owner submits and score is recalculated", func(t *testing.T) {
		f := setupTest()
		cust := draftCustomer()
		cust.AnnualIncome = decimal.NewNullDecimal(decimal.NewFromInt(20000))

		f.repo.On("FindByID", ctx, int64(7)).Return(cust, nil).Once()
		f.repo.On("Save", ctx, mock.MatchedBy(func(c *customer.Customer) bool {
			return c.Status == customer.StatusPending && c.SubmittedAt != nil
		})).Return(nil).Once()
		f.riskRepo.On("Upsert", ctx, mock.MatchedBy(func(s *risk.Score) bool {
			return s.CustomerID == 7 && s.Factors.Income == 10
		})).Return(nil).Once()

		got, err := f.service.Submit(ctx, owner, 7)

		require.NoError(t, err)
		assert.Equal(t, customer.StatusPending, got.Status)
		assert.Contains(t, f.auditor.Actions(), audit.ActionCustomerSubmitted)
		f.repo.AssertExpectations(t)
		f.riskRepo.AssertExpectations(t)
	})

	t.Run("Score failure does not fail submission", func(t *testing.T) {
		f := setupTest()
		f.repo.On("FindByID", ctx, int64(7)).Return(draftCustomer(), nil).Once()
		f.repo.On("Save", ctx, mock.Anything).Return(nil).Once()
		f.riskRepo.On("Upsert", ctx, mock.Anything).Return(apperrors.ErrDatabase).Once()

		got, err := f.service.Submit(ctx, owner, 7)

		require.NoError(t, err)
		assert.Equal(t, customer.StatusPending, got.Status)
	})

	t.Run("Employee cannot submit on behalf of customer", func(t *testing.T) {
		f := setupTest()
		f.repo.On("FindByID", ctx, int64(7)).Return(draftCustomer(), nil).Once()

		_, err := f.service.Submit(ctx, employee, 7)

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestCustomerService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Owner reads own record", func(t *testing.T) {
		f := setupTest()
		f.repo.On("FindByID", ctx, int64(7)).Return(draftCustomer(), nil).Once()

		got, err := f.service.Get(ctx, owner, 7)

		require.NoError(t, err)
		assert.Equal(t, int64(7), got.ID)
	})

	t.Run("Employee reads any record", func(t *testing.T) {
		f := setupTest()
		f.repo.On("FindByID", ctx, int64(7)).Return(draftCustomer(), nil).Once()

		_, err := f.service.Get(ctx, employee, 7)

		require.NoError(t, err)
	})

	t.Run("Another customer is forbidden and gets no data", func(t *testing.T) {
		f := setupTest()
		f.repo.On("FindByID", ctx, int64(7)).Return(draftCustomer(), nil).Once()

		got, err := f.service.Get(ctx, stranger, 7)

		assert.Nil(t, got)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("Not found", func(t *testing.T) {
		f := setupTest()
		f.repo.On("FindByID", ctx, int64(8)).Return(nil, apperrors.ErrNotFound).Once()

		_, err := f.service.Get(ctx, employee, 8)

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("Non-positive id is a validation error", func(t *testing.T) {
		f := setupTest()
		_, err := f.service.Get(ctx, employee, 0)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})
}

func TestCustomerService_GetForUser(t *testing.T) {
	ctx := context.Background()
	f := setupTest()
	f.repo.On("FindByUserID", ctx, owner.UserID).Return(draftCustomer(), nil).Once()

	got, err := f.service.GetForUser(ctx, owner)

	require.NoError(t, err)
	assert.Equal(t, owner.UserID, got.UserID)

	_, err = f.service.GetForUser(ctx, identity.Identity{})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestCustomerService_Update(t *testing.T) {
	ctx := context.Background()
	address := "1 New Street"

	t.Run("Profile update without password", func(t *testing.T) {
		f := setupTest()
		f.repo.On("FindByID", ctx, int64(7)).Return(draftCustomer(), nil).Once()
		f.repo.On("Save", ctx, mock.MatchedBy(func(c *customer.Customer) bool {
			return c.Address == address
		})).Return(nil).Once()

		got, err := f.service.Update(ctx, owner, 7, customer.UpdateInput{Profile: customer.Profile{Address: &address}})

		require.NoError(t, err)
		assert.Equal(t, address, got.Address)
		f.passwords.AssertNotCalled(t, "ChangePassword", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Password change verifies first and commits after the profile save", func(t *testing.T) {
		f := setupTest()
		var calls []string
		f.repo.On("FindByID", ctx, int64(7)).Return(draftCustomer(), nil).Once()
		f.passwords.On("VerifyPassword", ctx, owner.UserID, "old-secret").
			Run(func(mock.Arguments) { calls = append(calls, "verify") }).Return(nil).Once()
		f.repo.On("Save", ctx, mock.Anything).
			Run(func(mock.Arguments) { calls = append(calls, "save") }).Return(nil).Once()
		f.passwords.On("ChangePassword", ctx, owner.UserID, "old-secret", "new-secret-1").
			Run(func(mock.Arguments) { calls = append(calls, "change") }).Return(nil).Once()

		_, err := f.service.Update(ctx, owner, 7, customer.UpdateInput{
			Profile:         customer.Profile{Address: &address},
			CurrentPassword: "old-secret",
			NewPassword:     "new-secret-1",
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"verify", "save", "change"}, calls)
		assert.Contains(t, f.auditor.Actions(), audit.ActionPasswordChanged)
		f.passwords.AssertExpectations(t)
	})

	t.Run("Failed profile save leaves the password unchanged", func(t *testing.T) {
		f := setupTest()
		f.repo.On("FindByID", ctx, int64(7)).Return(draftCustomer(), nil).Once()
		f.passwords.On("VerifyPassword", ctx, owner.UserID, "old-secret").Return(nil).Once()
		f.repo.On("Save", ctx, mock.Anything).Return(fmt.Errorf("%w: connection reset", apperrors.ErrDatabase)).Once()

		_, err := f.service.Update(ctx, owner, 7, customer.UpdateInput{
			Profile:         customer.Profile{Address: &address},
			CurrentPassword: "old-secret",
			NewPassword:     "new-secret-1",
		})

		assert.ErrorIs(t, err, apperrors.ErrDatabase)
		f.passwords.AssertNotCalled(t, "ChangePassword", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		assert.NotContains(t, f.auditor.Actions(), audit.ActionPasswordChanged)
	})

	t.Run("Password-only change skips the profile save", func(t *testing.T) {
		f := setupTest()
		f.repo.On("FindByID", ctx, int64(7)).Return(draftCustomer(), nil).Once()
		f.passwords.On("VerifyPassword", ctx, owner.UserID, "old-secret").Return(nil).Once()
		f.passwords.On("ChangePassword", ctx, owner.UserID, "old-secret", "new-secret-1").Return(nil).Once()

		_, err := f.service.Update(ctx, owner, 7, customer.UpdateInput{CurrentPassword: "old-secret", NewPassword: "new-secret-1"})

		require.NoError(t, err)
		f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.passwords.AssertExpectations(t)
	})

	t.Run("Wrong current password is an authorization error and nothing is saved", func(t *testing.T) {
		f := setupTest()
		f.repo.On("FindByID", ctx, int64(7)).Return(draftCustomer(), nil).Once()
		f.passwords.On("VerifyPassword", ctx, owner.UserID, "wrong").Return(apperrors.Forbidden("current password is incorrect")).Once()

		_, err := f.service.Update(ctx, owner, 7, customer.UpdateInput{
			Profile:         customer.Profile{Address: &address},
			CurrentPassword: "wrong",
			NewPassword:     "new-secret-1",
		})

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.passwords.AssertNotCalled(t, "ChangePassword", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("New password without current password is rejected", func(t *testing.T) {
		f := setupTest()
		f.repo.On("FindByID", ctx, int64(7)).Return(draftCustomer(), nil).Once()

		_, err := f.service.Update(ctx, owner, 7, customer.UpdateInput{NewPassword: "new-secret-1"})

		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("Another customer cannot update", func(t *testing.T) {
		f := setupTest()
		f.repo.On("FindByID", ctx, int64(7)).Return(draftCustomer(), nil).Once()

		_, err := f.service.Update(ctx, stranger, 7, customer.UpdateInput{Profile: customer.Profile{Address: &address}})

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})
}

func TestCustomerService_Approve(t *testing.T) {
	ctx := context.Background()

	t.Run("Approval triggers review scheduling", func(t *testing.T) {
		f := setupTest()
		cust := draftCustomer()
		cust.Status = customer.StatusPending

		f.repo.On("FindByID", ctx, int64(7)).Return(cust, nil).Once()
		f.repo.On("Save", ctx, mock.MatchedBy(func(c *customer.Customer) bool {
			return c.Status == customer.StatusApproved && c.DecisionDate != nil && *c.ApprovedBy == "emp-1"
		})).Return(nil).Once()
		f.scheduler.On("EnsureAfterApproval", ctx, int64(7), mock.AnythingOfType("*time.Time")).
			Return(&review.BackfillResult{CustomerReviewCreated: true, Created: 2}, nil).Once()

		res, err := f.service.Approve(ctx, employee, 7)

		require.NoError(t, err)
		assert.Equal(t, customer.StatusApproved, res.Customer.Status)
		require.NotNil(t, res.Reviews)
		assert.True(t, res.Reviews.CustomerReviewCreated)
		assert.Equal(t, 2, res.Reviews.Created)
		assert.Contains(t, f.auditor.Actions(), audit.ActionCustomerApproved)
		f.scheduler.AssertExpectations(t)
	})

	t.Run("Scheduling failure does not undo the approval", func(t *testing.T) {
		f := setupTest()
		f.repo.On("FindByID", ctx, int64(7)).Return(draftCustomer(), nil).Once()
		f.repo.On("Save", ctx, mock.Anything).Return(nil).Once()
		f.scheduler.On("EnsureAfterApproval", ctx, int64(7), mock.Anything).Return(nil, errors.New("db down")).Once()

		res, err := f.service.Approve(ctx, employee, 7)

		require.NoError(t, err)
		assert.Nil(t, res.Reviews)
		assert.Equal(t, customer.StatusApproved, res.Customer.Status)
	})

	t.Run("Customer cannot approve", func(t *testing.T) {
		f := setupTest()
		_, err := f.service.Approve(ctx, owner, 7)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		f.repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("Save failure is returned without scheduling", func(t *testing.T) {
		f := setupTest()
		f.repo.On("FindByID", ctx, int64(7)).Return(draftCustomer(), nil).Once()
		f.repo.On("Save", ctx, mock.Anything).Return(apperrors.ErrDatabase).Once()

		_, err := f.service.Approve(ctx, employee, 7)

		assert.ErrorIs(t, err, apperrors.ErrDatabase)
		f.scheduler.AssertNotCalled(t, "EnsureAfterApproval", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCustomerService_Reject(t *testing.T) {
	ctx := context.Background()

	t.Run("Short reason is rejected before loading", func(t *testing.T) {
		f := setupTest()
		_, err := f.service.Reject(ctx, employee, 7, "too short")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		f.repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("Success", func(t *testing.T) {
		f := setupTest()
		f.repo.On("FindByID", ctx, int64(7)).Return(draftCustomer(), nil).Once()
		f.repo.On("Save", ctx, mock.MatchedBy(func(c *customer.Customer) bool {
			return c.Status == customer.StatusRejected && *c.RejectionReason == "ID document expired"
		})).Return(nil).Once()

		got, err := f.service.Reject(ctx, employee, 7, "ID document expired")

		require.NoError(t, err)
		assert.NotNil(t, got.DecisionDate)
		assert.Contains(t, f.auditor.Actions(), audit.ActionCustomerRejected)
	})

	t.Run("Customer cannot reject", func(t *testing.T) {
		f := setupTest()
		_, err := f.service.Reject(ctx, owner, 7, "ID document expired")
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})
}

func TestCustomerService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("Applies defaults and returns totals", func(t *testing.T) {
		f := setupTest()
		items := []*customer.ListItem{{Customer: draftCustomer(), Risk: &risk.Score{CustomerID: 7, Value: 30}}}
		f.repo.On("List", ctx, mock.MatchedBy(func(lf customer.ListFilter) bool {
			return lf.Page == 1 && lf.Limit == 20 && lf.SortBy == customer.SortByCreatedAt
		})).Return(items, 41, nil).Once()

		res, err := f.service.List(ctx, customer.ListFilter{})

		require.NoError(t, err)
		assert.Equal(t, 41, res.Total)
		assert.Len(t, res.Items, 1)
		assert.Equal(t, risk.LevelMedium, res.Items[0].Risk.Level())
	})

	t.Run("Inverted date range", func(t *testing.T) {
		f := setupTest()
		from := time.Now()
		to := from.Add(-time.Hour)

		_, err := f.service.List(ctx, customer.ListFilter{From: &from, To: &to})

		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})
}

func TestCustomerService_CalculateRiskScore(t *testing.T) {
	ctx := context.Background()

	t.Run("Employee recalculates and stores the score", func(t *testing.T) {
		f := setupTest()
		dob := time.Now().AddDate(-20, 0, -1)
		cust := draftCustomer()
		cust.DateOfBirth = &dob
		cust.AnnualIncome = decimal.NewNullDecimal(decimal.NewFromInt(20000))
		cust.EmploymentStatus = "UNEMPLOYED"
		cust.AccountType = "CHECKING"
		cust.InitialDeposit = decimal.NewNullDecimal(decimal.NewFromInt(500))

		f.repo.On("FindByID", ctx, int64(7)).Return(cust, nil).Once()
		f.riskRepo.On("Upsert", ctx, mock.AnythingOfType("*risk.Score")).Return(nil).Once()

		score, err := f.service.CalculateRiskScore(ctx, employee, 7)

		require.NoError(t, err)
		assert.Equal(t, 42, score.Value)
		assert.Equal(t, risk.LevelHigh, score.Level())
		assert.Contains(t, f.auditor.Actions(), audit.ActionRiskScoreCalculated)
	})

	t.Run("Customer cannot calculate", func(t *testing.T) {
		f := setupTest()
		_, err := f.service.CalculateRiskScore(ctx, owner, 7)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("Get returns not found when never scored", func(t *testing.T) {
		f := setupTest()
		f.riskRepo.On("FindByCustomerID", ctx, int64(7)).Return(nil, apperrors.ErrNotFound).Once()

		_, err := f.service.GetRiskScore(ctx, 7)

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}
