package customer

import (
	"context"
	"sync"
	"time"

	"kyc-onboarding/internal/domain/audit"
	"kyc-onboarding/internal/domain/review"
	"kyc-onboarding/internal/domain/risk"

	"github.com/stretchr/testify/mock"
)

type MockCustomerRepository struct {
	mock.Mock
}

var _ Repository = (*MockCustomerRepository)(nil)

func (_m *MockCustomerRepository) Create(ctx context.Context, cust *Customer) error {
	ret := _m.Called(ctx, cust)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *Customer) error); ok {
		r0 = rf(ctx, cust)
	} else {
		r0 = ret.Error(0)
	}
	return r0
}

func (_m *MockCustomerRepository) FindByID(ctx context.Context, id int64) (*Customer, error) {
	ret := _m.Called(ctx, id)

	var r0 *Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Customer)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) FindByUserID(ctx context.Context, userID string) (*Customer, error) {
	ret := _m.Called(ctx, userID)

	var r0 *Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Customer)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) Save(ctx context.Context, cust *Customer) error {
	ret := _m.Called(ctx, cust)
	return ret.Error(0)
}

func (_m *MockCustomerRepository) List(ctx context.Context, f ListFilter) ([]*ListItem, int, error) {
	ret := _m.Called(ctx, f)

	var r0 []*ListItem
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*ListItem)
	}
	return r0, ret.Int(1), ret.Error(2)
}

type MockRiskRepository struct {
	mock.Mock
}

var _ risk.Repository = (*MockRiskRepository)(nil)

func (_m *MockRiskRepository) Upsert(ctx context.Context, score *risk.Score) error {
	ret := _m.Called(ctx, score)
	return ret.Error(0)
}

func (_m *MockRiskRepository) FindByCustomerID(ctx context.Context, customerID int64) (*risk.Score, error) {
	ret := _m.Called(ctx, customerID)

	var r0 *risk.Score
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*risk.Score)
	}
	return r0, ret.Error(1)
}

type MockScheduler struct {
	mock.Mock
}

var _ review.Scheduler = (*MockScheduler)(nil)

func (_m *MockScheduler) EnsureAfterApproval(ctx context.Context, customerID int64, decisionDate *time.Time) (*review.BackfillResult, error) {
	ret := _m.Called(ctx, customerID, decisionDate)

	var r0 *review.BackfillResult
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*review.BackfillResult)
	}
	return r0, ret.Error(1)
}

func (_m *MockScheduler) Backfill(ctx context.Context) (*review.BackfillResult, error) {
	ret := _m.Called(ctx)

	var r0 *review.BackfillResult
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*review.BackfillResult)
	}
	return r0, ret.Error(1)
}

func (_m *MockScheduler) Complete(ctx context.Context, reviewID int64, c review.Completion) (*review.Review, *review.Review, error) {
	ret := _m.Called(ctx, reviewID, c)

	var r0, r1 *review.Review
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*review.Review)
	}
	if ret.Get(1) != nil {
		r1 = ret.Get(1).(*review.Review)
	}
	return r0, r1, ret.Error(2)
}

func (_m *MockScheduler) ListUpcoming(ctx context.Context, from, to *time.Time) ([]*review.Scheduled, error) {
	ret := _m.Called(ctx, from, to)

	var r0 []*review.Scheduled
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*review.Scheduled)
	}
	return r0, ret.Error(1)
}

func (_m *MockScheduler) ListOverdue(ctx context.Context) ([]*review.Scheduled, error) {
	ret := _m.Called(ctx)

	var r0 []*review.Scheduled
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*review.Scheduled)
	}
	return r0, ret.Error(1)
}

func (_m *MockScheduler) ListForCustomer(ctx context.Context, customerID int64) ([]*review.Review, error) {
	ret := _m.Called(ctx, customerID)

	var r0 []*review.Review
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*review.Review)
	}
	return r0, ret.Error(1)
}

func (_m *MockScheduler) ListHistory(ctx context.Context, customerID int64) ([]*review.Review, error) {
	ret := _m.Called(ctx, customerID)

	var r0 []*review.Review
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*review.Review)
	}
	return r0, ret.Error(1)
}

type MockPasswordChanger struct {
	mock.Mock
}

func (_m *MockPasswordChanger) VerifyPassword(ctx context.Context, userID, password string) error {
	ret := _m.Called(ctx, userID, password)
	return ret.Error(0)
}

func (_m *MockPasswordChanger) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	ret := _m.Called(ctx, userID, currentPassword, newPassword)
	return ret.Error(0)
}

// RecordingAuditor keeps entries in memory.
type RecordingAuditor struct {
	mu      sync.Mutex
	Entries []audit.Entry
}

func (a *RecordingAuditor) Record(_ context.Context, e audit.Entry) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Entries = append(a.Entries, e)
}

func (a *RecordingAuditor) Actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.Entries))
	for _, e := range a.Entries {
		out = append(out, e.Action)
	}
	return out
}
