package review

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

var _ Repository = (*MockRepository)(nil)

func (_m *MockRepository) CreateIfAbsent(ctx context.Context, customerID int64, scheduled time.Time) (bool, error) {
	ret := _m.Called(ctx, customerID, scheduled)
	return ret.Bool(0), ret.Error(1)
}

func (_m *MockRepository) FindApprovedWithoutReviews(ctx context.Context) ([]Candidate, error) {
	ret := _m.Called(ctx)

	var r0 []Candidate
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]Candidate)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) FindByID(ctx context.Context, id int64) (*Review, error) {
	ret := _m.Called(ctx, id)

	var r0 *Review
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Review)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) Complete(ctx context.Context, rev *Review, successor *Review) error {
	ret := _m.Called(ctx, rev, successor)
	return ret.Error(0)
}

func (_m *MockRepository) FindUpcoming(ctx context.Context, r DateRange) ([]*Scheduled, error) {
	ret := _m.Called(ctx, r)

	var r0 []*Scheduled
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*Scheduled)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) FindOverdue(ctx context.Context, before time.Time) ([]*Scheduled, error) {
	ret := _m.Called(ctx, before)

	var r0 []*Scheduled
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*Scheduled)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) FindByCustomer(ctx context.Context, customerID int64) ([]*Review, error) {
	ret := _m.Called(ctx, customerID)

	var r0 []*Review
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*Review)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) FindHistory(ctx context.Context, customerID int64) ([]*Review, error) {
	ret := _m.Called(ctx, customerID)

	var r0 []*Review
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*Review)
	}
	return r0, ret.Error(1)
}
