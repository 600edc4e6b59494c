package dashboard

import (
	"context"
	"time"

	"kyc-onboarding/internal/domain/risk"

	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

var _ Repository = (*MockRepository)(nil)

func (_m *MockRepository) CustomersCreatedBetween(ctx context.Context, from, to time.Time) ([]CustomerRow, error) {
	ret := _m.Called(ctx, from, to)

	var r0 []CustomerRow
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]CustomerRow)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) LatestScores(ctx context.Context, customerIDs []int64) ([]*risk.Score, error) {
	ret := _m.Called(ctx, customerIDs)

	var r0 []*risk.Score
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*risk.Score)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) CountOverdueReviews(ctx context.Context, now time.Time) (int, error) {
	ret := _m.Called(ctx, now)
	return ret.Int(0), ret.Error(1)
}
