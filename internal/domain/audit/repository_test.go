package audit

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

var _ Repository = (*MockRepository)(nil)

func (_m *MockRepository) Insert(ctx context.Context, e *Entry) error {
	ret := _m.Called(ctx, e)
	return ret.Error(0)
}

func (_m *MockRepository) FindByEntity(ctx context.Context, entityType, entityID string, limit int) ([]*Entry, error) {
	ret := _m.Called(ctx, entityType, entityID, limit)

	var r0 []*Entry
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*Entry)
	}
	return r0, ret.Error(1)
}
