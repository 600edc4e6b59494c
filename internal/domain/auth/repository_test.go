package auth

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

var _ Repository = (*MockUserRepository)(nil)

func (_m *MockUserRepository) Create(ctx context.Context, u *User) error {
	ret := _m.Called(ctx, u)
	return ret.Error(0)
}

func (_m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	ret := _m.Called(ctx, email)

	var r0 *User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*User)
	}
	return r0, ret.Error(1)
}

func (_m *MockUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	ret := _m.Called(ctx, id)

	var r0 *User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*User)
	}
	return r0, ret.Error(1)
}

func (_m *MockUserRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	ret := _m.Called(ctx, id, hash)
	return ret.Error(0)
}

func (_m *MockUserRepository) Delete(ctx context.Context, id string) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}
