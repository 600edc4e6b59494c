package document

import (
	"context"
	"io"
	"time"

	"kyc-onboarding/internal/domain/identity"

	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

var _ Repository = (*MockRepository)(nil)

func (_m *MockRepository) Insert(ctx context.Context, doc *Document) error {
	ret := _m.Called(ctx, doc)
	return ret.Error(0)
}

func (_m *MockRepository) FindByID(ctx context.Context, id int64) (*Document, error) {
	ret := _m.Called(ctx, id)

	var r0 *Document
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Document)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) FindByCustomer(ctx context.Context, customerID int64) ([]*Document, error) {
	ret := _m.Called(ctx, customerID)

	var r0 []*Document
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*Document)
	}
	return r0, ret.Error(1)
}

type MockBlobStore struct {
	mock.Mock
	Stored map[string][]byte
}

var _ BlobStore = (*MockBlobStore)(nil)

func (_m *MockBlobStore) Put(ctx context.Context, path, contentType string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if _m.Stored == nil {
		_m.Stored = make(map[string][]byte)
	}
	_m.Stored[path] = data
	ret := _m.Called(ctx, path, contentType)
	return ret.Error(0)
}

func (_m *MockBlobStore) Delete(ctx context.Context, path string) error {
	ret := _m.Called(ctx, path)
	return ret.Error(0)
}

func (_m *MockBlobStore) SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	ret := _m.Called(ctx, path, ttl)
	return ret.String(0), ret.Error(1)
}

type MockAccess struct {
	mock.Mock
}

var _ Access = (*MockAccess)(nil)

func (_m *MockAccess) Authorize(ctx context.Context, actor identity.Identity, customerID int64) error {
	ret := _m.Called(ctx, actor, customerID)
	return ret.Error(0)
}
