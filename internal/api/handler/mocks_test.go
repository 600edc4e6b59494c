package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"kyc-onboarding/internal/domain/audit"
	"kyc-onboarding/internal/domain/auth"
	"kyc-onboarding/internal/domain/customer"
	"kyc-onboarding/internal/domain/dashboard"
	"kyc-onboarding/internal/domain/document"
	"kyc-onboarding/internal/domain/identity"
	"kyc-onboarding/internal/domain/review"
	"kyc-onboarding/internal/domain/risk"

	"github.com/stretchr/testify/mock"
)

var (
	testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

	employee     = identity.Identity{UserID: "emp-1", Role: identity.RoleEmployee}
	customerUser = identity.Identity{UserID: "user-1", Role: identity.RoleCustomer}
)

func asUser(r *http.Request, id identity.Identity) *http.Request {
	return r.WithContext(identity.WithIdentity(r.Context(), id))
}

// getOrNil returns the typed value at index i, or the zero value when it was registered as nil.
func getOrNil[T any](args mock.Arguments, i int) T {
	var zero T
	if v := args.Get(i); v != nil {
		return v.(T)
	}
	return zero
}

type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) CreateForUser(ctx context.Context, userID, email, fullName string) (*customer.Customer, error) {
	args := m.Called(ctx, userID, email, fullName)
	return getOrNil[*customer.Customer](args, 0), args.Error(1)
}

func (m *MockCustomerService) Submit(ctx context.Context, actor identity.Identity, id int64) (*customer.Customer, error) {
	args := m.Called(ctx, actor, id)
	return getOrNil[*customer.Customer](args, 0), args.Error(1)
}

func (m *MockCustomerService) Update(ctx context.Context, actor identity.Identity, id int64, in customer.UpdateInput) (*customer.Customer, error) {
	args := m.Called(ctx, actor, id, in)
	return getOrNil[*customer.Customer](args, 0), args.Error(1)
}

func (m *MockCustomerService) Approve(ctx context.Context, actor identity.Identity, id int64) (*customer.ApprovalResult, error) {
	args := m.Called(ctx, actor, id)
	return getOrNil[*customer.ApprovalResult](args, 0), args.Error(1)
}

func (m *MockCustomerService) Reject(ctx context.Context, actor identity.Identity, id int64, reason string) (*customer.Customer, error) {
	args := m.Called(ctx, actor, id, reason)
	return getOrNil[*customer.Customer](args, 0), args.Error(1)
}

func (m *MockCustomerService) List(ctx context.Context, f customer.ListFilter) (*customer.ListResult, error) {
	args := m.Called(ctx, f)
	return getOrNil[*customer.ListResult](args, 0), args.Error(1)
}

func (m *MockCustomerService) Get(ctx context.Context, actor identity.Identity, id int64) (*customer.Customer, error) {
	args := m.Called(ctx, actor, id)
	return getOrNil[*customer.Customer](args, 0), args.Error(1)
}

func (m *MockCustomerService) GetForUser(ctx context.Context, actor identity.Identity) (*customer.Customer, error) {
	args := m.Called(ctx, actor)
	return getOrNil[*customer.Customer](args, 0), args.Error(1)
}

func (m *MockCustomerService) CalculateRiskScore(ctx context.Context, actor identity.Identity, id int64) (*risk.Score, error) {
	args := m.Called(ctx, actor, id)
	return getOrNil[*risk.Score](args, 0), args.Error(1)
}

func (m *MockCustomerService) GetRiskScore(ctx context.Context, id int64) (*risk.Score, error) {
	args := m.Called(ctx, id)
	return getOrNil[*risk.Score](args, 0), args.Error(1)
}

func (m *MockCustomerService) Authorize(ctx context.Context, actor identity.Identity, id int64) error {
	return m.Called(ctx, actor, id).Error(0)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*auth.Session, error) {
	args := m.Called(ctx, email, password)
	return getOrNil[*auth.Session](args, 0), args.Error(1)
}

func (m *MockAuthService) VerifyPassword(ctx context.Context, userID, password string) error {
	return m.Called(ctx, userID, password).Error(0)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	return m.Called(ctx, userID, currentPassword, newPassword).Error(0)
}

type MockRegistrar struct {
	mock.Mock
}

func (m *MockRegistrar) Register(ctx context.Context, in auth.RegisterInput) (*auth.Registration, error) {
	args := m.Called(ctx, in)
	return getOrNil[*auth.Registration](args, 0), args.Error(1)
}

type MockScheduler struct {
	mock.Mock
}

func (m *MockScheduler) EnsureAfterApproval(ctx context.Context, customerID int64, decisionDate *time.Time) (*review.BackfillResult, error) {
	args := m.Called(ctx, customerID, decisionDate)
	return getOrNil[*review.BackfillResult](args, 0), args.Error(1)
}

func (m *MockScheduler) Backfill(ctx context.Context) (*review.BackfillResult, error) {
	args := m.Called(ctx)
	return getOrNil[*review.BackfillResult](args, 0), args.Error(1)
}

func (m *MockScheduler) Complete(ctx context.Context, reviewID int64, c review.Completion) (*review.Review, *review.Review, error) {
	args := m.Called(ctx, reviewID, c)
	return getOrNil[*review.Review](args, 0), getOrNil[*review.Review](args, 1), args.Error(2)
}

func (m *MockScheduler) ListUpcoming(ctx context.Context, from, to *time.Time) ([]*review.Scheduled, error) {
	args := m.Called(ctx, from, to)
	return getOrNil[[]*review.Scheduled](args, 0), args.Error(1)
}

func (m *MockScheduler) ListOverdue(ctx context.Context) ([]*review.Scheduled, error) {
	args := m.Called(ctx)
	return getOrNil[[]*review.Scheduled](args, 0), args.Error(1)
}

func (m *MockScheduler) ListForCustomer(ctx context.Context, customerID int64) ([]*review.Review, error) {
	args := m.Called(ctx, customerID)
	return getOrNil[[]*review.Review](args, 0), args.Error(1)
}

func (m *MockScheduler) ListHistory(ctx context.Context, customerID int64) ([]*review.Review, error) {
	args := m.Called(ctx, customerID)
	return getOrNil[[]*review.Review](args, 0), args.Error(1)
}

type MockDocumentService struct {
	mock.Mock
	// Uploaded captures the body read during Upload.
	Uploaded []byte
}

func (m *MockDocumentService) Upload(ctx context.Context, actor identity.Identity, in document.UploadInput) (*document.Document, error) {
	if in.Body != nil {
		m.Uploaded, _ = io.ReadAll(in.Body)
		in.Body = nil
	}
	args := m.Called(ctx, actor, in)
	return getOrNil[*document.Document](args, 0), args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context, actor identity.Identity, customerID int64) ([]*document.Document, error) {
	args := m.Called(ctx, actor, customerID)
	return getOrNil[[]*document.Document](args, 0), args.Error(1)
}

func (m *MockDocumentService) SignedURL(ctx context.Context, actor identity.Identity, documentID int64) (*document.SignedURL, error) {
	args := m.Called(ctx, actor, documentID)
	return getOrNil[*document.SignedURL](args, 0), args.Error(1)
}

type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Stats(ctx context.Context, from, to *time.Time) (*dashboard.Stats, error) {
	args := m.Called(ctx, from, to)
	return getOrNil[*dashboard.Stats](args, 0), args.Error(1)
}

type MockAudit struct {
	mock.Mock
}

func (m *MockAudit) Record(ctx context.Context, e audit.Entry) {
	m.Called(ctx, e)
}

func (m *MockAudit) ListForEntity(ctx context.Context, entityType, entityID string) ([]*audit.Entry, error) {
	args := m.Called(ctx, entityType, entityID)
	return getOrNil[[]*audit.Entry](args, 0), args.Error(1)
}
