package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kyc-onboarding/internal/api/handler"
	"kyc-onboarding/internal/api/handler/dto"
	"kyc-onboarding/internal/domain/auth"
	"kyc-onboarding/internal/domain/customer"
	"kyc-onboarding/internal/domain/identity"
	"kyc-onboarding/internal/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewAuthHandlerPanics(t *testing.T) {
	assert.Panics(t, func() { handler.NewAuthHandler(nil, new(MockRegistrar), testLogger) })
	assert.Panics(t, func() { handler.NewAuthHandler(new(MockAuthService), nil, testLogger) })
	assert.Panics(t, func() { handler.NewAuthHandler(new(MockAuthService), new(MockRegistrar), nil) })
}

func TestAuthHandlerRegister(t *testing.T) {
	validBody := `{"email":"ana@example.com","password":"s3cretpass","fullName":"Ana Diaz"}`

	tests := []struct {
		name       string
		body       string
		setup      func(reg *MockRegistrar)
		wantStatus int
		wantField  string
	}{
		{
			name: "Success",
			body: validBody,
			setup: func(reg *MockRegistrar) {
				reg.On("Register", mock.Anything, auth.RegisterInput{Email: "ana@example.com", Password: "s3cretpass", FullName: "Ana Diaz"}).
					Return(&auth.Registration{
						User:     &auth.User{ID: "user-1", Email: "ana@example.com", Role: identity.RoleCustomer},
						Customer: &customer.Customer{ID: 10, UserID: "user-1", Status: customer.StatusDraft},
					}, nil).Once()
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "Unknown field",
			body:       `{"email":"ana@example.com","password":"s3cretpass","fullName":"Ana","role":"EMPLOYEE"}`,
			setup:      func(reg *MockRegistrar) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Missing password",
			body:       `{"email":"ana@example.com","fullName":"Ana Diaz"}`,
			setup:      func(reg *MockRegistrar) {},
			wantStatus: http.StatusBadRequest,
			wantField:  "password",
		},
		{
			name: "Duplicate email",
			body: validBody,
			setup: func(reg *MockRegistrar) {
				reg.On("Register", mock.Anything, mock.Anything).
					Return(nil, fmt.Errorf("%w: email already registered", apperrors.ErrConflict)).Once()
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "Store failure is not leaked",
			body: validBody,
			setup: func(reg *MockRegistrar) {
				reg.On("Register", mock.Anything, mock.Anything).
					Return(nil, fmt.Errorf("%w: connection refused on 10.0.0.5", apperrors.ErrDatabase)).Once()
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := new(MockRegistrar)
			tt.setup(reg)
			h := handler.NewAuthHandler(new(MockAuthService), reg, testLogger)

			req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			h.Register(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusCreated {
				var resp dto.RegisterResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, "user-1", resp.UserID)
				assert.Equal(t, int64(10), resp.CustomerID)
				assert.Equal(t, "DRAFT", resp.Customer.Status)
			} else {
				var resp dto.ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, tt.wantField, resp.Error.Field)
				assert.NotContains(t, resp.Error.Message, "10.0.0.5")
			}
			reg.AssertExpectations(t)
		})
	}
}

func TestAuthHandlerLogin(t *testing.T) {
	expires := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Login", mock.Anything, "emp@example.com", "pw").
			Return(&auth.Session{Token: "tok", ExpiresAt: expires, UserID: "emp-1", Role: identity.RoleEmployee}, nil).Once()
		h := handler.NewAuthHandler(svc, new(MockRegistrar), testLogger)

		rec := httptest.NewRecorder()
		h.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(`{"email":"emp@example.com","password":"pw"}`)))

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp dto.LoginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "tok", resp.Token)
		assert.Equal(t, "EMPLOYEE", resp.Role)
		assert.True(t, expires.Equal(resp.ExpiresAt))
		svc.AssertExpectations(t)
	})

	t.Run("Bad credentials", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Login", mock.Anything, "emp@example.com", "wrong").
			Return(nil, apperrors.Unauthorized("invalid email or password")).Once()
		h := handler.NewAuthHandler(svc, new(MockRegistrar), testLogger)

		rec := httptest.NewRecorder()
		h.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(`{"email":"emp@example.com","password":"wrong"}`)))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Empty body", func(t *testing.T) {
		h := handler.NewAuthHandler(new(MockAuthService), new(MockRegistrar), testLogger)
		rec := httptest.NewRecorder()
		h.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
