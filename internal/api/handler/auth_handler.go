package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"kyc-onboarding/internal/api/handler/dto"
	"kyc-onboarding/internal/domain/auth"
	"kyc-onboarding/internal/pkg/apperrors"
)

type AuthHandler struct {
	service   auth.Service
	registrar auth.Registrar
	logger    *slog.Logger
}

func NewAuthHandler(s auth.Service, reg auth.Registrar, l *slog.Logger) *AuthHandler {
	if s == nil {
		panic("auth service cannot be nil")
	}
	if reg == nil {
		panic("registrar cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &AuthHandler{
		service:   s,
		registrar: reg,
		logger:    l.With("component", "AuthHandler"),
	}
}

// Register handles POST /auth/register
// @Summary Register a customer account
// @Description Creates a CUSTOMER user and its DRAFT application.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration payload"
// @Success 201 {object} dto.RegisterResponse "Account created"
// @Failure 400 {object} dto.ErrorResponse "Missing or malformed fields"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Registration validation failed", slog.Any("error", err))
		respondError(w, err)
		return
	}

	reg, err := h.registrar.Register(r.Context(), auth.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Registration failed", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "User registered", slog.String("userID", reg.User.ID))
	respondJSON(w, http.StatusCreated, dto.NewRegisterResponse(reg))
}

// Login handles POST /auth/login
// @Summary Log in
// @Description Exchanges email and password for a bearer token.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse "Token issued"
// @Failure 400 {object} dto.ErrorResponse "Missing email or password"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, err)
		return
	}

	session, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Login failed", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "User logged in", slog.String("userID", session.UserID))
	respondJSON(w, http.StatusOK, dto.NewLoginResponse(session))
}
