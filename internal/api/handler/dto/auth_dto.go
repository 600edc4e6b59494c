package dto

import (
	"time"

	"kyc-onboarding/internal/domain/auth"
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"fullName" validate:"required,max=200"`
}

func (r *RegisterRequest) Validate() error {
	return validateStruct(r)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	return validateStruct(r)
}

type RegisterResponse struct {
	UserID     string           `json:"userId"`
	Email      string           `json:"email"`
	Role       string           `json:"role"`
	CustomerID int64            `json:"customerId"`
	Customer   CustomerResponse `json:"customer"`
}

func NewRegisterResponse(reg *auth.Registration) RegisterResponse {
	resp := RegisterResponse{
		UserID: reg.User.ID,
		Email:  reg.User.Email,
		Role:   string(reg.User.Role),
	}
	if reg.Customer != nil {
		resp.CustomerID = reg.Customer.ID
		resp.Customer = NewCustomerResponse(reg.Customer)
	}
	return resp
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	UserID    string    `json:"userId"`
	Role      string    `json:"role"`
}

func NewLoginResponse(s *auth.Session) LoginResponse {
	return LoginResponse{
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
		UserID:    s.UserID,
		Role:      string(s.Role),
	}
}
