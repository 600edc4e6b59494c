package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"kyc-onboarding/internal/api/handler/dto"
	"kyc-onboarding/internal/domain/customer"
	"kyc-onboarding/internal/pkg/apperrors"
)

const customerIDParam = "customerID"

type CustomerHandler struct {
	service customer.CustomerService
	logger  *slog.Logger
}

func NewCustomerHandler(s customer.CustomerService, l *slog.Logger) *CustomerHandler {
	if s == nil {
		panic("customer service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &CustomerHandler{
		service: s,
		logger:  l.With("component", "CustomerHandler"),
	}
}

// Me handles GET /customers/me
// @Summary Current customer's application
// @Tags Customers
// @Produce json
// @Success 200 {object} dto.CustomerResponse "Own application"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 404 {object} dto.ErrorResponse "No application for this user"
// @Router /customers/me [get]
// @Security BearerAuth
func (h *CustomerHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		respondError(w, err)
		return
	}

	cust, err := h.service.GetForUser(r.Context(), actor)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to get own customer", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewCustomerResponse(cust))
}

// ListCustomers handles GET /customers
// @Summary List applications
// @Description Paginated, filterable list of customers with their current risk score.
// @Tags Customers
// @Produce json
// @Param page query int false "Page number" Minimum(1)
// @Param limit query int false "Page size (max 100)" Minimum(1)
// @Param status query string false "DRAFT, PENDING, APPROVED or REJECTED"
// @Param riskLevel query string false "LOW, MEDIUM, HIGH or UNKNOWN"
// @Param from query string false "Created on or after (YYYY-MM-DD or RFC 3339)"
// @Param to query string false "Created on or before (YYYY-MM-DD or RFC 3339)"
// @Param search query string false "Matches name or email"
// @Param sortBy query string false "created_at or name"
// @Param order query string false "asc or desc"
// @Success 200 {object} dto.CustomerListResponse "Page of customers"
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameter"
// @Failure 403 {object} dto.ErrorResponse "Employees only"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers [get]
// @Security BearerAuth
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	filter, err := dto.ParseListFilter(r.URL.Query())
	if err != nil {
		h.logger.WarnContext(r.Context(), "Invalid list query", slog.Any("error", err))
		respondError(w, err)
		return
	}

	res, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to list customers", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Customers listed", slog.Int("count", len(res.Items)))
	respondJSON(w, http.StatusOK, dto.NewCustomerListResponse(res))
}

// GetCustomer handles GET /customers/{customerID}
// @Summary Retrieve an application
// @Tags Customers
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Success 200 {object} dto.CustomerResponse "Customer details"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID format"
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Router /customers/{customerID} [get]
// @Security BearerAuth
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := actorAndID(w, r, customerIDParam)
	if !ok {
		return
	}

	cust, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to get customer", slog.Int64("customerID", id), slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewCustomerResponse(cust))
}

// UpdateCustomer handles PUT /customers/{customerID}
// @Summary Update an application
// @Description Partial profile update. Supplying currentPassword and newPassword also changes the password.
// @Tags Customers
// @Accept json
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Param request body dto.UpdateCustomerRequest true "Fields to change"
// @Success 200 {object} dto.CustomerResponse "Updated customer"
// @Failure 400 {object} dto.ErrorResponse "Invalid payload"
// @Failure 403 {object} dto.ErrorResponse "Not the owner or wrong current password"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Router /customers/{customerID} [put]
// @Security BearerAuth
func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := actorAndID(w, r, customerIDParam)
	if !ok {
		return
	}

	var req dto.UpdateCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, err)
		return
	}
	in, err := req.ToInput()
	if err != nil {
		respondError(w, err)
		return
	}

	cust, err := h.service.Update(r.Context(), actor, id, in)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to update customer", slog.Int64("customerID", id), slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewCustomerResponse(cust))
}

// SubmitCustomer handles POST /customers/{customerID}/submit
// @Summary Submit an application for review
// @Tags Customers
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Success 200 {object} dto.CustomerResponse "Application is PENDING"
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Router /customers/{customerID}/submit [post]
// @Security BearerAuth
func (h *CustomerHandler) SubmitCustomer(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := actorAndID(w, r, customerIDParam)
	if !ok {
		return
	}

	cust, err := h.service.Submit(r.Context(), actor, id)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to submit customer", slog.Int64("customerID", id), slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Application submitted", slog.Int64("customerID", id))
	respondJSON(w, http.StatusOK, dto.NewCustomerResponse(cust))
}

// ApproveCustomer handles POST /customers/{customerID}/approve
// @Summary Approve an application
// @Description Approves the customer and schedules its first compliance review, then backfills reviews for other approved customers.
// @Tags Customers
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Success 200 {object} dto.ApprovalResponse "Approved"
// @Failure 403 {object} dto.ErrorResponse "Employees only"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Router /customers/{customerID}/approve [post]
// @Security BearerAuth
func (h *CustomerHandler) ApproveCustomer(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := actorAndID(w, r, customerIDParam)
	if !ok {
		return
	}

	res, err := h.service.Approve(r.Context(), actor, id)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to approve customer", slog.Int64("customerID", id), slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Application approved", slog.Int64("customerID", id))
	respondJSON(w, http.StatusOK, dto.NewApprovalResponse(res))
}

// RejectCustomer handles POST /customers/{customerID}/reject
// @Summary Reject an application
// @Tags Customers
// @Accept json
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Param request body dto.RejectCustomerRequest true "Rejection reason (min 10 characters)"
// @Success 200 {object} dto.CustomerResponse "Rejected"
// @Failure 400 {object} dto.ErrorResponse "Reason too short"
// @Failure 403 {object} dto.ErrorResponse "Employees only"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Router /customers/{customerID}/reject [post]
// @Security BearerAuth
func (h *CustomerHandler) RejectCustomer(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := actorAndID(w, r, customerIDParam)
	if !ok {
		return
	}

	var req dto.RejectCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, err)
		return
	}

	cust, err := h.service.Reject(r.Context(), actor, id, req.Reason)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to reject customer", slog.Int64("customerID", id), slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Application rejected", slog.Int64("customerID", id))
	respondJSON(w, http.StatusOK, dto.NewCustomerResponse(cust))
}

// CalculateRiskScore handles POST /customers/{customerID}/risk-score
// @Summary Recalculate a risk score
// @Tags Risk
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Success 200 {object} dto.RiskScoreResponse "Stored score"
// @Failure 403 {object} dto.ErrorResponse "Employees only"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Router /customers/{customerID}/risk-score [post]
// @Security BearerAuth
func (h *CustomerHandler) CalculateRiskScore(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := actorAndID(w, r, customerIDParam)
	if !ok {
		return
	}

	score, err := h.service.CalculateRiskScore(r.Context(), actor, id)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to calculate risk score", slog.Int64("customerID", id), slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewRiskScoreResponse(score))
}

// GetRiskScore handles GET /customers/{customerID}/risk-score
// @Summary Current risk score
// @Tags Risk
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Success 200 {object} dto.RiskScoreResponse "Stored score"
// @Failure 404 {object} dto.ErrorResponse "Customer never scored"
// @Router /customers/{customerID}/risk-score [get]
// @Security BearerAuth
func (h *CustomerHandler) GetRiskScore(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, customerIDParam)
	if err != nil {
		respondError(w, err)
		return
	}

	score, err := h.service.GetRiskScore(r.Context(), id)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to get risk score", slog.Int64("customerID", id), slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewRiskScoreResponse(score))
}
