package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"kyc-onboarding/internal/api/handler/dto"
	"kyc-onboarding/internal/domain/audit"
	"kyc-onboarding/internal/pkg/apperrors"

	"github.com/go-chi/chi/v5"
)

// AuditReader is the read side of the audit sink.
type AuditReader interface {
	ListForEntity(ctx context.Context, entityType, entityID string) ([]*audit.Entry, error)
}

type AuditHandler struct {
	reader AuditReader
	logger *slog.Logger
}

func NewAuditHandler(reader AuditReader, l *slog.Logger) *AuditHandler {
	if reader == nil {
		panic("audit reader cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &AuditHandler{
		reader: reader,
		logger: l.With("component", "AuditHandler"),
	}
}

// ListEntityAudit handles GET /audit/{entityType}/{entityID}
// @Summary Audit trail of an entity
// @Tags Audit
// @Produce json
// @Param entityType path string true "customer, review, document, user or dashboard"
// @Param entityID path string true "Entity identifier"
// @Success 200 {array} dto.AuditEntryResponse "Entries, newest first"
// @Failure 400 {object} dto.ErrorResponse "Unknown entity type"
// @Failure 403 {object} dto.ErrorResponse "Employees only"
// @Router /audit/{entityType}/{entityID} [get]
// @Security BearerAuth
func (h *AuditHandler) ListEntityAudit(w http.ResponseWriter, r *http.Request) {
	entityType := strings.ToLower(chi.URLParam(r, "entityType"))
	entityID := strings.TrimSpace(chi.URLParam(r, "entityID"))

	switch entityType {
	case audit.EntityCustomer, audit.EntityReview, audit.EntityDocument, audit.EntityUser, audit.EntityDashboard:
	default:
		respondError(w, apperrors.NewValidationError("entityType", "entityType must be one of customer, review, document, user, dashboard"))
		return
	}
	if entityID == "" {
		respondError(w, apperrors.NewValidationError("entityID", "entityID is required"))
		return
	}

	entries, err := h.reader.ListForEntity(r.Context(), entityType, entityID)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Failed to list audit entries",
			slog.String("entityType", entityType), slog.String("entityID", entityID), slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewAuditListResponse(entries))
}
