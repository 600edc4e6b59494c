package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"kyc-onboarding/internal/api/handler/dto"
	"kyc-onboarding/internal/domain/identity"
	"kyc-onboarding/internal/pkg/apperrors"

	"github.com/go-chi/chi/v5"
)

const internalErrorMessage = "An unexpected error occurred."

func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return fmt.Errorf("no request body")
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":{"message":"Internal server error"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

// respondError maps the error taxonomy onto status codes. Store and
// unexpected errors never reach the client verbatim.
func respondError(w http.ResponseWriter, err error) {
	status, message, field := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Default().Error("Unhandled internal error", "error", err)
	}
	respondJSON(w, status, dto.ErrorResponse{
		Error: dto.ErrorDetail{
			Message: message,
			Field:   field,
		},
	})
}

func statusFor(err error) (int, string, string) {
	var validationError *apperrors.ValidationError

	switch {
	case errors.As(err, &validationError):
		return http.StatusBadRequest, validationError.Message, validationError.Field
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrInvalidArgument):
		return http.StatusBadRequest, err.Error(), ""
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, err.Error(), ""
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, err.Error(), ""
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "Resource not found.", ""
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, err.Error(), ""
	case errors.Is(err, apperrors.ErrAlreadyExists):
		return http.StatusConflict, "Resource already exists.", ""
	case errors.Is(err, apperrors.ErrUnavailable):
		return http.StatusServiceUnavailable, "Service temporarily unavailable.", ""
	default:
		return http.StatusInternalServerError, internalErrorMessage, ""
	}
}

// logLevelFor keeps client mistakes at WARN and everything else at ERROR.
func logLevelFor(err error) slog.Level {
	status, _, _ := statusFor(err)
	if status < http.StatusInternalServerError {
		return slog.LevelWarn
	}
	return slog.LevelError
}

func getIDFromURL(r *http.Request, param string) (int64, error) {
	idStr := chi.URLParam(r, param)
	if idStr == "" {
		return 0, apperrors.NewValidationError(param, param+" not found in URL path")
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError(param, fmt.Sprintf("invalid %s format in URL path: %s", param, idStr))
	}
	return id, nil
}

func actorFrom(r *http.Request) (identity.Identity, error) {
	actor, ok := identity.FromContext(r.Context())
	if !ok {
		return identity.Identity{}, apperrors.Unauthorized("missing identity")
	}
	return actor, nil
}

// actorAndID writes the error response itself and reports false when either is missing.
func actorAndID(w http.ResponseWriter, r *http.Request, param string) (identity.Identity, int64, bool) {
	actor, err := actorFrom(r)
	if err != nil {
		respondError(w, err)
		return identity.Identity{}, 0, false
	}
	id, err := getIDFromURL(r, param)
	if err != nil {
		respondError(w, err)
		return identity.Identity{}, 0, false
	}
	return actor, id, true
}
