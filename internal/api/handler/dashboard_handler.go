package handler

import (
	"log/slog"
	"net/http"
	"time"

	"kyc-onboarding/internal/api/handler/dto"
	"kyc-onboarding/internal/domain/dashboard"
)

type DashboardHandler struct {
	service dashboard.Service
	logger  *slog.Logger
}

func NewDashboardHandler(s dashboard.Service, l *slog.Logger) *DashboardHandler {
	if s == nil {
		panic("dashboard service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &DashboardHandler{
		service: s,
		logger:  l.With("component", "DashboardHandler"),
	}
}

// Stats handles GET /dashboard/stats
// @Summary Onboarding statistics
// @Description Counts by status, risk distribution, monthly trend and overdue reviews for applications created in the window. Defaults to the last 6 months.
// @Tags Dashboard
// @Produce json
// @Param from query string false "Window start (YYYY-MM-DD or RFC 3339)"
// @Param to query string false "Window end (YYYY-MM-DD or RFC 3339)"
// @Success 200 {object} dto.DashboardStatsResponse "Aggregated statistics"
// @Failure 400 {object} dto.ErrorResponse "Invalid window"
// @Failure 403 {object} dto.ErrorResponse "Employees only"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /dashboard/stats [get]
// @Security BearerAuth
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := parseWindowBound("from", q.Get("from"), false)
	if err != nil {
		respondError(w, err)
		return
	}
	to, err := parseWindowBound("to", q.Get("to"), true)
	if err != nil {
		respondError(w, err)
		return
	}

	stats, err := h.service.Stats(r.Context(), from, to)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to compute dashboard stats", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewDashboardStatsResponse(stats))
}

// parseWindowBound accepts RFC 3339 or a date; a date used as the upper
// bound covers the whole day.
func parseWindowBound(field, value string, endOfDay bool) (*time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	d, err := dto.ParseDate(field, value)
	if err != nil || d == nil {
		return d, err
	}
	if endOfDay {
		end := d.AddDate(0, 0, 1).Add(-time.Nanosecond)
		return &end, nil
	}
	return d, nil
}
