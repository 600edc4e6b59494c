package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"kyc-onboarding/internal/api/handler/dto"
	"kyc-onboarding/internal/domain/audit"
	"kyc-onboarding/internal/domain/review"
	"kyc-onboarding/internal/pkg/apperrors"
)

const reviewIDParam = "reviewID"

type ReviewHandler struct {
	scheduler review.Scheduler
	audit     audit.Recorder
	logger    *slog.Logger
}

func NewReviewHandler(s review.Scheduler, recorder audit.Recorder, l *slog.Logger) *ReviewHandler {
	if s == nil {
		panic("review scheduler cannot be nil")
	}
	if recorder == nil {
		panic("audit recorder cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &ReviewHandler{
		scheduler: s,
		audit:     recorder,
		logger:    l.With("component", "ReviewHandler"),
	}
}

// ListCustomerReviews handles GET /customers/{customerID}/reviews
// @Summary All reviews of a customer
// @Tags Reviews
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Success 200 {array} dto.ReviewResponse "Reviews, newest schedule first"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID format"
// @Failure 403 {object} dto.ErrorResponse "Employees only"
// @Router /customers/{customerID}/reviews [get]
// @Security BearerAuth
func (h *ReviewHandler) ListCustomerReviews(w http.ResponseWriter, r *http.Request) {
	customerID, err := getIDFromURL(r, customerIDParam)
	if err != nil {
		respondError(w, err)
		return
	}

	reviews, err := h.scheduler.ListForCustomer(r.Context(), customerID)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Scheduler failed to list customer reviews", slog.Int64("customerID", customerID), slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewReviewListResponse(reviews))
}

// ReviewHistory handles GET /customers/{customerID}/reviews/history
// @Summary Completed reviews with notes
// @Tags Reviews
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Success 200 {array} dto.ReviewResponse "Review history, latest completion first"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID format"
// @Failure 403 {object} dto.ErrorResponse "Employees only"
// @Router /customers/{customerID}/reviews/history [get]
// @Security BearerAuth
func (h *ReviewHandler) ReviewHistory(w http.ResponseWriter, r *http.Request) {
	customerID, err := getIDFromURL(r, customerIDParam)
	if err != nil {
		respondError(w, err)
		return
	}

	reviews, err := h.scheduler.ListHistory(r.Context(), customerID)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Scheduler failed to list review history", slog.Int64("customerID", customerID), slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewReviewListResponse(reviews))
}

// UpcomingReviews handles GET /reviews/upcoming
// @Summary Draft reviews scheduled from a date
// @Tags Reviews
// @Produce json
// @Param from query string false "First day (YYYY-MM-DD), defaults to today"
// @Param to query string false "Last day (YYYY-MM-DD)"
// @Success 200 {array} dto.ScheduledReviewResponse "Upcoming reviews, soonest first"
// @Failure 400 {object} dto.ErrorResponse "Invalid date"
// @Failure 403 {object} dto.ErrorResponse "Employees only"
// @Router /reviews/upcoming [get]
// @Security BearerAuth
func (h *ReviewHandler) UpcomingReviews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := dto.ParseDate("from", q.Get("from"))
	if err != nil {
		respondError(w, err)
		return
	}
	to, err := dto.ParseDate("to", q.Get("to"))
	if err != nil {
		respondError(w, err)
		return
	}

	reviews, err := h.scheduler.ListUpcoming(r.Context(), from, to)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Scheduler failed to list upcoming reviews", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewScheduledReviewListResponse(reviews))
}

// OverdueReviews handles GET /reviews/overdue
// @Summary Draft reviews scheduled before today
// @Tags Reviews
// @Produce json
// @Success 200 {array} dto.ScheduledReviewResponse "Overdue reviews, oldest first"
// @Failure 403 {object} dto.ErrorResponse "Employees only"
// @Router /reviews/overdue [get]
// @Security BearerAuth
func (h *ReviewHandler) OverdueReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.scheduler.ListOverdue(r.Context())
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Scheduler failed to list overdue reviews", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewScheduledReviewListResponse(reviews))
}

// CompleteReview handles PUT /reviews/{reviewID}/complete
// @Summary Complete a review
// @Description Marks the review COMPLETED. A nextReviewDate schedules a new DRAFT review.
// @Tags Reviews
// @Accept json
// @Produce json
// @Param reviewID path int true "Review ID" Minimum(1)
// @Param request body dto.CompleteReviewRequest true "Completion details"
// @Success 200 {object} dto.CompleteReviewResponse "Completed review and optional successor"
// @Failure 400 {object} dto.ErrorResponse "Invalid payload"
// @Failure 404 {object} dto.ErrorResponse "Review not found"
// @Failure 409 {object} dto.ErrorResponse "Review already completed"
// @Router /reviews/{reviewID}/complete [put]
// @Security BearerAuth
func (h *ReviewHandler) CompleteReview(w http.ResponseWriter, r *http.Request) {
	actor, reviewID, ok := actorAndID(w, r, reviewIDParam)
	if !ok {
		return
	}

	var req dto.CompleteReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, err)
		return
	}
	completion, err := req.ToCompletion(actor.UserID)
	if err != nil {
		respondError(w, err)
		return
	}

	completed, successor, err := h.scheduler.Complete(r.Context(), reviewID, completion)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Scheduler failed to complete review", slog.Int64("reviewID", reviewID), slog.Any("error", err))
		respondError(w, err)
		return
	}

	details := map[string]any{"customerId": completed.CustomerID}
	if successor != nil {
		details["nextReviewId"] = successor.ID
		details["nextReviewDate"] = successor.ScheduledDate.Format(dto.DateLayout)
	}
	h.audit.Record(r.Context(), audit.Entry{
		UserID:     actor.UserID,
		Action:     audit.ActionReviewCompleted,
		EntityType: audit.EntityReview,
		EntityID:   strconv.FormatInt(reviewID, 10),
		Details:    details,
	})

	h.logger.InfoContext(r.Context(), "Review completed", slog.Int64("reviewID", reviewID))
	respondJSON(w, http.StatusOK, dto.NewCompleteReviewResponse(completed, successor))
}

// BackfillReviews handles POST /reviews/backfill
// @Summary Schedule missing reviews
// @Description Creates a first review for every approved customer that never had one.
// @Tags Reviews
// @Produce json
// @Success 200 {object} dto.BackfillResponse "Scan summary"
// @Failure 403 {object} dto.ErrorResponse "Employees only"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /reviews/backfill [post]
// @Security BearerAuth
func (h *ReviewHandler) BackfillReviews(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		respondError(w, err)
		return
	}

	res, err := h.scheduler.Backfill(r.Context())
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Review backfill failed", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.audit.Record(r.Context(), audit.Entry{
		UserID:     actor.UserID,
		Action:     audit.ActionReviewsBackfilled,
		EntityType: audit.EntityReview,
		EntityID:   "backfill",
		Details: map[string]any{
			"scanned": res.Scanned,
			"created": res.Created,
			"failed":  res.Failed,
		},
	})
	respondJSON(w, http.StatusOK, dto.NewBackfillResponse(res))
}
