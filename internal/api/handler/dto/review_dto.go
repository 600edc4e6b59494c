package dto

import (
	"time"

	"kyc-onboarding/internal/domain/review"
	"kyc-onboarding/internal/pkg/apperrors"
)

type ReviewResponse struct {
	ID             int64     `json:"id"`
	CustomerID     int64     `json:"customerId"`
	ScheduledDate  string    `json:"scheduledDate"`
	CompletedDate  *string   `json:"completedDate,omitempty"`
	Status         string    `json:"status"`
	Notes          *string   `json:"notes,omitempty"`
	NextReviewDate *string   `json:"nextReviewDate,omitempty"`
	CompletedBy    *string   `json:"completedBy,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

func NewReviewResponse(r *review.Review) ReviewResponse {
	return ReviewResponse{
		ID:             r.ID,
		CustomerID:     r.CustomerID,
		ScheduledDate:  r.ScheduledDate.Format(DateLayout),
		CompletedDate:  formatDate(r.CompletedDate),
		Status:         string(r.Status),
		Notes:          r.Notes,
		NextReviewDate: formatDate(r.NextReviewDate),
		CompletedBy:    r.CompletedBy,
		CreatedAt:      r.CreatedAt,
	}
}

func NewReviewListResponse(reviews []*review.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, NewReviewResponse(r))
	}
	return out
}

type ScheduledReviewResponse struct {
	ReviewResponse
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
}

func NewScheduledReviewListResponse(reviews []*review.Scheduled) []ScheduledReviewResponse {
	out := make([]ScheduledReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, ScheduledReviewResponse{
			ReviewResponse: NewReviewResponse(&r.Review),
			CustomerName:   r.CustomerName,
			CustomerEmail:  r.CustomerEmail,
		})
	}
	return out
}

type CompleteReviewRequest struct {
	CompletedDate  string  `json:"completedDate" validate:"required,datetime=2006-01-02"`
	Notes          *string `json:"notes" validate:"omitempty,max=5000"`
	NextReviewDate string  `json:"nextReviewDate" validate:"omitempty,datetime=2006-01-02"`
}

func (r *CompleteReviewRequest) Validate() error {
	return validateStruct(r)
}

func (r *CompleteReviewRequest) ToCompletion(completedBy string) (review.Completion, error) {
	completed, err := ParseDate("completedDate", r.CompletedDate)
	if err != nil {
		return review.Completion{}, err
	}
	next, err := ParseDate("nextReviewDate", r.NextReviewDate)
	if err != nil {
		return review.Completion{}, err
	}
	if completed != nil && next != nil && !next.After(*completed) {
		return review.Completion{}, apperrors.NewValidationError("nextReviewDate", "nextReviewDate must be after completedDate")
	}
	return review.Completion{
		CompletedDate:  completed,
		Notes:          r.Notes,
		NextReviewDate: next,
		CompletedBy:    completedBy,
	}, nil
}

type CompleteReviewResponse struct {
	Review     ReviewResponse  `json:"review"`
	NextReview *ReviewResponse `json:"nextReview,omitempty"`
}

func NewCompleteReviewResponse(completed, successor *review.Review) CompleteReviewResponse {
	resp := CompleteReviewResponse{Review: NewReviewResponse(completed)}
	if successor != nil {
		next := NewReviewResponse(successor)
		resp.NextReview = &next
	}
	return resp
}

type BackfillResponse struct {
	CustomerReviewCreated bool `json:"customerReviewCreated"`
	Scanned               int  `json:"scanned"`
	Created               int  `json:"created"`
	Failed                int  `json:"failed"`
}

func NewBackfillResponse(res *review.BackfillResult) BackfillResponse {
	return BackfillResponse{
		CustomerReviewCreated: res.CustomerReviewCreated,
		Scanned:               res.Scanned,
		Created:               res.Created,
		Failed:                res.Failed,
	}
}
