package audit

import (
	"context"
	"time"
)

const (
	ActionCustomerRegistered  = "CUSTOMER_REGISTERED"
	ActionCustomerUpdated     = "CUSTOMER_UPDATED"
	ActionCustomerSubmitted   = "CUSTOMER_SUBMITTED"
	ActionCustomerApproved    = "CUSTOMER_APPROVED"
	ActionCustomerRejected    = "CUSTOMER_REJECTED"
	ActionRiskScoreCalculated = "RISK_SCORE_CALCULATED"
	ActionReviewCompleted     = "REVIEW_COMPLETED"
	ActionReviewsBackfilled   = "REVIEWS_BACKFILLED"
	ActionDocumentUploaded    = "DOCUMENT_UPLOADED"
	ActionPasswordChanged     = "PASSWORD_CHANGED"
	ActionDashboardViewed     = "DASHBOARD_VIEWED"
)

const (
	EntityCustomer  = "customer"
	EntityReview    = "review"
	EntityDocument  = "document"
	EntityUser      = "user"
	EntityDashboard = "dashboard"
)

// Entry is append-only; nothing updates or deletes it once written.
type Entry struct {
	ID         int64
	UserID     string
	Action     string
	EntityType string
	EntityID   string
	Details    map[string]any
	IPAddress  string
	CreatedAt  time.Time
}

type Repository interface {
	Insert(ctx context.Context, e *Entry) error
	FindByEntity(ctx context.Context, entityType, entityID string, limit int) ([]*Entry, error)
}

// Recorder never returns an error; failures stay inside the sink.
type Recorder interface {
	Record(ctx context.Context, e Entry)
}

type clientIPKey struct{}

func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

func ClientIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}
