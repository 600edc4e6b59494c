package event

import (
	"context"
	"time"
)

const (
	RoutingKeyCustomerRegistered = "customer.registered"
	RoutingKeyCustomerUpdated    = "customer.updated"
	RoutingKeyCustomerSubmitted  = "customer.submitted"
	RoutingKeyCustomerApproved   = "customer.approved"
	RoutingKeyCustomerRejected   = "customer.rejected"
	RoutingKeyReviewScheduled    = "review.scheduled"
	RoutingKeyReviewCompleted    = "review.completed"
)

type CustomerEvent struct {
	Timestamp  time.Time `json:"timestamp"`
	CustomerID int64     `json:"customerId"`
	UserID     string    `json:"userId"`
	Status     string    `json:"status"`
	ActorID    string    `json:"actorId,omitempty"`
	Reason     *string   `json:"reason,omitempty"`
}

type ReviewEvent struct {
	Timestamp     time.Time `json:"timestamp"`
	ReviewID      int64     `json:"reviewId,omitempty"`
	CustomerID    int64     `json:"customerId"`
	ScheduledDate string    `json:"scheduledDate"`
	Status        string    `json:"status"`
	Trigger       string    `json:"trigger,omitempty"`
}

// Publisher failures are reported to the caller, who logs and carries on.
type Publisher interface {
	PublishCustomerEvent(ctx context.Context, routingKey string, evt CustomerEvent) error
	PublishReviewEvent(ctx context.Context, routingKey string, evt ReviewEvent) error
}
