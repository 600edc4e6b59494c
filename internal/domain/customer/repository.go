package customer

import (
	"context"
	"time"

	"kyc-onboarding/internal/domain/risk"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

type SortField string

const (
	SortByCreatedAt SortField = "created_at"
	SortByName      SortField = "name"
)

type ListFilter struct {
	Page      int
	Limit     int
	Status    *Status
	RiskLevel *risk.Level
	From      *time.Time
	To        *time.Time
	Search    string
	SortBy    SortField
	Ascending bool
}

// Normalize applies paging defaults and bounds.
func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.SortBy != SortByName {
		f.SortBy = SortByCreatedAt
	}
}

func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// ListItem is a customer enriched with its current risk score, nil when never scored.
type ListItem struct {
	Customer *Customer
	Risk     *risk.Score
}

type ListResult struct {
	Items []*ListItem
	Total int
	Page  int
	Limit int
}

type Repository interface {
	Create(ctx context.Context, cust *Customer) error
	FindByID(ctx context.Context, id int64) (*Customer, error)
	FindByUserID(ctx context.Context, userID string) (*Customer, error)
	Save(ctx context.Context, cust *Customer) error
	List(ctx context.Context, f ListFilter) ([]*ListItem, int, error)
}
