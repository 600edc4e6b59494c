package risk

import (
	"context"
	"time"
)

// Score is the persisted, single current risk assessment of a customer.
type Score struct {
	CustomerID   int64
	Value        int
	Factors      Factors
	CalculatedAt time.Time
}

// Level is derived from Value on every read; no stored level is trusted.
func (s *Score) Level() Level {
	if s == nil {
		return LevelUnknown
	}
	return LevelFor(s.Value)
}

func NewScore(customerID int64, res Result, now time.Time) *Score {
	return &Score{
		CustomerID:   customerID,
		Value:        res.Score,
		Factors:      res.Factors,
		CalculatedAt: now,
	}
}

type Repository interface {
	Upsert(ctx context.Context, score *Score) error
	FindByCustomerID(ctx context.Context, customerID int64) (*Score, error)
}
