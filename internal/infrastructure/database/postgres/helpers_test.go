package postgres

import (
	"io"
	"log/slog"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
)

const pgxmockExpectationsNotMetMsg = "there were unfulfilled pgxmock expectations"

var _ DBPool = (pgxmock.PgxPoolIface)(nil)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to open a stub database connection: %v", err)
	}
	t.Cleanup(mockPool.Close)
	return mockPool
}

func ptr[T any](v T) *T {
	return &v
}
