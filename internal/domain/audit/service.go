package audit

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"kyc-onboarding/internal/domain/identity"
	"kyc-onboarding/internal/infrastructure/monitoring"
)

const (
	DefaultBufferSize = 256
	defaultListLimit  = 200
	writeTimeout      = 5 * time.Second
	drainTimeout      = 10 * time.Second
)

type Service interface {
	Recorder
	ListForEntity(ctx context.Context, entityType, entityID string) ([]*Entry, error)
	// Run persists queued entries until ctx is done, then drains what is left.
	Run(ctx context.Context)
}

var _ Service = (*service)(nil)

type service struct {
	repo   Repository
	inbox  chan Entry
	logger *slog.Logger
}

func NewService(repo Repository, bufferSize int, logger *slog.Logger) Service {
	if repo == nil {
		panic("audit repository cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to audit.NewService, using default stderr handler")
	}
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &service{
		repo:   repo,
		inbox:  make(chan Entry, bufferSize),
		logger: logger.With(slog.String("component", "auditService")),
	}
}

// Record enqueues without blocking; a full queue drops the entry.
func (s *service) Record(ctx context.Context, e Entry) {
	if e.UserID == "" {
		if id, ok := identity.FromContext(ctx); ok {
			e.UserID = id.UserID
		}
	}
	if e.IPAddress == "" {
		e.IPAddress = ClientIPFromContext(ctx)
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	select {
	case s.inbox <- e:
	default:
		monitoring.RecordAuditWriteFailure()
		s.logger.WarnContext(ctx, "Audit queue full, dropping entry",
			slog.String("action", e.Action),
			slog.String("entityType", e.EntityType),
			slog.String("entityID", e.EntityID))
	}
}

func (s *service) Run(ctx context.Context) {
	s.logger.Info("Audit writer started")
	for {
		select {
		case <-ctx.Done():
			s.drain()
			s.logger.Info("Audit writer stopped")
			return
		case e := <-s.inbox:
			s.write(ctx, e)
		}
	}
}

func (s *service) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	for {
		select {
		case e := <-s.inbox:
			s.write(ctx, e)
		default:
			return
		}
	}
}

func (s *service) write(ctx context.Context, e Entry) {
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()

	if err := s.repo.Insert(wctx, &e); err != nil {
		monitoring.RecordAuditWriteFailure()
		s.logger.WarnContext(wctx, "Failed to write audit entry",
			slog.String("action", e.Action),
			slog.String("entityType", e.EntityType),
			slog.String("entityID", e.EntityID),
			slog.Any("error", err))
	}
}

func (s *service) ListForEntity(ctx context.Context, entityType, entityID string) ([]*Entry, error) {
	entries, err := s.repo.FindByEntity(ctx, entityType, entityID, defaultListLimit)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing audit entries", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list audit entries for %s %s: %w", entityType, entityID, err)
	}
	return entries, nil
}
