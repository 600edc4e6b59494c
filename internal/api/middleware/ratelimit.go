package middleware

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"kyc-onboarding/internal/config"
	"kyc-onboarding/internal/domain/audit"

	"golang.org/x/time/rate"
)

const (
	visitorIdleTTL       = 10 * time.Minute
	visitorSweepInterval = time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiterMiddleware keeps one token bucket per client IP.
type RateLimiterMiddleware struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	cfg      config.RateLimitConfig
	now      func() time.Time
	logger   *slog.Logger
}

// NewRateLimiterMiddleware starts a sweeper that forgets clients idle for
// visitorIdleTTL. The sweeper exits when ctx is done.
func NewRateLimiterMiddleware(ctx context.Context, cfg config.RateLimitConfig, logger *slog.Logger) *RateLimiterMiddleware {
	rl := &RateLimiterMiddleware{
		visitors: make(map[string]*visitor),
		cfg:      cfg,
		now:      time.Now,
		logger:   logger.With(slog.String("component", "rateLimiter")),
	}
	if cfg.Enabled {
		go rl.sweepEvery(ctx, visitorSweepInterval)
	}
	return rl
}

func (rl *RateLimiterMiddleware) limiterFor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Limit(rl.cfg.RPS), rl.cfg.Burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = rl.now()
	return v.limiter
}

func (rl *RateLimiterMiddleware) sweepEvery(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.sweep()
		}
	}
}

func (rl *RateLimiterMiddleware) sweep() int {
	cutoff := rl.now().Add(-visitorIdleTTL)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	removed := 0
	for key, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, key)
			removed++
		}
	}
	return removed
}

func (rl *RateLimiterMiddleware) Middleware(next http.Handler) http.Handler {
	if !rl.cfg.Enabled {
		return next
	}
	limitHeader := strconv.FormatFloat(rl.cfg.RPS, 'f', -1, 64)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := audit.ClientIPFromContext(r.Context())
		if key == "" {
			key = clientIP(r)
		}

		res := rl.limiterFor(key).ReserveN(rl.now(), 1)
		w.Header().Set("X-RateLimit-Limit", limitHeader)
		if !res.OK() || res.Delay() > 0 {
			retryAfter := 1
			if res.OK() {
				retryAfter = int(math.Ceil(res.Delay().Seconds()))
				res.Cancel()
			}
			rl.logger.WarnContext(r.Context(), "Rate limit exceeded", slog.String("ip", key), slog.Int("retryAfter", retryAfter))
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			writeError(w, http.StatusTooManyRequests, "Rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}
