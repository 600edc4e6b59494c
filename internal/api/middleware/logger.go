package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"kyc-onboarding/internal/domain/audit"

	"github.com/go-chi/chi/v5/middleware"
)

// StructuredLogger writes one access-log line per request. 4xx responses log at
// WARN, 5xx at ERROR. Successful hits on quietPaths drop to DEBUG.
func StructuredLogger(logger *slog.Logger, quietPaths ...string) func(next http.Handler) http.Handler {
	quiet := make(map[string]struct{}, len(quietPaths))
	for _, p := range quietPaths {
		quiet[p] = struct{}{}
	}
	logger = logger.With(slog.String("component", "http"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := statusOf(ww)
			level := accessLogLevel(status)
			if _, ok := quiet[r.URL.Path]; ok && level == slog.LevelInfo {
				level = slog.LevelDebug
			}

			logger.LogAttrs(r.Context(), level, "Served request",
				slog.String("request_id", middleware.GetReqID(r.Context())),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("route", routePattern(r)),
				slog.Int("status", status),
				slog.Int("bytes_written", ww.BytesWritten()),
				slog.Float64("latency_ms", float64(time.Since(start).Microseconds())/1000),
				slog.String("client_ip", audit.ClientIPFromContext(r.Context())),
				slog.String("user_agent", r.UserAgent()),
				slog.String("proto", r.Proto),
			)
		})
	}
}

func accessLogLevel(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
