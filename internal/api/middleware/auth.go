package middleware

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"kyc-onboarding/internal/domain/identity"
)

// TokenParser verifies a bearer token and returns the caller it names.
type TokenParser interface {
	Parse(token string) (identity.Identity, error)
}

func AuthMiddleware(tokens TokenParser, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r, logger)
			if !ok {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			id, err := tokens.Parse(tokenString)
			if err != nil {
				logger.WarnContext(r.Context(), "AuthMiddleware: Invalid token", slog.Any("error", err))
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			logger.DebugContext(r.Context(), "AuthMiddleware: Authenticated request",
				slog.String("userID", id.UserID), slog.String("role", string(id.Role)))
			next.ServeHTTP(w, r.WithContext(identity.WithIdentity(r.Context(), id)))
		})
	}
}

func bearerToken(r *http.Request, logger *slog.Logger) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		logger.WarnContext(r.Context(), "AuthMiddleware: Missing Authorization header")
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || strings.TrimSpace(parts[1]) == "" {
		logger.WarnContext(r.Context(), "AuthMiddleware: Invalid Authorization header format")
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// RequireRole must run after AuthMiddleware.
func RequireRole(roles ...identity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := identity.FromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			if !slices.Contains(roles, id.Role) {
				writeError(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
