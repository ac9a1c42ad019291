package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gallerieapp/gallerie-server/internal/auth"
	"github.com/gallerieapp/gallerie-server/internal/domain"
	domainerrors "github.com/gallerieapp/gallerie-server/internal/errors"
	"github.com/gallerieapp/gallerie-server/internal/ratelimit"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	contextKeyUserID   contextKey = "user_id"
	contextKeyUserName contextKey = "user_name"
	contextKeyIsAdmin  contextKey = "is_admin"
)

// authMiddleware validates Bearer tokens and attaches the caller's identity
// to the request context. Requests without a valid token continue
// anonymously; handlers decide whether authentication is required.
func authMiddleware(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.VerifyAccessToken(authHeader[7:])
			if err != nil {
				// Invalid token continues anonymously; a protected
				// handler will reject it.
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), contextKeyUserID, claims.UserID)
			ctx = context.WithValue(ctx, contextKeyUserName, claims.UserName)
			ctx = context.WithValue(ctx, contextKeyIsAdmin, claims.IsAdmin())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID returns the authenticated user ID from context.
func GetUserID(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(contextKeyUserID).(string)
	if !ok || userID == "" {
		return "", huma.Error401Unauthorized("Authentication required")
	}
	return userID, nil
}

// IsAdmin reports whether the caller's token carries the admin role.
// False for anonymous requests.
func IsAdmin(ctx context.Context) bool {
	isAdmin, ok := ctx.Value(contextKeyIsAdmin).(bool)
	return ok && isAdmin
}

// RequireUser returns the authenticated user, fetched from the store.
func (s *Server) RequireUser(ctx context.Context) (*domain.User, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.store.Users.Get(ctx, userID)
	if err != nil {
		return nil, huma.Error401Unauthorized("User not found")
	}

	return user, nil
}

// RequireAdmin validates the user is authenticated and has the admin role.
func (s *Server) RequireAdmin(ctx context.Context) (string, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return "", err
	}
	if !IsAdmin(ctx) {
		return "", domainerrors.Forbidden("Admin access required")
	}
	return userID, nil
}

// rateLimitMiddleware rejects requests over the per-IP budget with 429.
// Applied to the auth endpoints only.
func rateLimitMiddleware(limiter *ratelimit.KeyedRateLimiter, protected func(*http.Request) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if protected != nil && !protected(r) {
				next.ServeHTTP(w, r)
				return
			}

			if !limiter.Allow(clientIP(r)) {
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"v":1,"success":false,"error":"Too many requests. Please try again later."}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extracts the client IP, honoring proxy headers.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// First IP in the chain is the client.
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// Strip the port from RemoteAddr.
	ip := r.RemoteAddr
	if i := strings.LastIndexByte(ip, ':'); i >= 0 {
		return ip[:i]
	}
	return ip
}
