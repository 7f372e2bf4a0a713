package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/sop-assistant/internal/api/response"
	"github.com/Rrens/sop-assistant/internal/domain"
	"github.com/Rrens/sop-assistant/internal/repository/redis"
	"github.com/Rrens/sop-assistant/internal/security"
)

type contextKey string

const CallerKey contextKey = "caller"

// AuthMiddleware handles JWT authentication
type AuthMiddleware struct {
	jwtManager *security.JWTManager
	cookieName string
}

// NewAuthMiddleware creates a new auth middleware. Tokens are read from the
// Authorization header first, then from cookieName.
func NewAuthMiddleware(jwtManager *security.JWTManager, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager, cookieName: cookieName}
}

func (m *AuthMiddleware) token(r *http.Request) (string, bool) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return "", false
		}
		return parts[1], true
	}

	if m.cookieName != "" {
		if cookie, err := r.Cookie(m.cookieName); err == nil && cookie.Value != "" {
			return cookie.Value, true
		}
	}
	return "", false
}

// Authenticate validates the JWT token
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := m.token(r)
		if !ok {
			response.Unauthorized(w, "authentication required")
			return
		}

		claims, err := m.jwtManager.ValidateAccessToken(tokenString)
		if err != nil {
			response.Unauthorized(w, "invalid or expired token")
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			response.Unauthorized(w, "invalid or expired token")
			return
		}

		caller := &domain.Caller{UserID: userID, Role: claims.Role}
		next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
	})
}

// WithCaller attaches the authenticated caller to ctx
func WithCaller(ctx context.Context, caller *domain.Caller) context.Context {
	return context.WithValue(ctx, CallerKey, caller)
}

// GetCaller gets the authenticated caller from context
func GetCaller(ctx context.Context) (*domain.Caller, bool) {
	caller, ok := ctx.Value(CallerKey).(*domain.Caller)
	return caller, ok && caller != nil
}

// GetUserID gets the user ID from context
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	caller, ok := GetCaller(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return caller.UserID, true
}

// RequireRole rejects callers whose role is not role
func RequireRole(role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := GetCaller(r.Context())
			if !ok {
				response.Unauthorized(w, "authentication required")
				return
			}
			if caller.Role != role {
				response.Forbidden(w, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Limiter decides whether a request keyed by caller may proceed
type Limiter interface {
	Allow(ctx context.Context, key string) (redis.Decision, error)
}

// RateLimitMiddleware handles rate limiting
type RateLimitMiddleware struct {
	rateLimiter Limiter
}

// NewRateLimitMiddleware creates a new rate limit middleware
func NewRateLimitMiddleware(rateLimiter Limiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{rateLimiter: rateLimiter}
}

// Limit applies rate limiting based on user ID
func (m *RateLimitMiddleware) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserID(r.Context())
		if !ok {
			response.Unauthorized(w, "authentication required")
			return
		}

		decision, err := m.rateLimiter.Allow(r.Context(), userID.String())
		if err != nil {
			// fail open while redis is unreachable
			log.Warn().Err(err).Msg("Rate limiter unavailable, allowing request")
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))

		if !decision.Allowed {
			response.TooManyRequests(w, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}
