package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"Newsroom/internal/auth"
	"Newsroom/internal/core/users"
)

// Context keys for request-scoped auth data
type contextKey string

const (
	SubjectKey   contextKey = "subject"
	JWTClaimsKey contextKey = "jwt_claims"
)

// TokenVerifier checks bearer tokens
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// SubjectLoader resolves a token's subject to a user
type SubjectLoader interface {
	GetUserByID(ctx context.Context, id int64) (*users.User, error)
}

// AuthMiddleware authenticates bearer tokens and loads the calling user
type AuthMiddleware struct {
	verifier TokenVerifier
	users    SubjectLoader
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(verifier TokenVerifier, users SubjectLoader) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, users: users}
}

// RequireAuth rejects requests without a valid token for an existing user
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeAuthError(w, "Missing Authorization header")
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			writeAuthError(w, "Invalid Authorization header format. Expected: Bearer <token>")
			return
		}

		ctx, err := m.authenticate(r.Context(), authHeader)
		if err != nil {
			log.Warn().
				Err(err).
				Str("ip", r.RemoteAddr).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("authentication failed")
			writeAuthError(w, "Invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth loads the subject when a valid token is present and
// otherwise lets the request through anonymously
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			next.ServeHTTP(w, r)
			return
		}

		ctx, err := m.authenticate(r.Context(), authHeader)
		if err != nil {
			log.Debug().Err(err).Str("path", r.URL.Path).Msg("optional auth failed, continuing anonymously")
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) authenticate(ctx context.Context, authHeader string) (context.Context, error) {
	claims, err := m.verifier.Verify(strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")))
	if err != nil {
		return nil, err
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, err
	}
	subject, err := m.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	ctx = context.WithValue(ctx, SubjectKey, subject)
	ctx = context.WithValue(ctx, JWTClaimsKey, claims)
	return ctx, nil
}

// GetSubject returns the authenticated user, or nil for anonymous requests
func GetSubject(ctx context.Context) *users.User {
	subject, _ := ctx.Value(SubjectKey).(*users.User)
	return subject
}

// GetJWTClaims returns the verified claims, or nil for anonymous requests
func GetJWTClaims(r *http.Request) *auth.Claims {
	claims, _ := r.Context().Value(JWTClaimsKey).(*auth.Claims)
	return claims
}

// SetTestSubject injects a subject into the context, for handler tests
func SetTestSubject(ctx context.Context, subject *users.User) context.Context {
	return context.WithValue(ctx, SubjectKey, subject)
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"error":   "AuthenticationRequired",
		"message": message,
	}); err != nil {
		log.Error().Err(err).Msg("failed to write auth error response")
	}
}
