// Package middleware provides HTTP middleware for bearer-token authentication.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/jonathan/rewriter/internal/types"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

const sessionKey ContextKey = "session"

// TokenValidator validates bearer tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (SessionGetter, error)
}

// SessionGetter exposes the session a token was issued for.
type SessionGetter interface {
	GetSession() types.SessionID
}

// AuthMiddleware rejects requests without a valid bearer token and stores
// the token's session in the request context.
func AuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				unauthorized(w)
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := WithSession(r.Context(), claims.GetSession())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken parses "Bearer <token>" with a case-insensitive scheme.
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
}

// WithSession returns a context carrying session.
func WithSession(ctx context.Context, session types.SessionID) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// GetSession returns the authenticated session, if the request was authenticated.
func GetSession(r *http.Request) (types.SessionID, bool) {
	session, ok := r.Context().Value(sessionKey).(types.SessionID)
	return session, ok && session != ""
}
