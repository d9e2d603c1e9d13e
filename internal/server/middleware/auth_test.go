package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/rewriter/internal/types"
)

type testClaims struct {
	session types.SessionID
}

func (c *testClaims) GetSession() types.SessionID {
	return c.session
}

// staticValidator accepts the tokens in its map.
type staticValidator map[string]types.SessionID

func (v staticValidator) ValidateToken(token string) (SessionGetter, error) {
	session, ok := v[token]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return &testClaims{session: session}, nil
}

func newProtected(t *testing.T) (http.Handler, *types.SessionID) {
	t.Helper()
	var seen types.SessionID
	validator := staticValidator{"good-token": "session_1_abc"}
	h := AuthMiddleware(validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := GetSession(r)
		require.True(t, ok)
		seen = session
		w.WriteHeader(http.StatusOK)
	}))
	return h, &seen
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	for _, header := range []string{"Bearer good-token", "bearer good-token", "  BEARER   good-token "} {
		t.Run(header, func(t *testing.T) {
			h, seen := newProtected(t)
			req := httptest.NewRequest(http.MethodGet, "/history", nil)
			req.Header.Set("Authorization", header)
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, types.SessionID("session_1_abc"), *seen)
		})
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"wrong scheme", "Basic good-token"},
		{"no token", "Bearer"},
		{"extra parts", "Bearer good-token extra"},
		{"unknown token", "Bearer bad-token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newProtected(t)
			req := httptest.NewRequest(http.MethodGet, "/history", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
		})
	}
}

func TestGetSession_Unauthenticated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := GetSession(req)
	assert.False(t, ok)

	req = req.WithContext(WithSession(req.Context(), ""))
	_, ok = GetSession(req)
	assert.False(t, ok)
}
