package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/rewriter/internal/schemas"
	"github.com/jonathan/rewriter/internal/types"
)

func TestRewrite_Success(t *testing.T) {
	var got types.RewriteRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rewrite", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(types.RewriteResponse{Options: []types.RewriteOption{
			types.NewRewriteOption("Hello.", types.StyleProfessional),
			types.NewRewriteOption("Hey!", types.StyleCasual),
		}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "tok", nil)
	options, err := c.Rewrite(context.Background(), "hello", []types.Style{types.StyleProfessional, types.StyleCasual})
	require.NoError(t, err)

	assert.Equal(t, "hello", got.Text)
	assert.Equal(t, []string{"Professional", "Casual"}, got.Styles)
	require.Len(t, options, 2)
	assert.Equal(t, "Hey!", options[1].Text)
}

func TestRewrite_OmitsStylesAndToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		var raw map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, hasStyles := raw["styles"]
		assert.False(t, hasStyles)
		_, _ = w.Write([]byte(`{"options":[]}`))
	}))
	defer srv.Close()

	options, err := NewClient(srv.URL, "", nil).Rewrite(context.Background(), "hello", nil)
	require.NoError(t, err)
	assert.Empty(t, options)
}

func TestRewrite_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Text is required"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "", nil).Rewrite(context.Background(), "", nil)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Equal(t, "Text is required", statusErr.Message)
	assert.Equal(t, "backend returned 400: Text is required", err.Error())
}

func TestRewrite_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "", nil).Rewrite(context.Background(), "hi there", nil)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, "backend returned 502", err.Error())
}

func TestRewrite_MissingOptions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result":"ok"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "", nil).Rewrite(context.Background(), "hi there", nil)

	var validationErr *schemas.ValidationError
	require.True(t, errors.As(err, &validationErr))
}

func TestRewrite_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, "", nil).Rewrite(context.Background(), "hi there", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to reach backend")
}

func TestRewrite_ContextTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewClient(srv.URL, "", nil).Rewrite(ctx, "hi there", nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
