package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/monyze/internal/common"
	"github.com/dmitrijs2005/monyze/internal/netx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *HTTPClient {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return NewHTTPClient(ts.URL+"/", time.Second)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestHTTPClient_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("created", func(t *testing.T) {
		var got registerBody
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/register", r.URL.Path)
			assert.Equal(t, http.MethodPost, r.Method)
			_ = json.NewDecoder(r.Body).Decode(&got)
			writeJSON(w, http.StatusCreated, map[string]string{"id": "u1", "name": "Ann", "email": "a@x.io"})
		})

		u, err := c.Register(ctx, "Ann", "a@x.io", "pw")
		require.NoError(t, err)
		assert.Equal(t, "u1", u.ID)
		assert.Equal(t, "Ann", u.Name)
		assert.Equal(t, registerBody{Name: "Ann", Email: "a@x.io", Password: "pw"}, got)
	})

	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"validation", http.StatusBadRequest, common.ErrorValidation},
		{"conflict", http.StatusConflict, common.ErrorConflict},
		{"internal", http.StatusInternalServerError, common.ErrorInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, map[string]string{"message": "nope"})
			})

			_, err := c.Register(ctx, "Ann", "a@x.io", "pw")
			require.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "nope")
		})
	}
}

func TestHTTPClient_SignIn(t *testing.T) {
	ctx := context.Background()
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("ok", func(t *testing.T) {
		var got credentialsBody
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/auth/signin", r.URL.Path)
			_ = json.NewDecoder(r.Body).Decode(&got)
			writeJSON(w, http.StatusOK, map[string]any{
				"token":   "tok",
				"expires": exp,
				"user":    map[string]string{"id": "u1", "name": "Ann", "email": "a@x.io"},
			})
		})

		s, err := c.SignIn(ctx, "a@x.io", "pw")
		require.NoError(t, err)
		assert.Equal(t, "tok", s.Token)
		assert.True(t, exp.Equal(s.ExpiresAt))
		assert.Equal(t, "Ann", s.User.Name)
		assert.Equal(t, credentialsBody{Email: "a@x.io", Password: "pw"}, got)
	})

	t.Run("rejected", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid email or password"})
		})

		_, err := c.SignIn(ctx, "a@x.io", "bad")
		require.ErrorIs(t, err, common.ErrorUnauthorized)
		assert.Contains(t, err.Error(), "invalid email or password")
	})

	t.Run("missing token", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{})
		})

		_, err := c.SignIn(ctx, "a@x.io", "pw")
		require.ErrorIs(t, err, common.ErrorInternal)
	})
}

func TestHTTPClient_Session(t *testing.T) {
	ctx := context.Background()
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("authenticated", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/auth/session", r.URL.Path)
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			writeJSON(w, http.StatusOK, map[string]any{
				"status":  "authenticated",
				"expires": exp,
				"user":    map[string]string{"id": "u1", "name": "Ann", "email": "a@x.io"},
			})
		})

		s, err := c.Session(ctx, "tok")
		require.NoError(t, err)
		assert.Equal(t, "tok", s.Token)
		assert.Equal(t, "u1", s.User.ID)
	})

	t.Run("anonymous", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "anonymous"})
		})

		_, err := c.Session(ctx, "tok")
		require.ErrorIs(t, err, common.ErrorUnauthorized)
	})
}

func TestHTTPClient_SignOut(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, "/api/auth/signout", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.SignOut(context.Background(), "tok"))
	assert.True(t, called)
}

func TestHTTPClient_Unavailable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	c := NewHTTPClient(url, time.Second)
	_, err := c.SignIn(context.Background(), "a@x.io", "pw")
	assert.True(t, errors.Is(err, netx.ErrUnavailable))
}
