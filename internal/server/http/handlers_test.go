package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/monyze/internal/server/auth"
	"github.com/dmitrijs2005/monyze/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type response struct {
	*httptest.ResponseRecorder
}

func (r response) decode(t *testing.T) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(r.Body.Bytes(), &m), r.Body.String())
	return m
}

func (r response) sessionCookie() *http.Cookie {
	for _, c := range r.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	return nil
}

func do(t *testing.T, h http.Handler, method, path string, body any, cookies ...*http.Cookie) response {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return response{rec}
}

func register(t *testing.T, h http.Handler, name, email, password string) response {
	t.Helper()
	return do(t, h, http.MethodPost, "/api/register", map[string]string{"name": name, "email": email, "password": password})
}

func TestRegister_Created(t *testing.T) {
	h := newTestServer(t, "").Handler()

	res := register(t, h, "Alice", "a@x.com", "secret")
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())

	body := res.decode(t)
	assert.NotEmpty(t, body["id"])
	assert.Equal(t, "Alice", body["name"])
	assert.Equal(t, "a@x.com", body["email"])
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "passwordHash")
	assert.NotContains(t, res.Body.String(), "secret")
}

func TestRegister_Errors(t *testing.T) {
	h := newTestServer(t, "").Handler()
	require.Equal(t, http.StatusCreated, register(t, h, "Alice", "a@x.com", "secret").Code)

	tests := []struct {
		name   string
		body   any
		status int
		msg    string
	}{
		{"duplicate", map[string]string{"name": "B", "email": "a@x.com", "password": "x"}, http.StatusConflict, "email is already in use"},
		{"missing name", map[string]string{"email": "b@x.com", "password": "x"}, http.StatusBadRequest, "name, email and password are required"},
		{"empty password", map[string]string{"name": "B", "email": "b@x.com", "password": ""}, http.StatusBadRequest, "name, email and password are required"},
		{"blank email", map[string]string{"name": "B", "email": "  ", "password": "x"}, http.StatusBadRequest, "name, email and password are required"},
		{"not json", "{nope", http.StatusBadRequest, "name, email and password are required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := do(t, h, http.MethodPost, "/api/register", tt.body)
			assert.Equal(t, tt.status, res.Code)
			assert.Equal(t, tt.msg, res.decode(t)["message"])
		})
	}
}

func TestSignIn_Scenario(t *testing.T) {
	h := newTestServer(t, "").Handler()

	reg := register(t, h, "Alice", "a@x.com", "secret")
	require.Equal(t, http.StatusCreated, reg.Code)
	userID := reg.decode(t)["id"]

	wrong := do(t, h, http.MethodPost, "/api/auth/signin", map[string]string{"email": "a@x.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Nil(t, wrong.sessionCookie())

	unknown := do(t, h, http.MethodPost, "/api/auth/signin", map[string]string{"email": "nobody@x.com", "password": "secret"})
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, wrong.decode(t)["message"], unknown.decode(t)["message"])
	assert.Equal(t, "invalid email or password", unknown.decode(t)["message"])

	ok := do(t, h, http.MethodPost, "/api/auth/signin", map[string]string{"email": "a@x.com", "password": "secret"})
	require.Equal(t, http.StatusOK, ok.Code, ok.Body.String())
	body := ok.decode(t)
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, userID, body["user"].(map[string]any)["id"])

	cookie := ok.sessionCookie()
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	sess := do(t, h, http.MethodGet, "/api/auth/session", nil, cookie)
	require.Equal(t, http.StatusOK, sess.Code)
	state := sess.decode(t)
	assert.Equal(t, StatusAuthenticated, state["status"])
	user := state["user"].(map[string]any)
	assert.Equal(t, userID, user["id"])
	assert.Equal(t, "Alice", user["name"])
	assert.NotEmpty(t, state["expires"])
}

func TestSignIn_MissingCredentials(t *testing.T) {
	h := newTestServer(t, "").Handler()

	res := do(t, h, http.MethodPost, "/api/auth/signin", map[string]string{"email": "a@x.com"})
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, "email and password are required", res.decode(t)["message"])

	res = do(t, h, http.MethodPost, "/api/auth/signin", "[]")
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestSession_Anonymous(t *testing.T) {
	h := newTestServer(t, "").Handler()

	res := do(t, h, http.MethodGet, "/api/auth/session", nil)
	require.Equal(t, http.StatusOK, res.Code)
	body := res.decode(t)
	assert.Equal(t, StatusAnonymous, body["status"])
	assert.NotContains(t, body, "user")
}

func TestSession_BearerToken(t *testing.T) {
	srv := newTestServer(t, "")
	h := srv.Handler()

	tok, _, err := auth.GenerateToken(&models.User{ID: "u-1", Name: "Bob", Email: "b@x.com"}, []byte(srv.config.SecretKey), time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	body := response{rec}.decode(t)
	assert.Equal(t, StatusAuthenticated, body["status"])
	assert.Equal(t, "Bob", body["user"].(map[string]any)["name"])
}

func TestSession_ExpiredTokenIsAnonymous(t *testing.T) {
	srv := newTestServer(t, "")

	tok, _, err := auth.GenerateToken(&models.User{ID: "u-1"}, []byte(srv.config.SecretKey), -time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, StatusAnonymous, response{rec}.decode(t)["status"])
}

func TestSignOut_ClearsCookie(t *testing.T) {
	h := newTestServer(t, "").Handler()
	require.Equal(t, http.StatusCreated, register(t, h, "Alice", "a@x.com", "secret").Code)

	ok := do(t, h, http.MethodPost, "/api/auth/signin", map[string]string{"email": "a@x.com", "password": "secret"})
	require.Equal(t, http.StatusOK, ok.Code)
	cookie := ok.sessionCookie()
	require.NotNil(t, cookie)

	out := do(t, h, http.MethodPost, "/api/auth/signout", nil, cookie)
	assert.Equal(t, http.StatusNoContent, out.Code)
	cleared := out.sessionCookie()
	require.NotNil(t, cleared)
	assert.True(t, cleared.MaxAge < 0, "cookie must be expired")

	sess := do(t, h, http.MethodGet, "/api/auth/session", nil, cleared)
	assert.Equal(t, StatusAnonymous, sess.decode(t)["status"])
}

func TestMe(t *testing.T) {
	h := newTestServer(t, "").Handler()

	res := do(t, h, http.MethodGet, "/api/me", nil)
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	require.Equal(t, http.StatusCreated, register(t, h, "Alice", "a@x.com", "secret").Code)
	ok := do(t, h, http.MethodPost, "/api/auth/signin", map[string]string{"email": "a@x.com", "password": "secret"})
	require.Equal(t, http.StatusOK, ok.Code)

	res = do(t, h, http.MethodGet, "/api/me", nil, ok.sessionCookie())
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	body := res.decode(t)
	assert.Equal(t, "a@x.com", body["email"])
	assert.NotContains(t, res.Body.String(), "$2a$")
}

func TestMe_UnknownUser(t *testing.T) {
	srv := newTestServer(t, "")

	tok, _, err := auth.GenerateToken(&models.User{ID: "ghost"}, []byte(srv.config.SecretKey), time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "bearer "+tok)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProvidersAndHealth(t *testing.T) {
	h := newTestServer(t, "").Handler()

	res := do(t, h, http.MethodGet, "/api/auth/providers", nil)
	require.Equal(t, http.StatusOK, res.Code)
	var list []map[string]string
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "credentials", list[0]["id"])

	res = do(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "ok", res.decode(t)["status"])
}

func TestCORS_AllowsConfiguredOrigin(t *testing.T) {
	h := newTestServer(t, "").Handler()

	req := httptest.NewRequest(http.MethodOptions, "/api/auth/session", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Bearer ", "", false},
		{"Basic abc", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(strings.ReplaceAll(tt.header, " ", "_"), func(t *testing.T) {
			tok, ok := bearerToken(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.token, tok)
		})
	}
}
