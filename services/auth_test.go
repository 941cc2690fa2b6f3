package services

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (ts *testServer) doWithCookies(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func TestSignupLoginFlow(t *testing.T) {
	ts := newTestServer(t)
	creds := map[string]string{"email": "New@Example.com", "password": "secret1", "fullName": "New User"}

	rec := ts.do(t, http.MethodPost, "/api/auth/signup", creds, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody[map[string]any](t, rec)
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "new@example.com", user["email"])
	assert.NotContains(t, rec.Body.String(), "password")

	access := cookieNamed(rec, accessTokenCookie)
	require.NotNil(t, access)
	assert.True(t, access.HttpOnly)
	require.NotNil(t, cookieNamed(rec, refreshTokenCookie))

	rec = ts.do(t, http.MethodPost, "/api/auth/signup", creds, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.doWithCookies(t, http.MethodGet, "/api/auth/me", nil, access)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "new@example.com")

	rec = ts.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "new@example.com", "password": "wrong-password"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials", decodeBody[map[string]string](t, rec)["message"])

	rec = ts.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "new@example.com", "password": "secret1"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, cookieNamed(rec, accessTokenCookie))
}

func TestSignupValidation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{name: "Short password", body: map[string]string{"email": "a@example.com", "password": "123"}},
		{name: "Bad email", body: map[string]string{"email": "not-an-email", "password": "secret1"}},
		{name: "Missing email", body: map[string]string{"password": "secret1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, "/api/auth/signup", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRefreshCookieRestoresSession(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/auth/signup", map[string]string{"email": "r@example.com", "password": "secret1"}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	refresh := cookieNamed(rec, refreshTokenCookie)
	require.NotNil(t, refresh)

	// Only the refresh cookie: the middleware mints a new access cookie
	rec = ts.doWithCookies(t, http.MethodGet, "/api/users/profile", nil, refresh)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, cookieNamed(rec, accessTokenCookie))

	rec = ts.doWithCookies(t, http.MethodPost, "/api/auth/refresh", nil, refresh)
	require.Equal(t, http.StatusOK, rec.Code)
	access := cookieNamed(rec, accessTokenCookie)
	require.NotNil(t, access)

	rec = ts.doWithCookies(t, http.MethodPost, "/api/auth/logout", nil, access)
	require.Equal(t, http.StatusOK, rec.Code)

	// Logout revoked the refresh token
	rec = ts.doWithCookies(t, http.MethodPost, "/api/auth/refresh", nil, refresh)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserFromContext(t *testing.T) {
	_, ok := UserFromContext(context.Background())
	assert.False(t, ok)

	repo := newTestRepository(t)
	user := createTestUser(t, repo, "a@example.com")
	got, ok := UserFromContext(WithUser(context.Background(), user))
	require.True(t, ok)
	assert.Equal(t, user.ID, got.ID)
}
