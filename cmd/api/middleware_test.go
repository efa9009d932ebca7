package main

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chapter/internal/access"
	"chapter/internal/ratelimiter"
	"chapter/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gatedEcho(app *application) http.Handler {
	return app.AccessGateMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := access.SessionFromContext(r.Context())
		if sess == nil {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		w.Header().Set("X-Role", sess.Role.String())
		w.WriteHeader(http.StatusOK)
	}))
}

func TestAccessGateMiddleware(t *testing.T) {
	content := &access.Session{UserID: 2, Role: access.RoleContent}
	admin := &access.Session{UserID: 1, Role: access.RoleAdmin}

	tests := []struct {
		name     string
		session  *access.Session
		path     string
		status   int
		location string
	}{
		{"content on org units", content, "/admin/organization-units/create", http.StatusSeeOther, access.NeedAccessPath},
		{"content on hero", content, "/admin/dashboard/hero", http.StatusOK, ""},
		{"content on dashboard root", content, "/admin/dashboard", http.StatusOK, ""},
		{"content on events", content, "/admin/events", http.StatusSeeOther, access.NeedAccessPath},
		{"admin on events", admin, "/admin/events/9", http.StatusOK, ""},
		{"no session on users", nil, "/admin/users", http.StatusSeeOther, "/login?next=%2Fadmin%2Fusers"},
		{"no session on unlisted path", nil, "/admin/settings", http.StatusSeeOther, "/login?next=%2Fadmin%2Fsettings"},
		{"content on unlisted path", content, "/admin/settings", http.StatusOK, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApplication(t, staticSession(tc.session))

			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			rr := executeRequest(req, gatedEcho(app))

			assert.Equal(t, tc.status, rr.Code)
			assert.Equal(t, tc.location, rr.Header().Get("Location"))
			if tc.status == http.StatusOK {
				assert.Equal(t, tc.session.Role.String(), rr.Header().Get("X-Role"))
			}
		})
	}
}

func TestAccessGateMiddleware_KeepsQueryInNext(t *testing.T) {
	app := newTestApplication(t, staticSession(nil))

	req := httptest.NewRequest(http.MethodGet, "/admin/blog?status=draft", nil)
	rr := executeRequest(req, gatedEcho(app))

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login?next=%2Fadmin%2Fblog%3Fstatus%3Ddraft", rr.Header().Get("Location"))
}

func TestAccessGateMiddleware_ResolverFailureRedirectsToLogin(t *testing.T) {
	failing := access.SessionResolverFunc(func(context.Context, *http.Request) (*access.Session, error) {
		return nil, errors.New("auth service down")
	})
	app := newTestApplication(t, failing)

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	rr := executeRequest(req, gatedEcho(app))

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login?next=%2Fadmin%2Fdashboard", rr.Header().Get("Location"))
}

func TestMount_AdminWithoutCookieRedirects(t *testing.T) {
	app := newTestApplication(t, nil)
	mux := app.mount()

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	rr := executeRequest(req, mux)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login?next=%2Fadmin%2Fusers", rr.Header().Get("Location"))
}

func TestInternalSecretMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	t.Run("valid secret", func(t *testing.T) {
		app := newTestApplication(t, nil)
		req := httptest.NewRequest(http.MethodGet, "/v1/authentication/session", nil)
		req.Header.Set(session.SecretHeader, "s3cret")

		rr := executeRequest(req, app.InternalSecretMiddleware(ok))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		app := newTestApplication(t, nil)
		req := httptest.NewRequest(http.MethodGet, "/v1/authentication/session", nil)
		req.Header.Set(session.SecretHeader, "guess")

		rr := executeRequest(req, app.InternalSecretMiddleware(ok))
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("no secret configured", func(t *testing.T) {
		app := newTestApplication(t, nil)
		app.config.access.internalSecret = ""
		req := httptest.NewRequest(http.MethodGet, "/v1/authentication/session", nil)

		rr := executeRequest(req, app.InternalSecretMiddleware(ok))
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestBasicAuthMiddleware(t *testing.T) {
	app := newTestApplication(t, nil)
	h := app.BasicAuthMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"malformed", "Bearer abc", http.StatusUnauthorized},
		{"wrong password", "Basic " + base64.StdEncoding.EncodeToString([]byte("ops:nope")), http.StatusUnauthorized},
		{"valid", "Basic " + base64.StdEncoding.EncodeToString([]byte("ops:hunter2")), http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := executeRequest(req, h)
			assert.Equal(t, tc.status, rr.Code)
		})
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	app := newTestApplication(t, nil)
	limiter := ratelimiter.NewFixedWindowLimiter(2, time.Minute)
	t.Cleanup(limiter.Stop)
	app.rateLimiter = limiter
	app.config.rateLimiter = ratelimiter.Config{RequestsPerTimeFrame: 2, TimeFrame: time.Minute, Enabled: true}

	h := app.RateLimiterMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/v1/posts", nil)
		req.RemoteAddr = "203.0.113.7:4000"
		require.Equal(t, http.StatusOK, executeRequest(req, h).Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/posts", nil)
	req.RemoteAddr = "203.0.113.7:4001"
	rr := executeRequest(req, h)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))

	other := httptest.NewRequest(http.MethodGet, "/v1/posts", nil)
	other.RemoteAddr = "198.51.100.1:4000"
	assert.Equal(t, http.StatusOK, executeRequest(other, h).Code)
}

func TestRequireSessionMiddleware(t *testing.T) {
	app := newTestApplication(t, nil)
	fake := app.store.Users.(*fakeUsers)
	member := fake.add(t, "member@chapter.example", "password1", access.RoleUser, true)
	token, _, err := app.authenticator.GenerateToken(member.ID, member.Role)
	require.NoError(t, err)

	h := app.RequireSessionMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, member.ID, access.SessionFromContext(r.Context()).UserID)
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		cookie bool
		dbErr  error
		want   int
	}{
		{"valid session", true, nil, http.StatusNoContent},
		{"no cookie", false, nil, http.StatusUnauthorized},
		{"database down", true, errors.New("connection refused"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fake.getErr = tc.dbErr
			t.Cleanup(func() { fake.getErr = nil })

			req := httptest.NewRequest(http.MethodPut, "/v1/push-tokens", nil)
			if tc.cookie {
				req.AddCookie(&http.Cookie{Name: sessionCookie, Value: token})
			}
			assert.Equal(t, tc.want, executeRequest(req, h).Code)
		})
	}
}
