package main

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"chapter/internal/access"
	"chapter/internal/session"
)

func (app *application) BasicAuthMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// read the auth header
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				app.unauthorizedBasicErrorResponse(w, r, fmt.Errorf("authorization header is missing"))
				return
			}

			// parse it -> get the base64
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Basic" {
				app.unauthorizedBasicErrorResponse(w, r, fmt.Errorf("authorization header is malformed"))
				return
			}

			decoded, err := base64.StdEncoding.DecodeString(parts[1])
			if err != nil {
				app.unauthorizedBasicErrorResponse(w, r, err)
				return
			}

			username := app.config.auth.basic.user
			pass := app.config.auth.basic.pass

			creds := strings.SplitN(string(decoded), ":", 2)
			if username == "" || len(creds) != 2 || creds[0] != username || creds[1] != pass {
				app.unauthorizedBasicErrorResponse(w, r, fmt.Errorf("invalid credentials"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AccessGateMiddleware runs every request through the access gate and
// redirects callers who may not see the page.
func (app *application) AccessGateMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v := app.gate.Decide(r.Context(), r)

		switch v.Decision {
		case access.Allow:
			next.ServeHTTP(w, r.WithContext(access.WithSession(r.Context(), v.Session)))
			return

		case access.RedirectNeedAccess:
			app.logger.Infow("access denied", "path", r.URL.Path, "user_id", v.Session.UserID, "role", v.Session.Role.String())
			http.Redirect(w, r, access.NeedAccessPath, http.StatusSeeOther)
			return
		}

		if v.Err != nil && !errors.Is(v.Err, access.ErrNoSession) && !errors.Is(v.Err, access.ErrSessionExpired) {
			app.logger.Warnw("session lookup failed", "path", r.URL.Path, "error", v.Err.Error())
		}
		http.Redirect(w, r, loginRedirect(r), http.StatusSeeOther)
	})
}

func loginRedirect(r *http.Request) string {
	next := r.URL.Path
	if r.URL.RawQuery != "" {
		next += "?" + r.URL.RawQuery
	}
	return access.LoginPath + "?next=" + url.QueryEscape(next)
}

// RequireSessionMiddleware rejects requests that carry no valid session
// cookie. Unlike the gate it answers with 401 instead of redirecting.
func (app *application) RequireSessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := app.resolveSession(r.Context(), r)
		if err != nil {
			app.internalServerError(w, r, err)
			return
		}
		if sess == nil {
			app.unauthorizedErrorResponse(w, r, access.ErrNoSession)
			return
		}

		next.ServeHTTP(w, r.WithContext(access.WithSession(r.Context(), sess)))
	})
}

// InternalSecretMiddleware guards endpoints that only sibling services call.
func (app *application) InternalSecretMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		want := app.config.access.internalSecret
		got := r.Header.Get(session.SecretHeader)

		if want == "" || subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
			app.forbiddenResponse(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (app *application) RateLimiterMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if app.config.rateLimiter.Enabled && app.rateLimiter != nil {
			if allow, retryAfter := app.rateLimiter.Allow(clientIP(r)); !allow {
				app.rateLimitExceededResponse(w, r, retryAfter)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP strips the port from RemoteAddr, which middleware.RealIP has
// already rewritten from the proxy headers.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
