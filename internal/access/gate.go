package access

import (
	"context"
	"errors"
	"net/http"
	"time"
)

const (
	LoginPath      = "/login"
	NeedAccessPath = "/need-access"

	DefaultSessionTimeout = 3 * time.Second
)

var (
	ErrNoSession      = errors.New("no session")
	ErrSessionExpired = errors.New("session expired")
	ErrInvalidSession = errors.New("session carries no valid role")
)

// Session is the verified identity of a caller.
type Session struct {
	UserID    int64
	Role      Role
	ExpiresAt time.Time
}

// SessionResolver fetches the caller's session. A nil session with a nil
// error means the caller is not logged in.
type SessionResolver interface {
	Resolve(ctx context.Context, r *http.Request) (*Session, error)
}

// SessionResolverFunc adapts a function to SessionResolver.
type SessionResolverFunc func(ctx context.Context, r *http.Request) (*Session, error)

func (f SessionResolverFunc) Resolve(ctx context.Context, r *http.Request) (*Session, error) {
	return f(ctx, r)
}

type Decision uint8

const (
	RedirectLogin Decision = iota
	RedirectNeedAccess
	Allow
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect_login"
	case RedirectNeedAccess:
		return "redirect_need_access"
	}
	return "unknown"
}

// Location is the redirect target for d, empty for Allow.
func (d Decision) Location() string {
	switch d {
	case RedirectLogin:
		return LoginPath
	case RedirectNeedAccess:
		return NeedAccessPath
	case Allow:
		return ""
	}
	return LoginPath
}

// Verdict is the outcome of one gate evaluation. Err holds the reason a
// caller was sent to login and is for logging only.
type Verdict struct {
	Decision Decision
	Session  *Session
	Err      error
}

// Gate decides whether a request may proceed. It keeps no per-request state.
type Gate struct {
	table    *PolicyTable
	resolver SessionResolver
	timeout  time.Duration
	now      func() time.Time
}

type Option func(*Gate)

// WithSessionTimeout bounds the session lookup. Non-positive values keep the default.
func WithSessionTimeout(d time.Duration) Option {
	return func(g *Gate) {
		if d > 0 {
			g.timeout = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(g *Gate) {
		if now != nil {
			g.now = now
		}
	}
}

func NewGate(table *PolicyTable, resolver SessionResolver, opts ...Option) *Gate {
	g := &Gate{
		table:    table,
		resolver: resolver,
		timeout:  DefaultSessionTimeout,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Decide evaluates r. Any failure to establish a session yields RedirectLogin.
func (g *Gate) Decide(ctx context.Context, r *http.Request) Verdict {
	sess, err := g.resolve(ctx, r)
	if err != nil {
		return Verdict{Decision: RedirectLogin, Err: err}
	}

	roles, ok := g.table.Lookup(r.URL.Path)
	if ok && !roles.Contains(sess.Role) {
		return Verdict{Decision: RedirectNeedAccess, Session: sess}
	}
	return Verdict{Decision: Allow, Session: sess}
}

func (g *Gate) resolve(ctx context.Context, r *http.Request) (*Session, error) {
	if g.resolver == nil {
		return nil, ErrNoSession
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	type result struct {
		sess *Session
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		s, err := g.resolver.Resolve(ctx, r)
		ch <- result{s, err}
	}()

	var res result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	switch {
	case res.err != nil:
		return nil, res.err
	case res.sess == nil:
		return nil, ErrNoSession
	case !res.sess.Role.Valid():
		return nil, ErrInvalidSession
	case !res.sess.ExpiresAt.IsZero() && !g.now().Before(res.sess.ExpiresAt):
		return nil, ErrSessionExpired
	}
	return res.sess, nil
}

type sessionKey struct{}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the session stored by WithSession, or nil.
func SessionFromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}
