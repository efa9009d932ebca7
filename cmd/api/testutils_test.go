package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"chapter/internal/access"
	"chapter/internal/auth"
	"chapter/internal/domain/events"
	"chapter/internal/domain/posts"
	"chapter/internal/domain/storage"
	"chapter/internal/domain/users"
	"chapter/internal/ratelimiter"
	"chapter/internal/shortkey"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func newTestApplication(t *testing.T, resolver access.SessionResolver) *application {
	t.Helper()

	keys, err := shortkey.New("test-salt", 6)
	require.NoError(t, err)

	app := &application{
		config: config{
			env:         "test",
			frontendURL: "http://localhost:3000",
			chapterName: "Test Chapter",
			auth: authConfig{
				basic: basicConfig{user: "ops", pass: "hunter2"},
				token: tokenConfig{secret: "test-secret", exp: time.Hour, iss: "chapter", aud: "chapter"},
			},
			access:      accessConfig{internalSecret: "s3cret"},
			rateLimiter: ratelimiter.Config{Enabled: false},
		},
		logger:        zap.NewNop().Sugar(),
		store:         newTestContainer(),
		authenticator: auth.NewJWTAuthenticator("test-secret", "chapter", "chapter", time.Hour),
		keys:          keys,
		now:           func() time.Time { return testNow },
	}
	if resolver == nil {
		resolver = access.SessionResolverFunc(app.resolveSession)
	}
	app.gate = access.NewGate(access.MustPolicyTable(access.DefaultPolicies()...), resolver)
	return app
}

// newTestContainer wires in-memory stores. Transactions run fn directly
// against the same fakes.
func newTestContainer() *storage.Container {
	c := &storage.Container{
		Users:  newFakeUsers(),
		Posts:  &fakePosts{},
		Events: &fakeEvents{items: map[int64]*events.Event{}},
	}
	c.RunTx = func(_ context.Context, fn func(tx *storage.Container) error) error {
		return fn(c)
	}
	return c
}

func executeRequest(req *http.Request, h http.Handler) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// staticSession resolves every request to the same session.
func staticSession(s *access.Session) access.SessionResolver {
	return access.SessionResolverFunc(func(context.Context, *http.Request) (*access.Session, error) {
		return s, nil
	})
}

type fakeUsers struct {
	mu     sync.Mutex
	byID   map[int64]*users.User
	nextID int64
	getErr error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[int64]*users.User{}, nextID: 1}
}

func (f *fakeUsers) add(t *testing.T, email, pass string, role access.Role, active bool) *users.User {
	t.Helper()
	u := &users.User{FirstName: "Test", LastName: role.String(), Email: email, Role: role}
	require.NoError(t, u.Password.Set(pass))
	require.NoError(t, f.Create(context.Background(), u))
	u.IsActive = active
	return u
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, users.ErrNotFound
}

func (f *fakeUsers) Create(_ context.Context, u *users.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if strings.EqualFold(existing.Email, u.Email) {
			return users.ErrDuplicateEmail
		}
	}
	u.ID = f.nextID
	u.IsActive = true
	f.nextID++
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUsers) List(_ context.Context, filter users.ListFilter, limit, offset int) ([]users.User, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []users.User{}
	for _, u := range f.byID {
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := len(out)
	if offset >= len(out) {
		return []users.User{}, total, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (f *fakeUsers) UpdateRole(_ context.Context, id int64, role access.Role) (*users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	u.Role = role
	return u, nil
}

func (f *fakeUsers) SetActive(_ context.Context, id int64, active bool) (*users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	u.IsActive = active
	return u, nil
}

func (f *fakeUsers) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return users.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeUsers) Count(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID), nil
}

type fakePosts struct {
	created []*posts.Post
	err     error
}

func (f *fakePosts) Create(_ context.Context, p *posts.Post) error {
	if f.err != nil {
		return f.err
	}
	if p.Slug == "" {
		p.Slug = posts.Slugify(p.Title)
	}
	p.ID = int64(len(f.created) + 1)
	p.Status = posts.StatusDraft
	f.created = append(f.created, p)
	return nil
}

func (f *fakePosts) GetByID(context.Context, int64) (*posts.Post, error) { return nil, posts.ErrNotFound }
func (f *fakePosts) GetPublishedBySlug(context.Context, string) (*posts.Post, error) {
	return nil, posts.ErrNotFound
}
func (f *fakePosts) List(context.Context, posts.ListFilter, int, int) ([]posts.Post, int, error) {
	return []posts.Post{}, 0, nil
}
func (f *fakePosts) Update(context.Context, int64, posts.UpdatePostRequest) (*posts.Post, error) {
	return nil, posts.ErrNotFound
}
func (f *fakePosts) SetStatus(context.Context, int64, posts.Status) (*posts.Post, error) {
	return nil, posts.ErrNotFound
}
func (f *fakePosts) Delete(context.Context, int64) error                { return posts.ErrNotFound }
func (f *fakePosts) Count(context.Context, *posts.Status) (int, error) { return 0, nil }

type fakeEvents struct {
	mu    sync.Mutex
	items map[int64]*events.Event
}

func (f *fakeEvents) put(e events.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[e.ID] = &e
}

func (f *fakeEvents) get(id int64) (*events.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.items[id]
	if !ok {
		return nil, events.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEvents) GetByID(_ context.Context, id int64) (*events.Event, error) { return f.get(id) }

func (f *fakeEvents) GetPublishedByID(_ context.Context, id int64) (*events.Event, error) {
	e, err := f.get(id)
	if err != nil || !e.Published {
		return nil, events.ErrNotFound
	}
	return e, nil
}

func (f *fakeEvents) SetPublished(_ context.Context, id int64, published bool) (*events.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.items[id]
	if !ok {
		return nil, events.ErrNotFound
	}
	e.Published = published
	cp := *e
	return &cp, nil
}

func (f *fakeEvents) ListUpcoming(context.Context, time.Time, int, int) ([]events.Event, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []events.Event{}
	for _, e := range f.items {
		if e.Published {
			out = append(out, *e)
		}
	}
	return out, len(out), nil
}

func (f *fakeEvents) Create(context.Context, *events.Event) error { return nil }
func (f *fakeEvents) List(context.Context, int, int) ([]events.Event, int, error) {
	return []events.Event{}, 0, nil
}
func (f *fakeEvents) Update(context.Context, int64, events.UpdateEventRequest) (*events.Event, error) {
	return nil, events.ErrNotFound
}
func (f *fakeEvents) Delete(context.Context, int64) error                   { return events.ErrNotFound }
func (f *fakeEvents) CountUpcoming(context.Context, time.Time) (int, error) { return 0, nil }
