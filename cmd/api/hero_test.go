package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"chapter/internal/domain/hero"
	"chapter/internal/domain/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHero struct {
	items map[int64]*hero.Announcement
}

func newFakeHero(items ...hero.Announcement) *fakeHero {
	f := &fakeHero{items: map[int64]*hero.Announcement{}}
	for _, a := range items {
		f.items[a.ID] = &a
	}
	return f
}

func (f *fakeHero) sorted() []hero.Announcement {
	out := []hero.Announcement{}
	for _, a := range f.items {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out
}

func (f *fakeHero) GetLive(_ context.Context, now time.Time) (*hero.Announcement, error) {
	for _, a := range f.sorted() {
		if a.LiveAt(now) {
			return &a, nil
		}
	}
	return nil, hero.ErrNotFound
}

func (f *fakeHero) List(context.Context, int, int) ([]hero.Announcement, int, error) {
	out := f.sorted()
	return out, len(out), nil
}

func (f *fakeHero) GetByID(_ context.Context, id int64) (*hero.Announcement, error) {
	a, ok := f.items[id]
	if !ok {
		return nil, hero.ErrNotFound
	}
	return a, nil
}

func (f *fakeHero) Create(_ context.Context, req hero.CreateRequest) (*hero.Announcement, error) {
	if req.StartsAt != nil && req.EndsAt != nil && !req.EndsAt.After(*req.StartsAt) {
		return nil, hero.ErrInvalidWindow
	}
	a := &hero.Announcement{ID: int64(len(f.items) + 1), Title: req.Title, Active: req.Active, DisplayOrder: req.DisplayOrder}
	f.items[a.ID] = a
	return a, nil
}

func (f *fakeHero) Update(_ context.Context, id int64, req hero.UpdateRequest) (*hero.Announcement, error) {
	a, ok := f.items[id]
	if !ok {
		return nil, hero.ErrNotFound
	}
	if req.Title != nil {
		a.Title = *req.Title
	}
	return a, nil
}

func (f *fakeHero) Delete(_ context.Context, id int64) error {
	if _, ok := f.items[id]; !ok {
		return hero.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeHero) Toggle(_ context.Context, id int64) (*hero.Announcement, error) {
	a, ok := f.items[id]
	if !ok {
		return nil, hero.ErrNotFound
	}
	a.Active = !a.Active
	return a, nil
}

func (f *fakeHero) Reorder(_ context.Context, updates []hero.DisplayOrderUpdate) error {
	for _, u := range updates {
		a, ok := f.items[u.ID]
		if !ok {
			return hero.ErrNotFound
		}
		a.DisplayOrder = u.DisplayOrder
	}
	return nil
}

func (f *fakeHero) CountActive(context.Context, time.Time) (int, error) { return 0, nil }

func TestGetLiveHeroHandler(t *testing.T) {
	ended := testNow.Add(-time.Hour)
	app := newTestApplication(t, nil)
	app.store.Hero = newFakeHero(
		hero.Announcement{ID: 1, Title: "Old news", Active: true, DisplayOrder: 0, EndsAt: &ended},
		hero.Announcement{ID: 2, Title: "Hidden", Active: false, DisplayOrder: 1},
		hero.Announcement{ID: 3, Title: "Spring gala tickets", Active: true, DisplayOrder: 2},
	)

	rr := executeRequest(httptest.NewRequest(http.MethodGet, "/v1/hero", nil), http.HandlerFunc(app.getLiveHeroHandler))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Data *hero.Announcement `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.NotNil(t, resp.Data)
	assert.Equal(t, int64(3), resp.Data.ID)

	app.store.Hero = newFakeHero()
	rr = executeRequest(httptest.NewRequest(http.MethodGet, "/v1/hero", nil), http.HandlerFunc(app.getLiveHeroHandler))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"data":null}`, rr.Body.String())
}

func TestHeroHandlers(t *testing.T) {
	tests := []struct {
		name    string
		handler func(app *application) http.HandlerFunc
		method  string
		id      string
		body    string
		want    int
	}{
		{"create", func(app *application) http.HandlerFunc { return app.createHeroHandler }, http.MethodPost, "", `{"title":"Volunteer drive","active":true}`, http.StatusCreated},
		{"create without title", func(app *application) http.HandlerFunc { return app.createHeroHandler }, http.MethodPost, "", `{"active":true}`, http.StatusBadRequest},
		{"create with inverted window", func(app *application) http.HandlerFunc { return app.createHeroHandler },
			http.MethodPost, "", `{"title":"x","starts_at":"2026-04-02T00:00:00Z","ends_at":"2026-04-01T00:00:00Z"}`, http.StatusBadRequest},
		{"create with bad cta url", func(app *application) http.HandlerFunc { return app.createHeroHandler }, http.MethodPost, "", `{"title":"x","cta_url":"not a url"}`, http.StatusBadRequest},
		{"get", func(app *application) http.HandlerFunc { return app.getHeroHandler }, http.MethodGet, "1", "", http.StatusOK},
		{"get unknown", func(app *application) http.HandlerFunc { return app.getHeroHandler }, http.MethodGet, "77", "", http.StatusNotFound},
		{"update", func(app *application) http.HandlerFunc { return app.updateHeroHandler }, http.MethodPatch, "1", `{"title":"Renamed"}`, http.StatusOK},
		{"toggle", func(app *application) http.HandlerFunc { return app.toggleHeroHandler }, http.MethodPatch, "1", "", http.StatusOK},
		{"delete", func(app *application) http.HandlerFunc { return app.deleteHeroHandler }, http.MethodDelete, "1", "", http.StatusNoContent},
		{"delete unknown", func(app *application) http.HandlerFunc { return app.deleteHeroHandler }, http.MethodDelete, "77", "", http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApplication(t, nil)
			app.store.Hero = newFakeHero(hero.Announcement{ID: 1, Title: "Welcome", Active: true})

			req := httptest.NewRequest(tc.method, "/admin/dashboard/hero/"+tc.id, strings.NewReader(tc.body))
			if tc.id != "" {
				req = withURLParam(req, "heroID", tc.id)
			}
			rr := executeRequest(req, tc.handler(app))
			assert.Equal(t, tc.want, rr.Code, rr.Body.String())
		})
	}
}

func TestToggleHeroHandler_FlipsActive(t *testing.T) {
	app := newTestApplication(t, nil)
	fake := newFakeHero(hero.Announcement{ID: 1, Title: "Welcome", Active: true})
	app.store.Hero = fake

	for _, want := range []bool{false, true} {
		req := withURLParam(httptest.NewRequest(http.MethodPatch, "/admin/dashboard/hero/1/toggle", nil), "heroID", "1")
		rr := executeRequest(req, http.HandlerFunc(app.toggleHeroHandler))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, want, fake.items[1].Active)
	}
}

func TestReorderHeroHandler(t *testing.T) {
	t.Run("runs in one transaction", func(t *testing.T) {
		app := newTestApplication(t, nil)
		fake := newFakeHero(
			hero.Announcement{ID: 1, Title: "A", DisplayOrder: 0},
			hero.Announcement{ID: 2, Title: "B", DisplayOrder: 1},
		)
		app.store.Hero = fake

		txs := 0
		run := app.store.RunTx
		app.store.RunTx = func(ctx context.Context, fn func(tx *storage.Container) error) error {
			txs++
			return run(ctx, fn)
		}

		body := `{"orders":[{"id":1,"display_order":1},{"id":2,"display_order":0}]}`
		rr := executeRequest(httptest.NewRequest(http.MethodPut, "/admin/dashboard/hero/order", strings.NewReader(body)),
			http.HandlerFunc(app.reorderHeroHandler))

		require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())
		assert.Equal(t, 1, txs)
		assert.Equal(t, 1, fake.items[1].DisplayOrder)
		assert.Equal(t, 0, fake.items[2].DisplayOrder)
	})

	t.Run("unknown announcement", func(t *testing.T) {
		app := newTestApplication(t, nil)
		app.store.Hero = newFakeHero(hero.Announcement{ID: 1, Title: "A"})

		body := `{"orders":[{"id":1,"display_order":3},{"id":9,"display_order":0}]}`
		rr := executeRequest(httptest.NewRequest(http.MethodPut, "/admin/dashboard/hero/order", strings.NewReader(body)),
			http.HandlerFunc(app.reorderHeroHandler))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("empty list", func(t *testing.T) {
		app := newTestApplication(t, nil)
		app.store.Hero = newFakeHero()

		rr := executeRequest(httptest.NewRequest(http.MethodPut, "/admin/dashboard/hero/order", strings.NewReader(`{"orders":[]}`)),
			http.HandlerFunc(app.reorderHeroHandler))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("transaction failure", func(t *testing.T) {
		app := newTestApplication(t, nil)
		app.store.Hero = newFakeHero(hero.Announcement{ID: 1, Title: "A"})
		app.store.RunTx = func(context.Context, func(tx *storage.Container) error) error {
			return errors.New("could not begin")
		}

		rr := executeRequest(httptest.NewRequest(http.MethodPut, "/admin/dashboard/hero/order", strings.NewReader(`{"orders":[{"id":1,"display_order":0}]}`)),
			http.HandlerFunc(app.reorderHeroHandler))
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
