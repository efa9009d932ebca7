package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"chapter/internal/domain/events"
	"chapter/internal/notifications"

	"github.com/9ssi7/exponent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePushTokens struct {
	tokens []string
}

func (f *fakePushTokens) Upsert(context.Context, int64, string, json.RawMessage) error { return nil }
func (f *fakePushTokens) Remove(context.Context, int64, string) error                  { return nil }
func (f *fakePushTokens) RemoveTokens(context.Context, []string) error                 { return nil }
func (f *fakePushTokens) All(context.Context) ([]string, error)                        { return f.tokens, nil }
func (f *fakePushTokens) PruneStale(context.Context, time.Duration) (int64, error)     { return 0, nil }

type fakePush struct {
	mu   sync.Mutex
	msgs []*exponent.Message
}

func (f *fakePush) Send(_ context.Context, msgs []*exponent.Message) ([]notifications.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msgs...)
	tickets := make([]notifications.Ticket, len(msgs))
	for i := range tickets {
		tickets[i].Status = "ok"
	}
	return tickets, nil
}

func (f *fakePush) sent() []*exponent.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.msgs
}

func TestSetEventPublished_PushesOnlyOnFirstPublish(t *testing.T) {
	tests := []struct {
		name     string
		wasLive  bool
		action   string
		wantLive bool
		wantPush bool
	}{
		{"draft published", false, "publish", true, true},
		{"already published", true, "publish", true, false},
		{"published event withdrawn", true, "unpublish", false, false},
		{"draft unpublished", false, "unpublish", false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApplication(t, nil)
			push := &fakePush{}
			app.push = push
			app.store.PushTokens = &fakePushTokens{tokens: []string{"ExpoPushToken[a]", "ExpoPushToken[b]"}}
			app.store.Events.(*fakeEvents).put(events.Event{
				ID:        5,
				Title:     "Spring Gala",
				Location:  "Town hall",
				StartsAt:  testNow.Add(72 * time.Hour),
				EndsAt:    testNow.Add(75 * time.Hour),
				Published: tc.wasLive,
			})

			handler := app.publishEventHandler
			if tc.action == "unpublish" {
				handler = app.unpublishEventHandler
			}
			req := withURLParam(httptest.NewRequest(http.MethodPost, fmt.Sprintf("/admin/events/5/%s", tc.action), nil), "eventID", "5")
			rr := executeRequest(req, http.HandlerFunc(handler))
			require.Equal(t, http.StatusOK, rr.Code)
			app.wg.Wait()

			var resp struct {
				Data eventResponse `json:"data"`
			}
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			assert.Equal(t, tc.wantLive, resp.Data.Published)

			if !tc.wantPush {
				assert.Empty(t, push.sent())
				return
			}
			msgs := push.sent()
			require.Len(t, msgs, 2)
			assert.Equal(t, "Spring Gala", msgs[0].Title)

			key, err := app.keys.Encode(5)
			require.NoError(t, err)
			assert.Equal(t, key, resp.Data.PublicKey)
			assert.Equal(t, map[string]string{
				"type":   "event_published",
				"event":  key,
				"screen": "events/" + key,
			}, msgs[0].Data)
		})
	}
}

func TestSetEventPublished_UnknownEvent(t *testing.T) {
	app := newTestApplication(t, nil)
	push := &fakePush{}
	app.push = push

	req := withURLParam(httptest.NewRequest(http.MethodPost, "/admin/events/99/publish", nil), "eventID", "99")
	rr := executeRequest(req, http.HandlerFunc(app.publishEventHandler))
	app.wg.Wait()

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Empty(t, push.sent())
}
