package notifications

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/9ssi7/exponent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTokens struct {
	tokens  []string
	removed []string
}

func (f *fakeTokens) All(context.Context) ([]string, error) { return f.tokens, nil }

func (f *fakeTokens) RemoveTokens(_ context.Context, tokens []string) error {
	f.removed = append(f.removed, tokens...)
	return nil
}

type fakePush struct {
	batches [][]*exponent.Message
	ticket  func(token string) Ticket
	err     error
}

func (f *fakePush) Send(_ context.Context, msgs []*exponent.Message) ([]Ticket, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.batches = append(f.batches, msgs)
	out := make([]Ticket, len(msgs))
	for i, m := range msgs {
		out[i] = f.ticket(string(*m.To[0]))
	}
	return out, nil
}

func okTicket(string) Ticket { return Ticket{Status: "ok"} }

var gala = EventAnnouncement{Title: "Spring gala", StartsAt: "Sat 3 May, 18:00", Location: "Town hall", PublicKey: "xK9p"}

func TestAnnounceEvent_DedupesTokens(t *testing.T) {
	tokens := &fakeTokens{tokens: []string{"ExpoPushToken[a]", "ExpoPushToken[b]", "ExpoPushToken[a]", ""}}
	push := &fakePush{ticket: okTicket}

	sent, err := AnnounceEvent(context.Background(), push, tokens, zap.NewNop().Sugar(), gala)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	require.Len(t, push.batches, 1)

	msg := push.batches[0][0]
	assert.Equal(t, "Spring gala", msg.Title)
	assert.Equal(t, "Sat 3 May, 18:00 · Town hall", msg.Body)
	assert.EqualValues(t, map[string]string{"type": "event_published", "event": "xK9p", "screen": "events/xK9p"}, msg.Data)
	assert.Empty(t, tokens.removed)
}

func TestAnnounceEvent_PrunesUnregistered(t *testing.T) {
	tokens := &fakeTokens{tokens: []string{"ExpoPushToken[live]", "ExpoPushToken[gone]", "ExpoPushToken[flaky]"}}
	push := &fakePush{ticket: func(token string) Ticket {
		var tk Ticket
		switch token {
		case "ExpoPushToken[gone]":
			tk.Status = "error"
			tk.Details.Error = "DeviceNotRegistered"
		case "ExpoPushToken[flaky]":
			tk.Status = "error"
			tk.Details.Error = "MessageRateExceeded"
		default:
			tk.Status = "ok"
		}
		return tk
	}}

	sent, err := AnnounceEvent(context.Background(), push, tokens, zap.NewNop().Sugar(), gala)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, []string{"ExpoPushToken[gone]"}, tokens.removed)
}

func TestAnnounceEvent_Batches(t *testing.T) {
	all := make([]string, 0, 250)
	for i := range 250 {
		all = append(all, fmt.Sprintf("ExpoPushToken[%d]", i))
	}
	push := &fakePush{ticket: okTicket}

	sent, err := AnnounceEvent(context.Background(), push, &fakeTokens{tokens: all}, zap.NewNop().Sugar(), gala)
	require.NoError(t, err)
	assert.Equal(t, 250, sent)
	require.Len(t, push.batches, 3)
	assert.Len(t, push.batches[0], 100)
	assert.Len(t, push.batches[2], 50)
}

func TestAnnounceEvent_NoTokens(t *testing.T) {
	push := &fakePush{ticket: okTicket}

	sent, err := AnnounceEvent(context.Background(), push, &fakeTokens{}, zap.NewNop().Sugar(), gala)
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, push.batches)
}

func TestAnnounceEvent_SendError(t *testing.T) {
	push := &fakePush{err: errors.New("expo down")}

	_, err := AnnounceEvent(context.Background(), push, &fakeTokens{tokens: []string{"ExpoPushToken[a]"}}, zap.NewNop().Sugar(), gala)
	assert.ErrorContains(t, err, "expo down")
}
