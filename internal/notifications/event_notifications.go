package notifications

import (
	"context"
	"fmt"
	"strings"

	"github.com/9ssi7/exponent"
	"go.uber.org/zap"
)

// maxBatch is the number of messages Expo accepts per request.
const maxBatch = 100

type EventAnnouncement struct {
	Title     string
	StartsAt  string
	Location  string
	PublicKey string
}

func (e EventAnnouncement) body() string {
	parts := []string{e.StartsAt}
	if e.Location != "" {
		parts = append(parts, e.Location)
	}
	return strings.Join(parts, " · ")
}

// AnnounceEvent pushes a newly published event to every registered device
// and drops tokens Expo reports as no longer registered. It returns the
// number of messages accepted by Expo.
func AnnounceEvent(ctx context.Context, push PushSender, tokens TokenStore, logger *zap.SugaredLogger, ev EventAnnouncement) (int, error) {
	all, err := tokens.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("load push tokens: %w", err)
	}
	all = dedupe(all)
	if len(all) == 0 {
		return 0, nil
	}

	sent := 0
	var stale []string
	for start := 0; start < len(all); start += maxBatch {
		end := min(start+maxBatch, len(all))
		batch := all[start:end]

		msgs := make([]*exponent.Message, 0, len(batch))
		for _, t := range batch {
			token := exponent.Token(t)
			msgs = append(msgs, &exponent.Message{
				To:    []*exponent.Token{&token},
				Title: ev.Title,
				Body:  ev.body(),
				Data: map[string]string{
					"type":   "event_published",
					"event":  ev.PublicKey,
					"screen": "events/" + ev.PublicKey,
				},
			})
		}

		tickets, err := push.Send(ctx, msgs)
		if err != nil {
			return sent, fmt.Errorf("publish event announcement: %w", err)
		}
		for i, ticket := range tickets {
			if i >= len(batch) {
				break
			}
			switch {
			case ticket.Status == "ok":
				sent++
			case ticket.DeviceNotRegistered():
				stale = append(stale, batch[i])
			default:
				logger.Warnw("push ticket error", "token", batch[i], "message", ticket.Message, "error", ticket.Details.Error)
			}
		}
	}

	if len(stale) > 0 {
		if err := tokens.RemoveTokens(ctx, stale); err != nil {
			logger.Errorw("failed to prune push tokens", "count", len(stale), "error", err)
		} else {
			logger.Infow("pruned unregistered push tokens", "count", len(stale))
		}
	}
	return sent, nil
}

func dedupe(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
