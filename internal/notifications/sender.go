package notifications

import (
	"context"

	"github.com/9ssi7/exponent"
)

// Ticket is Expo's per-message receipt, in the same order as the messages
// that were published.
type Ticket struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Details struct {
		Error string `json:"error"`
	} `json:"details"`
}

func (t Ticket) DeviceNotRegistered() bool {
	return t.Status == "error" && t.Details.Error == "DeviceNotRegistered"
}

// PushSender publishes a batch of Expo messages.
type PushSender interface {
	Send(ctx context.Context, msgs []*exponent.Message) ([]Ticket, error)
}

// TokenStore is the slice of the push token repository announcements need.
type TokenStore interface {
	All(ctx context.Context) ([]string, error)
	RemoveTokens(ctx context.Context, tokens []string) error
}
