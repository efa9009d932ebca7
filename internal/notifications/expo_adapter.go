package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/9ssi7/exponent"
)

type ExpoAdapter struct {
	client *exponent.Client
}

func NewExpoAdapter(c *exponent.Client) *ExpoAdapter {
	return &ExpoAdapter{client: c}
}

func (a *ExpoAdapter) Send(ctx context.Context, msgs []*exponent.Message) ([]Ticket, error) {
	res, err := a.client.Publish(ctx, msgs)
	if err != nil {
		return nil, err
	}
	// the SDK response mirrors Expo's ticket JSON
	raw, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("encode expo tickets: %w", err)
	}
	var tickets []Ticket
	if err := json.Unmarshal(raw, &tickets); err != nil {
		return nil, fmt.Errorf("decode expo tickets: %w", err)
	}
	return tickets, nil
}
