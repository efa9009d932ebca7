package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEvent_Validate(t *testing.T) {
	start := time.Date(2025, 5, 1, 18, 0, 0, 0, time.UTC)

	assert.NoError(t, (&Event{StartsAt: start, EndsAt: start.Add(time.Hour)}).Validate())
	assert.ErrorIs(t, (&Event{StartsAt: start, EndsAt: start}).Validate(), ErrInvalidWindow)
	assert.ErrorIs(t, (&Event{StartsAt: start, EndsAt: start.Add(-time.Minute)}).Validate(), ErrInvalidWindow)
}

func TestUpdateEventRequest_Apply(t *testing.T) {
	start := time.Date(2025, 5, 1, 18, 0, 0, 0, time.UTC)
	base := Event{ID: 4, Title: "Picnic", Location: "Park", StartsAt: start, EndsAt: start.Add(2 * time.Hour)}

	title := "Summer picnic"
	end := start.Add(-time.Hour)
	merged := UpdateEventRequest{Title: &title, EndsAt: &end}.Apply(base)

	assert.Equal(t, "Summer picnic", merged.Title)
	assert.Equal(t, "Park", merged.Location)
	assert.Equal(t, "Picnic", base.Title)
	assert.ErrorIs(t, merged.Validate(), ErrInvalidWindow)
}
