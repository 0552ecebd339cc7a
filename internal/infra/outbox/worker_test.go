package outbox

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicForRoutesByAggregate(t *testing.T) {
	w := &Worker{}
	assert.Equal(t, "reservation.events.v1", w.topicFor("reservation.confirmed"))
	assert.Equal(t, "reservation.events.v1", w.topicFor("reservation"))

	w.TopicPrefix = "dev."
	assert.Equal(t, "dev.reservation.events.v1", w.topicFor("reservation.cancelled"))
}

func TestFormatPayloadWrapsCloudEvent(t *testing.T) {
	w := &Worker{Source: "app://mareblu-test"}
	doc := &EventDocument{
		ID:         "evt-1",
		Name:       "reservation.requested",
		Payload:    []byte(`{"reservation_id":"res-1","guests":2}`),
		OccurredAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Aggregate:  "res-1",
		Headers:    map[string]string{"traceparent": "00-abc-def-01"},
	}

	payload, headers, err := w.formatPayload(doc)
	require.NoError(t, err)
	assert.Equal(t, "application/cloudevents+json", headers["content-type"])
	assert.Equal(t, "00-abc-def-01", headers["traceparent"])

	var evt map[string]any
	require.NoError(t, json.Unmarshal(payload, &evt))
	assert.Equal(t, "1.0", evt["specversion"])
	assert.Equal(t, "reservation.requested.v1", evt["type"])
	assert.Equal(t, "app://mareblu-test", evt["source"])
	assert.Equal(t, "res-1", evt["subject"])
	assert.Equal(t, "00-abc-def-01", evt["traceparent"])
	data, ok := evt["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "res-1", data["reservation_id"])
}

func TestFormatPayloadRejectsInvalidJSON(t *testing.T) {
	w := &Worker{}
	_, _, err := w.formatPayload(&EventDocument{Payload: []byte("{broken")})
	assert.Error(t, err)
}

func TestNextRetryFollowsBackoff(t *testing.T) {
	w := &Worker{Backoff: []time.Duration{time.Second, 5 * time.Second}}

	first := w.nextRetry(0)
	second := w.nextRetry(1)
	beyond := w.nextRetry(7)

	assert.True(t, second.After(first))
	assert.WithinDuration(t, second, beyond, 100*time.Millisecond)
}
