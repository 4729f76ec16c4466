package events_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/narwhalmedia/marquee/pkg/events"
)

func TestMarshalEnvelope(t *testing.T) {
	event := events.NewAggregateEvent("own_movie.created", "42", map[string]interface{}{"title": "Heat"})

	data, err := events.MarshalEnvelope(event)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, event.ID, decoded["id"])
	assert.Equal(t, "42", decoded["aggregate_id"])
	assert.Equal(t, "own_movie.created", decoded["event_type"])
	assert.Equal(t, map[string]interface{}{"title": "Heat"}, decoded["data"])
	assert.NotEmpty(t, decoded["occurred_at"])
}

func TestMarshalEnvelope_OmitsEmptyData(t *testing.T) {
	data, err := events.MarshalEnvelope(events.NewAggregateEvent("own_movie.deleted", "42", nil))
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"data"`)
}
