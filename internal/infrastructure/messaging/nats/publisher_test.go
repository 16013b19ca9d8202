package nats

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvelope(t *testing.T) {
	event := map[string]interface{}{"count": 3}

	envelope, err := NewEnvelope("ocean.measurements.recorded", event)
	require.NoError(t, err)

	assert.NotEmpty(t, envelope.ID)
	assert.Equal(t, "ocean.measurements.recorded", envelope.Subject)
	assert.False(t, envelope.OccurredAt.IsZero())

	var decoded map[string]int
	require.NoError(t, json.Unmarshal(envelope.Data, &decoded))
	assert.Equal(t, 3, decoded["count"])

	other, err := NewEnvelope("ocean.measurements.recorded", event)
	require.NoError(t, err)
	assert.NotEqual(t, envelope.ID, other.ID)
}

func TestNewEnvelope_UnmarshalableEvent(t *testing.T) {
	_, err := NewEnvelope("ocean.alerts.raised", make(chan int))
	assert.Error(t, err)
}
