package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalRoundTrip(t *testing.T) {
	e := New(SessionUpdated, map[string]interface{}{"session_id": "abc", "title": "Trip"})

	data, err := Marshal(e)
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, SessionUpdated, got.EventType())
	assert.Equal(t, "Trip", got.Payload()["title"])
	assert.True(t, e.Timestamp().Equal(got.Timestamp()))
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher().Publish(context.Background(), New(SessionDeleted, nil)))
}
