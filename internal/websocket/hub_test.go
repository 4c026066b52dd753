package websocket

import (
	"context"
	"testing"
	"time"

	"rocktalk-be/internal/pkg/logger"
	"rocktalk-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubPublishDeliversToClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil, logger.NewNopLogger())
	go hub.Run(ctx)

	a := &Client{ID: uuid.New(), Hub: hub, Send: make(chan []byte, 4)}
	b := &Client{ID: uuid.New(), Hub: hub, Send: make(chan []byte, 4)}
	hub.register <- a
	hub.register <- b
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Publish(ctx, events.New(events.SessionUpdated, map[string]interface{}{"title": "Hello"})))

	for _, c := range []*Client{a, b} {
		select {
		case data := <-c.Send:
			e, err := events.Unmarshal(data)
			require.NoError(t, err)
			assert.Equal(t, events.SessionUpdated, e.Type)
			assert.Equal(t, "Hello", e.Data["title"])
		case <-time.After(time.Second):
			t.Fatal("event not delivered")
		}
	}

	hub.unregister <- a
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	_, open := <-a.Send
	assert.False(t, open)
}

func TestHubDropsSlowClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil, logger.NewNopLogger())
	go hub.Run(ctx)

	slow := &Client{ID: uuid.New(), Hub: hub, Send: make(chan []byte)}
	hub.register <- slow
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Publish(ctx, events.New(events.SessionDeleted, nil)))
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestHubStopReleasesPendingCallers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	hub := NewHub(nil, logger.NewNopLogger())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	client := &Client{ID: uuid.New(), Hub: hub, Send: make(chan []byte, 1)}
	require.True(t, hub.add(client))
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}
	_, open := <-client.Send
	assert.False(t, open)

	released := make(chan struct{})
	go func() {
		hub.remove(client)
		assert.False(t, hub.add(&Client{ID: uuid.New(), Hub: hub, Send: make(chan []byte)}))
		close(released)
	}()
	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("unregister blocked after the hub stopped")
	}
}
