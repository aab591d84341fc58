package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func recvEnvelope(t *testing.T, c *Client) Envelope {
	t.Helper()
	select {
	case env := <-c.send:
		return env
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for envelope")
		return Envelope{}
	}
}

func assertNoEnvelope(t *testing.T, c *Client) {
	t.Helper()
	select {
	case env := <-c.send:
		t.Fatalf("unexpected envelope %q", env.Event)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_PublishReachesRoomMembers(t *testing.T) {
	hub := startHub(t)

	member := NewClient(nil)
	outsider := NewClient(nil)
	hub.Register(member)
	hub.Register(outsider)
	hub.Subscribe(member.ID, "conversation:c1")

	hub.Publish("conversation:c1", "message:new", map[string]string{"id": "m1"})

	env := recvEnvelope(t, member)
	assert.Equal(t, "message:new", env.Event)
	assertNoEnvelope(t, outsider)
}

func TestHub_PublishOrderIsDeliveryOrder(t *testing.T) {
	hub := startHub(t)

	member := NewClient(nil)
	hub.Register(member)
	hub.Subscribe(member.ID, "conversation:c1")

	for i := 0; i < 5; i++ {
		hub.Publish("conversation:c1", "message:new", i)
	}

	for i := 0; i < 5; i++ {
		env := recvEnvelope(t, member)
		require.Equal(t, i, env.Data, "events must arrive in publish order")
	}
}

func TestHub_PublishExceptSkipsOrigin(t *testing.T) {
	hub := startHub(t)

	origin := NewClient(nil)
	other := NewClient(nil)
	hub.Register(origin)
	hub.Register(other)
	hub.Subscribe(origin.ID, "conversation:c1")
	hub.Subscribe(other.ID, "conversation:c1")

	hub.PublishExcept("conversation:c1", "typing:start", nil, origin.ID)

	env := recvEnvelope(t, other)
	assert.Equal(t, "typing:start", env.Event)
	assertNoEnvelope(t, origin)
}

func TestHub_UnregisterPrunesRooms(t *testing.T) {
	hub := startHub(t)

	member := NewClient(nil)
	hub.Register(member)
	hub.Subscribe(member.ID, "workspace:w1")
	hub.Subscribe(member.ID, "conversation:c1")

	stats := hub.Stats()
	require.Equal(t, 1, stats.Clients)
	require.Equal(t, 2, stats.Rooms)

	hub.Unregister(member)

	stats = hub.Stats()
	assert.Equal(t, 0, stats.Clients)
	assert.Equal(t, 0, stats.Rooms, "empty rooms must be pruned on disconnect")
}

func TestHub_UnsubscribePrunesEmptyRoom(t *testing.T) {
	hub := startHub(t)

	a := NewClient(nil)
	b := NewClient(nil)
	hub.Register(a)
	hub.Register(b)
	hub.Subscribe(a.ID, "conversation:c1")
	hub.Subscribe(b.ID, "conversation:c1")

	hub.Unsubscribe(a.ID, "conversation:c1")
	stats := hub.Stats()
	require.Equal(t, 1, stats.Rooms)
	require.Equal(t, 1, stats.RoomOccupancy["conversation:c1"])

	hub.Unsubscribe(b.ID, "conversation:c1")
	stats = hub.Stats()
	assert.Equal(t, 0, stats.Rooms)
}

func TestHub_PublishToUnknownRoomIsNoop(t *testing.T) {
	hub := startHub(t)

	member := NewClient(nil)
	hub.Register(member)

	hub.Publish("conversation:ghost", "message:new", nil)
	assertNoEnvelope(t, member)
}

func TestHub_PublishAfterStopDoesNotBlock(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	cancel()

	finished := make(chan struct{})
	go func() {
		// Enough to overflow the publish buffer with nobody draining it.
		for i := 0; i < cap(hub.publish)+10; i++ {
			hub.Publish("conversation:c1", "message:new", i)
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("publish blocked after hub stop")
	}
}

func TestHub_SlowClientDropsInsteadOfBlocking(t *testing.T) {
	hub := startHub(t)

	member := NewClient(nil)
	hub.Register(member)
	hub.Subscribe(member.ID, "conversation:c1")

	// Nobody drains member.send, so everything past the buffer is dropped.
	for i := 0; i < sendBuffer+10; i++ {
		hub.Publish("conversation:c1", "message:new", i)
	}

	// The hub must not block on the full client buffer.
	assert.Eventually(t, func() bool {
		return len(member.send) == sendBuffer
	}, time.Second, 10*time.Millisecond)

	stats := hub.Stats()
	assert.Equal(t, 1, stats.Clients)
}
