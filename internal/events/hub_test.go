package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHubDeliversToSubscribers(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := hub.Subscribe(ctx, 1)
	second := hub.Subscribe(ctx, 1)
	require.Equal(t, 2, hub.Subscribers())

	hub.Publish(Change{Collection: "orders"})

	for _, ch := range []<-chan Change{first, second} {
		select {
		case c := <-ch:
			require.Equal(t, "orders", c.Collection)
			require.False(t, c.At.IsZero())
		case <-time.After(time.Second):
			t.Fatal("expected change notification")
		}
	}
}

func TestHubDropsWhenSubscriberIsFull(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := hub.Subscribe(ctx, 1)
	hub.Publish(Change{Collection: "orders"})
	hub.Publish(Change{Collection: "products"})

	c := <-ch
	require.Equal(t, "orders", c.Collection)
	select {
	case extra := <-ch:
		t.Fatalf("unexpected notification %v", extra)
	default:
	}
}

func TestHubUnsubscribesOnContextEnd(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	ch := hub.Subscribe(ctx, 1)
	cancel()

	_, open := <-ch
	require.False(t, open)
	require.Eventually(t, func() bool { return hub.Subscribers() == 0 }, time.Second, 10*time.Millisecond)

	var nilHub *Hub
	nilHub.Publish(Change{Collection: "orders"})
}
