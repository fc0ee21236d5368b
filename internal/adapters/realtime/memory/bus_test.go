package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petcare-marketplace/internal/ports/realtime"
)

func TestBus_DeliversOnlyToChannel(t *testing.T) {
	bus := NewBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	subA, err := bus.Subscribe(ctx, realtime.RequestChannel("a"))
	require.NoError(t, err)
	subB, err := bus.Subscribe(ctx, realtime.RequestChannel("b"))
	require.NoError(t, err)

	ev, err := realtime.NewEvent(realtime.EventNewMessage, map[string]string{"content": "oi"})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(ctx, realtime.RequestChannel("a"), ev))

	select {
	case got := <-subA.Events():
		assert.Equal(t, realtime.EventNewMessage, got.Type)
		assert.JSONEq(t, `{"content":"oi"}`, string(got.Payload))
	case <-time.After(time.Second):
		t.Fatal("expected event on channel a")
	}

	select {
	case <-subB.Events():
		t.Fatal("unexpected event on channel b")
	default:
	}
}

func TestBus_CancelClosesSubscription(t *testing.T) {
	bus := NewBus()
	ctx, cancel := context.WithCancel(context.Background())

	sub, err := bus.Subscribe(ctx, "user_u1")
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-sub.Events():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("subscription not closed after cancel")
	}

	// publicar sin suscriptores no falla
	assert.NoError(t, bus.Publish(context.Background(), "user_u1", realtime.Event{Type: "x"}))
	assert.NoError(t, sub.Close())
}
