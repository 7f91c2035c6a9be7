package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusEmitReachesSubscribers(t *testing.T) {
	bus := NewBus()
	received := make(chan Event, 2)

	bus.Subscribe(EventTypeBalanceChange, func(ctx context.Context, event Event) {
		received <- event
	})
	bus.Subscribe(EventTypeBalanceChange, func(ctx context.Context, event Event) {
		received <- event
	})

	bus.Emit(context.Background(), BalanceChangeEvent{UserID: "user1", NewBalance: 600})

	for i := 0; i < 2; i++ {
		select {
		case event := <-received:
			change, ok := event.(BalanceChangeEvent)
			require.True(t, ok)
			assert.Equal(t, "user1", change.UserID)
		case <-time.After(time.Second):
			t.Fatal("handler was not invoked")
		}
	}
}

func TestBusIgnoresOtherEventTypes(t *testing.T) {
	bus := NewBus()
	received := make(chan Event, 1)

	bus.Subscribe(EventTypeDailyClaimed, func(ctx context.Context, event Event) {
		received <- event
	})

	bus.Emit(context.Background(), BalanceChangeEvent{UserID: "user1"})

	select {
	case <-received:
		t.Fatal("handler should not receive unrelated events")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBusSurvivesPanickingHandler(t *testing.T) {
	bus := NewBus()
	received := make(chan Event, 1)

	bus.Subscribe(EventTypeUserCreated, func(ctx context.Context, event Event) {
		panic("boom")
	})
	bus.Subscribe(EventTypeUserCreated, func(ctx context.Context, event Event) {
		received <- event
	})

	bus.Emit(context.Background(), UserCreatedEvent{UserID: "user1"})

	select {
	case <-received:
	case <-time.After(time.Second):
		t.Fatal("healthy handler should still run")
	}
}

func TestTransactionalBus(t *testing.T) {
	t.Run("holds events until flush", func(t *testing.T) {
		real := NewBus()
		received := make(chan Event, 1)
		real.Subscribe(EventTypeDailyClaimed, func(ctx context.Context, event Event) {
			received <- event
		})

		txBus := NewTransactionalBus(real)
		txBus.Publish(DailyClaimedEvent{UserID: "user1", Amount: 100})

		select {
		case <-received:
			t.Fatal("event must not fire before flush")
		case <-time.After(50 * time.Millisecond):
		}

		require.NoError(t, txBus.Flush(context.Background()))

		select {
		case event := <-received:
			claim, ok := event.(DailyClaimedEvent)
			require.True(t, ok)
			assert.Equal(t, int64(100), claim.Amount)
		case <-time.After(time.Second):
			t.Fatal("event should fire after flush")
		}
	})

	t.Run("discard drops pending events", func(t *testing.T) {
		real := NewBus()
		received := make(chan Event, 1)
		real.Subscribe(EventTypeDailyClaimed, func(ctx context.Context, event Event) {
			received <- event
		})

		txBus := NewTransactionalBus(real)
		txBus.Publish(DailyClaimedEvent{UserID: "user1"})
		txBus.Discard()
		require.NoError(t, txBus.Flush(context.Background()))

		select {
		case <-received:
			t.Fatal("discarded event must not fire")
		case <-time.After(100 * time.Millisecond):
		}
	})
}
