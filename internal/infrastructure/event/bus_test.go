package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bizops/backend/internal/domain/shared"
)

type recordingHandler struct {
	types    []string
	received []shared.DomainEvent
	fail     bool
	panics   bool
}

func (h *recordingHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	if h.fail {
		return errors.New("handler failure")
	}
	h.received = append(h.received, evt)
	return nil
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func newTestEvent(eventType string) shared.DomainEvent {
	e := shared.NewBaseDomainEvent(eventType, "test", uuid.New(), uuid.New())
	return &e
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("routes by event type", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		created := &recordingHandler{types: []string{"receivable.created"}}
		paid := &recordingHandler{types: []string{"receivable.paid"}}
		bus.Subscribe(created)
		bus.Subscribe(paid)

		require.NoError(t, bus.Publish(ctx, newTestEvent("receivable.created")))

		assert.Len(t, created.received, 1)
		assert.Empty(t, paid.received)
	})

	t.Run("catch-all handler receives everything", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		audit := &recordingHandler{}
		bus.Subscribe(audit)

		require.NoError(t, bus.Publish(ctx,
			newTestEvent("inventory.movement_applied"),
			newTestEvent("receivable.overdue"),
		))

		assert.Len(t, audit.received, 2)
	})

	t.Run("failing handler does not block others", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		failing := &recordingHandler{types: []string{"x"}, fail: true}
		healthy := &recordingHandler{types: []string{"x"}}
		bus.Subscribe(failing)
		bus.Subscribe(healthy)

		require.NoError(t, bus.Publish(ctx, newTestEvent("x")))

		assert.Len(t, healthy.received, 1)
	})

	t.Run("panicking handler is contained", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		panicking := &recordingHandler{types: []string{"x"}, panics: true}
		healthy := &recordingHandler{types: []string{"x"}}
		bus.Subscribe(panicking)
		bus.Subscribe(healthy)

		require.NoError(t, bus.Publish(ctx, newTestEvent("x")))

		assert.Len(t, healthy.received, 1)
	})

	t.Run("explicit subscribe types override handler types", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		h := &recordingHandler{types: []string{"ignored"}}
		bus.Subscribe(h, "explicit")

		require.NoError(t, bus.Publish(ctx, newTestEvent("explicit")))
		require.NoError(t, bus.Publish(ctx, newTestEvent("ignored")))

		assert.Len(t, h.received, 1)
	})
}
