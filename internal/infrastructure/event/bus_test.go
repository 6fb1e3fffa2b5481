package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	appcollection "github.com/alanminana/TheBuryProject-sub001/internal/application/collection"
	"github.com/alanminana/TheBuryProject-sub001/internal/domain/collection"
	"github.com/alanminana/TheBuryProject-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var busNow = time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "TestAggregate", uuid.New(), busNow)}
}

type testHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panicWith  any
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	if h.panicWith != nil {
		panic(h.panicWith)
	}
	return h.err
}

func (h *testHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *testHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler("TestEvent")
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("TestEvent"), newTestEvent("TestEvent")))
	assert.Equal(t, 2, handler.count())
}

func TestInMemoryEventBus_Routing(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	typed := newTestHandler("TestEvent")
	other := newTestHandler("OtherEvent")
	wildcard := newTestHandler()
	bus.Subscribe(typed)
	bus.Subscribe(other)
	bus.Subscribe(wildcard)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("TestEvent"), nil))

	assert.Equal(t, 1, typed.count())
	assert.Equal(t, 0, other.count())
	assert.Equal(t, 1, wildcard.count())
}

func TestInMemoryEventBus_ExplicitTypesOverrideHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler("TestEvent")
	bus.Subscribe(handler, "OtherEvent")

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("TestEvent"), newTestEvent("OtherEvent")))
	assert.Equal(t, 1, handler.count())
}

func TestInMemoryEventBus_HandlerFailuresAreIsolated(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	failing := newTestHandler("TestEvent")
	failing.err = errors.New("handler error")
	panicking := newTestHandler("TestEvent")
	panicking.panicWith = "boom"
	healthy := newTestHandler("TestEvent")
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newTestEvent("TestEvent"))

	require.NoError(t, err)
	assert.Equal(t, 1, healthy.count())
	assert.Equal(t, int64(2), bus.Failures())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler("TestEvent")
	bus.Subscribe(handler)

	_ = bus.Publish(context.Background(), newTestEvent("TestEvent"))
	bus.Unsubscribe(handler)
	_ = bus.Publish(context.Background(), newTestEvent("TestEvent"))

	assert.Equal(t, 1, handler.count())
	assert.Empty(t, bus.handlersFor("TestEvent"))
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	ctx := context.Background()

	require.NoError(t, bus.Start(ctx))
	assert.True(t, bus.running.Load())
	require.NoError(t, bus.Stop(ctx))
	assert.False(t, bus.running.Load())
}

type recordingNotifier struct {
	reminders []collection.PromiseReminder
}

func (n *recordingNotifier) NotifyPromiseDueSoon(_ context.Context, r collection.PromiseReminder) error {
	n.reminders = append(n.reminders, r)
	return nil
}

func TestInMemoryEventBus_RoutesPromiseDueSoon(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	notifier := &recordingNotifier{}
	bus.Subscribe(appcollection.NewPromiseDueSoonHandler(notifier, zap.NewNop()))

	alert, err := collection.NewAlert(uuid.New(), uuid.New(), "Gomez, Ana",
		decimal.NewFromInt(1000), decimal.NewFromInt(150), 20, busNow)
	require.NoError(t, err)
	require.NoError(t, alert.RegisterPromise("agent-7", shared.AddDays(busNow, 1), decimal.NewFromInt(500), busNow))

	opened := alert.GetDomainEvents()
	due := collection.NewPromiseDueSoonEvent(alert, busNow)
	require.NoError(t, bus.Publish(context.Background(), append(opened, due)...))

	require.Len(t, notifier.reminders, 1)
	assert.Equal(t, alert.ID, notifier.reminders[0].AlertID)
	assert.Equal(t, "agent-7", notifier.reminders[0].AssignedAgentID)
	assert.Equal(t, 1, notifier.reminders[0].DaysUntilDue)
}
