package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string, aggregateID int64) *testEvent {
	return &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Lead", aggregateID)}
}

type testHandler struct {
	eventTypes []string
	mu         sync.Mutex
	handled    []shared.DomainEvent
	err        error
	panicWith  any
	block      chan struct{}
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.block != nil {
		<-h.block
	}
	if h.panicWith != nil {
		panic(h.panicWith)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
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

func TestInMemoryEventBus_RoutesByType(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	created := newTestHandler("LeadCreated")
	all := newTestHandler()
	bus.Subscribe(created)
	bus.Subscribe(all)

	require.NoError(t, bus.Publish(context.Background(),
		newTestEvent("LeadCreated", 1),
		newTestEvent("LeadNoteAdded", 1),
	))

	assert.Equal(t, 1, created.count())
	assert.Equal(t, 2, all.count())
}

func TestInMemoryEventBus_HandlerFailuresAreIsolated(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	bus := NewInMemoryEventBus(zap.New(core))

	failing := newTestHandler("LeadCreated")
	failing.err = errors.New("boom")
	panicking := newTestHandler("LeadCreated")
	panicking.panicWith = "kaboom"
	healthy := newTestHandler("LeadCreated")
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newTestEvent("LeadCreated", 1))

	require.NoError(t, err)
	assert.Equal(t, 1, healthy.count())
	assert.Equal(t, 2, logs.FilterMessage("Event handler failed").Len())
	assert.Contains(t, logs.All()[1].ContextMap()["error"], "kaboom")
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	handler := newTestHandler("LeadCreated")
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("LeadCreated", 1)))
	assert.Zero(t, handler.count())
}

func TestInMemoryEventBus_StopWaitsForDeliveries(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	require.NoError(t, bus.Start(context.Background()))

	slow := newTestHandler()
	slow.block = make(chan struct{})
	bus.Subscribe(slow)

	published := make(chan error, 1)
	go func() { published <- bus.Publish(context.Background(), newTestEvent("LeadCreated", 1)) }()

	// give the publisher time to enter the handler
	time.Sleep(20 * time.Millisecond)

	shortCtx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, bus.Stop(shortCtx), context.DeadlineExceeded)

	close(slow.block)
	require.NoError(t, <-published)
	require.NoError(t, bus.Stop(context.Background()))

	assert.ErrorIs(t, bus.Publish(context.Background(), newTestEvent("LeadCreated", 2)), ErrBusStopped)

	require.NoError(t, bus.Start(context.Background()))
	slow.block = nil
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("LeadCreated", 3)))
	assert.Equal(t, 2, slow.count())
}

func TestActivityLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)
	bus := NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(NewActivityLogger(base))

	ctx, _ := logger.WithRequestID(context.Background(), base, "req-1")
	ctx, _ = logger.WithUserID(ctx, base, 5)
	require.NoError(t, bus.Publish(ctx, newTestEvent("LeadNoteAdded", 8)))

	entries := logs.FilterMessage("Activity").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "LeadNoteAdded", fields["event_type"])
	assert.Equal(t, int64(8), fields["aggregate_id"])
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, int64(5), fields["actor_id"])
	assert.Equal(t, "activity", entries[0].LoggerName)
}
