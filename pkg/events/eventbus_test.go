package events_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/narwhalmedia/marquee/pkg/events"
	"github.com/narwhalmedia/marquee/pkg/interfaces"
	"github.com/narwhalmedia/marquee/pkg/logger"
)

type recordingHandler struct {
	name string
	err  error

	mu   sync.Mutex
	seen []string
}

func (h *recordingHandler) Handle(_ context.Context, event interfaces.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seen = append(h.seen, event.AggregateID())
	return h.err
}

func (h *recordingHandler) Name() string { return h.name }

func (h *recordingHandler) ids() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.seen...)
}

func TestInMemoryEventBus_PublishContinuesAfterHandlerError(t *testing.T) {
	bus := events.NewInMemoryEventBus(logger.NewNoop())

	failing := &recordingHandler{name: "failing", err: errors.New("broker down")}
	ok := &recordingHandler{name: "ok"}
	require.NoError(t, bus.Subscribe("own_movie.created", failing))
	require.NoError(t, bus.Subscribe("own_movie.created", ok))

	err := bus.Publish(context.Background(), events.NewAggregateEvent("own_movie.created", "42", nil))
	require.NoError(t, err)

	assert.Equal(t, []string{"42"}, failing.ids())
	assert.Equal(t, []string{"42"}, ok.ids())
}

func TestInMemoryEventBus_PublishAsyncAndStop(t *testing.T) {
	bus := events.NewInMemoryEventBus(logger.NewNoop())
	h := &recordingHandler{name: "h"}
	require.NoError(t, bus.Subscribe("own_movie.deleted", h))

	ctx, cancel := context.WithCancel(context.Background())
	bus.PublishAsync(ctx, events.NewAggregateEvent("own_movie.deleted", "7", nil))
	cancel()

	require.NoError(t, bus.Stop())
	assert.Equal(t, []string{"7"}, h.ids())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := events.NewInMemoryEventBus(logger.NewNoop())
	h := &recordingHandler{name: "h"}
	require.NoError(t, bus.Subscribe("own_movie.updated", h))
	require.NoError(t, bus.Unsubscribe("own_movie.updated", h))

	require.NoError(t, bus.Publish(context.Background(), events.NewAggregateEvent("own_movie.updated", "1", nil)))
	assert.Empty(t, h.ids())
}

// slowHandler records event types and stalls on one of them.
type slowHandler struct {
	slowOn string

	mu    sync.Mutex
	types []string
}

func (h *slowHandler) Handle(_ context.Context, event interfaces.Event) error {
	if event.EventType() == h.slowOn {
		time.Sleep(50 * time.Millisecond)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.types = append(h.types, event.EventType())
	return nil
}

func (h *slowHandler) Name() string { return "slow" }

func TestInMemoryEventBus_PublishAsyncKeepsOrder(t *testing.T) {
	bus := events.NewInMemoryEventBus(logger.NewNoop())
	h := &slowHandler{slowOn: "own_movie.created"}
	for _, eventType := range []string{"own_movie.created", "own_movie.updated", "own_movie.deleted"} {
		require.NoError(t, bus.Subscribe(eventType, h))
	}
	require.NoError(t, bus.Start(context.Background()))

	bus.PublishAsync(context.Background(), events.NewAggregateEvent("own_movie.created", "1", nil))
	bus.PublishAsync(context.Background(), events.NewAggregateEvent("own_movie.updated", "1", nil))
	bus.PublishAsync(context.Background(), events.NewAggregateEvent("own_movie.deleted", "1", nil))

	require.NoError(t, bus.Stop())
	assert.Equal(t, []string{"own_movie.created", "own_movie.updated", "own_movie.deleted"}, h.types)
}

func TestInMemoryEventBus_PublishAfterStopIsDropped(t *testing.T) {
	bus := events.NewInMemoryEventBus(logger.NewNoop())
	h := &recordingHandler{name: "h"}
	require.NoError(t, bus.Subscribe("own_movie.created", h))

	require.NoError(t, bus.Stop())
	require.NoError(t, bus.Stop())

	bus.PublishAsync(context.Background(), events.NewAggregateEvent("own_movie.created", "9", nil))
	assert.Empty(t, h.ids())
}
