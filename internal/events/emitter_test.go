package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	received []FreezeStatusChanged
	err      error
}

func (h *recordingHandler) HandleFreezeStatusChanged(_ context.Context, ev FreezeStatusChanged) error {
	h.received = append(h.received, ev)
	return h.err
}

func TestInMemoryEmitter(t *testing.T) {
	t.Parallel()

	ev := FreezeStatusChanged{
		ScholarshipID: 7,
		Frozen:        true,
		Average:       250,
		Occurred:      time.Now().UTC(),
	}

	t.Run("delivers to all handlers in order", func(t *testing.T) {
		t.Parallel()

		e := NewInMemoryEmitter(nil)
		a := &recordingHandler{}
		b := &recordingHandler{}
		e.RegisterHandler(a)
		e.RegisterHandler(b)

		require.NoError(t, e.Emit(context.Background(), ev))
		require.Len(t, a.received, 1)
		require.Len(t, b.received, 1)
		assert.Equal(t, ev, a.received[0])
	})

	t.Run("failing handler does not block the rest", func(t *testing.T) {
		t.Parallel()

		e := NewInMemoryEmitter(nil)
		boom := errors.New("boom")
		a := &recordingHandler{err: boom}
		b := &recordingHandler{}
		e.RegisterHandler(a)
		e.RegisterHandler(b)

		err := e.Emit(context.Background(), ev)
		assert.ErrorIs(t, err, boom)
		assert.Len(t, b.received, 1, "second handler still receives the event")
	})

	t.Run("no handlers is not an error", func(t *testing.T) {
		t.Parallel()

		e := NewInMemoryEmitter(nil)
		assert.NoError(t, e.Emit(context.Background(), ev))
	})
}
