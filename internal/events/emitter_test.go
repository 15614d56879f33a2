package events

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	changes []*StateChange
	err     error
}

func (h *recordingHandler) HandleStateChange(ctx context.Context, change *StateChange) error {
	h.changes = append(h.changes, change)
	return h.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestEmitDeliversToAllHandlers(t *testing.T) {
	t.Parallel()
	emitter := NewInMemoryEmitter(testLogger())
	first := &recordingHandler{}
	second := &recordingHandler{}
	emitter.RegisterHandler(first)
	emitter.RegisterHandler(second)

	change := NewStateChange(uuid.New(), "active", 3, 1, 0, time.Now().UTC())
	require.NoError(t, emitter.Emit(context.Background(), change))

	require.Len(t, first.changes, 1)
	require.Len(t, second.changes, 1)
	assert.Equal(t, change.ID, first.changes[0].ID)
}

func TestEmitContinuesPastFailingHandler(t *testing.T) {
	t.Parallel()
	emitter := NewInMemoryEmitter(testLogger())
	failing := &recordingHandler{err: errors.New("handler broke")}
	healthy := &recordingHandler{}
	emitter.RegisterHandler(failing)
	emitter.RegisterHandler(healthy)

	change := NewStateChange(uuid.New(), "completed", 0, 2, 1, time.Now().UTC())
	err := emitter.Emit(context.Background(), change)

	assert.EqualError(t, err, "handler broke")
	assert.Len(t, healthy.changes, 1, "later handlers still receive the change")
}

func TestEmitWithoutHandlers(t *testing.T) {
	t.Parallel()
	emitter := NewInMemoryEmitter(testLogger())
	change := NewStateChange(uuid.New(), "inactive", 0, 0, 0, time.Now().UTC())
	assert.NoError(t, emitter.Emit(context.Background(), change))
}
