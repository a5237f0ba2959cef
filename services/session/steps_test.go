package session

import (
	"context"
	"testing"
	"time"

	"glowdesk/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory Store for tests; the JSON round trip mirrors
// what the Redis-backed store does to each context.
type memStore struct {
	contexts map[string]models.BookingContext
}

func newMemStore() *memStore {
	return &memStore{contexts: make(map[string]models.BookingContext)}
}

func (m *memStore) Get(ctx context.Context, key string) (*models.BookingContext, error) {
	bc, ok := m.contexts[key]
	if !ok {
		return nil, nil
	}
	copy := bc
	return &copy, nil
}

func (m *memStore) Save(ctx context.Context, key string, bc *models.BookingContext) error {
	m.contexts[key] = *bc
	return nil
}

func (m *memStore) Clear(ctx context.Context, key string) error {
	delete(m.contexts, key)
	return nil
}

func TestPushPopRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	original := &models.BookingContext{
		CategoryID:    "cat-haircut",
		CategoryName:  "Haircut",
		Date:          "2026-03-06",
		AwaitingInput: models.AwaitTime,
	}
	require.NoError(t, store.Save(ctx, "conv-1", original))
	require.NoError(t, PushStep(ctx, store, "conv-1", models.AwaitTime, now))

	// Next turn mutates the stored context.
	bc, err := store.Get(ctx, "conv-1")
	require.NoError(t, err)
	bc.Time = "14:00"
	bc.AwaitingInput = models.AwaitConfirmation
	require.NoError(t, store.Save(ctx, "conv-1", bc))

	restored, ok, err := PopStep(ctx, store, "conv-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "cat-haircut", restored.CategoryID)
	assert.Equal(t, "2026-03-06", restored.Date)
	assert.Empty(t, restored.Time)
	assert.Equal(t, models.AwaitTime, restored.AwaitingInput)

	// The popped state was persisted, not just returned.
	persisted, err := store.Get(ctx, "conv-1")
	require.NoError(t, err)
	assert.Empty(t, persisted.Time)
	assert.Empty(t, persisted.StepHistory)
}

func TestPopStepNothingToUndo(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()

	// No context at all.
	restored, ok, err := PopStep(ctx, store, "conv-1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, restored)

	// Context with an empty stack.
	require.NoError(t, store.Save(ctx, "conv-1", &models.BookingContext{CategoryName: "Haircut"}))
	restored, ok, err = PopStep(ctx, store, "conv-1")
	require.NoError(t, err)
	assert.False(t, ok)
	require.NotNil(t, restored)
	assert.Equal(t, "Haircut", restored.CategoryName)
}

func TestClearStepHistory(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, "conv-1", &models.BookingContext{CategoryName: "Haircut"}))
	require.NoError(t, PushStep(ctx, store, "conv-1", models.AwaitDate, now))
	require.NoError(t, ClearStepHistory(ctx, store, "conv-1"))

	bc, err := store.Get(ctx, "conv-1")
	require.NoError(t, err)
	assert.Empty(t, bc.StepHistory)
	assert.Equal(t, "Haircut", bc.CategoryName)
}
