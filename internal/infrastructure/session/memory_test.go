package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartpilot/backend/internal/domain"
)

func TestMemoryStore_SetAndGet(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	results := []domain.Listing{
		{Title: "Portable Monitor", ASIN: "B0ABC", Score: 87.5},
		{Title: "Travel Display", ASIN: "B0DEF", Score: 64.0},
	}

	err := store.Set(ctx, "chat-1", results)
	require.NoError(t, err)

	got, err := store.Get(ctx, "chat-1")
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "B0ABC", got[0].ASIN)
	assert.Equal(t, 87.5, got[0].Score)
}

func TestMemoryStore_GetMissingSession(t *testing.T) {
	store := NewMemoryStore(0)

	_, err := store.Get(context.Background(), "unknown")
	assert.ErrorIs(t, err, domain.ErrSessionMiss)
}

func TestMemoryStore_SetReplacesPrevious(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "chat-1", []domain.Listing{{Title: "Old"}}))
	require.NoError(t, store.Set(ctx, "chat-1", []domain.Listing{{Title: "New A"}, {Title: "New B"}}))

	got, err := store.Get(ctx, "chat-1")
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "New A", got[0].Title)
}

func TestMemoryStore_SessionsIsolated(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "chat-1", []domain.Listing{{Title: "Mine"}}))

	_, err := store.Get(ctx, "chat-2")
	assert.ErrorIs(t, err, domain.ErrSessionMiss)
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "chat-1", []domain.Listing{{Title: "Monitor"}}))
	require.NoError(t, store.Delete(ctx, "chat-1"))

	_, err := store.Get(ctx, "chat-1")
	assert.ErrorIs(t, err, domain.ErrSessionMiss)
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	store := NewMemoryStore(30 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "chat-1", []domain.Listing{{Title: "Monitor"}}))

	got, err := store.Get(ctx, "chat-1")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	time.Sleep(50 * time.Millisecond)

	_, err = store.Get(ctx, "chat-1")
	assert.ErrorIs(t, err, domain.ErrSessionMiss)
}

func TestMemoryStore_ZeroTTLNeverExpires(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "chat-1", []domain.Listing{{Title: "Monitor"}}))
	time.Sleep(20 * time.Millisecond)

	got, err := store.Get(ctx, "chat-1")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestMemoryStore_StoredBatchIsACopy(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	results := []domain.Listing{{Title: "Original"}}
	require.NoError(t, store.Set(ctx, "chat-1", results))

	results[0].Title = "Mutated"

	got, err := store.Get(ctx, "chat-1")
	require.NoError(t, err)
	assert.Equal(t, "Original", got[0].Title)
}

func TestMemoryStore_Size(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	assert.Equal(t, 0, store.Size())

	require.NoError(t, store.Set(ctx, "chat-1", nil))
	require.NoError(t, store.Set(ctx, "chat-2", nil))
	assert.Equal(t, 2, store.Size())
}
