package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/stalk/internal/event"
)

func TestInsert_AssignsIncreasingIDs(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	var last int64
	for i := 0; i < 5; i++ {
		id, err := s.Insert(ctx, createTestRecord("Alice", event.KindChat, 100))
		require.NoError(t, err)
		assert.Greater(t, id, last, "ids must increase in insertion order")
		last = id
	}
}

func TestInsert_IgnoresCallerID(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	rec := createTestRecord("Alice", event.KindChat, 1)
	rec.ID = 42
	id, err := s.Insert(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}

func TestInsert_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	rec := event.Record{
		Timestamp: 1700000000000,
		ActorName: "Alice",
		ActorID:   "123e4567-e89b-12d3-a456-426614174000",
		Kind:      event.KindBlockBreak,
		Detail:    "Broke STONE",
		Location:  &event.Location{World: "world_nether", X: -5, Y: 40, Z: 12},
	}
	id, err := s.Insert(ctx, rec)
	require.NoError(t, err)

	got, err := s.Select(ctx, "SELECT "+Columns+" FROM logs WHERE id = ?", []any{id})
	require.NoError(t, err)
	require.Len(t, got, 1)

	rec.ID = id
	assert.Equal(t, rec, got[0])
}

func TestInsert_NullLocation(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	rec := createTestRecord("Console", event.KindCommand, 5)
	rec.Location = nil
	_, err := s.Insert(ctx, rec)
	require.NoError(t, err)

	got, err := s.Select(ctx, "SELECT "+Columns+" FROM logs", nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Location)
}

func TestInsert_Unicode(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	rec := createTestRecord("Alice", event.KindChat, 5)
	rec.Detail = "你好, мир 🌍"
	_, err := s.Insert(ctx, rec)
	require.NoError(t, err)

	got, err := s.Select(ctx, "SELECT "+Columns+" FROM logs", nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, rec.Detail, got[0].Detail)
}
