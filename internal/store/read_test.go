package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/stalk/internal/event"
)

func TestSelect_EmptyResultIsNotNil(t *testing.T) {
	s := createTestStore(t)

	got, err := s.Select(context.Background(), "SELECT "+Columns+" FROM logs", nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSelect_LikeIsCaseSensitive(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"Alice", "alice", "Alicia", "Bob"} {
		_, err := s.Insert(ctx, createTestRecord(name, event.KindChat, 1))
		require.NoError(t, err)
	}

	got, err := s.Select(ctx,
		"SELECT "+Columns+" FROM logs WHERE player_name LIKE ? ORDER BY id",
		[]any{"Ali%"},
	)
	require.NoError(t, err)

	var names []string
	for _, r := range got {
		names = append(names, r.ActorName)
	}
	assert.Equal(t, []string{"Alice", "Alicia"}, names)
}

func TestSelect_BadStatement(t *testing.T) {
	s := createTestStore(t)

	_, err := s.Select(context.Background(), "SELECT nope FROM missing", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query records")
}

func TestCount(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	for i := 0; i < 4; i++ {
		_, err := s.Insert(ctx, createTestRecord("Alice", event.KindChat, int64(i)))
		require.NoError(t, err)
	}

	n, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}
