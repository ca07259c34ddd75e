package querysql

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/stalk/internal/event"
	"github.com/roach88/stalk/internal/store"
)

func TestActorFilter_Compile_NoExclusions(t *testing.T) {
	sql, params, err := ActorFilter{Prefix: "Alice", Limit: 10}.Compile()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT "+store.Columns+" FROM logs WHERE player_name LIKE ? ESCAPE '\\'"+
			" ORDER BY time_stamp DESC, id DESC LIMIT ?",
		sql)
	assert.Equal(t, []any{"Alice%", 10}, params)
}

func TestActorFilter_Compile_Exclusions(t *testing.T) {
	f := ActorFilter{
		Prefix:  "Al",
		Exclude: event.NewKindSet("chat", "Attack"),
		Limit:   5,
	}
	sql, params, err := f.Compile()
	require.NoError(t, err)

	assert.Contains(t, sql, " AND action NOT IN (?, ?)")
	assert.Equal(t, []any{"Al%", "ATTACK", "CHAT", 5}, params)
}

func TestActorFilter_Compile_NeverInterpolates(t *testing.T) {
	hostile := "x' OR 1=1; DROP TABLE logs; --"
	f := ActorFilter{
		Prefix:  hostile,
		Exclude: event.NewKindSet(hostile),
		Limit:   1,
	}
	sql, _, err := f.Compile()
	require.NoError(t, err)

	assert.NotContains(t, sql, "DROP")
	assert.NotContains(t, sql, "OR 1=1")
}

func TestActorFilter_Compile_EscapesWildcards(t *testing.T) {
	_, params, err := ActorFilter{Prefix: `a_b%c\d`, Limit: 1}.Compile()
	require.NoError(t, err)
	assert.Equal(t, `a\_b\%c\\d%`, params[0])
}

func TestCompile_RejectsNonPositiveLimit(t *testing.T) {
	_, _, err := ActorFilter{Prefix: "A"}.Compile()
	assert.Error(t, err)

	_, _, err = LocationFilter{Limit: -1}.Compile()
	assert.Error(t, err)
}

func TestLocationFilter_Compile(t *testing.T) {
	f := LocationFilter{
		Location: event.Location{World: "world", X: 1, Y: 2, Z: 3},
		Limit:    10,
	}
	sql, params, err := f.Compile()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT "+store.Columns+" FROM logs WHERE world = ? AND x = ? AND y = ? AND z = ?"+
			" ORDER BY time_stamp DESC, id DESC LIMIT ?",
		sql)
	assert.Equal(t, []any{"world", 1, 2, 3, 10}, params)
	assert.NotContains(t, sql, "action NOT IN", "location lookups never filter by kind")
}

// The remaining tests execute compiled statements against a real store.

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "q.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func insert(t *testing.T, s *store.Store, name string, kind event.ActionKind, ts int64, loc event.Location) {
	t.Helper()
	_, err := s.Insert(context.Background(), event.Record{
		Timestamp: ts,
		ActorName: name,
		ActorID:   event.OfflineActorID(name),
		Kind:      kind,
		Detail:    string(kind),
		Location:  &loc,
	})
	require.NoError(t, err)
}

func run(t *testing.T, s *store.Store, sql string, params []any) []event.Record {
	t.Helper()
	got, err := s.Select(context.Background(), sql, params)
	require.NoError(t, err)
	return got
}

func TestActorFilter_Execute(t *testing.T) {
	s := openStore(t)
	here := event.Location{World: "world", X: 0, Y: 64, Z: 0}

	insert(t, s, "Alice", event.KindChat, 1, here)
	insert(t, s, "Alice", event.KindBlockBreak, 2, here)
	insert(t, s, "Alice", event.KindAttack, 3, here)
	insert(t, s, "alice", event.KindAttack, 4, here)
	insert(t, s, "Al_ce", event.KindAttack, 5, here)

	sql, params, err := ActorFilter{
		Prefix:  "Alice",
		Exclude: event.NewKindSet("CHAT"),
		Limit:   10,
	}.Compile()
	require.NoError(t, err)

	got := run(t, s, sql, params)
	require.Len(t, got, 2)
	assert.Equal(t, event.KindAttack, got[0].Kind)
	assert.Equal(t, event.KindBlockBreak, got[1].Kind)

	// Underscore in the prefix is literal, not a single-character wildcard.
	sql, params, err = ActorFilter{Prefix: "Al_", Limit: 10}.Compile()
	require.NoError(t, err)
	got = run(t, s, sql, params)
	require.Len(t, got, 1)
	assert.Equal(t, "Al_ce", got[0].ActorName)
}

func TestActorFilter_Execute_LimitAndTiebreak(t *testing.T) {
	s := openStore(t)
	here := event.Location{World: "world"}

	// Same millisecond: the later insert must come first.
	insert(t, s, "Bob", event.KindChat, 7, here)
	insert(t, s, "Bob", event.KindCommand, 7, here)
	insert(t, s, "Bob", event.KindSession, 7, here)

	sql, params, err := ActorFilter{Prefix: "Bob", Limit: 2}.Compile()
	require.NoError(t, err)

	got := run(t, s, sql, params)
	require.Len(t, got, 2)
	assert.Equal(t, event.KindSession, got[0].Kind)
	assert.Equal(t, event.KindCommand, got[1].Kind)
}

func TestLocationFilter_Execute(t *testing.T) {
	s := openStore(t)
	target := event.Location{World: "world", X: 10, Y: 64, Z: -3}

	insert(t, s, "Alice", event.KindBlockPlace, 1, target)
	insert(t, s, "Bob", event.KindBlockBreak, 2, target)
	insert(t, s, "Carol", event.KindInteract, 3, target)
	insert(t, s, "Alice", event.KindBlockPlace, 4, event.Location{World: "world", X: 10, Y: 64, Z: -4})
	insert(t, s, "Alice", event.KindBlockPlace, 5, event.Location{World: "world_nether", X: 10, Y: 64, Z: -3})

	sql, params, err := LocationFilter{Location: target, Limit: 10}.Compile()
	require.NoError(t, err)

	got := run(t, s, sql, params)
	require.Len(t, got, 3)
	for _, r := range got {
		require.NotNil(t, r.Location)
		assert.Equal(t, target, *r.Location)
	}
	assert.Equal(t, "Carol", got[0].ActorName)
	assert.Equal(t, "Alice", got[2].ActorName)
}
