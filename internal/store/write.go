package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/stalk/internal/event"
)

// Insert appends a record and returns the id the database assigned.
// rec.ID is ignored. A nil Location is stored as NULL coordinates.
//
// Insert never retries; callers decide what a failed write means.
func (s *Store) Insert(ctx context.Context, rec event.Record) (int64, error) {
	if s.db == nil {
		return 0, ErrClosed
	}

	var world sql.NullString
	var x, y, z sql.NullInt64
	if loc := rec.Location; loc != nil {
		world = sql.NullString{String: loc.World, Valid: true}
		x = sql.NullInt64{Int64: int64(loc.X), Valid: true}
		y = sql.NullInt64{Int64: int64(loc.Y), Valid: true}
		z = sql.NullInt64{Int64: int64(loc.Z), Valid: true}
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO logs
		(time_stamp, player_name, player_uuid, action, details, world, x, y, z)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.Timestamp,
		rec.ActorName,
		rec.ActorID,
		string(rec.Kind),
		rec.Detail,
		world,
		x,
		y,
		z,
	)
	if err != nil {
		return 0, fmt.Errorf("insert record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert record: last insert id: %w", err)
	}
	return id, nil
}
