package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/stalk/internal/event"
)

// Columns is the select list Select expects statements to use, in scan order.
const Columns = "id, time_stamp, player_name, player_uuid, action, details, world, x, y, z"

// Select runs a read-only statement over the logs table and scans every row.
// The statement must select Columns. Values are bound through args; callers
// should build statements with querysql rather than by hand.
//
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) Select(ctx context.Context, query string, args []any) ([]event.Record, error) {
	if s.db == nil {
		return nil, ErrClosed
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	records := []event.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	return records, nil
}

// scanRecord scans one row selected with Columns.
func scanRecord(rows *sql.Rows) (event.Record, error) {
	var rec event.Record
	var kind string
	var details, world sql.NullString
	var x, y, z sql.NullInt64

	if err := rows.Scan(
		&rec.ID, &rec.Timestamp, &rec.ActorName, &rec.ActorID, &kind,
		&details, &world, &x, &y, &z,
	); err != nil {
		return event.Record{}, fmt.Errorf("scan record: %w", err)
	}

	rec.Kind = event.ActionKind(kind)
	rec.Detail = details.String
	if world.Valid {
		rec.Location = &event.Location{
			World: world.String,
			X:     int(x.Int64),
			Y:     int(y.Int64),
			Z:     int(z.Int64),
		}
	}

	return rec, nil
}
