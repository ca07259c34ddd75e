// Package ingest is a producer that replays newline-delimited JSON activity
// events into a Recorder. It knows nothing about storage.
//
// Each line is one object:
//
//	{"actor":"Alice","actor_id":"...","action":"CHAT","detail":"hi","location":{"world":"world","x":1,"y":64,"z":-2}}
//
// actor_id may be omitted, in which case the offline id for the name is used.
package ingest

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/stalk/internal/engine"
	"github.com/roach88/stalk/internal/event"
)

// maxLineSize bounds a single JSON line. Longer lines are skipped.
const maxLineSize = 1 << 20

// Line is the wire form of one event.
type Line struct {
	Actor    string    `json:"actor"`
	ActorID  string    `json:"actor_id,omitempty"`
	Action   string    `json:"action"`
	Detail   string    `json:"detail,omitempty"`
	Location *Location `json:"location,omitempty"`
}

// Location is the wire form of a block position.
type Location struct {
	World string `json:"world"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Z     int    `json:"z"`
}

// Stats summarizes a replay.
type Stats struct {
	Lines    int // non-blank lines read
	Recorded int // lines handed to the recorder
	Skipped  int // malformed, incomplete or oversize lines
}

// Replay reads events from r until EOF and records each one.
//
// Malformed, incomplete and oversize lines are logged and skipped. Replay stops early when ctx is
// done or the recorder rejects work (for example because it is shutting
// down); the stats so far are returned with the error.
func Replay(ctx context.Context, r io.Reader, rec engine.Recorder, logger *slog.Logger) (Stats, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var stats Stats
	br := bufio.NewReaderSize(r, 64*1024)

	lineNo := 0
	for {
		data, tooLong, err := readLine(br, maxLineSize)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("read events: %w", err)
		}
		lineNo++
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		if tooLong {
			logger.Warn("skipping oversize event", "line", lineNo, "max_bytes", maxLineSize)
			stats.Lines++
			stats.Skipped++
			continue
		}

		raw := strings.TrimSpace(string(data))
		if raw == "" {
			continue
		}
		stats.Lines++

		var line Line
		if err := json.Unmarshal([]byte(raw), &line); err != nil {
			logger.Warn("skipping malformed event", "line", lineNo, "error", err)
			stats.Skipped++
			continue
		}
		if line.Actor == "" || line.Action == "" {
			logger.Warn("skipping incomplete event", "line", lineNo, "actor", line.Actor, "action", line.Action)
			stats.Skipped++
			continue
		}

		actorID := line.ActorID
		if actorID == "" {
			actorID = event.OfflineActorID(line.Actor)
		} else if !event.ValidActorID(actorID) {
			logger.Debug("actor id is not a uuid", "line", lineNo, "actor_id", actorID)
		}

		var loc *event.Location
		if line.Location != nil {
			loc = &event.Location{
				World: line.Location.World,
				X:     line.Location.X,
				Y:     line.Location.Y,
				Z:     line.Location.Z,
			}
		}

		if err := rec.Record(line.Actor, actorID, event.ActionKind(line.Action), line.Detail, loc); err != nil {
			return stats, fmt.Errorf("record line %d: %w", lineNo, err)
		}
		stats.Recorded++
	}

	return stats, nil
}

// readLine returns the next line without its terminator. A line longer
// than limit is consumed in full and reported as tooLong with no data.
func readLine(br *bufio.Reader, limit int) (line []byte, tooLong bool, err error) {
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err != nil {
			return nil, false, err
		}
		if !tooLong {
			if len(line)+len(chunk) > limit {
				tooLong = true
				line = nil
			} else {
				line = append(line, chunk...)
			}
		}
		if !isPrefix {
			return line, tooLong, nil
		}
	}
}
