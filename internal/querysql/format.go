package querysql

import (
	"fmt"
	"time"

	"github.com/roach88/stalk/internal/event"
)

// DefaultTimeLayout renders wall-clock time only.
const DefaultTimeLayout = "15:04:05"

// Formatter renders records as single display lines:
//
//	[15:04:05] [Alice] <uuid> | CHAT | hello | Loc: [w:world x:1 y:64 z:-2]
type Formatter struct {
	Layout   string
	Location *time.Location
}

// NewFormatter returns a formatter, filling in the default layout and local
// time when either is unset.
func NewFormatter(layout string, loc *time.Location) Formatter {
	if layout == "" {
		layout = DefaultTimeLayout
	}
	if loc == nil {
		loc = time.Local
	}
	return Formatter{Layout: layout, Location: loc}
}

// Line formats one record. With suppressActorID the actor id is left out of
// the line; the stored record is not touched.
func (f Formatter) Line(rec event.Record, suppressActorID bool) string {
	layout := f.Layout
	if layout == "" {
		layout = DefaultTimeLayout
	}
	loc := f.Location
	if loc == nil {
		loc = time.Local
	}

	actorID := ""
	if !suppressActorID && rec.ActorID != "" {
		actorID = " " + rec.ActorID
	}

	return fmt.Sprintf("[%s] [%s]%s | %s | %s | Loc: %s",
		rec.Time().In(loc).Format(layout),
		rec.ActorName,
		actorID,
		rec.Kind,
		rec.Detail,
		formatLocation(rec.Location),
	)
}

func formatLocation(loc *event.Location) string {
	if loc == nil {
		return "[none]"
	}
	return fmt.Sprintf("[w:%s x:%d y:%d z:%d]", loc.World, loc.X, loc.Y, loc.Z)
}
