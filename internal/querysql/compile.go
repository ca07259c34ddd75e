package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/stalk/internal/event"
	"github.com/roach88/stalk/internal/store"
)

const orderByRecent = " ORDER BY time_stamp DESC, id DESC"

// ActorFilter selects records whose actor name starts with Prefix.
type ActorFilter struct {
	// Prefix is matched case-sensitively against the stored actor name.
	// An empty prefix matches every actor.
	Prefix string

	// Exclude drops records of these kinds. Names that are not known kinds
	// are kept as literal values and simply match nothing.
	Exclude event.KindSet

	Limit int
}

// LocationFilter selects every record at one exact block position.
// No kind filtering is applied.
type LocationFilter struct {
	Location event.Location
	Limit    int
}

// Compile converts the filter to parameterized SQL.
// Returns (sql, params, error) tuple.
func (f ActorFilter) Compile() (string, []any, error) {
	if f.Limit <= 0 {
		return "", nil, fmt.Errorf("limit must be positive, got %d", f.Limit)
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(store.Columns)
	b.WriteString(" FROM logs WHERE player_name LIKE ? ESCAPE '\\'")

	params := []any{escapeLike(f.Prefix) + "%"}

	// Sorted so identical requests produce identical statement text.
	excluded := f.Exclude.Sorted()
	if len(excluded) > 0 {
		b.WriteString(" AND action NOT IN (")
		for i, k := range excluded {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString("?")
			params = append(params, string(k))
		}
		b.WriteString(")")
	}

	b.WriteString(orderByRecent)
	b.WriteString(" LIMIT ?")
	params = append(params, f.Limit)

	return b.String(), params, nil
}

// Compile converts the filter to parameterized SQL.
func (f LocationFilter) Compile() (string, []any, error) {
	if f.Limit <= 0 {
		return "", nil, fmt.Errorf("limit must be positive, got %d", f.Limit)
	}

	sql := "SELECT " + store.Columns +
		" FROM logs WHERE world = ? AND x = ? AND y = ? AND z = ?" +
		orderByRecent + " LIMIT ?"

	params := []any{
		f.Location.World,
		f.Location.X,
		f.Location.Y,
		f.Location.Z,
		f.Limit,
	}
	return sql, params, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapes LIKE wildcards so the prefix is matched literally.
// The statement declares '\' as the escape character.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
