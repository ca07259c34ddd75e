package event

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ActionKind names the category of an activity record.
// Stored verbatim in the logs.action column.
type ActionKind string

const (
	KindMovement             ActionKind = "CHUNK_MOVE"
	KindChat                 ActionKind = "CHAT"
	KindCommand              ActionKind = "COMMAND"
	KindSession              ActionKind = "SESSION"
	KindBlockBreak           ActionKind = "BLOCK_BREAK"
	KindBlockPlace           ActionKind = "BLOCK_PLACE"
	KindInteract             ActionKind = "INTERACT"
	KindDropItem             ActionKind = "DROP_ITEM"
	KindAttack               ActionKind = "ATTACK"
	KindEntityDeath          ActionKind = "DEATH"
	KindPlayerDeath          ActionKind = "DEATH_PLAYER"
	KindKillEntity           ActionKind = "KILL_ENTITY"
	KindContainerOpen        ActionKind = "CONTAINER_OPEN"
	KindContainerClose       ActionKind = "CONTAINER_CLOSE"
	KindContainerTransaction ActionKind = "CONTAINER_TRANSACTION"
	KindPickupItem           ActionKind = "PICKUP_ITEM"
	KindInventoryClick       ActionKind = "INV_CLICK"
)

// kinds is the enumeration in display order.
var kinds = []ActionKind{
	KindMovement,
	KindChat,
	KindCommand,
	KindSession,
	KindBlockBreak,
	KindBlockPlace,
	KindInteract,
	KindDropItem,
	KindAttack,
	KindEntityDeath,
	KindPlayerDeath,
	KindKillEntity,
	KindContainerOpen,
	KindContainerClose,
	KindContainerTransaction,
	KindPickupItem,
	KindInventoryClick,
}

var knownKinds = func() map[ActionKind]struct{} {
	m := make(map[ActionKind]struct{}, len(kinds))
	for _, k := range kinds {
		m[k] = struct{}{}
	}
	return m
}()

// Kinds returns the known action kinds in display order.
// The returned slice is a copy.
func Kinds() []ActionKind {
	out := make([]ActionKind, len(kinds))
	copy(out, kinds)
	return out
}

// IsKnown reports whether k is one of the enumerated kinds.
func (k ActionKind) IsKnown() bool {
	_, ok := knownKinds[k]
	return ok
}

func (k ActionKind) String() string {
	return string(k)
}

// NormalizeKind maps a user or config supplied kind name onto its canonical
// upper-case form. Known kinds take a map lookup; anything else is trimmed
// and upper-cased so that unrecognized names still compare consistently.
//
// Unknown names are returned as-is after folding. They are never rejected.
func NormalizeKind(s string) ActionKind {
	k := ActionKind(s)
	if k.IsKnown() {
		return k
	}
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}
	// cases.Caser is not safe for concurrent use, so build one per call.
	return ActionKind(cases.Upper(language.Und).String(trimmed))
}

// KindSet is a set of normalized action kinds.
type KindSet map[ActionKind]struct{}

// NewKindSet normalizes names into a set. Empty names are skipped.
func NewKindSet(names ...string) KindSet {
	set := make(KindSet, len(names))
	for _, name := range names {
		if k := NormalizeKind(name); k != "" {
			set[k] = struct{}{}
		}
	}
	return set
}

// Has reports whether k is in the set.
func (s KindSet) Has(k ActionKind) bool {
	_, ok := s[k]
	return ok
}

// Sorted returns the members in lexical order, for deterministic
// statement text and log output.
func (s KindSet) Sorted() []ActionKind {
	out := make([]ActionKind, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
