package event

import (
	"crypto/md5"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Location is a block position in a named world.
type Location struct {
	World string
	X     int
	Y     int
	Z     int
}

func (l Location) String() string {
	return fmt.Sprintf("[%s %d,%d,%d]", l.World, l.X, l.Y, l.Z)
}

// Record is one logged occurrence.
//
// ID is zero until the store assigns it. Location is nil only for rows
// written without coordinates; current producers always supply one.
type Record struct {
	ID        int64
	Timestamp int64 // unix milliseconds, capture time
	ActorName string
	ActorID   string
	Kind      ActionKind
	Detail    string
	Location  *Location
}

// Time returns the capture time as a time.Time.
func (r Record) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// OfflineActorID derives the id a server in offline mode assigns to a player
// name: a version 3 UUID over the MD5 of "OfflinePlayer:<name>".
func OfflineActorID(name string) string {
	sum := md5.Sum([]byte("OfflinePlayer:" + name))
	sum[6] = (sum[6] & 0x0f) | 0x30
	sum[8] = (sum[8] & 0x3f) | 0x80
	id, err := uuid.FromBytes(sum[:])
	if err != nil {
		// FromBytes only fails on wrong length.
		panic(err)
	}
	return id.String()
}

// ValidActorID reports whether id parses as a UUID.
func ValidActorID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
