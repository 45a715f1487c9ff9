package ledger

import (
	"strconv"
	"time"
)

// Clock supplies timestamps for generated IDs and entity dates. Injected so
// tests can pin time instead of sleeping between creations.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }

// IDGenerator issues "<prefix>-<epochMillis>" identifiers. The millisecond
// value is kept monotonic: two IDs generated within the same millisecond get
// consecutive values instead of colliding. Callers serialize access (the
// store invokes it under its write lock).
type IDGenerator struct {
	clock      Clock
	lastMillis int64
}

func NewIDGenerator(clock Clock) *IDGenerator {
	return &IDGenerator{clock: clock}
}

func (g *IDGenerator) Next(prefix string) string {
	ms := g.clock.Now().UnixMilli()
	if ms <= g.lastMillis {
		ms = g.lastMillis + 1
	}
	g.lastMillis = ms
	return prefix + "-" + strconv.FormatInt(ms, 10)
}
