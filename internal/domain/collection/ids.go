package collection

import (
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// IDSource produces entry identifiers.
type IDSource interface {
	NewID() string
}

// UUIDs issues random UUIDs. Safe across owners, processes and merges.
type UUIDs struct{}

func (UUIDs) NewID() string { return uuid.NewString() }

// TimestampIDs issues millisecond timestamps as decimal strings. Ids are
// strictly increasing within one source even when several are requested in
// the same millisecond, but two sources can collide. The zero value is ready
// to use.
type TimestampIDs struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewTimestampIDs() *TimestampIDs {
	return &TimestampIDs{now: time.Now}
}

func (t *TimestampIDs) NewID() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now
	if now == nil {
		now = time.Now
	}
	n := now().UnixMilli()
	if n <= t.last {
		n = t.last + 1
	}
	t.last = n
	return strconv.FormatInt(n, 10)
}

// NewIDSource maps a configured strategy name to a source. Unknown names fall
// back to UUIDs.
func NewIDSource(strategy string) IDSource {
	if strategy == "timestamp" {
		return NewTimestampIDs()
	}
	return UUIDs{}
}
