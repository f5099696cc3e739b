// ABOUTME: Diagnostics ring buffer of dispatched intents and their effects.
// ABOUTME: Backs the TUI debug panel and the get_diagnostics MCP tool.
package diag

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultSize is the default ring capacity.
const DefaultSize = 256

// Entry is one dispatched intent.
type Entry struct {
	Session string    `json:"session"`
	Seq     uint64    `json:"seq"`
	At      time.Time `json:"at"`
	Intent  string    `json:"intent"`
	Effects []string  `json:"effects,omitempty"`
	Overlay string    `json:"overlay"`
	Shown   int       `json:"displayed"`
}

// Ring is a fixed-size circular buffer of entries. Safe for concurrent use.
type Ring struct {
	mu      sync.Mutex
	session string
	buf     []Entry
	head    int
	count   int
	seq     uint64
	now     func() time.Time
}

// NewRing creates a ring for a new session with the given capacity.
func NewRing(size int) *Ring {
	if size <= 0 {
		size = DefaultSize
	}
	return &Ring{
		session: uuid.NewString(),
		buf:     make([]Entry, size),
		now:     time.Now,
	}
}

// Session returns the id stamped on every entry.
func (r *Ring) Session() string {
	return r.session
}

// Record appends an entry, overwriting the oldest when full. Session, Seq and
// At are filled in by the ring.
func (r *Ring) Record(e Entry) {
	if r == nil {
		return
	}
	if e.Effects != nil {
		e.Effects = append([]string(nil), e.Effects...)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	e.Session = r.session
	e.Seq = r.seq
	e.At = r.now()
	r.buf[r.head] = e
	r.head = (r.head + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

// Last returns the n most recent entries, oldest first.
func (r *Ring) Last(n int) []Entry {
	if r == nil || n <= 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if n > r.count {
		n = r.count
	}
	out := make([]Entry, n)
	size := len(r.buf)
	start := (r.head - n + size) % size
	for i := range out {
		out[i] = r.buf[(start+i)%size]
	}
	return out
}

// Len returns the number of buffered entries.
func (r *Ring) Len() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Counts aggregates buffered entries by intent name.
func (r *Ring) Counts() map[string]int {
	counts := make(map[string]int)
	for _, e := range r.Last(r.Len()) {
		counts[e.Intent]++
	}
	return counts
}
