package journal

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/deduce/pkg/deduce/kb"
)

// DefaultCapacity bounds how many entries a Journal keeps
const DefaultCapacity = 1024

// Entry is one recorded knowledge base change
type Entry struct {
	ID    string // ULID, sortable by record time
	Time  time.Time
	Event kb.Event
}

// Journal records knowledge base events. Older entries are dropped once
// capacity is reached.
type Journal struct {
	mu       sync.Mutex
	entropy  *ulid.MonotonicEntropy
	capacity int
	entries  []Entry
	dropped  int
}

// New creates a journal; capacity <= 0 means DefaultCapacity
func New(capacity int) *Journal {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Journal{
		entropy:  ulid.Monotonic(rand.Reader, 0),
		capacity: capacity,
	}
}

// Observe is a kb.Observer
func (j *Journal) Observe(ev kb.Event) {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := time.Now()
	entry := Entry{
		ID:    ulid.MustNew(ulid.Timestamp(now), j.entropy).String(),
		Time:  now,
		Event: ev,
	}
	if len(j.entries) == j.capacity {
		copy(j.entries, j.entries[1:])
		j.entries = j.entries[:len(j.entries)-1]
		j.dropped++
	}
	j.entries = append(j.entries, entry)
}

// Events returns a copy of the retained entries, oldest first
func (j *Journal) Events() []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]Entry(nil), j.entries...)
}

// Dropped reports how many entries were evicted
func (j *Journal) Dropped() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.dropped
}

// Since returns the entries recorded after the entry with the given ID.
// An unknown ID returns everything retained.
func (j *Journal) Since(id string) []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()
	for i, e := range j.entries {
		if e.ID == id {
			return append([]Entry(nil), j.entries[i+1:]...)
		}
	}
	return append([]Entry(nil), j.entries...)
}

// Reset discards all entries
func (j *Journal) Reset() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = nil
	j.dropped = 0
}

// WriteTo writes one line per entry
func (j *Journal) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, e := range j.Events() {
		n, err := fmt.Fprintln(w, Format(e))
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Format renders an entry as "<ulid> <kind> <kind-of-item> <item>"
func Format(e Entry) string {
	line := fmt.Sprintf("%s %-8s %s %s", e.ID, e.Event.Kind, e.Event.Node.Kind, e.Event.Node)
	if s := e.Event.Support; s != nil {
		line += fmt.Sprintf(" <= #%d + #%d", s.Fact, s.Rule)
	}
	return line
}
