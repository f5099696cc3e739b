// ABOUTME: Tests for the diagnostics ring buffer.
// ABOUTME: Covers wraparound ordering, sequence numbers, and counts.
package diag

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRingWrapsOldestFirst(t *testing.T) {
	r := NewRing(3)
	for i := 0; i < 5; i++ {
		r.Record(Entry{Intent: fmt.Sprintf("I%d", i)})
	}
	if r.Len() != 3 {
		t.Fatalf("Len = %d, want 3", r.Len())
	}

	var got []string
	for _, e := range r.Last(10) {
		got = append(got, e.Intent)
	}
	if diff := cmp.Diff([]string{"I2", "I3", "I4"}, got); diff != "" {
		t.Errorf("Last mismatch (-want +got):\n%s", diff)
	}

	last := r.Last(1)
	if len(last) != 1 || last[0].Seq != 5 {
		t.Errorf("Last(1) = %+v, want seq 5", last)
	}
	if last[0].Session != r.Session() || r.Session() == "" {
		t.Error("entries should carry the ring's session id")
	}
}

func TestRingEmptyAndNil(t *testing.T) {
	r := NewRing(0)
	if got := r.Last(5); len(got) != 0 {
		t.Errorf("empty ring returned %v", got)
	}
	if got := r.Last(0); got != nil {
		t.Errorf("Last(0) = %v", got)
	}

	var nilRing *Ring
	nilRing.Record(Entry{Intent: "X"})
	if nilRing.Len() != 0 || nilRing.Last(1) != nil {
		t.Error("nil ring should be inert")
	}
}

func TestRingCopiesEffects(t *testing.T) {
	r := NewRing(4)
	effects := []string{"start_timer(1)"}
	r.Record(Entry{Intent: "OPEN_STORIES", Effects: effects})
	effects[0] = "mutated"
	if got := r.Last(1)[0].Effects[0]; got != "start_timer(1)" {
		t.Errorf("effects aliased caller slice: %s", got)
	}
}

func TestRingCounts(t *testing.T) {
	r := NewRing(8)
	for _, name := range []string{"STORY_TICK", "STORY_TICK", "LOAD_MORE"} {
		r.Record(Entry{Intent: name})
	}
	want := map[string]int{"STORY_TICK": 2, "LOAD_MORE": 1}
	if diff := cmp.Diff(want, r.Counts()); diff != "" {
		t.Errorf("Counts mismatch (-want +got):\n%s", diff)
	}
}

func TestRingConcurrentRecord(t *testing.T) {
	r := NewRing(64)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Record(Entry{Intent: "SCROLLED"})
			}
		}()
	}
	wg.Wait()
	if r.Len() != 64 {
		t.Errorf("Len = %d, want 64", r.Len())
	}
	if got := r.Last(1)[0].Seq; got != 800 {
		t.Errorf("last seq = %d, want 800", got)
	}
}
