// ABOUTME: Side effects requested by the reducer and executed by hosts.
// ABOUTME: Covers deferred page delivery, story timers, and scroll restoration.
package engine

import (
	"fmt"
	"time"
)

// Effect is work the host must perform after a transition. Effects are
// returned in the order they must run.
type Effect interface {
	fmt.Stringer
	effect()
}

// SchedulePage asks the host to send PageReady{Generation} on its next tick.
type SchedulePage struct{ Generation uint64 }

// StartTimer asks the host to deliver StoryTick{Handle} every Interval.
type StartTimer struct {
	Handle   TimerHandle
	Interval time.Duration
}

// CancelTimer asks the host to stop the timer identified by Handle.
type CancelTimer struct{ Handle TimerHandle }

// RestoreScroll asks the host to set its viewport to Offset after the next
// layout pass.
type RestoreScroll struct{ Offset int }

func (SchedulePage) effect()  {}
func (StartTimer) effect()    {}
func (CancelTimer) effect()   {}
func (RestoreScroll) effect() {}

func (e SchedulePage) String() string  { return fmt.Sprintf("schedule_page(%d)", e.Generation) }
func (e StartTimer) String() string    { return fmt.Sprintf("start_timer(%d)", e.Handle) }
func (e CancelTimer) String() string   { return fmt.Sprintf("cancel_timer(%d)", e.Handle) }
func (e RestoreScroll) String() string { return fmt.Sprintf("restore_scroll(%d)", e.Offset) }
