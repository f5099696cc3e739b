// ABOUTME: Headless single-writer host for the presentation engine.
// ABOUTME: Serializes intents, executes effects, and feeds timer ticks back in.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/takubon0202/if-instagram-auto/internal/content"
	"github.com/takubon0202/if-instagram-auto/internal/diag"
	"github.com/takubon0202/if-instagram-auto/internal/engine"
)

// ErrClosed is returned by Dispatch after Close.
var ErrClosed = errors.New("session closed")

// tickBuffer bounds queued timer ticks. Ticks beyond it are dropped; the next
// beat catches up.
const tickBuffer = 64

// timerExecutor runs StartTimer and CancelTimer effects.
type timerExecutor interface {
	Start(handle engine.TimerHandle, interval time.Duration) error
	Cancel(handle engine.TimerHandle) error
	Active() int
	Close() error
}

// Options configures a Runtime.
type Options struct {
	ViewMode engine.ViewMode
	Logger   *slog.Logger
	Diag     *diag.Ring
}

type request struct {
	intent engine.Intent
	reply  chan engine.Snapshot
}

// Runtime owns one engine.State. A single goroutine applies every intent, so
// callers never touch state directly.
type Runtime struct {
	logger *slog.Logger
	diag   *diag.Ring
	timers timerExecutor

	requests chan request
	ticks    chan engine.TimerHandle
	done     chan struct{}
	stopped  chan struct{}
	once     sync.Once

	// Owned by the loop goroutine.
	state   engine.State
	pending []engine.Intent

	mu   sync.RWMutex
	snap engine.Snapshot
}

// NewRuntime starts a runtime with gocron-backed story timers.
func NewRuntime(opts Options) (*Runtime, error) {
	r := newRuntime(opts)
	timers, err := NewTimers(r.tick)
	if err != nil {
		return nil, err
	}
	r.timers = timers
	go r.loop()
	return r, nil
}

func newRuntime(opts Options) *Runtime {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	state := engine.New(opts.ViewMode)
	return &Runtime{
		logger:   logger,
		diag:     opts.Diag,
		requests: make(chan request),
		ticks:    make(chan engine.TimerHandle, tickBuffer),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
		state:    state,
		snap:     state.Snapshot(),
	}
}

// Dispatch applies intent and returns the snapshot after any pages it
// scheduled have been delivered.
func (r *Runtime) Dispatch(ctx context.Context, intent engine.Intent) (engine.Snapshot, error) {
	req := request{intent: intent, reply: make(chan engine.Snapshot, 1)}
	select {
	case r.requests <- req:
	case <-r.done:
		return engine.Snapshot{}, ErrClosed
	case <-ctx.Done():
		return engine.Snapshot{}, ctx.Err()
	}
	select {
	case snap := <-req.reply:
		return snap, nil
	case <-r.done:
		return engine.Snapshot{}, ErrClosed
	case <-ctx.Done():
		return engine.Snapshot{}, ctx.Err()
	}
}

// Load reads repo and dispatches the outcome as ContentLoaded or LoadFailed.
// The returned error is the repository error, if any.
func (r *Runtime) Load(ctx context.Context, repo content.Repository) (engine.Snapshot, error) {
	bundle, err := repo.Load(ctx)
	if err != nil {
		r.logger.Error("content load failed", "error", err)
		snap, derr := r.Dispatch(ctx, engine.LoadFailed{Err: err})
		if derr != nil {
			return snap, derr
		}
		return snap, fmt.Errorf("failed to load content: %w", err)
	}
	return r.Dispatch(ctx, bundle.Intent())
}

// Snapshot returns the most recent snapshot without waiting on the loop.
func (r *Runtime) Snapshot() engine.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap
}

// ActiveTimers returns the number of running story timers.
func (r *Runtime) ActiveTimers() int {
	return r.timers.Active()
}

// Diag returns the diagnostics ring, which may be nil.
func (r *Runtime) Diag() *diag.Ring {
	return r.diag
}

// Close stops the loop and every timer. It is safe to call more than once.
func (r *Runtime) Close() error {
	var err error
	r.once.Do(func() {
		close(r.done)
		<-r.stopped
		err = r.timers.Close()
	})
	return err
}

// tick is called from scheduler goroutines and never blocks.
func (r *Runtime) tick(handle engine.TimerHandle) {
	select {
	case r.ticks <- handle:
	default:
	}
}

func (r *Runtime) loop() {
	defer close(r.stopped)
	for {
		select {
		case <-r.done:
			return
		case req := <-r.requests:
			r.apply(req.intent)
			req.reply <- r.publish()
		case handle := <-r.ticks:
			r.apply(engine.StoryTick{Handle: handle})
			r.publish()
		}
	}
}

// apply reduces one intent, executes its effects in order, then delivers any
// scheduled pages.
func (r *Runtime) apply(intent engine.Intent) {
	r.step(intent)
	for len(r.pending) > 0 {
		next := r.pending[0]
		r.pending = r.pending[1:]
		r.step(next)
	}
}

func (r *Runtime) step(intent engine.Intent) {
	next, effects := engine.Reduce(r.state, intent)
	r.state = next

	names := make([]string, len(effects))
	for i, eff := range effects {
		names[i] = eff.String()
		r.execute(eff)
	}

	if _, isTick := intent.(engine.StoryTick); !isTick || len(effects) > 0 {
		r.logger.Debug("intent applied", "intent", intent.Name(), "effects", names)
	}
	r.diag.Record(diag.Entry{
		Intent:  intent.Name(),
		Effects: names,
		Overlay: string(r.state.Overlay.Kind),
		Shown:   len(r.state.Feed.Displayed),
	})
}

func (r *Runtime) execute(eff engine.Effect) {
	switch e := eff.(type) {
	case engine.SchedulePage:
		r.pending = append(r.pending, engine.PageReady{Generation: e.Generation})
	case engine.StartTimer:
		if err := r.timers.Start(e.Handle, e.Interval); err != nil {
			r.logger.Error("failed to start story timer", "handle", e.Handle, "error", err)
		}
	case engine.CancelTimer:
		if err := r.timers.Cancel(e.Handle); err != nil {
			r.logger.Error("failed to cancel story timer", "handle", e.Handle, "error", err)
		}
	case engine.RestoreScroll:
		// No viewport here; the engine already carries the restored offset.
	}
}

func (r *Runtime) publish() engine.Snapshot {
	snap := r.state.Snapshot()
	r.mu.Lock()
	r.snap = snap
	r.mu.Unlock()
	return snap
}
