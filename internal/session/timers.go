// ABOUTME: Story timer executor backed by a gocron scheduler.
// ABOUTME: Maps each engine timer handle to one repeating duration job.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"

	"github.com/takubon0202/if-instagram-auto/internal/engine"
)

// TickFunc receives one beat of the timer identified by handle. It runs on a
// scheduler goroutine and must not block.
type TickFunc func(handle engine.TimerHandle)

// Timers executes StartTimer and CancelTimer effects.
type Timers struct {
	mu        sync.Mutex
	scheduler gocron.Scheduler
	jobs      map[engine.TimerHandle]uuid.UUID
	onTick    TickFunc
}

// NewTimers starts a scheduler that reports ticks to onTick.
func NewTimers(onTick TickFunc) (*Timers, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	s.Start()
	return &Timers{
		scheduler: s,
		jobs:      make(map[engine.TimerHandle]uuid.UUID),
		onTick:    onTick,
	}, nil
}

// Start schedules ticks for handle every interval. Starting a handle that is
// already running replaces its job.
func (t *Timers) Start(handle engine.TimerHandle, interval time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if id, ok := t.jobs[handle]; ok {
		delete(t.jobs, handle)
		if err := t.scheduler.RemoveJob(id); err != nil {
			return fmt.Errorf("failed to replace story timer: %w", err)
		}
	}

	job, err := t.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { t.onTick(handle) }),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName(fmt.Sprintf("story-timer-%d", handle)),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule story timer: %w", err)
	}
	t.jobs[handle] = job.ID()
	return nil
}

// Cancel stops the job for handle. Unknown handles are ignored.
func (t *Timers) Cancel(handle engine.TimerHandle) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	id, ok := t.jobs[handle]
	if !ok {
		return nil
	}
	delete(t.jobs, handle)
	if err := t.scheduler.RemoveJob(id); err != nil {
		return fmt.Errorf("failed to cancel story timer: %w", err)
	}
	return nil
}

// Active returns the number of running timers.
func (t *Timers) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.jobs)
}

// Close stops every job and the scheduler.
func (t *Timers) Close() error {
	t.mu.Lock()
	t.jobs = make(map[engine.TimerHandle]uuid.UUID)
	t.mu.Unlock()
	if err := t.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("failed to shut down scheduler: %w", err)
	}
	return nil
}
