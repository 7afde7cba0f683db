package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
)

// Task runs fn once on start and then every interval until its context ends.
// While paused, ticks are skipped; Resume runs fn immediately.
type Task struct {
	name     string
	interval time.Duration
	clock    clock.Clock
	fn       func(context.Context)
	log      zerolog.Logger

	mu      sync.Mutex
	paused  bool
	trigger chan struct{}
}

func NewTask(name string, interval time.Duration, clk clock.Clock, fn func(context.Context), log zerolog.Logger) *Task {
	return &Task{
		name:     name,
		interval: interval,
		clock:    clk,
		fn:       fn,
		log:      log.With().Str("task", name).Logger(),
		trigger:  make(chan struct{}, 1),
	}
}

func (t *Task) Name() string {
	return t.name
}

func (t *Task) Run(ctx context.Context) {
	ticker := t.clock.Ticker(t.interval)
	defer ticker.Stop()

	t.log.Debug().Dur("interval", t.interval).Msg("task started")
	t.run(ctx)

	for {
		select {
		case <-ctx.Done():
			t.log.Debug().Msg("task stopped")
			return
		case <-ticker.C:
			if t.Paused() {
				continue
			}
			t.run(ctx)
		case <-t.trigger:
			t.run(ctx)
		}
	}
}

func (t *Task) run(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			t.log.Error().Interface("panic", r).Msg("task panicked")
		}
	}()
	t.fn(ctx)
}

func (t *Task) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.paused = true
}

func (t *Task) Resume() {
	t.mu.Lock()
	wasPaused := t.paused
	t.paused = false
	t.mu.Unlock()

	if wasPaused {
		t.Trigger()
	}
}

func (t *Task) Paused() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.paused
}

// Trigger requests an out-of-band run. Requests coalesce while one is pending.
func (t *Task) Trigger() {
	select {
	case t.trigger <- struct{}{}:
	default:
	}
}
