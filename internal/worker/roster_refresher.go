package worker

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"

	"gonadarena/internal/scheduler"
)

type RosterSource interface {
	RefreshAll(ctx context.Context) (int, error)
}

// RosterRefresher re-reads every known gladiator on a fixed interval so
// leaderboard requests are served from a warm cache.
type RosterRefresher struct {
	gladiators RosterSource
	task       *scheduler.Task
	log        zerolog.Logger
}

func NewRosterRefresher(gladiators RosterSource, clk clock.Clock, interval time.Duration, log zerolog.Logger) *RosterRefresher {
	w := &RosterRefresher{
		gladiators: gladiators,
		log:        log.With().Str("worker", "roster_refresher").Logger(),
	}
	w.task = scheduler.NewTask("roster_refresh", interval, clk, w.refresh, log)
	return w
}

func (w *RosterRefresher) StartWorker(ctx context.Context) {
	w.task.Run(ctx)
}

func (w *RosterRefresher) Pause()   { w.task.Pause() }
func (w *RosterRefresher) Resume()  { w.task.Resume() }
func (w *RosterRefresher) Trigger() { w.task.Trigger() }

func (w *RosterRefresher) Paused() bool { return w.task.Paused() }

func (w *RosterRefresher) refresh(ctx context.Context) {
	n, err := w.gladiators.RefreshAll(ctx)
	if err != nil {
		w.log.Warn().Err(err).Msg("roster refresh failed")
		return
	}
	w.log.Debug().Int("gladiators", n).Msg("roster refreshed")
}
