package chain

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog"
)

// Watcher delivers contract logs matching a filter, either from an
// eth_subscribe stream or by polling eth_getLogs.
type Watcher struct {
	backend   Backend
	query     ethereum.FilterQuery
	clock     clock.Clock
	interval  time.Duration
	subscribe bool
	log       zerolog.Logger
}

func NewWatcher(backend Backend, query ethereum.FilterQuery, clk clock.Clock, interval time.Duration, subscribe bool, log zerolog.Logger) *Watcher {
	return &Watcher{
		backend:   backend,
		query:     query,
		clock:     clk,
		interval:  interval,
		subscribe: subscribe,
		log:       log.With().Str("component", "watcher").Logger(),
	}
}

// Run delivers logs until ctx is done and only returns nil. A dropped
// subscription is re-established after one interval and catches up on the
// blocks it missed. If subscribing is disabled or fails it polls instead,
// resuming after the last delivered log.
func (w *Watcher) Run(ctx context.Context, handle func(types.Log)) error {
	cur := &logCursor{}
	deliver := func(l types.Log) {
		if cur.admit(l) {
			handle(l)
		}
	}

	if w.subscribe {
		for ctx.Err() == nil {
			if !cur.known {
				w.resume(ctx, cur)
			}
			established, err := w.runSubscription(ctx, cur, deliver)
			if ctx.Err() != nil {
				return nil
			}
			if !established {
				w.log.Warn().Err(err).Msg("log subscription failed, falling back to polling")
				break
			}
			w.log.Warn().Err(err).Uint64("from", cur.from).Msg("log subscription dropped, resubscribing")
			if !w.sleep(ctx) {
				return nil
			}
		}
	}
	w.poll(ctx, cur, deliver)
	return nil
}

// logCursor is the position of the last delivered log. from is the first
// block that may still hold undelivered logs.
type logCursor struct {
	from  uint64
	known bool
	block uint64
	index uint
	seen  bool
}

// admit reports whether l is past the cursor and moves the cursor to it.
func (c *logCursor) admit(l types.Log) bool {
	if l.Removed {
		return false
	}
	if c.seen && (l.BlockNumber < c.block || (l.BlockNumber == c.block && l.Index <= c.index)) {
		return false
	}
	c.block, c.index, c.seen = l.BlockNumber, l.Index, true
	c.from, c.known = l.BlockNumber, true
	return true
}

// resume starts the cursor after the current head. Failures are logged and
// retried by the caller.
func (w *Watcher) resume(ctx context.Context, cur *logCursor) {
	head, err := w.backend.BlockNumber(ctx)
	if err != nil {
		w.log.Warn().Err(err).Msg("head block lookup failed")
		return
	}
	cur.from, cur.known = head+1, true
}

// runSubscription reports whether the subscription was established before it
// ended, along with the error that ended it.
func (w *Watcher) runSubscription(ctx context.Context, cur *logCursor, deliver func(types.Log)) (bool, error) {
	ch := make(chan types.Log, 64)
	sub, err := w.backend.SubscribeFilterLogs(ctx, w.query, ch)
	if err != nil {
		return false, err
	}
	defer sub.Unsubscribe()

	if cur.known {
		if err := w.since(ctx, cur.from, deliver); err != nil {
			w.log.Warn().Err(err).Uint64("from", cur.from).Msg("log catch-up failed")
		}
	}

	for {
		select {
		case <-ctx.Done():
			return true, nil
		case err := <-sub.Err():
			return true, err
		case l := <-ch:
			deliver(l)
		}
	}
}

func (w *Watcher) sleep(ctx context.Context) bool {
	t := w.clock.Timer(w.interval)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (w *Watcher) poll(ctx context.Context, cur *logCursor, deliver func(types.Log)) {
	if !cur.known {
		w.resume(ctx, cur)
	}

	ticker := w.clock.Ticker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		head, err := w.backend.BlockNumber(ctx)
		if err != nil {
			w.log.Warn().Err(err).Msg("head block lookup failed")
			continue
		}
		if !cur.known {
			cur.from, cur.known = head+1, true
			continue
		}
		if head < cur.from {
			continue
		}

		if err := w.Range(ctx, cur.from, head, deliver); err != nil {
			w.log.Warn().Err(err).Uint64("from", cur.from).Uint64("to", head).Msg("log poll failed")
			continue
		}
		cur.from = head + 1
	}
}

// since delivers every matching log from block from up to the latest block.
func (w *Watcher) since(ctx context.Context, from uint64, deliver func(types.Log)) error {
	q := w.query
	q.FromBlock = new(big.Int).SetUint64(from)
	q.ToBlock = nil

	logs, err := w.backend.FilterLogs(ctx, q)
	if err != nil {
		return err
	}
	for _, l := range logs {
		deliver(l)
	}
	return nil
}

// Range delivers every matching log in [from, to].
func (w *Watcher) Range(ctx context.Context, from, to uint64, handle func(types.Log)) error {
	q := w.query
	q.FromBlock = new(big.Int).SetUint64(from)
	q.ToBlock = new(big.Int).SetUint64(to)

	logs, err := w.backend.FilterLogs(ctx, q)
	if err != nil {
		return err
	}
	for _, l := range logs {
		if !l.Removed {
			handle(l)
		}
	}
	return nil
}

// Backfill walks [from, head] in windows of step blocks.
func (w *Watcher) Backfill(ctx context.Context, from, step uint64, handle func(types.Log)) (uint64, error) {
	head, err := w.backend.BlockNumber(ctx)
	if err != nil {
		return from, fmt.Errorf("head block: %w", err)
	}
	if step == 0 {
		step = 1000
	}

	for start := from; start <= head; start += step {
		end := start + step - 1
		if end > head {
			end = head
		}
		if err := w.Range(ctx, start, end, handle); err != nil {
			return start, fmt.Errorf("logs %d-%d: %w", start, end, err)
		}
		w.log.Debug().Uint64("from", start).Uint64("to", end).Msg("backfilled range")
	}
	return head, nil
}
