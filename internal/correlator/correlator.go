package correlator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog"

	"gonadarena/internal/chain"
	"gonadarena/internal/metrics"
)

var ErrStillWaiting = errors.New("still waiting for event")

type Decoder[T any] func(types.Log) (T, error)

// Waiter receives the decoded event emitted by one transaction.
type Waiter[T any] struct {
	hash  common.Hash
	ch    chan T
	clock clock.Clock
}

func (w *Waiter[T]) Hash() common.Hash {
	return w.hash
}

// Done yields the event once if it ever arrives.
func (w *Waiter[T]) Done() <-chan T {
	return w.ch
}

// Wait blocks up to d for the event. It returns ErrStillWaiting when the
// window passes without a match.
func (w *Waiter[T]) Wait(ctx context.Context, d time.Duration) (T, error) {
	timer := w.clock.Timer(d)
	defer timer.Stop()

	var zero T
	select {
	case v := <-w.ch:
		return v, nil
	case <-timer.C:
		return zero, ErrStillWaiting
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Correlator matches decoded contract events to pending transactions by hash.
// Events for unknown hashes only reach the listeners.
type Correlator[T any] struct {
	event  string
	decode Decoder[T]
	clock  clock.Clock
	log    zerolog.Logger

	mu        sync.Mutex
	waiters   map[common.Hash]*Waiter[T]
	listeners []func(T)
}

func New[T any](event string, decode Decoder[T], clk clock.Clock, log zerolog.Logger) *Correlator[T] {
	return &Correlator[T]{
		event:   event,
		decode:  decode,
		clock:   clk,
		log:     log.With().Str("event", event).Logger(),
		waiters: make(map[common.Hash]*Waiter[T]),
	}
}

// Expect registers interest in the event emitted by hash.
func (c *Correlator[T]) Expect(hash common.Hash) *Waiter[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	if w, ok := c.waiters[hash]; ok {
		return w
	}
	w := &Waiter[T]{hash: hash, ch: make(chan T, 1), clock: c.clock}
	c.waiters[hash] = w
	return w
}

func (c *Correlator[T]) Cancel(hash common.Hash) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.waiters, hash)
}

func (c *Correlator[T]) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waiters)
}

// OnEvent adds a listener called for every decoded event.
func (c *Correlator[T]) OnEvent(fn func(T)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Deliver decodes l and resolves the waiter for its transaction, if any.
// Undecodable logs are logged and skipped.
func (c *Correlator[T]) Deliver(l types.Log) {
	v, err := c.decode(l)
	if err != nil {
		metrics.CorrelatorEvents.WithLabelValues(c.event, "decode_error").Inc()
		c.log.Warn().Err(err).Str("tx", l.TxHash.Hex()).Msg("skipping undecodable log")
		return
	}

	c.mu.Lock()
	w, ok := c.waiters[l.TxHash]
	if ok {
		delete(c.waiters, l.TxHash)
	}
	listeners := append(([]func(T))(nil), c.listeners...)
	c.mu.Unlock()

	if ok {
		metrics.CorrelatorEvents.WithLabelValues(c.event, "matched").Inc()
		w.ch <- v
	} else {
		metrics.CorrelatorEvents.WithLabelValues(c.event, "unmatched").Inc()
	}

	for _, fn := range listeners {
		fn(v)
	}
}

// Run feeds every log from w into Deliver until ctx is done.
func (c *Correlator[T]) Run(ctx context.Context, w *chain.Watcher) error {
	c.log.Info().Msg("correlator started")
	defer c.log.Info().Msg("correlator stopped")
	return w.Run(ctx, c.Deliver)
}
