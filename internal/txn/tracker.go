package txn

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"gonadarena/internal/chain"
	"gonadarena/internal/correlator"
	"gonadarena/internal/domain"
	"gonadarena/internal/metrics"
)

type State string

const (
	StateIdle              State = "idle"
	StateSimulating        State = "simulating"
	StateAwaitingSignature State = "awaiting_signature"
	StateSubmitted         State = "submitted"
	StateReplaced          State = "replaced"
	StateConfirmed         State = "confirmed"
	StateReverted          State = "reverted"
	StateRejected          State = "rejected"
	StateFailed            State = "failed"
)

func (s State) Terminal() bool {
	switch s {
	case StateConfirmed, StateReverted, StateRejected, StateFailed:
		return true
	}
	return false
}

const maxTracked = 256

// Executor runs the three phases of a contract write. chain.Client implements it.
type Executor interface {
	Simulate(ctx context.Context, call chain.Call) (uint64, error)
	Send(ctx context.Context, call chain.Call, gas uint64) (*types.Transaction, error)
	Wait(ctx context.Context, tx *types.Transaction, onReplaced func()) (*types.Receipt, error)
}

type BattleFinder interface {
	FindBattleResult(logs []*types.Log) (domain.BattleResult, bool)
}

type Request struct {
	Action string
	Call   chain.Call
	// ExpectBattle makes a confirmed write wait for its BattleResult event.
	ExpectBattle bool
}

// Tx is the observable record of one tracked write.
type Tx struct {
	ID           uuid.UUID            `json:"id"`
	Action       string               `json:"action"`
	State        State                `json:"state"`
	Hash         string               `json:"hash,omitempty"`
	Error        string               `json:"error,omitempty"`
	ErrorKind    domain.ErrorKind     `json:"errorKind,omitempty"`
	Battle       *domain.BattleResult `json:"battle,omitempty"`
	StillWaiting bool                 `json:"stillWaiting,omitempty"`
	UpdatedAt    time.Time            `json:"updatedAt"`
}

type Result struct {
	Tx      Tx
	Receipt *types.Receipt
}

type Tracker struct {
	exec      Executor
	battles   *correlator.Correlator[domain.BattleResult]
	finder    BattleFinder
	clock     clock.Clock
	eventWait time.Duration
	log       zerolog.Logger

	mu        sync.RWMutex
	txs       map[uuid.UUID]*Tx
	order     []uuid.UUID
	listeners []func(Tx)
}

func NewTracker(
	exec Executor,
	battles *correlator.Correlator[domain.BattleResult],
	finder BattleFinder,
	clk clock.Clock,
	eventWait time.Duration,
	log zerolog.Logger,
) *Tracker {
	return &Tracker{
		exec:      exec,
		battles:   battles,
		finder:    finder,
		clock:     clk,
		eventWait: eventWait,
		log:       log.With().Str("component", "txn").Logger(),
		txs:       make(map[uuid.UUID]*Tx),
	}
}

// Subscribe registers fn for every state transition.
func (t *Tracker) Subscribe(fn func(Tx)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, fn)
}

func (t *Tracker) Get(id uuid.UUID) (Tx, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	tx, ok := t.txs[id]
	if !ok {
		return Tx{}, false
	}
	return *tx, true
}

// Execute drives req through simulation, signing, submission and resolution.
// The returned error is the kind-tagged failure, if any; the Tx in the result
// always reflects the final state.
func (t *Tracker) Execute(ctx context.Context, req Request) (Result, error) {
	rec := t.begin(req.Action)
	logger := t.log.With().Str("action", req.Action).Str("id", rec.ID.String()).Logger()

	t.transition(rec, StateSimulating, nil)
	gas, err := t.exec.Simulate(ctx, req.Call)
	if err != nil {
		logger.Warn().Err(err).Msg("simulation failed")
		return Result{Tx: t.transition(rec, StateFailed, func(tx *Tx) { setError(tx, err) })}, err
	}

	t.transition(rec, StateAwaitingSignature, nil)
	tx, err := t.exec.Send(ctx, req.Call, gas)
	if err != nil {
		state := StateFailed
		if domain.KindOf(err) == domain.KindUserRejection {
			state = StateRejected
		}
		logger.Warn().Err(err).Str("state", string(state)).Msg("submission failed")
		return Result{Tx: t.transition(rec, state, func(tx *Tx) { setError(tx, err) })}, err
	}

	hash := tx.Hash()
	var waiter *correlator.Waiter[domain.BattleResult]
	if req.ExpectBattle && t.battles != nil {
		waiter = t.battles.Expect(hash)
		defer t.battles.Cancel(hash)
	}
	t.transition(rec, StateSubmitted, func(r *Tx) { r.Hash = hash.Hex() })

	receipt, err := t.exec.Wait(ctx, tx, func() {
		t.transition(rec, StateReplaced, nil)
	})
	if err != nil {
		state := StateFailed
		if receipt != nil {
			state = StateReverted
		}
		logger.Warn().Err(err).Str("hash", hash.Hex()).Str("state", string(state)).Msg("transaction not confirmed")
		return Result{Tx: t.transition(rec, state, func(tx *Tx) { setError(tx, err) }), Receipt: receipt}, err
	}

	var battle *domain.BattleResult
	stillWaiting := false
	if req.ExpectBattle {
		battle, stillWaiting = t.awaitBattle(ctx, receipt, waiter)
	}

	final := t.transition(rec, StateConfirmed, func(r *Tx) {
		r.Battle = battle
		r.StillWaiting = stillWaiting
	})
	logger.Info().Str("hash", hash.Hex()).Bool("still_waiting", stillWaiting).Msg("transaction confirmed")
	return Result{Tx: final, Receipt: receipt}, nil
}

// awaitBattle checks the receipt first and falls back to the correlator for
// a bounded window.
func (t *Tracker) awaitBattle(ctx context.Context, receipt *types.Receipt, waiter *correlator.Waiter[domain.BattleResult]) (*domain.BattleResult, bool) {
	if t.finder != nil {
		if result, ok := t.finder.FindBattleResult(receipt.Logs); ok {
			return &result, false
		}
	}
	if waiter == nil {
		return nil, true
	}

	result, err := waiter.Wait(ctx, t.eventWait)
	if err != nil {
		if !errors.Is(err, correlator.ErrStillWaiting) {
			t.log.Debug().Err(err).Msg("battle wait aborted")
		}
		return nil, true
	}
	return &result, false
}

func (t *Tracker) begin(action string) *Tx {
	rec := &Tx{
		ID:        uuid.New(),
		Action:    action,
		State:     StateIdle,
		UpdatedAt: t.clock.Now(),
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.txs[rec.ID] = rec
	t.order = append(t.order, rec.ID)
	if len(t.order) > maxTracked {
		delete(t.txs, t.order[0])
		t.order = t.order[1:]
	}
	return rec
}

func (t *Tracker) transition(rec *Tx, state State, mutate func(*Tx)) Tx {
	t.mu.Lock()
	rec.State = state
	rec.UpdatedAt = t.clock.Now()
	if mutate != nil {
		mutate(rec)
	}
	snapshot := *rec
	listeners := append(([]func(Tx))(nil), t.listeners...)
	t.mu.Unlock()

	metrics.TxTransitions.WithLabelValues(rec.Action, string(state)).Inc()
	for _, fn := range listeners {
		fn(snapshot)
	}
	return snapshot
}

func setError(tx *Tx, err error) {
	tx.Error = err.Error()
	tx.ErrorKind = domain.KindOf(err)
}
