package correlator

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gonadarena/internal/chain"
	"gonadarena/internal/testutil"
)

// decodeFirstByte treats the first data byte as the event payload.
func decodeFirstByte(l types.Log) (int, error) {
	if len(l.Data) == 0 {
		return 0, errors.New("empty data")
	}
	return int(l.Data[0]), nil
}

func newTestCorrelator() *Correlator[int] {
	return New[int]("Test", decodeFirstByte, clock.New(), zerolog.Nop())
}

func logFor(hash string, payload byte) types.Log {
	return types.Log{TxHash: common.HexToHash(hash), Data: []byte{payload}}
}

func TestCorrelator_MatchResolvesOnce(t *testing.T) {
	c := newTestCorrelator()
	w := c.Expect(common.HexToHash("0xabc"))

	c.Deliver(logFor("0xabc", 7))
	c.Deliver(logFor("0xabc", 8))

	v, err := w.Wait(context.Background(), time.Second)
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Equal(t, 0, c.Pending())

	_, err = w.Wait(context.Background(), 10*time.Millisecond)
	assert.ErrorIs(t, err, ErrStillWaiting)
}

func TestCorrelator_MismatchNeverResolves(t *testing.T) {
	c := newTestCorrelator()
	w := c.Expect(common.HexToHash("0xabc"))

	c.Deliver(logFor("0xdef", 1))

	_, err := w.Wait(context.Background(), 20*time.Millisecond)
	assert.ErrorIs(t, err, ErrStillWaiting)
	assert.Equal(t, 1, c.Pending())
}

func TestCorrelator_DecodeErrorSkipped(t *testing.T) {
	c := newTestCorrelator()
	w := c.Expect(common.HexToHash("0xabc"))

	var seen atomic.Int32
	c.OnEvent(func(int) { seen.Add(1) })

	c.Deliver(types.Log{TxHash: common.HexToHash("0xabc")})
	assert.Equal(t, int32(0), seen.Load())
	assert.Equal(t, 1, c.Pending())

	c.Deliver(logFor("0xabc", 3))
	v, err := w.Wait(context.Background(), time.Second)
	require.NoError(t, err)
	assert.Equal(t, 3, v)
	assert.Equal(t, int32(1), seen.Load())
}

func TestCorrelator_ListenersSeeAllEvents(t *testing.T) {
	c := newTestCorrelator()
	var got []int
	c.OnEvent(func(v int) { got = append(got, v) })

	c.Expect(common.HexToHash("0x1"))
	c.Deliver(logFor("0x1", 1))
	c.Deliver(logFor("0x2", 2))

	assert.Equal(t, []int{1, 2}, got)
}

func TestCorrelator_Cancel(t *testing.T) {
	c := newTestCorrelator()
	w := c.Expect(common.HexToHash("0xabc"))
	c.Cancel(common.HexToHash("0xabc"))

	c.Deliver(logFor("0xabc", 1))
	_, err := w.Wait(context.Background(), 10*time.Millisecond)
	assert.ErrorIs(t, err, ErrStillWaiting)
}

func TestCorrelator_ExpectIsIdempotent(t *testing.T) {
	c := newTestCorrelator()
	a := c.Expect(common.HexToHash("0xabc"))
	b := c.Expect(common.HexToHash("0xabc"))
	assert.Same(t, a, b)
	assert.Equal(t, 1, c.Pending())
}

func TestWaiter_ContextCancelled(t *testing.T) {
	c := newTestCorrelator()
	w := c.Expect(common.HexToHash("0xabc"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := w.Wait(ctx, time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWaiter_BoundedWithMockClock(t *testing.T) {
	mock := clock.NewMock()
	c := New[int]("Test", decodeFirstByte, mock, zerolog.Nop())
	w := c.Expect(common.HexToHash("0xabc"))

	errc := make(chan error, 1)
	go func() {
		_, err := w.Wait(context.Background(), 5*time.Second)
		errc <- err
	}()

	var err error
	require.Eventually(t, func() bool {
		mock.Add(time.Second)
		select {
		case err = <-errc:
			return true
		default:
			return false
		}
	}, time.Second, time.Millisecond)
	assert.ErrorIs(t, err, ErrStillWaiting)
}

func TestCorrelator_RunOverWatcher(t *testing.T) {
	backend := testutil.NewFakeBackend()
	c := newTestCorrelator()
	w := chain.NewWatcher(backend, ethereum.FilterQuery{}, clock.New(), 10*time.Millisecond, true, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx, w) }()

	require.Eventually(t, func() bool { return backend.SubscriberCount() == 1 }, time.Second, time.Millisecond)

	waiter := c.Expect(common.HexToHash("0xabc"))
	backend.EmitLog(logFor("0xdef", 9))
	backend.EmitLog(logFor("0xabc", 4))

	v, err := waiter.Wait(context.Background(), time.Second)
	require.NoError(t, err)
	assert.Equal(t, 4, v)

	cancel()
	assert.NoError(t, <-done)
}
