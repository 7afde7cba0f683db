package chain

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gonadarena/internal/testutil"
)

var topicA = common.HexToHash("0xaa")

type collector struct {
	mu   sync.Mutex
	logs []types.Log
}

func (c *collector) add(l types.Log) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logs = append(c.logs, l)
}

func (c *collector) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.logs)
}

func (c *collector) blocks() []uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]uint64, len(c.logs))
	for i, l := range c.logs {
		out[i] = l.BlockNumber
	}
	return out
}

// headCounter counts head lookups and fails the first failures of them.
type headCounter struct {
	*testutil.FakeBackend
	mu       sync.Mutex
	calls    int
	failures int
}

func (b *headCounter) BlockNumber(ctx context.Context) (uint64, error) {
	head, err := b.FakeBackend.BlockNumber(ctx)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	if b.calls <= b.failures {
		return 0, errors.New("connection refused")
	}
	return head, err
}

func (b *headCounter) Calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

const mockInterval = time.Second

func newMockWatcher(backend Backend, subscribe bool) (*Watcher, *clock.Mock) {
	mock := clock.NewMock()
	q := ethereum.FilterQuery{Addresses: []common.Address{target}, Topics: [][]common.Hash{{topicA}}}
	return NewWatcher(backend, q, mock, mockInterval, subscribe, zerolog.Nop()), mock
}

func matching() types.Log {
	return types.Log{Address: target, Topics: []common.Hash{topicA}}
}

func runWatcher(t *testing.T, w *Watcher, handle func(types.Log)) (chan error, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, handle) }()
	t.Cleanup(cancel)
	return done, cancel
}

func newWatcher(backend Backend, subscribe bool) *Watcher {
	q := ethereum.FilterQuery{Addresses: []common.Address{target}, Topics: [][]common.Hash{{topicA}}}
	return NewWatcher(backend, q, clock.New(), 5*time.Millisecond, subscribe, zerolog.Nop())
}

func TestWatcher_Subscription(t *testing.T) {
	backend := testutil.NewFakeBackend()
	w := newWatcher(backend, true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var got collector
	go func() { _ = w.Run(ctx, got.add) }()

	require.Eventually(t, func() bool { return backend.SubscriberCount() == 1 }, time.Second, time.Millisecond)

	backend.EmitLog(types.Log{Address: target, Topics: []common.Hash{topicA}})
	backend.EmitLog(types.Log{Address: target, Topics: []common.Hash{common.HexToHash("0xbb")}})
	backend.EmitLog(types.Log{Address: common.HexToAddress("0x1"), Topics: []common.Hash{topicA}})

	assert.Eventually(t, func() bool { return got.len() == 1 }, time.Second, time.Millisecond)
}

func TestWatcher_Backfill(t *testing.T) {
	backend := testutil.NewFakeBackend()
	for i := 0; i < 5; i++ {
		backend.EmitLog(types.Log{Address: target, Topics: []common.Hash{topicA}})
	}
	w := newWatcher(backend, false)

	var got collector
	head, err := w.Backfill(context.Background(), 0, 2, got.add)
	require.NoError(t, err)
	assert.Equal(t, uint64(105), head)
	assert.Equal(t, 5, got.len())
}

func TestWatcher_PollDeliversEachLogOnce(t *testing.T) {
	backend := &headCounter{FakeBackend: testutil.NewFakeBackend()}
	w, mock := newMockWatcher(backend, false)

	var got collector
	done, cancel := runWatcher(t, w, got.add)

	require.Eventually(t, func() bool { return backend.Calls() >= 1 }, time.Second, time.Millisecond)
	for i := 0; i < 3; i++ {
		backend.EmitLog(matching())
	}
	backend.EmitLog(types.Log{Address: target, Topics: []common.Hash{common.HexToHash("0xbb")}})

	require.Eventually(t, func() bool {
		mock.Add(mockInterval)
		return got.len() == 3
	}, time.Second, time.Millisecond)

	for i := 0; i < 5; i++ {
		mock.Add(mockInterval)
	}
	assert.Equal(t, []uint64{101, 102, 103}, got.blocks())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_PollRetriesInitialHead(t *testing.T) {
	backend := &headCounter{FakeBackend: testutil.NewFakeBackend(), failures: 2}
	w, mock := newMockWatcher(backend, false)

	var got collector
	done, _ := runWatcher(t, w, got.add)

	require.Eventually(t, func() bool {
		mock.Add(mockInterval)
		return backend.Calls() >= 3
	}, time.Second, time.Millisecond)

	select {
	case err := <-done:
		t.Fatalf("watcher returned early: %v", err)
	default:
	}

	backend.EmitLog(matching())
	backend.EmitLog(matching())
	assert.Eventually(t, func() bool {
		mock.Add(mockInterval)
		return got.len() == 2
	}, time.Second, time.Millisecond)
}

func TestWatcher_SubscribeErrorFallsBackToPolling(t *testing.T) {
	backend := &headCounter{FakeBackend: testutil.NewFakeBackend()}
	backend.SubscribeErr = errors.New("notifications not supported")
	w, mock := newMockWatcher(backend, true)

	var got collector
	runWatcher(t, w, got.add)

	require.Eventually(t, func() bool { return backend.Calls() >= 1 }, time.Second, time.Millisecond)
	backend.EmitLog(matching())
	backend.EmitLog(matching())

	require.Eventually(t, func() bool {
		mock.Add(mockInterval)
		return got.len() == 2
	}, time.Second, time.Millisecond)
	assert.Equal(t, 0, backend.SubscriberCount())
	assert.Equal(t, []uint64{101, 102}, got.blocks())
}

func TestWatcher_ResubscribeCatchesUp(t *testing.T) {
	backend := testutil.NewFakeBackend()
	w, mock := newMockWatcher(backend, true)

	var got collector
	runWatcher(t, w, got.add)

	require.Eventually(t, func() bool { return backend.SubscriberCount() == 1 }, time.Second, time.Millisecond)
	backend.EmitLog(matching())
	require.Eventually(t, func() bool { return got.len() == 1 }, time.Second, time.Millisecond)

	backend.DropSubscriptions(errors.New("websocket closed"))
	backend.EmitLog(matching())

	require.Eventually(t, func() bool {
		mock.Add(mockInterval)
		return got.len() == 2
	}, time.Second, time.Millisecond)

	require.Eventually(t, func() bool { return backend.SubscriberCount() == 1 }, time.Second, time.Millisecond)
	backend.EmitLog(matching())
	require.Eventually(t, func() bool { return got.len() == 3 }, time.Second, time.Millisecond)

	assert.Equal(t, []uint64{101, 102, 103}, got.blocks())
}
