package chain

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gonadarena/internal/domain"
	"gonadarena/internal/testutil"
)

const writeABI = `[
	{"type":"function","name":"fight","stateMutability":"nonpayable","inputs":[{"name":"opponent","type":"address"}],"outputs":[]}
]`

var target = common.HexToAddress("0x54e1d41837bDc3448101Eeffa779A959fA48bbD9")

func setupClient(t *testing.T, timeout time.Duration) (*Client, *testutil.FakeBackend, *testutil.FakeWallet) {
	t.Helper()
	backend := testutil.NewFakeBackend()
	backend.Register(target, writeABI)
	wallet := testutil.NewFakeWallet()
	client := NewClient(backend, wallet, clock.New(), ClientOptions{
		PollInterval: 5 * time.Millisecond,
		Timeout:      timeout,
	}, zerolog.Nop())
	return client, backend, wallet
}

func fightCall() Call {
	data := append(crypto.Keccak256([]byte("fight(address)"))[:4], make([]byte, 32)...)
	return Call{To: target, Data: data, Method: "fight"}
}

func TestClient_Simulate(t *testing.T) {
	t.Run("failure is terminal and verbatim", func(t *testing.T) {
		client, backend, wallet := setupClient(t, time.Second)
		backend.QueueCallError(errors.New("execution reverted: Gladiator is resting"))

		_, err := client.Simulate(context.Background(), fightCall())
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrSimulationFailed)
		assert.Equal(t, "execution reverted: Gladiator is resting", err.Error())
		assert.Equal(t, 0, wallet.Signed())
	})

	t.Run("success adds gas headroom", func(t *testing.T) {
		client, _, wallet := setupClient(t, time.Second)

		gas, err := client.Simulate(context.Background(), fightCall())
		require.NoError(t, err)
		assert.Equal(t, uint64(120_000), gas)
		assert.Equal(t, 0, wallet.Signed())
	})

	t.Run("no wallet", func(t *testing.T) {
		client := NewClient(testutil.NewFakeBackend(), nil, clock.New(), ClientOptions{}, zerolog.Nop())
		_, err := client.Simulate(context.Background(), fightCall())
		assert.ErrorIs(t, err, domain.ErrWalletNotConfigured)
	})
}

func TestClient_SendAndWait(t *testing.T) {
	client, backend, wallet := setupClient(t, time.Second)
	backend.OnSend = func(tx *types.Transaction) *types.Receipt {
		return &types.Receipt{Status: types.ReceiptStatusSuccessful}
	}

	tx, err := client.Send(context.Background(), fightCall(), 120_000)
	require.NoError(t, err)
	assert.Equal(t, 1, wallet.Signed())
	assert.Equal(t, uint64(120_000), tx.Gas())
	require.Len(t, backend.Sent(), 1)

	receipt, err := client.Wait(context.Background(), tx, nil)
	require.NoError(t, err)
	assert.Equal(t, tx.Hash(), receipt.TxHash)
}

func TestClient_Reverted(t *testing.T) {
	client, backend, _ := setupClient(t, time.Second)

	tx, err := client.Send(context.Background(), fightCall(), 21_000)
	require.NoError(t, err)

	go func() {
		time.Sleep(20 * time.Millisecond)
		backend.Mine(tx, types.ReceiptStatusFailed)
	}()

	receipt, err := client.Wait(context.Background(), tx, nil)
	require.Error(t, err)
	require.NotNil(t, receipt)
	assert.ErrorIs(t, err, domain.ErrReceiptFailed)
}

func TestClient_UserRejection(t *testing.T) {
	client, backend, wallet := setupClient(t, time.Second)
	wallet.Err = errors.New("User rejected the request.")

	_, err := client.Send(context.Background(), fightCall(), 21_000)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUserRejected)
	assert.Empty(t, backend.Sent())
}

func TestClient_SubmissionFailure(t *testing.T) {
	client, backend, _ := setupClient(t, time.Second)
	backend.SendErr = errors.New("nonce too low")

	_, err := client.Send(context.Background(), fightCall(), 21_000)
	assert.ErrorIs(t, err, domain.ErrSubmissionFailed)
}

func TestClient_Replaced(t *testing.T) {
	client, backend, wallet := setupClient(t, 60*time.Millisecond)

	tx, err := client.Send(context.Background(), fightCall(), 21_000)
	require.NoError(t, err)
	backend.SetMinedNonce(wallet.Address(), tx.Nonce()+1)

	var replaced atomic.Int32
	_, err = client.Wait(context.Background(), tx, func() { replaced.Add(1) })
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrReceiptTimeout)
	assert.ErrorIs(t, err, domain.ErrNetworkFailed)
	assert.NotErrorIs(t, err, domain.ErrReceiptFailed)
	assert.Equal(t, int32(1), replaced.Load())
}

// laggingBackend reports a pending nonce that ignores our own broadcasts, the
// way a load-balanced RPC endpoint can trail its mempool.
type laggingBackend struct {
	*testutil.FakeBackend
	pending atomic.Uint64
}

func (b *laggingBackend) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	return b.pending.Load(), nil
}

func TestClient_ConcurrentSendsUseDistinctNonces(t *testing.T) {
	client, backend, _ := setupClient(t, time.Second)

	const writers = 8
	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
		mu    sync.Mutex
		got   []uint64
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			tx, err := client.Send(context.Background(), fightCall(), 21_000)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			got = append(got, tx.Nonce())
			mu.Unlock()
		}()
	}
	close(start)
	wg.Wait()

	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	want := make([]uint64, writers)
	for i := range want {
		want[i] = uint64(i)
	}
	assert.Equal(t, want, got)
	assert.Len(t, backend.Sent(), writers)
}

func TestClient_NonceCursorAheadOfNode(t *testing.T) {
	wallet := testutil.NewFakeWallet()
	backend := &laggingBackend{FakeBackend: testutil.NewFakeBackend()}
	client := NewClient(backend, wallet, clock.New(), ClientOptions{}, zerolog.Nop())

	for want := uint64(0); want < 3; want++ {
		tx, err := client.Send(context.Background(), fightCall(), 21_000)
		require.NoError(t, err)
		assert.Equal(t, want, tx.Nonce())
	}

	// The node moving ahead (a tx sent from the same key elsewhere) wins.
	backend.pending.Store(7)
	tx, err := client.Send(context.Background(), fightCall(), 21_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), tx.Nonce())
}

func TestClient_NonceResyncAfterSendError(t *testing.T) {
	wallet := testutil.NewFakeWallet()
	backend := &laggingBackend{FakeBackend: testutil.NewFakeBackend()}
	client := NewClient(backend, wallet, clock.New(), ClientOptions{}, zerolog.Nop())

	for i := 0; i < 2; i++ {
		_, err := client.Send(context.Background(), fightCall(), 21_000)
		require.NoError(t, err)
	}

	backend.SendErr = errors.New("nonce too high")
	_, err := client.Send(context.Background(), fightCall(), 21_000)
	require.ErrorIs(t, err, domain.ErrSubmissionFailed)
	backend.SendErr = nil

	backend.pending.Store(1)
	tx, err := client.Send(context.Background(), fightCall(), 21_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), tx.Nonce())
}
