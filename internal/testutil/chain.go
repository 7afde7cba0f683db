package testutil

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

var TestChainID = big.NewInt(10143)

// CallHandler answers an eth_call for one contract method with ABI-level values.
type CallHandler func(from common.Address, args []interface{}) ([]interface{}, error)

// FakeBackend is an in-memory JSON-RPC endpoint. Contract reads are dispatched
// to handlers by ABI method; sent transactions stay pending until mined.
type FakeBackend struct {
	mu sync.Mutex

	abis     map[common.Address]abi.ABI
	handlers map[common.Address]map[string]CallHandler
	calls    map[string]int

	callErrors []error
	SendErr    error
	// OnSend is invoked for every broadcast transaction; a non-nil receipt mines it immediately.
	OnSend func(tx *types.Transaction) *types.Receipt

	pendingNonces map[common.Address]uint64
	minedNonces   map[common.Address]uint64
	sent          []*types.Transaction
	receipts      map[common.Hash]*types.Receipt

	head         uint64
	logs         []types.Log
	subs         []*fakeSub
	SubscribeErr error
}

func NewFakeBackend() *FakeBackend {
	return &FakeBackend{
		abis:          make(map[common.Address]abi.ABI),
		handlers:      make(map[common.Address]map[string]CallHandler),
		calls:         make(map[string]int),
		pendingNonces: make(map[common.Address]uint64),
		minedNonces:   make(map[common.Address]uint64),
		receipts:      make(map[common.Hash]*types.Receipt),
		head:          100,
	}
}

func (b *FakeBackend) Register(address common.Address, abiJSON string) {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		panic(fmt.Sprintf("testutil: parse abi: %v", err))
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.abis[address] = parsed
	if b.handlers[address] == nil {
		b.handlers[address] = make(map[string]CallHandler)
	}
}

func (b *FakeBackend) Handle(address common.Address, method string, h CallHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handlers[address] == nil {
		b.handlers[address] = make(map[string]CallHandler)
	}
	b.handlers[address][method] = h
}

// Returns makes method always answer with the given values.
func (b *FakeBackend) Returns(address common.Address, method string, out ...interface{}) {
	b.Handle(address, method, func(common.Address, []interface{}) ([]interface{}, error) {
		return out, nil
	})
}

// QueueCallError makes the next eth_call fail with err.
func (b *FakeBackend) QueueCallError(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.callErrors = append(b.callErrors, err)
}

func (b *FakeBackend) CallCount(method string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[method]
}

func (b *FakeBackend) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	b.mu.Lock()
	if len(b.callErrors) > 0 {
		err := b.callErrors[0]
		b.callErrors = b.callErrors[1:]
		b.mu.Unlock()
		return nil, err
	}
	if msg.To == nil || len(msg.Data) < 4 {
		b.mu.Unlock()
		return nil, fmt.Errorf("invalid call")
	}
	parsed, ok := b.abis[*msg.To]
	if !ok {
		b.mu.Unlock()
		return nil, fmt.Errorf("no contract at %s", msg.To.Hex())
	}
	method, err := parsed.MethodById(msg.Data[:4])
	if err != nil {
		b.mu.Unlock()
		return nil, err
	}
	b.calls[method.Name]++
	h := b.handlers[*msg.To][method.Name]
	b.mu.Unlock()

	args, err := method.Inputs.Unpack(msg.Data[4:])
	if err != nil {
		return nil, err
	}
	if h == nil {
		if len(method.Outputs) == 0 {
			return nil, nil
		}
		return nil, fmt.Errorf("no handler for %s", method.Name)
	}
	out, err := h(msg.From, args)
	if err != nil {
		return nil, err
	}
	return method.Outputs.Pack(out...)
}

func (b *FakeBackend) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	return 100_000, nil
}

func (b *FakeBackend) PendingNonceAt(_ context.Context, account common.Address) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pendingNonces[account], nil
}

func (b *FakeBackend) NonceAt(_ context.Context, account common.Address, _ *big.Int) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.minedNonces[account], nil
}

// SetMinedNonce simulates another transaction from account being mined.
func (b *FakeBackend) SetMinedNonce(account common.Address, nonce uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.minedNonces[account] = nonce
}

func (b *FakeBackend) SuggestGasPrice(context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000_000), nil
}

func (b *FakeBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	if b.SendErr != nil {
		return b.SendErr
	}
	from, err := types.Sender(types.LatestSignerForChainID(TestChainID), tx)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.sent = append(b.sent, tx)
	b.pendingNonces[from] = tx.Nonce() + 1
	onSend := b.OnSend
	b.mu.Unlock()

	if onSend != nil {
		if receipt := onSend(tx); receipt != nil {
			b.store(from, tx, receipt)
		}
	}
	return nil
}

// Mine stores a receipt for hash with the given status and logs.
func (b *FakeBackend) Mine(tx *types.Transaction, status uint64, logs ...*types.Log) *types.Receipt {
	from, _ := types.Sender(types.LatestSignerForChainID(TestChainID), tx)
	receipt := &types.Receipt{Status: status, Logs: logs}
	b.store(from, tx, receipt)
	return receipt
}

func (b *FakeBackend) store(from common.Address, tx *types.Transaction, receipt *types.Receipt) {
	b.mu.Lock()
	b.head++
	receipt.TxHash = tx.Hash()
	receipt.BlockNumber = new(big.Int).SetUint64(b.head)
	for _, l := range receipt.Logs {
		l.TxHash = tx.Hash()
		l.BlockNumber = b.head
	}
	b.receipts[tx.Hash()] = receipt
	if b.minedNonces[from] <= tx.Nonce() {
		b.minedNonces[from] = tx.Nonce() + 1
	}
	b.mu.Unlock()

	for _, l := range receipt.Logs {
		b.publish(*l)
	}
}

func (b *FakeBackend) Sent() []*types.Transaction {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*types.Transaction(nil), b.sent...)
}

func (b *FakeBackend) TransactionReceipt(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if r, ok := b.receipts[hash]; ok {
		return r, nil
	}
	return nil, ethereum.NotFound
}

func (b *FakeBackend) BlockNumber(context.Context) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.head, nil
}

// EmitLog records l in a new block and pushes it to subscribers.
func (b *FakeBackend) EmitLog(l types.Log) {
	b.mu.Lock()
	b.head++
	l.BlockNumber = b.head
	b.mu.Unlock()
	b.publish(l)
}

func (b *FakeBackend) publish(l types.Log) {
	b.mu.Lock()
	b.logs = append(b.logs, l)
	subs := append([]*fakeSub(nil), b.subs...)
	b.mu.Unlock()

	for _, s := range subs {
		if matches(s.query, l) {
			s.deliver(l)
		}
	}
}

func (b *FakeBackend) FilterLogs(_ context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []types.Log
	for _, l := range b.logs {
		if q.FromBlock != nil && l.BlockNumber < q.FromBlock.Uint64() {
			continue
		}
		if q.ToBlock != nil && l.BlockNumber > q.ToBlock.Uint64() {
			continue
		}
		if matches(q, l) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (b *FakeBackend) SubscribeFilterLogs(_ context.Context, q ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error) {
	if b.SubscribeErr != nil {
		return nil, b.SubscribeErr
	}
	s := &fakeSub{query: q, ch: ch, errc: make(chan error, 1), quit: make(chan struct{})}
	b.mu.Lock()
	b.subs = append(b.subs, s)
	b.mu.Unlock()
	return s, nil
}

// DropSubscriptions fails every live subscription with err, as a node
// restart would.
func (b *FakeBackend) DropSubscriptions(err error) {
	b.mu.Lock()
	subs := b.subs
	b.subs = nil
	b.mu.Unlock()

	for _, s := range subs {
		select {
		case s.errc <- err:
		default:
		}
	}
}

func (b *FakeBackend) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func matches(q ethereum.FilterQuery, l types.Log) bool {
	if len(q.Addresses) > 0 {
		found := false
		for _, a := range q.Addresses {
			if a == l.Address {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(q.Topics) > 0 && len(q.Topics[0]) > 0 {
		if len(l.Topics) == 0 {
			return false
		}
		found := false
		for _, t := range q.Topics[0] {
			if t == l.Topics[0] {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

type fakeSub struct {
	query ethereum.FilterQuery
	ch    chan<- types.Log
	errc  chan error
	quit  chan struct{}
	once  sync.Once
}

func (s *fakeSub) deliver(l types.Log) {
	select {
	case s.ch <- l:
	case <-s.quit:
	}
}

func (s *fakeSub) Unsubscribe() {
	s.once.Do(func() { close(s.quit) })
}

func (s *fakeSub) Err() <-chan error {
	return s.errc
}

// FakeWallet signs with a throwaway key, or fails with Err when set.
type FakeWallet struct {
	key    *ecdsa.PrivateKey
	signer types.Signer
	Err    error

	mu     sync.Mutex
	signed int
}

func NewFakeWallet() *FakeWallet {
	key, err := crypto.GenerateKey()
	if err != nil {
		panic(err)
	}
	return &FakeWallet{key: key, signer: types.LatestSignerForChainID(TestChainID)}
}

func (w *FakeWallet) Address() common.Address {
	return crypto.PubkeyToAddress(w.key.PublicKey)
}

func (w *FakeWallet) SignTx(_ context.Context, tx *types.Transaction) (*types.Transaction, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.Err != nil {
		return nil, w.Err
	}
	w.signed++
	return types.SignTx(tx, w.signer, w.key)
}

func (w *FakeWallet) Signed() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.signed
}

// AddressTopic encodes an indexed address parameter.
func AddressTopic(addr common.Address) common.Hash {
	return common.BytesToHash(addr.Bytes())
}

// EventLog builds a log for event as emitted by address. Indexed parameters are
// passed as topics, the rest as ABI values in declaration order.
func EventLog(address common.Address, abiJSON, event string, topics []common.Hash, data ...interface{}) types.Log {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		panic(fmt.Sprintf("testutil: parse abi: %v", err))
	}
	ev, ok := parsed.Events[event]
	if !ok {
		panic(fmt.Sprintf("testutil: unknown event %s", event))
	}
	packed, err := ev.Inputs.NonIndexed().Pack(data...)
	if err != nil {
		panic(fmt.Sprintf("testutil: pack %s: %v", event, err))
	}
	return types.Log{
		Address: address,
		Topics:  append([]common.Hash{ev.ID}, topics...),
		Data:    packed,
	}
}
