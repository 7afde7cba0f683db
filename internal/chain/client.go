package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog"

	"gonadarena/internal/domain"
)

type ClientOptions struct {
	PollInterval time.Duration
	Timeout      time.Duration
}

// Client simulates, signs, submits and waits for contract writes.
type Client struct {
	backend Backend
	wallet  Wallet
	clock   clock.Clock
	opts    ClientOptions
	log     zerolog.Logger

	// nonceMu is held from nonce selection until the signed tx is broadcast.
	nonceMu   sync.Mutex
	nextNonce uint64
	nonceSet  bool
}

func NewClient(backend Backend, wallet Wallet, clk clock.Clock, opts ClientOptions, log zerolog.Logger) *Client {
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Second
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Minute
	}
	return &Client{
		backend: backend,
		wallet:  wallet,
		clock:   clk,
		opts:    opts,
		log:     log.With().Str("component", "chain").Logger(),
	}
}

func (c *Client) Backend() Backend {
	return c.backend
}

func (c *Client) Wallet() Wallet {
	return c.wallet
}

func (c *Client) callMsg(call Call) ethereum.CallMsg {
	to := call.To
	return ethereum.CallMsg{
		From:  c.wallet.Address(),
		To:    &to,
		Data:  call.Data,
		Value: call.Value,
	}
}

// Simulate dry-runs the call from the wallet address and returns a gas limit.
// Any failure is a simulation failure carrying the node message verbatim.
func (c *Client) Simulate(ctx context.Context, call Call) (uint64, error) {
	if c.wallet == nil {
		return 0, domain.ErrWalletNotConfigured
	}
	msg := c.callMsg(call)

	if _, err := c.backend.CallContract(ctx, msg, nil); err != nil {
		return 0, domain.NewTxError(domain.KindSimulation, err)
	}
	gas, err := c.backend.EstimateGas(ctx, msg)
	if err != nil {
		return 0, domain.NewTxError(domain.KindSimulation, err)
	}
	return gas + gas/5, nil
}

// Send builds, signs and broadcasts the call. Sends are serialized so
// concurrent writes from the wallet get consecutive nonces.
func (c *Client) Send(ctx context.Context, call Call, gas uint64) (*types.Transaction, error) {
	if c.wallet == nil {
		return nil, domain.ErrWalletNotConfigured
	}

	c.nonceMu.Lock()
	defer c.nonceMu.Unlock()

	nonce, err := c.nonce(ctx)
	if err != nil {
		return nil, domain.NewTxError(domain.KindSubmission, fmt.Errorf("pending nonce: %w", err))
	}
	gasPrice, err := c.backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, domain.NewTxError(domain.KindSubmission, fmt.Errorf("gas price: %w", err))
	}

	value := call.Value
	if value == nil {
		value = new(big.Int)
	}
	to := call.To
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gas,
		To:       &to,
		Value:    value,
		Data:     call.Data,
	})

	signed, err := c.wallet.SignTx(ctx, tx)
	if err != nil {
		return nil, classifySign(err)
	}

	if err := c.backend.SendTransaction(ctx, signed); err != nil {
		// The node may have dropped earlier txs; ask it again next time.
		c.nonceSet = false
		return nil, domain.NewTxError(domain.KindSubmission, err)
	}
	c.nextNonce = nonce + 1
	c.nonceSet = true

	c.log.Info().
		Str("method", call.Method).
		Str("hash", signed.Hash().Hex()).
		Uint64("nonce", nonce).
		Msg("transaction submitted")
	return signed, nil
}

// nonce returns the next nonce for the wallet: the node's pending nonce, or
// the local cursor when the node has not caught up with our own sends yet.
// Callers hold nonceMu.
func (c *Client) nonce(ctx context.Context) (uint64, error) {
	pending, err := c.backend.PendingNonceAt(ctx, c.wallet.Address())
	if err != nil {
		return 0, err
	}
	if c.nonceSet && c.nextNonce > pending {
		return c.nextNonce, nil
	}
	return pending, nil
}

// Wait polls for the receipt of tx. If the sender nonce moves past tx while
// no receipt exists for its hash, onReplaced is invoked once and polling goes on
// until the timeout. A timeout is a network failure wrapping
// domain.ErrReceiptTimeout, distinct from a revert.
func (c *Client) Wait(ctx context.Context, tx *types.Transaction, onReplaced func()) (*types.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	ticker := c.clock.Ticker(c.opts.PollInterval)
	defer ticker.Stop()

	hash := tx.Hash()
	replaced := false

	for {
		receipt, err := c.backend.TransactionReceipt(ctx, hash)
		switch {
		case err == nil && receipt != nil:
			if receipt.Status == types.ReceiptStatusSuccessful {
				return receipt, nil
			}
			return receipt, domain.NewTxError(domain.KindReceipt, fmt.Errorf("transaction %s reverted", hash.Hex()))
		case err != nil && !errors.Is(err, ethereum.NotFound):
			c.log.Debug().Err(err).Str("hash", hash.Hex()).Msg("receipt lookup failed")
		}

		if !replaced && c.wallet != nil {
			nonce, err := c.backend.NonceAt(ctx, c.wallet.Address(), nil)
			if err == nil && nonce > tx.Nonce() {
				receipt, err := c.backend.TransactionReceipt(ctx, hash)
				if err == nil && receipt != nil {
					continue
				}
				replaced = true
				c.log.Warn().Str("hash", hash.Hex()).Msg("transaction replaced")
				if onReplaced != nil {
					onReplaced()
				}
			}
		}

		select {
		case <-ctx.Done():
			return nil, domain.NewTxError(domain.KindNetwork, fmt.Errorf("%w: %s: %w", domain.ErrReceiptTimeout, hash.Hex(), ctx.Err()))
		case <-ticker.C:
		}
	}
}
