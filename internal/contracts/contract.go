package contracts

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"gonadarena/internal/chain"
	"gonadarena/internal/domain"
)

// Caller is the read side of an RPC endpoint.
type Caller interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Contract binds a parsed ABI to an address. Reads go through the caller;
// writes are returned as chain.Call values for the transaction tracker.
type Contract struct {
	Address common.Address
	abi     abi.ABI
	bound   *bind.BoundContract
	caller  Caller
}

func newContract(address common.Address, abiJSON string, caller Caller) (*Contract, error) {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return nil, fmt.Errorf("parse abi: %w", err)
	}
	return &Contract{
		Address: address,
		abi:     parsed,
		bound:   bind.NewBoundContract(address, parsed, nil, nil, nil),
		caller:  caller,
	}, nil
}

func (c *Contract) ABI() abi.ABI {
	return c.abi
}

func (c *Contract) read(ctx context.Context, from common.Address, method string, args ...interface{}) ([]interface{}, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	out, err := c.caller.CallContract(ctx, ethereum.CallMsg{From: from, To: &c.Address, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, chain.ClassifyRead(err))
	}

	values, err := c.abi.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, domain.NewTxError(domain.KindDecode, err))
	}
	return values, nil
}

func (c *Contract) write(method string, value *big.Int, args ...interface{}) (chain.Call, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return chain.Call{}, fmt.Errorf("pack %s: %w", method, err)
	}
	return chain.Call{To: c.Address, Data: data, Value: value, Method: method}, nil
}

func (c *Contract) EventID(name string) common.Hash {
	return c.abi.Events[name].ID
}

func (c *Contract) UnpackLog(out interface{}, event string, log types.Log) error {
	if err := c.bound.UnpackLog(out, event, log); err != nil {
		return domain.NewTxError(domain.KindDecode, fmt.Errorf("unpack %s log: %w", event, err))
	}
	return nil
}

func value[T any](out []interface{}, i int) (T, error) {
	var zero T
	if i >= len(out) {
		return zero, domain.NewTxError(domain.KindDecode, fmt.Errorf("missing output %d", i))
	}
	v, ok := out[i].(T)
	if !ok {
		return zero, domain.NewTxError(domain.KindDecode, fmt.Errorf("output %d has type %T, want %T", i, out[i], zero))
	}
	return v, nil
}

func u64(b *big.Int) uint64 {
	if b == nil || !b.IsUint64() {
		return 0
	}
	return b.Uint64()
}
