package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// Wallet signs transactions on behalf of a single account. Implementations
// backed by an external signer report refusals with a "user rejected" error.
type Wallet interface {
	Address() common.Address
	SignTx(ctx context.Context, tx *types.Transaction) (*types.Transaction, error)
}

type KeyWallet struct {
	key     *ecdsa.PrivateKey
	address common.Address
	signer  types.Signer
}

func NewKeyWallet(hexKey string, chainID *big.Int) (*KeyWallet, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return NewKeyWalletFromKey(key, chainID), nil
}

func NewKeyWalletFromKey(key *ecdsa.PrivateKey, chainID *big.Int) *KeyWallet {
	return &KeyWallet{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
		signer:  types.LatestSignerForChainID(chainID),
	}
}

func (w *KeyWallet) Address() common.Address {
	return w.address
}

func (w *KeyWallet) SignTx(_ context.Context, tx *types.Transaction) (*types.Transaction, error) {
	return types.SignTx(tx, w.signer, w.key)
}
