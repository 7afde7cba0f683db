package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
)

var (
	PresaleRate         = big.NewInt(10)
	PresaleMinPerTx     = Tokens(1)
	PresaleMaxPerTx     = Tokens(100)
	PresaleMaxPerWallet = Tokens(1000)

	KillCost     = Tokens(5)
	MaxAllowance = new(big.Int).Set(math.MaxBig256)
)

// PresaleAmount converts MON wei into the GONAD wei it buys and checks the per-tx bounds.
func PresaleAmount(monWei *big.Int) (*big.Int, error) {
	if monWei == nil || monWei.Sign() <= 0 {
		return nil, ErrPresaleBelowMin
	}
	gonad := new(big.Int).Mul(monWei, PresaleRate)
	if gonad.Cmp(PresaleMaxPerTx) > 0 {
		return nil, ErrPresaleAboveMax
	}
	if gonad.Cmp(PresaleMinPerTx) < 0 {
		return nil, ErrPresaleBelowMin
	}
	return gonad, nil
}

func CheckPresaleWalletLimit(claimed, gonad *big.Int) error {
	total := new(big.Int).Add(gonad, claimed)
	if total.Cmp(PresaleMaxPerWallet) > 0 {
		return ErrPresaleWalletLimit
	}
	return nil
}

func NeedsApproval(allowance *big.Int) bool {
	return allowance == nil || allowance.Cmp(KillCost) < 0
}
