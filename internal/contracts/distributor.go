package contracts

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"gonadarena/internal/chain"
	"gonadarena/internal/domain"
)

type Distributor struct {
	*Contract
}

func NewDistributor(address common.Address, caller Caller) (*Distributor, error) {
	c, err := newContract(address, GonadDistributorABI, caller)
	if err != nil {
		return nil, fmt.Errorf("distributor: %w", err)
	}
	return &Distributor{Contract: c}, nil
}

// GetAirdropInfo combines getAirdropInfo with the per-account hasClaimedAirdrop flag.
func (d *Distributor) GetAirdropInfo(ctx context.Context, account common.Address) (domain.AirdropInfo, error) {
	claimedOut, err := d.read(ctx, account, "hasClaimedAirdrop", account)
	if err != nil {
		return domain.AirdropInfo{}, err
	}
	claimed, err := value[bool](claimedOut, 0)
	if err != nil {
		return domain.AirdropInfo{}, err
	}

	out, err := d.read(ctx, account, "getAirdropInfo")
	if err != nil {
		return domain.AirdropInfo{}, err
	}
	active, err := value[bool](out, 0)
	if err != nil {
		return domain.AirdropInfo{}, err
	}
	amount, err := value[*big.Int](out, 1)
	if err != nil {
		return domain.AirdropInfo{}, err
	}
	remaining, err := value[*big.Int](out, 2)
	if err != nil {
		return domain.AirdropInfo{}, err
	}

	return domain.AirdropInfo{
		Active:     active,
		Amount:     amount,
		Remaining:  remaining,
		HasClaimed: claimed,
	}, nil
}

// GetPresaleInfo combines getPresaleInfo with the per-account presaleClaims total.
func (d *Distributor) GetPresaleInfo(ctx context.Context, account common.Address) (domain.PresaleInfo, error) {
	claimsOut, err := d.read(ctx, account, "presaleClaims", account)
	if err != nil {
		return domain.PresaleInfo{}, err
	}
	userClaimed, err := value[*big.Int](claimsOut, 0)
	if err != nil {
		return domain.PresaleInfo{}, err
	}

	out, err := d.read(ctx, account, "getPresaleInfo")
	if err != nil {
		return domain.PresaleInfo{}, err
	}
	info := domain.PresaleInfo{UserClaimed: userClaimed}
	if info.Active, err = value[bool](out, 0); err != nil {
		return domain.PresaleInfo{}, err
	}
	if info.TotalClaimed, err = value[*big.Int](out, 1); err != nil {
		return domain.PresaleInfo{}, err
	}
	if info.Remaining, err = value[*big.Int](out, 2); err != nil {
		return domain.PresaleInfo{}, err
	}
	if info.UserRemaining, err = value[*big.Int](out, 4); err != nil {
		return domain.PresaleInfo{}, err
	}
	return info, nil
}

func (d *Distributor) ClaimAirdrop() (chain.Call, error) {
	return d.write("claimAirdrop", nil)
}

// ClaimPresale buys gonadAmount, paying monValue wei.
func (d *Distributor) ClaimPresale(gonadAmount, monValue *big.Int) (chain.Call, error) {
	return d.write("claimPresale", monValue, gonadAmount)
}
