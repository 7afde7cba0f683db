package contracts

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"gonadarena/internal/chain"
	"gonadarena/internal/domain"
)

const (
	EventMemePosted = "MemePosted"
	EventGigaChad   = "GigaChad"
)

type Token struct {
	*Contract
}

func NewToken(address common.Address, caller Caller) (*Token, error) {
	c, err := newContract(address, GonadTokenABI, caller)
	if err != nil {
		return nil, fmt.Errorf("token: %w", err)
	}
	return &Token{Contract: c}, nil
}

type flexStatusTuple struct {
	DailyFlexes *big.Int `json:"dailyFlexes"`
	MemeCount   *big.Int `json:"memeCount"`
}

type memePostedEvent struct {
	Sender common.Address
	Meme   string
}

type gigaChadEvent struct {
	Chad  common.Address
	Power *big.Int
}

func (t *Token) BalanceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	out, err := t.read(ctx, common.Address{}, "balanceOf", account)
	if err != nil {
		return nil, err
	}
	return value[*big.Int](out, 0)
}

func (t *Token) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	out, err := t.read(ctx, common.Address{}, "allowance", owner, spender)
	if err != nil {
		return nil, err
	}
	return value[*big.Int](out, 0)
}

func (t *Token) GetFlexStatus(ctx context.Context, account common.Address) (domain.FlexStatus, error) {
	out, err := t.read(ctx, account, "getFlexStatus", account)
	if err != nil {
		return domain.FlexStatus{}, err
	}
	if len(out) == 0 {
		return domain.FlexStatus{}, domain.NewTxError(domain.KindDecode, fmt.Errorf("getFlexStatus: empty output"))
	}
	s := *abi.ConvertType(out[0], new(flexStatusTuple)).(*flexStatusTuple)
	return domain.FlexStatus{DailyFlexes: u64(s.DailyFlexes), MemeCount: u64(s.MemeCount)}, nil
}

func (t *Token) Approve(spender common.Address, amount *big.Int) (chain.Call, error) {
	return t.write("approve", nil, spender, amount)
}

func (t *Token) FlexOnThem() (chain.Call, error) {
	return t.write("flexOnThem", nil)
}

func (t *Token) PostMeme(meme string) (chain.Call, error) {
	return t.write("postMeme", nil, meme)
}

func (t *Token) SocialTopics() []common.Hash {
	return []common.Hash{t.EventID(EventMemePosted), t.EventID(EventGigaChad)}
}

// ParseSocialEvent turns a MemePosted or GigaChad log into a feed entry keyed by
// its transaction hash. The timestamp is left for the caller to stamp.
func (t *Token) ParseSocialEvent(log types.Log) (domain.SocialEvent, error) {
	if len(log.Topics) == 0 {
		return domain.SocialEvent{}, domain.NewTxError(domain.KindDecode, fmt.Errorf("log has no topics"))
	}

	switch log.Topics[0] {
	case t.EventID(EventMemePosted):
		var ev memePostedEvent
		if err := t.UnpackLog(&ev, EventMemePosted, log); err != nil {
			return domain.SocialEvent{}, err
		}
		return domain.SocialEvent{
			ID:      log.TxHash.Hex(),
			Type:    domain.SocialEventMeme,
			Sender:  ev.Sender.Hex(),
			Content: ev.Meme,
		}, nil
	case t.EventID(EventGigaChad):
		var ev gigaChadEvent
		if err := t.UnpackLog(&ev, EventGigaChad, log); err != nil {
			return domain.SocialEvent{}, err
		}
		return domain.SocialEvent{
			ID:       log.TxHash.Hex(),
			Type:     domain.SocialEventFlex,
			Sender:   ev.Chad.Hex(),
			Content:  fmt.Sprintf("Flexed with power %s", ev.Power.String()),
			Metadata: map[string]interface{}{"power": ev.Power.String()},
		}, nil
	default:
		return domain.SocialEvent{}, domain.NewTxError(domain.KindDecode, fmt.Errorf("unknown event topic %s", log.Topics[0].Hex()))
	}
}
