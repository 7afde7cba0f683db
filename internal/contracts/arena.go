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

const EventBattleResult = "BattleResult"

type Arena struct {
	*Contract
}

func NewArena(address common.Address, caller Caller) (*Arena, error) {
	c, err := newContract(address, GladiatorArenaABI, caller)
	if err != nil {
		return nil, fmt.Errorf("arena: %w", err)
	}
	return &Arena{Contract: c}, nil
}

type gladiatorTuple struct {
	Name         string   `json:"name"`
	Strength     *big.Int `json:"strength"`
	Agility      *big.Int `json:"agility"`
	Vitality     *big.Int `json:"vitality"`
	Intelligence *big.Int `json:"intelligence"`
	Defense      *big.Int `json:"defense"`
	Experience   *big.Int `json:"experience"`
	Level        *big.Int `json:"level"`
	Wins         *big.Int `json:"wins"`
	Losses       *big.Int `json:"losses"`
	LastFight    *big.Int `json:"lastFight"`
	BattleCry    string   `json:"battleCry"`
	WinStreak    *big.Int `json:"winStreak"`
}

type battleLogTuple struct {
	Winner     common.Address `json:"winner"`
	Loser      common.Address `json:"loser"`
	Timestamp  *big.Int       `json:"timestamp"`
	EpicMoment string         `json:"epicMoment"`
	Rarity     uint8          `json:"rarity"`
}

type battleResultEvent struct {
	Winner     common.Address
	Loser      common.Address
	EpicMoment string
	Reward     *big.Int
	BattleID   *big.Int `abi:"battleId"`
	Rarity     uint8
}

func (a *Arena) GetGladiator(ctx context.Context, owner common.Address) (domain.Gladiator, error) {
	out, err := a.read(ctx, common.Address{}, "getGladiator", owner)
	if err != nil {
		return domain.Gladiator{}, err
	}
	if len(out) == 0 {
		return domain.Gladiator{}, domain.NewTxError(domain.KindDecode, fmt.Errorf("getGladiator: empty output"))
	}
	t := *abi.ConvertType(out[0], new(gladiatorTuple)).(*gladiatorTuple)
	return domain.Gladiator{
		Name:         t.Name,
		Strength:     u64(t.Strength),
		Agility:      u64(t.Agility),
		Vitality:     u64(t.Vitality),
		Intelligence: u64(t.Intelligence),
		Defense:      u64(t.Defense),
		Experience:   u64(t.Experience),
		Level:        u64(t.Level),
		Wins:         u64(t.Wins),
		Losses:       u64(t.Losses),
		LastFight:    u64(t.LastFight),
		BattleCry:    t.BattleCry,
		WinStreak:    u64(t.WinStreak),
	}, nil
}

func (a *Arena) IsGladiator(ctx context.Context, owner common.Address) (bool, error) {
	out, err := a.read(ctx, common.Address{}, "isGladiator", owner)
	if err != nil {
		return false, err
	}
	return value[bool](out, 0)
}

func (a *Arena) TotalEarnings(ctx context.Context, owner common.Address) (*big.Int, error) {
	out, err := a.read(ctx, common.Address{}, "totalEarnings", owner)
	if err != nil {
		return nil, err
	}
	return value[*big.Int](out, 0)
}

func (a *Arena) GetEarnings(ctx context.Context, owner common.Address) (*big.Int, error) {
	out, err := a.read(ctx, common.Address{}, "getEarnings", owner)
	if err != nil {
		return nil, err
	}
	return value[*big.Int](out, 0)
}

func (a *Arena) GetRecentBattles(ctx context.Context) ([]domain.RecentBattle, error) {
	out, err := a.read(ctx, common.Address{}, "getRecentBattles")
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	rows := *abi.ConvertType(out[0], new([]battleLogTuple)).(*[]battleLogTuple)

	battles := make([]domain.RecentBattle, 0, len(rows))
	for _, r := range rows {
		battles = append(battles, domain.RecentBattle{
			Winner:     r.Winner,
			Loser:      r.Loser,
			Timestamp:  u64(r.Timestamp),
			EpicMoment: r.EpicMoment,
			Rarity:     domain.Rarity(r.Rarity),
		})
	}
	return battles, nil
}

func (a *Arena) CreateGladiator(name, battleCry string) (chain.Call, error) {
	return a.write("createGladiator", nil, name, battleCry)
}

func (a *Arena) KillGladiator() (chain.Call, error) {
	return a.write("killGladiator", nil)
}

func (a *Arena) Fight(opponent common.Address) (chain.Call, error) {
	return a.write("fight", nil, opponent)
}

func (a *Arena) BattleResultTopic() common.Hash {
	return a.EventID(EventBattleResult)
}

// ParseBattleResult decodes a BattleResult log and copies its envelope.
func (a *Arena) ParseBattleResult(log types.Log) (domain.BattleResult, error) {
	var ev battleResultEvent
	if err := a.UnpackLog(&ev, EventBattleResult, log); err != nil {
		return domain.BattleResult{}, err
	}
	return domain.BattleResult{
		Winner:      ev.Winner,
		Loser:       ev.Loser,
		Reward:      ev.Reward,
		Rarity:      domain.Rarity(ev.Rarity),
		EpicMoment:  ev.EpicMoment,
		BattleID:    ev.BattleID,
		TxHash:      log.TxHash,
		BlockNumber: log.BlockNumber,
		LogIndex:    log.Index,
	}, nil
}

// FindBattleResult scans receipt logs for a BattleResult emitted by this arena.
func (a *Arena) FindBattleResult(logs []*types.Log) (domain.BattleResult, bool) {
	topic := a.BattleResultTopic()
	for _, l := range logs {
		if l == nil || l.Address != a.Address || len(l.Topics) == 0 || l.Topics[0] != topic {
			continue
		}
		result, err := a.ParseBattleResult(*l)
		if err != nil {
			continue
		}
		return result, true
	}
	return domain.BattleResult{}, false
}
