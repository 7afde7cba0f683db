package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

type Rarity uint8

const (
	RarityCommon Rarity = iota
	RarityUncommon
	RarityRare
	RarityEpic
	RarityLegendary
)

func (r Rarity) String() string {
	switch r {
	case RarityCommon:
		return "COMMON"
	case RarityUncommon:
		return "UNCOMMON"
	case RarityRare:
		return "RARE"
	case RarityEpic:
		return "EPIC"
	case RarityLegendary:
		return "LEGENDARY"
	default:
		return "UNKNOWN"
	}
}

// BattleResult is a decoded BattleResult event together with its log envelope.
type BattleResult struct {
	Winner      common.Address `json:"winner"`
	Loser       common.Address `json:"loser"`
	Reward      *big.Int       `json:"reward"`
	Rarity      Rarity         `json:"rarity"`
	EpicMoment  string         `json:"epicMoment"`
	BattleID    *big.Int       `json:"battleId"`
	TxHash      common.Hash    `json:"txHash"`
	BlockNumber uint64         `json:"blockNumber"`
	LogIndex    uint           `json:"logIndex"`
}

// RecentBattle is one row of getRecentBattles, with display names resolved.
type RecentBattle struct {
	Winner     common.Address `json:"winner"`
	Loser      common.Address `json:"loser"`
	Timestamp  uint64         `json:"timestamp"`
	EpicMoment string         `json:"epicMoment"`
	Rarity     Rarity         `json:"rarity"`
	WinnerName string         `json:"winnerName"`
	LoserName  string         `json:"loserName"`
}
