package testutil

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// GladiatorRow mirrors the getGladiator tuple for packing fake responses.
type GladiatorRow struct {
	Name         string
	Strength     *big.Int
	Agility      *big.Int
	Vitality     *big.Int
	Intelligence *big.Int
	Defense      *big.Int
	Experience   *big.Int
	Level        *big.Int
	Wins         *big.Int
	Losses       *big.Int
	LastFight    *big.Int
	BattleCry    string
	WinStreak    *big.Int
}

func NewGladiatorRow(name string, level, wins, losses, streak int64) GladiatorRow {
	return GladiatorRow{
		Name:         name,
		Strength:     big.NewInt(10),
		Agility:      big.NewInt(10),
		Vitality:     big.NewInt(10),
		Intelligence: big.NewInt(10),
		Defense:      big.NewInt(10),
		Experience:   big.NewInt(0),
		Level:        big.NewInt(level),
		Wins:         big.NewInt(wins),
		Losses:       big.NewInt(losses),
		LastFight:    big.NewInt(0),
		BattleCry:    "for glory",
		WinStreak:    big.NewInt(streak),
	}
}

type BattleLogRow struct {
	Winner     common.Address
	Loser      common.Address
	Timestamp  *big.Int
	EpicMoment string
	Rarity     uint8
}

type FlexStatusRow struct {
	DailyFlexes *big.Int
	MemeCount   *big.Int
}
