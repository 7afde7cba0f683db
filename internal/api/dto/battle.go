package dto

import (
	"gonadarena/internal/domain"
)

type RecentBattle struct {
	Winner     string `json:"winner"`
	Loser      string `json:"loser"`
	WinnerName string `json:"winnerName"`
	LoserName  string `json:"loserName"`
	Timestamp  uint64 `json:"timestamp"`
	EpicMoment string `json:"epicMoment"`
	Rarity     uint8  `json:"rarity"`
	RarityName string `json:"rarityName"`
}

func NewRecentBattles(battles []domain.RecentBattle) []RecentBattle {
	out := make([]RecentBattle, 0, len(battles))
	for _, b := range battles {
		out = append(out, RecentBattle{
			Winner:     b.Winner.Hex(),
			Loser:      b.Loser.Hex(),
			WinnerName: b.WinnerName,
			LoserName:  b.LoserName,
			Timestamp:  b.Timestamp,
			EpicMoment: b.EpicMoment,
			Rarity:     uint8(b.Rarity),
			RarityName: b.Rarity.String(),
		})
	}
	return out
}

type BattleRecord struct {
	domain.BattleRecord
	RarityName string `json:"rarityName"`
}

func NewBattleRecords(records []domain.BattleRecord) []BattleRecord {
	out := make([]BattleRecord, 0, len(records))
	for _, r := range records {
		out = append(out, BattleRecord{BattleRecord: r, RarityName: domain.Rarity(r.Rarity).String()})
	}
	return out
}
