package domain

import (
	"time"

	"github.com/google/uuid"
)

type Model struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// BattleRecord is an archived BattleResult row.
type BattleRecord struct {
	Model
	BattleID    string `db:"battle_id" json:"battleId"`
	TxHash      string `db:"tx_hash" json:"txHash"`
	LogIndex    int64  `db:"log_index" json:"logIndex"`
	BlockNumber int64  `db:"block_number" json:"blockNumber"`
	Winner      string `db:"winner" json:"winner"`
	Loser       string `db:"loser" json:"loser"`
	Reward      string `db:"reward" json:"reward"`
	Rarity      int16  `db:"rarity" json:"rarity"`
	EpicMoment  string `db:"epic_moment" json:"epicMoment"`
}

func NewBattleRecord(r BattleResult) BattleRecord {
	rec := BattleRecord{
		BattleID:    "0",
		TxHash:      r.TxHash.Hex(),
		LogIndex:    int64(r.LogIndex),
		BlockNumber: int64(r.BlockNumber),
		Winner:      r.Winner.Hex(),
		Loser:       r.Loser.Hex(),
		Reward:      "0",
		Rarity:      int16(r.Rarity),
		EpicMoment:  r.EpicMoment,
	}
	if r.BattleID != nil {
		rec.BattleID = r.BattleID.String()
	}
	if r.Reward != nil {
		rec.Reward = r.Reward.String()
	}
	return rec
}

// RosterEntry is an address known to have held a gladiator.
type RosterEntry struct {
	Address   string    `db:"address" json:"address"`
	FirstSeen time.Time `db:"first_seen" json:"firstSeen"`
	LastSeen  time.Time `db:"last_seen" json:"lastSeen"`
}
