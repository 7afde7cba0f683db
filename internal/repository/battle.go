package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"gonadarena/internal/domain"
)

type BattleRepository struct {
	db ExtHandle
}

func NewBattleRepository(db ExtHandle) *BattleRepository {
	return &BattleRepository{db: db}
}

// Insert archives a battle. It reports false when the log was already stored.
func (r *BattleRepository) Insert(b *domain.BattleRecord) (bool, error) {
	query := `
		INSERT INTO battles (battle_id, tx_hash, log_index, block_number, winner, loser, reward, rarity, epic_moment)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (tx_hash, log_index) DO NOTHING
		RETURNING id, created_at
	`

	err := r.db.QueryRow(query,
		b.BattleID, b.TxHash, b.LogIndex, b.BlockNumber,
		b.Winner, b.Loser, b.Reward, b.Rarity, b.EpicMoment,
	).Scan(&b.ID, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("insert battle %s/%d: %w", b.TxHash, b.LogIndex, err)
	}
	return true, nil
}

// ListByAddress returns battles the address fought in, newest first.
func (r *BattleRepository) ListByAddress(address string, limit int) ([]domain.BattleRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, created_at, battle_id::text AS battle_id, tx_hash, log_index, block_number,
		       winner, loser, reward::text AS reward, rarity, epic_moment
		FROM battles
		WHERE winner = $1 OR loser = $1
		ORDER BY block_number DESC, log_index DESC
		LIMIT $2
	`

	battles := []domain.BattleRecord{}
	if err := r.db.Select(&battles, query, address, limit); err != nil {
		return nil, fmt.Errorf("list battles for %s: %w", address, err)
	}
	return battles, nil
}

// LatestBlock returns the highest archived block, or 0 for an empty archive.
func (r *BattleRepository) LatestBlock() (uint64, error) {
	var block int64
	if err := r.db.Get(&block, `SELECT COALESCE(MAX(block_number), 0) FROM battles`); err != nil {
		return 0, fmt.Errorf("latest battle block: %w", err)
	}
	return uint64(block), nil
}
