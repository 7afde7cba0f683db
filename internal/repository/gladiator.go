package repository

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"gonadarena/internal/domain"
)

// GladiatorRepository is the roster of addresses seen fighting or forging.
type GladiatorRepository struct {
	db ExtHandle
}

func NewGladiatorRepository(db ExtHandle) *GladiatorRepository {
	return &GladiatorRepository{db: db}
}

func (r *GladiatorRepository) Touch(addresses ...common.Address) error {
	query := `
		INSERT INTO gladiators (address)
		VALUES ($1)
		ON CONFLICT (address) DO UPDATE SET last_seen = CURRENT_TIMESTAMP
	`
	for _, addr := range addresses {
		if addr == (common.Address{}) {
			continue
		}
		if _, err := r.db.Exec(query, addr.Hex()); err != nil {
			return fmt.Errorf("touch gladiator %s: %w", addr.Hex(), err)
		}
	}
	return nil
}

func (r *GladiatorRepository) List() ([]domain.RosterEntry, error) {
	query := `
		SELECT address, first_seen, last_seen
		FROM gladiators
		ORDER BY first_seen, address
	`
	entries := []domain.RosterEntry{}
	if err := r.db.Select(&entries, query); err != nil {
		return nil, fmt.Errorf("list gladiators: %w", err)
	}
	return entries, nil
}

func (r *GladiatorRepository) Addresses() ([]common.Address, error) {
	entries, err := r.List()
	if err != nil {
		return nil, err
	}
	out := make([]common.Address, 0, len(entries))
	for _, e := range entries {
		out = append(out, common.HexToAddress(e.Address))
	}
	return out, nil
}

func (r *GladiatorRepository) Remove(addr common.Address) error {
	if _, err := r.db.Exec(`DELETE FROM gladiators WHERE address = $1`, addr.Hex()); err != nil {
		return fmt.Errorf("remove gladiator %s: %w", addr.Hex(), err)
	}
	return nil
}
