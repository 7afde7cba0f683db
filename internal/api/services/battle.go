package services

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"gonadarena/internal/cache"
	"gonadarena/internal/chain"
	"gonadarena/internal/contracts"
	"gonadarena/internal/domain"
)

const (
	recentBattlesKey   = "recent"
	defaultHistorySize = 50
)

type BattleArchive interface {
	ListByAddress(address string, limit int) ([]domain.BattleRecord, error)
}

type BattleService struct {
	arena      *contracts.Arena
	archive    BattleArchive
	gladiators *GladiatorService
	recent     *cache.PollingCache[string, []domain.RecentBattle]
	clock      clock.Clock
	retryDelay time.Duration
}

func NewBattleService(
	arena *contracts.Arena,
	archive BattleArchive,
	gladiators *GladiatorService,
	clk clock.Clock,
	ttl time.Duration,
	retryDelay time.Duration,
	log zerolog.Logger,
) *BattleService {
	return &BattleService{
		arena:      arena,
		archive:    archive,
		gladiators: gladiators,
		recent:     cache.New[string, []domain.RecentBattle]("recent_battles", ttl, clk, log),
		clock:      clk,
		retryDelay: retryDelay,
	}
}

// Recent returns the arena's recent battle log with display names filled in.
func (s *BattleService) Recent(ctx context.Context) ([]domain.RecentBattle, error) {
	rows, err := s.recent.Get(ctx, recentBattlesKey, func(ctx context.Context) ([]domain.RecentBattle, error) {
		return chain.RetryRateLimited(ctx, s.clock, s.retryDelay, s.arena.GetRecentBattles)
	})
	if err != nil {
		return nil, err
	}

	battles := make([]domain.RecentBattle, len(rows))
	for i, b := range rows {
		b.WinnerName = s.gladiators.DisplayName(b.Winner)
		b.LoserName = s.gladiators.DisplayName(b.Loser)
		battles[i] = b
	}
	return battles, nil
}

func (s *BattleService) History(addr common.Address, limit int) ([]domain.BattleRecord, error) {
	if limit <= 0 {
		limit = defaultHistorySize
	}
	return s.archive.ListByAddress(addr.Hex(), limit)
}

func (s *BattleService) Invalidate() {
	s.recent.Invalidate(recentBattlesKey)
}
