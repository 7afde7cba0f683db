package services

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"gonadarena/internal/cache"
	"gonadarena/internal/chain"
	"gonadarena/internal/contracts"
	"gonadarena/internal/domain"
	"gonadarena/internal/leaderboard"
	r "gonadarena/internal/redis"
)

const defaultRosterWorkers = 8

type RosterRepository interface {
	Addresses() ([]common.Address, error)
	Touch(addrs ...common.Address) error
	Remove(addr common.Address) error
}

type GladiatorService struct {
	arena      *contracts.Arena
	roster     RosterRepository
	cache      *cache.PollingCache[common.Address, domain.GladiatorEntry]
	snapshot   r.Cache[domain.GladiatorEntry]
	clock      clock.Clock
	retryDelay time.Duration
	workers    int
	log        zerolog.Logger
}

func NewGladiatorService(
	arena *contracts.Arena,
	roster RosterRepository,
	snapshot r.Cache[domain.GladiatorEntry],
	clk clock.Clock,
	ttl time.Duration,
	retryDelay time.Duration,
	workers int,
	log zerolog.Logger,
) *GladiatorService {
	if workers <= 0 {
		workers = defaultRosterWorkers
	}
	return &GladiatorService{
		arena:      arena,
		roster:     roster,
		cache:      cache.New[common.Address, domain.GladiatorEntry]("gladiators", ttl, clk, log),
		snapshot:   snapshot,
		clock:      clk,
		retryDelay: retryDelay,
		workers:    workers,
		log:        log.With().Str("service", "gladiator").Logger(),
	}
}

// Get returns the cached entry for addr. Addresses without a forged gladiator
// yield ErrGladiatorNotFound.
func (s *GladiatorService) Get(ctx context.Context, addr common.Address) (domain.GladiatorEntry, error) {
	entry, err := s.cache.Get(ctx, addr, func(ctx context.Context) (domain.GladiatorEntry, error) {
		return s.fetch(ctx, addr)
	})
	if err != nil {
		return domain.GladiatorEntry{}, err
	}
	if !entry.Gladiator.Exists() {
		return entry, domain.ErrGladiatorNotFound
	}
	return entry, nil
}

func (s *GladiatorService) fetch(ctx context.Context, addr common.Address) (domain.GladiatorEntry, error) {
	entry := domain.GladiatorEntry{Address: addr}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		gladiator, err := chain.RetryRateLimited(gctx, s.clock, s.retryDelay, func(ctx context.Context) (domain.Gladiator, error) {
			return s.arena.GetGladiator(ctx, addr)
		})
		entry.Gladiator = gladiator
		return err
	})
	g.Go(func() error {
		earnings, err := chain.RetryRateLimited(gctx, s.clock, s.retryDelay, func(ctx context.Context) (*big.Int, error) {
			return s.arena.GetEarnings(ctx, addr)
		})
		entry.Earnings = earnings
		return err
	})

	if err := g.Wait(); err != nil {
		if shared := s.fromSnapshot(ctx, addr); shared != nil {
			s.log.Debug().Err(err).Str("address", addr.Hex()).Msg("chain read failed, using shared snapshot")
			return *shared, nil
		}
		return domain.GladiatorEntry{}, err
	}

	if s.snapshot != nil {
		if err := s.snapshot.Set(ctx, addr.Hex(), &entry); err != nil {
			s.log.Warn().Err(err).Str("address", addr.Hex()).Msg("failed to store roster snapshot")
		}
	}
	return entry, nil
}

func (s *GladiatorService) fromSnapshot(ctx context.Context, addr common.Address) *domain.GladiatorEntry {
	if s.snapshot == nil {
		return nil
	}
	entry, err := s.snapshot.Get(ctx, addr.Hex())
	if err != nil {
		s.log.Warn().Err(err).Str("address", addr.Hex()).Msg("failed to read roster snapshot")
		return nil
	}
	return entry
}

func (s *GladiatorService) IsGladiator(ctx context.Context, addr common.Address) (bool, error) {
	return chain.RetryRateLimited(ctx, s.clock, s.retryDelay, func(ctx context.Context) (bool, error) {
		return s.arena.IsGladiator(ctx, addr)
	})
}

func (s *GladiatorService) TotalEarnings(ctx context.Context, addr common.Address) (*big.Int, error) {
	return chain.RetryRateLimited(ctx, s.clock, s.retryDelay, func(ctx context.Context) (*big.Int, error) {
		return s.arena.TotalEarnings(ctx, addr)
	})
}

// Track adds addresses to the roster.
func (s *GladiatorService) Track(addrs ...common.Address) error {
	return s.roster.Touch(addrs...)
}

// Forget drops addr from the roster after its gladiator was killed.
func (s *GladiatorService) Forget(ctx context.Context, addr common.Address) error {
	s.Invalidate(ctx, addr)
	return s.roster.Remove(addr)
}

// Invalidate expires the cached entry and the shared snapshot for addr.
func (s *GladiatorService) Invalidate(ctx context.Context, addr common.Address) {
	s.cache.Invalidate(addr)
	if s.snapshot != nil {
		if err := s.snapshot.Delete(ctx, addr.Hex()); err != nil {
			s.log.Warn().Err(err).Str("address", addr.Hex()).Msg("failed to drop roster snapshot")
		}
	}
}

// DisplayName resolves a name from whatever is cached, falling back to the
// shortened address. It never touches the chain.
func (s *GladiatorService) DisplayName(addr common.Address) string {
	entry, _, ok := s.cache.Peek(addr)
	if ok && entry.Gladiator.Exists() {
		return entry.DisplayName()
	}
	return domain.ShortAddress(addr)
}

// Roster reads every known address through the cache with bounded
// concurrency. Failed and uninitialized addresses are left out.
func (s *GladiatorService) Roster(ctx context.Context) ([]domain.GladiatorEntry, error) {
	addrs, err := s.roster.Addresses()
	if err != nil {
		return nil, err
	}

	found := make([]*domain.GladiatorEntry, len(addrs))
	var failed int
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, addr := range addrs {
		g.Go(func() error {
			entry, err := s.Get(gctx, addr)
			switch {
			case errors.Is(err, domain.ErrGladiatorNotFound):
			case err != nil:
				mu.Lock()
				failed++
				mu.Unlock()
				s.log.Warn().Err(err).Str("address", addr.Hex()).Msg("roster read failed")
			default:
				found[i] = &entry
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries := make([]domain.GladiatorEntry, 0, len(addrs))
	for _, e := range found {
		if e != nil {
			entries = append(entries, *e)
		}
	}
	if failed > 0 {
		s.log.Debug().Int("failed", failed).Int("total", len(addrs)).Msg("roster partially read")
	}
	return entries, nil
}

// RefreshAll expires every roster entry and reads them again.
func (s *GladiatorService) RefreshAll(ctx context.Context) (int, error) {
	addrs, err := s.roster.Addresses()
	if err != nil {
		return 0, err
	}
	for _, addr := range addrs {
		s.cache.Invalidate(addr)
	}
	entries, err := s.Roster(ctx)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

func (s *GladiatorService) Leaderboard(ctx context.Context, key leaderboard.SortKey, page int) (leaderboard.Page, error) {
	entries, err := s.Roster(ctx)
	if err != nil {
		return leaderboard.Page{}, err
	}
	return leaderboard.Paginate(leaderboard.Rank(entries, key), page), nil
}

func (s *GladiatorService) Search(ctx context.Context, query string) ([]domain.GladiatorEntry, error) {
	entries, err := s.Roster(ctx)
	if err != nil {
		return nil, err
	}
	return leaderboard.Search(entries, query), nil
}
