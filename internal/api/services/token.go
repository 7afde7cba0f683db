package services

import (
	"context"
	"math/big"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"gonadarena/internal/cache"
	"gonadarena/internal/chain"
	"gonadarena/internal/contracts"
	"gonadarena/internal/domain"
)

type TokenService struct {
	token       *contracts.Token
	distributor *contracts.Distributor
	spender     common.Address
	status      *cache.PollingCache[common.Address, domain.TokenStatus]
	clock       clock.Clock
	retryDelay  time.Duration
}

// NewTokenService reports allowances granted to spender, the arena contract.
func NewTokenService(
	token *contracts.Token,
	distributor *contracts.Distributor,
	spender common.Address,
	clk clock.Clock,
	ttl time.Duration,
	retryDelay time.Duration,
	log zerolog.Logger,
) *TokenService {
	return &TokenService{
		token:       token,
		distributor: distributor,
		spender:     spender,
		status:      cache.New[common.Address, domain.TokenStatus]("token_status", ttl, clk, log),
		clock:       clk,
		retryDelay:  retryDelay,
	}
}

func (s *TokenService) Status(ctx context.Context, addr common.Address) (domain.TokenStatus, error) {
	return s.status.Get(ctx, addr, func(ctx context.Context) (domain.TokenStatus, error) {
		var status domain.TokenStatus

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			balance, err := s.Balance(gctx, addr)
			status.Balance = balance
			return err
		})
		g.Go(func() error {
			allowance, err := s.Allowance(gctx, addr)
			status.Allowance = allowance
			return err
		})
		g.Go(func() error {
			flex, err := chain.RetryRateLimited(gctx, s.clock, s.retryDelay, func(ctx context.Context) (domain.FlexStatus, error) {
				return s.token.GetFlexStatus(ctx, addr)
			})
			status.Flex = flex
			return err
		})

		if err := g.Wait(); err != nil {
			return domain.TokenStatus{}, err
		}
		return status, nil
	})
}

// Balance and Allowance always read the chain; the write guards depend on them.
func (s *TokenService) Balance(ctx context.Context, addr common.Address) (*big.Int, error) {
	return chain.RetryRateLimited(ctx, s.clock, s.retryDelay, func(ctx context.Context) (*big.Int, error) {
		return s.token.BalanceOf(ctx, addr)
	})
}

func (s *TokenService) Allowance(ctx context.Context, addr common.Address) (*big.Int, error) {
	return chain.RetryRateLimited(ctx, s.clock, s.retryDelay, func(ctx context.Context) (*big.Int, error) {
		return s.token.Allowance(ctx, addr, s.spender)
	})
}

func (s *TokenService) Airdrop(ctx context.Context, addr common.Address) (domain.AirdropInfo, error) {
	return chain.RetryRateLimited(ctx, s.clock, s.retryDelay, func(ctx context.Context) (domain.AirdropInfo, error) {
		return s.distributor.GetAirdropInfo(ctx, addr)
	})
}

func (s *TokenService) Presale(ctx context.Context, addr common.Address) (domain.PresaleInfo, error) {
	return chain.RetryRateLimited(ctx, s.clock, s.retryDelay, func(ctx context.Context) (domain.PresaleInfo, error) {
		return s.distributor.GetPresaleInfo(ctx, addr)
	})
}

func (s *TokenService) Invalidate(addr common.Address) {
	s.status.Invalidate(addr)
}
