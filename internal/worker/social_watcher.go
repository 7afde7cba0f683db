package worker

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog"

	"gonadarena/internal/chain"
	"gonadarena/internal/contracts"
)

type SocialRecorder interface {
	Record(logs ...types.Log) int
}

// SocialWatcher turns MemePosted and GigaChad logs from the token contract
// into social feed entries.
type SocialWatcher struct {
	watcher *chain.Watcher
	social  SocialRecorder
	log     zerolog.Logger
}

func NewSocialWatcher(
	backend chain.Backend,
	token *contracts.Token,
	social SocialRecorder,
	clk clock.Clock,
	interval time.Duration,
	subscribe bool,
	log zerolog.Logger,
) *SocialWatcher {
	query := ethereum.FilterQuery{
		Addresses: []common.Address{token.Address},
		Topics:    [][]common.Hash{token.SocialTopics()},
	}
	return &SocialWatcher{
		watcher: chain.NewWatcher(backend, query, clk, interval, subscribe, log),
		social:  social,
		log:     log.With().Str("worker", "social_watcher").Logger(),
	}
}

func (w *SocialWatcher) StartWorker(ctx context.Context) error {
	w.log.Info().Msg("social watcher started")
	defer w.log.Info().Msg("social watcher stopped")
	return w.watcher.Run(ctx, w.handle)
}

func (w *SocialWatcher) handle(l types.Log) {
	if n := w.social.Record(l); n > 0 {
		w.log.Debug().Str("tx", l.TxHash.Hex()).Msg("social event recorded")
	}
}
