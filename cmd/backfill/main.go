package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/benbjohnson/clock"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"gonadarena/internal/chain"
	"gonadarena/internal/config"
	"gonadarena/internal/contracts"
	fxmodules "gonadarena/internal/fx"
	"gonadarena/internal/logger"
	"gonadarena/internal/repository"
	"gonadarena/internal/worker"
)

// roster adapts the gladiator repository for the indexer; there is no read
// cache to invalidate in a one-shot run.
type roster struct {
	repo *repository.GladiatorRepository
}

func (r roster) Track(addrs ...common.Address) error {
	return r.repo.Touch(addrs...)
}

func (roster) Invalidate(context.Context, common.Address) {}

func main() {
	_ = godotenv.Load()

	from := flag.Uint64("from", 0, "First block to scan (default: resume from the newest archived battle)")
	step := flag.Uint64("step", 2000, "Blocks per eth_getLogs request")
	flag.Parse()

	cfg := config.Load()
	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, *from, *step, log); err != nil {
		log.Fatal().Err(err).Msg("backfill failed")
	}
}

func run(ctx context.Context, cfg *config.Config, from, step uint64, log zerolog.Logger) error {
	db, err := repository.New(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	backend, err := chain.Dial(ctx, cfg.Chain.RPCURL)
	if err != nil {
		return err
	}
	defer backend.Close()

	arena, err := contracts.NewArena(cfg.Contracts.Arena, backend)
	if err != nil {
		return err
	}

	battles := repository.NewBattleRepository(db.DB())
	if from == 0 {
		latest, err := battles.LatestBlock()
		if err != nil {
			return err
		}
		from = resumeFrom(latest, cfg.Chain.BackfillFromBlock)
	}

	b := &backfiller{
		arena:   arena,
		indexer: worker.NewBattleIndexer(battles, roster{repo: repository.NewGladiatorRepository(db.DB())}, nil, nil, log),
		watcher: chain.NewWatcher(backend, fxmodules.BattleQuery(arena), clock.New(), cfg.Chain.LogPollInterval, false, log),
		log:     log,
	}
	_, err = b.run(ctx, from, step)
	return err
}

// resumeFrom picks the first block to scan. The newest archived block is
// scanned again since a previous run may have stopped partway through it;
// inserts are idempotent.
func resumeFrom(latest, floor uint64) uint64 {
	if latest > floor {
		return latest
	}
	return floor
}

type backfiller struct {
	arena   *contracts.Arena
	indexer *worker.BattleIndexer
	watcher *chain.Watcher
	log     zerolog.Logger

	seen, skipped int
}

func (b *backfiller) run(ctx context.Context, from, step uint64) (uint64, error) {
	b.log.Info().Uint64("from", from).Uint64("step", step).Msg("backfilling battles")
	head, err := b.watcher.Backfill(ctx, from, step, b.handle)
	if err != nil {
		return head, err
	}
	b.log.Info().Uint64("head", head).Int("battles", b.seen).Int("skipped", b.skipped).Msg("backfill complete")
	return head, nil
}

func (b *backfiller) handle(l types.Log) {
	r, err := b.arena.ParseBattleResult(l)
	if err != nil {
		b.skipped++
		b.log.Warn().Err(err).Str("tx", l.TxHash.Hex()).Msg("skipping undecodable log")
		return
	}
	b.seen++
	b.indexer.Handle(r)
}
