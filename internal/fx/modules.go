package fx

import (
	"context"
	"math/big"

	"github.com/benbjohnson/clock"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"

	"gonadarena/internal/api"
	"gonadarena/internal/api/handlers"
	"gonadarena/internal/api/services"
	"gonadarena/internal/api/ws"
	"gonadarena/internal/chain"
	"gonadarena/internal/config"
	"gonadarena/internal/contracts"
	"gonadarena/internal/correlator"
	"gonadarena/internal/domain"
	"gonadarena/internal/logger"
	r "gonadarena/internal/redis"
	"gonadarena/internal/repository"
	"gonadarena/internal/store"
	"gonadarena/internal/telemetry"
	"gonadarena/internal/txn"
	"gonadarena/internal/worker"
)

func ProvideClock() clock.Clock {
	return clock.New()
}

func ProvideBackend(lc fx.Lifecycle, cfg *config.Config, log zerolog.Logger) (chain.Backend, error) {
	url := cfg.Chain.RPCURL
	if cfg.Chain.WSURL != "" {
		url = cfg.Chain.WSURL
	}
	client, err := chain.Dial(context.Background(), url)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(client.Close))
	log.Info().Str("url", url).Msg("connected to chain")
	return client, nil
}

// ProvideWallet returns nil when no key is configured; writes then fail with
// domain.ErrWalletNotConfigured while reads keep working.
func ProvideWallet(cfg *config.Config, log zerolog.Logger) (chain.Wallet, error) {
	if cfg.Wallet.PrivateKey == "" {
		log.Warn().Msg("WALLET_PRIVATE_KEY not set, contract writes are disabled")
		return nil, nil
	}
	w, err := chain.NewKeyWallet(cfg.Wallet.PrivateKey, big.NewInt(cfg.Chain.ChainID))
	if err != nil {
		return nil, err
	}
	log.Info().Str("address", w.Address().Hex()).Msg("wallet loaded")
	return w, nil
}

func ProvideChainClient(backend chain.Backend, wallet chain.Wallet, clk clock.Clock, cfg *config.Config, log zerolog.Logger) *chain.Client {
	return chain.NewClient(backend, wallet, clk, chain.ClientOptions{
		PollInterval: cfg.Chain.ReceiptPollInterval,
		Timeout:      cfg.Chain.ReceiptTimeout,
	}, log)
}

func ProvideArena(cfg *config.Config, backend chain.Backend) (*contracts.Arena, error) {
	return contracts.NewArena(cfg.Contracts.Arena, backend)
}

func ProvideToken(cfg *config.Config, backend chain.Backend) (*contracts.Token, error) {
	return contracts.NewToken(cfg.Contracts.Token, backend)
}

func ProvideDistributor(cfg *config.Config, backend chain.Backend) (*contracts.Distributor, error) {
	return contracts.NewDistributor(cfg.Contracts.Distributor, backend)
}

func ProvideBattleCorrelator(arena *contracts.Arena, clk clock.Clock, log zerolog.Logger) *correlator.Correlator[domain.BattleResult] {
	return correlator.New[domain.BattleResult](contracts.EventBattleResult, arena.ParseBattleResult, clk, log)
}

func ProvideTracker(
	client *chain.Client,
	battles *correlator.Correlator[domain.BattleResult],
	arena *contracts.Arena,
	clk clock.Clock,
	cfg *config.Config,
	log zerolog.Logger,
) *txn.Tracker {
	return txn.NewTracker(client, battles, arena, clk, cfg.Chain.EventWait, log)
}

func ProvideDatabase(lc fx.Lifecycle, cfg *config.Config) (*repository.Database, error) {
	db, err := repository.New(cfg)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(db.Close))
	return db, nil
}

func ProvideBattleRepository(db *repository.Database) *repository.BattleRepository {
	return repository.NewBattleRepository(db.DB())
}

func ProvideGladiatorRepository(db *repository.Database) *repository.GladiatorRepository {
	return repository.NewGladiatorRepository(db.DB())
}

func ProvideRedis(lc fx.Lifecycle, cfg *config.Config) *goredis.Client {
	client := r.New(cfg)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error { return r.Ping(ctx, client) },
		OnStop:  func(context.Context) error { return client.Close() },
	})
	return client
}

func ProvideImageStore(cfg *config.Config, clk clock.Clock, log zerolog.Logger) *store.ImageStore {
	return store.NewImageStore(cfg.Store.ImagesPath, cfg.Store.DefaultImage, clk, log)
}

func ProvideSocialFeed(cfg *config.Config, log zerolog.Logger) *store.SocialFeed {
	return store.NewSocialFeed(cfg.Store.SocialEventsPath, log)
}

func ProvideGladiatorService(
	arena *contracts.Arena,
	roster *repository.GladiatorRepository,
	rdb *goredis.Client,
	clk clock.Clock,
	cfg *config.Config,
	log zerolog.Logger,
) *services.GladiatorService {
	snapshot := r.NewRosterCache(rdb, cfg.Cache.TTL)
	return services.NewGladiatorService(arena, roster, snapshot, clk,
		cfg.Cache.TTL, cfg.Cache.RateLimitDelay, cfg.Cache.RosterWorkers, log)
}

func ProvideBattleService(
	arena *contracts.Arena,
	archive *repository.BattleRepository,
	gladiators *services.GladiatorService,
	clk clock.Clock,
	cfg *config.Config,
	log zerolog.Logger,
) *services.BattleService {
	return services.NewBattleService(arena, archive, gladiators, clk, cfg.Cache.TTL, cfg.Cache.RateLimitDelay, log)
}

func ProvideTokenService(
	token *contracts.Token,
	distributor *contracts.Distributor,
	clk clock.Clock,
	cfg *config.Config,
	log zerolog.Logger,
) *services.TokenService {
	return services.NewTokenService(token, distributor, cfg.Contracts.Arena, clk, cfg.Cache.TTL, cfg.Cache.RateLimitDelay, log)
}

func ProvideSocialService(feed *store.SocialFeed, token *contracts.Token, hub *ws.Hub, clk clock.Clock, log zerolog.Logger) *services.SocialService {
	return services.NewSocialService(feed, token, hub, clk, log)
}

func ProvideRosterRefresher(gladiators *services.GladiatorService, clk clock.Clock, cfg *config.Config, log zerolog.Logger) *worker.RosterRefresher {
	return worker.NewRosterRefresher(gladiators, clk, cfg.Cache.RefreshInterval, log)
}

func ProvideSocialWatcher(
	backend chain.Backend,
	token *contracts.Token,
	social *services.SocialService,
	clk clock.Clock,
	cfg *config.Config,
	log zerolog.Logger,
) *worker.SocialWatcher {
	return worker.NewSocialWatcher(backend, token, social, clk, cfg.Chain.LogPollInterval, cfg.Chain.WSURL != "", log)
}

func ProvideBattleIndexer(
	archive *repository.BattleRepository,
	gladiators *services.GladiatorService,
	battles *services.BattleService,
	hub *ws.Hub,
	log zerolog.Logger,
) *worker.BattleIndexer {
	return worker.NewBattleIndexer(archive, gladiators, battles, hub, log)
}

func ProvideOperatorHandler(refresher *worker.RosterRefresher, log zerolog.Logger) *handlers.OperatorHandler {
	return handlers.NewOperatorHandler(refresher, log)
}

type handlerParams struct {
	fx.In

	Gladiators *handlers.GladiatorHandler
	Battles    *handlers.BattleHandler
	Tokens     *handlers.TokenHandler
	Social     *handlers.SocialHandler
	Images     *handlers.ImageHandler
	Actions    *handlers.ActionHandler
	Operator   *handlers.OperatorHandler
}

func ProvideEcho(p handlerParams, cfg *config.Config, hub *ws.Hub, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	api.SetupRoutes(e, cfg, api.Handlers{
		Gladiators: p.Gladiators,
		Battles:    p.Battles,
		Tokens:     p.Tokens,
		Social:     p.Social,
		Images:     p.Images,
		Actions:    p.Actions,
		Operator:   p.Operator,
	}, hub, log)
	return e
}

// BattleQuery selects BattleResult logs emitted by the arena.
func BattleQuery(arena *contracts.Arena) ethereum.FilterQuery {
	return ethereum.FilterQuery{
		Addresses: []common.Address{arena.Address},
		Topics:    [][]common.Hash{{arena.BattleResultTopic()}},
	}
}

type workerParams struct {
	fx.In

	Config    *config.Config
	Clock     clock.Clock
	Backend   chain.Backend
	Arena     *contracts.Arena
	Battles   *correlator.Correlator[domain.BattleResult]
	Tracker   *txn.Tracker
	Hub       *ws.Hub
	Indexer   *worker.BattleIndexer
	Refresher *worker.RosterRefresher
	Social    *worker.SocialWatcher
	Logger    zerolog.Logger
}

// registerWorkers wires event fan-out and runs the background loops for the
// lifetime of the application.
func registerWorkers(lc fx.Lifecycle, p workerParams) {
	p.Battles.OnEvent(p.Indexer.Handle)
	worker.PublishTxUpdates(p.Tracker, p.Hub)

	watcher := chain.NewWatcher(p.Backend, BattleQuery(p.Arena), p.Clock,
		p.Config.Chain.LogPollInterval, p.Config.Chain.WSURL != "", p.Logger)

	var (
		cancel context.CancelFunc
		group  *errgroup.Group
	)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			// Workers stop with the lifecycle only; one returning early
			// leaves the rest running.
			var ctx context.Context
			ctx, cancel = context.WithCancel(context.Background())
			group = &errgroup.Group{}

			group.Go(func() error { return p.Battles.Run(ctx, watcher) })
			group.Go(func() error { return p.Social.StartWorker(ctx) })
			group.Go(func() error {
				p.Refresher.StartWorker(ctx)
				return nil
			})
			p.Logger.Info().Msg("workers started")
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			err := group.Wait()
			p.Hub.Close()
			p.Logger.Info().Msg("workers stopped")
			return err
		},
	})
}

func registerTelemetry(lc fx.Lifecycle, cfg *config.Config, log zerolog.Logger) {
	var shutdown telemetry.ShutdownFunc
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			var err error
			shutdown, err = telemetry.Setup(ctx, cfg.Telemetry)
			if err != nil {
				return err
			}
			log.Info().Str("endpoint", cfg.Telemetry.OTLPEndpoint).Msg("telemetry configured")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return shutdown(ctx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(config.Load),
	fx.Provide(logger.New),
	fx.Provide(ProvideClock),
	// chain
	fx.Provide(ProvideBackend),
	fx.Provide(ProvideWallet),
	fx.Provide(ProvideChainClient),
	fx.Provide(ProvideArena),
	fx.Provide(ProvideToken),
	fx.Provide(ProvideDistributor),
	fx.Provide(ProvideBattleCorrelator),
	fx.Provide(ProvideTracker),
	// storage
	fx.Provide(ProvideDatabase),
	fx.Provide(ProvideBattleRepository),
	fx.Provide(ProvideGladiatorRepository),
	fx.Provide(ProvideRedis),
	fx.Provide(ProvideImageStore),
	fx.Provide(ProvideSocialFeed),
	// svc
	fx.Provide(ws.NewHub),
	fx.Provide(ProvideGladiatorService),
	fx.Provide(ProvideBattleService),
	fx.Provide(ProvideTokenService),
	fx.Provide(ProvideSocialService),
	fx.Provide(services.NewImageService),
	fx.Provide(services.NewActionService),
	// handlers
	fx.Provide(handlers.NewGladiatorHandler),
	fx.Provide(handlers.NewBattleHandler),
	fx.Provide(handlers.NewTokenHandler),
	fx.Provide(handlers.NewSocialHandler),
	fx.Provide(handlers.NewImageHandler),
	fx.Provide(handlers.NewActionHandler),
	fx.Provide(ProvideOperatorHandler),
	fx.Provide(ProvideEcho),
	// workers
	fx.Provide(ProvideRosterRefresher),
	fx.Provide(ProvideSocialWatcher),
	fx.Provide(ProvideBattleIndexer),
	fx.Invoke(registerTelemetry),
	fx.Invoke(registerWorkers),
)
