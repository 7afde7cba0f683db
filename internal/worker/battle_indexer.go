package worker

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"gonadarena/internal/api/ws"
	"gonadarena/internal/domain"
)

type BattleArchive interface {
	Insert(b *domain.BattleRecord) (bool, error)
}

type GladiatorTracker interface {
	Track(addrs ...common.Address) error
	Invalidate(ctx context.Context, addr common.Address)
}

type RecentInvalidator interface {
	Invalidate()
}

type Broadcaster interface {
	Broadcast(msgType string, data interface{})
}

// BattleIndexer archives every BattleResult, adds both fighters to the
// roster and pushes new results to websocket clients.
type BattleIndexer struct {
	archive    BattleArchive
	gladiators GladiatorTracker
	recent     RecentInvalidator
	hub        Broadcaster
	log        zerolog.Logger
}

func NewBattleIndexer(archive BattleArchive, gladiators GladiatorTracker, recent RecentInvalidator, hub Broadcaster, log zerolog.Logger) *BattleIndexer {
	return &BattleIndexer{
		archive:    archive,
		gladiators: gladiators,
		recent:     recent,
		hub:        hub,
		log:        log.With().Str("worker", "battle_indexer").Logger(),
	}
}

// Handle indexes one result. Results already archived are not rebroadcast.
func (w *BattleIndexer) Handle(r domain.BattleResult) {
	rec := domain.NewBattleRecord(r)
	inserted, archiveErr := w.archive.Insert(&rec)
	if archiveErr != nil {
		w.log.Error().Err(archiveErr).Str("tx", rec.TxHash).Msg("failed to archive battle")
	}

	if err := w.gladiators.Track(r.Winner, r.Loser); err != nil {
		w.log.Warn().Err(err).Msg("failed to add fighters to roster")
	}
	if archiveErr == nil && !inserted {
		return
	}

	ctx := context.Background()
	w.gladiators.Invalidate(ctx, r.Winner)
	w.gladiators.Invalidate(ctx, r.Loser)
	if w.recent != nil {
		w.recent.Invalidate()
	}
	if w.hub != nil {
		w.hub.Broadcast(ws.TypeBattleResult, r)
	}
	w.log.Info().
		Str("winner", r.Winner.Hex()).
		Str("loser", r.Loser.Hex()).
		Str("rarity", r.Rarity.String()).
		Msg("battle indexed")
}
