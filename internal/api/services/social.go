package services

import (
	"github.com/benbjohnson/clock"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"gonadarena/internal/api/ws"
	"gonadarena/internal/contracts"
	"gonadarena/internal/domain"
	"gonadarena/internal/metrics"
	"gonadarena/internal/store"
)

type Broadcaster interface {
	Broadcast(msgType string, data interface{})
}

type SocialService struct {
	feed  *store.SocialFeed
	token *contracts.Token
	hub   Broadcaster
	clock clock.Clock
	log   zerolog.Logger
}

func NewSocialService(feed *store.SocialFeed, token *contracts.Token, hub Broadcaster, clk clock.Clock, log zerolog.Logger) *SocialService {
	return &SocialService{
		feed:  feed,
		token: token,
		hub:   hub,
		clock: clk,
		log:   log.With().Str("service", "social").Logger(),
	}
}

func (s *SocialService) List() []domain.SocialEvent {
	return s.feed.List()
}

// Post appends e to the feed and pushes it to websocket clients. Events
// without an id get a random one; a zero timestamp is stamped with now.
func (s *SocialService) Post(e domain.SocialEvent) (domain.SocialEvent, error) {
	e, _, err := s.post(e)
	return e, err
}

func (s *SocialService) post(e domain.SocialEvent) (domain.SocialEvent, bool, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp == 0 {
		e.Timestamp = s.clock.Now().UnixMilli()
	}

	added, err := s.feed.Append(e)
	if err != nil || !added {
		return e, false, err
	}

	metrics.SocialEventsTotal.WithLabelValues(string(e.Type)).Inc()
	if s.hub != nil {
		s.hub.Broadcast(ws.TypeSocialEvent, e)
	}
	return e, true, nil
}

// Record turns MemePosted and GigaChad logs into feed entries and reports how
// many were new. Other logs are ignored.
func (s *SocialService) Record(logs ...types.Log) int {
	recorded := 0
	for _, l := range logs {
		if l.Address != s.token.Address {
			continue
		}
		e, err := s.token.ParseSocialEvent(l)
		if err != nil {
			s.log.Debug().Err(err).Str("tx", l.TxHash.Hex()).Msg("skipping log")
			continue
		}
		_, added, err := s.post(e)
		if err != nil {
			s.log.Warn().Err(err).Str("id", e.ID).Msg("failed to record social event")
			continue
		}
		if added {
			recorded++
		}
	}
	return recorded
}
