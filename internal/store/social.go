package store

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"gonadarena/internal/domain"
)

var ErrInvalidEvent = errors.New("invalid social event")

type socialDocument struct {
	Events []domain.SocialEvent `json:"events"`
}

// SocialFeed is the newest-first social event list, mirrored in memory and
// persisted to a JSON document on every append.
type SocialFeed struct {
	path string
	log  zerolog.Logger

	mu     sync.RWMutex
	events []domain.SocialEvent
}

// NewSocialFeed loads the feed from path, dropping malformed entries.
func NewSocialFeed(path string, log zerolog.Logger) *SocialFeed {
	f := &SocialFeed{
		path: path,
		log:  log.With().Str("store", "social").Logger(),
	}

	var doc socialDocument
	if err := readJSON(path, &doc); err != nil {
		f.log.Warn().Err(err).Msg("social document unreadable, starting empty")
	}
	for _, e := range doc.Events {
		if !e.Valid() {
			continue
		}
		f.events = append(f.events, e)
		if len(f.events) == domain.MaxSocialEvents {
			break
		}
	}
	return f
}

func (f *SocialFeed) List() []domain.SocialEvent {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]domain.SocialEvent, len(f.events))
	copy(out, f.events)
	return out
}

// Append prepends e and keeps the newest MaxSocialEvents. It reports false
// when an event with the same id is already present.
func (f *SocialFeed) Append(e domain.SocialEvent) (bool, error) {
	if !e.Valid() {
		return false, ErrInvalidEvent
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if e.ID != "" {
		for _, existing := range f.events {
			if existing.ID == e.ID {
				return false, nil
			}
		}
	}

	events := append([]domain.SocialEvent{e}, f.events...)
	if len(events) > domain.MaxSocialEvents {
		events = events[:domain.MaxSocialEvents]
	}
	if err := writeJSON(f.path, socialDocument{Events: events}); err != nil {
		return false, err
	}
	f.events = events
	return true, nil
}
