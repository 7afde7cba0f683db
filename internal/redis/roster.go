package redis

import (
	"time"

	"github.com/redis/go-redis/v9"

	"gonadarena/internal/domain"
)

const RosterPrefix = "roster"

// NewRosterCache stores gladiator snapshots under roster:<address>.
func NewRosterCache(client *redis.Client, ttl time.Duration) *JSONCache[domain.GladiatorEntry] {
	return NewJSONCache[domain.GladiatorEntry](client, RosterPrefix, ttl)
}
