package domain

import (
	"strings"
	"time"
)

type SocialEventKind string

const (
	SocialEventMeme SocialEventKind = "meme"
	SocialEventFlex SocialEventKind = "flex"
)

const MaxSocialEvents = 50

type SocialEvent struct {
	ID        string                 `json:"id"`
	Type      SocialEventKind        `json:"type"`
	Sender    string                 `json:"sender"`
	Content   string                 `json:"content"`
	Timestamp int64                  `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

func (e SocialEvent) Valid() bool {
	if e.Type != SocialEventMeme && e.Type != SocialEventFlex {
		return false
	}
	return strings.HasPrefix(e.Sender, "0x")
}

const DefaultImageKey = "default"

type GladiatorImage struct {
	ID        string    `json:"id"`
	ImageURL  string    `json:"imageUrl"`
	Timestamp time.Time `json:"timestamp"`
	Name      string    `json:"name"`
}

func ImageKey(address string) string {
	return "gladiator" + address
}

func DefaultGladiatorName(address string) string {
	return "Gladiator " + address
}
