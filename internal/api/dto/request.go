package dto

type CreateGladiatorRequest struct {
	Name      string `json:"name" validate:"required,max=32"`
	BattleCry string `json:"battleCry" validate:"max=140"`
}

type FightRequest struct {
	Opponent string `json:"opponent" validate:"required,eth_addr"`
}

// PresaleRequest carries the MON amount as a decimal string, e.g. "2.5".
type PresaleRequest struct {
	Amount string `json:"amount" validate:"required,tokens"`
}

type MemeRequest struct {
	Meme string `json:"meme" validate:"required,max=280"`
}

type SocialEventRequest struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type" validate:"required,oneof=meme flex"`
	Sender    string                 `json:"sender" validate:"required,startswith=0x"`
	Content   string                 `json:"content"`
	Timestamp int64                  `json:"timestamp" validate:"gte=0"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type GladiatorImageRequest struct {
	Address  string `json:"address" validate:"required"`
	ImageURL string `json:"imageUrl"`
	Name     string `json:"name"`
}

type ImageResolution struct {
	Address  string `json:"address"`
	ImageURL string `json:"imageUrl"`
}
