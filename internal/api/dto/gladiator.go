package dto

import (
	"math/big"

	"gonadarena/internal/domain"
	"gonadarena/internal/leaderboard"
)

type Gladiator struct {
	Address        string `json:"address"`
	DisplayName    string `json:"displayName"`
	Name           string `json:"name"`
	BattleCry      string `json:"battleCry"`
	Strength       uint64 `json:"strength"`
	Agility        uint64 `json:"agility"`
	Vitality       uint64 `json:"vitality"`
	Intelligence   uint64 `json:"intelligence"`
	Defense        uint64 `json:"defense"`
	Experience     uint64 `json:"experience"`
	Level          uint64 `json:"level"`
	Wins           uint64 `json:"wins"`
	Losses         uint64 `json:"losses"`
	WinStreak      uint64 `json:"winStreak"`
	LastFight      uint64 `json:"lastFight"`
	Earnings       string `json:"earnings"`
	EarningsTokens string `json:"earningsTokens"`
}

func NewGladiator(e domain.GladiatorEntry) Gladiator {
	g := e.Gladiator
	return Gladiator{
		Address:        e.Address.Hex(),
		DisplayName:    e.DisplayName(),
		Name:           g.Name,
		BattleCry:      g.BattleCry,
		Strength:       g.Strength,
		Agility:        g.Agility,
		Vitality:       g.Vitality,
		Intelligence:   g.Intelligence,
		Defense:        g.Defense,
		Experience:     g.Experience,
		Level:          g.Level,
		Wins:           g.Wins,
		Losses:         g.Losses,
		WinStreak:      g.WinStreak,
		LastFight:      g.LastFight,
		Earnings:       Wei(e.Earnings),
		EarningsTokens: e.EarningsTokens().String(),
	}
}

func NewGladiators(entries []domain.GladiatorEntry) []Gladiator {
	out := make([]Gladiator, 0, len(entries))
	for _, e := range entries {
		out = append(out, NewGladiator(e))
	}
	return out
}

type LeaderboardEntry struct {
	Gladiator
	Rank        int     `json:"rank"`
	TotalFights uint64  `json:"totalFights"`
	Efficiency  float64 `json:"efficiency"`
}

type Leaderboard struct {
	Sort    string             `json:"sort"`
	Entries []LeaderboardEntry `json:"entries"`
	Page    int                `json:"page"`
	Pages   int                `json:"pages"`
	Total   int                `json:"total"`
}

func NewLeaderboard(key leaderboard.SortKey, p leaderboard.Page) Leaderboard {
	entries := make([]LeaderboardEntry, 0, len(p.Entries))
	for _, r := range p.Entries {
		entries = append(entries, LeaderboardEntry{
			Gladiator:   NewGladiator(r.GladiatorEntry),
			Rank:        r.Rank,
			TotalFights: r.TotalFights,
			Efficiency:  r.Efficiency,
		})
	}
	return Leaderboard{
		Sort:    string(key),
		Entries: entries,
		Page:    p.Page,
		Pages:   p.Pages,
		Total:   p.Total,
	}
}

// Wei renders an on-chain amount as a base-10 string; nil is "0".
func Wei(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
