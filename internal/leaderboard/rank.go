package leaderboard

import (
	"errors"
	"math/big"
	"sort"

	"gonadarena/internal/domain"
)

type SortKey string

const (
	SortWins       SortKey = "wins"
	SortStreak     SortKey = "streak"
	SortEarnings   SortKey = "earnings"
	SortEfficiency SortKey = "efficiency"
)

const PageSize = 10

var ErrUnknownSortKey = errors.New("unknown sort key")

func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case "":
		return SortWins, nil
	case SortWins, SortStreak, SortEarnings, SortEfficiency:
		return SortKey(s), nil
	default:
		return "", ErrUnknownSortKey
	}
}

type Ranked struct {
	domain.GladiatorEntry
	Rank        int     `json:"rank"`
	TotalFights uint64  `json:"totalFights"`
	Efficiency  float64 `json:"efficiency"`
}

// Rank drops uninitialized gladiators, derives fight totals and efficiency,
// and sorts descending by key. Equal keys keep their input order.
func Rank(entries []domain.GladiatorEntry, key SortKey) []Ranked {
	ranked := make([]Ranked, 0, len(entries))
	for _, e := range entries {
		if !e.Gladiator.Exists() {
			continue
		}
		fights := e.Gladiator.TotalFights()
		ranked = append(ranked, Ranked{
			GladiatorEntry: e,
			TotalFights:    fights,
			Efficiency:     efficiency(e.Earnings, fights),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		switch key {
		case SortStreak:
			return a.Gladiator.WinStreak > b.Gladiator.WinStreak
		case SortEarnings:
			return earnings(a.Earnings).Cmp(earnings(b.Earnings)) > 0
		case SortEfficiency:
			return a.Efficiency > b.Efficiency
		default:
			return a.Gladiator.Wins > b.Gladiator.Wins
		}
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// efficiency is GONAD earned per fight.
func efficiency(wei *big.Int, fights uint64) float64 {
	if fights == 0 || wei == nil {
		return 0
	}
	denom := new(big.Int).Mul(new(big.Int).SetUint64(fights), domain.WeiPerToken)
	f, _ := new(big.Rat).SetFrac(wei, denom).Float64()
	return f
}

func earnings(wei *big.Int) *big.Int {
	if wei == nil {
		return new(big.Int)
	}
	return wei
}

type Page struct {
	Entries []Ranked `json:"entries"`
	Page    int      `json:"page"`
	Pages   int      `json:"pages"`
	Total   int      `json:"total"`
}

// Paginate slices one page out of ranked. The page is clamped into range.
func Paginate(ranked []Ranked, page int) Page {
	total := len(ranked)
	pages := (total + PageSize - 1) / PageSize
	if page > pages {
		page = pages
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * PageSize
	end := start + PageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	entries := ranked[start:end]
	if entries == nil {
		entries = []Ranked{}
	}
	return Page{
		Entries: entries,
		Page:    page,
		Pages:   pages,
		Total:   total,
	}
}
