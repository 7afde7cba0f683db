package leaderboard

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gonadarena/internal/domain"
)

func entry(name string, level, wins, losses, streak uint64, earnedTokens int64) domain.GladiatorEntry {
	return domain.GladiatorEntry{
		Address: common.BytesToAddress([]byte(name)),
		Gladiator: domain.Gladiator{
			Name:      name,
			Level:     level,
			Wins:      wins,
			Losses:    losses,
			WinStreak: streak,
		},
		Earnings: domain.Tokens(earnedTokens),
	}
}

func names(ranked []Ranked) []string {
	out := make([]string, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.Gladiator.Name)
	}
	return out
}

func TestRank_DropsUninitialized(t *testing.T) {
	entries := []domain.GladiatorEntry{
		entry("ghost", 0, 50, 0, 50, 500),
		entry("maximus", 2, 3, 1, 1, 10),
	}

	for _, key := range []SortKey{SortWins, SortStreak, SortEarnings, SortEfficiency} {
		ranked := Rank(entries, key)
		assert.Equal(t, []string{"maximus"}, names(ranked), key)
	}
}

func TestRank_SortKeys(t *testing.T) {
	entries := []domain.GladiatorEntry{
		entry("a", 1, 5, 5, 1, 20),
		entry("b", 1, 9, 1, 0, 10),
		entry("c", 1, 2, 0, 4, 30),
	}

	assert.Equal(t, []string{"b", "a", "c"}, names(Rank(entries, SortWins)))
	assert.Equal(t, []string{"c", "a", "b"}, names(Rank(entries, SortStreak)))
	assert.Equal(t, []string{"c", "a", "b"}, names(Rank(entries, SortEarnings)))
	// a: 20/10 = 2, b: 10/10 = 1, c: 30/2 = 15
	assert.Equal(t, []string{"c", "a", "b"}, names(Rank(entries, SortEfficiency)))
}

func TestRank_DerivedFields(t *testing.T) {
	ranked := Rank([]domain.GladiatorEntry{
		entry("fresh", 1, 0, 0, 0, 0),
		entry("vet", 3, 3, 1, 2, 6),
	}, SortWins)

	require.Len(t, ranked, 2)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, uint64(4), ranked[0].TotalFights)
	assert.InDelta(t, 1.5, ranked[0].Efficiency, 1e-9)
	assert.Equal(t, 2, ranked[1].Rank)
	assert.Zero(t, ranked[1].Efficiency)
}

func TestRank_StableOnTies(t *testing.T) {
	entries := []domain.GladiatorEntry{
		entry("first", 1, 3, 0, 0, 0),
		entry("second", 1, 3, 0, 0, 0),
		entry("third", 1, 3, 0, 0, 0),
	}
	assert.Equal(t, []string{"first", "second", "third"}, names(Rank(entries, SortWins)))
}

func TestRank_EarningsNonIncreasing(t *testing.T) {
	var entries []domain.GladiatorEntry
	for i := 0; i < 37; i++ {
		e := entry(fmt.Sprintf("g%d", i), uint64(i%4), uint64(i), 1, 0, int64((i*7919)%101))
		if i%5 == 0 {
			e.Earnings = nil
		}
		entries = append(entries, e)
	}

	ranked := Rank(entries, SortEarnings)
	for i := 1; i < len(ranked); i++ {
		assert.LessOrEqual(t, earnings(ranked[i].Earnings).Cmp(earnings(ranked[i-1].Earnings)), 0)
	}
	for _, r := range ranked {
		assert.NotZero(t, r.Gladiator.Level)
	}
}

func TestRank_LargeEarnings(t *testing.T) {
	huge := new(big.Int).Mul(domain.Tokens(1_000_000_000), domain.Tokens(1))
	e := entry("whale", 1, 1, 0, 1, 0)
	e.Earnings = huge

	ranked := Rank([]domain.GladiatorEntry{entry("minnow", 1, 1, 0, 1, 1), e}, SortEarnings)
	assert.Equal(t, []string{"whale", "minnow"}, names(ranked))
}

func TestPaginate(t *testing.T) {
	var entries []domain.GladiatorEntry
	for i := 0; i < 23; i++ {
		entries = append(entries, entry(fmt.Sprintf("g%02d", i), 1, uint64(100-i), 0, 0, 0))
	}
	ranked := Rank(entries, SortWins)

	tests := []struct {
		page      int
		wantPage  int
		wantLen   int
		wantFirst int
	}{
		{1, 1, 10, 1},
		{2, 2, 10, 11},
		{3, 3, 3, 21},
		{9, 3, 3, 21},
		{0, 1, 10, 1},
		{-4, 1, 10, 1},
	}
	for _, tt := range tests {
		p := Paginate(ranked, tt.page)
		assert.Equal(t, tt.wantPage, p.Page)
		assert.Equal(t, 3, p.Pages)
		assert.Equal(t, 23, p.Total)
		require.Len(t, p.Entries, tt.wantLen)
		assert.Equal(t, tt.wantFirst, p.Entries[0].Rank)
	}
}

func TestPaginate_Empty(t *testing.T) {
	p := Paginate(nil, 1)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 0, p.Pages)
	assert.Empty(t, p.Entries)
}

func TestPaginate_LengthBound(t *testing.T) {
	for n := 0; n < 25; n++ {
		var entries []domain.GladiatorEntry
		for i := 0; i < n; i++ {
			entries = append(entries, entry(fmt.Sprintf("g%d", i), 1, 0, 0, 0, 0))
		}
		p := Paginate(Rank(entries, SortWins), 1)
		assert.LessOrEqual(t, len(p.Entries), min(PageSize, n))
	}
}

func TestParseSortKey(t *testing.T) {
	key, err := ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, SortWins, key)

	key, err = ParseSortKey("efficiency")
	require.NoError(t, err)
	assert.Equal(t, SortEfficiency, key)

	_, err = ParseSortKey("elo")
	assert.ErrorIs(t, err, ErrUnknownSortKey)
}
