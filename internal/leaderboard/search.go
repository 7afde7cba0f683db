package leaderboard

import (
	"strconv"
	"strings"
	"unicode"

	"gonadarena/internal/domain"
)

type numericField struct {
	tokens []string
	value  func(domain.GladiatorEntry) string
}

var numericFields = []numericField{
	{
		tokens: []string{"lvl", "level"},
		value:  func(e domain.GladiatorEntry) string { return strconv.FormatUint(e.Gladiator.Level, 10) },
	},
	{
		tokens: []string{"g", "gonad"},
		value:  func(e domain.GladiatorEntry) string { return e.EarningsTokens().String() },
	},
	{
		tokens: []string{"w", "win"},
		value:  func(e domain.GladiatorEntry) string { return strconv.FormatUint(e.Gladiator.Wins, 10) },
	},
	{
		tokens: []string{"s", "streak"},
		value:  func(e domain.GladiatorEntry) string { return strconv.FormatUint(e.Gladiator.WinStreak, 10) },
	},
}

// Search returns the entries matching query, in input order. An entry matches
// on a case-insensitive name substring, or when the query names a numeric
// field (lvl, g, w, s) whose value equals the digits in the query.
func Search(entries []domain.GladiatorEntry, query string) []domain.GladiatorEntry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return entries
	}
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, q)
	if digits != "" {
		if n, err := strconv.ParseUint(digits, 10, 64); err == nil {
			digits = strconv.FormatUint(n, 10)
		}
	}

	var fields []numericField
	if digits != "" {
		for _, f := range numericFields {
			if containsAny(q, f.tokens) {
				fields = append(fields, f)
			}
		}
	}

	matches := make([]domain.GladiatorEntry, 0)
	for _, e := range entries {
		if matchEntry(e, q, digits, fields) {
			matches = append(matches, e)
		}
	}
	return matches
}

func matchEntry(e domain.GladiatorEntry, q, digits string, fields []numericField) bool {
	if strings.Contains(strings.ToLower(e.Gladiator.Name), q) {
		return true
	}
	for _, f := range fields {
		if f.value(e) == digits {
			return true
		}
	}
	return false
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
