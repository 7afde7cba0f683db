package domain

import (
	"errors"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// WeiPerToken is the 18-decimal scale shared by GONAD and MON amounts.
var WeiPerToken = big.NewInt(1_000_000_000_000_000_000)

type Gladiator struct {
	Name         string `json:"name"`
	Strength     uint64 `json:"strength"`
	Agility      uint64 `json:"agility"`
	Vitality     uint64 `json:"vitality"`
	Intelligence uint64 `json:"intelligence"`
	Defense      uint64 `json:"defense"`
	Experience   uint64 `json:"experience"`
	Level        uint64 `json:"level"`
	Wins         uint64 `json:"wins"`
	Losses       uint64 `json:"losses"`
	LastFight    uint64 `json:"lastFight"`
	BattleCry    string `json:"battleCry"`
	WinStreak    uint64 `json:"winStreak"`
}

// Exists reports whether the record was actually forged. The arena returns a
// zeroed struct for addresses without a gladiator.
func (g Gladiator) Exists() bool {
	return g.Level > 0
}

func (g Gladiator) TotalFights() uint64 {
	return g.Wins + g.Losses
}

type GladiatorEntry struct {
	Address   common.Address `json:"address"`
	Gladiator Gladiator      `json:"gladiator"`
	Earnings  *big.Int       `json:"earnings"`
}

func (e GladiatorEntry) DisplayName() string {
	if e.Gladiator.Name != "" {
		return e.Gladiator.Name
	}
	return ShortAddress(e.Address)
}

// EarningsTokens returns floor(earnings / 1e18).
func (e GladiatorEntry) EarningsTokens() *big.Int {
	if e.Earnings == nil {
		return new(big.Int)
	}
	return new(big.Int).Quo(e.Earnings, WeiPerToken)
}

func ShortAddress(addr common.Address) string {
	hex := addr.Hex()
	return hex[:6] + "..." + hex[len(hex)-4:]
}

// Tokens converts a whole-token amount into wei.
func Tokens(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), WeiPerToken)
}

var ErrInvalidAmount = errors.New("invalid amount")

// ParseTokens converts a decimal token amount such as "1.5" into wei.
// Amounts finer than one wei are rejected.
func ParseTokens(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "-") {
		return nil, ErrInvalidAmount
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, ErrInvalidAmount
	}
	r.Mul(r, new(big.Rat).SetInt(WeiPerToken))
	if !r.IsInt() {
		return nil, ErrInvalidAmount
	}
	return new(big.Int).Set(r.Num()), nil
}

// WeiToFloat renders a wei amount in token units.
func WeiToFloat(wei *big.Int) float64 {
	if wei == nil {
		return 0
	}
	f, _ := new(big.Rat).SetFrac(wei, WeiPerToken).Float64()
	return f
}
