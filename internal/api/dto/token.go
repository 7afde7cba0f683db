package dto

import (
	"math/big"
	"strconv"

	"gonadarena/internal/domain"
)

type TokenStatus struct {
	Address       string `json:"address"`
	Balance       string `json:"balance"`
	BalanceTokens string `json:"balanceTokens"`
	Allowance     string `json:"allowance"`
	DailyFlexes   uint64 `json:"dailyFlexes"`
	MemeCount     uint64 `json:"memeCount"`
}

func NewTokenStatus(address string, s domain.TokenStatus) TokenStatus {
	return TokenStatus{
		Address:       address,
		Balance:       Wei(s.Balance),
		BalanceTokens: tokens(s.Balance),
		Allowance:     Wei(s.Allowance),
		DailyFlexes:   s.Flex.DailyFlexes,
		MemeCount:     s.Flex.MemeCount,
	}
}

type AirdropInfo struct {
	Active     bool   `json:"active"`
	Amount     string `json:"amount"`
	Remaining  string `json:"remaining"`
	HasClaimed bool   `json:"hasClaimed"`
}

func NewAirdropInfo(i domain.AirdropInfo) AirdropInfo {
	return AirdropInfo{
		Active:     i.Active,
		Amount:     Wei(i.Amount),
		Remaining:  Wei(i.Remaining),
		HasClaimed: i.HasClaimed,
	}
}

type PresaleInfo struct {
	Active        bool   `json:"active"`
	TotalClaimed  string `json:"totalClaimed"`
	Remaining     string `json:"remaining"`
	UserClaimed   string `json:"userClaimed"`
	UserRemaining string `json:"userRemaining"`
}

func NewPresaleInfo(i domain.PresaleInfo) PresaleInfo {
	return PresaleInfo{
		Active:        i.Active,
		TotalClaimed:  Wei(i.TotalClaimed),
		Remaining:     Wei(i.Remaining),
		UserClaimed:   Wei(i.UserClaimed),
		UserRemaining: Wei(i.UserRemaining),
	}
}

// tokens renders wei in token units, e.g. "12.5".
func tokens(wei *big.Int) string {
	return strconv.FormatFloat(domain.WeiToFloat(wei), 'f', -1, 64)
}
