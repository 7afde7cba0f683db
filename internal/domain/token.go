package domain

import (
	"math/big"
)

type FlexStatus struct {
	DailyFlexes uint64 `json:"dailyFlexes"`
	MemeCount   uint64 `json:"memeCount"`
}

type AirdropInfo struct {
	Active     bool     `json:"active"`
	Amount     *big.Int `json:"amount"`
	Remaining  *big.Int `json:"remaining"`
	HasClaimed bool     `json:"hasClaimed"`
}

type PresaleInfo struct {
	Active        bool     `json:"active"`
	TotalClaimed  *big.Int `json:"totalClaimed"`
	Remaining     *big.Int `json:"remaining"`
	UserClaimed   *big.Int `json:"userClaimed"`
	UserRemaining *big.Int `json:"userRemaining"`
}

type TokenStatus struct {
	Balance   *big.Int   `json:"balance"`
	Allowance *big.Int   `json:"allowance"`
	Flex      FlexStatus `json:"flex"`
}
