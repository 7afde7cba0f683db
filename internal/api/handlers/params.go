package handlers

import (
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"

	"gonadarena/internal/domain"
)

func addressParam(c echo.Context, name string) (common.Address, error) {
	raw := strings.TrimSpace(c.Param(name))
	if !common.IsHexAddress(raw) {
		return common.Address{}, domain.ErrInvalidAddress
	}
	return common.HexToAddress(raw), nil
}

// intQuery reads a positive integer query parameter, returning def when it is absent.
func intQuery(c echo.Context, name string, def int) (int, bool) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
