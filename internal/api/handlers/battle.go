package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"gonadarena/internal/api/dto"
	"gonadarena/internal/api/services"
)

const maxHistory = 200

type BattleHandler struct {
	battles *services.BattleService
	log     zerolog.Logger
}

func NewBattleHandler(battles *services.BattleService, log zerolog.Logger) *BattleHandler {
	return &BattleHandler{
		battles: battles,
		log:     log.With().Str("handler", "battle").Logger(),
	}
}

// GetRecent godoc
// @Summary Recent battles
// @Description Get the most recent battles from the contract
// @Tags battles
// @Produce json
// @Success 200 {array} dto.RecentBattle
// @Failure 502 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /api/battles/recent [get]
func (h *BattleHandler) GetRecent(c echo.Context) error {
	battles, err := h.battles.Recent(c.Request().Context())
	if err != nil {
		return handleError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto.NewRecentBattles(battles))
}

// GetHistory godoc
// @Summary Battle history
// @Description List archived battles involving an address, newest first
// @Tags battles
// @Produce json
// @Param address path string true "Wallet address"
// @Param limit query int false "Max records (1-200)"
// @Success 200 {array} dto.BattleRecord
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/battles/{address} [get]
func (h *BattleHandler) GetHistory(c echo.Context) error {
	addr, err := addressParam(c, "address")
	if err != nil {
		return ErrBadRequest(c, err.Error())
	}
	limit, ok := intQuery(c, "limit", 50)
	if !ok || limit > maxHistory {
		return ErrBadRequest(c, "limit must be between 1 and 200")
	}

	records, err := h.battles.History(addr, limit)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto.NewBattleRecords(records))
}
