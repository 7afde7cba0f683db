package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"gonadarena/internal/api/dto"
	"gonadarena/internal/api/services"
	"gonadarena/internal/leaderboard"
)

type GladiatorHandler struct {
	gladiators *services.GladiatorService
	log        zerolog.Logger
}

func NewGladiatorHandler(gladiators *services.GladiatorService, log zerolog.Logger) *GladiatorHandler {
	return &GladiatorHandler{
		gladiators: gladiators,
		log:        log.With().Str("handler", "gladiator").Logger(),
	}
}

// GetGladiator godoc
// @Summary Get gladiator
// @Description Get the gladiator owned by an address
// @Tags gladiators
// @Produce json
// @Param address path string true "Wallet address"
// @Success 200 {object} dto.Gladiator
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /api/gladiators/{address} [get]
func (h *GladiatorHandler) GetGladiator(c echo.Context) error {
	addr, err := addressParam(c, "address")
	if err != nil {
		return ErrBadRequest(c, err.Error())
	}

	entry, err := h.gladiators.Get(c.Request().Context(), addr)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto.NewGladiator(entry))
}

// GetLeaderboard godoc
// @Summary Leaderboard
// @Description Rank every known gladiator
// @Tags gladiators
// @Produce json
// @Param sort query string false "wins, streak, earnings or efficiency"
// @Param page query int false "1-based page"
// @Success 200 {object} dto.Leaderboard
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /api/leaderboard [get]
func (h *GladiatorHandler) GetLeaderboard(c echo.Context) error {
	key, err := leaderboard.ParseSortKey(c.QueryParam("sort"))
	if err != nil {
		return ErrBadRequest(c, err.Error())
	}
	page, ok := intQuery(c, "page", 1)
	if !ok {
		return ErrBadRequest(c, "page must be a positive integer")
	}

	p, err := h.gladiators.Leaderboard(c.Request().Context(), key, page)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto.NewLeaderboard(key, p))
}

// Search godoc
// @Summary Search gladiators
// @Description Search gladiators by name, owner or ID
// @Tags gladiators
// @Produce json
// @Param q query string true "Search text"
// @Success 200 {array} dto.Gladiator
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /api/gladiators/search [get]
func (h *GladiatorHandler) Search(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return ErrBadRequest(c, "q is required")
	}

	entries, err := h.gladiators.Search(c.Request().Context(), q)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto.NewGladiators(entries))
}
