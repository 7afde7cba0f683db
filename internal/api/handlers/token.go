package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"gonadarena/internal/api/dto"
	"gonadarena/internal/api/services"
)

type TokenHandler struct {
	tokens *services.TokenService
	log    zerolog.Logger
}

func NewTokenHandler(tokens *services.TokenService, log zerolog.Logger) *TokenHandler {
	return &TokenHandler{
		tokens: tokens,
		log:    log.With().Str("handler", "token").Logger(),
	}
}

// GetStatus godoc
// @Summary Token status
// @Description Get the GONAD balance and flex status of an address
// @Tags tokens
// @Produce json
// @Param address path string true "Wallet address"
// @Success 200 {object} dto.TokenStatus
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /api/token/{address} [get]
func (h *TokenHandler) GetStatus(c echo.Context) error {
	addr, err := addressParam(c, "address")
	if err != nil {
		return ErrBadRequest(c, err.Error())
	}

	status, err := h.tokens.Status(c.Request().Context(), addr)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto.NewTokenStatus(addr.Hex(), status))
}

// GetAirdrop godoc
// @Summary Airdrop info
// @Description Get the airdrop eligibility of an address
// @Tags tokens
// @Produce json
// @Param address path string true "Wallet address"
// @Success 200 {object} dto.AirdropInfo
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /api/airdrop/{address} [get]
func (h *TokenHandler) GetAirdrop(c echo.Context) error {
	addr, err := addressParam(c, "address")
	if err != nil {
		return ErrBadRequest(c, err.Error())
	}

	info, err := h.tokens.Airdrop(c.Request().Context(), addr)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto.NewAirdropInfo(info))
}

// GetPresale godoc
// @Summary Presale info
// @Description Get the presale state for an address
// @Tags tokens
// @Produce json
// @Param address path string true "Wallet address"
// @Success 200 {object} dto.PresaleInfo
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /api/presale/{address} [get]
func (h *TokenHandler) GetPresale(c echo.Context) error {
	addr, err := addressParam(c, "address")
	if err != nil {
		return ErrBadRequest(c, err.Error())
	}

	info, err := h.tokens.Presale(c.Request().Context(), addr)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto.NewPresaleInfo(info))
}
