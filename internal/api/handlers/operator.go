package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"gonadarena/internal/api/dto"
	"gonadarena/internal/api/middleware"
)

// RosterControl is the background roster refresh as seen by operators.
type RosterControl interface {
	Pause()
	Resume()
	Trigger()
	Paused() bool
}

// OperatorHandler lets operators steer background workers at runtime.
type OperatorHandler struct {
	roster RosterControl
	log    zerolog.Logger
}

func NewOperatorHandler(roster RosterControl, log zerolog.Logger) *OperatorHandler {
	return &OperatorHandler{
		roster: roster,
		log:    log.With().Str("handler", "operator").Logger(),
	}
}

func (h *OperatorHandler) status(c echo.Context, code int) error {
	return c.JSON(code, dto.RosterStatus{Paused: h.roster.Paused()})
}

func (h *OperatorHandler) audit(c echo.Context, action string) {
	operator, _ := middleware.GetOperatorFromContext(c.Request().Context())
	h.log.Info().Str("action", action).Str("operator", operator).Msg("roster control")
}

// GetRoster godoc
// @Summary Roster refresh status
// @Description Report whether the periodic roster refresh is paused
// @Tags operator
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.RosterStatus
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /api/operator/roster [get]
func (h *OperatorHandler) GetRoster(c echo.Context) error {
	return h.status(c, http.StatusOK)
}

// PauseRoster godoc
// @Summary Pause roster refresh
// @Description Stop the periodic roster refresh until resumed
// @Tags operator
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.RosterStatus
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /api/operator/roster/pause [post]
func (h *OperatorHandler) PauseRoster(c echo.Context) error {
	h.audit(c, "pause")
	h.roster.Pause()
	return h.status(c, http.StatusOK)
}

// ResumeRoster godoc
// @Summary Resume roster refresh
// @Description Restart the periodic roster refresh; a refresh runs right away
// @Tags operator
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.RosterStatus
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /api/operator/roster/resume [post]
func (h *OperatorHandler) ResumeRoster(c echo.Context) error {
	h.audit(c, "resume")
	h.roster.Resume()
	return h.status(c, http.StatusOK)
}

// RefreshRoster godoc
// @Summary Refresh roster now
// @Description Queue an immediate roster refresh, even while paused
// @Tags operator
// @Produce json
// @Security Bearer
// @Success 202 {object} dto.RosterStatus
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /api/operator/roster/refresh [post]
func (h *OperatorHandler) RefreshRoster(c echo.Context) error {
	h.audit(c, "refresh")
	h.roster.Trigger()
	return h.status(c, http.StatusAccepted)
}
