package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"gonadarena/internal/api/dto"
	"gonadarena/internal/api/services"
	"gonadarena/internal/domain"
)

type SocialHandler struct {
	social *services.SocialService
	log    zerolog.Logger
}

func NewSocialHandler(social *services.SocialService, log zerolog.Logger) *SocialHandler {
	return &SocialHandler{
		social: social,
		log:    log.With().Str("handler", "social").Logger(),
	}
}

// GetEvents godoc
// @Summary Social feed
// @Description Get the social feed, newest first
// @Tags social
// @Produce json
// @Success 200 {array} domain.SocialEvent
// @Router /api/social-events [get]
func (h *SocialHandler) GetEvents(c echo.Context) error {
	return c.JSON(http.StatusOK, h.social.List())
}

// PostEvent godoc
// @Summary Post social event
// @Description Add an event to the social feed
// @Tags social
// @Accept json
// @Produce json
// @Param request body dto.SocialEventRequest true "Event"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/social-events [post]
func (h *SocialHandler) PostEvent(c echo.Context) error {
	var req dto.SocialEventRequest
	if err := c.Bind(&req); err != nil {
		return ErrBadRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return ErrBadRequest(c, err.Error())
	}

	_, err := h.social.Post(domain.SocialEvent{
		ID:        req.ID,
		Type:      domain.SocialEventKind(req.Type),
		Sender:    req.Sender,
		Content:   req.Content,
		Timestamp: req.Timestamp,
		Metadata:  req.Metadata,
	})
	if err != nil {
		return handleError(c, h.log, err)
	}
	return SuccessResponse(c)
}
