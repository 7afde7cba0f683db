package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"gonadarena/internal/api/dto"
	"gonadarena/internal/api/services"
)

const imageFetchTimeout = 15 * time.Second

type ImageHandler struct {
	images *services.ImageService
	log    zerolog.Logger
}

func NewImageHandler(images *services.ImageService, log zerolog.Logger) *ImageHandler {
	return &ImageHandler{
		images: images,
		log:    log.With().Str("handler", "image").Logger(),
	}
}

// GetImages godoc
// @Summary List gladiator images
// @Description List stored gladiator images, or proxy the image at url
// @Tags images
// @Produce json
// @Produce jpeg
// @Param url query string false "Remote image to proxy"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string
// @Router /api/gladiator-images [get]
func (h *ImageHandler) GetImages(c echo.Context) error {
	if url := c.QueryParam("url"); url != "" {
		return h.proxy(c, url)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"images": h.images.List()})
}

func (h *ImageHandler) proxy(c echo.Context, url string) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), imageFetchTimeout)
	defer cancel()

	body, err := h.images.Fetch(ctx, url)
	if err != nil {
		h.log.Warn().Err(err).Str("url", url).Msg("image proxy failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch image"})
	}
	return c.Blob(http.StatusOK, "image/jpeg", body)
}

// GetImage godoc
// @Summary Get gladiator image
// @Description Resolve the image URL for an address
// @Tags images
// @Produce json
// @Param address path string true "Wallet address"
// @Success 200 {object} dto.ImageResolution
// @Router /api/gladiator-images/{address} [get]
func (h *ImageHandler) GetImage(c echo.Context) error {
	address := c.Param("address")
	return c.JSON(http.StatusOK, dto.ImageResolution{
		Address:  address,
		ImageURL: h.images.Resolve(address),
	})
}

// PostImage godoc
// @Summary Store gladiator image
// @Description Store the image URL of a gladiator
// @Tags images
// @Accept json
// @Produce json
// @Param request body dto.GladiatorImageRequest true "Image"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/gladiator-images [post]
func (h *ImageHandler) PostImage(c echo.Context) error {
	var req dto.GladiatorImageRequest
	if err := c.Bind(&req); err != nil {
		return ErrBadRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return ErrBadRequest(c, err.Error())
	}

	if _, err := h.images.Put(req.Address, req.ImageURL, req.Name); err != nil {
		return handleError(c, h.log, err)
	}
	return SuccessResponse(c)
}
