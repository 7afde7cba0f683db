package handlers

import (
	"context"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"gonadarena/internal/api/dto"
	"gonadarena/internal/api/middleware"
	"gonadarena/internal/api/services"
	"gonadarena/internal/domain"
	"gonadarena/internal/txn"
)

// ActionHandler exposes the server wallet's contract writes. Each request
// blocks until the transaction settles and answers with its tracker record.
type ActionHandler struct {
	actions *services.ActionService
	log     zerolog.Logger
}

func NewActionHandler(actions *services.ActionService, log zerolog.Logger) *ActionHandler {
	return &ActionHandler{
		actions: actions,
		log:     log.With().Str("handler", "action").Logger(),
	}
}

type actionFunc func(ctx context.Context) (txn.Tx, error)

// run executes fn detached from the client connection so a dropped request
// does not abandon a transaction that was already signed.
func (h *ActionHandler) run(c echo.Context, name string, fn actionFunc) error {
	operator, _ := middleware.GetOperatorFromContext(c.Request().Context())
	h.log.Info().Str("action", name).Str("operator", operator).Msg("action requested")

	tx, err := fn(context.WithoutCancel(c.Request().Context()))
	if err != nil {
		return handleActionError(c, h.log, tx, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"transaction": tx})
}

// CreateGladiator godoc
// @Summary Create gladiator
// @Description Mint a gladiator for the server wallet and wait for the receipt
// @Tags actions
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.CreateGladiatorRequest true "Create gladiator parameters"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Failure 504 {object} map[string]string
// @Router /api/actions/gladiator [post]
func (h *ActionHandler) CreateGladiator(c echo.Context) error {
	var req dto.CreateGladiatorRequest
	if err := c.Bind(&req); err != nil {
		return ErrBadRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return ErrBadRequest(c, err.Error())
	}
	return h.run(c, services.ActionCreateGladiator, func(ctx context.Context) (txn.Tx, error) {
		return h.actions.CreateGladiator(ctx, req.Name, req.BattleCry)
	})
}

// Kill godoc
// @Summary Kill gladiator
// @Description Retire the server wallet gladiator
// @Tags actions
// @Accept json
// @Produce json
// @Security Bearer
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Failure 504 {object} map[string]string
// @Router /api/actions/kill [post]
func (h *ActionHandler) Kill(c echo.Context) error {
	return h.run(c, services.ActionKill, h.actions.Kill)
}

// Fight godoc
// @Summary Fight
// @Description Challenge an opponent gladiator
// @Tags actions
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.FightRequest true "Fight parameters"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Failure 504 {object} map[string]string
// @Router /api/actions/fight [post]
func (h *ActionHandler) Fight(c echo.Context) error {
	var req dto.FightRequest
	if err := c.Bind(&req); err != nil {
		return ErrBadRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return ErrBadRequest(c, err.Error())
	}
	opponent := common.HexToAddress(req.Opponent)
	return h.run(c, services.ActionFight, func(ctx context.Context) (txn.Tx, error) {
		return h.actions.Fight(ctx, opponent)
	})
}

// ClaimAirdrop godoc
// @Summary Claim airdrop
// @Description Claim the GONAD airdrop for the server wallet
// @Tags actions
// @Accept json
// @Produce json
// @Security Bearer
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Failure 504 {object} map[string]string
// @Router /api/actions/airdrop [post]
func (h *ActionHandler) ClaimAirdrop(c echo.Context) error {
	return h.run(c, services.ActionClaimAirdrop, h.actions.ClaimAirdrop)
}

// ClaimPresale godoc
// @Summary Buy presale
// @Description Buy presale tokens with MON
// @Tags actions
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.PresaleRequest true "Buy presale parameters"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Failure 504 {object} map[string]string
// @Router /api/actions/presale [post]
func (h *ActionHandler) ClaimPresale(c echo.Context) error {
	var req dto.PresaleRequest
	if err := c.Bind(&req); err != nil {
		return ErrBadRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return ErrBadRequest(c, err.Error())
	}
	mon, err := domain.ParseTokens(req.Amount)
	if err != nil {
		return ErrBadRequest(c, err.Error())
	}
	return h.run(c, services.ActionClaimPresale, func(ctx context.Context) (txn.Tx, error) {
		return h.actions.ClaimPresale(ctx, mon)
	})
}

// Flex godoc
// @Summary Flex
// @Description Spend tokens to flex the server wallet gladiator
// @Tags actions
// @Accept json
// @Produce json
// @Security Bearer
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Failure 504 {object} map[string]string
// @Router /api/actions/flex [post]
func (h *ActionHandler) Flex(c echo.Context) error {
	return h.run(c, services.ActionFlex, h.actions.Flex)
}

// PostMeme godoc
// @Summary Post meme
// @Description Publish a meme on chain
// @Tags actions
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.MemeRequest true "Post meme parameters"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Failure 504 {object} map[string]string
// @Router /api/actions/meme [post]
func (h *ActionHandler) PostMeme(c echo.Context) error {
	var req dto.MemeRequest
	if err := c.Bind(&req); err != nil {
		return ErrBadRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return ErrBadRequest(c, err.Error())
	}
	return h.run(c, services.ActionPostMeme, func(ctx context.Context) (txn.Tx, error) {
		return h.actions.PostMeme(ctx, req.Meme)
	})
}

// GetTransaction godoc
// @Summary Get transaction
// @Description Get the tracker record of an action transaction
// @Tags actions
// @Produce json
// @Security Bearer
// @Param id path string true "Transaction ID"
// @Success 200 {object} txn.Tx
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/actions/{id} [get]
func (h *ActionHandler) GetTransaction(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return ErrBadRequest(c, "invalid transaction id")
	}
	tx, ok := h.actions.Transaction(id)
	if !ok {
		return ErrNotFound(c, "transaction not found")
	}
	return c.JSON(http.StatusOK, tx)
}
