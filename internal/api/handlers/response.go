package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"gonadarena/internal/api/services"
	"gonadarena/internal/domain"
	"gonadarena/internal/leaderboard"
	"gonadarena/internal/store"
	"gonadarena/internal/txn"
)

func ErrUnauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
}

func ErrNotFound(c echo.Context, message string) error {
	if message == "" {
		message = "not found"
	}
	return c.JSON(http.StatusNotFound, map[string]string{"error": message})
}

func ErrBadRequest(c echo.Context, message string) error {
	if message == "" {
		message = "invalid request"
	}
	return c.JSON(http.StatusBadRequest, map[string]string{"error": message})
}

func ErrInternalServerError(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

func ErrConflict(c echo.Context, message string) error {
	if message == "" {
		message = "conflict"
	}
	return c.JSON(http.StatusConflict, map[string]string{"error": message})
}

func ErrServiceUnavailable(c echo.Context, message string) error {
	if message == "" {
		message = "service unavailable"
	}
	return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": message})
}

func SuccessResponse(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

var badRequestErrors = []error{
	domain.ErrNoGladiator,
	domain.ErrOpponentNotFound,
	domain.ErrSelfFight,
	domain.ErrInvalidAddress,
	domain.ErrInvalidAmount,
	domain.ErrInsufficientGonad,
	domain.ErrAirdropInactive,
	domain.ErrPresaleInactive,
	domain.ErrPresaleAboveMax,
	domain.ErrPresaleBelowMin,
	domain.ErrPresaleWalletLimit,
	domain.ErrEmptyMeme,
	domain.ErrEmptyName,
	leaderboard.ErrUnknownSortKey,
	services.ErrInvalidImageURL,
	store.ErrInvalidEvent,
}

// statusFor maps a service error onto an HTTP status and the message shown to
// the caller. Unknown errors become a generic 500.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrGladiatorNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrWalletNotConfigured):
		return http.StatusServiceUnavailable, err.Error()
	case errors.Is(err, domain.ErrAlreadyGladiator), errors.Is(err, domain.ErrAirdropClaimed):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrReceiptTimeout):
		return http.StatusGatewayTimeout, domain.ErrReceiptTimeout.Error()
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest, err.Error()
		}
	}

	switch domain.KindOf(err) {
	case domain.KindSimulation:
		return http.StatusBadRequest, err.Error()
	case domain.KindUserRejection:
		return http.StatusConflict, "transaction rejected"
	case domain.KindSubmission, domain.KindDecode:
		return http.StatusBadGateway, err.Error()
	case domain.KindReceipt:
		return http.StatusUnprocessableEntity, err.Error()
	case domain.KindNetwork:
		return http.StatusServiceUnavailable, "chain unavailable"
	}
	return http.StatusInternalServerError, "internal server error"
}

func handleError(c echo.Context, log zerolog.Logger, err error) error {
	status, msg := statusFor(err)
	logFailure(log, c, status, err)
	return c.JSON(status, map[string]string{"error": msg})
}

type actionFailure struct {
	Error       string  `json:"error"`
	Kind        string  `json:"kind,omitempty"`
	Transaction *txn.Tx `json:"transaction,omitempty"`
}

// handleActionError is handleError for writes: once a transaction was
// tracked its record is returned alongside the message.
func handleActionError(c echo.Context, log zerolog.Logger, tx txn.Tx, err error) error {
	status, msg := statusFor(err)
	logFailure(log, c, status, err)

	body := actionFailure{Error: msg, Kind: string(domain.KindOf(err))}
	if tx.ID != uuid.Nil {
		body.Transaction = &tx
	}
	return c.JSON(status, body)
}

func logFailure(log zerolog.Logger, c echo.Context, status int, err error) {
	ev := log.Debug()
	if status >= http.StatusInternalServerError {
		ev = log.Error()
	}
	ev.Err(err).
		Int("status", status).
		Str("path", c.Path()).
		Msg("request failed")
}
