package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"gonadarena/internal/api/services"
	"gonadarena/internal/domain"
	"gonadarena/internal/leaderboard"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"not found", fmt.Errorf("get: %w", domain.ErrGladiatorNotFound), http.StatusNotFound, "get: gladiator not found"},
		{"no wallet", domain.ErrWalletNotConfigured, http.StatusServiceUnavailable, "wallet not configured"},
		{"already forged", domain.ErrAlreadyGladiator, http.StatusConflict, "wallet already has a gladiator"},
		{"claimed", domain.ErrAirdropClaimed, http.StatusConflict, "airdrop already claimed"},
		{"presale bound", domain.ErrPresaleBelowMin, http.StatusBadRequest, "min 1 GONAD required"},
		{"sort key", leaderboard.ErrUnknownSortKey, http.StatusBadRequest, "unknown sort key"},
		{"image url", services.ErrInvalidImageURL, http.StatusBadRequest, "invalid image url"},
		{"simulation", domain.NewTxError(domain.KindSimulation, errors.New("execution reverted: Cooldown")), http.StatusBadRequest, "execution reverted: Cooldown"},
		{"rejection", domain.NewTxError(domain.KindUserRejection, errors.New("denied")), http.StatusConflict, "transaction rejected"},
		{"submission", domain.NewTxError(domain.KindSubmission, errors.New("nonce too low")), http.StatusBadGateway, "nonce too low"},
		{"decode", domain.NewTxError(domain.KindDecode, errors.New("bad log")), http.StatusBadGateway, "bad log"},
		{"receipt", domain.NewTxError(domain.KindReceipt, errors.New("reverted")), http.StatusUnprocessableEntity, "reverted"},
		{"receipt timeout", domain.NewTxError(domain.KindNetwork, fmt.Errorf("%w: 0xabc: %w", domain.ErrReceiptTimeout, context.DeadlineExceeded)), http.StatusGatewayTimeout, "transaction still pending"},
		{"network", fmt.Errorf("call: %w", domain.NewTxError(domain.KindNetwork, errors.New("eof"))), http.StatusServiceUnavailable, "chain unavailable"},
		{"unknown", errors.New("disk full"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := statusFor(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.msg, msg)
		})
	}
}
