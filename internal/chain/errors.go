package chain

import (
	"errors"
	"strings"

	"gonadarena/internal/domain"
)

var rejectionMarkers = []string{"user rejected", "request denied"}

// IsUserRejection reports whether a signer refused to sign.
func IsUserRejection(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, m := range rejectionMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "rate limit")
}

// ClassifyRead tags a failed eth_call as a network failure unless it already has a kind.
func ClassifyRead(err error) error {
	var txErr *domain.TxError
	if errors.As(err, &txErr) {
		return err
	}
	return domain.NewTxError(domain.KindNetwork, err)
}

func classifySign(err error) error {
	if IsUserRejection(err) {
		return domain.NewTxError(domain.KindUserRejection, err)
	}
	return domain.NewTxError(domain.KindSubmission, err)
}
