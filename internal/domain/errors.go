package domain

import (
	"errors"
	"strings"
)

var (
	ErrGladiatorNotFound   = errors.New("gladiator not found")
	ErrNoGladiator         = errors.New("wallet has no gladiator")
	ErrAlreadyGladiator    = errors.New("wallet already has a gladiator")
	ErrOpponentNotFound    = errors.New("opponent is not a gladiator")
	ErrSelfFight           = errors.New("cannot fight yourself")
	ErrInvalidAddress      = errors.New("invalid address")
	ErrInsufficientGonad   = errors.New("insufficient GONAD balance")
	ErrAirdropInactive     = errors.New("airdrop is not active")
	ErrAirdropClaimed      = errors.New("airdrop already claimed")
	ErrPresaleInactive     = errors.New("presale is not active")
	ErrPresaleAboveMax     = errors.New("max 100 GONAD per tx")
	ErrPresaleBelowMin     = errors.New("min 1 GONAD required")
	ErrPresaleWalletLimit  = errors.New("max 1000 GONAD per wallet")
	ErrEmptyMeme           = errors.New("meme is empty")
	ErrEmptyName           = errors.New("name is empty")
	ErrWalletNotConfigured = errors.New("wallet not configured")
	ErrReceiptTimeout      = errors.New("transaction still pending")
)

type ErrorKind string

const (
	KindSimulation    ErrorKind = "simulation"
	KindUserRejection ErrorKind = "user_rejection"
	KindSubmission    ErrorKind = "submission"
	KindReceipt       ErrorKind = "receipt"
	KindDecode        ErrorKind = "decode"
	KindNetwork       ErrorKind = "network"
)

var (
	ErrSimulationFailed = errors.New("simulation failed")
	ErrUserRejected     = errors.New("user rejected")
	ErrSubmissionFailed = errors.New("submission failed")
	ErrReceiptFailed    = errors.New("transaction reverted")
	ErrDecodeFailed     = errors.New("decode failed")
	ErrNetworkFailed    = errors.New("network failure")
)

var kindSentinels = map[ErrorKind]error{
	KindSimulation:    ErrSimulationFailed,
	KindUserRejection: ErrUserRejected,
	KindSubmission:    ErrSubmissionFailed,
	KindReceipt:       ErrReceiptFailed,
	KindDecode:        ErrDecodeFailed,
	KindNetwork:       ErrNetworkFailed,
}

// TxError carries an error kind along with the node or wallet message verbatim.
type TxError struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func NewTxError(kind ErrorKind, err error) *TxError {
	e := &TxError{Kind: kind, Err: err}
	if err != nil {
		e.Msg = err.Error()
	}
	return e
}

func (e *TxError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return kindSentinels[e.Kind].Error()
}

func (e *TxError) Unwrap() error {
	return e.Err
}

func (e *TxError) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && sentinel == target
}

// KindOf returns the kind of the first TxError in the chain, or "" when there is none.
func KindOf(err error) ErrorKind {
	var txErr *TxError
	if errors.As(err, &txErr) {
		return txErr.Kind
	}
	return ""
}

var presaleReverts = []struct {
	needle string
	err    error
}{
	{"Exceeds user limit", ErrPresaleWalletLimit},
	{"Insufficient balance", errors.New("not enough MON")},
	{"Below minimum amount", ErrPresaleBelowMin},
	{"Exceeds maximum amount", ErrPresaleAboveMax},
}

// PresaleRevertMessage maps a distributor revert reason to a user facing message.
// Unknown reasons are returned unchanged.
func PresaleRevertMessage(msg string) string {
	for _, r := range presaleReverts {
		if strings.Contains(msg, r.needle) {
			return r.err.Error()
		}
	}
	return msg
}
