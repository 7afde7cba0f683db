package services

import (
	"context"
	"errors"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"gonadarena/internal/chain"
	"gonadarena/internal/contracts"
	"gonadarena/internal/domain"
	"gonadarena/internal/txn"
)

const (
	ActionCreateGladiator = "create_gladiator"
	ActionApprove         = "approve"
	ActionKill            = "kill_gladiator"
	ActionFight           = "fight"
	ActionClaimAirdrop    = "claim_airdrop"
	ActionClaimPresale    = "claim_presale"
	ActionFlex            = "flex"
	ActionPostMeme        = "post_meme"
)

// ActionService performs contract writes on behalf of the configured wallet.
// Every write runs through the transaction tracker; guards that can be
// checked with reads run before anything is simulated or signed.
type ActionService struct {
	tracker     *txn.Tracker
	wallet      chain.Wallet
	arena       *contracts.Arena
	token       *contracts.Token
	distributor *contracts.Distributor
	gladiators  *GladiatorService
	battles     *BattleService
	tokens      *TokenService
	social      *SocialService
	log         zerolog.Logger
}

func NewActionService(
	tracker *txn.Tracker,
	wallet chain.Wallet,
	arena *contracts.Arena,
	token *contracts.Token,
	distributor *contracts.Distributor,
	gladiators *GladiatorService,
	battles *BattleService,
	tokens *TokenService,
	social *SocialService,
	log zerolog.Logger,
) *ActionService {
	return &ActionService{
		tracker:     tracker,
		wallet:      wallet,
		arena:       arena,
		token:       token,
		distributor: distributor,
		gladiators:  gladiators,
		battles:     battles,
		tokens:      tokens,
		social:      social,
		log:         log.With().Str("service", "action").Logger(),
	}
}

func (s *ActionService) Transaction(id uuid.UUID) (txn.Tx, bool) {
	return s.tracker.Get(id)
}

func (s *ActionService) owner() (common.Address, error) {
	if s.wallet == nil {
		return common.Address{}, domain.ErrWalletNotConfigured
	}
	return s.wallet.Address(), nil
}

func (s *ActionService) execute(ctx context.Context, action string, call chain.Call, err error) (txn.Result, error) {
	if err != nil {
		return txn.Result{}, err
	}
	return s.tracker.Execute(ctx, txn.Request{Action: action, Call: call})
}

func (s *ActionService) CreateGladiator(ctx context.Context, name, battleCry string) (txn.Tx, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return txn.Tx{}, domain.ErrEmptyName
	}
	owner, err := s.owner()
	if err != nil {
		return txn.Tx{}, err
	}

	exists, err := s.gladiators.IsGladiator(ctx, owner)
	if err != nil {
		return txn.Tx{}, err
	}
	if exists {
		return txn.Tx{}, domain.ErrAlreadyGladiator
	}

	call, err := s.arena.CreateGladiator(name, strings.TrimSpace(battleCry))
	res, err := s.execute(ctx, ActionCreateGladiator, call, err)
	if err != nil {
		return res.Tx, err
	}

	if err := s.gladiators.Track(owner); err != nil {
		s.log.Warn().Err(err).Str("address", owner.Hex()).Msg("failed to add gladiator to roster")
	}
	s.gladiators.Invalidate(ctx, owner)
	return res.Tx, nil
}

// Kill retires the wallet's gladiator. The arena charges KillCost, so an
// allowance below it is raised to the maximum first.
func (s *ActionService) Kill(ctx context.Context) (txn.Tx, error) {
	owner, err := s.owner()
	if err != nil {
		return txn.Tx{}, err
	}

	exists, err := s.gladiators.IsGladiator(ctx, owner)
	if err != nil {
		return txn.Tx{}, err
	}
	if !exists {
		return txn.Tx{}, domain.ErrNoGladiator
	}

	balance, err := s.tokens.Balance(ctx, owner)
	if err != nil {
		return txn.Tx{}, err
	}
	if balance.Cmp(domain.KillCost) < 0 {
		return txn.Tx{}, domain.ErrInsufficientGonad
	}

	allowance, err := s.tokens.Allowance(ctx, owner)
	if err != nil {
		return txn.Tx{}, err
	}
	if domain.NeedsApproval(allowance) {
		call, err := s.token.Approve(s.arena.Address, domain.MaxAllowance)
		res, err := s.execute(ctx, ActionApprove, call, err)
		if err != nil {
			return res.Tx, err
		}
		s.tokens.Invalidate(owner)
	}

	call, err := s.arena.KillGladiator()
	res, err := s.execute(ctx, ActionKill, call, err)
	if err != nil {
		return res.Tx, err
	}

	if err := s.gladiators.Forget(ctx, owner); err != nil {
		s.log.Warn().Err(err).Str("address", owner.Hex()).Msg("failed to drop gladiator from roster")
	}
	s.tokens.Invalidate(owner)
	return res.Tx, nil
}

// Fight challenges opponent and waits for the BattleResult, either from the
// receipt or from the event stream.
func (s *ActionService) Fight(ctx context.Context, opponent common.Address) (txn.Tx, error) {
	if opponent == (common.Address{}) {
		return txn.Tx{}, domain.ErrInvalidAddress
	}
	owner, err := s.owner()
	if err != nil {
		return txn.Tx{}, err
	}
	if opponent == owner {
		return txn.Tx{}, domain.ErrSelfFight
	}

	exists, err := s.gladiators.IsGladiator(ctx, owner)
	if err != nil {
		return txn.Tx{}, err
	}
	if !exists {
		return txn.Tx{}, domain.ErrNoGladiator
	}
	exists, err = s.gladiators.IsGladiator(ctx, opponent)
	if err != nil {
		return txn.Tx{}, err
	}
	if !exists {
		return txn.Tx{}, domain.ErrOpponentNotFound
	}

	call, err := s.arena.Fight(opponent)
	if err != nil {
		return txn.Tx{}, err
	}
	res, err := s.tracker.Execute(ctx, txn.Request{Action: ActionFight, Call: call, ExpectBattle: true})
	if err != nil {
		return res.Tx, err
	}

	for _, addr := range []common.Address{owner, opponent} {
		s.gladiators.Invalidate(ctx, addr)
		s.tokens.Invalidate(addr)
	}
	s.battles.Invalidate()
	return res.Tx, nil
}

func (s *ActionService) ClaimAirdrop(ctx context.Context) (txn.Tx, error) {
	owner, err := s.owner()
	if err != nil {
		return txn.Tx{}, err
	}

	info, err := s.tokens.Airdrop(ctx, owner)
	if err != nil {
		return txn.Tx{}, err
	}
	if !info.Active {
		return txn.Tx{}, domain.ErrAirdropInactive
	}
	if info.HasClaimed {
		return txn.Tx{}, domain.ErrAirdropClaimed
	}

	call, err := s.distributor.ClaimAirdrop()
	res, err := s.execute(ctx, ActionClaimAirdrop, call, err)
	if err != nil {
		return res.Tx, err
	}
	s.tokens.Invalidate(owner)
	return res.Tx, nil
}

// ClaimPresale buys GONAD for monWei. The amount bounds are checked before
// the wallet or the chain is consulted.
func (s *ActionService) ClaimPresale(ctx context.Context, monWei *big.Int) (txn.Tx, error) {
	gonad, err := domain.PresaleAmount(monWei)
	if err != nil {
		return txn.Tx{}, err
	}
	owner, err := s.owner()
	if err != nil {
		return txn.Tx{}, err
	}

	info, err := s.tokens.Presale(ctx, owner)
	if err != nil {
		return txn.Tx{}, err
	}
	if !info.Active {
		return txn.Tx{}, domain.ErrPresaleInactive
	}
	if err := domain.CheckPresaleWalletLimit(info.UserClaimed, gonad); err != nil {
		return txn.Tx{}, err
	}

	call, err := s.distributor.ClaimPresale(gonad, monWei)
	res, err := s.execute(ctx, ActionClaimPresale, call, err)
	if err != nil {
		return res.Tx, presaleError(err)
	}
	s.tokens.Invalidate(owner)
	return res.Tx, nil
}

func presaleError(err error) error {
	var txErr *domain.TxError
	if !errors.As(err, &txErr) {
		return err
	}
	msg := domain.PresaleRevertMessage(txErr.Error())
	if msg == txErr.Error() {
		return err
	}
	return &domain.TxError{Kind: txErr.Kind, Msg: msg, Err: txErr.Err}
}

func (s *ActionService) Flex(ctx context.Context) (txn.Tx, error) {
	owner, err := s.owner()
	if err != nil {
		return txn.Tx{}, err
	}

	call, err := s.token.FlexOnThem()
	res, err := s.execute(ctx, ActionFlex, call, err)
	if err != nil {
		return res.Tx, err
	}
	s.recordSocial(res.Receipt)
	s.tokens.Invalidate(owner)
	return res.Tx, nil
}

func (s *ActionService) PostMeme(ctx context.Context, meme string) (txn.Tx, error) {
	meme = strings.TrimSpace(meme)
	if meme == "" {
		return txn.Tx{}, domain.ErrEmptyMeme
	}
	owner, err := s.owner()
	if err != nil {
		return txn.Tx{}, err
	}

	call, err := s.token.PostMeme(meme)
	res, err := s.execute(ctx, ActionPostMeme, call, err)
	if err != nil {
		return res.Tx, err
	}
	s.recordSocial(res.Receipt)
	s.tokens.Invalidate(owner)
	return res.Tx, nil
}

func (s *ActionService) recordSocial(receipt *types.Receipt) {
	if receipt == nil || s.social == nil {
		return
	}
	logs := make([]types.Log, 0, len(receipt.Logs))
	for _, l := range receipt.Logs {
		if l != nil {
			logs = append(logs, *l)
		}
	}
	s.social.Record(logs...)
}
