package services

import (
	"math/big"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/benbjohnson/clock"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"gonadarena/internal/chain"
	"gonadarena/internal/contracts"
	"gonadarena/internal/correlator"
	"gonadarena/internal/domain"
	r "gonadarena/internal/redis"
	"gonadarena/internal/store"
	"gonadarena/internal/testutil"
	"gonadarena/internal/txn"
)

var (
	arenaAddr       = common.HexToAddress("0x54e1d41837bDc3448101Eeffa779A959fA48bbD9")
	tokenAddr       = common.HexToAddress("0x74DB79c0Adb22f5869140893741091C8B312Ba69")
	distributorAddr = common.HexToAddress("0x7f88E6995dF4956D3c3430236EE36111B9aCFa6D")

	alice = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	carol = common.HexToAddress("0x000000000000000000000000000000000000ca01")
)

type memRoster struct {
	mu    sync.Mutex
	addrs []common.Address
}

func (m *memRoster) Addresses() ([]common.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]common.Address(nil), m.addrs...), nil
}

func (m *memRoster) Touch(addrs ...common.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range addrs {
		if a == (common.Address{}) || m.has(a) {
			continue
		}
		m.addrs = append(m.addrs, a)
	}
	return nil
}

func (m *memRoster) Remove(addr common.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, a := range m.addrs {
		if a == addr {
			m.addrs = append(m.addrs[:i], m.addrs[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memRoster) has(addr common.Address) bool {
	for _, a := range m.addrs {
		if a == addr {
			return true
		}
	}
	return false
}

type memArchive struct {
	records []domain.BattleRecord
}

func (m *memArchive) ListByAddress(address string, limit int) ([]domain.BattleRecord, error) {
	out := []domain.BattleRecord{}
	for _, rec := range m.records {
		if rec.Winner == address || rec.Loser == address {
			out = append(out, rec)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type recordingHub struct {
	mu       sync.Mutex
	messages []string
}

func (h *recordingHub) Broadcast(msgType string, _ interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, msgType)
}

func (h *recordingHub) types() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.messages...)
}

type fixture struct {
	backend     *testutil.FakeBackend
	wallet      *testutil.FakeWallet
	arena       *contracts.Arena
	token       *contracts.Token
	distributor *contracts.Distributor
	roster      *memRoster
	archive     *memArchive
	redis       *goredis.Client
	mini        *miniredis.Miniredis
	hub         *recordingHub
	battles     *correlator.Correlator[domain.BattleResult]

	gladiatorSvc *GladiatorService
	battleSvc    *BattleService
	tokenSvc     *TokenService
	socialSvc    *SocialService
	actionSvc    *ActionService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := zerolog.Nop()
	clk := clock.New()

	backend := testutil.NewFakeBackend()
	backend.Register(arenaAddr, contracts.GladiatorArenaABI)
	backend.Register(tokenAddr, contracts.GonadTokenABI)
	backend.Register(distributorAddr, contracts.GonadDistributorABI)
	backend.Returns(tokenAddr, "approve", true)

	arena, err := contracts.NewArena(arenaAddr, backend)
	require.NoError(t, err)
	token, err := contracts.NewToken(tokenAddr, backend)
	require.NoError(t, err)
	distributor, err := contracts.NewDistributor(distributorAddr, backend)
	require.NoError(t, err)

	mini := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mini.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	f := &fixture{
		backend:     backend,
		wallet:      testutil.NewFakeWallet(),
		arena:       arena,
		token:       token,
		distributor: distributor,
		roster:      &memRoster{},
		archive:     &memArchive{},
		redis:       rdb,
		mini:        mini,
		hub:         &recordingHub{},
	}

	client := chain.NewClient(backend, f.wallet, clk, chain.ClientOptions{
		PollInterval: 5 * time.Millisecond,
		Timeout:      time.Second,
	}, log)
	f.battles = correlator.New[domain.BattleResult](contracts.EventBattleResult, arena.ParseBattleResult, clk, log)
	tracker := txn.NewTracker(client, f.battles, arena, clk, 200*time.Millisecond, log)

	feed := store.NewSocialFeed(filepath.Join(t.TempDir(), "social.json"), log)

	f.gladiatorSvc = NewGladiatorService(arena, f.roster, r.NewRosterCache(rdb, 30*time.Second), clk, 30*time.Second, time.Millisecond, 4, log)
	f.battleSvc = NewBattleService(arena, f.archive, f.gladiatorSvc, clk, 30*time.Second, time.Millisecond, log)
	f.tokenSvc = NewTokenService(token, distributor, arenaAddr, clk, 30*time.Second, time.Millisecond, log)
	f.socialSvc = NewSocialService(feed, token, f.hub, clk, log)
	f.actionSvc = NewActionService(tracker, f.wallet, arena, token, distributor,
		f.gladiatorSvc, f.battleSvc, f.tokenSvc, f.socialSvc, log)
	return f
}

// gladiators answers getGladiator, isGladiator and getEarnings from rows keyed by owner.
func (f *fixture) gladiators(rows map[common.Address]testutil.GladiatorRow, earnings map[common.Address]int64) {
	row := func(addr common.Address) testutil.GladiatorRow {
		if g, ok := rows[addr]; ok {
			return g
		}
		return testutil.NewGladiatorRow("", 0, 0, 0, 0)
	}
	f.backend.Handle(arenaAddr, "getGladiator", func(_ common.Address, args []interface{}) ([]interface{}, error) {
		return []interface{}{row(args[0].(common.Address))}, nil
	})
	f.backend.Handle(arenaAddr, "isGladiator", func(_ common.Address, args []interface{}) ([]interface{}, error) {
		return []interface{}{row(args[0].(common.Address)).Level.Sign() > 0}, nil
	})
	f.backend.Handle(arenaAddr, "getEarnings", func(_ common.Address, args []interface{}) ([]interface{}, error) {
		return []interface{}{domain.Tokens(earnings[args[0].(common.Address)])}, nil
	})
}

// mineAll confirms every sent transaction, appending logs built by extra.
func (f *fixture) mineAll(extra func(tx *types.Transaction) []*types.Log) {
	f.backend.OnSend = func(tx *types.Transaction) *types.Receipt {
		var logs []*types.Log
		if extra != nil {
			logs = extra(tx)
		}
		return &types.Receipt{Status: types.ReceiptStatusSuccessful, Logs: logs}
	}
}

func (f *fixture) sentMethods(t *testing.T) []string {
	t.Helper()
	byAddress := map[common.Address]*contracts.Contract{
		arenaAddr:       f.arena.Contract,
		tokenAddr:       f.token.Contract,
		distributorAddr: f.distributor.Contract,
	}

	var methods []string
	for _, tx := range f.backend.Sent() {
		c, ok := byAddress[*tx.To()]
		require.True(t, ok)
		parsed := c.ABI()
		method, err := parsed.MethodById(tx.Data()[:4])
		require.NoError(t, err)
		methods = append(methods, method.Name)
	}
	return methods
}

func battleLog(winner, loser common.Address, battleID int64) *types.Log {
	l := testutil.EventLog(arenaAddr, contracts.GladiatorArenaABI, contracts.EventBattleResult,
		[]common.Hash{testutil.AddressTopic(winner), testutil.AddressTopic(loser)},
		"a legendary uppercut", domain.Tokens(3), big.NewInt(battleID), uint8(domain.RarityEpic))
	return &l
}
