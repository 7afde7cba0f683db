package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/benbjohnson/clock"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"gonadarena/internal/api/services"
	"gonadarena/internal/api/ws"
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
)

type roster struct {
	mu    sync.Mutex
	addrs []common.Address
}

func (m *roster) Addresses() ([]common.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]common.Address(nil), m.addrs...), nil
}

func (m *roster) Touch(addrs ...common.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range addrs {
		known := false
		for _, b := range m.addrs {
			known = known || a == b
		}
		if !known {
			m.addrs = append(m.addrs, a)
		}
	}
	return nil
}

func (m *roster) Remove(addr common.Address) error {
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

type archive []domain.BattleRecord

func (a archive) ListByAddress(address string, limit int) ([]domain.BattleRecord, error) {
	out := []domain.BattleRecord{}
	for _, rec := range a {
		if (rec.Winner == address || rec.Loser == address) && len(out) < limit {
			out = append(out, rec)
		}
	}
	return out, nil
}

type fixture struct {
	e       *echo.Echo
	backend *testutil.FakeBackend
	wallet  *testutil.FakeWallet
	roster  *roster

	gladiators *GladiatorHandler
	battles    *BattleHandler
	tokens     *TokenHandler
	social     *SocialHandler
	images     *ImageHandler
	actions    *ActionHandler
}

type fixtureOptions struct {
	withoutWallet bool
	archive       archive
}

func newFixture(t *testing.T, opts ...fixtureOptions) *fixture {
	t.Helper()
	var opt fixtureOptions
	if len(opts) > 0 {
		opt = opts[0]
	}
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

	hub := ws.NewHub(log)
	t.Cleanup(hub.Close)

	wallet := testutil.NewFakeWallet()
	var signer chain.Wallet = wallet
	if opt.withoutWallet {
		signer = nil
	}

	client := chain.NewClient(backend, wallet, clk, chain.ClientOptions{
		PollInterval: 5 * time.Millisecond,
		Timeout:      time.Second,
	}, log)
	battles := correlator.New[domain.BattleResult](contracts.EventBattleResult, arena.ParseBattleResult, clk, log)
	tracker := txn.NewTracker(client, battles, arena, clk, 200*time.Millisecond, log)

	dir := t.TempDir()
	feed := store.NewSocialFeed(filepath.Join(dir, "social.json"), log)
	images := store.NewImageStore(filepath.Join(dir, "images.json"), "/images/gonad.png", clk, log)

	ros := &roster{}
	gladiatorSvc := services.NewGladiatorService(arena, ros, r.NewRosterCache(rdb, 30*time.Second), clk, 30*time.Second, time.Millisecond, 4, log)
	battleSvc := services.NewBattleService(arena, opt.archive, gladiatorSvc, clk, 30*time.Second, time.Millisecond, log)
	tokenSvc := services.NewTokenService(token, distributor, arenaAddr, clk, 30*time.Second, time.Millisecond, log)
	socialSvc := services.NewSocialService(feed, token, hub, clk, log)
	actionSvc := services.NewActionService(tracker, signer, arena, token, distributor,
		gladiatorSvc, battleSvc, tokenSvc, socialSvc, log)

	e := echo.New()
	e.Validator = NewValidator()

	return &fixture{
		e:          e,
		backend:    backend,
		wallet:     wallet,
		roster:     ros,
		gladiators: NewGladiatorHandler(gladiatorSvc, log),
		battles:    NewBattleHandler(battleSvc, log),
		tokens:     NewTokenHandler(tokenSvc, log),
		social:     NewSocialHandler(socialSvc, log),
		images:     NewImageHandler(services.NewImageService(images, log), log),
		actions:    NewActionHandler(actionSvc, log),
	}
}

// request builds an echo context for target; body, when set, is sent as JSON.
func (f *fixture) request(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return f.e.NewContext(req, rec), rec
}

func (f *fixture) withParam(c echo.Context, path, name, value string) echo.Context {
	c.SetPath(path)
	c.SetParamNames(name)
	c.SetParamValues(value)
	return c
}

// gladiators answers the arena reads from rows keyed by owner.
func (f *fixture) gladiatorRows(rows map[common.Address]testutil.GladiatorRow) {
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
	f.backend.Returns(arenaAddr, "getEarnings", domain.Tokens(4))
	for addr := range rows {
		_ = f.roster.Touch(addr)
	}
}

func (f *fixture) mineAll(logs func() []*types.Log) {
	f.backend.OnSend = func(*types.Transaction) *types.Receipt {
		var out []*types.Log
		if logs != nil {
			out = logs()
		}
		return &types.Receipt{Status: types.ReceiptStatusSuccessful, Logs: out}
	}
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}
