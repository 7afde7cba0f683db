package contracts

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gonadarena/internal/domain"
	"gonadarena/internal/testutil"
)

var distributorAddr = common.HexToAddress("0x7f88E6995dF4956D3c3430236EE36111B9aCFa6D")

func setupDistributor(t *testing.T) (*Distributor, *testutil.FakeBackend) {
	t.Helper()
	backend := testutil.NewFakeBackend()
	backend.Register(distributorAddr, GonadDistributorABI)
	d, err := NewDistributor(distributorAddr, backend)
	require.NoError(t, err)
	return d, backend
}

func TestDistributor_GetAirdropInfo(t *testing.T) {
	d, backend := setupDistributor(t)
	backend.Returns(distributorAddr, "getAirdropInfo", true, domain.Tokens(10), domain.Tokens(5000), false)
	backend.Returns(distributorAddr, "hasClaimedAirdrop", true)

	info, err := d.GetAirdropInfo(context.Background(), alice)
	require.NoError(t, err)
	assert.True(t, info.Active)
	assert.True(t, info.HasClaimed)
	assert.Equal(t, 0, domain.Tokens(10).Cmp(info.Amount))
}

func TestDistributor_GetPresaleInfo(t *testing.T) {
	d, backend := setupDistributor(t)
	backend.Returns(distributorAddr, "getPresaleInfo", true, domain.Tokens(100), domain.Tokens(900), big.NewInt(0), domain.Tokens(1000))
	backend.Handle(distributorAddr, "presaleClaims", func(_ common.Address, args []interface{}) ([]interface{}, error) {
		require.Equal(t, alice, args[0].(common.Address))
		return []interface{}{domain.Tokens(250)}, nil
	})

	info, err := d.GetPresaleInfo(context.Background(), alice)
	require.NoError(t, err)
	assert.True(t, info.Active)
	assert.Equal(t, 0, domain.Tokens(250).Cmp(info.UserClaimed))
	assert.Equal(t, 0, domain.Tokens(900).Cmp(info.Remaining))
	assert.Equal(t, 0, domain.Tokens(1000).Cmp(info.UserRemaining))
}

func TestDistributor_ClaimPresale(t *testing.T) {
	d, _ := setupDistributor(t)

	call, err := d.ClaimPresale(domain.Tokens(10), domain.Tokens(1))
	require.NoError(t, err)
	assert.Equal(t, "claimPresale", call.Method)
	assert.Equal(t, 0, domain.Tokens(1).Cmp(call.Value))
}
