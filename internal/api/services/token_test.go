package services

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

func TestTokenService_Status(t *testing.T) {
	f := newFixture(t)
	f.backend.Returns(tokenAddr, "balanceOf", domain.Tokens(12))
	f.backend.Handle(tokenAddr, "allowance", func(_ common.Address, args []interface{}) ([]interface{}, error) {
		require.Equal(t, alice, args[0].(common.Address))
		require.Equal(t, arenaAddr, args[1].(common.Address))
		return []interface{}{domain.Tokens(3)}, nil
	})
	f.backend.Returns(tokenAddr, "getFlexStatus", testutil.FlexStatusRow{DailyFlexes: big.NewInt(2), MemeCount: big.NewInt(5)})
	ctx := context.Background()

	status, err := f.tokenSvc.Status(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 0, domain.Tokens(12).Cmp(status.Balance))
	assert.Equal(t, 0, domain.Tokens(3).Cmp(status.Allowance))
	assert.Equal(t, domain.FlexStatus{DailyFlexes: 2, MemeCount: 5}, status.Flex)

	_, err = f.tokenSvc.Status(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 1, f.backend.CallCount("balanceOf"))

	f.tokenSvc.Invalidate(alice)
	_, err = f.tokenSvc.Status(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 2, f.backend.CallCount("balanceOf"))
}

func TestTokenService_StatusWithoutValue(t *testing.T) {
	f := newFixture(t)
	f.backend.Returns(tokenAddr, "balanceOf", domain.Tokens(12))

	_, err := f.tokenSvc.Status(context.Background(), alice)
	require.Error(t, err)
}

func TestTokenService_DistributorInfo(t *testing.T) {
	f := newFixture(t)
	f.backend.Returns(distributorAddr, "getAirdropInfo", true, domain.Tokens(10), domain.Tokens(5000), false)
	f.backend.Returns(distributorAddr, "hasClaimedAirdrop", false)
	f.backend.Returns(distributorAddr, "getPresaleInfo", true, domain.Tokens(100), domain.Tokens(900), big.NewInt(0), domain.Tokens(750))
	f.backend.Returns(distributorAddr, "presaleClaims", domain.Tokens(250))
	ctx := context.Background()

	airdrop, err := f.tokenSvc.Airdrop(ctx, alice)
	require.NoError(t, err)
	assert.True(t, airdrop.Active)
	assert.False(t, airdrop.HasClaimed)

	presale, err := f.tokenSvc.Presale(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 0, domain.Tokens(250).Cmp(presale.UserClaimed))
	assert.Equal(t, 0, domain.Tokens(750).Cmp(presale.UserRemaining))
}
