package oracle_test

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/flightsurety/surety-node/config"
	"github.com/flightsurety/surety-node/core/events"
	"github.com/flightsurety/surety-node/core/surety"
	"github.com/flightsurety/surety-node/core/types"
	"github.com/flightsurety/surety-node/genesis"
	"github.com/flightsurety/surety-node/helpers"
	"github.com/flightsurety/surety-node/oracle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	db "github.com/tendermint/tm-db"
	"golang.org/x/sync/errgroup"
)

func TestOraclesSettleDelayedFlight(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.StateCacheSize = 1024

	notifier := events.NewNotifier()
	node, err := surety.NewSurety(cfg, db.NewMemDB(), events.NewEventsStore(db.NewMemDB(), notifier), nil)
	require.NoError(t, err)
	require.NoError(t, node.InitChain(genesis.DefaultAppState(cfg.Registry)))

	server := oracle.NewServer(node, oracle.FixedStatus(types.StatusLateAirline), nil)
	notifier.Subscribe(server)

	accounts := make([]types.Address, 60)
	for i := range accounts {
		accounts[i] = types.BytesToAddress([]byte{0x0d, byte(i + 1)})
	}
	require.NoError(t, server.RegisterOracles(accounts))

	airline := types.HexToAddress(cfg.Registry.FirstAirline)
	passenger := types.HexToAddress("0x00000000000000000000000000000000000000e1")

	_, err = node.FundAirline(airline, helpers.EtherToWei(big.NewInt(10)))
	require.NoError(t, err)
	_, err = node.BuyInsurance(passenger, "ND1309", airline, helpers.EtherToWei(big.NewInt(1)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error { return notifier.Run(ctx) })
	group.Go(func() error { return server.Run(ctx) })

	_, _, err = node.FetchFlightStatus(airline, "ND1309", 1700000000)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, finalized := node.FlightStatus(airline, "ND1309", 1700000000)
		return finalized
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	assert.ErrorIs(t, group.Wait(), context.Canceled)

	status, _ := node.FlightStatus(airline, "ND1309", 1700000000)
	assert.Equal(t, types.StatusLateAirline, status)
	assert.Equal(t, 0, node.CreditedAmount(passenger).Cmp(helpers.StringToBigInt("1500000000000000000")))
}
