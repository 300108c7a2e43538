package surety

import (
	"math/big"
	"testing"

	"github.com/flightsurety/surety-node/config"
	"github.com/flightsurety/surety-node/core/code"
	eventsdb "github.com/flightsurety/surety-node/core/events"
	"github.com/flightsurety/surety-node/core/state/airlines"
	"github.com/flightsurety/surety-node/core/types"
	"github.com/flightsurety/surety-node/genesis"
	"github.com/flightsurety/surety-node/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	db "github.com/tendermint/tm-db"
)

var (
	airlineB  = types.HexToAddress("0x00000000000000000000000000000000000000b2")
	airlineC  = types.HexToAddress("0x00000000000000000000000000000000000000b3")
	airlineD  = types.HexToAddress("0x00000000000000000000000000000000000000b4")
	airlineE  = types.HexToAddress("0x00000000000000000000000000000000000000b5")
	passenger = types.HexToAddress("0x00000000000000000000000000000000000000e1")
)

const (
	flight    = "ND1309"
	departure = uint64(1700000000)
)

type testNode struct {
	*Surety
	stateDB db.DB
	cfg     *config.Config
	owner   types.Address
	airline types.Address
}

func newTestNode(t *testing.T) *testNode {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.StateCacheSize = 1024
	cfg.KeepLastStates = 0

	stateDB := db.NewMemDB()
	node, err := NewSurety(cfg, stateDB, eventsdb.NewEventsStore(db.NewMemDB()), nil)
	require.NoError(t, err)
	require.NoError(t, node.InitChain(genesis.DefaultAppState(cfg.Registry)))

	return &testNode{
		Surety:  node,
		stateDB: stateDB,
		cfg:     cfg,
		owner:   types.HexToAddress(cfg.Registry.OwnerAddress),
		airline: types.HexToAddress(cfg.Registry.FirstAirline),
	}
}

func ether(v int64) *big.Int {
	return helpers.EtherToWei(big.NewInt(v))
}

func oracleAddress(i int) types.Address {
	return types.BytesToAddress([]byte{0x0d, byte(i >> 8), byte(i)})
}

func countEvents(events eventsdb.Events, eventType string) int {
	n := 0
	for _, event := range events {
		if event.Type() == eventType {
			n++
		}
	}
	return n
}

// registerOraclesFor registers oracles until n of them hold index.
func registerOraclesFor(t *testing.T, node *testNode, index uint8, n int) []types.Address {
	t.Helper()

	var holders []types.Address
	for i := 0; len(holders) < n; i++ {
		require.Less(t, i, 1000, "not enough oracles drew index %d", index)

		oracle := oracleAddress(i)
		indexes, err := node.RegisterOracle(oracle, ether(1))
		require.NoError(t, err)

		for _, drawn := range indexes {
			if drawn == index {
				holders = append(holders, oracle)
				break
			}
		}
	}
	return holders
}

func TestInitChain(t *testing.T) {
	t.Parallel()
	node := newTestNode(t)

	assert.Equal(t, uint64(1), node.Height())
	assert.True(t, node.IsOperational())
	assert.True(t, node.IsAirline(node.airline))
	assert.False(t, node.IsFunded(node.airline))
	assert.True(t, node.IsAuthorized(node.Caller()))
	assert.Equal(t, uint32(1), node.RegisteredCount())
	assert.Empty(t, node.LoadEvents(1))
	assert.Equal(t, uint64(1), node.StartHeight())
	require.NotNil(t, node.LastBlock())
	assert.Equal(t, uint64(1), node.LastBlock().Height)

	assert.Error(t, node.InitChain(genesis.DefaultAppState(node.cfg.Registry)))
}

func TestAirlineAdmission(t *testing.T) {
	t.Parallel()
	node := newTestNode(t)
	a := node.airline

	_, _, err := node.RegisterAirline(airlineB, a)
	assert.True(t, code.Is(err, code.ProposerNotFunded))

	total, err := node.FundAirline(a, ether(10))
	require.NoError(t, err)
	assert.Equal(t, 0, total.Cmp(ether(10)))
	assert.True(t, node.IsFunded(a))

	for i, candidate := range []types.Address{airlineB, airlineC, airlineD} {
		status, count, err := node.RegisterAirline(candidate, a)
		require.NoError(t, err)
		assert.Equal(t, airlines.StatusRegistered, status)
		assert.Equal(t, uint32(i+2), count)
	}

	_, _, err = node.RegisterAirline(airlineB, a)
	assert.True(t, code.Is(err, code.AlreadyRegistered))
	assert.Equal(t, uint32(4), node.RegisteredCount())

	status, count, err := node.RegisterAirline(airlineE, a)
	require.NoError(t, err)
	assert.Equal(t, airlines.StatusApplied, status)
	assert.Equal(t, uint32(4), count)
	assert.False(t, node.IsAirline(airlineE))

	// a funded applicant is funded but cannot act as an airline yet
	_, err = node.FundAirline(airlineE, ether(10))
	require.NoError(t, err)
	assert.True(t, node.IsFunded(airlineE))

	_, _, err = node.RegisterAirline(types.HexToAddress("0x00000000000000000000000000000000000000b6"), airlineE)
	assert.True(t, code.Is(err, code.ProposerNotFunded))

	_, err = node.BuyInsurance(passenger, "ND1309", airlineE, ether(1))
	assert.True(t, code.Is(err, code.UnknownFlight))

	// repeated vote of the same proposer changes nothing
	status, _, err = node.RegisterAirline(airlineE, a)
	require.NoError(t, err)
	assert.Equal(t, airlines.StatusApplied, status)

	_, _, err = node.RegisterAirline(airlineE, airlineB)
	assert.True(t, code.Is(err, code.ProposerNotFunded))

	_, err = node.FundAirline(airlineB, ether(10))
	require.NoError(t, err)

	status, count, err = node.RegisterAirline(airlineE, airlineB)
	require.NoError(t, err)
	assert.Equal(t, airlines.StatusRegistered, status)
	assert.Equal(t, uint32(5), count)
	assert.True(t, node.IsAirline(airlineE))

	_, err = node.Commit()
	require.NoError(t, err)

	events := node.LoadEvents(uint32(node.Height()))
	assert.Equal(t, 2, countEvents(events, eventsdb.TypeAirlineRegistrationConsensusEvent))

	var registered *eventsdb.AirlineRegisteredEvent
	for _, event := range events {
		if e, ok := event.(*eventsdb.AirlineRegisteredEvent); ok && e.Airline == airlineE {
			registered = e
		}
	}
	require.NotNil(t, registered)
	assert.Equal(t, uint32(5), registered.Count)
}

func TestFundingIsAdditive(t *testing.T) {
	t.Parallel()
	node := newTestNode(t)
	a := node.airline

	for _, amount := range []int64{4, 4} {
		_, err := node.FundAirline(a, ether(amount))
		require.NoError(t, err)
		assert.False(t, node.IsFunded(a))
	}

	total, err := node.FundAirline(a, ether(2))
	require.NoError(t, err)
	assert.Equal(t, 0, total.Cmp(ether(10)))
	assert.True(t, node.IsFunded(a))
	assert.Equal(t, 0, node.AirlineFunding(a).Cmp(ether(10)))
	assert.Equal(t, 0, node.ContractBalance().Cmp(ether(10)))

	_, err = node.FundAirline(a, big.NewInt(0))
	assert.True(t, code.Is(err, code.InsufficientFunds))
}

func TestInsurancePayout(t *testing.T) {
	t.Parallel()
	node := newTestNode(t)
	a := node.airline

	_, err := node.FundAirline(a, ether(10))
	require.NoError(t, err)

	_, err = node.BuyInsurance(passenger, flight, a, big.NewInt(0).Add(ether(1), big.NewInt(1)))
	assert.True(t, code.Is(err, code.PolicyCapExceeded))

	policyID, err := node.BuyInsurance(passenger, flight, a, ether(1))
	require.NoError(t, err)
	assert.Equal(t, types.PolicyID(passenger, types.FlightKey{Airline: a, Flight: flight}), policyID)
	assert.Equal(t, 0, node.Premium(passenger, flight, a).Cmp(ether(1)))

	_, index, err := node.FetchFlightStatus(a, flight, departure)
	require.NoError(t, err)

	oracles := registerOraclesFor(t, node, index, 3)
	for _, oracle := range oracles {
		accepted, err := node.SubmitOracleResponse(index, a, flight, departure, types.StatusLateAirline, oracle)
		require.NoError(t, err)
		assert.True(t, accepted)
	}

	status, finalized := node.FlightStatus(a, flight, departure)
	require.True(t, finalized)
	assert.Equal(t, types.StatusLateAirline, status)

	payout := helpers.StringToBigInt("1500000000000000000")
	assert.Equal(t, 0, node.CreditedAmount(passenger).Cmp(payout))

	_, err = node.SubmitOracleResponse(index, a, flight, departure, types.StatusOnTime, oracles[0])
	assert.True(t, code.Is(err, code.RequestClosed))

	credited, err := node.CreditPassenger(flight, a, types.StatusLateAirline)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), credited)
	assert.Equal(t, 0, node.CreditedAmount(passenger).Cmp(payout))

	amount, err := node.Withdraw(passenger)
	require.NoError(t, err)
	assert.Equal(t, 0, amount.Cmp(payout))
	assert.Equal(t, 0, node.CreditedAmount(passenger).Sign())
	assert.Equal(t, 0, node.Balance(passenger).Cmp(payout))

	_, err = node.Withdraw(passenger)
	assert.True(t, code.Is(err, code.NoCredit))
}

func TestOracleErrors(t *testing.T) {
	t.Parallel()
	node := newTestNode(t)
	oracle := oracleAddress(1)

	_, err := node.GetMyIndexes(oracle)
	assert.True(t, code.Is(err, code.NotRegistered))

	_, err = node.RegisterOracle(oracle, big.NewInt(0).Sub(ether(1), big.NewInt(1)))
	assert.True(t, code.Is(err, code.InsufficientFee))

	indexes, err := node.RegisterOracle(oracle, ether(1))
	require.NoError(t, err)

	mine, err := node.GetMyIndexes(oracle)
	require.NoError(t, err)
	assert.Equal(t, indexes, mine)

	var foreign uint8
	for foreign = 0; foreign < types.OracleIndexRange; foreign++ {
		if foreign != indexes[0] && foreign != indexes[1] && foreign != indexes[2] {
			break
		}
	}

	_, err = node.SubmitOracleResponse(foreign, node.airline, flight, departure, types.StatusOnTime, oracle)
	assert.True(t, code.Is(err, code.IndexMismatch))
}

func TestOperatingStatus(t *testing.T) {
	t.Parallel()
	node := newTestNode(t)
	owner := node.WithCaller(node.owner)

	assert.True(t, code.Is(node.SetOperatingStatus(false), code.Unauthorized))
	require.NoError(t, owner.SetOperatingStatus(false))
	assert.False(t, node.IsOperational())

	_, err := node.FundAirline(node.airline, ether(10))
	assert.True(t, code.Is(err, code.NotOperational))
	_, err = node.RegisterOracle(oracleAddress(1), ether(1))
	assert.True(t, code.Is(err, code.NotOperational))

	// queries keep working
	assert.True(t, node.IsAirline(node.airline))

	require.NoError(t, owner.SetOperatingStatus(true))
	_, err = node.FundAirline(node.airline, ether(10))
	require.NoError(t, err)
}

func TestCallerAuthorization(t *testing.T) {
	t.Parallel()
	node := newTestNode(t)
	app := node.Caller()
	owner := node.WithCaller(node.owner)

	assert.True(t, code.Is(node.DeauthorizeCaller(app), code.Unauthorized))
	require.NoError(t, owner.DeauthorizeCaller(app))
	assert.False(t, node.IsAuthorized(app))

	_, err := node.FundAirline(node.airline, ether(10))
	assert.True(t, code.Is(err, code.NotAuthorized))

	require.NoError(t, owner.AuthorizeCaller(app))
	_, err = node.FundAirline(node.airline, ether(10))
	require.NoError(t, err)
}

func TestReload(t *testing.T) {
	t.Parallel()
	node := newTestNode(t)

	_, err := node.FundAirline(node.airline, ether(10))
	require.NoError(t, err)
	_, err = node.Commit()
	require.NoError(t, err)

	reloaded, err := NewSurety(node.cfg, node.stateDB, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, node.Height(), reloaded.Height())
	assert.True(t, reloaded.IsFunded(node.airline))
	assert.Equal(t, node.Height(), reloaded.LastBlock().Height)

	exported, err := reloaded.Export(reloaded.Height())
	require.NoError(t, err)
	assert.Equal(t, "10000000000000000000", exported.ContractBalance)

	genesisState, err := reloaded.Export(1)
	require.NoError(t, err)
	assert.Equal(t, "0", genesisState.ContractBalance)
}
