package insurance

import (
	"math/big"
	"testing"

	eventsdb "github.com/flightsurety/surety-node/core/events"
	"github.com/flightsurety/surety-node/core/state/accounts"
	"github.com/flightsurety/surety-node/core/state/app"
	"github.com/flightsurety/surety-node/core/state/bus"
	"github.com/flightsurety/surety-node/core/types"
	"github.com/flightsurety/surety-node/helpers"
	"github.com/flightsurety/surety-node/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	db "github.com/tendermint/tm-db"
)

type testEnv struct {
	insurance *Insurance
	app       *app.App
	accounts  *accounts.Accounts
	events    eventsdb.IEventsDB
	tree      tree.MTree
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mutableTree, err := tree.NewMutableTree(0, db.NewMemDB(), 1024)
	require.NoError(t, err)

	events := eventsdb.NewEventsStore(db.NewMemDB())
	b := bus.NewBus()
	b.SetEvents(events)

	immutableTree := mutableTree.GetLastImmutable()
	return &testEnv{
		app:       app.NewApp(b, immutableTree),
		accounts:  accounts.NewAccounts(b, immutableTree),
		insurance: NewInsurance(b, immutableTree),
		events:    events,
		tree:      mutableTree,
	}
}

var (
	flightKey = types.FlightKey{Airline: types.HexToAddress("0x00000000000000000000000000000000000000a1"), Flight: "ND1309"}
	alice     = types.HexToAddress("0x00000000000000000000000000000000000000b1")
	bob       = types.HexToAddress("0x00000000000000000000000000000000000000b2")
)

func ether(v int64) *big.Int {
	return helpers.EtherToWei(big.NewInt(v))
}

func TestBuyTopsUpPolicy(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	half := big.NewInt(0).Quo(ether(1), big.NewInt(2))
	id := env.insurance.Buy(alice, flightKey, half)
	again := env.insurance.Buy(alice, flightKey, half)

	assert.Equal(t, id, again)
	assert.Equal(t, types.PolicyID(alice, flightKey), id)

	policy := env.insurance.GetPolicy(alice, flightKey)
	require.NotNil(t, policy)
	assert.Equal(t, 0, policy.Premium.Cmp(ether(1)))
	assert.Len(t, env.insurance.GetFlight(flightKey).Policies, 1)
	assert.Equal(t, 0, env.app.GetContractBalance().Cmp(ether(1)))
	assert.Len(t, env.events.Pending(), 2)
}

func TestCreditInsurees(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	env.insurance.Buy(alice, flightKey, ether(1))
	env.insurance.Buy(bob, flightKey, big.NewInt(1000))

	count, total := env.insurance.CreditInsurees(flightKey)
	assert.Equal(t, uint32(2), count)
	assert.Equal(t, "1500000000000001500", total.String())
	assert.True(t, env.insurance.IsDelayed(flightKey))
	assert.Equal(t, "1500000000000000000", env.insurance.CreditedAmount(alice, flightKey).String())
	assert.Equal(t, "1500", env.insurance.CreditedAmount(bob, flightKey).String())

	pending := env.events.Pending()
	require.Len(t, pending, 5)
	assert.Equal(t, eventsdb.TypePassengerCreditedEvent, pending[2].Type())
	assert.Equal(t, eventsdb.TypePassengerCreditedEvent, pending[3].Type())
	assert.Equal(t, eventsdb.TypeCreditInsureesEvent, pending[4].Type())

	count, _ = env.insurance.CreditInsurees(flightKey)
	assert.Equal(t, uint32(0), count)
	assert.Len(t, env.events.Pending(), 5)
	assert.Equal(t, "1500000000000000000", env.insurance.CreditedAmount(alice, flightKey).String())
}

func TestWithdraw(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	env.app.AddContractBalance(ether(10))
	other := types.FlightKey{Airline: flightKey.Airline, Flight: "ND1310"}
	env.insurance.Buy(alice, flightKey, ether(1))
	env.insurance.Buy(alice, other, big.NewInt(2))
	env.insurance.CreditInsurees(flightKey)
	env.insurance.CreditInsurees(other)

	assert.Equal(t, "1500000000000000003", env.insurance.TotalCredit(alice).String())

	amount := env.insurance.Withdraw(alice)
	assert.Equal(t, "1500000000000000003", amount.String())
	assert.Equal(t, 0, env.accounts.GetBalance(alice).Cmp(amount))
	assert.Equal(t, 0, env.insurance.TotalCredit(alice).Sign())
	assert.Equal(t, "9499999999999999999", env.app.GetContractBalance().String())

	assert.Equal(t, 0, env.insurance.Withdraw(alice).Sign())
	assert.Equal(t, 0, env.insurance.Withdraw(bob).Sign())

	// a withdrawn policy is never credited again
	count, _ := env.insurance.CreditInsurees(flightKey)
	assert.Equal(t, uint32(0), count)
}

func TestInsuranceCommit(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	env.insurance.Buy(alice, flightKey, ether(1))
	env.insurance.CreditInsurees(flightKey)

	_, _, err := env.tree.Commit(env.insurance)
	require.NoError(t, err)

	restored := NewInsurance(bus.NewBus(), env.tree.GetLastImmutable())
	assert.True(t, restored.IsDelayed(flightKey))
	assert.Equal(t, "1500000000000000000", restored.TotalCredit(alice).String())

	state := new(types.AppState)
	restored.Export(state)
	require.Len(t, state.Flights, 1)
	require.Len(t, state.Flights[0].Policies, 1)
	assert.True(t, state.Flights[0].Policies[0].Credited)
	assert.Equal(t, "1000000000000000000", state.Flights[0].Policies[0].Premium)
}
