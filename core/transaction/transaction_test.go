package transaction

import (
	"math/big"
	"testing"

	eventsdb "github.com/flightsurety/surety-node/core/events"
	"github.com/flightsurety/surety-node/core/state"
	"github.com/flightsurety/surety-node/core/types"
	"github.com/flightsurety/surety-node/helpers"
	db "github.com/tendermint/tm-db"
)

var (
	owner    = types.HexToAddress("0x00000000000000000000000000000000000000ff")
	appAddr  = types.HexToAddress("0x00000000000000000000000000000000000000c1")
	stranger = types.HexToAddress("0x00000000000000000000000000000000000000c2")
	airlineA = types.HexToAddress("0x00000000000000000000000000000000000000a1")
	airlineB = types.HexToAddress("0x00000000000000000000000000000000000000a2")
	airlineC = types.HexToAddress("0x00000000000000000000000000000000000000a3")
	airlineD = types.HexToAddress("0x00000000000000000000000000000000000000a4")
	airlineE = types.HexToAddress("0x00000000000000000000000000000000000000a5")
	alice    = types.HexToAddress("0x00000000000000000000000000000000000000b1")
)

func ether(v int64) *big.Int {
	return helpers.EtherToWei(big.NewInt(v))
}

func oracleAddress(i byte) types.Address {
	return types.BytesToAddress([]byte{0x0d, i})
}

func getState(t *testing.T) *state.State {
	t.Helper()

	s, err := state.NewState(0, db.NewMemDB(), eventsdb.NewEventsStore(db.NewMemDB()), 1024, 0)
	if err != nil {
		t.Fatal(err)
	}

	err = s.Import(types.AppState{
		Owner:           owner,
		Operational:     true,
		Seed:            types.HexToHash("0x5eed"),
		ContractBalance: "0",
		Accounts:        []types.Account{{Address: appAddr, Authorized: true, Balance: "0"}},
		Airlines:        []types.Airline{{Address: airlineA, Status: "Registered", Funded: "0"}},
	})
	if err != nil {
		t.Fatal(err)
	}

	return s
}

func run(s state.Interface, caller types.Address, data Data) Response {
	return NewExecutor().RunTx(s, &Transaction{Caller: caller, Data: data}, 1)
}

func mustRun(t *testing.T, s state.Interface, caller types.Address, data Data) Response {
	t.Helper()

	response := run(s, caller, data)
	if response.Code != 0 {
		t.Fatalf("%s failed with code %d: %s", data, response.Code, response.Log)
	}
	return response
}

func expectCode(t *testing.T, response Response, code uint32) {
	t.Helper()

	if response.Code != code {
		t.Fatalf("expected code %d, got %d: %s", code, response.Code, response.Log)
	}
}

// fundedAirlines registers and funds airlines A to D.
func fundedAirlines(t *testing.T, s *state.State) {
	t.Helper()

	mustRun(t, s, appAddr, FundAirlineData{Airline: airlineA, Amount: ether(10)})
	for _, airline := range []types.Address{airlineB, airlineC, airlineD} {
		mustRun(t, s, appAddr, RegisterAirlineData{Candidate: airline, Proposer: airlineA})
		mustRun(t, s, appAddr, FundAirlineData{Airline: airline, Amount: ether(10)})
	}
}
