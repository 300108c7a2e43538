package transaction

import (
	"math/big"
	"testing"

	"github.com/flightsurety/surety-node/core/code"
	"github.com/flightsurety/surety-node/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuyInsurance(t *testing.T) {
	t.Parallel()
	s := getState(t)

	buy := BuyInsuranceData{Passenger: alice, Airline: airlineA, Flight: "ND1309", Premium: ether(1)}
	expectCode(t, run(s, appAddr, buy), code.UnknownFlight)

	mustRun(t, s, appAddr, FundAirlineData{Airline: airlineA, Amount: ether(10)})

	zero := buy
	zero.Premium = big.NewInt(0)
	expectCode(t, run(s, appAddr, zero), code.InvalidAmount)

	half := buy
	half.Premium = big.NewInt(0).Quo(ether(1), big.NewInt(2))
	response := mustRun(t, s, appAddr, half)
	assert.Equal(t, types.PolicyID(alice, types.FlightKey{Airline: airlineA, Flight: "ND1309"}), response.Result)

	expectCode(t, run(s, appAddr, buy), code.PolicyCapExceeded)
	policy := s.Insurance.GetPolicy(alice, types.FlightKey{Airline: airlineA, Flight: "ND1309"})
	require.NotNil(t, policy)
	assert.Equal(t, 0, half.Premium.Cmp(policy.Premium), "rejected purchase changed the premium")

	mustRun(t, s, appAddr, half)
	assert.Equal(t, 0, policy.Premium.Cmp(ether(1)))
	assert.Equal(t, 0, s.App.GetContractBalance().Cmp(ether(11)))
}

func TestCreditAndWithdraw(t *testing.T) {
	t.Parallel()
	s := getState(t)
	flight := types.FlightKey{Airline: airlineA, Flight: "ND1309"}

	mustRun(t, s, appAddr, FundAirlineData{Airline: airlineA, Amount: ether(10)})
	mustRun(t, s, appAddr, BuyInsuranceData{Passenger: alice, Airline: airlineA, Flight: flight.Flight, Premium: ether(1)})

	credit := CreditPassengerData{Airline: airlineA, Flight: flight.Flight, Status: types.StatusLateAirline}
	expectCode(t, run(s, appAddr, credit), code.NotDelayed)
	expectCode(t, run(s, appAddr, WithdrawData{Passenger: alice}), code.NoCredit)

	s.Insurance.CreditInsurees(flight)
	assert.Equal(t, "1500000000000000000", s.Insurance.CreditedAmount(alice, flight).String())

	expectCode(t, run(s, appAddr, CreditPassengerData{Airline: airlineA, Flight: flight.Flight, Status: types.StatusLateWeather}), code.NotDelayed)
	response := mustRun(t, s, appAddr, credit)
	assert.Equal(t, uint32(0), response.Result.(*CreditResult).Count)
	assert.Equal(t, "1500000000000000000", s.Insurance.CreditedAmount(alice, flight).String())

	expectCode(t, run(s, appAddr, BuyInsuranceData{Passenger: alice, Airline: airlineA, Flight: flight.Flight, Premium: big.NewInt(1)}), code.FlightSettled)

	response = mustRun(t, s, appAddr, WithdrawData{Passenger: alice})
	assert.Equal(t, "1500000000000000000", response.Result.(*big.Int).String())
	assert.Equal(t, "1500000000000000000", s.Accounts.GetBalance(alice).String())
	assert.Equal(t, "9500000000000000000", s.App.GetContractBalance().String())

	expectCode(t, run(s, appAddr, WithdrawData{Passenger: alice}), code.NoCredit)
}

func TestWithdrawNeedsContractBalance(t *testing.T) {
	t.Parallel()
	s := getState(t)
	flight := types.FlightKey{Airline: airlineA, Flight: "ND1309"}

	mustRun(t, s, appAddr, FundAirlineData{Airline: airlineA, Amount: ether(10)})
	mustRun(t, s, appAddr, BuyInsuranceData{Passenger: alice, Airline: airlineA, Flight: flight.Flight, Premium: ether(1)})
	s.Insurance.CreditInsurees(flight)
	s.App.SetContractBalance(ether(1))

	expectCode(t, run(s, appAddr, WithdrawData{Passenger: alice}), code.InsufficientFunds)
	assert.Equal(t, "1500000000000000000", s.Insurance.TotalCredit(alice).String())
}
