package transaction

import (
	"math/big"
	"testing"

	"github.com/flightsurety/surety-node/core/code"
	eventsdb "github.com/flightsurety/surety-node/core/events"
	"github.com/flightsurety/surety-node/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAirlineRequiresFundedProposer(t *testing.T) {
	t.Parallel()
	s := getState(t)

	response := run(s, appAddr, RegisterAirlineData{Candidate: airlineB, Proposer: airlineA})
	expectCode(t, response, code.ProposerNotFunded)
	assert.Equal(t, "Airline has not sufficiently contributed to the funds", response.Log)
	assert.False(t, s.Airlines.IsAirline(airlineB))
	assert.Nil(t, s.Airlines.GetAirline(airlineB))

	// an unknown airline cannot propose either
	mustRun(t, s, appAddr, FundAirlineData{Airline: airlineA, Amount: ether(10)})
	expectCode(t, run(s, appAddr, RegisterAirlineData{Candidate: airlineC, Proposer: airlineB}), code.ProposerNotFunded)
}

func TestRegisterAirlineTwice(t *testing.T) {
	t.Parallel()
	s := getState(t)

	mustRun(t, s, appAddr, FundAirlineData{Airline: airlineA, Amount: ether(10)})
	response := mustRun(t, s, appAddr, RegisterAirlineData{Candidate: airlineB, Proposer: airlineA})
	result := response.Result.(*RegisterAirlineResult)
	assert.True(t, result.Registered)
	assert.Equal(t, uint32(2), result.Count)

	expectCode(t, run(s, appAddr, RegisterAirlineData{Candidate: airlineB, Proposer: airlineA}), code.AlreadyRegistered)
	assert.Equal(t, uint32(2), s.Airlines.RegisteredCount())
}

func TestFundAirlineIsAdditive(t *testing.T) {
	t.Parallel()
	s := getState(t)

	mustRun(t, s, appAddr, FundAirlineData{Airline: airlineA, Amount: ether(4)})
	mustRun(t, s, appAddr, FundAirlineData{Airline: airlineA, Amount: ether(4)})
	assert.False(t, s.Airlines.IsFunded(airlineA))
	response := mustRun(t, s, appAddr, FundAirlineData{Airline: airlineA, Amount: ether(2)})
	assert.Equal(t, 0, ether(10).Cmp(response.Result.(*big.Int)))
	assert.True(t, s.Airlines.IsFunded(airlineA))

	other := getState(t)
	mustRun(t, other, appAddr, FundAirlineData{Airline: airlineA, Amount: ether(9)})
	assert.False(t, other.Airlines.IsFunded(airlineA))
	mustRun(t, other, appAddr, FundAirlineData{Airline: airlineA, Amount: ether(1)})
	assert.True(t, other.Airlines.IsFunded(airlineA))
}

func TestFundAirlineErrors(t *testing.T) {
	t.Parallel()
	s := getState(t)

	expectCode(t, run(s, appAddr, FundAirlineData{Airline: airlineA, Amount: ether(0)}), code.InsufficientFunds)
	expectCode(t, run(s, appAddr, FundAirlineData{Airline: airlineA}), code.InsufficientFunds)
	expectCode(t, run(s, appAddr, FundAirlineData{Airline: airlineE, Amount: ether(10)}), code.AirlineNotFound)
	assert.Equal(t, 0, s.App.GetContractBalance().Sign())
}

func TestRegisterAirlineConsensus(t *testing.T) {
	t.Parallel()
	s := getState(t)
	fundedAirlines(t, s)
	require.Equal(t, uint32(4), s.Airlines.RegisteredCount())

	before := len(s.Events().Pending())
	response := mustRun(t, s, appAddr, RegisterAirlineData{Candidate: airlineE, Proposer: airlineA})
	result := response.Result.(*RegisterAirlineResult)
	assert.False(t, result.Registered)
	assert.Equal(t, "Applied", result.Status)
	assert.Equal(t, uint32(4), result.Count)

	// a duplicate vote changes nothing
	mustRun(t, s, appAddr, RegisterAirlineData{Candidate: airlineE, Proposer: airlineA})
	assert.Len(t, s.Airlines.GetAirline(airlineE).Votes, 1)
	assert.Len(t, s.Events().Pending(), before+1)
	assert.False(t, s.Airlines.IsAirline(airlineE))

	response = mustRun(t, s, appAddr, RegisterAirlineData{Candidate: airlineE, Proposer: airlineB})
	result = response.Result.(*RegisterAirlineResult)
	assert.True(t, result.Registered)
	assert.Equal(t, uint32(5), result.Count)

	pending := s.Events().Pending()
	registered, ok := pending[len(pending)-1].(*eventsdb.AirlineRegisteredEvent)
	require.True(t, ok)
	assert.Equal(t, airlineE, registered.Airline)
	assert.Equal(t, uint32(5), registered.Count)
}

func TestRegisteredAirlineNeverUnregisters(t *testing.T) {
	t.Parallel()
	s := getState(t)
	fundedAirlines(t, s)

	for _, airline := range []types.Address{airlineA, airlineB, airlineC, airlineD} {
		expectCode(t, run(s, appAddr, RegisterAirlineData{Candidate: airline, Proposer: airlineA}), code.AlreadyRegistered)
		assert.True(t, s.Airlines.IsAirline(airline))
	}
}
