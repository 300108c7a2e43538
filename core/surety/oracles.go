package surety

import (
	"fmt"
	"math/big"

	"github.com/flightsurety/surety-node/core/code"
	"github.com/flightsurety/surety-node/core/state"
	"github.com/flightsurety/surety-node/core/transaction"
	"github.com/flightsurety/surety-node/core/types"
)

type Indexes = [types.OracleIndexCount]uint8

// RegisterOracle registers oracle against fee and returns its indexes.
func (s *Surety) RegisterOracle(oracle types.Address, fee *big.Int) (Indexes, error) {
	response := s.run(transaction.RegisterOracleData{Oracle: oracle, Fee: fee})
	if err := response.Err(); err != nil {
		return Indexes{}, err
	}

	s.statistics.AddOracle()
	return response.Result.(Indexes), nil
}

func (s *Surety) GetMyIndexes(oracle types.Address) (indexes Indexes, err error) {
	s.read(func(cs *state.CheckState) {
		registration := cs.Oracles().GetOracle(oracle)
		if registration == nil {
			err = code.NewError(
				code.NotRegistered,
				fmt.Sprintf("Oracle %s is not registered", oracle.Hex()),
				transaction.EncodeError(code.NewNotRegistered(oracle.Hex())),
			)
			return
		}
		indexes = registration.Indexes
	})
	return indexes, err
}

// FetchFlightStatus opens an oracle request for a departure and returns its
// id together with the index oracles must hold to answer it.
func (s *Surety) FetchFlightStatus(airline types.Address, flight string, timestamp uint64) (types.Hash, uint8, error) {
	response := s.run(transaction.FetchFlightStatusData{Airline: airline, Flight: flight, Timestamp: timestamp})
	if err := response.Err(); err != nil {
		return types.Hash{}, 0, err
	}

	s.statistics.RequestOpened()
	result := response.Result.(*transaction.FetchResult)
	return result.RequestID, result.Index, nil
}

// SubmitOracleResponse records the oracle report. A repeated report is not
// accepted but is not an error either.
func (s *Surety) SubmitOracleResponse(index uint8, airline types.Address, flight string, timestamp uint64, status types.StatusCode, oracle types.Address) (bool, error) {
	response := s.run(transaction.SubmitOracleResponseData{
		Oracle:    oracle,
		Index:     index,
		Airline:   airline,
		Flight:    flight,
		Timestamp: timestamp,
		Status:    status,
	})
	if err := response.Err(); err != nil {
		return false, err
	}

	result := response.Result.(*transaction.SubmitResult)
	if result.Finalized {
		s.statistics.RequestFinalized()
	}
	return result.Accepted, nil
}

// FlightStatus returns the finalized status of a departure.
func (s *Surety) FlightStatus(airline types.Address, flight string, timestamp uint64) (status types.StatusCode, finalized bool) {
	s.read(func(cs *state.CheckState) {
		status, finalized = cs.Oracles().GetFlightStatus(types.ScheduleKey{Airline: airline, Flight: flight, Timestamp: timestamp})
	})
	return status, finalized
}
