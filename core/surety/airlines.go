package surety

import (
	"math/big"

	"github.com/flightsurety/surety-node/core/state"
	"github.com/flightsurety/surety-node/core/state/airlines"
	"github.com/flightsurety/surety-node/core/transaction"
	"github.com/flightsurety/surety-node/core/types"
)

// AuthorizeCaller allows a calling contract to mutate the registry. Owner only.
func (s *Surety) AuthorizeCaller(address types.Address) error {
	return s.run(transaction.AuthorizeCallerData{Address: address, Authorized: true}).Err()
}

// DeauthorizeCaller revokes a previous AuthorizeCaller. Owner only.
func (s *Surety) DeauthorizeCaller(address types.Address) error {
	return s.run(transaction.AuthorizeCallerData{Address: address, Authorized: false}).Err()
}

// SetOperatingStatus pauses or resumes every mutating operation. Owner only.
func (s *Surety) SetOperatingStatus(operational bool) error {
	return s.run(transaction.SetOperatingStatusData{Operational: operational}).Err()
}

func (s *Surety) IsAuthorized(address types.Address) (authorized bool) {
	s.read(func(cs *state.CheckState) {
		authorized = cs.Accounts().IsAuthorized(address)
	})
	return authorized
}

func (s *Surety) IsOperational() (operational bool) {
	s.read(func(cs *state.CheckState) {
		operational = cs.App().IsOperational()
	})
	return operational
}

// RegisterAirline registers candidate on behalf of proposer and returns the
// candidate status with the number of registered airlines.
func (s *Surety) RegisterAirline(candidate, proposer types.Address) (airlines.Status, uint32, error) {
	response := s.run(transaction.RegisterAirlineData{Candidate: candidate, Proposer: proposer})
	if err := response.Err(); err != nil {
		return airlines.StatusUnregistered, 0, err
	}

	result := response.Result.(*transaction.RegisterAirlineResult)
	s.statistics.SetRegisteredAirlines(result.Count)

	return airlines.StatusFromString(result.Status), result.Count, nil
}

// FundAirline adds amount to the airline contribution and returns the total.
func (s *Surety) FundAirline(airline types.Address, amount *big.Int) (*big.Int, error) {
	response := s.run(transaction.FundAirlineData{Airline: airline, Amount: amount})
	if err := response.Err(); err != nil {
		return nil, err
	}
	return response.Result.(*big.Int), nil
}

func (s *Surety) IsAirline(address types.Address) (registered bool) {
	s.read(func(cs *state.CheckState) {
		registered = cs.Airlines().IsAirline(address)
	})
	return registered
}

func (s *Surety) IsFunded(address types.Address) (funded bool) {
	s.read(func(cs *state.CheckState) {
		funded = cs.Airlines().IsFunded(address)
	})
	return funded
}

func (s *Surety) AirlineFunding(address types.Address) (funding *big.Int) {
	s.read(func(cs *state.CheckState) {
		funding = copyBig(cs.Airlines().GetFunding(address))
	})
	return funding
}

func (s *Surety) RegisteredCount() (count uint32) {
	s.read(func(cs *state.CheckState) {
		count = cs.Airlines().RegisteredCount()
	})
	return count
}

func (s *Surety) ContractBalance() (balance *big.Int) {
	s.read(func(cs *state.CheckState) {
		balance = copyBig(cs.App().GetContractBalance())
	})
	return balance
}

// Balance is the ledger balance of address, where withdrawn payouts land.
func (s *Surety) Balance(address types.Address) (balance *big.Int) {
	s.read(func(cs *state.CheckState) {
		balance = copyBig(cs.Accounts().GetBalance(address))
	})
	return balance
}
