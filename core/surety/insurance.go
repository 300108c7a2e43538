package surety

import (
	"math/big"

	"github.com/flightsurety/surety-node/core/state"
	"github.com/flightsurety/surety-node/core/transaction"
	"github.com/flightsurety/surety-node/core/types"
)

// BuyInsurance buys or tops up the passenger policy on a flight.
func (s *Surety) BuyInsurance(passenger types.Address, flight string, airline types.Address, premium *big.Int) (types.Hash, error) {
	response := s.run(transaction.BuyInsuranceData{
		Passenger: passenger,
		Airline:   airline,
		Flight:    flight,
		Premium:   premium,
	})
	if err := response.Err(); err != nil {
		return types.Hash{}, err
	}
	return response.Result.(types.Hash), nil
}

// CreditPassenger credits every uncredited policy of a delayed flight and
// returns the number of policies credited by this call.
func (s *Surety) CreditPassenger(flight string, airline types.Address, status types.StatusCode) (uint32, error) {
	response := s.run(transaction.CreditPassengerData{Airline: airline, Flight: flight, Status: status})
	if err := response.Err(); err != nil {
		return 0, err
	}
	return response.Result.(*transaction.CreditResult).Count, nil
}

// Withdraw moves the passenger credit to the passenger ledger balance.
func (s *Surety) Withdraw(passenger types.Address) (*big.Int, error) {
	response := s.run(transaction.WithdrawData{Passenger: passenger})
	if err := response.Err(); err != nil {
		return nil, err
	}
	return response.Result.(*big.Int), nil
}

// CreditedAmount is the credit the passenger can withdraw.
func (s *Surety) CreditedAmount(passenger types.Address) (credit *big.Int) {
	s.read(func(cs *state.CheckState) {
		credit = copyBig(cs.Insurance().TotalCredit(passenger))
	})
	return credit
}

// Premium is the premium paid by passenger for a flight, nil without a policy.
func (s *Surety) Premium(passenger types.Address, flight string, airline types.Address) (premium *big.Int) {
	s.read(func(cs *state.CheckState) {
		policy := cs.Insurance().GetPolicy(passenger, types.FlightKey{Airline: airline, Flight: flight})
		if policy != nil {
			premium = copyBig(policy.Premium)
		}
	})
	return premium
}
