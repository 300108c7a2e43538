package types

import (
	"fmt"

	"github.com/flightsurety/surety-node/helpers"
)

// AppState is the genesis and export representation of the whole registry.
type AppState struct {
	Note            string          `json:"note"`
	Owner           Address         `json:"owner"`
	Operational     bool            `json:"operational"`
	Seed            Hash            `json:"seed"`
	Nonce           uint64          `json:"nonce"`
	ContractBalance string          `json:"contract_balance"`
	Accounts        []Account       `json:"accounts,omitempty"`
	Airlines        []Airline       `json:"airlines,omitempty"`
	Flights         []Flight        `json:"flights,omitempty"`
	Oracles         []Oracle        `json:"oracles,omitempty"`
	Requests        []OracleRequest `json:"requests,omitempty"`
	Statuses        []FlightStatus  `json:"statuses,omitempty"`
}

type Account struct {
	Address    Address `json:"address"`
	Authorized bool    `json:"authorized"`
	Balance    string  `json:"balance"`
}

type Airline struct {
	Address Address   `json:"address"`
	Status  string    `json:"status"`
	Funded  string    `json:"funded"`
	Votes   []Address `json:"votes,omitempty"`
}

type Flight struct {
	Airline  Address  `json:"airline"`
	Flight   string   `json:"flight"`
	Delayed  bool     `json:"delayed"`
	Policies []Policy `json:"policies,omitempty"`
}

type Policy struct {
	Passenger Address `json:"passenger"`
	Premium   string  `json:"premium"`
	Credit    string  `json:"credit"`
	Credited  bool    `json:"credited"`
}

type Oracle struct {
	Address Address                 `json:"address"`
	Indexes [OracleIndexCount]uint8 `json:"indexes"`
}

type OracleRequest struct {
	Index     uint8            `json:"index"`
	Airline   Address          `json:"airline"`
	Flight    string           `json:"flight"`
	Timestamp uint64           `json:"timestamp"`
	Requester Address          `json:"requester"`
	Open      bool             `json:"open"`
	Responses []OracleResponse `json:"responses,omitempty"`
}

type OracleResponse struct {
	Status  StatusCode `json:"status"`
	Oracles []Address  `json:"oracles"`
}

type FlightStatus struct {
	Airline   Address    `json:"airline"`
	Flight    string     `json:"flight"`
	Timestamp uint64     `json:"timestamp"`
	Status    StatusCode `json:"status"`
}

func (s *AppState) Verify() error {
	if s.Owner == (Address{}) {
		return fmt.Errorf("owner is not set")
	}

	if !helpers.IsValidBigInt(s.ContractBalance) {
		return fmt.Errorf("contract balance is not valid BigInt")
	}

	accounts := map[Address]struct{}{}
	for _, acc := range s.Accounts {
		if _, exists := accounts[acc.Address]; exists {
			return fmt.Errorf("duplicated account %s", acc.Address.Hex())
		}
		accounts[acc.Address] = struct{}{}

		if !helpers.IsValidBigInt(acc.Balance) {
			return fmt.Errorf("balance of account %s is not valid", acc.Address.Hex())
		}
	}

	airlines := map[Address]struct{}{}
	registered := 0
	for _, airline := range s.Airlines {
		if _, exists := airlines[airline.Address]; exists {
			return fmt.Errorf("duplicated airline %s", airline.Address.Hex())
		}
		airlines[airline.Address] = struct{}{}

		switch airline.Status {
		case "Registered":
			registered++
		case "Applied":
		default:
			return fmt.Errorf("airline %s has unknown status %q", airline.Address.Hex(), airline.Status)
		}

		if !helpers.IsValidBigInt(airline.Funded) {
			return fmt.Errorf("funding of airline %s is not valid", airline.Address.Hex())
		}
	}

	if registered == 0 {
		return fmt.Errorf("there should be at least one registered airline")
	}

	flights := map[FlightKey]struct{}{}
	for _, flight := range s.Flights {
		key := FlightKey{Airline: flight.Airline, Flight: flight.Flight}
		if _, exists := flights[key]; exists {
			return fmt.Errorf("duplicated flight %s", key)
		}
		flights[key] = struct{}{}

		passengers := map[Address]struct{}{}
		for _, policy := range flight.Policies {
			if _, exists := passengers[policy.Passenger]; exists {
				return fmt.Errorf("duplicated policy of %s on flight %s", policy.Passenger.Hex(), key)
			}
			passengers[policy.Passenger] = struct{}{}

			if !helpers.IsValidBigInt(policy.Premium) || !helpers.IsValidBigInt(policy.Credit) {
				return fmt.Errorf("policy of %s on flight %s is not valid", policy.Passenger.Hex(), key)
			}

			if helpers.StringToBigInt(policy.Premium).Cmp(PremiumCap()) == 1 {
				return fmt.Errorf("policy of %s on flight %s exceeds the premium cap", policy.Passenger.Hex(), key)
			}
		}
	}

	oracles := map[Address]struct{}{}
	for _, oracle := range s.Oracles {
		if _, exists := oracles[oracle.Address]; exists {
			return fmt.Errorf("duplicated oracle %s", oracle.Address.Hex())
		}
		oracles[oracle.Address] = struct{}{}

		for _, index := range oracle.Indexes {
			if index >= OracleIndexRange {
				return fmt.Errorf("oracle %s has index %d out of range", oracle.Address.Hex(), index)
			}
		}
	}

	return nil
}
