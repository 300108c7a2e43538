package airlines

import (
	"math/big"

	"github.com/flightsurety/surety-node/core/types"
)

type Status byte

const (
	StatusUnregistered Status = iota
	StatusApplied
	StatusRegistered
)

func (s Status) String() string {
	switch s {
	case StatusApplied:
		return "Applied"
	case StatusRegistered:
		return "Registered"
	}
	return "Unregistered"
}

// StatusFromString is the inverse of Status.String.
func StatusFromString(s string) Status {
	switch s {
	case "Applied":
		return StatusApplied
	case "Registered":
		return StatusRegistered
	}
	return StatusUnregistered
}

type Model struct {
	Status Status
	Funded *big.Int
	Votes  []types.Address

	address   types.Address
	markDirty func(types.Address)
}

func (m *Model) GetAddress() types.Address {
	return m.address
}

func (m *Model) IsRegistered() bool {
	return m.Status == StatusRegistered
}

func (m *Model) getFunded() *big.Int {
	if m.Funded == nil {
		return big.NewInt(0)
	}
	return m.Funded
}

// IsFunded reports whether the cumulative contribution reached the funding threshold.
func (m *Model) IsFunded() bool {
	return m.getFunded().Cmp(types.FundingThreshold()) != -1
}

func (m *Model) setStatus(status Status) {
	m.Status = status
	m.markDirty(m.address)
}

func (m *Model) addFunds(amount *big.Int) *big.Int {
	m.Funded = big.NewInt(0).Add(m.getFunded(), amount)
	m.markDirty(m.address)
	return m.Funded
}

func (m *Model) hasVoted(voter types.Address) bool {
	for _, vote := range m.Votes {
		if vote == voter {
			return true
		}
	}
	return false
}

func (m *Model) addVote(voter types.Address) bool {
	if m.hasVoted(voter) {
		return false
	}

	m.Votes = append(m.Votes, voter)
	m.markDirty(m.address)
	return true
}
