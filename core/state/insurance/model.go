package insurance

import (
	"math/big"

	"github.com/flightsurety/surety-node/core/types"
)

// Flight holds every policy bought for one flight of an airline.
type Flight struct {
	Airline  types.Address
	Flight   string
	Delayed  bool
	Policies []*Policy

	markDirty func(types.Hash)
}

type Policy struct {
	Passenger types.Address
	Premium   *big.Int
	Credit    *big.Int
	Credited  bool
}

func (f *Flight) Key() types.FlightKey {
	return types.FlightKey{Airline: f.Airline, Flight: f.Flight}
}

func (f *Flight) policy(passenger types.Address) *Policy {
	for _, p := range f.Policies {
		if p.Passenger == passenger {
			return p
		}
	}
	return nil
}

func (f *Flight) setDelayed() {
	f.Delayed = true
	f.markDirty(f.Key().Hash())
}

func (f *Flight) addPolicy(p *Policy) {
	f.Policies = append(f.Policies, p)
	f.markDirty(f.Key().Hash())
}

func (p *Policy) getCredit() *big.Int {
	if p.Credit == nil {
		return big.NewInt(0)
	}
	return p.Credit
}

// Holder lists the flights a passenger holds policies on.
type Holder struct {
	Flights []HolderFlight

	passenger types.Address
	markDirty func(types.Address)
}

type HolderFlight struct {
	Airline types.Address
	Flight  string
}

func (h *Holder) add(key types.FlightKey) {
	h.Flights = append(h.Flights, HolderFlight{Airline: key.Airline, Flight: key.Flight})
	h.markDirty(h.passenger)
}
