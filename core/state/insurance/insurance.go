package insurance

import (
	"bytes"
	"fmt"
	"math/big"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/cosmos/iavl"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/flightsurety/surety-node/core/events"
	"github.com/flightsurety/surety-node/core/state/bus"
	"github.com/flightsurety/surety-node/core/types"
)

const (
	mainPrefix   = byte('i')
	holderPrefix = byte('h')
)

type RInsurance interface {
	Export(state *types.AppState)
	GetFlight(key types.FlightKey) *Flight
	GetPolicy(passenger types.Address, key types.FlightKey) *Policy
	IsDelayed(key types.FlightKey) bool
	CreditedAmount(passenger types.Address, key types.FlightKey) *big.Int
	TotalCredit(passenger types.Address) *big.Int
}

// Insurance is the pool of passenger policies. Premiums and payouts move
// through the contract balance kept by the app store.
type Insurance struct {
	flights      map[types.Hash]*Flight
	dirtyFlights map[types.Hash]struct{}

	holders      map[types.Address]*Holder
	dirtyHolders map[types.Address]struct{}

	db  atomic.Value
	bus *bus.Bus

	lock sync.RWMutex
}

func NewInsurance(stateBus *bus.Bus, db *iavl.ImmutableTree) *Insurance {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}
	return &Insurance{
		db:           immutableTree,
		bus:          stateBus,
		flights:      map[types.Hash]*Flight{},
		dirtyFlights: map[types.Hash]struct{}{},
		holders:      map[types.Address]*Holder{},
		dirtyHolders: map[types.Address]struct{}{},
	}
}

func (i *Insurance) immutableTree() *iavl.ImmutableTree {
	db := i.db.Load()
	if db == nil {
		return nil
	}
	return db.(*iavl.ImmutableTree)
}

func (i *Insurance) SetImmutableTree(immutableTree *iavl.ImmutableTree) {
	i.db.Store(immutableTree)
}

func (i *Insurance) Commit(db *iavl.MutableTree) error {
	for _, key := range i.getOrderedDirtyFlights() {
		flight := i.getFlight(key)

		data, err := rlp.EncodeToBytes(flight)
		if err != nil {
			return fmt.Errorf("can't encode flight %s: %v", key.Hex(), err)
		}

		i.lock.Lock()
		delete(i.dirtyFlights, key)
		i.lock.Unlock()

		db.Set(append([]byte{mainPrefix}, key.Bytes()...), data)
	}

	for _, passenger := range i.getOrderedDirtyHolders() {
		holder := i.getHolder(passenger)

		data, err := rlp.EncodeToBytes(holder)
		if err != nil {
			return fmt.Errorf("can't encode holder %s: %v", passenger.Hex(), err)
		}

		i.lock.Lock()
		delete(i.dirtyHolders, passenger)
		i.lock.Unlock()

		db.Set(append([]byte{holderPrefix}, passenger.Bytes()...), data)
	}

	return nil
}

func (i *Insurance) getOrderedDirtyFlights() []types.Hash {
	i.lock.RLock()
	keys := make([]types.Hash, 0, len(i.dirtyFlights))
	for k := range i.dirtyFlights {
		keys = append(keys, k)
	}
	i.lock.RUnlock()

	sort.SliceStable(keys, func(a, b int) bool {
		return bytes.Compare(keys[a].Bytes(), keys[b].Bytes()) == -1
	})

	return keys
}

func (i *Insurance) getOrderedDirtyHolders() []types.Address {
	i.lock.RLock()
	keys := make([]types.Address, 0, len(i.dirtyHolders))
	for k := range i.dirtyHolders {
		keys = append(keys, k)
	}
	i.lock.RUnlock()

	sort.SliceStable(keys, func(a, b int) bool {
		return bytes.Compare(keys[a].Bytes(), keys[b].Bytes()) == -1
	})

	return keys
}

func (i *Insurance) GetFlight(key types.FlightKey) *Flight {
	return i.getFlight(key.Hash())
}

// GetPolicy returns the policy of passenger on the flight or nil.
func (i *Insurance) GetPolicy(passenger types.Address, key types.FlightKey) *Policy {
	flight := i.getFlight(key.Hash())
	if flight == nil {
		return nil
	}
	return flight.policy(passenger)
}

// IsDelayed reports whether the flight was settled as delayed by the airline.
func (i *Insurance) IsDelayed(key types.FlightKey) bool {
	flight := i.getFlight(key.Hash())
	return flight != nil && flight.Delayed
}

func (i *Insurance) CreditedAmount(passenger types.Address, key types.FlightKey) *big.Int {
	policy := i.GetPolicy(passenger, key)
	if policy == nil {
		return big.NewInt(0)
	}
	return big.NewInt(0).Set(policy.getCredit())
}

// TotalCredit sums the withdrawable credit of passenger over all flights.
func (i *Insurance) TotalCredit(passenger types.Address) *big.Int {
	total := big.NewInt(0)

	holder := i.getHolder(passenger)
	if holder == nil {
		return total
	}

	for _, hf := range holder.Flights {
		total.Add(total, i.CreditedAmount(passenger, types.FlightKey{Airline: hf.Airline, Flight: hf.Flight}))
	}

	return total
}

// Buy adds premium to the policy passenger holds on the flight, creating
// the policy on first purchase, and returns the policy id.
func (i *Insurance) Buy(passenger types.Address, key types.FlightKey, premium *big.Int) types.Hash {
	flight := i.getOrNewFlight(key)

	policy := flight.policy(passenger)
	if policy == nil {
		policy = &Policy{
			Passenger: passenger,
			Premium:   big.NewInt(0),
			Credit:    big.NewInt(0),
		}
		flight.addPolicy(policy)
		i.getOrNewHolder(passenger).add(key)
	}

	policy.Premium = big.NewInt(0).Add(policy.Premium, premium)
	flight.markDirty(key.Hash())

	i.bus.App().AddContractBalance(premium)
	i.bus.Events().AddEvent(&events.InsurancePurchasedEvent{
		Passenger: passenger,
		Flight:    key.Flight,
		Airline:   key.Airline,
		Premium:   premium.String(),
	})

	return types.PolicyID(passenger, key)
}

// CreditInsurees marks the flight delayed and credits the payout to every
// policy not credited before. It returns the number of credited policies
// and their total.
func (i *Insurance) CreditInsurees(key types.FlightKey) (uint32, *big.Int) {
	flight := i.getOrNewFlight(key)
	if !flight.Delayed {
		flight.setDelayed()
	}

	var count uint32
	total := big.NewInt(0)
	for _, policy := range flight.Policies {
		if policy.Credited {
			continue
		}

		payout := types.Payout(policy.Premium)
		policy.Credit = big.NewInt(0).Add(policy.getCredit(), payout)
		policy.Credited = true
		count++
		total.Add(total, payout)

		i.bus.Events().AddEvent(&events.PassengerCreditedEvent{
			Passenger: policy.Passenger,
			Flight:    key.Flight,
			Airline:   key.Airline,
			Amount:    payout.String(),
		})
	}

	if count == 0 {
		return 0, total
	}

	flight.markDirty(key.Hash())
	i.bus.Events().AddEvent(&events.CreditInsureesEvent{
		Flight:  key.Flight,
		Airline: key.Airline,
		Total:   total.String(),
		Count:   count,
	})

	return count, total
}

// Withdraw zeroes every credit of passenger and moves the sum from the
// contract balance to the passenger's ledger balance.
func (i *Insurance) Withdraw(passenger types.Address) *big.Int {
	amount := big.NewInt(0)

	holder := i.getHolder(passenger)
	if holder == nil {
		return amount
	}

	for _, hf := range holder.Flights {
		key := types.FlightKey{Airline: hf.Airline, Flight: hf.Flight}
		flight := i.getFlight(key.Hash())
		if flight == nil {
			continue
		}

		policy := flight.policy(passenger)
		if policy == nil || policy.getCredit().Sign() == 0 {
			continue
		}

		amount.Add(amount, policy.getCredit())
		policy.Credit = big.NewInt(0)
		flight.markDirty(key.Hash())
	}

	if amount.Sign() == 0 {
		return amount
	}

	i.bus.App().SubContractBalance(amount)
	i.bus.Accounts().AddBalance(passenger, amount)
	i.bus.Events().AddEvent(&events.InsuranceWithdrawnEvent{
		Passenger: passenger,
		Amount:    amount.String(),
	})

	return amount
}

// Restore puts a flight with its policies back as exported, used by genesis import.
func (i *Insurance) Restore(f types.Flight) {
	key := types.FlightKey{Airline: f.Airline, Flight: f.Flight}
	flight := i.getOrNewFlight(key)
	flight.Delayed = f.Delayed

	for _, p := range f.Policies {
		premium, _ := big.NewInt(0).SetString(p.Premium, 10)
		credit, _ := big.NewInt(0).SetString(p.Credit, 10)
		flight.addPolicy(&Policy{
			Passenger: p.Passenger,
			Premium:   premium,
			Credit:    credit,
			Credited:  p.Credited,
		})
		i.getOrNewHolder(p.Passenger).add(key)
	}

	flight.markDirty(key.Hash())
}

func (i *Insurance) getFlight(key types.Hash) *Flight {
	i.lock.RLock()
	flight, ok := i.flights[key]
	i.lock.RUnlock()
	if ok {
		return flight
	}

	_, enc := i.immutableTree().Get(append([]byte{mainPrefix}, key.Bytes()...))
	if len(enc) == 0 {
		return nil
	}

	flight = &Flight{}
	if err := rlp.DecodeBytes(enc, flight); err != nil {
		panic(fmt.Sprintf("failed to decode flight %s: %s", key.Hex(), err))
	}
	flight.markDirty = i.markFlightDirty

	i.lock.Lock()
	i.flights[key] = flight
	i.lock.Unlock()

	return flight
}

func (i *Insurance) getOrNewFlight(key types.FlightKey) *Flight {
	flight := i.getFlight(key.Hash())
	if flight == nil {
		flight = &Flight{
			Airline:   key.Airline,
			Flight:    key.Flight,
			markDirty: i.markFlightDirty,
		}

		i.lock.Lock()
		i.flights[key.Hash()] = flight
		i.lock.Unlock()
		flight.markDirty(key.Hash())
	}

	return flight
}

func (i *Insurance) getHolder(passenger types.Address) *Holder {
	i.lock.RLock()
	holder, ok := i.holders[passenger]
	i.lock.RUnlock()
	if ok {
		return holder
	}

	_, enc := i.immutableTree().Get(append([]byte{holderPrefix}, passenger.Bytes()...))
	if len(enc) == 0 {
		return nil
	}

	holder = &Holder{}
	if err := rlp.DecodeBytes(enc, holder); err != nil {
		panic(fmt.Sprintf("failed to decode holder %s: %s", passenger.Hex(), err))
	}
	holder.passenger = passenger
	holder.markDirty = i.markHolderDirty

	i.lock.Lock()
	i.holders[passenger] = holder
	i.lock.Unlock()

	return holder
}

func (i *Insurance) getOrNewHolder(passenger types.Address) *Holder {
	holder := i.getHolder(passenger)
	if holder == nil {
		holder = &Holder{
			passenger: passenger,
			markDirty: i.markHolderDirty,
		}

		i.lock.Lock()
		i.holders[passenger] = holder
		i.lock.Unlock()
	}

	return holder
}

func (i *Insurance) markFlightDirty(key types.Hash) {
	i.lock.Lock()
	defer i.lock.Unlock()

	i.dirtyFlights[key] = struct{}{}
}

func (i *Insurance) markHolderDirty(passenger types.Address) {
	i.lock.Lock()
	defer i.lock.Unlock()

	i.dirtyHolders[passenger] = struct{}{}
}

func (i *Insurance) Export(state *types.AppState) {
	i.immutableTree().IterateRange([]byte{mainPrefix}, []byte{mainPrefix + 1}, true, func(key []byte, value []byte) bool {
		flight := i.getFlight(types.BytesToHash(key[1:]))

		exported := types.Flight{
			Airline: flight.Airline,
			Flight:  flight.Flight,
			Delayed: flight.Delayed,
		}
		for _, p := range flight.Policies {
			exported.Policies = append(exported.Policies, types.Policy{
				Passenger: p.Passenger,
				Premium:   p.Premium.String(),
				Credit:    p.getCredit().String(),
				Credited:  p.Credited,
			})
		}
		state.Flights = append(state.Flights, exported)

		return false
	})
}
