package airlines

import (
	"bytes"
	"encoding/binary"
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
	mainPrefix  = byte('l')
	countPrefix = byte('n')
)

type RAirlines interface {
	Export(state *types.AppState)
	GetAirline(address types.Address) *Model
	IsAirline(address types.Address) bool
	IsFunded(address types.Address) bool
	GetFunding(address types.Address) *big.Int
	RegisteredCount() uint32
}

// Airlines is the airline registry. An airline applies, collects votes of
// registered airlines once the fast registration limit is reached, and
// becomes registered. Funding is tracked separately and never refunded.
type Airlines struct {
	list  map[types.Address]*Model
	dirty map[types.Address]struct{}

	count      uint32
	countDirty bool
	loaded     bool

	db  atomic.Value
	bus *bus.Bus

	lock sync.RWMutex
}

func NewAirlines(stateBus *bus.Bus, db *iavl.ImmutableTree) *Airlines {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}
	return &Airlines{
		db:    immutableTree,
		bus:   stateBus,
		list:  map[types.Address]*Model{},
		dirty: map[types.Address]struct{}{},
	}
}

func (a *Airlines) immutableTree() *iavl.ImmutableTree {
	db := a.db.Load()
	if db == nil {
		return nil
	}
	return db.(*iavl.ImmutableTree)
}

func (a *Airlines) SetImmutableTree(immutableTree *iavl.ImmutableTree) {
	a.db.Store(immutableTree)
}

func (a *Airlines) Commit(db *iavl.MutableTree) error {
	for _, address := range a.getOrderedDirty() {
		airline := a.get(address)

		data, err := rlp.EncodeToBytes(airline)
		if err != nil {
			return fmt.Errorf("can't encode airline %s: %v", address.Hex(), err)
		}

		a.lock.Lock()
		delete(a.dirty, address)
		a.lock.Unlock()

		db.Set(getPath(address), data)
	}

	a.lock.Lock()
	defer a.lock.Unlock()
	if a.countDirty {
		a.countDirty = false
		count := make([]byte, 4)
		binary.BigEndian.PutUint32(count, a.count)
		db.Set([]byte{countPrefix}, count)
	}

	return nil
}

func (a *Airlines) getOrderedDirty() []types.Address {
	a.lock.RLock()
	keys := make([]types.Address, 0, len(a.dirty))
	for k := range a.dirty {
		keys = append(keys, k)
	}
	a.lock.RUnlock()

	sort.SliceStable(keys, func(i, j int) bool {
		return bytes.Compare(keys[i].Bytes(), keys[j].Bytes()) == -1
	})

	return keys
}

// GetAirline returns the airline record or nil when the address never applied.
func (a *Airlines) GetAirline(address types.Address) *Model {
	return a.get(address)
}

// IsAirline reports whether address is a registered airline.
func (a *Airlines) IsAirline(address types.Address) bool {
	airline := a.get(address)
	return airline != nil && airline.IsRegistered()
}

// IsFunded reports whether address contributed at least the funding threshold.
// Applicants that are not registered yet may be funded too.
func (a *Airlines) IsFunded(address types.Address) bool {
	airline := a.get(address)
	return airline != nil && airline.IsFunded()
}

func (a *Airlines) GetFunding(address types.Address) *big.Int {
	airline := a.get(address)
	if airline == nil {
		return big.NewInt(0)
	}
	return big.NewInt(0).Set(airline.getFunded())
}

func (a *Airlines) RegisteredCount() uint32 {
	a.loadCount()

	a.lock.RLock()
	defer a.lock.RUnlock()

	return a.count
}

// RegisterAirline processes a registration of candidate proposed by a funded
// airline. Below the fast registration limit the candidate is registered
// right away. Otherwise the proposal counts as a vote and the candidate is
// registered once at least half of the registered airlines voted for it. A
// repeated vote changes nothing.
func (a *Airlines) RegisterAirline(candidate, proposer types.Address) (Status, uint32) {
	count := a.RegisteredCount()
	if count < types.FastRegistrationLimit {
		a.getOrNew(candidate)
		return a.register(candidate), a.RegisteredCount()
	}

	airline := a.getOrNew(candidate)
	if !airline.addVote(proposer) {
		return airline.Status, count
	}

	votes := uint32(len(airline.Votes))
	a.bus.Events().AddEvent(&events.AirlineRegistrationConsensusEvent{
		Airline: candidate,
		Voter:   proposer,
		Votes:   votes,
	})

	if votes*types.ConsensusDivisor >= count {
		return a.register(candidate), a.RegisteredCount()
	}

	return airline.Status, count
}

func (a *Airlines) register(address types.Address) Status {
	airline := a.getOrNew(address)
	if airline.IsRegistered() {
		return airline.Status
	}
	airline.setStatus(StatusRegistered)

	a.loadCount()
	a.lock.Lock()
	a.count++
	a.countDirty = true
	count := a.count
	a.lock.Unlock()

	a.bus.Events().AddEvent(&events.AirlineRegisteredEvent{
		Airline: address,
		Count:   count,
	})

	return airline.Status
}

// Fund adds amount to the contribution of the airline and returns the new total.
func (a *Airlines) Fund(address types.Address, amount *big.Int) *big.Int {
	airline := a.getOrNew(address)
	total := big.NewInt(0).Set(airline.addFunds(amount))

	a.bus.App().AddContractBalance(amount)
	a.bus.Events().AddEvent(&events.AirlineFundedEvent{
		Airline: address,
		Amount:  amount.String(),
		Total:   total.String(),
	})

	return total
}

// Create restores an airline record as is, used by genesis import.
func (a *Airlines) Create(address types.Address, status Status, funded *big.Int, votes []types.Address) {
	airline := a.getOrNew(address)
	airline.Funded = big.NewInt(0).Set(funded)
	airline.Votes = append([]types.Address{}, votes...)
	airline.setStatus(StatusApplied)

	if status == StatusRegistered {
		airline.setStatus(StatusRegistered)
		a.loadCount()
		a.lock.Lock()
		a.count++
		a.countDirty = true
		a.lock.Unlock()
	}
}

func (a *Airlines) loadCount() {
	a.lock.RLock()
	loaded := a.loaded
	a.lock.RUnlock()
	if loaded {
		return
	}

	_, enc := a.immutableTree().Get([]byte{countPrefix})

	a.lock.Lock()
	defer a.lock.Unlock()
	if a.loaded {
		return
	}
	a.loaded = true
	if len(enc) == 4 {
		a.count = binary.BigEndian.Uint32(enc)
	}
}

func (a *Airlines) get(address types.Address) *Model {
	a.lock.RLock()
	airline, ok := a.list[address]
	a.lock.RUnlock()
	if ok {
		return airline
	}

	_, enc := a.immutableTree().Get(getPath(address))
	if len(enc) == 0 {
		return nil
	}

	airline = &Model{}
	if err := rlp.DecodeBytes(enc, airline); err != nil {
		panic(fmt.Sprintf("failed to decode airline %s: %s", address.Hex(), err))
	}

	airline.address = address
	airline.markDirty = a.markDirty

	a.setToMap(address, airline)

	return airline
}

func (a *Airlines) getOrNew(address types.Address) *Model {
	airline := a.get(address)
	if airline == nil {
		airline = &Model{
			Status:    StatusApplied,
			Funded:    big.NewInt(0),
			address:   address,
			markDirty: a.markDirty,
		}
		a.setToMap(address, airline)
		a.markDirty(address)
	}

	return airline
}

func (a *Airlines) setToMap(address types.Address, model *Model) {
	a.lock.Lock()
	defer a.lock.Unlock()

	a.list[address] = model
}

func (a *Airlines) markDirty(address types.Address) {
	a.lock.Lock()
	defer a.lock.Unlock()

	a.dirty[address] = struct{}{}
}

func (a *Airlines) Export(state *types.AppState) {
	a.immutableTree().IterateRange([]byte{mainPrefix}, []byte{mainPrefix + 1}, true, func(key []byte, value []byte) bool {
		address := types.BytesToAddress(key[1:])
		airline := a.get(address)

		exported := types.Airline{
			Address: address,
			Status:  airline.Status.String(),
			Funded:  airline.getFunded().String(),
		}
		if len(airline.Votes) != 0 {
			exported.Votes = append([]types.Address{}, airline.Votes...)
		}
		state.Airlines = append(state.Airlines, exported)

		return false
	})
}

func getPath(address types.Address) []byte {
	return append([]byte{mainPrefix}, address.Bytes()...)
}
