package oracles

import (
	"bytes"
	"fmt"
	"math/big"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/cosmos/iavl"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/flightsurety/surety-node/core/events"
	"github.com/flightsurety/surety-node/core/state/bus"
	"github.com/flightsurety/surety-node/core/types"
)

const (
	oraclePrefix  = byte('o')
	requestPrefix = byte('r')
	statusPrefix  = byte('s')
)

type ROracles interface {
	Export(state *types.AppState)
	GetOracle(address types.Address) *Oracle
	IsRegistered(address types.Address) bool
	GetRequest(index uint8, key types.ScheduleKey) *Request
	GetFlightStatus(key types.ScheduleKey) (types.StatusCode, bool)
	IsFinalized(key types.ScheduleKey) bool
}

// Oracles keeps oracle registrations, status requests with the reports
// collected so far and the finalized flight statuses.
type Oracles struct {
	oracles      map[types.Address]*Oracle
	dirtyOracles map[types.Address]struct{}

	requests      map[types.Hash]*Request
	dirtyRequests map[types.Hash]struct{}

	statuses      map[types.Hash]*FlightStatus
	dirtyStatuses map[types.Hash]struct{}

	db  atomic.Value
	bus *bus.Bus

	lock sync.RWMutex
}

func NewOracles(stateBus *bus.Bus, db *iavl.ImmutableTree) *Oracles {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}
	return &Oracles{
		db:            immutableTree,
		bus:           stateBus,
		oracles:       map[types.Address]*Oracle{},
		dirtyOracles:  map[types.Address]struct{}{},
		requests:      map[types.Hash]*Request{},
		dirtyRequests: map[types.Hash]struct{}{},
		statuses:      map[types.Hash]*FlightStatus{},
		dirtyStatuses: map[types.Hash]struct{}{},
	}
}

func (o *Oracles) immutableTree() *iavl.ImmutableTree {
	db := o.db.Load()
	if db == nil {
		return nil
	}
	return db.(*iavl.ImmutableTree)
}

func (o *Oracles) SetImmutableTree(immutableTree *iavl.ImmutableTree) {
	o.db.Store(immutableTree)
}

func (o *Oracles) Commit(db *iavl.MutableTree) error {
	o.lock.Lock()
	defer o.lock.Unlock()

	for _, address := range sortedAddresses(o.dirtyOracles) {
		data, err := rlp.EncodeToBytes(o.oracles[address])
		if err != nil {
			return fmt.Errorf("can't encode oracle %s: %v", address.Hex(), err)
		}
		delete(o.dirtyOracles, address)
		db.Set(append([]byte{oraclePrefix}, address.Bytes()...), data)
	}

	for _, id := range sortedHashes(o.dirtyRequests) {
		data, err := rlp.EncodeToBytes(o.requests[id])
		if err != nil {
			return fmt.Errorf("can't encode request %s: %v", id.Hex(), err)
		}
		delete(o.dirtyRequests, id)
		db.Set(append([]byte{requestPrefix}, id.Bytes()...), data)
	}

	for _, key := range sortedHashes(o.dirtyStatuses) {
		data, err := rlp.EncodeToBytes(o.statuses[key])
		if err != nil {
			return fmt.Errorf("can't encode flight status %s: %v", key.Hex(), err)
		}
		delete(o.dirtyStatuses, key)
		db.Set(append([]byte{statusPrefix}, key.Bytes()...), data)
	}

	return nil
}

func (o *Oracles) GetOracle(address types.Address) *Oracle {
	o.lock.RLock()
	oracle, ok := o.oracles[address]
	o.lock.RUnlock()
	if ok {
		return oracle
	}

	_, enc := o.immutableTree().Get(append([]byte{oraclePrefix}, address.Bytes()...))
	if len(enc) == 0 {
		return nil
	}

	oracle = &Oracle{}
	if err := rlp.DecodeBytes(enc, oracle); err != nil {
		panic(fmt.Sprintf("failed to decode oracle %s: %s", address.Hex(), err))
	}
	oracle.address = address

	o.lock.Lock()
	o.oracles[address] = oracle
	o.lock.Unlock()

	return oracle
}

func (o *Oracles) IsRegistered(address types.Address) bool {
	return o.GetOracle(address) != nil
}

// RandomIndex draws a pseudo-random index in [0, types.OracleIndexRange)
// from the block seed, the shared nonce and account.
func (o *Oracles) RandomIndex(account types.Address) uint8 {
	seed := o.bus.App().GetSeed()
	nonce := o.bus.App().NextNonce()

	hash := crypto.Keccak256(seed.Bytes(), types.Uint64Bytes(nonce), account.Bytes())
	index := big.NewInt(0).Mod(big.NewInt(0).SetBytes(hash), big.NewInt(types.OracleIndexRange))

	return uint8(index.Uint64())
}

func (o *Oracles) generateIndexes(account types.Address) [types.OracleIndexCount]uint8 {
	var indexes [types.OracleIndexCount]uint8
	for i := range indexes {
	draw:
		for {
			index := o.RandomIndex(account)
			for _, prev := range indexes[:i] {
				if prev == index {
					continue draw
				}
			}
			indexes[i] = index
			break
		}
	}

	return indexes
}

// Register assigns three distinct indexes to a new oracle and credits the
// registration fee to the contract balance.
func (o *Oracles) Register(address types.Address, fee *big.Int) [types.OracleIndexCount]uint8 {
	indexes := o.generateIndexes(address)
	o.setOracle(address, indexes)

	o.bus.App().AddContractBalance(fee)
	o.bus.Events().AddEvent(&events.OracleRegisteredEvent{
		Oracle:  address,
		Indexes: indexes,
	})

	return indexes
}

func (o *Oracles) setOracle(address types.Address, indexes [types.OracleIndexCount]uint8) {
	o.lock.Lock()
	defer o.lock.Unlock()

	o.oracles[address] = &Oracle{Indexes: indexes, address: address}
	o.dirtyOracles[address] = struct{}{}
}

func (o *Oracles) GetRequest(index uint8, key types.ScheduleKey) *Request {
	return o.getRequest(types.RequestID(index, key))
}

func (o *Oracles) getRequest(id types.Hash) *Request {
	o.lock.RLock()
	request, ok := o.requests[id]
	o.lock.RUnlock()
	if ok {
		return request
	}

	_, enc := o.immutableTree().Get(append([]byte{requestPrefix}, id.Bytes()...))
	if len(enc) == 0 {
		return nil
	}

	request = &Request{}
	if err := rlp.DecodeBytes(enc, request); err != nil {
		panic(fmt.Sprintf("failed to decode request %s: %s", id.Hex(), err))
	}
	request.markDirty = o.markRequestDirty

	o.lock.Lock()
	o.requests[id] = request
	o.lock.Unlock()

	return request
}

// OpenRequest draws an index and opens a status request for key. Drawing
// the index of a request that is already open returns that request again.
func (o *Oracles) OpenRequest(requester types.Address, key types.ScheduleKey) *Request {
	index := o.RandomIndex(key.Airline)

	request := o.GetRequest(index, key)
	if request == nil {
		request = &Request{
			Index:     index,
			Airline:   key.Airline,
			Flight:    key.Flight,
			Timestamp: key.Timestamp,
			Requester: requester,
			markDirty: o.markRequestDirty,
		}

		o.lock.Lock()
		o.requests[request.ID()] = request
		o.lock.Unlock()
	}
	request.setOpen(true)

	o.bus.Events().AddEvent(&events.OracleRequestEvent{
		Index:     index,
		Airline:   key.Airline,
		Flight:    key.Flight,
		Timestamp: key.Timestamp,
	})

	return request
}

// Submit records the report of oracle on an open request. It returns false
// when the oracle already reported the same status. Once a status collects
// types.MinOracleResponses reports the request is closed and the status is
// stored as final.
func (o *Oracles) Submit(oracle types.Address, index uint8, key types.ScheduleKey, status types.StatusCode) (accepted bool, finalized bool) {
	request := o.GetRequest(index, key)
	if request == nil {
		return false, false
	}

	votes := request.addVote(oracle, status)
	if votes == 0 {
		return false, false
	}

	o.bus.Events().AddEvent(&events.OracleReportEvent{
		Index:     index,
		Airline:   key.Airline,
		Flight:    key.Flight,
		Timestamp: key.Timestamp,
		Status:    status,
		Oracle:    oracle,
	})

	if votes < types.MinOracleResponses {
		return true, false
	}

	request.setOpen(false)
	o.setFlightStatus(key, status)
	o.bus.Events().AddEvent(&events.FlightStatusInfoEvent{
		Airline:   key.Airline,
		Flight:    key.Flight,
		Timestamp: key.Timestamp,
		Status:    status,
	})

	return true, true
}

func (o *Oracles) setFlightStatus(key types.ScheduleKey, status types.StatusCode) {
	o.lock.Lock()
	defer o.lock.Unlock()

	o.statuses[key.Hash()] = &FlightStatus{
		Airline:   key.Airline,
		Flight:    key.Flight,
		Timestamp: key.Timestamp,
		Status:    status,
	}
	o.dirtyStatuses[key.Hash()] = struct{}{}
}

func (o *Oracles) getFlightStatus(hash types.Hash) *FlightStatus {
	o.lock.RLock()
	status, ok := o.statuses[hash]
	o.lock.RUnlock()
	if ok {
		return status
	}

	_, enc := o.immutableTree().Get(append([]byte{statusPrefix}, hash.Bytes()...))
	if len(enc) == 0 {
		return nil
	}

	status = &FlightStatus{}
	if err := rlp.DecodeBytes(enc, status); err != nil {
		panic(fmt.Sprintf("failed to decode flight status %s: %s", hash.Hex(), err))
	}

	o.lock.Lock()
	o.statuses[hash] = status
	o.lock.Unlock()

	return status
}

// GetFlightStatus returns the finalized status of a departure.
func (o *Oracles) GetFlightStatus(key types.ScheduleKey) (types.StatusCode, bool) {
	status := o.getFlightStatus(key.Hash())
	if status == nil {
		return types.StatusUnknown, false
	}
	return status.Status, true
}

func (o *Oracles) IsFinalized(key types.ScheduleKey) bool {
	_, ok := o.GetFlightStatus(key)
	return ok
}

// RestoreOracle puts back an exported registration.
func (o *Oracles) RestoreOracle(address types.Address, indexes [types.OracleIndexCount]uint8) {
	o.setOracle(address, indexes)
}

// RestoreRequest puts back an exported request with its reports.
func (o *Oracles) RestoreRequest(r types.OracleRequest) {
	request := &Request{
		Index:     r.Index,
		Airline:   r.Airline,
		Flight:    r.Flight,
		Timestamp: r.Timestamp,
		Requester: r.Requester,
		Open:      r.Open,
		markDirty: o.markRequestDirty,
	}
	for _, resp := range r.Responses {
		request.Responses = append(request.Responses, &Response{
			Status:  resp.Status,
			Oracles: append([]types.Address{}, resp.Oracles...),
		})
	}

	o.lock.Lock()
	o.requests[request.ID()] = request
	o.lock.Unlock()
	request.markDirty(request.ID())
}

// RestoreFlightStatus puts back an exported final status.
func (o *Oracles) RestoreFlightStatus(s types.FlightStatus) {
	o.setFlightStatus(types.ScheduleKey{Airline: s.Airline, Flight: s.Flight, Timestamp: s.Timestamp}, s.Status)
}

func (o *Oracles) markRequestDirty(id types.Hash) {
	o.lock.Lock()
	defer o.lock.Unlock()

	o.dirtyRequests[id] = struct{}{}
}

func (o *Oracles) Export(state *types.AppState) {
	o.immutableTree().IterateRange([]byte{oraclePrefix}, []byte{oraclePrefix + 1}, true, func(key []byte, value []byte) bool {
		oracle := o.GetOracle(types.BytesToAddress(key[1:]))
		state.Oracles = append(state.Oracles, types.Oracle{
			Address: types.BytesToAddress(key[1:]),
			Indexes: oracle.Indexes,
		})
		return false
	})

	o.immutableTree().IterateRange([]byte{requestPrefix}, []byte{requestPrefix + 1}, true, func(key []byte, value []byte) bool {
		request := o.getRequest(types.BytesToHash(key[1:]))
		exported := types.OracleRequest{
			Index:     request.Index,
			Airline:   request.Airline,
			Flight:    request.Flight,
			Timestamp: request.Timestamp,
			Requester: request.Requester,
			Open:      request.Open,
		}
		for _, resp := range request.Responses {
			exported.Responses = append(exported.Responses, types.OracleResponse{
				Status:  resp.Status,
				Oracles: append([]types.Address{}, resp.Oracles...),
			})
		}
		state.Requests = append(state.Requests, exported)
		return false
	})

	o.immutableTree().IterateRange([]byte{statusPrefix}, []byte{statusPrefix + 1}, true, func(key []byte, value []byte) bool {
		status := o.getFlightStatus(types.BytesToHash(key[1:]))
		state.Statuses = append(state.Statuses, types.FlightStatus{
			Airline:   status.Airline,
			Flight:    status.Flight,
			Timestamp: status.Timestamp,
			Status:    status.Status,
		})
		return false
	})
}

func sortedAddresses(set map[types.Address]struct{}) []types.Address {
	keys := make([]types.Address, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}

	sort.SliceStable(keys, func(i, j int) bool {
		return bytes.Compare(keys[i].Bytes(), keys[j].Bytes()) == -1
	})

	return keys
}

func sortedHashes(set map[types.Hash]struct{}) []types.Hash {
	keys := make([]types.Hash, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}

	sort.SliceStable(keys, func(i, j int) bool {
		return bytes.Compare(keys[i].Bytes(), keys[j].Bytes()) == -1
	})

	return keys
}
