package state

import (
	"log"
	"sync"

	"github.com/cosmos/iavl"
	eventsdb "github.com/flightsurety/surety-node/core/events"
	"github.com/flightsurety/surety-node/core/state/accounts"
	"github.com/flightsurety/surety-node/core/state/airlines"
	"github.com/flightsurety/surety-node/core/state/app"
	"github.com/flightsurety/surety-node/core/state/bus"
	"github.com/flightsurety/surety-node/core/state/insurance"
	"github.com/flightsurety/surety-node/core/state/oracles"
	"github.com/flightsurety/surety-node/core/types"
	"github.com/flightsurety/surety-node/helpers"
	"github.com/flightsurety/surety-node/tree"
	"github.com/pkg/errors"
	db "github.com/tendermint/tm-db"
)

type Interface interface {
	isValue_State()
}

type CheckState struct {
	state *State
}

func NewCheckState(state *State) *CheckState {
	return &CheckState{state: state}
}

func (cs *CheckState) isValue_State() {}

func (cs *CheckState) Export() types.AppState {
	appState := new(types.AppState)
	cs.App().Export(appState)
	cs.Accounts().Export(appState)
	cs.Airlines().Export(appState)
	cs.Insurance().Export(appState)
	cs.Oracles().Export(appState)

	return *appState
}

func (cs *CheckState) App() app.RApp {
	return cs.state.App
}

func (cs *CheckState) Accounts() accounts.RAccounts {
	return cs.state.Accounts
}

func (cs *CheckState) Airlines() airlines.RAirlines {
	return cs.state.Airlines
}

func (cs *CheckState) Insurance() insurance.RInsurance {
	return cs.state.Insurance
}

func (cs *CheckState) Oracles() oracles.ROracles {
	return cs.state.Oracles
}

func (cs *CheckState) Height() int64 {
	return cs.state.height
}

type State struct {
	App       *app.App
	Accounts  *accounts.Accounts
	Airlines  *airlines.Airlines
	Insurance *insurance.Insurance
	Oracles   *oracles.Oracles

	db             db.DB
	events         eventsdb.IEventsDB
	tree           tree.MTree
	keepLastStates int64

	bus    *bus.Bus
	lock   sync.RWMutex
	height int64
}

func (s *State) isValue_State() {}

func NewState(height uint64, db db.DB, events eventsdb.IEventsDB, cacheSize int, keepLastStates int64) (*State, error) {
	iavlTree, err := tree.NewMutableTree(height, db, cacheSize)
	if err != nil {
		return nil, err
	}

	state := newStateForTree(iavlTree.GetLastImmutable(), events, db, keepLastStates)
	state.tree = iavlTree
	state.height = iavlTree.Version()

	return state, nil
}

func NewCheckStateAtHeight(height uint64, db db.DB) (*CheckState, error) {
	iavlTree, err := tree.NewImmutableTree(height, db)
	if err != nil {
		return nil, err
	}

	return NewCheckState(newStateForTree(iavlTree, nil, db, 0)), nil
}

func (s *State) Tree() tree.MTree {
	return s.tree
}

func (s *State) Height() int64 {
	return s.height
}

func (s *State) Events() eventsdb.IEventsDB {
	return s.bus.Events()
}

func (s *State) Lock() {
	s.lock.Lock()
}

func (s *State) Unlock() {
	s.lock.Unlock()
}

func (s *State) RLock() {
	s.lock.RLock()
}

func (s *State) RUnlock() {
	s.lock.RUnlock()
}

// Commit saves a new version of the state. The hash of the saved version
// becomes the seed of oracle index draws in the next block.
func (s *State) Commit() ([]byte, error) {
	hash, version, err := s.tree.Commit(
		s.App,
		s.Accounts,
		s.Airlines,
		s.Insurance,
		s.Oracles,
	)
	if err != nil {
		return hash, err
	}

	s.height = version
	s.App.SetSeed(types.BytesToHash(hash))

	if s.keepLastStates <= 0 {
		return hash, nil
	}

	versionToDelete := version - s.keepLastStates - 1
	if versionToDelete < 1 {
		return hash, nil
	}

	if err := s.tree.DeleteVersion(versionToDelete); err != nil {
		log.Printf("DeleteVersion %d error: %s\n", versionToDelete, err)
	}

	return hash, nil
}

func (s *State) Import(state types.AppState) error {
	if err := state.Verify(); err != nil {
		return errors.Wrap(err, "invalid app state")
	}

	// genesis records are restored silently
	s.bus.SetEvents(nil)
	defer s.bus.SetEvents(s.events)

	s.App.SetOwner(state.Owner)
	s.App.SetOperational(state.Operational)
	s.App.SetSeed(state.Seed)
	s.App.SetNonce(state.Nonce)
	s.App.SetContractBalance(helpers.StringToBigInt(state.ContractBalance))

	for _, a := range state.Accounts {
		s.Accounts.SetAuthorized(a.Address, a.Authorized)
		s.Accounts.SetBalance(a.Address, helpers.StringToBigInt(a.Balance))
	}

	for _, a := range state.Airlines {
		s.Airlines.Create(a.Address, airlines.StatusFromString(a.Status), helpers.StringToBigInt(a.Funded), a.Votes)
	}

	for _, f := range state.Flights {
		s.Insurance.Restore(f)
	}

	for _, o := range state.Oracles {
		s.Oracles.RestoreOracle(o.Address, o.Indexes)
	}

	for _, r := range state.Requests {
		s.Oracles.RestoreRequest(r)
	}

	for _, st := range state.Statuses {
		s.Oracles.RestoreFlightStatus(st)
	}

	return nil
}

// Export reads the last committed version from disk.
func (s *State) Export() types.AppState {
	state, err := NewCheckStateAtHeight(uint64(s.tree.Version()), s.db)
	if err != nil {
		log.Panicf("Create new state at height %d failed: %s", s.tree.Version(), err)
	}

	return state.Export()
}

func newStateForTree(immutableTree *iavl.ImmutableTree, events eventsdb.IEventsDB, db db.DB, keepLastStates int64) *State {
	stateBus := bus.NewBus()
	stateBus.SetEvents(events)

	return &State{
		App:       app.NewApp(stateBus, immutableTree),
		Accounts:  accounts.NewAccounts(stateBus, immutableTree),
		Airlines:  airlines.NewAirlines(stateBus, immutableTree),
		Insurance: insurance.NewInsurance(stateBus, immutableTree),
		Oracles:   oracles.NewOracles(stateBus, immutableTree),

		height:         immutableTree.Version(),
		bus:            stateBus,
		db:             db,
		events:         events,
		keepLastStates: keepLastStates,
	}
}
