package surety

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/flightsurety/surety-node/config"
	"github.com/flightsurety/surety-node/core/appdb"
	"github.com/flightsurety/surety-node/core/code"
	eventsdb "github.com/flightsurety/surety-node/core/events"
	"github.com/flightsurety/surety-node/core/state"
	"github.com/flightsurety/surety-node/core/statistics"
	"github.com/flightsurety/surety-node/core/transaction"
	"github.com/flightsurety/surety-node/core/types"
	"github.com/pkg/errors"
	"github.com/tendermint/tendermint/libs/log"
	db "github.com/tendermint/tm-db"
)

// Surety is the registry node. Every operation is issued by a caller, the
// configured app address unless another one is picked with WithCaller.
type Surety struct {
	*node
	caller types.Address
}

type node struct {
	stateDB      db.DB
	appDB        *appdb.AppDB
	stateDeliver *state.State
	eventsDB     eventsdb.IEventsDB
	executor     *transaction.Executor
	statistics   *statistics.Data
	logger       log.Logger
}

// NewSurety loads the last committed state from stateDB.
func NewSurety(cfg *config.Config, stateDB db.DB, eventsDB eventsdb.IEventsDB, logger log.Logger) (*Surety, error) {
	if eventsDB == nil {
		eventsDB = eventsdb.NewPublishOnlyStore()
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}

	stateDeliver, err := state.NewState(0, stateDB, eventsDB, cfg.StateCacheSize, cfg.KeepLastStates)
	if err != nil {
		return nil, errors.Wrap(err, "load state")
	}

	appDB := appdb.NewAppDB(stateDB)
	if last := appDB.GetLastHeight(); last != uint64(stateDeliver.Height()) {
		logger.Error("Block info is out of sync with the state", "state", stateDeliver.Height(), "block", last)
	}

	return &Surety{
		node: &node{
			stateDB:      stateDB,
			appDB:        appDB,
			stateDeliver: stateDeliver,
			eventsDB:     eventsDB,
			executor:     transaction.NewExecutor(),
			logger:       logger.With("module", "state"),
		},
		caller: types.HexToAddress(cfg.Registry.AppAddress),
	}, nil
}

// WithCaller returns a view of the same node issuing operations as caller.
func (s *Surety) WithCaller(caller types.Address) *Surety {
	return &Surety{node: s.node, caller: caller}
}

func (s *Surety) Caller() types.Address {
	return s.caller
}

// SetStatisticData sets Data for statistics
func (s *Surety) SetStatisticData(statisticData *statistics.Data) *Surety {
	s.statistics = statisticData
	return s
}

func (s *Surety) Height() uint64 {
	s.stateDeliver.RLock()
	defer s.stateDeliver.RUnlock()

	return uint64(s.stateDeliver.Height())
}

// InitChain imports the genesis state into an empty registry and commits it.
func (s *Surety) InitChain(appState types.AppState) error {
	s.stateDeliver.Lock()
	defer s.stateDeliver.Unlock()

	if height := s.stateDeliver.Height(); height != 0 {
		return errors.Errorf("registry is already initialized at height %d", height)
	}

	if err := s.stateDeliver.Import(appState); err != nil {
		return err
	}

	if _, err := s.commit(); err != nil {
		return err
	}

	return s.appDB.SetStartHeight(uint64(s.stateDeliver.Height()))
}

// Commit persists the current block of operations and its events.
func (s *Surety) Commit() ([]byte, error) {
	s.stateDeliver.Lock()
	defer s.stateDeliver.Unlock()

	return s.commit()
}

func (s *node) commit() ([]byte, error) {
	start := time.Now()
	s.statistics.SetStartBlock(uint64(s.stateDeliver.Height())+1, start)

	hash, err := s.stateDeliver.Commit()
	if err != nil {
		return nil, errors.Wrap(err, "commit state")
	}

	height := uint64(s.stateDeliver.Height())
	if err := s.eventsDB.CommitEvents(uint32(height)); err != nil {
		return nil, err
	}

	end := time.Now()
	if err := s.appDB.SetLastBlock(appdb.BlockInfo{
		Height:   height,
		Hash:     hash,
		Time:     end.UTC(),
		Duration: end.Sub(start),
	}); err != nil {
		return nil, err
	}

	s.statistics.SetEndBlockDuration(end, height)
	s.statistics.SetRegisteredAirlines(s.stateDeliver.Airlines.RegisteredCount())
	s.statistics.SetContractBalance(s.stateDeliver.App.GetContractBalance())

	s.logger.Info("Committed state", "height", height, "hash", fmt.Sprintf("%X", hash))

	return hash, nil
}

// Run commits a block every interval until ctx is done.
func (s *Surety) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.Commit(); err != nil {
				return err
			}
		}
	}
}

// LastBlock describes the last committed block, nil before genesis.
func (s *Surety) LastBlock() *appdb.BlockInfo {
	return s.appDB.GetLastBlock()
}

// StartHeight is the height genesis was committed at.
func (s *Surety) StartHeight() uint64 {
	return s.appDB.GetStartHeight()
}

// CurrentState returns a read-only view of the uncommitted state.
func (s *Surety) CurrentState() *state.CheckState {
	return state.NewCheckState(s.stateDeliver)
}

// Export reads the registry as committed at height.
func (s *Surety) Export(height uint64) (types.AppState, error) {
	checkState, err := state.NewCheckStateAtHeight(height, s.stateDB)
	if err != nil {
		return types.AppState{}, err
	}
	return checkState.Export(), nil
}

// LoadEvents returns the events committed at height.
func (s *Surety) LoadEvents(height uint32) eventsdb.Events {
	return s.eventsDB.LoadEvents(height)
}

func (s *Surety) run(data transaction.Data) transaction.Response {
	s.stateDeliver.Lock()
	defer s.stateDeliver.Unlock()

	tx := &transaction.Transaction{Caller: s.caller, Data: data}
	response := s.executor.RunTx(s.stateDeliver, tx, uint64(s.stateDeliver.Height())+1)

	s.statistics.CountTx(data.TxType().String(), response.Code)
	if response.Code != code.OK {
		s.logger.Debug("Rejected", "tx", tx.String(), "code", code.Name(response.Code), "log", response.Log)
	}

	return response
}

func (s *Surety) read(fn func(*state.CheckState)) {
	s.stateDeliver.RLock()
	defer s.stateDeliver.RUnlock()

	fn(state.NewCheckState(s.stateDeliver))
}

func copyBig(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return big.NewInt(0).Set(v)
}
