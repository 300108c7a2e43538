package app

import (
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"

	"github.com/cosmos/iavl"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/flightsurety/surety-node/core/events"
	"github.com/flightsurety/surety-node/core/state/bus"
	"github.com/flightsurety/surety-node/core/types"
)

const mainPrefix = 'd'

type RApp interface {
	Export(state *types.AppState)
	GetOwner() types.Address
	IsOperational() bool
	GetSeed() types.Hash
	GetNonce() uint64
	GetContractBalance() *big.Int
}

// App keeps the registry-wide settings: the owner, the operational flag, the
// randomness inputs of oracle index draws and the contract balance.
type App struct {
	model   *Model
	isDirty bool

	db atomic.Value

	bus  *bus.Bus
	lock sync.RWMutex
}

func NewApp(stateBus *bus.Bus, db *iavl.ImmutableTree) *App {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}
	app := &App{bus: stateBus, db: immutableTree}
	app.bus.SetApp(app)

	return app
}

func (a *App) immutableTree() *iavl.ImmutableTree {
	db := a.db.Load()
	if db == nil {
		return nil
	}
	return db.(*iavl.ImmutableTree)
}

func (a *App) SetImmutableTree(immutableTree *iavl.ImmutableTree) {
	a.db.Store(immutableTree)
}

func (a *App) Commit(db *iavl.MutableTree) error {
	a.lock.Lock()
	defer a.lock.Unlock()

	if !a.isDirty {
		return nil
	}

	a.isDirty = false

	data, err := rlp.EncodeToBytes(a.model)
	if err != nil {
		return fmt.Errorf("can't encode app model: %s", err)
	}

	db.Set([]byte{mainPrefix}, data)

	return nil
}

func (a *App) GetOwner() types.Address {
	return a.getOrNew().Owner
}

func (a *App) SetOwner(owner types.Address) {
	a.getOrNew().setOwner(owner)
}

func (a *App) IsOperational() bool {
	return a.getOrNew().Operational
}

func (a *App) SetOperational(operational bool) {
	model := a.getOrNew()
	if model.Operational == operational {
		return
	}
	model.setOperational(operational)
	a.bus.Events().AddEvent(&events.OperatingStatusEvent{Operational: operational})
}

func (a *App) GetSeed() types.Hash {
	return a.getOrNew().Seed
}

func (a *App) SetSeed(seed types.Hash) {
	a.getOrNew().setSeed(seed)
}

func (a *App) GetNonce() uint64 {
	return a.getOrNew().Nonce
}

func (a *App) SetNonce(nonce uint64) {
	a.getOrNew().setNonce(nonce)
}

// NextNonce returns the current nonce and advances it, starting over from
// zero once it passes types.NonceWrap.
func (a *App) NextNonce() uint64 {
	model := a.getOrNew()
	nonce := model.Nonce

	next := nonce + 1
	if next > types.NonceWrap {
		next = 0
	}
	model.setNonce(next)

	return nonce
}

func (a *App) GetContractBalance() *big.Int {
	return big.NewInt(0).Set(a.getOrNew().getContractBalance())
}

func (a *App) SetContractBalance(balance *big.Int) {
	a.getOrNew().setContractBalance(balance)
}

func (a *App) AddContractBalance(amount *big.Int) {
	if amount.Sign() == 0 {
		return
	}

	model := a.getOrNew()
	model.setContractBalance(big.NewInt(0).Add(model.getContractBalance(), amount))
}

func (a *App) SubContractBalance(amount *big.Int) {
	if amount.Sign() == 0 {
		return
	}

	model := a.getOrNew()
	model.setContractBalance(big.NewInt(0).Sub(model.getContractBalance(), amount))
}

func (a *App) get() *Model {
	a.lock.RLock()
	if a.model != nil {
		a.lock.RUnlock()
		return a.model
	}
	a.lock.RUnlock()

	_, enc := a.immutableTree().Get([]byte{mainPrefix})
	if len(enc) == 0 {
		return nil
	}

	model := &Model{}
	if err := rlp.DecodeBytes(enc, model); err != nil {
		panic(fmt.Sprintf("failed to decode app model: %s", err))
	}

	model.markDirty = a.markDirty

	a.lock.Lock()
	defer a.lock.Unlock()
	if a.model == nil {
		a.model = model
	}

	return a.model
}

func (a *App) getOrNew() *Model {
	model := a.get()
	if model == nil {
		model = &Model{
			ContractBalance: big.NewInt(0),
			markDirty:       a.markDirty,
		}

		a.lock.Lock()
		a.model = model
		a.lock.Unlock()
	}

	return model
}

func (a *App) markDirty() {
	a.isDirty = true
}

func (a *App) Export(state *types.AppState) {
	model := a.getOrNew()

	state.Owner = model.Owner
	state.Operational = model.Operational
	state.Seed = model.Seed
	state.Nonce = model.Nonce
	state.ContractBalance = model.getContractBalance().String()
}
