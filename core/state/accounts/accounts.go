package accounts

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

const mainPrefix = byte('a')

type RAccounts interface {
	Export(state *types.AppState)
	IsAuthorized(address types.Address) bool
	GetBalance(address types.Address) *big.Int
	AccountExists(address types.Address) bool
}

// Accounts is the ledger of addresses known to the registry: calling
// contracts authorized by the owner and the balances passengers withdraw to.
type Accounts struct {
	list  map[types.Address]*Model
	dirty map[types.Address]struct{}

	db  atomic.Value
	bus *bus.Bus

	lock sync.RWMutex
}

func NewAccounts(stateBus *bus.Bus, db *iavl.ImmutableTree) *Accounts {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}
	accounts := &Accounts{
		db:    immutableTree,
		list:  map[types.Address]*Model{},
		dirty: map[types.Address]struct{}{},
		bus:   stateBus,
	}
	accounts.bus.SetAccounts(accounts)

	return accounts
}

func (a *Accounts) immutableTree() *iavl.ImmutableTree {
	db := a.db.Load()
	if db == nil {
		return nil
	}
	return db.(*iavl.ImmutableTree)
}

func (a *Accounts) SetImmutableTree(immutableTree *iavl.ImmutableTree) {
	a.db.Store(immutableTree)
}

func (a *Accounts) Commit(db *iavl.MutableTree) error {
	for _, address := range a.getOrderedDirtyAccounts() {
		account := a.get(address)

		data, err := rlp.EncodeToBytes(account)
		if err != nil {
			return fmt.Errorf("can't encode object at %x: %v", address[:], err)
		}

		a.lock.Lock()
		delete(a.dirty, address)
		a.lock.Unlock()

		db.Set(getPath(address), data)
	}

	return nil
}

func (a *Accounts) getOrderedDirtyAccounts() []types.Address {
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

func (a *Accounts) AccountExists(address types.Address) bool {
	return a.get(address) != nil
}

func (a *Accounts) IsAuthorized(address types.Address) bool {
	account := a.get(address)
	if account == nil {
		return false
	}

	return account.Authorized
}

// SetAuthorized grants or revokes the right of a calling contract to mutate
// the registry.
func (a *Accounts) SetAuthorized(address types.Address, authorized bool) {
	account := a.getOrNew(address)
	if account.Authorized == authorized {
		return
	}

	account.setAuthorized(authorized)
	a.bus.Events().AddEvent(&events.CallerAuthorizationEvent{
		Caller:     address,
		Authorized: authorized,
	})
}

func (a *Accounts) GetBalance(address types.Address) *big.Int {
	account := a.get(address)
	if account == nil {
		return big.NewInt(0)
	}

	return big.NewInt(0).Set(account.getBalance())
}

func (a *Accounts) SetBalance(address types.Address, amount *big.Int) {
	a.getOrNew(address).setBalance(amount)
}

func (a *Accounts) AddBalance(address types.Address, amount *big.Int) {
	account := a.getOrNew(address)
	account.setBalance(big.NewInt(0).Add(account.getBalance(), amount))
}

func (a *Accounts) get(address types.Address) *Model {
	a.lock.RLock()
	account, ok := a.list[address]
	a.lock.RUnlock()
	if ok {
		return account
	}

	_, enc := a.immutableTree().Get(getPath(address))
	if len(enc) == 0 {
		return nil
	}

	account = &Model{}
	if err := rlp.DecodeBytes(enc, account); err != nil {
		panic(fmt.Sprintf("failed to decode account at address %s: %s", address.Hex(), err))
	}

	account.address = address
	account.markDirty = a.markDirty

	a.setToMap(address, account)

	return account
}

func (a *Accounts) getOrNew(address types.Address) *Model {
	account := a.get(address)
	if account == nil {
		account = &Model{
			Balance:   big.NewInt(0),
			address:   address,
			markDirty: a.markDirty,
		}
		a.setToMap(address, account)
	}

	return account
}

func (a *Accounts) setToMap(address types.Address, model *Model) {
	a.lock.Lock()
	defer a.lock.Unlock()

	a.list[address] = model
}

func (a *Accounts) markDirty(address types.Address) {
	a.lock.Lock()
	defer a.lock.Unlock()

	a.dirty[address] = struct{}{}
}

func (a *Accounts) Export(state *types.AppState) {
	a.immutableTree().IterateRange([]byte{mainPrefix}, []byte{mainPrefix + 1}, true, func(key []byte, value []byte) bool {
		address := types.BytesToAddress(key[1:])
		account := a.get(address)

		state.Accounts = append(state.Accounts, types.Account{
			Address:    address,
			Authorized: account.Authorized,
			Balance:    account.getBalance().String(),
		})

		return false
	})
}

func getPath(address types.Address) []byte {
	return append([]byte{mainPrefix}, address.Bytes()...)
}
