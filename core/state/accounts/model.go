package accounts

import (
	"math/big"

	"github.com/flightsurety/surety-node/core/types"
)

type Model struct {
	Authorized bool
	Balance    *big.Int

	address   types.Address
	markDirty func(types.Address)
}

func (model *Model) getBalance() *big.Int {
	if model.Balance == nil {
		return big.NewInt(0)
	}

	return model.Balance
}

func (model *Model) setBalance(balance *big.Int) {
	model.Balance = balance
	model.markDirty(model.address)
}

func (model *Model) setAuthorized(authorized bool) {
	model.Authorized = authorized
	model.markDirty(model.address)
}
