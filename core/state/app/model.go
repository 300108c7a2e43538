package app

import (
	"math/big"

	"github.com/flightsurety/surety-node/core/types"
)

type Model struct {
	Owner           types.Address
	Operational     bool
	Seed            types.Hash
	Nonce           uint64
	ContractBalance *big.Int

	markDirty func()
}

func (model *Model) getContractBalance() *big.Int {
	if model.ContractBalance == nil {
		return big.NewInt(0)
	}

	return model.ContractBalance
}

func (model *Model) setContractBalance(balance *big.Int) {
	model.ContractBalance = balance
	model.markDirty()
}

func (model *Model) setOwner(owner types.Address) {
	model.Owner = owner
	model.markDirty()
}

func (model *Model) setOperational(operational bool) {
	model.Operational = operational
	model.markDirty()
}

func (model *Model) setSeed(seed types.Hash) {
	model.Seed = seed
	model.markDirty()
}

func (model *Model) setNonce(nonce uint64) {
	model.Nonce = nonce
	model.markDirty()
}
