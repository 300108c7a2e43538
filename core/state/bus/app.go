package bus

import (
	"math/big"

	"github.com/flightsurety/surety-node/core/types"
)

type App interface {
	GetSeed() types.Hash
	NextNonce() uint64
	AddContractBalance(amount *big.Int)
	SubContractBalance(amount *big.Int)
}
