package bus

import (
	"math/big"

	"github.com/flightsurety/surety-node/core/types"
)

type Accounts interface {
	AddBalance(address types.Address, amount *big.Int)
}
