package transaction

import (
	"fmt"
	"math/big"

	"github.com/flightsurety/surety-node/core/code"
	"github.com/flightsurety/surety-node/core/state"
	"github.com/flightsurety/surety-node/core/types"
	abcTypes "github.com/tendermint/tendermint/abci/types"
)

// FundAirlineData adds a contribution of an airline. Contributions add up
// and are never refunded.
type FundAirlineData struct {
	Airline types.Address
	Amount  *big.Int
}

func (data FundAirlineData) TxType() TxType {
	return TypeFundAirline
}

func (data FundAirlineData) String() string {
	return fmt.Sprintf("FUND AIRLINE airline:%s amount:%s", data.Airline.Hex(), data.Amount)
}

func (data FundAirlineData) basicCheck(tx *Transaction, context *state.CheckState) *Response {
	if data.Amount == nil || data.Amount.Sign() != 1 {
		return &Response{
			Code: code.InsufficientFunds,
			Log:  "Funding amount should be positive",
			Info: EncodeError(code.NewInsufficientFunds(data.Airline.Hex(), fmt.Sprint(data.Amount))),
		}
	}

	if context.Airlines().GetAirline(data.Airline) == nil {
		return &Response{
			Code: code.AirlineNotFound,
			Log:  fmt.Sprintf("Airline %s not found", data.Airline.Hex()),
			Info: EncodeError(code.NewAirlineNotFound(data.Airline.Hex())),
		}
	}

	return nil
}

func (data FundAirlineData) Run(tx *Transaction, context state.Interface, currentBlock uint64) Response {
	if response := data.basicCheck(tx, toCheckState(context)); response != nil {
		return *response
	}

	var total *big.Int
	var tags []abcTypes.EventAttribute
	if deliverState, ok := context.(*state.State); ok {
		total = deliverState.Airlines.Fund(data.Airline, big.NewInt(0).Set(data.Amount))

		tags = []abcTypes.EventAttribute{
			{Key: []byte("tx.type"), Value: []byte(data.TxType().String()), Index: true},
			{Key: []byte("tx.airline"), Value: []byte(data.Airline.Hex()), Index: true},
			{Key: []byte("tx.amount"), Value: []byte(data.Amount.String())},
			{Key: []byte("tx.funded"), Value: []byte(total.String())},
		}
	}

	return Response{
		Code:   code.OK,
		Result: total,
		Tags:   tags,
	}
}
