package transaction

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/flightsurety/surety-node/core/code"
	"github.com/flightsurety/surety-node/core/state"
	"github.com/flightsurety/surety-node/core/types"
	abcTypes "github.com/tendermint/tendermint/abci/types"
)

// CreditPassengerData credits the insurees of a flight delayed by the
// airline. Policies credited before are skipped.
type CreditPassengerData struct {
	Airline types.Address
	Flight  string
	Status  types.StatusCode
}

type CreditResult struct {
	Count uint32   `json:"count"`
	Total *big.Int `json:"total"`
}

func (data CreditPassengerData) TxType() TxType {
	return TypeCreditPassenger
}

func (data CreditPassengerData) String() string {
	return fmt.Sprintf("CREDIT PASSENGER flight:%s/%s status:%s", data.Airline.Hex(), data.Flight, data.Status)
}

func (data CreditPassengerData) flightKey() types.FlightKey {
	return types.FlightKey{Airline: data.Airline, Flight: data.Flight}
}

func (data CreditPassengerData) basicCheck(tx *Transaction, context *state.CheckState) *Response {
	if !data.Status.PaysOut() || !context.Insurance().IsDelayed(data.flightKey()) {
		return &Response{
			Code: code.NotDelayed,
			Log:  fmt.Sprintf("Flight %s is not delayed by the airline", data.flightKey()),
			Info: EncodeError(code.NewNotDelayed(data.Airline.Hex(), data.Flight, strconv.Itoa(int(data.Status)))),
		}
	}

	return nil
}

func (data CreditPassengerData) Run(tx *Transaction, context state.Interface, currentBlock uint64) Response {
	if response := data.basicCheck(tx, toCheckState(context)); response != nil {
		return *response
	}

	var result *CreditResult
	var tags []abcTypes.EventAttribute
	if deliverState, ok := context.(*state.State); ok {
		count, total := deliverState.Insurance.CreditInsurees(data.flightKey())
		result = &CreditResult{Count: count, Total: total}

		tags = []abcTypes.EventAttribute{
			{Key: []byte("tx.type"), Value: []byte(data.TxType().String()), Index: true},
			{Key: []byte("tx.airline"), Value: []byte(data.Airline.Hex()), Index: true},
			{Key: []byte("tx.flight"), Value: []byte(data.Flight), Index: true},
			{Key: []byte("tx.credited_count"), Value: []byte(strconv.FormatUint(uint64(count), 10))},
			{Key: []byte("tx.credited_total"), Value: []byte(total.String())},
		}
	}

	return Response{
		Code:   code.OK,
		Result: result,
		Tags:   tags,
	}
}
