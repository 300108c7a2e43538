package transaction

import (
	"fmt"
	"strconv"

	"github.com/flightsurety/surety-node/core/code"
	"github.com/flightsurety/surety-node/core/state"
	"github.com/flightsurety/surety-node/core/types"
	abcTypes "github.com/tendermint/tendermint/abci/types"
)

// FetchFlightStatusData asks oracles for the status of a departure. The
// caller becomes the requester.
type FetchFlightStatusData struct {
	Airline   types.Address
	Flight    string
	Timestamp uint64
}

type FetchResult struct {
	RequestID types.Hash `json:"request_id"`
	Index     uint8      `json:"index"`
}

func (data FetchFlightStatusData) TxType() TxType {
	return TypeFetchFlightStatus
}

func (data FetchFlightStatusData) String() string {
	return fmt.Sprintf("FETCH FLIGHT STATUS flight:%s", data.key())
}

func (data FetchFlightStatusData) key() types.ScheduleKey {
	return types.ScheduleKey{Airline: data.Airline, Flight: data.Flight, Timestamp: data.Timestamp}
}

func (data FetchFlightStatusData) basicCheck(tx *Transaction, context *state.CheckState) *Response {
	if context.Oracles().IsFinalized(data.key()) {
		return &Response{
			Code: code.RequestClosed,
			Log:  fmt.Sprintf("Status of flight %s is already final", data.key()),
			Info: EncodeError(code.NewRequestClosed(data.Airline.Hex(), data.Flight, strconv.FormatUint(data.Timestamp, 10))),
		}
	}

	return nil
}

func (data FetchFlightStatusData) Run(tx *Transaction, context state.Interface, currentBlock uint64) Response {
	if response := data.basicCheck(tx, toCheckState(context)); response != nil {
		return *response
	}

	var result *FetchResult
	var tags []abcTypes.EventAttribute
	if deliverState, ok := context.(*state.State); ok {
		request := deliverState.Oracles.OpenRequest(tx.Caller, data.key())
		result = &FetchResult{RequestID: request.ID(), Index: request.Index}

		tags = []abcTypes.EventAttribute{
			{Key: []byte("tx.type"), Value: []byte(data.TxType().String()), Index: true},
			{Key: []byte("tx.airline"), Value: []byte(data.Airline.Hex()), Index: true},
			{Key: []byte("tx.flight"), Value: []byte(data.Flight), Index: true},
			{Key: []byte("tx.request"), Value: []byte(request.ID().Hex()), Index: true},
			{Key: []byte("tx.index"), Value: []byte(strconv.Itoa(int(request.Index)))},
		}
	}

	return Response{
		Code:   code.OK,
		Result: result,
		Tags:   tags,
	}
}
