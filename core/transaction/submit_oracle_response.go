package transaction

import (
	"fmt"
	"strconv"

	"github.com/flightsurety/surety-node/core/code"
	"github.com/flightsurety/surety-node/core/state"
	"github.com/flightsurety/surety-node/core/types"
	abcTypes "github.com/tendermint/tendermint/abci/types"
)

type SubmitOracleResponseData struct {
	Oracle    types.Address
	Index     uint8
	Airline   types.Address
	Flight    string
	Timestamp uint64
	Status    types.StatusCode
}

// SubmitResult tells whether the report was counted, whether it finalized
// the flight status and how many policies it credited.
type SubmitResult struct {
	Accepted  bool   `json:"accepted"`
	Finalized bool   `json:"finalized"`
	Credited  uint32 `json:"credited"`
}

func (data SubmitOracleResponseData) TxType() TxType {
	return TypeSubmitOracleResponse
}

func (data SubmitOracleResponseData) String() string {
	return fmt.Sprintf("SUBMIT ORACLE RESPONSE oracle:%s index:%d flight:%s status:%s",
		data.Oracle.Hex(), data.Index, data.key(), data.Status)
}

func (data SubmitOracleResponseData) key() types.ScheduleKey {
	return types.ScheduleKey{Airline: data.Airline, Flight: data.Flight, Timestamp: data.Timestamp}
}

func (data SubmitOracleResponseData) indexMismatch() *Response {
	return &Response{
		Code: code.IndexMismatch,
		Log:  "Index does not match oracle request",
		Info: EncodeError(code.NewIndexMismatch(data.Oracle.Hex(), strconv.Itoa(int(data.Index)))),
	}
}

func (data SubmitOracleResponseData) basicCheck(tx *Transaction, context *state.CheckState) *Response {
	oracle := context.Oracles().GetOracle(data.Oracle)
	if oracle == nil {
		return &Response{
			Code: code.NotRegistered,
			Log:  fmt.Sprintf("Oracle %s is not registered", data.Oracle.Hex()),
			Info: EncodeError(code.NewNotRegistered(data.Oracle.Hex())),
		}
	}

	if !oracle.HasIndex(data.Index) {
		return data.indexMismatch()
	}

	if context.Oracles().IsFinalized(data.key()) {
		return &Response{
			Code: code.RequestClosed,
			Log:  fmt.Sprintf("Status of flight %s is already final", data.key()),
			Info: EncodeError(code.NewRequestClosed(data.Airline.Hex(), data.Flight, strconv.FormatUint(data.Timestamp, 10))),
		}
	}

	request := context.Oracles().GetRequest(data.Index, data.key())
	if request == nil || !request.Open {
		return data.indexMismatch()
	}

	if !data.Status.IsValid() {
		return &Response{
			Code: code.InvalidStatusCode,
			Log:  fmt.Sprintf("Unknown status code %d", data.Status),
			Info: EncodeError(code.NewInvalidStatusCode(strconv.Itoa(int(data.Status)))),
		}
	}

	return nil
}

func (data SubmitOracleResponseData) Run(tx *Transaction, context state.Interface, currentBlock uint64) Response {
	if response := data.basicCheck(tx, toCheckState(context)); response != nil {
		return *response
	}

	var result *SubmitResult
	var tags []abcTypes.EventAttribute
	if deliverState, ok := context.(*state.State); ok {
		result = &SubmitResult{}
		result.Accepted, result.Finalized = deliverState.Oracles.Submit(data.Oracle, data.Index, data.key(), data.Status)
		if result.Finalized && data.Status.PaysOut() {
			result.Credited, _ = deliverState.Insurance.CreditInsurees(data.key().FlightKey())
		}

		tags = []abcTypes.EventAttribute{
			{Key: []byte("tx.type"), Value: []byte(data.TxType().String()), Index: true},
			{Key: []byte("tx.oracle"), Value: []byte(data.Oracle.Hex()), Index: true},
			{Key: []byte("tx.airline"), Value: []byte(data.Airline.Hex()), Index: true},
			{Key: []byte("tx.flight"), Value: []byte(data.Flight), Index: true},
			{Key: []byte("tx.status"), Value: []byte(strconv.Itoa(int(data.Status)))},
			{Key: []byte("tx.accepted"), Value: []byte(strconv.FormatBool(result.Accepted))},
			{Key: []byte("tx.finalized"), Value: []byte(strconv.FormatBool(result.Finalized))},
		}
	}

	return Response{
		Code:   code.OK,
		Result: result,
		Tags:   tags,
	}
}
