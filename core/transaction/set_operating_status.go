package transaction

import (
	"fmt"
	"strconv"

	"github.com/flightsurety/surety-node/core/code"
	"github.com/flightsurety/surety-node/core/state"
	abcTypes "github.com/tendermint/tendermint/abci/types"
)

// SetOperatingStatusData pauses or resumes every mutating operation. It is
// the only operation accepted while paused.
type SetOperatingStatusData struct {
	Operational bool
}

func (data SetOperatingStatusData) TxType() TxType {
	return TypeSetOperatingStatus
}

func (data SetOperatingStatusData) String() string {
	return fmt.Sprintf("SET OPERATING STATUS operational:%t", data.Operational)
}

func (data SetOperatingStatusData) basicCheck(tx *Transaction, context *state.CheckState) *Response {
	return checkOwner(tx, context)
}

func (data SetOperatingStatusData) Run(tx *Transaction, context state.Interface, currentBlock uint64) Response {
	if response := data.basicCheck(tx, toCheckState(context)); response != nil {
		return *response
	}

	var tags []abcTypes.EventAttribute
	if deliverState, ok := context.(*state.State); ok {
		deliverState.App.SetOperational(data.Operational)

		tags = []abcTypes.EventAttribute{
			{Key: []byte("tx.type"), Value: []byte(data.TxType().String()), Index: true},
			{Key: []byte("tx.operational"), Value: []byte(strconv.FormatBool(data.Operational))},
		}
	}

	return Response{
		Code: code.OK,
		Tags: tags,
	}
}
