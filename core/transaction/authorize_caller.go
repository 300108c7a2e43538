package transaction

import (
	"fmt"
	"strconv"

	"github.com/flightsurety/surety-node/core/code"
	"github.com/flightsurety/surety-node/core/state"
	"github.com/flightsurety/surety-node/core/types"
	abcTypes "github.com/tendermint/tendermint/abci/types"
)

// AuthorizeCallerData grants or revokes the right of a calling contract to
// mutate airlines and insurance.
type AuthorizeCallerData struct {
	Address    types.Address
	Authorized bool
}

func (data AuthorizeCallerData) TxType() TxType {
	return TypeAuthorizeCaller
}

func (data AuthorizeCallerData) String() string {
	return fmt.Sprintf("AUTHORIZE CALLER address:%s authorized:%t", data.Address.Hex(), data.Authorized)
}

func (data AuthorizeCallerData) basicCheck(tx *Transaction, context *state.CheckState) *Response {
	return checkOwner(tx, context)
}

func (data AuthorizeCallerData) Run(tx *Transaction, context state.Interface, currentBlock uint64) Response {
	if response := data.basicCheck(tx, toCheckState(context)); response != nil {
		return *response
	}

	var tags []abcTypes.EventAttribute
	if deliverState, ok := context.(*state.State); ok {
		deliverState.Accounts.SetAuthorized(data.Address, data.Authorized)

		tags = []abcTypes.EventAttribute{
			{Key: []byte("tx.type"), Value: []byte(data.TxType().String()), Index: true},
			{Key: []byte("tx.caller"), Value: []byte(data.Address.Hex()), Index: true},
			{Key: []byte("tx.authorized"), Value: []byte(strconv.FormatBool(data.Authorized))},
		}
	}

	return Response{
		Code: code.OK,
		Tags: tags,
	}
}
