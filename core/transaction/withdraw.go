package transaction

import (
	"fmt"
	"math/big"

	"github.com/flightsurety/surety-node/core/code"
	"github.com/flightsurety/surety-node/core/state"
	"github.com/flightsurety/surety-node/core/types"
	abcTypes "github.com/tendermint/tendermint/abci/types"
)

// WithdrawData pays every credit of the passenger out to its ledger balance.
type WithdrawData struct {
	Passenger types.Address
}

func (data WithdrawData) TxType() TxType {
	return TypeWithdraw
}

func (data WithdrawData) String() string {
	return fmt.Sprintf("WITHDRAW passenger:%s", data.Passenger.Hex())
}

func (data WithdrawData) basicCheck(tx *Transaction, context *state.CheckState) *Response {
	credit := context.Insurance().TotalCredit(data.Passenger)
	if credit.Sign() == 0 {
		return &Response{
			Code: code.NoCredit,
			Log:  fmt.Sprintf("Passenger %s has no credit", data.Passenger.Hex()),
			Info: EncodeError(code.NewNoCredit(data.Passenger.Hex())),
		}
	}

	if context.App().GetContractBalance().Cmp(credit) == -1 {
		return &Response{
			Code: code.InsufficientFunds,
			Log:  fmt.Sprintf("Contract balance is lower than the credit of %s", data.Passenger.Hex()),
			Info: EncodeError(code.NewInsufficientFunds(data.Passenger.Hex(), credit.String())),
		}
	}

	return nil
}

func (data WithdrawData) Run(tx *Transaction, context state.Interface, currentBlock uint64) Response {
	if response := data.basicCheck(tx, toCheckState(context)); response != nil {
		return *response
	}

	var amount *big.Int
	var tags []abcTypes.EventAttribute
	if deliverState, ok := context.(*state.State); ok {
		amount = deliverState.Insurance.Withdraw(data.Passenger)

		tags = []abcTypes.EventAttribute{
			{Key: []byte("tx.type"), Value: []byte(data.TxType().String()), Index: true},
			{Key: []byte("tx.passenger"), Value: []byte(data.Passenger.Hex()), Index: true},
			{Key: []byte("tx.amount"), Value: []byte(amount.String())},
		}
	}

	return Response{
		Code:   code.OK,
		Result: amount,
		Tags:   tags,
	}
}
