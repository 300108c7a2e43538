package transaction

import (
	"fmt"
	"math/big"

	"github.com/flightsurety/surety-node/core/code"
	"github.com/flightsurety/surety-node/core/state"
	"github.com/flightsurety/surety-node/core/types"
	abcTypes "github.com/tendermint/tendermint/abci/types"
)

type RegisterOracleData struct {
	Oracle types.Address
	Fee    *big.Int
}

func (data RegisterOracleData) TxType() TxType {
	return TypeRegisterOracle
}

func (data RegisterOracleData) String() string {
	return fmt.Sprintf("REGISTER ORACLE oracle:%s fee:%s", data.Oracle.Hex(), data.Fee)
}

func (data RegisterOracleData) basicCheck(tx *Transaction, context *state.CheckState) *Response {
	if data.Fee == nil || data.Fee.Cmp(types.OracleRegistrationFee()) == -1 {
		return &Response{
			Code: code.InsufficientFee,
			Log:  fmt.Sprintf("Registration fee is required: %s", types.OracleRegistrationFee()),
			Info: EncodeError(code.NewInsufficientFee(fmt.Sprint(data.Fee), types.OracleRegistrationFee().String())),
		}
	}

	if context.Oracles().IsRegistered(data.Oracle) {
		return &Response{
			Code: code.OracleAlreadyRegistered,
			Log:  fmt.Sprintf("Oracle %s is already registered", data.Oracle.Hex()),
			Info: EncodeError(code.NewOracleAlreadyRegistered(data.Oracle.Hex())),
		}
	}

	return nil
}

func (data RegisterOracleData) Run(tx *Transaction, context state.Interface, currentBlock uint64) Response {
	if response := data.basicCheck(tx, toCheckState(context)); response != nil {
		return *response
	}

	var indexes [types.OracleIndexCount]uint8
	var tags []abcTypes.EventAttribute
	if deliverState, ok := context.(*state.State); ok {
		indexes = deliverState.Oracles.Register(data.Oracle, big.NewInt(0).Set(data.Fee))

		tags = []abcTypes.EventAttribute{
			{Key: []byte("tx.type"), Value: []byte(data.TxType().String()), Index: true},
			{Key: []byte("tx.oracle"), Value: []byte(data.Oracle.Hex()), Index: true},
			{Key: []byte("tx.indexes"), Value: []byte(fmt.Sprint(indexes))},
		}
	}

	return Response{
		Code:   code.OK,
		Result: indexes,
		Tags:   tags,
	}
}
