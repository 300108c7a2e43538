package transaction

import (
	"encoding/json"
	"fmt"

	"github.com/flightsurety/surety-node/core/code"
	"github.com/flightsurety/surety-node/core/state"
	abcTypes "github.com/tendermint/tendermint/abci/types"
)

// Response represents standard response from tx delivery/check
type Response struct {
	Code   uint32                    `json:"code,omitempty"`
	Result interface{}               `json:"result,omitempty"`
	Log    string                    `json:"log,omitempty"`
	Info   string                    `json:"-"`
	Tags   []abcTypes.EventAttribute `json:"tags,omitempty"`
}

// Err converts a failed response into a *code.Error.
func (r Response) Err() error {
	if r.Code == code.OK {
		return nil
	}
	return code.NewError(r.Code, r.Log, r.Info)
}

type Executor struct{}

func NewExecutor() *Executor {
	return &Executor{}
}

// RunTx executes transaction in given context. With a *state.CheckState the
// transaction is only validated.
func (e *Executor) RunTx(context state.Interface, tx *Transaction, currentBlock uint64) Response {
	if tx == nil || tx.Data == nil {
		return Response{
			Code: code.DecodeError,
			Log:  "Empty transaction",
			Info: EncodeError(code.NewDecodeError()),
		}
	}

	checkState := toCheckState(context)

	if tx.Data.TxType() != TypeSetOperatingStatus && !checkState.App().IsOperational() {
		return Response{
			Code: code.NotOperational,
			Log:  "Contract is currently not operational",
			Info: EncodeError(code.NewNotOperational()),
		}
	}

	if requiresAuthorization(tx.Data.TxType()) && !checkState.Accounts().IsAuthorized(tx.Caller) {
		return Response{
			Code: code.NotAuthorized,
			Log:  "Calling contract is not authorized to access data",
			Info: EncodeError(code.NewNotAuthorized(tx.Caller.Hex())),
		}
	}

	return tx.Data.Run(tx, context, currentBlock)
}

func toCheckState(context state.Interface) *state.CheckState {
	if checkState, isCheck := context.(*state.CheckState); isCheck {
		return checkState
	}
	return state.NewCheckState(context.(*state.State))
}

// checkOwner rejects calls not issued by the owner of the registry.
func checkOwner(tx *Transaction, context *state.CheckState) *Response {
	owner := context.App().GetOwner()
	if tx.Caller != owner {
		return &Response{
			Code: code.Unauthorized,
			Log:  fmt.Sprintf("Caller %s is not contract owner", tx.Caller.Hex()),
			Info: EncodeError(code.NewUnauthorized(tx.Caller.Hex(), owner.Hex())),
		}
	}
	return nil
}

func EncodeError(data interface{}) string {
	marshaled, err := json.Marshal(data)
	if err != nil {
		panic(err)
	}
	return string(marshaled)
}
