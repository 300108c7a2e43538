package transaction

import (
	"fmt"
	"strconv"

	"github.com/flightsurety/surety-node/core/code"
	"github.com/flightsurety/surety-node/core/state"
	"github.com/flightsurety/surety-node/core/types"
	abcTypes "github.com/tendermint/tendermint/abci/types"
)

type RegisterAirlineData struct {
	Candidate types.Address
	Proposer  types.Address
}

// RegisterAirlineResult is the state of the candidate after the call and the
// number of registered airlines.
type RegisterAirlineResult struct {
	Status     string `json:"status"`
	Registered bool   `json:"registered"`
	Count      uint32 `json:"count"`
}

func (data RegisterAirlineData) TxType() TxType {
	return TypeRegisterAirline
}

func (data RegisterAirlineData) String() string {
	return fmt.Sprintf("REGISTER AIRLINE candidate:%s proposer:%s", data.Candidate.Hex(), data.Proposer.Hex())
}

func (data RegisterAirlineData) basicCheck(tx *Transaction, context *state.CheckState) *Response {
	if !context.Airlines().IsAirline(data.Proposer) || !context.Airlines().IsFunded(data.Proposer) {
		return &Response{
			Code: code.ProposerNotFunded,
			Log:  "Airline has not sufficiently contributed to the funds",
			Info: EncodeError(code.NewProposerNotFunded(
				data.Proposer.Hex(),
				context.Airlines().GetFunding(data.Proposer).String(),
				types.FundingThreshold().String(),
			)),
		}
	}

	if context.Airlines().IsAirline(data.Candidate) {
		return &Response{
			Code: code.AlreadyRegistered,
			Log:  fmt.Sprintf("Airline %s is already registered", data.Candidate.Hex()),
			Info: EncodeError(code.NewAlreadyRegistered(data.Candidate.Hex())),
		}
	}

	return nil
}

func (data RegisterAirlineData) Run(tx *Transaction, context state.Interface, currentBlock uint64) Response {
	if response := data.basicCheck(tx, toCheckState(context)); response != nil {
		return *response
	}

	var result *RegisterAirlineResult
	var tags []abcTypes.EventAttribute
	if deliverState, ok := context.(*state.State); ok {
		status, count := deliverState.Airlines.RegisterAirline(data.Candidate, data.Proposer)
		result = &RegisterAirlineResult{
			Status:     status.String(),
			Registered: deliverState.Airlines.IsAirline(data.Candidate),
			Count:      count,
		}

		tags = []abcTypes.EventAttribute{
			{Key: []byte("tx.type"), Value: []byte(data.TxType().String()), Index: true},
			{Key: []byte("tx.airline"), Value: []byte(data.Candidate.Hex()), Index: true},
			{Key: []byte("tx.proposer"), Value: []byte(data.Proposer.Hex()), Index: true},
			{Key: []byte("tx.airline_status"), Value: []byte(status.String())},
			{Key: []byte("tx.registered_count"), Value: []byte(strconv.FormatUint(uint64(count), 10))},
		}
	}

	return Response{
		Code:   code.OK,
		Result: result,
		Tags:   tags,
	}
}
