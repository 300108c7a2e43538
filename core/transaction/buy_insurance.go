package transaction

import (
	"fmt"
	"math/big"

	"github.com/flightsurety/surety-node/core/code"
	"github.com/flightsurety/surety-node/core/state"
	"github.com/flightsurety/surety-node/core/types"
	abcTypes "github.com/tendermint/tendermint/abci/types"
)

// BuyInsuranceData buys or tops up the policy of a passenger on a flight of
// a registered and funded airline.
type BuyInsuranceData struct {
	Passenger types.Address
	Airline   types.Address
	Flight    string
	Premium   *big.Int
}

func (data BuyInsuranceData) TxType() TxType {
	return TypeBuyInsurance
}

func (data BuyInsuranceData) String() string {
	return fmt.Sprintf("BUY INSURANCE passenger:%s flight:%s/%s premium:%s",
		data.Passenger.Hex(), data.Airline.Hex(), data.Flight, data.Premium)
}

func (data BuyInsuranceData) flightKey() types.FlightKey {
	return types.FlightKey{Airline: data.Airline, Flight: data.Flight}
}

func (data BuyInsuranceData) basicCheck(tx *Transaction, context *state.CheckState) *Response {
	if !context.Airlines().IsAirline(data.Airline) || !context.Airlines().IsFunded(data.Airline) {
		return &Response{
			Code: code.UnknownFlight,
			Log:  fmt.Sprintf("Flight %s is not operated by a funded airline", data.flightKey()),
			Info: EncodeError(code.NewUnknownFlight(data.Airline.Hex(), data.Flight)),
		}
	}

	if data.Premium == nil || data.Premium.Sign() != 1 {
		return &Response{
			Code: code.InvalidAmount,
			Log:  "Premium should be positive",
			Info: EncodeError(code.NewInvalidAmount("premium", fmt.Sprint(data.Premium))),
		}
	}

	if context.Insurance().IsDelayed(data.flightKey()) {
		return &Response{
			Code: code.FlightSettled,
			Log:  fmt.Sprintf("Flight %s is already settled", data.flightKey()),
			Info: EncodeError(code.NewFlightSettled(data.Airline.Hex(), data.Flight)),
		}
	}

	total := big.NewInt(0).Set(data.Premium)
	if policy := context.Insurance().GetPolicy(data.Passenger, data.flightKey()); policy != nil {
		total.Add(total, policy.Premium)
	}
	if total.Cmp(types.PremiumCap()) == 1 {
		return &Response{
			Code: code.PolicyCapExceeded,
			Log:  fmt.Sprintf("Premium of the policy would be %s, more than %s", total, types.PremiumCap()),
			Info: EncodeError(code.NewPolicyCapExceeded(data.Premium.String(), total.String(), types.PremiumCap().String())),
		}
	}

	return nil
}

func (data BuyInsuranceData) Run(tx *Transaction, context state.Interface, currentBlock uint64) Response {
	if response := data.basicCheck(tx, toCheckState(context)); response != nil {
		return *response
	}

	var policyID types.Hash
	var tags []abcTypes.EventAttribute
	if deliverState, ok := context.(*state.State); ok {
		policyID = deliverState.Insurance.Buy(data.Passenger, data.flightKey(), big.NewInt(0).Set(data.Premium))

		tags = []abcTypes.EventAttribute{
			{Key: []byte("tx.type"), Value: []byte(data.TxType().String()), Index: true},
			{Key: []byte("tx.passenger"), Value: []byte(data.Passenger.Hex()), Index: true},
			{Key: []byte("tx.airline"), Value: []byte(data.Airline.Hex()), Index: true},
			{Key: []byte("tx.flight"), Value: []byte(data.Flight), Index: true},
			{Key: []byte("tx.premium"), Value: []byte(data.Premium.String())},
			{Key: []byte("tx.policy"), Value: []byte(policyID.Hex())},
		}
	}

	return Response{
		Code:   code.OK,
		Result: policyID,
		Tags:   tags,
	}
}
