package transaction

import (
	"fmt"

	"github.com/flightsurety/surety-node/core/state"
	"github.com/flightsurety/surety-node/core/types"
)

type TxType byte

const (
	TypeAuthorizeCaller      TxType = 0x01
	TypeSetOperatingStatus   TxType = 0x02
	TypeRegisterAirline      TxType = 0x03
	TypeFundAirline          TxType = 0x04
	TypeBuyInsurance         TxType = 0x05
	TypeCreditPassenger      TxType = 0x06
	TypeWithdraw             TxType = 0x07
	TypeRegisterOracle       TxType = 0x08
	TypeFetchFlightStatus    TxType = 0x09
	TypeSubmitOracleResponse TxType = 0x0A
)

func (t TxType) String() string {
	switch t {
	case TypeAuthorizeCaller:
		return "AuthorizeCaller"
	case TypeSetOperatingStatus:
		return "SetOperatingStatus"
	case TypeRegisterAirline:
		return "RegisterAirline"
	case TypeFundAirline:
		return "FundAirline"
	case TypeBuyInsurance:
		return "BuyInsurance"
	case TypeCreditPassenger:
		return "CreditPassenger"
	case TypeWithdraw:
		return "Withdraw"
	case TypeRegisterOracle:
		return "RegisterOracle"
	case TypeFetchFlightStatus:
		return "FetchFlightStatus"
	case TypeSubmitOracleResponse:
		return "SubmitOracleResponse"
	}
	return fmt.Sprintf("TxType(%d)", byte(t))
}

// Transaction is a single call into the registry. Caller is the contract
// or account issuing the call; the participant acting in it is part of Data.
type Transaction struct {
	Caller types.Address
	Data   Data
}

type Data interface {
	String() string
	TxType() TxType
	basicCheck(tx *Transaction, context *state.CheckState) *Response
	Run(tx *Transaction, context state.Interface, currentBlock uint64) Response
}

func (tx *Transaction) String() string {
	if tx.Data == nil {
		return fmt.Sprintf("TX caller:%s data:<nil>", tx.Caller.Hex())
	}
	return fmt.Sprintf("TX caller:%s %s", tx.Caller.Hex(), tx.Data.String())
}

// requiresAuthorization lists the operations a caller may only issue once
// the owner authorized it.
func requiresAuthorization(txType TxType) bool {
	switch txType {
	case TypeRegisterAirline, TypeFundAirline, TypeBuyInsurance, TypeCreditPassenger, TypeWithdraw:
		return true
	}
	return false
}
