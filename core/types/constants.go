package types

import (
	"math/big"

	"github.com/flightsurety/surety-node/helpers"
)

const (
	// OracleIndexCount is the number of indexes assigned to each oracle.
	OracleIndexCount = 3
	// OracleIndexRange bounds every index to [0, OracleIndexRange).
	OracleIndexRange = 10
	// MinOracleResponses is the number of matching responses that finalizes a request.
	MinOracleResponses = 3
	// FastRegistrationLimit is the registered airline count below which
	// a funded airline registers others without voting.
	FastRegistrationLimit = 4
	// ConsensusDivisor expresses the 50% vote fraction: votes*ConsensusDivisor >= registered.
	ConsensusDivisor = 2
	// NonceWrap resets the index nonce.
	NonceWrap = 250
)

// FundingThreshold is the cumulative contribution an airline needs to participate (10 ether).
func FundingThreshold() *big.Int {
	return helpers.EtherToWei(big.NewInt(10))
}

// PremiumCap is the maximum premium a passenger may pay for one flight (1 ether).
func PremiumCap() *big.Int {
	return helpers.EtherToWei(big.NewInt(1))
}

// OracleRegistrationFee is the price of registering an oracle (1 ether).
func OracleRegistrationFee() *big.Int {
	return helpers.EtherToWei(big.NewInt(1))
}

// Payout returns the credit for a delayed flight: 150% of the premium.
func Payout(premium *big.Int) *big.Int {
	payout := big.NewInt(0).Mul(premium, big.NewInt(3))
	return payout.Quo(payout, big.NewInt(2))
}
