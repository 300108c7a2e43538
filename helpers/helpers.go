package helpers

import (
	"fmt"
	"math/big"
)

// EtherToWei converts ether to wei (multiplies input by 1e18)
func EtherToWei(ether *big.Int) *big.Int {
	p := big.NewInt(10)
	p.Exp(p, big.NewInt(18), nil)
	p.Mul(p, ether)

	return p
}

// StringToBigInt converts string to BigInt, panics on empty strings and errors
func StringToBigInt(s string) *big.Int {
	b, err := stringToBigInt(s)
	if err != nil {
		panic(err)
	}

	return b
}

func stringToBigInt(s string) (*big.Int, error) {
	if s == "" {
		return nil, fmt.Errorf("string is empty")
	}

	b, success := big.NewInt(0).SetString(s, 10)
	if !success {
		return nil, fmt.Errorf("cannot decode %s into big.Int", s)
	}

	return b, nil
}

// IsValidBigInt verifies that string is a valid non-negative int
func IsValidBigInt(s string) bool {
	b, err := stringToBigInt(s)
	if err != nil {
		return false
	}

	return b.Sign() != -1
}

// BigOrZero returns a copy of b, or zero when b is nil
func BigOrZero(b *big.Int) *big.Int {
	if b == nil {
		return big.NewInt(0)
	}

	return big.NewInt(0).Set(b)
}
