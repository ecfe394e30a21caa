package common

import (
	"math/big"

	"github.com/ethereum/go-ethereum/params"
)

const (
	// Base10 decimal base
	Base10 = 10
	// Gwei represents 1000000000 wei
	Gwei = 1000000000
)

// Ether returns n ether expressed in wei.
func Ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(params.Ether))
}

// BoolToInteger converts the provided boolean value into integer value
func BoolToInteger(v bool) int {
	if v {
		return 1
	}

	return 0
}
