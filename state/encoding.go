package state

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	localCommon "github.com/hoanguyenkh/optimism/common"
)

// EncodeAddress encodes an address as a right-aligned storage word.
func EncodeAddress(addr common.Address) common.Hash {
	return common.BytesToHash(addr.Bytes())
}

// EncodeUint encodes an unsigned integer as a storage word.
func EncodeUint(v uint64) common.Hash {
	return common.BigToHash(new(big.Int).SetUint64(v))
}

// EncodeBig encodes a non-negative big integer as a storage word.
func EncodeBig(v *big.Int) common.Hash {
	return common.BigToHash(v)
}

// EncodeBool encodes a boolean as a storage word.
func EncodeBool(v bool) common.Hash {
	return EncodeUint(uint64(localCommon.BoolToInteger(v)))
}

// EncodeShortString encodes a string of fewer than 32 bytes the way contract
// storage lays it out: bytes left-aligned, double the length in the low byte.
func EncodeShortString(s string) (common.Hash, error) {
	if len(s) >= common.HashLength {
		return common.Hash{}, fmt.Errorf("string %q does not fit in a single storage word", s)
	}
	var word common.Hash
	copy(word[:], s)
	word[common.HashLength-1] = byte(len(s) * 2) //nolint:gomnd
	return word, nil
}
