package genesis

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip39"
)

const (
	// DevAccountCount is the number of accounts derived when no explicit
	// dev account list is configured.
	DevAccountCount = 30
	// DefaultDevMnemonic is the well-known development mnemonic.
	DefaultDevMnemonic = "test test test test test test test test test test test junk"
)

// DeriveDevAccounts derives count development account addresses from the
// mnemonic. The derivation is deterministic: the bip39 seed hashed with the
// account index.
func DeriveDevAccounts(mnemonic string, count int) ([]common.Address, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, fmt.Errorf("invalid dev account mnemonic")
	}
	seed := bip39.NewSeed(mnemonic, "")

	addrs := make([]common.Address, count)
	for i := 0; i < count; i++ {
		preimage := make([]byte, len(seed)+4) //nolint:gomnd
		copy(preimage, seed)
		binary.BigEndian.PutUint32(preimage[len(seed):], uint32(i))

		key, err := crypto.ToECDSA(crypto.Keccak256(preimage))
		if err != nil {
			return nil, fmt.Errorf("failed to derive dev account %d: %w", i, err)
		}
		addrs[i] = crypto.PubkeyToAddress(key.PublicKey)
	}
	return addrs, nil
}
