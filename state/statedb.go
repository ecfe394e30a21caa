// Package state holds the in-memory ledger the genesis build manipulates
// directly, in place of a live virtual machine's account records, and its
// canonical serialization.
package state

import (
	"bytes"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/exp/slices"
)

// account is the state of a single ledger entry under construction.
type account struct {
	Balance *big.Int
	Nonce   uint64
	Code    []byte
	Storage map[common.Hash]common.Hash
}

// empty reports whether the account would be an empty entry in the output.
func (a *account) empty() bool {
	return (a.Balance == nil || a.Balance.Sign() == 0) &&
		a.Nonce == 0 &&
		len(a.Code) == 0 &&
		len(a.Storage) == 0
}

// MemoryStateDB is the ledger being constructed. It is exclusively owned by
// the single sequential build pass, so access is unsynchronized.
type MemoryStateDB struct {
	accounts map[common.Address]*account
}

// NewMemoryStateDB creates an empty ledger.
func NewMemoryStateDB() *MemoryStateDB {
	return &MemoryStateDB{
		accounts: make(map[common.Address]*account),
	}
}

func (db *MemoryStateDB) getOrCreate(addr common.Address) *account {
	if acc, ok := db.accounts[addr]; ok {
		return acc
	}
	acc := &account{
		Balance: big.NewInt(0),
		Storage: make(map[common.Hash]common.Hash),
	}
	db.accounts[addr] = acc
	return acc
}

// CreateAccount ensures an entry exists for the address.
func (db *MemoryStateDB) CreateAccount(addr common.Address) {
	db.getOrCreate(addr)
}

// Exist returns true if the address has an entry.
func (db *MemoryStateDB) Exist(addr common.Address) bool {
	_, ok := db.accounts[addr]
	return ok
}

// GetBalance returns a copy of the balance of the address.
func (db *MemoryStateDB) GetBalance(addr common.Address) *big.Int {
	if acc, ok := db.accounts[addr]; ok && acc.Balance != nil {
		return new(big.Int).Set(acc.Balance)
	}
	return big.NewInt(0)
}

// SetBalance overwrites the balance of the address.
func (db *MemoryStateDB) SetBalance(addr common.Address, balance *big.Int) {
	acc := db.getOrCreate(addr)
	acc.Balance = new(big.Int).Set(balance)
}

// AddBalance credits the address.
func (db *MemoryStateDB) AddBalance(addr common.Address, amount *big.Int) {
	acc := db.getOrCreate(addr)
	acc.Balance = new(big.Int).Add(acc.Balance, amount)
}

// GetNonce returns the nonce of the address.
func (db *MemoryStateDB) GetNonce(addr common.Address) uint64 {
	if acc, ok := db.accounts[addr]; ok {
		return acc.Nonce
	}
	return 0
}

// SetNonce sets the nonce of the address.
func (db *MemoryStateDB) SetNonce(addr common.Address, nonce uint64) {
	db.getOrCreate(addr).Nonce = nonce
}

// GetCode returns the code of the address.
func (db *MemoryStateDB) GetCode(addr common.Address) []byte {
	if acc, ok := db.accounts[addr]; ok {
		return acc.Code
	}
	return nil
}

// SetCode installs code at the address.
func (db *MemoryStateDB) SetCode(addr common.Address, code []byte) {
	acc := db.getOrCreate(addr)
	acc.Code = make([]byte, len(code))
	copy(acc.Code, code)
}

// GetState returns the storage word at the slot.
func (db *MemoryStateDB) GetState(addr common.Address, slot common.Hash) common.Hash {
	if acc, ok := db.accounts[addr]; ok {
		return acc.Storage[slot]
	}
	return common.Hash{}
}

// SetState writes the storage word at the slot.
func (db *MemoryStateDB) SetState(addr common.Address, slot, value common.Hash) {
	acc := db.getOrCreate(addr)
	acc.Storage[slot] = value
}

// DeleteAccount fully erases the entry: code, nonce, balance and storage.
// Used to destroy scratch accounts so they cannot leak into the output.
func (db *MemoryStateDB) DeleteAccount(addr common.Address) {
	delete(db.accounts, addr)
}

// Accounts returns every address with an entry, in strictly increasing
// numeric order.
func (db *MemoryStateDB) Accounts() []common.Address {
	addrs := make([]common.Address, 0, len(db.accounts))
	for addr := range db.accounts {
		addrs = append(addrs, addr)
	}
	slices.SortFunc(addrs, func(a, b common.Address) int {
		return bytes.Compare(a[:], b[:])
	})
	return addrs
}
