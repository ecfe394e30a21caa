package state

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"golang.org/x/exp/slices"
)

// StorageEntry is a single slot of a serialized account.
type StorageEntry struct {
	Key   common.Hash
	Value common.Hash
}

// DumpAccount is a single serialized ledger entry.
type DumpAccount struct {
	Address common.Address
	Balance *big.Int
	Nonce   uint64
	Code    []byte
	// Storage in strictly increasing slot key order.
	Storage []StorageEntry
}

// Dump is the canonical form of the constructed ledger: accounts in strictly
// increasing address order, storage in strictly increasing slot order.
// Identical ledgers always serialize to identical bytes; downstream consumers
// compare and hash the output file.
type Dump struct {
	Accounts []DumpAccount
}

// Dump exports the ledger in canonical order. Fully empty accounts are
// omitted, matching how an empty account would be absent from chain state.
func (db *MemoryStateDB) Dump() *Dump {
	d := &Dump{Accounts: make([]DumpAccount, 0, len(db.accounts))}
	for _, addr := range db.Accounts() {
		acc := db.accounts[addr]
		if acc.empty() {
			continue
		}
		out := DumpAccount{
			Address: addr,
			Balance: new(big.Int).Set(acc.Balance),
			Nonce:   acc.Nonce,
		}
		if len(acc.Code) > 0 {
			out.Code = make([]byte, len(acc.Code))
			copy(out.Code, acc.Code)
		}
		if len(acc.Storage) > 0 {
			out.Storage = make([]StorageEntry, 0, len(acc.Storage))
			for k, v := range acc.Storage {
				out.Storage = append(out.Storage, StorageEntry{Key: k, Value: v})
			}
			slices.SortFunc(out.Storage, func(a, b StorageEntry) int {
				return bytes.Compare(a.Key[:], b.Key[:])
			})
		}
		d.Accounts = append(d.Accounts, out)
	}
	return d
}

// MarshalJSON emits the dump as a JSON object keyed by address. The object
// key order is the canonical account order; encoding/json map marshaling is
// deliberately not used because its key ordering is not a contract.
func (d *Dump) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, acc := range d.Accounts {
		if i > 0 {
			buf.WriteByte(',')
		}
		balance, overflow := uint256.FromBig(acc.Balance)
		if overflow {
			return nil, fmt.Errorf("balance of %s does not fit in 256 bits", acc.Address)
		}
		buf.WriteString(fmt.Sprintf("%q:{", acc.Address.Hex()))
		buf.WriteString(fmt.Sprintf("%q:%q", "balance", balance.Hex()))
		buf.WriteString(fmt.Sprintf(",%q:%d", "nonce", acc.Nonce))
		if len(acc.Code) > 0 {
			buf.WriteString(fmt.Sprintf(",%q:%q", "code", hexutil.Encode(acc.Code)))
		}
		if len(acc.Storage) > 0 {
			buf.WriteString(fmt.Sprintf(",%q:{", "storage"))
			for j, entry := range acc.Storage {
				if j > 0 {
					buf.WriteByte(',')
				}
				buf.WriteString(fmt.Sprintf("%q:%q", entry.Key.Hex(), entry.Value.Hex()))
			}
			buf.WriteByte('}')
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Marshal returns the canonical, indented file representation of the dump.
func (d *Dump) Marshal() ([]byte, error) {
	raw, err := d.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", " "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// WriteDump writes the canonical dump to path. The file is written to a
// temporary sibling and renamed into place so a failed build never leaves a
// partial artifact behind.
func WriteDump(path string, d *Dump) error {
	data, err := d.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path+".tmp", data, 0644); err != nil { //nolint:gosec,mnd
		return err
	}
	return os.Rename(path+".tmp", path)
}
