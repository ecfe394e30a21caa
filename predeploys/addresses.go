// Package predeploys models the layer-2 address space: the precompile range,
// the fixed predeploy window at the 0x42 prefix, the implementation namespace
// each predeploy shadows into, and the descriptor table of the system
// contracts that live there.
package predeploys

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

const (
	// PrecompileCount is the number of reserved precompile addresses,
	// 0x01 through 0xff inclusive.
	PrecompileCount = 255
	// PredeployProxyCount is the number of addresses in the predeploy
	// window that receive proxy contracts.
	PredeployProxyCount = 2048
)

// Predeploy addresses.
var (
	LegacyMessagePasserAddr          = common.HexToAddress("0x4200000000000000000000000000000000000000")
	DeployerWhitelistAddr            = common.HexToAddress("0x4200000000000000000000000000000000000002")
	WETH9Addr                        = common.HexToAddress("0x4200000000000000000000000000000000000006")
	L2CrossDomainMessengerAddr       = common.HexToAddress("0x4200000000000000000000000000000000000007")
	GasPriceOracleAddr               = common.HexToAddress("0x420000000000000000000000000000000000000F")
	L2StandardBridgeAddr             = common.HexToAddress("0x4200000000000000000000000000000000000010")
	SequencerFeeVaultAddr            = common.HexToAddress("0x4200000000000000000000000000000000000011")
	OptimismMintableERC20FactoryAddr = common.HexToAddress("0x4200000000000000000000000000000000000012")
	L1BlockNumberAddr                = common.HexToAddress("0x4200000000000000000000000000000000000013")
	L2ERC721BridgeAddr               = common.HexToAddress("0x4200000000000000000000000000000000000014")
	L1BlockAddr                      = common.HexToAddress("0x4200000000000000000000000000000000000015")
	ProxyAdminAddr                   = common.HexToAddress("0x4200000000000000000000000000000000000018")
	BaseFeeVaultAddr                 = common.HexToAddress("0x4200000000000000000000000000000000000019")
	L1FeeVaultAddr                   = common.HexToAddress("0x420000000000000000000000000000000000001A")
	GovernanceTokenAddr              = common.HexToAddress("0x4200000000000000000000000000000000000042")
)

// predeployNamespace is the first address of the predeploy window.
var predeployNamespace = common.HexToAddress("0x4200000000000000000000000000000000000000")

// codeNamespace is the prefix of the implementation shadow addresses. The low
// two bytes of a predeploy address are preserved under this prefix, so the
// mapping is a bijection over the window. It must never change: the resulting
// addresses are part of the genesis and of every upgrade performed against it.
var codeNamespace = common.HexToAddress("0xc0D3C0d3C0d3C0D3c0d3C0d3c0D3C0d3c0d3C0D3")

// bigPredeployCount used for window membership math.
var bigPredeployCount = big.NewInt(PredeployProxyCount)

// IsPrecompile returns true if the address is within the reserved precompile
// range.
func IsPrecompile(addr common.Address) bool {
	n := new(big.Int).SetBytes(addr.Bytes())
	return n.Sign() > 0 && n.Cmp(big.NewInt(PrecompileCount)) <= 0
}

// PrecompileAddr returns the address of the i-th precompile. The index is a
// caller-controlled constant, an out-of-range value is a bug.
func PrecompileAddr(i uint64) common.Address {
	if i == 0 || i > PrecompileCount {
		panic(fmt.Sprintf("precompile index %d out of range", i))
	}
	return common.BigToAddress(new(big.Int).SetUint64(i))
}

// IsPredeployWindow returns true if the address falls inside the fixed
// predeploy window.
func IsPredeployWindow(addr common.Address) bool {
	base := new(big.Int).SetBytes(predeployNamespace.Bytes())
	n := new(big.Int).SetBytes(addr.Bytes())
	diff := new(big.Int).Sub(n, base)
	return diff.Sign() >= 0 && diff.Cmp(bigPredeployCount) < 0
}

// PredeployIndex returns the index of the address within the predeploy
// window. Calling it with an address outside the window is a caller bug.
func PredeployIndex(addr common.Address) (uint16, error) {
	if !IsPredeployWindow(addr) {
		return 0, fmt.Errorf("address %s is not in the predeploy window", addr)
	}
	return uint16(addr[18])<<8 | uint16(addr[19]), nil
}

// PredeployAddr builds the predeploy address for the given window index.
func PredeployAddr(i uint16) common.Address {
	addr := predeployNamespace
	addr[18] = byte(i >> 8)
	addr[19] = byte(i)
	return addr
}

// ToCodeNamespace maps a predeploy address to the shadow address holding its
// implementation code, by substituting the 18-byte prefix and keeping the low
// two bytes. Deterministic and identical across every implementation for
// genesis compatibility.
func ToCodeNamespace(addr common.Address) (common.Address, error) {
	if !IsPredeployWindow(addr) {
		return common.Address{}, fmt.Errorf("cannot map %s to code namespace: not a predeploy", addr)
	}
	out := codeNamespace
	out[18] = addr[18]
	out[19] = addr[19]
	return out, nil
}

// NotProxied returns true for the predeploy window addresses that must not
// receive proxy code. WETH9 and the governance token live directly at their
// public addresses.
func NotProxied(addr common.Address) bool {
	return addr == WETH9Addr || addr == GovernanceTokenAddr
}
