package predeploys

import (
	"github.com/ethereum/go-ethereum/common"
)

// DeployStrategy tags how a predeploy's code can be placed into the genesis
// without running a real deployment transaction.
type DeployStrategy int

const (
	// DeployDirect injects the compiled deployed bytecode as-is. Only valid
	// for contracts with no constructor side effects and no immutables.
	DeployDirect DeployStrategy = iota
	// DeployWithImmutables runs the constructor simulation in a scratch
	// account so immutable values end up baked into the code, then copies
	// the result to the implementation address and erases the scratch.
	DeployWithImmutables
	// DeployCopyAndPatch runs the constructor simulation in a scratch
	// account, copies the code to the exact (unproxied) predeploy address
	// and patches the storage slots the constructor would have written.
	DeployCopyAndPatch
)

// Predeploy describes a system contract that exists from the first block.
type Predeploy struct {
	// Name of the contract, used to look up compiled bytecode.
	Name string
	// Address of the predeploy inside the window.
	Address common.Address
	// Proxied is false for contracts placed directly at their public
	// address instead of behind an upgradeable proxy.
	Proxied bool
	// Strategy selects how the code is placed.
	Strategy DeployStrategy
	// HasInitializer is true when the contract exposes a one-time setup
	// routine that must be run during genesis construction.
	HasInitializer bool
}

// Predeploys holds every registered predeploy in deterministic order.
var Predeploys = []*Predeploy{
	{Name: "LegacyMessagePasser", Address: LegacyMessagePasserAddr, Proxied: true, Strategy: DeployDirect},
	{Name: "DeployerWhitelist", Address: DeployerWhitelistAddr, Proxied: true, Strategy: DeployDirect},
	{Name: "WETH9", Address: WETH9Addr, Proxied: false, Strategy: DeployCopyAndPatch},
	{Name: "L2CrossDomainMessenger", Address: L2CrossDomainMessengerAddr, Proxied: true, Strategy: DeployDirect, HasInitializer: true},
	{Name: "GasPriceOracle", Address: GasPriceOracleAddr, Proxied: true, Strategy: DeployDirect},
	{Name: "L2StandardBridge", Address: L2StandardBridgeAddr, Proxied: true, Strategy: DeployDirect, HasInitializer: true},
	{Name: "SequencerFeeVault", Address: SequencerFeeVaultAddr, Proxied: true, Strategy: DeployWithImmutables},
	{Name: "OptimismMintableERC20Factory", Address: OptimismMintableERC20FactoryAddr, Proxied: true, Strategy: DeployDirect, HasInitializer: true},
	{Name: "L1BlockNumber", Address: L1BlockNumberAddr, Proxied: true, Strategy: DeployDirect},
	{Name: "L2ERC721Bridge", Address: L2ERC721BridgeAddr, Proxied: true, Strategy: DeployDirect, HasInitializer: true},
	{Name: "L1Block", Address: L1BlockAddr, Proxied: true, Strategy: DeployDirect},
	{Name: "ProxyAdmin", Address: ProxyAdminAddr, Proxied: true, Strategy: DeployDirect},
	{Name: "BaseFeeVault", Address: BaseFeeVaultAddr, Proxied: true, Strategy: DeployWithImmutables},
	{Name: "L1FeeVault", Address: L1FeeVaultAddr, Proxied: true, Strategy: DeployWithImmutables},
	{Name: "GovernanceToken", Address: GovernanceTokenAddr, Proxied: false, Strategy: DeployCopyAndPatch},
}

// byAddress indexes the descriptor table for IsDefined lookups.
var byAddress = func() map[common.Address]*Predeploy {
	m := make(map[common.Address]*Predeploy, len(Predeploys))
	for _, p := range Predeploys {
		m[p.Address] = p
	}
	return m
}()

// IsDefined returns the descriptor registered at the address, if any.
func IsDefined(addr common.Address) (*Predeploy, bool) {
	p, ok := byAddress[addr]
	return p, ok
}
