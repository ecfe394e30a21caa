package genesis

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/hoanguyenkh/optimism/bytecode"
	"github.com/hoanguyenkh/optimism/log"
	"github.com/hoanguyenkh/optimism/predeploys"
	"github.com/hoanguyenkh/optimism/state"
)

// scratchDeployer is the pseudo account whose CREATE addresses are used for
// constructor simulation. The account itself is never materialized in the
// ledger; only its derived scratch addresses are, transiently.
var scratchDeployer = common.HexToAddress("0x4e59b44847b379578588920cA78FbF26c0B4956C")

// Storage layout constants of the manually patched contracts.
const (
	wethNameSlot     = 0
	wethSymbolSlot   = 1
	wethDecimalsSlot = 2
	wethDecimals     = 18

	govTokenNameSlot   = 3
	govTokenSymbolSlot = 4
	govTokenOwnerSlot  = 10

	proxyAdminOwnerSlot = 0
)

// Token metadata written during storage patching.
const (
	wethName       = "Wrapped Ether"
	wethSymbol     = "WETH"
	govTokenName   = "Optimism"
	govTokenSymbol = "OP"
)

// setImplementations places the code of every registered predeploy and runs
// its initialization. The governance token is configuration-gated.
func (b *Builder) setImplementations() error {
	for _, p := range predeploys.Predeploys {
		if p.Address == predeploys.GovernanceTokenAddr && !b.cfg.EnableGovernance {
			log.Infof("Governance disabled, skipping %s", p.Name)
			continue
		}
		if err := b.setImplementation(p); err != nil {
			return fmt.Errorf("failed to set implementation for %s: %w", p.Name, err)
		}
	}
	return nil
}

// setImplementation places one predeploy's code according to its deployment
// strategy, verifies the owning proxy points at it, and initializes it.
func (b *Builder) setImplementation(p *predeploys.Predeploy) error {
	log.Infof("Setting implementation for %s at %s", p.Name, p.Address)

	switch p.Strategy {
	case predeploys.DeployDirect:
		// Direct injection is only sound for contracts without immutables:
		// an artifact that declares immutable references would be placed
		// with unset (zero) immutable values.
		refs, err := b.provider.ImmutableReferences(p.Name)
		if err != nil {
			return err
		}
		if len(refs) > 0 {
			return fmt.Errorf("%s has immutable values and cannot be injected directly", p.Name)
		}
		code, err := b.provider.DeployedBytecode(p.Name)
		if err != nil {
			return err
		}
		impl, err := predeploys.ToCodeNamespace(p.Address)
		if err != nil {
			return err
		}
		b.db.SetCode(impl, code)

	case predeploys.DeployWithImmutables:
		// Immutables are baked in at construction time and cannot be
		// patched afterwards, so the code must come out of a simulated
		// constructor run.
		values, err := b.immutableValues(p)
		if err != nil {
			return err
		}
		code, err := b.construct(p.Name, values)
		if err != nil {
			return err
		}
		impl, err := predeploys.ToCodeNamespace(p.Address)
		if err != nil {
			return err
		}
		b.db.SetCode(impl, code)

	case predeploys.DeployCopyAndPatch:
		// Not proxied, but must exist at the exact predeploy address where
		// no constructor can run: construct in a scratch account, copy the
		// code over and write the storage the constructor would have.
		code, err := b.construct(p.Name, nil)
		if err != nil {
			return err
		}
		b.db.SetCode(p.Address, code)
		if err := b.patchStorage(p); err != nil {
			return err
		}

	default:
		return fmt.Errorf("unknown deployment strategy %d", p.Strategy)
	}

	if p.Proxied {
		if err := b.verifyProxyImplementation(p); err != nil {
			return err
		}
	}

	if p.Address == predeploys.ProxyAdminAddr {
		// The ProxyAdmin owner lives in the proxy's storage.
		b.db.SetState(p.Address, state.EncodeUint(proxyAdminOwnerSlot), state.EncodeAddress(b.cfg.ProxyAdminOwner))
	}

	if p.HasInitializer {
		if err := b.initializePredeploy(p); err != nil {
			return err
		}
	}
	return nil
}

// construct simulates deploying the named contract: the code with spliced
// immutables is placed in a freshly allocated scratch account, read back and
// the scratch account is fully erased so it can never reach the output.
func (b *Builder) construct(name string, immutables map[string]common.Hash) ([]byte, error) {
	scratch := crypto.CreateAddress(scratchDeployer, b.deployNonce)
	b.deployNonce++

	constructed, err := bytecode.Construct(b.provider, name, immutables)
	if err != nil {
		return nil, err
	}

	b.db.SetCode(scratch, constructed)
	b.db.SetNonce(scratch, 1)

	code := make([]byte, len(constructed))
	copy(code, b.db.GetCode(scratch))

	b.db.DeleteAccount(scratch)
	return code, nil
}

// immutableValues resolves the constructor immutables of a predeploy from
// the deploy configuration.
func (b *Builder) immutableValues(p *predeploys.Predeploy) (map[string]common.Hash, error) {
	switch p.Address {
	case predeploys.SequencerFeeVaultAddr, predeploys.BaseFeeVaultAddr, predeploys.L1FeeVaultAddr:
		minWithdrawal := (*big.Int)(b.cfg.FeeVaultMinimumWithdrawalAmount)
		return map[string]common.Hash{
			"recipient":           state.EncodeAddress(b.cfg.FeeVaultRecipient),
			"minWithdrawalAmount": state.EncodeBig(minWithdrawal),
			"withdrawalNetwork":   state.EncodeUint(uint64(b.cfg.FeeVaultWithdrawalNetwork)),
		}, nil
	default:
		return nil, fmt.Errorf("no immutable values defined for %s", p.Name)
	}
}

// patchStorage writes the exact storage words a constructor run at the
// target address would have produced.
func (b *Builder) patchStorage(p *predeploys.Predeploy) error {
	switch p.Address {
	case predeploys.WETH9Addr:
		name, err := state.EncodeShortString(wethName)
		if err != nil {
			return err
		}
		symbol, err := state.EncodeShortString(wethSymbol)
		if err != nil {
			return err
		}
		b.db.SetState(p.Address, state.EncodeUint(wethNameSlot), name)
		b.db.SetState(p.Address, state.EncodeUint(wethSymbolSlot), symbol)
		b.db.SetState(p.Address, state.EncodeUint(wethDecimalsSlot), state.EncodeUint(wethDecimals))
		return nil

	case predeploys.GovernanceTokenAddr:
		name, err := state.EncodeShortString(govTokenName)
		if err != nil {
			return err
		}
		symbol, err := state.EncodeShortString(govTokenSymbol)
		if err != nil {
			return err
		}
		b.db.SetState(p.Address, state.EncodeUint(govTokenNameSlot), name)
		b.db.SetState(p.Address, state.EncodeUint(govTokenSymbolSlot), symbol)
		b.db.SetState(p.Address, state.EncodeUint(govTokenOwnerSlot), state.EncodeAddress(b.cfg.GovernanceTokenOwner))
		return nil

	default:
		return fmt.Errorf("no storage patch defined for %s", p.Name)
	}
}

// verifyProxyImplementation checks that the proxy at the predeploy address
// points exactly at the code namespace address of its implementation. A
// mismatch means the construction is corrupt and the build must abort.
func (b *Builder) verifyProxyImplementation(p *predeploys.Predeploy) error {
	impl, err := predeploys.ToCodeNamespace(p.Address)
	if err != nil {
		return err
	}
	expected := state.EncodeAddress(impl)
	if got := b.db.GetState(p.Address, ImplementationSlot); got != expected {
		return fmt.Errorf("proxy at %s has implementation slot %s, expected %s", p.Address, got.Hex(), expected.Hex())
	}
	return nil
}
