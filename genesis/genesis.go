// Package genesis deterministically constructs the initial ledger state of
// the layer-2 chain: precompile balances, upgradeable proxies across the
// predeploy window, implementation code under per-contract deployment
// strategies, two-phase initialization, and development account funding.
// The result is serialized once, canonically, for the chain node to load.
package genesis

import (
	"fmt"
	"math/big"

	"github.com/hoanguyenkh/optimism/bytecode"
	"github.com/hoanguyenkh/optimism/config"
	"github.com/hoanguyenkh/optimism/log"
	"github.com/hoanguyenkh/optimism/predeploys"
	"github.com/hoanguyenkh/optimism/state"
)

// Builder runs the genesis construction. It exclusively owns the ledger for
// the duration of a single, strictly ordered build pass: proxies must exist
// before implementations are verified against them, implementation-phase
// initialization must precede proxy-phase initialization, and scratch
// accounts must be erased before serialization.
type Builder struct {
	cfg         *config.DeployConfig
	deployments *config.Deployments
	provider    bytecode.Provider
	db          *state.MemoryStateDB

	// deployNonce allocates scratch account addresses for constructor
	// simulation.
	deployNonce uint64
}

// NewBuilder creates a builder over an empty ledger.
func NewBuilder(cfg *config.DeployConfig, deployments *config.Deployments, provider bytecode.Provider) *Builder {
	return &Builder{
		cfg:         cfg,
		deployments: deployments,
		provider:    provider,
		db:          state.NewMemoryStateDB(),
	}
}

// Build constructs the complete genesis ledger. Any invariant violation or
// missing external input aborts the build; there is no partial output.
func (b *Builder) Build() (*state.MemoryStateDB, error) {
	if err := b.cfg.Check(); err != nil {
		return nil, err
	}

	b.fundPrecompiles()

	if err := b.setProxies(); err != nil {
		return nil, err
	}
	if err := b.setImplementations(); err != nil {
		return nil, err
	}
	if err := b.fundDevAccounts(); err != nil {
		return nil, err
	}

	return b.db, nil
}

// fundPrecompiles gives every precompile address a nonzero balance so the
// accounts are not treated as empty. Already populated addresses are left
// untouched, re-running is safe.
func (b *Builder) fundPrecompiles() {
	log.Infof("Funding %d precompile addresses", predeploys.PrecompileCount)
	for i := uint64(1); i <= predeploys.PrecompileCount; i++ {
		addr := predeploys.PrecompileAddr(i)
		if b.db.Exist(addr) {
			continue
		}
		b.db.AddBalance(addr, big.NewInt(1))
	}
}

// fundDevAccounts credits each development account with the configured
// amount and verifies the resulting balances. Skipped, not an error, when
// dev funding is disabled.
func (b *Builder) fundDevAccounts() error {
	if !b.cfg.FundDevAccounts {
		log.Infof("Dev account funding disabled, skipping")
		return nil
	}

	accounts := b.cfg.DevAccounts
	if len(accounts) == 0 {
		mnemonic := b.cfg.DevAccountMnemonic
		if mnemonic == "" {
			mnemonic = DefaultDevMnemonic
		}
		derived, err := DeriveDevAccounts(mnemonic, DevAccountCount)
		if err != nil {
			return err
		}
		accounts = derived
	}

	amount := (*big.Int)(b.cfg.DevAccountFundAmount)
	log.Infof("Funding %d dev accounts with %s wei each", len(accounts), amount)
	for _, addr := range accounts {
		b.db.AddBalance(addr, amount)
	}
	for _, addr := range accounts {
		if balance := b.db.GetBalance(addr); balance.Cmp(amount) != 0 {
			return fmt.Errorf("dev account %s has balance %s, expected exactly %s", addr, balance, amount)
		}
	}
	return nil
}
