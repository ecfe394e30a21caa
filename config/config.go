// Package config loads the deploy configuration and the layer-1 deployments
// registry that drive the genesis build.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
)

// Flag names used by the CLI.
const (
	// FlagDeployConfig is the deploy configuration json file
	FlagDeployConfig = "deploy-config"
	// FlagL1Deployments is the layer-1 deployments registry json file
	FlagL1Deployments = "l1-deployments"
	// FlagArtifacts is the compiled contract artifacts directory
	FlagArtifacts = "artifacts"
	// FlagOutput is the genesis state output file
	FlagOutput = "output"
)

// WithdrawalNetwork selects where a fee vault withdraws to.
type WithdrawalNetwork uint8

const (
	// WithdrawToL1 withdraws vault funds to the recipient on layer 1.
	WithdrawToL1 WithdrawalNetwork = 0
	// WithdrawToL2 withdraws vault funds to the recipient on layer 2.
	WithdrawToL2 WithdrawalNetwork = 1
)

// DeployConfig is the read-only bag of values the genesis build consumes,
// loaded once from a json file keyed by deployment context.
type DeployConfig struct {
	// ProxyAdminOwner is recorded as the owner of the ProxyAdmin predeploy.
	ProxyAdminOwner common.Address `json:"proxyAdminOwner" mapstructure:"ProxyAdminOwner"`

	// FeeVaultRecipient receives withdrawn fee vault funds. Shared by all
	// fee vault predeploys.
	FeeVaultRecipient common.Address `json:"feeVaultRecipient" mapstructure:"FeeVaultRecipient"`
	// FeeVaultMinimumWithdrawalAmount is the withdrawal threshold baked
	// into the fee vault code.
	FeeVaultMinimumWithdrawalAmount *math.HexOrDecimal256 `json:"feeVaultMinimumWithdrawalAmount" mapstructure:"FeeVaultMinimumWithdrawalAmount"` //nolint:lll
	// FeeVaultWithdrawalNetwork selects the withdrawal target network.
	FeeVaultWithdrawalNetwork WithdrawalNetwork `json:"feeVaultWithdrawalNetwork" mapstructure:"FeeVaultWithdrawalNetwork"`

	// EnableGovernance toggles the governance token predeploy.
	EnableGovernance bool `json:"enableGovernance" mapstructure:"EnableGovernance"`
	// GovernanceTokenOwner owns the governance token when enabled.
	GovernanceTokenOwner common.Address `json:"governanceTokenOwner" mapstructure:"GovernanceTokenOwner"`

	// FundDevAccounts toggles development account funding.
	FundDevAccounts bool `json:"fundDevAccounts" mapstructure:"FundDevAccounts"`
	// DevAccountFundAmount is the exact balance credited to each dev account.
	DevAccountFundAmount *math.HexOrDecimal256 `json:"devAccountFundAmount" mapstructure:"DevAccountFundAmount"`
	// DevAccounts is the explicit list of accounts to fund. When empty,
	// accounts are derived from DevAccountMnemonic.
	DevAccounts []common.Address `json:"devAccounts" mapstructure:"DevAccounts"`
	// DevAccountMnemonic seeds dev account derivation when no explicit
	// list is configured.
	DevAccountMnemonic string `json:"devAccountMnemonic" mapstructure:"DevAccountMnemonic"`
}

// Check validates the configuration before the build starts, so every
// failure is reported against the input file instead of mid-construction.
func (c *DeployConfig) Check() error {
	if c.FeeVaultRecipient == (common.Address{}) {
		return errors.New("fee vault recipient must be set")
	}
	if c.FeeVaultMinimumWithdrawalAmount == nil {
		return errors.New("fee vault minimum withdrawal amount must be set")
	}
	if c.FeeVaultWithdrawalNetwork > WithdrawToL2 {
		return fmt.Errorf("invalid fee vault withdrawal network %d", c.FeeVaultWithdrawalNetwork)
	}
	if c.EnableGovernance && c.GovernanceTokenOwner == (common.Address{}) {
		return errors.New("governance token owner must be set when governance is enabled")
	}
	if c.FundDevAccounts {
		amount := (*big.Int)(c.DevAccountFundAmount)
		if amount == nil || amount.Sign() <= 0 {
			return errors.New("dev account fund amount must be positive when dev funding is enabled")
		}
	}
	return nil
}

// LoadDeployConfig reads and validates the deploy configuration file.
func LoadDeployConfig(path string) (*DeployConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read deploy config %s: %w", path, err)
	}
	cfg := new(DeployConfig)
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse deploy config %s: %w", path, err)
	}
	if err := cfg.Check(); err != nil {
		return nil, fmt.Errorf("invalid deploy config %s: %w", path, err)
	}
	return cfg, nil
}
