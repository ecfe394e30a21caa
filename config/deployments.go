package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
)

// Logical names of the layer-1 contracts the predeploys are initialized
// against.
const (
	L1CrossDomainMessengerProxy = "L1CrossDomainMessengerProxy"
	L1StandardBridgeProxy       = "L1StandardBridgeProxy"
	L1ERC721BridgeProxy         = "L1ERC721BridgeProxy"
)

// ErrDeploymentNotFound when the registry has no address for a logical name
var ErrDeploymentNotFound = errors.New("deployment not found")

// Deployments is the registry of contract addresses produced by the prior
// layer-1 deployment phase, keyed by logical contract name.
type Deployments struct {
	addresses map[string]common.Address
}

// NewDeployments builds a registry from an address map. Mainly for tests.
func NewDeployments(addresses map[string]common.Address) *Deployments {
	m := make(map[string]common.Address, len(addresses))
	for name, addr := range addresses {
		m[name] = addr
	}
	return &Deployments{addresses: m}
}

// LoadDeployments reads the registry from a json file mapping logical names
// to addresses.
func LoadDeployments(path string) (*Deployments, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read deployments %s: %w", path, err)
	}
	addresses := make(map[string]common.Address)
	if err := json.Unmarshal(data, &addresses); err != nil {
		return nil, fmt.Errorf("failed to parse deployments %s: %w", path, err)
	}
	return &Deployments{addresses: addresses}, nil
}

// Get returns the address deployed under the logical name. The input set is
// fixed, so a missing name is fatal at point of use and never retried.
func (d *Deployments) Get(name string) (common.Address, error) {
	addr, ok := d.addresses[name]
	if !ok {
		return common.Address{}, fmt.Errorf("%w: %s", ErrDeploymentNotFound, name)
	}
	if addr == (common.Address{}) {
		return common.Address{}, fmt.Errorf("%w: %s has zero address", ErrDeploymentNotFound, name)
	}
	return addr, nil
}
