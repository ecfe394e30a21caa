package genesis

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/hoanguyenkh/optimism/config"
	"github.com/hoanguyenkh/optimism/predeploys"
	"github.com/hoanguyenkh/optimism/state"
)

// ErrAlreadyInitialized when a one-time setup routine is invoked a second time
var ErrAlreadyInitialized = errors.New("already initialized")

// initializedSlot holds the one-time-setup flag in its low byte: slot 0 of
// the upgradeable-initializable storage layout.
var initializedSlot = common.Hash{}

// remoteAddressSlot holds the initializer's address argument (the layer-1
// counterpart, or the local bridge for the token factory).
var remoteAddressSlot = state.EncodeUint(1)

// storageWrite is a single slot assignment produced by an initialization.
type storageWrite struct {
	slot  common.Hash
	value common.Hash
}

// initializePredeploy runs the two-phase initialization protocol: neutral
// arguments at the implementation address so it can never be hijacked
// through its public address, real arguments at the proxy address, then a
// verification that both are terminal. A successfully repeated
// initialization is a security-critical construction bug, so anything other
// than ErrAlreadyInitialized on re-invocation aborts the build.
func (b *Builder) initializePredeploy(p *predeploys.Predeploy) error {
	impl, err := predeploys.ToCodeNamespace(p.Address)
	if err != nil {
		return err
	}

	if err := b.initialize(impl, p, true); err != nil {
		return fmt.Errorf("failed to initialize implementation of %s: %w", p.Name, err)
	}
	if err := b.initialize(p.Address, p, false); err != nil {
		return fmt.Errorf("failed to initialize proxy of %s: %w", p.Name, err)
	}

	if err := b.initialize(impl, p, true); !errors.Is(err, ErrAlreadyInitialized) {
		return fmt.Errorf("implementation of %s accepted a repeated initialization", p.Name)
	}
	if err := b.initialize(p.Address, p, false); !errors.Is(err, ErrAlreadyInitialized) {
		return fmt.Errorf("proxy of %s accepted a repeated initialization", p.Name)
	}
	return nil
}

// initialize runs the one-time setup routine of the predeploy against the
// storage of the target address. The neutral flavor writes zero-valued
// arguments, the real flavor resolves them from configuration and the
// layer-1 deployments registry.
func (b *Builder) initialize(target common.Address, p *predeploys.Predeploy, neutral bool) error {
	if b.db.GetState(target, initializedSlot) != (common.Hash{}) {
		return ErrAlreadyInitialized
	}

	writes, err := b.initWrites(p, neutral)
	if err != nil {
		return err
	}
	for _, w := range writes {
		b.db.SetState(target, w.slot, w.value)
	}
	b.db.SetState(target, initializedSlot, state.EncodeUint(1))
	return nil
}

// initWrites resolves the initializer argument slots of the predeploy. The
// argument shape is a static property of the descriptor; a descriptor that
// claims an initializer but has no arguments defined here is a bug.
func (b *Builder) initWrites(p *predeploys.Predeploy, neutral bool) ([]storageWrite, error) {
	if neutral {
		return []storageWrite{{slot: remoteAddressSlot, value: common.Hash{}}}, nil
	}

	var remote common.Address
	switch p.Address {
	case predeploys.L2CrossDomainMessengerAddr:
		addr, err := b.deployments.Get(config.L1CrossDomainMessengerProxy)
		if err != nil {
			return nil, err
		}
		remote = addr
	case predeploys.L2StandardBridgeAddr:
		addr, err := b.deployments.Get(config.L1StandardBridgeProxy)
		if err != nil {
			return nil, err
		}
		remote = addr
	case predeploys.L2ERC721BridgeAddr:
		addr, err := b.deployments.Get(config.L1ERC721BridgeProxy)
		if err != nil {
			return nil, err
		}
		remote = addr
	case predeploys.OptimismMintableERC20FactoryAddr:
		remote = predeploys.L2StandardBridgeAddr
	default:
		return nil, fmt.Errorf("no initializer arguments defined for %s", p.Name)
	}

	return []storageWrite{{slot: remoteAddressSlot, value: state.EncodeAddress(remote)}}, nil
}
