package genesis

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/hoanguyenkh/optimism/predeploys"
	"github.com/hoanguyenkh/optimism/state"
)

func descriptor(t *testing.T, addr common.Address) *predeploys.Predeploy {
	t.Helper()
	p, ok := predeploys.IsDefined(addr)
	require.True(t, ok)
	return p
}

func TestInitializePredeploy(t *testing.T) {
	b := NewBuilder(testDeployConfig(), testDeployments(), testProvider())
	p := descriptor(t, predeploys.L2StandardBridgeAddr)

	require.NoError(t, b.initializePredeploy(p))

	impl, err := predeploys.ToCodeNamespace(p.Address)
	require.NoError(t, err)

	// real argument at the proxy, neutral at the implementation
	require.Equal(t, state.EncodeAddress(l1StandardBridge), b.db.GetState(p.Address, remoteAddressSlot))
	require.Equal(t, common.Hash{}, b.db.GetState(impl, remoteAddressSlot))

	// both sides are flagged initialized
	require.Equal(t, state.EncodeUint(1), b.db.GetState(p.Address, initializedSlot))
	require.Equal(t, state.EncodeUint(1), b.db.GetState(impl, initializedSlot))
}

func TestInitializeIsTerminal(t *testing.T) {
	b := NewBuilder(testDeployConfig(), testDeployments(), testProvider())
	p := descriptor(t, predeploys.L2CrossDomainMessengerAddr)

	require.NoError(t, b.initialize(p.Address, p, false))
	require.ErrorIs(t, b.initialize(p.Address, p, false), ErrAlreadyInitialized)
	require.ErrorIs(t, b.initialize(p.Address, p, true), ErrAlreadyInitialized)
}

func TestInitializeFactoryUsesLocalBridge(t *testing.T) {
	b := NewBuilder(testDeployConfig(), testDeployments(), testProvider())
	p := descriptor(t, predeploys.OptimismMintableERC20FactoryAddr)

	require.NoError(t, b.initialize(p.Address, p, false))
	require.Equal(t, state.EncodeAddress(predeploys.L2StandardBridgeAddr), b.db.GetState(p.Address, remoteAddressSlot))
}

func TestInitializeUnknownArguments(t *testing.T) {
	b := NewBuilder(testDeployConfig(), testDeployments(), testProvider())
	p := descriptor(t, predeploys.GasPriceOracleAddr)

	err := b.initialize(p.Address, p, false)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no initializer arguments")
}
