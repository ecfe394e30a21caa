package predeploys

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestIsPrecompile(t *testing.T) {
	cases := []struct {
		name     string
		addr     common.Address
		expected bool
	}{
		{
			name:     "zero address",
			addr:     common.Address{},
			expected: false,
		},
		{
			name:     "first precompile",
			addr:     common.HexToAddress("0x01"),
			expected: true,
		},
		{
			name:     "last precompile",
			addr:     common.HexToAddress("0xff"),
			expected: true,
		},
		{
			name:     "above the range",
			addr:     common.HexToAddress("0x100"),
			expected: false,
		},
		{
			name:     "predeploy",
			addr:     L2CrossDomainMessengerAddr,
			expected: false,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.expected, IsPrecompile(c.addr))
		})
	}
}

func TestPredeployWindow(t *testing.T) {
	require.True(t, IsPredeployWindow(common.HexToAddress("0x4200000000000000000000000000000000000000")))
	require.True(t, IsPredeployWindow(common.HexToAddress("0x42000000000000000000000000000000000007FF")))
	require.False(t, IsPredeployWindow(common.HexToAddress("0x4200000000000000000000000000000000000800")))
	require.False(t, IsPredeployWindow(common.HexToAddress("0x41FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF")))
	require.False(t, IsPredeployWindow(common.Address{}))
}

func TestPredeployIndexRoundTrip(t *testing.T) {
	for i := uint16(0); i < PredeployProxyCount; i++ {
		addr := PredeployAddr(i)
		require.True(t, IsPredeployWindow(addr))
		idx, err := PredeployIndex(addr)
		require.NoError(t, err)
		require.Equal(t, i, idx)
	}

	_, err := PredeployIndex(common.HexToAddress("0x01"))
	require.Error(t, err)
}

func TestToCodeNamespace(t *testing.T) {
	impl, err := ToCodeNamespace(L2CrossDomainMessengerAddr)
	require.NoError(t, err)
	require.Equal(t, common.HexToAddress("0xc0D3C0d3C0d3C0D3c0d3C0d3c0D3C0d3c0d30007"), impl)

	_, err = ToCodeNamespace(common.HexToAddress("0x01"))
	require.Error(t, err)
}

func TestToCodeNamespaceIsBijective(t *testing.T) {
	seen := make(map[common.Address]common.Address, PredeployProxyCount)
	for i := uint16(0); i < PredeployProxyCount; i++ {
		addr := PredeployAddr(i)
		impl, err := ToCodeNamespace(addr)
		require.NoError(t, err)
		prev, dup := seen[impl]
		require.False(t, dup, "namespace address %s produced by both %s and %s", impl, prev, addr)
		seen[impl] = addr

		// deterministic across invocations
		again, err := ToCodeNamespace(addr)
		require.NoError(t, err)
		require.Equal(t, impl, again)
	}
}

func TestNotProxied(t *testing.T) {
	require.True(t, NotProxied(WETH9Addr))
	require.True(t, NotProxied(GovernanceTokenAddr))
	require.False(t, NotProxied(L2StandardBridgeAddr))
	require.False(t, NotProxied(ProxyAdminAddr))
}

func TestIsDefined(t *testing.T) {
	p, ok := IsDefined(SequencerFeeVaultAddr)
	require.True(t, ok)
	require.Equal(t, "SequencerFeeVault", p.Name)
	require.Equal(t, DeployWithImmutables, p.Strategy)

	_, ok = IsDefined(PredeployAddr(0x7FF))
	require.False(t, ok)
}

func TestDescriptorTableConsistency(t *testing.T) {
	for _, p := range Predeploys {
		t.Run(p.Name, func(t *testing.T) {
			require.True(t, IsPredeployWindow(p.Address))
			require.Equal(t, !p.Proxied, NotProxied(p.Address))
			if p.Strategy == DeployCopyAndPatch {
				require.False(t, p.Proxied)
			} else {
				require.True(t, p.Proxied)
			}
		})
	}
}
