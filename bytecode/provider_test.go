package bytecode

import (
	"encoding/json"
	"os"
	"path"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func vaultArtifact() *Artifact {
	return &Artifact{
		ContractName:     "FeeVault",
		DeployedBytecode: make([]byte, 128),
		ImmutableReferences: map[string][]Reference{
			"recipient": {{Start: 32, Length: 32}, {Start: 96, Length: 32}},
			"threshold": {{Start: 64, Length: 32}},
		},
	}
}

func TestConstructSplicesImmutables(t *testing.T) {
	provider := MapProvider{"FeeVault": vaultArtifact()}

	recipient := common.HexToHash("0x0000000000000000000000001111111111111111111111111111111111111111")
	threshold := common.HexToHash("0x0de0b6b3a7640000")
	code, err := Construct(provider, "FeeVault", map[string]common.Hash{
		"recipient": recipient,
		"threshold": threshold,
	})
	require.NoError(t, err)
	require.Len(t, code, 128)
	require.Equal(t, recipient[:], code[32:64])
	require.Equal(t, threshold[:], code[64:96])
	require.Equal(t, recipient[:], code[96:128])

	// the artifact's code is untouched
	require.Equal(t, make([]byte, 128), []byte(provider["FeeVault"].DeployedBytecode))
}

func TestConstructErrors(t *testing.T) {
	provider := MapProvider{"FeeVault": vaultArtifact()}

	cases := []struct {
		name       string
		contract   string
		immutables map[string]common.Hash
	}{
		{
			name:     "unknown contract",
			contract: "NoSuchContract",
		},
		{
			name:     "missing immutable value",
			contract: "FeeVault",
			immutables: map[string]common.Hash{
				"recipient": common.HexToHash("0x01"),
			},
		},
		{
			name:     "unknown immutable name",
			contract: "FeeVault",
			immutables: map[string]common.Hash{
				"recipient": common.HexToHash("0x01"),
				"threshold": common.HexToHash("0x02"),
				"bogus":     common.HexToHash("0x03"),
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Construct(provider, c.contract, c.immutables)
			require.Error(t, err)
		})
	}
}

func TestConstructRejectsOutOfBoundsReference(t *testing.T) {
	provider := MapProvider{
		"Broken": {
			DeployedBytecode: make([]byte, 16),
			ImmutableReferences: map[string][]Reference{
				"value": {{Start: 0, Length: 32}},
			},
		},
	}
	_, err := Construct(provider, "Broken", map[string]common.Hash{"value": {}})
	require.Error(t, err)
}

func TestMapProviderUnknownContract(t *testing.T) {
	provider := MapProvider{}
	_, err := provider.DeployedBytecode("Missing")
	require.ErrorIs(t, err, ErrUnknownContract)
	_, err = provider.ImmutableReferences("Missing")
	require.ErrorIs(t, err, ErrUnknownContract)
}

func TestArtifactsDir(t *testing.T) {
	dir := t.TempDir()
	art := vaultArtifact()
	data, err := json.Marshal(art)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path.Join(dir, "FeeVault.json"), data, 0600))

	provider := NewArtifactsDir(dir)

	code, err := provider.DeployedBytecode("FeeVault")
	require.NoError(t, err)
	require.Equal(t, []byte(art.DeployedBytecode), code)

	refs, err := provider.ImmutableReferences("FeeVault")
	require.NoError(t, err)
	require.Len(t, refs, 2)

	_, err = provider.DeployedBytecode("Missing")
	require.ErrorIs(t, err, ErrUnknownContract)
}
