// Package bytecode resolves compiled contract bytecode by name from solc
// build artifacts, and simulates constructor execution for contracts whose
// immutable values are baked into the code at construction time.
package bytecode

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var (
	// ErrUnknownContract when no artifact exists for the requested name
	ErrUnknownContract = errors.New("unknown contract")
)

// Reference locates one occurrence of an immutable value inside deployed
// bytecode.
type Reference struct {
	Start  int `json:"start"`
	Length int `json:"length"`
}

// Artifact is the relevant slice of a compiler build artifact.
type Artifact struct {
	ContractName     string        `json:"contractName,omitempty"`
	DeployedBytecode hexutil.Bytes `json:"deployedBytecode"`
	// ImmutableReferences maps each immutable name to the code offsets
	// where its value must be spliced.
	ImmutableReferences map[string][]Reference `json:"immutableReferences,omitempty"`
}

// Provider returns compiled bytecode for a named contract. It is resolved
// synchronously at point of use; a missing contract is fatal for the build.
type Provider interface {
	DeployedBytecode(name string) ([]byte, error)
	ImmutableReferences(name string) (map[string][]Reference, error)
}

// ArtifactsDir is a Provider backed by a directory of per-contract artifact
// files named <Contract>.json.
type ArtifactsDir struct {
	dir   string
	cache map[string]*Artifact
}

// NewArtifactsDir creates a provider reading artifacts from dir.
func NewArtifactsDir(dir string) *ArtifactsDir {
	return &ArtifactsDir{
		dir:   dir,
		cache: make(map[string]*Artifact),
	}
}

func (p *ArtifactsDir) artifact(name string) (*Artifact, error) {
	if art, ok := p.cache[name]; ok {
		return art, nil
	}
	data, err := os.ReadFile(filepath.Join(p.dir, name+".json"))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownContract, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact for %s: %w", name, err)
	}
	art := new(Artifact)
	if err := json.Unmarshal(data, art); err != nil {
		return nil, fmt.Errorf("failed to parse artifact for %s: %w", name, err)
	}
	p.cache[name] = art
	return art, nil
}

// DeployedBytecode returns the deployed bytecode of the named contract.
func (p *ArtifactsDir) DeployedBytecode(name string) ([]byte, error) {
	art, err := p.artifact(name)
	if err != nil {
		return nil, err
	}
	return art.DeployedBytecode, nil
}

// ImmutableReferences returns the immutable locations of the named contract.
func (p *ArtifactsDir) ImmutableReferences(name string) (map[string][]Reference, error) {
	art, err := p.artifact(name)
	if err != nil {
		return nil, err
	}
	return art.ImmutableReferences, nil
}

// MapProvider is an in-memory Provider, mainly for tests.
type MapProvider map[string]*Artifact

// DeployedBytecode returns the deployed bytecode of the named contract.
func (p MapProvider) DeployedBytecode(name string) ([]byte, error) {
	art, ok := p[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownContract, name)
	}
	return art.DeployedBytecode, nil
}

// ImmutableReferences returns the immutable locations of the named contract.
func (p MapProvider) ImmutableReferences(name string) (map[string][]Reference, error) {
	art, ok := p[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownContract, name)
	}
	return art.ImmutableReferences, nil
}

// Construct simulates running the constructor of the named contract: the
// deployed bytecode with every immutable value spliced in at its recorded
// offsets. Every immutable declared by the artifact must be given a value
// and every given value must correspond to a declared immutable.
func Construct(p Provider, name string, immutables map[string]common.Hash) ([]byte, error) {
	code, err := p.DeployedBytecode(name)
	if err != nil {
		return nil, err
	}
	refs, err := p.ImmutableReferences(name)
	if err != nil {
		return nil, err
	}

	out := make([]byte, len(code))
	copy(out, code)

	for immutable := range immutables {
		if _, ok := refs[immutable]; !ok {
			return nil, fmt.Errorf("contract %s has no immutable %q", name, immutable)
		}
	}
	for immutable, locations := range refs {
		value, ok := immutables[immutable]
		if !ok {
			return nil, fmt.Errorf("missing value for immutable %q of contract %s", immutable, name)
		}
		for _, loc := range locations {
			if loc.Length != common.HashLength {
				return nil, fmt.Errorf("immutable %q of contract %s has unsupported length %d", immutable, name, loc.Length)
			}
			if loc.Start < 0 || loc.Start+loc.Length > len(out) {
				return nil, fmt.Errorf("immutable %q of contract %s is out of code bounds", immutable, name)
			}
			copy(out[loc.Start:loc.Start+loc.Length], value[:])
		}
	}
	return out, nil
}
