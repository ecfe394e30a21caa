package genesis

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/hoanguyenkh/optimism/log"
	"github.com/hoanguyenkh/optimism/predeploys"
	"github.com/hoanguyenkh/optimism/state"
)

var (
	// ImplementationSlot is the EIP-1967 implementation pointer,
	// bytes32(uint256(keccak256('eip1967.proxy.implementation')) - 1)
	ImplementationSlot = common.HexToHash("0x360894a13ba1a3210667c828492db98dca3e2076cc3735a920a3ca505d382bbc")
	// AdminSlot is the EIP-1967 admin pointer,
	// bytes32(uint256(keccak256('eip1967.proxy.admin')) - 1)
	AdminSlot = common.HexToHash("0xb53127684a568b3173ae13b9f8a6016e243e63b6e8ee1178d6a717850b5d6103")
)

// proxyContractName is the logical name of the standard upgradeable proxy.
const proxyContractName = "Proxy"

// setProxies installs proxy code and pointer slots across the whole
// predeploy window, minus the exclusion set. Addresses with a registered
// descriptor additionally get their implementation slot pointed at the code
// namespace.
func (b *Builder) setProxies() error {
	proxyCode, err := b.provider.DeployedBytecode(proxyContractName)
	if err != nil {
		return fmt.Errorf("failed to get proxy bytecode: %w", err)
	}
	if len(proxyCode) == 0 {
		return fmt.Errorf("proxy bytecode is empty")
	}

	log.Infof("Setting %d proxies", predeploys.PredeployProxyCount)
	for i := uint16(0); i < predeploys.PredeployProxyCount; i++ {
		addr := predeploys.PredeployAddr(i)
		if predeploys.NotProxied(addr) {
			log.Debugf("Skipping proxy at %s", addr)
			continue
		}

		b.db.CreateAccount(addr)
		b.db.SetCode(addr, proxyCode)
		b.db.SetState(addr, AdminSlot, state.EncodeAddress(predeploys.ProxyAdminAddr))

		if _, ok := predeploys.IsDefined(addr); ok {
			impl, err := predeploys.ToCodeNamespace(addr)
			if err != nil {
				return err
			}
			b.db.SetState(addr, ImplementationSlot, state.EncodeAddress(impl))
		}
	}
	return nil
}
