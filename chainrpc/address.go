package chainrpc

import (
	"github.com/tokenized/brc20index/bitcoin"
)

// AddressFromScript resolves a locking script to an address on net. It is a thin wrapper over
// bitcoin.AddressFromLockingScript, used by Oracle.AddressFromScript; errors from
// bitcoin.AddressFromLockingScript are returned unchanged.
func AddressFromScript(script bitcoin.Script, net bitcoin.Network) (bitcoin.Address, error) {
	return bitcoin.AddressFromLockingScript(script, net)
}
