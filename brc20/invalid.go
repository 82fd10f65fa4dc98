package brc20

import (
	"github.com/tokenized/brc20index/bitcoin"
)

// InvalidTx records a rejected operation along with the reason it was rejected. It never
// appears more than once per txid: a later event for the same transaction replaces the earlier
// entry, matching the keyed-by-txid registry the spec describes.
type InvalidTx struct {
	Tx     Tx
	Reason string
}

// InvalidTxRegistry is the keyed-by-txid collection of rejected operations.
type InvalidTxRegistry struct {
	byTxID map[bitcoin.Hash32]InvalidTx
}

// NewInvalidTxRegistry returns an empty registry.
func NewInvalidTxRegistry() *InvalidTxRegistry {
	return &InvalidTxRegistry{
		byTxID: make(map[bitcoin.Hash32]InvalidTx),
	}
}

// Add records tx as invalid for reason.
func (r *InvalidTxRegistry) Add(tx Tx, reason string) {
	r.byTxID[tx.TxID] = InvalidTx{Tx: tx, Reason: reason}
}

// Get returns the invalid record for txid, if any.
func (r *InvalidTxRegistry) Get(txid bitcoin.Hash32) (InvalidTx, bool) {
	entry, ok := r.byTxID[txid]
	return entry, ok
}

// Len returns the number of invalid transactions recorded.
func (r *InvalidTxRegistry) Len() int {
	return len(r.byTxID)
}

// All returns every invalid transaction recorded, in no particular order.
func (r *InvalidTxRegistry) All() []InvalidTx {
	result := make([]InvalidTx, 0, len(r.byTxID))
	for _, entry := range r.byTxID {
		result = append(result, entry)
	}
	return result
}
