package brc20

import (
	"github.com/tokenized/brc20index/bitcoin"
	"github.com/tokenized/brc20index/wire"

	"github.com/pkg/errors"
)

// ErrMissingBlockTime is returned by NewTx when the oracle did not supply a block time for the
// transaction. A transaction without a block time (still in the mempool) cannot be ordered
// against the rest of the inscription stream, so it is not usable as a Brc20Tx.
var ErrMissingBlockTime = errors.New("Blocktime not found in raw transaction result")

// Tx is the Bitcoin-side context of an inscription event. It is immutable once constructed.
type Tx struct {
	TxID      bitcoin.Hash32
	Vout      uint32
	BlockTime uint64
	Owner     bitcoin.RawAddress
	Inputs    []wire.OutPoint
}

// Outpoint returns the (txid, vout) pair identifying the output this inscription sits on.
func (tx Tx) Outpoint() wire.OutPoint {
	return wire.OutPoint{Hash: tx.TxID, Index: tx.Vout}
}

// NewTx builds a Tx from the components an oracle supplies. blockTime of zero is treated as
// "not yet confirmed" and rejected, matching the original indexer's requirement that an
// inscription event have a block time before it can be ordered into the indexed state.
func NewTx(txid bitcoin.Hash32, vout uint32, blockTime uint64, owner bitcoin.RawAddress, inputs []wire.OutPoint) (Tx, error) {
	if blockTime == 0 {
		return Tx{}, ErrMissingBlockTime
	}

	return Tx{
		TxID:      txid,
		Vout:      vout,
		BlockTime: blockTime,
		Owner:     owner,
		Inputs:    inputs,
	}, nil
}
