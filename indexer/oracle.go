// Package indexer implements the BRC-20 state-machine coordinator: it consumes an ordered
// inscription stream from an Oracle, classifies and validates each entry against a brc20.Index,
// and emits normalized records to a Sink.
package indexer

import (
	"context"

	"github.com/tokenized/brc20index/bitcoin"
	"github.com/tokenized/brc20index/wire"
)

// SatPoint identifies a satoshi within a transaction output: the output plus an offset within
// it in satoshis.
type SatPoint struct {
	Outpoint wire.OutPoint
	Offset   uint64
}

// InscriptionID identifies an inscription, conventionally "<reveal txid>i<index>".
type InscriptionID string

// Inscription is a single entry in the oracle's inscription stream: its location, identity,
// and decoded content.
type Inscription struct {
	ID          InscriptionID
	Location    SatPoint
	ContentType string
	Body        []byte
}

// TxInput is the subset of a transaction input this core needs: the outpoint it spends.
type TxInput struct {
	PrevOut wire.OutPoint
}

// TxOutput is the subset of a transaction output this core needs: its locking script.
type TxOutput struct {
	LockingScript bitcoin.Script
}

// RawTxInfo is the oracle's view of a transaction: identity, confirmation time, and enough of
// its inputs/outputs to derive ownership and detect transfer spends.
type RawTxInfo struct {
	TxID      bitcoin.Hash32
	BlockTime uint64
	Vin       []TxInput
	Vout      []TxOutput
}

// Oracle is the inbound boundary to the chain/inscription data source. Implementations may
// suspend on I/O; the indexer never calls an Oracle method concurrently with another.
type Oracle interface {
	// ListInscriptions returns the inscription stream in the oracle's native chain order.
	ListInscriptions(ctx context.Context) ([]Inscription, error)

	// GetRawTxInfo returns the transaction context needed to build a brc20.Tx. A missing or
	// unconfirmed transaction is reported via the returned error; the indexer converts that
	// into a per-event InvalidTx rather than aborting.
	GetRawTxInfo(ctx context.Context, txid bitcoin.Hash32) (*RawTxInfo, error)

	// AddressFromScript resolves a locking script to an address on net. An unresolvable script
	// (non-standard, unparseable) is reported via the returned error.
	AddressFromScript(script bitcoin.Script, net bitcoin.Network) (bitcoin.Address, error)
}
