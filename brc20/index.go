package brc20

import (
	"strings"

	"github.com/tokenized/brc20index/bitcoin"
	"github.com/tokenized/brc20index/wire"
)

// activeTransferRef is the global secondary index entry: given an outpoint, it locates which
// ticker and sender own the outstanding TransferRecord without scanning every ticker's
// balances, per the spec's design note on accelerating spend-phase lookup.
type activeTransferRef struct {
	tick   string
	sender bitcoin.RawAddress
}

// Index is the top-level BRC-20 registry: every ticker, the invalid-tx registry, and the
// global active-transfer secondary index. It is the only writer to tickers and balances; all
// mutation is synchronous and sequential, matching the single-threaded state-machine
// discipline the indexer enforces.
type Index struct {
	tickers map[string]*Ticker
	invalid *InvalidTxRegistry

	activeTransfers map[wire.OutPoint]activeTransferRef
}

// NewIndex returns an empty registry.
func NewIndex() *Index {
	return &Index{
		tickers:         make(map[string]*Ticker),
		invalid:         NewInvalidTxRegistry(),
		activeTransfers: make(map[wire.OutPoint]activeTransferRef),
	}
}

// normalizeTick lowercases a tick for keying and comparison; tick is otherwise case-sensitive
// in its original inscribed form, which deploy.go preserves on the Ticker and Deploy record.
func normalizeTick(tick string) string {
	return strings.ToLower(tick)
}

// Ticker looks up a ticker by its (case-insensitive) tick.
func (idx *Index) Ticker(tick string) (*Ticker, bool) {
	t, ok := idx.tickers[normalizeTick(tick)]
	return t, ok
}

// Tickers returns every registered ticker, keyed by lowercase tick.
func (idx *Index) Tickers() map[string]*Ticker {
	return idx.tickers
}

// InvalidTxs returns the invalid-tx registry.
func (idx *Index) InvalidTxs() *InvalidTxRegistry {
	return idx.invalid
}

// registerTicker inserts a newly deployed ticker. Callers must have already validated that the
// tick is not registered.
func (idx *Index) registerTicker(t *Ticker) {
	idx.tickers[normalizeTick(t.Tick)] = t
}

// lookupActiveTransfer resolves the ticker and sender owning an outstanding transfer
// inscription at outpoint, via the global secondary index.
func (idx *Index) lookupActiveTransfer(outpoint wire.OutPoint) (activeTransferRef, bool) {
	ref, ok := idx.activeTransfers[outpoint]
	return ref, ok
}

func (idx *Index) indexActiveTransfer(outpoint wire.OutPoint, tick string, sender bitcoin.RawAddress) {
	idx.activeTransfers[outpoint] = activeTransferRef{tick: normalizeTick(tick), sender: sender}
}

func (idx *Index) unindexActiveTransfer(outpoint wire.OutPoint) {
	delete(idx.activeTransfers, outpoint)
}
