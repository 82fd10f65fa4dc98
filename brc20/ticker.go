package brc20

import (
	"context"
	"encoding/hex"

	"github.com/tokenized/brc20index/bitcoin"
	"github.com/tokenized/brc20index/logger"
)

// addressKey returns a canonical map key for a RawAddress. RawAddress itself is not comparable
// (it holds a []byte), so balances are keyed by the hex encoding of its byte representation,
// which already includes the script-type prefix and is therefore unique per address.
func addressKey(ra bitcoin.RawAddress) string {
	return hex.EncodeToString(ra.Bytes())
}

// Ticker is the per-ticker aggregate: deploy parameters, mint/transfer history, and the
// balances map owned exclusively by this ticker.
type Ticker struct {
	Tick      string
	MaxSupply Amount
	Limit     Amount
	Decimals  uint8
	DeployTx  Tx

	Mints     []MintRecord
	Transfers []TransferRecord

	balances map[string]*UserBalance
}

// NewTicker creates a Ticker from validated deploy parameters. Callers (the deploy validator)
// are responsible for keying the registry by lowercase tick.
func NewTicker(tick string, maxSupply, limit Amount, decimals uint8, deployTx Tx) *Ticker {
	return &Ticker{
		Tick:      tick,
		MaxSupply: maxSupply,
		Limit:     limit,
		Decimals:  decimals,
		DeployTx:  deployTx,
		balances:  make(map[string]*UserBalance),
	}
}

// TotalMinted is the sum of all accepted (effective, post-clamp) mint amounts for this ticker.
func (t *Ticker) TotalMinted() Amount {
	var total Amount
	for _, mint := range t.Mints {
		total += mint.Amount
	}
	return total
}

// Balance returns the UserBalance for address, or nil if the address has never held this
// ticker.
func (t *Ticker) Balance(address bitcoin.RawAddress) (*UserBalance, bool) {
	ub, ok := t.balances[addressKey(address)]
	return ub, ok
}

// BalanceOrCreate returns the UserBalance for address, creating an empty one if none exists.
func (t *Ticker) BalanceOrCreate(address bitcoin.RawAddress) *UserBalance {
	key := addressKey(address)
	ub, ok := t.balances[key]
	if !ok {
		ub = NewUserBalance()
		t.balances[key] = ub
	}
	return ub
}

// Balances returns every address currently holding a balance of this ticker, for iteration by
// callers that need to scan the whole set (tests, debug dumps).
func (t *Ticker) Balances() map[string]*UserBalance {
	return t.balances
}

// AddMint appends a mint record to the ticker's mint history. It does not touch any
// UserBalance; callers apply the corresponding balance increase separately, matching the
// original's two-step add_mint (ticker history, then owner balance).
func (t *Ticker) AddMint(mint MintRecord) {
	t.Mints = append(t.Mints, mint)
}

// AddTransfer appends a completed transfer record to the ticker's transfer history.
func (t *Ticker) AddTransfer(record TransferRecord) {
	t.Transfers = append(t.Transfers, record)
}

// LogState writes a structured, operational snapshot of the ticker's current aggregate state.
// This mirrors the original indexer's display_brc20_ticker debug dump, ported from println! to
// structured logging since this core never writes operational output to stdout directly.
func (t *Ticker) LogState(ctx context.Context) {
	logger.Info(ctx, "Ticker %s : max_supply %d, limit %d, decimals %d, total_minted %d, holders %d",
		t.Tick, t.MaxSupply, t.Limit, t.Decimals, t.TotalMinted(), len(t.balances))
}
