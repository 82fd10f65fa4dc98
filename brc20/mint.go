package brc20

// MintRecord is the applied, effective result of an accepted mint: the amount actually credited,
// which may be less than the payload's requested amt if the request would have overrun the
// ticker's max supply.
type MintRecord struct {
	Tick   string
	Amount Amount
	Tx     Tx
}

// ApplyMint validates and, if accepted, credits a mint to its owner's balance and the ticker's
// total_minted. A request that would push total_minted past max_supply is clamped to the
// remaining supply and accepted with an informational note, matching the original indexer's
// behavior; only a request against a ticker with zero remaining supply is rejected outright.
func (idx *Index) ApplyMint(tx Tx, mint *Mint) Outcome {
	ticker, ok := idx.Ticker(mint.Tick)
	if !ok {
		outcome := Reject("Ticker symbol does not exist")
		idx.invalid.Add(tx, outcome.Reason)
		return outcome
	}

	requested, err := ParseAmount(mint.Amt, ticker.Decimals)
	if err != nil {
		outcome := Reject(err.Error())
		idx.invalid.Add(tx, outcome.Reason)
		return outcome
	}

	if requested > ticker.Limit {
		outcome := Reject("Mint amount exceeds limit")
		idx.invalid.Add(tx, outcome.Reason)
		return outcome
	}

	effective := requested
	note := ""
	totalMinted := ticker.TotalMinted()
	if totalMinted+requested > ticker.MaxSupply {
		effective = ticker.MaxSupply - totalMinted
		if effective == 0 {
			outcome := Reject("Supply exhausted")
			idx.invalid.Add(tx, outcome.Reason)
			return outcome
		}
		note = "Total minted amount exceeds maximum. Adjusted mint amount."
	}

	record := MintRecord{Tick: ticker.Tick, Amount: effective, Tx: tx}
	ticker.AddMint(record)

	balance := ticker.BalanceOrCreate(tx.Owner)
	balance.IncreaseOverall(effective)
	balance.AddMint(record)

	return Accept(note)
}
