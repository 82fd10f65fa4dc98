package brc20

// ApplyDeploy validates and, if accepted, registers a new ticker from a deploy payload. On
// reject it records tx as invalid and leaves the registry untouched; it never returns a Go
// error, since a malformed or duplicate deploy is an expected outcome, not a failure of the
// validator.
func (idx *Index) ApplyDeploy(tx Tx, deploy *Deploy) Outcome {
	if len([]rune(deploy.Tick)) != 4 {
		outcome := Reject("Ticker symbol must be 4 characters long")
		idx.invalid.Add(tx, outcome.Reason)
		return outcome
	}

	if _, exists := idx.Ticker(deploy.Tick); exists {
		outcome := Reject("Ticker symbol already exists")
		idx.invalid.Add(tx, outcome.Reason)
		return outcome
	}

	decimals, err := ParseDecimals(deploy.Dec)
	if err != nil {
		outcome := Reject(err.Error())
		idx.invalid.Add(tx, outcome.Reason)
		return outcome
	}

	maxSupply, err := ParseAmount(deploy.Max, decimals)
	if err != nil {
		outcome := Reject(err.Error())
		idx.invalid.Add(tx, outcome.Reason)
		return outcome
	}
	if maxSupply == 0 {
		outcome := Reject("Max supply must be greater than 0")
		idx.invalid.Add(tx, outcome.Reason)
		return outcome
	}

	limit := maxSupply
	if len(deploy.Lim) > 0 && deploy.Lim != "0" {
		parsedLimit, err := ParseAmount(deploy.Lim, decimals)
		if err != nil {
			outcome := Reject(err.Error())
			idx.invalid.Add(tx, outcome.Reason)
			return outcome
		}
		if parsedLimit > maxSupply {
			outcome := Reject("Limit must be less than or equal to max supply")
			idx.invalid.Add(tx, outcome.Reason)
			return outcome
		}
		if parsedLimit > 0 {
			limit = parsedLimit
		}
	}

	idx.registerTicker(NewTicker(deploy.Tick, maxSupply, limit, decimals, tx))
	return Accept("")
}
