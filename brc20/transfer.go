package brc20

import (
	"github.com/tokenized/brc20index/bitcoin"
	"github.com/tokenized/brc20index/wire"
)

// ApplyTransferInscribe validates a freshly inscribed transfer payload and, if accepted,
// records it as an outstanding TransferRecord on the owner's balance. It never touches
// overall_balance: available balance is a derived quantity, so inscribing a transfer moves
// funds from available to transferable implicitly.
func (idx *Index) ApplyTransferInscribe(tx Tx, transfer *Transfer) Outcome {
	ticker, ok := idx.Ticker(transfer.Tick)
	if !ok {
		outcome := Reject("Ticker not found")
		idx.invalid.Add(tx, outcome.Reason)
		return outcome
	}

	amount, err := ParseAmount(transfer.Amt, ticker.Decimals)
	if err != nil {
		outcome := Reject(err.Error())
		idx.invalid.Add(tx, outcome.Reason)
		return outcome
	}

	balance, ok := ticker.Balance(tx.Owner)
	if !ok {
		outcome := Reject("User balance not found")
		idx.invalid.Add(tx, outcome.Reason)
		return outcome
	}

	if balance.Available() < amount {
		outcome := Reject("Transfer amount exceeds available balance")
		idx.invalid.Add(tx, outcome.Reason)
		return outcome
	}

	record := &TransferRecord{
		InscriptionTx: tx,
		Script:        *transfer,
		Amount:        amount,
		Sender:        tx.Owner,
		State:         TransferInscribed,
	}

	outpoint := tx.Outpoint()
	balance.AddTransferInscription(outpoint, record)
	idx.indexActiveTransfer(outpoint, ticker.Tick, tx.Owner)

	return Accept("")
}

// ApplyTransferSpend completes an outstanding transfer inscription when the output carrying it
// is spent. outpoint is the inscription's original outpoint (the spent input, not the new
// output); spendTx is the Bitcoin-side context of the spending transaction; receiver is the
// owner of the spending transaction's relevant output. If outpoint does not correspond to any
// outstanding transfer inscription, ok is false and the event is not a BRC-20 spend at all.
func (idx *Index) ApplyTransferSpend(outpoint wire.OutPoint, spendTx Tx, receiver bitcoin.RawAddress) (ok bool) {
	ref, found := idx.lookupActiveTransfer(outpoint)
	if !found {
		return false
	}

	ticker, ok := idx.Ticker(ref.tick)
	if !ok {
		// The ticker backing an indexed active transfer cannot disappear in this core's
		// single-writer model; defensively drop the dangling index entry.
		idx.unindexActiveTransfer(outpoint)
		return false
	}

	senderBalance, ok := ticker.Balance(ref.sender)
	if !ok {
		idx.unindexActiveTransfer(outpoint)
		return false
	}

	record, ok := senderBalance.RemoveTransferInscription(outpoint)
	if !ok {
		idx.unindexActiveTransfer(outpoint)
		return false
	}
	idx.unindexActiveTransfer(outpoint)

	if err := senderBalance.DecreaseOverall(record.Amount); err != nil {
		// Cannot happen under the sequential single-writer model: the inscribed amount was
		// already verified not to exceed available balance, and available <= overall.
		return false
	}

	receiverBalance := ticker.BalanceOrCreate(receiver)
	receiverBalance.IncreaseOverall(record.Amount)

	record.TransferTx = &spendTx
	record.Receiver = receiver
	record.State = TransferSent

	receiverBalance.AddTransferReceive(*record)
	senderBalance.AddTransferSend(*record)
	ticker.AddTransfer(*record)

	return true
}
