package brc20

import (
	"github.com/tokenized/brc20index/bitcoin"
)

// TransferState is the lifecycle stage of a TransferRecord.
type TransferState int

const (
	// TransferInscribed means the transfer inscription exists on the sender's output and has
	// not yet been spent forward.
	TransferInscribed TransferState = iota

	// TransferSent means the inscription has been spent to a receiver and the balance movement
	// is complete.
	TransferSent

	// TransferInvalid means the inscription was rejected at the inscribe phase; this core never
	// stores rejected transfers as TransferRecord values (see InvalidTxRegistry instead), but
	// the state exists for implementers who choose to keep a record anyway.
	TransferInvalid
)

// TransferRecord tracks a single BRC-20 transfer inscription from the moment it is inscribed
// through to the moment (if ever) it is spent to a receiver.
type TransferRecord struct {
	InscriptionTx Tx
	TransferTx    *Tx
	Script        Transfer
	Amount        Amount
	Sender        bitcoin.RawAddress
	Receiver      bitcoin.RawAddress
	State         TransferState
}
