package brc20

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-test/deep"
)

type event struct {
	kind      OpKind
	txidSeed  byte
	vout      uint32
	blockTime uint64
	ownerSeed byte
	deploy    *Deploy
	mint      *Mint
	transfer  *Transfer
}

func replay(t *testing.T, events []event) *Index {
	t.Helper()
	idx := NewIndex()

	for _, e := range events {
		owner := testAddress(t, e.ownerSeed)
		tx := testTx(t, e.txidSeed, e.vout, e.blockTime, owner)

		switch e.kind {
		case OpDeploy:
			idx.ApplyDeploy(tx, e.deploy)
		case OpMint:
			idx.ApplyMint(tx, e.mint)
		case OpTransfer:
			idx.ApplyTransferInscribe(tx, e.transfer)
		}
	}

	return idx
}

func TestReplayDeterminism(t *testing.T) {
	events := []event{
		{kind: OpDeploy, txidSeed: 0x01, ownerSeed: 0xa0, blockTime: 1, deploy: &Deploy{Tick: "ordi", Max: "21000000", Lim: "1000", Dec: "8"}},
		{kind: OpMint, txidSeed: 0x02, ownerSeed: 0xa1, blockTime: 2, mint: &Mint{Tick: "ordi", Amt: "1000"}},
		{kind: OpMint, txidSeed: 0x03, ownerSeed: 0xa1, blockTime: 3, mint: &Mint{Tick: "ordi", Amt: "1000"}},
		{kind: OpTransfer, txidSeed: 0x04, ownerSeed: 0xa1, blockTime: 4, transfer: &Transfer{Tick: "ordi", Amt: "500"}},
		{kind: OpDeploy, txidSeed: 0x05, ownerSeed: 0xa2, blockTime: 5, deploy: &Deploy{Tick: "piza", Max: "1000"}},
	}

	first := replay(t, events)
	second := replay(t, events)

	for tick, firstTicker := range first.Tickers() {
		secondTicker, ok := second.Tickers()[tick]
		if !ok {
			t.Fatalf("ticker %s missing from second replay", tick)
		}

		if diff := deep.Equal(firstTicker.Balances(), secondTicker.Balances()); diff != nil {
			t.Errorf("ticker %s balances diverged : %v\nfirst : %s\nsecond : %s", tick, diff,
				spew.Sdump(firstTicker.Balances()), spew.Sdump(secondTicker.Balances()))
		}
		if diff := deep.Equal(firstTicker.Mints, secondTicker.Mints); diff != nil {
			t.Errorf("ticker %s mints diverged : %v\nfirst : %s\nsecond : %s", tick, diff,
				spew.Sdump(firstTicker.Mints), spew.Sdump(secondTicker.Mints))
		}
		if diff := deep.Equal(firstTicker.Transfers, secondTicker.Transfers); diff != nil {
			t.Errorf("ticker %s transfers diverged : %v\nfirst : %s\nsecond : %s", tick, diff,
				spew.Sdump(firstTicker.Transfers), spew.Sdump(secondTicker.Transfers))
		}
	}

	if len(first.Tickers()) != len(second.Tickers()) {
		t.Errorf("ticker count diverged : %d vs %d", len(first.Tickers()), len(second.Tickers()))
	}

	if diff := deep.Equal(first.InvalidTxs().All(), second.InvalidTxs().All()); diff != nil {
		t.Errorf("invalid tx registry diverged : %v", diff)
	}
}

func TestInvariantsHoldAfterEventSequence(t *testing.T) {
	idx := NewIndex()
	owner := testAddress(t, 0x01)

	idx.ApplyDeploy(testTx(t, 0x01, 0, 1, owner), &Deploy{Tick: "ordi", Max: "1000", Lim: "1000"})
	idx.ApplyMint(testTx(t, 0x02, 0, 2, owner), &Mint{Tick: "ordi", Amt: "700"})
	idx.ApplyMint(testTx(t, 0x03, 0, 3, owner), &Mint{Tick: "ordi", Amt: "700"})

	ticker, ok := idx.Ticker("ordi")
	if !ok {
		t.Fatal("ticker not found")
	}

	if ticker.TotalMinted() > ticker.MaxSupply {
		t.Errorf("total_minted %d exceeds max_supply %d", ticker.TotalMinted(), ticker.MaxSupply)
	}

	balance, _ := ticker.Balance(owner)
	if got, want := balance.Overall, ticker.TotalMinted(); got != want {
		t.Errorf("owner overall %d should equal total minted %d (single minter, no transfers)", got, want)
	}

	if balance.Transferable() > balance.Overall {
		t.Errorf("transferable %d exceeds overall %d", balance.Transferable(), balance.Overall)
	}
}
