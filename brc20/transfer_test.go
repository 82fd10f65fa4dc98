package brc20

import "testing"

func TestTransferInscribeAndSpend(t *testing.T) {
	idx := NewIndex()
	deployTestTicker(t, idx, "ordi", "21000000", "1000")

	alice := testAddress(t, 0x01)
	bob := testAddress(t, 0x02)

	mintTx := testTx(t, 0x01, 0, 100, alice)
	if outcome := idx.ApplyMint(mintTx, &Mint{Tick: "ordi", Amt: "1000"}); !outcome.Accepted {
		t.Fatalf("mint setup failed : %s", outcome.Reason)
	}

	inscribeTx := testTx(t, 0x02, 0, 101, alice)
	outcome := idx.ApplyTransferInscribe(inscribeTx, &Transfer{Tick: "ordi", Amt: "400"})
	if !outcome.Accepted {
		t.Fatalf("expected accept : %s", outcome.Reason)
	}

	ticker, _ := idx.Ticker("ordi")
	aliceBalance, _ := ticker.Balance(alice)
	if got := aliceBalance.Available(); got != 600 {
		t.Errorf("alice available = %d, want 600", got)
	}
	if got := aliceBalance.Transferable(); got != 400 {
		t.Errorf("alice transferable = %d, want 400", got)
	}

	spendTx := testTx(t, 0x03, 0, 102, bob)
	ok := idx.ApplyTransferSpend(inscribeTx.Outpoint(), spendTx, bob)
	if !ok {
		t.Fatal("expected spend to be recognized")
	}

	if aliceBalance.Overall != 600 {
		t.Errorf("alice overall = %d, want 600", aliceBalance.Overall)
	}
	if len(aliceBalance.ActiveTransferInscriptions) != 0 {
		t.Errorf("alice should have no active transfers, has %d", len(aliceBalance.ActiveTransferInscriptions))
	}

	bobBalance, ok := ticker.Balance(bob)
	if !ok {
		t.Fatal("expected bob to have a balance")
	}
	if bobBalance.Overall != 400 {
		t.Errorf("bob overall = %d, want 400", bobBalance.Overall)
	}

	if len(ticker.Transfers) != 1 {
		t.Errorf("ticker transfer history length = %d, want 1", len(ticker.Transfers))
	}
}

func TestTransferInscribeWithoutBalance(t *testing.T) {
	idx := NewIndex()
	deployTestTicker(t, idx, "ordi", "21000000", "1000")

	owner := testAddress(t, 0x01)
	tx := testTx(t, 0x01, 0, 100, owner)

	outcome := idx.ApplyTransferInscribe(tx, &Transfer{Tick: "ordi", Amt: "1"})
	if outcome.Accepted {
		t.Fatal("expected reject")
	}
	if outcome.Reason != "User balance not found" {
		t.Errorf("reason = %q, want %q", outcome.Reason, "User balance not found")
	}
}

func TestTransferInscribeExactlyAvailable(t *testing.T) {
	idx := NewIndex()
	deployTestTicker(t, idx, "ordi", "21000000", "1000")

	owner := testAddress(t, 0x01)
	mintTx := testTx(t, 0x01, 0, 100, owner)
	idx.ApplyMint(mintTx, &Mint{Tick: "ordi", Amt: "100"})

	inscribeTx := testTx(t, 0x02, 0, 101, owner)
	outcome := idx.ApplyTransferInscribe(inscribeTx, &Transfer{Tick: "ordi", Amt: "100"})
	if !outcome.Accepted {
		t.Fatalf("expected accept for transfer of exactly available balance : %s", outcome.Reason)
	}
}

func TestTransferInscribeOverAvailable(t *testing.T) {
	idx := NewIndex()
	deployTestTicker(t, idx, "ordi", "21000000", "1000")

	owner := testAddress(t, 0x01)
	mintTx := testTx(t, 0x01, 0, 100, owner)
	idx.ApplyMint(mintTx, &Mint{Tick: "ordi", Amt: "100"})

	inscribeTx := testTx(t, 0x02, 0, 101, owner)
	outcome := idx.ApplyTransferInscribe(inscribeTx, &Transfer{Tick: "ordi", Amt: "101"})
	if outcome.Accepted {
		t.Fatal("expected reject")
	}

	ticker, _ := idx.Ticker("ordi")
	balance, _ := ticker.Balance(owner)
	if balance.Overall != 100 {
		t.Errorf("overall = %d, want unchanged 100", balance.Overall)
	}
}

func TestApplyTransferSpendIgnoresUnknownOutpoint(t *testing.T) {
	idx := NewIndex()
	owner := testAddress(t, 0x01)
	spendTx := testTx(t, 0x01, 0, 100, owner)

	unknown := testTx(t, 0x99, 0, 1, owner).Outpoint()
	if ok := idx.ApplyTransferSpend(unknown, spendTx, owner); ok {
		t.Fatal("expected spend of unknown outpoint to be ignored")
	}
}
