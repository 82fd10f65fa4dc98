package brc20

import (
	"testing"

	"github.com/tokenized/brc20index/bitcoin"
)

func testAddress(t *testing.T, seed byte) bitcoin.RawAddress {
	t.Helper()
	pkh := make([]byte, 20)
	for i := range pkh {
		pkh[i] = seed
	}
	ra, err := bitcoin.NewRawAddressPKH(pkh)
	if err != nil {
		t.Fatalf("build test address : %s", err)
	}
	return ra
}

func testTxID(t *testing.T, seed byte) bitcoin.Hash32 {
	t.Helper()
	b := make([]byte, 32)
	for i := range b {
		b[i] = seed
	}
	h, err := bitcoin.NewHash32(b)
	if err != nil {
		t.Fatalf("build test hash : %s", err)
	}
	return *h
}

func testTx(t *testing.T, txidSeed byte, vout uint32, blockTime uint64, owner bitcoin.RawAddress) Tx {
	t.Helper()
	tx, err := NewTx(testTxID(t, txidSeed), vout, blockTime, owner, nil)
	if err != nil {
		t.Fatalf("build test tx : %s", err)
	}
	return tx
}
