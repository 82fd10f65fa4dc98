package chainrpc

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/tokenized/brc20index/bitcoin"
	"github.com/tokenized/brc20index/indexer"
	"github.com/tokenized/brc20index/logger"
	"github.com/tokenized/brc20index/rpcnode"
	"github.com/tokenized/brc20index/wire"

	"github.com/pkg/errors"
)

// SubSystem is used by the logger package.
const SubSystem = "ChainRPC"

// Oracle implements indexer.Oracle over a bitcoind RPC connection, scanning a fixed block range
// for ordinal inscription envelopes in transaction input witnesses.
type Oracle struct {
	node        *rpcnode.RPCNode
	network     bitcoin.Network
	startHeight int64
	endHeight   int64
}

// NewOracle returns an Oracle that scans blocks [startHeight, endHeight] (inclusive) of node for
// inscriptions. endHeight of -1 means "scan through the current chain tip at call time".
func NewOracle(node *rpcnode.RPCNode, network bitcoin.Network, startHeight, endHeight int64) *Oracle {
	return &Oracle{
		node:        node,
		network:     network,
		startHeight: startHeight,
		endHeight:   endHeight,
	}
}

// ListInscriptions implements indexer.Oracle. It scans the configured block range in order,
// fetching each transaction's raw info once and checking every input's witness for an
// inscription envelope. A transaction with more than one candidate envelope is not expected
// under the single-reveal-per-transaction convention this indexer targets; only the first
// input carrying an envelope is used.
func (o *Oracle) ListInscriptions(ctx context.Context) ([]indexer.Inscription, error) {
	ctx = logger.ContextWithLogSubSystem(ctx, SubSystem)

	endHeight := o.endHeight
	if endHeight < 0 {
		tip, err := o.node.GetBlockCount(ctx)
		if err != nil {
			return nil, errors.Wrap(wrapSystemic(err), "get block count")
		}
		endHeight = tip
	}

	var inscriptions []indexer.Inscription

	for height := o.startHeight; height <= endHeight; height++ {
		txids, err := o.node.GetBlockTxIDs(ctx, height)
		if err != nil {
			return nil, errors.Wrap(wrapSystemic(err), fmt.Sprintf("get block %d txids", height))
		}

		for _, txid := range txids {
			found, err := o.listInscriptionsInTx(ctx, *txid)
			if err != nil {
				return nil, errors.Wrap(err, fmt.Sprintf("scan tx %s", txid))
			}
			inscriptions = append(inscriptions, found...)
		}
	}

	return inscriptions, nil
}

func (o *Oracle) listInscriptionsInTx(ctx context.Context, txid bitcoin.Hash32) ([]indexer.Inscription, error) {
	raw, err := o.node.GetRawTxInfo(ctx, &txid)
	if err != nil {
		if errors.Cause(err) == rpcnode.ErrNotSeen {
			logger.Verbose(ctx, "Skipping tx %s while scanning for inscriptions, not seen : %s", txid, err)
			return nil, nil
		}
		return nil, wrapSystemic(err)
	}

	for _, vin := range raw.Vin {
		if len(vin.Witness) == 0 {
			continue
		}

		witness := make([][]byte, len(vin.Witness))
		for i, item := range vin.Witness {
			data, err := hex.DecodeString(item)
			if err != nil {
				continue
			}
			witness[i] = data
		}

		envelope, err := ParseEnvelope(witness)
		if err != nil {
			continue
		}

		// By ordinal convention a reveal transaction's inscription is carried on its first
		// output; a transaction may carry more than one inscription in principle, but this
		// indexer only targets single-inscription reveals.
		if len(raw.Vout) == 0 {
			continue
		}

		id := indexer.InscriptionID(fmt.Sprintf("%si0", txid.String()))
		return []indexer.Inscription{{
			ID:          id,
			Location:    indexer.SatPoint{Outpoint: wire.OutPoint{Hash: txid, Index: 0}},
			ContentType: envelope.ContentType,
			Body:        envelope.Body,
		}}, nil
	}

	return nil, nil
}

// GetRawTxInfo implements indexer.Oracle. A transaction the node has no record of (pruned,
// never broadcast, or not yet confirmed) is reported as a plain error so the indexer records a
// per-event InvalidTx and continues; a transport-level RPC failure is wrapped as systemic so the
// indexer aborts the run instead of silently skipping data it simply could not fetch.
func (o *Oracle) GetRawTxInfo(ctx context.Context, txid bitcoin.Hash32) (*indexer.RawTxInfo, error) {
	ctx = logger.ContextWithLogSubSystem(ctx, SubSystem)

	raw, err := o.node.GetRawTxInfo(ctx, &txid)
	if err != nil {
		if errors.Cause(err) == rpcnode.ErrNotSeen {
			return nil, errors.Wrap(err, "transaction not seen by node")
		}
		return nil, wrapSystemic(err)
	}

	info := &indexer.RawTxInfo{
		TxID:      txid,
		BlockTime: uint64(raw.Blocktime),
	}

	for _, vin := range raw.Vin {
		if vin.Txid == "" {
			// Coinbase input, never a transfer spend.
			continue
		}

		prevTxID, err := bitcoin.NewHash32FromStr(vin.Txid)
		if err != nil {
			return nil, errors.Wrap(err, "parse vin txid")
		}

		info.Vin = append(info.Vin, indexer.TxInput{
			PrevOut: wire.OutPoint{Hash: *prevTxID, Index: vin.Vout},
		})
	}

	for _, vout := range raw.Vout {
		script, err := hex.DecodeString(vout.ScriptPubKey.Hex)
		if err != nil {
			return nil, errors.Wrap(err, "decode script pub key")
		}

		info.Vout = append(info.Vout, indexer.TxOutput{LockingScript: bitcoin.Script(script)})
	}

	return info, nil
}

// AddressFromScript implements indexer.Oracle.
func (o *Oracle) AddressFromScript(script bitcoin.Script, net bitcoin.Network) (bitcoin.Address, error) {
	return AddressFromScript(script, net)
}

// wrapSystemic marks err as a transport-level failure the indexer should abort on rather than
// record as a per-event InvalidTx.
func wrapSystemic(err error) error {
	return errors.Wrap(indexer.ErrOracleSystemic, err.Error())
}
