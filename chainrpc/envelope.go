// Package chainrpc adapts a bitcoind RPC node and its raw transaction witness data into the
// indexer.Oracle interface: locating ordinal inscription envelopes, extracting their payload,
// and resolving transaction outputs to addresses.
package chainrpc

import (
	"bytes"

	"github.com/tokenized/brc20index/bitcoin"

	"github.com/pkg/errors"
)

// protocolTag is the literal pushed immediately after OP_FALSE OP_IF in every ordinal
// inscription envelope.
var protocolTag = []byte("ord")

// contentTypeFieldTag is the field tag (OP_1) that identifies the content-type push that
// follows it, per the ordinal inscription envelope format.
const contentTypeFieldTag = bitcoin.OP_1

// bodySeparator (OP_0) ends the envelope's field list and begins the raw body pushes.
const bodySeparator = bitcoin.OP_0

// Envelope is a decoded ordinal inscription: its declared content-type and body bytes.
type Envelope struct {
	ContentType string
	Body        []byte
}

// ErrNoEnvelope is returned by ParseEnvelope when none of the witness items contain a
// recognizable inscription envelope. This is the common case: the overwhelming majority of
// transaction witnesses carry no inscription at all.
var ErrNoEnvelope = errors.New("No inscription envelope found")

// ParseEnvelope scans a transaction input's witness stack for an ordinal inscription envelope
// (OP_FALSE OP_IF "ord" OP_1 <content-type> OP_0 <body...> OP_ENDIF) and returns the first one
// found. witness items are the raw witness stack elements, typically hex-decoded from the
// verbose RPC result's vin[].txinwitness.
func ParseEnvelope(witness [][]byte) (*Envelope, error) {
	for _, item := range witness {
		if env, ok := parseEnvelopeScript(item); ok {
			return env, nil
		}
	}

	return nil, ErrNoEnvelope
}

// parseEnvelopeScript attempts to read a single witness item as a script and find the envelope
// pattern inside it. It tokenizes with bitcoin.ParseScriptItems, then matches the envelope
// shape positionally rather than erroring on anything unexpected.
func parseEnvelopeScript(script []byte) (*Envelope, bool) {
	items, err := bitcoin.ParseScriptItems(bytes.NewReader(script), -1)
	if err != nil {
		return nil, false
	}

	for i := 0; i+4 < len(items); i++ {
		if !isOpCode(items[i], bitcoin.OP_FALSE) {
			continue
		}
		if !isOpCode(items[i+1], bitcoin.OP_IF) {
			continue
		}
		if !isPushDataEqual(items[i+2], protocolTag) {
			continue
		}
		if !isOpCode(items[i+3], contentTypeFieldTag) {
			continue
		}

		contentTypeItem := items[i+4]
		if contentTypeItem.Type != bitcoin.ScriptItemTypePushData {
			continue
		}

		pos := i + 5
		if pos >= len(items) || !isOpCode(items[pos], bodySeparator) {
			continue
		}
		pos++

		var body []byte
		for pos < len(items) {
			item := items[pos]
			if isOpCode(item, bitcoin.OP_ENDIF) {
				return &Envelope{
					ContentType: string(contentTypeItem.Data),
					Body:        body,
				}, true
			}

			if item.Type != bitcoin.ScriptItemTypePushData {
				break
			}

			body = append(body, item.Data...)
			pos++
		}
	}

	return nil, false
}

func isOpCode(item *bitcoin.ScriptItem, opCode byte) bool {
	return item.Type == bitcoin.ScriptItemTypeOpCode && item.OpCode == opCode
}

func isPushDataEqual(item *bitcoin.ScriptItem, data []byte) bool {
	return item.Type == bitcoin.ScriptItemTypePushData && bytes.Equal(item.Data, data)
}
