package brc20

import (
	"context"
	"unicode/utf8"

	"github.com/tokenized/brc20index/json"
	"github.com/tokenized/brc20index/logger"
)

// SubSystem is used by the logger package.
const SubSystem = "BRC20"

// OpKind identifies which of the three BRC-20 operations a parsed payload is, or that it isn't
// one of them at all.
type OpKind int

const (
	OpIgnore OpKind = iota
	OpDeploy
	OpMint
	OpTransfer
)

func (k OpKind) String() string {
	switch k {
	case OpDeploy:
		return "deploy"
	case OpMint:
		return "mint"
	case OpTransfer:
		return "transfer"
	default:
		return "ignore"
	}
}

// acceptedContentTypes are the only inscription content-types this indexer will attempt to
// parse as a BRC-20 operation. Everything else is common, unrelated inscription content and is
// silently ignored.
var acceptedContentTypes = map[string]bool{
	"application/json":         true,
	"text/plain;charset=utf-8": true,
}

// protocolField is the envelope field every BRC-20 operation payload carries.
type protocolField struct {
	P string `json:"p"`
}

// Deploy is the payload shape of a deploy operation, with every numeric field preserved as the
// original decimal string so the document sink can re-emit it verbatim.
type Deploy struct {
	P    string `json:"p"`
	Op   string `json:"op"`
	Tick string `json:"tick"`
	Max  string `json:"max"`
	Lim  string `json:"lim,omitempty"`
	Dec  string `json:"dec,omitempty"`
}

// Mint is the payload shape of a mint operation.
type Mint struct {
	P    string `json:"p"`
	Op   string `json:"op"`
	Tick string `json:"tick"`
	Amt  string `json:"amt"`
}

// Transfer is the payload shape of a transfer operation.
type Transfer struct {
	P    string `json:"p"`
	Op   string `json:"op"`
	Tick string `json:"tick"`
	Amt  string `json:"amt"`
}

// Operation is the tagged union of the three possible BRC-20 payload kinds. Exactly one of the
// pointer fields is non-nil unless Kind is OpIgnore.
type Operation struct {
	Kind     OpKind
	Deploy   *Deploy
	Mint     *Mint
	Transfer *Transfer
}

type opStub struct {
	Op string `json:"op"`
}

// ParseOperation decodes an inscription body into an Operation. A content-type that isn't one
// of the two BRC-20 text encodings, invalid UTF-8/JSON, or an unrecognized op field all result
// in OpIgnore — none of these are errors, since the overwhelming majority of inscriptions on
// chain are not BRC-20 at all.
func ParseOperation(ctx context.Context, contentType string, body []byte) Operation {
	if !acceptedContentTypes[contentType] {
		return Operation{Kind: OpIgnore}
	}

	if !utf8.Valid(body) {
		return Operation{Kind: OpIgnore}
	}

	var proto protocolField
	if err := json.Unmarshal(body, &proto); err != nil {
		return Operation{Kind: OpIgnore}
	}

	if proto.P != "brc-20" {
		logger.Warn(ctx, "Inscription protocol field is not brc-20 : %q", proto.P)
	}

	var stub opStub
	if err := json.Unmarshal(body, &stub); err != nil {
		return Operation{Kind: OpIgnore}
	}

	switch stub.Op {
	case "deploy":
		var deploy Deploy
		if err := json.Unmarshal(body, &deploy); err != nil {
			return Operation{Kind: OpIgnore}
		}
		return Operation{Kind: OpDeploy, Deploy: &deploy}

	case "mint":
		var mint Mint
		if err := json.Unmarshal(body, &mint); err != nil {
			return Operation{Kind: OpIgnore}
		}
		return Operation{Kind: OpMint, Mint: &mint}

	case "transfer":
		var transfer Transfer
		if err := json.Unmarshal(body, &transfer); err != nil {
			return Operation{Kind: OpIgnore}
		}
		return Operation{Kind: OpTransfer, Transfer: &transfer}

	default:
		return Operation{Kind: OpIgnore}
	}
}
