package indexer

import "context"

// Collection is the single logical collection every accepted operation is written to.
const Collection = "brcs"

// Document is the normalized record emitted for every accepted operation. Fields are preserved
// verbatim from the inscription payload; Max/Lim/Dec only apply to deploys and Amt only to
// mints and transfers.
type Document struct {
	P    string `json:"p"`
	Op   string `json:"op"`
	Tick string `json:"tick"`
	Max  string `json:"max,omitempty"`
	Lim  string `json:"lim,omitempty"`
	Dec  string `json:"dec,omitempty"`
	Amt  string `json:"amt,omitempty"`
}

// Sink is the outbound boundary to the document store. It is write-only from this core's
// perspective: the core never reads a document back.
type Sink interface {
	Insert(ctx context.Context, collection string, key string, document Document) error
}

// NoopSink discards every document. Useful for tests and for running the indexer without a
// configured document store.
type NoopSink struct{}

// Insert implements Sink.
func (NoopSink) Insert(ctx context.Context, collection string, key string, document Document) error {
	return nil
}
