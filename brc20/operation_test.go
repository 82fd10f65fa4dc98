package brc20

import (
	"context"
	"testing"
)

func TestParseOperationIgnorePaths(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
	}{
		{
			name:        "unsupported content type",
			contentType: "image/png",
			body:        `{"p":"brc-20","op":"mint","tick":"ordi","amt":"100"}`,
		},
		{
			name:        "invalid json",
			contentType: "application/json",
			body:        `{not json`,
		},
		{
			name:        "unrecognized op",
			contentType: "application/json",
			body:        `{"p":"brc-20","op":"burn","tick":"ordi","amt":"100"}`,
		},
		{
			name:        "missing op",
			contentType: "application/json",
			body:        `{"p":"brc-20","tick":"ordi","amt":"100"}`,
		},
		{
			name:        "empty body",
			contentType: "text/plain;charset=utf-8",
			body:        ``,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseOperation(context.Background(), tt.contentType, []byte(tt.body))
			if got.Kind != OpIgnore {
				t.Fatalf("ParseOperation(%q, %q).Kind = %s, want ignore", tt.contentType, tt.body, got.Kind)
			}
		})
	}
}

func TestParseOperationWrongProtocolFieldStillParses(t *testing.T) {
	// A mismatched "p" field only warrants a log warning, not rejection: the op is still
	// recognized and decoded.
	body := `{"p":"not-brc-20","op":"mint","tick":"ordi","amt":"100"}`

	got := ParseOperation(context.Background(), "application/json", []byte(body))
	if got.Kind != OpMint {
		t.Fatalf("Kind = %s, want mint", got.Kind)
	}
	if got.Mint.Amt != "100" {
		t.Errorf("Mint.Amt = %q, want 100", got.Mint.Amt)
	}
}

func TestParseOperationAcceptsEachKind(t *testing.T) {
	tests := []struct {
		name string
		body string
		want OpKind
	}{
		{
			name: "deploy",
			body: `{"p":"brc-20","op":"deploy","tick":"ordi","max":"21000000","lim":"1000","dec":"8"}`,
			want: OpDeploy,
		},
		{
			name: "mint",
			body: `{"p":"brc-20","op":"mint","tick":"ordi","amt":"1000"}`,
			want: OpMint,
		},
		{
			name: "transfer",
			body: `{"p":"brc-20","op":"transfer","tick":"ordi","amt":"500"}`,
			want: OpTransfer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseOperation(context.Background(), "application/json", []byte(tt.body))
			if got.Kind != tt.want {
				t.Fatalf("Kind = %s, want %s", got.Kind, tt.want)
			}
		})
	}
}

func TestParseOperationAcceptsPlainTextContentType(t *testing.T) {
	body := `{"p":"brc-20","op":"mint","tick":"ordi","amt":"100"}`

	got := ParseOperation(context.Background(), "text/plain;charset=utf-8", []byte(body))
	if got.Kind != OpMint {
		t.Fatalf("Kind = %s, want mint", got.Kind)
	}
}
