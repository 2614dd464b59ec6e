// core/alphabet/alphabet_test.go
package alphabet

import (
	"errors"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	const s = "ACGUUGCA"
	cs, err := EncodeSeq(s)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeSeq(cs)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != s {
		t.Fatalf("round-trip mismatch: %q != %q", got, s)
	}
}

func TestCodeOrder(t *testing.T) {
	want := map[byte]uint8{'A': 0, 'C': 1, 'G': 2, 'U': 3}
	for b, c := range want {
		got, err := Encode(b)
		if err != nil {
			t.Fatalf("encode %q: %v", b, err)
		}
		if got != c {
			t.Errorf("Encode(%q) = %d, want %d", b, got, c)
		}
	}
}

func TestUnknownSymbol(t *testing.T) {
	_, err := EncodeSeq("ACGX")
	if err == nil {
		t.Fatal("expected error for X")
	}
	var use *UnknownSymbolError
	if !errors.As(err, &use) {
		t.Fatalf("want *UnknownSymbolError, got %T", err)
	}
	if use.Symbol != 'X' || use.Pos != 3 {
		t.Errorf("unexpected error detail: %+v", use)
	}
}

func TestThymineRejected(t *testing.T) {
	if err := Validate("ACGT"); err == nil {
		t.Fatal("DNA 'T' must not validate as RNA")
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize(" ac gu\t'A'\n"); got != "ACGUA" {
		t.Fatalf("Normalize = %q", got)
	}
	// Lowercase validates only after normalization.
	if err := Validate(Normalize("acgu")); err != nil {
		t.Fatalf("normalized lowercase should validate: %v", err)
	}
}

func TestDecodeOutOfRange(t *testing.T) {
	if _, err := Decode(4); err == nil {
		t.Fatal("expected error for code 4")
	}
}
