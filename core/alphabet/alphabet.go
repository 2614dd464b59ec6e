// core/alphabet/alphabet.go
package alphabet

import (
	"fmt"
	"unicode"
)

// Size is the number of symbols in the RNA alphabet.
const Size = 4

// Symbols lists the alphabet in code order: Encode(Symbols[i]) == i.
const Symbols = "ACGU"

// codes maps a byte to its integer code, or -1 for anything outside
// the alphabet. Only uppercase symbols are valid; Normalize first.
var codes = func() [256]int16 {
	var t [256]int16
	for i := range t {
		t[i] = -1
	}
	for i := 0; i < len(Symbols); i++ {
		t[Symbols[i]] = int16(i)
	}
	return t
}()

// UnknownSymbolError reports a character outside the RNA alphabet.
// Pos is the 0-based offset within the offending sequence.
type UnknownSymbolError struct {
	Symbol byte
	Pos    int
}

func (e *UnknownSymbolError) Error() string {
	return fmt.Sprintf("unknown symbol %q at position %d; allowed: A C G U", e.Symbol, e.Pos)
}

// Normalize removes spaces/quotes and uppercases bases. It does not
// translate DNA: a 'T' survives normalization and fails validation.
func Normalize(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || r == '\'' || r == '"' {
			continue
		}
		out = append(out, unicode.ToUpper(r))
	}
	return string(out)
}

// Validate reports the first symbol of s outside the alphabet.
// It is the fail-fast ingestion check: batch construction assumes
// every sequence already passed it.
func Validate(s string) error {
	for i := 0; i < len(s); i++ {
		if codes[s[i]] < 0 {
			return &UnknownSymbolError{Symbol: s[i], Pos: i}
		}
	}
	return nil
}

// Encode maps one symbol to its code.
func Encode(b byte) (uint8, error) {
	c := codes[b]
	if c < 0 {
		return 0, &UnknownSymbolError{Symbol: b}
	}
	return uint8(c), nil
}

// EncodeSeq maps a whole sequence to codes.
func EncodeSeq(s string) ([]uint8, error) {
	out := make([]uint8, len(s))
	for i := 0; i < len(s); i++ {
		c := codes[s[i]]
		if c < 0 {
			return nil, &UnknownSymbolError{Symbol: s[i], Pos: i}
		}
		out[i] = uint8(c)
	}
	return out, nil
}

// Decode maps a code back to its symbol.
func Decode(c uint8) (byte, error) {
	if int(c) >= Size {
		return 0, fmt.Errorf("code %d out of range [0,%d)", c, Size)
	}
	return Symbols[c], nil
}

// DecodeSeq maps codes back to a sequence string.
func DecodeSeq(cs []uint8) (string, error) {
	out := make([]byte, len(cs))
	for i, c := range cs {
		b, err := Decode(c)
		if err != nil {
			return "", err
		}
		out[i] = b
	}
	return string(out), nil
}
