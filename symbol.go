package hufzip

import (
	"strconv"
)

// Symbol represents a decodable unit: a byte value in the range 0..255, or
// one of the reserved sentinels EOF and InternalSymbol.
type Symbol int32

const (
	// EOF is the synthetic symbol marking the logical end of the payload.
	EOF = Symbol(256)

	// InternalSymbol tags a tree node that is not a leaf.  It never
	// appears in a FrequencyTable or a CodeTable.
	InternalSymbol = Symbol(-1)

	// MaxSymbol is the largest symbol that may appear in a FrequencyTable.
	MaxSymbol = EOF

	// NumSymbols is the size of the alphabet, EOF included.
	NumSymbols = int(MaxSymbol) + 1
)

// IsByte returns true iff this Symbol stands for a literal byte value.
func (sym Symbol) IsByte() bool {
	return sym >= 0 && sym <= 255
}

// IsValid returns true iff this Symbol may appear in a FrequencyTable.
func (sym Symbol) IsValid() bool {
	return sym >= 0 && sym <= MaxSymbol
}

// Byte returns the byte value of this Symbol.  It panics for sentinels.
func (sym Symbol) Byte() byte {
	if !sym.IsByte() {
		panic("hufzip: Byte called on sentinel symbol " + sym.String())
	}
	return byte(sym)
}

// String returns a programmer-readable name for this Symbol.
func (sym Symbol) String() string {
	switch {
	case sym == EOF:
		return "EOF"
	case sym == InternalSymbol:
		return "INTERNAL"
	case sym >= 0x20 && sym < 0x7f:
		return strconv.QuoteRune(rune(sym))
	case sym.IsByte():
		return "0x" + hex2(byte(sym))
	default:
		return "Symbol(" + strconv.FormatInt(int64(sym), 10) + ")"
	}
}
