package hufzip

import (
	"fmt"
	"strings"

	"github.com/chronos-tachyon/assert"
)

// MaxCodeSize is the longest possible code, in bits.  A tree over the full
// alphabet has at most NumSymbols-1 levels below the root.
const MaxCodeSize = NumSymbols - 1

const codeWords = (MaxCodeSize + 63) / 64

// Code represents a sequence of bits.
type Code struct {
	// Size holds the number of valid bits.
	Size uint16

	// Bits holds the actual values of the bits.  Bit i of the sequence is
	// bit (i % 64) of Bits[i / 64], so the least significant bit of
	// Bits[0] is the first bit.
	Bits [codeWords]uint64
}

// MakeCode is a convenience function that constructs a Code from a string of
// '0' and '1' characters.  It panics on any other character.
func MakeCode(digits string) Code {
	var hc Code
	for i := 0; i < len(digits); i++ {
		switch digits[i] {
		case '0':
			hc = hc.Append(0)
		case '1':
			hc = hc.Append(1)
		default:
			panic(fmt.Sprintf("hufzip: invalid bit %q in code %q", digits[i], digits))
		}
	}
	return hc
}

// Bit returns the i'th bit of the code, starting from 0.
func (hc Code) Bit(i uint16) uint {
	assert.Assertf(i < hc.Size, "bit %d out of range [0, %d)", i, hc.Size)
	return uint(hc.Bits[i/64]>>(i%64)) & 1
}

// Append returns the code extended by one bit.
func (hc Code) Append(bit uint) Code {
	assert.Assertf(int(hc.Size) < MaxCodeSize, "code longer than %d bits", MaxCodeSize)
	if bit != 0 {
		hc.Bits[hc.Size/64] |= uint64(1) << (hc.Size % 64)
	}
	hc.Size++
	return hc
}

// HasPrefix returns true iff the first prefix.Size bits of this code are
// equal to prefix.
func (hc Code) HasPrefix(prefix Code) bool {
	if prefix.Size > hc.Size {
		return false
	}
	for i := uint16(0); i < prefix.Size; i++ {
		if hc.Bit(i) != prefix.Bit(i) {
			return false
		}
	}
	return true
}

// Digits returns the code as a string of '0' and '1' characters.
func (hc Code) Digits() string {
	var sb strings.Builder
	hc.appendDigits(&sb)
	return sb.String()
}

func (hc Code) appendDigits(sb *strings.Builder) {
	sb.Grow(int(hc.Size))
	for i := uint16(0); i < hc.Size; i++ {
		sb.WriteByte(byte('0' + hc.Bit(i)))
	}
}

// String returns the string representation of this Code.
func (hc Code) String() string {
	return "\"" + hc.Digits() + "\""
}

var _ fmt.Stringer = Code{}
