package hufzip

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// Decoder walks a Tree one bit at a time and emits the symbols it reaches.
type Decoder struct {
	tree   *Tree
	in     BitReader
	bits   uint64
	nbytes uint64
}

// NewDecoder returns a Decoder that reads bits from r and walks t.
func NewDecoder(t *Tree, r BitReader) *Decoder {
	return &Decoder{tree: t, in: r}
}

// Bits returns the number of bits consumed so far.
func (d *Decoder) Bits() uint64 {
	return d.bits
}

// Len returns the number of bytes decoded so far.
func (d *Decoder) Len() uint64 {
	return d.nbytes
}

// DecodeSymbol consumes bits until a leaf is reached and returns its symbol.
//
// Returns ErrTruncatedStream if the bit source ends first, and
// ErrCorruptStream if a bit selects a child that does not exist.
//
func (d *Decoder) DecodeSymbol() (Symbol, error) {
	cursor := d.tree.Root()
	if cursor == NoNode {
		return InternalSymbol, fmt.Errorf("hufzip: decoding with a released tree")
	}
	for {
		b, err := d.in.ReadBool()
		if err != nil {
			return InternalSymbol, d.readError(err)
		}
		d.bits++

		var bit uint
		if b {
			bit = 1
		}
		cursor = d.tree.Child(cursor, bit)
		if cursor == NoNode {
			return InternalSymbol, fmt.Errorf("%w: no branch for bit %d after %d bits", ErrCorruptStream, bit, d.bits)
		}
		if d.tree.IsLeaf(cursor) {
			return d.tree.Symbol(cursor), nil
		}
	}
}

func (d *Decoder) readError(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: after %d bits and %d bytes", ErrTruncatedStream, d.bits, d.nbytes)
	}
	return err
}

// Decode writes every decoded byte to w until the EOF symbol is reached.
// Bits that follow EOF are left unread and count as padding.
//
// Returns ErrTruncatedStream if the bit source ends before EOF.  Bytes
// written to w before such an error are not a valid result.
//
func (d *Decoder) Decode(w io.ByteWriter) error {
	for {
		sym, err := d.DecodeSymbol()
		if err != nil {
			return err
		}
		if sym == EOF {
			return nil
		}
		if !sym.IsByte() {
			return fmt.Errorf("%w: leaf holds %v", ErrCorruptStream, sym)
		}
		if err := w.WriteByte(sym.Byte()); err != nil {
			return err
		}
		d.nbytes++
	}
}

// DecodeString decodes a string of '0' and '1' characters, as produced by
// EncodeString, without reading or writing an artifact.
func DecodeString(bits string, t *Tree) ([]byte, error) {
	var buf bytes.Buffer
	d := NewDecoder(t, &digitReader{s: bits})
	if err := d.Decode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
