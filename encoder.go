package hufzip

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Encoder writes the codes of a CodeTable to a BitWriter.
type Encoder struct {
	table CodeTable
	out   teeBitWriter
	bits  uint64
}

// NewEncoder returns an Encoder that writes to w using the given table.  If
// trace is non-nil, every bit written is also recorded in it as '0' or '1'.
// w may be nil, in which case only the trace is produced.
func NewEncoder(table CodeTable, w BitWriter, trace *strings.Builder) *Encoder {
	return &Encoder{
		table: table,
		out:   teeBitWriter{w: w, trace: trace},
	}
}

// Bits returns the number of bits written so far.
func (e *Encoder) Bits() uint64 {
	return e.bits
}

// EncodeSymbol writes the code for one symbol.  Returns ErrProtocol if the
// symbol has no code.
func (e *Encoder) EncodeSymbol(sym Symbol) error {
	hc, found := e.table.Lookup(sym)
	if !found {
		return fmt.Errorf("%w: %v", ErrProtocol, sym)
	}
	for i := uint16(0); i < hc.Size; i++ {
		if err := e.out.WriteBool(hc.Bit(i) != 0); err != nil {
			return err
		}
	}
	e.bits += uint64(hc.Size)
	return nil
}

// Encode writes the code of every byte read from r, in order, followed by
// the code for EOF exactly once.
//
// Returns ErrProtocol if any byte, or EOF itself, has no code.  Read errors
// are reported as ErrInvalidInput.
//
func (e *Encoder) Encode(r io.Reader) error {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	for {
		b, err := br.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: reading source: %w", ErrInvalidInput, err)
		}
		if err := e.EncodeSymbol(Symbol(b)); err != nil {
			return err
		}
	}
	return e.EncodeSymbol(EOF)
}

// EncodeString encodes data with the given table, without producing an
// artifact, and returns the bits as a string of '0' and '1' characters.
//
// The table must contain EOF; a table built from a FrequencyTable analyzed
// with appendEOF=false fails here with ErrProtocol.
//
func EncodeString(data []byte, table CodeTable) (string, error) {
	var sb strings.Builder
	e := NewEncoder(table, nil, &sb)
	if err := e.Encode(bytes.NewReader(data)); err != nil {
		return "", err
	}
	return sb.String(), nil
}
