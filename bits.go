package hufzip

import (
	"io"
	"strings"

	"github.com/icza/bitio"
)

// BitWriter is a sink that accepts one bit at a time.  *bitio.Writer
// satisfies it; its Close pads and flushes the final partial byte.
type BitWriter interface {
	WriteBool(b bool) error
}

// BitReader is a source that yields one bit at a time and returns io.EOF
// once it is physically exhausted.  *bitio.Reader satisfies it.
type BitReader interface {
	ReadBool() (bool, error)
}

var (
	_ BitWriter = (*bitio.Writer)(nil)
	_ BitReader = (*bitio.Reader)(nil)
	_ BitWriter = (*digitWriter)(nil)
	_ BitReader = (*digitReader)(nil)
)

// digitWriter records bits as '0' and '1' characters.
type digitWriter struct {
	sb *strings.Builder
}

func (dw digitWriter) WriteBool(b bool) error {
	if b {
		return dw.sb.WriteByte('1')
	}
	return dw.sb.WriteByte('0')
}

// digitReader yields the bits of a string of '0' and '1' characters.  Any
// other character reads as a 1 bit.
type digitReader struct {
	s string
	i int
}

func (dr *digitReader) ReadBool() (bool, error) {
	if dr.i >= len(dr.s) {
		return false, io.EOF
	}
	ch := dr.s[dr.i]
	dr.i++
	return ch != '0', nil
}

// teeBitWriter passes every bit to w and, if trace is non-nil, records it.
type teeBitWriter struct {
	w     BitWriter
	trace *strings.Builder
}

func (tw teeBitWriter) WriteBool(b bool) error {
	if tw.w != nil {
		if err := tw.w.WriteBool(b); err != nil {
			return err
		}
	}
	if tw.trace != nil {
		return digitWriter{tw.trace}.WriteBool(b)
	}
	return nil
}
