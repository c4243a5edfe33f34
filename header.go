package hufzip

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Header is the self-describing prefix of a compressed artifact.
//
// Wire format:
//
//	magic    [4]byte  "HUFZ"
//	version  byte     1
//	entries  uvarint  number of FrequencyTable entries
//	repeat entries times, ascending by symbol:
//	  symbol uvarint  0..255, or 256 for EOF
//	  count  uvarint  > 0
//	digest   [8]byte  XXH64 of the original payload, little-endian
//
// The bit-packed payload follows immediately.
type Header struct {
	Table    FrequencyTable
	Checksum uint64
}

const (
	headerMagic   = "HUFZ"
	headerVersion = byte(1)
)

// MarshalBinary returns the wire encoding of the header.
func (h Header) MarshalBinary() ([]byte, error) {
	keys := h.Table.Keys()
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: empty frequency table", ErrInvalidInput)
	}

	out := make([]byte, 0, len(headerMagic)+1+binary.MaxVarintLen16+len(keys)*(2+binary.MaxVarintLen64)+8)
	out = append(out, headerMagic...)
	out = append(out, headerVersion)
	out = binary.AppendUvarint(out, uint64(len(keys)))
	for _, sym := range keys {
		out = binary.AppendUvarint(out, uint64(sym))
		out = binary.AppendUvarint(out, h.Table.Get(sym))
	}
	out = binary.LittleEndian.AppendUint64(out, h.Checksum)
	return out, nil
}

// WriteTo writes the wire encoding of the header to w.
func (h Header) WriteTo(w io.Writer) (int64, error) {
	raw, err := h.MarshalBinary()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(raw)
	if err == nil && n != len(raw) {
		err = io.ErrShortWrite
	}
	return int64(n), err
}

// ReadHeader reads a header from r and returns it with the number of bytes
// consumed.  At most maxEntries table entries are accepted; maxEntries <= 0
// means NumSymbols.
//
// Every framing, range, or consistency problem is reported as
// ErrCorruptHeader.  The table must contain EOF, since a payload without one
// can never be decoded, and the counts must sum to less than 2^64, so that
// no tree weight can overflow.
//
func ReadHeader(in io.ByteReader, maxEntries int) (Header, int64, error) {
	r := &byteCounter{r: in}
	h, err := readHeader(r, maxEntries)
	return h, r.n, err
}

type byteCounter struct {
	r io.ByteReader
	n int64
}

func (bc *byteCounter) ReadByte() (byte, error) {
	b, err := bc.r.ReadByte()
	if err == nil {
		bc.n++
	}
	return b, err
}

func readHeader(r io.ByteReader, maxEntries int) (Header, error) {
	if maxEntries <= 0 || maxEntries > NumSymbols {
		maxEntries = NumSymbols
	}

	for i := 0; i < len(headerMagic); i++ {
		b, err := r.ReadByte()
		if err != nil {
			return Header{}, corruptHeaderf("reading magic: %v", err)
		}
		if b != headerMagic[i] {
			return Header{}, corruptHeaderf("bad magic")
		}
	}

	version, err := r.ReadByte()
	if err != nil {
		return Header{}, corruptHeaderf("reading version: %v", err)
	}
	if version != headerVersion {
		return Header{}, corruptHeaderf("unsupported version %d", version)
	}

	numEntries, err := binary.ReadUvarint(r)
	if err != nil {
		return Header{}, corruptHeaderf("reading entry count: %v", err)
	}
	if numEntries == 0 || numEntries > uint64(maxEntries) {
		return Header{}, corruptHeaderf("entry count %d out of range [1, %d]", numEntries, maxEntries)
	}

	ft := NewFrequencyTable()
	var total uint64
	for i := uint64(0); i < numEntries; i++ {
		rawSymbol, err := binary.ReadUvarint(r)
		if err != nil {
			return Header{}, corruptHeaderf("reading symbol of entry %d: %v", i, err)
		}
		if rawSymbol > uint64(MaxSymbol) {
			return Header{}, corruptHeaderf("entry %d has symbol %d out of range", i, rawSymbol)
		}
		sym := Symbol(rawSymbol)
		if ft.Contains(sym) {
			return Header{}, corruptHeaderf("entry %d repeats symbol %v", i, sym)
		}

		count, err := binary.ReadUvarint(r)
		if err != nil {
			return Header{}, corruptHeaderf("reading count of entry %d: %v", i, err)
		}
		if count == 0 {
			return Header{}, corruptHeaderf("entry %d has zero count for symbol %v", i, sym)
		}
		if total+count < total {
			return Header{}, corruptHeaderf("counts overflow at entry %d", i)
		}
		total += count
		ft.Put(sym, count)
	}
	if !ft.Contains(EOF) {
		return Header{}, corruptHeaderf("no EOF entry")
	}

	var digest [8]byte
	for i := range digest {
		b, err := r.ReadByte()
		if err != nil {
			return Header{}, corruptHeaderf("reading digest: %v", err)
		}
		digest[i] = b
	}

	return Header{Table: ft, Checksum: binary.LittleEndian.Uint64(digest[:])}, nil
}

func corruptHeaderf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrCorruptHeader, fmt.Sprintf(format, args...))
}
