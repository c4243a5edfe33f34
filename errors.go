package hufzip

import (
	"errors"
)

var (
	// ErrInvalidInput is returned when the source cannot be read, or when
	// a FrequencyTable is empty.
	ErrInvalidInput = errors.New("hufzip: invalid input")

	// ErrProtocol is returned when a symbol to be encoded has no entry in
	// the CodeTable.  It indicates that the table and the stream do not
	// belong together.
	ErrProtocol = errors.New("hufzip: symbol missing from code table")

	// ErrTruncatedStream is returned when the bit source ends before the
	// EOF symbol has been decoded.
	ErrTruncatedStream = errors.New("hufzip: bit stream ended before EOF symbol")

	// ErrCorruptStream is returned when a bit sequence leads off the tree.
	ErrCorruptStream = errors.New("hufzip: bit stream does not match tree")

	// ErrCorruptHeader is returned when an artifact header is malformed.
	ErrCorruptHeader = errors.New("hufzip: corrupt header")

	// ErrChecksum is returned when the decoded payload does not match the
	// digest recorded in the header.
	ErrChecksum = errors.New("hufzip: payload checksum mismatch")
)
