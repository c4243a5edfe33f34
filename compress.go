package hufzip

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/dchest/uniuri"
	"github.com/icza/bitio"
	logging "github.com/op/go-logging"

	"github.com/chronos-tachyon/hufzip/config"
)

var log = logging.MustGetLogger("hufzip")

// Report describes one completed compression or decompression.
type Report struct {
	// Path is the artifact written, when operating on files.
	Path string

	// Table is the FrequencyTable stored in the header.
	Table FrequencyTable

	// Codes is the CodeTable derived from Table.
	Codes CodeTable

	// InputSize is the number of uncompressed bytes.
	InputSize uint64

	// PayloadBits is the number of meaningful payload bits, EOF included.
	PayloadBits uint64

	// ArtifactSize is the size of the compressed artifact, header included.
	ArtifactSize uint64

	// Bits is the payload as '0' and '1' characters, if
	// config.Output.RecordBits is set.
	Bits string

	// Data is the decoded payload, if config.Output.RecordData is set.
	Data []byte
}

// Compressor runs the compress and decompress pipelines.  A Compressor holds
// no state between calls; every call builds and releases its own tree.
type Compressor struct {
	cfg *config.Config
}

// New returns a Compressor using cfg, or config.Default() if cfg is nil.
func New(cfg *config.Config) *Compressor {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Compressor{cfg: cfg}
}

// Compress reads all of src and writes the artifact to dst.
//
// The source is buffered in memory, since it is needed once to count
// frequencies and once more to encode.
//
func (c *Compressor) Compress(dst io.Writer, src io.Reader) (*Report, error) {
	data, err := c.readSource(src)
	if err != nil {
		return nil, err
	}

	ft := AnalyzeBytes(data, true, c.cfg.Analysis.Workers, c.cfg.Analysis.ChunkSize)
	tree, err := BuildTree(ft)
	if err != nil {
		return nil, err
	}
	defer tree.Release()

	codes := GenerateCodeTable(tree)
	log.Debugf("compress: %d bytes, %d symbols, %d tree nodes, codes %d..%d bits",
		len(data), ft.Len(), tree.Len(), codes.MinSize(), codes.MaxSize())

	header := Header{Table: ft, Checksum: xxhash.Sum64(data)}
	bufw := bufio.NewWriter(dst)
	headerSize, err := header.WriteTo(bufw)
	if err != nil {
		return nil, err
	}

	var trace *strings.Builder
	if c.cfg.Output.RecordBits {
		trace = new(strings.Builder)
	}

	bw := bitio.NewWriter(bufw)
	e := NewEncoder(codes, bw, trace)
	if err := e.Encode(bytes.NewReader(data)); err != nil {
		return nil, err
	}
	if err := bw.Close(); err != nil {
		return nil, err
	}
	if err := bufw.Flush(); err != nil {
		return nil, err
	}

	report := &Report{
		Table:        ft,
		Codes:        codes,
		InputSize:    uint64(len(data)),
		PayloadBits:  e.Bits(),
		ArtifactSize: uint64(headerSize) + (e.Bits()+7)/8,
	}
	if trace != nil {
		report.Bits = trace.String()
	}
	log.Debugf("compress: %d header bytes, %d payload bits, %d artifact bytes",
		headerSize, report.PayloadBits, report.ArtifactSize)
	return report, nil
}

// Decompress reads an artifact from src and writes the decoded bytes to dst.
//
// The tree is rebuilt from the header's FrequencyTable, which yields the same
// tree the compressor used.  Bytes written to dst before an error is
// returned are not a valid result; use DecompressFile for all-or-nothing
// output.
//
func (c *Compressor) Decompress(dst io.Writer, src io.Reader) (*Report, error) {
	bufr := bufio.NewReader(src)
	header, headerSize, err := ReadHeader(bufr, c.cfg.Limits.MaxHeaderEntries)
	if err != nil {
		return nil, err
	}

	tree, err := BuildTree(header.Table)
	if err != nil {
		return nil, err
	}
	defer tree.Release()
	log.Debugf("decompress: %d symbols, %d tree nodes", header.Table.Len(), tree.Len())

	digest := xxhash.New()
	sinks := []io.Writer{dst, digest}
	var record *bytes.Buffer
	if c.cfg.Output.RecordData {
		record = new(bytes.Buffer)
		sinks = append(sinks, record)
	}
	bufw := bufio.NewWriter(io.MultiWriter(sinks...))

	d := NewDecoder(tree, bitio.NewReader(bufr))
	if err := d.Decode(bufw); err != nil {
		return nil, err
	}
	if err := bufw.Flush(); err != nil {
		return nil, err
	}

	if c.cfg.Output.VerifyChecksum && digest.Sum64() != header.Checksum {
		return nil, fmt.Errorf("%w: header %016x, payload %016x", ErrChecksum, header.Checksum, digest.Sum64())
	}

	report := &Report{
		Table:        header.Table,
		Codes:        GenerateCodeTable(tree),
		InputSize:    d.Len(),
		PayloadBits:  d.Bits(),
		ArtifactSize: uint64(headerSize) + (d.Bits()+7)/8,
	}
	if record != nil {
		report.Data = record.Bytes()
	}
	log.Debugf("decompress: %d payload bits, %d bytes", report.PayloadBits, report.InputSize)
	return report, nil
}

// CompressFile compresses the file at path into CompressedName(path).  The
// artifact appears only if compression succeeds.
func (c *Compressor) CompressFile(path string) (*Report, error) {
	target := CompressedName(path, c.cfg.Naming)

	src, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	defer src.Close()

	var report *Report
	err = writeAtomic(target, func(w io.Writer) error {
		var err error
		report, err = c.Compress(w, src)
		return err
	})
	if err != nil {
		return nil, err
	}
	report.Path = target
	log.Debugf("compressed %q to %q", path, target)
	return report, nil
}

// DecompressFile decompresses the artifact at path into
// DecompressedName(path).  The output appears only if decompression
// succeeds.
func (c *Compressor) DecompressFile(path string) (*Report, error) {
	target, err := DecompressedName(path, c.cfg.Naming)
	if err != nil {
		return nil, err
	}

	src, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	defer src.Close()

	var report *Report
	err = writeAtomic(target, func(w io.Writer) error {
		var err error
		report, err = c.Decompress(w, src)
		return err
	})
	if err != nil {
		return nil, err
	}
	report.Path = target
	log.Debugf("decompressed %q to %q", path, target)
	return report, nil
}

func (c *Compressor) readSource(src io.Reader) ([]byte, error) {
	limit := c.cfg.Limits.MaxInputSize
	if limit > 0 {
		src = io.LimitReader(src, limit+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("%w: reading source: %w", ErrInvalidInput, err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: source exceeds %d bytes", ErrInvalidInput, limit)
	}
	return data, nil
}

// writeAtomic fills a temporary sibling of target and renames it into place
// once fill and the sync succeed.  On any failure the temporary file is
// removed and target is left untouched.
func writeAtomic(target string, fill func(io.Writer) error) (err error) {
	tmp := target + "." + uniuri.NewLen(10) + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	if err = fill(f); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, target)
}

// CompressFile compresses the file at path with the default configuration
// and returns the payload bits as a string of '0' and '1' characters.
func CompressFile(path string) (string, error) {
	cfg := config.Default()
	cfg.Output.RecordBits = true
	report, err := New(cfg).CompressFile(path)
	if err != nil {
		return "", err
	}
	return report.Bits, nil
}

// DecompressFile decompresses the artifact at path with the default
// configuration and returns the decoded payload.
func DecompressFile(path string) (string, error) {
	cfg := config.Default()
	cfg.Output.RecordData = true
	report, err := New(cfg).DecompressFile(path)
	if err != nil {
		return "", err
	}
	return string(report.Data), nil
}
