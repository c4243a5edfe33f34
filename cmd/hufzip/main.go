package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	json "github.com/json-iterator/go"
	logging "github.com/op/go-logging"

	"github.com/chronos-tachyon/hufzip"
	"github.com/chronos-tachyon/hufzip/config"
)

const progName = "hufzip"
const usageMessageRaw = `
Usage: hufzip [FLAGS] SUBCOMMAND FILE...

Subcommands:
  compress FILE...
    Compress each FILE into FILE.huf.  The artifact is written only if
    compression succeeds.

  decompress FILE.huf...
    Decompress each artifact, writing e.g. report.txt.huf to
    report_unc.txt.

  stats FILE
    Print the frequency table, the code table, and the size the
    artifact would have, without writing anything.

Flags:
  -d, -debug      log pipeline details to stderr
  -json           print stats as JSON
  -suffix S       compressed suffix (default ".huf")
  -marker M       uncompressed marker (default "_unc")
  -workers N      goroutines counting frequencies
  -max-size N     refuse inputs larger than N bytes (0 = unlimited)
  -no-verify      skip the payload checksum on decompress
`

var log = logging.MustGetLogger("hufzip/cmd")

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 64
)

type nullWriter struct{}

func (n *nullWriter) Write(p []byte) (int, error) {
	return len(p), nil
}

func startLogging(stderr io.Writer) logging.LeveledBackend {
	backend := logging.NewLogBackend(stderr, progName+": ", 0)
	formatSpec := "%{color:bold}%{level:6s}%{color:reset} %{module:-12s} | %{message}"
	formatter := logging.MustStringFormatter(formatSpec)
	formatted := logging.NewBackendFormatter(backend, formatter)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(logging.INFO, "")
	logging.SetBackend(leveled)
	return leveled
}

func usageMessage() string {
	return strings.TrimLeft(usageMessageRaw, "\n")
}

// usageError reports a command-line mistake and yields the exit code for it.
func usageError(stderr io.Writer, detailFmt string, detailArgs ...interface{}) int {
	detail := fmt.Sprintf(detailFmt, detailArgs...)
	fmt.Fprintf(stderr, "%s: %s\n%s", progName, detail, usageMessage())
	return exitUsage
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one command line and returns the process exit code.
func run(argv []string, stdout io.Writer, stderr io.Writer) int {
	leveledLogBackend := startLogging(stderr)

	cfg := config.Default()
	var debugLogging bool
	var jsonOutput bool
	var noVerify bool

	ourFlags := flag.NewFlagSet(progName, flag.ContinueOnError)
	ourFlags.Usage = func() {}
	ourFlags.SetOutput(&nullWriter{})
	ourFlags.BoolVar(&debugLogging, "debug", false, "")
	ourFlags.BoolVar(&debugLogging, "d", false, "")
	ourFlags.BoolVar(&jsonOutput, "json", false, "")
	ourFlags.BoolVar(&noVerify, "no-verify", false, "")
	ourFlags.StringVar(&cfg.Naming.CompressedSuffix, "suffix", cfg.Naming.CompressedSuffix, "")
	ourFlags.StringVar(&cfg.Naming.UncompressedMarker, "marker", cfg.Naming.UncompressedMarker, "")
	ourFlags.IntVar(&cfg.Analysis.Workers, "workers", cfg.Analysis.Workers, "")
	ourFlags.Int64Var(&cfg.Limits.MaxInputSize, "max-size", cfg.Limits.MaxInputSize, "")

	argErr := ourFlags.Parse(argv)
	if argErr == flag.ErrHelp {
		io.WriteString(stdout, usageMessage())
		return exitOK
	} else if argErr != nil {
		return usageError(stderr, "%s", argErr.Error())
	}

	if debugLogging {
		leveledLogBackend.SetLevel(logging.DEBUG, "")
	}
	cfg.Output.VerifyChecksum = !noVerify

	args := ourFlags.Args()
	if len(args) < 2 {
		return usageError(stderr, "not enough arguments; expected SUBCOMMAND FILE...")
	}
	command, files := args[0], args[1:]

	c := hufzip.New(cfg)
	var err error
	switch command {
	case "compress":
		err = forEach(files, c.CompressFile)
	case "decompress":
		err = forEach(files, c.DecompressFile)
	case "stats":
		if len(files) != 1 {
			return usageError(stderr, "stats takes exactly one FILE")
		}
		var st fileStats
		st, err = collectStats(c, files[0])
		if err == nil {
			err = writeStats(stdout, st, jsonOutput)
		}
	default:
		return usageError(stderr, "bad subcommand \"%s\"", command)
	}
	if err != nil {
		fmt.Fprintf(stderr, "%s: %s\n", progName, err.Error())
		return exitError
	}
	return exitOK
}

func forEach(files []string, fn func(string) (*hufzip.Report, error)) error {
	var failed int
	for _, path := range files {
		report, err := fn(path)
		if err != nil {
			log.Errorf("%s: %v", path, err)
			failed++
			continue
		}
		log.Infof("%s -> %s (%d bytes, %d artifact bytes)", path, report.Path, report.InputSize, report.ArtifactSize)
	}
	if failed != 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}

type symbolStats struct {
	Symbol string `json:"symbol"`
	Count  uint64 `json:"count"`
	Code   string `json:"code"`
}

type fileStats struct {
	Path         string        `json:"path"`
	InputSize    uint64        `json:"inputSize"`
	PayloadBits  uint64        `json:"payloadBits"`
	ArtifactSize uint64        `json:"artifactSize"`
	Ratio        float64       `json:"ratio"`
	Symbols      []symbolStats `json:"symbols"`
}

// collectStats compresses the file at path into io.Discard and gathers its
// frequency table, code table and sizes.
func collectStats(c *hufzip.Compressor, path string) (fileStats, error) {
	src, err := os.Open(path)
	if err != nil {
		return fileStats{}, fmt.Errorf("%w: %w", hufzip.ErrInvalidInput, err)
	}
	defer src.Close()

	report, err := c.Compress(io.Discard, src)
	if err != nil {
		return fileStats{}, err
	}

	out := fileStats{
		Path:         path,
		InputSize:    report.InputSize,
		PayloadBits:  report.PayloadBits,
		ArtifactSize: report.ArtifactSize,
	}
	if report.InputSize != 0 {
		out.Ratio = float64(report.ArtifactSize) / float64(report.InputSize)
	}
	for _, sym := range report.Table.Keys() {
		hc, found := report.Codes.Lookup(sym)
		if !found {
			return fileStats{}, errors.New("code table does not cover frequency table")
		}
		out.Symbols = append(out.Symbols, symbolStats{
			Symbol: sym.String(),
			Count:  report.Table.Get(sym),
			Code:   hc.Digits(),
		})
	}
	return out, nil
}

func writeStats(w io.Writer, st fileStats, asJSON bool) error {
	if asJSON {
		raw, err := json.MarshalIndent(st, "", "  ")
		if err != nil {
			return err
		}
		raw = append(raw, '\n')
		_, err = w.Write(raw)
		return err
	}

	fmt.Fprintf(w, "%s: %d bytes -> %d bytes (%d payload bits, ratio %.3f)\n",
		st.Path, st.InputSize, st.ArtifactSize, st.PayloadBits, st.Ratio)
	for _, row := range st.Symbols {
		fmt.Fprintf(w, "\t%-8s %12d  %s\n", row.Symbol, row.Count, row.Code)
	}
	return nil
}
