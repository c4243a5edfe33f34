// Package config holds the tunables of the hufzip compressor.
package config

import (
	"runtime"
)

type (
	// Naming controls how artifact and output file names are derived.
	Naming struct {
		// CompressedSuffix is appended to the input name by compression and
		// must be present on the input name for decompression.
		CompressedSuffix string
		// UncompressedMarker is inserted before the original extension when
		// naming the decompressed output, e.g. "report.txt.huf" becomes
		// "report_unc.txt".
		UncompressedMarker string
	}

	// Limits bounds the resources a single call may consume.
	Limits struct {
		// MaxHeaderEntries bounds the number of frequency table entries a
		// header may declare.
		MaxHeaderEntries int
		// MaxInputSize bounds the number of bytes compression will buffer.
		// Zero means unlimited.
		MaxInputSize int64
	}

	// Analysis tunes frequency counting.
	Analysis struct {
		// Workers is the number of goroutines counting frequencies. 1 counts
		// serially.
		Workers int
		// ChunkSize is the number of bytes handed to a worker at once.
		ChunkSize int
	}

	// Output selects what a Report carries besides sizes.
	Output struct {
		// RecordBits makes compression return the payload as a string of '0'
		// and '1' characters. Memory use grows by one byte per payload bit.
		RecordBits bool
		// RecordData makes decompression also return the decoded payload.
		RecordData bool
		// VerifyChecksum makes decompression compare the decoded payload to the
		// digest recorded in the header.
		VerifyChecksum bool
	}
)

// Config holds every tunable of the compressor.
type Config struct {
	Naming   Naming
	Limits   Limits
	Analysis Analysis
	Output   Output
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Naming: Naming{
			CompressedSuffix:   ".huf",
			UncompressedMarker: "_unc",
		},
		Limits: Limits{
			MaxHeaderEntries: 257,
			MaxInputSize:     0,
		},
		Analysis: Analysis{
			Workers:   runtime.GOMAXPROCS(0),
			ChunkSize: 1 << 20,
		},
		Output: Output{
			RecordBits:     false,
			RecordData:     false,
			VerifyChecksum: true,
		},
	}
}
