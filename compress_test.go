package hufzip

import (
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chronos-tachyon/hufzip/config"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Output.RecordBits = true
	cfg.Output.RecordData = true
	return cfg
}

func roundTrip(t *testing.T, c *Compressor, data []byte) (*Report, []byte) {
	t.Helper()

	var artifact bytes.Buffer
	report, err := c.Compress(&artifact, bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, uint64(artifact.Len()), report.ArtifactSize)

	var out bytes.Buffer
	back, err := c.Decompress(&out, bytes.NewReader(artifact.Bytes()))
	require.NoError(t, err)
	require.True(t, bytes.Equal(data, out.Bytes()), "decoded payload differs")
	require.Equal(t, report.PayloadBits, back.PayloadBits)
	require.Equal(t, report.ArtifactSize, back.ArtifactSize)
	require.True(t, report.Table.Equal(back.Table))
	require.True(t, report.Codes.Equal(back.Codes))
	return report, artifact.Bytes()
}

func TestCompress_ScenarioA(t *testing.T) {
	report, artifact := roundTrip(t, New(testConfig()), []byte("aaab"))

	expect := AnalyzeBytes(nil, false, 1, 0)
	expect.Put('a', 3)
	expect.Put('b', 1)
	expect.Put(EOF, 1)
	require.True(t, expect.Equal(report.Table))
	require.Equal(t, "1110001", report.Bits)
	require.Equal(t, 22, len(artifact))
}

func TestCompress_ScenarioB(t *testing.T) {
	c := New(testConfig())
	report, artifact := roundTrip(t, c, []byte{})

	require.Equal(t, []Symbol{EOF}, report.Table.Keys())
	require.Equal(t, "0", report.Bits)
	require.Equal(t, 18, len(artifact))

	back, err := c.Decompress(&bytes.Buffer{}, bytes.NewReader(artifact))
	require.NoError(t, err)
	require.Empty(t, back.Data)
}

func TestCompress_ScenarioC(t *testing.T) {
	data := bytes.Repeat([]byte{'x'}, 1000)
	report, artifact := roundTrip(t, New(testConfig()), data)

	hc, found := report.Codes.Lookup('x')
	require.True(t, found)
	require.Equal(t, uint16(1), hc.Size)
	require.Equal(t, uint64(1001), report.PayloadBits)
	require.Less(t, len(artifact), 200)
}

func TestCompress_ScenarioD(t *testing.T) {
	c := New(testConfig())
	data := []byte("the quick brown fox jumps over the lazy dog")

	var artifact bytes.Buffer
	report, err := c.Compress(&artifact, bytes.NewReader(data))
	require.NoError(t, err)

	payloadBytes := int((report.PayloadBits + 7) / 8)
	headerBytes := artifact.Len() - payloadBytes
	for cut := 1; cut <= payloadBytes; cut++ {
		truncated := artifact.Bytes()[:artifact.Len()-cut]
		_, err := c.Decompress(&bytes.Buffer{}, bytes.NewReader(truncated))
		require.ErrorIs(t, err, ErrTruncatedStream, "cut %d", cut)
	}

	_, err = c.Decompress(&bytes.Buffer{}, bytes.NewReader(artifact.Bytes()[:headerBytes-1]))
	require.ErrorIs(t, err, ErrCorruptHeader)
}

func TestCompress_RoundTripRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(0x5a025ca11825a5e7))
	c := New(testConfig())

	gens := map[string]func(n int) []byte{
		"uniform": func(n int) []byte {
			out := make([]byte, n)
			rng.Read(out)
			return out
		},
		"skewed": func(n int) []byte {
			out := make([]byte, n)
			for i := range out {
				out[i] = byte(rng.ExpFloat64() * 4)
			}
			return out
		},
		"two-symbols": func(n int) []byte {
			out := make([]byte, n)
			for i := range out {
				out[i] = "ab"[rng.Intn(2)]
			}
			return out
		},
		"one-symbol": func(n int) []byte {
			return bytes.Repeat([]byte{0xff}, n)
		},
	}
	for name, gen := range gens {
		t.Run(name, func(t *testing.T) {
			for _, n := range []int{0, 1, 2, 7, 100, 4096, 65537} {
				data := gen(n)
				report, _ := roundTrip(t, c, data)

				bits, err := EncodeString(data, report.Codes)
				require.NoError(t, err)
				require.Equal(t, report.Bits, bits)
			}
		})
	}
}

func TestCompress_ParallelAnalysis(t *testing.T) {
	data := []byte(strings.Repeat("abracadabra, ", 5000))

	serial := testConfig()
	serial.Analysis.Workers = 1
	parallel := testConfig()
	parallel.Analysis.Workers = 4
	parallel.Analysis.ChunkSize = 1000

	var a, b bytes.Buffer
	_, err := New(serial).Compress(&a, bytes.NewReader(data))
	require.NoError(t, err)
	_, err = New(parallel).Compress(&b, bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, a.Bytes(), b.Bytes())
}

func TestCompress_MaxInputSize(t *testing.T) {
	cfg := testConfig()
	cfg.Limits.MaxInputSize = 3

	_, err := New(cfg).Compress(&bytes.Buffer{}, strings.NewReader("abc"))
	require.NoError(t, err)
	_, err = New(cfg).Compress(&bytes.Buffer{}, strings.NewReader("abcd"))
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestDecompress_CountsOverflow(t *testing.T) {
	var ft FrequencyTable
	ft.Put('a', 1<<63)
	ft.Put('b', 1<<63)
	ft.Put(EOF, 1)
	raw, err := Header{Table: ft}.MarshalBinary()
	require.NoError(t, err)
	raw = append(raw, 0x00)

	require.NotPanics(t, func() {
		_, err = New(testConfig()).Decompress(&bytes.Buffer{}, bytes.NewReader(raw))
	})
	require.ErrorIs(t, err, ErrCorruptHeader)
}

func TestDecompress_Checksum(t *testing.T) {
	data := []byte("checksum me")
	var artifact bytes.Buffer
	report, err := New(testConfig()).Compress(&artifact, bytes.NewReader(data))
	require.NoError(t, err)

	// The digest sits right before the payload.
	raw := append([]byte{}, artifact.Bytes()...)
	digestAt := len(raw) - int((report.PayloadBits+7)/8) - 1
	raw[digestAt] ^= 0xff

	_, err = New(testConfig()).Decompress(&bytes.Buffer{}, bytes.NewReader(raw))
	require.ErrorIs(t, err, ErrChecksum)

	cfg := testConfig()
	cfg.Output.VerifyChecksum = false
	back, err := New(cfg).Decompress(&bytes.Buffer{}, bytes.NewReader(raw))
	require.NoError(t, err)
	require.Equal(t, data, back.Data)
}

func TestCompressFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.txt")
	data := []byte("It was the best of times, it was the worst of times.\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	bits, err := CompressFile(path)
	require.NoError(t, err)
	require.NotEmpty(t, bits)
	require.FileExists(t, path+".huf")

	text, err := DecompressFile(path + ".huf")
	require.NoError(t, err)
	require.Equal(t, string(data), text)

	out, err := os.ReadFile(filepath.Join(dir, "report_unc.txt"))
	require.NoError(t, err)
	require.Equal(t, data, out)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)
}

func TestDecompressFile_AllOrNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.txt")
	require.NoError(t, os.WriteFile(path, []byte("some text worth keeping"), 0o644))

	c := New(testConfig())
	report, err := c.CompressFile(path)
	require.NoError(t, err)

	raw, err := os.ReadFile(report.Path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(report.Path, raw[:len(raw)-1], 0o644))

	_, err = c.DecompressFile(report.Path)
	require.ErrorIs(t, err, ErrTruncatedStream)
	require.NoFileExists(t, filepath.Join(dir, "report_unc.txt"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestCompressFile_Missing(t *testing.T) {
	dir := t.TempDir()
	_, err := New(nil).CompressFile(filepath.Join(dir, "nope.txt"))
	require.ErrorIs(t, err, ErrInvalidInput)
	require.NoFileExists(t, filepath.Join(dir, "nope.txt.huf"))
}
