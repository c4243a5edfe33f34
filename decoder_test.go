package hufzip

import (
	"bytes"
	"testing"

	"github.com/icza/bitio"
	"github.com/stretchr/testify/require"
)

func TestDecodeString(t *testing.T) {
	tree, _ := makeTestCodes(t, "aaab", true)
	defer tree.Release()

	out, err := DecodeString("1110001", tree)
	require.NoError(t, err)
	require.Equal(t, "aaab", string(out))
}

func TestDecodeString_IgnoresPadding(t *testing.T) {
	tree, _ := makeTestCodes(t, "aaab", true)
	defer tree.Release()

	out, err := DecodeString("11100011111", tree)
	require.NoError(t, err)
	require.Equal(t, "aaab", string(out))
}

func TestDecodeString_Truncated(t *testing.T) {
	tree, _ := makeTestCodes(t, "aaab", true)
	defer tree.Release()

	for _, bits := range []string{"", "1", "111000", "1110"} {
		_, err := DecodeString(bits, tree)
		require.ErrorIs(t, err, ErrTruncatedStream, "bits %q", bits)
	}
}

func TestDecodeString_OffTree(t *testing.T) {
	tree, _ := makeTestCodes(t, "", true)
	defer tree.Release()

	out, err := DecodeString("0", tree)
	require.NoError(t, err)
	require.Empty(t, out)

	_, err = DecodeString("1", tree)
	require.ErrorIs(t, err, ErrCorruptStream)
}

func TestDecoder_BitReader(t *testing.T) {
	tree, _ := makeTestCodes(t, "aaab", true)
	defer tree.Release()

	var out bytes.Buffer
	d := NewDecoder(tree, bitio.NewReader(bytes.NewReader([]byte{0xe2})))
	require.NoError(t, d.Decode(&out))
	require.Equal(t, "aaab", out.String())
	require.Equal(t, uint64(7), d.Bits())
	require.Equal(t, uint64(4), d.Len())
}

func TestDecoder_Released(t *testing.T) {
	tree, _ := makeTestCodes(t, "aaab", true)
	tree.Release()

	_, err := DecodeString("1110001", tree)
	require.Error(t, err)
}
