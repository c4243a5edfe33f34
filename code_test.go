package hufzip

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCode(t *testing.T) {
	hc := MakeCode("0110")
	require.Equal(t, uint16(4), hc.Size)
	require.Equal(t, "0110", hc.Digits())
	require.Equal(t, "\"0110\"", hc.String())
	require.Equal(t, uint(0), hc.Bit(0))
	require.Equal(t, uint(1), hc.Bit(1))
	require.Equal(t, uint(1), hc.Bit(2))
	require.Equal(t, uint(0), hc.Bit(3))

	require.True(t, hc.HasPrefix(MakeCode("01")))
	require.True(t, hc.HasPrefix(Code{}))
	require.True(t, hc.HasPrefix(hc))
	require.False(t, hc.HasPrefix(MakeCode("1")))
	require.False(t, MakeCode("01").HasPrefix(hc))

	require.Equal(t, "\"\"", Code{}.String())
	require.Panics(t, func() { MakeCode("012") })
}

func TestCode_Long(t *testing.T) {
	var hc Code
	for i := 0; i < MaxCodeSize; i++ {
		hc = hc.Append(uint(i % 3 / 2))
	}
	require.Equal(t, uint16(MaxCodeSize), hc.Size)
	for i := 0; i < MaxCodeSize; i++ {
		require.Equal(t, uint(i%3/2), hc.Bit(uint16(i)), "bit %d", i)
	}
	require.Panics(t, func() { hc.Append(0) })
}
