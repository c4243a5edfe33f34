package hufzip

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSymbol_String(t *testing.T) {
	type testRow struct {
		sym    Symbol
		expect string
	}

	testData := [...]testRow{
		{sym: 'a', expect: "'a'"},
		{sym: ' ', expect: "' '"},
		{sym: 0x00, expect: "0x00"},
		{sym: 0xff, expect: "0xff"},
		{sym: EOF, expect: "EOF"},
		{sym: InternalSymbol, expect: "INTERNAL"},
		{sym: 300, expect: "Symbol(300)"},
	}
	for _, row := range testData {
		require.Equal(t, row.expect, row.sym.String())
	}
}

func TestSymbol_Disjoint(t *testing.T) {
	require.False(t, EOF.IsByte())
	require.True(t, EOF.IsValid())
	require.False(t, InternalSymbol.IsByte())
	require.False(t, InternalSymbol.IsValid())
	for b := 0; b < 256; b++ {
		require.True(t, Symbol(b).IsByte())
		require.NotEqual(t, EOF, Symbol(b))
		require.NotEqual(t, InternalSymbol, Symbol(b))
	}
	require.Panics(t, func() { _ = EOF.Byte() })
}
