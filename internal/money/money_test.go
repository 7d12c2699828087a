package money

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDisplay(t *testing.T) {
	require.Equal(t, "1.234,50", Display(1234.5))
	require.Equal(t, "0,00", Display(0))
	require.Equal(t, "1.000.000,00", Display(1e6))
	require.Equal(t, "12,34", Display(12.341))
}

func TestDisplayString(t *testing.T) {
	require.Equal(t, "1.234,50", DisplayString("1234,5"))
	require.Equal(t, "1.234,50", DisplayString("1.234,50"))
	require.Equal(t, "99,90", DisplayString("99.90"))
	require.Equal(t, "0,00", DisplayString(""))
	require.Equal(t, "0,00", DisplayString("abc"))
}

func TestMaskDigits(t *testing.T) {
	require.Equal(t, "R$ 123,45", MaskDigits("12345"))
	require.Equal(t, "R$ 0,05", MaskDigits("5"))
	require.Equal(t, "R$ 0,00", MaskDigits(""))
	require.Equal(t, "R$ 1,00", MaskDigits("1a0b0"))
}
