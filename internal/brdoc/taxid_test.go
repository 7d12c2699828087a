package brdoc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidTaxIDCPF(t *testing.T) {
	require.True(t, ValidTaxID("52998224725"))
	require.True(t, ValidTaxID("529.982.247-25"))
	require.False(t, ValidTaxID("52998224724"))
	require.False(t, ValidTaxID("11111111111"))
	require.False(t, ValidTaxID("123456789"))
}

func TestValidTaxIDCNPJ(t *testing.T) {
	require.True(t, ValidTaxID("11222333000181"))
	require.True(t, ValidTaxID("11.222.333/0001-81"))
	require.False(t, ValidTaxID("11222333000182"))
	require.False(t, ValidTaxID("11111111111111"))
}

func TestValidTaxIDOptionalField(t *testing.T) {
	require.True(t, ValidTaxID(""))
	require.True(t, ValidTaxID("   "))
	require.False(t, ValidTaxID("abc"))
}

func TestFormatTaxID(t *testing.T) {
	require.Equal(t, "529.982.247-25", FormatTaxID("52998224725"))
	require.Equal(t, "11.222.333/0001-81", FormatTaxID("112223330001810000"))
	require.Equal(t, "529.98", FormatTaxID("52998"))
	require.Equal(t, "", FormatTaxID("no digits"))
}

func TestFormatValidateConsistency(t *testing.T) {
	inputs := []string{"52998224725", "52998224724", "11222333000181", "11222333000182", "11111111111"}
	for _, in := range inputs {
		require.Equal(t, ValidTaxID(in), ValidTaxID(FormatTaxID(in)), "input %s", in)
	}
}

func TestValidPhone(t *testing.T) {
	require.True(t, ValidPhone(""))
	require.True(t, ValidPhone("(11) 98765-4321"))
	require.True(t, ValidPhone("1187654321"))
	require.False(t, ValidPhone("0912345678"))
	require.False(t, ValidPhone("119876"))
	require.False(t, ValidPhone("119876543210"))
	require.False(t, ValidPhone("9999999999"))
}

func TestFormatPhone(t *testing.T) {
	require.Equal(t, "(11) 8765-4321", FormatPhone("1187654321"))
	require.Equal(t, "(11) 98765-4321", FormatPhone("11987654321999"))
	require.Equal(t, "(11) 987", FormatPhone("11987"))
	require.Equal(t, "", FormatPhone("-"))
}

func TestValidEmail(t *testing.T) {
	require.True(t, ValidEmail("ana@example.com"))
	require.True(t, ValidEmail("ana.souza@shop.com.br"))
	require.False(t, ValidEmail("ana@example"))
	require.False(t, ValidEmail("ana example@a.com"))
	require.False(t, ValidEmail("@example.com"))
	require.False(t, ValidEmail(""))
}
