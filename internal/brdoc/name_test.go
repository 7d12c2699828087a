package brdoc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatPersonName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"JOÃO DA SILVA", "João da Silva"},
		{"  maria DAS dores  ", "Maria das Dores"},
		{"de souza", "De Souza"},
		{"pedro ii", "Pedro II"},
		{"ii", "II"},
		{"joão iv de bragança", "João IV de Bragança"},
		{"patrick o' brian", "Patrick O' Brian"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, FormatPersonName(tc.in), "input %q", tc.in)
	}
}

func TestFormatPersonNameSpecialBeatsConnector(t *testing.T) {
	// Roman numeral tokens keep their fixed form even at index 0.
	require.Equal(t, "X", FormatPersonName("x"))
	require.Equal(t, "Luis X da Costa", FormatPersonName("LUIS X DA COSTA"))
}

func TestValidPersonName(t *testing.T) {
	require.True(t, ValidPersonName("João da Silva"))
	require.True(t, ValidPersonName("Ana-Luíza d'Ávila"))
	require.False(t, ValidPersonName("Jo"))
	require.False(t, ValidPersonName("João  Silva"))
	require.False(t, ValidPersonName("João 2 Silva"))
	require.False(t, ValidPersonName(""))
}

func TestValidPersonNameLength(t *testing.T) {
	long := make([]rune, 101)
	for i := range long {
		long[i] = 'a'
	}
	require.False(t, ValidPersonName(string(long)))
	require.True(t, ValidPersonName(string(long[:100])))
}
