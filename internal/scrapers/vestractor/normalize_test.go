package vestractor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompressedKey(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{input: "Fuvest 2021", expected: "fuvest2021"},
		{input: "UNICAMP", expected: "unicamp"},
		{input: "Enem - Dia 1", expected: "enem-dia1"},
		{input: "Vunesp   Medicina", expected: "vunespmedicina"},
		{input: "Famerp", expected: "famerp"},
		{input: "", expected: ""},
	}

	for _, test := range testCases {
		key := CompressedKey(test.input)
		require.Equal(t, test.expected, key, test.input)
		require.Equal(t, key, CompressedKey(key), "re-applying must not change %q", key)
	}
}

func TestDisplayLabel(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{input: "fuvest", expected: "Fuvest"},
		{input: "FUVEST 2021", expected: "Fuvest 2021"},
		{input: "enem dia um", expected: "Enem Dia Um"},
		// the space right after the hyphen takes the first of the two uppercased positions
		{input: "unicamp - fase 1", expected: "Unicamp - Fase 1"},
		// without the space both runes after the hyphen are uppercased
		{input: "unicamp-fase 1", expected: "Unicamp-FAse 1"},
		{input: "UNESP-conhecimentos gerais", expected: "Unesp-COnhecimentos Gerais"},
		{input: "ufrgs-a", expected: "Ufrgs-A"},
		{input: "trailing ", expected: "Trailing "},
		{input: "trailing-", expected: "Trailing-"},
		{input: "2ª fase", expected: "2ª Fase"},
		{input: "", expected: ""},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, DisplayLabel(test.input), test.input)
	}
}
