package htmlutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestGetText(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<p>Fuvest <b>2021</b> - <i>1ª fase</i></p>`))
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "Fuvest 2021 - 1ª fase", GetText(doc))
}

func TestCleanText(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{input: "  Fuvest   2021 ", expected: "Fuvest 2021"},
		{input: "Unicamp\n\t- Fase 1", expected: "Unicamp - Fase 1"},
		{input: "Enem\u00a0Dia\u00a01", expected: "Enem Dia 1"},
		{input: "Resoluc\u0327a\u0303o", expected: "Resolu\u00e7\u00e3o"},
		{input: "a\u0007b", expected: "ab"},
		{input: "", expected: ""},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, CleanText(test.input), test.input)
	}
}
