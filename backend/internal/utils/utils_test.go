package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhitespaceTrimmer(t *testing.T) {
	assert.Equal(t, "JFIC A", WhitespaceTrimmer("  JFIC \t  A "))
	assert.Equal(t, "", WhitespaceTrimmer("   "))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "ya b", Normalize(" YA  B ", true, true))
	assert.Equal(t, " YA  B ", Normalize(" YA  B ", false, false))
}

func TestParseIndexList(t *testing.T) {
	got, err := ParseIndexList("1, 3,3")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 3}, got)

	_, err = ParseIndexList("")
	assert.Error(t, err)
	_, err = ParseIndexList("1,,2")
	assert.Error(t, err)
	_, err = ParseIndexList("one")
	assert.Error(t, err)
}

func TestDigitsOnly(t *testing.T) {
	assert.True(t, DigitsOnly("0123"))
	assert.False(t, DigitsOnly(""))
	assert.False(t, DigitsOnly("12a"))
	assert.False(t, DigitsOnly("-1"))
	assert.False(t, DigitsOnly("١٢"))
}

func TestSeparator(t *testing.T) {
	cases := map[string]rune{`\t`: '\t', "tab": '\t', ";": ';', ",": ',', "": ','}
	for in, want := range cases {
		got, err := Separator(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := Separator(";;")
	assert.Error(t, err)
	_, err = Separator(`"`)
	assert.Error(t, err)
}
