package session

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalAsk(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("3\r\n \nlast"), &out, false)

	a, err := term.Ask(criteriaQuestion)
	require.NoError(t, err)
	assert.Equal(t, "3", a)
	assert.Contains(t, out.String(), "What would you like to use to build a weeding list?\n1. Dates / Age\n2. Circulation\n3. Both\n")
	assert.Contains(t, out.String(), "Type EXIT to exit.")

	a, err = term.Ask(separatorQuestion)
	require.NoError(t, err)
	assert.Equal(t, " ", a)

	a, err = term.Ask(outputQuestion)
	require.NoError(t, err)
	assert.Equal(t, "last", a)

	_, err = term.Ask(outputQuestion)
	assert.Error(t, err)
}

func TestTerminalNotify(t *testing.T) {
	var plain, colored bytes.Buffer
	NewTerminal(strings.NewReader(""), &plain, false).Notify("try again")
	NewTerminal(strings.NewReader(""), &colored, true).Notify("try again")

	assert.Equal(t, "try again\n", plain.String())
	assert.Contains(t, colored.String(), "try again")
}
