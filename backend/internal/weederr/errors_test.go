package weederr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigErrorMessage(t *testing.T) {
	err := Config("month", "7", "unknown month representation")

	assert.Equal(t, `config: month: unknown month representation ("7")`, err.Error())
	assert.True(t, IsKind(err, KindConfig))
	assert.False(t, IsKind(err, KindParse))
}

func TestParseErrorUnwrap(t *testing.T) {
	cause := errors.New("month out of range")
	err := Parse("date", "2010-13-01", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "2010-13-01")
}

func TestIsKindThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("stage date: %w", Parse("date", "x", nil))

	assert.True(t, IsKind(err, KindParse))
	assert.False(t, IsKind(nil, KindParse))
	assert.False(t, IsKind(errors.New("plain"), KindParse))
}

func TestWrapKeepsFieldAndNestedKind(t *testing.T) {
	inner := Parse("circulation", "abc", nil)
	err := Wrap(inner, KindIO, "export failed")

	require.NotNil(t, err)
	assert.Equal(t, "circulation", err.Field)
	assert.Equal(t, "abc", err.Value)
	assert.True(t, IsKind(err, KindIO))
	assert.True(t, IsKind(err, KindParse))
	assert.Nil(t, Wrap(nil, KindIO, "noop"))
	assert.Nil(t, IO("out.csv", nil))
}
