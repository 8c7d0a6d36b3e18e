package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JustUsingaWebsite/weedops/backend/internal/csvops"
	"github.com/JustUsingaWebsite/weedops/backend/internal/weederr"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "weedops.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, []string{"stderr"}, cfg.Log.OutputPaths)
	assert.True(t, cfg.Output.WithHeader)
	assert.Equal(t, rune(0), cfg.InputSeparator())

	p, err := cfg.Policies()
	require.NoError(t, err)
	assert.Equal(t, Policies{
		Match:        csvops.MatchOptions{Mode: csvops.MatchRegex},
		OnParseError: csvops.SkipCell,
		Coercion:     csvops.Permissive,
		Pairing:      csvops.Cartesian,
	}, p)
}

func TestLoadFileEnvAndFlags(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
  encoding: json
input:
  separator: ";"
  trim_spaces: true
output:
  with_header: false
  separator: tab
match:
  mode: substring
  case_insensitive: true
coercion: strict
`)
	t.Setenv("WEEDOPS_ON_PARSE_ERROR", "abort")
	t.Setenv("WEEDOPS_LOG_LEVEL", "info")

	v := New()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("pairing", "cartesian", "")
	require.NoError(t, flags.Parse([]string{"--pairing=positional"}))
	require.NoError(t, v.BindPFlag("pairing", flags.Lookup("pairing")))

	cfg, err := Load(v, path)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Encoding)
	assert.True(t, cfg.Input.TrimSpaces)
	assert.False(t, cfg.Output.WithHeader)
	assert.Equal(t, ';', cfg.InputSeparator())
	assert.Equal(t, '\t', cfg.OutputSeparator())

	p, err := cfg.Policies()
	require.NoError(t, err)
	assert.Equal(t, csvops.MatchSubstring, p.Match.Mode)
	assert.True(t, p.Match.CaseInsensitive)
	assert.Equal(t, csvops.AbortStage, p.OnParseError)
	assert.Equal(t, csvops.Strict, p.Coercion)
	assert.Equal(t, csvops.Positional, p.Pairing)
}

func TestLoadRejectsBadValues(t *testing.T) {
	for _, body := range []string{
		"coercion: lenient\n",
		"pairing: zip\n",
		"on_parse_error: ignore\n",
		"match:\n  mode: glob\n",
		"input:\n  separator: '\"'\n",
		"output:\n  separator: ab\n",
	} {
		_, err := Load(New(), writeConfig(t, body))
		assert.True(t, weederr.IsKind(err, weederr.KindConfig), body)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.True(t, weederr.IsKind(err, weederr.KindConfig))
}
