package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JustUsingaWebsite/weedops/backend/internal/session"
	"github.com/JustUsingaWebsite/weedops/backend/internal/weederr"
)

const catalogCSV = `Title,CallNo,LastCirc,Circs,Acquired
A,JFIC A,2010-01-01,3,2015-04-01
B,YA B,2021-06-15,40,2020-01-01
C,JFIC C,2012-09-30,0,2001-01-01
D,PLAYAWAY D,2019-02-11,12,2018-05-05
`

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--log-level", "error"))
	err := root.Execute()
	return out.String(), err
}

func TestRunApplyAndPreview(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile("catalog.csv", []byte(catalogCSV), 0o644))

	answers := strings.Join([]string{
		"2", "JFIC", "1", "3",
		"1", "1", "2", "-", "1",
		"2013-01-01",
		"weeds.csv",
	}, "\n") + "\n"
	out, err := execute(t, answers, "run", "catalog.csv", "--save-plan", "plan.yaml", "--sort-by", "3", "--sort-order", "desc")
	require.NoError(t, err)
	assert.Contains(t, out, "Which column has collection names in it?")
	assert.Contains(t, out, "collection")

	raw, err := os.ReadFile(filepath.Join(dir, "weeds.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Title,CallNo,LastCirc,Circs,Acquired\nC,JFIC C,2012-09-30,0,2001-01-01\nA,JFIC A,2010-01-01,3,2015-04-01\n", string(raw))

	plan, err := session.LoadPlan("plan.yaml")
	require.NoError(t, err)
	assert.Equal(t, "catalog.csv", plan.Source.Path)
	assert.Equal(t, "weeds.csv", plan.Output)
	assert.NotEmpty(t, plan.ID)

	_, err = execute(t, "", "apply", "--plan", "plan.yaml", "--output", "again.csv", "--with-header=false")
	require.NoError(t, err)
	raw, err = os.ReadFile("again.csv")
	require.NoError(t, err)
	assert.Equal(t, "A,JFIC A,2010-01-01,3,2015-04-01\nC,JFIC C,2012-09-30,0,2001-01-01\n", string(raw))

	out, err = execute(t, "", "apply", "--plan", "plan.yaml", "--output", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "JFIC C")

	out, err = execute(t, "", "preview", "catalog.csv", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "2. CallNo")
	assert.Contains(t, out, "3 more rows")
}

func TestRunAsksForFileAndExits(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.WriteFile("catalog.csv", []byte(catalogCSV), 0o644))
	require.NoError(t, os.WriteFile("empty.csv", nil, 0o644))

	out, err := execute(t, "missing.csv\nempty.csv\ncatalog.csv\nexit\n", "run")
	assert.ErrorIs(t, err, session.ErrExited)
	assert.Contains(t, out, "That file could not be opened")
	assert.Contains(t, out, "could not be read as a table")
	_, statErr := os.Stat("weeds.csv")
	assert.True(t, os.IsNotExist(statErr))
}

func TestRejectsBadFlags(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := execute(t, "", "run", "catalog.csv", "--coercion", "lenient")
	assert.Error(t, err)

	_, err = execute(t, "", "run", "catalog.csv", "--sort-by", "2", "--sort-mode", "random")
	assert.Error(t, err)

	_, err = execute(t, "", "run", "catalog.csv", "--sort-by", "2,3")
	assert.True(t, weederr.IsKind(err, weederr.KindConfig))

	_, err = execute(t, "", "apply")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "weedops v"+version)
}
