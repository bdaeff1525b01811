package shell

import (
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunExitVariants(t *testing.T) {
	var probe []string
	s, _, _, _, _ := scriptSession(t, newNestingDef(&probe), "")

	d, err := runExit(s, "exit", nil)
	require.NoError(t, err)
	assert.Equal(t, ExitParent, d)

	d, err = runExit(s, "exit", []string{"root"})
	require.NoError(t, err)
	assert.Equal(t, ExitRoot, d)

	d, err = runExit(s, "exit", []string{"all"})
	require.NoError(t, err)
	assert.Equal(t, ExitAll, d)

	_, err = runExit(s, "exit", []string{"sideways"})
	assert.Error(t, err)

	d, err = runExit(s, "end", nil)
	require.NoError(t, err)
	assert.Equal(t, ExitRoot, d)

	_, err = runExit(s, "end", []string{"root"})
	assert.Error(t, err, "end takes no arguments")
}

func TestRunExecStreamsOutput(t *testing.T) {
	var probe []string
	s, out, _, _, _ := scriptSession(t, newNestingDef(&probe), "")

	d, err := runExec(s, "!", []string{"echo", "from", "the", "host"})
	require.NoError(t, err)
	assert.Equal(t, Continue, d)
	assert.Equal(t, "from the host\n", out.String())
}

func TestRunExecEmpty(t *testing.T) {
	var probe []string
	s, _, _, _, _ := scriptSession(t, newNestingDef(&probe), "")

	_, err := runExec(s, "!", nil)
	assert.EqualError(t, err, "empty command")
}

func TestRunExecFailure(t *testing.T) {
	var probe []string
	s, _, _, _, _ := scriptSession(t, newNestingDef(&probe), "")

	_, err := runExec(s, "!", []string{"exit", "3"})
	assert.Error(t, err)
}

func TestWriteStackGolden(t *testing.T) {
	g := goldie.New(
		t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithDiffEngine(goldie.ColoredDiff),
		goldie.WithTestNameForDir(true),
	)

	var probe []string
	s, out, _, _, _ := scriptSession(t, newNestingDef(&probe), "")
	s.stack = []ModeFrame{
		{Prompt: "debug", Cmd: "debug", Args: []string{"shell"}},
		{Prompt: "inner", Cmd: "nest", Args: []string{"inner"}},
	}

	writeStack(s)
	g.Assert(t, "stack", out.Bytes())
}

func TestPrefixed(t *testing.T) {
	opts := []string{"clear", "clearall", "other"}

	assert.Equal(t, []string{"clear", "clearall", "other"}, prefixed(opts, ""))
	assert.Equal(t, []string{"clear", "clearall"}, prefixed(opts, "cl"))
	assert.Equal(t, []string{"clearall"}, prefixed(opts, "cleara"))
	assert.Empty(t, prefixed(opts, "z"))
}
