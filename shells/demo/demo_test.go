package demo

import (
	"bytes"
	"os"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephlewis42/nestsh/core/shell"
)

func TestMain(m *testing.M) {
	// Keep transcript assertions free of escape codes.
	color.NoColor = true
	os.Exit(m.Run())
}

// runScript replays a script through a fresh demo session and returns the
// transcript and the error sink.
func runScript(t *testing.T, script string) (string, string) {
	t.Helper()

	var out, errOut bytes.Buffer
	ed := shell.NewScriptEditLine(script, &out)
	store := shell.NewHistoryStore(afero.NewMemMapFs(), "/hist")

	s, err := shell.New(Root, shell.Options{
		RootPrompt: "demo",
		Batch:      true,
		Stdout:     &out,
		Stderr:     &errOut,
		Edit:       ed,
		History:    store,
	})
	require.NoError(t, err)

	_, err = s.Run()
	require.NoError(t, err)
	return out.String(), errOut.String()
}

func TestDefinitionsBuild(t *testing.T) {
	for _, def := range []*shell.Def{Root, Debug} {
		_, err := shell.New(def, shell.Options{Edit: shell.NewScriptEditLine("", nil)})
		assert.NoError(t, err, def.Name)
	}
}

func TestGreet(t *testing.T) {
	out, errOut := runScript(t, "greet\ngreet gopher\n")
	assert.Empty(t, errOut)
	assert.Contains(t, out, "hello, world!\n")
	assert.Contains(t, out, "hello, gopher!\n")
}

func TestGreetFlags(t *testing.T) {
	out, errOut := runScript(t, "greet -n 2 --shout gopher\n")
	assert.Empty(t, errOut)
	assert.Contains(t, out, "HELLO, GOPHER!\nHELLO, GOPHER!\n")
}

func TestGreetBadFlag(t *testing.T) {
	_, errOut := runScript(t, "greet -x\n")
	assert.Contains(t, errOut, "greet: ")
}

func TestShowWithoutContext(t *testing.T) {
	_, errOut := runScript(t, "show\n")
	assert.Empty(t, errOut, "an empty context prints nothing")

	_, errOut = runScript(t, "show missing\n")
	assert.Contains(t, errOut, `no such context key: "missing"`)
}

func TestNestPassesContext(t *testing.T) {
	out, errOut := runScript(t, "nest inner\nshow\nshow depth\nexit\n")
	assert.Empty(t, errOut)
	assert.Contains(t, out, "depth = 1\n")
	assert.Contains(t, out, "1\n")
}

func TestNestTwice(t *testing.T) {
	out, errOut := runScript(t, "nest a\nnest b\nshow depth\nexit root\n")
	assert.Empty(t, errOut)
	assert.Contains(t, out, "2\n")
}

func TestDebugStatusAndToggle(t *testing.T) {
	out, errOut := runScript(t, "debug\ndebug on\ndebug off\ndebug toggle\n")
	assert.Empty(t, errOut)
	// Initial status, then the toggle from off to on.
	assert.Contains(t, out, "off\n")
	assert.Contains(t, out, "on\n")
}

func TestDebugBadArgument(t *testing.T) {
	_, errOut := runScript(t, "debug sideways\n")
	assert.Contains(t, errOut, `unrecognized argument: "sideways"`)
}

func TestDebugShellLiteralLexer(t *testing.T) {
	out, errOut := runScript(t, "debug shell\np   a b \nexit\n")
	assert.Empty(t, errOut)
	// Everything after the command is one literal argument, whitespace
	// preserved.
	assert.Contains(t, out, "\"   a b \"\n")
}

func TestDebugShellContext(t *testing.T) {
	out, errOut := runScript(t, "debug shell\nctx invoked_from\nexit\n")
	assert.Empty(t, errOut)
	assert.Contains(t, out, "(demo)$ \n")
}

func TestDebugShellUnknownKey(t *testing.T) {
	_, errOut := runScript(t, "debug shell\nctx nope\nexit\n")
	assert.Contains(t, errOut, `no such context key: "nope"`)
}

func TestDebugShellInternalCommandsStillParse(t *testing.T) {
	// exit takes the default lexing rule even under the literal lexer;
	// "exit root" must not arrive as one argument.
	out, errOut := runScript(t, "nest a\ndebug shell\nexit root\nshow depth\n")
	assert.Contains(t, errOut, `no such context key: "depth"`, "back at the root, which has no context")
	assert.NotContains(t, out, "unrecognized")
}

func TestLiteralParse(t *testing.T) {
	cmd, args, err := literalParse("  p   a b  ")
	require.NoError(t, err)
	assert.Equal(t, "p", cmd)
	assert.Equal(t, []string{"   a b  "}, args)

	cmd, args, err = literalParse("solo")
	require.NoError(t, err)
	assert.Equal(t, "solo", cmd)
	assert.Equal(t, []string{""}, args)

	cmd, _, err = literalParse("   ")
	require.NoError(t, err)
	assert.Equal(t, "", cmd)
}

func TestHelpShowNamesKeys(t *testing.T) {
	var out bytes.Buffer
	ed := shell.NewScriptEditLine("", &out)
	s, err := shell.New(Root, shell.Options{Edit: ed, Stdout: &out})
	require.NoError(t, err)

	text, err := helpShow(s, "show", nil)
	require.NoError(t, err)
	assert.Contains(t, text, "no context values")
}
