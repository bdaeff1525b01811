package shell

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cycle drains one full completion cycle and returns every candidate.
func cycle(d *driver, line string, partial string) []string {
	var out []string
	for state := 0; ; state++ {
		cand, ok := d.complete(line, len(line), partial, state)
		if !ok {
			return out
		}
		out = append(out, cand)
	}
}

func completionDef(record *[][]string) *Def {
	return &Def{
		Name:   "test",
		Parent: Base,
		Commands: []Command{
			{Names: []string{"show", "sh"}, Run: nopCommand, Doc: "Show a value.\nLonger text.\n"},
			{Names: []string{"shout"}, Run: nopCommand},
			{Names: []string{"secret"}, Run: nopCommand, Hidden: true},
		},
		Completers: []Completer{
			{Names: []string{"show"}, Run: func(s *Session, cmd string, args []string, partial string) ([]string, error) {
				*record = append(*record, args)
				return prefixed([]string{"alpha", "argon", "beta"}, partial), nil
			}},
		},
	}
}

func TestCompleteFirstToken(t *testing.T) {
	var record [][]string
	s, _, _, _, _ := scriptSession(t, completionDef(&record), "")

	got := cycle(s.drv, "sh", "sh")
	assert.Equal(t, []string{"sh", "shout", "show"}, got)

	assert.Empty(t, cycle(s.drv, "sec", "sec"), "hidden commands never complete")
	assert.Empty(t, cycle(s.drv, "zzz", "zzz"))
}

func TestCompleteFirstTokenIncludesInherited(t *testing.T) {
	var record [][]string
	s, _, _, _, _ := scriptSession(t, completionDef(&record), "")

	got := cycle(s.drv, "", "")
	assert.Contains(t, got, "exit")
	assert.Contains(t, got, "help")
	assert.Contains(t, got, "show")
	assert.NotContains(t, got, "!", "hidden escape hatch stays hidden")
	assert.NotContains(t, got, "secret")
}

func TestCompleteArgumentDispatch(t *testing.T) {
	var record [][]string
	s, _, _, _, _ := scriptSession(t, completionDef(&record), "")

	// In-progress word is stripped before the completer runs.
	got := cycle(s.drv, "show a", "a")
	assert.Equal(t, []string{"alpha", "argon"}, got)
	require.Len(t, record, 1)
	assert.Empty(t, record[0])

	got = cycle(s.drv, "show first ar", "ar")
	assert.Equal(t, []string{"argon"}, got)
	require.Len(t, record, 2)
	assert.Equal(t, []string{"first"}, record[1])

	// Fresh word after a space: nothing is stripped.
	got = cycle(s.drv, "show first ", "")
	assert.Equal(t, []string{"alpha", "argon", "beta"}, got)
	require.Len(t, record, 3)
	assert.Equal(t, []string{"first"}, record[2])
}

func TestCompleteNoCompleterNoCandidates(t *testing.T) {
	var record [][]string
	s, _, _, _, _ := scriptSession(t, completionDef(&record), "")

	assert.Empty(t, cycle(s.drv, "shout a", "a"))
}

func TestCompleteCompleterErrorYieldsNothing(t *testing.T) {
	def := &Def{
		Name:   "test",
		Parent: Base,
		Commands: []Command{
			{Names: []string{"fail"}, Run: nopCommand},
		},
		Completers: []Completer{
			{Names: []string{"fail"}, Run: func(s *Session, cmd string, args []string, partial string) ([]string, error) {
				return []string{"ignored"}, fmt.Errorf("backend down")
			}},
		},
	}
	s, _, errOut, _, _ := scriptSession(t, def, "")

	assert.Empty(t, cycle(s.drv, "fail x", "x"))
	assert.Contains(t, errOut.String(), "fail: backend down")
}

func TestCompleteCompleterPanicYieldsNothing(t *testing.T) {
	def := &Def{
		Name:   "test",
		Parent: Base,
		Commands: []Command{
			{Names: []string{"boom"}, Run: nopCommand},
		},
		Completers: []Completer{
			{Names: []string{"boom"}, Run: func(s *Session, cmd string, args []string, partial string) ([]string, error) {
				panic("completer exploded")
			}},
		},
	}
	s, _, errOut, _, _ := scriptSession(t, def, "")

	assert.Empty(t, cycle(s.drv, "boom x", "x"))
	assert.Contains(t, errOut.String(), "completer exploded")
}

func TestCompleteUnterminatedQuote(t *testing.T) {
	var record [][]string
	s, _, _, _, _ := scriptSession(t, completionDef(&record), "")

	assert.Empty(t, cycle(s.drv, `show "unclo`, "unclo"))
	assert.Empty(t, record, "the completer is never consulted")
}

func TestCompleteCacheServesOneCycle(t *testing.T) {
	var record [][]string
	s, _, _, _, _ := scriptSession(t, completionDef(&record), "")

	// One cycle runs the completer exactly once.
	cycle(s.drv, "show a", "a")
	assert.Len(t, record, 1)

	// States past the end of the cache keep returning nothing.
	_, ok := s.drv.complete("show a", 6, "a", 99)
	assert.False(t, ok)
	assert.Len(t, record, 1)

	// A new cycle recomputes.
	cycle(s.drv, "show a", "a")
	assert.Len(t, record, 2)
}

func TestCompleteExitBuiltin(t *testing.T) {
	var record [][]string
	s, _, _, _, _ := scriptSession(t, completionDef(&record), "")

	assert.Equal(t, []string{"all", "root"}, cycle(s.drv, "exit ", ""))
	assert.Equal(t, []string{"root"}, cycle(s.drv, "exit r", "r"))
	assert.Empty(t, cycle(s.drv, "exit root ", ""), "only the first argument completes")
}

func TestCompleteStackBuiltin(t *testing.T) {
	var probe []string
	s, _, _, _, _ := scriptSession(t, newNestingDef(&probe), "")

	assert.Equal(t, []string{"0"}, cycle(s.drv, "stack ", ""))
}

func TestHelpOverlayForCommand(t *testing.T) {
	var record [][]string
	s, out, _, _, _ := scriptSession(t, completionDef(&record), "")

	got := cycle(s.drv, "show?", "show?")
	assert.Empty(t, got, "the overlay yields no candidates")
	assert.Contains(t, out.String(), "Show a value.")
}

func TestHelpOverlayForShell(t *testing.T) {
	var record [][]string
	s, out, _, _, _ := scriptSession(t, completionDef(&record), "")

	cycle(s.drv, "?", "?")
	// The definition has no doc of its own, so the base doc shows.
	assert.Contains(t, out.String(), "Interactive shell.")
}

func TestHelpOverlayUnknown(t *testing.T) {
	var record [][]string
	s, out, _, _, _ := scriptSession(t, completionDef(&record), "")

	cycle(s.drv, "no such thing?", "thing?")
	assert.Contains(t, out.String(), "No help message is found for:")
	assert.Contains(t, out.String(), "no such thing")
}
