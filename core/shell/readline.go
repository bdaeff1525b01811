package shell

import (
	"io"
	"strings"

	"github.com/abiosoft/readline"
)

// TermEditLine is the interactive EditLine, backed by the readline library.
// It adapts readline's AutoCompleter hook to the CompleteFunc protocol and
// mirrors the history buffer so sessions can save and restore it around
// their loops.
type TermEditLine struct {
	rl *readline.Instance

	complete CompleteFunc
	delims   string
	history  []string
}

var _ EditLine = (*TermEditLine)(nil)
var _ io.Writer = (*TermEditLine)(nil)

// NewTermEditLine builds a terminal EditLine on the given streams. stdin is
// typically os.Stdin; stdout doubles as the transcript sink.
func NewTermEditLine(stdin io.ReadCloser, stdout, stderr io.Writer) (*TermEditLine, error) {
	t := &TermEditLine{delims: defaultDelims}

	cfg := &readline.Config{
		Stdin:  readline.NewCancelableStdin(stdin),
		Stdout: stdout,
		Stderr: stderr,

		// The engine owns history persistence; readline must not write
		// files behind its back.
		DisableAutoSaveHistory: true,

		AutoComplete: (*termCompleter)(t),
	}

	if err := cfg.Init(); err != nil {
		return nil, err
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, err
	}
	t.rl = rl

	return t, nil
}

func (t *TermEditLine) ReadLine(prompt string) (string, error) {
	t.rl.SetPrompt(prompt)
	line, err := t.rl.Readline()
	switch {
	case err == readline.ErrInterrupt:
		// Interrupt clears the line; the session just re-prompts.
		return "", nil
	case err != nil:
		return "", err
	}
	return line, nil
}

func (t *TermEditLine) Complete() CompleteFunc      { return t.complete }
func (t *TermEditLine) SetComplete(fn CompleteFunc) { t.complete = fn }
func (t *TermEditLine) Delims() string              { return t.delims }
func (t *TermEditLine) SetDelims(delims string)     { t.delims = delims }

func (t *TermEditLine) AppendHistory(line string) {
	t.history = append(t.history, line)
	t.rl.SaveHistory(line)
}

func (t *TermEditLine) ClearHistory() {
	t.history = nil
	t.rl.Operation.ResetHistory()
}

func (t *TermEditLine) History() []string {
	return append([]string(nil), t.history...)
}

func (t *TermEditLine) Echo(text string) {
	io.WriteString(t.rl, text)
}

// Write lets the TermEditLine serve as a session's stdout sink. Writing
// through the readline instance keeps the prompt redrawn after output, so
// the ?<TAB> help overlay doesn't garble the edit line.
func (t *TermEditLine) Write(p []byte) (int, error) {
	return t.rl.Write(p)
}

func (t *TermEditLine) Close() error {
	return t.rl.Close()
}

// termCompleter adapts the CompleteFunc protocol to readline's
// AutoCompleter. readline wants every candidate in one call, so it drains a
// whole completion cycle, converting each candidate into the suffix that
// extends the word under the cursor.
type termCompleter TermEditLine

func (tc *termCompleter) Do(line []rune, pos int) ([][]rune, int) {
	t := (*TermEditLine)(tc)
	if t.complete == nil {
		return nil, 0
	}

	buf := string(line)
	upToCursor := string(line[:pos])
	start := wordStart(upToCursor, len(upToCursor), t.delims)
	partial := upToCursor[start:]

	var candidates [][]rune
	for state := 0; ; state++ {
		cand, ok := t.complete(buf, len(upToCursor), partial, state)
		if !ok {
			break
		}
		if strings.HasPrefix(cand, partial) {
			candidates = append(candidates, []rune(cand[len(partial):]))
		}
	}

	return candidates, len([]rune(partial))
}
