package shell

import (
	"io"
	"strings"
)

// CompleteFunc is the completion callback protocol between a session's
// driver and the line-editing facility. The facility calls it with the full
// edit buffer, the cursor position, the word under the cursor, and a
// candidate index starting at 0 for each new completion cycle. It returns
// the candidate at that index, or ok=false once candidates are exhausted.
type CompleteFunc func(line string, pos int, partial string, state int) (string, bool)

// EditLine is the line-editing facility a session reads from. It exposes
// process-wide mutable state: the active completion callback, the active
// delimiter set, and the active history buffer. Sessions share one EditLine
// and scope every change with save-on-entry/restore-on-exit discipline, so a
// nested session can never corrupt an ancestor's completion or history
// context.
//
// Implementations are not safe for concurrent use; the engine is strictly
// single-threaded.
type EditLine interface {
	// ReadLine blocks until a full line is available. It returns io.EOF
	// when the input is exhausted or the user types the end-of-input key.
	ReadLine(prompt string) (string, error)

	// Complete and SetComplete read and swap the active completion
	// callback.
	Complete() CompleteFunc
	SetComplete(fn CompleteFunc)

	// Delims and SetDelims read and swap the active set of word-delimiter
	// characters used to isolate the word under the cursor.
	Delims() string
	SetDelims(delims string)

	// History buffer operations. The buffer belongs to whichever session
	// currently runs; sessions persist it through their HistoryStore.
	AppendHistory(line string)
	ClearHistory()
	History() []string

	// Echo writes text into the transcript, e.g. the synthetic "exit"
	// echoed when the input ends.
	Echo(text string)

	Close() error
}

// defaultDelims matches the delimiters GNU-style line editors use out of
// the box.
const defaultDelims = " \t\n`~!@#$%^&*()-=+[{]}\\|;:'\",<>/?"

// nonDelims are removed from the active delimiter set while a session runs:
// hyphen so command names containing '-' complete, slash and backslash for
// filesystem paths, and '~' for home-directory expansion.
const nonDelims = `-/\~`

// stripDelims removes every rune of cut from delims.
func stripDelims(delims, cut string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(cut, r) {
			return -1
		}
		return r
	}, delims)
}

// wordStart returns the index just after the last delimiter before pos,
// i.e. the start of the word under the cursor.
func wordStart(line string, pos int, delims string) int {
	if pos > len(line) {
		pos = len(line)
	}
	start := 0
	for i, r := range line[:pos] {
		if strings.ContainsRune(delims, r) {
			start = i + 1 // may land past pos only if pos splits a rune
		}
	}
	if start > pos {
		start = pos
	}
	return start
}

// BatchEditLine replays a bounded queue of pre-supplied lines instead of
// blocking on interactive input. ReadLine returns io.EOF once the producer
// closes the queue, which the session loop turns into a clean exit rather
// than waiting forever.
type BatchEditLine struct {
	lines    <-chan string
	out      io.Writer
	complete CompleteFunc
	delims   string
	history  []string
}

var _ EditLine = (*BatchEditLine)(nil)

// NewBatchEditLine returns an EditLine fed from lines. The producer owns
// the channel and must close it when done. Echoed text goes to out.
func NewBatchEditLine(lines <-chan string, out io.Writer) *BatchEditLine {
	return &BatchEditLine{
		lines:  lines,
		out:    out,
		delims: defaultDelims,
	}
}

// NewScriptEditLine splits script into lines and queues them all up front.
func NewScriptEditLine(script string, out io.Writer) *BatchEditLine {
	lines := strings.Split(strings.TrimSuffix(script, "\n"), "\n")
	ch := make(chan string, len(lines))
	for _, l := range lines {
		ch <- l
	}
	close(ch)
	return NewBatchEditLine(ch, out)
}

func (b *BatchEditLine) ReadLine(prompt string) (string, error) {
	line, ok := <-b.lines
	if !ok {
		return "", io.EOF
	}
	return line, nil
}

func (b *BatchEditLine) Complete() CompleteFunc      { return b.complete }
func (b *BatchEditLine) SetComplete(fn CompleteFunc) { b.complete = fn }
func (b *BatchEditLine) Delims() string              { return b.delims }
func (b *BatchEditLine) SetDelims(delims string)     { b.delims = delims }
func (b *BatchEditLine) AppendHistory(line string)   { b.history = append(b.history, line) }
func (b *BatchEditLine) ClearHistory()               { b.history = nil }
func (b *BatchEditLine) History() []string           { return append([]string(nil), b.history...) }

func (b *BatchEditLine) Echo(text string) {
	if b.out != nil {
		io.WriteString(b.out, text)
	}
}

func (b *BatchEditLine) Close() error { return nil }
