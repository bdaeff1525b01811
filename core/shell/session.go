package shell

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/spf13/afero"
)

// eofLine is the synthetic line the loop substitutes when input ends. It is
// dispatched exactly like the literal "exit" command.
const eofLine = "\x04"

// ModeFrame records why and how a subshell was entered from its parent.
// Created once at launch time and never mutated.
type ModeFrame struct {
	// Parent is a back-reference to the launching session, used only for
	// introspection such as the stack dump.
	Parent *Session

	// Cmd and Args are the command that triggered the launch.
	Cmd  string
	Args []string

	// Prompt is this frame's fragment of the prompt path.
	Prompt string

	// Context carries data handed from the parent to the child.
	Context map[string]interface{}
}

// Options configures a root session. Subshells inherit everything from
// their parent and cannot be configured directly.
type Options struct {
	// RootPrompt labels the root of the prompt path. Defaults to "root".
	RootPrompt string

	// Debug turns on session trace output on the error sink.
	Debug bool

	// Batch marks the session as non-interactive.
	Batch bool

	// Stdout and Stderr are the session's output and error sinks.
	// Default to os.Stdout and os.Stderr.
	Stdout io.Writer
	Stderr io.Writer

	// Edit is the line-editing facility. Required.
	Edit EditLine

	// History persists per-session history files. Defaults to a store
	// under the OS temp directory.
	History *HistoryStore
}

// Session is one running shell instance: a definition bound to a registry,
// a mode stack, and the shared editing facility. A session is owned by the
// Run loop that created it and must not be reused after Run returns.
type Session struct {
	def *Def
	reg *registry

	// Debug may be toggled at runtime, e.g. by a debug command.
	Debug bool

	rootPrompt string
	stack      []ModeFrame
	parse      ParseFunc

	stdout io.Writer
	stderr io.Writer

	edit    EditLine
	history *HistoryStore
	batch   bool

	drv *driver
}

// New builds a root session for def. It fails with a ConfigError if the
// definition's bindings collide; that is fatal and must abort startup
// before any prompt is shown.
func New(def *Def, opts Options) (*Session, error) {
	if opts.Edit == nil {
		return nil, fmt.Errorf("shell: Options.Edit is required")
	}

	reg, err := buildRegistry(def)
	if err != nil {
		return nil, err
	}

	s := &Session{
		def:        def,
		reg:        reg,
		Debug:      opts.Debug,
		rootPrompt: opts.RootPrompt,
		parse:      def.parseFunc(),
		stdout:     opts.Stdout,
		stderr:     opts.Stderr,
		edit:       opts.Edit,
		history:    opts.History,
		batch:      opts.Batch,
	}
	if s.rootPrompt == "" {
		s.rootPrompt = "root"
	}
	if s.stdout == nil {
		s.stdout = os.Stdout
	}
	if s.stderr == nil {
		s.stderr = os.Stderr
	}
	if s.history == nil {
		s.history = NewHistoryStore(afero.NewOsFs(), filepath.Join(os.TempDir(), "nestsh"))
	}
	s.drv = &driver{s: s}

	return s, nil
}

// newChild builds a subshell session sharing the parent's sinks, editing
// facility, history store and flags. stack must be a freshly constructed
// slice; frames are never shared mutably between sessions.
func newChild(def *Def, parent *Session, stack []ModeFrame) (*Session, error) {
	reg, err := buildRegistry(def)
	if err != nil {
		return nil, err
	}

	s := &Session{
		def:        def,
		reg:        reg,
		Debug:      parent.Debug,
		rootPrompt: parent.rootPrompt,
		stack:      stack,
		parse:      def.parseFunc(),
		stdout:     parent.stdout,
		stderr:     parent.stderr,
		edit:       parent.edit,
		history:    parent.history,
		batch:      parent.batch,
	}
	s.drv = &driver{s: s}
	return s, nil
}

// Def returns the definition this session was built from.
func (s *Session) Def() *Def { return s.def }

// Depth is the session's position in the shell tree: 0 for the root.
func (s *Session) Depth() int { return len(s.stack) }

// Parent returns the session that launched this one, or nil at the root.
func (s *Session) Parent() *Session {
	if len(s.stack) == 0 {
		return nil
	}
	return s.stack[len(s.stack)-1].Parent
}

// Context returns the data the parent passed at launch time. Never nil.
func (s *Session) Context() map[string]interface{} {
	if len(s.stack) == 0 || s.stack[len(s.stack)-1].Context == nil {
		return map[string]interface{}{}
	}
	return s.stack[len(s.stack)-1].Context
}

// Stack returns the mode frames from the root down to this session.
func (s *Session) Stack() []ModeFrame {
	return append([]ModeFrame(nil), s.stack...)
}

// Stdout returns the session's output sink.
func (s *Session) Stdout() io.Writer { return s.stdout }

// Stderr returns the session's error sink.
func (s *Session) Stderr() io.Writer { return s.stderr }

// Batch reports whether the session replays pre-supplied input.
func (s *Session) Batch() bool { return s.batch }

// promptPath joins the root label with every frame's prompt fragment. It
// names the session's history file, so it must be deterministic.
func (s *Session) promptPath() string {
	parts := make([]string, 0, len(s.stack)+1)
	parts = append(parts, s.rootPrompt)
	for _, m := range s.stack {
		parts = append(parts, m.Prompt)
	}
	return strings.Join(parts, "-")
}

// Prompt renders the session prompt, e.g. "(root-debug)$ ".
func (s *Session) Prompt() string {
	return "(" + s.promptPath() + ")$ "
}

// Errorf reports a recoverable problem to the error sink.
func (s *Session) Errorf(format string, args ...interface{}) {
	fmt.Fprintf(s.stderr, format, args...)
}

// Debugf writes session trace output when debugging is on.
func (s *Session) Debugf(format string, args ...interface{}) {
	if s.Debug {
		fmt.Fprintf(s.stderr, "DEBUG "+format+"\n", args...)
	}
}

// Run drives the session until it terminates and returns the directive that
// ended it. It scopes the editing facility's completer, delimiter set and
// history buffer with save/restore discipline matching the recursion, and
// persists history around the loop.
func (s *Session) Run() (Directive, error) {
	s.Debugf("enter shell %q", s.promptPath())

	savedComplete := s.edit.Complete()
	savedDelims := s.edit.Delims()
	s.edit.SetComplete(s.drv.complete)
	s.edit.SetDelims(stripDelims(savedDelims, nonDelims))

	s.edit.ClearHistory()
	if lines, err := s.history.Load(s.promptPath()); err != nil {
		s.Errorf("history: %v\n", err)
	} else {
		for _, line := range lines {
			s.edit.AppendHistory(line)
		}
	}

	result := Continue
	defer func() {
		s.edit.SetComplete(savedComplete)
		if err := s.history.Save(s.promptPath(), s.edit.History()); err != nil {
			s.Errorf("history: %v\n", err)
		}
		s.edit.SetDelims(savedDelims)
		s.Debugf("leave shell %q: %v", s.promptPath(), result)
	}()

	for {
		line, err := s.edit.ReadLine(s.Prompt())
		switch {
		case err == io.EOF:
			line = eofLine
		case err != nil:
			s.Errorf("readline: %v\n", err)
			continue
		default:
			if strings.TrimSpace(line) != "" {
				s.edit.AppendHistory(line)
			}
		}

		d := s.execLine(line)

		switch d.kind {
		case directiveContinue:
			// Stay running.

		case directiveExitParent:
			result = ExitParent
			return result, nil

		case directiveExitAll:
			result = ExitAll
			return result, nil

		case directiveExitDepth:
			depth := len(s.stack)
			switch {
			case depth > d.depth:
				// Not the target level yet; terminate and let the
				// ancestor re-emit.
				result = d
				return result, nil
			case depth == d.depth:
				// This is the target level; resume here. The root
				// absorbs exit-root the same way.
			default:
				// Unreachable by construction, except via a stack
				// jump past the current depth. Reject rather than
				// unwind inconsistently.
				s.Errorf("stack: cannot exit to depth %d from depth %d\n", d.depth, depth)
			}
		}
	}
}

// execLine runs one input line through parse → resolve → arity check →
// invoke. Handler failures, including panics, are reported and never
// terminate the session.
func (s *Session) execLine(line string) (d Directive) {
	defer func() {
		if r := recover(); r != nil {
			s.Errorf("%v\n%s", r, debug.Stack())
			d = Continue
		}
	}()

	if line == eofLine {
		// Behave exactly as if the user had typed "exit", and echo it so
		// the transcript shows why the session ended.
		s.edit.Echo("exit\n")
		line = "exit"
	}

	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, commentMarker) {
		return Continue
	}

	toks, err := SplitPosix(line)
	if err != nil {
		s.Errorf("%v\n", err)
		return Continue
	}
	if len(toks) == 0 {
		return Continue
	}

	var cmd string
	var args []string
	if _, ok := s.reg.internal[toks[0]]; ok {
		// Internal commands always use the default rule so that exit,
		// history and stack work under any custom lexing policy.
		cmd, args = toks[0], toks[1:]
	} else {
		cmd, args, err = s.parse(line)
		if err != nil {
			s.Errorf("%v\n", err)
			return Continue
		}
	}

	bind, ok := s.reg.all[cmd]
	if !ok {
		s.Errorf("%s: command not found\n", cmd)
		return Continue
	}

	if !bind.NArgs.Allows(len(args)) {
		s.Errorf("%s: expect %s, provided %d: %v\n", cmd, bind.NArgs.Describe(), len(args), args)
		return Continue
	}

	if bind.Deprecated {
		fmt.Fprintln(s.stdout, "This command is deprecated and is subject to removal in a later version without notice.")
	}

	d, err = bind.Run(s, cmd, args)
	if err != nil {
		s.Errorf("%s: %v\n", cmd, err)
		return Continue
	}
	return d
}

// LaunchSubshell runs a child session to completion and translates its
// terminal directive into the parent's next one. The launch blocks until
// the child exits; there is no concurrency.
//
// The parent's history is flushed before the child starts and reloaded
// afterwards, because the child may have wiped the shared history store.
func (s *Session) LaunchSubshell(child *Def, cmd string, args []string, prompt string, context map[string]interface{}) (Directive, error) {
	if err := s.history.Save(s.promptPath(), s.edit.History()); err != nil {
		s.Errorf("history: %v\n", err)
	}

	if prompt == "" {
		prompt = child.Name
	}
	frame := ModeFrame{
		Parent:  s,
		Cmd:     cmd,
		Args:    append([]string(nil), args...),
		Prompt:  prompt,
		Context: context,
	}
	// Fresh stack per child; never extend the parent's slice in place.
	stack := make([]ModeFrame, 0, len(s.stack)+1)
	stack = append(stack, s.stack...)
	stack = append(stack, frame)

	sub, err := newChild(child, s, stack)
	if err != nil {
		return Continue, err
	}

	s.Debugf("leave parent shell %q", s.promptPath())
	d, err := sub.Run()
	s.Debugf("enter parent shell %q: %v", s.promptPath(), d)

	// Reload our own history; the child may have cleared the store.
	s.edit.ClearHistory()
	if lines, loadErr := s.history.Load(s.promptPath()); loadErr == nil {
		for _, line := range lines {
			s.edit.AppendHistory(line)
		}
	}

	if err != nil {
		return Continue, err
	}
	if d.kind == directiveExitParent {
		// The child exited to us; we just resume.
		return Continue, nil
	}
	return d, nil
}
