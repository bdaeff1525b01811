package shell

import "fmt"

// A Directive is returned by a command handler to tell the session loop what
// to do next. The zero value is Continue.
//
// Directives unwind nested sessions: a terminating session hands its final
// directive to the parent's launcher, which either absorbs it or re-emits it
// as its own. ExitRoot is shorthand for ExitToDepth(0), so a single depth
// comparison in the loop covers both.
type Directive struct {
	kind  directiveKind
	depth int
}

type directiveKind int

const (
	directiveContinue directiveKind = iota
	directiveExitParent
	directiveExitDepth
	directiveExitAll
)

var (
	// Continue keeps the current session running.
	Continue = Directive{kind: directiveContinue}

	// ExitParent terminates the current session and resumes its parent.
	ExitParent = Directive{kind: directiveExitParent}

	// ExitRoot unwinds every session down to the root, which resumes.
	ExitRoot = Directive{kind: directiveExitDepth, depth: 0}

	// ExitAll unwinds every session including the root.
	ExitAll = Directive{kind: directiveExitAll}
)

// ExitToDepth unwinds nested sessions until the session at stack depth n is
// reached. Depth 0 is the root session.
func ExitToDepth(n int) Directive {
	return Directive{kind: directiveExitDepth, depth: n}
}

func (d Directive) String() string {
	switch d.kind {
	case directiveContinue:
		return "continue"
	case directiveExitParent:
		return "exit-parent"
	case directiveExitAll:
		return "exit-all"
	case directiveExitDepth:
		if d.depth == 0 {
			return "exit-root"
		}
		return fmt.Sprintf("exit-depth(%d)", d.depth)
	default:
		return fmt.Sprintf("directive(%d)", int(d.kind))
	}
}
