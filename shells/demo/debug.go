package demo

import (
	"fmt"
	"strings"

	"github.com/josephlewis42/nestsh/core/shell"
)

// Debug is a debugging subshell with its own lexing rule: everything after
// the first token is one literal argument, interior whitespace preserved.
// Internal commands (exit, history, stack, ...) bypass the override, so the
// shell is always navigable.
var Debug = &shell.Def{
	Name:   "dbg",
	Parent: shell.Base,
	Doc: `Debugging shell.

The lexer differs from a normal shell: everything after the command is one
literal argument. For example '  p   a b  ' passes '   a b  ' to p.

Commands:
    p <text>            print the literal argument, quoted
    ctx <key>           print a context value passed by the parent shell
`,
	ParseLine: literalParse,
	Commands: []shell.Command{
		{
			Names: []string{"p"},
			Run:   runPrintLiteral,
			NArgs: shell.Exact(1),
			Doc: `Print the literal argument, quoted.
    p <text>            show exactly what the lexer produced
`,
		},
		{
			Names: []string{"ctx"},
			Run:   runCtx,
			NArgs: shell.Exact(1),
			Doc: `Print a context value passed by the parent shell.
    ctx <key>           print the value stored under <key>
`,
		},
	},
	Completers: []shell.Completer{
		{Names: []string{"ctx"}, Run: completeShow},
	},
}

// literalParse keeps everything after the first token as a single literal
// argument, including interior whitespace.
func literalParse(line string) (string, []string, error) {
	trimmed := strings.TrimLeft(line, " \t")
	toks, err := shell.SplitPosix(trimmed)
	if err != nil {
		return "", nil, err
	}
	if len(toks) == 0 {
		return "", nil, nil
	}
	cmd := toks[0]
	return cmd, []string{strings.TrimPrefix(trimmed, cmd)}, nil
}

func runPrintLiteral(s *shell.Session, cmd string, args []string) (shell.Directive, error) {
	fmt.Fprintf(s.Stdout(), "%q\n", args[0])
	return shell.Continue, nil
}

func runCtx(s *shell.Session, cmd string, args []string) (shell.Directive, error) {
	key := strings.TrimSpace(args[0])
	if key == "" {
		return shell.Continue, fmt.Errorf("empty key")
	}
	value, ok := s.Context()[key]
	if !ok {
		return shell.Continue, fmt.Errorf("no such context key: %q", key)
	}
	fmt.Fprintf(s.Stdout(), "%v\n", value)
	return shell.Continue, nil
}
