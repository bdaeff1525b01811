package shell

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Base is the definition every shell should descend from. It provides the
// universal controls: exit navigation, history management, stack
// introspection, the help table, and the hidden process-exec escape hatch.
// All of them are internal, so they keep working under any custom
// line-parsing policy a descendant installs.
var Base = &Def{
	Name: "shell",
	Doc: `Interactive shell.

Get help:
    help                list this shell's commands
    ?<TAB>              describe this shell
    <command>?<TAB>     describe <command>

Navigation:
    exit | C-D          exit to the parent shell
    exit root | end     exit to the root shell
    exit all            exit the program
    stack               show how shells are nested
    stack <depth>       jump to the shell at <depth>

Execute a host command:
    ! <command>         run <command> through the host shell
`,
	Commands: []Command{
		{
			Names:    []string{"!"},
			Run:      runExec,
			Hidden:   true,
			Internal: true,
			NArgs:    ZeroOrMore,
			Doc: `Run a command through the host shell.
    ! <command>         stream the command's output into this session
`,
		},
		{
			Names:    []string{"exit", "end"},
			Run:      runExit,
			Internal: true,
			NArgs:    ZeroOrOne,
			Doc: `Exit the shell.
    exit | C-D          exit to the parent shell
    exit root | end     exit to the root shell
    exit all            exit the program
`,
		},
		{
			Names:    []string{"history"},
			Run:      runHistory,
			Internal: true,
			NArgs:    ZeroOrOne,
			Doc: `Display history.
    history             display this shell's history
    history clear       clear this shell's history
    history clearall    clear history for every shell
`,
		},
		{
			Names:    []string{"stack"},
			Run:      runStack,
			Internal: true,
			NArgs:    ZeroOrOne,
			Doc: `Manage the shell stack.
    stack               display the stack
    stack <depth>       exit to the shell at <depth>; 0 is the root
`,
		},
		{
			Names:    []string{"help"},
			Run:      runHelp,
			Internal: true,
			NArgs:    Exact(0),
			Doc:      "Display this shell's documentation and command table.\n",
		},
	},
	Completers: []Completer{
		{Names: []string{"exit"}, Run: completeExit},
		{Names: []string{"history"}, Run: completeHistory},
		{Names: []string{"stack"}, Run: completeStack},
	},
}

// runExec is the process-exec escape hatch: always available, hidden from
// completion, and parsed with the default rule like every internal command.
func runExec(s *Session, cmd string, args []string) (Directive, error) {
	if len(args) == 0 {
		return Continue, fmt.Errorf("empty command")
	}

	proc := exec.Command("/bin/sh", "-c", strings.Join(args, " "))
	proc.Stdout = s.stdout
	proc.Stderr = s.stderr
	if err := proc.Run(); err != nil {
		return Continue, err
	}
	return Continue, nil
}

func runExit(s *Session, cmd string, args []string) (Directive, error) {
	if cmd == "end" {
		if len(args) != 0 {
			return Continue, fmt.Errorf("unrecognized arguments: %v", args)
		}
		return ExitRoot, nil
	}

	if len(args) == 0 {
		return ExitParent, nil
	}
	switch args[0] {
	case "root":
		return ExitRoot, nil
	case "all":
		return ExitAll, nil
	}
	return Continue, fmt.Errorf("unrecognized argument: %q", args[0])
}

func completeExit(s *Session, cmd string, args []string, partial string) ([]string, error) {
	if len(args) != 0 {
		return nil, nil
	}
	return prefixed([]string{"all", "root"}, partial), nil
}

func runHistory(s *Session, cmd string, args []string) (Directive, error) {
	switch {
	case len(args) == 0:
		// Flush first so the display matches the live buffer.
		if err := s.history.Save(s.promptPath(), s.edit.History()); err != nil {
			return Continue, err
		}
		text, err := s.history.Read(s.promptPath())
		if err != nil {
			return Continue, err
		}
		fmt.Fprint(s.stdout, text)
		return Continue, nil

	case args[0] == "clear":
		s.edit.ClearHistory()
		return Continue, s.history.Clear(s.promptPath())

	case args[0] == "clearall":
		s.edit.ClearHistory()
		return Continue, s.history.ClearAll()
	}
	return Continue, fmt.Errorf("unrecognized argument: %q", args[0])
}

func completeHistory(s *Session, cmd string, args []string, partial string) ([]string, error) {
	if len(args) != 0 {
		return nil, nil
	}
	return prefixed([]string{"clear", "clearall"}, partial), nil
}

func runStack(s *Session, cmd string, args []string) (Directive, error) {
	if len(args) == 0 {
		writeStack(s)
		return Continue, nil
	}

	depth, err := strconv.Atoi(args[0])
	if err != nil {
		return Continue, fmt.Errorf("depth is not an integer: %q", args[0])
	}
	if depth < 0 {
		return Continue, fmt.Errorf("negative depth: %d", depth)
	}
	return ExitToDepth(depth), nil
}

func completeStack(s *Session, cmd string, args []string, partial string) ([]string, error) {
	if len(args) != 0 {
		return nil, nil
	}
	var depths []string
	for i := 0; i <= len(s.stack); i++ {
		depths = append(depths, strconv.Itoa(i))
	}
	return prefixed(depths, partial), nil
}

// writeStack dumps the mode stack as an indented tree:
//
//	0    root
//	1    └── debug: debug@[shell]
//	2        └── inner: nest@[inner]
func writeStack(s *Session) {
	width := len(strconv.Itoa(len(s.stack))) + 4

	fmt.Fprintf(s.stdout, "%-*d%s\n", width, 0, s.rootPrompt)
	for i, m := range s.stack {
		fmt.Fprintf(s.stdout, "%-*d%s└── %s: %s@%v\n",
			width, i+1, strings.Repeat("    ", i), m.Prompt, m.Cmd, m.Args)
	}
}

func runHelp(s *Session, cmd string, args []string) (Directive, error) {
	writeHelpTable(s)
	return Continue, nil
}

func prefixed(options []string, partial string) []string {
	var out []string
	for _, opt := range options {
		if strings.HasPrefix(opt, partial) {
			out = append(out, opt)
		}
	}
	return out
}
