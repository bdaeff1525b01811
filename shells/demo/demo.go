// Package demo wires the shell framework into a small example tree: a root
// shell with a few commands, a self-nesting subshell, and a debugging
// subshell with its own line-parsing rule.
package demo

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/pborman/getopt/v2"

	"github.com/josephlewis42/nestsh/core/shell"
)

var greetColor = color.New(color.FgGreen, color.Bold)

// Root is the shell the demo CLI starts in. It is assigned in init to break
// the initialization cycle between Root and runNest.
var Root *shell.Def

func init() {
	Root = &shell.Def{
		Name:   "demo",
		Parent: shell.Base,
		Doc: `Demo shell.

Commands:
    greet [-n N] [-s] [NAME]    print a greeting
    show [KEY]                  display this shell's context
    nest [PROMPT]               enter a nested copy of this shell
    debug {on,off,toggle,shell} control debugging, or enter the debug shell

Type help for the full command table, or <command>?<TAB> for details.
`,
		Commands: []shell.Command{
			{
				Names: []string{"greet"},
				Run:   runGreet,
				NArgs: shell.ZeroOrMore,
				Doc: `Print a greeting.
    greet               greet the world
    greet NAME          greet NAME
    greet -n 3 -s NAME  greet NAME three times, loudly
`,
			},
			{
				Names: []string{"show"},
				Run:   runShow,
				NArgs: shell.ZeroOrOne,
			},
			{
				Names: []string{"nest"},
				Run:   runNest,
				NArgs: shell.ZeroOrOne,
				Doc: `Enter a nested copy of this shell.
    nest                use the default prompt fragment
    nest PROMPT         label the nested shell PROMPT
`,
			},
			{
				Names:    []string{"debug"},
				Run:      shell.Subshell(Debug, decideDebug),
				Internal: true,
				NArgs:    shell.ZeroOrOne,
				Doc: `Control debugging.
    debug               show the current debugging status
    debug {on,off}      turn debugging on or off
    debug toggle        flip the current status
    debug shell         enter the debugging shell
`,
			},
		},
		Helpers: []shell.Helper{
			{Names: []string{"show"}, Run: helpShow},
		},
		Completers: []shell.Completer{
			{Names: []string{"show"}, Run: completeShow},
			{Names: []string{"debug"}, Run: completeDebug},
		},
	}
}

func runGreet(s *shell.Session, cmd string, args []string) (shell.Directive, error) {
	opts := getopt.New()
	count := opts.IntLong("count", 'n', 1, "number of greetings")
	shout := opts.BoolLong("shout", 's', "uppercase the greeting")
	if err := opts.Getopt(append([]string{cmd}, args...), nil); err != nil {
		return shell.Continue, err
	}

	name := "world"
	if rest := opts.Args(); len(rest) > 0 {
		name = strings.Join(rest, " ")
	}

	text := fmt.Sprintf("hello, %s!", name)
	if *shout {
		text = strings.ToUpper(text)
	}
	for i := 0; i < *count; i++ {
		greetColor.Fprintln(s.Stdout(), text)
	}
	return shell.Continue, nil
}

func runShow(s *shell.Session, cmd string, args []string) (shell.Directive, error) {
	ctx := s.Context()

	if len(args) == 0 {
		for _, key := range contextKeys(ctx) {
			fmt.Fprintf(s.Stdout(), "%s = %v\n", key, ctx[key])
		}
		return shell.Continue, nil
	}

	value, ok := ctx[args[0]]
	if !ok {
		return shell.Continue, fmt.Errorf("no such context key: %q", args[0])
	}
	fmt.Fprintf(s.Stdout(), "%v\n", value)
	return shell.Continue, nil
}

// helpShow renders help that depends on session state, which a static doc
// string can't.
func helpShow(s *shell.Session, cmd string, args []string) (string, error) {
	keys := contextKeys(s.Context())
	if len(keys) == 0 {
		return "Display this shell's context. This shell has no context values.\n", nil
	}
	return fmt.Sprintf("Display this shell's context.\nAvailable keys: %s\n", strings.Join(keys, ", ")), nil
}

func completeShow(s *shell.Session, cmd string, args []string, partial string) ([]string, error) {
	if len(args) != 0 {
		return nil, nil
	}
	var out []string
	for _, key := range contextKeys(s.Context()) {
		if strings.HasPrefix(key, partial) {
			out = append(out, key)
		}
	}
	return out, nil
}

func runNest(s *shell.Session, cmd string, args []string) (shell.Directive, error) {
	prompt := ""
	if len(args) == 1 {
		prompt = args[0]
	}
	return s.LaunchSubshell(Root, cmd, args, prompt, map[string]interface{}{
		"depth": s.Depth() + 1,
	})
}

func decideDebug(s *shell.Session, cmd string, args []string) (*shell.Launch, error) {
	onOff := func() string {
		if s.Debug {
			return "on"
		}
		return "off"
	}

	if len(args) == 0 {
		fmt.Fprintln(s.Stdout(), onOff())
		return nil, nil
	}

	switch args[0] {
	case "on":
		s.Debug = true
	case "off":
		s.Debug = false
	case "toggle":
		s.Debug = !s.Debug
		fmt.Fprintln(s.Stdout(), onOff())
	case "shell":
		return &shell.Launch{
			Prompt: "DEBUG",
			Context: map[string]interface{}{
				"invoked_from": s.Prompt(),
			},
		}, nil
	default:
		return nil, fmt.Errorf("unrecognized argument: %q", args[0])
	}
	return nil, nil
}

func completeDebug(s *shell.Session, cmd string, args []string, partial string) ([]string, error) {
	if len(args) != 0 {
		return nil, nil
	}
	var out []string
	for _, opt := range []string{"off", "on", "shell", "toggle"} {
		if strings.HasPrefix(opt, partial) {
			out = append(out, opt)
		}
	}
	return out, nil
}

func contextKeys(ctx map[string]interface{}) []string {
	keys := make([]string, 0, len(ctx))
	for key := range ctx {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
