package shell

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

// HelpMarker is the fixed terminal character that triggers the help
// overlay. It is detected by the completion driver and is never a command
// name.
const HelpMarker = "?"

// resolveHelp finds the help text for parsed tokens, in order: a registered
// helper for the command, the command's declared documentation, and finally
// a generic not-found message quoting the input.
func resolveHelp(s *Session, toks []string) (string, error) {
	if len(toks) == 0 {
		return s.def.docString(), nil
	}

	cmd := toks[0]
	if h, ok := s.reg.helpers[cmd]; ok {
		return h.Run(s, cmd, toks[1:])
	}

	if bind, ok := s.reg.all[cmd]; ok && bind.Doc != "" {
		return bind.Doc, nil
	}

	return fmt.Sprintf("No help message is found for:\n    %s\n", strings.Join(toks, " ")), nil
}

// writeHelpTable prints the shell documentation followed by a table of
// every registered command, one row per handler.
func writeHelpTable(s *Session) {
	fmt.Fprintln(s.stdout, strings.TrimRight(s.def.docString(), "\n"))
	fmt.Fprintln(s.stdout)

	tw := tabwriter.NewWriter(s.stdout, 8, 8, 4, ' ', 0)
	defer tw.Flush()

	fmt.Fprintf(tw, "COMMANDS\tDESCRIPTION\n")
	for _, cmd := range s.reg.uniqueCommands() {
		doc := "(no documentation available)"
		if cmd.Doc != "" {
			doc = firstLine(cmd.Doc)
		}
		fmt.Fprintf(tw, "%s\t%s\n", joinedNames(cmd), doc)
	}
}

func firstLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return strings.TrimSpace(text[:i])
	}
	return strings.TrimSpace(text)
}
