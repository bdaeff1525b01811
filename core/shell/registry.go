package shell

import (
	"fmt"
	"sort"
	"strings"
)

// CommandFunc runs a command. cmd is the name that triggered the handler,
// useful when one handler is bound to several names. The returned Directive
// drives the session state machine; return Continue for ordinary commands.
type CommandFunc func(s *Session, cmd string, args []string) (Directive, error)

// HelperFunc produces the help text shown by the ?<TAB> overlay for a
// command. Preferred over the static Doc when the text depends on session
// state.
type HelperFunc func(s *Session, cmd string, args []string) (string, error)

// CompleterFunc returns completion candidates for a command's arguments.
// args holds the completed arguments so far, without the word being typed;
// partial is the word under the cursor.
type CompleterFunc func(s *Session, cmd string, args []string, partial string) ([]string, error)

// ParseFunc splits a raw input line into a command name and arguments.
type ParseFunc func(line string) (cmd string, args []string, err error)

// Command binds one handler to one or more command names.
type Command struct {
	// Names that trigger the handler. At least one is required and each
	// must be unique across the definition's whole ancestry.
	Names []string
	Run   CommandFunc
	// Doc is shown by `help` and by the ?<TAB> overlay when no Helper is
	// bound. The first line should be a short summary.
	Doc string
	// Hidden commands are excluded from tab completion.
	Hidden bool
	// Internal commands are always parsed with the default POSIX rule,
	// even when the definition overrides ParseLine. Universal controls
	// like exit and stack are internal so they stay reachable under any
	// custom lexing policy.
	Internal bool
	// NArgs is checked before Run is invoked. Zero value accepts any count.
	NArgs Arity
	// Deprecated commands print a removal warning before running.
	Deprecated bool
}

// Helper binds a HelperFunc to one or more command names.
type Helper struct {
	Names []string
	Run   HelperFunc
}

// Completer binds a CompleterFunc to one or more command names.
type Completer struct {
	Names []string
	Run   CompleterFunc
}

// Def declares a shell type: its name, documentation, and handler bindings.
// Definitions are assembled once as package values and never mutated; every
// session built from the same Def gets an identical registry.
//
// Parent chains definitions: a Def inherits every binding of its ancestors,
// and a name claimed by an ancestor may not be claimed again.
type Def struct {
	// Name identifies the definition in error messages and is the default
	// prompt fragment when a subshell launch doesn't provide one.
	Name string
	// Doc describes the shell. Shown for a bare ?<TAB>; empty docs fall
	// back to the nearest ancestor's.
	Doc string

	Parent *Def

	Commands   []Command
	Helpers    []Helper
	Completers []Completer

	// ParseLine replaces the default POSIX word splitting for this shell
	// and its descendants. Internal commands bypass it.
	ParseLine ParseFunc
}

// parseFunc returns the nearest ParseLine override up the ancestry, or the
// default POSIX rule.
func (d *Def) parseFunc() ParseFunc {
	for def := d; def != nil; def = def.Parent {
		if def.ParseLine != nil {
			return def.ParseLine
		}
	}
	return defaultParseLine
}

// docString returns the definition's documentation, walking up the ancestry
// until a non-empty one is found.
func (d *Def) docString() string {
	for def := d; def != nil; def = def.Parent {
		if def.Doc != "" {
			return def.Doc
		}
	}
	return ""
}

// ConfigError reports a broken shell definition, such as a name claimed by
// two handlers. It is returned from session construction and is fatal: a
// definition that fails to build must never reach the prompt.
type ConfigError struct {
	// Namespace is "command", "helper" or "completer".
	Namespace string
	Name      string
	// First and Second identify the competing handlers.
	First  string
	Second string

	// Reason carries other declaration errors, e.g. an invalid Arity.
	Reason error
}

func (e *ConfigError) Error() string {
	if e.Reason != nil {
		return fmt.Sprintf("%s %q registered by %s: %v", e.Namespace, e.Name, e.First, e.Reason)
	}
	return fmt.Sprintf("the %s %q already has handler %s, cannot register a second handler %s",
		e.Namespace, e.Name, e.First, e.Second)
}

// registry holds the name→binding maps for one session. Built once per
// session from the Def chain, then only read.
type registry struct {
	all      map[string]*Command
	visible  map[string]*Command
	internal map[string]*Command

	helpers    map[string]*Helper
	completers map[string]*Completer
}

// buildRegistry flattens a definition chain, oldest ancestor first, into the
// three name→handler maps. Any duplicate within a namespace is a ConfigError
// naming both handlers.
func buildRegistry(def *Def) (*registry, error) {
	reg := &registry{
		all:        make(map[string]*Command),
		visible:    make(map[string]*Command),
		internal:   make(map[string]*Command),
		helpers:    make(map[string]*Helper),
		completers: make(map[string]*Completer),
	}

	// Owner of every claimed name, per namespace, for duplicate reports.
	cmdOwner := make(map[string]string)
	helperOwner := make(map[string]string)
	completerOwner := make(map[string]string)

	for _, d := range lineage(def) {
		d := d
		for i := range d.Commands {
			c := &d.Commands[i]
			if len(c.Names) == 0 {
				return nil, &ConfigError{Namespace: "command", First: handlerID(d, "", i),
					Reason: fmt.Errorf("no names declared")}
			}
			if c.Run == nil {
				return nil, &ConfigError{Namespace: "command", Name: c.Names[0],
					First: handlerID(d, c.Names[0], i), Reason: fmt.Errorf("nil handler")}
			}
			if err := c.NArgs.validate(); err != nil {
				return nil, &ConfigError{Namespace: "command", Name: c.Names[0],
					First: handlerID(d, c.Names[0], i), Reason: err}
			}
			for _, name := range c.Names {
				if prev, ok := cmdOwner[name]; ok {
					return nil, &ConfigError{Namespace: "command", Name: name,
						First:  prev,
						Second: handlerID(d, c.Names[0], i)}
				}
				cmdOwner[name] = handlerID(d, c.Names[0], i)
				reg.all[name] = c
				if !c.Hidden {
					reg.visible[name] = c
				}
				if c.Internal {
					reg.internal[name] = c
				}
			}
		}

		for i := range d.Helpers {
			h := &d.Helpers[i]
			for _, name := range h.Names {
				if prev, ok := helperOwner[name]; ok {
					return nil, &ConfigError{Namespace: "helper", Name: name,
						First:  prev,
						Second: handlerID(d, h.Names[0], i)}
				}
				helperOwner[name] = handlerID(d, h.Names[0], i)
				reg.helpers[name] = h
			}
		}

		for i := range d.Completers {
			c := &d.Completers[i]
			for _, name := range c.Names {
				if prev, ok := completerOwner[name]; ok {
					return nil, &ConfigError{Namespace: "completer", Name: name,
						First:  prev,
						Second: handlerID(d, c.Names[0], i)}
				}
				completerOwner[name] = handlerID(d, c.Names[0], i)
				reg.completers[name] = c
			}
		}
	}

	return reg, nil
}

// lineage returns the definition chain ordered root ancestor first.
func lineage(def *Def) []*Def {
	var chain []*Def
	for d := def; d != nil; d = d.Parent {
		chain = append(chain, d)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// handlerID names a handler for ConfigError messages, e.g. "demo.greet".
func handlerID(d *Def, name string, idx int) string {
	defName := d.Name
	if defName == "" {
		defName = "(unnamed)"
	}
	if name == "" {
		return fmt.Sprintf("%s.#%d", defName, idx)
	}
	return defName + "." + name
}

// visibleNames returns the visible command names sharing a prefix, sorted
// and duplicate-free.
func (r *registry) visibleNames(prefix string) []string {
	var out []string
	for name := range r.visible {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// uniqueCommands returns each distinct command binding once, sorted by its
// joined name list. Used by the help table.
func (r *registry) uniqueCommands() []*Command {
	seen := make(map[*Command]bool)
	var out []*Command
	for _, c := range r.all {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return joinedNames(out[i]) < joinedNames(out[j])
	})
	return out
}

func joinedNames(c *Command) string {
	names := append([]string(nil), c.Names...)
	sort.Strings(names)
	return strings.Join(names, ",")
}

// Launch tells the Subshell composer how to enter the child shell.
type Launch struct {
	// Prompt is appended to the prompt path. Empty means the child
	// definition's name.
	Prompt string
	// Context is handed to the child and becomes its Context().
	Context map[string]interface{}
}

// Subshell composes a command handler with the subshell launcher. The decide
// callback runs first; returning nil aborts the launch and the parent simply
// continues, which makes conditional subshell commands straightforward.
func Subshell(child *Def, decide func(s *Session, cmd string, args []string) (*Launch, error)) CommandFunc {
	return func(s *Session, cmd string, args []string) (Directive, error) {
		launch, err := decide(s, cmd, args)
		if err != nil || launch == nil {
			return Continue, err
		}
		return s.LaunchSubshell(child, cmd, args, launch.Prompt, launch.Context)
	}
}
