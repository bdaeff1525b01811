package shell

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// driver is the single completion callback a session installs on the
// editing facility. A completion cycle starts at state 0, where the driver
// either renders the ?<TAB> help overlay or recomputes and caches the
// candidate list; later states serve the cache.
//
// Failures inside completers or the help resolver are reported to the error
// sink and treated as zero candidates. They must never reach the editing
// facility, which would swallow them silently.
type driver struct {
	s *Session

	// cache holds the candidates of the current cycle.
	cache []string
}

func (d *driver) complete(line string, pos int, partial string, state int) (cand string, ok bool) {
	if state > 0 {
		if state < len(d.cache) {
			return d.cache[state], true
		}
		return "", false
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(d.s.stderr, "\n%v\n%s", r, debug.Stack())
			d.cache = nil
			cand, ok = "", false
		}
	}()

	d.cache = nil

	// A trailing help marker turns the query into a help overlay instead
	// of a completion.
	trimmed := strings.TrimSpace(line)
	if strings.HasSuffix(trimmed, HelpMarker) {
		d.overlayHelp(trimmed)
		return "", false
	}

	toks, err := SplitPosix(line)
	if err != nil {
		// A half-typed quote is normal while editing; just no candidates.
		return "", false
	}

	if len(toks) == 0 || (len(toks) == 1 && partial == toks[0]) {
		// Still typing the first token: complete visible command names.
		d.cache = d.s.reg.visibleNames(partial)
	} else {
		cmd := toks[0]
		args := toks[1:]
		if partial != "" && len(args) > 0 {
			// Drop the in-progress word; completers see finished
			// arguments only.
			args = args[:len(args)-1]
		}
		if comp, ok := d.s.reg.completers[cmd]; ok {
			cands, err := comp.Run(d.s, cmd, args, partial)
			if err != nil {
				fmt.Fprintf(d.s.stderr, "\n%s: %v\n", cmd, err)
				cands = nil
			}
			d.cache = cands
		}
	}

	if len(d.cache) == 0 {
		return "", false
	}
	return d.cache[0], true
}

// overlayHelp renders help text straight to the output sink. It is a side
// effect, not a completion: the caller returns zero candidates afterwards.
func (d *driver) overlayHelp(trimmed string) {
	body := strings.TrimSpace(strings.TrimSuffix(trimmed, HelpMarker))

	var text string
	if body == "" {
		text = d.s.def.docString()
	} else {
		toks, err := SplitPosix(body)
		if err != nil || len(toks) == 0 {
			toks = strings.Fields(body)
		}
		text, err = resolveHelp(d.s, toks)
		if err != nil {
			fmt.Fprintf(d.s.stderr, "\n%v\n", err)
			return
		}
	}

	fmt.Fprintf(d.s.stdout, "\n%s\n", strings.TrimRight(text, "\n"))
}
