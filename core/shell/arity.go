package shell

import (
	"fmt"
	"sort"
	"strings"
)

// Arity declares how many arguments a command accepts. The zero value is
// ZeroOrMore, so commands that don't care need not set it.
//
// The session checks the argument count against the command's Arity before
// invoking the handler. A mismatch is reported to the error sink and the
// handler is not run; the session keeps going.
type Arity struct {
	kind    arityKind
	n       int
	allowed []int
}

type arityKind int

const (
	arityZeroOrMore arityKind = iota
	arityZeroOrOne
	arityOneOrMore
	arityExact
	arityAmong
)

var (
	// ZeroOrMore accepts any number of arguments.
	ZeroOrMore = Arity{kind: arityZeroOrMore}

	// ZeroOrOne accepts zero or one argument.
	ZeroOrOne = Arity{kind: arityZeroOrOne}

	// OneOrMore accepts at least one argument.
	OneOrMore = Arity{kind: arityOneOrMore}
)

// Exact accepts exactly n arguments.
func Exact(n int) Arity {
	return Arity{kind: arityExact, n: n}
}

// Among accepts any argument count in ns.
func Among(ns ...int) Arity {
	allowed := append([]int(nil), ns...)
	sort.Ints(allowed)
	return Arity{kind: arityAmong, allowed: allowed}
}

// Allows reports whether an argument count satisfies the rule.
func (a Arity) Allows(n int) bool {
	switch a.kind {
	case arityZeroOrOne:
		return n <= 1
	case arityOneOrMore:
		return n >= 1
	case arityExact:
		return n == a.n
	case arityAmong:
		for _, v := range a.allowed {
			if v == n {
				return true
			}
		}
		return false
	default:
		return true
	}
}

// validate reports declaration errors, e.g. a negative count. These are
// configuration mistakes and surface when the registry is built.
func (a Arity) validate() error {
	switch a.kind {
	case arityExact:
		if a.n < 0 {
			return fmt.Errorf("negative argument count: %d", a.n)
		}
	case arityAmong:
		if len(a.allowed) == 0 {
			return fmt.Errorf("empty argument count set")
		}
		for _, v := range a.allowed {
			if v < 0 {
				return fmt.Errorf("negative argument count: %d", v)
			}
		}
	}
	return nil
}

// Describe renders the expected argument shape for error messages.
func (a Arity) Describe() string {
	switch a.kind {
	case arityZeroOrOne:
		return "0 or 1 argument"
	case arityOneOrMore:
		return "1 or more arguments"
	case arityExact:
		if a.n == 1 {
			return "exactly 1 argument"
		}
		return fmt.Sprintf("exactly %d arguments", a.n)
	case arityAmong:
		parts := make([]string, len(a.allowed))
		for i, v := range a.allowed {
			parts[i] = fmt.Sprintf("%d", v)
		}
		return fmt.Sprintf("one of %s arguments", strings.Join(parts, ", "))
	default:
		return "any number of arguments"
	}
}
