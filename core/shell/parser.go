package shell

import (
	"fmt"

	"github.com/anmitsu/go-shlex"
)

// commentMarker makes a line a no-op when it is the first non-space
// character.
const commentMarker = "#"

// SplitPosix tokenizes a line with POSIX shell word-splitting rules, so
// quoting and escaping behave the way bash users expect.
func SplitPosix(line string) ([]string, error) {
	toks, err := shlex.Split(line, true)
	if err != nil {
		return nil, fmt.Errorf("syntax error: %v", err)
	}
	return toks, nil
}

// defaultParseLine is the parsing rule used unless a Def overrides it: the
// first POSIX token is the command, the rest are the arguments.
func defaultParseLine(line string) (string, []string, error) {
	toks, err := SplitPosix(line)
	if err != nil {
		return "", nil, err
	}
	if len(toks) == 0 {
		return "", nil, nil
	}
	return toks[0], toks[1:], nil
}
