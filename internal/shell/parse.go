package shell

import (
	"fmt"

	"github.com/google/shlex"
)

// ParseCommand splits a command line into words using shell quoting rules.
// A word of the form $NAME is replaced by getenv(NAME); unset variables
// expand to an empty word.
func ParseCommand(line string, getenv func(string) string) ([]string, error) {
	words, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", line, err)
	}

	for i, w := range words {
		if len(w) > 1 && w[0] == '$' {
			words[i] = getenv(w[1:])
		}
	}
	return words, nil
}
