package interactive

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// ErrUnexpectedToken is returned when a token does not fit the command tree.
var ErrUnexpectedToken = errors.New("unexpected token")

func unexpectedToken(token string, expected []string) error {
	if len(expected) == 0 {
		return fmt.Errorf("%w '%s'", ErrUnexpectedToken, token)
	}
	return fmt.Errorf("%w '%s' (expected one of: %s)", ErrUnexpectedToken, token, strings.Join(expected, ", "))
}

// ExpectEnd makes sure no tokens are left over.
func ExpectEnd(args []string) error {
	if len(args) > 0 {
		return unexpectedToken(args[0], nil)
	}
	return nil
}

// Prepend returns the child tokens preceded by the given parent tokens.
func Prepend(child []string, tokens ...string) []string {
	return append(append(make([]string, 0, len(tokens)+len(child)), tokens...), child...)
}

// NewFlagSet creates a flag set for node local flags.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SetInterspersed(false)
	return fs
}

// ParseFlags parses the leading dashed flags of args and returns the remaining tokens. Parsing
// stops at the first positional token so that child tokens are left alone.
func ParseFlags(fs *flag.FlagSet, args []string) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnexpectedToken, err)
	}
	return fs.Args(), nil
}

// Keyword consumes a named value, a keyword token followed by the value. It returns the raw
// value (nil when only the keyword or nothing was given) and the remaining tokens.
func Keyword(keyword string, args []string) (*string, []string, error) {
	if len(args) == 0 {
		return nil, args, nil
	}
	if args[0] != keyword {
		return nil, nil, unexpectedToken(args[0], []string{keyword})
	}
	if len(args) == 1 {
		return nil, args[1:], nil
	}
	value := args[1]
	return &value, args[2:], nil
}
