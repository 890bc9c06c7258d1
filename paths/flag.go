package paths

import (
	"flag"
	"strings"
)

// ListFlag collects every occurrence of a repeated string flag.
type ListFlag []string

func (l *ListFlag) String() string { return strings.Join(*l, ",") }

// Set appends v.
func (l *ListFlag) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// SetupListFlag registers a repeatable flag with the passed name on the
// default flag set.
func SetupListFlag(flagName, usage string, l *ListFlag) {
	flag.Var(l, flagName, usage)
}
