package util

import (
	"flag"
	"strings"
)

type stringsFlag []string

func (s stringsFlag) String() string { return strings.Join(s, ",") }

func (s *stringsFlag) Set(v string) error {
	*s = strings.Split(v, ",")
	return nil
}

// StringsFlag registers a comma-separated list flag and returns a
// pointer to its value.
func StringsFlag(name string, value []string, usage string) *[]string {
	flag.Var((*stringsFlag)(&value), name, usage)
	return &value
}
