// internal/cliutil/cliutil.go
package cliutil

import (
	"flag"
	"fmt"
	"path/filepath"
	"strings"
)

// boolFlags returns names of flags that take no value.
func boolFlags(fs *flag.FlagSet) map[string]bool {
	m := map[string]bool{}
	fs.VisitAll(func(f *flag.Flag) {
		if bf, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && bf.IsBoolFlag() {
			m[f.Name] = true
		}
	})
	return m
}

// SplitFlagsAndPositionals separates flag-like args from positionals
// so the input table may appear anywhere on the command line,
// preserving '-', '--' and '--x=y' semantics. Use before
// fs.Parse(flagArgs).
func SplitFlagsAndPositionals(fs *flag.FlagSet, argv []string) (flagArgs, posArgs []string) {
	bools := boolFlags(fs)
	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		if arg == "--" {
			posArgs = append(posArgs, argv[i+1:]...)
			break
		}
		if arg == "-" {
			// Bare dash is the stdin table, not a flag.
			posArgs = append(posArgs, arg)
			continue
		}
		if strings.HasPrefix(arg, "-") {
			flagArgs = append(flagArgs, arg)
			if strings.Contains(arg, "=") {
				continue
			}
			name := strings.TrimLeft(arg, "-")
			if !bools[name] && i+1 < len(argv) {
				flagArgs = append(flagArgs, argv[i+1])
				i++
			}
			continue
		}
		posArgs = append(posArgs, arg)
	}
	return
}

func hasGlobMeta(s string) bool { return strings.ContainsAny(s, "*?[") }

// ExpandPositional resolves the positional args to exactly one input
// path, expanding a glob if present. Both binaries accept a single
// table per run, so a glob matching several files is an error.
func ExpandPositional(posArgs []string) (string, error) {
	if len(posArgs) != 1 {
		return "", fmt.Errorf("exactly one input is accepted, got %d", len(posArgs))
	}
	a := posArgs[0]
	if a == "-" || !hasGlobMeta(a) {
		return a, nil
	}
	m, err := filepath.Glob(a)
	if err != nil {
		return "", fmt.Errorf("bad glob %q: %v", a, err)
	}
	switch len(m) {
	case 0:
		return "", fmt.Errorf("no input matched %q", a)
	case 1:
		return m[0], nil
	}
	return "", fmt.Errorf("%q matches %d files but only one input is accepted", a, len(m))
}
