// internal/cli/flagset.go
package cli

import "flag"

// NewFlagSet returns a ContinueOnError FlagSet with the default usage
// handler silenced; callers install their own via Usage.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {}
	return fs
}
