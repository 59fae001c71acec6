package cmd

import (
	"github.com/spf13/pflag"
)

// Mode constants
const (
	ModeEventFile = "event-file"
	ModeStdin     = "stdin"
)

// DetermineMode determines the input mode based on the provided arguments.
// A "-" argument reads from standard input.
func DetermineMode(args []string) string {
	if len(args) > 0 && args[0] != "-" {
		return ModeEventFile
	}
	return ModeStdin
}

// HasFlags reports whether any flag of the set was changed on the command line.
func HasFlags(flags *pflag.FlagSet) bool {
	changed := false
	flags.Visit(func(*pflag.Flag) {
		changed = true
	})
	return changed
}
