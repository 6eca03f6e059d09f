// Command calc evaluates calculator expressions given as arguments, in a
// file, or on standard input.
package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/pkg/errors"

	"github.com/zephyrtronium/calculator/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "calc: %v\n", err)
		os.Exit(2)
	}
	cmd := newRootCommand(cfg)
	err = cmd.Execute()
	if err != nil && !errors.Is(err, errFailed) {
		color.New(color.FgRed).Fprintln(os.Stderr, "calc:", err)
	}
	os.Exit(exitCode(err))
}

// exitCode is the process status for the error returned by the root command.
// Configuration problems exit with 2 and everything else with 1.
func exitCode(err error) int {
	var cfgerr *configError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &cfgerr):
		return 2
	default:
		return 1
	}
}
