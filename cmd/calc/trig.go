package main

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zephyrtronium/calculator"
)

func newTrigCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:       "trig (cos|sin|tan) RADIANS",
		Short:     "Compute a trigonometric function of an angle in radians",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"cos", "sin", "tan"},
		RunE: func(cmd *cobra.Command, args []string) error {
			defer opts.log.Sync()
			x, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return errors.Wrapf(err, "invalid angle %q", args[1])
			}
			e := calculator.Shared()
			var r float64
			switch args[0] {
			case "cos":
				r = e.Cosine(x)
			case "sin":
				r = e.Sine(x)
			case "tan":
				r = e.Tangent(x)
			default:
				return errors.Errorf("unknown function %q, want cos, sin, or tan", args[0])
			}
			opts.log.Debug("trig", zap.String("func", args[0]), zap.Float64("x", x), zap.Float64("result", r))
			fmt.Fprintln(cmd.OutOrStdout(), opts.format(r))
			return nil
		},
	}
}
