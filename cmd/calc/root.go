package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/zephyrtronium/calculator"
	"github.com/zephyrtronium/calculator/internal/config"
	"github.com/zephyrtronium/calculator/internal/logging"
)

// errFailed is returned when any expression fails. The failures themselves
// have already been reported.
var errFailed = errors.New("evaluation failed")

// configError is an invalid configuration from flags or the environment.
type configError struct {
	err error
}

func (err *configError) Error() string {
	return "invalid configuration: " + err.err.Error()
}

func (err *configError) Unwrap() error {
	return err.err
}

// options are the command line options of calc.
type options struct {
	cfg *config.Config
	// In is the input file name. "-" is stdin.
	In string
	// Lines makes each input line a separate expression.
	Lines bool
	// Echo prints parse groupings.
	Echo bool

	log *logging.Logger
}

// AddFlags adds flags for reading expressions to a flag set.
func (o *options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.In, "in", "", `input file, "-" for stdin (default stdin if no args given)`)
	fs.BoolVarP(&o.Lines, "lines", "n", false, "evaluate each input line as a separate expression")
	fs.BoolVar(&o.Echo, "echo", false, "print the grouping of each expression before its result")
}

// AddEvalFlags adds flags for evaluation and output to a flag set. Defaults
// come from the environment configuration.
func (o *options) AddEvalFlags(fs *pflag.FlagSet) {
	fs.UintVarP(&o.cfg.Eval.Precision, "precision", "p", o.cfg.Eval.Precision, "bits of precision for calculations, or 0 for float64")
	fs.BoolVar(&o.cfg.Eval.Degrees, "degrees", o.cfg.Eval.Degrees, "take trigonometric arguments in expressions in degrees")
	fs.StringVar(&o.cfg.Eval.Format, "format", o.cfg.Eval.Format, `result format: "display" or a fmt verb such as "%g"`)
}

// Complete validates the configuration and creates the logger.
func (o *options) Complete() error {
	if err := o.cfg.Validate(); err != nil {
		return &configError{err}
	}
	log, err := logging.New(o.cfg.Logger())
	if err != nil {
		return errors.Wrap(err, "unable to create logger")
	}
	o.log = log
	return nil
}

// evaluator creates the evaluator the options describe.
func (o *options) evaluator() *calculator.Evaluator {
	unit := calculator.Radians
	if o.cfg.Eval.Degrees {
		unit = calculator.Degrees
	}
	if unit == calculator.Radians && o.cfg.Eval.Precision == 0 {
		return calculator.Shared()
	}
	return calculator.New(calculator.Angles(unit), calculator.Precision(o.cfg.Eval.Precision))
}

// format formats a result.
func (o *options) format(r float64) string {
	if o.cfg.Eval.Format == config.FormatDisplay {
		return calculator.FormatResult(r)
	}
	return fmt.Sprintf(o.cfg.Eval.Format, r)
}

func newRootCommand(cfg *config.Config) *cobra.Command {
	opts := &options{cfg: cfg}
	cmd := &cobra.Command{
		Use:   "calc [flags] [expression...]",
		Short: "Evaluate calculator expressions",
		Long: `Calc evaluates arithmetic expressions such as "2 + 3 × 4" or "cos(pi) * 10%".

Each argument is a separate expression. With no arguments, or with --in, the
input is read as one expression, or as one per line with --lines.

Settings may also be given in the environment as CALC_PRECISION, CALC_DEGREES,
and CALC_FORMAT. CALC_LOG_LEVEL and CALC_LOG_DEV control logging.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.Complete()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			defer opts.log.Sync()
			return opts.run(cmd, args)
		},
	}
	opts.AddFlags(cmd.Flags())
	opts.AddEvalFlags(cmd.PersistentFlags())
	cmd.AddCommand(newTrigCommand(opts))
	return cmd
}

// input is a source of expressions.
type input struct {
	name string
	src  io.Reader
}

func (o *options) inputs(cmd *cobra.Command, args []string) ([]input, func() error, error) {
	var ins []input
	closer := func() error { return nil }
	switch {
	case o.In != "" && o.In != "-":
		f, err := os.Open(o.In)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "unable to open input %q", o.In)
		}
		ins = append(ins, input{name: o.In, src: f})
		closer = f.Close
	case o.In == "-", len(args) == 0:
		ins = append(ins, input{name: "stdin", src: cmd.InOrStdin()})
	}
	for i, arg := range args {
		ins = append(ins, input{name: "arg " + strconv.Itoa(i+1), src: strings.NewReader(arg)})
	}
	return ins, closer, nil
}

func (o *options) run(cmd *cobra.Command, args []string) error {
	ins, closer, err := o.inputs(cmd, args)
	if err != nil {
		return err
	}
	defer closer()
	e := o.evaluator()
	o.log.Debug("evaluator ready",
		zap.Stringer("unit", e.Unit()),
		zap.Uint("precision", e.Prec()),
		zap.Int("inputs", len(ins)),
	)
	failed := false
	for _, in := range ins {
		if !o.Lines {
			if !o.eval(cmd, e, in.name, bufio.NewReader(in.src)) {
				failed = true
			}
			continue
		}
		sc := bufio.NewScanner(in.src)
		for n := 1; sc.Scan(); n++ {
			line := sc.Text()
			if strings.TrimSpace(line) == "" {
				continue
			}
			name := in.name + " line " + strconv.Itoa(n)
			if !o.eval(cmd, e, name, strings.NewReader(line)) {
				failed = true
			}
		}
		if err := sc.Err(); err != nil {
			return errors.Wrapf(err, "unable to read %s", in.name)
		}
	}
	if failed {
		return errFailed
	}
	return nil
}

// eval evaluates one expression and writes its result or error. It reports
// whether evaluation succeeded.
func (o *options) eval(cmd *cobra.Command, e *calculator.Evaluator, name string, src io.RuneScanner) bool {
	out := cmd.OutOrStdout()
	a, err := e.Parse(src)
	if err == nil {
		if o.Echo {
			fmt.Fprintf(out, "%v : ", a)
		}
		var r float64
		r, err = e.Eval(a)
		if err == nil {
			o.log.Debug("evaluated", zap.String("input", name), zap.Float64("result", r))
			fmt.Fprintln(out, o.format(r))
			return true
		}
		if o.Echo {
			fmt.Fprintln(out)
		}
	}
	o.log.Debug("evaluation failed",
		zap.String("input", name),
		zap.Stringer("kind", calculator.KindOf(err)),
		zap.Error(err),
	)
	color.New(color.FgRed).Fprintln(cmd.ErrOrStderr(), errors.Wrap(err, name))
	return false
}
