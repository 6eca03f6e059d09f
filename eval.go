package calculator

import (
	"errors"
	"math"
	"strings"
	"sync"
)

// Evaluator evaluates expressions. An Evaluator is never modified after New
// returns, so it is safe to use concurrently.
type Evaluator struct {
	funcs map[string]Func
	unit  AngleUnit
	prec  uint
}

// AngleUnit is the unit of angles for trigonometric functions in expressions.
type AngleUnit int

const (
	// Radians is the default angle unit.
	Radians AngleUnit = iota
	// Degrees makes cos(180) evaluate to -1.
	Degrees
)

func (u AngleUnit) String() string {
	if u == Degrees {
		return "degrees"
	}
	return "radians"
}

// Option is an option used when creating an Evaluator.
type Option interface {
	apply(*Evaluator)
}

type (
	funcopt struct {
		name string
		fn   Func
	}
	funcsopt map[string]Func
	unitopt  AngleUnit
	precopt  uint
	nodefopt struct{}
)

func (o funcopt) apply(e *Evaluator) {
	if o.fn == nil {
		delete(e.funcs, o.name)
		return
	}
	e.funcs[o.name] = o.fn
}

func (o funcsopt) apply(e *Evaluator) {
	for k, v := range o {
		funcopt{k, v}.apply(e)
	}
}

func (o unitopt) apply(e *Evaluator) { e.unit = AngleUnit(o) }
func (o precopt) apply(e *Evaluator) { e.prec = uint(o) }
func (nodefopt) apply(e *Evaluator)  { clear(e.funcs) }

// WithFunc sets a function for parsing. To disable parsing a function, pass
// nil for fn.
func WithFunc(name string, fn Func) Option {
	return funcopt{name, fn}
}

// WithFuncs sets a group of functions for parsing. To disable parsing any
// function, set it to nil.
func WithFuncs(fns map[string]Func) Option {
	// Always make a copy.
	m := make(funcsopt, len(fns))
	for k, v := range fns {
		m[k] = v
	}
	return m
}

// WithoutDefaults removes every default function and constant. Functions set
// by later options are kept.
func WithoutDefaults() Option {
	return nodefopt{}
}

// Angles sets the angle unit for trigonometric functions in expressions. It
// does not affect Cosine, Sine, or Tangent.
func Angles(unit AngleUnit) Option {
	return unitopt(unit)
}

// Precision makes the evaluator compute with the given number of bits of
// mantissa, rounding only the final result to float64. A precision of 0
// selects ordinary float64 arithmetic, which is the default.
func Precision(bits uint) Option {
	return precopt(bits)
}

// New creates an evaluator. Options are applied in order.
func New(opts ...Option) *Evaluator {
	e := Evaluator{funcs: make(map[string]Func, len(globalfuncs))}
	for k, v := range globalfuncs {
		e.funcs[k] = v
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.apply(&e)
	}
	return &e
}

var shared = sync.OnceValue(func() *Evaluator { return New() })

// Shared returns the process-wide evaluator with default options. It is
// created on first use.
func Shared() *Evaluator {
	return shared()
}

// Evaluate parses and evaluates an expression. If an error occurs, the result
// is 0 and the error describes the failure.
func (e *Evaluator) Evaluate(expression string) (float64, error) {
	a, err := e.Parse(strings.NewReader(expression))
	if err != nil {
		return 0, err
	}
	return e.Eval(a)
}

// Eval evaluates a parsed expression. If an error occurs, the result is 0.
func (e *Evaluator) Eval(a *Expr) (float64, error) {
	if e.prec > 0 {
		return e.evalBig(a.n)
	}
	r, err := a.n.eval(e)
	if err != nil {
		return 0, err
	}
	return r, nil
}

// Cosine returns the cosine of the radian argument x.
func (e *Evaluator) Cosine(x float64) float64 {
	return math.Cos(x)
}

// Sine returns the sine of the radian argument x.
func (e *Evaluator) Sine(x float64) float64 {
	return math.Sin(x)
}

// Tangent returns the tangent of the radian argument x. Near odd multiples of
// π/2, the result is very large rather than an error.
func (e *Evaluator) Tangent(x float64) float64 {
	return math.Tan(x)
}

// Unit returns the angle unit for trigonometric functions in expressions.
func (e *Evaluator) Unit() AngleUnit {
	return e.unit
}

// Prec returns the precision in bits of evaluation, or 0 for float64.
func (e *Evaluator) Prec() uint {
	return e.prec
}

// Evaluate is a shortcut to evaluate an expression with the shared evaluator.
func Evaluate(expression string) (float64, error) {
	return Shared().Evaluate(expression)
}

// eval computes the node's value in float64 arithmetic.
func (n *node) eval(e *Evaluator) (float64, error) {
	switch n.kind {
	case nodeNum:
		return n.num, nil
	case nodeCall:
		args := make([]float64, len(n.args))
		for i, a := range n.args {
			v, err := a.eval(e)
			if err != nil {
				return 0, err
			}
			args[i] = v
		}
		return e.call(n, args)
	case nodeNeg:
		v, err := n.left.eval(e)
		return -v, err
	case nodeNop:
		return n.left.eval(e)
	case nodePercent:
		v, err := n.left.eval(e)
		return v / 100, err
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow:
		l, err := n.left.eval(e)
		if err != nil {
			return 0, err
		}
		r, err := n.right.eval(e)
		if err != nil {
			return 0, err
		}
		return n.binary(l, r)
	default:
		panic("calculator: invalid AST node " + n.kind.String())
	}
}

// binary applies a binary operator node to its evaluated operands.
func (n *node) binary(l, r float64) (float64, error) {
	var v float64
	switch n.kind {
	case nodeAdd:
		v = l + r
	case nodeSub:
		v = l - r
	case nodeMul:
		v = l * r
	case nodeDiv:
		if r == 0 {
			return 0, &DivisionByZeroError{Col: n.pos}
		}
		v = l / r
	case nodePow:
		// Negative bases need integral exponents.
		if l < 0 && r != math.Trunc(r) {
			return 0, &DomainError{X: l, Func: "^"}
		}
		v = math.Pow(l, r)
	default:
		panic("calculator: not a binary operator: " + n.kind.String())
	}
	if math.IsNaN(v) && !math.IsNaN(l) && !math.IsNaN(r) {
		// inf-inf, 0*inf, inf/inf
		return 0, &DomainError{X: r, Func: n.kind.opname()}
	}
	return v, nil
}

// call calls the function of a call node in float64 arithmetic.
func (e *Evaluator) call(n *node, args []float64) (float64, error) {
	var (
		v   float64
		err error
	)
	if a, ok := n.fn.(angular); ok {
		v = a.call(args[0], e.unit)
	} else {
		v, err = n.fn.Call(args)
		if err != nil {
			return 0, namedomain(err, n.name)
		}
	}
	if math.IsNaN(v) {
		for _, x := range args {
			if math.IsNaN(x) {
				return v, nil
			}
		}
		var x float64
		if len(args) > 0 {
			x = args[0]
		}
		return 0, &DomainError{X: x, Func: n.name}
	}
	return v, nil
}

// namedomain fills in the function name of a DomainError returned by a Func.
func namedomain(err error, name string) error {
	var de *DomainError
	if errors.As(err, &de) && de.Func == "" {
		de.Func = name
	}
	return err
}
