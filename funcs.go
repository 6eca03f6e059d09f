package calculator

import (
	"math"
	"math/big"

	"github.com/zephyrtronium/bigfloat"
)

// Func is a function from reals to reals.
type Func interface {
	// Call evaluates the function. args has a length for which CanCall
	// returned true. A result of NaN from arguments which are not NaN is
	// reported as a DomainError.
	Call(args []float64) (float64, error)

	// CanCall returns whether the function can be called with n arguments.
	// This controls how the expression parser handles instances of this
	// function:
	//
	// 	1.	If a parenthesized list of n expressions follows the name, the
	//		parser accepts the call only if CanCall(n).
	//
	// 	2.	If anything else follows the name, the parser treats it as a
	//		constant if CanCall(0) and rejects it otherwise.
	CanCall(n int) bool
}

// BigFunc is a Func that can also compute its result at arbitrary precision.
// Evaluators configured with Precision use CallBig when a function provides
// it; other functions are called with the arguments rounded to float64.
type BigFunc interface {
	Func
	// CallBig evaluates the function. The function must set r to its result
	// and should not use the value of r otherwise. r has the precision of the
	// evaluation. CallBig may modify the elements of args.
	CallBig(args []*big.Float, r *big.Float) error
}

var globalfuncs = map[string]Func{
	// trig
	"cos":  angular{math.Cos, cosdeg},
	"sin":  angular{math.Sin, sindeg},
	"tan":  angular{math.Tan, tandeg},
	"acos": angular{math.Acos, inverse(math.Acos)},
	"asin": angular{math.Asin, inverse(math.Asin)},
	"atan": angular{math.Atan, inverse(math.Atan)},
	"cosh": Monadic(math.Cosh),
	"sinh": Monadic(math.Sinh),
	"tanh": Monadic(math.Tanh),

	"exp": bigmonadic{math.Exp, bigexp},
	// The calculator's log key is the natural logarithm.
	"ln":    bigmonadic{math.Log, bigln},
	"log":   bigmonadic{math.Log, bigln},
	"log10": bigmonadic{math.Log10, biglog10},
	"sqrt":  bigmonadic{math.Sqrt, bigsqrt},
	"hypot": Dyadic(math.Hypot),
	"min":   Variadic(math.Min),
	"max":   Variadic(math.Max),

	// constants
	"pi": bigconst{math.Pi, bigfloat.Pi},
	"π":  bigconst{math.Pi, bigfloat.Pi},
	"e":  bigconst{math.E, bige},
}

type monadic struct {
	f func(float64) float64
}

func (m monadic) Call(args []float64) (float64, error) {
	return m.f(args[0]), nil
}

func (monadic) CanCall(n int) bool {
	return n == 1
}

// Monadic wraps a function of one variable into a Func. f should return NaN
// for arguments outside its domain.
func Monadic(f func(float64) float64) Func {
	return monadic{f}
}

type dyadic struct {
	f func(x, y float64) float64
}

func (d dyadic) Call(args []float64) (float64, error) {
	return d.f(args[0], args[1]), nil
}

func (dyadic) CanCall(n int) bool {
	return n == 2
}

// Dyadic wraps a function of two variables into a Func, called as f(x, y).
func Dyadic(f func(x, y float64) float64) Func {
	return dyadic{f}
}

type variadic struct {
	f func(x, y float64) float64
}

func (v variadic) Call(args []float64) (float64, error) {
	r := args[0]
	for _, x := range args[1:] {
		r = v.f(r, x)
	}
	return r, nil
}

func (variadic) CanCall(n int) bool {
	return n >= 1
}

// Variadic wraps an associative function of two variables into a Func of one
// or more variables which folds f over its arguments from the left.
func Variadic(f func(x, y float64) float64) Func {
	return variadic{f}
}

type constant float64

func (c constant) Call(args []float64) (float64, error) {
	return float64(c), nil
}

func (constant) CanCall(n int) bool {
	return n == 0
}

// Constant creates a Func of no arguments which evaluates to v. It can be
// written with or without empty parentheses.
func Constant(v float64) Func {
	return constant(v)
}

// angular is a trigonometric function whose argument or, for inverse
// functions, result is an angle.
type angular struct {
	rad func(float64) float64
	deg func(float64) float64
}

func (a angular) Call(args []float64) (float64, error) {
	return a.rad(args[0]), nil
}

func (angular) CanCall(n int) bool {
	return n == 1
}

// call evaluates the function with the angle in the given unit.
func (a angular) call(x float64, unit AngleUnit) float64 {
	if unit == Degrees {
		return a.deg(x)
	}
	return a.rad(x)
}

// quadrant reduces an angle in degrees to [0, 360) and reports whether it is
// an exact multiple of 90, along with which one.
func quadrant(x float64) (float64, int, bool) {
	x = math.Mod(x, 360)
	if x < 0 {
		x += 360
	}
	if q := x / 90; q == math.Trunc(q) {
		return x, int(q) % 4, true
	}
	return x, 0, false
}

func sindeg(x float64) float64 {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return math.NaN()
	}
	x, q, exact := quadrant(x)
	if exact {
		return [4]float64{0, 1, 0, -1}[q]
	}
	return math.Sin(x * math.Pi / 180)
}

func cosdeg(x float64) float64 {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return math.NaN()
	}
	x, q, exact := quadrant(x)
	if exact {
		return [4]float64{1, 0, -1, 0}[q]
	}
	return math.Cos(x * math.Pi / 180)
}

func tandeg(x float64) float64 {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return math.NaN()
	}
	x, q, exact := quadrant(x)
	if exact {
		return [4]float64{0, math.Inf(1), 0, math.Inf(-1)}[q]
	}
	return math.Tan(x * math.Pi / 180)
}

// inverse converts an inverse trig function to produce degrees.
func inverse(f func(float64) float64) func(float64) float64 {
	return func(x float64) float64 {
		return f(x) * 180 / math.Pi
	}
}

// bigmonadic is a function of one variable with an arbitrary-precision
// implementation.
type bigmonadic struct {
	f  func(float64) float64
	bf func(z, x *big.Float) error
}

func (m bigmonadic) Call(args []float64) (float64, error) {
	return m.f(args[0]), nil
}

func (bigmonadic) CanCall(n int) bool {
	return n == 1
}

func (m bigmonadic) CallBig(args []*big.Float, r *big.Float) error {
	return m.bf(r, args[0])
}

// bigconst is a constant with an arbitrary-precision implementation.
type bigconst struct {
	v  float64
	bf func(z *big.Float) *big.Float
}

func (c bigconst) Call(args []float64) (float64, error) {
	return c.v, nil
}

func (bigconst) CanCall(n int) bool {
	return n == 0
}

func (c bigconst) CallBig(args []*big.Float, r *big.Float) error {
	r.Set(c.bf(new(big.Float).SetPrec(r.Prec())))
	return nil
}

func domainerr(x *big.Float) error {
	f, _ := x.Float64()
	return &DomainError{X: f}
}

func bigexp(z, x *big.Float) error {
	if x.IsInf() {
		if x.Signbit() {
			z.SetInt64(0)
		} else {
			z.SetInf(false)
		}
		return nil
	}
	z.Set(bigfloat.Exp(new(big.Float).SetPrec(z.Prec()), x))
	return nil
}

func bigln(z, x *big.Float) error {
	switch {
	case x.Signbit() && x.Sign() != 0:
		return domainerr(x)
	case x.Sign() == 0:
		z.SetInf(true)
	case x.IsInf():
		z.SetInf(false)
	default:
		z.Set(bigfloat.Log(new(big.Float).SetPrec(z.Prec()), x))
	}
	return nil
}

func biglog10(z, x *big.Float) error {
	if err := bigln(z, x); err != nil {
		return err
	}
	if z.IsInf() {
		return nil
	}
	ten := new(big.Float).SetPrec(z.Prec()).SetInt64(10)
	ln10 := bigfloat.Log(new(big.Float).SetPrec(z.Prec()), ten)
	z.Quo(z, ln10)
	return nil
}

func bigsqrt(z, x *big.Float) error {
	switch {
	case x.Signbit() && x.Sign() != 0:
		return domainerr(x)
	case x.Sign() == 0:
		z.SetInt64(0)
	case x.IsInf():
		z.SetInf(false)
	default:
		z.Sqrt(x)
	}
	return nil
}

func bige(z *big.Float) *big.Float {
	one := new(big.Float).SetPrec(z.Prec()).SetInt64(1)
	return bigfloat.Exp(z, one)
}
