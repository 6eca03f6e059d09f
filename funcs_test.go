package calculator_test

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/calculator"
)

type nargin struct{}

func (nargin) CanCall(n int) bool {
	return true
}

func (nargin) Call(args []float64) (float64, error) {
	return float64(len(args)), nil
}

func ExampleFunc() {
	e := calculator.New(calculator.WithFunc("nargin", nargin{}))
	for _, s := range []string{"nargin", "nargin()", "nargin(100)", "nargin(3, 2, 1)"} {
		r, _ := e.Evaluate(s)
		fmt.Println(r)
	}

	// Output:
	// 0
	// 0
	// 1
	// 3
}

// cube has an arbitrary-precision implementation.
type cube struct{}

func (cube) CanCall(n int) bool {
	return n == 1
}

func (cube) Call(args []float64) (float64, error) {
	return args[0] * args[0] * args[0], nil
}

func (cube) CallBig(args []*big.Float, r *big.Float) error {
	r.Mul(args[0], args[0])
	r.Mul(r, args[0])
	return nil
}

var errNope = errors.New("nope")

type failing struct{}

func (failing) CanCall(n int) bool {
	return n == 1
}

func (failing) Call(args []float64) (float64, error) {
	return 0, errNope
}

func TestCustomFuncs(t *testing.T) {
	e := calculator.New(
		calculator.WithFunc("double", calculator.Monadic(func(x float64) float64 { return 2 * x })),
		calculator.WithFunc("pow", calculator.Dyadic(math.Pow)),
		calculator.WithFunc("sum", calculator.Variadic(func(x, y float64) float64 { return x + y })),
		calculator.WithFunc("answer", calculator.Constant(42)),
		calculator.WithFunc("cube", cube{}),
		calculator.WithFunc("fail", failing{}),
		calculator.WithFunc("partial", calculator.Monadic(func(x float64) float64 {
			if x < 0 {
				return math.NaN()
			}
			return x
		})),
	)
	cases := []struct {
		src string
		r   float64
	}{
		{"double(4)", 8},
		{"pow(2, 10)", 1024},
		{"sum(1, 2, 3, 4)", 10},
		{"answer", 42},
		{"answer()", 42},
		{"answer + 1", 43},
		{"cube(3)", 27},
		{"partial(5)", 5},
		// defaults are still present
		{"cos(0)", 1},
	}
	for _, c := range cases {
		r, err := e.Evaluate(c.src)
		if assert.NoErrorf(t, err, "evaluating %q", c.src) {
			assert.Equalf(t, c.r, r, "wrong result for %q", c.src)
		}
	}

	_, err := e.Evaluate("double(1, 2)")
	assert.Equal(t, calculator.KindSyntax, calculator.KindOf(err))
	_, err = e.Evaluate("sum()")
	assert.Equal(t, calculator.KindSyntax, calculator.KindOf(err))
	_, err = e.Evaluate("double")
	assert.Equal(t, calculator.KindSyntax, calculator.KindOf(err))

	r, err := e.Evaluate("1 + fail(2)")
	assert.ErrorIs(t, err, errNope)
	assert.Equal(t, calculator.KindOther, calculator.KindOf(err))
	assert.Zero(t, r)

	_, err = e.Evaluate("partial(-1)")
	var de *calculator.DomainError
	if assert.True(t, errors.As(err, &de), "%#v is not a DomainError", err) {
		assert.Equal(t, -1.0, de.X)
		assert.Equal(t, "partial", de.Func)
	}

	// Other evaluators are unaffected.
	_, err = calculator.Evaluate("answer")
	assert.Equal(t, calculator.KindUnknownFunction, calculator.KindOf(err))
}

func TestBigFunc(t *testing.T) {
	e := calculator.New(calculator.Precision(128), calculator.WithFunc("cube", cube{}))
	r, err := e.Evaluate("cube(1.5) - 3")
	require.NoError(t, err)
	assert.Equal(t, 0.375, r)

	// Funcs without CallBig are called in float64.
	e = calculator.New(calculator.Precision(128), calculator.WithFunc("nargin", nargin{}))
	r, err = e.Evaluate("nargin(1, 2) * 2")
	require.NoError(t, err)
	assert.Equal(t, 4.0, r)
}

func TestWithoutDefaults(t *testing.T) {
	e := calculator.New(calculator.WithoutDefaults(), calculator.WithFunc("answer", calculator.Constant(42)))
	r, err := e.Evaluate("answer / 2")
	require.NoError(t, err)
	assert.Equal(t, 21.0, r)
	for _, s := range []string{"pi", "cos(0)", "sqrt(4)"} {
		_, err := e.Evaluate(s)
		assert.Equalf(t, calculator.KindUnknownFunction, calculator.KindOf(err), "evaluating %q", s)
	}
	// Arithmetic needs no functions.
	r, err = e.Evaluate("2 + 3 * 4")
	require.NoError(t, err)
	assert.Equal(t, 14.0, r)
}

func TestRemoveFunc(t *testing.T) {
	e := calculator.New(calculator.WithFunc("cos", nil), calculator.WithFuncs(map[string]calculator.Func{
		"sin": nil,
		"one": calculator.Constant(1),
	}))
	for _, s := range []string{"cos(0)", "sin(0)"} {
		_, err := e.Evaluate(s)
		assert.Equalf(t, calculator.KindUnknownFunction, calculator.KindOf(err), "evaluating %q", s)
	}
	r, err := e.Evaluate("tan(0) + one")
	require.NoError(t, err)
	assert.Equal(t, 1.0, r)
}

func TestWithFuncsCopies(t *testing.T) {
	m := map[string]calculator.Func{"k": calculator.Constant(1)}
	opt := calculator.WithFuncs(m)
	m["k"] = calculator.Constant(2)
	r, err := calculator.New(opt).Evaluate("k")
	require.NoError(t, err)
	assert.Equal(t, 1.0, r)
}

func TestFuncDomains(t *testing.T) {
	cases := []struct {
		src string
		fn  string
	}{
		{"sqrt(-1)", "sqrt"},
		{"ln(-2)", "ln"},
		{"log(-2)", "log"},
		{"log10(-2)", "log10"},
		{"acos(2)", "acos"},
		{"asin(-2)", "asin"},
	}
	evals := []*calculator.Evaluator{
		calculator.New(),
		calculator.New(calculator.Precision(64)),
		calculator.New(calculator.Angles(calculator.Degrees)),
	}
	for _, e := range evals {
		for _, c := range cases {
			r, err := e.Evaluate(c.src)
			var de *calculator.DomainError
			if assert.Truef(t, errors.As(err, &de), "%q with %v/%d: %v", c.src, e.Unit(), e.Prec(), err) {
				assert.Equal(t, c.fn, de.Func)
			}
			assert.Zero(t, r)
		}
	}
}
