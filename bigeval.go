package calculator

import (
	"math"
	"math/big"
	"strings"

	"github.com/zephyrtronium/bigfloat"
)

// bigctx is a context for evaluating an expression at arbitrary precision. It
// is created for a single evaluation and is not safe to use concurrently.
type bigctx struct {
	e     *Evaluator
	stack []*big.Float
	prec  uint
}

// evalBig evaluates a tree at the evaluator's precision and rounds the result
// to float64.
func (e *Evaluator) evalBig(n *node) (float64, error) {
	ctx := bigctx{e: e, prec: e.prec}
	if err := n.evalBig(&ctx); err != nil {
		return 0, err
	}
	if len(ctx.stack) != 1 {
		panic("calculator: inconsistent stack after evaluation (bad AST?)")
	}
	r, _ := ctx.stack[0].Float64()
	return r, nil
}

// push ensures a settable value on the stack.
func (ctx *bigctx) push() *big.Float {
	if len(ctx.stack) < cap(ctx.stack) {
		ctx.stack = ctx.stack[:len(ctx.stack)+1]
		if ctx.stack[len(ctx.stack)-1] == nil {
			ctx.stack[len(ctx.stack)-1] = new(big.Float).SetPrec(ctx.prec)
		}
	} else {
		ctx.stack = append(ctx.stack, new(big.Float).SetPrec(ctx.prec))
	}
	return ctx.stack[len(ctx.stack)-1]
}

// pop removes the top from the stack and returns it. The returned value may be
// modified by future node evaluations.
func (ctx *bigctx) pop() *big.Float {
	r := ctx.stack[len(ctx.stack)-1]
	ctx.stack = ctx.stack[:len(ctx.stack)-1]
	return r
}

// top is a shortcut to get the top element of the stack.
func (ctx *bigctx) top() *big.Float {
	return ctx.stack[len(ctx.stack)-1]
}

// num parses a literal at the context's precision.
func (ctx *bigctx) num(s string) *big.Float {
	r, _, err := new(big.Float).SetPrec(ctx.prec).Parse(s, 10)
	switch {
	case err == nil: // do nothing
	case err.Error() == "exponent overflow",
		strings.HasSuffix(err.Error(), ": value out of range"):
		// There isn't realistically any better way to detect this error.
		// Literals are unsigned, so overflow is always positive.
		r = new(big.Float).SetPrec(ctx.prec).SetInf(false)
	default:
		panic("calculator: invalid number: " + s + " (" + err.Error() + ")")
	}
	return r
}

// evalBig pushes the node's value to the context's stack.
func (n *node) evalBig(ctx *bigctx) error {
	switch n.kind {
	case nodeNum:
		ctx.push().Set(ctx.num(n.name))
	case nodeCall:
		r := ctx.push()
		k := len(ctx.stack)
		for _, a := range n.args {
			if err := a.evalBig(ctx); err != nil {
				return err
			}
		}
		invoc := ctx.stack[k:len(ctx.stack):len(ctx.stack)]
		if err := ctx.call(n, invoc, r); err != nil {
			return err
		}
		ctx.stack = ctx.stack[:k]
	case nodeNeg:
		if err := n.left.evalBig(ctx); err != nil {
			return err
		}
		v := ctx.top()
		v.Neg(v)
	case nodeNop:
		if err := n.left.evalBig(ctx); err != nil {
			return err
		}
	case nodePercent:
		if err := n.left.evalBig(ctx); err != nil {
			return err
		}
		v := ctx.top()
		v.Quo(v, new(big.Float).SetPrec(ctx.prec).SetInt64(100))
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow:
		if err := n.left.evalBig(ctx); err != nil {
			return err
		}
		if err := n.right.evalBig(ctx); err != nil {
			return err
		}
		r := ctx.pop()
		l := ctx.top()
		return n.binaryBig(l, r)
	default:
		panic("calculator: invalid AST node " + n.kind.String())
	}
	return nil
}

// binaryBig applies a binary operator node, leaving the result in l.
func (n *node) binaryBig(l, r *big.Float) (err error) {
	defer func() {
		// big.Float panics with ErrNaN where float64 arithmetic would produce
		// NaN, i.e. inf-inf, 0*inf, inf/inf.
		x := recover()
		if x == nil {
			return
		}
		if _, ok := x.(big.ErrNaN); !ok {
			panic(x)
		}
		f, _ := r.Float64()
		err = &DomainError{X: f, Func: n.kind.opname()}
	}()
	switch n.kind {
	case nodeAdd:
		l.Add(l, r)
	case nodeSub:
		l.Sub(l, r)
	case nodeMul:
		l.Mul(l, r)
	case nodeDiv:
		if r.Sign() == 0 {
			return &DivisionByZeroError{Col: n.pos}
		}
		l.Quo(l, r)
	case nodePow:
		return bigpow(l, l, r)
	default:
		panic("calculator: not a binary operator: " + n.kind.String())
	}
	return nil
}

var one = big.NewFloat(1)

// bigpow sets z to x**y. z may alias x.
func bigpow(z, x, y *big.Float) error {
	switch {
	case y.Sign() == 0:
		z.SetInt64(1)
		return nil
	case x.IsInf() || y.IsInf():
		// bigfloat works with finite values only.
		xf, _ := x.Float64()
		yf, _ := y.Float64()
		v := math.Pow(xf, yf)
		if math.IsNaN(v) {
			return &DomainError{X: xf, Func: "^"}
		}
		z.SetFloat64(v)
		return nil
	case x.Sign() == 0:
		if y.Sign() > 0 {
			z.SetInt64(0)
		} else {
			z.SetInf(false)
		}
		return nil
	case y.Cmp(one) == 0:
		z.Set(x)
		return nil
	case x.Sign() > 0:
		// Pow does not always write its result to its first argument.
		z.Set(bigfloat.Pow(new(big.Float).SetPrec(z.Prec()), x, y))
		return nil
	case !y.IsInt():
		// Negative bases need integral exponents.
		xf, _ := x.Float64()
		return &DomainError{X: xf, Func: "^"}
	}
	i, _ := y.Int(nil)
	odd := i.Bit(0) == 1
	ax := new(big.Float).SetPrec(z.Prec()).Abs(x)
	z.Set(bigfloat.Pow(new(big.Float).SetPrec(z.Prec()), ax, y))
	if odd {
		z.Neg(z)
	}
	return nil
}

// call calls the function of a call node at arbitrary precision if it can,
// otherwise in float64.
func (ctx *bigctx) call(n *node, args []*big.Float, r *big.Float) error {
	r.SetPrec(ctx.prec)
	if f, ok := n.fn.(BigFunc); ok {
		return namedomain(f.CallBig(args, r), n.name)
	}
	fargs := make([]float64, len(args))
	for i, a := range args {
		fargs[i], _ = a.Float64()
	}
	v, err := ctx.e.call(n, fargs)
	if err != nil {
		return err
	}
	if math.IsNaN(v) {
		// Only reachable when a caller's Func gets NaN arguments, which big
		// arithmetic cannot produce.
		return &DomainError{X: v, Func: n.name}
	}
	r.SetFloat64(v)
	return nil
}
