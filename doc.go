// Package calculator implements a double-precision calculator core.
//
// Expressions are written the way they appear on a calculator's display:
// "2 + 3 × 4" is 14, "(2 + 3) * 4" is 20, "200 * 10%" is 20, and
// "-2^2" is -4. Functions take parenthesized arguments, as in "cos(0)" or
// "hypot(3, 4)", and constants such as pi may be written bare.
//
// The Shared evaluator serves most uses:
//
//	r, err := calculator.Shared().Evaluate("sin(pi / 2)")
//
// Evaluators hold no state between calls, so one may be shared freely among
// goroutines. New creates evaluators which take trig arguments in degrees,
// compute at higher precision, or know additional functions.
//
// Every failure from bad input is an InputError reporting the column where the
// problem lies; KindOf classifies errors for callers that only need to know
// what went wrong.
package calculator
