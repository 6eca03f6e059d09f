package calculator

import (
	"errors"
	"strconv"
)

var (
	// ErrEmptyExpression matches an *EmptyExpressionError with errors.Is.
	ErrEmptyExpression = errors.New("empty expression")
	// ErrDivisionByZero matches a *DivisionByZeroError with errors.Is.
	ErrDivisionByZero = errors.New("division by zero")
)

// EmptyExpressionError is an error indicating that the input contained no
// expression at all, i.e. it was empty or only whitespace. It implements
// InputError.
type EmptyExpressionError struct {
	// Col is the position of the end of the input.
	Col int
}

func (err *EmptyExpressionError) Error() string {
	return "empty expression"
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

func (err *EmptyExpressionError) Is(target error) bool {
	return target == ErrEmptyExpression
}

// SyntaxError is an error indicating malformed input: an unknown character, a
// malformed number, unbalanced parentheses, a missing operand or operator, or
// a function call with the wrong number of arguments. It implements
// InputError.
type SyntaxError struct {
	// Col is the position of the offending token.
	Col int
	// Text is the offending token. It is empty at the end of the input.
	Text string
	// Reason describes what is wrong.
	Reason string
}

func (err *SyntaxError) Error() string {
	if err.Text == "" {
		return errpos(err.Col, err.Reason)
	}
	return errpos(err.Col, err.Reason+" "+strconv.Quote(err.Text))
}

func (err *SyntaxError) Pos() int {
	return err.Col
}

// UnknownFunctionError is an error indicating a name that is neither a
// function nor a constant. It implements InputError.
type UnknownFunctionError struct {
	// Col is the position of the name.
	Col int
	// Name is the unknown name.
	Name string
}

func (err *UnknownFunctionError) Error() string {
	return errpos(err.Col, "unknown function "+strconv.Quote(err.Name))
}

func (err *UnknownFunctionError) Pos() int {
	return err.Col
}

// DivisionByZeroError is an error from dividing by exactly zero. It
// implements InputError.
type DivisionByZeroError struct {
	// Col is the position of the division operator.
	Col int
}

func (err *DivisionByZeroError) Error() string {
	return errpos(err.Col, "division by zero")
}

func (err *DivisionByZeroError) Pos() int {
	return err.Col
}

func (err *DivisionByZeroError) Is(target error) bool {
	return target == ErrDivisionByZero
}

// DomainError is an error returned when a function or operator is applied to
// arguments outside its domain, e.g. sqrt(-1) or (-8)^(1/3).
type DomainError struct {
	// X is the out-of-domain argument.
	X float64
	// Func is a name identifying the function or operator.
	Func string
}

func (err *DomainError) Error() string {
	r := strconv.FormatFloat(err.X, 'g', -1, 64) + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	return r
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*SyntaxError)(nil)
	_ InputError = (*UnknownFunctionError)(nil)
	_ InputError = (*DivisionByZeroError)(nil)
)

// ErrorKind classifies evaluation failures.
type ErrorKind int

const (
	// KindNone is the kind of a nil error.
	KindNone ErrorKind = iota
	// KindEmptyExpression is the kind of an *EmptyExpressionError.
	KindEmptyExpression
	// KindSyntax is the kind of a *SyntaxError.
	KindSyntax
	// KindDivisionByZero is the kind of a *DivisionByZeroError.
	KindDivisionByZero
	// KindUnknownFunction is the kind of an *UnknownFunctionError.
	KindUnknownFunction
	// KindDomain is the kind of a *DomainError.
	KindDomain
	// KindOther is the kind of any other error, such as an error reading the
	// input or an error returned by a caller-supplied Func.
	KindOther
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindEmptyExpression:
		return "empty expression"
	case KindSyntax:
		return "syntax error"
	case KindDivisionByZero:
		return "division by zero"
	case KindUnknownFunction:
		return "unknown function"
	case KindDomain:
		return "domain error"
	case KindOther:
		return "other"
	default:
		return "ErrorKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// KindOf returns the kind of an error returned from evaluation.
func KindOf(err error) ErrorKind {
	var (
		empty   *EmptyExpressionError
		syntax  *SyntaxError
		divzero *DivisionByZeroError
		unknown *UnknownFunctionError
		domain  *DomainError
	)
	switch {
	case err == nil:
		return KindNone
	case errors.As(err, &empty):
		return KindEmptyExpression
	case errors.As(err, &syntax):
		return KindSyntax
	case errors.As(err, &divzero):
		return KindDivisionByZero
	case errors.As(err, &unknown):
		return KindUnknownFunction
	case errors.As(err, &domain):
		return KindDomain
	default:
		return KindOther
	}
}
