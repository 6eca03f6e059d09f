package calculator

import (
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
)

// Expr = num | Call | Neg | Plus | Add | Sub | Mul | Div | Pow | Percent | '(' Expr ')'
// Call = funcname | funcname '(' ')' | funcname '(' Expr { ',' Expr } ')'
// Neg = '-' Expr
// Plus = '+' Expr
// Add = Expr '+' Expr
// Sub = Expr '-' Expr
// Mul = Expr '*' Expr | Expr '×' Expr
// Div = Expr '/' Expr | Expr '÷' Expr
// Pow = Expr '^' Expr
// Percent = Expr '%'

// Expr is a parsed expression. It holds no evaluation state, so it may be
// evaluated any number of times, concurrently, by any Evaluator. The functions
// an Expr calls are those of the Evaluator that parsed it.
type Expr struct {
	// n is the root node of the expression.
	n *node
}

// parsectx holds general data for parsing.
type parsectx struct {
	// funcs is the set of function and constant names.
	funcs map[string]Func
	// depth is the number of terms currently being parsed.
	depth int
}

// maxDepth is the deepest nesting of parentheses, unary operators, and
// right-associative operators that Parse accepts.
const maxDepth = 1000

// Parse parses an expression from src using the evaluator's functions. The
// entire input is consumed as a single expression.
func (e *Evaluator) Parse(src io.RuneScanner) (*Expr, error) {
	scan := lex(src)
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	if tok.kind == tokenEOF {
		return nil, &EmptyExpressionError{Col: tok.pos}
	}
	scan.push(tok)
	p := parsectx{funcs: e.funcs}
	n, err := parseterm(scan, &p, exprprec)
	if err != nil {
		return nil, err
	}
	if tok := scan.must(); tok.kind != tokenEOF {
		return nil, itShouldNotHaveEndedThisWay(tok, nil)
	}
	return &Expr{n: n}, nil
}

// parseterm parses a single term. If there is no error, then parseterm pushes
// the last token it scans, including EOF.
func parseterm(scan *lexer, p *parsectx, until operator) (*node, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxDepth {
		return nil, tooDeep(scan)
	}
	n, err := parselhs(scan, p, until)
	if err != nil {
		return nil, err
	}
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenNum, tokenIdent, tokenOpen:
			// Juxtaposition is not multiplication.
			return nil, &SyntaxError{Col: tok.pos, Text: tok.text, Reason: "missing operator before"}
		case tokenOp:
			if tok.text == "%" {
				// Postfix percentage binds tighter than anything else.
				n = &node{kind: nodePercent, pos: tok.pos, left: n}
				continue
			}
			prec := binop(tok.text)
			if prec.op == nodeNone {
				return nil, &SyntaxError{Col: tok.pos, Text: tok.text, Reason: "unknown operator"}
			}
			if !prec.moreBinding(until) {
				scan.push(tok)
				return n, nil
			}
			rhs, err := parseterm(scan, p, prec)
			if err != nil {
				return nil, err
			}
			n = &node{kind: prec.op, pos: tok.pos, left: n, right: rhs}
		case tokenClose, tokenSep, tokenEOF:
			// End of expression.
			scan.push(tok)
			return n, nil
		default:
			panic("calculator: unknown token: " + tok.String())
		}
	}
}

// tooDeep creates an error for the token at which nesting exceeds maxDepth.
func tooDeep(scan *lexer) error {
	tok, err := scan.next()
	if err != nil {
		return err
	}
	if tok.kind == tokenEOF {
		return &SyntaxError{Col: tok.pos, Reason: "expression nested too deeply at end of input"}
	}
	return &SyntaxError{Col: tok.pos, Text: tok.text, Reason: "expression nested too deeply at"}
}

// parselhs parses the first component of a term. I.e., operators are unary
// and any encountered token must be valid as the start of a subexpression.
func parselhs(scan *lexer, p *parsectx, until operator) (*node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	switch tok.kind {
	case tokenNum:
		v, err := strconv.ParseFloat(tok.text, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			// The lexer only produces valid decimal literals.
			panic("calculator: invalid number: " + tok.text + " (" + err.Error() + ")")
		}
		return &node{kind: nodeNum, pos: tok.pos, name: tok.text, num: v}, nil
	case tokenIdent:
		fn := p.funcs[tok.text]
		if fn == nil {
			return nil, &UnknownFunctionError{Col: tok.pos, Name: tok.text}
		}
		return parsecall(scan, p, fn, tok)
	case tokenOp:
		prec := unop(tok.text)
		if prec.op == nodeNone {
			return nil, &SyntaxError{Col: tok.pos, Text: tok.text, Reason: "missing operand before"}
		}
		if !prec.moreBinding(until) {
			// x^-y -> x^(-y)
			// Just use the new operator's precedence to simplify.
			prec.prec, prec.right = until.prec, until.right
		}
		rhs, err := parseterm(scan, p, prec)
		if err != nil {
			return nil, err
		}
		return &node{kind: prec.op, pos: tok.pos, left: rhs}, nil
	case tokenOpen:
		n, err := parseterm(scan, p, exprprec)
		if err != nil {
			return nil, err
		}
		if end := scan.must(); end.kind != tokenClose {
			return nil, itShouldNotHaveEndedThisWay(end, &tok)
		}
		return n, nil
	case tokenClose, tokenSep:
		// Covers both () and (1+).
		return nil, &SyntaxError{Col: tok.pos, Text: tok.text, Reason: "missing operand before"}
	case tokenEOF:
		return nil, &SyntaxError{Col: tok.pos, Reason: "missing operand at end of input"}
	default:
		panic("calculator: unknown token: " + tok.String())
	}
}

// parsecall parses the arguments to a call of a given Func named by the token
// name.
func parsecall(scan *lexer, p *parsectx, fn Func, name lexToken) (*node, error) {
	n := &node{kind: nodeCall, pos: name.pos, name: name.text, fn: fn}
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	if tok.kind != tokenOpen {
		if fn.CanCall(0) {
			// Bare constant, e.g. pi.
			scan.push(tok)
			return n, nil
		}
		reason := "expected ( after " + name.text
		if tok.kind != tokenEOF {
			reason += ", not"
		}
		return nil, &SyntaxError{Col: tok.pos, Text: tok.text, Reason: reason}
	}
	args, err := parsearglist(scan, p, tok)
	if err != nil {
		return nil, err
	}
	if !fn.CanCall(len(args)) {
		return nil, &SyntaxError{Col: name.pos, Text: name.text, Reason: "wrong number of arguments (" + strconv.Itoa(len(args)) + ") for"}
	}
	n.args = args
	return n, nil
}

// parsearglist parses a parenthesized list of zero or more args. open is the
// token that opened the list.
func parsearglist(scan *lexer, p *parsectx, open lexToken) ([]*node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	if tok.kind == tokenClose {
		return nil, nil
	}
	scan.push(tok)
	var args []*node
	for {
		n, err := parseterm(scan, p, exprprec)
		if err != nil {
			return nil, err
		}
		args = append(args, n)
		switch end := scan.must(); end.kind {
		case tokenClose:
			return args, nil
		case tokenSep:
			// Next argument.
		case tokenEOF:
			return nil, itShouldNotHaveEndedThisWay(end, &open)
		default:
			panic("calculator: parseterm ended on non-end token " + end.String())
		}
	}
}

// itShouldNotHaveEndedThisWay returns an error appropriate for an unexpected
// token at the end of a subexpression. open is the bracket that the expression
// should have matched, or nil if none.
func itShouldNotHaveEndedThisWay(tok lexToken, open *lexToken) error {
	switch tok.kind {
	case tokenEOF:
		// Unexpected EOF implies an open bracket that was not closed.
		return &SyntaxError{Col: open.pos, Text: open.text, Reason: "unclosed parenthesis"}
	case tokenClose:
		return &SyntaxError{Col: tok.pos, Text: tok.text, Reason: "close parenthesis with no open parenthesis"}
	case tokenSep:
		// Separator outside a function call.
		return &SyntaxError{Col: tok.pos, Text: tok.text, Reason: "separator outside function call"}
	default:
		panic("calculator: it really should not have ended this way: " + tok.String())
	}
}

// String creates a string representation of the parsed expression, with
// alternating round and square brackets grouping each term.
func (e *Expr) String() string {
	var b strings.Builder
	e.n.fmt(&b, false)
	return b.String()
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the node kind to use when this operator is selected.
	op nodeKind
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets a binary operator for a token string. If there is no such binary
// operator, then the result has an op of nodeNone.
func binop(text string) operator {
	switch text {
	case "+":
		return operator{1, false, nodeAdd}
	case "-":
		return operator{1, false, nodeSub}
	case "*", "×":
		return operator{5, false, nodeMul}
	case "/", "÷":
		return operator{5, false, nodeDiv}
	case "^":
		return operator{15, true, nodePow}
	default:
		return operator{}
	}
}

// unop gets a unary operator for a token string. If there is no such unary
// operator, then the result has an op of nodeNone.
func unop(text string) operator {
	switch text {
	case "+":
		return operator{10, true, nodeNop}
	case "-":
		return operator{10, true, nodeNeg}
	default:
		return operator{}
	}
}

// exprprec is the precedence required to parse an entire subexpression.
var exprprec = operator{math.MinInt8, true, nodeNone}
