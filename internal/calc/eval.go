// Package calc evaluates arithmetic expressions without executing code.
//
// Expressions are parsed into a tree that can only hold number literals,
// unary + and -, and the binary operators + - * / // % **. Every numeric
// literal is treated as a float64; floor division and modulo follow the
// flooring convention (the result of % takes the sign of the divisor).
package calc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	// ErrDivisionByZero is returned for /, // and % with a zero divisor.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrNotFinite is returned when an operation overflows or has no real result.
	ErrNotFinite = errors.New("result is not a finite number")
)

// SyntaxError reports input that is not a valid restricted expression.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at position %d", e.Msg, e.Pos)
}

// Error wraps any parse or evaluation failure for an expression.
type Error struct {
	Expr  string
	Cause error
}

func (e *Error) Error() string {
	return "evaluation error: " + e.Cause.Error()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

type operator int

const (
	opAdd operator = iota
	opSub
	opMul
	opDiv
	opFloorDiv
	opMod
	opPow
	opPos
	opNeg
)

var operatorSymbols = map[operator]string{
	opAdd:      "+",
	opSub:      "-",
	opMul:      "*",
	opDiv:      "/",
	opFloorDiv: "//",
	opMod:      "%",
	opPow:      "**",
	opPos:      "+",
	opNeg:      "-",
}

type node interface {
	eval() (float64, error)
	String() string
}

type numberNode float64

func (n numberNode) eval() (float64, error) {
	return float64(n), nil
}

func (n numberNode) String() string {
	return strconv.FormatFloat(float64(n), 'g', -1, 64)
}

type unaryNode struct {
	op      operator
	operand node
}

func (n *unaryNode) eval() (float64, error) {
	v, err := n.operand.eval()
	if err != nil {
		return 0, err
	}
	if n.op == opNeg {
		return -v, nil
	}
	return v, nil
}

func (n *unaryNode) String() string {
	return "(" + operatorSymbols[n.op] + n.operand.String() + ")"
}

type binaryNode struct {
	op          operator
	left, right node
}

func (n *binaryNode) eval() (float64, error) {
	a, err := n.left.eval()
	if err != nil {
		return 0, err
	}
	b, err := n.right.eval()
	if err != nil {
		return 0, err
	}

	var v float64
	switch n.op {
	case opAdd:
		v = a + b
	case opSub:
		v = a - b
	case opMul:
		v = a * b
	case opDiv:
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		v = a / b
	case opFloorDiv:
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		v = floorDiv(a, b)
	case opMod:
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		v = floorMod(a, b)
	case opPow:
		if a == 0 && b < 0 {
			return 0, ErrDivisionByZero
		}
		v = math.Pow(a, b)
	default:
		return 0, fmt.Errorf("unsupported operator %d", n.op)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNotFinite
	}
	return v, nil
}

func (n *binaryNode) String() string {
	return "(" + n.left.String() + " " + operatorSymbols[n.op] + " " + n.right.String() + ")"
}

// floorMod returns a - b*floor(a/b) computed from math.Mod so the result
// keeps the sign of b.
func floorMod(a, b float64) float64 {
	mod := math.Mod(a, b)
	if mod != 0 && (b < 0) != (mod < 0) {
		mod += b
	}
	return mod
}

func floorDiv(a, b float64) float64 {
	mod := math.Mod(a, b)
	div := (a - mod) / b
	if mod != 0 && (b < 0) != (mod < 0) {
		div -= 1
	}
	if div == 0 {
		return math.Copysign(0, a/b)
	}
	floor := math.Floor(div)
	if div-floor > 0.5 {
		floor++
	}
	return floor
}

// Expr is a parsed expression ready for evaluation.
type Expr struct {
	src  string
	root node
}

// Eval computes the value of the expression.
func (e *Expr) Eval() (float64, error) {
	return e.root.eval()
}

// String renders the tree fully parenthesised.
func (e *Expr) String() string {
	return e.root.String()
}

// Source returns the text the expression was parsed from.
func (e *Expr) Source() string {
	return e.src
}

// Evaluate parses and evaluates src. Any failure is returned as *Error.
func Evaluate(src string) (float64, error) {
	expr, err := Parse(src)
	if err != nil {
		return 0, &Error{Expr: src, Cause: err}
	}
	v, err := expr.Eval()
	if err != nil {
		return 0, &Error{Expr: src, Cause: err}
	}
	return v, nil
}
