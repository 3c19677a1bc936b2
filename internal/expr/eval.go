package expr

import (
	"fmt"
	"math"
	"strconv"
)

// Evaluate parses and evaluates src. Every failure is an *Error.
func Evaluate(src string) (float64, error) {
	root, err := Parse(src)
	if err != nil {
		return 0, err
	}
	value, err := Eval(root)
	if err != nil {
		return 0, &Error{Expr: src, Err: err}
	}
	return value, nil
}

// Eval computes the value of a parsed tree.
func Eval(n Node) (float64, error) {
	switch n := n.(type) {
	case *Number:
		return n.Value, nil
	case *Unary:
		x, err := Eval(n.X)
		if err != nil {
			return 0, err
		}
		if n.Sign == SignMinus {
			return -x, nil
		}
		return x, nil
	case *Binary:
		x, err := Eval(n.X)
		if err != nil {
			return 0, err
		}
		y, err := Eval(n.Y)
		if err != nil {
			return 0, err
		}
		return apply(n.Op, x, y)
	default:
		return 0, fmt.Errorf("unsupported node %T", n)
	}
}

func apply(op Op, x, y float64) (float64, error) {
	var v float64
	switch op {
	case OpAdd:
		v = x + y
	case OpSub:
		v = x - y
	case OpMul:
		v = x * y
	case OpDiv:
		if y == 0 {
			return 0, ErrDivisionByZero
		}
		v = x / y
	case OpMod:
		if y == 0 {
			return 0, ErrModuloByZero
		}
		v = math.Mod(x, y)
	case OpPow:
		v = math.Pow(x, y)
	default:
		return 0, fmt.Errorf("unsupported operator %v", op)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNotFinite
	}
	return v, nil
}

// Format renders v without a trailing ".0" for integral values and without
// exponent notation below 1e15.
func Format(v float64) string {
	if v == 0 {
		return "0"
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
