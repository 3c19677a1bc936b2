// Package expr evaluates restricted arithmetic expressions.
//
// Expressions are parsed by a dedicated recursive-descent parser into a small
// closed AST of numeric literals and arithmetic operators, then evaluated
// bottom-up with float64 arithmetic. There are no identifiers, calls or
// attribute lookups in the grammar, so nothing but arithmetic can run.
//
//	expr   := term (('+'|'-') term)*
//	term   := factor (('*'|'/'|'%') factor)*
//	factor := unary ('**' factor)?
//	unary  := ('+'|'-')? atom
//	atom   := number | '(' expr ')'
package expr

// Op is a binary arithmetic operator.
type Op int

const (
	OpAdd Op = iota + 1
	OpSub
	OpMul
	OpDiv
	OpPow
	OpMod
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpPow:
		return "**"
	case OpMod:
		return "%"
	default:
		return "?"
	}
}

// Sign is a unary operator.
type Sign int

const (
	SignPlus Sign = iota + 1
	SignMinus
)

func (s Sign) String() string {
	if s == SignMinus {
		return "-"
	}
	return "+"
}

// Node is an expression tree node. The set of implementations is closed:
// Number, Unary and Binary.
type Node interface {
	node()
}

// Number is a numeric literal.
type Number struct {
	Value float64
}

// Unary applies a sign to its operand.
type Unary struct {
	Sign Sign
	X    Node
}

// Binary applies Op to X and Y.
type Binary struct {
	Op   Op
	X, Y Node
}

func (*Number) node() {}
func (*Unary) node()  {}
func (*Binary) node() {}
