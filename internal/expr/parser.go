package expr

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// MaxLength is the longest expression accepted, in bytes.
	MaxLength = 1024
	// MaxDepth bounds parenthesis and exponent nesting.
	MaxDepth = 64
)

var (
	ErrEmpty          = errors.New("empty expression")
	ErrTooLong        = fmt.Errorf("expression longer than %d bytes", MaxLength)
	ErrTooDeep        = fmt.Errorf("expression nested deeper than %d levels", MaxDepth)
	ErrDivisionByZero = errors.New("division by zero")
	ErrModuloByZero   = errors.New("modulo by zero")
	ErrNotFinite      = errors.New("result is not a finite number")
)

// Error reports a failure to parse or evaluate an expression. The message
// embeds the offending expression and the underlying cause.
type Error struct {
	Expr string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("Invalid expression '%s': %v", e.Expr, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Parse builds the expression tree for src.
func Parse(src string) (Node, error) {
	if len(src) > MaxLength {
		return nil, &Error{Expr: truncate(src), Err: ErrTooLong}
	}
	if !utf8.ValidString(src) {
		return nil, &Error{Expr: src, Err: errors.New("expression is not valid UTF-8")}
	}
	if strings.TrimSpace(src) == "" {
		return nil, &Error{Expr: src, Err: ErrEmpty}
	}

	tokens, err := tokenize(src)
	if err != nil {
		return nil, &Error{Expr: src, Err: err}
	}

	p := &parser{tokens: tokens}
	root, err := p.parseExpr()
	if err != nil {
		return nil, &Error{Expr: src, Err: err}
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, &Error{Expr: src, Err: unexpected(tok)}
	}
	return root, nil
}

type parser struct {
	tokens []token
	pos    int
	depth  int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > MaxDepth {
		return ErrTooDeep
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

// expr := term (('+'|'-') term)*
func (p *parser) parseExpr() (Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		var op Op
		switch p.peek().kind {
		case tokPlus:
			op = OpAdd
		case tokMinus:
			op = OpSub
		default:
			return left, nil
		}
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, X: left, Y: right}
	}
}

// term := factor (('*'|'/'|'%') factor)*
func (p *parser) parseTerm() (Node, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for {
		var op Op
		switch p.peek().kind {
		case tokStar:
			op = OpMul
		case tokSlash:
			op = OpDiv
		case tokPercent:
			op = OpMod
		default:
			return left, nil
		}
		p.next()
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, X: left, Y: right}
	}
}

// factor := unary ('**' factor)?
func (p *parser) parseFactor() (Node, error) {
	base, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokStarStar {
		return base, nil
	}
	p.next()

	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	exponent, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	return &Binary{Op: OpPow, X: base, Y: exponent}, nil
}

// unary := ('+'|'-')? atom
func (p *parser) parseUnary() (Node, error) {
	var sign Sign
	switch p.peek().kind {
	case tokPlus:
		sign = SignPlus
	case tokMinus:
		sign = SignMinus
	default:
		return p.parseAtom()
	}
	p.next()

	operand, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	return &Unary{Sign: sign, X: operand}, nil
}

// atom := number | '(' expr ')'
func (p *parser) parseAtom() (Node, error) {
	tok := p.next()
	switch tok.kind {
	case tokNumber:
		return &Number{Value: tok.value}, nil
	case tokLParen:
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()

		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, fmt.Errorf("expected ')' at position %d, found %s", closing.pos, closing.kind)
		}
		return inner, nil
	default:
		return nil, unexpected(tok)
	}
}

func unexpected(tok token) error {
	if tok.kind == tokEOF {
		return errors.New("unexpected end of expression")
	}
	return fmt.Errorf("unexpected %s at position %d", tok.kind, tok.pos)
}

func truncate(src string) string {
	const keep = 32
	if len(src) <= keep {
		return src
	}
	cut := keep
	for cut > 0 && !utf8.RuneStart(src[cut]) {
		cut--
	}
	return src[:cut] + "..."
}
