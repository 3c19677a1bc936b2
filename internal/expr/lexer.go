package expr

import (
	"fmt"
	"strconv"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokPlus
	tokMinus
	tokStar
	tokStarStar
	tokSlash
	tokPercent
	tokLParen
	tokRParen
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of expression"
	case tokNumber:
		return "number"
	case tokPlus:
		return "'+'"
	case tokMinus:
		return "'-'"
	case tokStar:
		return "'*'"
	case tokStarStar:
		return "'**'"
	case tokSlash:
		return "'/'"
	case tokPercent:
		return "'%'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	default:
		return "unknown token"
	}
}

type token struct {
	kind  tokenKind
	pos   int // rune offset into the source
	value float64
}

// tokenize splits src into tokens. Anything outside the arithmetic alphabet
// is rejected here, so identifiers never reach the parser.
func tokenize(src string) ([]token, error) {
	runes := []rune(src)
	tokens := make([]token, 0, len(runes)/2+1)

	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			i++
		case r == '+':
			tokens = append(tokens, token{kind: tokPlus, pos: i})
			i++
		case r == '-':
			tokens = append(tokens, token{kind: tokMinus, pos: i})
			i++
		case r == '*':
			if i+1 < len(runes) && runes[i+1] == '*' {
				tokens = append(tokens, token{kind: tokStarStar, pos: i})
				i += 2
			} else {
				tokens = append(tokens, token{kind: tokStar, pos: i})
				i++
			}
		case r == '/':
			tokens = append(tokens, token{kind: tokSlash, pos: i})
			i++
		case r == '%':
			tokens = append(tokens, token{kind: tokPercent, pos: i})
			i++
		case r == '(':
			tokens = append(tokens, token{kind: tokLParen, pos: i})
			i++
		case r == ')':
			tokens = append(tokens, token{kind: tokRParen, pos: i})
			i++
		case isDigit(r) || r == '.':
			tok, next, err := scanNumber(runes, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			i = next
		case r == '_' || unicode.IsLetter(r):
			start := i
			for i < len(runes) && (runes[i] == '_' || unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i])) {
				i++
			}
			return nil, fmt.Errorf("unsupported identifier %q at position %d", string(runes[start:i]), start)
		default:
			return nil, fmt.Errorf("unexpected character %q at position %d", r, i)
		}
	}

	tokens = append(tokens, token{kind: tokEOF, pos: len(runes)})
	return tokens, nil
}

// scanNumber reads digits [ '.' digits ] [ ('e'|'E') [sign] digits ].
func scanNumber(runes []rune, start int) (token, int, error) {
	i := start
	digits := 0
	for i < len(runes) && isDigit(runes[i]) {
		i++
		digits++
	}
	if i < len(runes) && runes[i] == '.' {
		i++
		for i < len(runes) && isDigit(runes[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return token{}, 0, fmt.Errorf("malformed number at position %d", start)
	}
	if i < len(runes) && (runes[i] == 'e' || runes[i] == 'E') {
		j := i + 1
		if j < len(runes) && (runes[j] == '+' || runes[j] == '-') {
			j++
		}
		expDigits := 0
		for j < len(runes) && isDigit(runes[j]) {
			j++
			expDigits++
		}
		if expDigits == 0 {
			return token{}, 0, fmt.Errorf("malformed exponent at position %d", i)
		}
		i = j
	}

	literal := string(runes[start:i])
	value, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return token{}, 0, fmt.Errorf("invalid number %q at position %d: %w", literal, start, err)
	}
	return token{kind: tokNumber, pos: start, value: value}, i, nil
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
