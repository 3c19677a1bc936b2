package expr

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want float64
	}{
		{"addition", "2 + 3", 5},
		{"subtraction", "10 - 4", 6},
		{"multiplication", "6 * 7", 42},
		{"true division", "15 / 3", 5},
		{"non-integer division", "7 / 2", 3.5},
		{"exponentiation", "2 ** 3", 8},
		{"precedence", "2 + 3 * 4", 14},
		{"parentheses", "(2+3)*4", 20},
		{"nested parentheses", "((1 + 2) * (3 + 4))", 21},
		{"decimals", "2.5 + 1.5", 4},
		{"leading dot", ".5 * 4", 2},
		{"exponent literal", "1e3 + 1", 1001},
		{"remainder", "7 % 3", 1},
		{"remainder keeps dividend sign", "-7 % 3", -1},
		{"left associative subtraction", "10 - 4 - 3", 3},
		{"left associative division", "16 / 4 / 2", 2},
		{"right associative power", "2 ** 3 ** 2", 512},
		{"unary minus", "-5 + 2", -3},
		{"unary plus", "+5", 5},
		{"negative exponent", "2 ** -1", 0.5},
		{"signed base binds before power", "-2 ** 2", 4},
		{"unary inside term", "3 * -2", -6},
		{"whitespace", "\t1 +\n2 ", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.src)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestEvaluateRejects(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		cause   error
		message string
	}{
		{"empty", "", ErrEmpty, "empty expression"},
		{"blank", "   ", ErrEmpty, "empty expression"},
		{"identifiers", "hello + world", nil, `unsupported identifier "hello"`},
		{"mixed text", "2 + abc", nil, `unsupported identifier "abc" at position 4`},
		{"cyrillic", "1 + ц", nil, `unsupported identifier "ц" at position 4`},
		{"cyrillic words", "привет + мир", nil, "unsupported identifier"},
		{"import statement", "import os", nil, `unsupported identifier "import"`},
		{"function call", "print('hello')", nil, `unsupported identifier "print"`},
		{"dunder access", "__import__('os')", nil, "unsupported identifier"},
		{"quote", "'1'", nil, "unexpected character"},
		{"incomplete", "2 +", nil, "unexpected end of expression"},
		{"leading operator", "/ 5", nil, "unexpected '/' at position 0"},
		{"double sign", "--2", nil, "unexpected '-'"},
		{"unclosed paren", "(1 + 2", nil, "expected ')'"},
		{"stray paren", "1 + 2)", nil, "unexpected ')'"},
		{"adjacent numbers", "1 2", nil, "unexpected number"},
		{"bitwise operator", "1 ^ 2", nil, "unexpected character"},
		{"floor division", "7 // 2", nil, "unexpected '/'"},
		{"bad exponent", "1e+", nil, "malformed exponent"},
		{"lone dot", ".", nil, "malformed number"},
		{"division by zero", "1 / 0", ErrDivisionByZero, "division by zero"},
		{"division by zero expression", "1 / (2 - 2)", ErrDivisionByZero, "division by zero"},
		{"modulo by zero", "5 % 0", ErrModuloByZero, "modulo by zero"},
		{"overflow", "10 ** 400", ErrNotFinite, "not a finite number"},
		{"complex root", "(-8) ** 0.5", ErrNotFinite, "not a finite number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Evaluate(tt.src)
			require.Error(t, err)

			var exprErr *Error
			require.True(t, errors.As(err, &exprErr), "expected *Error, got %T", err)
			assert.Equal(t, tt.src, exprErr.Expr)
			assert.Contains(t, err.Error(), "Invalid expression '"+tt.src+"'")
			assert.Contains(t, err.Error(), tt.message)
			if tt.cause != nil {
				assert.ErrorIs(t, err, tt.cause)
			}
		})
	}
}

func TestParseLimits(t *testing.T) {
	t.Run("too long", func(t *testing.T) {
		src := strings.Repeat("1+", MaxLength) + "1"
		_, err := Parse(src)
		assert.ErrorIs(t, err, ErrTooLong)

		var exprErr *Error
		require.ErrorAs(t, err, &exprErr)
		assert.Less(t, len(exprErr.Expr), 40)
	})

	t.Run("too deep", func(t *testing.T) {
		src := strings.Repeat("(", MaxDepth+1) + "1" + strings.Repeat(")", MaxDepth+1)
		_, err := Parse(src)
		assert.ErrorIs(t, err, ErrTooDeep)
	})

	t.Run("deep but allowed", func(t *testing.T) {
		src := strings.Repeat("(", MaxDepth) + "1" + strings.Repeat(")", MaxDepth)
		v, err := Evaluate(src)
		require.NoError(t, err)
		assert.Equal(t, 1.0, v)
	})
}

func TestParseTreeShape(t *testing.T) {
	root, err := Parse("1 - 2 * 3 ** 2")
	require.NoError(t, err)

	sub, ok := root.(*Binary)
	require.True(t, ok)
	assert.Equal(t, OpSub, sub.Op)
	assert.Equal(t, &Number{Value: 1}, sub.X)

	mul, ok := sub.Y.(*Binary)
	require.True(t, ok)
	assert.Equal(t, OpMul, mul.Op)

	pow, ok := mul.Y.(*Binary)
	require.True(t, ok)
	assert.Equal(t, OpPow, pow.Op)
	assert.Equal(t, &Number{Value: 3}, pow.X)
	assert.Equal(t, &Number{Value: 2}, pow.Y)
}

func TestParseUnaryNode(t *testing.T) {
	root, err := Parse("-(4)")
	require.NoError(t, err)
	assert.Equal(t, &Unary{Sign: SignMinus, X: &Number{Value: 4}}, root)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{14, "14"},
		{20, "20"},
		{-3, "-3"},
		{2.5, "2.5"},
		{0.5, "0.5"},
		{0, "0"},
		{1e20, "1e+20"},
		{1.0 / 3.0, "0.3333333333333333"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.in))
	}
}
