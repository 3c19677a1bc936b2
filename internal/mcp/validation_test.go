package mcp

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgContractNumbers(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]interface{}
		wantErr string
	}{
		{"integers", map[string]interface{}{"a": json.Number("5"), "b": json.Number("3")}, ""},
		{"floats", map[string]interface{}{"a": json.Number("2.5"), "b": json.Number("1.5")}, ""},
		{"native numbers", map[string]interface{}{"a": 5, "b": 2.5}, ""},
		{"string numbers", map[string]interface{}{"a": "5", "b": "3"},
			`Invalid parameters: 'a' and 'b' must be numbers, got a="5" (string), b="3" (string)`},
		{"mixed", map[string]interface{}{"a": json.Number("5"), "b": "3"},
			`got a=5 (number), b="3" (string)`},
		{"booleans", map[string]interface{}{"a": true, "b": false},
			`got a=true (boolean), b=false (boolean)`},
		{"boolean and number", map[string]interface{}{"a": true, "b": json.Number("1")},
			`got a=true (boolean), b=1 (number)`},
		{"array", map[string]interface{}{"a": []interface{}{json.Number("1")}, "b": json.Number("3")},
			`a=[1] (array)`},
		{"object", map[string]interface{}{"a": map[string]interface{}{"num": json.Number("5")}, "b": json.Number("3")},
			`a={"num":5} (object)`},
		{"null", map[string]interface{}{"a": nil, "b": json.Number("3")},
			`a=null (null)`},
		{"missing b", map[string]interface{}{"a": json.Number("5")}, "Missing required parameter(s): b"},
		{"missing both", map[string]interface{}{}, "Missing required parameter(s): a, b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := addNumbersContract.Validate(tt.args)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.NotEmpty(t, args.Number("a"))
				assert.NotEmpty(t, args.Number("b"))
				return
			}
			require.Error(t, err)
			rpcErr, ok := err.(*RPCError)
			require.True(t, ok)
			assert.Equal(t, InvalidParams, rpcErr.Code)
			assert.Contains(t, rpcErr.Message, tt.wantErr)
		})
	}
}

func TestArgContractSingleNumber(t *testing.T) {
	contract := ArgContract{{Name: "n", Kind: KindNumber, Required: true}}
	_, err := contract.Validate(map[string]interface{}{"n": "x"})
	require.Error(t, err)
	assert.Equal(t, `Invalid parameters: 'n' must be a number, got n="x" (string)`, err.Error())
}

func TestArgContractStrings(t *testing.T) {
	args, err := calculateContract.Validate(map[string]interface{}{"expression": "1+1"})
	require.NoError(t, err)
	assert.Equal(t, "1+1", args.String("expression"))

	args, err = calculateContract.Validate(map[string]interface{}{"expression": ""})
	require.NoError(t, err, "emptiness is left to the evaluator")
	assert.Equal(t, "", args.String("expression"))

	_, err = calculateContract.Validate(map[string]interface{}{"expression": json.Number("5")})
	require.Error(t, err)
	assert.Equal(t, "Parameter 'expression' must be a string, got 5 (number)", err.Error())

	_, err = calculateContract.Validate(map[string]interface{}{})
	require.Error(t, err)
	assert.Equal(t, InvalidParams, FormatMCPError(err).Code)
}

func TestArgContractAny(t *testing.T) {
	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{"absent defaults to empty", map[string]interface{}{}, ""},
		{"string", map[string]interface{}{"text": "hi"}, "hi"},
		{"number literal", map[string]interface{}{"text": json.Number("42")}, "42"},
		{"boolean literal", map[string]interface{}{"text": true}, "true"},
		{"null literal", map[string]interface{}{"text": nil}, "null"},
		{"array literal", map[string]interface{}{"text": []interface{}{"a", json.Number("1")}}, `["a",1]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := echoContract.Validate(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, args.String("text"))
		})
	}
}

func TestArgContractIgnoresUnknownArguments(t *testing.T) {
	var none ArgContract
	args, err := none.Validate(map[string]interface{}{"anything": json.Number("1")})
	require.NoError(t, err)
	assert.Empty(t, args)
}

func TestArgContractUnrenderableValue(t *testing.T) {
	args, err := echoContract.Validate(map[string]interface{}{"text": make(chan int)})
	assert.Nil(t, args)
	require.Error(t, err)
	assert.Equal(t, InternalError, FormatMCPError(err).Code)
}

func TestCompileSchema(t *testing.T) {
	for _, spec := range DefaultTools(testExecutor()) {
		_, err := CompileSchema(spec.Name, spec.InputSchema)
		assert.NoError(t, err, spec.Name)
	}

	_, err := CompileSchema("broken", ObjectSchema{
		Type: "object",
		Properties: map[string]PropertySchema{
			"x": {Type: "no-such-type"},
		},
	})
	assert.Error(t, err)
}

func TestCheckContract(t *testing.T) {
	for _, spec := range DefaultTools(testExecutor()) {
		assert.NoError(t, checkContract(spec.InputSchema, spec.Contract), spec.Name)
	}

	schema := ObjectSchema{
		Type: "object",
		Properties: map[string]PropertySchema{
			"a": {Type: "number", Description: "a"},
			"b": {Type: "number", Description: "b"},
		},
		Required: []string{"a"},
	}
	tests := []struct {
		name     string
		schema   ObjectSchema
		contract ArgContract
		wantErr  string
	}{
		{"matching", schema, ArgContract{{Name: "a", Required: true}, {Name: "b"}}, ""},
		{"optional only in contract", schema, ArgContract{{Name: "a", Required: true}}, ""},
		{"undeclared argument", schema, ArgContract{{Name: "a", Required: true}, {Name: "c"}}, `"c" is not a declared property`},
		{"required mismatch", schema, ArgContract{{Name: "a"}}, `"a": contract required=false, schema required=true`},
		{"extra required in contract", schema, ArgContract{{Name: "a", Required: true}, {Name: "b", Required: true}}, `"b": contract required=true`},
		{"missing contract entry", schema, nil, `"a" has no contract entry`},
		{"duplicate entry", schema, ArgContract{{Name: "a", Required: true}, {Name: "a", Required: true}}, "listed twice"},
		{"required not declared", ObjectSchema{Type: "object", Required: []string{"z"}}, nil, `"z" is not declared`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkContract(tt.schema, tt.contract)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
