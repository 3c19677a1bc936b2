package mcp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// CompileSchema compiles a tool's declared input schema as JSON Schema Draft 7.
// A schema that does not compile is a programming error in the tool catalog.
func CompileSchema(name string, schema ObjectSchema) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7 // MCP uses JSON Schema Draft 7

	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	url := name + ".schema.json"
	if err := compiler.AddResource(url, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}

	compiled, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return compiled, nil
}

// checkContract verifies that a contract reads only declared properties and
// that its required arguments are exactly the schema's required list.
func checkContract(schema ObjectSchema, contract ArgContract) error {
	declared := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		if _, ok := schema.Properties[name]; !ok {
			return fmt.Errorf("required property %q is not declared", name)
		}
		declared[name] = true
	}

	seen := make(map[string]bool, len(contract))
	for _, arg := range contract {
		if seen[arg.Name] {
			return fmt.Errorf("argument %q listed twice in contract", arg.Name)
		}
		seen[arg.Name] = true

		if _, ok := schema.Properties[arg.Name]; !ok {
			return fmt.Errorf("argument %q is not a declared property", arg.Name)
		}
		if arg.Required != declared[arg.Name] {
			return fmt.Errorf("argument %q: contract required=%t, schema required=%t",
				arg.Name, arg.Required, declared[arg.Name])
		}
		delete(declared, arg.Name)
	}

	for _, name := range schema.Required {
		if declared[name] {
			return fmt.Errorf("required property %q has no contract entry", name)
		}
	}
	return nil
}

// ArgKind is the shape an argument must have.
type ArgKind int

const (
	// KindAny accepts any JSON value; non-strings are rendered as their JSON literal.
	KindAny ArgKind = iota
	// KindString requires a JSON string.
	KindString
	// KindNumber requires a JSON number. Booleans are not numbers.
	KindNumber
)

// ArgSpec is one entry of a tool's argument contract.
type ArgSpec struct {
	Name     string
	Kind     ArgKind
	Required bool
	Default  interface{}
}

// ArgContract lists the arguments a tool reads. Arguments not named in the
// contract are ignored.
type ArgContract []ArgSpec

// Args holds arguments that passed their contract.
type Args map[string]interface{}

// String returns a string argument, or "" if absent.
func (a Args) String(name string) string {
	s, _ := a[name].(string)
	return s
}

// Number returns a numeric argument, or "" if absent.
func (a Args) Number(name string) json.Number {
	n, _ := a[name].(json.Number)
	return n
}

// Validate checks raw against the contract and returns the coerced arguments.
// Every failure is an *RPCError; it never panics past its boundary.
func (c ArgContract) Validate(raw map[string]interface{}) (args Args, err error) {
	defer func() {
		if r := recover(); r != nil {
			args = nil
			err = &RPCError{
				Code:    InternalError,
				Message: fmt.Sprintf("Internal error: %v", panicError(r)),
			}
		}
	}()

	args = Args{}
	var missing []string
	var badNumbers bool
	var badString *ArgSpec

	for i := range c {
		spec := c[i]
		value, present := raw[spec.Name]
		if !present {
			if spec.Required {
				missing = append(missing, spec.Name)
			} else if spec.Default != nil {
				args[spec.Name] = spec.Default
			}
			continue
		}

		switch spec.Kind {
		case KindAny:
			text, err := literal(value)
			if err != nil {
				return nil, &RPCError{
					Code:    InternalError,
					Message: fmt.Sprintf("Internal error: %s", err.Error()),
				}
			}
			args[spec.Name] = text
		case KindString:
			s, ok := value.(string)
			if !ok {
				if badString == nil {
					badString = &c[i]
				}
				continue
			}
			args[spec.Name] = s
		case KindNumber:
			n, ok := toNumber(value)
			if !ok {
				badNumbers = true
				continue
			}
			args[spec.Name] = n
		}
	}

	if len(missing) > 0 {
		return nil, InvalidParamsError("Missing required parameter(s): %s", strings.Join(missing, ", "))
	}
	if badNumbers {
		return nil, c.numberError(raw)
	}
	if badString != nil {
		value := raw[badString.Name]
		return nil, InvalidParamsError("Parameter '%s' must be a string, got %s (%s)",
			badString.Name, describe(value), kindOf(value))
	}
	return args, nil
}

// numberError names every numeric argument with the value and kind received.
func (c ArgContract) numberError(raw map[string]interface{}) *RPCError {
	var names, got []string
	for _, spec := range c {
		if spec.Kind != KindNumber {
			continue
		}
		value := raw[spec.Name]
		names = append(names, "'"+spec.Name+"'")
		got = append(got, fmt.Sprintf("%s=%s (%s)", spec.Name, describe(value), kindOf(value)))
	}

	subject := "must be a number"
	if len(names) > 1 {
		subject = "must be numbers"
	}
	return InvalidParamsError("Invalid parameters: %s %s, got %s",
		strings.Join(names, " and "), subject, strings.Join(got, ", "))
}

// toNumber accepts JSON numbers only. Booleans are rejected explicitly even
// though some encodings treat them as integers.
func toNumber(v interface{}) (json.Number, bool) {
	switch n := v.(type) {
	case bool:
		return "", false
	case json.Number:
		if _, err := n.Float64(); err != nil {
			return "", false
		}
		return n, true
	case float64:
		return json.Number(strconv.FormatFloat(n, 'g', -1, 64)), true
	case float32:
		return json.Number(strconv.FormatFloat(float64(n), 'g', -1, 32)), true
	case int:
		return json.Number(strconv.Itoa(n)), true
	case int64:
		return json.Number(strconv.FormatInt(n, 10)), true
	default:
		return "", false
	}
}

func literal(v interface{}) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to render argument: %w", err)
	}
	return string(data), nil
}

func describe(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

func kindOf(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number, float64, float32, int, int64:
		return "number"
	case string:
		return "string"
	case []interface{}:
		return "array"
	case map[string]interface{}:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
