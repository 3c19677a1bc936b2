package mcp

import (
	"bytes"
	"encoding/json"
	"fmt"
)

var nullID = json.RawMessage("null")

// ParseJSONRPCRequest decodes a raw request body.
// Any body that is not a single JSON-RPC object yields a ParseError.
func ParseJSONRPCRequest(raw []byte) (*JSONRPCRequest, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, &RPCError{
			Code:    ParseError,
			Message: "Parse error: empty request body",
		}
	}
	if trimmed[0] != '{' {
		return nil, &RPCError{
			Code:    ParseError,
			Message: "Parse error: request must be a JSON object",
		}
	}

	var req JSONRPCRequest
	if err := json.Unmarshal(trimmed, &req); err != nil {
		return nil, &RPCError{
			Code:    ParseError,
			Message: fmt.Sprintf("Parse error: %s", err.Error()),
		}
	}

	req.ID = normalizeID(req.ID)
	if !validID(req.ID) {
		return nil, &RPCError{
			Code:    ParseError,
			Message: "Parse error: 'id' must be a string, number or null",
		}
	}

	return &req, nil
}

// EncodeResponse serializes a response for the wire.
func EncodeResponse(resp *JSONRPCResponse) ([]byte, error) {
	if resp.ID == nil {
		resp.ID = nullID
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return data, nil
}

// ParseCallToolParams extracts tools/call parameters from JSON-RPC params.
// A missing, null or non-string name cannot match any tool and is reported
// as an unknown tool named by its JSON literal.
func ParseCallToolParams(params json.RawMessage) (*CallToolParams, error) {
	var raw struct {
		Name      json.RawMessage `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	trimmed := bytes.TrimSpace(params)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, &RPCError{
				Code:    InvalidParams,
				Message: "Invalid tools/call parameters",
				Data:    err.Error(),
			}
		}
	}

	name := bytes.TrimSpace(raw.Name)
	if len(name) == 0 || name[0] != '"' {
		if len(name) == 0 {
			name = nullID
		}
		return nil, UnknownToolError(string(name))
	}

	toolParams := &CallToolParams{Arguments: raw.Arguments}
	if err := json.Unmarshal(name, &toolParams.Name); err != nil {
		return nil, UnknownToolError(string(name))
	}
	return toolParams, nil
}

// DecodeArguments turns raw tool arguments into a map. Absent or null
// arguments become an empty map. Numbers stay json.Number so integers
// are not silently widened to float64.
func DecodeArguments(raw json.RawMessage) (map[string]interface{}, error) {
	args := map[string]interface{}{}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, nullID) {
		return args, nil
	}
	if trimmed[0] != '{' {
		return nil, &RPCError{
			Code:    InvalidParams,
			Message: "Tool arguments must be a JSON object",
		}
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	if err := dec.Decode(&args); err != nil {
		return nil, &RPCError{
			Code:    InvalidParams,
			Message: "Invalid tool arguments",
			Data:    err.Error(),
		}
	}
	return args, nil
}

// NewJSONRPCError creates a JSON-RPC error response
func NewJSONRPCError(id json.RawMessage, code int, message string, data interface{}) *JSONRPCResponse {
	return &JSONRPCResponse{
		JSONRPC: JSONRPCVersion,
		ID:      normalizeID(id),
		Error: &RPCError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// NewJSONRPCResult creates a JSON-RPC success response
func NewJSONRPCResult(id json.RawMessage, result interface{}) *JSONRPCResponse {
	return &JSONRPCResponse{
		JSONRPC: JSONRPCVersion,
		ID:      normalizeID(id),
		Result:  result,
	}
}

// ErrorResponse wraps an already classified error into a response envelope.
func ErrorResponse(id json.RawMessage, rpcErr *RPCError) *JSONRPCResponse {
	return NewJSONRPCError(id, rpcErr.Code, rpcErr.Message, rpcErr.Data)
}

func normalizeID(id json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(id)
	if len(trimmed) == 0 {
		return nullID
	}
	return trimmed
}

func validID(id json.RawMessage) bool {
	switch c := id[0]; {
	case c == '"':
		return true
	case c == '-' || (c >= '0' && c <= '9'):
		return true
	default:
		return bytes.Equal(id, nullID)
	}
}
