package mcp

import (
	"errors"
	"fmt"

	"mcpserver/internal/expr"
)

// FormatMCPError classifies any error into one of the four JSON-RPC error kinds.
// Expression failures are the caller's fault and become InvalidParams;
// anything unclassified becomes InternalError with the original text embedded.
func FormatMCPError(err error) *RPCError {
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr
	}

	var exprErr *expr.Error
	if errors.As(err, &exprErr) {
		return &RPCError{
			Code:    InvalidParams,
			Message: exprErr.Error(),
		}
	}

	return &RPCError{
		Code:    InternalError,
		Message: fmt.Sprintf("Internal error: %s", err.Error()),
	}
}

// InvalidParamsError builds an InvalidParams error.
func InvalidParamsError(format string, args ...interface{}) *RPCError {
	return &RPCError{
		Code:    InvalidParams,
		Message: fmt.Sprintf(format, args...),
	}
}

// UnknownToolError is returned by tools/call for a name not in the registry.
func UnknownToolError(name string) *RPCError {
	return &RPCError{
		Code:    MethodNotFound,
		Message: fmt.Sprintf("Unknown tool: %s", name),
	}
}

// MethodNotFoundError is returned for any top-level method other than
// initialize, tools/list and tools/call.
func MethodNotFoundError(method string) *RPCError {
	return &RPCError{
		Code:    MethodNotFound,
		Message: fmt.Sprintf("Method not found: %s", method),
	}
}

// panicError converts a recovered panic value into an error.
func panicError(v interface{}) error {
	if err, ok := v.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", v)
}
