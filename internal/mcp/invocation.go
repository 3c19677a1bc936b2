package mcp

import (
	"context"
	"log/slog"
)

// Invoker runs a tool by name with raw decoded arguments.
type Invoker interface {
	InvokeTool(ctx context.Context, toolName string, args map[string]interface{}) (*CallToolResult, error)
}

// ToolInvoker handles MCP tool invocation with parameter validation
type ToolInvoker struct {
	registry *Registry
	logger   *slog.Logger
}

// NewToolInvoker creates a new tool invoker over the registry.
func NewToolInvoker(registry *Registry, logger *slog.Logger) *ToolInvoker {
	if logger == nil {
		logger = slog.Default()
	}
	return &ToolInvoker{
		registry: registry,
		logger:   logger.With("component", "tool_invoker"),
	}
}

// InvokeTool looks the tool up, checks its argument contract and runs it.
// Errors are always *RPCError; a panicking handler becomes InternalError.
func (ti *ToolInvoker) InvokeTool(ctx context.Context, toolName string, args map[string]interface{}) (result *CallToolResult, err error) {
	spec, ok := ti.registry.Find(toolName)
	if !ok {
		return nil, UnknownToolError(toolName)
	}

	validated, err := spec.Contract.Validate(args)
	if err != nil {
		return nil, FormatMCPError(err)
	}

	defer func() {
		if r := recover(); r != nil {
			ti.logger.ErrorContext(ctx, "tool_panic", "tool_name", toolName, "panic", r)
			result = nil
			err = FormatMCPError(panicError(r))
		}
	}()

	result, err = spec.Handler(ctx, validated)
	if err != nil {
		return nil, FormatMCPError(err)
	}
	if result == nil || len(result.Content) == 0 {
		return nil, &RPCError{
			Code:    InternalError,
			Message: "Internal error: tool " + toolName + " returned no content",
		}
	}
	return result, nil
}
