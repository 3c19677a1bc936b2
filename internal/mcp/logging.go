package mcp

import (
	"context"
	"log/slog"
)

type correlationKey struct{}

// WithCorrelationID attaches the transport's request id to ctx for logging.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID returns the id stored by WithCorrelationID, or "".
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}

// LogMCPRequest logs an MCP request with structured fields
func LogMCPRequest(ctx context.Context, logger *slog.Logger, method string, tool string) {
	logger.DebugContext(ctx, "mcp_request",
		"component", "mcp-dispatcher",
		"method", method,
		"tool_name", tool,
		"correlation_id", CorrelationID(ctx),
	)
}

// LogMCPSuccess logs a request that produced a result
func LogMCPSuccess(ctx context.Context, logger *slog.Logger, method string, tool string, latencyMS int64) {
	logger.InfoContext(ctx, "mcp_success",
		"component", "mcp-dispatcher",
		"method", method,
		"tool_name", tool,
		"correlation_id", CorrelationID(ctx),
		"latency_ms", latencyMS,
	)
}

// LogMCPError logs a request that produced an error response. Internal
// errors log at error level; caller mistakes at warn.
func LogMCPError(ctx context.Context, logger *slog.Logger, method string, tool string, errorCode int, errorMsg string) {
	level := slog.LevelWarn
	if errorCode == InternalError {
		level = slog.LevelError
	}
	logger.Log(ctx, level, "mcp_error",
		"component", "mcp-dispatcher",
		"method", method,
		"tool_name", tool,
		"correlation_id", CorrelationID(ctx),
		"error_code", errorCode,
		"error_message", errorMsg,
	)
}
