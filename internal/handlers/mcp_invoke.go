package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"mcpserver/internal/mcp"
)

// MessageHandler turns one raw JSON-RPC body into a response envelope.
type MessageHandler interface {
	HandleMessage(ctx context.Context, raw []byte) *mcp.JSONRPCResponse
}

// MCPInvokeHandler handles JSON-RPC requests sent as HTTP POST bodies.
// Every request gets HTTP 200 with a JSON-RPC envelope, errors included.
type MCPInvokeHandler struct {
	dispatcher   MessageHandler
	maxBodyBytes int64
	logger       *slog.Logger
}

// NewMCPInvokeHandler creates a new JSON-RPC POST handler.
func NewMCPInvokeHandler(dispatcher MessageHandler, maxBodyBytes int64, logger *slog.Logger) *MCPInvokeHandler {
	return &MCPInvokeHandler{
		dispatcher:   dispatcher,
		maxBodyBytes: maxBodyBytes,
		logger:       logger.With("handler", "mcp_invoke"),
	}
}

// ServeHTTP reads the body, dispatches it and writes the envelope.
func (h *MCPInvokeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendError(w, h.logger, http.StatusMethodNotAllowed, "method_not_allowed", "Only POST requests are supported")
		return
	}

	correlationID := middleware.GetReqID(r.Context())
	ctx := mcp.WithCorrelationID(r.Context(), correlationID)

	var resp *mcp.JSONRPCResponse
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		resp = mcp.NewJSONRPCError(nil, mcp.ParseError, readErrorMessage(err, h.maxBodyBytes), nil)
		mcp.LogMCPError(ctx, h.logger, "", "", resp.Error.Code, resp.Error.Message)
	} else {
		resp = h.dispatcher.HandleMessage(ctx, body)
	}

	payload, encErr := mcp.EncodeResponse(resp)
	if encErr != nil {
		h.logger.Error("response_encode_failed", "error", encErr, "correlation_id", correlationID)
		fallback := mcp.NewJSONRPCError(resp.ID, mcp.InternalError, fmt.Sprintf("Internal error: %s", encErr), nil)
		if payload, encErr = mcp.EncodeResponse(fallback); encErr != nil {
			http.Error(w, "response encoding failed", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(payload); err != nil {
		h.logger.Debug("response_write_failed", "error", err, "correlation_id", correlationID)
	}
}

func readErrorMessage(err error, limit int64) string {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Sprintf("Parse error: request body exceeds %d bytes", limit)
	}
	return fmt.Sprintf("Parse error: failed to read request body: %v", err)
}
