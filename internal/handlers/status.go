package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"mcpserver/internal/mcp"
	"mcpserver/internal/models"
)

// StatusHandler handles GET / requests with a summary of the running server.
type StatusHandler struct {
	server          mcp.ServerInfo
	protocolVersion string
	process         mcp.ProcessInfo
	tools           []string
	clock           mcp.Clock
	logger          *slog.Logger
}

// NewStatusHandler creates a new status handler. A nil clock uses time.Now.
func NewStatusHandler(server mcp.ServerInfo, protocolVersion string, process mcp.ProcessInfo, tools []string, clock mcp.Clock, logger *slog.Logger) *StatusHandler {
	if clock == nil {
		clock = time.Now
	}
	return &StatusHandler{
		server:          server,
		protocolVersion: protocolVersion,
		process:         process,
		tools:           append([]string(nil), tools...),
		clock:           clock,
		logger:          logger.With("handler", "status"),
	}
}

// ServeHTTP writes the status document.
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sendError(w, h.logger, http.StatusMethodNotAllowed, "method_not_allowed", "Only GET requests are supported")
		return
	}

	status := models.ServerStatus{
		Name:            h.server.Name,
		Version:         h.server.Version,
		ProtocolVersion: h.protocolVersion,
		Status:          "running",
		StartedAt:       h.process.StartedAt,
		UptimeSec:       int64(h.clock().Sub(h.process.StartedAt).Seconds()),
		Tools:           h.tools,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(status); err != nil {
		h.logger.Error("json_encode_failed", "error", err)
	}
}

// sendError sends a JSON error response.
func sendError(w http.ResponseWriter, logger *slog.Logger, statusCode int, errorCode string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResp := models.ErrorResponse{
		Error:   errorCode,
		Message: message,
	}

	if err := json.NewEncoder(w).Encode(errorResp); err != nil {
		logger.Error("json_encode_failed", "error", err)
	}
}
