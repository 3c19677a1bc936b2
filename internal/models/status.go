package models

import "time"

// ServerStatus is returned by GET / so that probes hitting the base URL get
// a useful answer.
type ServerStatus struct {
	Name            string    `json:"name"`
	Version         string    `json:"version"`
	ProtocolVersion string    `json:"protocolVersion"`
	Status          string    `json:"status"`
	StartedAt       time.Time `json:"started_at"`
	UptimeSec       int64     `json:"uptime_sec"`
	Tools           []string  `json:"tools"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the standard error response format for non-JSON-RPC routes.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
