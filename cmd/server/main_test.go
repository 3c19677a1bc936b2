package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunReturnsExitCodeOnStartupFailure(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"malformed port", map[string]string{"MCP_PORT": "not-a-number"}},
		{"invalid port", map[string]string{"MCP_PORT": "70000"}},
		{"bad log level", map[string]string{"LOG_LEVEL": "verbose"}},
		{"unparseable redis url", map[string]string{"REDIS_URL": "::not a url::", "PROMETHEUS_PORT": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			assert.Equal(t, 1, run())
		})
	}
}
