package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolExecutor(t *testing.T) {
	te := testExecutor()
	ctx := context.Background()

	text := func(t *testing.T, result *CallToolResult, err error) string {
		t.Helper()
		require.NoError(t, err)
		require.Len(t, result.Content, 1)
		assert.Equal(t, "text", result.Content[0].Type)
		return result.Content[0].Text
	}

	t.Run("echo", func(t *testing.T) {
		r, err := te.Echo(ctx, Args{"text": "Hello MCP!"})
		assert.Equal(t, "Echo: Hello MCP!", text(t, r, err))
	})

	t.Run("add integers", func(t *testing.T) {
		r, err := te.AddNumbers(ctx, Args{"a": json.Number("15"), "b": json.Number("27")})
		assert.Equal(t, "The sum of 15 and 27 is 42", text(t, r, err))
	})

	t.Run("add floats", func(t *testing.T) {
		r, err := te.AddNumbers(ctx, Args{"a": json.Number("2.5"), "b": json.Number("1.5")})
		assert.Equal(t, "The sum of 2.5 and 1.5 is 4", text(t, r, err))
	})

	t.Run("add negative", func(t *testing.T) {
		r, err := te.AddNumbers(ctx, Args{"a": json.Number("-10"), "b": json.Number("15")})
		assert.Equal(t, "The sum of -10 and 15 is 5", text(t, r, err))
	})

	t.Run("add past int64 falls back to float", func(t *testing.T) {
		r, err := te.AddNumbers(ctx, Args{"a": json.Number("9223372036854775807"), "b": json.Number("1")})
		assert.Contains(t, text(t, r, err), "is 9.223372036854776e+18")
	})

	t.Run("add overflow", func(t *testing.T) {
		_, err := te.AddNumbers(ctx, Args{"a": json.Number("1e308"), "b": json.Number("1e308")})
		require.Error(t, err)
		assert.Equal(t, InvalidParams, FormatMCPError(err).Code)
	})

	t.Run("get time", func(t *testing.T) {
		r, err := te.GetTime(ctx, nil)
		assert.Equal(t, "Current server time: 2025-01-02T03:05:35Z", text(t, r, err))
	})

	t.Run("reverse ascii", func(t *testing.T) {
		r, err := te.ReverseString(ctx, Args{"text": "abc"})
		assert.Equal(t, "Reversed: cba", text(t, r, err))
	})

	t.Run("reverse unicode", func(t *testing.T) {
		r, err := te.ReverseString(ctx, Args{"text": "привет"})
		assert.Equal(t, "Reversed: тевирп", text(t, r, err))
	})

	t.Run("calculate", func(t *testing.T) {
		r, err := te.Calculate(ctx, Args{"expression": "2 + 3 * 4"})
		assert.Equal(t, "Result: 2 + 3 * 4 = 14", text(t, r, err))
	})

	t.Run("calculate rejects code", func(t *testing.T) {
		_, err := te.Calculate(ctx, Args{"expression": "import os"})
		require.Error(t, err)
		rpcErr := FormatMCPError(err)
		assert.Equal(t, InvalidParams, rpcErr.Code)
		assert.Contains(t, rpcErr.Message, "Invalid expression 'import os'")
	})

	t.Run("generate uuid", func(t *testing.T) {
		r, err := te.GenerateUUID(ctx, nil)
		out := text(t, r, err)
		require.True(t, strings.HasPrefix(out, "Generated UUID: "))
		id, err := uuid.Parse(strings.TrimPrefix(out, "Generated UUID: "))
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(4), id.Version())
	})

	t.Run("server info", func(t *testing.T) {
		r, err := te.ServerInfo(7)(ctx, nil)
		out := text(t, r, err)
		assert.Contains(t, out, "Server: MCP Test Server")
		assert.Contains(t, out, "Version: 1.0.0")
		assert.Contains(t, out, "Protocol version: 2024-11-05")
		assert.Contains(t, out, "PID: 4242")
		assert.Contains(t, out, "Started: 2025-01-02T03:04:05Z")
		assert.Contains(t, out, "Uptime: 1m30s")
		assert.Contains(t, out, "Tools: 7")
	})
}
