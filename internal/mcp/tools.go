package mcp

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"mcpserver/internal/expr"
)

// Clock returns the current time.
type Clock func() time.Time

// ProcessInfo is captured once at process start and never changes.
type ProcessInfo struct {
	PID       int
	StartedAt time.Time
}

// CaptureProcessInfo records the current PID and start time.
func CaptureProcessInfo(now time.Time) ProcessInfo {
	return ProcessInfo{
		PID:       os.Getpid(),
		StartedAt: now,
	}
}

// ToolExecutor handles execution of MCP tools
type ToolExecutor struct {
	server          ServerInfo
	protocolVersion string
	process         ProcessInfo
	clock           Clock
}

// NewToolExecutor creates a tool executor. A nil clock uses time.Now.
func NewToolExecutor(server ServerInfo, protocolVersion string, process ProcessInfo, clock Clock) *ToolExecutor {
	if clock == nil {
		clock = time.Now
	}
	return &ToolExecutor{
		server:          server,
		protocolVersion: protocolVersion,
		process:         process,
		clock:           clock,
	}
}

// Echo returns the text argument unchanged.
func (te *ToolExecutor) Echo(_ context.Context, args Args) (*CallToolResult, error) {
	return TextResult("Echo: " + args.String("text")), nil
}

// AddNumbers sums a and b. Two integers add exactly; anything else adds as float64.
func (te *ToolExecutor) AddNumbers(_ context.Context, args Args) (*CallToolResult, error) {
	a, b := args.Number("a"), args.Number("b")

	var sum string
	ai, aErr := a.Int64()
	bi, bErr := b.Int64()
	if aErr == nil && bErr == nil && !addOverflows(ai, bi) {
		sum = fmt.Sprintf("%d", ai+bi)
	} else {
		af, err := a.Float64()
		if err != nil {
			return nil, InvalidParamsError("Parameter 'a' is not a valid number: %s", a)
		}
		bf, err := b.Float64()
		if err != nil {
			return nil, InvalidParamsError("Parameter 'b' is not a valid number: %s", b)
		}
		total := af + bf
		if math.IsInf(total, 0) {
			return nil, InvalidParamsError("The sum of %s and %s overflows", a, b)
		}
		sum = expr.Format(total)
	}

	return TextResult(fmt.Sprintf("The sum of %s and %s is %s", a, b, sum)), nil
}

func addOverflows(a, b int64) bool {
	s := a + b
	return (b > 0 && s < a) || (b < 0 && s > a)
}

// GetTime reports the current server time.
func (te *ToolExecutor) GetTime(_ context.Context, _ Args) (*CallToolResult, error) {
	return TextResult("Current server time: " + te.clock().Format(time.RFC3339)), nil
}

// ReverseString reverses text by Unicode code point.
func (te *ToolExecutor) ReverseString(_ context.Context, args Args) (*CallToolResult, error) {
	runes := []rune(args.String("text"))
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return TextResult("Reversed: " + string(runes)), nil
}

// Calculate evaluates the expression argument with the restricted evaluator.
func (te *ToolExecutor) Calculate(_ context.Context, args Args) (*CallToolResult, error) {
	expression := args.String("expression")
	value, err := expr.Evaluate(expression)
	if err != nil {
		return nil, FormatMCPError(err)
	}
	return TextResult(fmt.Sprintf("Result: %s = %s", expression, expr.Format(value))), nil
}

// GenerateUUID returns a random version 4 UUID.
func (te *ToolExecutor) GenerateUUID(_ context.Context, _ Args) (*CallToolResult, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("failed to generate uuid: %w", err)
	}
	return TextResult("Generated UUID: " + id.String()), nil
}

// ServerInfo returns a handler describing the running process.
func (te *ToolExecutor) ServerInfo(toolCount int) ToolHandler {
	return func(_ context.Context, _ Args) (*CallToolResult, error) {
		uptime := te.clock().Sub(te.process.StartedAt).Round(time.Second)
		if uptime < 0 {
			uptime = 0
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Server: %s\n", te.server.Name)
		fmt.Fprintf(&b, "Version: %s\n", te.server.Version)
		fmt.Fprintf(&b, "Protocol version: %s\n", te.protocolVersion)
		fmt.Fprintf(&b, "PID: %d\n", te.process.PID)
		fmt.Fprintf(&b, "Started: %s\n", te.process.StartedAt.Format(time.RFC3339))
		fmt.Fprintf(&b, "Uptime: %s\n", uptime)
		fmt.Fprintf(&b, "Tools: %d", toolCount)

		return TextResult(b.String()), nil
	}
}
