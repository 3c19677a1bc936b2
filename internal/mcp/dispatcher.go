package mcp

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"
)

// DefaultProtocolVersion is the MCP protocol version reported by initialize.
const DefaultProtocolVersion = "2024-11-05"

// Recorder receives dispatch outcomes. Implementations must be safe for
// concurrent use.
type Recorder interface {
	ObserveDispatch(method string, outcome string, latency time.Duration)
	ObserveToolCall(tool string, outcome string)
}

// DispatcherConfig holds what a Dispatcher needs. Registry is required.
type DispatcherConfig struct {
	Registry        *Registry
	Invoker         Invoker // defaults to a ToolInvoker over Registry
	ServerInfo      ServerInfo
	ProtocolVersion string
	Logger          *slog.Logger
	Recorder        Recorder
}

// Dispatcher routes JSON-RPC requests to initialize, tools/list and
// tools/call. It holds only read-only state and may be called concurrently.
type Dispatcher struct {
	registry        *Registry
	invoker         Invoker
	serverInfo      ServerInfo
	protocolVersion string
	logger          *slog.Logger
	recorder        Recorder
}

// NewDispatcher builds a Dispatcher from cfg.
func NewDispatcher(cfg DispatcherConfig) (*Dispatcher, error) {
	if cfg.Registry == nil {
		return nil, errors.New("registry is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	invoker := cfg.Invoker
	if invoker == nil {
		invoker = NewToolInvoker(cfg.Registry, logger)
	}

	protocolVersion := cfg.ProtocolVersion
	if protocolVersion == "" {
		protocolVersion = DefaultProtocolVersion
	}

	return &Dispatcher{
		registry:        cfg.Registry,
		invoker:         invoker,
		serverInfo:      cfg.ServerInfo,
		protocolVersion: protocolVersion,
		logger:          logger,
		recorder:        cfg.Recorder,
	}, nil
}

// HandleMessage decodes a raw request body and dispatches it. It always
// returns a well-formed response; undecodable bodies get a ParseError with a
// null id.
func (d *Dispatcher) HandleMessage(ctx context.Context, raw []byte) *JSONRPCResponse {
	req, err := ParseJSONRPCRequest(raw)
	if err != nil {
		rpcErr := FormatMCPError(err)
		LogMCPError(ctx, d.logger, "", "", rpcErr.Code, rpcErr.Message)
		d.observe("", rpcErr.Code, 0)
		return ErrorResponse(nil, rpcErr)
	}
	return d.Dispatch(ctx, req)
}

// Dispatch routes one request and assembles its response envelope.
func (d *Dispatcher) Dispatch(ctx context.Context, req *JSONRPCRequest) (resp *JSONRPCResponse) {
	if req == nil {
		return NewJSONRPCError(nil, ParseError, "Parse error: no request", nil)
	}
	start := time.Now()
	tool := ""

	defer func() {
		if r := recover(); r != nil {
			resp = ErrorResponse(req.ID, FormatMCPError(panicError(r)))
		}

		latency := time.Since(start)
		if resp.Error != nil {
			LogMCPError(ctx, d.logger, req.Method, tool, resp.Error.Code, resp.Error.Message)
			d.observe(req.Method, resp.Error.Code, latency)
		} else {
			LogMCPSuccess(ctx, d.logger, req.Method, tool, latency.Milliseconds())
			d.observe(req.Method, 0, latency)
		}
	}()

	if req.JSONRPC != JSONRPCVersion {
		d.logger.WarnContext(ctx, "unexpected_jsonrpc_version",
			"component", "mcp-dispatcher",
			"jsonrpc", req.JSONRPC,
			"correlation_id", CorrelationID(ctx),
		)
	}

	switch req.Method {
	case MethodInitialize:
		LogMCPRequest(ctx, d.logger, req.Method, "")
		return NewJSONRPCResult(req.ID, d.initialize())

	case MethodToolsList:
		LogMCPRequest(ctx, d.logger, req.Method, "")
		return NewJSONRPCResult(req.ID, ListToolsResult{Tools: d.registry.ListTools()})

	case MethodToolsCall:
		params, err := ParseCallToolParams(req.Params)
		if err != nil {
			d.observeTool("", err)
			return ErrorResponse(req.ID, FormatMCPError(err))
		}
		tool = params.Name
		LogMCPRequest(ctx, d.logger, req.Method, tool)

		result, err := d.callTool(ctx, params)
		d.observeTool(tool, err)
		if err != nil {
			return ErrorResponse(req.ID, FormatMCPError(err))
		}
		return NewJSONRPCResult(req.ID, result)

	default:
		LogMCPRequest(ctx, d.logger, req.Method, "")
		return ErrorResponse(req.ID, MethodNotFoundError(req.Method))
	}
}

func (d *Dispatcher) initialize() InitializeResult {
	return InitializeResult{
		ProtocolVersion: d.protocolVersion,
		Capabilities: ServerCapabilities{
			Tools: ToolsCapability{ListChanged: true},
		},
		ServerInfo: d.serverInfo,
	}
}

func (d *Dispatcher) callTool(ctx context.Context, params *CallToolParams) (*CallToolResult, error) {
	// Unknown names are rejected before arguments are looked at.
	if _, ok := d.registry.Find(params.Name); !ok {
		return nil, UnknownToolError(params.Name)
	}

	args, err := DecodeArguments(params.Arguments)
	if err != nil {
		return nil, err
	}
	return d.invoker.InvokeTool(ctx, params.Name, args)
}

func (d *Dispatcher) observe(method string, code int, latency time.Duration) {
	if d.recorder == nil {
		return
	}
	d.recorder.ObserveDispatch(methodLabel(method), Outcome(code), latency)
}

func (d *Dispatcher) observeTool(tool string, err error) {
	if d.recorder == nil {
		return
	}
	if _, ok := d.registry.Find(tool); !ok {
		tool = "unknown"
	}
	code := 0
	if err != nil {
		code = FormatMCPError(err).Code
	}
	d.recorder.ObserveToolCall(tool, Outcome(code))
}

// methodLabel keeps metric cardinality bounded by folding unknown methods.
func methodLabel(method string) string {
	switch method {
	case MethodInitialize, MethodToolsList, MethodToolsCall:
		return method
	case "":
		return "none"
	default:
		return "other"
	}
}

// Outcome names a response code for metrics and logs.
func Outcome(code int) string {
	switch code {
	case 0:
		return "ok"
	case ParseError:
		return "parse_error"
	case InvalidRequest:
		return "invalid_request"
	case MethodNotFound:
		return "method_not_found"
	case InvalidParams:
		return "invalid_params"
	case InternalError:
		return "internal_error"
	default:
		return "code_" + strconv.Itoa(code)
	}
}
