package mcp

// Tool names served by the default catalog.
const (
	ToolEcho          = "echo"
	ToolAddNumbers    = "add_numbers"
	ToolGetTime       = "get_time"
	ToolReverseString = "reverse_string"
	ToolCalculate     = "calculate"
	ToolGenerateUUID  = "generate_uuid"
	ToolServerInfo    = "server_info"
)

func noArgsSchema() ObjectSchema {
	return ObjectSchema{
		Type:       "object",
		Properties: map[string]PropertySchema{},
	}
}

// EchoToolSchema declares an optional text argument; absent text echoes "".
func EchoToolSchema() ObjectSchema {
	return ObjectSchema{
		Type: "object",
		Properties: map[string]PropertySchema{
			"text": {Type: "string", Description: "Text to echo back"},
		},
	}
}

// AddNumbersToolSchema requires two numbers.
func AddNumbersToolSchema() ObjectSchema {
	return ObjectSchema{
		Type: "object",
		Properties: map[string]PropertySchema{
			"a": {Type: "number", Description: "First number"},
			"b": {Type: "number", Description: "Second number"},
		},
		Required: []string{"a", "b"},
	}
}

func ReverseStringToolSchema() ObjectSchema {
	return ObjectSchema{
		Type: "object",
		Properties: map[string]PropertySchema{
			"text": {Type: "string", Description: "Text to reverse"},
		},
	}
}

// CalculateToolSchema requires an arithmetic expression using
// + - * / ** % and parentheses.
func CalculateToolSchema() ObjectSchema {
	return ObjectSchema{
		Type: "object",
		Properties: map[string]PropertySchema{
			"expression": {
				Type:        "string",
				Description: "Arithmetic expression using numbers, + - * / ** % and parentheses (e.g. '(2 + 3) * 4')",
			},
		},
		Required: []string{"expression"},
	}
}

// Argument contracts, one per tool.
var (
	echoContract = ArgContract{
		{Name: "text", Kind: KindAny, Default: ""},
	}
	addNumbersContract = ArgContract{
		{Name: "a", Kind: KindNumber, Required: true},
		{Name: "b", Kind: KindNumber, Required: true},
	}
	reverseStringContract = ArgContract{
		{Name: "text", Kind: KindAny, Default: ""},
	}
	calculateContract = ArgContract{
		{Name: "expression", Kind: KindString, Required: true},
	}
)

// DefaultTools returns the catalog in registration order.
func DefaultTools(te *ToolExecutor) []ToolSpec {
	specs := []ToolSpec{
		{
			Tool: Tool{
				Name:        ToolEcho,
				Description: "Echoes back the input text",
				InputSchema: EchoToolSchema(),
			},
			Contract: echoContract,
			Handler:  te.Echo,
			Pure:     true,
		},
		{
			Tool: Tool{
				Name:        ToolAddNumbers,
				Description: "Adds two numbers together",
				InputSchema: AddNumbersToolSchema(),
			},
			Contract: addNumbersContract,
			Handler:  te.AddNumbers,
			Pure:     true,
		},
		{
			Tool: Tool{
				Name:        ToolGetTime,
				Description: "Returns the current server time",
				InputSchema: noArgsSchema(),
			},
			Handler: te.GetTime,
		},
		{
			Tool: Tool{
				Name:        ToolReverseString,
				Description: "Reverses a string",
				InputSchema: ReverseStringToolSchema(),
			},
			Contract: reverseStringContract,
			Handler:  te.ReverseString,
			Pure:     true,
		},
		{
			Tool: Tool{
				Name:        ToolCalculate,
				Description: "Safely evaluates an arithmetic expression",
				InputSchema: CalculateToolSchema(),
			},
			Contract: calculateContract,
			Handler:  te.Calculate,
			Pure:     true,
		},
		{
			Tool: Tool{
				Name:        ToolGenerateUUID,
				Description: "Generates a random UUID (version 4)",
				InputSchema: noArgsSchema(),
			},
			Handler: te.GenerateUUID,
		},
	}

	// server_info reports the catalog size, which includes itself.
	specs = append(specs, ToolSpec{
		Tool: Tool{
			Name:        ToolServerInfo,
			Description: "Returns server name, version, PID and uptime",
			InputSchema: noArgsSchema(),
		},
		Handler: te.ServerInfo(len(specs) + 1),
	})

	return specs
}
