package tools

import (
	"context"
	"fmt"

	"github.com/modelbridge/toolserve/internal/mcp"
)

// CalcResult is the calculator tool's response payload.
type CalcResult struct {
	Expression string  `json:"expression"`
	Result     float64 `json:"result"`
}

// Calculator returns the arithmetic tool descriptor.
func Calculator() mcp.Descriptor {
	return mcp.Descriptor{
		Name:        "calculator",
		Description: "Perform basic arithmetic: addition, subtraction, multiplication, division.",
		Schema: mcp.ToolSchema{
			{Name: "operation", Kind: mcp.KindEnum, Required: true,
				AllowedValues: []string{"add", "subtract", "multiply", "divide"},
				Description:   "Arithmetic operation to perform"},
			{Name: "a", Kind: mcp.KindFloat, Required: true, Description: "First operand"},
			{Name: "b", Kind: mcp.KindFloat, Required: true, Description: "Second operand"},
		},
		Handler: calculate,
	}
}

func calculate(_ context.Context, args map[string]any) (any, error) {
	op := args["operation"].(string)
	a := args["a"].(float64)
	b := args["b"].(float64)

	var result float64
	switch op {
	case "add":
		result = a + b
	case "subtract":
		result = a - b
	case "multiply":
		result = a * b
	case "divide":
		if b == 0 {
			return nil, mcp.NewToolError("division by zero")
		}
		result = a / b
	}

	return &CalcResult{
		Expression: fmt.Sprintf("%g %s %g", a, op, b),
		Result:     result,
	}, nil
}
