package builtin

import (
	"context"

	"prodmcp/internal/calc"
	"prodmcp/internal/tool"
)

// CalculateTool evaluates arithmetic expressions.
type CalculateTool struct{}

func NewCalculateTool() *CalculateTool {
	return &CalculateTool{}
}

func (t *CalculateTool) Name() string { return "calculate" }

func (t *CalculateTool) Description() string {
	return "Safely evaluates an arithmetic expression using + - * / // % ** and parentheses"
}

func (t *CalculateTool) Schema() tool.Schema {
	return tool.Schema{Params: []tool.Param{
		{Name: "expression", Type: "string", Description: "Expression to evaluate, e.g. '2+2', '10*5', '100/4'", Required: true},
	}}
}

func (t *CalculateTool) Execute(ctx context.Context, args tool.Args) (*tool.Result, error) {
	expression, err := requireString(args, "expression")
	if err != nil {
		return nil, err
	}
	value, err := calc.Evaluate(expression)
	if err != nil {
		return nil, &tool.Error{Kind: tool.KindEvaluation, Message: err.Error()}
	}
	return &tool.Result{Success: true, Result: value, Expression: expression}, nil
}
