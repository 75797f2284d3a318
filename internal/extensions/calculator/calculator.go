// Package calculator provides arithmetic commands.
package calculator

import (
	"context"
	"strconv"

	"quiver/internal/api"
	"quiver/internal/extension"
)

// Name is the extension identifier.
const Name = "calculator"

// Definition returns the calculator extension definition.
func Definition() extension.Definition {
	return extension.Definition{
		Name:        Name,
		Description: "Basic arithmetic on numeric arguments.",
		New: func(ec *api.ExecutionContext) (api.Provider, error) {
			return &provider{}, nil
		},
	}
}

type provider struct{}

func (p *provider) Commands() []api.Command {
	return []api.Command{
		{
			Name:        "Add Numbers",
			Function:    "add",
			Description: "Add two numbers.",
			Params:      []api.Param{api.Required("a"), api.Required("b")},
			Run:         p.add,
		},
		{
			Name:        "Multiply Numbers",
			Function:    "multiply",
			Description: "Multiply two numbers.",
			Params:      []api.Param{api.Required("a"), api.Required("b")},
			Run:         p.multiply,
		},
		{
			Name:        "Evaluate Percentage",
			Function:    "percentage",
			Description: "Compute percent % of value.",
			Params:      []api.Param{api.Required("value"), api.Optional("percent", 100)},
			Run:         p.percentage,
		},
	}
}

func (p *provider) add(ctx context.Context, args map[string]any) (any, error) {
	a, b, err := operands(args)
	if err != nil {
		return nil, err
	}
	return format(a + b), nil
}

func (p *provider) multiply(ctx context.Context, args map[string]any) (any, error) {
	a, b, err := operands(args)
	if err != nil {
		return nil, err
	}
	return format(a * b), nil
}

func (p *provider) percentage(ctx context.Context, args map[string]any) (any, error) {
	value, err := extension.FloatArg(args, "value", 0, false)
	if err != nil {
		return nil, err
	}
	percent, err := extension.FloatArg(args, "percent", 100, true)
	if err != nil {
		return nil, err
	}
	return format(value * percent / 100), nil
}

func operands(args map[string]any) (float64, float64, error) {
	a, err := extension.FloatArg(args, "a", 0, false)
	if err != nil {
		return 0, 0, err
	}
	b, err := extension.FloatArg(args, "b", 0, false)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func format(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

