// Package builtin provides small ready-made tools that configuration files
// and the CLI can reference by name.
package builtin

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/hupe1980/agentkit/tool"
)

// ErrUnknownTool is returned by Lookup for names without a builtin.
var ErrUnknownTool = errors.New("builtin: unknown tool")

// CalculatorArgs are the arguments of the calculator tool.
type CalculatorArgs struct {
	Operation string  `json:"operation" jsonschema:"required,enum=add,enum=subtract,enum=multiply,enum=divide,enum=power,enum=sqrt,description=Operation to perform"`
	A         float64 `json:"a" jsonschema:"required,description=First operand"`
	B         float64 `json:"b,omitempty" jsonschema:"description=Second operand (unused for sqrt)"`
}

// Calculator returns a tool performing basic arithmetic.
func Calculator() tool.Tool {
	return tool.MustTypedTool("calculator",
		"Perform basic math operations (add, subtract, multiply, divide, power, sqrt)",
		func(_ *tool.Context, args CalculatorArgs) (any, error) {
			return Calculate(args)
		})
}

// Calculate evaluates a single calculator operation.
func Calculate(args CalculatorArgs) (float64, error) {
	a, b := args.A, args.B
	switch args.Operation {
	case "add":
		return a + b, nil
	case "subtract":
		return a - b, nil
	case "multiply":
		return a * b, nil
	case "divide":
		if b == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return a / b, nil
	case "power":
		return math.Pow(a, b), nil
	case "sqrt":
		if a < 0 {
			return 0, fmt.Errorf("sqrt of negative number")
		}
		return math.Sqrt(a), nil
	}
	return 0, fmt.Errorf("unsupported operation %q", args.Operation)
}

// CurrentTimeArgs are the arguments of the current_time tool.
type CurrentTimeArgs struct {
	Timezone string `json:"timezone,omitempty" jsonschema:"description=IANA time zone such as Europe/Berlin (defaults to UTC)"`
}

// CurrentTime returns a tool reporting the current time. now is injectable
// for tests; nil means time.Now.
func CurrentTime(now func() time.Time) tool.Tool {
	if now == nil {
		now = time.Now
	}
	return tool.MustTypedTool("current_time",
		"Get the current date and time, optionally in a given time zone",
		func(_ *tool.Context, args CurrentTimeArgs) (any, error) {
			loc := time.UTC
			if args.Timezone != "" {
				l, err := time.LoadLocation(args.Timezone)
				if err != nil {
					return nil, tool.NewToolError("current_time", err.Error(), tool.CodeValidation)
				}
				loc = l
			}
			t := now().In(loc)
			return map[string]any{
				"time":     t.Format(time.RFC3339),
				"timezone": loc.String(),
				"weekday":  t.Weekday().String(),
			}, nil
		})
}

var registry = map[string]func() tool.Tool{
	"calculator":   Calculator,
	"current_time": func() tool.Tool { return CurrentTime(nil) },
}

// Names lists the available builtin tool names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns fresh instances of the named builtin tools in the given order.
func Lookup(names ...string) ([]tool.Tool, error) {
	tools := make([]tool.Tool, 0, len(names))
	for _, name := range names {
		ctor, ok := registry[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
		}
		tools = append(tools, ctor())
	}
	return tools, nil
}
