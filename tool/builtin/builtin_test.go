package builtin

import (
	"context"
	"testing"
	"time"

	"github.com/hupe1980/agentkit/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	cases := []struct {
		args CalculatorArgs
		want float64
	}{
		{CalculatorArgs{Operation: "add", A: 2, B: 3}, 5},
		{CalculatorArgs{Operation: "subtract", A: 2, B: 3}, -1},
		{CalculatorArgs{Operation: "multiply", A: 2, B: 3}, 6},
		{CalculatorArgs{Operation: "divide", A: 3, B: 2}, 1.5},
		{CalculatorArgs{Operation: "power", A: 2, B: 10}, 1024},
		{CalculatorArgs{Operation: "sqrt", A: 16}, 4},
	}
	for _, tc := range cases {
		got, err := Calculate(tc.args)
		require.NoError(t, err, tc.args.Operation)
		assert.InDelta(t, tc.want, got, 1e-9, tc.args.Operation)
	}

	_, err := Calculate(CalculatorArgs{Operation: "divide", A: 1})
	assert.Error(t, err)
	_, err = Calculate(CalculatorArgs{Operation: "modulo", A: 1})
	assert.Error(t, err)
}

func TestCalculatorTool_Call(t *testing.T) {
	calc := Calculator()
	tc := tool.NewContext(context.Background(), "fc-1", "agent", 1, nil)

	out, err := calc.Call(tc, map[string]any{"operation": "multiply", "a": 6.0, "b": 7.0})
	require.NoError(t, err)
	assert.Equal(t, 42.0, out)

	_, err = calc.Call(tc, map[string]any{"operation": "bogus", "a": 1.0})
	var toolErr *tool.ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "calculator", toolErr.Tool)
}

func TestCurrentTime(t *testing.T) {
	fixed := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	ct := CurrentTime(func() time.Time { return fixed })
	tc := tool.NewContext(context.Background(), "fc-1", "agent", 1, nil)

	out, err := ct.Call(tc, map[string]any{})
	require.NoError(t, err)
	res := out.(map[string]any)
	assert.Equal(t, "2025-03-14T12:00:00Z", res["time"])
	assert.Equal(t, "Friday", res["weekday"])

	_, err = ct.Call(tc, map[string]any{"timezone": "Nowhere/Invalid"})
	assert.Error(t, err)
}

func TestLookup(t *testing.T) {
	assert.Equal(t, []string{"calculator", "current_time"}, Names())

	tools, err := Lookup("current_time", "calculator")
	require.NoError(t, err)
	require.Len(t, tools, 2)
	assert.Equal(t, "current_time", tools[0].Name())
	assert.Equal(t, "calculator", tools[1].Name())

	_, err = Lookup("shell")
	assert.ErrorIs(t, err, ErrUnknownTool)
}
