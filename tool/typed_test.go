package tool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greetArgs struct {
	Name  string `json:"name" jsonschema:"required,description=Who to greet"`
	Times int    `json:"times,omitempty" jsonschema:"description=Repetitions"`
}

func TestNewTypedTool_Schema(t *testing.T) {
	tl, err := NewTypedTool("greet", "Greets", func(_ *Context, a greetArgs) (any, error) { return nil, nil })
	require.NoError(t, err)

	schema := tl.Parameters()
	assert.Equal(t, "object", schema["type"])

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	require.Contains(t, props, "name")
	require.Contains(t, props, "times")
	assert.Equal(t, "string", props["name"].(map[string]any)["type"])
	assert.Equal(t, "integer", props["times"].(map[string]any)["type"])
	assert.Equal(t, []any{"name"}, schema["required"])
}

func TestNewTypedTool_DecodesArgs(t *testing.T) {
	var got greetArgs
	tl := MustTypedTool("greet", "Greets", func(_ *Context, a greetArgs) (any, error) {
		got = a
		return "ok", nil
	})

	out, err := tl.Call(newTestContext("fc"), map[string]any{"name": "Ada", "times": 2.0})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, greetArgs{Name: "Ada", Times: 2}, got)
}

func TestNewTypedTool_MissingRequired(t *testing.T) {
	tl := MustTypedTool("greet", "Greets", func(_ *Context, a greetArgs) (any, error) { return nil, nil })

	_, err := tl.Call(newTestContext("fc"), map[string]any{"times": 1.0})
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeValidation, toolErr.Code)
}
