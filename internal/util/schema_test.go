package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateParameters(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"x":  map[string]any{"type": "integer"},
			"op": map[string]any{"type": "string", "enum": []string{"add", "sub"}},
		},
		"required": []any{"x"},
	}

	assert.NoError(t, ValidateParameters(map[string]any{"x": float64(5), "extra": true}, schema))

	err := ValidateParameters(map[string]any{}, schema)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "x", vErr.Field)

	err = ValidateParameters(map[string]any{"x": "not-int"}, schema)
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Message, "expected type integer")

	err = ValidateParameters(map[string]any{"x": 1.5}, schema)
	require.ErrorAs(t, err, &vErr)

	err = ValidateParameters(map[string]any{"x": 1, "op": "mul"}, schema)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "op", vErr.Field)
}

func TestRequiredFields_StringSlice(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, RequiredFields(map[string]any{"required": []string{"a", "b"}}))
}
