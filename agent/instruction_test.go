package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstruction_Static(t *testing.T) {
	inst := NewInstructionFromText("static instruction")
	assert.True(t, inst.IsStatic())

	got, err := inst.Resolve(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "static instruction", got)
}

func TestInstruction_Template(t *testing.T) {
	inst := NewInstructionFromText("You are {{.role}}.")
	got, err := inst.Resolve(context.Background(), map[string]any{"role": "a pirate"})
	require.NoError(t, err)
	assert.Equal(t, "You are a pirate.", got)
}

func TestInstruction_TemplateMissingVariable(t *testing.T) {
	inst := NewInstructionFromText("You are {{.role}}.")
	_, err := inst.Resolve(context.Background(), nil)
	assert.Error(t, err)
}

func TestInstruction_Provider(t *testing.T) {
	inst := NewInstructionFromProvider(InstructionFunc(func(context.Context) (string, error) {
		return "dynamic {{.ignored}}", nil
	}))
	assert.False(t, inst.IsStatic())

	got, err := inst.Resolve(context.Background(), map[string]any{"ignored": "x"})
	require.NoError(t, err)
	assert.Equal(t, "dynamic {{.ignored}}", got)
}

func TestInstruction_ProviderError(t *testing.T) {
	boom := errors.New("boom")
	inst := NewInstructionFromProvider(InstructionFunc(func(context.Context) (string, error) { return "", boom }))

	_, err := inst.Resolve(context.Background(), nil)
	assert.ErrorIs(t, err, boom)
}
