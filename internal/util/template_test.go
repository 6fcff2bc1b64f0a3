package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTemplate_FastPath(t *testing.T) {
	out, err := RenderTemplate("plain <text> & more", nil)
	require.NoError(t, err)
	assert.Equal(t, "plain <text> & more", out)
}

func TestRenderTemplate_Variables(t *testing.T) {
	out, err := RenderTemplate(`You are {{.name}}. Tone: {{default "neutral" (index . "tone") | upper}}.`, map[string]any{
		"name": "Ada <bot>",
	})
	require.NoError(t, err)
	assert.Equal(t, "You are Ada <bot>. Tone: NEUTRAL.", out)
}

func TestRenderTemplate_MissingVariable(t *testing.T) {
	_, err := RenderTemplate("You are {{.name}}.", map[string]any{"persona": "x"})
	require.Error(t, err)

	_, err = RenderTemplate("You are {{.name}}.", nil)
	require.Error(t, err)
}

func TestRenderTemplate_ParseError(t *testing.T) {
	_, err := RenderTemplate("{{.broken", nil)
	assert.Error(t, err)
}
