package anthropic

import (
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/hupe1980/agentkit/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisteredWithDefaultRegistry(t *testing.T) {
	m, err := model.DefaultRegistry.Resolve("anthropic/claude-3-5-haiku-latest")
	require.NoError(t, err)

	info := m.Info()
	assert.Equal(t, "claude-3-5-haiku-latest", info.Name)
	assert.Equal(t, "anthropic", info.Provider)
}

func TestBuildParams(t *testing.T) {
	m := NewModel(func(o *Options) { o.APIKey = "test" })

	req := model.Request{
		Instructions: "be brief",
		Contents: []model.Content{
			model.NewTextContent(model.RoleSystem, "extra system"),
			model.NewUserContent("add 1 and 2"),
			{Role: model.RoleAssistant, Parts: []model.Part{
				model.TextPart{Text: "calling"},
				model.FunctionCallPart{FunctionCall: model.FunctionCall{ID: "c1", Name: "add", Arguments: `{"a":1,"b":2}`}},
			}},
			{Role: model.RoleTool, Parts: []model.Part{
				model.FunctionResponsePart{FunctionResponse: model.FunctionResponse{ID: "c1", Name: "add", Response: 3}},
			}},
		},
		Tools: []model.ToolDefinition{{
			Type: "function",
			Function: model.FunctionDefinition{
				Name:        "add",
				Description: "adds",
				Parameters: map[string]any{
					"type":       "object",
					"properties": map[string]any{"a": map[string]any{"type": "number"}},
					"required":   []any{"a"},
				},
			},
		}},
		ToolChoice: model.ToolChoiceRequired,
	}

	params := m.buildParams(req)

	require.Len(t, params.System, 2)
	assert.Equal(t, "be brief", params.System[0].Text)
	assert.Equal(t, "extra system", params.System[1].Text)

	require.Len(t, params.Messages, 3)
	assert.Equal(t, anthropic.MessageParamRoleUser, params.Messages[0].Role)
	assert.Equal(t, anthropic.MessageParamRoleAssistant, params.Messages[1].Role)
	assert.Len(t, params.Messages[1].Content, 2)
	assert.Equal(t, anthropic.MessageParamRoleUser, params.Messages[2].Role)

	require.Len(t, params.Tools, 1)
	require.NotNil(t, params.Tools[0].OfTool)
	assert.Equal(t, "add", params.Tools[0].OfTool.Name)
	assert.Equal(t, []string{"a"}, params.Tools[0].OfTool.InputSchema.Required)
	assert.NotNil(t, params.ToolChoice.OfAny)
}

func TestBuildParams_ToolChoiceNone(t *testing.T) {
	m := NewModel(func(o *Options) { o.APIKey = "test" })
	params := m.buildParams(model.Request{
		Tools:      []model.ToolDefinition{{Function: model.FunctionDefinition{Name: "add"}}},
		ToolChoice: model.ToolChoiceNone,
	})
	assert.Empty(t, params.Tools)
}

func TestRequiredFields(t *testing.T) {
	assert.Equal(t, []string{"a"}, requiredFields([]string{"a"}))
	assert.Equal(t, []string{"a", "b"}, requiredFields([]any{"a", 1, "b"}))
	assert.Nil(t, requiredFields(nil))
}
