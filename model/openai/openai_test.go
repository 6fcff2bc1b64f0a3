package openai

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hupe1980/agentkit/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisteredWithDefaultRegistry(t *testing.T) {
	m, err := model.DefaultRegistry.Resolve("openai/gpt-4o")
	require.NoError(t, err)

	info := m.Info()
	assert.Equal(t, "gpt-4o", info.Name)
	assert.Equal(t, "openai", info.Provider)
}

func TestBuildMessages(t *testing.T) {
	req := model.Request{
		Instructions: "be brief",
		Contents: []model.Content{
			model.NewUserContent("add 1 and 2"),
			{Role: model.RoleAssistant, Parts: []model.Part{
				model.FunctionCallPart{FunctionCall: model.FunctionCall{ID: "c1", Name: "add", Arguments: `{"a":1,"b":2}`}},
			}},
			{Role: model.RoleTool, Parts: []model.Part{
				model.FunctionResponsePart{FunctionResponse: model.FunctionResponse{ID: "c1", Name: "add", Response: 3}},
			}},
			model.NewTextContent(model.RoleAssistant, "3"),
		},
	}

	msgs := buildMessages(req)
	require.Len(t, msgs, 5)
	assert.NotNil(t, msgs[0].OfSystem)
	assert.NotNil(t, msgs[1].OfUser)
	require.NotNil(t, msgs[2].OfAssistant)
	require.Len(t, msgs[2].OfAssistant.ToolCalls, 1)
	assert.Equal(t, "c1", msgs[2].OfAssistant.ToolCalls[0].ID)
	require.NotNil(t, msgs[3].OfTool)
	assert.Equal(t, "c1", msgs[3].OfTool.ToolCallID)
	assert.NotNil(t, msgs[4].OfAssistant)
}

func TestBuildParams(t *testing.T) {
	m := NewModel(func(o *Options) {
		o.Model = "gpt-4o"
		o.APIKey = "test"
	})

	tools := []model.ToolDefinition{{
		Type: "function",
		Function: model.FunctionDefinition{
			Name:        "add",
			Description: "adds",
			Parameters:  map[string]any{"type": "object"},
		},
	}}

	t.Run("defaults", func(t *testing.T) {
		params := m.buildParams(model.Request{Tools: tools}, nil)
		assert.Equal(t, 0.7, params.Temperature.Value)
		assert.Equal(t, int64(4096), params.MaxCompletionTokens.Value)
		require.Len(t, params.Tools, 1)
		assert.Equal(t, "add", params.Tools[0].Function.Name)
	})

	t.Run("request overrides", func(t *testing.T) {
		temp := 0.1
		params := m.buildParams(model.Request{Temperature: &temp, MaxOutputTokens: 10}, nil)
		assert.Equal(t, 0.1, params.Temperature.Value)
		assert.Equal(t, int64(10), params.MaxCompletionTokens.Value)
	})

	t.Run("tool choice none withholds tools", func(t *testing.T) {
		params := m.buildParams(model.Request{Tools: tools, ToolChoice: model.ToolChoiceNone}, nil)
		assert.Empty(t, params.Tools)
	})

	t.Run("tool choice required", func(t *testing.T) {
		params := m.buildParams(model.Request{Tools: tools, ToolChoice: model.ToolChoiceRequired}, nil)
		assert.Equal(t, "required", params.ToolChoice.OfAuto.Value)
	})

	t.Run("named tool choice", func(t *testing.T) {
		params := m.buildParams(model.Request{Tools: tools, ToolChoice: "add"}, nil)
		require.NotNil(t, params.ToolChoice.OfChatCompletionNamedToolChoice)
		assert.Equal(t, "add", params.ToolChoice.OfChatCompletionNamedToolChoice.Function.Name)
	})
}

func TestGenerate_StreamStopsWhenReaderGoesAway(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for i := 0; i < 100; i++ {
			fmt.Fprintf(w, "data: {\"id\":\"chunk\",\"object\":\"chat.completion.chunk\",\"created\":1,\"model\":\"gpt-4o\",\"choices\":[{\"index\":0,\"delta\":{\"content\":\"t%d\"}}]}\n\n", i)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	m := NewModel(func(o *Options) {
		o.APIKey = "test"
		o.BaseURL = srv.URL
		o.Model = "gpt-4o"
	})

	ctx, cancel := context.WithCancel(context.Background())
	respCh, errCh := m.Generate(ctx, model.Request{
		Contents: []model.Content{model.NewUserContent("hi")},
		Stream:   true,
	})

	// Nobody reads the partials; the buffer fills up.
	require.Eventually(t, func() bool { return len(respCh) == cap(respCh) }, 5*time.Second, 10*time.Millisecond)
	cancel()

	done := make(chan struct{})
	go func() {
		for range errCh {
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("provider goroutine did not stop after cancellation")
	}
}
