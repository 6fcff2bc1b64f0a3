package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/agentkit/model"
	"github.com/hupe1980/agentkit/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockModelImpl for testing model resolution and info.
type MockModelImpl struct{ mock.Mock }

func (m *MockModelImpl) Generate(ctx context.Context, req model.Request) (<-chan model.Response, <-chan error) {
	args := m.Called(ctx, req)

	respCh := make(chan model.Response, 1)
	errCh := make(chan error, 1)
	if err := args.Error(0); err != nil {
		errCh <- err
	} else {
		respCh <- model.Response{Content: model.NewTextContent(model.RoleAssistant, "test"), FinishReason: "stop"}
	}
	close(respCh)
	close(errCh)

	return respCh, errCh
}

func (m *MockModelImpl) Info() model.Info {
	args := m.Called()
	return args.Get(0).(model.Info)
}

func newEchoTool(name string) tool.Tool {
	return tool.NewFunctionTool(name, "echo "+name, nil, func(_ *tool.Context, args map[string]any) (any, error) {
		return args, nil
	})
}

func testRegistry(m model.Model) *model.Registry {
	r := model.NewRegistry()
	r.Register("test", func(string) (model.Model, error) { return m, nil })
	return r
}

func TestNew_ResolvesModelFromRegistry(t *testing.T) {
	llm := &MockModelImpl{}
	llm.On("Info").Return(model.Info{Name: "m1", Provider: "test"})

	settings := Settings{Model: "test/m1", Registry: testRegistry(llm)}
	a, err := New(settings)
	require.NoError(t, err)

	assert.Same(t, llm, a.Model())
	assert.Equal(t, settings, a.Settings())
	assert.NotEmpty(t, a.ID())
	assert.Equal(t, DefaultName, a.Name())
	assert.Equal(t, DefaultMaxSteps, a.MaxSteps())
	llm.AssertExpectations(t)
}

func TestNew_LanguageModelTakesPrecedence(t *testing.T) {
	llm := model.NewMockModel("direct")
	a, err := New(Settings{Model: "unknown/ignored", LanguageModel: llm})
	require.NoError(t, err)
	assert.Same(t, llm, a.Model())
	assert.Equal(t, "unknown/ignored", a.Settings().Model)
}

func TestNew_Errors(t *testing.T) {
	_, err := New(Settings{})
	assert.ErrorIs(t, err, ErrMissingModel)

	_, err = New(Settings{Model: "no-slash", Registry: model.NewRegistry()})
	assert.ErrorIs(t, err, model.ErrInvalidModelID)

	_, err = New(Settings{Model: "nope/x", Registry: model.NewRegistry()})
	assert.ErrorIs(t, err, model.ErrUnknownProvider)

	_, err = New(Settings{LanguageModel: model.NewMockModel("m"), MaxSteps: -1})
	assert.ErrorIs(t, err, ErrInvalidSettings)

	_, err = New(Settings{
		LanguageModel: model.NewMockModel("m"),
		Tools:         []tool.Tool{newEchoTool("a"), newEchoTool("a")},
	})
	assert.ErrorIs(t, err, ErrDuplicateTool)
}

func TestNew_FactoryErrorPropagates(t *testing.T) {
	boom := errors.New("no credentials")
	r := model.NewRegistry()
	r.Register("test", func(string) (model.Model, error) { return nil, boom })

	_, err := New(Settings{Model: "test/x", Registry: r})
	assert.ErrorIs(t, err, boom)
}

func TestAgent_ToolManagement(t *testing.T) {
	a, err := New(Settings{
		LanguageModel: model.NewMockModel("m"),
		Tools:         []tool.Tool{newEchoTool("b")},
	})
	require.NoError(t, err)

	a.RegisterTools(newEchoTool("c"), newEchoTool("a"))
	assert.Equal(t, []string{"a", "b", "c"}, a.ListTools())
	assert.True(t, a.HasTool("b"))

	got, ok := a.GetTool("c")
	require.True(t, ok)
	assert.Equal(t, "c", got.Name())

	assert.True(t, a.UnregisterTool("b"))
	assert.False(t, a.UnregisterTool("b"))

	a.ClearTools()
	assert.Empty(t, a.ListTools())

	// The construction record is unaffected by imperative changes.
	require.Len(t, a.Settings().Tools, 1)
	assert.Equal(t, "b", a.Settings().Tools[0].Name())
}

func TestAgent_Setters(t *testing.T) {
	a, err := New(Settings{LanguageModel: model.NewMockModel("m"), Name: "first"})
	require.NoError(t, err)

	a.SetName("second")
	assert.Equal(t, "second", a.Name())

	a.SetMaxSteps(3)
	assert.Equal(t, 3, a.MaxSteps())
	a.SetMaxSteps(0)
	assert.Equal(t, DefaultMaxSteps, a.MaxSteps())

	a.SetLogger(nil)
	assert.NotNil(t, a.Logger())

	a.BeforeModel(func(*HookContext) error { return nil })
	a.OnStepFinish(func(StepResult) {})
	assert.Equal(t, 1, a.HookCount(HookBeforeModel))
	assert.Equal(t, 1, a.HookCount(HookStepFinish))
	assert.Equal(t, 0, a.HookCount(HookAfterTool))
}
