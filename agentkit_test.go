package agentkit

import (
	"errors"
	"testing"

	"github.com/hupe1980/agentkit/agent"
	"github.com/hupe1980/agentkit/model"
	"github.com/hupe1980/agentkit/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockSettings() agent.Settings {
	r := model.NewRegistry()
	r.Register("mock", func(name string) (model.Model, error) { return model.NewMockModel(name), nil })
	return agent.Settings{Model: "mock/test", Registry: r}
}

type recordingConfigurator struct {
	log *[]int
	id  int
}

func (c recordingConfigurator) Configure(*agent.Agent) { *c.log = append(*c.log, c.id) }

func TestBuild_RecordsSettings(t *testing.T) {
	a, err := Build(Props{Settings: agent.Settings{Model: "openai/gpt-4o"}})
	require.NoError(t, err)
	assert.Equal(t, "openai/gpt-4o", a.Settings().Model)

	settings := mockSettings()
	settings.Name = "assistant"
	settings.Instructions = "be helpful"
	settings.MaxSteps = 4

	a, err = Build(Props{Settings: settings})
	require.NoError(t, err)
	assert.Equal(t, settings, a.Settings())
}

func TestBuild_ChildrenRunInOrder(t *testing.T) {
	var (
		log  []int
		seen []*agent.Agent
	)
	child := func(id int) func(*agent.Agent) {
		return func(a *agent.Agent) {
			log = append(log, id)
			seen = append(seen, a)
		}
	}

	a, err := Build(Props{
		Settings: mockSettings(),
		Children: Children(child(1), child(2), child(3)),
	})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, log)
	for _, s := range seen {
		assert.Same(t, a, s)
	}
}

func TestBuild_SingleChild(t *testing.T) {
	var calls int
	_, err := Build(Props{
		Settings: mockSettings(),
		Children: func(*agent.Agent) { calls++ },
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestBuild_SkipsNonInvocable(t *testing.T) {
	var log []int
	var nilFunc func(*agent.Agent)

	_, err := Build(Props{
		Settings: mockSettings(),
		Children: Children(
			func(*agent.Agent) { log = append(log, 1) },
			"plain text",
			42,
			nil,
			nilFunc,
			func() { log = append(log, -1) },
			func(*agent.Agent) { log = append(log, 2) },
		),
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, log)
}

func TestBuild_NonInvocableSingleChild(t *testing.T) {
	a, err := Build(Props{Settings: mockSettings(), Children: "just text"})
	require.NoError(t, err)
	assert.NotNil(t, a)
}

func TestBuild_EmptyChildren(t *testing.T) {
	for name, children := range map[string]any{
		"nil":   nil,
		"empty": []any{},
		"typed": []ConfigureFunc{},
	} {
		t.Run(name, func(t *testing.T) {
			a, err := Build(Props{Settings: mockSettings(), Children: children})
			require.NoError(t, err)
			assert.NotNil(t, a)
		})
	}
}

func TestBuild_TypedSequences(t *testing.T) {
	var log []int

	_, err := Build(Props{
		Settings: mockSettings(),
		Children: []ConfigureFunc{
			func(*agent.Agent) { log = append(log, 1) },
			func(*agent.Agent) { log = append(log, 2) },
		},
	})
	require.NoError(t, err)

	_, err = Build(Props{
		Settings: mockSettings(),
		Children: []Configurator{
			recordingConfigurator{log: &log, id: 3},
			recordingConfigurator{log: &log, id: 4},
		},
	})
	require.NoError(t, err)

	_, err = Build(Props{
		Settings: mockSettings(),
		Children: []func(*agent.Agent){
			func(*agent.Agent) { log = append(log, 5) },
		},
	})
	require.NoError(t, err)

	_, err = Build(Props{
		Settings: mockSettings(),
		Children: [2]recordingConfigurator{{log: &log, id: 6}, {log: &log, id: 7}},
	})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, log)
}

func TestBuild_TypedErrorSequences(t *testing.T) {
	boom := errors.New("boom")

	var log []int
	_, err := Build(Props{
		Settings: mockSettings(),
		Children: []ConfigureErrFunc{
			func(*agent.Agent) error { log = append(log, 1); return nil },
			func(*agent.Agent) error { return boom },
			func(*agent.Agent) error { log = append(log, 3); return nil },
		},
	})
	assert.Same(t, boom, err)
	assert.Equal(t, []int{1}, log)

	log = nil
	_, err = Build(Props{
		Settings: mockSettings(),
		Children: []func(*agent.Agent) error{
			func(*agent.Agent) error { log = append(log, 1); return nil },
			func(*agent.Agent) error { return boom },
		},
	})
	assert.Same(t, boom, err)
	assert.Equal(t, []int{1}, log)

	log = nil
	a, err := Build(Props{
		Settings: mockSettings(),
		Children: []*recordingConfigurator{{log: &log, id: 1}, nil, {log: &log, id: 2}},
	})
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, []int{1, 2}, log)
}

func TestBuild_ConstructionFailure(t *testing.T) {
	var log []int
	child := func(*agent.Agent) { log = append(log, 1) }

	_, err := Build(Props{Settings: agent.Settings{}, Children: child})
	assert.Same(t, agent.ErrMissingModel, err)

	settings := mockSettings()
	settings.Tools = []tool.Tool{
		tool.NewFunctionTool("dup", "", nil, nil),
		tool.NewFunctionTool("dup", "", nil, nil),
	}
	_, err = Build(Props{Settings: settings, Children: Children(child, child)})
	assert.ErrorIs(t, err, agent.ErrDuplicateTool)

	assert.Empty(t, log)
}

func TestBuild_CallbackErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	var log []int

	_, err := Build(Props{
		Settings: mockSettings(),
		Children: Children(
			func(*agent.Agent) { log = append(log, 1) },
			func(*agent.Agent) error { return boom },
			func(*agent.Agent) { log = append(log, 3) },
		),
	})
	assert.Same(t, boom, err)
	assert.Equal(t, []int{1}, log)

	_, err = Build(Props{
		Settings: mockSettings(),
		Children: ConfigureErrFunc(func(*agent.Agent) error { return boom }),
	})
	assert.Same(t, boom, err)
}

func TestBuild_CallbackPanicPropagates(t *testing.T) {
	assert.PanicsWithValue(t, "configure failed", func() {
		_, _ = Build(Props{
			Settings: mockSettings(),
			Children: func(*agent.Agent) { panic("configure failed") },
		})
	})
}

func TestBuild_ChildrenConfigureAgent(t *testing.T) {
	a, err := New(mockSettings(),
		func(a *agent.Agent) {
			a.RegisterTool(tool.NewFunctionTool("echo", "echo", nil, nil))
		},
		ConfigureFunc(func(a *agent.Agent) { a.SetName("configured") }),
	)
	require.NoError(t, err)

	assert.Equal(t, "configured", a.Name())
	assert.True(t, a.HasTool("echo"))
	assert.Empty(t, a.Settings().Tools)
}

func TestInvocable(t *testing.T) {
	var nilConfigurator Configurator

	assert.True(t, Invocable(func(*agent.Agent) {}))
	assert.True(t, Invocable(ConfigureFunc(func(*agent.Agent) {})))
	assert.True(t, Invocable(func(*agent.Agent) error { return nil }))
	assert.True(t, Invocable(recordingConfigurator{}))

	assert.False(t, Invocable(nil))
	assert.False(t, Invocable(nilConfigurator))
	assert.False(t, Invocable((*recordingConfigurator)(nil)))
	assert.False(t, Invocable(ConfigureFunc(nil)))
	assert.False(t, Invocable("text"))
	assert.False(t, Invocable(func() {}))
	assert.False(t, Invocable(func(string) {}))
}
