package agent

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/agentkit/logging"
	"github.com/hupe1980/agentkit/model"
	"github.com/hupe1980/agentkit/tool"
)

// Agent is a model-backed, tool-calling agent.
//
// An Agent is created once from Settings and may then be configured through
// its methods, typically from agentkit configuration callbacks. All exported
// methods are goroutine-safe.
type Agent struct {
	id       string
	settings Settings
	llm      model.Model
	hooks    *hookManager

	mu               sync.RWMutex
	name             string
	instruction      Instruction
	variables        map[string]any
	tools            map[string]tool.Tool
	toolChoice       string
	maxSteps         int
	maxOutputTokens  int64
	temperature      *float64
	toolTimeout      time.Duration
	maxParallelTools int
	stream           bool
	logger           logging.Logger
}

// New constructs an Agent from settings. The model is resolved eagerly so
// that invalid identifiers fail here rather than on first use.
func New(settings Settings) (*Agent, error) {
	if err := settings.validate(); err != nil {
		return nil, err
	}

	llm := settings.LanguageModel
	if llm == nil {
		if settings.Model == "" {
			return nil, ErrMissingModel
		}
		registry := settings.Registry
		if registry == nil {
			registry = model.DefaultRegistry
		}
		var err error
		if llm, err = registry.Resolve(settings.Model); err != nil {
			return nil, fmt.Errorf("agent: resolve model %q: %w", settings.Model, err)
		}
	}

	tools := make(map[string]tool.Tool, len(settings.Tools))
	for _, t := range settings.Tools {
		if _, exists := tools[t.Name()]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateTool, t.Name())
		}
		tools[t.Name()] = t
	}

	a := &Agent{
		id:               uuid.NewString(),
		settings:         settings,
		llm:              llm,
		hooks:            newHookManager(),
		name:             settings.Name,
		instruction:      NewInstructionFromText(settings.Instructions),
		variables:        settings.Variables,
		tools:            tools,
		toolChoice:       settings.ToolChoice,
		maxSteps:         settings.MaxSteps,
		maxOutputTokens:  settings.MaxOutputTokens,
		temperature:      settings.Temperature,
		toolTimeout:      settings.ToolTimeout,
		maxParallelTools: settings.MaxParallelTools,
		stream:           settings.Stream,
		logger:           logging.OrNoOp(settings.Logger),
	}
	if a.name == "" {
		a.name = DefaultName
	}
	if a.toolChoice == "" {
		a.toolChoice = model.ToolChoiceAuto
	}
	if a.maxSteps == 0 {
		a.maxSteps = DefaultMaxSteps
	}
	if a.toolTimeout == 0 {
		a.toolTimeout = DefaultToolTimeout
	}

	info := llm.Info()
	a.logger.Debug("agent.created",
		"agent", a.name,
		"agent_id", a.id,
		"provider", info.Provider,
		"model", info.Name,
		"tools", len(tools),
	)

	return a, nil
}

// ID returns the unique identifier assigned at construction.
func (a *Agent) ID() string { return a.id }

// Settings returns the settings the agent was constructed with, unchanged.
// Later configuration (RegisterTool, SetInstructions, ...) is not reflected here.
func (a *Agent) Settings() Settings { return a.settings }

// Model returns the resolved language model.
func (a *Agent) Model() model.Model { return a.llm }

// Name returns the agent name (DefaultName when none was configured).
func (a *Agent) Name() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.name
}

// SetName renames the agent.
func (a *Agent) SetName(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.name = name
}

// RegisterTool adds or replaces a tool.
func (a *Agent) RegisterTool(t tool.Tool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tools[t.Name()] = t
}

// RegisterTools adds multiple tools.
func (a *Agent) RegisterTools(tools ...tool.Tool) {
	for _, t := range tools {
		a.RegisterTool(t)
	}
}

// UnregisterTool removes a tool. It reports whether the tool was registered.
func (a *Agent) UnregisterTool(name string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.tools[name]; exists {
		delete(a.tools, name)
		return true
	}
	return false
}

// HasTool checks if a tool is registered with the agent.
func (a *Agent) HasTool(name string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, exists := a.tools[name]
	return exists
}

// GetTool retrieves a specific tool by name.
func (a *Agent) GetTool(name string) (tool.Tool, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	t, exists := a.tools[name]
	return t, exists
}

// ListTools returns the names of all registered tools, sorted.
func (a *Agent) ListTools() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	names := make([]string, 0, len(a.tools))
	for name := range a.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClearTools removes all registered tools.
func (a *Agent) ClearTools() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tools = make(map[string]tool.Tool)
}

// SetInstructions replaces the system prompt template.
func (a *Agent) SetInstructions(text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.instruction = NewInstructionFromText(text)
}

// SetInstructionProvider makes the system prompt dynamic.
func (a *Agent) SetInstructionProvider(p InstructionProvider) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.instruction = NewInstructionFromProvider(p)
}

// SetVariable sets a template variable used when rendering instructions.
func (a *Agent) SetVariable(key string, value any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	vars := make(map[string]any, len(a.variables)+1)
	for k, v := range a.variables {
		vars[k] = v
	}
	vars[key] = value
	a.variables = vars
}

// SetToolChoice sets "auto", "none", "required" or a specific tool name.
func (a *Agent) SetToolChoice(choice string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.toolChoice = choice
}

// SetMaxSteps bounds the number of model calls per generation. Values < 1
// restore the default.
func (a *Agent) SetMaxSteps(n int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if n < 1 {
		n = DefaultMaxSteps
	}
	a.maxSteps = n
}

// MaxSteps returns the effective step limit.
func (a *Agent) MaxSteps() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.maxSteps
}

// SetTemperature overrides the sampling temperature.
func (a *Agent) SetTemperature(t float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.temperature = &t
}

// SetToolTimeout bounds each tool call. Values <= 0 restore the default.
func (a *Agent) SetToolTimeout(d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if d <= 0 {
		d = DefaultToolTimeout
	}
	a.toolTimeout = d
}

// SetStreaming toggles model streaming for Generate.
func (a *Agent) SetStreaming(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stream = enabled
}

// SetLogger replaces the logger. nil disables logging.
func (a *Agent) SetLogger(l logging.Logger) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.logger = logging.OrNoOp(l)
}

// Logger returns the current logger.
func (a *Agent) Logger() logging.Logger {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.logger
}

// AddHook registers lifecycle hooks. Hooks of the same type run in
// registration order.
func (a *Agent) AddHook(hooks ...Hook) {
	for _, h := range hooks {
		a.hooks.add(h)
	}
}

// HookCount returns the number of hooks registered for t.
func (a *Agent) HookCount(t HookType) int { return a.hooks.count(t) }

// BeforeModel registers a HookBeforeModel function.
func (a *Agent) BeforeModel(fn func(hc *HookContext) error) {
	a.AddHook(NewHook(HookBeforeModel, fn))
}

// AfterModel registers a HookAfterModel function.
func (a *Agent) AfterModel(fn func(hc *HookContext) error) {
	a.AddHook(NewHook(HookAfterModel, fn))
}

// BeforeTool registers a HookBeforeTool function.
func (a *Agent) BeforeTool(fn func(hc *HookContext) error) {
	a.AddHook(NewHook(HookBeforeTool, fn))
}

// AfterTool registers a HookAfterTool function.
func (a *Agent) AfterTool(fn func(hc *HookContext) error) {
	a.AddHook(NewHook(HookAfterTool, fn))
}

// OnError registers a HookOnError function.
func (a *Agent) OnError(fn func(hc *HookContext) error) {
	a.AddHook(NewHook(HookOnError, fn))
}

// OnStepFinish registers a function observing every completed step.
func (a *Agent) OnStepFinish(fn func(step StepResult)) {
	a.AddHook(NewHook(HookStepFinish, func(hc *HookContext) error {
		fn(*hc.StepResult)
		return nil
	}))
}

// OnRunFinish registers a HookRunFinish function.
func (a *Agent) OnRunFinish(fn func(hc *HookContext) error) {
	a.AddHook(NewHook(HookRunFinish, fn))
}

// runConfig is an immutable snapshot of the agent configuration taken at the
// start of a generation.
type runConfig struct {
	runID            string
	name             string
	instruction      Instruction
	variables        map[string]any
	tools            map[string]tool.Tool
	toolDefs         []model.ToolDefinition
	toolChoice       string
	maxSteps         int
	maxOutputTokens  int64
	temperature      *float64
	toolTimeout      time.Duration
	maxParallelTools int
	stream           bool
	logger           logging.Logger
	hooks            hookSet
}

func (a *Agent) snapshot() runConfig {
	a.mu.RLock()
	defer a.mu.RUnlock()

	tools := make(map[string]tool.Tool, len(a.tools))
	names := make([]string, 0, len(a.tools))
	for name, t := range a.tools {
		tools[name] = t
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make([]model.ToolDefinition, 0, len(names))
	for _, name := range names {
		t := tools[name]
		defs = append(defs, model.ToolDefinition{
			Type: "function",
			Function: model.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}

	return runConfig{
		runID:            uuid.NewString(),
		name:             a.name,
		instruction:      a.instruction,
		variables:        a.variables,
		tools:            tools,
		toolDefs:         defs,
		toolChoice:       a.toolChoice,
		maxSteps:         a.maxSteps,
		maxOutputTokens:  a.maxOutputTokens,
		temperature:      a.temperature,
		toolTimeout:      a.toolTimeout,
		maxParallelTools: a.maxParallelTools,
		stream:           a.stream,
		logger:           a.logger,
		hooks:            a.hooks.snapshot(),
	}
}
