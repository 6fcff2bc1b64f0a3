package agent

import (
	"context"
	"sync"

	"github.com/hupe1980/agentkit/model"
)

// HookType defines the lifecycle points where hooks run during a generation.
type HookType string

const (
	// HookBeforeModel runs before each model request. Hooks may modify the
	// request in place (HookContext.Request).
	HookBeforeModel HookType = "before_model"

	// HookAfterModel runs after the final model response of a step.
	HookAfterModel HookType = "after_model"

	// HookBeforeTool runs before each tool call. Calls of one step may run
	// concurrently, so these hooks must be safe for concurrent use.
	HookBeforeTool HookType = "before_tool"

	// HookAfterTool runs after each tool call with its response.
	HookAfterTool HookType = "after_tool"

	// HookStepFinish runs once a step (model call plus tool calls) completed.
	HookStepFinish HookType = "on_step_finish"

	// HookOnError runs when a model call fails, before the error is returned.
	HookOnError HookType = "on_error"

	// HookRunFinish runs once when a generation ends, whether it succeeded or
	// not. Err holds the error Generate returns. Errors from these hooks are
	// logged and do not change the outcome.
	HookRunFinish HookType = "on_run_finish"
)

// HookContext carries the data available at a lifecycle point. Fields not
// relevant to the hook type are nil. RunID identifies the generation;
// concurrent generations on one agent have distinct run IDs.
type HookContext struct {
	Context context.Context
	Agent   *Agent
	Type    HookType
	RunID   string
	Step    int

	Request          *model.Request
	Response         *model.Response
	FunctionCall     *model.FunctionCall
	FunctionResponse *model.FunctionResponse
	StepResult       *StepResult
	Err              error
}

// Hook is an execution lifecycle extension point. Returning an error aborts
// the generation; the error is returned from Generate unchanged.
type Hook interface {
	Type() HookType
	Execute(hc *HookContext) error
}

// HookFunc adapts a function to the Hook interface.
type HookFunc struct {
	hookType HookType
	fn       func(hc *HookContext) error
}

// NewHook creates a function-based hook.
func NewHook(hookType HookType, fn func(hc *HookContext) error) *HookFunc {
	return &HookFunc{hookType: hookType, fn: fn}
}

// Type returns the hook type this function handles.
func (h *HookFunc) Type() HookType { return h.hookType }

// Execute calls the wrapped function.
func (h *HookFunc) Execute(hc *HookContext) error { return h.fn(hc) }

// hookManager stores hooks per type in registration order.
type hookManager struct {
	mu    sync.RWMutex
	hooks map[HookType][]Hook
}

func newHookManager() *hookManager {
	return &hookManager{hooks: make(map[HookType][]Hook)}
}

func (hm *hookManager) add(h Hook) {
	hm.mu.Lock()
	defer hm.mu.Unlock()
	hm.hooks[h.Type()] = append(hm.hooks[h.Type()], h)
}

func (hm *hookManager) count(t HookType) int {
	hm.mu.RLock()
	defer hm.mu.RUnlock()
	return len(hm.hooks[t])
}

// snapshot copies the registry so a running generation is unaffected by
// later registrations.
func (hm *hookManager) snapshot() hookSet {
	hm.mu.RLock()
	defer hm.mu.RUnlock()
	set := make(hookSet, len(hm.hooks))
	for t, hooks := range hm.hooks {
		set[t] = append([]Hook(nil), hooks...)
	}
	return set
}

type hookSet map[HookType][]Hook

// run executes hooks of hc.Type sequentially, stopping at the first error.
func (hs hookSet) run(hc *HookContext) error {
	for _, h := range hs[hc.Type] {
		if err := h.Execute(hc); err != nil {
			return err
		}
	}
	return nil
}
