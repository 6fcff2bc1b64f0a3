// Package observability instruments agents with OpenTelemetry.
//
// Metrics and Tracer register agent hooks and implement
// agentkit.Configurator, so they are passed as builder children:
//
//	metrics, _ := observability.NewMetrics()
//	a, err := agentkit.New(settings, metrics, observability.NewTracer(nil))
//	http.Handle("/metrics", metrics.Handler())
package observability

import (
	"sync"
)

// Attribute keys shared by spans and metrics.
const (
	AttrAgentName      = "agentkit.agent.name"
	AttrStep           = "agentkit.step"
	AttrModel          = "gen_ai.request.model"
	AttrProvider       = "gen_ai.system"
	AttrFinishReason   = "gen_ai.response.finish_reason"
	AttrInputTokens    = "gen_ai.usage.input_tokens"
	AttrOutputTokens   = "gen_ai.usage.output_tokens"
	AttrToolName       = "gen_ai.tool.name"
	AttrToolCallID     = "gen_ai.tool.call.id"
	AttrStatus         = "status"
	AttrTokenDirection = "direction"
)

// callKey correlates the before and after hooks of one model or tool call.
// Model calls have an empty callID.
type callKey struct {
	runID  string
	step   int
	callID string
}

// inflight tracks per-call state between hooks. Tool hooks of one step run
// concurrently.
type inflight[T any] struct {
	mu sync.Mutex
	m  map[callKey]T
}

func newInflight[T any]() *inflight[T] {
	return &inflight[T]{m: make(map[callKey]T)}
}

func (f *inflight[T]) put(k callKey, v T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.m[k] = v
}

func (f *inflight[T]) take(k callKey) (T, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.m[k]
	delete(f.m, k)
	return v, ok
}

// drain removes and returns every entry left over from runID.
func (f *inflight[T]) drain(runID string) []T {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []T
	for k, v := range f.m {
		if k.runID == runID {
			out = append(out, v)
			delete(f.m, k)
		}
	}
	return out
}

func (f *inflight[T]) size() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.m)
}
