// Package agentkit builds agents declaratively. A Props value carries the
// agent settings plus an ordered set of configuration children; Build
// constructs the agent through agent.New and hands it to every child in turn:
//
//	a, err := agentkit.Build(agentkit.Props{
//	    Settings: agent.Settings{Model: "openai/gpt-4o"},
//	    Children: agentkit.Children(
//	        func(a *agent.Agent) { a.RegisterTool(builtin.Calculator()) },
//	        observability.NewTracer(tp),
//	    ),
//	})
//
// Importing agentkit registers the "openai" and "anthropic" model providers.
package agentkit

import (
	"reflect"

	"github.com/hupe1980/agentkit/agent"

	// Default model providers.
	_ "github.com/hupe1980/agentkit/model/anthropic"
	_ "github.com/hupe1980/agentkit/model/openai"
)

// ConfigureFunc configures an agent after construction.
type ConfigureFunc func(a *agent.Agent)

// ConfigureErrFunc is a ConfigureFunc that can fail. A non-nil error aborts
// Build and is returned unchanged.
type ConfigureErrFunc func(a *agent.Agent) error

// Configurator is implemented by values that configure agents.
type Configurator interface {
	Configure(a *agent.Agent)
}

// Props is the input of Build. Settings reaches agent.New as given; Children
// never does.
type Props struct {
	agent.Settings

	// Children is nil, a single callback or a slice or array of callbacks
	// of any element type. Elements that are not callbacks are ignored.
	Children any
}

// Build constructs an agent from props.Settings and invokes each child with
// it, in order, on the calling goroutine. A construction error is returned
// unchanged before any child runs. A failing ConfigureErrFunc stops the
// remaining children; panics are not recovered.
func Build(props Props) (*agent.Agent, error) {
	a, err := agent.New(props.Settings)
	if err != nil {
		return nil, err
	}

	for _, child := range normalize(props.Children) {
		if err := invoke(child, a); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// New is the variadic form of Build.
func New(settings agent.Settings, children ...any) (*agent.Agent, error) {
	return Build(Props{Settings: settings, Children: children})
}

// Children spells a sequence of children.
func Children(values ...any) []any { return values }

// Invocable reports whether Build would invoke v.
func Invocable(v any) bool {
	switch fn := v.(type) {
	case func(*agent.Agent):
		return fn != nil
	case ConfigureFunc:
		return fn != nil
	case func(*agent.Agent) error:
		return fn != nil
	case ConfigureErrFunc:
		return fn != nil
	case Configurator:
		return fn != nil && !isNilPointer(fn)
	}
	return false
}

// isNilPointer reports whether v wraps a nil pointer.
func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// normalize turns children into a sequence. Any slice or array is a
// sequence of its elements; every other value is a sequence of one.
func normalize(children any) []any {
	switch c := children.(type) {
	case nil:
		return nil
	case []any:
		return c
	}

	rv := reflect.ValueOf(children)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []any{children}
	}

	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

func invoke(child any, a *agent.Agent) error {
	if !Invocable(child) {
		return nil
	}

	switch fn := child.(type) {
	case func(*agent.Agent):
		fn(a)
	case ConfigureFunc:
		fn(a)
	case func(*agent.Agent) error:
		return fn(a)
	case ConfigureErrFunc:
		return fn(a)
	case Configurator:
		fn.Configure(a)
	}

	return nil
}
