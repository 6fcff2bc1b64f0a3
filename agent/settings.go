package agent

import (
	"errors"
	"time"

	"github.com/hupe1980/agentkit/logging"
	"github.com/hupe1980/agentkit/model"
	"github.com/hupe1980/agentkit/tool"
)

// Defaults applied when the corresponding setting is zero.
const (
	DefaultName        = "agent"
	DefaultMaxSteps    = 20
	DefaultToolTimeout = 15 * time.Second
)

var (
	// ErrMissingModel is returned when neither Model nor LanguageModel is set.
	ErrMissingModel = errors.New("agent: a model identifier or language model is required")
	// ErrDuplicateTool is returned when two tools share a name.
	ErrDuplicateTool = errors.New("agent: duplicate tool name")
	// ErrInvalidSettings is returned for out-of-range limits.
	ErrInvalidSettings = errors.New("agent: invalid settings")
)

// Settings is the construction record of an Agent. New keeps it unchanged
// and Agent.Settings returns it as given; defaults are applied to the
// agent's runtime state only.
type Settings struct {
	// Name identifies the agent in logs, hooks and tool contexts.
	Name string

	// Model is a "provider/model" identifier such as "openai/gpt-4o",
	// resolved through Registry (model.DefaultRegistry when nil).
	Model string

	// LanguageModel, when set, is used directly and Model is informational.
	LanguageModel model.Model

	// Instructions is the system prompt. It may be a text/template rendered
	// against Variables. Referencing an unset variable fails the generation.
	Instructions string
	Variables    map[string]any

	Tools      []tool.Tool
	ToolChoice string // "auto" (default), "none", "required" or a tool name

	MaxSteps        int // default DefaultMaxSteps
	MaxOutputTokens int64
	Temperature     *float64

	ToolTimeout      time.Duration // default DefaultToolTimeout
	MaxParallelTools int           // 0 means unbounded

	// Stream requests streaming from the model even for Generate.
	Stream bool

	Logger   logging.Logger
	Registry *model.Registry
}

func (s Settings) validate() error {
	switch {
	case s.MaxSteps < 0:
		return errors.Join(ErrInvalidSettings, errors.New("max steps must not be negative"))
	case s.MaxOutputTokens < 0:
		return errors.Join(ErrInvalidSettings, errors.New("max output tokens must not be negative"))
	case s.ToolTimeout < 0:
		return errors.Join(ErrInvalidSettings, errors.New("tool timeout must not be negative"))
	case s.MaxParallelTools < 0:
		return errors.Join(ErrInvalidSettings, errors.New("max parallel tools must not be negative"))
	}
	return nil
}

// Float is a helper for the optional Temperature setting.
func Float(f float64) *float64 { return &f }
