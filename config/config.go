// Package config loads agent definitions from YAML files.
//
// A file describes one agent:
//
//	name: assistant
//	model: ${AGENT_MODEL:-openai/gpt-4o-mini}
//	instructions: You are {{.persona}}.
//	variables:
//	  persona: a helpful assistant
//	tools: [calculator, current_time]
//	max_steps: 8
//	tool_timeout: 10s
//	logging:
//	  level: debug
//	  format: text
//
// Environment variables are expanded before decoding; see Load.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/agentkit"
	"github.com/hupe1980/agentkit/agent"
	"github.com/hupe1980/agentkit/logging"
	"github.com/hupe1980/agentkit/model"
	"github.com/hupe1980/agentkit/tool/builtin"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("config: invalid agent configuration")

// AgentConfig is the file representation of agent.Settings.
type AgentConfig struct {
	Name             string         `yaml:"name"`
	Model            string         `yaml:"model"`
	Instructions     string         `yaml:"instructions"`
	Variables        map[string]any `yaml:"variables"`
	Tools            []string       `yaml:"tools"`
	ToolChoice       string         `yaml:"tool_choice"`
	MaxSteps         int            `yaml:"max_steps"`
	MaxOutputTokens  int64          `yaml:"max_output_tokens"`
	Temperature      *float64       `yaml:"temperature"`
	ToolTimeout      time.Duration  `yaml:"tool_timeout"`
	MaxParallelTools int            `yaml:"max_parallel_tools"`
	Stream           bool           `yaml:"stream"`
	Logging          LoggingConfig  `yaml:"logging"`
}

// LoggingConfig selects the structured logger built by Logger.
type LoggingConfig struct {
	Level     string `yaml:"level"`
	Format    string `yaml:"format"`
	AddSource bool   `yaml:"add_source"`
}

// SetDefaults fills unset optional fields.
func (c *AgentConfig) SetDefaults() {
	if c.Name == "" {
		c.Name = agent.DefaultName
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// Validate checks the configuration without constructing a model. All
// problems are reported together.
func (c *AgentConfig) Validate() error {
	var errs []error

	if c.Model == "" {
		errs = append(errs, errors.New("model is required"))
	} else if _, _, err := model.ParseID(c.Model); err != nil {
		errs = append(errs, err)
	}
	if _, err := builtin.Lookup(c.Tools...); err != nil {
		errs = append(errs, err)
	}
	if c.MaxSteps < 0 {
		errs = append(errs, errors.New("max_steps must not be negative"))
	}
	if c.MaxOutputTokens < 0 {
		errs = append(errs, errors.New("max_output_tokens must not be negative"))
	}
	if c.ToolTimeout < 0 {
		errs = append(errs, errors.New("tool_timeout must not be negative"))
	}
	if c.MaxParallelTools < 0 {
		errs = append(errs, errors.New("max_parallel_tools must not be negative"))
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, err)
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Logging.Format))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// Logger builds the structured logger described by Logging.
func (c *AgentConfig) Logger() (*logging.StructuredLogger, error) {
	level, err := logging.ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, err
	}
	return logging.NewSlogLogger(level, c.Logging.Format, c.Logging.AddSource).WithComponent("agent"), nil
}

// Settings converts the configuration into agent settings. Builtin tools are
// instantiated by name.
func (c *AgentConfig) Settings(logger logging.Logger) (agent.Settings, error) {
	tools, err := builtin.Lookup(c.Tools...)
	if err != nil {
		return agent.Settings{}, err
	}

	return agent.Settings{
		Name:             c.Name,
		Model:            c.Model,
		Instructions:     c.Instructions,
		Variables:        c.Variables,
		Tools:            tools,
		ToolChoice:       c.ToolChoice,
		MaxSteps:         c.MaxSteps,
		MaxOutputTokens:  c.MaxOutputTokens,
		Temperature:      c.Temperature,
		ToolTimeout:      c.ToolTimeout,
		MaxParallelTools: c.MaxParallelTools,
		Stream:           c.Stream,
		Logger:           logger,
	}, nil
}

// Props converts the configuration into builder props with the given children.
func (c *AgentConfig) Props(logger logging.Logger, children ...any) (agentkit.Props, error) {
	settings, err := c.Settings(logger)
	if err != nil {
		return agentkit.Props{}, err
	}
	return agentkit.Props{Settings: settings, Children: children}, nil
}
