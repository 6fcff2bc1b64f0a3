package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/agentkit"
	"github.com/hupe1980/agentkit/agent"
	"github.com/hupe1980/agentkit/config"
	"github.com/hupe1980/agentkit/model"
	"github.com/hupe1980/agentkit/observability"
	"github.com/hupe1980/agentkit/session"
	"github.com/hupe1980/agentkit/tool/builtin"
)

// AgentFlags select and configure the agent shared by run and chat.
type AgentFlags struct {
	Config       string   `short:"c" help:"Agent configuration file." type:"path"`
	Model        string   `short:"m" help:"Model identifier (provider/model)." env:"AGENTKIT_MODEL"`
	Instructions string   `short:"i" help:"System instructions."`
	MaxSteps     int      `name:"max-steps" help:"Maximum model calls per prompt."`
	Tools        []string `help:"Builtin tools to enable (comma-separated)." sep:","`
	Stream       bool     `help:"Stream text as it is generated."`
	Trace        bool     `help:"Print OpenTelemetry spans to stderr."`
	MetricsAddr  string   `name:"metrics-addr" help:"Serve Prometheus metrics on this address while running." placeholder:"ADDR"`
}

// agentConfig loads the file named by --config, if any, and applies flag
// overrides on top.
func (f *AgentFlags) agentConfig(cli *CLI) (*config.AgentConfig, error) {
	cfg := &config.AgentConfig{}
	if f.Config != "" {
		loaded, err := config.Load(f.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if f.Model != "" {
		cfg.Model = f.Model
	}
	if f.Instructions != "" {
		cfg.Instructions = f.Instructions
	}
	if f.MaxSteps != 0 {
		cfg.MaxSteps = f.MaxSteps
	}
	if len(f.Tools) > 0 {
		cfg.Tools = f.Tools
	}
	if f.Stream {
		cfg.Stream = true
	}
	if cli.LogLevel != "" {
		cfg.Logging.Level = cli.LogLevel
	}
	if cli.LogFormat != "" {
		cfg.Logging.Format = cli.LogFormat
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// build constructs the agent with the requested observability children. The
// returned cleanup flushes exporters and stops the metrics server.
func (f *AgentFlags) build(cli *CLI) (*agent.Agent, *config.AgentConfig, func(), error) {
	var cleanups []func(context.Context)
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i](ctx)
		}
	}

	cfg, err := f.agentConfig(cli)
	if err != nil {
		return nil, nil, cleanup, err
	}

	logger, err := cfg.Logger()
	if err != nil {
		return nil, nil, cleanup, err
	}

	var children []any

	if f.Trace {
		tp, err := observability.NewStdoutTracerProvider(os.Stderr)
		if err != nil {
			return nil, nil, cleanup, err
		}
		cleanups = append(cleanups, func(ctx context.Context) { _ = tp.Shutdown(ctx) })
		children = append(children, observability.NewTracer(tp))
	}

	if f.MetricsAddr != "" {
		metrics, err := observability.NewMetrics()
		if err != nil {
			return nil, nil, cleanup, err
		}
		srv := &http.Server{Addr: f.MetricsAddr, Handler: metrics.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics.server.error", "addr", f.MetricsAddr, "error", err.Error())
			}
		}()
		cleanups = append(cleanups, func(ctx context.Context) {
			_ = srv.Shutdown(ctx)
			_ = metrics.Shutdown(ctx)
		})
		children = append(children, metrics)
	}

	props, err := cfg.Props(logger, children...)
	if err != nil {
		return nil, nil, cleanup, err
	}

	a, err := agentkit.Build(props)
	if err != nil {
		return nil, nil, cleanup, err
	}
	return a, cfg, cleanup, nil
}

// RunCmd runs an agent on a single prompt.
type RunCmd struct {
	AgentFlags `embed:""`

	Prompt  []string      `arg:"" help:"Prompt sent to the agent."`
	Timeout time.Duration `help:"Overall timeout for the run." default:"5m"`
}

func (c *RunCmd) Run(cli *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if c.Timeout > 0 {
		var timeoutCancel context.CancelFunc
		ctx, timeoutCancel = context.WithTimeout(ctx, c.Timeout)
		defer timeoutCancel()
	}

	a, cfg, cleanup, err := c.build(cli)
	defer cleanup()
	if err != nil {
		return err
	}

	prompt := strings.Join(c.Prompt, " ")
	if cfg.Stream {
		return streamRun(ctx, a, prompt)
	}

	res, err := a.Generate(ctx, prompt)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, res.Text)
	return nil
}

func streamRun(ctx context.Context, a *agent.Agent, prompt string) error {
	events, errCh := a.Stream(ctx, prompt)
	for ev := range events {
		switch ev.Type {
		case agent.StreamTextDelta:
			fmt.Fprint(stdout, ev.Text)
		case agent.StreamToolCall:
			fmt.Fprintf(stdout, "\n[tool] %s(%s)\n", ev.FunctionCall.Name, ev.FunctionCall.Arguments)
		case agent.StreamFinish:
			fmt.Fprintln(stdout)
		}
	}
	return <-errCh
}

// ChatCmd reads prompts line by line and keeps the conversation in memory.
type ChatCmd struct {
	AgentFlags `embed:""`

	Session string `help:"Session id (random when empty)."`
}

func (c *ChatCmd) Run(cli *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, _, cleanup, err := c.build(cli)
	defer cleanup()
	if err != nil {
		return err
	}

	sessionID := c.Session
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	store := session.NewInMemoryStore()

	scanner := bufio.NewScanner(stdin)
	for {
		fmt.Fprint(stdout, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(stdout)
			return scanner.Err()
		}

		prompt := strings.TrimSpace(scanner.Text())
		switch prompt {
		case "":
			continue
		case "/exit", "/quit":
			return nil
		case "/reset":
			if err := store.Delete(sessionID); err != nil {
				return err
			}
			continue
		}

		res, err := session.Send(ctx, a, store, sessionID, prompt)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, res.Text)
	}
}

// ValidateCmd validates a configuration file.
type ValidateCmd struct {
	Config string `arg:"" name:"config" help:"Configuration file path." placeholder:"PATH"`
}

func (c *ValidateCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s: valid (agent %q, model %s, %d tools)\n", c.Config, cfg.Name, cfg.Model, len(cfg.Tools))
	return nil
}

// ModelsCmd lists the registered model providers and builtin tools.
type ModelsCmd struct{}

func (c *ModelsCmd) Run() error {
	fmt.Fprintln(stdout, "Providers:")
	for _, p := range model.DefaultRegistry.Providers() {
		fmt.Fprintf(stdout, "  %s\n", p)
	}
	fmt.Fprintln(stdout, "Builtin tools:")
	for _, name := range builtin.Names() {
		fmt.Fprintf(stdout, "  %s\n", name)
	}
	return nil
}
