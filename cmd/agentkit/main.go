// Command agentkit builds an agent from flags or a YAML file and runs it on a
// prompt.
//
// Usage:
//
//	agentkit run --model openai/gpt-4o-mini --tools calculator "What is 6*7?"
//	agentkit run --config agent.yaml --trace --metrics-addr :9090 "Hello"
//	agentkit chat --config agent.yaml
//	agentkit validate agent.yaml
//	agentkit models
package main

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/alecthomas/kong"

	"github.com/hupe1980/agentkit/config"
)

// Command input and output.
var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
)

// CLI defines the command-line interface.
type CLI struct {
	Run      RunCmd      `cmd:"" help:"Run an agent on a prompt."`
	Chat     ChatCmd     `cmd:"" help:"Chat with an agent interactively."`
	Validate ValidateCmd `cmd:"" help:"Validate an agent configuration file."`
	Models   ModelsCmd   `cmd:"" help:"List model providers and builtin tools."`
	Version  VersionCmd  `cmd:"" help:"Show version information."`

	EnvFile   []string `name:"env-file" help:"Dotenv files to load (default: .env.local, .env)." type:"path"`
	LogLevel  string   `help:"Log level (debug, info, warn, error)." env:"AGENTKIT_LOG_LEVEL"`
	LogFormat string   `help:"Log format (text, json)." env:"AGENTKIT_LOG_FORMAT"`
}

// VersionCmd shows version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	version := "dev"
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "(devel)" && info.Main.Version != "" {
			version = info.Main.Version
		}
	}
	fmt.Fprintf(stdout, "agentkit version %s\n", version)
	return nil
}

func main() {
	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("agentkit"),
		kong.Description("Build and run tool-calling agents."),
		kong.UsageOnError(),
	)

	if err := config.LoadEnvFiles(cli.EnvFile...); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
