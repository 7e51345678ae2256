package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"kuctl/internal/config"
	"kuctl/internal/transport"
	"kuctl/internal/tui/controller"
	"kuctl/pkg/logging"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// connectOptions holds the flags shared by commands that talk to an agent.
type connectOptions struct {
	configPath    string
	failurePolicy string
	logLevel      string
	debug         bool
	noPush        bool
}

func newConnectCmd() *cobra.Command {
	opts := &connectOptions{}

	cmd := &cobra.Command{
		Use:   "connect [agent-url]",
		Short: "Open the interactive session with a Kobo-UNCaGED agent",
		Long: `Connects to a running Kobo-UNCaGED agent and shows its panels in a terminal UI.

The session starts by loading the agent configuration. From then on the agent
drives the UI over its push channel: progress messages, the calibre library
password prompt, the list of discovered calibre instances and the subtitle
column selector. Closing the configuration panel with ctrl+x tells the agent
to exit.

Arguments:
  [agent-url]: (Optional) Base URL of the agent, e.g. "http://192.168.1.7:8181".
               Defaults to agent.url from the kuctl config.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConnect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "Read settings from this file instead of the user and project config")
	cmd.Flags().StringVar(&opts.failurePolicy, "failure-policy", "", "What to show when an agent call fails: silent or notify")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Minimum level kept in the activity log (debug, info, warn, error)")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging in the activity log")
	cmd.Flags().BoolVar(&opts.noPush, "no-push", false, "Do not subscribe to the agent push channel")
	return cmd
}

// resolveSettings layers flags and the optional URL argument over the
// loaded configuration and validates the result.
func resolveSettings(opts *connectOptions, args []string) (config.KuctlConfig, error) {
	var (
		cfg config.KuctlConfig
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadConfigFile(opts.configPath)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return config.KuctlConfig{}, err
	}

	if len(args) > 0 {
		cfg.Agent.URL = args[0]
	}
	if opts.failurePolicy != "" {
		cfg.UI.FailurePolicy = config.FailurePolicy(opts.failurePolicy)
	}
	if opts.logLevel != "" {
		cfg.UI.LogLevel = opts.logLevel
	}
	if opts.debug {
		cfg.UI.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return config.KuctlConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := logging.ParseLevel(cfg.UI.LogLevel); err != nil {
		return config.KuctlConfig{}, fmt.Errorf("invalid configuration: ui.logLevel: %w", err)
	}
	return cfg, nil
}

func runConnect(cmd *cobra.Command, args []string, opts *connectOptions) error {
	cfg, err := resolveSettings(opts, args)
	if err != nil {
		return err
	}

	client, err := transport.NewClient(cfg.Agent)
	if err != nil {
		return err
	}

	level, _ := logging.ParseLevel(cfg.UI.LogLevel)
	logChan := logging.InitForTUI(level)
	defer logging.CloseTUIChannel()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info("CLI", "Connecting to agent at %s", cfg.Agent.URL)

	p, err := controller.NewProgram(ctx, controller.ProgramOptions{
		Settings:   cfg,
		Client:     client,
		Debug:      opts.debug,
		NoPush:     opts.noPush,
		LogChannel: logChan,
	})
	if err != nil {
		return fmt.Errorf("failed to start the TUI: %w", err)
	}

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
