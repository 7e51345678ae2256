package controller

import (
	"context"
	"errors"

	"kuctl/internal/config"
	"kuctl/internal/push"
	"kuctl/internal/transport"
	"kuctl/internal/tui/design"
	"kuctl/internal/tui/model"
	"kuctl/pkg/logging"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const pushBuffer = 16

// ProgramOptions is everything the connect command hands to the TUI.
type ProgramOptions struct {
	Settings   config.KuctlConfig
	Client     *transport.Client
	Debug      bool
	NoPush     bool
	LogChannel <-chan logging.LogEntry
}

// NewProgram wires the session once: it starts the push listener, which
// lives until ctx is cancelled, and builds the program around a fresh model.
func NewProgram(ctx context.Context, opts ProgramOptions) (*tea.Program, error) {
	if opts.Client == nil {
		return nil, errors.New("no agent client")
	}

	var pushCh chan push.Event
	if !opts.NoPush {
		pushCh = make(chan push.Event, pushBuffer)
		listener := push.NewListener(opts.Client.PushURL(),
			push.WithHTTPClient(transport.NewHTTPClient(0)),
			push.WithReconnectInterval(opts.Settings.Push.ReconnectInterval),
			push.WithDedupeWindow(opts.Settings.Push.DedupeWindow),
		)
		go func() {
			defer close(pushCh)
			if err := listener.Run(ctx, pushCh); err != nil && !errors.Is(err, context.Canceled) {
				LogError(push.Subsystem, err, "Push listener stopped")
			}
		}()
	}

	// Background detection queries the terminal, which bubbletea owns once
	// the program runs.
	design.Initialize(lipgloss.HasDarkBackground())

	m := model.InitializeModel(model.TUIConfig{
		DebugMode:   opts.Debug,
		AgentURL:    opts.Settings.Agent.URL,
		API:         opts.Client,
		Settings:    opts.Settings,
		LogChannel:  opts.LogChannel,
		PushChannel: pushCh,
	})

	return tea.NewProgram(NewAppModel(m), tea.WithAltScreen(), tea.WithContext(ctx)), nil
}
