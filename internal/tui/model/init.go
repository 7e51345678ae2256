package model

import (
	"kuctl/internal/config"
	"kuctl/internal/store"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// InitializeModel builds the model for one session against one agent.
// Nothing is visible until the first config fetch succeeds.
func InitializeModel(cfg TUIConfig) *Model {
	settings := cfg.Settings

	password := textinput.New()
	password.Placeholder = "library password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 256
	password.Width = 30

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	policy := settings.UI.FailurePolicy
	if policy == "" {
		policy = config.FailurePolicySilent
	}
	statusTimeout := settings.UI.StatusTimeout
	if statusTimeout <= 0 {
		statusTimeout = config.DefaultStatusTimeout
	}

	return &Model{
		CurrentAppMode: ModeMain,
		DebugMode:      cfg.DebugMode,
		AgentURL:       cfg.AgentURL,
		API:            cfg.API,
		Store:          store.New(),
		Policy:         policy,
		RequestTimeout: settings.Agent.RequestTimeout,
		StatusTimeout:  statusTimeout,
		Form:           NewConfigForm(),
		Editor:         NewConnEditor(),
		Progress:       progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		PasswordInput:  password,
		LogViewport:    viewport.New(0, 0),
		Spinner:        s,
		Keys:           DefaultKeyMap(),
		Help:           help.New(),
		LogChannel:     cfg.LogChannel,
		PushChannel:    cfg.PushChannel,
	}
}

// Init starts the spinner and the channel readers and issues the first
// config fetch.
func (m *Model) Init() tea.Cmd {
	m.Seq.Config++
	m.Pending++
	return tea.Batch(
		m.Spinner.Tick,
		FetchConfigCmd(m.API, m.RequestTimeout, m.Seq.Config, m.Panels.Ref()),
		ListenForLogEntriesCmd(m.LogChannel),
		ListenForPushCmd(m.PushChannel),
	)
}
