package model

import (
	"context"
	"time"

	"kuctl/internal/config"
	"kuctl/internal/protocol"
	"kuctl/internal/push"
	"kuctl/internal/store"
	"kuctl/pkg/logging"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// AppMode is what occupies the screen: the panel area or an overlay.
type AppMode int

const (
	ModeMain AppMode = iota
	ModeHelpOverlay
	ModeLogOverlay
	ModeQuitting
)

func (m AppMode) String() string {
	switch m {
	case ModeMain:
		return "Main"
	case ModeHelpOverlay:
		return "HelpOverlay"
	case ModeLogOverlay:
		return "LogOverlay"
	case ModeQuitting:
		return "Quitting"
	default:
		return "Unknown"
	}
}

// MessageType represents the type of status bar message
type MessageType int

const (
	StatusBarInfo MessageType = iota
	StatusBarSuccess
	StatusBarError
	StatusBarWarning
)

const (
	MaxActivityLogLines = 1000
)

// AgentAPI is the agent as the TUI sees it. transport.Client implements it.
type AgentAPI interface {
	FetchConfig(ctx context.Context) (protocol.ConfigDocument, error)
	SubmitConfig(ctx context.Context, doc protocol.ConfigDocument) error
	FetchAuth(ctx context.Context) (protocol.AuthDocument, error)
	SubmitAuth(ctx context.Context, doc protocol.AuthDocument) error
	FetchInstances(ctx context.Context) ([]protocol.Instance, error)
	SelectInstance(ctx context.Context, inst protocol.Instance) error
	FetchLibraryInfo(ctx context.Context) (protocol.LibraryInfo, error)
	SubmitLibraryInfo(ctx context.Context, info protocol.LibraryInfo) error
	Exit(ctx context.Context) error
	Disconnect(ctx context.Context) error
}

// TUIConfig carries what the TUI needs from the command line and config.
type TUIConfig struct {
	DebugMode   bool
	AgentURL    string
	API         AgentAPI
	Settings    config.KuctlConfig
	LogChannel  <-chan logging.LogEntry
	PushChannel <-chan push.Event
}

// KeyMap defines all the key bindings for the application
type KeyMap struct {
	Up            key.Binding
	Down          key.Binding
	Left          key.Binding
	Right         key.Binding
	Tab           key.Binding
	ShiftTab      key.Binding
	Enter         key.Binding
	Esc           key.Binding
	Toggle        key.Binding
	Submit        key.Binding
	NewConnection key.Binding
	DeleteConn    key.Binding
	Exit          key.Binding
	Disconnect    key.Binding
	CopyAddress   key.Binding
	Refresh       key.Binding
	Quit          key.Binding
	Help          key.Binding
	ToggleLog     key.Binding
	CopyLogs      key.Binding
}

// Sequences numbers the fetches issued per resource. Only the completion of
// the latest fetch of a resource is applied.
type Sequences struct {
	Config      int
	Auth        int
	Instances   int
	LibraryInfo int
}

// Model is the whole TUI state. Only the controller mutates it.
type Model struct {
	// Terminal dimensions
	Width  int
	Height int

	CurrentAppMode AppMode
	DebugMode      bool
	AgentURL       string

	Panels         PanelController
	API            AgentAPI
	Store          *store.Store
	Policy         config.FailurePolicy
	RequestTimeout time.Duration
	StatusTimeout  time.Duration
	Seq            Sequences
	Pending        int

	// Config panel and connection editor
	Form   ConfigForm
	Editor ConnEditor

	// Message panel
	MessageText       string
	Progress          progress.Model
	ProgressPercent   int
	ProgressVisible   bool
	DisconnectVisible bool

	// Auth panel
	Auth          protocol.AuthDocument
	PasswordInput textinput.Model

	// Instance list
	Instances      []protocol.Instance
	InstanceCursor int

	// Library-info selector
	LibraryInfo   protocol.LibraryInfo
	LibraryCursor int

	FinishedText string

	// UI State & Output
	ActivityLog          []string
	ActivityLogDirty     bool
	LogViewport          viewport.Model
	LogViewportLastWidth int
	Spinner              spinner.Model
	Keys                 KeyMap
	Help                 help.Model
	StatusBarMessage     string
	StatusBarMessageType MessageType
	StatusBarClearCancel chan struct{}

	LogChannel  <-chan logging.LogEntry
	PushChannel <-chan push.Event
}

// SetStatusMessage updates the status bar message
func (m *Model) SetStatusMessage(message string, msgType MessageType, clearAfter time.Duration) tea.Cmd {
	m.StatusBarMessage = message
	m.StatusBarMessageType = msgType

	if m.StatusBarClearCancel != nil {
		close(m.StatusBarClearCancel)
	}

	m.StatusBarClearCancel = make(chan struct{})
	captured := m.StatusBarClearCancel

	return tea.Tick(clearAfter, func(t time.Time) tea.Msg {
		select {
		case <-captured:
			return nil
		default:
			return ClearStatusBarMsg{}
		}
	})
}
