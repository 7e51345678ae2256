package controller

import (
	"fmt"

	"kuctl/internal/tui/model"
	"kuctl/internal/tui/view"
	"kuctl/pkg/logging"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

const controllerDispatchSubsystem = "ControllerDispatch"

// Dispatch is the single entry point for every message. Push events,
// request completions, keys and housekeeping messages all pass through it;
// nothing else mutates the model.
func Dispatch(m *model.Model, msg tea.Msg) (*model.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg.(type) {
	case spinner.TickMsg, model.NewLogEntryMsg:
	default:
		LogDebug(m, controllerDispatchSubsystem, "Received msg: %T", msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = handleWindowSizeMsg(m, msg)

	case model.NewLogEntryMsg:
		m = handleNewLogEntry(m, msg)
		cmds = append(cmds, model.ListenForLogEntriesCmd(m.LogChannel))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		cmds = append(cmds, cmd)

	case model.ClearStatusBarMsg:
		m.StatusBarMessage = ""
		if m.StatusBarClearCancel != nil {
			close(m.StatusBarClearCancel)
			m.StatusBarClearCancel = nil
		}

	case tea.KeyMsg:
		cmds = append(cmds, handleKeyMsg(m, msg))

	case model.PushClosedMsg:
		LogDebug(m, controllerSubsystem, "Push channel closed")

	default:
		cmds = append(cmds, dispatchAgentMsg(m, msg))
	}

	refreshLogViewport(m)
	return m, tea.Batch(cmds...)
}

// dispatchAgentMsg handles push events and request completions. Once the
// session is finished they are all dropped.
func dispatchAgentMsg(m *model.Model, msg tea.Msg) tea.Cmd {
	if isCompletion(msg) && m.Pending > 0 {
		m.Pending--
	}

	if m.Panels.Finished() {
		LogDebug(m, controllerDispatchSubsystem, "Session finished, dropping %T", msg)
		return nil
	}

	switch msg := msg.(type) {
	case model.PushEventMsg:
		return tea.Batch(handlePushEvent(m, msg.Event), model.ListenForPushCmd(m.PushChannel))

	case model.ConfigFetchedMsg:
		return handleConfigFetched(m, msg)
	case model.ConfigSubmittedMsg:
		return handleConfigSubmitted(m, msg)
	case model.AuthFetchedMsg:
		return handleAuthFetched(m, msg)
	case model.AuthSubmittedMsg:
		return handleAuthSubmitted(m, msg)
	case model.InstancesFetchedMsg:
		return handleInstancesFetched(m, msg)
	case model.InstanceSelectedMsg:
		return handleInstanceSelected(m, msg)
	case model.LibraryInfoFetchedMsg:
		return handleLibraryInfoFetched(m, msg)
	case model.LibraryInfoSubmittedMsg:
		return handleLibraryInfoSubmitted(m, msg)
	case model.ExitResultMsg:
		return handleExitResult(m, msg)
	case model.DisconnectResultMsg:
		return handleDisconnectResult(m, msg)
	}

	return forwardToFocusedInput(m, msg)
}

func isCompletion(msg tea.Msg) bool {
	switch msg.(type) {
	case model.ConfigFetchedMsg, model.ConfigSubmittedMsg,
		model.AuthFetchedMsg, model.AuthSubmittedMsg,
		model.InstancesFetchedMsg, model.InstanceSelectedMsg,
		model.LibraryInfoFetchedMsg, model.LibraryInfoSubmittedMsg,
		model.ExitResultMsg, model.DisconnectResultMsg:
		return true
	}
	return false
}

// forwardToFocusedInput hands unrecognised messages (cursor blink and the
// like) to whichever text input has focus.
func forwardToFocusedInput(m *model.Model, msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.Panels.Current() {
	case model.PanelConfig:
		if m.Form.OnTextField() {
			cmd = m.Form.UpdateText(msg)
		}
	case model.PanelConnEditor:
		cmd = m.Editor.Update(msg)
	case model.PanelAuth:
		m.PasswordInput, cmd = m.PasswordInput.Update(msg)
	}
	return cmd
}

func handleNewLogEntry(m *model.Model, msg model.NewLogEntryMsg) *model.Model {
	entry := msg.Entry

	if entry.Level >= logging.LevelInfo || m.DebugMode {
		logLine := fmt.Sprintf("%s [%s] [%s] %s",
			entry.Timestamp.Format("15:04:05.000"),
			entry.Level.String(),
			entry.Subsystem,
			entry.Message)

		if entry.Err != nil {
			logLine = fmt.Sprintf("%s -- Error: %v", logLine, entry.Err)
		}
		model.AddRawLineToActivityLog(m, logLine)
	}
	return m
}

// refreshLogViewport re-renders the log overlay content when new lines
// arrived or its width changed.
func refreshLogViewport(m *model.Model) {
	widthChanged := m.LogViewportLastWidth != m.LogViewport.Width
	if !m.ActivityLogDirty && !widthChanged {
		return
	}
	atBottom := m.LogViewport.AtBottom()
	m.LogViewport.SetContent(view.PrepareLogContent(m.ActivityLog, m.LogViewport.Width))
	if atBottom {
		m.LogViewport.GotoBottom()
	}
	m.LogViewportLastWidth = m.LogViewport.Width
	m.ActivityLogDirty = false
}
