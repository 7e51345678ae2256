package controller

import (
	"strings"

	"kuctl/internal/tui/model"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// handleKeyMsg routes a key press: overlays first, then global shortcuts,
// then the visible panel.
func handleKeyMsg(m *model.Model, msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return quit(m)
	}

	switch m.CurrentAppMode {
	case model.ModeLogOverlay:
		return handleLogOverlayKey(m, msg)
	case model.ModeHelpOverlay:
		if key.Matches(msg, m.Keys.Esc) || key.Matches(msg, m.Keys.Help) {
			m.CurrentAppMode = model.ModeMain
		}
		return nil
	case model.ModeQuitting:
		return nil
	}

	// Letter shortcuts would swallow typed text.
	if !textInputFocused(m) {
		switch {
		case key.Matches(msg, m.Keys.Quit):
			return quit(m)
		case key.Matches(msg, m.Keys.Help):
			m.CurrentAppMode = model.ModeHelpOverlay
			return nil
		case key.Matches(msg, m.Keys.ToggleLog):
			m.CurrentAppMode = model.ModeLogOverlay
			m.LogViewport.GotoBottom()
			return nil
		}
	}

	switch m.Panels.Current() {
	case model.PanelConfig:
		return handleConfigKey(m, msg)
	case model.PanelConnEditor:
		return handleEditorKey(m, msg)
	case model.PanelAuth:
		return handleAuthKey(m, msg)
	case model.PanelInstances:
		return handleInstancesKey(m, msg)
	case model.PanelLibraryInfo:
		return handleLibraryKey(m, msg)
	case model.PanelMessage:
		if key.Matches(msg, m.Keys.Disconnect) {
			return disconnect(m)
		}
	case model.PanelNone:
		if key.Matches(msg, m.Keys.Refresh) {
			return fetchConfig(m)
		}
	}
	return nil
}

func handleLogOverlayKey(m *model.Model, msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.Keys.ToggleLog), key.Matches(msg, m.Keys.Esc):
		m.CurrentAppMode = model.ModeMain
		return nil
	case key.Matches(msg, m.Keys.CopyLogs):
		if err := clipboard.WriteAll(strings.Join(m.ActivityLog, "\n")); err != nil {
			LogError(controllerSubsystem, err, "Failed to copy logs")
			return m.SetStatusMessage("Copy logs failed", model.StatusBarError, m.StatusTimeout)
		}
		return m.SetStatusMessage("Logs copied to clipboard", model.StatusBarSuccess, m.StatusTimeout)
	}
	switch msg.String() {
	case "k", "up", "j", "down", "pgup", "pgdown", "home", "end":
		var cmd tea.Cmd
		m.LogViewport, cmd = m.LogViewport.Update(msg)
		return cmd
	}
	return nil
}

func textInputFocused(m *model.Model) bool {
	switch m.Panels.Current() {
	case model.PanelAuth, model.PanelConnEditor:
		return true
	case model.PanelConfig:
		return m.Form.OnTextField()
	}
	return false
}

func quit(m *model.Model) tea.Cmd {
	m.CurrentAppMode = model.ModeQuitting
	LogInfo(controllerSubsystem, "Quitting")
	return tea.Quit
}
