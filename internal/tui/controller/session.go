package controller

import (
	"kuctl/internal/tui/model"

	tea "github.com/charmbracelet/bubbletea"
)

// GoodbyeText is the terminal panel text after a confirmed exit.
const GoodbyeText = "Goodbye"

// handleExitResult ends the session on a confirmed exit. The exit is a
// session-wide action, so it does not matter which panel asked for it.
func handleExitResult(m *model.Model, msg model.ExitResultMsg) tea.Cmd {
	if msg.Err != nil {
		return reportFailure(m, "Exit", msg.Err)
	}
	m.FinishedText = GoodbyeText
	finish(m)
	return nil
}

func disconnect(m *model.Model) tea.Cmd {
	if !m.DisconnectVisible {
		return nil
	}
	m.Pending++
	return model.DisconnectCmd(m.API, m.RequestTimeout)
}

func handleDisconnectResult(m *model.Model, msg model.DisconnectResultMsg) tea.Cmd {
	if msg.Err != nil {
		return reportFailure(m, "Disconnect", msg.Err)
	}
	m.DisconnectVisible = false
	LogInfo(controllerSubsystem, "Library disconnected")
	return nil
}
