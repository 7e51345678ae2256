package controller

import (
	"kuctl/internal/tui/model"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func handleAuthFetched(m *model.Model, msg model.AuthFetchedMsg) tea.Cmd {
	if msg.Seq != m.Seq.Auth {
		LogDebug(m, controllerSubsystem, "Dropping stale auth fetch %d (latest %d)", msg.Seq, m.Seq.Auth)
		return nil
	}
	if msg.Err != nil {
		return reportFailure(m, "Loading library login", msg.Err)
	}

	// Show first: leaving an older auth panel would wipe the new document.
	showFetched(m, model.PanelAuth)
	m.Auth = msg.Doc
	m.Auth.Password = ""
	m.PasswordInput.Reset()
	return m.PasswordInput.Focus()
}

func handleAuthKey(m *model.Model, msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.Keys.Enter) || key.Matches(msg, m.Keys.Submit) {
		doc := m.Auth
		doc.Password = m.PasswordInput.Value()
		m.Pending++
		return model.SubmitAuthCmd(m.API, m.RequestTimeout, m.Panels.Ref(), doc)
	}
	var cmd tea.Cmd
	m.PasswordInput, cmd = m.PasswordInput.Update(msg)
	return cmd
}

func handleAuthSubmitted(m *model.Model, msg model.AuthSubmittedMsg) tea.Cmd {
	if msg.Err != nil {
		return reportFailure(m, "Library login", msg.Err)
	}
	if !m.Panels.IsCurrent(msg.Origin) {
		LogDebug(m, controllerSubsystem, "Auth panel already left")
		return nil
	}
	LogInfo(controllerSubsystem, "Logged in to %s", m.Auth.LibraryName)
	hideAll(m)
	return nil
}
