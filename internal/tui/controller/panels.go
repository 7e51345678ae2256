package controller

import (
	"kuctl/internal/protocol"
	"kuctl/internal/push"
	"kuctl/internal/tui/model"

	tea "github.com/charmbracelet/bubbletea"
)

// switchPanel shows p. Leaving the auth panel discards the auth session.
func switchPanel(m *model.Model, p model.Panel) {
	prev := m.Panels.Current()
	if !m.Panels.Show(p) {
		return
	}
	if prev == model.PanelAuth {
		m.Auth = protocol.AuthDocument{}
		m.PasswordInput.Reset()
		m.PasswordInput.Blur()
	}
	LogDebug(m, controllerSubsystem, "Panel %s -> %s", prev, p)
}

// showFetched shows p filled with fetched content. When p is already
// visible the showing is renewed, so submits against the old content can
// no longer dismiss it.
func showFetched(m *model.Model, p model.Panel) {
	if m.Panels.Current() == p {
		m.Panels.Rerender()
		LogDebug(m, controllerSubsystem, "Panel %s refreshed", p)
		return
	}
	switchPanel(m, p)
}

func hideAll(m *model.Model) {
	switchPanel(m, model.PanelNone)
}

// handlePushEvent performs exactly one action per event: a direct render from
// the payload, or a fetch whose completion renders.
func handlePushEvent(m *model.Model, ev push.Event) tea.Cmd {
	LogDebug(m, controllerSubsystem, "Push event %s (id %q)", ev.Kind, ev.ID)

	switch ev.Kind {
	case push.KindMessage:
		m.MessageText = ev.Data
		switchPanel(m, model.PanelMessage)
		return nil

	case push.KindProgress:
		if percent, ok := ev.Progress(); ok {
			m.ProgressPercent = percent
			m.ProgressVisible = true
		} else {
			m.ProgressVisible = false
		}
		return nil

	case push.KindAuthChallenge:
		m.Seq.Auth++
		m.Pending++
		return model.FetchAuthCmd(m.API, m.RequestTimeout, m.Seq.Auth)

	case push.KindInstancesAvailable:
		m.Seq.Instances++
		m.Pending++
		return model.FetchInstancesCmd(m.API, m.RequestTimeout, m.Seq.Instances)

	case push.KindLibraryInfoAvailable:
		m.Seq.LibraryInfo++
		m.Pending++
		return model.FetchLibraryInfoCmd(m.API, m.RequestTimeout, m.Seq.LibraryInfo)

	case push.KindFinished:
		m.FinishedText = ev.Data
		finish(m)
		return nil
	}
	return nil
}

// finish enters the terminal panel and clears everything transient.
func finish(m *model.Model) {
	switchPanel(m, model.PanelFinished)
	m.ProgressVisible = false
	m.DisconnectVisible = false
	LogInfo(controllerSubsystem, "Session finished: %s", m.FinishedText)
}
