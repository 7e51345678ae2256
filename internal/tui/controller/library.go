package controller

import (
	"kuctl/internal/protocol"
	"kuctl/internal/tui/model"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func handleLibraryInfoFetched(m *model.Model, msg model.LibraryInfoFetchedMsg) tea.Cmd {
	if msg.Seq != m.Seq.LibraryInfo {
		LogDebug(m, controllerSubsystem, "Dropping stale library info %d (latest %d)", msg.Seq, m.Seq.LibraryInfo)
		return nil
	}
	if msg.Err != nil {
		return reportFailure(m, "Loading subtitle columns", msg.Err)
	}

	m.LibraryInfo = msg.Info
	m.LibraryCursor = msg.Info.Selection()
	showFetched(m, model.PanelLibraryInfo)
	return nil
}

func handleLibraryKey(m *model.Model, msg tea.KeyMsg) tea.Cmd {
	fields := m.LibraryInfo.SubtitleFields
	switch {
	case key.Matches(msg, m.Keys.Up):
		if m.LibraryCursor > 0 {
			m.LibraryCursor--
		}
	case key.Matches(msg, m.Keys.Down):
		if m.LibraryCursor < len(fields)-1 {
			m.LibraryCursor++
		}
	case key.Matches(msg, m.Keys.Enter):
		if len(fields) == 0 {
			return nil
		}
		m.LibraryInfo.CurrSel = m.LibraryCursor
		m.Pending++
		return model.SubmitLibraryInfoCmd(m.API, m.RequestTimeout, m.Panels.Ref(), m.LibraryInfo)
	}
	return nil
}

func handleLibraryInfoSubmitted(m *model.Model, msg model.LibraryInfoSubmittedMsg) tea.Cmd {
	if msg.Err != nil {
		return reportFailure(m, "Saving subtitle column", msg.Err)
	}
	if !m.Panels.IsCurrent(msg.Origin) {
		return nil
	}
	sel := m.LibraryInfo.Selection()
	if sel < len(m.LibraryInfo.SubtitleFields) {
		LogInfo(controllerSubsystem, "Subtitle column set to %s", protocol.FieldLabel(m.LibraryInfo.SubtitleFields[sel]))
	}
	hideAll(m)
	return nil
}
