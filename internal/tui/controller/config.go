package controller

import (
	"errors"
	"strconv"

	"kuctl/internal/store"
	"kuctl/internal/tui/model"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func fetchConfig(m *model.Model) tea.Cmd {
	m.Seq.Config++
	m.Pending++
	return model.FetchConfigCmd(m.API, m.RequestTimeout, m.Seq.Config, m.Panels.Ref())
}

func handleConfigFetched(m *model.Model, msg model.ConfigFetchedMsg) tea.Cmd {
	if msg.Seq != m.Seq.Config {
		LogDebug(m, controllerSubsystem, "Dropping stale config fetch %d (latest %d)", msg.Seq, m.Seq.Config)
		return nil
	}
	if msg.Err != nil {
		return reportFailure(m, "Loading configuration", msg.Err)
	}

	if !m.Panels.IsCurrent(msg.Origin) {
		// The agent moved the UI on while the document was in flight.
		switch m.Panels.Current() {
		case model.PanelConfig, model.PanelConnEditor:
			LogDebug(m, controllerSubsystem, "Keeping edited configuration, dropping fetch %d", msg.Seq)
		default:
			m.Store.Load(msg.Doc)
			m.Form.Populate(m.Store.Form())
			LogInfo(controllerSubsystem, "Configuration loaded behind %s panel", m.Panels.Current())
		}
		return nil
	}

	m.Store.Load(msg.Doc)
	m.Form.Populate(m.Store.Form())
	switchPanel(m, model.PanelConfig)
	LogInfo(controllerSubsystem, "Configuration loaded (%d saved connections)", m.Store.Connections().Len()-1)
	return nil
}

func submitConfig(m *model.Model) tea.Cmd {
	doc := m.Store.Commit(m.Form.Values())
	m.Form.JPEGQuality.SetValue(strconv.Itoa(doc.Opts.Thumbnail.JPEGQuality))
	m.Pending++
	return model.SubmitConfigCmd(m.API, m.RequestTimeout, m.Panels.Ref(), doc)
}

func handleConfigSubmitted(m *model.Model, msg model.ConfigSubmittedMsg) tea.Cmd {
	if msg.Err != nil {
		return reportFailure(m, "Saving configuration", msg.Err)
	}
	m.DisconnectVisible = true
	LogInfo(controllerSubsystem, "Configuration saved")
	if !m.Panels.IsCurrent(msg.Origin) {
		LogDebug(m, controllerSubsystem, "Config panel already left, not hiding %s", m.Panels.Current())
		return nil
	}
	hideAll(m)
	return m.SetStatusMessage("Configuration saved", model.StatusBarSuccess, m.StatusTimeout)
}

func handleConfigKey(m *model.Model, msg tea.KeyMsg) tea.Cmd {
	form := &m.Form
	conns := m.Store.Connections()

	switch {
	case key.Matches(msg, m.Keys.Submit):
		return submitConfig(m)
	case key.Matches(msg, m.Keys.NewConnection):
		cmd := m.Editor.Reset()
		switchPanel(m, model.PanelConnEditor)
		return cmd
	case key.Matches(msg, m.Keys.DeleteConn):
		if !conns.CanDelete() {
			return nil
		}
		conns.Delete()
		LogInfo(controllerSubsystem, "Connection removed, %d left", conns.Len()-1)
		return nil
	case key.Matches(msg, m.Keys.Exit):
		m.Pending++
		return model.ExitCmd(m.API, m.RequestTimeout, m.Panels.Ref())
	case key.Matches(msg, m.Keys.Tab), key.Matches(msg, m.Keys.Down):
		form.FocusNext()
		return nil
	case key.Matches(msg, m.Keys.ShiftTab), key.Matches(msg, m.Keys.Up):
		form.FocusPrev()
		return nil
	case key.Matches(msg, m.Keys.Toggle) && !form.OnTextField():
		form.Toggle()
		return nil
	case key.Matches(msg, m.Keys.Left), key.Matches(msg, m.Keys.Right):
		delta := 1
		if key.Matches(msg, m.Keys.Left) {
			delta = -1
		}
		if form.Focus == model.FieldConnection {
			conns.Move(delta)
			return nil
		}
		if form.Cycle(delta) {
			return nil
		}
	}

	if form.OnTextField() {
		return form.UpdateText(msg)
	}
	return nil
}

func handleEditorKey(m *model.Model, msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.Keys.Esc):
		switchPanel(m, model.PanelConfig)
		return nil
	case key.Matches(msg, m.Keys.Tab), key.Matches(msg, m.Keys.Down):
		return m.Editor.FocusNext()
	case key.Matches(msg, m.Keys.ShiftTab), key.Matches(msg, m.Keys.Up):
		return m.Editor.FocusPrev()
	case key.Matches(msg, m.Keys.Enter), key.Matches(msg, m.Keys.Submit):
		return addConnection(m)
	}
	return m.Editor.Update(msg)
}

// addConnection appends the editor's connection to the list. Nothing is
// persisted until the config is submitted.
func addConnection(m *model.Model) tea.Cmd {
	e := &m.Editor
	conn, err := m.Store.Connections().Add(e.Name.Value(), e.Host.Value(), e.Port.Value())
	if err != nil {
		var verr *store.ValidationError
		if errors.As(err, &verr) {
			e.Err = verr.Error()
			return nil
		}
		e.Err = err.Error()
		return nil
	}

	e.Err = ""
	switchPanel(m, model.PanelConfig)
	m.Form.FocusField(model.FieldConnection)
	LogInfo(controllerSubsystem, "Connection %s added", conn)
	return m.SetStatusMessage("Connection added, ctrl+s to save", model.StatusBarInfo, m.StatusTimeout)
}
