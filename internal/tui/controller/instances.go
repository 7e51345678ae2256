package controller

import (
	"kuctl/internal/tui/model"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func handleInstancesFetched(m *model.Model, msg model.InstancesFetchedMsg) tea.Cmd {
	if msg.Seq != m.Seq.Instances {
		LogDebug(m, controllerSubsystem, "Dropping stale instance list %d (latest %d)", msg.Seq, m.Seq.Instances)
		return nil
	}
	if msg.Err != nil {
		return reportFailure(m, "Loading library instances", msg.Err)
	}

	m.Instances = msg.Instances
	m.InstanceCursor = 0
	showFetched(m, model.PanelInstances)
	LogInfo(controllerSubsystem, "%d library instances found", len(msg.Instances))
	return nil
}

func handleInstancesKey(m *model.Model, msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.Keys.Up):
		if m.InstanceCursor > 0 {
			m.InstanceCursor--
		}
	case key.Matches(msg, m.Keys.Down):
		if m.InstanceCursor < len(m.Instances)-1 {
			m.InstanceCursor++
		}
	case key.Matches(msg, m.Keys.Enter):
		if len(m.Instances) == 0 {
			return nil
		}
		m.Pending++
		return model.SelectInstanceCmd(m.API, m.RequestTimeout, m.Panels.Ref(), m.Instances[m.InstanceCursor])
	case key.Matches(msg, m.Keys.CopyAddress):
		if len(m.Instances) == 0 {
			return nil
		}
		addr := m.Instances[m.InstanceCursor].Address
		if err := clipboard.WriteAll(addr); err != nil {
			LogError(controllerSubsystem, err, "Failed to copy address")
			return m.SetStatusMessage("Copy address failed", model.StatusBarError, m.StatusTimeout)
		}
		return m.SetStatusMessage("Copied "+addr, model.StatusBarSuccess, m.StatusTimeout)
	}
	return nil
}

func handleInstanceSelected(m *model.Model, msg model.InstanceSelectedMsg) tea.Cmd {
	if msg.Err != nil {
		return reportFailure(m, "Selecting library instance", msg.Err)
	}
	LogInfo(controllerSubsystem, "Selected instance %s", msg.Instance.Address)
	if !m.Panels.IsCurrent(msg.Origin) {
		return nil
	}
	hideAll(m)
	return nil
}
