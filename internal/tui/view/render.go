package view

import (
	"fmt"

	"kuctl/internal/tui/components"
	"kuctl/internal/tui/design"
	"kuctl/internal/tui/model"

	"github.com/charmbracelet/lipgloss"
)

// Render renders the UI according to the current model state.
func Render(m *model.Model) string {
	if m.CurrentAppMode == model.ModeQuitting {
		return design.TextSecondaryStyle.Render("Closing kuctl...") + "\n"
	}
	if m.Width == 0 || m.Height == 0 {
		return design.TextSecondaryStyle.Render("Initializing... (waiting for window size)")
	}

	statusBar := renderStatusBar(m)
	bodyHeight := max(m.Height-lipgloss.Height(statusBar), 0)

	var body string
	switch m.CurrentAppMode {
	case model.ModeHelpOverlay:
		body = renderHelpOverlay(m, bodyHeight)
	case model.ModeLogOverlay:
		body = renderLogOverlay(m, bodyHeight)
	default:
		body = lipgloss.Place(m.Width, bodyHeight, lipgloss.Center, lipgloss.Center,
			renderPanel(m, m.Width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, statusBar)
}

// renderPanel renders whichever panel is visible. There is never more than
// one.
func renderPanel(m *model.Model, width int) string {
	var p *components.Panel
	switch m.Panels.Current() {
	case model.PanelConfig:
		p = configPanel(m)
	case model.PanelConnEditor:
		p = editorPanel(m)
	case model.PanelMessage:
		p = messagePanel(m)
	case model.PanelAuth:
		p = authPanel(m)
	case model.PanelInstances:
		p = instancesPanel(m)
	case model.PanelLibraryInfo:
		p = libraryPanel(m)
	case model.PanelFinished:
		p = components.NewPanel("").
			WithLines(m.FinishedText).
			WithFooter("q quit").
			WithType(components.PanelTypeFinished)
	default:
		return idleView(m)
	}
	return p.WithWidth(width).Render()
}

// idleView is shown while no panel is visible.
func idleView(m *model.Model) string {
	if m.Pending > 0 {
		return fmt.Sprintf("%s %s", m.Spinner.View(), design.TextSecondaryStyle.Render("Waiting for the agent..."))
	}
	if !m.Store.Loaded() {
		return design.TextSecondaryStyle.Render("No configuration loaded. Press r to retry.")
	}
	return design.DimStyle.Render("Waiting for the agent. Press r to open the configuration.")
}

func renderStatusBar(m *model.Model) string {
	left := m.AgentURL
	if m.Pending > 0 {
		left = m.Spinner.View() + " " + left
	}
	bar := components.NewStatusBar(m.Width).
		WithLeftText(left).
		WithRightText(m.Help.ShortHelpView(m.Keys.ShortHelp()))
	if m.StatusBarMessage != "" {
		bar.WithMessage(m.StatusBarMessage, m.StatusBarMessageType)
	}
	return bar.Render()
}
