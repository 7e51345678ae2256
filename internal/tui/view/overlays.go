package view

import (
	"strings"

	"kuctl/internal/tui/design"
	"kuctl/internal/tui/model"

	"github.com/charmbracelet/lipgloss"
)

func renderHelpOverlay(m *model.Model, height int) string {
	title := design.LogPanelTitleStyle.Render("Keyboard shortcuts")
	content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.Help.FullHelpView(m.Keys.FullHelp()),
		"", design.DimStyle.Render("esc close"))
	return lipgloss.Place(m.Width, height, lipgloss.Center, lipgloss.Center,
		design.OverlayStyle.Render(content))
}

func renderLogOverlay(m *model.Model, height int) string {
	title := design.LogPanelTitleStyle.Render("Activity log  (↑/↓ scroll • c copy • esc close)")
	content := lipgloss.JoinVertical(lipgloss.Left, title, m.LogViewport.View())
	overlay := design.OverlayStyle.
		Width(max(m.Width-design.OverlayStyle.GetHorizontalBorderSize(), 0)).
		MaxHeight(height).
		Render(content)
	return lipgloss.Place(m.Width, height, lipgloss.Left, lipgloss.Top, overlay)
}

// PrepareLogContent colors each activity log line by its level marker.
// maxWidth is unused for now: lines are not cut, the viewport handles
// overflow.
func PrepareLogContent(lines []string, maxWidth int) string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = styleLogLine(l)
	}
	return strings.Join(out, "\n")
}

func styleLogLine(l string) string {
	switch {
	case strings.Contains(l, "[ERROR]"):
		return design.LogErrorStyle.Render(l)
	case strings.Contains(l, "[WARN]"):
		return design.LogWarnStyle.Render(l)
	case strings.Contains(l, "[DEBUG]"):
		return design.LogDebugStyle.Render(l)
	default:
		return design.LogInfoStyle.Render(l)
	}
}
