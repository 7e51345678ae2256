package controller

import (
	"kuctl/internal/tui/design"
	"kuctl/internal/tui/model"

	tea "github.com/charmbracelet/bubbletea"
)

// handleWindowSizeMsg records the terminal dimensions and resizes the
// widgets whose width depends on them.
func handleWindowSizeMsg(m *model.Model, msg tea.WindowSizeMsg) *model.Model {
	m.Width = msg.Width
	m.Height = msg.Height

	// The log overlay keeps a border, padding and a title row.
	m.LogViewport.Width = max(msg.Width-6, 0)
	m.LogViewport.Height = max(msg.Height-6, 0)

	m.Progress.Width = min(max(msg.Width-8, 10), design.MaxProgressWidth)
	m.Help.Width = msg.Width
	return m
}
