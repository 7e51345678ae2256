package components

import (
	"strings"

	"kuctl/internal/tui/design"
	"kuctl/internal/tui/utils"
)

// PanelType defines the visual style of a panel
type PanelType int

const (
	PanelTypeDefault PanelType = iota
	PanelTypeFinished
)

// Panel is the framed box around the single visible panel.
type Panel struct {
	Title  string
	Lines  []string
	Footer string
	Width  int
	Type   PanelType
}

// NewPanel creates a panel of the default width.
func NewPanel(title string) *Panel {
	return &Panel{
		Title: title,
		Width: design.PanelWidth,
	}
}

// WithLines appends body lines.
func (p *Panel) WithLines(lines ...string) *Panel {
	p.Lines = append(p.Lines, lines...)
	return p
}

// WithFooter sets the hint line under the body.
func (p *Panel) WithFooter(footer string) *Panel {
	p.Footer = footer
	return p
}

// WithWidth narrows the panel to fit the terminal. Widths below the frame
// size are ignored.
func (p *Panel) WithWidth(width int) *Panel {
	if width > 0 && width < p.Width {
		p.Width = width
	}
	return p
}

// WithType sets the panel type for styling
func (p *Panel) WithType(panelType PanelType) *Panel {
	p.Type = panelType
	return p
}

// Render returns the styled panel
func (p *Panel) Render() string {
	style := design.PanelStyle
	if p.Type == PanelTypeFinished {
		style = design.FinishedPanelStyle
	}
	// lipgloss widths include padding but not the border.
	style = style.Width(max(p.Width-style.GetHorizontalBorderSize(), 1))
	inner := max(p.Width-style.GetHorizontalFrameSize(), 1)

	var b strings.Builder
	if p.Title != "" {
		b.WriteString(design.TitleStyle.Render(utils.TruncateString(p.Title, inner)))
		b.WriteString("\n")
	}
	// Long body lines are wrapped by the style width.
	for _, line := range p.Lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if p.Footer != "" {
		b.WriteString("\n")
		b.WriteString(design.DimStyle.Render(utils.TruncateString(p.Footer, inner)))
	}
	return style.Render(strings.TrimRight(b.String(), "\n"))
}
