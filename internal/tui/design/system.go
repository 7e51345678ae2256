// Package design holds the colors and styles shared by the kuctl views.
package design

import (
	"github.com/charmbracelet/lipgloss"
)

// Spacing is counted in terminal cells.
const (
	SpaceNone = 0
	SpaceXS   = 1
	SpaceSM   = 2
	SpaceMD   = 3

	// PanelWidth is the width of the central panel box.
	PanelWidth = 64
	// MaxProgressWidth caps the sync progress bar.
	MaxProgressWidth = 56
)

// Palette. Every color adapts to light and dark terminals.
var (
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}

	ColorSuccess = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#10B981"}
	ColorError   = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#EF4444"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#F59E0B"}
	ColorInfo    = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#3B82F6"}

	ColorBackground = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#0F0F0F"}
	ColorSurfaceAlt = lipgloss.AdaptiveColor{Light: "#F3F4F6", Dark: "#262626"}
	ColorBorder     = lipgloss.AdaptiveColor{Light: "#E5E7EB", Dark: "#404040"}

	ColorText          = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#F9FAFB"}
	ColorTextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	ColorTextMuted     = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6B7280"}

	ColorBackgroundOverlay = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E1E"}
)

var (
	TextStyle          = lipgloss.NewStyle().Foreground(ColorText)
	TextSecondaryStyle = lipgloss.NewStyle().Foreground(ColorTextSecondary)
	TextErrorStyle     = lipgloss.NewStyle().Foreground(ColorError)
	TextSuccessStyle   = lipgloss.NewStyle().Foreground(ColorSuccess)
	DimStyle           = lipgloss.NewStyle().Foreground(ColorTextMuted)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(SpaceXS)

	// PanelStyle frames the single visible panel.
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(SpaceXS, SpaceSM).
			Width(PanelWidth)

	// FinishedPanelStyle frames the terminal panel.
	FinishedPanelStyle = PanelStyle.
				BorderForeground(ColorSuccess)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary).
			Width(22)

	FocusedLabelStyle = LabelStyle.
				Foreground(ColorPrimary).
				Bold(true)

	ListItemStyle = lipgloss.NewStyle().
			PaddingLeft(SpaceSM)

	ListItemSelectedStyle = ListItemStyle.
				Foreground(ColorPrimary).
				Bold(true)

	ButtonStyle = lipgloss.NewStyle().
			Padding(0, SpaceXS).
			Background(ColorPrimary).
			Foreground(ColorBackground).
			Bold(true)

	ButtonDisabledStyle = ButtonStyle.
				Background(ColorTextMuted).
				Foreground(ColorSurfaceAlt)
)

// Status bar styles, one per message type.
var (
	StatusBarStyle = lipgloss.NewStyle().
			Background(ColorSurfaceAlt).
			Foreground(ColorText).
			Padding(0, SpaceXS).
			Height(1)

	StatusBarSuccessStyle = StatusBarStyle.Background(ColorSuccess).Foreground(ColorBackground)
	StatusBarErrorStyle   = StatusBarStyle.Background(ColorError).Foreground(ColorBackground)
	StatusBarWarningStyle = StatusBarStyle.Background(ColorWarning).Foreground(ColorBackground)
	StatusBarInfoStyle    = StatusBarStyle.Background(ColorInfo).Foreground(ColorBackground)
)

// Overlay styles
var (
	OverlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Background(ColorBackgroundOverlay).
			Foreground(ColorText).
			Padding(SpaceXS, SpaceSM)

	LogPanelTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Padding(0, 1).
				Foreground(ColorText)
)

// Log level styles
var (
	LogInfoStyle  = lipgloss.NewStyle().Foreground(ColorText)
	LogWarnStyle  = lipgloss.NewStyle().Foreground(ColorWarning)
	LogErrorStyle = lipgloss.NewStyle().Foreground(ColorError)
	LogDebugStyle = lipgloss.NewStyle().Foreground(ColorTextMuted).Italic(true)
)

// Checkbox renders a boolean control.
func Checkbox(on bool) string {
	if on {
		return TextSuccessStyle.Render("[x]")
	}
	return DimStyle.Render("[ ]")
}

// Initialize sets up the design system
func Initialize(isDarkMode bool) {
	lipgloss.SetHasDarkBackground(isDarkMode)
}
