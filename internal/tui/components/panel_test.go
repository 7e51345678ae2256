package components

import (
	"strings"
	"testing"

	"kuctl/internal/tui/design"
	"kuctl/internal/tui/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestPanel_Render(t *testing.T) {
	tests := []struct {
		name  string
		panel *Panel
		want  []string
	}{
		{
			name:  "title and lines",
			panel: NewPanel("Library login").WithLines("Library: Books", "Password: ****"),
			want:  []string{"Library login", "Library: Books", "Password: ****"},
		},
		{
			name:  "footer",
			panel: NewPanel("Message").WithLines("Syncing").WithFooter("d disconnect"),
			want:  []string{"Syncing", "d disconnect"},
		},
		{
			name:  "finished",
			panel: NewPanel("").WithLines("Goodbye").WithType(PanelTypeFinished),
			want:  []string{"Goodbye"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.panel.Render()
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestPanel_RenderRespectsWidth(t *testing.T) {
	p := NewPanel("Instances").
		WithLines(strings.Repeat("very long library description ", 10)).
		WithWidth(30)

	for _, line := range strings.Split(p.Render(), "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 30)
	}
}

func TestPanel_WithWidthIgnoresNonPositive(t *testing.T) {
	p := NewPanel("x").WithWidth(0)
	assert.Equal(t, design.PanelWidth, p.Width)

	p = NewPanel("x").WithWidth(-5)
	assert.Equal(t, design.PanelWidth, p.Width)
}

func TestStatusBar_Render(t *testing.T) {
	tests := []struct {
		name    string
		bar     *StatusBar
		want    string
		notWant string
	}{
		{
			name: "left and right",
			bar:  NewStatusBar(60).WithLeftText("http://kobo:8181").WithRightText("? help"),
			want: "http://kobo:8181",
		},
		{
			name:    "message replaces text",
			bar:     NewStatusBar(60).WithLeftText("http://kobo:8181").WithMessage("Saving configuration failed", model.StatusBarError),
			want:    "Saving configuration failed",
			notWant: "kobo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.bar.Render()
			assert.Contains(t, out, tt.want)
			if tt.notWant != "" {
				assert.NotContains(t, out, tt.notWant)
			}
			assert.LessOrEqual(t, lipgloss.Width(out), 60)
		})
	}
}
