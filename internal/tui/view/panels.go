package view

import (
	"fmt"
	"strings"

	"kuctl/internal/protocol"
	"kuctl/internal/tui/components"
	"kuctl/internal/tui/design"
	"kuctl/internal/tui/model"
)

var formLabels = map[model.FormField]string{
	model.FieldPreferSDCard:    "Prefer SD card",
	model.FieldPreferKepub:     "Prefer kepub",
	model.FieldEnableDebug:     "Debug logging",
	model.FieldExcludeFormats:  "Exclude formats",
	model.FieldGenerateLevel:   "Thumbnails",
	model.FieldResizeAlgorithm: "Resize algorithm",
	model.FieldJPEGQuality:     "JPEG quality",
	model.FieldConnection:      "Connection",
}

func label(f model.ConfigForm, field model.FormField) string {
	if f.Focus == field {
		return design.FocusedLabelStyle.Render("> " + formLabels[field])
	}
	return design.LabelStyle.Render("  " + formLabels[field])
}

func selector(value string, focused bool) string {
	if focused {
		return design.ListItemSelectedStyle.UnsetPaddingLeft().Render("< " + value + " >")
	}
	return value
}

func configPanel(m *model.Model) *components.Panel {
	f := m.Form
	conns := m.Store.Connections()

	lines := []string{
		label(f, model.FieldPreferSDCard) + design.Checkbox(f.PreferSDCard),
		label(f, model.FieldPreferKepub) + design.Checkbox(f.PreferKepub),
		label(f, model.FieldEnableDebug) + design.Checkbox(f.EnableDebug),
		label(f, model.FieldExcludeFormats) + f.ExcludeFormats.View(),
		label(f, model.FieldGenerateLevel) + selector(f.GenerateLevel, f.Focus == model.FieldGenerateLevel),
		label(f, model.FieldResizeAlgorithm) + selector(f.ResizeAlgorithm, f.Focus == model.FieldResizeAlgorithm),
		label(f, model.FieldJPEGQuality) + f.JPEGQuality.View(),
		label(f, model.FieldConnection) + selector(conns.Options()[conns.Selected()], f.Focus == model.FieldConnection),
	}

	del := design.ButtonDisabledStyle.Render("delete")
	if conns.CanDelete() {
		del = design.ButtonStyle.Render("delete")
	}
	lines = append(lines, "", fmt.Sprintf("%s  %d saved  %s",
		design.LabelStyle.Render(""), conns.Len()-1, del))

	return components.NewPanel("Kobo-UNCaGED configuration").
		WithLines(lines...).
		WithFooter("space toggle • ←/→ change • ctrl+n new • ctrl+d delete • ctrl+s save • ctrl+x exit")
}

func editorPanel(m *model.Model) *components.Panel {
	e := m.Editor
	row := func(field model.EditorField, name, view string) string {
		if e.Focus == field {
			return design.FocusedLabelStyle.Render("> "+name) + view
		}
		return design.LabelStyle.Render("  "+name) + view
	}

	lines := []string{
		row(model.EditorName, "Name", e.Name.View()),
		row(model.EditorHost, "Host", e.Host.View()),
		row(model.EditorPort, "Port", e.Port.View()),
	}
	if e.Err != "" {
		lines = append(lines, "", design.TextErrorStyle.Render(e.Err))
	}
	return components.NewPanel("New connection").
		WithLines(lines...).
		WithFooter("tab next field • enter add • esc cancel")
}

func messagePanel(m *model.Model) *components.Panel {
	p := components.NewPanel("Kobo-UNCaGED").WithLines(m.MessageText)
	if m.ProgressVisible {
		p.WithLines("", fmt.Sprintf("%s %3d%%", m.Progress.ViewAs(float64(m.ProgressPercent)/100), m.ProgressPercent))
	}
	if m.DisconnectVisible {
		p.WithLines("", design.ButtonStyle.Render("disconnect")).WithFooter("d disconnect library")
	}
	return p
}

func authPanel(m *model.Model) *components.Panel {
	name := m.Auth.LibraryName
	if name == "" {
		name = "the library"
	}
	return components.NewPanel("Library login").
		WithLines(
			design.TextSecondaryStyle.Render("Password for "+name),
			"",
			m.PasswordInput.View(),
		).
		WithFooter("enter log in")
}

func instancesPanel(m *model.Model) *components.Panel {
	p := components.NewPanel("Choose a calibre library")
	if len(m.Instances) == 0 {
		return p.WithLines(design.DimStyle.Render("No library instances found.")).WithFooter("waiting for the agent")
	}
	for i, inst := range m.Instances {
		p.WithLines(listRow(i == m.InstanceCursor, inst.Label(), inst.Address))
	}
	return p.WithFooter("↑/↓ select • enter connect • y copy address")
}

func libraryPanel(m *model.Model) *components.Panel {
	p := components.NewPanel("Subtitle column")
	info := m.LibraryInfo
	for i, field := range info.SubtitleFields {
		text := protocol.FieldLabel(field)
		if i == info.Selection() {
			text += design.DimStyle.Render(" (current)")
		}
		p.WithLines(listRow(i == m.LibraryCursor, text, ""))
	}
	return p.WithFooter("↑/↓ select • enter save")
}

func listRow(selected bool, text, detail string) string {
	if detail != "" && detail != text {
		text = text + "  " + design.DimStyle.Render(detail)
	}
	if selected {
		return design.ListItemSelectedStyle.Render("▸ " + text)
	}
	return design.ListItemStyle.Render("  " + strings.TrimSpace(text))
}
