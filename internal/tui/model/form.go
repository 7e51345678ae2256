package model

import (
	"kuctl/internal/protocol"
	"kuctl/internal/store"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// FormField is a focusable control on the config panel, in tab order.
type FormField int

const (
	FieldPreferSDCard FormField = iota
	FieldPreferKepub
	FieldEnableDebug
	FieldExcludeFormats
	FieldGenerateLevel
	FieldResizeAlgorithm
	FieldJPEGQuality
	FieldConnection
	formFieldCount
)

// ConfigForm holds the editable controls of the config panel. The saved
// connection list is not here; it lives in the store so the selection and
// the document cannot drift apart.
type ConfigForm struct {
	Focus FormField

	PreferSDCard    bool
	PreferKepub     bool
	EnableDebug     bool
	ExcludeFormats  textinput.Model
	GenerateLevel   string
	ResizeAlgorithm string
	JPEGQuality     textinput.Model

	// levels is chosen from the loaded document's generate level.
	levels []string
}

// NewConfigForm creates an empty form focused on the first control.
func NewConfigForm() ConfigForm {
	formats := textinput.New()
	formats.Placeholder = "pdf, cbz"
	formats.CharLimit = 256
	formats.Width = 30

	quality := textinput.New()
	quality.Placeholder = "90"
	quality.CharLimit = 4
	quality.Width = 5

	return ConfigForm{
		ExcludeFormats:  formats,
		JPEGQuality:     quality,
		GenerateLevel:   protocol.GenerateLevels[0],
		ResizeAlgorithm: protocol.ResizeAlgorithms[0],
		levels:          protocol.GenerateLevels,
	}
}

// Populate overwrites every control from v and resets focus.
func (f *ConfigForm) Populate(v store.FormValues) {
	f.PreferSDCard = v.PreferSDCard
	f.PreferKepub = v.PreferKepub
	f.EnableDebug = v.EnableDebug
	f.ExcludeFormats.SetValue(v.ExcludeFormats)
	f.GenerateLevel = v.GenerateLevel
	f.levels = protocol.GenerateLevelsFor(v.GenerateLevel)
	f.ResizeAlgorithm = v.ResizeAlgorithm
	f.JPEGQuality.SetValue(v.JPEGQuality)
	f.setFocus(FieldPreferSDCard)
}

// Values reads the controls back.
func (f ConfigForm) Values() store.FormValues {
	return store.FormValues{
		PreferSDCard:    f.PreferSDCard,
		PreferKepub:     f.PreferKepub,
		EnableDebug:     f.EnableDebug,
		ExcludeFormats:  f.ExcludeFormats.Value(),
		GenerateLevel:   f.GenerateLevel,
		ResizeAlgorithm: f.ResizeAlgorithm,
		JPEGQuality:     f.JPEGQuality.Value(),
	}
}

func (f *ConfigForm) FocusNext() {
	f.setFocus((f.Focus + 1) % formFieldCount)
}

func (f *ConfigForm) FocusPrev() {
	f.setFocus((f.Focus + formFieldCount - 1) % formFieldCount)
}

// FocusField moves the focus to field.
func (f *ConfigForm) FocusField(field FormField) {
	f.setFocus(field)
}

func (f *ConfigForm) setFocus(field FormField) {
	f.Focus = field
	f.ExcludeFormats.Blur()
	f.JPEGQuality.Blur()
	switch field {
	case FieldExcludeFormats:
		f.ExcludeFormats.Focus()
	case FieldJPEGQuality:
		f.JPEGQuality.Focus()
	}
}

// OnTextField reports whether keystrokes go to a text input.
func (f ConfigForm) OnTextField() bool {
	return f.Focus == FieldExcludeFormats || f.Focus == FieldJPEGQuality
}

// Toggle flips the focused checkbox. It reports false when the focus is not
// on a checkbox.
func (f *ConfigForm) Toggle() bool {
	switch f.Focus {
	case FieldPreferSDCard:
		f.PreferSDCard = !f.PreferSDCard
	case FieldPreferKepub:
		f.PreferKepub = !f.PreferKepub
	case FieldEnableDebug:
		f.EnableDebug = !f.EnableDebug
	default:
		return false
	}
	return true
}

// Cycle steps the focused option selector by delta.
func (f *ConfigForm) Cycle(delta int) bool {
	switch f.Focus {
	case FieldGenerateLevel:
		f.GenerateLevel = protocol.Cycle(f.levels, f.GenerateLevel, delta)
	case FieldResizeAlgorithm:
		f.ResizeAlgorithm = protocol.Cycle(protocol.ResizeAlgorithms, f.ResizeAlgorithm, delta)
	default:
		return false
	}
	return true
}

// UpdateText forwards msg to the focused text input.
func (f *ConfigForm) UpdateText(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch f.Focus {
	case FieldExcludeFormats:
		f.ExcludeFormats, cmd = f.ExcludeFormats.Update(msg)
	case FieldJPEGQuality:
		f.JPEGQuality, cmd = f.JPEGQuality.Update(msg)
	}
	return cmd
}

// EditorField is a field of the connection editor.
type EditorField int

const (
	EditorName EditorField = iota
	EditorHost
	EditorPort
	editorFieldCount
)

// ConnEditor is the new-connection form.
type ConnEditor struct {
	Focus EditorField
	Name  textinput.Model
	Host  textinput.Model
	Port  textinput.Model
	Err   string
}

func NewConnEditor() ConnEditor {
	newInput := func(placeholder string, limit int) textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = limit
		ti.Width = 30
		return ti
	}
	return ConnEditor{
		Name: newInput("Home", 64),
		Host: newInput("192.168.1.5", 253),
		Port: newInput("9090", 5),
	}
}

// Reset clears every field and focuses the name.
func (e *ConnEditor) Reset() tea.Cmd {
	e.Name.SetValue("")
	e.Host.SetValue("")
	e.Port.SetValue("")
	e.Err = ""
	return e.setFocus(EditorName)
}

func (e *ConnEditor) FocusNext() tea.Cmd {
	return e.setFocus((e.Focus + 1) % editorFieldCount)
}

func (e *ConnEditor) FocusPrev() tea.Cmd {
	return e.setFocus((e.Focus + editorFieldCount - 1) % editorFieldCount)
}

func (e *ConnEditor) setFocus(field EditorField) tea.Cmd {
	e.Focus = field
	e.Name.Blur()
	e.Host.Blur()
	e.Port.Blur()
	switch field {
	case EditorHost:
		return e.Host.Focus()
	case EditorPort:
		return e.Port.Focus()
	default:
		return e.Name.Focus()
	}
}

// Update forwards msg to the focused input.
func (e *ConnEditor) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch e.Focus {
	case EditorName:
		e.Name, cmd = e.Name.Update(msg)
	case EditorHost:
		e.Host, cmd = e.Host.Update(msg)
	case EditorPort:
		e.Port, cmd = e.Port.Update(msg)
	}
	return cmd
}
