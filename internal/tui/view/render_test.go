package view

import (
	"strings"
	"testing"

	"kuctl/internal/protocol"
	"kuctl/internal/tui/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) *model.Model {
	t.Helper()
	m := model.InitializeModel(model.TUIConfig{AgentURL: "http://kobo:8181"})
	m.Width = 100
	m.Height = 30
	m.LogViewport.Width = 90
	m.LogViewport.Height = 20
	return m
}

func loadScenarioA(m *model.Model) {
	m.Store.Load(protocol.ConfigDocument{Opts: protocol.Options{
		PreferSDCard:    true,
		DirectConn:      []protocol.Connection{},
		DirectConnIndex: -1,
		Thumbnail: protocol.Thumbnail{
			GenerateLevel:   "full",
			ResizeAlgorithm: "bilinear",
			JPEGQuality:     80,
		},
	}})
	m.Form.Populate(m.Store.Form())
	m.Panels.Show(model.PanelConfig)
}

func TestRender_WaitingForWindowSize(t *testing.T) {
	m := model.InitializeModel(model.TUIConfig{})
	assert.Contains(t, Render(m), "waiting for window size")
}

func TestRender_Idle(t *testing.T) {
	m := newTestModel(t)
	m.Pending = 1
	out := Render(m)
	assert.Contains(t, out, "Waiting for the agent")
	assert.Contains(t, out, "http://kobo:8181")

	m.Pending = 0
	assert.Contains(t, Render(m), "Press r to retry")
}

func TestRender_ConfigPanel(t *testing.T) {
	m := newTestModel(t)
	loadScenarioA(m)

	out := Render(m)
	assert.Contains(t, out, "Kobo-UNCaGED configuration")
	assert.Contains(t, out, "[x]")
	assert.Contains(t, out, "Direct connection")
	assert.Contains(t, out, "0 saved")
	assert.Contains(t, out, "full")
	assert.Contains(t, out, "bilinear")
}

func TestRender_ConfigPanelShowsAddedConnection(t *testing.T) {
	m := newTestModel(t)
	loadScenarioA(m)
	_, err := m.Store.Connections().Add("Home", "192.168.1.5", "9090")
	require.NoError(t, err)

	out := Render(m)
	assert.Contains(t, out, "Home (192.168.1.5:9090)")
	assert.Contains(t, out, "1 saved")
}

func TestRender_MessagePanel(t *testing.T) {
	tests := []struct {
		name       string
		progress   bool
		disconnect bool
		want       []string
		notWant    []string
	}{
		{
			name:    "text only",
			want:    []string{"Connecting to calibre"},
			notWant: []string{"%", "disconnect"},
		},
		{
			name:     "with progress",
			progress: true,
			want:     []string{"Connecting to calibre", "40%"},
		},
		{
			name:       "with disconnect",
			disconnect: true,
			want:       []string{"disconnect"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t)
			m.MessageText = "Connecting to calibre"
			m.ProgressPercent = 40
			m.ProgressVisible = tt.progress
			m.DisconnectVisible = tt.disconnect
			m.Panels.Show(model.PanelMessage)

			out := Render(m)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
			for _, nw := range tt.notWant {
				assert.NotContains(t, out, nw)
			}
		})
	}
}

func TestRender_AuthPanel(t *testing.T) {
	m := newTestModel(t)
	m.Auth = protocol.AuthDocument{LibraryName: "Books"}
	m.PasswordInput.SetValue("secret")
	m.Panels.Show(model.PanelAuth)

	out := Render(m)
	assert.Contains(t, out, "Password for Books")
	assert.NotContains(t, out, "secret")
}

func TestRender_InstancesPanel(t *testing.T) {
	m := newTestModel(t)
	m.Instances = []protocol.Instance{
		{Address: "192.168.1.10:9090", Description: "Office"},
		{Address: "192.168.1.11:9090"},
	}
	m.InstanceCursor = 1
	m.Panels.Show(model.PanelInstances)

	out := Render(m)
	assert.Contains(t, out, "Office")
	assert.Contains(t, out, "▸ 192.168.1.11:9090")
}

func TestRender_LibraryPanel(t *testing.T) {
	m := newTestModel(t)
	m.LibraryInfo = protocol.LibraryInfo{SubtitleFields: []string{"", "#series", "#publisher"}, CurrSel: 1}
	m.LibraryCursor = 1
	m.Panels.Show(model.PanelLibraryInfo)

	out := Render(m)
	assert.Contains(t, out, "(none)")
	assert.Contains(t, out, "#series (current)")
	assert.Contains(t, out, "#publisher")
}

func TestRender_FinishedPanel(t *testing.T) {
	m := newTestModel(t)
	m.FinishedText = "Sync complete"
	m.Panels.Finish()

	assert.Contains(t, Render(m), "Sync complete")
}

func TestRender_StatusMessageReplacesHints(t *testing.T) {
	m := newTestModel(t)
	m.StatusBarMessage = "Saving configuration failed: agent answered 500"
	m.StatusBarMessageType = model.StatusBarError

	assert.Contains(t, Render(m), "agent answered 500")
}

func TestRender_Overlays(t *testing.T) {
	m := newTestModel(t)
	m.CurrentAppMode = model.ModeHelpOverlay
	assert.Contains(t, Render(m), "Keyboard shortcuts")

	m.CurrentAppMode = model.ModeLogOverlay
	m.LogViewport.SetContent(PrepareLogContent([]string{"12:00:00.000 [INFO] [Push] Connected"}, 90))
	out := Render(m)
	assert.Contains(t, out, "Activity log")
	assert.Contains(t, out, "Connected")
}

func TestPrepareLogContent(t *testing.T) {
	lines := []string{
		"a [INFO] [Controller] ok",
		"b [WARN] [Push] slow",
		"c [ERROR] [Transport] broken",
		"d [DEBUG] [Controller] noise",
	}
	out := PrepareLogContent(lines, 80)
	assert.Len(t, strings.Split(out, "\n"), len(lines))
	for _, l := range lines {
		assert.Contains(t, out, l)
	}
}
