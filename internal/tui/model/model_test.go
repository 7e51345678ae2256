package model

import (
	"context"
	"errors"
	"testing"
	"time"

	"kuctl/internal/config"
	"kuctl/internal/protocol"
	"kuctl/internal/push"
	"kuctl/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPanelController_Show(t *testing.T) {
	var c PanelController
	assert.Equal(t, PanelNone, c.Current())

	require.True(t, c.Show(PanelConfig))
	ref := c.Ref()
	assert.True(t, c.IsCurrent(ref))

	// Re-showing keeps the showing.
	assert.False(t, c.Show(PanelConfig))
	assert.True(t, c.IsCurrent(ref))

	// Leaving and coming back is a new showing.
	require.True(t, c.HideAll())
	require.True(t, c.Show(PanelConfig))
	assert.False(t, c.IsCurrent(ref))
	assert.Equal(t, PanelConfig, c.Current())
}

func TestPanelController_FinishedIsTerminal(t *testing.T) {
	var c PanelController
	c.Show(PanelAuth)
	c.Finish()
	require.True(t, c.Finished())

	for _, p := range []Panel{PanelNone, PanelConfig, PanelMessage, PanelAuth, PanelInstances, PanelLibraryInfo, PanelConnEditor} {
		assert.False(t, c.Show(p), "show %s", p)
		assert.Equal(t, PanelFinished, c.Current())
	}
	assert.False(t, c.HideAll())
	assert.Equal(t, PanelFinished, c.Current())
}

func TestPanelController_Rerender(t *testing.T) {
	var c PanelController
	c.Rerender()
	assert.Equal(t, PanelRef{}, c.Ref(), "nothing visible to renew")

	c.Show(PanelAuth)
	ref := c.Ref()
	c.Rerender()
	assert.Equal(t, PanelAuth, c.Current())
	assert.False(t, c.IsCurrent(ref))

	c.Finish()
	ref = c.Ref()
	c.Rerender()
	assert.True(t, c.IsCurrent(ref))
}

func TestConfigForm_PopulateAndValues(t *testing.T) {
	v := store.FormValues{
		PreferSDCard:    true,
		PreferKepub:     false,
		EnableDebug:     true,
		ExcludeFormats:  "pdf, cbz",
		GenerateLevel:   "partial",
		ResizeAlgorithm: "lanczos3",
		JPEGQuality:     "75",
	}
	f := NewConfigForm()
	f.FocusNext()
	f.Populate(v)

	assert.Equal(t, FieldPreferSDCard, f.Focus)
	assert.Equal(t, v, f.Values())
}

func TestConfigForm_FocusWraps(t *testing.T) {
	f := NewConfigForm()
	f.FocusPrev()
	assert.Equal(t, FieldConnection, f.Focus)
	f.FocusNext()
	assert.Equal(t, FieldPreferSDCard, f.Focus)

	for f.Focus != FieldJPEGQuality {
		f.FocusNext()
	}
	assert.True(t, f.OnTextField())
	assert.True(t, f.JPEGQuality.Focused())
	assert.False(t, f.ExcludeFormats.Focused())
}

func TestConfigForm_ToggleAndCycle(t *testing.T) {
	f := NewConfigForm()

	require.True(t, f.Toggle())
	assert.True(t, f.PreferSDCard)

	f.setFocus(FieldGenerateLevel)
	assert.False(t, f.Toggle())
	require.True(t, f.Cycle(1))
	assert.Equal(t, "partial", f.GenerateLevel)
	require.True(t, f.Cycle(-2))
	assert.Equal(t, "none", f.GenerateLevel)

	f.setFocus(FieldResizeAlgorithm)
	require.True(t, f.Cycle(-1))
	assert.Equal(t, "lanczos3", f.ResizeAlgorithm)

	f.setFocus(FieldJPEGQuality)
	assert.False(t, f.Cycle(1))
}

func TestConfigForm_CyclesAgentAllLevel(t *testing.T) {
	f := NewConfigForm()
	f.Populate(store.FormValues{GenerateLevel: "all", ResizeAlgorithm: "bilinear"})

	f.setFocus(FieldGenerateLevel)
	require.True(t, f.Cycle(1))
	assert.Equal(t, "partial", f.GenerateLevel)
	require.True(t, f.Cycle(-1))
	assert.Equal(t, "all", f.GenerateLevel, "an agent that says all is never sent full")

	f.Populate(store.FormValues{GenerateLevel: "none"})
	f.setFocus(FieldGenerateLevel)
	require.True(t, f.Cycle(1))
	assert.Equal(t, "full", f.GenerateLevel)
}

func TestConnEditor_Reset(t *testing.T) {
	e := NewConnEditor()
	e.Name.SetValue("Home")
	e.Err = "port is required"
	e.FocusNext()

	e.Reset()
	assert.Equal(t, EditorName, e.Focus)
	assert.Empty(t, e.Name.Value())
	assert.Empty(t, e.Err)
	assert.True(t, e.Name.Focused())
}

type stubAgent struct {
	AgentAPI
	doc protocol.ConfigDocument
	err error
}

func (s stubAgent) FetchConfig(ctx context.Context) (protocol.ConfigDocument, error) {
	if _, ok := ctx.Deadline(); !ok {
		return protocol.ConfigDocument{}, errors.New("no deadline")
	}
	return s.doc, s.err
}

func (s stubAgent) Disconnect(ctx context.Context) error {
	return s.err
}

func TestCommands_CarrySequenceAndErrors(t *testing.T) {
	doc := protocol.ConfigDocument{Opts: protocol.Options{PreferKepub: true}}

	msg := FetchConfigCmd(stubAgent{doc: doc}, time.Second, 7, PanelRef{Panel: PanelNone, Generation: 3})()
	got, ok := msg.(ConfigFetchedMsg)
	require.True(t, ok)
	assert.Equal(t, 7, got.Seq)
	assert.Equal(t, PanelRef{Panel: PanelNone, Generation: 3}, got.Origin)
	assert.True(t, got.Doc.Opts.PreferKepub)
	assert.NoError(t, got.Err)

	boom := errors.New("boom")
	msg = DisconnectCmd(stubAgent{err: boom}, time.Second)()
	assert.ErrorIs(t, msg.(DisconnectResultMsg).Err, boom)
}

func TestListenForPushCmd(t *testing.T) {
	assert.Nil(t, ListenForPushCmd(nil))

	ch := make(chan push.Event, 1)
	ch <- push.Event{Kind: push.KindMessage, Data: "hi"}
	msg := ListenForPushCmd(ch)()
	assert.Equal(t, PushEventMsg{Event: push.Event{Kind: push.KindMessage, Data: "hi"}}, msg)

	close(ch)
	assert.Equal(t, PushClosedMsg{}, ListenForPushCmd(ch)())
}

func TestInitializeModel_Defaults(t *testing.T) {
	m := InitializeModel(TUIConfig{Settings: config.KuctlConfig{}})

	assert.Equal(t, config.FailurePolicySilent, m.Policy)
	assert.Equal(t, config.DefaultStatusTimeout, m.StatusTimeout)
	assert.Equal(t, PanelNone, m.Panels.Current())
	assert.False(t, m.Store.Loaded())
	assert.Equal(t, ModeMain, m.CurrentAppMode)
}

func TestInit_IssuesFirstConfigFetch(t *testing.T) {
	m := InitializeModel(TUIConfig{API: stubAgent{}})
	cmd := m.Init()
	require.NotNil(t, cmd)
	assert.Equal(t, 1, m.Seq.Config)
	assert.Equal(t, 1, m.Pending)
}

func TestSetStatusMessage_ReplacesPendingClear(t *testing.T) {
	m := InitializeModel(TUIConfig{})
	first := m.SetStatusMessage("one", StatusBarInfo, time.Millisecond)
	second := m.SetStatusMessage("two", StatusBarError, time.Millisecond)

	assert.Equal(t, "two", m.StatusBarMessage)
	assert.Nil(t, first(), "superseded clear must not fire")
	assert.Equal(t, tea.Msg(ClearStatusBarMsg{}), second())
}

func TestAddRawLineToActivityLog_Bounded(t *testing.T) {
	m := InitializeModel(TUIConfig{})
	for i := 0; i < MaxActivityLogLines+10; i++ {
		AddRawLineToActivityLog(m, "line")
	}
	assert.Len(t, m.ActivityLog, MaxActivityLogLines)
	assert.True(t, m.ActivityLogDirty)
}
