package model

import (
	"kuctl/internal/protocol"
	"kuctl/internal/push"
	"kuctl/pkg/logging"
)

// ---- Push channel ----

type PushEventMsg struct {
	Event push.Event
}

// PushClosedMsg is sent once the push channel is closed for good.
type PushClosedMsg struct{}

// ---- Fetch completions carry the sequence they were issued with ----

// ConfigFetchedMsg also carries the showing that asked for it: the config
// panel only opens over that showing.
type ConfigFetchedMsg struct {
	Seq    int
	Origin PanelRef
	Doc    protocol.ConfigDocument
	Err    error
}

type AuthFetchedMsg struct {
	Seq int
	Doc protocol.AuthDocument
	Err error
}

type InstancesFetchedMsg struct {
	Seq       int
	Instances []protocol.Instance
	Err       error
}

type LibraryInfoFetchedMsg struct {
	Seq  int
	Info protocol.LibraryInfo
	Err  error
}

// ---- Submit completions carry the panel showing they came from ----

type ConfigSubmittedMsg struct {
	Origin PanelRef
	Err    error
}

type AuthSubmittedMsg struct {
	Origin PanelRef
	Err    error
}

type InstanceSelectedMsg struct {
	Origin   PanelRef
	Instance protocol.Instance
	Err      error
}

type LibraryInfoSubmittedMsg struct {
	Origin PanelRef
	Err    error
}

type ExitResultMsg struct {
	Origin PanelRef
	Err    error
}

type DisconnectResultMsg struct {
	Err error
}

// ---- Logging and status bar ----

type NewLogEntryMsg struct {
	Entry logging.LogEntry
}

type ClearStatusBarMsg struct{}
