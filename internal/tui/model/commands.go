package model

import (
	"context"
	"time"

	"kuctl/internal/protocol"
	"kuctl/internal/push"
	"kuctl/pkg/logging"

	tea "github.com/charmbracelet/bubbletea"
)

// Every command gets the API and timeout by value so the goroutine running it
// never reads the model.

func requestContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), timeout)
}

// FetchConfigCmd GETs the configuration document.
func FetchConfigCmd(api AgentAPI, timeout time.Duration, seq int, origin PanelRef) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		doc, err := api.FetchConfig(ctx)
		return ConfigFetchedMsg{Seq: seq, Origin: origin, Doc: doc, Err: err}
	}
}

// SubmitConfigCmd POSTs doc.
func SubmitConfigCmd(api AgentAPI, timeout time.Duration, origin PanelRef, doc protocol.ConfigDocument) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		return ConfigSubmittedMsg{Origin: origin, Err: api.SubmitConfig(ctx, doc)}
	}
}

func FetchAuthCmd(api AgentAPI, timeout time.Duration, seq int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		doc, err := api.FetchAuth(ctx)
		return AuthFetchedMsg{Seq: seq, Doc: doc, Err: err}
	}
}

func SubmitAuthCmd(api AgentAPI, timeout time.Duration, origin PanelRef, doc protocol.AuthDocument) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		return AuthSubmittedMsg{Origin: origin, Err: api.SubmitAuth(ctx, doc)}
	}
}

func FetchInstancesCmd(api AgentAPI, timeout time.Duration, seq int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		instances, err := api.FetchInstances(ctx)
		return InstancesFetchedMsg{Seq: seq, Instances: instances, Err: err}
	}
}

func SelectInstanceCmd(api AgentAPI, timeout time.Duration, origin PanelRef, inst protocol.Instance) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		return InstanceSelectedMsg{Origin: origin, Instance: inst, Err: api.SelectInstance(ctx, inst)}
	}
}

func FetchLibraryInfoCmd(api AgentAPI, timeout time.Duration, seq int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		info, err := api.FetchLibraryInfo(ctx)
		return LibraryInfoFetchedMsg{Seq: seq, Info: info, Err: err}
	}
}

func SubmitLibraryInfoCmd(api AgentAPI, timeout time.Duration, origin PanelRef, info protocol.LibraryInfo) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		return LibraryInfoSubmittedMsg{Origin: origin, Err: api.SubmitLibraryInfo(ctx, info)}
	}
}

func ExitCmd(api AgentAPI, timeout time.Duration, origin PanelRef) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		return ExitResultMsg{Origin: origin, Err: api.Exit(ctx)}
	}
}

func DisconnectCmd(api AgentAPI, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		return DisconnectResultMsg{Err: api.Disconnect(ctx)}
	}
}

// ListenForLogEntriesCmd waits for the next log entry. The controller
// re-issues it after every entry.
func ListenForLogEntriesCmd(ch <-chan logging.LogEntry) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		entry, ok := <-ch
		if !ok {
			return nil
		}
		return NewLogEntryMsg{Entry: entry}
	}
}

// ListenForPushCmd waits for the next push event, one event per message.
func ListenForPushCmd(ch <-chan push.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return PushClosedMsg{}
		}
		return PushEventMsg{Event: ev}
	}
}
