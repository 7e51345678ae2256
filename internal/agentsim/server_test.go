package agentsim

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"kuctl/internal/config"
	"kuctl/internal/protocol"
	"kuctl/internal/push"
	"kuctl/internal/transport"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startAgent(t *testing.T, opts ...Option) (*Server, *httptest.Server, *transport.Client) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	opts = append([]Option{WithLogger(log.New(io.Discard))}, opts...)
	sim := New(opts...)
	srv := httptest.NewServer(sim.Handler())
	t.Cleanup(srv.Close)

	cfg := config.GetDefaultConfig().Agent
	cfg.URL = srv.URL
	client, err := transport.NewClient(cfg)
	require.NoError(t, err)
	return sim, srv, client
}

func TestServer_ConfigRoundTrip(t *testing.T) {
	sim, _, client := startAgent(t)
	ctx := context.Background()

	doc, err := client.FetchConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultDocument(), doc)

	doc.Opts.DirectConn = append(doc.Opts.DirectConn, protocol.Connection{Name: "Home", Host: "192.168.1.5", Port: 9090})
	doc.Opts.DirectConnIndex = 0
	require.NoError(t, client.SubmitConfig(ctx, doc))

	assert.Equal(t, doc, sim.Document())
	subs := sim.SubmissionsTo("/config")
	require.Len(t, subs, 1)
	assert.Contains(t, string(subs[0].Body), `"directConnIndex":0`)
}

func TestServer_PreservesUnknownOptionKeys(t *testing.T) {
	_, srv, client := startAgent(t)

	body := `{"opts":{"preferKepub":true,"futureKnob":{"a":1},"directConn":[],"directConnIndex":-1,
		"excludeFormats":[],"thumbnail":{"generateLevel":"none","resizeAlgorithm":"bicubic","jpegQuality":60}}}`
	resp, err := http.Post(srv.URL+"/config", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	doc, err := client.FetchConfig(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(doc.Opts.Extra["futureKnob"]))
}

func TestServer_StatusOverride(t *testing.T) {
	sim, _, client := startAgent(t)
	ctx := context.Background()

	sim.SetStatus("/config", http.StatusInternalServerError)
	err := client.SubmitConfig(ctx, DefaultDocument())
	assert.True(t, transport.IsStatus(err, http.StatusInternalServerError))
	assert.Empty(t, sim.Submissions(), "overridden requests are not recorded")

	sim.ClearStatus("/config")
	assert.NoError(t, client.SubmitConfig(ctx, DefaultDocument()))
}

func TestServer_AuthInstancesLibraryInfo(t *testing.T) {
	sim, _, client := startAgent(t)
	ctx := context.Background()

	sim.SetAuth(protocol.AuthDocument{LibraryName: "Books", Password: "leaked"})
	auth, err := client.FetchAuth(ctx)
	require.NoError(t, err)
	assert.Equal(t, protocol.AuthDocument{LibraryName: "Books"}, auth)

	instances, err := client.FetchInstances(ctx)
	require.NoError(t, err)
	assert.Empty(t, instances)

	sim.SetInstances([]protocol.Instance{{Address: "10.0.0.2:9090", Description: "desk"}})
	instances, err = client.FetchInstances(ctx)
	require.NoError(t, err)
	require.Len(t, instances, 1)
	require.NoError(t, client.SelectInstance(ctx, instances[0]))

	sim.SetLibraryInfo(protocol.LibraryInfo{SubtitleFields: []string{"", "tags"}})
	info, err := client.FetchLibraryInfo(ctx)
	require.NoError(t, err)
	info.CurrSel = 1
	require.NoError(t, client.SubmitLibraryInfo(ctx, info))

	info, err = client.FetchLibraryInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, info.CurrSel)
}

func TestServer_DisconnectNeedsActiveLibrary(t *testing.T) {
	sim, _, client := startAgent(t)
	ctx := context.Background()

	assert.True(t, transport.IsStatus(client.Disconnect(ctx), http.StatusServiceUnavailable))

	sim.SetLibraryActive(true)
	assert.NoError(t, client.Disconnect(ctx))
	assert.False(t, sim.LibraryActive())
}

func TestServer_Exit(t *testing.T) {
	sim, _, client := startAgent(t)

	require.NoError(t, client.Exit(context.Background()))
	select {
	case <-sim.Exited():
	default:
		t.Fatal("exit not signalled")
	}
	assert.NoError(t, client.Exit(context.Background()), "exit is idempotent")
}

func waitForSubscribers(t *testing.T, sim *Server, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return sim.Subscribers() >= n }, 3*time.Second, 10*time.Millisecond)
}

func TestServer_PushToListener(t *testing.T) {
	sim, _, client := startAgent(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out := make(chan push.Event, 4)
	l := push.NewListener(client.PushURL(), push.WithReconnectInterval(10*time.Millisecond))
	go func() { _ = l.Run(ctx, out) }()
	waitForSubscribers(t, sim, 1)

	id := sim.Emit(push.WireProgress, "40")
	sim.Emit("notAnAgentEvent", "x")
	sim.Emit(push.WireFinished, "Done")

	var got []push.Event
	for len(got) < 2 {
		select {
		case ev := <-out:
			got = append(got, ev)
		case <-ctx.Done():
			t.Fatalf("timed out with %v", got)
		}
	}
	assert.Equal(t, push.Event{Kind: push.KindProgress, Data: "40", ID: id}, got[0])
	assert.Equal(t, push.KindFinished, got[1].Kind)
	assert.Equal(t, "Done", got[1].Data)
}

func TestServer_ReplaysMissedEvents(t *testing.T) {
	sim, srv, _ := startAgent(t)

	first := sim.Emit(push.WireMessage, "one")
	sim.Emit(push.WireMessage, "two")
	sim.Emit(push.WireProgress, "10")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/messages", nil)
	require.NoError(t, err)
	req.Header.Set("Last-Event-ID", first)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	var data []string
	sc := bufio.NewScanner(resp.Body)
	for sc.Scan() && len(data) < 2 {
		if line := sc.Text(); strings.HasPrefix(line, "data:") {
			data = append(data, strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		}
	}
	assert.Equal(t, []string{"two", "10"}, data)
}

func TestScript_Parse(t *testing.T) {
	sc, err := LoadScript("testdata/session.yaml")
	require.NoError(t, err)

	assert.Equal(t, "password-protected library", sc.Name)
	require.Len(t, sc.Steps, 8)
	assert.Equal(t, "config", sc.Steps[0].Await)
	assert.Len(t, sc.Steps[2].Instances, 2)
	assert.Equal(t, 200*time.Millisecond, sc.Steps[6].Wait)
	require.NotNil(t, sc.Steps[4].LibraryActive)
	assert.True(t, *sc.Steps[4].LibraryActive)

	_, err = ParseScript([]byte("steps:\n  - await: nowhere\n"))
	assert.ErrorContains(t, err, "unknown await target")

	_, err = ParseScript([]byte("steps: [\n"))
	assert.Error(t, err)
}

func TestScript_RunWaitsForSubmissions(t *testing.T) {
	sim, _, client := startAgent(t)

	sc, err := ParseScript([]byte(`
steps:
  - await: config
    event: showMessage
    data: configured
  - instances:
      - address: 10.0.0.9:9090
        description: nas
    event: calibreInstances
`))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out := make(chan push.Event, 4)
	go func() { _ = push.NewListener(client.PushURL()).Run(ctx, out) }()

	done := make(chan error, 1)
	go func() { done <- sc.Run(ctx, sim) }()

	select {
	case ev := <-out:
		t.Fatalf("event %v before the config was submitted", ev)
	case <-time.After(100 * time.Millisecond):
	}

	require.NoError(t, client.SubmitConfig(ctx, DefaultDocument()))
	require.NoError(t, <-done)

	ev := <-out
	assert.Equal(t, push.KindMessage, ev.Kind)
	ev = <-out
	assert.Equal(t, push.KindInstancesAvailable, ev.Kind)

	instances, err := client.FetchInstances(ctx)
	require.NoError(t, err)
	assert.Equal(t, []protocol.Instance{{Address: "10.0.0.9:9090", Description: "nas"}}, instances)
}
