package push

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"kuctl/pkg/logging"

	ttlworker "github.com/FloatTech/ttl"
	"github.com/gin-contrib/sse"
	"golang.org/x/time/rate"
)

// Subsystem is the log subsystem of the push listener.
const Subsystem = "Push"

const (
	DefaultReconnectInterval = 3 * time.Second
	DefaultDedupeWindow      = time.Minute
)

// Listener holds the single push connection to the agent and reconnects it
// when the stream ends.
type Listener struct {
	url        string
	httpClient *http.Client
	interval   time.Duration
	window     time.Duration

	limiter     *rate.Limiter
	seen        *ttlworker.Cache[string, bool]
	lastEventID string
}

// ListenerOption configures a Listener.
type ListenerOption func(*Listener)

// WithHTTPClient sets the client used for the stream. It must not carry a
// request timeout.
func WithHTTPClient(hc *http.Client) ListenerOption {
	return func(l *Listener) {
		l.httpClient = hc
	}
}

// WithReconnectInterval sets the minimum spacing between connection attempts.
func WithReconnectInterval(d time.Duration) ListenerOption {
	return func(l *Listener) {
		if d > 0 {
			l.interval = d
		}
	}
}

// WithDedupeWindow sets how long event ids are remembered.
func WithDedupeWindow(d time.Duration) ListenerOption {
	return func(l *Listener) {
		if d > 0 {
			l.window = d
		}
	}
}

// NewListener creates a listener for the stream at url.
func NewListener(url string, opts ...ListenerOption) *Listener {
	l := &Listener{
		url:        url,
		httpClient: &http.Client{},
		interval:   DefaultReconnectInterval,
		window:     DefaultDedupeWindow,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.limiter = rate.NewLimiter(rate.Every(l.interval), 1)
	return l
}

// Run connects and delivers events into out until ctx is done. Stream
// failures are logged and retried. The redelivery cache lives as long as
// Run does.
func (l *Listener) Run(ctx context.Context, out chan<- Event) error {
	seen := ttlworker.NewCache[string, bool](l.window)
	l.seen = seen
	defer func() {
		l.seen = nil
		seen.Destroy()
	}()

	for {
		if err := l.limiter.Wait(ctx); err != nil {
			return err
		}

		err := l.stream(ctx, out)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			logging.Warn(Subsystem, "Stream interrupted: %v", err)
		} else {
			logging.Debug(Subsystem, "Stream closed by agent, reconnecting")
		}
	}
}

func (l *Listener) stream(ctx context.Context, out chan<- Event) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return fmt.Errorf("creating push request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	if l.lastEventID != "" {
		req.Header.Set("Last-Event-ID", l.lastEventID)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", l.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("connecting to %s: unexpected status %d", l.url, resp.StatusCode)
	}
	logging.Debug(Subsystem, "Connected to %s", l.url)

	err = readFrames(resp.Body, frameHandler{
		event: func(ev sse.Event) bool {
			return l.deliver(ctx, ev, out)
		},
		retry: func(d time.Duration) {
			if d <= 0 {
				return
			}
			logging.Debug(Subsystem, "Agent set reconnect interval to %s", d)
			l.limiter.SetLimit(rate.Every(d))
		},
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// deliver maps one decoded frame onto an Event. It returns false when ctx is
// done.
func (l *Listener) deliver(ctx context.Context, ev sse.Event, out chan<- Event) bool {
	if ev.Id != "" {
		if l.seen.Get(ev.Id) {
			logging.Debug(Subsystem, "Dropping redelivered event %s", ev.Id)
			return true
		}
		l.seen.Set(ev.Id, true)
		l.lastEventID = ev.Id
	}

	kind, ok := ParseKind(ev.Event)
	if !ok {
		logging.Debug(Subsystem, "Ignoring unknown event %q", ev.Event)
		return true
	}

	data, _ := ev.Data.(string)
	select {
	case out <- Event{Kind: kind, Data: data, ID: ev.Id}:
		return true
	case <-ctx.Done():
		return false
	}
}
