// Package agentsim is an in-memory stand-in for the Kobo-UNCaGED agent.
//
// It serves the agent's endpoints and push channel from a gin engine so kuctl
// can be exercised without a device: `kuctl simulate` runs it as a process
// and the end-to-end tests run it under httptest.
package agentsim

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"kuctl/internal/config"
	"kuctl/internal/protocol"

	ttlworker "github.com/FloatTech/ttl"
	"github.com/bytedance/sonic"
	"github.com/charmbracelet/log"
	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/cors"
)

const (
	// replayWindow is how long emitted events stay available to a
	// reconnecting client.
	replayWindow = 2 * time.Minute
	maxReplay    = 64
	subscriberQ  = 32
)

// Submission is one POST body the agent accepted.
type Submission struct {
	Path string
	Body []byte
}

// Server holds the simulated agent state.
type Server struct {
	paths  config.EndpointPaths
	logger *log.Logger
	retry  time.Duration

	mu            sync.Mutex
	doc           protocol.ConfigDocument
	auth          protocol.AuthDocument
	instances     []protocol.Instance
	libraryInfo   protocol.LibraryInfo
	libraryActive bool
	overrides     map[string]int
	submissions   []Submission
	submitted     chan struct{}

	subscribers map[chan sse.Event]struct{}
	recent      *ttlworker.Cache[string, sse.Event]
	order       []string

	exitOnce sync.Once
	exited   chan struct{}
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithPaths serves the endpoints at paths instead of the defaults.
func WithPaths(p config.EndpointPaths) Option {
	return func(s *Server) { s.paths = p }
}

// WithConfig sets the initial configuration document.
func WithConfig(doc protocol.ConfigDocument) Option {
	return func(s *Server) { s.doc = doc }
}

// WithRetry advertises a reconnect interval to push clients.
func WithRetry(d time.Duration) Option {
	return func(s *Server) { s.retry = d }
}

// DefaultDocument is the configuration a fresh agent serves.
func DefaultDocument() protocol.ConfigDocument {
	return protocol.ConfigDocument{Opts: protocol.Options{
		PreferKepub:     true,
		ExcludeFormats:  []string{},
		DirectConn:      []protocol.Connection{},
		DirectConnIndex: -1,
		Thumbnail: protocol.Thumbnail{
			GenerateLevel:   protocol.GenerateLevels[0],
			ResizeAlgorithm: protocol.ResizeAlgorithms[0],
			JPEGQuality:     protocol.DefaultJPEGQuality,
		},
	}}
}

// New creates a simulated agent.
func New(opts ...Option) *Server {
	s := &Server{
		paths:       config.DefaultPaths(),
		logger:      log.Default(),
		doc:         DefaultDocument(),
		overrides:   make(map[string]int),
		submitted:   make(chan struct{}),
		subscribers: make(map[chan sse.Event]struct{}),
		recent:      ttlworker.NewCache[string, sse.Event](replayWindow),
		exited:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the agent's HTTP handler.
func (s *Server) Handler() http.Handler {
	engine := gin.New()
	engine.Use(gin.Recovery(), s.requestLogger())

	engine.GET(s.paths.Config, s.override, s.getConfig)
	engine.POST(s.paths.Config, s.override, s.postConfig)
	engine.GET(s.paths.Auth, s.override, s.getAuth)
	engine.POST(s.paths.Auth, s.override, s.postAuth)
	engine.GET(s.paths.Instances, s.override, s.getInstances)
	engine.POST(s.paths.Instances, s.override, s.postInstance)
	engine.GET(s.paths.LibraryInfo, s.override, s.getLibraryInfo)
	engine.POST(s.paths.LibraryInfo, s.override, s.postLibraryInfo)
	engine.GET(s.paths.Exit, s.override, s.exit)
	engine.GET(s.paths.Disconnect, s.override, s.disconnect)
	engine.GET(s.paths.Push, s.messages)

	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}).Handler(engine)
}

// Exited is closed once a client has called the exit endpoint.
func (s *Server) Exited() <-chan struct{} {
	return s.exited
}

// SetStatus makes every request to path answer code until cleared.
func (s *Server) SetStatus(path string, code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[path] = code
}

// ClearStatus removes the override for path.
func (s *Server) ClearStatus(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.overrides, path)
}

// SetLibraryActive marks whether a library session is open, which decides
// whether disconnect succeeds.
func (s *Server) SetLibraryActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.libraryActive = active
}

// LibraryActive reports whether a library session is open.
func (s *Server) LibraryActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.libraryActive
}

// SetAuth sets the document served by the auth endpoint.
func (s *Server) SetAuth(doc protocol.AuthDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth = doc
}

// SetInstances sets the discovered instances.
func (s *Server) SetInstances(instances []protocol.Instance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instances = append([]protocol.Instance(nil), instances...)
}

// SetLibraryInfo sets the library-info document.
func (s *Server) SetLibraryInfo(info protocol.LibraryInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.libraryInfo = info
}

// Document returns the stored configuration.
func (s *Server) Document() protocol.ConfigDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return protocol.ConfigDocument{Opts: s.doc.Opts.Clone()}
}

// Submissions returns every accepted POST in arrival order.
func (s *Server) Submissions() []Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Submission(nil), s.submissions...)
}

// SubmissionsTo returns the accepted POSTs to path.
func (s *Server) SubmissionsTo(path string) []Submission {
	var out []Submission
	for _, sub := range s.Submissions() {
		if sub.Path == path {
			out = append(out, sub)
		}
	}
	return out
}

// submittedSignal returns a channel closed on the next accepted POST.
func (s *Server) submittedSignal() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitted
}

// Subscribers is the number of connected push clients.
func (s *Server) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subscribers)
}

// Emit pushes a named event to every connected client and returns its id.
func (s *Server) Emit(event, data string) string {
	ev := sse.Event{Id: uuid.NewString(), Event: event, Data: data}

	s.mu.Lock()
	s.recent.Set(ev.Id, ev)
	s.order = append(s.order, ev.Id)
	if len(s.order) > maxReplay {
		s.order = s.order[len(s.order)-maxReplay:]
	}
	subs := make([]chan sse.Event, 0, len(s.subscribers))
	for ch := range s.subscribers {
		subs = append(subs, ch)
	}
	s.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- ev:
		default:
			s.logger.Warn("push client is not keeping up, event dropped", "event", event, "id", ev.Id)
		}
	}
	s.logger.Debug("emitted", "event", event, "id", ev.Id, "clients", len(subs))
	return ev.Id
}

// missedSince returns the retained events emitted after lastID.
func (s *Server) missedSince(lastID string) []sse.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := -1
	for i, id := range s.order {
		if id == lastID {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return nil
	}
	var out []sse.Event
	for _, id := range s.order[start:] {
		if ev := s.recent.Get(id); ev.Id != "" {
			out = append(out, ev)
		}
	}
	return out
}

func (s *Server) subscribe() chan sse.Event {
	ch := make(chan sse.Event, subscriberQ)
	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()
	return ch
}

func (s *Server) unsubscribe(ch chan sse.Event) {
	s.mu.Lock()
	delete(s.subscribers, ch)
	s.mu.Unlock()
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info(c.Request.Method+" "+c.Request.URL.Path,
			"status", c.Writer.Status(), "took", time.Since(start).Round(time.Millisecond))
	}
}

// override answers with a forced status when one is set for the path.
func (s *Server) override(c *gin.Context) {
	s.mu.Lock()
	code, ok := s.overrides[c.FullPath()]
	s.mu.Unlock()
	if ok {
		c.AbortWithStatus(code)
	}
}

func (s *Server) writeJSON(c *gin.Context, v interface{}) {
	body, err := sonic.Marshal(v)
	if err != nil {
		s.logger.Error("encoding response", "path", c.FullPath(), "err", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}

// readSubmission decodes a POST body into v and records it. It writes the
// error response itself and reports whether the handler should continue.
func (s *Server) readSubmission(c *gin.Context, v interface{}) bool {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return false
	}
	if err := sonic.Unmarshal(body, v); err != nil {
		s.logger.Warn("rejecting malformed body", "path", c.FullPath(), "err", err)
		c.AbortWithStatus(http.StatusBadRequest)
		return false
	}

	s.mu.Lock()
	s.submissions = append(s.submissions, Submission{Path: c.FullPath(), Body: body})
	close(s.submitted)
	s.submitted = make(chan struct{})
	s.mu.Unlock()
	return true
}

func (s *Server) getConfig(c *gin.Context) {
	s.writeJSON(c, s.Document())
}

func (s *Server) postConfig(c *gin.Context) {
	var doc protocol.ConfigDocument
	if !s.readSubmission(c, &doc) {
		return
	}
	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
	c.Status(http.StatusNoContent)
}

func (s *Server) getAuth(c *gin.Context) {
	s.mu.Lock()
	doc := s.auth
	s.mu.Unlock()
	doc.Password = ""
	s.writeJSON(c, doc)
}

func (s *Server) postAuth(c *gin.Context) {
	var doc protocol.AuthDocument
	if !s.readSubmission(c, &doc) {
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) getInstances(c *gin.Context) {
	s.mu.Lock()
	instances := append([]protocol.Instance{}, s.instances...)
	s.mu.Unlock()
	s.writeJSON(c, instances)
}

func (s *Server) postInstance(c *gin.Context) {
	var inst protocol.Instance
	if !s.readSubmission(c, &inst) {
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) getLibraryInfo(c *gin.Context) {
	s.mu.Lock()
	info := s.libraryInfo
	s.mu.Unlock()
	if info.SubtitleFields == nil {
		info.SubtitleFields = []string{""}
	}
	s.writeJSON(c, info)
}

func (s *Server) postLibraryInfo(c *gin.Context) {
	var info protocol.LibraryInfo
	if !s.readSubmission(c, &info) {
		return
	}
	s.mu.Lock()
	s.libraryInfo.CurrSel = info.CurrSel
	s.mu.Unlock()
	c.Status(http.StatusNoContent)
}

func (s *Server) exit(c *gin.Context) {
	s.exitOnce.Do(func() { close(s.exited) })
	c.Status(http.StatusNoContent)
}

func (s *Server) disconnect(c *gin.Context) {
	s.mu.Lock()
	active := s.libraryActive
	s.libraryActive = false
	s.mu.Unlock()

	if !active {
		c.AbortWithStatus(http.StatusServiceUnavailable)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) messages(c *gin.Context) {
	ch := s.subscribe()
	defer s.unsubscribe(ch)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
	if s.retry > 0 {
		fmt.Fprintf(c.Writer, "retry: %s\n\n", strconv.FormatInt(s.retry.Milliseconds(), 10))
	}
	c.Writer.Flush()

	if lastID := c.GetHeader("Last-Event-ID"); lastID != "" {
		for _, ev := range s.missedSince(lastID) {
			c.Render(-1, ev)
		}
		c.Writer.Flush()
	}

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case ev := <-ch:
			c.Render(-1, ev)
			return true
		case <-s.exited:
			return false
		case <-ctx.Done():
			return false
		}
	})
}
