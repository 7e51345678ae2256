// Package transport calls the named endpoints of the agent.
//
// Fetches expect 200 with a JSON body, submits and the exit/disconnect
// actions expect 204 with no body. Any other status comes back as a
// *StatusError so callers can tell "the agent said no" from network trouble.
package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"kuctl/internal/config"
	"kuctl/internal/protocol"
	"kuctl/pkg/logging"

	"github.com/bytedance/sonic"
)

const subsystem = "Transport"

// maxBodySize bounds the JSON documents read from the agent.
const maxBodySize = 4 << 20

// ErrUnexpectedStatus is wrapped by every StatusError.
var ErrUnexpectedStatus = errors.New("unexpected status")

// StatusError reports a response whose status code was not the one the
// endpoint signals success with.
type StatusError struct {
	Method string
	Path   string
	Got    int
	Want   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d (want %d)", e.Method, e.Path, e.Got, e.Want)
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// IsStatus reports whether err is a StatusError carrying code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Got == code
}

// Client talks to one agent.
type Client struct {
	baseURL    *url.URL
	paths      config.EndpointPaths
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient builds a client for the agent described by cfg.
func NewClient(cfg config.AgentConfig, opts ...Option) (*Client, error) {
	base, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid agent url %q: %w", cfg.URL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid agent url %q: scheme and host are required", cfg.URL)
	}
	c := &Client{
		baseURL:    base,
		paths:      cfg.Paths,
		httpClient: NewHTTPClient(cfg.RequestTimeout),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewHTTPClient creates the HTTP client used for agent calls. A zero timeout
// leaves requests bounded only by their context, which the push stream needs.
func NewHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// URL resolves an endpoint path against the agent base URL.
func (c *Client) URL(path string) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	return u.String()
}

// PushURL is the URL of the server-push channel.
func (c *Client) PushURL() string {
	return c.URL(c.paths.Push)
}

// FetchConfig GETs the configuration document.
func (c *Client) FetchConfig(ctx context.Context) (protocol.ConfigDocument, error) {
	var doc protocol.ConfigDocument
	err := c.getJSON(ctx, c.paths.Config, &doc)
	return doc, err
}

// SubmitConfig POSTs the configuration document.
func (c *Client) SubmitConfig(ctx context.Context, doc protocol.ConfigDocument) error {
	return c.postJSON(ctx, c.paths.Config, doc)
}

// FetchAuth GETs the auth document of the pending password challenge.
func (c *Client) FetchAuth(ctx context.Context) (protocol.AuthDocument, error) {
	var doc protocol.AuthDocument
	err := c.getJSON(ctx, c.paths.Auth, &doc)
	return doc, err
}

// SubmitAuth POSTs the auth document with the password filled in.
func (c *Client) SubmitAuth(ctx context.Context, doc protocol.AuthDocument) error {
	return c.postJSON(ctx, c.paths.Auth, doc)
}

// FetchInstances GETs the discovered library instances.
func (c *Client) FetchInstances(ctx context.Context) ([]protocol.Instance, error) {
	var instances []protocol.Instance
	err := c.getJSON(ctx, c.paths.Instances, &instances)
	return instances, err
}

// SelectInstance POSTs the chosen instance.
func (c *Client) SelectInstance(ctx context.Context, inst protocol.Instance) error {
	return c.postJSON(ctx, c.paths.Instances, inst)
}

// FetchLibraryInfo GETs the subtitle field choices.
func (c *Client) FetchLibraryInfo(ctx context.Context) (protocol.LibraryInfo, error) {
	var info protocol.LibraryInfo
	err := c.getJSON(ctx, c.paths.LibraryInfo, &info)
	return info, err
}

// SubmitLibraryInfo POSTs the chosen subtitle field.
func (c *Client) SubmitLibraryInfo(ctx context.Context, info protocol.LibraryInfo) error {
	return c.postJSON(ctx, c.paths.LibraryInfo, info)
}

// Exit asks the agent to end the session.
func (c *Client) Exit(ctx context.Context) error {
	return c.getStatus(ctx, c.paths.Exit, http.StatusNoContent)
}

// Disconnect asks the agent to drop the library connection.
func (c *Client) Disconnect(ctx context.Context) error {
	return c.getStatus(ctx, c.paths.Disconnect, http.StatusNoContent)
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		drain(resp.Body)
		return &StatusError{Method: http.MethodGet, Path: path, Got: resp.StatusCode, Want: http.StatusOK}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("GET %s: reading body: %w", path, err)
	}
	if err := sonic.Unmarshal(body, out); err != nil {
		return fmt.Errorf("GET %s: decoding body: %w", path, err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, in interface{}) error {
	body, err := sonic.Marshal(in)
	if err != nil {
		return fmt.Errorf("POST %s: encoding body: %w", path, err)
	}
	resp, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	drain(resp.Body)

	if resp.StatusCode != http.StatusNoContent {
		return &StatusError{Method: http.MethodPost, Path: path, Got: resp.StatusCode, Want: http.StatusNoContent}
	}
	return nil
}

func (c *Client) getStatus(ctx context.Context, path string, want int) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	drain(resp.Body)

	if resp.StatusCode != want {
		return &StatusError{Method: http.MethodGet, Path: path, Got: resp.StatusCode, Want: want}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.URL(path), reader)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	logging.Debug(subsystem, "%s %s", method, path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

func drain(r io.Reader) {
	_, _ = io.Copy(io.Discard, io.LimitReader(r, maxBodySize))
}
