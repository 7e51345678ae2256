package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultAgentURL          = "http://127.0.0.1:8181"
	DefaultRequestTimeout    = 30 * time.Second
	DefaultReconnectInterval = 3 * time.Second
	DefaultDedupeWindow      = time.Minute
	DefaultStatusTimeout     = 5 * time.Second
	DefaultUpdateRepository  = "kuctl/kuctl"
)

// DefaultPaths returns the endpoint paths served by the agent.
func DefaultPaths() EndpointPaths {
	return EndpointPaths{
		Config:      "/config",
		Auth:        "/calibreauth",
		Instances:   "/calibreinstance",
		LibraryInfo: "/libinfo",
		Exit:        "/exit",
		Disconnect:  "/ucexit",
		Push:        "/messages",
	}
}

// GetDefaultConfig returns the configuration used when no file overrides it.
func GetDefaultConfig() KuctlConfig {
	return KuctlConfig{
		Agent: AgentConfig{
			URL:            DefaultAgentURL,
			RequestTimeout: DefaultRequestTimeout,
			Paths:          DefaultPaths(),
		},
		Push: PushConfig{
			ReconnectInterval: DefaultReconnectInterval,
			DedupeWindow:      DefaultDedupeWindow,
		},
		UI: UIConfig{
			FailurePolicy: FailurePolicySilent,
			StatusTimeout: DefaultStatusTimeout,
			LogLevel:      "info",
		},
		Update: UpdateConfig{
			Repository: DefaultUpdateRepository,
		},
	}
}

// Validate reports the first setting kuctl cannot work with.
func (c KuctlConfig) Validate() error {
	u, err := url.Parse(c.Agent.URL)
	if err != nil {
		return fmt.Errorf("agent.url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("agent.url: unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("agent.url: missing host")
	}

	paths := map[string]string{
		"config":      c.Agent.Paths.Config,
		"auth":        c.Agent.Paths.Auth,
		"instances":   c.Agent.Paths.Instances,
		"libraryInfo": c.Agent.Paths.LibraryInfo,
		"exit":        c.Agent.Paths.Exit,
		"disconnect":  c.Agent.Paths.Disconnect,
		"push":        c.Agent.Paths.Push,
	}
	for name, p := range paths {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("agent.paths.%s: must start with '/', got %q", name, p)
		}
	}

	if c.Agent.RequestTimeout <= 0 {
		return fmt.Errorf("agent.requestTimeout must be positive")
	}
	if c.Push.ReconnectInterval <= 0 {
		return fmt.Errorf("push.reconnectInterval must be positive")
	}
	if c.Push.DedupeWindow <= 0 {
		return fmt.Errorf("push.dedupeWindow must be positive")
	}
	if c.UI.StatusTimeout <= 0 {
		return fmt.Errorf("ui.statusTimeout must be positive")
	}

	switch c.UI.FailurePolicy {
	case FailurePolicySilent, FailurePolicyNotify:
	default:
		return fmt.Errorf("ui.failurePolicy: unknown policy %q", c.UI.FailurePolicy)
	}
	return nil
}
