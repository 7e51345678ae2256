package config

import (
	"time"
)

// KuctlConfig is the top-level configuration structure for kuctl.
type KuctlConfig struct {
	Agent  AgentConfig  `yaml:"agent"`
	Push   PushConfig   `yaml:"push"`
	UI     UIConfig     `yaml:"ui"`
	Update UpdateConfig `yaml:"update"`
}

// AgentConfig locates the agent and its endpoints.
type AgentConfig struct {
	URL            string        `yaml:"url"`
	ScreenDPI      int           `yaml:"screenDPI,omitempty"`
	RequestTimeout time.Duration `yaml:"requestTimeout,omitempty"`
	Paths          EndpointPaths `yaml:"paths"`
}

// EndpointPaths holds the path of every agent endpoint kuctl calls.
type EndpointPaths struct {
	Config      string `yaml:"config,omitempty"`
	Auth        string `yaml:"auth,omitempty"`
	Instances   string `yaml:"instances,omitempty"`
	LibraryInfo string `yaml:"libraryInfo,omitempty"`
	Exit        string `yaml:"exit,omitempty"`
	Disconnect  string `yaml:"disconnect,omitempty"`
	Push        string `yaml:"push,omitempty"`
}

// PushConfig tunes the server-push listener.
type PushConfig struct {
	ReconnectInterval time.Duration `yaml:"reconnectInterval,omitempty"`
	DedupeWindow      time.Duration `yaml:"dedupeWindow,omitempty"`
}

// FailurePolicy decides what the user sees when an agent call fails.
type FailurePolicy string

const (
	FailurePolicySilent FailurePolicy = "silent"
	FailurePolicyNotify FailurePolicy = "notify"
)

// UIConfig holds TUI settings.
type UIConfig struct {
	FailurePolicy FailurePolicy `yaml:"failurePolicy,omitempty"`
	StatusTimeout time.Duration `yaml:"statusTimeout,omitempty"`
	LogLevel      string        `yaml:"logLevel,omitempty"`
}

// UpdateConfig configures self-update.
type UpdateConfig struct {
	Repository string `yaml:"repository,omitempty"`
}
