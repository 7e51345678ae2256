// Package push reads the agent's server-push channel.
//
// The agent emits Server-Sent Events with six names. Each is mapped to a Kind
// and delivered as an Event; everything else on the stream is ignored.
package push

import (
	"strconv"
	"strings"
)

// Kind is the logical type of a pushed event.
type Kind int

const (
	KindMessage Kind = iota
	KindProgress
	KindAuthChallenge
	KindInstancesAvailable
	KindLibraryInfoAvailable
	KindFinished
)

// Wire names of the agent's events.
const (
	WireMessage     = "showMessage"
	WireProgress    = "progress"
	WireAuth        = "auth"
	WireInstances   = "calibreInstances"
	WireLibraryInfo = "libInfo"
	WireFinished    = "kuFinished"
)

var wireKinds = map[string]Kind{
	WireMessage:     KindMessage,
	WireProgress:    KindProgress,
	WireAuth:        KindAuthChallenge,
	WireInstances:   KindInstancesAvailable,
	WireLibraryInfo: KindLibraryInfoAvailable,
	WireFinished:    KindFinished,
}

// ParseKind maps a wire event name to its Kind.
func ParseKind(name string) (Kind, bool) {
	k, ok := wireKinds[name]
	return k, ok
}

func (k Kind) String() string {
	switch k {
	case KindMessage:
		return "message"
	case KindProgress:
		return "progress"
	case KindAuthChallenge:
		return "auth-challenge"
	case KindInstancesAvailable:
		return "instances-available"
	case KindLibraryInfoAvailable:
		return "library-info-available"
	case KindFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// WireName is the event name the agent uses for k.
func (k Kind) WireName() string {
	for name, kind := range wireKinds {
		if kind == k {
			return name
		}
	}
	return ""
}

// Event is one pushed notification.
type Event struct {
	Kind Kind
	Data string
	ID   string
}

// Progress returns the percentage carried by a progress event. ok is false
// when the payload is not an integer in [0, 100], which means "hide".
func (e Event) Progress() (percent int, ok bool) {
	if e.Kind != KindProgress {
		return 0, false
	}
	p, err := strconv.Atoi(strings.TrimSpace(e.Data))
	if err != nil || p < 0 || p > 100 {
		return 0, false
	}
	return p, true
}
