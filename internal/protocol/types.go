// Package protocol defines the JSON documents exchanged with the
// Kobo-UNCaGED agent.
//
// kuctl speaks exactly one revision of the agent protocol (Revision).
// In that revision saved connections are {name, host, port}, the options
// carry an excludeFormats list and the agent serves a library-info
// document for choosing the subtitle column.
package protocol

import (
	"fmt"
)

// Revision is the agent protocol revision this client implements.
const Revision = 1

const (
	MinJPEGQuality     = 50
	MaxJPEGQuality     = 100
	DefaultJPEGQuality = 90
)

// GenerateLevels are the known thumbnail generation levels, in display order.
var GenerateLevels = []string{"full", "partial", "none"}

// GenerateAll is the Kobo agent's spelling of the "full" level.
const GenerateAll = "all"

var agentGenerateLevels = []string{GenerateAll, "partial", "none"}

// GenerateLevelsFor returns the level list a document using current cycles
// through, so an agent that says "all" is never sent "full".
func GenerateLevelsFor(current string) []string {
	if current == GenerateAll {
		return agentGenerateLevels
	}
	return GenerateLevels
}

// ResizeAlgorithms are the known thumbnail resize algorithms, in display order.
var ResizeAlgorithms = []string{"bilinear", "bicubic", "lanczos2", "lanczos3"}

// ConfigDocument is the body of GET/POST on the config endpoint.
type ConfigDocument struct {
	Opts Options `json:"opts"`
}

// Thumbnail holds the cover thumbnail options.
type Thumbnail struct {
	GenerateLevel   string `json:"generateLevel"`
	ResizeAlgorithm string `json:"resizeAlgorithm"`
	JPEGQuality     int    `json:"jpegQuality"`
}

// Connection is a saved direct connection to a library instance.
// Its identity is its position in Options.DirectConn.
type Connection struct {
	Name string `json:"name"`
	Host string `json:"host"`
	Port int    `json:"port"`
}

func (c Connection) String() string {
	return fmt.Sprintf("%s (%s:%d)", c.Name, c.Host, c.Port)
}

// AuthDocument is served when the library asks for a password.
type AuthDocument struct {
	LibraryName string `json:"libraryName"`
	Password    string `json:"password"`
}

// Instance is one library instance found on the network.
type Instance struct {
	Address     string `json:"address"`
	Description string `json:"description"`
}

// Label is the text shown for the instance.
func (i Instance) Label() string {
	if i.Description == "" {
		return i.Address
	}
	return i.Description
}

// LibraryInfo lists the columns that can be used as a book subtitle.
// The agent puts "" (no subtitle) first.
type LibraryInfo struct {
	SubtitleFields []string `json:"subtitleFields"`
	CurrSel        int      `json:"currSel"`
}

// Selection returns CurrSel, or 0 when it does not index SubtitleFields.
func (l LibraryInfo) Selection() int {
	if l.CurrSel < 0 || l.CurrSel >= len(l.SubtitleFields) {
		return 0
	}
	return l.CurrSel
}

// FieldLabel is the display text for a subtitle field name.
func FieldLabel(name string) string {
	if name == "" {
		return "(none)"
	}
	return name
}

// Cycle returns the option delta steps away from current. A current value
// that is not one of the options moves to the first option.
func Cycle(options []string, current string, delta int) string {
	if len(options) == 0 {
		return current
	}
	idx := -1
	for i, o := range options {
		if o == current {
			idx = i
			break
		}
	}
	if idx < 0 {
		return options[0]
	}
	n := len(options)
	return options[((idx+delta)%n+n)%n]
}
