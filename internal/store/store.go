// Package store mirrors the agent's configuration document between a fetch
// and the next submit.
//
// The Store is replaced wholesale by every successful fetch. Edits made on
// the config panel (including connections added or deleted through the
// ConnectionList) stay local until Commit builds the document to submit.
package store

import (
	"strconv"
	"strings"

	"kuctl/internal/protocol"
	"kuctl/pkg/logging"
)

const subsystem = "Store"

// FormValues are the editable fields of the config panel as the user sees them.
type FormValues struct {
	PreferSDCard    bool
	PreferKepub     bool
	EnableDebug     bool
	ExcludeFormats  string
	GenerateLevel   string
	ResizeAlgorithm string
	JPEGQuality     string
}

// Store owns the in-memory configuration document.
type Store struct {
	doc    protocol.ConfigDocument
	conns  *ConnectionList
	loaded bool
}

// New returns an empty store. Loaded reports false until the first Load.
func New() *Store {
	s := &Store{}
	s.conns = newConnectionList(&s.doc.Opts.DirectConn, DirectSlot)
	return s
}

// Load replaces the document and rebuilds the connection list, restoring
// the selection from DirectConnIndex.
func (s *Store) Load(doc protocol.ConfigDocument) {
	s.doc = protocol.ConfigDocument{Opts: doc.Opts.Clone()}
	if s.doc.Opts.DirectConn == nil {
		s.doc.Opts.DirectConn = []protocol.Connection{}
	}

	sel := s.doc.Opts.DirectConnIndex + 1
	if sel < 0 || sel > len(s.doc.Opts.DirectConn) {
		logging.Warn(subsystem, "directConnIndex %d out of range for %d connections, selecting direct", s.doc.Opts.DirectConnIndex, len(s.doc.Opts.DirectConn))
		sel = DirectSlot
	}
	s.conns = newConnectionList(&s.doc.Opts.DirectConn, sel)
	s.loaded = true
}

// Loaded reports whether a document has been fetched.
func (s *Store) Loaded() bool {
	return s.loaded
}

// Connections is the list control for the saved connections.
func (s *Store) Connections() *ConnectionList {
	return s.conns
}

// Document returns a copy of the current document including unsubmitted
// connection edits.
func (s *Store) Document() protocol.ConfigDocument {
	doc := protocol.ConfigDocument{Opts: s.doc.Opts.Clone()}
	doc.Opts.DirectConnIndex = s.conns.DocumentIndex()
	return doc
}

// Form returns the field values the config panel shows for the document.
func (s *Store) Form() FormValues {
	o := s.doc.Opts
	return FormValues{
		PreferSDCard:    o.PreferSDCard,
		PreferKepub:     o.PreferKepub,
		EnableDebug:     o.EnableDebug,
		ExcludeFormats:  strings.Join(o.ExcludeFormats, ", "),
		GenerateLevel:   o.Thumbnail.GenerateLevel,
		ResizeAlgorithm: o.Thumbnail.ResizeAlgorithm,
		JPEGQuality:     strconv.Itoa(o.Thumbnail.JPEGQuality),
	}
}

// Commit reads the form back into the document and returns the document to
// submit. The quality is clamped, the exclude list normalized and the
// selection taken from the connection list.
func (s *Store) Commit(f FormValues) protocol.ConfigDocument {
	o := &s.doc.Opts
	o.PreferSDCard = f.PreferSDCard
	o.PreferKepub = f.PreferKepub
	o.EnableDebug = f.EnableDebug
	o.ExcludeFormats = NormalizeFormats(f.ExcludeFormats)
	o.Thumbnail.GenerateLevel = f.GenerateLevel
	o.Thumbnail.ResizeAlgorithm = f.ResizeAlgorithm
	o.Thumbnail.JPEGQuality = ClampQuality(f.JPEGQuality)
	o.DirectConnIndex = s.conns.DocumentIndex()
	return s.Document()
}

// ClampQuality parses a JPEG quality and keeps it within
// [protocol.MinJPEGQuality, protocol.MaxJPEGQuality]. Text that is not a
// number yields the minimum.
func ClampQuality(text string) int {
	q, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || q < protocol.MinJPEGQuality {
		return protocol.MinJPEGQuality
	}
	if q > protocol.MaxJPEGQuality {
		return protocol.MaxJPEGQuality
	}
	return q
}

// NormalizeFormats splits a comma separated list, trims every entry and
// drops empty ones. The result is never nil.
func NormalizeFormats(text string) []string {
	formats := []string{}
	for _, f := range strings.Split(text, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}
