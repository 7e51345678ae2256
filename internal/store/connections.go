package store

import (
	"strconv"
	"strings"

	"kuctl/internal/protocol"
)

// DirectSlot is the list position of the synthetic "direct" option. It stands
// for "no saved connection selected".
const DirectSlot = 0

// DirectSlotLabel is the option text for DirectSlot.
const DirectSlotLabel = "Direct connection"

// ValidationError rejects a connection before anything is changed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Reason
}

// ConnectionList is the list control over the document's saved connections.
// Option i+1 always shows connection i; option 0 is the direct slot.
type ConnectionList struct {
	conns    *[]protocol.Connection
	options  []string
	selected int
}

func newConnectionList(conns *[]protocol.Connection, selected int) *ConnectionList {
	l := &ConnectionList{conns: conns}
	l.options = make([]string, 0, len(*conns)+1)
	l.options = append(l.options, DirectSlotLabel)
	for _, c := range *conns {
		l.options = append(l.options, c.String())
	}
	l.Select(selected)
	return l
}

// Options returns the option labels, direct slot first.
func (l *ConnectionList) Options() []string {
	return append([]string(nil), l.options...)
}

// Len is the number of options including the direct slot.
func (l *ConnectionList) Len() int {
	return len(l.options)
}

// Selected is the position of the selected option.
func (l *ConnectionList) Selected() int {
	return l.selected
}

// Select moves the selection, falling back to the direct slot when i is out of range.
func (l *ConnectionList) Select(i int) {
	if i < 0 || i >= len(l.options) {
		i = DirectSlot
	}
	l.selected = i
}

// Move shifts the selection by delta, stopping at either end.
func (l *ConnectionList) Move(delta int) {
	i := l.selected + delta
	if i < 0 {
		i = 0
	}
	if i >= len(l.options) {
		i = len(l.options) - 1
	}
	l.selected = i
}

// SelectedConnection returns the selected saved connection, if any.
func (l *ConnectionList) SelectedConnection() (protocol.Connection, bool) {
	if l.selected == DirectSlot {
		return protocol.Connection{}, false
	}
	return (*l.conns)[l.selected-1], true
}

// CanDelete reports whether the delete control is enabled.
func (l *ConnectionList) CanDelete() bool {
	return l.selected != DirectSlot
}

// DocumentIndex is the selection as stored in the document (-1 for direct).
func (l *ConnectionList) DocumentIndex() int {
	return l.selected - 1
}

// Add appends a connection and selects it. Nothing changes if a field is
// empty or the port is not a valid TCP port.
func (l *ConnectionList) Add(name, host, port string) (protocol.Connection, error) {
	name = strings.TrimSpace(name)
	host = strings.TrimSpace(host)
	port = strings.TrimSpace(port)

	switch {
	case name == "":
		return protocol.Connection{}, &ValidationError{Field: "name", Reason: "is required"}
	case host == "":
		return protocol.Connection{}, &ValidationError{Field: "host", Reason: "is required"}
	case port == "":
		return protocol.Connection{}, &ValidationError{Field: "port", Reason: "is required"}
	}
	p, err := strconv.Atoi(port)
	if err != nil || p <= 0 || p > 65535 {
		return protocol.Connection{}, &ValidationError{Field: "port", Reason: "must be a number between 1 and 65535"}
	}

	c := protocol.Connection{Name: name, Host: host, Port: p}
	*l.conns = append(*l.conns, c)
	l.options = append(l.options, c.String())
	l.selected = len(l.options) - 1
	return c, nil
}

// Delete removes the selected connection and selects whatever now occupies
// its position, or the last option when it was at the end. It does nothing
// on the direct slot.
func (l *ConnectionList) Delete() bool {
	if l.selected == DirectSlot {
		return false
	}
	i := l.selected
	conns := *l.conns
	*l.conns = append(conns[:i-1:i-1], conns[i:]...)
	l.options = append(l.options[:i:i], l.options[i+1:]...)
	if i >= len(l.options) {
		i = len(l.options) - 1
	}
	l.selected = i
	return true
}

// consistent reports whether options and connections are still in lockstep.
func (l *ConnectionList) consistent() bool {
	if len(l.options) != len(*l.conns)+1 || l.options[0] != DirectSlotLabel {
		return false
	}
	for i, c := range *l.conns {
		if l.options[i+1] != c.String() {
			return false
		}
	}
	return l.selected >= 0 && l.selected < len(l.options)
}
