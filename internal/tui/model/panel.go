package model

// Panel identifies one of the fixed set of panels kuctl can show.
type Panel int

const (
	PanelNone Panel = iota
	PanelConfig
	PanelMessage
	PanelAuth
	PanelInstances
	PanelLibraryInfo
	PanelConnEditor
	PanelFinished
)

func (p Panel) String() string {
	switch p {
	case PanelNone:
		return "none"
	case PanelConfig:
		return "config"
	case PanelMessage:
		return "message"
	case PanelAuth:
		return "auth"
	case PanelInstances:
		return "instance-list"
	case PanelLibraryInfo:
		return "library-info"
	case PanelConnEditor:
		return "connection-editor"
	case PanelFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// PanelRef names a particular showing of a panel. Two refs to the same
// panel differ when the panel was left and shown again in between.
type PanelRef struct {
	Panel      Panel
	Generation int
}

// PanelController holds the single visible panel. Switching is one
// assignment, so two panels can never be visible at once.
type PanelController struct {
	current    Panel
	generation int
}

// Current returns the visible panel.
func (c *PanelController) Current() Panel {
	return c.current
}

// Ref returns a reference to the current showing.
func (c *PanelController) Ref() PanelRef {
	return PanelRef{Panel: c.current, Generation: c.generation}
}

// IsCurrent reports whether ref still names the visible showing.
func (c *PanelController) IsCurrent(ref PanelRef) bool {
	return c.current == ref.Panel && c.generation == ref.Generation
}

// Finished reports whether the terminal panel has been reached.
func (c *PanelController) Finished() bool {
	return c.current == PanelFinished
}

// Show makes p the visible panel. Re-showing the visible panel keeps its
// generation. It does nothing once finished and returns whether the
// panel changed.
func (c *PanelController) Show(p Panel) bool {
	if c.Finished() || c.current == p {
		return false
	}
	c.current = p
	c.generation++
	return true
}

// Rerender starts a new showing of the visible panel, used when it is
// filled with newly fetched content. Refs taken before no longer match.
func (c *PanelController) Rerender() {
	if c.Finished() || c.current == PanelNone {
		return
	}
	c.generation++
}

// HideAll returns to the resting state with no panel visible.
func (c *PanelController) HideAll() bool {
	return c.Show(PanelNone)
}

// Finish enters the terminal panel. No later call leaves it.
func (c *PanelController) Finish() {
	c.Show(PanelFinished)
}
