package session

import (
	"github.com/rs/xid"

	"github.com/muxtab/muxtab/internal/layout"
)

// Pane represents a single terminal pane within a tab. The ID is assigned at
// creation and never changes; TerminalID stays empty until a terminal surface
// is bound to the pane and is immutable once set.
type Pane struct {
	ID         string       `json:"id"`
	TerminalID string       `json:"terminal_id,omitempty"`
	Title      string       `json:"title"`
	Position   *layout.Rect `json:"position,omitempty"` // nil until first layout pass
}

// NewPane creates a new pane with a generated ID. The title defaults to a
// short form of the ID until the user renames it.
func NewPane() *Pane {
	id := xid.New().String()
	return &Pane{
		ID:    id,
		Title: shortID(id),
	}
}

// Bound reports whether a terminal surface has been attached to the pane.
func (p *Pane) Bound() bool {
	return p.TerminalID != ""
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[len(id)-8:]
}

// TerminalTab groups an ordered set of panes under one layout mode. Pane
// order is semantic: it drives next-pane cycling and grid cell assignment.
// ActivePaneID always names a member of Panes while the tab has any.
type TerminalTab struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Panes        []*Pane     `json:"panes"`
	ActivePaneID string      `json:"active_pane_id"`
	Layout       layout.Mode `json:"layout"`
	Position     int         `json:"position"`
}

// NewTerminalTab creates a tab with a single pane, which starts active.
func NewTerminalTab(title string, mode layout.Mode) *TerminalTab {
	pane := NewPane()
	return &TerminalTab{
		ID:           xid.New().String(),
		Title:        title,
		Panes:        []*Pane{pane},
		ActivePaneID: pane.ID,
		Layout:       mode,
	}
}

// Pane returns the pane with the given id, or nil.
func (t *TerminalTab) Pane(id string) *Pane {
	for _, p := range t.Panes {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// PaneIndex returns the position of the pane with the given id in pane
// order, or -1.
func (t *TerminalTab) PaneIndex(id string) int {
	for i, p := range t.Panes {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// ActivePane returns the currently active pane, or nil for an empty tab.
func (t *TerminalTab) ActivePane() *Pane {
	return t.Pane(t.ActivePaneID)
}

// NextPaneID returns the id of the pane after the active one, wrapping
// around pane order.
func (t *TerminalTab) NextPaneID() string {
	if len(t.Panes) == 0 {
		return ""
	}
	idx := t.PaneIndex(t.ActivePaneID)
	if idx < 0 {
		return t.Panes[0].ID
	}
	return t.Panes[(idx+1)%len(t.Panes)].ID
}

// Recompute runs the layout engine over the tab's panes, rewriting every
// pane position. Manual resize overrides do not survive this.
func (t *TerminalTab) Recompute() {
	rects := layout.Compute(t.Layout, len(t.Panes))
	for i, p := range t.Panes {
		r := rects[i]
		p.Position = &r
	}
}
