package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muxtab/muxtab/internal/layout"
	"github.com/muxtab/muxtab/internal/logger"
	"github.com/muxtab/muxtab/internal/session"
)

// paneRegion is a pane's rectangle mapped from percent space to terminal
// cells for the current window size.
type paneRegion struct {
	index int
	pane  *session.Pane
	x     int
	y     int
	w     int
	h     int
}

func (r paneRegion) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// paneArea returns the cell extent available to panes (the last row belongs
// to the status bar).
func (m *Model) paneArea() (w, h int) {
	h = m.height - 1
	if h < 0 {
		h = 0
	}
	return m.width, h
}

// paneRegions maps every positioned pane of the active tab into cells.
// Edges are computed independently per pane from the same percent values,
// so adjacent panes always meet without gaps after rounding.
func (m *Model) paneRegions() []paneRegion {
	tab := m.store.ActiveTab()
	if tab == nil {
		return nil
	}

	areaW, areaH := m.paneArea()
	regions := make([]paneRegion, 0, len(tab.Panes))
	for i, pane := range tab.Panes {
		if pane.Position == nil {
			continue
		}
		pos := pane.Position
		x1 := cellOf(pos.X, areaW)
		y1 := cellOf(pos.Y, areaH)
		x2 := cellOf(pos.X+pos.Width, areaW)
		y2 := cellOf(pos.Y+pos.Height, areaH)
		regions = append(regions, paneRegion{
			index: i,
			pane:  pane,
			x:     x1,
			y:     y1,
			w:     x2 - x1,
			h:     y2 - y1,
		})
	}
	return regions
}

func cellOf(percent float64, dim int) int {
	c := int(percent/100*float64(dim) + 0.5)
	if c < 0 {
		c = 0
	}
	if c > dim {
		c = dim
	}
	return c
}

// handleMouse drives the gesture machine. Bubbletea delivers every mouse
// event to the program regardless of position, so releases are never lost
// to another component.
func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.terminalTooSmall {
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.handleMousePress(msg.X, msg.Y)
		}

	case tea.MouseActionMotion:
		m.handleMouseMotion(msg.X, msg.Y)

	case tea.MouseActionRelease:
		// Wherever the pointer landed, the gesture ends and all transient
		// state clears.
		m.interaction.Release()
	}

	return m, nil
}

// handleMousePress starts a gesture: a divider press begins a resize, a
// body press focuses the pane and begins a drag.
func (m *Model) handleMousePress(x, y int) {
	regions := m.paneRegions()

	if lead, axis, ok := m.dividerAt(regions, x, y); ok {
		pos := lead.pane.Position
		areaW, areaH := m.paneArea()
		if axis == layout.AxisHorizontal {
			m.interaction.StartResize(lead.pane.ID, axis, float64(x), pos.Width, float64(areaW))
		} else {
			m.interaction.StartResize(lead.pane.ID, axis, float64(y), pos.Height, float64(areaH))
		}
		logger.Debug("tui: resize started", "pane_id", lead.pane.ID)
		return
	}

	for _, r := range regions {
		if r.contains(x, y) {
			m.interaction.StartDrag(r.pane.ID)
			if err := m.dispatcher.SwitchPane(m.store.View(), r.pane.ID); err != nil {
				logger.Debug("tui: focus click dropped", "pane_id", r.pane.ID, "error", err)
			}
			return
		}
	}
}

// dividerAt finds the pane whose trailing edge sits under the pointer. The
// divider between pane i and pane i+1 belongs to pane i. Hits register on
// the border cells either side of the shared edge. Grid cells do not expose
// dividers; grid geometry is always engine-computed.
func (m *Model) dividerAt(regions []paneRegion, x, y int) (paneRegion, layout.Axis, bool) {
	tab := m.store.ActiveTab()
	if tab == nil || len(regions) < 2 {
		return paneRegion{}, 0, false
	}

	switch tab.Layout {
	case layout.ModeHorizontal:
		for i := 0; i < len(regions)-1; i++ {
			r := regions[i]
			edge := r.x + r.w
			if (x == edge-1 || x == edge) && y >= r.y && y < r.y+r.h {
				return r, layout.AxisHorizontal, true
			}
		}

	case layout.ModeVertical:
		for i := 0; i < len(regions)-1; i++ {
			r := regions[i]
			edge := r.y + r.h
			if (y == edge-1 || y == edge) && x >= r.x && x < r.x+r.w {
				return r, layout.AxisVertical, true
			}
		}
	}

	return paneRegion{}, 0, false
}

// handleMouseMotion advances an active resize. Each move re-clamps from the
// press snapshot and lands as two position intents, one per pane sharing
// the moved edge; drags track nothing until release.
func (m *Model) handleMouseMotion(x, y int) {
	resizeAxis, resizing := m.interaction.ResizeAxis()
	if !resizing {
		return
	}

	pointer := float64(x)
	if resizeAxis == layout.AxisVertical {
		pointer = float64(y)
	}

	paneID, axis, newSize, ok := m.interaction.Move(pointer)
	if !ok {
		return
	}

	tab := m.store.ActiveTab()
	if tab == nil {
		return
	}
	idx := tab.PaneIndex(paneID)
	if idx < 0 || idx+1 >= len(tab.Panes) {
		logger.Debug("tui: resize move dropped", "pane_id", paneID, "reason", "no following pane")
		return
	}
	lead, follow := tab.Panes[idx], tab.Panes[idx+1]
	if lead.Position == nil || follow.Position == nil {
		return
	}

	newLead, newFollow := layout.ResizePair(*lead.Position, *follow.Position, axis,
		newSize, m.settings.MinPanePercent, m.settings.MaxPanePercent)

	view := m.store.View()
	if err := m.dispatcher.UpdatePanePosition(view, lead.ID, newLead); err != nil {
		logger.Debug("tui: resize move dropped", "pane_id", lead.ID, "error", err)
		return
	}
	if err := m.dispatcher.UpdatePanePosition(view, follow.ID, newFollow); err != nil {
		logger.Debug("tui: resize move dropped", "pane_id", follow.ID, "error", err)
	}
}
