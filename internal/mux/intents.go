// Package mux contains the multiplexing core: intent dispatch, pointer and
// chord interaction state machines, and deferred terminal-surface binding.
// Nothing in this package mutates the pane collection; state changes flow as
// intents to the owning store.
package mux

import (
	"errors"
	"log/slog"

	"github.com/muxtab/muxtab/internal/layout"
)

var (
	// ErrUnknownPane is returned when an intent references a pane id that is
	// not a member of the current tab. The intent is dropped.
	ErrUnknownPane = errors.New("unknown pane reference")

	// ErrLastPane is returned when closing the only remaining pane of a tab.
	// The close is refused; a tab never goes empty.
	ErrLastPane = errors.New("cannot close last pane")

	// ErrNoActivePane is returned when an operation needs an active pane and
	// the tab has none.
	ErrNoActivePane = errors.New("no active pane")

	// ErrUnknownMode is returned for a layout mode outside the known set.
	ErrUnknownMode = errors.New("unknown layout mode")
)

// Intent is a requested mutation of the pane collection. Intents carry no
// references into store state, only ids and values.
type Intent interface {
	isIntent()
}

// SwitchPane makes the referenced pane active.
type SwitchPane struct {
	PaneID string
}

// SplitPane adds a new pane derived from the active one along the given axis.
type SplitPane struct {
	Axis layout.Axis
}

// ClosePane removes the referenced pane.
type ClosePane struct {
	PaneID string
}

// SetLayout switches the tab's layout mode and forces a full recomputation.
type SetLayout struct {
	Mode layout.Mode
}

// UpdatePanePosition patches a single pane's geometry. Emitted by layout
// recomputation (for every pane) and by manual resize (for the two panes
// sharing the moved edge).
type UpdatePanePosition struct {
	PaneID string
	Rect   layout.Rect
}

func (SwitchPane) isIntent()         {}
func (SplitPane) isIntent()          {}
func (ClosePane) isIntent()          {}
func (SetLayout) isIntent()          {}
func (UpdatePanePosition) isIntent() {}

// TabView is the read-only view of a tab the dispatcher validates against.
type TabView interface {
	HasPane(id string) bool
	PaneCount() int
	ActivePaneID() string
}

// Sink receives validated intents. The owning store is the only implementor
// that mutates anything.
type Sink interface {
	Apply(intent Intent) error
}

// Dispatcher validates operations against a tab view and emits intents to
// the sink. It holds no pane state of its own. Validation failures are
// logged and swallowed: a stale click or a close on the last pane is an
// expected no-op, not a fault.
type Dispatcher struct {
	sink   Sink
	logger *slog.Logger
}

// NewDispatcher creates a dispatcher emitting to sink.
func NewDispatcher(sink Sink, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{sink: sink, logger: logger}
}

// SwitchPane activates the pane with the given id. An unknown id is dropped.
func (d *Dispatcher) SwitchPane(view TabView, id string) error {
	if !view.HasPane(id) {
		d.logger.Debug("SwitchPane dropped", "pane_id", id, "reason", "unknown pane")
		return ErrUnknownPane
	}
	return d.sink.Apply(SwitchPane{PaneID: id})
}

// SplitPane requests a new pane next to the active one.
func (d *Dispatcher) SplitPane(view TabView, axis layout.Axis) error {
	if view.ActivePaneID() == "" {
		d.logger.Debug("SplitPane dropped", "reason", "no active pane")
		return ErrNoActivePane
	}
	return d.sink.Apply(SplitPane{Axis: axis})
}

// ClosePane requests removal of the pane with the given id. Closing the last
// pane is refused before any intent is emitted.
func (d *Dispatcher) ClosePane(view TabView, id string) error {
	if !view.HasPane(id) {
		d.logger.Debug("ClosePane dropped", "pane_id", id, "reason", "unknown pane")
		return ErrUnknownPane
	}
	if view.PaneCount() <= 1 {
		d.logger.Debug("ClosePane refused", "pane_id", id, "reason", "last pane")
		return ErrLastPane
	}
	return d.sink.Apply(ClosePane{PaneID: id})
}

// CloseActivePane closes whichever pane is currently active.
func (d *Dispatcher) CloseActivePane(view TabView) error {
	id := view.ActivePaneID()
	if id == "" {
		return ErrNoActivePane
	}
	return d.ClosePane(view, id)
}

// SetLayout switches the tab's layout mode.
func (d *Dispatcher) SetLayout(view TabView, mode layout.Mode) error {
	if !mode.Valid() {
		d.logger.Debug("SetLayout dropped", "mode", string(mode), "reason", "unknown mode")
		return ErrUnknownMode
	}
	return d.sink.Apply(SetLayout{Mode: mode})
}

// UpdatePanePosition patches a pane's geometry.
func (d *Dispatcher) UpdatePanePosition(view TabView, id string, rect layout.Rect) error {
	if !view.HasPane(id) {
		d.logger.Debug("UpdatePanePosition dropped", "pane_id", id, "reason", "unknown pane")
		return ErrUnknownPane
	}
	return d.sink.Apply(UpdatePanePosition{PaneID: id, Rect: rect})
}
