package mux

import (
	"github.com/muxtab/muxtab/internal/layout"
)

// Gesture is the pointer interaction state. Drag and resize are mutually
// exclusive: the machine holds at most one of them at a time.
type Gesture int

const (
	GestureIdle Gesture = iota
	GestureDragging
	GestureResizing
)

// resizeState is the snapshot taken when a divider press starts a resize.
// Every subsequent move is computed from this snapshot, not incrementally,
// so out-of-order rounding cannot accumulate.
type resizeState struct {
	paneID       string
	axis         layout.Axis
	startPointer float64 // pointer coordinate along axis, in cells
	startSize    float64 // leading pane size at press time, in percent
	containerDim float64 // container extent along axis, in cells
}

// Interaction is the per-tab pointer gesture machine. It owns only transient
// gesture state; geometry changes leave it as (paneID, axis, newSize)
// results for the caller to turn into intents.
type Interaction struct {
	gesture    Gesture
	dragPaneID string
	resize     resizeState

	minPercent float64
	maxPercent float64
}

// NewInteraction creates an idle gesture machine with the given resize
// bounds (percent of the container).
func NewInteraction(minPercent, maxPercent float64) *Interaction {
	return &Interaction{
		gesture:    GestureIdle,
		minPercent: minPercent,
		maxPercent: maxPercent,
	}
}

// Gesture returns the current gesture state.
func (in *Interaction) Gesture() Gesture {
	return in.gesture
}

// SetBounds replaces the resize clamp bounds, e.g. after a settings reload.
func (in *Interaction) SetBounds(minPercent, maxPercent float64) {
	in.minPercent = minPercent
	in.maxPercent = maxPercent
}

// StartDrag records a press on a pane body. No geometry changes; the drag
// only identifies the pane until release.
func (in *Interaction) StartDrag(paneID string) {
	if in.gesture != GestureIdle {
		return
	}
	in.gesture = GestureDragging
	in.dragPaneID = paneID
}

// DragPaneID returns the pane under an active drag, or "".
func (in *Interaction) DragPaneID() string {
	if in.gesture != GestureDragging {
		return ""
	}
	return in.dragPaneID
}

// StartResize records a press on a divider. paneID is the pane on the
// leading side of the divider; startPointer and containerDim are in cells
// along axis; startSize is the pane's current extent in percent.
func (in *Interaction) StartResize(paneID string, axis layout.Axis, startPointer, startSize, containerDim float64) {
	if in.gesture != GestureIdle || containerDim <= 0 {
		return
	}
	in.gesture = GestureResizing
	in.resize = resizeState{
		paneID:       paneID,
		axis:         axis,
		startPointer: startPointer,
		startSize:    startSize,
		containerDim: containerDim,
	}
}

// ResizeAxis returns the axis of the active resize gesture.
func (in *Interaction) ResizeAxis() (layout.Axis, bool) {
	if in.gesture != GestureResizing {
		return 0, false
	}
	return in.resize.axis, true
}

// Move advances an active resize to the given pointer coordinate. It returns
// the leading pane id, the axis, and the new clamped size in percent. The
// clamp applies on every move, so no intermediate pointer position can
// produce an out-of-bounds size. ok is false outside a resize gesture.
func (in *Interaction) Move(pointer float64) (paneID string, axis layout.Axis, newSize float64, ok bool) {
	if in.gesture != GestureResizing {
		return "", 0, 0, false
	}

	deltaPercent := (pointer - in.resize.startPointer) / in.resize.containerDim * 100
	newSize = layout.Clamp(in.resize.startSize+deltaPercent, in.minPercent, in.maxPercent)
	return in.resize.paneID, in.resize.axis, newSize, true
}

// Release ends whatever gesture is active and clears all transient state,
// regardless of where the pointer landed.
func (in *Interaction) Release() {
	in.gesture = GestureIdle
	in.dragPaneID = ""
	in.resize = resizeState{}
}

// Command is a chord-resolved pane operation.
type Command int

const (
	CmdNone Command = iota
	CmdSplitHorizontal
	CmdSplitVertical
	CmdClosePane
	CmdNextPane
)

// chordTable maps the second key of a chord to its command.
var chordTable = map[string]Command{
	"%":  CmdSplitHorizontal,
	"\"": CmdSplitVertical,
	"x":  CmdClosePane,
	"o":  CmdNextPane,
}

// Chord is the two-state prefix-key machine: pressing the prefix arms it for
// exactly one following key. There is no timeout; the armed state persists
// until the next keypress resolves or disarms it.
type Chord struct {
	prefix string
	armed  bool
}

// NewChord creates a chord machine with the given prefix key (the string
// form bubbletea reports, e.g. "ctrl+b").
func NewChord(prefix string) *Chord {
	return &Chord{prefix: prefix}
}

// Armed reports whether the prefix has been pressed and the machine is
// waiting for the command key.
func (c *Chord) Armed() bool {
	return c.armed
}

// SetPrefix replaces the prefix key and disarms the machine.
func (c *Chord) SetPrefix(prefix string) {
	c.prefix = prefix
	c.armed = false
}

// HandleKey feeds one keypress through the machine. consumed reports whether
// the key belonged to the chord (and must not reach other handlers). The
// armed state is one-shot: any key after the prefix disarms, whether or not
// it resolved to a command. An unknown second key disarms silently.
func (c *Chord) HandleKey(key string) (cmd Command, consumed bool) {
	if !c.armed {
		if key == c.prefix {
			c.armed = true
			return CmdNone, true
		}
		return CmdNone, false
	}

	c.armed = false
	if cmd, ok := chordTable[key]; ok {
		return cmd, true
	}
	return CmdNone, true
}
