// Package layout computes pane geometry in percentage space. All values are
// percentages of the containing tab (0-100); mapping to terminal cells happens
// at render time, never here.
package layout

import "math"

// Mode selects how panes are arranged within a tab.
type Mode string

const (
	ModeHorizontal Mode = "horizontal"
	ModeVertical   Mode = "vertical"
	ModeGrid       Mode = "grid"
)

// Valid reports whether m names a known layout mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeHorizontal, ModeVertical, ModeGrid:
		return true
	}
	return false
}

// Rect is a pane position in percentage coordinates: X/Y locate the top-left
// corner, Width/Height the extent, all relative to the tab container.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// GridDims returns the column and row counts used by grid mode for n panes:
// cols = ceil(sqrt(n)), rows = ceil(n/cols). The grid is never taller than it
// is wide for any n.
func GridDims(n int) (cols, rows int) {
	if n <= 0 {
		return 0, 0
	}
	cols = int(math.Ceil(math.Sqrt(float64(n))))
	rows = (n + cols - 1) / cols
	return cols, rows
}

// Compute returns one Rect per pane for n panes under mode. Results are
// deterministic and depend only on (mode, n), so recomputation after any
// topology change is idempotent. An incomplete last grid row stays
// left-packed with the same cell width as full rows.
func Compute(mode Mode, n int) []Rect {
	if n <= 0 {
		return nil
	}

	rects := make([]Rect, n)
	switch mode {
	case ModeVertical:
		height := 100.0 / float64(n)
		for i := range rects {
			rects[i] = Rect{
				X:      0,
				Y:      float64(i) * height,
				Width:  100,
				Height: height,
			}
		}

	case ModeGrid:
		cols, rows := GridDims(n)
		cellWidth := 100.0 / float64(cols)
		cellHeight := 100.0 / float64(rows)
		for i := range rects {
			col := i % cols
			row := i / cols
			rects[i] = Rect{
				X:      float64(col) * cellWidth,
				Y:      float64(row) * cellHeight,
				Width:  cellWidth,
				Height: cellHeight,
			}
		}

	default:
		// Horizontal is the fallback for unknown modes so a corrupted
		// persisted layout still renders something usable.
		width := 100.0 / float64(n)
		for i := range rects {
			rects[i] = Rect{
				X:      float64(i) * width,
				Y:      0,
				Width:  width,
				Height: 100,
			}
		}
	}

	return rects
}

// Axis identifies the dimension a manual resize operates on.
type Axis int

const (
	AxisHorizontal Axis = iota // adjusting widths (vertical divider)
	AxisVertical               // adjusting heights (horizontal divider)
)

// ResizePair adjusts the shared edge between a pane and its following
// neighbour along axis. newSize is the desired size of the leading pane in
// percent; it is clamped to [minPercent, maxPercent] and the neighbour
// absorbs the difference so the pair still covers its original span. The
// clamp binds both sides: the lead may not squeeze the neighbour below
// minPercent while the pair has room for both. The returned rects replace
// the inputs; the inputs are not modified.
func ResizePair(lead, follow Rect, axis Axis, newSize, minPercent, maxPercent float64) (Rect, Rect) {
	if axis == AxisHorizontal {
		size := pairSize(newSize, lead.Width+follow.Width, minPercent, maxPercent)
		follow.Width = lead.Width + follow.Width - size
		lead.Width = size
		follow.X = lead.X + size
		return lead, follow
	}

	size := pairSize(newSize, lead.Height+follow.Height, minPercent, maxPercent)
	follow.Height = lead.Height + follow.Height - size
	lead.Height = size
	follow.Y = lead.Y + size
	return lead, follow
}

// pairSize clamps the leading pane's requested size against the bounds and
// the pair's span. When the span can hold two panes at the floor, the lead
// is capped at span-minPercent so the follower never goes degenerate.
func pairSize(newSize, span, minPercent, maxPercent float64) float64 {
	size := Clamp(newSize, minPercent, maxPercent)
	if limit := span - minPercent; span >= 2*minPercent && size > limit {
		return limit
	}
	if size > span {
		return span
	}
	return size
}

// Clamp bounds v to [min, max].
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
