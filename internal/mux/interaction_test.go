package mux

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muxtab/muxtab/internal/layout"
)

func TestInteraction_DragLifecycle(t *testing.T) {
	in := NewInteraction(10, 90)
	assert.Equal(t, GestureIdle, in.Gesture())

	in.StartDrag("pane-a")
	assert.Equal(t, GestureDragging, in.Gesture())
	assert.Equal(t, "pane-a", in.DragPaneID())

	// Dragging records the pane only; moves produce no resize output.
	_, _, _, ok := in.Move(42)
	assert.False(t, ok)

	in.Release()
	assert.Equal(t, GestureIdle, in.Gesture())
	assert.Equal(t, "", in.DragPaneID())
}

func TestInteraction_GesturesMutuallyExclusive(t *testing.T) {
	in := NewInteraction(10, 90)

	in.StartDrag("pane-a")
	in.StartResize("pane-b", layout.AxisHorizontal, 0, 50, 200)
	assert.Equal(t, GestureDragging, in.Gesture(), "resize must not preempt an active drag")

	in.Release()
	in.StartResize("pane-b", layout.AxisHorizontal, 0, 50, 200)
	in.StartDrag("pane-a")
	assert.Equal(t, GestureResizing, in.Gesture(), "drag must not preempt an active resize")
}

func TestInteraction_ResizeDeltaMath(t *testing.T) {
	// Container 200 cells wide, pane at 50%. Moving the pointer 60 cells
	// right is +30%, so the pane grows to 80%.
	in := NewInteraction(10, 90)
	in.StartResize("pane-a", layout.AxisHorizontal, 100, 50, 200)

	paneID, axis, newSize, ok := in.Move(160)
	require.True(t, ok)
	assert.Equal(t, "pane-a", paneID)
	assert.Equal(t, layout.AxisHorizontal, axis)
	assert.InDelta(t, 80, newSize, 1e-9)
}

func TestInteraction_ResizeClampEveryMove(t *testing.T) {
	in := NewInteraction(10, 90)
	in.StartResize("pane-a", layout.AxisVertical, 0, 50, 100)

	// A wild pointer excursion clamps at the ceiling...
	_, _, size, ok := in.Move(500)
	require.True(t, ok)
	assert.InDelta(t, 90, size, 1e-9)

	// ...and the floor, on the very move it happens.
	_, _, size, ok = in.Move(-500)
	require.True(t, ok)
	assert.InDelta(t, 10, size, 1e-9)

	// Back in range, sizes track the snapshot again.
	_, _, size, ok = in.Move(10)
	require.True(t, ok)
	assert.InDelta(t, 60, size, 1e-9)
}

func TestInteraction_MovesComputedFromSnapshot(t *testing.T) {
	in := NewInteraction(10, 90)
	in.StartResize("pane-a", layout.AxisHorizontal, 100, 40, 100)

	// Two moves to the same pointer position give the same size; deltas are
	// absolute against the press snapshot, never incremental.
	_, _, first, _ := in.Move(120)
	in.Move(150)
	_, _, again, _ := in.Move(120)
	assert.Equal(t, first, again)
}

func TestInteraction_ReleaseClearsResize(t *testing.T) {
	in := NewInteraction(10, 90)
	in.StartResize("pane-a", layout.AxisHorizontal, 100, 50, 200)
	in.Release()

	assert.Equal(t, GestureIdle, in.Gesture())
	_, _, _, ok := in.Move(160)
	assert.False(t, ok, "moves after release must be ignored")
}

func TestInteraction_ZeroContainerIgnored(t *testing.T) {
	in := NewInteraction(10, 90)
	in.StartResize("pane-a", layout.AxisHorizontal, 0, 50, 0)
	assert.Equal(t, GestureIdle, in.Gesture())
}

func TestChord_ResolvesCommands(t *testing.T) {
	tests := []struct {
		key string
		cmd Command
	}{
		{"%", CmdSplitHorizontal},
		{"\"", CmdSplitVertical},
		{"x", CmdClosePane},
		{"o", CmdNextPane},
	}

	for _, tt := range tests {
		c := NewChord("ctrl+b")

		cmd, consumed := c.HandleKey("ctrl+b")
		require.True(t, consumed)
		require.Equal(t, CmdNone, cmd)
		require.True(t, c.Armed())

		cmd, consumed = c.HandleKey(tt.key)
		assert.True(t, consumed)
		assert.Equal(t, tt.cmd, cmd, "key %q", tt.key)
		assert.False(t, c.Armed(), "chord must disarm after resolving")
	}
}

func TestChord_OneShot(t *testing.T) {
	c := NewChord("ctrl+b")
	c.HandleKey("ctrl+b")
	c.HandleKey("%")

	// The next command key without a fresh prefix passes through untouched.
	cmd, consumed := c.HandleKey("x")
	assert.Equal(t, CmdNone, cmd)
	assert.False(t, consumed)
}

func TestChord_UnknownKeyDisarmsSilently(t *testing.T) {
	c := NewChord("ctrl+b")
	c.HandleKey("ctrl+b")

	cmd, consumed := c.HandleKey("q")
	assert.Equal(t, CmdNone, cmd)
	assert.True(t, consumed, "the disarming key is swallowed")
	assert.False(t, c.Armed())
}

func TestChord_PrefixWhileArmedDisarms(t *testing.T) {
	c := NewChord("ctrl+b")
	c.HandleKey("ctrl+b")

	// The prefix is not in the command table, so pressing it again disarms
	// rather than re-arming.
	cmd, consumed := c.HandleKey("ctrl+b")
	assert.Equal(t, CmdNone, cmd)
	assert.True(t, consumed)
	assert.False(t, c.Armed())
}

func TestChord_NonPrefixKeysPassThrough(t *testing.T) {
	c := NewChord("ctrl+b")

	for _, key := range []string{"a", "%", "enter", "x"} {
		cmd, consumed := c.HandleKey(key)
		assert.Equal(t, CmdNone, cmd)
		assert.False(t, consumed, "key %q must pass through when disarmed", key)
	}
}

func TestChord_SetPrefixDisarms(t *testing.T) {
	c := NewChord("ctrl+b")
	c.HandleKey("ctrl+b")
	require.True(t, c.Armed())

	c.SetPrefix("ctrl+a")
	assert.False(t, c.Armed())

	_, consumed := c.HandleKey("ctrl+b")
	assert.False(t, consumed, "old prefix must no longer arm")
	_, consumed = c.HandleKey("ctrl+a")
	assert.True(t, consumed)
	assert.True(t, c.Armed())
}
