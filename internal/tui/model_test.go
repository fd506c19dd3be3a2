package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muxtab/muxtab/internal/config"
	"github.com/muxtab/muxtab/internal/layout"
	"github.com/muxtab/muxtab/internal/session"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()

	t.Setenv("MUXTAB_DATA_DIR", t.TempDir())

	store := session.NewStore(nil, nil)
	require.NoError(t, store.Load(layout.ModeHorizontal))

	settings := config.DefaultSettings()
	settings.BindDelay = 10 * time.Millisecond

	m := NewModel(store, settings)
	t.Cleanup(m.binder.CancelAll)

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 31})
	return m
}

func keyMsg(s string) tea.KeyMsg {
	if s == "ctrl+b" {
		return tea.KeyMsg{Type: tea.KeyCtrlB}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func motion(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}
}

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone}
}

func TestModel_ChordSplitAddsExactlyOnePane(t *testing.T) {
	m := newTestModel(t)

	m.Update(keyMsg("ctrl+b"))
	assert.True(t, m.chord.Armed())
	m.Update(keyMsg("%"))

	tab := m.store.ActiveTab()
	assert.Len(t, tab.Panes, 2)
	assert.Equal(t, layout.ModeHorizontal, tab.Layout)
	assert.False(t, m.chord.Armed())

	// The chord is one-shot: a bare "%" without a fresh prefix is inert.
	m.Update(keyMsg("%"))
	assert.Len(t, m.store.ActiveTab().Panes, 2)
}

func TestModel_ChordSplitVertical(t *testing.T) {
	m := newTestModel(t)

	m.Update(keyMsg("ctrl+b"))
	m.Update(keyMsg("\""))

	tab := m.store.ActiveTab()
	assert.Len(t, tab.Panes, 2)
	assert.Equal(t, layout.ModeVertical, tab.Layout)
}

func TestModel_ChordCloseRespectsLastPane(t *testing.T) {
	m := newTestModel(t)

	m.Update(keyMsg("ctrl+b"))
	m.Update(keyMsg("x"))
	assert.Len(t, m.store.ActiveTab().Panes, 1, "the last pane survives a close chord")

	m.Update(keyMsg("ctrl+b"))
	m.Update(keyMsg("%"))
	m.Update(keyMsg("ctrl+b"))
	m.Update(keyMsg("x"))
	assert.Len(t, m.store.ActiveTab().Panes, 1)
}

func TestModel_ChordNextPaneCycles(t *testing.T) {
	m := newTestModel(t)
	m.Update(keyMsg("ctrl+b"))
	m.Update(keyMsg("%"))

	tab := m.store.ActiveTab()
	first, second := tab.Panes[0].ID, tab.Panes[1].ID
	require.Equal(t, second, tab.ActivePaneID)

	m.Update(keyMsg("ctrl+b"))
	m.Update(keyMsg("o"))
	assert.Equal(t, first, m.store.ActiveTab().ActivePaneID)

	m.Update(keyMsg("ctrl+b"))
	m.Update(keyMsg("o"))
	assert.Equal(t, second, m.store.ActiveTab().ActivePaneID)
}

func TestModel_ChordUnknownKeyIsSilentNoop(t *testing.T) {
	m := newTestModel(t)

	m.Update(keyMsg("ctrl+b"))
	m.Update(keyMsg("z"))

	assert.Len(t, m.store.ActiveTab().Panes, 1)
	assert.False(t, m.chord.Armed())
}

func TestModel_ArmedChordSwallowsCtrlC(t *testing.T) {
	m := newTestModel(t)

	m.Update(keyMsg("ctrl+b"))
	require.True(t, m.chord.Armed())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Nil(t, cmd, "ctrl+c after the prefix must disarm, not quit")
	assert.False(t, m.chord.Armed())
}

func TestModel_ChordShadowsNormalBindings(t *testing.T) {
	m := newTestModel(t)

	// "1" normally switches layout; armed, it reaches the chord instead
	// and disarms without effect.
	m.Update(keyMsg("3"))
	require.Equal(t, layout.ModeGrid, m.store.ActiveTab().Layout)

	m.Update(keyMsg("ctrl+b"))
	m.Update(keyMsg("1"))
	assert.Equal(t, layout.ModeGrid, m.store.ActiveTab().Layout)
}

func TestModel_LayoutKeys(t *testing.T) {
	m := newTestModel(t)
	m.Update(keyMsg("ctrl+b"))
	m.Update(keyMsg("%"))
	m.Update(keyMsg("ctrl+b"))
	m.Update(keyMsg("%"))

	m.Update(keyMsg("3"))
	tab := m.store.ActiveTab()
	assert.Equal(t, layout.ModeGrid, tab.Layout)
	assert.InDelta(t, 50, tab.Panes[0].Position.Width, 1e-9)

	m.Update(keyMsg("2"))
	assert.Equal(t, layout.ModeVertical, m.store.ActiveTab().Layout)

	m.Update(keyMsg("1"))
	assert.Equal(t, layout.ModeHorizontal, m.store.ActiveTab().Layout)
}

func TestModel_WindowResizeKeepsPercentGeometry(t *testing.T) {
	m := newTestModel(t)
	m.Update(keyMsg("ctrl+b"))
	m.Update(keyMsg("%"))

	before := *m.store.ActiveTab().Panes[0].Position
	regionsBefore := m.paneRegions()

	m.Update(tea.WindowSizeMsg{Width: 200, Height: 61})

	assert.Equal(t, before, *m.store.ActiveTab().Panes[0].Position, "percent geometry is window-independent")
	regionsAfter := m.paneRegions()
	assert.NotEqual(t, regionsBefore[0].w, regionsAfter[0].w, "cell mapping tracks the window")
	assert.Equal(t, 100, regionsAfter[0].w)
}

func TestModel_PaneRegionsPartitionArea(t *testing.T) {
	m := newTestModel(t)
	m.Update(keyMsg("ctrl+b"))
	m.Update(keyMsg("%"))
	m.Update(keyMsg("3")) // grid, 2 panes

	regions := m.paneRegions()
	require.Len(t, regions, 2)

	areaW, areaH := m.paneArea()
	assert.Equal(t, areaW, regions[0].w+regions[1].w)
	for _, r := range regions {
		assert.Equal(t, areaH, r.h)
	}
}

func TestModel_MousePressFocusesPane(t *testing.T) {
	m := newTestModel(t)
	m.Update(keyMsg("ctrl+b"))
	m.Update(keyMsg("%"))

	tab := m.store.ActiveTab()
	first := tab.Panes[0].ID
	require.NotEqual(t, first, tab.ActivePaneID)

	m.Update(press(10, 5))
	assert.Equal(t, first, m.store.ActiveTab().ActivePaneID)

	m.Update(release(10, 5))
	assert.Equal(t, "", m.interaction.DragPaneID())
}

func TestModel_DividerDragResizesPanePair(t *testing.T) {
	m := newTestModel(t)
	m.Update(keyMsg("ctrl+b"))
	m.Update(keyMsg("%"))

	tab := m.store.ActiveTab()
	require.InDelta(t, 50, tab.Panes[0].Position.Width, 1e-9)

	// Area is 100 cells wide; the divider sits at column 50. Dragging 30
	// cells right is +30%.
	m.Update(press(50, 5))
	m.Update(motion(80, 5))

	assert.InDelta(t, 80, tab.Panes[0].Position.Width, 1e-9)
	assert.InDelta(t, 80, tab.Panes[1].Position.X, 1e-9)
	assert.InDelta(t, 20, tab.Panes[1].Position.Width, 1e-9)

	// Past the bound, the clamp holds at 90 on the very same drag.
	m.Update(motion(99, 5))
	assert.InDelta(t, 90, tab.Panes[0].Position.Width, 1e-9)

	m.Update(release(99, 5))

	// Motion after release changes nothing.
	m.Update(motion(20, 5))
	assert.InDelta(t, 90, tab.Panes[0].Position.Width, 1e-9)
}

func TestModel_BodyPressDoesNotResize(t *testing.T) {
	m := newTestModel(t)
	m.Update(keyMsg("ctrl+b"))
	m.Update(keyMsg("%"))

	tab := m.store.ActiveTab()
	m.Update(press(10, 5))
	m.Update(motion(40, 5))

	assert.InDelta(t, 50, tab.Panes[0].Position.Width, 1e-9, "a body drag never changes geometry")
	m.Update(release(40, 5))
}

func TestModel_SplitSchedulesBind(t *testing.T) {
	m := newTestModel(t)

	m.Update(keyMsg("ctrl+b"))
	m.Update(keyMsg("%"))

	newPane := m.store.ActiveTab().ActivePaneID
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && !m.store.PaneBound(newPane) {
		time.Sleep(5 * time.Millisecond)
	}
	assert.True(t, m.store.PaneBound(newPane), "split pane gets a surface after the debounce window")
}

func TestModel_CloseCancelsPendingBind(t *testing.T) {
	m := newTestModel(t)
	m.settings.BindDelay = time.Hour // pin the timer so it cannot fire mid-test
	m = NewModel(m.store, m.settings)
	t.Cleanup(m.binder.CancelAll)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 31})

	m.Update(keyMsg("ctrl+b"))
	m.Update(keyMsg("%"))
	require.Equal(t, 1, m.binder.Pending())

	m.Update(keyMsg("ctrl+b"))
	m.Update(keyMsg("x"))
	assert.Equal(t, 0, m.binder.Pending(), "closing a pane cancels its pending bind")
}

func TestModel_SettingsReloadChangesPrefix(t *testing.T) {
	m := newTestModel(t)

	settings := config.DefaultSettings()
	settings.PrefixKey = "ctrl+a"
	m.Update(settingsReloadedMsg{Settings: settings})

	m.Update(keyMsg("ctrl+b"))
	assert.False(t, m.chord.Armed(), "old prefix must no longer arm")

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlA})
	assert.True(t, m.chord.Armed())
}

func TestModel_TabKeys(t *testing.T) {
	m := newTestModel(t)

	m.Update(keyMsg("t"))
	require.Len(t, m.store.Tabs(), 2)
	assert.Equal(t, "tab 2", m.store.ActiveTab().Title)

	m.Update(keyMsg("]"))
	assert.Equal(t, "main", m.store.ActiveTab().Title)
	m.Update(keyMsg("["))
	assert.Equal(t, "tab 2", m.store.ActiveTab().Title)

	m.Update(keyMsg("W"))
	assert.Len(t, m.store.Tabs(), 1)
}

func TestModel_ViewRenders(t *testing.T) {
	m := newTestModel(t)

	view := m.View()
	assert.Contains(t, view, "main")
	assert.Contains(t, view, "horizontal")

	m.Update(keyMsg("ctrl+b"))
	view = m.View()
	assert.Contains(t, view, "PREFIX", "armed chord shows in the status bar")

	m.Update(tea.WindowSizeMsg{Width: 20, Height: 5})
	assert.Contains(t, m.View(), "Terminal too small")
}

func TestModel_HelpToggle(t *testing.T) {
	m := newTestModel(t)

	m.Update(keyMsg("?"))
	assert.True(t, m.helpMode)
	assert.Contains(t, m.View(), "split horizontal")

	m.Update(keyMsg("?"))
	assert.False(t, m.helpMode)
}
