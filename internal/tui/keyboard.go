package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muxtab/muxtab/internal/layout"
	"github.com/muxtab/muxtab/internal/logger"
	"github.com/muxtab/muxtab/internal/mux"
)

// handleKeyPress is the main keyboard input dispatcher. The chord machine
// gets first refusal on every key: while armed it owns the next keypress
// completely, so ordinary bindings cannot fire mid-chord.
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// An armed chord owns ctrl+c too: it disarms instead of quitting, so a
	// mistyped prefix sequence cannot kill the session. Unarmed, ctrl+c
	// quits regardless of mode.
	if msg.String() == "ctrl+c" && !m.chord.Armed() {
		return m.handleQuit()
	}

	if cmd, consumed := m.chord.HandleKey(msg.String()); consumed {
		return m.handleChordCommand(cmd)
	}

	if m.helpMode {
		// Any key leaves help, matching how it was entered.
		m.helpMode = false
		return m, nil
	}

	return m.handleNormalModeKeys(msg)
}

// handleChordCommand executes a resolved prefix chord
func (m *Model) handleChordCommand(cmd mux.Command) (tea.Model, tea.Cmd) {
	view := m.store.View()

	switch cmd {
	case mux.CmdSplitHorizontal:
		return m, m.splitPane(layout.AxisHorizontal)

	case mux.CmdSplitVertical:
		return m, m.splitPane(layout.AxisVertical)

	case mux.CmdClosePane:
		closing := view.ActivePaneID()
		if err := m.dispatcher.CloseActivePane(view); err != nil {
			logger.Debug("tui: close refused", "pane_id", closing, "error", err)
			return m, nil
		}
		// The pane is gone; a bind still in its debounce window must not
		// create a surface for it.
		m.binder.Cancel(closing)
		return m, nil

	case mux.CmdNextPane:
		tab := m.store.ActiveTab()
		if tab == nil {
			return m, nil
		}
		if err := m.dispatcher.SwitchPane(view, tab.NextPaneID()); err != nil {
			logger.Debug("tui: next pane failed", "error", err)
		}
		return m, nil
	}

	// CmdNone: the prefix armed, or an unknown key disarmed. Either way the
	// key was consumed and nothing happens.
	return m, nil
}

// splitPane dispatches a split and arms the bind timer for the new pane
func (m *Model) splitPane(axis layout.Axis) tea.Cmd {
	if err := m.dispatcher.SplitPane(m.store.View(), axis); err != nil {
		logger.Debug("tui: split failed", "error", err)
		return nil
	}

	// The freshly split pane is now active; its surface comes up after the
	// debounce window.
	if tab := m.store.ActiveTab(); tab != nil {
		m.binder.Schedule(tab.ActivePaneID)
	}
	return nil
}

// handleNormalModeKeys handles keyboard input outside the chord
func (m *Model) handleNormalModeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	view := m.store.View()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.handleQuit()

	case key.Matches(msg, m.keys.Help):
		m.helpMode = !m.helpMode
		return m, nil

	case key.Matches(msg, m.keys.LayoutHorizontal):
		m.dispatcher.SetLayout(view, layout.ModeHorizontal)
		return m, nil

	case key.Matches(msg, m.keys.LayoutVertical):
		m.dispatcher.SetLayout(view, layout.ModeVertical)
		return m, nil

	case key.Matches(msg, m.keys.LayoutGrid):
		m.dispatcher.SetLayout(view, layout.ModeGrid)
		return m, nil

	case key.Matches(msg, m.keys.NewTab):
		tab := m.store.NewTab(m.newTabTitle(), layout.Mode(m.settings.DefaultLayout))
		m.binder.Schedule(tab.ActivePaneID)
		return m, nil

	case key.Matches(msg, m.keys.NextTab):
		m.store.NextTab()
		return m, nil

	case key.Matches(msg, m.keys.PrevTab):
		m.store.PrevTab()
		return m, nil

	case key.Matches(msg, m.keys.CloseTab):
		return m.handleCloseTab()
	}

	return m, nil
}

// handleCloseTab closes the active tab and cancels its pending binds
func (m *Model) handleCloseTab() (tea.Model, tea.Cmd) {
	tab := m.store.ActiveTab()
	if tab == nil {
		return m, nil
	}

	paneIDs := make([]string, 0, len(tab.Panes))
	for _, p := range tab.Panes {
		paneIDs = append(paneIDs, p.ID)
	}

	if err := m.store.CloseTab(); err != nil {
		logger.Debug("tui: close tab refused", "tab_id", tab.ID, "error", err)
		return m, nil
	}
	for _, id := range paneIDs {
		m.binder.Cancel(id)
	}
	return m, nil
}
