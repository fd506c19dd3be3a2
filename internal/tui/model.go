// Package tui renders the pane multiplexer and feeds user input through the
// interaction controller and dispatcher. All intents apply synchronously
// inside Update, so the store sees one writer.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muxtab/muxtab/internal/config"
	"github.com/muxtab/muxtab/internal/logger"
	"github.com/muxtab/muxtab/internal/mux"
	"github.com/muxtab/muxtab/internal/session"
	"github.com/muxtab/muxtab/internal/watch"
)

// Minimum terminal dimensions
const (
	MinTerminalWidth  = 60
	MinTerminalHeight = 15
)

// Border dimensions for lipgloss boxes
const (
	BorderWidth  = 2 // Left + right border (1 char each)
	BorderHeight = 2 // Top + bottom border (1 char each)
)

// terminalBoundMsg reports that a pane's terminal surface came up.
type terminalBoundMsg struct {
	PaneID     string
	TerminalID string
}

// settingsReloadedMsg carries new settings after a config file change.
type settingsReloadedMsg struct {
	Settings config.Settings
}

// Model represents the main TUI state
type Model struct {
	store       *session.Store
	dispatcher  *mux.Dispatcher
	interaction *mux.Interaction
	chord       *mux.Chord
	binder      *mux.Binder
	watcher     *watch.Watcher
	settings    config.Settings

	keys KeyMap
	help help.Model

	width  int
	height int

	helpMode bool

	// bound carries binder callbacks into the update loop so a completed
	// bind triggers a re-render.
	bound chan terminalBoundMsg

	// Terminal size validation
	terminalTooSmall bool
}

// NewModel creates a new TUI model around an already-loaded store.
func NewModel(store *session.Store, settings config.Settings) *Model {
	m := &Model{
		store:       store,
		settings:    settings,
		interaction: mux.NewInteraction(settings.MinPanePercent, settings.MaxPanePercent),
		chord:       mux.NewChord(settings.PrefixKey),
		keys:        DefaultKeyMap,
		help:        help.New(),
		bound:       make(chan terminalBoundMsg, 16),
	}

	m.dispatcher = mux.NewDispatcher(store, logger.GetLogger())
	m.binder = mux.NewBinder(settings.BindDelay, mux.UUIDFactory{}, store, m.onTerminalBound, logger.GetLogger())

	// Settings watcher; run without live reload if it cannot start.
	settingsPath, err := config.SettingsPath()
	if err == nil {
		if watcher, werr := watch.NewWatcher(settingsPath); werr == nil {
			m.watcher = watcher
		}
	}

	return m
}

// onTerminalBound runs on the binder's timer goroutine.
func (m *Model) onTerminalBound(paneID, terminalID string) {
	m.store.BindTerminal(paneID, terminalID)
	select {
	case m.bound <- terminalBoundMsg{PaneID: paneID, TerminalID: terminalID}:
	default:
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	// Restored panes may have been saved before their surfaces came up.
	for _, tab := range m.store.Tabs() {
		for _, pane := range tab.Panes {
			if !pane.Bound() {
				m.binder.Schedule(pane.ID)
			}
		}
	}

	cmds := []tea.Cmd{m.waitForBind()}

	if m.watcher != nil {
		if err := m.watcher.Start(); err == nil {
			cmds = append(cmds, m.waitForSettingsChange())
		} else {
			logger.Warn("settings watcher failed to start", "error", err)
			m.watcher = nil
		}
	}

	return tea.Batch(cmds...)
}

// waitForBind blocks until the binder completes a bind
func (m *Model) waitForBind() tea.Cmd {
	capturedBound := m.bound
	return func() tea.Msg {
		return <-capturedBound
	}
}

// waitForSettingsChange blocks until the watcher reports a config reload
func (m *Model) waitForSettingsChange() tea.Cmd {
	capturedWatcher := m.watcher
	return func() tea.Msg {
		ev, ok := <-capturedWatcher.Changes()
		if !ok {
			return nil
		}
		return settingsReloadedMsg{Settings: ev.Settings}
	}
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)

	case terminalBoundMsg:
		logger.Debug("tui: terminal bound", "pane_id", msg.PaneID, "terminal_id", msg.TerminalID)
		return m, m.waitForBind()

	case settingsReloadedMsg:
		return m.handleSettingsReloaded(msg)

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	default:
		return m, nil
	}
}

// handleWindowSize reacts to terminal resizes. Pane geometry is stored in
// percent, so nothing recomputes here; only the cell mapping changes.
func (m *Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.help.Width = msg.Width
	m.terminalTooSmall = msg.Width < MinTerminalWidth || msg.Height < MinTerminalHeight
	return m, nil
}

// handleSettingsReloaded applies a live config change
func (m *Model) handleSettingsReloaded(msg settingsReloadedMsg) (tea.Model, tea.Cmd) {
	logger.Info("tui: settings reloaded", "prefix_key", msg.Settings.PrefixKey)
	m.settings = msg.Settings
	m.chord.SetPrefix(msg.Settings.PrefixKey)
	m.interaction.SetBounds(msg.Settings.MinPanePercent, msg.Settings.MaxPanePercent)
	if m.watcher == nil {
		return m, nil
	}
	return m, m.waitForSettingsChange()
}

// handleQuit tears down background work before exiting
func (m *Model) handleQuit() (tea.Model, tea.Cmd) {
	m.binder.CancelAll()
	if m.watcher != nil {
		m.watcher.Stop()
		m.watcher = nil
	}
	m.store.LogPerfStats()
	return m, tea.Quit
}

// newTabTitle numbers fresh tabs after the ones already open.
func (m *Model) newTabTitle() string {
	return fmt.Sprintf("tab %d", len(m.store.Tabs())+1)
}
