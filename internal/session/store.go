package session

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/muxtab/muxtab/internal/layout"
	"github.com/muxtab/muxtab/internal/mux"
	"github.com/muxtab/muxtab/internal/perf"
)

// Store owns the canonical tab and pane collection. It is the only writer:
// everything else reads snapshots and requests changes through intents. The
// mutex exists for the binder's timer goroutine; within the TUI update loop
// all applies are already serialized.
type Store struct {
	mu        sync.Mutex
	tabs      []*TerminalTab
	activeTab int
	repo      *Repository // nil runs in-memory (tests, --ephemeral)
	logger    *slog.Logger
	applies   *perf.Recorder
}

// NewStore creates a store persisting through repo. A nil repo is valid and
// keeps everything in memory.
func NewStore(repo *Repository, logger *slog.Logger) *Store {
	logger = DefaultLogger(logger)
	return &Store{
		repo:    repo,
		logger:  logger,
		applies: perf.NewRecorder("session.Apply", logger, 50*time.Millisecond),
	}
}

// Load restores persisted tabs, creating a fresh single-pane tab when
// nothing was saved before.
func (s *Store) Load(defaultMode layout.Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.repo != nil {
		tabs, err := s.repo.ListTabs()
		if err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}
		s.tabs = tabs
	}

	if len(s.tabs) == 0 {
		tab := NewTerminalTab("main", defaultMode)
		tab.Recompute()
		s.tabs = []*TerminalTab{tab}
		s.persistLocked(tab)
	}

	s.activeTab = 0
	return nil
}

// ActiveTab returns the tab currently in the foreground, or nil.
func (s *Store) ActiveTab() *TerminalTab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeTabLocked()
}

func (s *Store) activeTabLocked() *TerminalTab {
	if s.activeTab < 0 || s.activeTab >= len(s.tabs) {
		return nil
	}
	return s.tabs[s.activeTab]
}

// Tabs returns all tabs in order.
func (s *Store) Tabs() []*TerminalTab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tabs
}

// NewTab appends a fresh single-pane tab and makes it active.
func (s *Store) NewTab(title string, mode layout.Mode) *TerminalTab {
	s.mu.Lock()
	defer s.mu.Unlock()

	tab := NewTerminalTab(title, mode)
	tab.Position = len(s.tabs)
	tab.Recompute()
	s.tabs = append(s.tabs, tab)
	s.activeTab = len(s.tabs) - 1
	s.persistLocked(tab)
	return tab
}

// NextTab cycles the active tab forward.
func (s *Store) NextTab() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.tabs) > 0 {
		s.activeTab = (s.activeTab + 1) % len(s.tabs)
	}
}

// PrevTab cycles the active tab backward.
func (s *Store) PrevTab() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.tabs) > 0 {
		s.activeTab = (s.activeTab - 1 + len(s.tabs)) % len(s.tabs)
	}
}

// CloseTab removes the active tab. Refused for the last tab, mirroring the
// last-pane rule one level up.
func (s *Store) CloseTab() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.tabs) <= 1 {
		return mux.ErrLastPane
	}

	tab := s.tabs[s.activeTab]
	s.tabs = append(s.tabs[:s.activeTab], s.tabs[s.activeTab+1:]...)
	if s.activeTab >= len(s.tabs) {
		s.activeTab = len(s.tabs) - 1
	}
	for i, t := range s.tabs {
		t.Position = i
	}

	if s.repo != nil {
		if err := s.repo.DeleteTab(tab.ID); err != nil {
			s.logger.Error("CloseTab", "error", err, "tab_id", tab.ID)
			return err
		}
		for _, t := range s.tabs {
			s.persistLocked(t)
		}
	}
	return nil
}

// View returns the dispatcher-facing read-only view of the active tab.
func (s *Store) View() mux.TabView {
	return storeView{s}
}

// Apply executes one intent against the active tab. Validation here is a
// backstop behind the dispatcher; the same sentinel errors come back for
// callers that apply directly.
func (s *Store) Apply(intent mux.Intent) error {
	start := time.Now()
	defer func() { s.applies.Record(time.Since(start)) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	tab := s.activeTabLocked()
	if tab == nil {
		return mux.ErrNoActivePane
	}

	switch in := intent.(type) {
	case mux.SwitchPane:
		if tab.Pane(in.PaneID) == nil {
			return mux.ErrUnknownPane
		}
		tab.ActivePaneID = in.PaneID

	case mux.SplitPane:
		if tab.ActivePane() == nil {
			return mux.ErrNoActivePane
		}
		pane := NewPane()
		tab.Panes = append(tab.Panes, pane)
		tab.ActivePaneID = pane.ID
		// Splitting a non-grid tab realigns the layout with the requested
		// axis; a grid absorbs the new pane without changing mode.
		if tab.Layout != layout.ModeGrid {
			if in.Axis == layout.AxisVertical {
				tab.Layout = layout.ModeVertical
			} else {
				tab.Layout = layout.ModeHorizontal
			}
		}
		tab.Recompute()

	case mux.ClosePane:
		idx := tab.PaneIndex(in.PaneID)
		if idx < 0 {
			return mux.ErrUnknownPane
		}
		if len(tab.Panes) <= 1 {
			return mux.ErrLastPane
		}
		wasActive := tab.ActivePaneID == in.PaneID
		tab.Panes = append(tab.Panes[:idx], tab.Panes[idx+1:]...)
		if wasActive {
			prev := idx - 1
			if prev < 0 {
				prev = 0
			}
			tab.ActivePaneID = tab.Panes[prev].ID
		}
		tab.Recompute()

	case mux.SetLayout:
		if !in.Mode.Valid() {
			return mux.ErrUnknownMode
		}
		tab.Layout = in.Mode
		tab.Recompute()

	case mux.UpdatePanePosition:
		pane := tab.Pane(in.PaneID)
		if pane == nil {
			return mux.ErrUnknownPane
		}
		r := in.Rect
		pane.Position = &r

	default:
		return fmt.Errorf("unhandled intent %T", intent)
	}

	s.persistLocked(tab)
	return nil
}

// BindTerminal attaches a terminal surface to a pane. A pane that is gone or
// already bound leaves the call a no-op; the binder rechecks liveness but a
// close can still race the window between its check and this call.
func (s *Store) BindTerminal(paneID, terminalID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tab := range s.tabs {
		if pane := tab.Pane(paneID); pane != nil {
			if pane.TerminalID != "" {
				return
			}
			pane.TerminalID = terminalID
			s.persistLocked(tab)
			return
		}
	}
	s.logger.Debug("BindTerminal skipped", "pane_id", paneID, "reason", "pane gone")
}

// PaneAlive reports whether the pane exists in any tab.
func (s *Store) PaneAlive(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tab := range s.tabs {
		if tab.Pane(id) != nil {
			return true
		}
	}
	return false
}

// PaneBound reports whether the pane has a terminal surface.
func (s *Store) PaneBound(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tab := range s.tabs {
		if pane := tab.Pane(id); pane != nil {
			return pane.TerminalID != ""
		}
	}
	return false
}

// LogPerfStats emits aggregate apply timings, typically at shutdown.
func (s *Store) LogPerfStats() {
	s.applies.LogStats(slog.LevelDebug)
}

func (s *Store) persistLocked(tab *TerminalTab) {
	if s.repo == nil {
		return
	}
	if err := s.repo.SaveTab(tab); err != nil {
		s.logger.Error("persist failed", "tab_id", tab.ID, "error", err)
	}
}

// storeView adapts the active tab to the dispatcher's read-only view.
type storeView struct {
	s *Store
}

func (v storeView) HasPane(id string) bool {
	tab := v.s.ActiveTab()
	return tab != nil && tab.Pane(id) != nil
}

func (v storeView) PaneCount() int {
	tab := v.s.ActiveTab()
	if tab == nil {
		return 0
	}
	return len(tab.Panes)
}

func (v storeView) ActivePaneID() string {
	tab := v.s.ActiveTab()
	if tab == nil {
		return ""
	}
	return tab.ActivePaneID
}
