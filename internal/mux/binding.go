package mux

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TerminalFactory creates terminal surfaces. The returned id identifies the
// surface for the rest of the pane's life.
type TerminalFactory interface {
	CreateSurface(paneID string) (string, error)
}

// UUIDFactory is the default factory: it allocates a surface record
// identified by a fresh UUID. The real emulator process sits behind the same
// interface.
type UUIDFactory struct{}

func (UUIDFactory) CreateSurface(paneID string) (string, error) {
	return uuid.NewString(), nil
}

// PaneSource answers liveness questions at timer-fire time. Implemented by
// the session store.
type PaneSource interface {
	// PaneAlive reports whether the pane still exists in any tab.
	PaneAlive(id string) bool
	// PaneBound reports whether the pane already has a terminal surface.
	PaneBound(id string) bool
}

// Binder defers terminal-surface creation until a pane has survived its
// debounce window. One pending timer per pane, held in an explicit map so
// teardown can cancel it; a timer that outlives its pane re-checks liveness
// and skips instead of binding a ghost.
type Binder struct {
	mu      sync.Mutex
	timers  map[string]*time.Timer
	delay   time.Duration
	factory TerminalFactory
	panes   PaneSource
	onBound func(paneID, terminalID string)
	logger  *slog.Logger
}

// NewBinder creates a binder. onBound is invoked from the timer goroutine
// once a surface exists; it must be safe to call concurrently with pane
// mutations.
func NewBinder(delay time.Duration, factory TerminalFactory, panes PaneSource, onBound func(paneID, terminalID string), logger *slog.Logger) *Binder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Binder{
		timers:  make(map[string]*time.Timer),
		delay:   delay,
		factory: factory,
		panes:   panes,
		onBound: onBound,
		logger:  logger,
	}
}

// Schedule arms the bind timer for a pane. Scheduling an already-bound pane
// or one with a pending timer is a no-op, so repeated renders cannot create
// duplicate surfaces.
func (b *Binder) Schedule(paneID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.panes.PaneBound(paneID) {
		return
	}
	if _, pending := b.timers[paneID]; pending {
		return
	}

	b.logger.Debug("bind scheduled", "pane_id", paneID, "delay", b.delay)
	b.timers[paneID] = time.AfterFunc(b.delay, func() {
		b.fire(paneID)
	})
}

// Cancel stops a pending bind for a pane, typically because the pane was
// destroyed inside the debounce window.
func (b *Binder) Cancel(paneID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if timer, ok := b.timers[paneID]; ok {
		timer.Stop()
		delete(b.timers, paneID)
		b.logger.Debug("bind cancelled", "pane_id", paneID)
	}
}

// CancelAll stops every pending bind. Used at shutdown.
func (b *Binder) CancelAll() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, timer := range b.timers {
		timer.Stop()
		delete(b.timers, id)
	}
}

// Pending returns the number of panes with an armed bind timer.
func (b *Binder) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.timers)
}

func (b *Binder) fire(paneID string) {
	b.mu.Lock()
	delete(b.timers, paneID)
	b.mu.Unlock()

	// The pane may have been closed between Stop racing and firing; a dead
	// pane means the surface was never needed.
	if !b.panes.PaneAlive(paneID) {
		b.logger.Debug("bind skipped", "pane_id", paneID, "reason", "pane gone")
		return
	}
	if b.panes.PaneBound(paneID) {
		return
	}

	terminalID, err := b.factory.CreateSurface(paneID)
	if err != nil {
		b.logger.Error("bind failed", "pane_id", paneID, "error", err)
		return
	}

	b.logger.Debug("bind complete", "pane_id", paneID, "terminal_id", terminalID)
	b.onBound(paneID, terminalID)
}
