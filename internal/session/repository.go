package session

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/muxtab/muxtab/internal/layout"
	"github.com/muxtab/muxtab/internal/perf"
	"github.com/muxtab/muxtab/internal/storage"
)

// Repository handles all database operations for tabs and panes
type Repository struct {
	db     *storage.Database
	logger *slog.Logger
}

// NewRepository creates a new repository
func NewRepository(db *storage.Database, logger *slog.Logger) *Repository {
	return &Repository{db: db, logger: DefaultLogger(logger)}
}

// SaveTab saves a complete tab to the database
// This performs a full replace operation within a transaction
func (r *Repository) SaveTab(t *TerminalTab) error {
	timer := perf.NewTimer("session.SaveTab", r.logger, 100)
	defer timer.Stop()

	r.logger.Debug("SaveTab", "tab_id", t.ID, "panes", len(t.Panes), "layout", t.Layout)

	tx, err := r.db.BeginTx()
	if err != nil {
		r.logger.Error("SaveTab", "error", err, "tab_id", t.ID, "operation", "begin_transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := r.deleteTabData(tx, t.ID); err != nil {
		r.logger.Error("SaveTab", "error", err, "tab_id", t.ID, "operation", "delete_existing_data")
		return err
	}

	_, err = tx.Exec(
		"INSERT INTO tabs (id, title, layout, active_pane_id, position) VALUES (?, ?, ?, ?, ?)",
		t.ID, t.Title, string(t.Layout), t.ActivePaneID, t.Position,
	)
	if err != nil {
		r.logger.Error("SaveTab", "error", err, "tab_id", t.ID, "operation", "insert_tab")
		return fmt.Errorf("failed to insert tab: %w", err)
	}

	for i, pane := range t.Panes {
		var x, y, w, h sql.NullFloat64
		if pane.Position != nil {
			x = sql.NullFloat64{Float64: pane.Position.X, Valid: true}
			y = sql.NullFloat64{Float64: pane.Position.Y, Valid: true}
			w = sql.NullFloat64{Float64: pane.Position.Width, Valid: true}
			h = sql.NullFloat64{Float64: pane.Position.Height, Valid: true}
		}
		_, err = tx.Exec(
			`INSERT INTO panes (id, tab_id, terminal_id, title, x, y, width, height, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			pane.ID, t.ID, pane.TerminalID, pane.Title, x, y, w, h, i,
		)
		if err != nil {
			r.logger.Error("SaveTab", "error", err, "tab_id", t.ID, "pane_id", pane.ID)
			return fmt.Errorf("failed to insert pane: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("SaveTab", "error", err, "tab_id", t.ID, "operation", "commit_transaction")
		return err
	}
	return nil
}

// GetTab retrieves a tab and its panes by id. Returns nil when not found.
func (r *Repository) GetTab(id string) (*TerminalTab, error) {
	r.logger.Debug("GetTab", "tab_id", id)

	t := &TerminalTab{ID: id, Panes: make([]*Pane, 0)}

	var layoutStr string
	err := r.db.DB().QueryRow(
		"SELECT title, layout, active_pane_id, position FROM tabs WHERE id = ?",
		id,
	).Scan(&t.Title, &layoutStr, &t.ActivePaneID, &t.Position)

	if err == sql.ErrNoRows {
		return nil, nil // Tab not found
	}
	if err != nil {
		r.logger.Error("GetTab", "error", err, "tab_id", id)
		return nil, fmt.Errorf("failed to get tab: %w", err)
	}
	t.Layout = layout.Mode(layoutStr)

	panes, err := r.getPanes(id)
	if err != nil {
		return nil, err
	}
	t.Panes = panes

	return t, nil
}

// ListTabs retrieves all tabs with their panes, ordered by position.
func (r *Repository) ListTabs() ([]*TerminalTab, error) {
	rows, err := r.db.DB().Query(
		"SELECT id, title, layout, active_pane_id, position FROM tabs ORDER BY position",
	)
	if err != nil {
		r.logger.Error("ListTabs", "error", err, "operation", "query_tabs")
		return nil, fmt.Errorf("failed to list tabs: %w", err)
	}
	defer rows.Close()

	tabs := make([]*TerminalTab, 0)
	for rows.Next() {
		t := &TerminalTab{Panes: make([]*Pane, 0)}
		var layoutStr string
		if err := rows.Scan(&t.ID, &t.Title, &layoutStr, &t.ActivePaneID, &t.Position); err != nil {
			r.logger.Error("ListTabs", "error", err, "operation", "scan_tab")
			return nil, fmt.Errorf("failed to scan tab: %w", err)
		}
		t.Layout = layout.Mode(layoutStr)
		tabs = append(tabs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tabs: %w", err)
	}

	for _, t := range tabs {
		panes, err := r.getPanes(t.ID)
		if err != nil {
			return nil, err
		}
		t.Panes = panes
	}

	return tabs, nil
}

func (r *Repository) getPanes(tabID string) ([]*Pane, error) {
	rows, err := r.db.DB().Query(
		`SELECT id, terminal_id, title, x, y, width, height
		 FROM panes WHERE tab_id = ? ORDER BY position`,
		tabID,
	)
	if err != nil {
		r.logger.Error("getPanes", "error", err, "tab_id", tabID, "operation", "query_panes")
		return nil, fmt.Errorf("failed to get panes: %w", err)
	}
	defer rows.Close()

	panes := make([]*Pane, 0)
	for rows.Next() {
		pane := &Pane{}
		var terminalID sql.NullString
		var x, y, w, h sql.NullFloat64
		err := rows.Scan(&pane.ID, &terminalID, &pane.Title, &x, &y, &w, &h)
		if err != nil {
			r.logger.Error("getPanes", "error", err, "tab_id", tabID, "operation", "scan_pane", "pane_id", pane.ID)
			return nil, fmt.Errorf("failed to scan pane: %w", err)
		}
		if terminalID.Valid {
			pane.TerminalID = terminalID.String
		}
		if x.Valid && y.Valid && w.Valid && h.Valid {
			pane.Position = &layout.Rect{X: x.Float64, Y: y.Float64, Width: w.Float64, Height: h.Float64}
		}
		panes = append(panes, pane)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating panes: %w", err)
	}

	return panes, nil
}

// DeleteTab deletes a tab and all its panes
func (r *Repository) DeleteTab(id string) error {
	r.logger.Info("DeleteTab", "tab_id", id)

	tx, err := r.db.BeginTx()
	if err != nil {
		r.logger.Error("DeleteTab", "error", err, "tab_id", id, "operation", "begin_transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := r.deleteTabData(tx, id); err != nil {
		r.logger.Error("DeleteTab", "error", err, "tab_id", id, "operation", "delete_tab_data")
		return err
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("DeleteTab", "error", err, "tab_id", id, "operation", "commit_transaction")
		return err
	}
	return nil
}

// deleteTabData deletes all data for a tab within a transaction
func (r *Repository) deleteTabData(tx *sql.Tx, id string) error {
	// panes has ON DELETE CASCADE from tabs, but delete explicitly so the
	// schema's foreign_keys pragma is not load-bearing for correctness
	if _, err := tx.Exec("DELETE FROM panes WHERE tab_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete panes: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM tabs WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete tab: %w", err)
	}
	return nil
}

// ClearAllData deletes all data from the database (for reset)
func (r *Repository) ClearAllData() error {
	r.logger.Info("ClearAllData", "operation", "start")

	tx, err := r.db.BeginTx()
	if err != nil {
		r.logger.Error("ClearAllData", "error", err, "operation", "begin_transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	tables := []string{"panes", "tabs"}
	for _, table := range tables {
		if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			r.logger.Error("ClearAllData", "error", err, "operation", "delete_table", "table", table)
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("ClearAllData", "error", err, "operation", "commit_transaction")
		return err
	}

	r.logger.Info("ClearAllData", "operation", "complete")
	return nil
}
