package storage

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
-- Tabs table (one row per terminal tab)
CREATE TABLE IF NOT EXISTS tabs (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    layout TEXT NOT NULL,
    active_pane_id TEXT NOT NULL,
    position INTEGER NOT NULL
);

-- Panes table (ordered panes per tab; position preserves creation order)
CREATE TABLE IF NOT EXISTS panes (
    id TEXT PRIMARY KEY,
    tab_id TEXT NOT NULL,
    terminal_id TEXT,
    title TEXT NOT NULL,
    x REAL,
    y REAL,
    width REAL,
    height REAL,
    position INTEGER NOT NULL,
    FOREIGN KEY (tab_id) REFERENCES tabs(id) ON DELETE CASCADE
);

-- Indices for faster queries
CREATE INDEX IF NOT EXISTS idx_panes_tab ON panes(tab_id);
CREATE INDEX IF NOT EXISTS idx_panes_position ON panes(tab_id, position);
CREATE INDEX IF NOT EXISTS idx_tabs_position ON tabs(position);
`

// Database wraps a SQL database connection
type Database struct {
	db *sql.DB
}

// NewDatabase creates a new database connection and initializes the schema
func NewDatabase(path string) (*Database, error) {
	// Open database with WAL mode for better concurrent access
	db, err := sql.Open("sqlite", path+"?_journal=WAL&_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Enable foreign keys (required for CASCADE to work)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Initialize schema
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Database{db: db}, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	return d.db.Close()
}

// DB returns the underlying database connection
func (d *Database) DB() *sql.DB {
	return d.db
}

// BeginTx starts a new transaction
func (d *Database) BeginTx() (*sql.Tx, error) {
	return d.db.Begin()
}
