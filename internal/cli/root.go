package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/muxtab/muxtab/internal/config"
	"github.com/muxtab/muxtab/internal/layout"
	"github.com/muxtab/muxtab/internal/logger"
	"github.com/muxtab/muxtab/internal/session"
	"github.com/muxtab/muxtab/internal/storage"
	"github.com/muxtab/muxtab/internal/tui"
)

var (
	db       *storage.Database
	repo     *session.Repository
	settings config.Settings
)

// RootCmd is the root command for the CLI
var RootCmd = &cobra.Command{
	Use:   "muxtab",
	Short: "muxtab - terminal pane multiplexer",
	Long:  `A terminal multiplexer with percentage-based pane layouts, tmux-style prefix chords, and persistent sessions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: restore the last session and launch the TUI
		store := session.NewStore(repo, logger.GetLogger())
		if err := store.Load(layout.Mode(settings.DefaultLayout)); err != nil {
			return err
		}

		logger.InitializeWithConfig(logger.Config{
			Level:   settings.LogLevel,
			TUIMode: true, // stderr belongs to the alternate screen now
		})

		model := tui.NewModel(store, settings)
		p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
		_, err := p.Run()
		return err
	},
}

func init() {
	cobra.OnInitialize(initStorage)

	RootCmd.AddCommand(sessionsCmd)
	RootCmd.AddCommand(resetCmd)
}

// initStorage opens the database and loads settings
func initStorage() {
	settingsPath, err := config.SettingsPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving settings path: %v\n", err)
		os.Exit(1)
	}
	settings, err = config.LoadSettings(settingsPath)
	if err != nil {
		// Defaults already applied; tell the user their file was ignored.
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}

	dbPath, err := config.DatabasePath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting database path: %v\n", err)
		os.Exit(1)
	}

	db, err = storage.NewDatabase(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}

	repo = session.NewRepository(db, logger.GetLogger())
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}
