package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// sessionsCmd lists persisted tabs without opening the TUI
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List saved tabs and their panes",
	RunE: func(cmd *cobra.Command, args []string) error {
		tabs, err := repo.ListTabs()
		if err != nil {
			return err
		}

		if len(tabs) == 0 {
			fmt.Println("No saved session.")
			return nil
		}

		for _, tab := range tabs {
			fmt.Printf("%s  [%s]  %d pane(s)\n", tab.Title, tab.Layout, len(tab.Panes))
			for _, pane := range tab.Panes {
				marker := " "
				if pane.ID == tab.ActivePaneID {
					marker = "*"
				}
				state := "unbound"
				if pane.Bound() {
					state = "bound"
				}
				fmt.Printf("  %s %s  (%s)\n", marker, pane.Title, state)
			}
		}
		return nil
	},
}
