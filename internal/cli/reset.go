package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/muxtab/muxtab/internal/logger"
	"github.com/muxtab/muxtab/internal/session"
)

var resetForce bool

// resetCmd wipes all persisted session state
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all saved tabs and panes",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetForce {
			var confirmed bool
			form := huh.NewForm(
				huh.NewGroup(
					huh.NewConfirm().
						Title("Delete all saved tabs and panes?").
						Description("This cannot be undone.").
						Value(&confirmed),
				),
			)
			if err := form.Run(); err != nil {
				return fmt.Errorf("prompt cancelled: %w", err)
			}
			if !confirmed {
				fmt.Println("Reset aborted.")
				return nil
			}
		}

		sessionRepo := session.NewRepository(db, logger.GetLogger())
		if err := sessionRepo.ClearAllData(); err != nil {
			return err
		}

		fmt.Println("Session state cleared.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "skip the confirmation prompt")
}
