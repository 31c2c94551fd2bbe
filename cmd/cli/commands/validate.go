package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/shiftweek/pkg/core/roster"
)

// ValidateCmd creates the validate command
func ValidateCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <preferences.json>",
		Short: "Validate a preferences file without generating a schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readPreferences(args[0])
			if err != nil {
				return err
			}

			table, err := roster.Normalize(raw)
			if err != nil {
				var verr *roster.ValidationError
				if errors.As(err, &verr) {
					fmt.Printf("\n✗ Preferences invalid\n\n")
					if verr.Employee != "" {
						fmt.Printf("Employee: %s\n", verr.Employee)
					}
					if verr.Day != "" {
						fmt.Printf("Day:      %s\n", verr.Day)
					}
					fmt.Printf("Problem:  %s\n\n", verr.Message)
				}
				return err
			}

			fmt.Printf("\n✓ Preferences valid\n\n")
			fmt.Printf("Employees: %d\n", table.Len())
			if table.Len() < roster.MinEmployees {
				fmt.Printf("Note:      %d more needed before a schedule can be generated\n",
					roster.MinEmployees-table.Len())
			}
			fmt.Println()

			return nil
		},
	}
}
