package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/shiftweek/pkg/core/services"
)

// HistoryCmd creates the history command
func HistoryCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "history [run-id]",
		Short: "List stored schedule runs, or show one run's assignments",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Database == nil {
				return fmt.Errorf("history requires a database; set databaseURL in the config file")
			}

			if len(args) == 1 {
				return showRunEntries(app, args[0])
			}

			runs, err := services.ViewHistory(app.Ctx, app.Database, app.Logger)
			if err != nil {
				return err
			}

			if len(runs) == 0 {
				fmt.Println("\nNo schedule runs stored yet.")
				return nil
			}

			fmt.Printf("\n%d schedule run(s)\n\n", len(runs))
			fmt.Printf("%-38s %-12s %-10s %s\n", "RUN ID", "WEEK START", "EMPLOYEES", "CREATED")
			for _, run := range runs {
				fmt.Printf("%-38s %-12s %-10d %s\n",
					run.ID,
					run.WeekStart,
					run.EmployeeCount,
					run.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			fmt.Println()

			return nil
		},
	}
}

// showRunEntries prints the per-slot assignments of one stored run
func showRunEntries(app *AppContext, runID string) error {
	entries, err := services.ViewRunEntries(app.Ctx, app.Database, app.Logger, runID)
	if err != nil {
		return err
	}

	fmt.Printf("\nRun %s\n\n", runID)
	lastDay := ""
	for _, e := range entries {
		if e.Day != lastDay {
			fmt.Printf("%s\n", e.Day)
			lastDay = e.Day
		}
		fmt.Printf("  %-10s %s\n", e.Shift, e.Employee)
	}
	fmt.Println()

	return nil
}
