package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/shiftweek/pkg/core/roster"
	"github.com/jakechorley/shiftweek/pkg/core/services"
)

// GenerateCmd creates the generate command
func GenerateCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <preferences.json>",
		Short: "Generate a weekly schedule from employee preferences",
		Long:  "Read a preferences JSON file (or stdin with -), assign employees to shifts, and save the run. The same input always produces the same schedule.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			asJSON, _ := cmd.Flags().GetBool("json")

			app.Logger.Debug("generate command",
				zap.String("input", args[0]),
				zap.Bool("dry_run", dryRun))

			raw, err := readPreferences(args[0])
			if err != nil {
				return err
			}

			result, err := services.GenerateSchedule(app.Ctx, app.runStore(), app.Cfg, app.Logger, raw, dryRun)
			if err != nil {
				return err
			}

			if asJSON {
				fmt.Println(string(result.ScheduleJSON))
				return nil
			}

			fmt.Printf("\n✓ Schedule generated!\n\n")
			fmt.Printf("Run ID:      %s\n", result.RunID)
			fmt.Printf("Week Start:  %s\n", result.WeekStart.Format("2006-01-02"))
			fmt.Printf("Employees:   %d\n", result.EmployeeCount)
			if dryRun {
				fmt.Printf("Mode:        DRY RUN (not saved)\n")
			} else if result.Saved {
				fmt.Printf("Status:      saved to database\n")
			} else {
				fmt.Printf("Status:      not saved (no database configured)\n")
			}
			fmt.Println()

			for i, day := range roster.WeekDays {
				fmt.Printf("%s (%s)\n", day, result.ShiftDates[i].Format("2006-01-02"))
				for _, shift := range roster.ShiftOrder {
					names := result.Schedule[day][shift]
					if len(names) == 0 {
						fmt.Printf("  %-10s (unfilled)\n", shift)
						continue
					}
					fmt.Printf("  %-10s", shift)
					for j, name := range names {
						if j > 0 {
							fmt.Print(", ")
						}
						fmt.Print(name)
					}
					fmt.Println()
				}
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().Bool("dry-run", false, "Generate without saving to the database")
	cmd.Flags().Bool("json", false, "Print the schedule as canonical JSON instead of a table")

	return cmd
}

// readPreferences loads and decodes a preferences file; "-" reads stdin
func readPreferences(path string) (*roster.RawPreferences, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}

	var raw roster.RawPreferences
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode preferences: %w", err)
	}
	return &raw, nil
}
