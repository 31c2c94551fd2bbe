package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/shiftweek/cmd/cli/commands"
	"github.com/jakechorley/shiftweek/internal/config"
	"github.com/jakechorley/shiftweek/pkg/postgres"
	"github.com/jakechorley/shiftweek/pkg/utils/logging"
)

var (
	env string
	app *commands.AppContext
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "shiftweek",
		Short: "Shiftweek - Generate weekly shift schedules from employee preferences",
		Long:  `A tool for turning ranked employee shift preferences into a weekly schedule, deterministically: the same preferences always produce the same schedule.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app == nil {
				return
			}
			if app.Database != nil {
				app.Database.Close()
			}
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (test, prod, etc.)")

	rootCmd.AddCommand(commands.ServeCmd(appRef()))
	rootCmd.AddCommand(commands.GenerateCmd(appRef()))
	rootCmd.AddCommand(commands.ValidateCmd(appRef()))
	rootCmd.AddCommand(commands.HistoryCmd(appRef()))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// appRef returns the shared AppContext, allocating it so commands can
// capture the pointer before initApp fills it in.
func appRef() *commands.AppContext {
	if app == nil {
		app = &commands.AppContext{}
	}
	return app
}

// initApp sets up logger, config, and database
func initApp(ctx context.Context) error {
	var err error
	a := appRef()
	a.Ctx = ctx

	a.Logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.Logger.Info("Starting application", zap.String("environment", env))

	a.Logger.Debug("Loading configuration")
	a.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if a.Cfg.DatabaseURL == "" {
		a.Logger.Info("No database configured; runs will not be persisted")
		return nil
	}

	a.Logger.Debug("Connecting to database")
	a.Database, err = postgres.NewDB(ctx, a.Cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	a.Logger.Debug("Running migrations")
	if err := a.Database.RunMigrations(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	a.Logger.Info("Database initialized successfully")
	return nil
}
