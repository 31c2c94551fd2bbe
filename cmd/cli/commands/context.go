package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/jakechorley/shiftweek/internal/config"
	"github.com/jakechorley/shiftweek/pkg/core/services"
	"github.com/jakechorley/shiftweek/pkg/postgres"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg      *config.Config
	Database *postgres.DB
	Logger   *zap.Logger
	Ctx      context.Context
}

// runStore returns the schedule run store, or nil when no database is
// configured.
func (app *AppContext) runStore() services.ScheduleRunStore {
	if app.Database == nil {
		return nil
	}
	return app.Database
}
