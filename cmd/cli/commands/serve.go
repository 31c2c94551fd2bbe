package commands

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/shiftweek/pkg/handlers"
)

// ServeCmd creates the serve command
func ServeCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			gin.SetMode(gin.ReleaseMode)

			h := &handlers.Handler{
				Cfg:    app.Cfg,
				Logger: app.Logger,
			}
			if app.Database != nil {
				h.Store = app.Database
			}

			app.Logger.Info("Starting HTTP server",
				zap.String("addr", app.Cfg.ListenAddr),
				zap.Bool("database_configured", app.Database != nil))

			if err := h.Routes().Run(app.Cfg.ListenAddr); err != nil {
				return fmt.Errorf("server stopped: %w", err)
			}
			return nil
		},
	}
}
