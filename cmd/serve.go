package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/syncrate/internal/api"
	"github.com/abhisek/syncrate/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API for the browser editor widget",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = cfg.Server.Addr
		}
		rt, err := openRuntime(cmd, true)
		if err != nil {
			return err
		}
		defer rt.Close()

		srv := api.New(api.Deps{
			Profiles:    rt.profiles,
			Diagnostics: rt.diagnostics,
			Analytics:   rt.analytics,
		}, api.Options{
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			Version:      version,
		})

		logger.Get().Info("serving", zap.String("config", cfg.File), zap.Bool("review", rt.diagnostics.CanReview()))
		return srv.Listen(cmd.Context(), addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (defaults to server.addr, :8080)")
}
