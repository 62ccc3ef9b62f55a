package cli

import (
	"time"

	"github.com/spf13/cobra"

	patiodesigner "github.com/menta2k/patio-designer"
	"github.com/menta2k/patio-designer/internal/server"
)

func newServeCmd(configPath *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve render and price requests over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			designerCfg, err := cfg.Designer()
			if err != nil {
				return err
			}

			logger := patiodesigner.LoggerFromContext(cmd.Context())
			srv := server.New(patiodesigner.NewWithConfig(designerCfg), logger, server.Options{
				ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
				WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
				// multipart framing on top of the photo itself
				BodyLimit:    (cfg.Output.MaxUploadMB + 1) << 20,
				AllowOrigins: cfg.Server.AllowOrigins,
			})
			return srv.ListenAndServe(cmd.Context(), cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, or :$PORT)")
	return cmd
}
