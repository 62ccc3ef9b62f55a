package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	patiodesigner "github.com/menta2k/patio-designer"
)

var (
	version = patiodesigner.Version
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version. Empty
// values leave the defaults in place.
func SetVersion(v, c, d string) {
	if v != "" {
		version = v
	}
	commit = c
	date = d
}

// Execute runs the CLI with the given context.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	var verbose bool
	var configPath string

	root := &cobra.Command{
		Use:          appName,
		Short:        "Patio designer renders enclosure frames onto patio photos",
		Long:         `Patio designer draws a calibrated enclosure frame (posts, chair rail, screen texture and door markers) onto a patio or porch photo and estimates the enclosure price.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			ctx := patiodesigner.WithLogger(cmd.Context(), patiodesigner.NewLogger(cmd.ErrOrStderr(), level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("%s %s\ncommit: %s\nbuilt: %s\n", appName, version, valueOr(commit, "unknown"), valueOr(date, "unknown")))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (.json or .toml)")

	root.AddCommand(newRenderCmd(&configPath))
	root.AddCommand(newPriceCmd(&configPath))
	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newConfigCmd(&configPath))

	return root
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
