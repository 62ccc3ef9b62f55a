// Package cli implements the patio-designer command-line interface.
//
// # Commands
//
//   - render: draw the enclosure frame onto a photo (or a directory of photos)
//   - price: print the estimate without drawing
//   - serve: run the HTTP shell
//   - config: write or print the configuration file
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// passed through context.Context so the pipeline logs through it too.
package cli

import (
	"os"

	"github.com/menta2k/patio-designer/internal/config"
)

const appName = "patio-designer"

// loadConfig reads path when given, otherwise the default config file when it
// exists, otherwise built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = config.GetConfigPath()
		if _, err := os.Stat(path); err != nil {
			cfg := config.Default()
			cfg.ApplyEnv()
			return cfg, nil
		}
	}

	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
