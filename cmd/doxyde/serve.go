package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhiver/doxyde-sub000/bootstrap"
	"github.com/jhiver/doxyde-sub000/config"
)

var (
	hotReload bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the content API server",
	Long: `Start the doxyde HTTP API server.

The server will:
  - Load configuration from doxyde.yaml (or --config)
  - Or load configuration from DOXYDE_* environment variables
  - Open the database and run migrations
  - Serve the page, version and component API

Environment variables (for Docker deployments):
  DOXYDE_DATABASE_DSN    - Database path (default: doxyde.db)
  DOXYDE_SERVER_PORT     - Server port (default: 3000)
  DOXYDE_LOG_LEVEL       - Log level: debug, info, warn, error
  DOXYDE_METRICS_ENABLED - Enable /metrics endpoint

Examples:
  doxyde serve
  doxyde serve --config /etc/doxyde/config.yaml
  doxyde serve --hot-reload=false`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&hotReload, "hot-reload", true, "enable hot reload of configuration")
}

func runServe(cmd *cobra.Command, args []string) error {
	hasConfigFile := false
	if _, err := os.Stat(cfgFile); err == nil {
		hasConfigFile = true
	}

	var app *bootstrap.App
	var err error

	if hasConfigFile && hotReload {
		// Hot reload only works with a config file
		app, err = bootstrap.NewWithHotReload(cfgFile)
	} else {
		cfg, loadErr := config.LoadWithFallback(cfgFile)
		if loadErr != nil {
			return fmt.Errorf("error loading config: %w", loadErr)
		}
		if !hasConfigFile {
			fmt.Println("Running with environment variables (no config file)")
		}
		app, err = bootstrap.New(cfg)
	}
	if err != nil {
		return fmt.Errorf("error initializing: %w", err)
	}

	// Run (blocks until shutdown)
	return app.Run()
}
