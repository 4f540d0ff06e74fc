package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jhiver/doxyde-sub000/adapters/clock"
	"github.com/jhiver/doxyde-sub000/adapters/idgen"
	"github.com/jhiver/doxyde-sub000/adapters/sqlite"
	"github.com/jhiver/doxyde-sub000/app"
	"github.com/jhiver/doxyde-sub000/config"
)

var (
	// Global flags
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "doxyde",
	Short: "Hierarchical content server with versioned pages",
	Long: `Doxyde is a content server built around a page tree with a
draft/published version lifecycle.

Quick start:
  doxyde init       # Create the config file and bootstrap the root page
  doxyde serve      # Start the HTTP API server

Management:
  doxyde pages      # Inspect and manage the page tree
  doxyde draft      # Manage page drafts
  doxyde versions   # List page version history`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "doxyde.yaml", "config file path")
}

// openEngine loads the configuration, opens the database and wires an engine
// for one-shot CLI commands. The caller must invoke the returned cleanup.
func openEngine(ctx context.Context) (*app.Engine, func(), error) {
	cfg, err := config.LoadWithFallback(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	db, err := sqlite.Open(cfg.Database.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}

	logger := zerolog.New(os.Stderr).Level(zerolog.WarnLevel)
	engine := app.NewEngine(
		sqlite.NewPageStore(db),
		sqlite.NewVersionStore(db),
		sqlite.NewComponentStore(db),
		db,
		clock.Real{},
		idgen.UUID{},
		nil,
		logger,
	)
	return engine, func() { db.Close() }, nil
}
