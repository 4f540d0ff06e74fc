package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhiver/doxyde-sub000/app"
	"github.com/jhiver/doxyde-sub000/pkg/errs"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactive setup wizard",
	Long: `Initialize doxyde with an interactive setup wizard.

This will:
  1. Ask for the database location
  2. Create the initial configuration file
  3. Bootstrap the root page

Examples:
  doxyde init
  doxyde init --config /etc/doxyde/config.yaml`,
	RunE: runInit,
}

var (
	initDatabase       string
	initRootTitle      string
	initNonInteractive bool
)

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&initDatabase, "database", "doxyde.db", "database file path")
	initCmd.Flags().StringVar(&initRootTitle, "root-title", "Home", "title for the root page")
	initCmd.Flags().BoolVar(&initNonInteractive, "non-interactive", false, "run without prompts")
}

func runInit(cmd *cobra.Command, args []string) error {
	fmt.Println("Welcome to Doxyde!")
	fmt.Println()

	// Check if config already exists
	if _, err := os.Stat(cfgFile); err == nil {
		fmt.Printf("Configuration file already exists: %s\n", cfgFile)
		if !confirm("Overwrite?") {
			fmt.Println("Aborted.")
			return nil
		}
	}

	reader := bufio.NewReader(os.Stdin)

	database := initDatabase
	if !initNonInteractive && initDatabase == "doxyde.db" {
		database = prompt(reader, "Database location", "doxyde.db")
	}

	rootTitle := initRootTitle
	if !initNonInteractive && initRootTitle == "Home" {
		rootTitle = prompt(reader, "Root page title", "Home")
	}

	content := fmt.Sprintf(`server:
  host: 0.0.0.0
  port: 3000

database:
  driver: sqlite
  dsn: %s

content:
  root_title: %s

logging:
  level: info
  format: json

metrics:
  enabled: true
`, database, rootTitle)

	if err := os.WriteFile(cfgFile, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Printf("Created %s\n", cfgFile)

	engine, cleanup, err := openEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	_, err = engine.CreatePage(cmd.Context(), app.CreatePageInput{Title: rootTitle})
	switch {
	case err == nil:
		fmt.Printf("Bootstrapped root page %q\n", rootTitle)
	case errs.IsConflict(err):
		fmt.Println("Root page already exists, leaving it untouched")
	default:
		return err
	}

	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  doxyde serve")
	return nil
}

func prompt(reader *bufio.Reader, label, fallback string) string {
	if fallback != "" {
		fmt.Printf("%s [%s]: ", label, fallback)
	} else {
		fmt.Printf("%s: ", label)
	}
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return fallback
	}
	return line
}

func confirm(label string) bool {
	fmt.Printf("%s [y/N]: ", label)
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	line = strings.ToLower(strings.TrimSpace(line))
	return line == "y" || line == "yes"
}
