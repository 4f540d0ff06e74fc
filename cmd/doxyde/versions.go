package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var versionsCmd = &cobra.Command{
	Use:   "versions <page-id>",
	Short: "List a page's version history",
	Args:  cobra.ExactArgs(1),
	RunE:  runVersions,
}

func init() {
	rootCmd.AddCommand(versionsCmd)
}

func runVersions(cmd *cobra.Command, args []string) error {
	engine, cleanup, err := openEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	versions, err := engine.ListVersions(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tSTATE\tCREATED BY\tCREATED AT")
	for i, v := range versions {
		// Only the newest unpublished version is editable; older
		// unpublished versions are retained history.
		state := "archived"
		switch {
		case v.IsPublished:
			state = "published"
		case i == len(versions)-1:
			state = "draft"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", v.Number, state, v.CreatedBy, v.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}
