package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Manage page drafts",
	Long: `Manage the draft version of a page.

Examples:
  doxyde draft edit <page-id>
  doxyde draft publish <page-id>
  doxyde draft discard <page-id>
  doxyde draft show <page-id>`,
}

var draftEditCmd = &cobra.Command{
	Use:   "edit <page-id>",
	Short: "Get or create the page's draft",
	Args:  cobra.ExactArgs(1),
	RunE:  runDraftEdit,
}

var draftPublishCmd = &cobra.Command{
	Use:   "publish <page-id>",
	Short: "Publish the page's draft",
	Args:  cobra.ExactArgs(1),
	RunE:  runDraftPublish,
}

var draftDiscardCmd = &cobra.Command{
	Use:   "discard <page-id>",
	Short: "Discard the page's draft",
	Args:  cobra.ExactArgs(1),
	RunE:  runDraftDiscard,
}

var draftShowCmd = &cobra.Command{
	Use:   "show <page-id>",
	Short: "Show the page's draft components",
	Args:  cobra.ExactArgs(1),
	RunE:  runDraftShow,
}

var draftAuthor string

func init() {
	rootCmd.AddCommand(draftCmd)
	draftCmd.AddCommand(draftEditCmd, draftPublishCmd, draftDiscardCmd, draftShowCmd)

	draftEditCmd.Flags().StringVar(&draftAuthor, "author", "", "actor recorded on the draft version")
}

func runDraftEdit(cmd *cobra.Command, args []string) error {
	engine, cleanup, err := openEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	draft, err := engine.GetOrCreateDraft(cmd.Context(), args[0], draftAuthor)
	if err != nil {
		return err
	}

	state := "existing"
	if draft.IsNew {
		state = "new"
	}
	fmt.Printf("Draft version %d (%s), %d component(s)\n", draft.Version.Number, state, len(draft.Components))
	return nil
}

func runDraftPublish(cmd *cobra.Command, args []string) error {
	engine, cleanup, err := openEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	v, err := engine.PublishDraft(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Published version %d\n", v.Number)
	return nil
}

func runDraftDiscard(cmd *cobra.Command, args []string) error {
	engine, cleanup, err := openEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	if err := engine.DiscardDraft(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Println("Draft discarded")
	return nil
}

func runDraftShow(cmd *cobra.Command, args []string) error {
	engine, cleanup, err := openEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	v, components, err := engine.GetDraftContent(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Draft version %d\n", v.Number)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "POS\tID\tTYPE\tTITLE")
	for _, c := range components {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", c.Position, c.ID, c.Type, c.Title)
	}
	return w.Flush()
}
