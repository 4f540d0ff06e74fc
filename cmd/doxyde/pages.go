package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jhiver/doxyde-sub000/app"
)

var pagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "Manage the page tree",
	Long: `Inspect and manage the page tree.

Examples:
  doxyde pages tree
  doxyde pages create --parent <id> --title "About Us"
  doxyde pages move <id> --parent <id> --position 0
  doxyde pages delete <id>
  doxyde pages search widget`,
}

var pagesTreeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the page hierarchy",
	RunE:  runPagesTree,
}

var pagesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new page",
	RunE:  runPagesCreate,
}

var pagesMoveCmd = &cobra.Command{
	Use:   "move <page-id>",
	Short: "Move a page to a new parent and/or position",
	Args:  cobra.ExactArgs(1),
	RunE:  runPagesMove,
}

var pagesDeleteCmd = &cobra.Command{
	Use:   "delete <page-id>",
	Short: "Delete a page and its subtree",
	Args:  cobra.ExactArgs(1),
	RunE:  runPagesDelete,
}

var pagesSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search pages by metadata and published content",
	Args:  cobra.ExactArgs(1),
	RunE:  runPagesSearch,
}

var pagesGetCmd = &cobra.Command{
	Use:   "get <page-id-or-path>",
	Short: "Show page details",
	Args:  cobra.ExactArgs(1),
	RunE:  runPagesGet,
}

var (
	pageParent   string
	pageTitle    string
	pageSlug     string
	pageTemplate string
	pagePosition int
)

func init() {
	rootCmd.AddCommand(pagesCmd)
	pagesCmd.AddCommand(pagesTreeCmd, pagesCreateCmd, pagesMoveCmd, pagesDeleteCmd, pagesSearchCmd, pagesGetCmd)

	pagesCreateCmd.Flags().StringVar(&pageParent, "parent", "", "parent page ID (empty creates the root)")
	pagesCreateCmd.Flags().StringVar(&pageTitle, "title", "", "page title (required)")
	pagesCreateCmd.Flags().StringVar(&pageSlug, "slug", "", "page slug (derived from title when empty)")
	pagesCreateCmd.Flags().StringVar(&pageTemplate, "template", "", "page template")

	pagesMoveCmd.Flags().StringVar(&pageParent, "parent", "", "new parent page ID (required)")
	pagesMoveCmd.Flags().IntVar(&pagePosition, "position", -1, "target position (appended when omitted)")
}

func runPagesTree(cmd *cobra.Command, args []string) error {
	engine, cleanup, err := openEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	root, err := engine.ListPages(cmd.Context())
	if err != nil {
		return err
	}
	printTree(root, 0)
	return nil
}

func printTree(node app.PageNode, depth int) {
	indent := strings.Repeat("  ", depth)
	slug := node.Page.Slug
	if slug == "" {
		slug = "/"
	}
	fmt.Printf("%s%s  %s  (%s)\n", indent, slug, node.Page.Title, node.Page.ID)
	for _, child := range node.Children {
		printTree(child, depth+1)
	}
}

func runPagesCreate(cmd *cobra.Command, args []string) error {
	if pageTitle == "" {
		return fmt.Errorf("--title is required")
	}

	engine, cleanup, err := openEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	p, err := engine.CreatePage(cmd.Context(), app.CreatePageInput{
		ParentID: pageParent,
		Slug:     pageSlug,
		Title:    pageTitle,
		Template: pageTemplate,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Created page %s (slug: %s)\n", p.ID, p.Slug)
	return nil
}

func runPagesMove(cmd *cobra.Command, args []string) error {
	if pageParent == "" {
		return fmt.Errorf("--parent is required")
	}

	engine, cleanup, err := openEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	var position *int
	if pagePosition >= 0 {
		position = &pagePosition
	}
	p, err := engine.MovePage(cmd.Context(), args[0], pageParent, position)
	if err != nil {
		return err
	}
	fmt.Printf("Moved page %s to parent %s position %d\n", p.ID, p.ParentID, p.Position)
	return nil
}

func runPagesDelete(cmd *cobra.Command, args []string) error {
	engine, cleanup, err := openEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	removed, err := engine.DeletePage(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Deleted %d page(s)\n", removed)
	return nil
}

func runPagesSearch(cmd *cobra.Command, args []string) error {
	engine, cleanup, err := openEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	results, err := engine.SearchPages(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSLUG\tTITLE")
	for _, p := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.ID, p.Slug, p.Title)
	}
	return w.Flush()
}

func runPagesGet(cmd *cobra.Command, args []string) error {
	engine, cleanup, err := openEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	ref := args[0]
	p, err := engine.GetPage(cmd.Context(), ref)
	if err != nil && strings.HasPrefix(ref, "/") {
		p, err = engine.GetPageByPath(cmd.Context(), ref)
	}
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "ID\t%s\n", p.ID)
	fmt.Fprintf(w, "Parent\t%s\n", p.ParentID)
	fmt.Fprintf(w, "Slug\t%s\n", p.Slug)
	fmt.Fprintf(w, "Title\t%s\n", p.Title)
	fmt.Fprintf(w, "Template\t%s\n", p.Template)
	fmt.Fprintf(w, "Position\t%d\n", p.Position)
	fmt.Fprintf(w, "Sort mode\t%s\n", p.SortMode)
	fmt.Fprintf(w, "Created\t%s\n", p.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Updated\t%s\n", p.UpdatedAt.Format("2006-01-02 15:04:05"))
	return w.Flush()
}
