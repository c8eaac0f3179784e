package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/methodo/internal/catalog"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "List and search methodologies",
	RunE: func(cmd *cobra.Command, args []string) error {
		term, _ := cmd.Flags().GetString("search")
		category, _ := cmd.Flags().GetString("category")
		visual, _ := cmd.Flags().GetBool("visual")

		svc, err := openServices(cmd, false)
		if err != nil {
			return err
		}
		defer svc.Close()

		ctx := cmd.Context()
		var ms []catalog.Methodology
		if visual {
			ms, err = svc.catalog.Visualizable(ctx)
		} else {
			ms, err = svc.catalog.Search(ctx, term, category)
		}
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(ms) == 0 {
			fmt.Fprintln(out, "No methodologies match.")
			return nil
		}
		printMethodologies(out, ms)
		return nil
	},
}

var browseShowCmd = &cobra.Command{
	Use:   "show <key>",
	Short: "Show one methodology with its questions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(cmd, false)
		if err != nil {
			return err
		}
		defer svc.Close()

		m, err := svc.catalog.GetByKey(cmd.Context(), catalog.Key(args[0]))
		if errors.Is(err, catalog.ErrNotFound) {
			return fmt.Errorf("no methodology %q (see `methodo browse`)", args[0])
		}
		if err != nil {
			return err
		}
		printMethodology(cmd.OutOrStdout(), m)
		return nil
	},
}

var browseCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories with counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(cmd, false)
		if err != nil {
			return err
		}
		defer svc.Close()

		st, err := svc.catalog.Stats(cmd.Context())
		if err != nil {
			return err
		}
		cats, err := svc.catalog.Categories(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, c := range cats {
			fmt.Fprintf(out, "%-12s  %d\n", c, st.ByCategory[c])
		}
		fmt.Fprintf(out, "\n%d methodologies\n", st.Total)
		return nil
	},
}

var browseResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard catalog edits and restore the built-in methodologies",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(cmd, false)
		if err != nil {
			return err
		}
		defer svc.Close()

		if err := svc.catalog.Reset(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Catalog restored to built-in methodologies.")
		return nil
	},
}

func init() {
	browseCmd.Flags().StringP("search", "s", "", "Case-insensitive search over name, description and tags")
	browseCmd.Flags().StringP("category", "c", catalog.AllCategories, "Filter by category")
	browseCmd.Flags().Bool("visual", false, "Only methodologies that support diagrams")

	browseCmd.AddCommand(browseShowCmd)
	browseCmd.AddCommand(browseCategoriesCmd)
	browseCmd.AddCommand(browseResetCmd)
}

func printMethodologies(out io.Writer, ms []catalog.Methodology) {
	fmt.Fprintf(out, "%-14s  %-24s  %-8s  %-6s  %s\n", "Key", "Name", "Category", "Level", "Tags")
	fmt.Fprintln(out, strings.Repeat("─", 80))
	for _, m := range ms {
		fmt.Fprintf(out, "%-14s  %-24s  %-8s  %-6s  %s\n",
			m.Key, m.Name, m.Category, m.Difficulty, strings.Join(m.Tags, ", "))
	}
	fmt.Fprintf(out, "\n%d methodologies\n", len(ms))
}

func printMethodology(out io.Writer, m catalog.Methodology) {
	fmt.Fprintf(out, "%s  (%s)\n", m.Name, m.Key)
	fmt.Fprintln(out, strings.Repeat("─", 60))
	fmt.Fprintf(out, "Category:   %s\n", m.Category)
	fmt.Fprintf(out, "Difficulty: %s\n", m.Difficulty)
	fmt.Fprintf(out, "Tags:       %s\n", strings.Join(m.Tags, ", "))
	fmt.Fprintf(out, "Scenarios:  %s\n", strings.Join(m.Scenarios, ", "))
	if m.SupportsVisualization {
		fmt.Fprintln(out, "Diagram:    yes")
	}
	fmt.Fprintf(out, "\n%s\n\nQuestions:\n", m.Description)
	for i, q := range m.Questions {
		fmt.Fprintf(out, "  %d. %s\n", i+1, q.Text)
		if len(q.QuickOptions) > 0 {
			fmt.Fprintf(out, "     [%s]\n", strings.Join(q.QuickOptions, " | "))
		}
	}
	if m.Example != "" {
		fmt.Fprintf(out, "\nExample:\n  %s\n", m.Example)
	}
}
