package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/methodo/internal/catalog"
	"github.com/abhisek/methodo/internal/decisiontree"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Answer a few questions to get a methodology recommendation",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(cmd, false)
		if err != nil {
			return err
		}
		defer svc.Close()

		out := cmd.OutOrStdout()
		p := newPrompter(cmd.InOrStdin(), out)
		eng := decisiontree.NewEngine(decisiontree.Default())

		for {
			node, err := eng.CurrentNode()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%s\n", node.Question)
			for i, o := range node.Options {
				fmt.Fprintf(out, "  %d. %s\n", i+1, o.Text)
			}
			extra := []string{"q"}
			if !eng.AtStart() {
				fmt.Fprintln(out, "  r. 重新开始")
				extra = append(extra, "r")
			}

			i, word, err := p.choose(len(node.Options), extra...)
			if errors.Is(err, io.EOF) || word == "q" {
				return nil
			}
			if err != nil {
				return err
			}
			if word == "r" {
				eng.Reset()
				continue
			}

			res, err := eng.Choose(i)
			if err != nil {
				return err
			}
			if res.Kind == decisiontree.Recommend {
				return printRecommendation(cmd, svc, res.Method)
			}
		}
	},
}

var treeValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the decision tree for dangling links, cycles and unknown methods",
	RunE: func(cmd *cobra.Command, args []string) error {
		g := decisiontree.Default()
		if err := decisiontree.Validate(g, catalog.BuiltinKeys()); err != nil {
			return err
		}
		depth, err := decisiontree.MaxDepth(g)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "decision tree OK: %d nodes, max depth %d\n", len(g.Nodes()), depth)
		return nil
	},
}

func init() {
	treeCmd.AddCommand(treeValidateCmd)
}

func printRecommendation(cmd *cobra.Command, svc *services, key catalog.Key) error {
	m, err := svc.catalog.GetByKey(cmd.Context(), key)
	if err != nil {
		return fmt.Errorf("recommended methodology %q: %w", key, err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n推荐：%s\n%s\n\nStart practicing with `methodo practice %s`.\n", m.Name, m.Description, m.Key)
	return nil
}
