package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/methodo/internal/assist"
	"github.com/abhisek/methodo/internal/catalog"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <question>",
	Short: "Suggest answers for a practice question",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		problem, _ := cmd.Flags().GetString("context")
		key, _ := cmd.Flags().GetString("methodology")

		svc, err := openServices(cmd, false)
		if err != nil {
			return err
		}
		defer svc.Close()

		ctx := cmd.Context()
		req := assist.SuggestionRequest{
			Context:  problem,
			Question: strings.Join(args, " "),
		}
		if key != "" {
			m, err := svc.catalog.GetByKey(ctx, catalog.Key(key))
			if err != nil {
				return fmt.Errorf("methodology %q: %w", key, err)
			}
			req.MethodologyName = m.Name
		}

		got, err := svc.assist.Suggestions(ctx, req)
		if err != nil {
			svc.log.Warn("suggestions failed", "error", err)
			return errors.New(assist.UserMessage)
		}
		out := cmd.OutOrStdout()
		for i, s := range got {
			fmt.Fprintf(out, "%d. %s  (%.0f%%)\n", i+1, s.Text, s.Confidence*100)
		}
		return nil
	},
}

var diagramCmd = &cobra.Command{
	Use:   "diagram [prompt]",
	Short: "Generate Mermaid source from a prompt or a saved practice record",
	RunE: func(cmd *cobra.Command, args []string) error {
		timestamp, _ := cmd.Flags().GetString("record")
		list, _ := cmd.Flags().GetBool("templates")

		out := cmd.OutOrStdout()
		if list {
			for _, t := range assist.DiagramTemplates() {
				fmt.Fprintf(out, "%-16s  %s\n", t.Type, strings.Join(t.Keywords, ", "))
			}
			return nil
		}

		svc, err := openServices(cmd, false)
		if err != nil {
			return err
		}
		defer svc.Close()

		ctx := cmd.Context()
		prompt := strings.Join(args, " ")
		if timestamp != "" {
			r, ok, err := svc.practice.Get(ctx, timestamp)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no practice record %q", timestamp)
			}
			prompt = assist.RecordPrompt(r)
		}

		d, err := svc.assist.Diagram(ctx, prompt)
		if errors.Is(err, assist.ErrEmptyPrompt) {
			return err
		}
		if err != nil {
			svc.log.Warn("diagram generation failed", "error", err)
			return errors.New(assist.UserMessage)
		}
		svc.log.Debug("diagram generated", "type", d.DetectedType, "source", d.Source)
		fmt.Fprint(out, d.Code)
		return nil
	},
}

func init() {
	suggestCmd.Flags().String("context", "", "Problem description the question is about")
	suggestCmd.Flags().StringP("methodology", "m", "", "Methodology key the question belongs to")

	diagramCmd.Flags().String("record", "", "Build the prompt from the practice record with this timestamp")
	diagramCmd.Flags().Bool("templates", false, "List the built-in diagram templates")
}
