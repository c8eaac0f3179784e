package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/methodo/internal/catalog"
	"github.com/abhisek/methodo/internal/guide"
)

var guideCmd = &cobra.Command{
	Use:   "guide",
	Short: "Have a short guided conversation that recommends methodologies",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(cmd, false)
		if err != nil {
			return err
		}
		defer svc.Close()

		out := cmd.OutOrStdout()
		p := newPrompter(cmd.InOrStdin(), out)
		g := guide.Default()
		q := g.Start()
		var conv guide.Conversation
		var reasoning string

		for q.Type != guide.TypeRecommendation {
			fmt.Fprintf(out, "\n%s\n", q.Text)
			for i, o := range q.Options {
				fmt.Fprintf(out, "  %d. %s", i+1, o.Text)
				if o.Description != "" {
					fmt.Fprintf(out, "  (%s)", o.Description)
				}
				fmt.Fprintln(out)
			}
			i, word, err := p.choose(len(q.Options), "q")
			if errors.Is(err, io.EOF) || word == "q" {
				return nil
			}
			if err != nil {
				return err
			}

			opt := q.Options[i]
			conv.Add(q, opt)
			next, ok := g.Next(q.ID, opt.ID, conv)
			if !ok {
				// Dead end: fall back to the rule-based recommendation.
				rec := guide.Recommend(conv)
				next = guide.Question{
					ID:         "recommend",
					Text:       guide.RecommendationText,
					Type:       guide.TypeRecommendation,
					Methods:    rec.Methods,
					Confidence: rec.Confidence,
				}
				reasoning = rec.Reasoning
				svc.log.Debug("guide fell back to rules", "question", q.ID, "option", opt.ID)
			}
			q = next
		}

		fmt.Fprintf(out, "\n%s（置信度 %.0f%%）\n", q.Text, q.Confidence*100)
		for _, k := range q.Methods {
			m, err := svc.catalog.GetByKey(cmd.Context(), k)
			if errors.Is(err, catalog.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "  • %s  %s\n", m.Name, m.Description)
		}
		if reasoning != "" {
			fmt.Fprintf(out, "\n%s\n", reasoning)
		}
		if len(q.Methods) > 0 {
			fmt.Fprintf(out, "\nStart practicing with `methodo practice %s`.\n", q.Methods[0])
		}
		return nil
	},
}
