package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/methodo/internal/catalog"
	"github.com/abhisek/methodo/internal/practice"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect saved practice records",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List practice records, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		key, _ := cmd.Flags().GetString("methodology")

		svc, err := openServices(cmd, false)
		if err != nil {
			return err
		}
		defer svc.Close()

		ctx := cmd.Context()
		var records []practice.Record
		switch {
		case key != "":
			records, err = svc.practice.GetByMethodology(ctx, catalog.Key(key))
		case limit > 0:
			records, err = svc.practice.GetRecent(ctx, limit)
		case limit == 0:
			records, err = svc.practice.GetRecent(ctx, svc.cfg.Practice.RecentLimit)
		default:
			records, err = svc.practice.GetAll(ctx)
		}
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(records) == 0 {
			fmt.Fprintln(out, "No practice records yet.")
			return nil
		}
		printRecords(out, records)
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <timestamp>",
	Short: "Show one practice record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		svc, err := openServices(cmd, false)
		if err != nil {
			return err
		}
		defer svc.Close()

		r, ok, err := svc.practice.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no practice record %q", args[0])
		}

		out := cmd.OutOrStdout()
		if asJSON {
			data, err := practice.ExportRecord(r)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, data)
			return nil
		}
		printRecord(out, r)
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <timestamp>",
	Short: "Delete one practice record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(cmd, false)
		if err != nil {
			return err
		}
		defer svc.Close()

		ctx := cmd.Context()
		if _, ok, err := svc.practice.Get(ctx, args[0]); err != nil {
			return err
		} else if !ok {
			return fmt.Errorf("no practice record %q", args[0])
		}
		if err := svc.practice.Delete(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all practice records",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return errors.New("refusing to clear history without --yes")
		}

		svc, err := openServices(cmd, false)
		if err != nil {
			return err
		}
		defer svc.Close()

		if err := svc.practice.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
		return nil
	},
}

func init() {
	historyListCmd.Flags().Int("limit", 0, "Number of records (0 uses practice.recentLimit, -1 lists all)")
	historyListCmd.Flags().String("methodology", "", "Only records for this methodology key")
	historyShowCmd.Flags().Bool("json", false, "Print the record as JSON")
	historyClearCmd.Flags().Bool("yes", false, "Confirm deleting every record")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyCmd.AddCommand(historyClearCmd)
}

func printRecords(out io.Writer, records []practice.Record) {
	fmt.Fprintf(out, "%-30s  %-24s  %-8s  %s\n", "Timestamp", "Methodology", "Answered", "Context")
	fmt.Fprintln(out, strings.Repeat("─", 90))
	for _, r := range records {
		ctxText := []rune(r.Context)
		if len(ctxText) > 24 {
			ctxText = append(ctxText[:23], '…')
		}
		fmt.Fprintf(out, "%-30s  %-24s  %3d/%-4d  %s\n",
			r.Timestamp, r.MethodologyName, r.Answered(), len(r.QuestionAnswers), string(ctxText))
	}
	fmt.Fprintf(out, "\n%d records\n", len(records))
}

func printRecord(out io.Writer, r practice.Record) {
	when := r.Timestamp
	if t, ok := r.Time(); ok {
		when = t.Local().Format("2006-01-02 15:04")
	}
	fmt.Fprintf(out, "%s  %s\n", r.MethodologyName, when)
	fmt.Fprintln(out, strings.Repeat("─", 60))
	if r.ContextTitle != "" {
		fmt.Fprintf(out, "标题：%s\n", r.ContextTitle)
	}
	fmt.Fprintf(out, "问题描述：%s\n\n", r.Context)
	for _, qa := range r.QuestionAnswers {
		answer := qa.Answer
		if answer == "" {
			answer = "（未回答）"
		}
		fmt.Fprintf(out, "%d. %s\n   %s\n", qa.QuestionNumber, qa.Question, answer)
	}
	if r.Reflection != "" {
		fmt.Fprintf(out, "\n反思：%s\n", r.Reflection)
	}
}
