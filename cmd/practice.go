package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/methodo/internal/assist"
	"github.com/abhisek/methodo/internal/catalog"
	"github.com/abhisek/methodo/internal/practice"
)

var practiceCmd = &cobra.Command{
	Use:   "practice <key>",
	Short: "Work through a methodology's questions and save the session",
	Long: `Work through a methodology's questions and save the session.

At each question: type an answer, enter a number to pick a quick option,
"?" for suggestions, or leave it empty to skip.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		contextFlag, _ := cmd.Flags().GetString("context")
		noDiagram, _ := cmd.Flags().GetBool("no-diagram")

		svc, err := openServices(cmd, false)
		if err != nil {
			return err
		}
		defer svc.Close()

		ctx := cmd.Context()
		m, err := svc.catalog.GetByKey(ctx, catalog.Key(args[0]))
		if errors.Is(err, catalog.ErrNotFound) {
			return fmt.Errorf("no methodology %q (see `methodo browse`)", args[0])
		}
		if err != nil {
			return err
		}
		if len(m.Questions) == 0 {
			return fmt.Errorf("practice %s: %s", m.Key, practice.MsgNoQuestions)
		}

		out := cmd.OutOrStdout()
		s := &practiceSession{
			svc:     svc,
			cmd:     cmd,
			p:       newPrompter(cmd.InOrStdin(), out),
			out:     out,
			m:       m,
			context: strings.TrimSpace(contextFlag),
		}
		rec, err := s.run()
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(out, "\nInput ended; nothing saved.")
			return nil
		}
		if err != nil {
			return err
		}

		if err := svc.practice.Save(ctx, rec); err != nil {
			return fmt.Errorf("save practice: %w", err)
		}
		svc.log.Info("practice saved", "methodology", rec.Methodology, "answered", rec.Answered())
		fmt.Fprintf(out, "\n已保存练习记录 %s\n", rec.Timestamp)

		if m.SupportsVisualization && !noDiagram {
			d, err := svc.assist.Diagram(ctx, assist.RecordPrompt(rec))
			if err != nil {
				svc.log.Warn("diagram generation failed", "error", err)
				fmt.Fprintln(out, assist.UserMessage)
				return nil
			}
			fmt.Fprintf(out, "\n```mermaid\n%s```\n", d.Code)
		}
		return nil
	},
}

func init() {
	practiceCmd.Flags().String("context", "", "Problem description (prompted when empty)")
	practiceCmd.Flags().Bool("no-diagram", false, "Skip the Mermaid diagram for visualizable methodologies")
}

type practiceSession struct {
	svc     *services
	cmd     *cobra.Command
	p       *prompter
	out     io.Writer
	m       catalog.Methodology
	context string
}

func (s *practiceSession) run() (practice.Record, error) {
	fmt.Fprintf(s.out, "%s\n%s\n\n", s.m.Name, s.m.Description)

	for s.context == "" {
		c, err := s.p.ask("问题描述: ")
		if err != nil {
			return practice.Record{}, err
		}
		if c == "" {
			fmt.Fprintln(s.out, practice.MsgContextRequired)
		}
		s.context = c
	}

	for {
		answers, err := s.answerAll()
		if err != nil {
			return practice.Record{}, err
		}

		fmt.Fprintf(s.out, "\n%s\n", assist.ReflectionPrompt)
		reflection, err := s.p.ask("反思: ")
		if err != nil {
			return practice.Record{}, err
		}

		rec, err := practice.NewRecord(s.m, s.context, answers, reflection, time.Now())
		var verr *practice.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintf(s.out, "\n%s\n\n", verr.Message)
			continue
		}
		return rec, err
	}
}

func (s *practiceSession) answerAll() ([]string, error) {
	answers := make([]string, len(s.m.Questions))
	for i, q := range s.m.Questions {
		fmt.Fprintf(s.out, "\n%d/%d  %s\n", i+1, len(s.m.Questions), q.Text)
		for j, opt := range q.QuickOptions {
			fmt.Fprintf(s.out, "  [%d] %s\n", j+1, opt)
		}
		if q.Placeholder != "" {
			fmt.Fprintf(s.out, "  e.g. %s\n", q.Placeholder)
		}

		var suggestions []assist.Suggestion
		for {
			line, err := s.p.ask("> ")
			if err != nil {
				return nil, err
			}
			if line == "?" {
				suggestions = s.suggest(q, answers[:i])
				continue
			}
			if n, err := strconv.Atoi(line); err == nil {
				switch {
				case n >= 1 && n <= len(q.QuickOptions):
					line = q.QuickOptions[n-1]
				case n > len(q.QuickOptions) && n <= len(q.QuickOptions)+len(suggestions):
					line = suggestions[n-len(q.QuickOptions)-1].Text
				}
			}
			answers[i] = assist.RefineAnswer(line)
			break
		}
	}
	return answers, nil
}

// suggest prints suggestions numbered after the quick options so the same
// numeric shortcut picks either.
func (s *practiceSession) suggest(q catalog.Question, previous []string) []assist.Suggestion {
	got, err := s.svc.assist.Suggestions(s.cmd.Context(), assist.SuggestionRequest{
		Context:         s.context,
		Question:        q.Text,
		MethodologyName: s.m.Name,
		PreviousAnswers: previous,
	})
	if err != nil {
		s.svc.log.Warn("suggestions failed", "error", err)
		fmt.Fprintln(s.out, assist.UserMessage)
		return nil
	}
	offset := len(q.QuickOptions)
	for i, sg := range got {
		fmt.Fprintf(s.out, "  [%d] %s  (%.0f%%)\n", offset+i+1, sg.Text, sg.Confidence*100)
	}
	return got
}
