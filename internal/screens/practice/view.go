package practice

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/methodo/internal/assist"
	"github.com/abhisek/methodo/internal/ui/components"
	"github.com/abhisek/methodo/internal/ui/theme"
)

func (s *PracticeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, s.renderHeader(cw))

	switch s.phase {
	case phaseContext:
		sections = append(sections, s.renderContext(cw))
	case phaseQuestions:
		sections = append(sections, s.renderQuestion(cw))
	case phaseReflection:
		sections = append(sections, s.renderReflection(cw))
	case phaseSaving:
		sections = append(sections, theme.Hint.Render("保存中…"))
	case phaseDone:
		sections = append(sections, s.renderDone(cw))
	}

	if s.errMsg != "" {
		sections = append(sections, theme.ErrorText.Render(s.errMsg))
	}

	content := strings.Join(sections, "\n\n")
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(1, 2).
		Render(content)
}

func (s *PracticeScreen) renderHeader(cw int) string {
	title := theme.Title.Render(s.m.Name) + "  " + components.Badge(s.m.Category)

	total := len(s.m.Questions)
	done := 0
	switch s.phase {
	case phaseQuestions:
		done = s.current
	case phaseReflection, phaseSaving, phaseDone:
		done = total
	}
	bar := components.NewProgressBar(fmt.Sprintf("%d/%d", done, total), done, total, cw).View()
	return title + "\n" + bar
}

func (s *PracticeScreen) renderContext(cw int) string {
	var b strings.Builder
	b.WriteString(theme.Body.Render(s.m.Description))
	b.WriteString("\n\n")
	b.WriteString(theme.Heading.Render("问题描述"))
	b.WriteString("\n")
	b.WriteString(s.input.View())
	if s.m.Example != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Width(cw).Render("示例：" + s.m.Example))
	}
	return b.String()
}

func (s *PracticeScreen) renderQuestion(cw int) string {
	q := s.m.Questions[s.current]

	var b strings.Builder
	b.WriteString(theme.Hint.Render("问题描述：" + s.context))
	b.WriteString("\n\n")
	b.WriteString(theme.Heading.Render(fmt.Sprintf("%d. %s", s.current+1, q.Text)))
	b.WriteString("\n\n")
	b.WriteString(s.input.View())

	cands := s.candidates()
	nQuick := len(q.QuickOptions)
	if nQuick > 0 {
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render("快捷选项"))
		b.WriteString("\n")
		for i, opt := range q.QuickOptions {
			b.WriteString(candidateLine(opt, "", i == s.candidate))
		}
	}

	switch {
	case s.suggestLoading:
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render("生成建议中…"))
	case s.suggestErr != "":
		b.WriteString("\n\n")
		b.WriteString(theme.ErrorText.Render(s.suggestErr))
	case len(cands) > nQuick:
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render("AI 建议"))
		b.WriteString("\n")
		for i, sg := range s.suggestions {
			conf := fmt.Sprintf("%.0f%%", sg.Confidence*100)
			b.WriteString(candidateLine(sg.Text, conf, nQuick+i == s.candidate))
		}
	}
	return lipgloss.NewStyle().Width(cw).Render(b.String())
}

func candidateLine(text, note string, selected bool) string {
	line := "  " + text
	style := theme.Unselected
	if selected {
		line = "▸ " + text
		style = theme.Selected
	}
	out := style.Render(line)
	if note != "" {
		out += "  " + theme.Hint.Render(note)
	}
	return out + "\n"
}

func (s *PracticeScreen) renderReflection(cw int) string {
	var b strings.Builder
	b.WriteString(theme.Heading.Render("反思"))
	b.WriteString("\n")
	b.WriteString(theme.Body.Width(cw).Render(assist.ReflectionPrompt))
	b.WriteString("\n\n")
	b.WriteString(s.input.View())
	return b.String()
}

func (s *PracticeScreen) renderDone(cw int) string {
	var b strings.Builder
	b.WriteString(theme.SuccessText.Render("✓ 练习已保存"))
	b.WriteString("\n\n")

	var qa strings.Builder
	for _, a := range s.saved.QuestionAnswers {
		answer := a.Answer
		if answer == "" {
			answer = theme.Hint.Render("（未回答）")
		}
		fmt.Fprintf(&qa, "%d. %s\n   %s\n", a.QuestionNumber, a.Question, answer)
	}
	if s.saved.Reflection != "" {
		fmt.Fprintf(&qa, "\n反思：%s", s.saved.Reflection)
	}
	b.WriteString(components.Card(s.saved.Context, strings.TrimRight(qa.String(), "\n"), cw))

	switch {
	case s.diagramLoading:
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render("生成图表中…"))
	case s.diagramErr != "":
		b.WriteString("\n\n")
		b.WriteString(theme.ErrorText.Render(s.diagramErr))
	case s.diagram != nil:
		b.WriteString("\n\n")
		b.WriteString(components.Card("Mermaid ("+s.diagram.DetectedType+")", strings.TrimRight(s.diagram.Code, "\n"), cw))
	}
	return b.String()
}
