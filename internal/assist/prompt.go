package assist

import (
	"fmt"
	"strings"

	"github.com/abhisek/methodo/internal/practice"
)

// ReflectionPrompt is offered when a practice session asks for reflection.
const ReflectionPrompt = "通过这次思考，你对问题有了哪些新的认识？有什么可以改进的地方？"

// VisualizationPrompt builds the diagram request for a practice session.
func VisualizationPrompt(methodologyName string, qas []QA) string {
	var b strings.Builder
	fmt.Fprintf(&b, "请根据以下%s的问答内容，生成一个Mermaid图形代码。\n\n", methodologyName)
	fmt.Fprintf(&b, "方法论：%s\n\n", methodologyName)
	b.WriteString("问答内容：\n")
	for i, qa := range qas {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "%d. %s\n   答：%s", i+1, qa.Question, qa.Answer)
	}
	b.WriteString("\n\n请生成合适的Mermaid代码（flowchart、graph、mindmap等），要求：\n")
	b.WriteString("1. 图形清晰易懂\n")
	b.WriteString("2. 体现问答的逻辑关系\n")
	b.WriteString("3. 只返回Mermaid代码，不要其他说明文字\n")
	b.WriteString("4. 使用中文标签")
	return b.String()
}

// RecordPrompt builds the diagram request for a saved practice record.
func RecordPrompt(r practice.Record) string {
	qas := make([]QA, len(r.QuestionAnswers))
	for i, qa := range r.QuestionAnswers {
		qas[i] = QA{Question: qa.Question, Answer: qa.Answer}
	}
	return VisualizationPrompt(r.MethodologyName, qas)
}

// RefineAnswer returns the answer unchanged; there is no rewriting model.
func RefineAnswer(answer string) string {
	return answer
}
