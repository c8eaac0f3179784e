package practice

import (
	"github.com/abhisek/methodo/internal/assist"
	prac "github.com/abhisek/methodo/internal/practice"
)

// suggestionsMsg carries suggestions requested for question index Question.
type suggestionsMsg struct {
	Question    int
	Suggestions []assist.Suggestion
	Err         error
}

// savedMsg is sent when the record has been written to the store.
type savedMsg struct {
	Record prac.Record
	Err    error
}

// diagramMsg is sent when diagram generation for the saved record finishes.
type diagramMsg struct {
	Diagram assist.Diagram
	Err     error
}
