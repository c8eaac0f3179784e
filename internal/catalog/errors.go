package catalog

import "errors"

// ErrNotFound is returned when a methodology key is not in the catalog.
var ErrNotFound = errors.New("catalog: methodology not found")

// ErrNoQuestions is returned when saving a methodology without questions.
var ErrNoQuestions = errors.New("catalog: methodology has no questions")
