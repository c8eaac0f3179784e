package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/methodo/internal/assist"
	"github.com/abhisek/methodo/internal/catalog"
	"github.com/abhisek/methodo/internal/logging"
	"github.com/abhisek/methodo/internal/practice"
	"github.com/abhisek/methodo/internal/ui/layout"
	"github.com/abhisek/methodo/internal/user"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// EscHandler is implemented by screens that consume Esc themselves while
// HandlesEsc returns true, e.g. to step back a level inside the screen.
type EscHandler interface {
	HandlesEsc() bool
}

// StatsChangedMsg tells the app that practice records changed and the
// header counters should be reloaded.
type StatsChangedMsg struct{}

// Services are the domain services screens read from and write to.
type Services struct {
	Catalog     *catalog.Catalog
	Practice    *practice.Store
	Users       *user.Service
	Assist      *assist.Service
	Log         *logging.Logger
	RecentLimit int
}
