package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/methodo/internal/practice"
	"github.com/abhisek/methodo/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota // no recent practice
	MascotThinking                         // practiced this week
	MascotCelebrating                      // streak of three days or more
)

const mascotIdle = `┌─────┐
│ ◉ ◉ │
│  ▽  │
│ ?·? │
└─────┘`

const mascotThinking = `┌─────┐ ?
│ ◔ ◔ │
│  ○  │
│ 5W2H│
└─────┘`

const mascotCelebrating = `┌─────┐
│ ★ ★ │
│  ▿  │
│ !·! │
└─╥═╥─┘
  ╚═╝`

// StreakToCelebrate is the practice streak at which the mascot celebrates.
const StreakToCelebrate = 3

// MascotFor picks the variant for the given stats.
func MascotFor(stats practice.Stats) MascotVariant {
	switch {
	case stats.PracticeStreak >= StreakToCelebrate:
		return MascotCelebrating
	case stats.RecentActivity > 0:
		return MascotThinking
	default:
		return MascotIdle
	}
}

// RenderMascot returns the mascot ASCII art for the given variant.
func RenderMascot(v MascotVariant) string {
	art := mascotIdle
	fg := theme.TextDim

	switch v {
	case MascotCelebrating:
		art = mascotCelebrating
		fg = theme.Accent
	case MascotThinking:
		art = mascotThinking
		fg = theme.Primary
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}
