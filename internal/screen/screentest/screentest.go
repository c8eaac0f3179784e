// Package screentest provides in-memory services and key helpers for
// screen tests.
package screentest

import (
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/methodo/internal/assist"
	"github.com/abhisek/methodo/internal/catalog"
	"github.com/abhisek/methodo/internal/logging"
	"github.com/abhisek/methodo/internal/practice"
	"github.com/abhisek/methodo/internal/screen"
	"github.com/abhisek/methodo/internal/store"
	"github.com/abhisek/methodo/internal/user"
)

// Services returns services backed by a fresh MemoryKV and the scripted
// assist provider.
func Services(t *testing.T) (*screen.Services, *store.MemoryKV) {
	t.Helper()
	kv := store.NewMemoryKV()
	log := logging.Nop()
	ps := practice.NewStore(kv, log)
	return &screen.Services{
		Catalog:     catalog.New(kv, log),
		Practice:    ps,
		Users:       user.NewService(kv, ps, log),
		Assist:      assist.NewService(assist.NewScriptedProvider(), time.Second),
		Log:         log,
		RecentLimit: practice.DefaultRecentLimit,
	}, kv
}

// Methodology returns a built-in methodology or fails the test.
func Methodology(t *testing.T, key catalog.Key) catalog.Methodology {
	t.Helper()
	for _, m := range catalog.Builtin() {
		if m.Key == key {
			return m
		}
	}
	t.Fatalf("no built-in methodology %q", key)
	return catalog.Methodology{}
}

// KeyPress returns a printable key press.
func KeyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// SpecialKey returns a non-printable key press such as tea.KeyEnter.
func SpecialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// CtrlKey returns ctrl+r.
func CtrlKey(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Mod: tea.ModCtrl}
}

// Drain runs cmd and any batched commands it produces and returns the
// resulting messages. Tick and cursor-blink commands block, so pass only
// commands that do plain work.
func Drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, Drain(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}
