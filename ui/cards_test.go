package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dgnsrekt/lingo/internal/flashcard"
)

func newTestCards(t *testing.T, sp Speaker) (CardsModel, *flashcard.Deck) {
	t.Helper()
	d, err := flashcard.New([]flashcard.Card{
		{Front: "el perro", Back: "the dog", Example: "El perro ladra."},
		{Front: "el gato", Back: "the cat", SpeakableText: "gato"},
	})
	if err != nil {
		t.Fatalf("flashcard.New() error = %v", err)
	}
	return NewCardsModel(Config{Title: "Animals"}, d, sp), d
}

func updateCards(t *testing.T, m CardsModel, msg tea.Msg) (CardsModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	cm, ok := next.(CardsModel)
	if !ok {
		t.Fatalf("Update() returned %T, want CardsModel", next)
	}
	return cm, cmd
}

func TestCardsNavigation(t *testing.T) {
	m, d := newTestCards(t, nil)

	tests := []struct {
		name    string
		msg     tea.Msg
		index   int
		flipped bool
	}{
		{"flip", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, 0, true},
		{"next", runes("l"), 1, false},
		{"next wraps", tea.KeyMsg{Type: tea.KeyRight}, 0, false},
		{"prev wraps", runes("h"), 1, false},
		{"flip with f", runes("f"), 1, true},
	}

	for _, tt := range tests {
		m, _ = updateCards(t, m, tt.msg)
		if d.Index() != tt.index {
			t.Errorf("%s: Index() = %d, want %d", tt.name, d.Index(), tt.index)
		}
		if d.Flipped() != tt.flipped {
			t.Errorf("%s: Flipped() = %v, want %v", tt.name, d.Flipped(), tt.flipped)
		}
	}
}

func TestCardsKnown(t *testing.T) {
	m, d := newTestCards(t, nil)

	m, _ = updateCards(t, m, runes("k"))
	if d.Known() != 1 {
		t.Errorf("Known() = %d, want 1", d.Known())
	}
	m, _ = updateCards(t, m, runes("k"))
	if !d.Done() {
		t.Error("Done() = false after marking every card")
	}
	if m.status != "Every card known!" {
		t.Errorf("status = %q, want %q", m.status, "Every card known!")
	}

	m, _ = updateCards(t, m, runes("u"))
	if d.Known() != 1 {
		t.Errorf("Known() = %d after unknown, want 1", d.Known())
	}
	if view := m.View(); !strings.Contains(view, "1 known") {
		t.Errorf("View() = %q, want known count", view)
	}
}

func TestCardsCopy(t *testing.T) {
	var copied string
	orig := writeClipboard
	t.Cleanup(func() { writeClipboard = orig })

	tests := []struct {
		name   string
		err    error
		status string
	}{
		{"copied", nil, "Copied!"},
		{"unavailable", errors.New("no clipboard"), "Clipboard unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			copied = ""
			writeClipboard = func(s string) error {
				copied = s
				return tt.err
			}
			m, _ := newTestCards(t, nil)
			m, _ = updateCards(t, m, runes("c"))
			if copied != "the dog" {
				t.Errorf("copied %q, want %q", copied, "the dog")
			}
			if m.status != tt.status {
				t.Errorf("status = %q, want %q", m.status, tt.status)
			}
		})
	}
}

func TestCardsSpeak(t *testing.T) {
	sp := &fakeSpeaker{}
	m, _ := newTestCards(t, sp)

	m, _ = updateCards(t, m, runes("n"))
	m, cmd := updateCards(t, m, runes("s"))
	if cmd == nil {
		t.Fatal("speak returned nil cmd")
	}
	m, _ = updateCards(t, m, cmd())

	m, _ = updateCards(t, m, runes("f"))
	_, cmd = updateCards(t, m, runes("s"))
	if cmd == nil {
		t.Fatal("speak on back returned nil cmd")
	}
	cmd()

	want := []string{"gato", "the cat"}
	got := sp.spoken()
	if len(got) != len(want) {
		t.Fatalf("spoken = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("spoken[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCardsView(t *testing.T) {
	m, _ := newTestCards(t, nil)

	view := m.View()
	for _, want := range []string{"Animals", "Card 1 of 2", "el perro", "front"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	m, _ = updateCards(t, m, runes("f"))
	view = m.View()
	for _, want := range []string{"the dog", "El perro ladra.", "back"} {
		if !strings.Contains(view, want) {
			t.Errorf("flipped View() missing %q", want)
		}
	}
}
