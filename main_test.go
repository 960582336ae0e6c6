package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dgnsrekt/lingo/internal/content"
	"github.com/dgnsrekt/lingo/internal/history"
	"github.com/dgnsrekt/lingo/internal/speech"
)

func TestDeckExtensions(t *testing.T) {
	got := strings.Join(deckExtensions(), ",")
	if want := "yaml,yml,json,toml"; got != want {
		t.Errorf("deckExtensions() = %q, want %q", got, want)
	}
}

func TestFilterVoices(t *testing.T) {
	voices := []speech.Voice{
		{ID: "1", Name: "Rachel"},
		{ID: "2", Name: "Domi"},
		{ID: "3", Name: "Bella"},
	}

	tests := []struct {
		pattern string
		want    []string
	}{
		{"", []string{"1", "2", "3"}},
		{"rach", []string{"1"}},
		{"zzz", nil},
	}
	for _, tt := range tests {
		got := filterVoices(voices, tt.pattern)
		var ids []string
		for _, v := range got {
			ids = append(ids, v.ID)
		}
		if strings.Join(ids, ",") != strings.Join(tt.want, ",") {
			t.Errorf("filterVoices(%q) = %v, want %v", tt.pattern, ids, tt.want)
		}
	}
}

func TestFilterDecks(t *testing.T) {
	entries := []content.Entry{
		{Path: "/decks/spanish.yaml", Deck: content.Deck{Title: "Spanish basics"}},
		{Path: "/decks/verbs.toml", Deck: content.Deck{Title: "German verbs"}},
	}

	got := filterDecks(entries, "german")
	if len(got) != 1 || got[0].Path != "/decks/verbs.toml" {
		t.Errorf("filterDecks(german) = %+v, want verbs.toml", got)
	}
	if got := filterDecks(entries, ""); len(got) != 2 {
		t.Errorf("filterDecks(\"\") returned %d entries, want 2", len(got))
	}
}

func TestDeckLine(t *testing.T) {
	ok := content.Entry{
		Path: "/decks/spanish.yaml",
		Deck: content.Deck{Title: "Spanish basics", Language: "es", Questions: make([]content.QuestionSpec, 2)},
	}
	line := deckLine("/decks", ok)
	for _, want := range []string{"Spanish basics", "spanish.yaml", "Spanish, 2 questions, 0 cards"} {
		if !strings.Contains(line, want) {
			t.Errorf("deckLine() = %q, missing %q", line, want)
		}
	}

	broken := content.Entry{Path: "/decks/bad.json", Err: content.ErrEmptyDeck}
	if line := deckLine("/decks", broken); !strings.Contains(line, content.ErrEmptyDeck.Error()) {
		t.Errorf("deckLine() = %q, want the load error", line)
	}
}

func TestAttemptLine(t *testing.T) {
	a := history.Attempt{
		Deck:        "/decks/spanish.yaml",
		Score:       67,
		Correct:     2,
		Total:       3,
		StartedAt:   time.Now().Add(-95 * time.Second),
		CompletedAt: time.Now().Add(-5 * time.Second),
	}
	line := attemptLine(a)
	for _, want := range []string{"67%", "spanish.yaml", "2/3 in 1m30s", "ago"} {
		if !strings.Contains(line, want) {
			t.Errorf("attemptLine() = %q, missing %q", line, want)
		}
	}
}

func TestReloadSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lingo.yml")
	cfg := "speech:\n  voice: pNInz6obpgDQGcFmaJgB\n  requests_per_minute: 5\n"
	if err := os.WriteFile(path, []byte(cfg), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := reloadSettings(path)
	if err != nil {
		t.Fatalf("reloadSettings() error = %v", err)
	}
	if s.Speech.Voice != "pNInz6obpgDQGcFmaJgB" {
		t.Errorf("Speech.Voice = %q, want pNInz6obpgDQGcFmaJgB", s.Speech.Voice)
	}
	if s.Speech.RequestsPerMinute != 5 {
		t.Errorf("Speech.RequestsPerMinute = %d, want 5", s.Speech.RequestsPerMinute)
	}
	if s.SpeechConfig().BaseURL != speech.DefaultBaseURL {
		t.Errorf("BaseURL = %q, want default", s.SpeechConfig().BaseURL)
	}

	if err := os.WriteFile(path, []byte("speech:\n  volume: 4\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := reloadSettings(path); err == nil {
		t.Error("reloadSettings() with invalid volume returned nil error")
	}
}
