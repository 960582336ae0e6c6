package flashcard

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func sampleCards() []Card {
	return []Card{
		{Front: "el perro", Back: "the dog"},
		{Front: "el gato", Back: "the cat", SpeakableText: "gato"},
		{Front: "la casa", Back: "the house"},
	}
}

func TestNewEmpty(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrNoCards) {
		t.Errorf("New(nil) error = %v, want ErrNoCards", err)
	}
}

func TestNavigationWraps(t *testing.T) {
	d, err := New(sampleCards())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		step  func()
		index int
		front string
	}{
		{"prev wraps to end", d.Prev, 2, "la casa"},
		{"next wraps to start", d.Next, 0, "el perro"},
		{"next", d.Next, 1, "el gato"},
		{"prev", d.Prev, 0, "el perro"},
	}

	for _, tt := range tests {
		tt.step()
		if d.Index() != tt.index {
			t.Errorf("%s: Index() = %d, want %d", tt.name, d.Index(), tt.index)
		}
		if got := d.Current().Front; got != tt.front {
			t.Errorf("%s: Current().Front = %q, want %q", tt.name, got, tt.front)
		}
	}
}

func TestFlipResetsOnMove(t *testing.T) {
	d, _ := New(sampleCards())

	d.Flip()
	if !d.Flipped() {
		t.Fatal("Flipped() = false after Flip")
	}
	d.Flip()
	if d.Flipped() {
		t.Fatal("Flipped() = true after second Flip")
	}

	d.Flip()
	d.Next()
	if d.Flipped() {
		t.Error("Flipped() = true after Next, want front side")
	}
}

func TestMarkKnown(t *testing.T) {
	d, _ := New(sampleCards())

	d.MarkKnown()
	if d.Index() != 1 {
		t.Errorf("MarkKnown did not advance: Index() = %d", d.Index())
	}
	d.MarkKnown()
	d.MarkKnown()
	if !d.Done() {
		t.Errorf("Done() = false with %d/%d known", d.Known(), d.Len())
	}

	// Back on the first card.
	if !d.IsKnown() {
		t.Error("IsKnown() = false for first card")
	}
	d.MarkUnknown()
	if d.Known() != 2 {
		t.Errorf("Known() = %d after MarkUnknown, want 2", d.Known())
	}
	if d.Done() {
		t.Error("Done() = true after MarkUnknown")
	}
}

func TestShuffleKeepsKnown(t *testing.T) {
	d, _ := New(sampleCards())
	d.MarkKnown() // el perro

	d.Shuffle(rand.New(rand.NewPCG(1, 2)))
	if d.Index() != 0 {
		t.Errorf("Index() = %d after Shuffle, want 0", d.Index())
	}

	seen := map[string]bool{}
	knownFronts := 0
	for i := 0; i < d.Len(); i++ {
		c := d.Current()
		seen[c.Front] = true
		if d.IsKnown() {
			knownFronts++
			if c.Front != "el perro" {
				t.Errorf("known mark moved to %q", c.Front)
			}
		}
		d.Next()
	}
	if len(seen) != 3 {
		t.Errorf("shuffle lost cards: saw %v", seen)
	}
	if knownFronts != 1 {
		t.Errorf("known cards after shuffle = %d, want 1", knownFronts)
	}
}

func TestSpeechText(t *testing.T) {
	cards := sampleCards()
	if got := cards[0].SpeechText(); got != "el perro" {
		t.Errorf("SpeechText() = %q, want front", got)
	}
	if got := cards[1].SpeechText(); got != "gato" {
		t.Errorf("SpeechText() = %q, want speakable text", got)
	}
}
