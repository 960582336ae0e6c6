// Package flashcard implements a flip-and-review flashcard deck.
package flashcard

import (
	"errors"
	"math/rand/v2"
	"sync"
)

// ErrNoCards is returned when a deck is created without cards.
var ErrNoCards = errors.New("deck has no cards")

// Card is a single flashcard.
type Card struct {
	Front         string // Prompt side, usually the target language
	Back          string // Answer side
	Example       string // Optional usage example
	SpeakableText string // Optional text for speech output
}

// SpeechText returns the text to read aloud for the card.
func (c Card) SpeechText() string {
	if c.SpeakableText != "" {
		return c.SpeakableText
	}
	return c.Front
}

// Deck tracks position, flip state and which cards are known.
type Deck struct {
	mu      sync.RWMutex
	cards   []Card
	order   []int // order[i] is the card shown at position i
	pos     int
	flipped bool
	known   map[int]bool // keyed by card index, not position
}

// New creates a deck positioned on the first card, front side up.
func New(cards []Card) (*Deck, error) {
	if len(cards) == 0 {
		return nil, ErrNoCards
	}
	d := &Deck{
		cards: append([]Card(nil), cards...),
		order: make([]int, len(cards)),
		known: make(map[int]bool),
	}
	for i := range d.order {
		d.order[i] = i
	}
	return d, nil
}

// Len returns the number of cards.
func (d *Deck) Len() int {
	return len(d.cards)
}

// Index returns the current position in the deck.
func (d *Deck) Index() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.pos
}

// Current returns the card at the current position.
func (d *Deck) Current() Card {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cards[d.order[d.pos]]
}

// Flipped reports whether the back side is showing.
func (d *Deck) Flipped() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.flipped
}

// Flip turns the current card over.
func (d *Deck) Flip() {
	d.mu.Lock()
	d.flipped = !d.flipped
	d.mu.Unlock()
}

// Next moves to the next card, wrapping at the end.
func (d *Deck) Next() {
	d.mu.Lock()
	d.move(1)
	d.mu.Unlock()
}

// Prev moves to the previous card, wrapping at the start.
func (d *Deck) Prev() {
	d.mu.Lock()
	d.move(-1)
	d.mu.Unlock()
}

// MarkKnown marks the current card as known and moves on.
func (d *Deck) MarkKnown() {
	d.mark(true)
}

// MarkUnknown clears the known mark on the current card and moves on.
func (d *Deck) MarkUnknown() {
	d.mark(false)
}

// IsKnown reports whether the current card is marked known.
func (d *Deck) IsKnown() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.known[d.order[d.pos]]
}

// Known returns how many cards are marked known.
func (d *Deck) Known() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.known)
}

// Done reports whether every card is known.
func (d *Deck) Done() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.known) == len(d.cards)
}

// Shuffle reorders the deck and returns to the first position. Known marks
// are kept.
func (d *Deck) Shuffle(r *rand.Rand) {
	d.mu.Lock()
	defer d.mu.Unlock()
	r.Shuffle(len(d.order), func(i, j int) {
		d.order[i], d.order[j] = d.order[j], d.order[i]
	})
	d.pos = 0
	d.flipped = false
}

func (d *Deck) mark(known bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	idx := d.order[d.pos]
	if known {
		d.known[idx] = true
	} else {
		delete(d.known, idx)
	}
	d.move(1)
}

// move shifts the position by delta. Caller holds mu.
func (d *Deck) move(delta int) {
	n := len(d.order)
	d.pos = ((d.pos+delta)%n + n) % n
	d.flipped = false
}
