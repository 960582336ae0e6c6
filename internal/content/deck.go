// Package content loads quiz and flashcard decks from YAML, JSON or TOML
// files.
package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/go-homedir"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"gopkg.in/yaml.v3"

	"github.com/dgnsrekt/lingo/internal/flashcard"
	"github.com/dgnsrekt/lingo/internal/quiz"
)

// DefaultTimeLimit is the per-question budget in seconds when neither the
// deck nor the caller sets one.
const DefaultTimeLimit = 30

var (
	ErrEmptyDeck       = errors.New("deck has no questions or cards")
	ErrUnknownFormat   = errors.New("unknown deck format")
	ErrInvalidLanguage = errors.New("invalid language tag")
	ErrInvalidCard     = errors.New("invalid card")
	ErrInvalidDeck     = errors.New("invalid deck")
)

// Format is a deck file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// Extensions lists the file patterns decks are discovered by.
var Extensions = []string{"*.yaml", "*.yml", "*.json", "*.toml"}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// QuestionSpec is a question as written in a deck file.
type QuestionSpec struct {
	ID          string   `yaml:"id,omitempty" json:"id,omitempty" toml:"id,omitempty"`
	Prompt      string   `yaml:"prompt" json:"prompt" toml:"prompt"`
	Options     []string `yaml:"options" json:"options" toml:"options"`
	Answer      int      `yaml:"answer" json:"answer" toml:"answer"`
	Explanation string   `yaml:"explanation,omitempty" json:"explanation,omitempty" toml:"explanation,omitempty"`
	Speak       string   `yaml:"speak,omitempty" json:"speak,omitempty" toml:"speak,omitempty"`
}

// CardSpec is a flashcard as written in a deck file.
type CardSpec struct {
	Front   string `yaml:"front" json:"front" toml:"front"`
	Back    string `yaml:"back" json:"back" toml:"back"`
	Example string `yaml:"example,omitempty" json:"example,omitempty" toml:"example,omitempty"`
	Speak   string `yaml:"speak,omitempty" json:"speak,omitempty" toml:"speak,omitempty"`
}

// Deck is a study deck. A deck may hold questions, cards or both.
type Deck struct {
	Title     string         `yaml:"title" json:"title" toml:"title"`
	Language  string         `yaml:"language,omitempty" json:"language,omitempty" toml:"language,omitempty"`
	TimeLimit int            `yaml:"time_limit,omitempty" json:"time_limit,omitempty" toml:"time_limit,omitempty"`
	Questions []QuestionSpec `yaml:"questions,omitempty" json:"questions,omitempty" toml:"questions,omitempty"`
	Cards     []CardSpec     `yaml:"cards,omitempty" json:"cards,omitempty" toml:"cards,omitempty"`

	// Path is set by Load.
	Path string `yaml:"-" json:"-" toml:"-"`
}

// Load reads and validates a deck file. A leading ~ is expanded.
func Load(path string) (Deck, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return Deck{}, fmt.Errorf("unable to expand path %q: %w", path, err)
	}
	format, err := FormatFromPath(expanded)
	if err != nil {
		return Deck{}, err
	}

	f, err := os.Open(expanded)
	if err != nil {
		return Deck{}, fmt.Errorf("unable to open deck: %w", err)
	}
	defer f.Close()

	d, err := Decode(f, format)
	if err != nil {
		return Deck{}, fmt.Errorf("%s: %w", expanded, err)
	}
	d.Path = expanded
	if d.Title == "" {
		d.Title = strings.TrimSuffix(filepath.Base(expanded), filepath.Ext(expanded))
	}
	return d, nil
}

// Decode reads a deck in the given format and validates it. Unknown fields
// are rejected.
func Decode(r io.Reader, format Format) (Deck, error) {
	var d Deck
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&d); err != nil {
			if errors.Is(err, io.EOF) {
				return Deck{}, ErrEmptyDeck
			}
			return Deck{}, fmt.Errorf("unable to parse yaml: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&d); err != nil {
			return Deck{}, fmt.Errorf("unable to parse json: %w", err)
		}
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&d)
		if err != nil {
			return Deck{}, fmt.Errorf("unable to parse toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Deck{}, fmt.Errorf("unable to parse toml: unknown field %q", undecoded[0].String())
		}
	default:
		return Deck{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if err := d.Validate(); err != nil {
		return Deck{}, err
	}
	return d, nil
}

// Encode writes the deck in the given format.
func (d Deck) Encode(w io.Writer, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON:
		b, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return err
		}
		_, err = w.Write(append(b, '\n'))
		return err
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(d); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Validate checks the deck and fills defaults: positional question ids
// (q1..qN) and a canonical language tag. A zero time limit is kept so the
// caller's default applies.
func (d *Deck) Validate() error {
	if len(d.Questions) == 0 && len(d.Cards) == 0 {
		return ErrEmptyDeck
	}
	if d.TimeLimit < 0 {
		return fmt.Errorf("%w: time_limit %d must be positive", ErrInvalidDeck, d.TimeLimit)
	}

	if d.Language != "" {
		tag, err := language.Parse(d.Language)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidLanguage, d.Language)
		}
		d.Language = tag.String()
	}

	seen := make(map[string]int, len(d.Questions))
	for i := range d.Questions {
		q := &d.Questions[i]
		if strings.TrimSpace(q.ID) == "" {
			q.ID = fmt.Sprintf("q%d", i+1)
		}
		if prev, dup := seen[q.ID]; dup {
			return fmt.Errorf("%w: questions %d and %d share id %q", quiz.ErrInvalidQuestion, prev+1, i+1, q.ID)
		}
		seen[q.ID] = i
		if err := q.question().Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
	}

	for i, c := range d.Cards {
		if strings.TrimSpace(c.Front) == "" || strings.TrimSpace(c.Back) == "" {
			return fmt.Errorf("%w: card %d needs a front and a back", ErrInvalidCard, i+1)
		}
	}
	return nil
}

func (q QuestionSpec) question() quiz.Question {
	return quiz.Question{
		ID:                 q.ID,
		Prompt:             q.Prompt,
		Options:            append([]string(nil), q.Options...),
		CorrectOptionIndex: q.Answer,
		Explanation:        q.Explanation,
		SpeakableText:      q.Speak,
	}
}

// TimeBudget returns the deck's time limit, or def when the deck does not
// set one. A non-positive def selects DefaultTimeLimit.
func (d Deck) TimeBudget(def int) int {
	if d.TimeLimit > 0 {
		return d.TimeLimit
	}
	if def > 0 {
		return def
	}
	return DefaultTimeLimit
}

// Quiz returns the deck's questions.
func (d Deck) Quiz() []quiz.Question {
	out := make([]quiz.Question, len(d.Questions))
	for i, q := range d.Questions {
		out[i] = q.question()
	}
	return out
}

// Flashcards returns the deck's cards.
func (d Deck) Flashcards() []flashcard.Card {
	out := make([]flashcard.Card, len(d.Cards))
	for i, c := range d.Cards {
		out[i] = flashcard.Card{
			Front:         c.Front,
			Back:          c.Back,
			Example:       c.Example,
			SpeakableText: c.Speak,
		}
	}
	return out
}

// LanguageName returns the English name of the deck language, or "" when
// the deck does not set one.
func (d Deck) LanguageName() string {
	if d.Language == "" {
		return ""
	}
	tag, err := language.Parse(d.Language)
	if err != nil {
		return d.Language
	}
	return display.English.Tags().Name(tag)
}

// Shuffle reorders the questions and cards. Options inside a question keep
// their order.
func (d *Deck) Shuffle(r *rand.Rand) {
	r.Shuffle(len(d.Questions), func(i, j int) {
		d.Questions[i], d.Questions[j] = d.Questions[j], d.Questions[i]
	})
	r.Shuffle(len(d.Cards), func(i, j int) {
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	})
}
