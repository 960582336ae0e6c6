package generate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"

	"github.com/dgnsrekt/lingo/internal/content"
	"github.com/dgnsrekt/lingo/internal/quiz"
)

const sampleReply = `{"title":"Colors","language":"es","questions":[
 {"prompt":"rojo?","options":["red","blue","green","white"],"answer":0,"speak":"rojo"},
 {"prompt":"azul?","options":["red","blue","green","white"],"answer":1}]}`

type fakeModel struct {
	reply  string
	err    error
	prompt string
}

func (f *fakeModel) GenerateContent(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	if len(parts) > 0 {
		if t, ok := parts[0].(genai.Text); ok {
			f.prompt = string(t)
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text(f.reply)}},
		}},
	}, nil
}

func TestParseDeck(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{"plain json", sampleReply, 2, false},
		{"fenced", "```json\n" + sampleReply + "\n```", 2, false},
		{"preamble", "Here is your deck:\n" + sampleReply, 2, false},
		{"not json", "sorry, I can't", 0, true},
		{"bad answer", `{"questions":[{"prompt":"p","options":["a","b"],"answer":5}]}`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDeck(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDeck() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(d.Questions) != tt.want {
				t.Errorf("len(Questions) = %d, want %d", len(d.Questions), tt.want)
			}
		})
	}
}

func TestParseDeckPropagatesContentErrors(t *testing.T) {
	_, err := ParseDeck(`{"questions":[{"prompt":"p","options":["a"],"answer":0}]}`)
	if !errors.Is(err, quiz.ErrInvalidQuestion) {
		t.Errorf("ParseDeck() error = %v, want ErrInvalidQuestion", err)
	}
	_, err = ParseDeck(`{"title":"empty"}`)
	if !errors.Is(err, content.ErrEmptyDeck) {
		t.Errorf("ParseDeck() error = %v, want ErrEmptyDeck", err)
	}
}

func TestGeneratorDeck(t *testing.T) {
	fm := &fakeModel{reply: `{"questions":[{"prompt":"p","options":["a","b"],"answer":1}]}`}
	g := &Generator{model: fm}

	d, err := g.Deck(context.Background(), "greetings", "pt-BR", 1)
	if err != nil {
		t.Fatalf("Deck() error = %v", err)
	}
	if d.Title != "greetings" {
		t.Errorf("Title = %q, want topic", d.Title)
	}
	if d.Language != "pt-BR" {
		t.Errorf("Language = %q, want pt-BR", d.Language)
	}
	if d.Questions[0].ID != "q1" {
		t.Errorf("question id = %q, want q1", d.Questions[0].ID)
	}
	for _, want := range []string{"greetings", "pt-BR", "exactly 1 questions"} {
		if !strings.Contains(fm.prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestGeneratorDeckErrors(t *testing.T) {
	tests := []struct {
		name    string
		model   *fakeModel
		topic   string
		n       int
		wantErr error
	}{
		{"empty topic", &fakeModel{reply: sampleReply}, " ", 5, ErrInvalidRequest},
		{"zero questions", &fakeModel{reply: sampleReply}, "food", 0, ErrInvalidRequest},
		{"too many questions", &fakeModel{reply: sampleReply}, "food", MaxQuestions + 1, ErrInvalidRequest},
		{"empty reply", &fakeModel{reply: "  "}, "food", 5, ErrEmptyResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &Generator{model: tt.model}
			if _, err := g.Deck(context.Background(), tt.topic, "es", tt.n); !errors.Is(err, tt.wantErr) {
				t.Errorf("Deck() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	g := &Generator{model: &fakeModel{err: errors.New("quota exceeded")}}
	if _, err := g.Deck(context.Background(), "food", "es", 3); err == nil {
		t.Error("Deck() error = nil when model fails")
	}
}

func TestNewRequiresKey(t *testing.T) {
	if _, err := New(context.Background(), "", ""); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("New() error = %v, want ErrNoAPIKey", err)
	}
}
