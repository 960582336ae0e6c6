// Package generate drafts quiz decks with a Gemini model.
package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/dgnsrekt/lingo/internal/content"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-1.5-flash"

// MaxQuestions caps a single generation request.
const MaxQuestions = 50

var (
	ErrNoAPIKey       = errors.New("gemini api key is not set")
	ErrEmptyResponse  = errors.New("model returned no text")
	ErrInvalidRequest = errors.New("invalid generation request")
)

// model is the part of genai.GenerativeModel the generator uses.
type model interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Generator asks a model for new decks.
type Generator struct {
	client *genai.Client
	model  model
}

// New creates a generator for the named model. An empty name selects
// DefaultModel.
func New(ctx context.Context, apiKey, modelName string) (*Generator, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if modelName == "" {
		modelName = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	m := client.GenerativeModel(modelName)
	m.SetTemperature(0.4)
	m.SetTopP(0.95)
	m.ResponseMIMEType = "application/json"

	return &Generator{client: client, model: m}, nil
}

// Close releases the client.
func (g *Generator) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

// Deck generates n multiple-choice questions about topic in the given
// language. The result is validated like a deck loaded from disk.
func (g *Generator) Deck(ctx context.Context, topic, language string, n int) (content.Deck, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return content.Deck{}, fmt.Errorf("%w: topic is empty", ErrInvalidRequest)
	}
	if n < 1 || n > MaxQuestions {
		return content.Deck{}, fmt.Errorf("%w: question count %d not in [1,%d]", ErrInvalidRequest, n, MaxQuestions)
	}

	resp, err := g.model.GenerateContent(ctx, genai.Text(buildPrompt(topic, language, n)))
	if err != nil {
		return content.Deck{}, fmt.Errorf("gemini request failed: %w", err)
	}

	raw := extractText(resp)
	if strings.TrimSpace(raw) == "" {
		return content.Deck{}, ErrEmptyResponse
	}

	d, err := ParseDeck(raw)
	if err != nil {
		return content.Deck{}, err
	}
	if d.Title == "" {
		d.Title = topic
	}
	if d.Language == "" && language != "" {
		d.Language = language
		if err := d.Validate(); err != nil {
			return content.Deck{}, err
		}
	}
	return d, nil
}

// ParseDeck decodes a model reply. Markdown code fences around the JSON are
// tolerated.
func ParseDeck(raw string) (content.Deck, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start > 0 && end > start {
		text = text[start : end+1]
	}

	d, err := content.Decode(strings.NewReader(text), content.FormatJSON)
	if err != nil {
		return content.Deck{}, fmt.Errorf("model reply is not a valid deck: %w", err)
	}
	return d, nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				text.WriteString(string(t))
			}
		}
	}
	return text.String()
}

func buildPrompt(topic, language string, n int) string {
	var b strings.Builder

	b.WriteString("You write multiple-choice questions for language learners.\n")
	b.WriteString("Return ONLY a JSON object. No preamble, no markdown, no backticks.\n\n")
	fmt.Fprintf(&b, "Topic: %s\n", topic)
	if language != "" {
		fmt.Fprintf(&b, "Target language (BCP 47): %s\n", language)
	}
	fmt.Fprintf(&b, "Generate exactly %d questions with 4 options each.\n", n)
	b.WriteString(`
Schema:
{"title": "string", "language": "BCP 47 tag", "questions": [
  {"prompt": "string", "options": ["string"], "answer": int, "explanation": "markdown string", "speak": "string"}
]}

"answer" is the zero-based index of the correct option.
"speak" is the phrase in the target language a tutor would read aloud.
`)
	return b.String()
}
