package ui

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/muesli/reflow/wordwrap"

	"github.com/dgnsrekt/lingo/internal/flashcard"
	"github.com/dgnsrekt/lingo/internal/speech"
)

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

// CardsModel reviews a flashcard deck.
type CardsModel struct {
	cfg     Config
	deck    *flashcard.Deck
	speaker Speaker

	keys     cardKeyMap
	help     help.Model
	progress progress.Model

	width    int
	speed    *speech.SpeedControl
	speaking bool
	status   string
}

// NewCardsModel returns a model for d. speaker may be nil.
func NewCardsModel(cfg Config, d *flashcard.Deck, speaker Speaker) CardsModel {
	m := CardsModel{
		cfg:      cfg,
		deck:     d,
		speaker:  speaker,
		keys:     newCardKeyMap(),
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient()),
		speed:    newSpeedControl(cfg),
	}
	m.progress.Width = 40
	return m
}

// Init speaks the first card when auto speak is on.
func (m CardsModel) Init() tea.Cmd {
	if m.cfg.AutoSpeak {
		return speakCmd(m.speaker, m.deck.Current().SpeechText(), speech.WithSpeed(m.speed.Speed()))
	}
	return nil
}

// Update handles messages.
func (m CardsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.progress.Width = max(10, min(60, msg.Width-16))
		return m, nil

	case spokeMsg:
		m.speaking = false
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m CardsModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Flip):
		m.deck.Flip()
	case key.Matches(msg, m.keys.Next):
		m.deck.Next()
		return m.autoSpeak()
	case key.Matches(msg, m.keys.Prev):
		m.deck.Prev()
		return m.autoSpeak()
	case key.Matches(msg, m.keys.Known):
		m.deck.MarkKnown()
		if m.deck.Done() {
			m.status = "Every card known!"
		}
		return m.autoSpeak()
	case key.Matches(msg, m.keys.Unknown):
		m.deck.MarkUnknown()
		return m.autoSpeak()
	case key.Matches(msg, m.keys.Shuffle):
		m.deck.Shuffle(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))) //nolint:gosec
		m.status = "Shuffled"
	case key.Matches(msg, m.keys.Speak):
		card := m.deck.Current()
		if m.deck.Flipped() {
			return m.speak(card.Back)
		}
		return m.speak(card.SpeechText())
	case key.Matches(msg, m.keys.Faster):
		m.speed.Faster()
		m.status = "Speed " + m.speed.String()
	case key.Matches(msg, m.keys.Slower):
		m.speed.Slower()
		m.status = "Speed " + m.speed.String()
	case key.Matches(msg, m.keys.Copy):
		if err := writeClipboard(m.deck.Current().Back); err != nil {
			log.Debug("copy to clipboard", "error", err)
			m.status = "Clipboard unavailable"
		} else {
			m.status = "Copied!"
		}
	}
	return m, nil
}

func (m CardsModel) autoSpeak() (tea.Model, tea.Cmd) {
	if !m.cfg.AutoSpeak {
		return m, nil
	}
	return m.speak(m.deck.Current().SpeechText())
}

func (m CardsModel) speak(text string) (CardsModel, tea.Cmd) {
	if m.speaking || m.speaker == nil || strings.TrimSpace(text) == "" {
		return m, nil
	}
	m.speaking = true
	return m, speakCmd(m.speaker, text, speech.WithSpeed(m.speed.Speed()))
}

// View renders the model.
func (m CardsModel) View() string {
	width := wrapWidth(m.cfg, m.width)
	card := m.deck.Current()

	title := m.cfg.Title
	if title == "" {
		title = "Flashcards"
	}

	var b strings.Builder
	b.WriteString(titleStyle(title))
	b.WriteString("  ")
	b.WriteString(counterStyle(fmt.Sprintf("Card %d of %d", m.deck.Index()+1, m.deck.Len())))
	b.WriteString("\n\n")

	face := card.Front
	side := "front"
	if m.deck.Flipped() {
		face = card.Back
		side = "back"
		if card.Example != "" {
			face += "\n\n" + faintStyle(wordwrap.String(card.Example, width-10))
		}
	}
	style := cardStyle
	if m.deck.IsKnown() {
		style = knownCardStyle
	}
	b.WriteString(style.Width(min(width, 60)).Render(promptStyle(wordwrap.String(face, width-10))))
	b.WriteString("\n")
	b.WriteString(counterStyle(side))
	b.WriteString("\n\n")

	known := float64(m.deck.Known()) / float64(m.deck.Len())
	b.WriteString(m.progress.ViewAs(known))
	b.WriteString(" " + counterStyle(fmt.Sprintf("%d known", m.deck.Known())))
	b.WriteString("\n\n")

	if m.status != "" {
		b.WriteString(statusStyle(m.status) + "\n")
	}
	if m.speaking {
		b.WriteString(speakingStyle("♪ speaking…") + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return docStyle.Render(b.String())
}
